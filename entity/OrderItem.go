package entity

import "time"

// OrderItem is a snapshot of a food at order time. FoodID is kept as a plain
// reference (no FK) so later catalog edits or deletes never touch history.
type OrderItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	OrderID uint `json:"orderId" gorm:"index;not null"`

	FoodID          uint   `json:"foodId" gorm:"index"`
	FoodName        string `json:"foodName" gorm:"size:100;not null"`
	FoodPrice       int64  `json:"foodPrice"`
	FoodDescription string `json:"foodDescription"`
	FoodCategoryID  uint   `json:"foodCategoryId"`
	Quantity        int    `json:"quantity"`
}
