package entity

import "time"

// CartItem has no soft delete: a line whose quantity would reach zero is
// removed for real so the (cart, food) unique index stays usable.
type CartItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	CartID uint `json:"cartId" gorm:"not null;uniqueIndex:idx_cart_food"`
	Cart   Cart `json:"-"`

	FoodID uint `json:"foodId" gorm:"not null;uniqueIndex:idx_cart_food"`
	Food   Food `json:"-"`

	Quantity int `json:"quantity" gorm:"not null;default:1"`
}
