package entity

import (
	"gorm.io/gorm"
)

type Order struct {
	gorm.Model
	UserID uint `json:"userId" gorm:"index;not null"`
	User   User `json:"-"`

	RestaurantID uint       `json:"restaurantId" gorm:"index"`
	Restaurant   Restaurant `json:"-"`

	Status      OrderStatus `json:"status" gorm:"size:20;not null;default:waitingForPayment;index"`
	PaymentCode string      `json:"-" gorm:"size:10;uniqueIndex;not null"`
	TotalPrice  int64       `json:"totalPrice"`
	Tax         int64       `json:"tax"`

	Items   []OrderItem          `json:"items,omitempty" gorm:"constraint:OnDelete:CASCADE;"`
	History []OrderStatusHistory `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
}
