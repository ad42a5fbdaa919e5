package entity

import (
	"gorm.io/gorm"
)

// Cart is created lazily, one per customer, and is emptied (never deleted)
// when an order is placed.
type Cart struct {
	gorm.Model
	UserID uint `json:"userId" gorm:"uniqueIndex;not null"`
	User   User `json:"-"`

	Items []CartItem `json:"items" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
