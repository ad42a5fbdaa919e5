package entity

import (
	"gorm.io/gorm"
)

type FoodReview struct {
	gorm.Model
	Rating  int    `json:"rating" gorm:"not null"`
	Comment string `json:"comment" gorm:"size:500"`

	FoodID     uint `json:"foodId" gorm:"uniqueIndex:idx_review_customer_food;not null"`
	Food       Food `json:"-"`
	CustomerID uint `json:"customerId" gorm:"uniqueIndex:idx_review_customer_food;not null"`
	Customer   User `json:"-"`
}
