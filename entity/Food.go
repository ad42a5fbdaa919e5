package entity

import (
	"gorm.io/gorm"
)

type Food struct {
	gorm.Model
	Name        string `gorm:"size:100;not null" json:"name"`
	Price       int64  `gorm:"not null" json:"price"`
	Description string `json:"description"`
	IsAvailable bool   `gorm:"default:false" json:"isAvailable"`

	// running average, two decimals
	RatingScore       float64 `json:"ratingScore"`
	RatingTotalVoters int     `json:"ratingTotalVoters"`

	CategoryID uint         `json:"categoryId"`
	Category   FoodCategory `json:"-"`

	RestaurantID uint       `json:"restaurantId"`
	Restaurant   Restaurant `json:"-"`
}
