package entity

import (
	"gorm.io/gorm"
)

type FoodCategory struct {
	gorm.Model
	Name string `gorm:"size:100;uniqueIndex;not null" json:"name"`

	Foods []Food `gorm:"foreignKey:CategoryID" json:"-"`
}
