package entity

import (
	"gorm.io/gorm"
)

type Restaurant struct {
	gorm.Model
	Name        string `gorm:"not null" json:"name"`
	Address     string `json:"address"`
	Description string `json:"description"`

	// one restaurant per manager
	ManagerID uint `gorm:"uniqueIndex" json:"managerId"`
	Manager   User `gorm:"foreignKey:ManagerID" json:"-"`

	Foods  []Food  `json:"-"`
	Orders []Order `json:"-"`
}
