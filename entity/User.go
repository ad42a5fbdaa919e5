package entity

import (
	"gorm.io/gorm"
)

const (
	RoleCustomer = "customer"
	RoleManager  = "manager"
)

type User struct {
	gorm.Model
	Email       string `gorm:"uniqueIndex;not null" json:"email"`
	Password    string `json:"-"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	Role        string `gorm:"not null;default:customer" json:"role"`

	// preload only when needed
	Restaurant *Restaurant  `gorm:"foreignKey:ManagerID" json:"-"`
	Cart       *Cart        `json:"-"`
	Orders     []Order      `json:"-"`
	Reviews    []FoodReview `gorm:"foreignKey:CustomerID" json:"-"`
}
