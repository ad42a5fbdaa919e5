package configs

import (
	"errors"
	"log/slog"

	"github.com/SinaAfzali/elite-bite/entity"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var defaultCategories = []string{"Pizza", "Burger", "Drink", "Dessert", "Iranian"}

// SeedLookups seeds the food categories.
func SeedLookups(db *gorm.DB) error {
	for _, name := range defaultCategories {
		if err := db.FirstOrCreate(&entity.FoodCategory{}, entity.FoodCategory{Name: name}).Error; err != nil {
			return err
		}
	}
	return nil
}

const (
	demoManagerEmail  = "manager@elitebite.local"
	demoCustomerEmail = "customer@elitebite.local"
	demoPassword      = "password"
)

// SeedDemo creates a manager with a restaurant and menu, and a customer.
// Running it again is a no-op.
func SeedDemo(db *gorm.DB, log *slog.Logger) error {
	var count int64
	if err := db.Model(&entity.User{}).Where("email = ?", demoManagerEmail).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Info("demo data already seeded")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		manager := entity.User{
			Email: demoManagerEmail, Password: string(hash),
			FirstName: "Demo", LastName: "Manager", Role: entity.RoleManager,
		}
		customer := entity.User{
			Email: demoCustomerEmail, Password: string(hash),
			FirstName: "Demo", LastName: "Customer", Role: entity.RoleCustomer,
		}
		if err := tx.Create(&manager).Error; err != nil {
			return err
		}
		if err := tx.Create(&customer).Error; err != nil {
			return err
		}

		rest := entity.Restaurant{Name: "Elite Pizza", Address: "Main street 1", ManagerID: manager.ID}
		if err := tx.Create(&rest).Error; err != nil {
			return err
		}

		var pizza, drink entity.FoodCategory
		if err := tx.Where("name = ?", "Pizza").First(&pizza).Error; err != nil {
			return errors.Join(errors.New("seed lookups first"), err)
		}
		if err := tx.Where("name = ?", "Drink").First(&drink).Error; err != nil {
			return err
		}

		foods := []entity.Food{
			{Name: "Margherita", Price: 100, Description: "tomato, mozzarella", IsAvailable: true, CategoryID: pizza.ID, RestaurantID: rest.ID},
			{Name: "Pepperoni", Price: 140, Description: "pepperoni, mozzarella", IsAvailable: true, CategoryID: pizza.ID, RestaurantID: rest.ID},
			{Name: "Lemonade", Price: 30, IsAvailable: true, CategoryID: drink.ID, RestaurantID: rest.ID},
		}
		if err := tx.Create(&foods).Error; err != nil {
			return err
		}
		log.Info("demo data seeded", "manager", demoManagerEmail, "customer", demoCustomerEmail)
		return nil
	})
}
