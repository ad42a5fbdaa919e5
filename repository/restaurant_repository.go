package repository

import (
	"context"

	"github.com/SinaAfzali/elite-bite/entity"

	"gorm.io/gorm"
)

type RestaurantRepository struct {
	DB *gorm.DB
}

func NewRestaurantRepository(db *gorm.DB) *RestaurantRepository {
	return &RestaurantRepository{DB: db}
}

// FindByManager returns the restaurant the manager runs.
func (r *RestaurantRepository) FindByManager(ctx context.Context, managerID uint) (*entity.Restaurant, error) {
	var rest entity.Restaurant
	if err := r.DB.WithContext(ctx).Where("manager_id = ?", managerID).First(&rest).Error; err != nil {
		return nil, err
	}
	return &rest, nil
}
