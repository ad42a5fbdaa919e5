package repository

import (
	"context"

	"github.com/SinaAfzali/elite-bite/entity"

	"gorm.io/gorm"
)

type ReviewRepository struct{ DB *gorm.DB }

func NewReviewRepository(db *gorm.DB) *ReviewRepository { return &ReviewRepository{DB: db} }

func (r *ReviewRepository) Create(tx *gorm.DB, rev *entity.FoodReview) error {
	return tx.Create(rev).Error
}

func (r *ReviewRepository) Exists(tx *gorm.DB, customerID, foodID uint) (bool, error) {
	var cnt int64
	err := tx.Model(&entity.FoodReview{}).
		Where("customer_id = ? AND food_id = ?", customerID, foodID).
		Count(&cnt).Error
	return cnt > 0, err
}

func (r *ReviewRepository) ListForFood(ctx context.Context, foodID uint, limit, offset int) ([]entity.FoodReview, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	out := []entity.FoodReview{}
	err := r.DB.WithContext(ctx).Where("food_id = ?", foodID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&out).Error
	return out, err
}
