package repository

import (
	"context"

	"github.com/SinaAfzali/elite-bite/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FoodRepository struct{ DB *gorm.DB }

func NewFoodRepository(db *gorm.DB) *FoodRepository { return &FoodRepository{DB: db} }

func (r *FoodRepository) FindByID(ctx context.Context, id uint) (*entity.Food, error) {
	var f entity.Food
	if err := r.DB.WithContext(ctx).First(&f, id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

// LockByID re-reads the food inside tx before a read-modify-write of the
// rating columns. On postgres the row is locked FOR UPDATE; sqlite already
// serializes writers.
func (r *FoodRepository) LockByID(tx *gorm.DB, id uint) (*entity.Food, error) {
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var f entity.Food
	if err := q.First(&f, id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FoodRepository) UpdateRating(tx *gorm.DB, id uint, score float64, voters int) error {
	return tx.Model(&entity.Food{}).Where("id = ?", id).
		Updates(map[string]any{
			"rating_score":        score,
			"rating_total_voters": voters,
		}).Error
}
