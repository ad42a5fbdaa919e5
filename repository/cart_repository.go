package repository

import (
	"context"
	"errors"

	"github.com/SinaAfzali/elite-bite/entity"

	"gorm.io/gorm"
)

type CartRepository struct{ DB *gorm.DB }

func NewCartRepository(db *gorm.DB) *CartRepository { return &CartRepository{DB: db} }

// GetOrCreateCart returns the user's cart, creating it on first use. A
// concurrent creator losing the unique(user_id) race re-reads the winner's row.
func (r *CartRepository) GetOrCreateCart(tx *gorm.DB, userID uint) (*entity.Cart, error) {
	var c entity.Cart
	err := tx.Where("user_id = ?", userID).First(&c).Error
	if err == nil {
		return &c, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	c = entity.Cart{UserID: userID}
	// nested Transaction runs under a savepoint, so a lost race does not
	// abort the outer transaction on postgres
	err = tx.Transaction(func(sp *gorm.DB) error { return sp.Create(&c).Error })
	if err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		c = entity.Cart{}
		if err := tx.Where("user_id = ?", userID).First(&c).Error; err != nil {
			return nil, err
		}
	}
	return &c, nil
}

// FindByUser returns gorm.ErrRecordNotFound when the user never had a cart.
func (r *CartRepository) FindByUser(tx *gorm.DB, userID uint) (*entity.Cart, error) {
	var c entity.Cart
	if err := tx.Where("user_id = ?", userID).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// Items loads the cart lines with their live food rows, oldest line first.
func (r *CartRepository) Items(tx *gorm.DB, cartID uint) ([]entity.CartItem, error) {
	var items []entity.CartItem
	err := tx.Where("cart_id = ?", cartID).
		Preload("Food").
		Order("id ASC").
		Find(&items).Error
	return items, err
}

func (r *CartRepository) ItemsForUser(ctx context.Context, userID uint) (*entity.Cart, []entity.CartItem, error) {
	db := r.DB.WithContext(ctx)
	c, err := r.GetOrCreateCart(db, userID)
	if err != nil {
		return nil, nil, err
	}
	items, err := r.Items(db, c.ID)
	return c, items, err
}

// IncrementItem adds one unit of food to the cart. The increment is a single
// UPDATE so concurrent adds do not lose updates; a concurrent first insert
// hitting idx_cart_food falls back to the increment.
func (r *CartRepository) IncrementItem(tx *gorm.DB, cartID, foodID uint) error {
	res := tx.Model(&entity.CartItem{}).
		Where("cart_id = ? AND food_id = ?", cartID, foodID).
		Update("quantity", gorm.Expr("quantity + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	err := tx.Transaction(func(sp *gorm.DB) error {
		return sp.Create(&entity.CartItem{CartID: cartID, FoodID: foodID, Quantity: 1}).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return tx.Model(&entity.CartItem{}).
			Where("cart_id = ? AND food_id = ?", cartID, foodID).
			Update("quantity", gorm.Expr("quantity + 1")).Error
	}
	return err
}

// DecrementItem removes one unit; a line at quantity 1 is deleted. found is
// false when the food is not in the cart.
func (r *CartRepository) DecrementItem(tx *gorm.DB, cartID, foodID uint) (found bool, err error) {
	res := tx.Model(&entity.CartItem{}).
		Where("cart_id = ? AND food_id = ? AND quantity > 1", cartID, foodID).
		Update("quantity", gorm.Expr("quantity - 1"))
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	res = tx.Where("cart_id = ? AND food_id = ? AND quantity <= 1", cartID, foodID).
		Delete(&entity.CartItem{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *CartRepository) ClearCart(tx *gorm.DB, cartID uint) error {
	return tx.Where("cart_id = ?", cartID).Delete(&entity.CartItem{}).Error
}
