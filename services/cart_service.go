package services

import (
	"context"
	"errors"

	"github.com/SinaAfzali/elite-bite/entity"
	"github.com/SinaAfzali/elite-bite/repository"

	"gorm.io/gorm"
)

type CartService struct {
	DB       *gorm.DB
	CartRepo *repository.CartRepository
	FoodRepo *repository.FoodRepository
}

func NewCartService(db *gorm.DB, cr *repository.CartRepository, fr *repository.FoodRepository) *CartService {
	return &CartService{DB: db, CartRepo: cr, FoodRepo: fr}
}

type CartFood struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Price        int64  `json:"price"`
	Description  string `json:"description"`
	CategoryID   uint   `json:"categoryId"`
	RestaurantID uint   `json:"restaurantId"`
	Quantity     int    `json:"quantity"`
}

// CartView is the full cart as returned by every cart operation.
type CartView struct {
	Foods []CartFood `json:"foods"`
	Pricing
}

func newCartView(items []entity.CartItem) *CartView {
	v := &CartView{Foods: make([]CartFood, 0, len(items))}
	lines := make([]Line, 0, len(items))
	for _, it := range items {
		v.Foods = append(v.Foods, CartFood{
			ID:           it.Food.ID,
			Name:         it.Food.Name,
			Price:        it.Food.Price,
			Description:  it.Food.Description,
			CategoryID:   it.Food.CategoryID,
			RestaurantID: it.Food.RestaurantID,
			Quantity:     it.Quantity,
		})
		lines = append(lines, Line{UnitPrice: it.Food.Price, Quantity: it.Quantity})
	}
	v.Pricing = CalculatePricing(lines)
	return v
}

// Get returns the customer's cart, creating an empty one on first read.
func (s *CartService) Get(ctx context.Context, actor Actor) (*CartView, error) {
	if err := requireCustomer(actor); err != nil {
		return nil, err
	}
	_, items, err := s.CartRepo.ItemsForUser(ctx, actor.UserID)
	if err != nil {
		return nil, internal("load cart", err)
	}
	return newCartView(items), nil
}

// Add puts one unit of food into the cart. A cart holds foods of a single
// restaurant; adding another restaurant's food is rejected.
func (s *CartService) Add(ctx context.Context, actor Actor, foodID uint) (*CartView, error) {
	if err := requireCustomer(actor); err != nil {
		return nil, err
	}
	if foodID == 0 {
		return nil, invalid("foodId is required")
	}
	food, err := s.resolveFood(ctx, foodID)
	if err != nil {
		return nil, err
	}

	var items []entity.CartItem
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := s.CartRepo.GetOrCreateCart(tx, actor.UserID)
		if err != nil {
			return err
		}
		current, err := s.CartRepo.Items(tx, c.ID)
		if err != nil {
			return err
		}
		if len(current) > 0 && current[0].Food.RestaurantID != food.RestaurantID {
			return invalid("cart already contains food from another restaurant")
		}
		if err := s.CartRepo.IncrementItem(tx, c.ID, food.ID); err != nil {
			return err
		}
		items, err = s.CartRepo.Items(tx, c.ID)
		return err
	})
	if err != nil {
		return nil, wrapStore("add to cart", err)
	}
	return newCartView(items), nil
}

// Remove takes one unit of food out of the cart, deleting the line at zero.
func (s *CartService) Remove(ctx context.Context, actor Actor, foodID uint) (*CartView, error) {
	if err := requireCustomer(actor); err != nil {
		return nil, err
	}
	if foodID == 0 {
		return nil, invalid("foodId is required")
	}
	food, err := s.resolveFood(ctx, foodID)
	if err != nil {
		return nil, err
	}

	var items []entity.CartItem
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := s.CartRepo.FindByUser(tx, actor.UserID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return invalid("food is not in the cart")
		}
		if err != nil {
			return err
		}
		found, err := s.CartRepo.DecrementItem(tx, c.ID, food.ID)
		if err != nil {
			return err
		}
		if !found {
			return invalid("food is not in the cart")
		}
		items, err = s.CartRepo.Items(tx, c.ID)
		return err
	})
	if err != nil {
		return nil, wrapStore("remove from cart", err)
	}
	return newCartView(items), nil
}

func (s *CartService) resolveFood(ctx context.Context, foodID uint) (*entity.Food, error) {
	food, err := s.FoodRepo.FindByID(ctx, foodID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("food not found")
	}
	if err != nil {
		return nil, internal("load food", err)
	}
	return food, nil
}

// wrapStore passes domain errors through and marks anything else internal.
func wrapStore(msg string, err error) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return internal(msg, err)
}
