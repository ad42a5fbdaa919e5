package repository

import (
	"context"
	"strings"
	"time"

	"github.com/SinaAfzali/elite-bite/entity"

	"gorm.io/gorm"
)

type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

// ---------------- Orders ----------------

// CreateOrder inserts the order together with its Items snapshot.
func (r *OrderRepository) CreateOrder(tx *gorm.DB, o *entity.Order) error {
	return tx.Create(o).Error
}

// PaymentCodeExists also looks at soft-deleted rows, which still hold the
// unique index.
func (r *OrderRepository) PaymentCodeExists(tx *gorm.DB, code string) (bool, error) {
	var cnt int64
	err := tx.Unscoped().Model(&entity.Order{}).Where("payment_code = ?", code).Count(&cnt).Error
	return cnt > 0, err
}

func (r *OrderRepository) GetOrder(ctx context.Context, orderID uint) (*entity.Order, error) {
	var o entity.Order
	if err := r.DB.WithContext(ctx).First(&o, orderID).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) GetOrderForUser(ctx context.Context, userID, orderID uint) (*entity.Order, error) {
	var o entity.Order
	err := r.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) LatestForUser(ctx context.Context, userID uint) (*entity.Order, error) {
	var o entity.Order
	err := r.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// FindPending matches the only order a payment code may confirm.
func (r *OrderRepository) FindPending(tx *gorm.DB, userID uint, code string) (*entity.Order, error) {
	var o entity.Order
	err := tx.Where("user_id = ? AND payment_code = ? AND status = ?",
		userID, code, entity.StatusWaitingForPayment).
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

type OrderSummary struct {
	ID           uint               `json:"id"`
	RestaurantID uint               `json:"restaurantId"`
	TotalPrice   int64              `json:"totalPrice"`
	Tax          int64              `json:"tax"`
	Status       entity.OrderStatus `json:"status"`
	CreatedAt    time.Time          `json:"createdAt"`
}

func (r *OrderRepository) ListOrdersForUser(ctx context.Context, userID uint, limit int) ([]OrderSummary, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	out := []OrderSummary{}
	err := r.DB.WithContext(ctx).Model(&entity.Order{}).
		Select("id, restaurant_id, total_price, tax, status, created_at").
		Where("user_id = ?", userID).
		Order("id DESC").Limit(limit).
		Scan(&out).Error
	return out, err
}

type OwnerOrderSummary struct {
	ID           uint               `json:"id"`
	UserID       uint               `json:"userId"`
	CustomerName string             `json:"customerName"`
	TotalPrice   int64              `json:"totalPrice"`
	Status       entity.OrderStatus `json:"status"`
	CreatedAt    time.Time          `json:"createdAt"`
}

func (r *OrderRepository) ListOrdersForRestaurant(ctx context.Context, restID uint, status entity.OrderStatus, page, limit int) ([]OwnerOrderSummary, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 200 {
		limit = 20
	}
	offset := (page - 1) * limit
	db := r.DB.WithContext(ctx)

	var total int64
	qCount := db.Model(&entity.Order{}).Where("restaurant_id = ?", restID)
	if status != "" {
		qCount = qCount.Where("status = ?", status)
	}
	if err := qCount.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// join users for the customer name
	var rows []struct {
		ID         uint
		UserID     uint
		TotalPrice int64
		Status     entity.OrderStatus
		CreatedAt  time.Time
		FirstName  string
		LastName   string
	}
	q := db.Table("orders AS o").
		Select("o.id, o.user_id, o.total_price, o.status, o.created_at, u.first_name, u.last_name").
		Joins("JOIN users u ON u.id = o.user_id").
		Where("o.restaurant_id = ? AND o.deleted_at IS NULL", restID)
	if status != "" {
		q = q.Where("o.status = ?", status)
	}
	if err := q.Order("o.id DESC").Limit(limit).Offset(offset).Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]OwnerOrderSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, OwnerOrderSummary{
			ID:           row.ID,
			UserID:       row.UserID,
			CustomerName: strings.TrimSpace(row.FirstName + " " + row.LastName),
			TotalPrice:   row.TotalPrice,
			Status:       row.Status,
			CreatedAt:    row.CreatedAt,
		})
	}
	return out, total, nil
}

// UpdateStatusFromTo is a guarded update: it only succeeds while the order is
// still in the from status the caller observed.
func (r *OrderRepository) UpdateStatusFromTo(tx *gorm.DB, orderID uint, from, to entity.OrderStatus) (bool, error) {
	res := tx.Model(&entity.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ---------------- History ----------------

func (r *OrderRepository) AddHistory(tx *gorm.DB, h *entity.OrderStatusHistory) error {
	return tx.Create(h).Error
}

func (r *OrderRepository) History(ctx context.Context, orderID uint) ([]entity.OrderStatusHistory, error) {
	rows := []entity.OrderStatusHistory{}
	err := r.DB.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

// ---------------- Helpers ----------------

// HasCompletedOrderWithFood gates reviews: the customer must have received
// the food in a completed order.
func (r *OrderRepository) HasCompletedOrderWithFood(tx *gorm.DB, userID, foodID uint) (bool, error) {
	var cnt int64
	err := tx.Table("order_items AS oi").
		Joins("JOIN orders o ON o.id = oi.order_id").
		Where("o.user_id = ? AND o.status = ? AND oi.food_id = ? AND o.deleted_at IS NULL",
			userID, entity.StatusCompleted, foodID).
		Count(&cnt).Error
	return cnt > 0, err
}
