package entity

import "time"

// OrderStatusHistory records the initial status and every transition after it.
type OrderStatusHistory struct {
	ID        uint        `gorm:"primarykey" json:"id"`
	OrderID   uint        `json:"orderId" gorm:"index;not null"`
	From      OrderStatus `json:"from" gorm:"column:from_status;size:20"`
	To        OrderStatus `json:"to" gorm:"column:to_status;size:20;not null"`
	ChangedBy uint        `json:"changedBy"`
	CreatedAt time.Time   `json:"createdAt"`
}
