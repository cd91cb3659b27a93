package model

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// 有効なステータスか
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// WhatsAppチェックアウトで確定した注文。
// Refはメッセージ上の目印で、一意性は保証しない（主キーはID）。
type Order struct {
	ID  int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Ref string `gorm:"type:varchar(40);not null;index" json:"ref"`

	//配送先はフォーム入力をそのまま保持する（住所帳は持たない）
	CustomerName string `gorm:"type:varchar(255);not null" json:"customer_name"`
	Phone        string `gorm:"type:varchar(30);not null" json:"phone"`
	Address      string `gorm:"type:text;not null" json:"address"`
	Notes        string `gorm:"type:text" json:"notes"`

	Subtotal    int64 `gorm:"not null" json:"subtotal"`
	DeliveryFee int64 `gorm:"not null" json:"delivery_fee"`
	Total       int64 `gorm:"not null" json:"total"`

	Status OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
