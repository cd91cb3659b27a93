package model

import "time"

// 注文の明細。商品名・価格は確定時点のスナップショットを必ず保存
type OrderItem struct {
	ID                  int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID             int64     `gorm:"not null;index" json:"order_id"`
	ProductID           int64     `gorm:"not null;index" json:"product_id"`
	ProductNameSnapshot string    `gorm:"type:varchar(255);not null" json:"product_name_snapshot"`
	UnitPriceSnapshot   int64     `gorm:"not null" json:"unit_price_snapshot"`
	Size                string    `gorm:"type:varchar(20)" json:"size,omitempty"`
	Color               string    `gorm:"type:varchar(50)" json:"color,omitempty"`
	ImageURL            string    `gorm:"type:text" json:"image_url,omitempty"`
	Quantity            int64     `gorm:"not null" json:"quantity"`
	CreatedAt           time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
