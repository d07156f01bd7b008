package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped, OrderStatusCancelled:
		return true
	}
	return false
}

// 注文。user_idはNULL可（ゲスト注文・管理画面からの手動注文）
type Order struct {
	ID           int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       *string     `gorm:"type:uuid;index" json:"user_id"`
	CustomerName string      `gorm:"type:varchar(255)" json:"customer_name"`
	Status       OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	//total_amountは明細のprice_at_purchase×quantityの合計。外から指定させない
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`

	PaymentMethod   string `gorm:"type:varchar(50)" json:"payment_method"`
	ShippingAddress string `gorm:"type:jsonb" json:"shipping_address"`
	Notes           string `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
