package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 商品。stock_quantityは在庫台帳（inventory_log）経由でのみ更新する。
type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`

	//在庫数。inventory_logのchange_in_quantityの累計と常に一致させる
	StockQuantity int64 `gorm:"not null;default:0" json:"stock_quantity"`

	//在庫僅少の閾値（NULLなら判定しない）
	LowStockThreshold *int64 `json:"low_stock_threshold"`

	SKU        *string    `gorm:"type:varchar(100);uniqueIndex" json:"sku"`
	Barcode    *string    `gorm:"type:varchar(100);uniqueIndex" json:"barcode"`
	ImageURL   string     `gorm:"type:text" json:"image_url"`
	ExpiryDate *time.Time `gorm:"type:date" json:"expiry_date"`
	CategoryID *int64     `gorm:"index" json:"category_id"`
	IsActive   bool       `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// 在庫僅少か。閾値が未設定なら常にfalse（導出値なので保存しない）
func (p Product) IsLowStock() bool {
	return p.LowStockThreshold != nil && p.StockQuantity <= *p.LowStockThreshold
}
