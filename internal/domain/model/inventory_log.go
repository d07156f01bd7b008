package model

import "time"

// 在庫変動の理由
type MovementReason string

const (
	ReasonSale       MovementReason = "sale"
	ReasonRestock    MovementReason = "restock"
	ReasonAdjustment MovementReason = "adjustment"
	ReasonReturn     MovementReason = "return"
)

func (r MovementReason) Valid() bool {
	switch r {
	case ReasonSale, ReasonRestock, ReasonAdjustment, ReasonReturn:
		return true
	}
	return false
}

// 在庫台帳の1行。追記専用で、作成後の更新・削除はしない（監査証跡）。
// 訂正はreason=adjustmentの相殺行を新規に積む。
type InventoryLogEntry struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64 `gorm:"not null;index" json:"product_id"`

	//符号付きの変動量。販売・棚卸減は負、入荷・返品は正
	ChangeInQuantity int64 `gorm:"not null" json:"change_in_quantity"`

	Reason MovementReason `gorm:"type:varchar(20);not null" json:"reason"`
	Notes  string         `gorm:"type:text" json:"notes"`

	//販売由来の行は注文明細へ逆参照を持つ
	OrderItemID *int64 `gorm:"index" json:"order_item_id"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
}

func (InventoryLogEntry) TableName() string {
	return "inventory_log"
}
