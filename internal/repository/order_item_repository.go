package repository

import (
	"context"

	"app/internal/domain/model"
)

type OrderItemRepository interface {
	//IDを採番して返す（台帳行のorder_item_id逆参照に使う）
	Create(ctx context.Context, item model.OrderItem) (model.OrderItem, error)
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
}
