package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"app/internal/domain/model"
)

type OrderListFilter struct {
	Page   int
	Limit  int
	Status string
	UserID *string
	From   *time.Time
	To     *time.Time
}

// ダッシュボードの売上集計
type SalesSummary struct {
	Revenue decimal.Decimal
	Count   int64
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	Create(ctx context.Context, order model.Order) (int64, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error
	List(ctx context.Context, f OrderListFilter) ([]model.Order, int64, error)

	//pending以外（paid/shipped）の売上合計と件数
	Summarize(ctx context.Context, from *time.Time, to *time.Time) (SalesSummary, error)
}
