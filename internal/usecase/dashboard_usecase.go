package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// ダッシュボードのサマリカード用の集計。読み取り専用
type DashboardUsecase struct {
	productRepo repo.ProductRepository
	orderRepo   repo.OrderRepository
}

// DI
func NewDashboardUsecase(productRepo repo.ProductRepository, orderRepo repo.OrderRepository) *DashboardUsecase {
	return &DashboardUsecase{productRepo: productRepo, orderRepo: orderRepo}
}

type DashboardSummary struct {
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	SalesCount     int64           `json:"sales_count"`
	ActiveProducts int64           `json:"active_products"`
	LowStock       []model.Product `json:"low_stock"`
	RecentOrders   []model.Order   `json:"recent_orders"`
}

type SummaryInput struct {
	From *time.Time
	To   *time.Time
}

func (u *DashboardUsecase) Summary(ctx context.Context, in SummaryInput) (DashboardSummary, error) {
	sales, err := u.orderRepo.Summarize(ctx, in.From, in.To)
	if err != nil {
		return DashboardSummary{}, err
	}

	active, err := u.productRepo.CountActive(ctx)
	if err != nil {
		return DashboardSummary{}, err
	}

	low, err := u.productRepo.ListLowStock(ctx, 10)
	if err != nil {
		return DashboardSummary{}, err
	}

	recent, _, err := u.orderRepo.List(ctx, repo.OrderListFilter{Page: 1, Limit: 10})
	if err != nil {
		return DashboardSummary{}, err
	}

	return DashboardSummary{
		TotalRevenue:   sales.Revenue,
		SalesCount:     sales.Count,
		ActiveProducts: active,
		LowStock:       low,
		RecentOrders:   recent,
	}, nil
}
