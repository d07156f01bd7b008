package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// 一意制約違反・外部キー違反・直列化失敗のときに返す（リトライ or 409相当）
var ErrConflict = errors.New("conflict")

// 一覧検索
type ProductListQuery struct {
	Page       int
	Limit      int
	Q          string
	CategoryID *int64
	ActiveOnly bool
	LowStock   bool
	Sort       string
}

// 商品の永続化（保存・取得）だけを約束。
// StockQuantityの更新はInventoryRepository経由のみ
type ProductRepository interface {
	List(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	SoftDelete(ctx context.Context, id int64) error

	//ダッシュボード用
	CountActive(ctx context.Context) (int64, error)
	ListLowStock(ctx context.Context, limit int) ([]model.Product, error)
}
