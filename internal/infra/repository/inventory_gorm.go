package repository

import (
	"context"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type InventoryGormRepository struct {
	db *gorm.DB
}

// DI
func NewInventoryGormRepository(db *gorm.DB) *InventoryGormRepository {
	return &InventoryGormRepository{db: db}
}

// 結果が負にならないときだけdeltaを適用する。
// WHERE句で負を弾くので、同一商品への同時操作はどちらか一方だけが通る
func (r *InventoryGormRepository) ApplyDelta(ctx context.Context, productID int64, delta int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ? AND stock_quantity + ? >= 0", productID, delta).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", delta))

	if res.Error != nil {
		if isRetryable(res.Error) {
			return false, repo.ErrConflict
		}
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	return true, nil
}

// soft-delete済みの行にも同じ条件付きUPDATEを当てる。
// 削除済み商品でも行自体は残っているので、キャンセルの在庫戻しはここを通す
func (r *InventoryGormRepository) ApplyDeltaUnscoped(ctx context.Context, productID int64, delta int64) (bool, error) {
	res := r.db.WithContext(ctx).Unscoped().
		Model(&model.Product{}).
		Where("id = ? AND stock_quantity + ? >= 0", productID, delta).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", delta))

	if res.Error != nil {
		if isRetryable(res.Error) {
			return false, repo.ErrConflict
		}
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	return true, nil
}

// 台帳行の追記。更新・削除のメソッドは実装しない
func (r *InventoryGormRepository) CreateLogEntry(ctx context.Context, entry model.InventoryLogEntry) (model.InventoryLogEntry, error) {
	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		if isRetryable(err) {
			return model.InventoryLogEntry{}, repo.ErrConflict
		}
		return model.InventoryLogEntry{}, err
	}
	return entry, nil
}

// 台帳の累計（reconcile用）
func (r *InventoryGormRepository) SumMovements(ctx context.Context, productID int64) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).
		Model(&model.InventoryLogEntry{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(change_in_quantity), 0)").
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	return sum, nil
}

func (r *InventoryGormRepository) ListByProduct(ctx context.Context, productID int64, limit int, offset int) ([]model.InventoryLogEntry, error) {
	var entries []model.InventoryLogEntry
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at desc").Order("id desc").
		Limit(limit).Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
