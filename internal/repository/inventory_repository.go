package repository

import (
	"app/internal/domain/model"
	"context"
)

// 在庫台帳の永続化。台帳行の更新・削除メソッドは意図的に持たない（追記専用）
type InventoryRepository interface {
	// 結果が負にならないときだけ在庫へdeltaを適用する。
	// 適用できなければ(false, nil)
	ApplyDelta(ctx context.Context, productID int64, delta int64) (bool, error)

	// ApplyDeltaと同じ条件付き適用を、soft-delete済みの商品行にも行う。
	// 削除済み商品を含む注文のキャンセル（在庫戻し）用
	ApplyDeltaUnscoped(ctx context.Context, productID int64, delta int64) (bool, error)

	// 台帳行を追記
	CreateLogEntry(ctx context.Context, entry model.InventoryLogEntry) (model.InventoryLogEntry, error)

	// 台帳の累計（reconcile用）
	SumMovements(ctx context.Context, productID int64) (int64, error)

	// 商品ごとの台帳一覧（新しい順）
	ListByProduct(ctx context.Context, productID int64, limit int, offset int) ([]model.InventoryLogEntry, error)
}
