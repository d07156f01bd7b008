package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// 在庫台帳。台帳行の追記とproducts.stock_quantityの更新を
// 1トランザクションで行い、片方だけ書かれる状態を作らない
type InventoryUsecase struct {
	tx  repo.TransactionManager
	log *logrus.Logger
}

// DI
func NewInventoryUsecase(tx repo.TransactionManager, log *logrus.Logger) *InventoryUsecase {
	return &InventoryUsecase{tx: tx, log: log}
}

type RecordMovementInput struct {
	ProductID   int64
	Delta       int64
	Reason      model.MovementReason
	Notes       string
	OrderItemID *int64
}

// 在庫変動を1件適用する。
// delta=0は拒否、結果が負になる場合はErrInsufficientStockで何も書かない
func (u *InventoryUsecase) RecordMovement(ctx context.Context, actorID string, in RecordMovementInput) (model.InventoryLogEntry, error) {
	if actorID == "" {
		return model.InventoryLogEntry{}, ErrUnauthenticated
	}

	fields := map[string]string{}
	if in.ProductID <= 0 {
		fields["product_id"] = "must be a positive id"
	}
	if in.Delta == 0 {
		fields["delta"] = "must not be zero"
	}
	if !in.Reason.Valid() {
		fields["reason"] = "must be one of sale, restock, adjustment, return"
	}
	if len(fields) > 0 {
		return model.InventoryLogEntry{}, NewValidationError(fields)
	}

	var created model.InventoryLogEntry

	err := withinTxRetry(ctx, u.tx, func(r repo.TxRepos) error {
		p, err := r.Products().FindByID(ctx, in.ProductID)
		if err == repo.ErrNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		//条件付きUPDATE。負になるなら行が更新されない
		ok, err := r.Inventory().ApplyDelta(ctx, in.ProductID, in.Delta)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInsufficientStock
		}

		entry, err := r.Inventory().CreateLogEntry(ctx, model.InventoryLogEntry{
			ProductID:        in.ProductID,
			ChangeInQuantity: in.Delta,
			Reason:           in.Reason,
			Notes:            in.Notes,
			OrderItemID:      in.OrderItemID,
			CreatedAt:        time.Now(),
		})
		if err != nil {
			return err
		}
		created = entry

		return r.AuditLogs().Create(ctx, model.AuditLog{
			ActorID:      actorID,
			Action:       model.AuditActionUpdateStock,
			ResourceType: model.AuditResourceProduct,
			ResourceID:   fmt.Sprintf("%d", in.ProductID),
			BeforeJSON:   fmt.Sprintf(`{"stock_quantity":%d}`, p.StockQuantity),
			AfterJSON:    fmt.Sprintf(`{"stock_quantity":%d}`, p.StockQuantity+in.Delta),
			CreatedAt:    time.Now(),
		})
	})
	if err != nil {
		return model.InventoryLogEntry{}, err
	}

	return created, nil
}

// reconcileの結果。Driftedなら手動調整が必要
type DriftReport struct {
	ProductID      int64 `json:"product_id"`
	StoredQuantity int64 `json:"stored_quantity"`
	LedgerQuantity int64 `json:"ledger_quantity"`
}

func (d DriftReport) Drifted() bool {
	return d.StoredQuantity != d.LedgerQuantity
}

// 台帳の累計と保存値を突き合わせる。
// ずれていても自動補正はしない（並行バグを隠すため）。警告ログと診断だけ返す
func (u *InventoryUsecase) Reconcile(ctx context.Context, productID int64) (DriftReport, error) {
	if productID <= 0 {
		return DriftReport{}, NewValidationError(map[string]string{"product_id": "must be a positive id"})
	}

	var report DriftReport

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Products().FindByID(ctx, productID)
		if err == repo.ErrNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		sum, err := r.Inventory().SumMovements(ctx, productID)
		if err != nil {
			return err
		}

		report = DriftReport{
			ProductID:      productID,
			StoredQuantity: p.StockQuantity,
			LedgerQuantity: sum,
		}
		return nil
	})
	if err != nil {
		return DriftReport{}, err
	}

	if report.Drifted() {
		u.log.WithFields(logrus.Fields{
			"product_id": report.ProductID,
			"stored":     report.StoredQuantity,
			"ledger":     report.LedgerQuantity,
		}).Warn("ledger drift detected")
	}

	return report, nil
}

type ListMovementsInput struct {
	ProductID int64
	Page      int
	Limit     int
}

func (u *InventoryUsecase) ListMovements(ctx context.Context, in ListMovementsInput) ([]model.InventoryLogEntry, error) {
	if in.ProductID <= 0 {
		return nil, NewValidationError(map[string]string{"product_id": "must be a positive id"})
	}
	if in.Page < 1 {
		in.Page = 1
	}
	if in.Limit < 1 || in.Limit > 100 {
		in.Limit = 50
	}

	var entries []model.InventoryLogEntry
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Products().FindByID(ctx, in.ProductID); err != nil {
			if err == repo.ErrNotFound {
				return ErrNotFound
			}
			return err
		}
		var err error
		entries, err = r.Inventory().ListByProduct(ctx, in.ProductID, in.Limit, (in.Page-1)*in.Limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
