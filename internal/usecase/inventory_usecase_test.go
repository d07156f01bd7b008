package usecase_test

import (
	"context"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"
)

func seedProduct(s *memState, stock int64) int64 {
	id := s.id()
	s.products[id] = model.Product{ID: id, Name: "米 5kg", StockQuantity: stock, IsActive: true}
	// 既存在庫ぶんの台帳行も積んでおく（stock==累計が前提）
	if stock != 0 {
		s.entries = append(s.entries, model.InventoryLogEntry{
			ID: s.id(), ProductID: id, ChangeInQuantity: stock, Reason: model.ReasonRestock,
		})
	}
	return id
}

func TestRecordMovement_ValidationBatched(t *testing.T) {
	s := newMemState()
	log, _ := logtest.NewNullLogger()
	uc := usecase.NewInventoryUsecase(&memTxManager{s: s}, log)

	//product_id・delta・reasonの違反を一度に返す
	_, err := uc.RecordMovement(context.Background(), adminID, usecase.RecordMovementInput{
		ProductID: 0,
		Delta:     0,
		Reason:    model.MovementReason("theft"),
	})

	verr, ok := usecase.AsValidationError(err)
	assert.True(t, ok)
	assert.Contains(t, verr.Fields, "product_id")
	assert.Contains(t, verr.Fields, "delta")
	assert.Contains(t, verr.Fields, "reason")
	assert.Empty(t, s.entries)
}

func TestRecordMovement_AppliesDeltaAndLogs(t *testing.T) {
	s := newMemState()
	pid := seedProduct(s, 10)
	log, _ := logtest.NewNullLogger()
	uc := usecase.NewInventoryUsecase(&memTxManager{s: s}, log)

	entry, err := uc.RecordMovement(context.Background(), adminID, usecase.RecordMovementInput{
		ProductID: pid,
		Delta:     -4,
		Reason:    model.ReasonAdjustment,
		Notes:     "棚卸で差異",
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(-4), entry.ChangeInQuantity)

	//保存値と台帳累計が一致したまま
	assert.Equal(t, int64(6), s.products[pid].StockQuantity)
	assert.Equal(t, int64(6), s.ledgerSum(pid))

	//監査ログ（UPDATE_STOCK）にbefore/afterが残る
	if assert.Len(t, s.audits, 1) {
		assert.Equal(t, model.AuditActionUpdateStock, s.audits[0].Action)
		assert.Equal(t, adminID, s.audits[0].ActorID)
		assert.JSONEq(t, `{"stock_quantity":10}`, s.audits[0].BeforeJSON)
		assert.JSONEq(t, `{"stock_quantity":6}`, s.audits[0].AfterJSON)
	}
}

func TestRecordMovement_InsufficientStockWritesNothing(t *testing.T) {
	s := newMemState()
	pid := seedProduct(s, 3)
	before := len(s.entries)
	log, _ := logtest.NewNullLogger()
	uc := usecase.NewInventoryUsecase(&memTxManager{s: s}, log)

	_, err := uc.RecordMovement(context.Background(), adminID, usecase.RecordMovementInput{
		ProductID: pid,
		Delta:     -5,
		Reason:    model.ReasonSale,
	})
	assert.ErrorIs(t, err, usecase.ErrInsufficientStock)

	//在庫も台帳も監査ログも一切書かれていない
	assert.Equal(t, int64(3), s.products[pid].StockQuantity)
	assert.Len(t, s.entries, before)
	assert.Empty(t, s.audits)
}

func TestRecordMovement_UnknownProduct(t *testing.T) {
	s := newMemState()
	log, _ := logtest.NewNullLogger()
	uc := usecase.NewInventoryUsecase(&memTxManager{s: s}, log)

	_, err := uc.RecordMovement(context.Background(), adminID, usecase.RecordMovementInput{
		ProductID: 999,
		Delta:     1,
		Reason:    model.ReasonRestock,
	})
	assert.ErrorIs(t, err, usecase.ErrNotFound)
}

func TestReconcile_NoDrift(t *testing.T) {
	s := newMemState()
	pid := seedProduct(s, 8)
	log, hook := logtest.NewNullLogger()
	uc := usecase.NewInventoryUsecase(&memTxManager{s: s}, log)

	report, err := uc.Reconcile(context.Background(), pid)
	assert.NoError(t, err)
	assert.False(t, report.Drifted())
	assert.Equal(t, int64(8), report.StoredQuantity)
	assert.Equal(t, int64(8), report.LedgerQuantity)
	assert.Empty(t, hook.Entries)
}

func TestReconcile_ReportsDriftWithoutCorrecting(t *testing.T) {
	s := newMemState()
	pid := seedProduct(s, 8)

	//保存値だけ改変してずれを作る
	p := s.products[pid]
	p.StockQuantity = 5
	s.products[pid] = p

	log, hook := logtest.NewNullLogger()
	uc := usecase.NewInventoryUsecase(&memTxManager{s: s}, log)

	report, err := uc.Reconcile(context.Background(), pid)
	assert.NoError(t, err)
	assert.True(t, report.Drifted())
	assert.Equal(t, int64(5), report.StoredQuantity)
	assert.Equal(t, int64(8), report.LedgerQuantity)

	//自動補正しない。保存値も台帳もそのまま
	assert.Equal(t, int64(5), s.products[pid].StockQuantity)
	assert.Equal(t, int64(8), s.ledgerSum(pid))

	//警告ログが出る
	if assert.Len(t, hook.Entries, 1) {
		assert.Equal(t, "ledger drift detected", hook.LastEntry().Message)
	}
}

// WithinTxがErrConflictで失敗し続けたら上限でErrConflictを返す
func TestRecordMovement_ConflictRetryBounded(t *testing.T) {
	tx := &conflictTxManager{}
	log, _ := logtest.NewNullLogger()
	uc := usecase.NewInventoryUsecase(tx, log)

	_, err := uc.RecordMovement(context.Background(), adminID, usecase.RecordMovementInput{
		ProductID: 1,
		Delta:     1,
		Reason:    model.ReasonRestock,
	})
	assert.ErrorIs(t, err, usecase.ErrConflict)
	assert.Equal(t, 3, tx.calls)
}

type conflictTxManager struct{ calls int }

func (m *conflictTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.calls++
	return repo.ErrConflict
}
