package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"
	"app/internal/validator"
)

func newCatalogUsecase(s *memState) *usecase.CatalogUsecase {
	r := &memRepos{s: s}
	return usecase.NewCatalogUsecase(r.Products(), r.Categories(), &memTxManager{s: s}, validator.New())
}

func TestCreateProduct_ValidationBatched(t *testing.T) {
	uc := newCatalogUsecase(newMemState())

	threshold := int64(-1)
	_, err := uc.CreateProduct(context.Background(), adminID, usecase.ProductInput{
		Name:              "",
		Price:             decimal.RequireFromString("-1.00"),
		LowStockThreshold: &threshold,
	})

	//違反フィールドを全部まとめて返す
	verr, ok := usecase.AsValidationError(err)
	assert.True(t, ok)
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "price")
	assert.Contains(t, verr.Fields, "low_stock_threshold")
}

func TestCreateProduct_InitialStockGoesThroughLedger(t *testing.T) {
	s := newMemState()
	uc := newCatalogUsecase(s)

	p, err := uc.CreateProduct(context.Background(), adminID, usecase.ProductInput{
		Name:         "米 5kg",
		Price:        decimal.RequireFromString("10.00"),
		IsActive:     true,
		InitialStock: 3,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(3), p.StockQuantity)

	//行ゼロから不変条件が成立している
	assert.Equal(t, int64(3), s.products[p.ID].StockQuantity)
	assert.Equal(t, int64(3), s.ledgerSum(p.ID))

	//restockの台帳行が1つ
	if assert.Len(t, s.entries, 1) {
		assert.Equal(t, model.ReasonRestock, s.entries[0].Reason)
		assert.Equal(t, int64(3), s.entries[0].ChangeInQuantity)
	}
}

func TestCreateProduct_NoInitialStockNoEntries(t *testing.T) {
	s := newMemState()
	uc := newCatalogUsecase(s)

	p, err := uc.CreateProduct(context.Background(), adminID, usecase.ProductInput{
		Name:     "醤油",
		Price:    decimal.RequireFromString("5.50"),
		IsActive: true,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(0), p.StockQuantity)
	assert.Empty(t, s.entries)
}

func TestCreateProduct_UnknownCategory(t *testing.T) {
	uc := newCatalogUsecase(newMemState())

	categoryID := int64(99)
	_, err := uc.CreateProduct(context.Background(), adminID, usecase.ProductInput{
		Name:       "米 5kg",
		Price:      decimal.RequireFromString("10.00"),
		CategoryID: &categoryID,
	})

	verr, ok := usecase.AsValidationError(err)
	assert.True(t, ok)
	assert.Contains(t, verr.Fields, "category_id")
}

func TestDeleteCategory_RestrictWhileReferenced(t *testing.T) {
	s := newMemState()
	categoryID := s.id()
	pid := s.id()
	s.products[pid] = model.Product{ID: pid, Name: "米 5kg", CategoryID: &categoryID, IsActive: true}
	uc := newCatalogUsecase(s)

	//参照されている間は削除できない
	err := uc.DeleteCategory(context.Background(), adminID, categoryID)
	verr, ok := usecase.AsValidationError(err)
	assert.True(t, ok)
	assert.Contains(t, verr.Fields, "category_id")
}

func TestUpdateProduct_UnknownCategory(t *testing.T) {
	s := newMemState()
	pid := s.id()
	s.products[pid] = model.Product{ID: pid, Name: "米 5kg", IsActive: true}
	uc := newCatalogUsecase(s)

	categoryID := int64(99)
	err := uc.UpdateProduct(context.Background(), adminID, pid, usecase.ProductInput{
		Name:       "米 5kg",
		Price:      decimal.RequireFromString("10.00"),
		CategoryID: &categoryID,
	})

	verr, ok := usecase.AsValidationError(err)
	assert.True(t, ok)
	assert.Contains(t, verr.Fields, "category_id")
}

// トランザクション開始直前にカテゴリが消えるケース
type categoryDroppingTxManager struct {
	inner      *memTxManager
	categoryID int64
}

func (m *categoryDroppingTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	delete(m.inner.s.categories, m.categoryID)
	return m.inner.WithinTx(ctx, fn)
}

// カテゴリ確認は更新と同じトランザクション内で行うので、
// 事前チェック後に削除が割り込んでもすり抜けない
func TestUpdateProduct_CategoryDeletedBeforeTx(t *testing.T) {
	s := newMemState()
	categoryID := s.id()
	s.categories[categoryID] = model.Category{ID: categoryID, Name: "食品"}
	pid := s.id()
	s.products[pid] = model.Product{ID: pid, Name: "米 5kg", IsActive: true}

	r := &memRepos{s: s}
	tx := &categoryDroppingTxManager{inner: &memTxManager{s: s}, categoryID: categoryID}
	uc := usecase.NewCatalogUsecase(r.Products(), r.Categories(), tx, validator.New())

	err := uc.UpdateProduct(context.Background(), adminID, pid, usecase.ProductInput{
		Name:       "玄米 5kg",
		Price:      decimal.RequireFromString("12.00"),
		CategoryID: &categoryID,
	})

	verr, ok := usecase.AsValidationError(err)
	assert.True(t, ok)
	assert.Contains(t, verr.Fields, "category_id")

	//商品は更新されていない
	assert.Equal(t, "米 5kg", s.products[pid].Name)
}

func TestUpdateProduct_PersistsWithExistingCategory(t *testing.T) {
	s := newMemState()
	categoryID := s.id()
	s.categories[categoryID] = model.Category{ID: categoryID, Name: "食品"}
	pid := s.id()
	s.products[pid] = model.Product{ID: pid, Name: "米 5kg", StockQuantity: 7, IsActive: true}
	uc := newCatalogUsecase(s)

	err := uc.UpdateProduct(context.Background(), adminID, pid, usecase.ProductInput{
		Name:       "玄米 5kg",
		Price:      decimal.RequireFromString("12.00"),
		CategoryID: &categoryID,
		IsActive:   true,
	})
	assert.NoError(t, err)
	assert.Equal(t, "玄米 5kg", s.products[pid].Name)
	//在庫数は更新対象外
	assert.Equal(t, int64(7), s.products[pid].StockQuantity)
}

func TestGetProduct_NotFound(t *testing.T) {
	uc := newCatalogUsecase(newMemState())

	_, err := uc.GetProduct(context.Background(), 123)
	assert.ErrorIs(t, err, usecase.ErrNotFound)
}

func TestCreateProduct_RequiresActor(t *testing.T) {
	uc := newCatalogUsecase(newMemState())

	_, err := uc.CreateProduct(context.Background(), "", usecase.ProductInput{
		Name:  "米 5kg",
		Price: decimal.RequireFromString("10.00"),
	})
	assert.ErrorIs(t, err, usecase.ErrUnauthenticated)
}
