package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/validator"
)

// 商品・カテゴリの管理。
// 在庫数の直接編集はここには無い。変動は必ずInventoryUsecase（台帳）を通す
type CatalogUsecase struct {
	productRepo  repo.ProductRepository
	categoryRepo repo.CategoryRepository
	tx           repo.TransactionManager
	validate     *validator.InputValidator
}

// DI
func NewCatalogUsecase(
	productRepo repo.ProductRepository,
	categoryRepo repo.CategoryRepository,
	tx repo.TransactionManager,
	validate *validator.InputValidator,
) *CatalogUsecase {
	return &CatalogUsecase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		tx:           tx,
		validate:     validate,
	}
}

type ListProductsInput struct {
	Page       int
	Limit      int
	Q          string
	CategoryID *int64
	ActiveOnly bool
	LowStock   bool
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

func (u *CatalogUsecase) ListProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if in.Page < 1 {
		return ProductListOutput{}, NewValidationError(map[string]string{"page": "must be >= 1"})
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ProductListOutput{}, NewValidationError(map[string]string{"limit": "must be between 1 and 100"})
	}

	items, total, err := u.productRepo.List(ctx, repo.ProductListQuery{
		Page:       in.Page,
		Limit:      in.Limit,
		Q:          in.Q,
		CategoryID: in.CategoryID,
		ActiveOnly: in.ActiveOnly,
		LowStock:   in.LowStock,
	})
	if err != nil {
		return ProductListOutput{}, err
	}

	return ProductListOutput{Items: items, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

// 管理画面用なのでis_active=falseでも返す
func (u *CatalogUsecase) GetProduct(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewValidationError(map[string]string{"product_id": "must be a positive id"})
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return model.Product{}, ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

type ProductInput struct {
	Name              string          `json:"name" validate:"required,max=255"`
	Description       string          `json:"description"`
	Price             decimal.Decimal `json:"price"`
	LowStockThreshold *int64          `json:"low_stock_threshold" validate:"omitempty,gte=0"`
	SKU               *string         `json:"sku" validate:"omitempty,max=100"`
	Barcode           *string         `json:"barcode" validate:"omitempty,max=100"`
	ImageURL          string          `json:"image_url"`
	ExpiryDate        *time.Time      `json:"expiry_date"`
	CategoryID        *int64          `json:"category_id" validate:"omitempty,gt=0"`
	IsActive          bool            `json:"is_active"`

	//作成時のみ。0より大きければrestockの台帳行を同時に積む
	InitialStock int64 `json:"initial_stock" validate:"gte=0"`
}

// 違反フィールドを全部まとめて返す
func (u *CatalogUsecase) validateProduct(in ProductInput) map[string]string {
	fields := u.validate.StructFields(in)
	if in.Price.IsNegative() {
		fields["price"] = "must be greater than or equal to 0"
	}
	return fields
}

// 商品を作成する。initial_stock>0のときは台帳のrestock行も同じ
// トランザクションで書き、台帳不変条件を行ゼロから成立させる
func (u *CatalogUsecase) CreateProduct(ctx context.Context, actorID string, in ProductInput) (model.Product, error) {
	if actorID == "" {
		return model.Product{}, ErrUnauthenticated
	}
	if fields := u.validateProduct(in); len(fields) > 0 {
		return model.Product{}, NewValidationError(fields)
	}

	var created model.Product

	err := withinTxRetry(ctx, u.tx, func(r repo.TxRepos) error {
		if in.CategoryID != nil {
			if _, err := r.Categories().FindByID(ctx, *in.CategoryID); err != nil {
				if err == repo.ErrNotFound {
					return NewValidationError(map[string]string{"category_id": "category does not exist"})
				}
				return err
			}
		}

		now := time.Now()
		p, err := r.Products().Create(ctx, model.Product{
			Name:              in.Name,
			Description:       in.Description,
			Price:             in.Price,
			StockQuantity:     0,
			LowStockThreshold: in.LowStockThreshold,
			SKU:               in.SKU,
			Barcode:           in.Barcode,
			ImageURL:          in.ImageURL,
			ExpiryDate:        in.ExpiryDate,
			CategoryID:        in.CategoryID,
			IsActive:          in.IsActive,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
		if err == repo.ErrConflict {
			return NewValidationError(map[string]string{"sku": "sku or barcode already in use"})
		}
		if err != nil {
			return err
		}

		//stock_quantityへの直接代入はしない。初期在庫も台帳を通す
		if in.InitialStock > 0 {
			ok, err := r.Inventory().ApplyDelta(ctx, p.ID, in.InitialStock)
			if err != nil {
				return err
			}
			if !ok {
				return ErrInsufficientStock
			}
			if _, err := r.Inventory().CreateLogEntry(ctx, model.InventoryLogEntry{
				ProductID:        p.ID,
				ChangeInQuantity: in.InitialStock,
				Reason:           model.ReasonRestock,
				Notes:            "initial stock",
				CreatedAt:        now,
			}); err != nil {
				return err
			}
			p.StockQuantity = in.InitialStock
		}

		created = p
		return nil
	})
	if err != nil {
		return model.Product{}, err
	}

	return created, nil
}

// 商品の基本情報を更新する。在庫数はここでは触らない
func (u *CatalogUsecase) UpdateProduct(ctx context.Context, actorID string, productID int64, in ProductInput) error {
	if actorID == "" {
		return ErrUnauthenticated
	}
	if productID <= 0 {
		return NewValidationError(map[string]string{"product_id": "must be a positive id"})
	}
	if fields := u.validateProduct(in); len(fields) > 0 {
		return NewValidationError(fields)
	}

	//カテゴリ確認と更新の間に削除が割り込まないよう同一トランザクションで行う
	return withinTxRetry(ctx, u.tx, func(r repo.TxRepos) error {
		if in.CategoryID != nil {
			if _, err := r.Categories().FindByID(ctx, *in.CategoryID); err != nil {
				if err == repo.ErrNotFound {
					return NewValidationError(map[string]string{"category_id": "category does not exist"})
				}
				return err
			}
		}

		err := r.Products().Update(ctx, model.Product{
			ID:                productID,
			Name:              in.Name,
			Description:       in.Description,
			Price:             in.Price,
			LowStockThreshold: in.LowStockThreshold,
			SKU:               in.SKU,
			Barcode:           in.Barcode,
			ImageURL:          in.ImageURL,
			ExpiryDate:        in.ExpiryDate,
			CategoryID:        in.CategoryID,
			IsActive:          in.IsActive,
		})
		if err == repo.ErrNotFound {
			return ErrNotFound
		}
		if err == repo.ErrConflict {
			return NewValidationError(map[string]string{"sku": "sku or barcode already in use"})
		}
		return err
	})
}

func (u *CatalogUsecase) DeleteProduct(ctx context.Context, actorID string, productID int64) error {
	if actorID == "" {
		return ErrUnauthenticated
	}
	if productID <= 0 {
		return NewValidationError(map[string]string{"product_id": "must be a positive id"})
	}

	err := u.productRepo.SoftDelete(ctx, productID)
	if err == repo.ErrNotFound {
		return ErrNotFound
	}
	return err
}

type CategoryInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
}

func (u *CatalogUsecase) ListCategories(ctx context.Context) ([]model.Category, error) {
	return u.categoryRepo.List(ctx)
}

func (u *CatalogUsecase) CreateCategory(ctx context.Context, actorID string, in CategoryInput) (model.Category, error) {
	if actorID == "" {
		return model.Category{}, ErrUnauthenticated
	}
	if fields := u.validate.StructFields(in); len(fields) > 0 {
		return model.Category{}, NewValidationError(fields)
	}

	c, err := u.categoryRepo.Create(ctx, model.Category{
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   time.Now(),
	})
	if err == repo.ErrConflict {
		return model.Category{}, NewValidationError(map[string]string{"name": "name already in use"})
	}
	if err != nil {
		return model.Category{}, err
	}
	return c, nil
}

func (u *CatalogUsecase) UpdateCategory(ctx context.Context, actorID string, categoryID int64, in CategoryInput) error {
	if actorID == "" {
		return ErrUnauthenticated
	}
	if categoryID <= 0 {
		return NewValidationError(map[string]string{"category_id": "must be a positive id"})
	}
	if fields := u.validate.StructFields(in); len(fields) > 0 {
		return NewValidationError(fields)
	}

	err := u.categoryRepo.Update(ctx, model.Category{
		ID:          categoryID,
		Name:        in.Name,
		Description: in.Description,
	})
	if err == repo.ErrNotFound {
		return ErrNotFound
	}
	if err == repo.ErrConflict {
		return NewValidationError(map[string]string{"name": "name already in use"})
	}
	return err
}

// restrict方針。参照している商品が残っている間は削除できない
func (u *CatalogUsecase) DeleteCategory(ctx context.Context, actorID string, categoryID int64) error {
	if actorID == "" {
		return ErrUnauthenticated
	}
	if categoryID <= 0 {
		return NewValidationError(map[string]string{"category_id": "must be a positive id"})
	}

	err := u.categoryRepo.Delete(ctx, categoryID)
	if err == repo.ErrNotFound {
		return ErrNotFound
	}
	if err == repo.ErrConflict {
		return NewValidationError(map[string]string{"category_id": "category is still referenced by products"})
	}
	return err
}
