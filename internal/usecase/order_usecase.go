package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// 注文処理。明細作成・価格スナップショット・在庫引当（台帳のsale行）を
// 1トランザクションで行う。1件でも在庫不足なら注文全体を中止する
type OrderUsecase struct {
	tx  repo.TransactionManager
	log *logrus.Logger
}

// DI
func NewOrderUsecase(tx repo.TransactionManager, log *logrus.Logger) *OrderUsecase {
	return &OrderUsecase{tx: tx, log: log}
}

type CreateOrderItemInput struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type CreateOrderInput struct {
	CustomerName    string                 `json:"customer_name"`
	UserID          *string                `json:"user_id"`
	PaymentMethod   string                 `json:"payment_method"`
	ShippingAddress string                 `json:"shipping_address"`
	Notes           string                 `json:"notes"`
	Items           []CreateOrderItemInput `json:"items"`
}

type OrderItemOutput struct {
	ProductID       int64           `json:"product_id"`
	Quantity        int64           `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
}

type OrderOutput struct {
	ID           int64             `json:"id"`
	UserID       *string           `json:"user_id"`
	CustomerName string            `json:"customer_name"`
	Status       string            `json:"status"`
	TotalAmount  decimal.Decimal   `json:"total_amount"`
	CreatedAt    time.Time         `json:"created_at"`
	Items        []OrderItemOutput `json:"items"`
}

func (u *OrderUsecase) validateCreate(in CreateOrderInput) map[string]string {
	fields := map[string]string{}
	if in.CustomerName == "" {
		fields["customer_name"] = "is required"
	}
	if len(in.Items) == 0 {
		fields["items"] = "must contain at least one item"
	}
	for i, it := range in.Items {
		if it.ProductID <= 0 {
			fields[fmt.Sprintf("items[%d].product_id", i)] = "must be a positive id"
		}
		if it.Quantity <= 0 {
			fields[fmt.Sprintf("items[%d].quantity", i)] = "must be a positive integer"
		}
	}
	return fields
}

// 注文を作成する。total_amountは常にこちらで計算し、外からは受け取らない。
// 途中の明細でErrInsufficientStockになった場合はトランザクションごと巻き戻り、
// 先行して引き当てた在庫も残らない
func (u *OrderUsecase) CreateOrder(ctx context.Context, actorID string, in CreateOrderInput) (OrderOutput, error) {
	if actorID == "" {
		return OrderOutput{}, ErrUnauthenticated
	}
	if fields := u.validateCreate(in); len(fields) > 0 {
		return OrderOutput{}, NewValidationError(fields)
	}

	var out OrderOutput

	err := withinTxRetry(ctx, u.tx, func(r repo.TxRepos) error {
		//価格は受注時点の値をスナップショットする
		type pricedItem struct {
			productID int64
			quantity  int64
			price     decimal.Decimal
		}
		priced := make([]pricedItem, 0, len(in.Items))
		total := decimal.Zero

		for i, it := range in.Items {
			p, err := r.Products().FindByID(ctx, it.ProductID)
			if err == repo.ErrNotFound {
				return NewValidationError(map[string]string{
					fmt.Sprintf("items[%d].product_id", i): "product does not exist",
				})
			}
			if err != nil {
				return err
			}
			if !p.IsActive {
				return NewValidationError(map[string]string{
					fmt.Sprintf("items[%d].product_id", i): "product is inactive",
				})
			}

			priced = append(priced, pricedItem{productID: p.ID, quantity: it.Quantity, price: p.Price})
			total = total.Add(p.Price.Mul(decimal.NewFromInt(it.Quantity)))
		}

		now := time.Now()
		orderID, err := r.Orders().Create(ctx, model.Order{
			UserID:          in.UserID,
			CustomerName:    in.CustomerName,
			Status:          model.OrderStatusPending,
			TotalAmount:     total,
			PaymentMethod:   in.PaymentMethod,
			ShippingAddress: in.ShippingAddress,
			Notes:           in.Notes,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
		if err != nil {
			return err
		}

		outItems := make([]OrderItemOutput, 0, len(priced))
		for _, it := range priced {
			item, err := r.OrderItems().Create(ctx, model.OrderItem{
				OrderID:         orderID,
				ProductID:       it.productID,
				Quantity:        it.quantity,
				PriceAtPurchase: it.price,
				CreatedAt:       now,
			})
			if err != nil {
				return err
			}

			//在庫引当。負になるなら全体を中止
			ok, err := r.Inventory().ApplyDelta(ctx, it.productID, -it.quantity)
			if err != nil {
				return err
			}
			if !ok {
				return ErrInsufficientStock
			}

			itemID := item.ID
			if _, err := r.Inventory().CreateLogEntry(ctx, model.InventoryLogEntry{
				ProductID:        it.productID,
				ChangeInQuantity: -it.quantity,
				Reason:           model.ReasonSale,
				OrderItemID:      &itemID,
				CreatedAt:        now,
			}); err != nil {
				return err
			}

			outItems = append(outItems, OrderItemOutput{
				ProductID:       it.productID,
				Quantity:        it.quantity,
				PriceAtPurchase: it.price,
			})
		}

		out = OrderOutput{
			ID:           orderID,
			UserID:       in.UserID,
			CustomerName: in.CustomerName,
			Status:       string(model.OrderStatusPending),
			TotalAmount:  total,
			CreatedAt:    now,
			Items:        outItems,
		}
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}

	u.log.WithFields(logrus.Fields{
		"order_id": out.ID,
		"total":    out.TotalAmount.String(),
		"items":    len(out.Items),
	}).Info("order created")

	return out, nil
}

type UpdateOrderStatusInput struct {
	Status string
}

// ステータス更新。cancelledへの遷移は明細ごとにreason=returnの台帳行を積んで
// 在庫を戻す。shipped/cancelledは終端で変更不可
func (u *OrderUsecase) UpdateStatus(ctx context.Context, actorID string, orderID int64, in UpdateOrderStatusInput) error {
	if actorID == "" {
		return ErrUnauthenticated
	}
	if orderID <= 0 {
		return NewValidationError(map[string]string{"order_id": "must be a positive id"})
	}

	newStatus := model.OrderStatus(in.Status)
	switch newStatus {
	case model.OrderStatusPending, model.OrderStatusPaid, model.OrderStatusShipped, model.OrderStatusCancelled:
		// OK
	default:
		return NewValidationError(map[string]string{"status": "must be one of pending, paid, shipped, cancelled"})
	}

	return withinTxRetry(ctx, u.tx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		// すでに同じなら何もしない
		if o.Status == newStatus {
			return nil
		}
		// 終端ガード
		if o.Status == model.OrderStatusCancelled {
			return NewValidationError(map[string]string{"status": "cannot change a cancelled order"})
		}
		if o.Status == model.OrderStatusShipped {
			return NewValidationError(map[string]string{"status": "cannot change a shipped order"})
		}

		//cancelledのときだけ在庫戻し。元のsale行はそのまま残す（追記専用）
		if newStatus == model.OrderStatusCancelled {
			items, err := r.OrderItems().ListByOrderID(ctx, orderID)
			if err != nil {
				return err
			}
			now := time.Now()
			for _, it := range items {
				//商品がsoft-delete済みでも行は残っているので在庫は戻せる
				ok, err := r.Inventory().ApplyDeltaUnscoped(ctx, it.ProductID, it.Quantity)
				if err != nil {
					return err
				}
				if !ok {
					//正のdeltaで行に当たらないのは商品行自体が消えている場合だけ。
					//リトライしても直らないので競合扱いにしない
					return fmt.Errorf("product %d missing while cancelling order %d", it.ProductID, orderID)
				}
				itemID := it.ID
				if _, err := r.Inventory().CreateLogEntry(ctx, model.InventoryLogEntry{
					ProductID:        it.ProductID,
					ChangeInQuantity: it.Quantity,
					Reason:           model.ReasonReturn,
					OrderItemID:      &itemID,
					CreatedAt:        now,
				}); err != nil {
					return err
				}
			}
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, newStatus); err != nil {
			if err == repo.ErrNotFound {
				return ErrNotFound
			}
			return err
		}

		//監査ログ（UPDATE_ORDER_STATUS）
		beforeJSON := fmt.Sprintf(`{"status":%q}`, string(o.Status))
		afterJSON := fmt.Sprintf(`{"status":%q}`, string(newStatus))
		return r.AuditLogs().Create(ctx, model.AuditLog{
			ActorID:      actorID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   fmt.Sprintf("%d", orderID),
			BeforeJSON:   beforeJSON,
			AfterJSON:    afterJSON,
			CreatedAt:    time.Now(),
		})
	})
}

// キャンセルはステータス遷移の特殊形
func (u *OrderUsecase) CancelOrder(ctx context.Context, actorID string, orderID int64) error {
	return u.UpdateStatus(ctx, actorID, orderID, UpdateOrderStatusInput{Status: string(model.OrderStatusCancelled)})
}

type ListOrdersInput struct {
	Page   int
	Limit  int
	Status string
	UserID *string
	From   *time.Time
	To     *time.Time
}

func (u *OrderUsecase) List(ctx context.Context, in ListOrdersInput) ([]OrderOutput, error) {
	if in.Page < 1 {
		return nil, NewValidationError(map[string]string{"page": "must be >= 1"})
	}
	if in.Limit < 1 || in.Limit > 100 {
		return nil, NewValidationError(map[string]string{"limit": "must be between 1 and 100"})
	}
	if in.Status != "" && !model.OrderStatus(in.Status).Valid() {
		return nil, NewValidationError(map[string]string{"status": "must be one of pending, paid, shipped, cancelled"})
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().List(ctx, repo.OrderListFilter{
			Page:   in.Page,
			Limit:  in.Limit,
			Status: in.Status,
			UserID: in.UserID,
			From:   in.From,
			To:     in.To,
		})
		if err != nil {
			return err
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return err
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outs, nil
}

func (u *OrderUsecase) Get(ctx context.Context, orderID int64) (OrderOutput, error) {
	if orderID <= 0 {
		return OrderOutput{}, NewValidationError(map[string]string{"order_id": "must be a positive id"})
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return err
		}

		out = toOrderOutput(o, items)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID:       it.ProductID,
			Quantity:        it.Quantity,
			PriceAtPurchase: it.PriceAtPurchase,
		})
	}

	return OrderOutput{
		ID:           o.ID,
		UserID:       o.UserID,
		CustomerName: o.CustomerName,
		Status:       string(o.Status),
		TotalAmount:  o.TotalAmount,
		CreatedAt:    o.CreatedAt,
		Items:        outItems,
	}
}
