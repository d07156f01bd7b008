package usecase_test

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// =====================
// インメモリのTxRepos。WithinTxはエラー時にスナップショットへ巻き戻すので
// 「途中で失敗したら何も書かれていない」ことをそのまま検証できる
// =====================

type memState struct {
	products   map[int64]model.Product
	categories map[int64]model.Category
	entries    []model.InventoryLogEntry
	orders     map[int64]model.Order
	items      map[int64]model.OrderItem
	profiles   map[string]model.Profile
	settings   map[string]model.StoreSettings
	audits     []model.AuditLog
	nextID     int64
}

func newMemState() *memState {
	return &memState{
		products:   map[int64]model.Product{},
		categories: map[int64]model.Category{},
		orders:     map[int64]model.Order{},
		items:      map[int64]model.OrderItem{},
		profiles:   map[string]model.Profile{},
		settings:   map[string]model.StoreSettings{},
		nextID:     0,
	}
}

func (s *memState) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memState) clone() *memState {
	c := newMemState()
	c.nextID = s.nextID
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.profiles {
		c.profiles[k] = v
	}
	for k, v := range s.settings {
		c.settings[k] = v
	}
	c.entries = append([]model.InventoryLogEntry{}, s.entries...)
	c.audits = append([]model.AuditLog{}, s.audits...)
	return c
}

// 台帳の累計（検証用のヘルパ）
func (s *memState) ledgerSum(productID int64) int64 {
	var sum int64
	for _, e := range s.entries {
		if e.ProductID == productID {
			sum += e.ChangeInQuantity
		}
	}
	return sum
}

type memTxManager struct {
	s *memState
	//条件付きUPDATEによる直列化をロックで模す
	mu sync.Mutex
	//WithinTxが呼ばれた回数（リトライ検証用）
	calls int
}

func (m *memTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	snapshot := m.s.clone()
	if err := fn(&memRepos{s: m.s}); err != nil {
		*m.s = *snapshot
		return err
	}
	return nil
}

type memRepos struct{ s *memState }

func (r *memRepos) Products() repo.ProductRepository       { return &memProductRepo{s: r.s} }
func (r *memRepos) Categories() repo.CategoryRepository    { return &memCategoryRepo{s: r.s} }
func (r *memRepos) Orders() repo.OrderRepository           { return &memOrderRepo{s: r.s} }
func (r *memRepos) OrderItems() repo.OrderItemRepository   { return &memOrderItemRepo{s: r.s} }
func (r *memRepos) Inventory() repo.InventoryRepository    { return &memInventoryRepo{s: r.s} }
func (r *memRepos) Profiles() repo.ProfileRepository       { return &memProfileRepo{s: r.s} }
func (r *memRepos) Settings() repo.StoreSettingsRepository { return &memSettingsRepo{s: r.s} }
func (r *memRepos) AuditLogs() repo.AuditLogRepository     { return &memAuditRepo{s: r.s} }

// ---------------------

type memProductRepo struct{ s *memState }

func (m *memProductRepo) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	out := []model.Product{}
	for _, p := range m.s.products {
		if p.DeletedAt.Valid {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (m *memProductRepo) FindByID(ctx context.Context, id int64) (model.Product, error) {
	p, ok := m.s.products[id]
	if !ok || p.DeletedAt.Valid {
		return model.Product{}, repo.ErrNotFound
	}
	return p, nil
}

func (m *memProductRepo) Create(ctx context.Context, p model.Product) (model.Product, error) {
	p.ID = m.s.id()
	m.s.products[p.ID] = p
	return p, nil
}

func (m *memProductRepo) Update(ctx context.Context, p model.Product) error {
	cur, ok := m.s.products[p.ID]
	if !ok || cur.DeletedAt.Valid {
		return repo.ErrNotFound
	}
	//stock_quantityは対象外
	p.StockQuantity = cur.StockQuantity
	m.s.products[p.ID] = p
	return nil
}

func (m *memProductRepo) SoftDelete(ctx context.Context, id int64) error {
	p, ok := m.s.products[id]
	if !ok || p.DeletedAt.Valid {
		return repo.ErrNotFound
	}
	p.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	m.s.products[id] = p
	return nil
}

func (m *memProductRepo) CountActive(ctx context.Context) (int64, error) {
	var n int64
	for _, p := range m.s.products {
		if p.IsActive && !p.DeletedAt.Valid {
			n++
		}
	}
	return n, nil
}

func (m *memProductRepo) ListLowStock(ctx context.Context, limit int) ([]model.Product, error) {
	out := []model.Product{}
	for _, p := range m.s.products {
		if p.IsLowStock() && !p.DeletedAt.Valid {
			out = append(out, p)
		}
	}
	return out, nil
}

// ---------------------

type memCategoryRepo struct{ s *memState }

func (m *memCategoryRepo) List(ctx context.Context) ([]model.Category, error) {
	out := []model.Category{}
	for _, c := range m.s.categories {
		out = append(out, c)
	}
	return out, nil
}

func (m *memCategoryRepo) FindByID(ctx context.Context, id int64) (model.Category, error) {
	c, ok := m.s.categories[id]
	if !ok {
		return model.Category{}, repo.ErrNotFound
	}
	return c, nil
}

func (m *memCategoryRepo) Create(ctx context.Context, c model.Category) (model.Category, error) {
	c.ID = m.s.id()
	m.s.categories[c.ID] = c
	return c, nil
}

func (m *memCategoryRepo) Update(ctx context.Context, c model.Category) error {
	if _, ok := m.s.categories[c.ID]; !ok {
		return repo.ErrNotFound
	}
	m.s.categories[c.ID] = c
	return nil
}

func (m *memCategoryRepo) Delete(ctx context.Context, id int64) error {
	for _, p := range m.s.products {
		if p.CategoryID != nil && *p.CategoryID == id {
			return repo.ErrConflict
		}
	}
	if _, ok := m.s.categories[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.s.categories, id)
	return nil
}

// ---------------------

type memInventoryRepo struct{ s *memState }

func (m *memInventoryRepo) ApplyDelta(ctx context.Context, productID int64, delta int64) (bool, error) {
	p, ok := m.s.products[productID]
	if !ok || p.DeletedAt.Valid {
		return false, nil
	}
	if p.StockQuantity+delta < 0 {
		return false, nil
	}
	p.StockQuantity += delta
	m.s.products[productID] = p
	return true, nil
}

func (m *memInventoryRepo) ApplyDeltaUnscoped(ctx context.Context, productID int64, delta int64) (bool, error) {
	p, ok := m.s.products[productID]
	if !ok {
		return false, nil
	}
	if p.StockQuantity+delta < 0 {
		return false, nil
	}
	p.StockQuantity += delta
	m.s.products[productID] = p
	return true, nil
}

func (m *memInventoryRepo) CreateLogEntry(ctx context.Context, entry model.InventoryLogEntry) (model.InventoryLogEntry, error) {
	entry.ID = m.s.id()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	m.s.entries = append(m.s.entries, entry)
	return entry, nil
}

func (m *memInventoryRepo) SumMovements(ctx context.Context, productID int64) (int64, error) {
	return m.s.ledgerSum(productID), nil
}

func (m *memInventoryRepo) ListByProduct(ctx context.Context, productID int64, limit int, offset int) ([]model.InventoryLogEntry, error) {
	out := []model.InventoryLogEntry{}
	for _, e := range m.s.entries {
		if e.ProductID == productID {
			out = append(out, e)
		}
	}
	return out, nil
}

// ---------------------

type memOrderRepo struct{ s *memState }

func (m *memOrderRepo) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	o, ok := m.s.orders[orderID]
	if !ok {
		return model.Order{}, repo.ErrNotFound
	}
	return o, nil
}

func (m *memOrderRepo) Create(ctx context.Context, order model.Order) (int64, error) {
	order.ID = m.s.id()
	m.s.orders[order.ID] = order
	return order.ID, nil
}

func (m *memOrderRepo) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	o, ok := m.s.orders[orderID]
	if !ok {
		return repo.ErrNotFound
	}
	o.Status = status
	m.s.orders[orderID] = o
	return nil
}

func (m *memOrderRepo) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, int64, error) {
	out := []model.Order{}
	for _, o := range m.s.orders {
		out = append(out, o)
	}
	return out, int64(len(out)), nil
}

func (m *memOrderRepo) Summarize(ctx context.Context, from *time.Time, to *time.Time) (repo.SalesSummary, error) {
	return repo.SalesSummary{}, nil
}

// ---------------------

type memOrderItemRepo struct{ s *memState }

func (m *memOrderItemRepo) Create(ctx context.Context, item model.OrderItem) (model.OrderItem, error) {
	item.ID = m.s.id()
	m.s.items[item.ID] = item
	return item, nil
}

func (m *memOrderItemRepo) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	out := []model.OrderItem{}
	for _, it := range m.s.items {
		if it.OrderID == orderID {
			out = append(out, it)
		}
	}
	return out, nil
}

// ---------------------

type memProfileRepo struct{ s *memState }

func (m *memProfileRepo) FindByID(ctx context.Context, id string) (model.Profile, error) {
	p, ok := m.s.profiles[id]
	if !ok {
		return model.Profile{}, repo.ErrNotFound
	}
	return p, nil
}

func (m *memProfileRepo) UpdateRole(ctx context.Context, id string, role model.Role) error {
	p, ok := m.s.profiles[id]
	if !ok {
		return repo.ErrNotFound
	}
	p.Role = role
	m.s.profiles[id] = p
	return nil
}

// ---------------------

type memSettingsRepo struct{ s *memState }

func (m *memSettingsRepo) FindByUserID(ctx context.Context, userID string) (model.StoreSettings, error) {
	s, ok := m.s.settings[userID]
	if !ok {
		return model.StoreSettings{}, repo.ErrNotFound
	}
	return s, nil
}

func (m *memSettingsRepo) Upsert(ctx context.Context, s model.StoreSettings) (model.StoreSettings, error) {
	if cur, ok := m.s.settings[s.UserID]; ok {
		s.ID = cur.ID
	} else {
		s.ID = m.s.id()
	}
	m.s.settings[s.UserID] = s
	return s, nil
}

// ---------------------

type memAuditRepo struct{ s *memState }

func (m *memAuditRepo) Create(ctx context.Context, log model.AuditLog) error {
	m.s.audits = append(m.s.audits, log)
	return nil
}

func (m *memAuditRepo) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	return append([]model.AuditLog{}, m.s.audits...), nil
}
