package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"kasir-pos-backend/internal/domain/entity"
	"kasir-pos-backend/internal/domain/repository"
	"kasir-pos-backend/pkg/pagination"
)

// In-memory repository fakes. Conditional updates take the same lock the
// real implementations delegate to the database, so the concurrency tests
// exercise the same guard semantics.

type fakeVoucherRepo struct {
	mu       sync.Mutex
	vouchers map[uuid.UUID]*entity.Voucher
	usages   []entity.VoucherUsage
}

func newFakeVoucherRepo() *fakeVoucherRepo {
	return &fakeVoucherRepo{vouchers: make(map[uuid.UUID]*entity.Voucher)}
}

func (r *fakeVoucherRepo) Create(ctx context.Context, voucher *entity.Voucher) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if voucher.ID == uuid.Nil {
		voucher.ID = uuid.New()
	}
	copied := *voucher
	r.vouchers[voucher.ID] = &copied
	return nil
}

func (r *fakeVoucherRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Voucher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.vouchers[id]; ok {
		copied := *v
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeVoucherRepo) GetByCode(ctx context.Context, code string) (*entity.Voucher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.vouchers {
		if v.Code == code {
			copied := *v
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeVoucherRepo) Update(ctx context.Context, voucher *entity.Voucher) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *voucher
	r.vouchers[voucher.ID] = &copied
	return nil
}

func (r *fakeVoucherRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.vouchers, id)
	return nil
}

func (r *fakeVoucherRepo) List(ctx context.Context, params *repository.VoucherFilterParams) ([]entity.Voucher, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Voucher, 0, len(r.vouchers))
	for _, v := range r.vouchers {
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

func (r *fakeVoucherRepo) IncrementUsage(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vouchers[id]
	if !ok {
		return false, nil
	}
	if v.UsageLimit != nil && v.UsageCount >= *v.UsageLimit {
		return false, nil
	}
	v.UsageCount++
	return true, nil
}

func (r *fakeVoucherRepo) CountMemberRedemptions(ctx context.Context, voucherID, memberID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, u := range r.usages {
		if u.VoucherID == voucherID && u.MemberID != nil && *u.MemberID == memberID {
			count++
		}
	}
	return count, nil
}

func (r *fakeVoucherRepo) CreateUsage(ctx context.Context, usage *entity.VoucherUsage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if usage.ID == uuid.Nil {
		usage.ID = uuid.New()
	}
	r.usages = append(r.usages, *usage)
	return nil
}

func (r *fakeVoucherRepo) usageCount(id uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.vouchers[id]; ok {
		return v.UsageCount
	}
	return 0
}

type fakePromotionRepo struct {
	mu         sync.Mutex
	promotions []entity.Promotion
}

func (r *fakePromotionRepo) Create(ctx context.Context, promotion *entity.Promotion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if promotion.ID == uuid.Nil {
		promotion.ID = uuid.New()
	}
	r.promotions = append(r.promotions, *promotion)
	return nil
}

func (r *fakePromotionRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Promotion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.promotions {
		if r.promotions[i].ID == id {
			copied := r.promotions[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakePromotionRepo) Update(ctx context.Context, promotion *entity.Promotion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.promotions {
		if r.promotions[i].ID == promotion.ID {
			r.promotions[i] = *promotion
			return nil
		}
	}
	return nil
}

func (r *fakePromotionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.promotions {
		if r.promotions[i].ID == id {
			r.promotions = append(r.promotions[:i], r.promotions[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakePromotionRepo) List(ctx context.Context, params *repository.PromotionFilterParams) ([]entity.Promotion, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Promotion, len(r.promotions))
	copy(out, r.promotions)
	return out, int64(len(out)), nil
}

func (r *fakePromotionRepo) ListActive(ctx context.Context, now time.Time) ([]entity.Promotion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Promotion
	for i := range r.promotions {
		p := r.promotions[i]
		if p.IsActive && p.InWindow(now) {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*entity.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*entity.Product)}
}

func (r *fakeProductRepo) Create(ctx context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	copied := *product
	r.products[product.ID] = &copied
	return nil
}

func (r *fakeProductRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) AtomicDecrementBatch(ctx context.Context, decrements map[uuid.UUID]int) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var failed []uuid.UUID
	for id, qty := range decrements {
		p, ok := r.products[id]
		if !ok || p.Stock < qty {
			failed = append(failed, id)
		}
	}
	if len(failed) > 0 {
		return failed, nil
	}
	for id, qty := range decrements {
		r.products[id].Stock -= qty
	}
	return nil, nil
}

func (r *fakeProductRepo) stock(id uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.products[id]; ok {
		return p.Stock
	}
	return 0
}

type fakeMemberRepo struct {
	mu      sync.Mutex
	members map[uuid.UUID]*entity.Member
	entries []entity.MemberPointEntry
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{members: make(map[uuid.UUID]*entity.Member)}
}

func (r *fakeMemberRepo) Create(ctx context.Context, member *entity.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if member.ID == uuid.Nil {
		member.ID = uuid.New()
	}
	copied := *member
	r.members[member.ID] = &copied
	return nil
}

func (r *fakeMemberRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.members[id]; ok {
		copied := *m
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeMemberRepo) GetByCode(ctx context.Context, code string) (*entity.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.members {
		if m.Code == code {
			copied := *m
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeMemberRepo) Update(ctx context.Context, member *entity.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *member
	r.members[member.ID] = &copied
	return nil
}

func (r *fakeMemberRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.members, id)
	return nil
}

func (r *fakeMemberRepo) List(ctx context.Context, params *repository.MemberFilterParams) ([]entity.Member, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Member, 0, len(r.members))
	for _, m := range r.members {
		out = append(out, *m)
	}
	return out, int64(len(out)), nil
}

func (r *fakeMemberRepo) AtomicRedeemPoints(ctx context.Context, id uuid.UUID, points int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[id]
	if !ok || m.Points < points {
		return false, nil
	}
	m.Points -= points
	return true, nil
}

func (r *fakeMemberRepo) AddPoints(ctx context.Context, id uuid.UUID, points int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.members[id]; ok {
		m.Points += points
	}
	return nil
}

func (r *fakeMemberRepo) AddTotalSpent(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.members[id]; ok {
		m.TotalSpent = m.TotalSpent.Add(amount)
	}
	return nil
}

func (r *fakeMemberRepo) CreatePointEntry(ctx context.Context, entry *entity.MemberPointEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeMemberRepo) ListPointEntries(ctx context.Context, memberID uuid.UUID, params *pagination.PaginationParams) ([]entity.MemberPointEntry, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.MemberPointEntry
	for _, e := range r.entries {
		if e.MemberID == memberID {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeMemberRepo) points(id uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.members[id]; ok {
		return m.Points
	}
	return 0
}

type fakeTransactionRepo struct {
	mu           sync.Mutex
	transactions map[uuid.UUID]*entity.Transaction
	items        map[uuid.UUID][]entity.TransactionItem
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{
		transactions: make(map[uuid.UUID]*entity.Transaction),
		items:        make(map[uuid.UUID][]entity.TransactionItem),
	}
}

func (r *fakeTransactionRepo) Create(ctx context.Context, transaction *entity.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if transaction.ID == uuid.Nil {
		transaction.ID = uuid.New()
	}
	copied := *transaction
	r.transactions[transaction.ID] = &copied
	return nil
}

func (r *fakeTransactionRepo) CreateItems(ctx context.Context, items []entity.TransactionItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		r.items[items[i].TransactionID] = append(r.items[items[i].TransactionID], items[i])
	}
	return nil
}

func (r *fakeTransactionRepo) GetByInvoiceNo(ctx context.Context, invoiceNo string) (*entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tx := range r.transactions {
		if tx.InvoiceNo == invoiceNo {
			copied := *tx
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeTransactionRepo) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.transactions[id]
	if !ok {
		return nil, nil
	}
	copied := *tx
	copied.Items = append([]entity.TransactionItem(nil), r.items[id]...)
	return &copied, nil
}

func (r *fakeTransactionRepo) List(ctx context.Context, params *repository.TransactionFilterParams) ([]entity.Transaction, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Transaction, 0, len(r.transactions))
	for _, tx := range r.transactions {
		out = append(out, *tx)
	}
	return out, int64(len(out)), nil
}

// fakeTxManager runs the body directly. Rollback is not simulated; tests
// assert on the guards, not on compensation.
type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeCache is a trivial snapshot cache for display-path tests.
type fakeCache struct {
	mu       sync.Mutex
	snapshot []entity.Promotion
	loaded   bool
	hits     int
}

func (c *fakeCache) Get() ([]entity.Promotion, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		return nil, false
	}
	c.hits++
	return c.snapshot, true
}

func (c *fakeCache) Set(promotions []entity.Promotion) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = promotions
	c.loaded = true
}

func (c *fakeCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = nil
	c.loaded = false
}
