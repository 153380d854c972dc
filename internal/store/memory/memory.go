package memory

import (
	"context"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"tillpoint/backend/internal/domain"
	"tillpoint/backend/internal/store"
	"tillpoint/backend/internal/valuation"
	"tillpoint/backend/internal/xid"
)

// Store is an in-memory repository used by tests and as a dev fallback when
// DATABASE_URL is unset. A single mutex guards every mutation, which also
// gives the movement-write + recompute + product-write cycle the per-product
// atomicity the ledger requires.
type Store struct {
	mu             sync.RWMutex
	categories     map[string]domain.Category
	products       map[string]domain.Product
	productOrder   []string
	suppliers      map[string]domain.Supplier
	movements      map[string]domain.StockMovement
	movementOrder  []string
	imports        map[string]domain.StockImport
	importOrder    []string
	vouchers       map[string]domain.Voucher
	sales          map[string]domain.Sale
	saleOrder      []string
	quickSales     []domain.QuickSale
	summaries      map[string]domain.DailySummary // keyed cashier|date
	withdrawals    []domain.Withdrawal
	settings       *domain.BusinessSettings
	users          map[string]domain.UserAccount
}

func New() *Store {
	return &Store{
		categories: map[string]domain.Category{},
		products:   map[string]domain.Product{},
		suppliers:  map[string]domain.Supplier{},
		movements:  map[string]domain.StockMovement{},
		imports:    map[string]domain.StockImport{},
		vouchers:   map[string]domain.Voucher{},
		sales:      map[string]domain.Sale{},
		summaries:  map[string]domain.DailySummary{},
		users:      map[string]domain.UserAccount{},
	}
}

// NewSeeded returns a store preloaded with demo catalog data and the dev user
// accounts. Credentials come from SEED_ADMIN_PASSWORD / SEED_CASHIER_PASSWORD,
// falling back to dev defaults with a warning.
func NewSeeded() *Store {
	s := New()
	now := time.Now().UTC()

	beverages := domain.Category{ID: xid.New("cat"), Name: "Beverages"}
	bakery := domain.Category{ID: xid.New("cat"), Name: "Bakery"}
	s.categories[beverages.ID] = beverages
	s.categories[bakery.ID] = bakery

	for _, p := range []domain.Product{
		{
			ID:                    xid.New("prod"),
			Name:                  "Espresso Beans 1kg",
			CategoryID:            &beverages.ID,
			PriceWithVAT:          decimal.RequireFromString("13.44"),
			PriceWithoutVAT:       decimal.RequireFromString("12.00"),
			MeasurementOfQuantity: decimal.RequireFromString("1"),
			Unit:                  "kg",
			TaxRate:               decimal.RequireFromString("0.12"),
			AveragePrice:          decimal.Zero,
			IsActive:              true,
			CreatedAt:             now,
			UpdatedAt:             now,
		},
		{
			ID:                    xid.New("prod"),
			Name:                  "Sourdough Loaf",
			CategoryID:            &bakery.ID,
			PriceWithVAT:          decimal.RequireFromString("4.48"),
			PriceWithoutVAT:       decimal.RequireFromString("4.00"),
			MeasurementOfQuantity: decimal.RequireFromString("1"),
			Unit:                  "pc",
			TaxRate:               decimal.RequireFromString("0.12"),
			AveragePrice:          decimal.Zero,
			IsActive:              true,
			CreatedAt:             now,
			UpdatedAt:             now,
		},
	} {
		s.products[p.ID] = p
		s.productOrder = append(s.productOrder, p.ID)
	}

	adminPwd := envOr("SEED_ADMIN_PASSWORD", "admin123")
	cashierPwd := envOr("SEED_CASHIER_PASSWORD", "cashier123")
	if os.Getenv("SEED_ADMIN_PASSWORD") == "" || os.Getenv("SEED_CASHIER_PASSWORD") == "" {
		log.Println("[memory-store] WARNING: using default dev credentials. Set SEED_ADMIN_PASSWORD and SEED_CASHIER_PASSWORD to override.")
	}
	for _, u := range []struct {
		username string
		password string
		role     string
	}{
		{"admin", adminPwd, domain.RoleAdmin},
		{"cashier", cashierPwd, domain.RoleCashier},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("[memory-store] failed to hash seed password for %s: %v", u.username, err)
		}
		s.users[u.username] = domain.UserAccount{
			Username:  u.username,
			Password:  string(hash),
			Role:      u.role,
			Active:    true,
			CreatedAt: now,
		}
	}

	return s
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// --- categories ---

func (s *Store) CreateCategory(_ context.Context, category domain.Category) (*domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.categories {
		if strings.EqualFold(existing.Name, category.Name) {
			return nil, store.ErrConflict
		}
	}
	if category.ParentID != nil {
		if _, ok := s.categories[*category.ParentID]; !ok {
			return nil, store.ErrNotFound
		}
	}
	if category.ID == "" {
		category.ID = xid.New("cat")
	}
	s.categories[category.ID] = category
	created := category
	return &created, nil
}

func (s *Store) ListCategories(_ context.Context) ([]domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Category, 0, len(s.categories))
	for _, c := range s.categories {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (s *Store) GetCategory(_ context.Context, id string) (*domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categories[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (s *Store) DeleteCategory(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return store.ErrNotFound
	}
	for _, c := range s.categories {
		if c.ParentID != nil && *c.ParentID == id {
			return store.ErrConflict
		}
	}
	for _, p := range s.products {
		if p.CategoryID != nil && *p.CategoryID == id {
			return store.ErrConflict
		}
	}
	delete(s.categories, id)
	return nil
}

// --- products ---

func (s *Store) CreateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.EANCode != nil {
		for _, existing := range s.products {
			if existing.EANCode != nil && *existing.EANCode == *product.EANCode {
				return nil, store.ErrConflict
			}
		}
	}
	if product.CategoryID != nil {
		if _, ok := s.categories[*product.CategoryID]; !ok {
			return nil, store.ErrNotFound
		}
	}
	if product.ID == "" {
		product.ID = xid.New("prod")
	}
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now
	s.products[product.ID] = product
	s.productOrder = append(s.productOrder, product.ID)
	created := product
	return &created, nil
}

func (s *Store) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (s *Store) ListProducts(_ context.Context, activeOnly bool) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Product, 0, len(s.productOrder))
	for _, id := range s.productOrder {
		p := s.products[id]
		if activeOnly && !p.IsActive {
			continue
		}
		result = append(result, p)
	}
	return result, nil
}

func (s *Store) LatestProduct(_ context.Context) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.productOrder) - 1; i >= 0; i-- {
		p := s.products[s.productOrder[i]]
		if p.IsActive {
			return &p, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) UpdateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.products[product.ID]
	if !ok {
		return nil, store.ErrNotFound
	}
	if product.EANCode != nil {
		for id, other := range s.products {
			if id != product.ID && other.EANCode != nil && *other.EANCode == *product.EANCode {
				return nil, store.ErrConflict
			}
		}
	}
	if product.CategoryID != nil {
		if _, ok := s.categories[*product.CategoryID]; !ok {
			return nil, store.ErrNotFound
		}
	}
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = time.Now().UTC()
	s.products[product.ID] = product
	updated := product
	return &updated, nil
}

func (s *Store) SoftDeleteProduct(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return store.ErrNotFound
	}
	p.IsActive = false
	p.EANCode = nil
	p.UpdatedAt = time.Now().UTC()
	s.products[id] = p
	return nil
}

// --- suppliers ---

func (s *Store) CreateSupplier(_ context.Context, supplier domain.Supplier) (*domain.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if supplier.ID == "" {
		supplier.ID = xid.New("sup")
	}
	now := time.Now().UTC()
	supplier.CreatedAt = now
	supplier.UpdatedAt = now
	s.suppliers[supplier.ID] = supplier
	created := supplier
	return &created, nil
}

func (s *Store) GetSupplier(_ context.Context, id string) (*domain.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sup, ok := s.suppliers[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &sup, nil
}

func (s *Store) ListSuppliers(_ context.Context) ([]domain.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Supplier, 0, len(s.suppliers))
	for _, sup := range s.suppliers {
		result = append(result, sup)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (s *Store) UpdateSupplier(_ context.Context, supplier domain.Supplier) (*domain.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.suppliers[supplier.ID]
	if !ok {
		return nil, store.ErrNotFound
	}
	supplier.CreatedAt = existing.CreatedAt
	supplier.UpdatedAt = time.Now().UTC()
	s.suppliers[supplier.ID] = supplier
	updated := supplier
	return &updated, nil
}

func (s *Store) DeleteSupplier(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.suppliers[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.suppliers, id)
	return nil
}

// --- stock movements ---

// incomingLedgerLocked returns the currently existing incoming movements for
// a product. Callers must hold the lock.
func (s *Store) incomingLedgerLocked(productID string) []domain.StockMovement {
	ledger := make([]domain.StockMovement, 0, 16)
	for _, id := range s.movementOrder {
		mov := s.movements[id]
		if mov.ProductID == productID && mov.MovementType == domain.MovementIncoming {
			ledger = append(ledger, mov)
		}
	}
	return ledger
}

// createMovementLocked appends a ledger entry and updates the product state.
// Callers must hold the lock and have verified the product exists.
func (s *Store) createMovementLocked(mov domain.StockMovement) domain.StockMovementResult {
	if mov.ID == "" {
		mov.ID = xid.New("mov")
	}
	if mov.CreatedAt.IsZero() {
		mov.CreatedAt = time.Now().UTC()
	}
	s.movements[mov.ID] = mov
	s.movementOrder = append(s.movementOrder, mov.ID)

	product := s.products[mov.ProductID]
	product = valuation.ApplyMovement(product, mov, s.incomingLedgerLocked(mov.ProductID))
	product.UpdatedAt = time.Now().UTC()
	s.products[product.ID] = product

	return domain.StockMovementResult{Movement: mov, Product: product}
}

func (s *Store) CreateStockMovement(_ context.Context, mov domain.StockMovement) (*domain.StockMovementResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if mov.Quantity < 1 {
		return nil, store.ErrInvalid
	}
	if mov.MovementType != domain.MovementIncoming && mov.MovementType != domain.MovementOutgoing {
		return nil, store.ErrInvalid
	}
	if _, ok := s.products[mov.ProductID]; !ok {
		return nil, store.ErrNotFound
	}
	if mov.SupplierID != nil {
		if _, ok := s.suppliers[*mov.SupplierID]; !ok {
			return nil, store.ErrNotFound
		}
	}

	result := s.createMovementLocked(mov)
	return &result, nil
}

func (s *Store) DeleteStockMovement(_ context.Context, id string) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mov, ok := s.movements[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	delete(s.movements, id)
	for i, movID := range s.movementOrder {
		if movID == id {
			s.movementOrder = append(s.movementOrder[:i], s.movementOrder[i+1:]...)
			break
		}
	}

	product, ok := s.products[mov.ProductID]
	if !ok {
		return nil, store.ErrNotFound
	}
	product = valuation.RetractMovement(product, mov, s.incomingLedgerLocked(mov.ProductID))
	product.UpdatedAt = time.Now().UTC()
	s.products[product.ID] = product
	return &product, nil
}

func (s *Store) GetStockMovement(_ context.Context, id string) (*domain.StockMovement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	mov, ok := s.movements[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &mov, nil
}

func (s *Store) ListStockMovements(_ context.Context, productID string, limit int) ([]domain.StockMovement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.StockMovement, 0, len(s.movementOrder))
	for i := len(s.movementOrder) - 1; i >= 0; i-- {
		mov := s.movements[s.movementOrder[i]]
		if productID != "" && mov.ProductID != productID {
			continue
		}
		result = append(result, mov)
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

// --- stock imports ---

func (s *Store) CreateStockImport(_ context.Context, imp domain.StockImport) (*domain.StockImport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if imp.SupplierID != nil {
		if _, ok := s.suppliers[*imp.SupplierID]; !ok {
			return nil, store.ErrNotFound
		}
	}
	for _, line := range imp.Lines {
		if line.Quantity < 1 {
			return nil, store.ErrInvalid
		}
		if _, ok := s.products[line.ProductID]; !ok {
			return nil, store.ErrNotFound
		}
	}

	if imp.ID == "" {
		imp.ID = xid.New("imp")
	}
	imp.CreatedAt = time.Now().UTC()
	s.imports[imp.ID] = imp
	s.importOrder = append(s.importOrder, imp.ID)

	for _, line := range imp.Lines {
		importPrice := line.ImportPrice
		s.createMovementLocked(domain.StockMovement{
			ProductID:    line.ProductID,
			Quantity:     line.Quantity,
			MovementType: domain.MovementIncoming,
			ImportPrice:  &importPrice,
			SupplierID:   imp.SupplierID,
			ImportID:     &imp.ID,
		})
	}

	created := imp
	return &created, nil
}

func (s *Store) GetStockImport(_ context.Context, id string) (*domain.StockImport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	imp, ok := s.imports[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &imp, nil
}

func (s *Store) ListStockImports(_ context.Context, limit int) ([]domain.StockImport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.StockImport, 0, len(s.importOrder))
	for i := len(s.importOrder) - 1; i >= 0; i-- {
		result = append(result, s.imports[s.importOrder[i]])
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

// --- vouchers ---

func (s *Store) CreateVoucher(_ context.Context, voucher domain.Voucher) (*domain.Voucher, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if voucher.ID == "" {
		voucher.ID = xid.New("vch")
	}
	s.vouchers[voucher.ID] = voucher
	created := voucher
	return &created, nil
}

func (s *Store) GetVoucher(_ context.Context, id string) (*domain.Voucher, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.vouchers[id]
	if !ok || v.IsDeleted {
		return nil, store.ErrNotFound
	}
	return &v, nil
}

func (s *Store) ListVouchers(_ context.Context) ([]domain.Voucher, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Voucher, 0, len(s.vouchers))
	for _, v := range s.vouchers {
		if v.IsDeleted {
			continue
		}
		result = append(result, v)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Title < result[j].Title })
	return result, nil
}

func (s *Store) UpdateVoucher(_ context.Context, voucher domain.Voucher) (*domain.Voucher, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.vouchers[voucher.ID]
	if !ok || existing.IsDeleted {
		return nil, store.ErrNotFound
	}
	s.vouchers[voucher.ID] = voucher
	updated := voucher
	return &updated, nil
}

func (s *Store) SoftDeleteVoucher(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.vouchers[id]
	if !ok || v.IsDeleted {
		return store.ErrNotFound
	}
	v.IsDeleted = true
	v.IsActive = false
	s.vouchers[id] = v
	return nil
}

// --- sales ---

func (s *Store) CreateSale(_ context.Context, sale domain.Sale) (*domain.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range sale.Items {
		if item.Quantity < 1 {
			return nil, store.ErrInvalid
		}
		if _, ok := s.products[item.ProductID]; !ok {
			return nil, store.ErrNotFound
		}
	}
	for _, voucherID := range sale.VoucherIDs {
		if _, ok := s.vouchers[voucherID]; !ok {
			return nil, store.ErrNotFound
		}
	}

	if sale.ID == "" {
		sale.ID = xid.New("sale")
	}
	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = time.Now().UTC()
	}
	if sale.Payment != nil {
		payment := *sale.Payment
		if payment.ID == "" {
			payment.ID = xid.New("pay")
		}
		payment.SaleID = sale.ID
		sale.Payment = &payment
	}
	s.sales[sale.ID] = sale
	s.saleOrder = append(s.saleOrder, sale.ID)

	// Each sold item leaves the warehouse through the ledger.
	for _, item := range sale.Items {
		s.createMovementLocked(domain.StockMovement{
			ProductID:    item.ProductID,
			Quantity:     item.Quantity,
			MovementType: domain.MovementOutgoing,
		})
	}

	created := sale
	return &created, nil
}

func (s *Store) GetSale(_ context.Context, id string) (*domain.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sale, ok := s.sales[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &sale, nil
}

func (s *Store) ListSales(_ context.Context, limit int) ([]domain.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Sale, 0, len(s.saleOrder))
	for i := len(s.saleOrder) - 1; i >= 0; i-- {
		result = append(result, s.sales[s.saleOrder[i]])
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

func (s *Store) SetSaleTip(_ context.Context, saleID string, tip decimal.Decimal) (*domain.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sale, ok := s.sales[saleID]
	if !ok {
		return nil, store.ErrNotFound
	}
	sale.Tip = &tip
	s.sales[saleID] = sale
	return &sale, nil
}

// --- quick sales ---

func (s *Store) CreateQuickSale(_ context.Context, quickSale domain.QuickSale) (*domain.QuickSale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quickSale.EANCode != nil {
		for _, existing := range s.quickSales {
			if existing.EANCode != nil && *existing.EANCode == *quickSale.EANCode {
				return nil, store.ErrConflict
			}
		}
	}
	if quickSale.ID == "" {
		quickSale.ID = xid.New("qs")
	}
	quickSale.DateSold = time.Now().UTC()
	s.quickSales = append(s.quickSales, quickSale)
	created := quickSale
	return &created, nil
}

func (s *Store) ListQuickSales(_ context.Context, limit int) ([]domain.QuickSale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.QuickSale, 0, len(s.quickSales))
	for i := len(s.quickSales) - 1; i >= 0; i-- {
		result = append(result, s.quickSales[i])
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

// --- daily closure ---

func sameDay(ts time.Time, day time.Time) bool {
	return ts.UTC().Format("2006-01-02") == day.UTC().Format("2006-01-02")
}

func (s *Store) SaleTotalsForDay(_ context.Context, cashier string, day time.Time) (store.DayTotals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals := store.DayTotals{
		TotalSales: decimal.Zero,
		TotalTips:  decimal.Zero,
		TotalCash:  decimal.Zero,
		TotalCard:  decimal.Zero,
	}
	for _, sale := range s.sales {
		if sale.Cashier != cashier || !sameDay(sale.CreatedAt, day) {
			continue
		}
		totals.TotalSales = totals.TotalSales.Add(sale.TotalAmount)
		if sale.Tip != nil {
			totals.TotalTips = totals.TotalTips.Add(*sale.Tip)
		}
		if sale.Payment != nil {
			// The whole sale amount is attributed per matching payment row.
			switch sale.Payment.PaymentType {
			case domain.PaymentCash:
				totals.TotalCash = totals.TotalCash.Add(sale.TotalAmount)
			case domain.PaymentCard:
				totals.TotalCard = totals.TotalCard.Add(sale.TotalAmount)
			}
		}
	}
	return totals, nil
}

func (s *Store) WithdrawalTotalForDay(_ context.Context, cashier string, day time.Time) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	for _, w := range s.withdrawals {
		if w.Cashier == cashier && sameDay(w.CreatedAt, day) {
			total = total.Add(w.Amount)
		}
	}
	return total, nil
}

func (s *Store) LatestDailySummary(_ context.Context, cashier string) (*domain.DailySummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *domain.DailySummary
	for key := range s.summaries {
		summary := s.summaries[key]
		if summary.Cashier != cashier {
			continue
		}
		if latest == nil || summary.Date > latest.Date {
			copied := summary
			latest = &copied
		}
	}
	if latest == nil {
		return nil, store.ErrNotFound
	}
	return latest, nil
}

func (s *Store) UpsertDailySummary(_ context.Context, summary domain.DailySummary) (*domain.DailySummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := summary.Cashier + "|" + summary.Date
	if existing, ok := s.summaries[key]; ok {
		summary.ID = existing.ID
	} else if summary.ID == "" {
		summary.ID = xid.New("ds")
	}
	s.summaries[key] = summary
	saved := summary
	return &saved, nil
}

func (s *Store) ListDailySummaries(_ context.Context) ([]domain.DailySummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.DailySummary, 0, len(s.summaries))
	for _, summary := range s.summaries {
		result = append(result, summary)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date > result[j].Date
		}
		return result[i].Cashier < result[j].Cashier
	})
	return result, nil
}

// --- withdrawals ---

func (s *Store) CreateWithdrawal(_ context.Context, withdrawal domain.Withdrawal) (*domain.Withdrawal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if withdrawal.ID == "" {
		withdrawal.ID = xid.New("wd")
	}
	if withdrawal.CreatedAt.IsZero() {
		withdrawal.CreatedAt = time.Now().UTC()
	}
	s.withdrawals = append(s.withdrawals, withdrawal)
	created := withdrawal
	return &created, nil
}

func (s *Store) ListWithdrawals(_ context.Context, cashier string, limit int) ([]domain.Withdrawal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Withdrawal, 0, len(s.withdrawals))
	for i := len(s.withdrawals) - 1; i >= 0; i-- {
		w := s.withdrawals[i]
		if cashier != "" && w.Cashier != cashier {
			continue
		}
		result = append(result, w)
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

// --- business settings ---

func (s *Store) GetBusinessSettings(_ context.Context) (*domain.BusinessSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.settings == nil {
		return nil, store.ErrNotFound
	}
	settings := *s.settings
	return &settings, nil
}

func (s *Store) SaveBusinessSettings(_ context.Context, settings domain.BusinessSettings) (*domain.BusinessSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = &settings
	saved := settings
	return &saved, nil
}

// --- users ---

func (s *Store) CreateUser(_ context.Context, user domain.UserAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	username := strings.ToLower(strings.TrimSpace(user.Username))
	if username == "" {
		return store.ErrInvalid
	}
	if _, exists := s.users[username]; exists {
		return store.ErrConflict
	}
	user.Username = username
	s.users[username] = user
	return nil
}

func (s *Store) ListUsers(_ context.Context) ([]domain.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.UserAccount, 0, len(s.users))
	for _, u := range s.users {
		result = append(result, u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Username < result[j].Username })
	return result, nil
}

func (s *Store) UpdateUserPassword(_ context.Context, username string, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[username]
	if !ok {
		return store.ErrNotFound
	}
	user.Password = password
	s.users[username] = user
	return nil
}
