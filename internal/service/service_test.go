package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tillpoint/backend/internal/cache"
	"tillpoint/backend/internal/domain"
	"tillpoint/backend/internal/store"
	"tillpoint/backend/internal/store/memory"
)

func newTestService() (*Service, *memory.Store) {
	repo := memory.New()
	svc := New(repo, cache.NoopCatalogCache{}, time.Minute, nil)
	return svc, repo
}

func adminCtx() context.Context {
	return WithActor(context.Background(), domain.Actor{Username: "admin", Role: domain.RoleAdmin})
}

func cashierCtx(username string) context.Context {
	return WithActor(context.Background(), domain.Actor{Username: username, Role: domain.RoleCashier})
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func decPtr(value string) *decimal.Decimal {
	d := dec(value)
	return &d
}

func mustCreateProduct(t *testing.T, svc *Service, name string) domain.Product {
	t.Helper()
	product, err := svc.CreateProduct(adminCtx(), domain.ProductCreateRequest{
		Name:                  name,
		PriceWithVAT:          dec("12.10"),
		PriceWithoutVAT:       dec("10"),
		MeasurementOfQuantity: dec("1"),
		Unit:                  "pc",
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func TestCreateProductRequiresElevatedRole(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.CreateProduct(cashierCtx("jana"), domain.ProductCreateRequest{
		Name:                  "Blocked",
		PriceWithVAT:          dec("1"),
		PriceWithoutVAT:       dec("1"),
		MeasurementOfQuantity: dec("1"),
		Unit:                  "pc",
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestCreateProductDefaultsTaxRate(t *testing.T) {
	svc, _ := newTestService()
	product := mustCreateProduct(t, svc, "Default Tax")
	if !product.TaxRate.Equal(dec("0.21")) {
		t.Fatalf("tax rate = %s, want 0.21", product.TaxRate)
	}
	if !product.IsActive {
		t.Fatal("new product should be active")
	}
}

func TestIncomingMovementsDriveAveragePrice(t *testing.T) {
	svc, _ := newTestService()
	product := mustCreateProduct(t, svc, "Beans")

	first, err := svc.CreateStockMovement(adminCtx(), domain.StockMovementCreateRequest{
		ProductID:    product.ID,
		Quantity:     10,
		MovementType: domain.MovementIncoming,
		ImportPrice:  decPtr("10"),
	})
	if err != nil {
		t.Fatalf("first movement: %v", err)
	}
	if !first.Product.AveragePrice.Equal(dec("10")) {
		t.Fatalf("average price after first = %s, want 10", first.Product.AveragePrice)
	}

	second, err := svc.CreateStockMovement(adminCtx(), domain.StockMovementCreateRequest{
		ProductID:    product.ID,
		Quantity:     10,
		MovementType: domain.MovementIncoming,
		ImportPrice:  decPtr("20"),
	})
	if err != nil {
		t.Fatalf("second movement: %v", err)
	}
	if !second.Product.AveragePrice.Equal(dec("15")) {
		t.Fatalf("average price after second = %s, want 15", second.Product.AveragePrice)
	}
	if second.Product.InventoryCount == nil || *second.Product.InventoryCount != 20 {
		t.Fatalf("inventory count = %v, want 20", second.Product.InventoryCount)
	}
}

func TestDeleteMovementRestoresPriorAverage(t *testing.T) {
	svc, _ := newTestService()
	product := mustCreateProduct(t, svc, "Beans")

	_, err := svc.CreateStockMovement(adminCtx(), domain.StockMovementCreateRequest{
		ProductID:    product.ID,
		Quantity:     10,
		MovementType: domain.MovementIncoming,
		ImportPrice:  decPtr("10"),
	})
	if err != nil {
		t.Fatalf("first movement: %v", err)
	}
	second, err := svc.CreateStockMovement(adminCtx(), domain.StockMovementCreateRequest{
		ProductID:    product.ID,
		Quantity:     10,
		MovementType: domain.MovementIncoming,
		ImportPrice:  decPtr("20"),
	})
	if err != nil {
		t.Fatalf("second movement: %v", err)
	}

	restored, err := svc.DeleteStockMovement(adminCtx(), second.Movement.ID)
	if err != nil {
		t.Fatalf("delete movement: %v", err)
	}
	if !restored.AveragePrice.Equal(dec("10")) {
		t.Fatalf("average price after delete = %s, want 10", restored.AveragePrice)
	}
	if restored.InventoryCount == nil || *restored.InventoryCount != 10 {
		t.Fatalf("inventory count = %v, want 10", restored.InventoryCount)
	}
}

func TestOutgoingMovementAllowsNegativeInventory(t *testing.T) {
	svc, _ := newTestService()
	product := mustCreateProduct(t, svc, "Beans")

	result, err := svc.CreateStockMovement(adminCtx(), domain.StockMovementCreateRequest{
		ProductID:    product.ID,
		Quantity:     3,
		MovementType: domain.MovementOutgoing,
	})
	if err != nil {
		t.Fatalf("outgoing movement: %v", err)
	}
	if result.Product.InventoryCount == nil || *result.Product.InventoryCount != -3 {
		t.Fatalf("inventory count = %v, want -3", result.Product.InventoryCount)
	}
}

func TestStockImportCreatesPricedMovements(t *testing.T) {
	svc, _ := newTestService()
	beans := mustCreateProduct(t, svc, "Beans")
	bread := mustCreateProduct(t, svc, "Bread")

	imp, err := svc.CreateStockImport(adminCtx(), domain.StockImportCreateRequest{
		ICO:  "12345678",
		Note: "weekly delivery",
		Lines: []domain.StockImportLine{
			{ProductID: beans.ID, Quantity: 5, ImportPrice: dec("8")},
			{ProductID: bread.ID, Quantity: 20, ImportPrice: dec("1.50")},
		},
	})
	if err != nil {
		t.Fatalf("create import: %v", err)
	}
	if len(imp.Lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(imp.Lines))
	}

	updatedBeans, err := svc.GetProduct(adminCtx(), beans.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if updatedBeans.InventoryCount == nil || *updatedBeans.InventoryCount != 5 {
		t.Fatalf("beans inventory = %v, want 5", updatedBeans.InventoryCount)
	}
	if !updatedBeans.AveragePrice.Equal(dec("8")) {
		t.Fatalf("beans average price = %s, want 8", updatedBeans.AveragePrice)
	}

	movements, err := svc.ListStockMovements(adminCtx(), beans.ID, 0)
	if err != nil {
		t.Fatalf("list movements: %v", err)
	}
	if len(movements) != 1 {
		t.Fatalf("movements = %d, want 1", len(movements))
	}
	if movements[0].ImportID == nil || *movements[0].ImportID != imp.ID {
		t.Fatalf("movement import id = %v, want %s", movements[0].ImportID, imp.ID)
	}
}

func TestSaleDecrementsInventory(t *testing.T) {
	svc, _ := newTestService()
	product := mustCreateProduct(t, svc, "Beans")

	_, err := svc.CreateStockMovement(adminCtx(), domain.StockMovementCreateRequest{
		ProductID:    product.ID,
		Quantity:     10,
		MovementType: domain.MovementIncoming,
		ImportPrice:  decPtr("5"),
	})
	if err != nil {
		t.Fatalf("incoming movement: %v", err)
	}

	sale, err := svc.CreateSale(cashierCtx("jana"), domain.SaleCreateRequest{
		TotalAmount: dec("36.30"),
		Items: []domain.SaleItem{
			{ProductID: product.ID, Quantity: 3, Price: dec("12.10")},
		},
		PaymentType: domain.PaymentCash,
	})
	if err != nil {
		t.Fatalf("create sale: %v", err)
	}
	if sale.Cashier != "jana" {
		t.Fatalf("cashier = %s, want jana", sale.Cashier)
	}
	if sale.Payment == nil || sale.Payment.PaymentType != domain.PaymentCash {
		t.Fatalf("payment = %+v, want cash", sale.Payment)
	}

	updated, err := svc.GetProduct(adminCtx(), product.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if updated.InventoryCount == nil || *updated.InventoryCount != 7 {
		t.Fatalf("inventory count = %v, want 7", updated.InventoryCount)
	}
	// Selling never moves the average price.
	if !updated.AveragePrice.Equal(dec("5")) {
		t.Fatalf("average price = %s, want 5", updated.AveragePrice)
	}
}

func TestSaleRejectsUnknownPaymentType(t *testing.T) {
	svc, _ := newTestService()
	product := mustCreateProduct(t, svc, "Beans")

	_, err := svc.CreateSale(cashierCtx("jana"), domain.SaleCreateRequest{
		TotalAmount: dec("10"),
		Items:       []domain.SaleItem{{ProductID: product.ID, Quantity: 1, Price: dec("10")}},
		PaymentType: "cheque",
	})
	if !errors.Is(err, store.ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}
}

func TestSetSaleTip(t *testing.T) {
	svc, _ := newTestService()
	product := mustCreateProduct(t, svc, "Beans")

	sale, err := svc.CreateSale(cashierCtx("jana"), domain.SaleCreateRequest{
		TotalAmount: dec("10"),
		Items:       []domain.SaleItem{{ProductID: product.ID, Quantity: 1, Price: dec("10")}},
		PaymentType: domain.PaymentCard,
	})
	if err != nil {
		t.Fatalf("create sale: %v", err)
	}

	updated, err := svc.SetSaleTip(cashierCtx("jana"), sale.ID, dec("2.50"))
	if err != nil {
		t.Fatalf("set tip: %v", err)
	}
	if updated.Tip == nil || !updated.Tip.Equal(dec("2.50")) {
		t.Fatalf("tip = %v, want 2.50", updated.Tip)
	}

	if _, err := svc.SetSaleTip(cashierCtx("jana"), sale.ID, dec("-1")); !errors.Is(err, store.ErrInvalid) {
		t.Fatalf("negative tip err = %v, want ErrInvalid", err)
	}
}

func TestDailySummaryZeroBaseline(t *testing.T) {
	svc, _ := newTestService()
	product := mustCreateProduct(t, svc, "Beans")

	ctx := cashierCtx("jana")
	_, err := svc.CreateSale(ctx, domain.SaleCreateRequest{
		TotalAmount: dec("30"),
		Items:       []domain.SaleItem{{ProductID: product.ID, Quantity: 2, Price: dec("15")}},
		PaymentType: domain.PaymentCash,
	})
	if err != nil {
		t.Fatalf("create sale: %v", err)
	}

	summary, err := svc.CalculateDailySummary(ctx, dec("30"))
	if err != nil {
		t.Fatalf("calculate summary: %v", err)
	}
	if !summary.TotalCash.Equal(dec("30")) {
		t.Fatalf("total cash = %s, want 30", summary.TotalCash)
	}
	if !summary.CashDifference.IsZero() {
		t.Fatalf("cash difference = %s, want 0", summary.CashDifference)
	}
}

func TestDailySummaryReconciliationChain(t *testing.T) {
	svc, repo := newTestService()
	product := mustCreateProduct(t, svc, "Beans")

	// Yesterday's closure left 42.60 in the drawer.
	_, err := repo.UpsertDailySummary(context.Background(), domain.DailySummary{
		Cashier:        "jana",
		Date:           "2024-01-15",
		ClosingCash:    dec("42.60"),
		TotalSales:     dec("42.60"),
		TotalCash:      dec("42.60"),
		TotalCard:      decimal.Zero,
		TotalTips:      decimal.Zero,
		CashDifference: decimal.Zero,
	})
	if err != nil {
		t.Fatalf("seed previous summary: %v", err)
	}

	ctx := cashierCtx("jana")
	_, err = svc.CreateSale(ctx, domain.SaleCreateRequest{
		TotalAmount: dec("20"),
		Items:       []domain.SaleItem{{ProductID: product.ID, Quantity: 1, Price: dec("20")}},
		PaymentType: domain.PaymentCash,
	})
	if err != nil {
		t.Fatalf("cash sale: %v", err)
	}
	sale, err := svc.CreateSale(ctx, domain.SaleCreateRequest{
		TotalAmount: dec("10"),
		Items:       []domain.SaleItem{{ProductID: product.ID, Quantity: 1, Price: dec("10")}},
		PaymentType: domain.PaymentCard,
	})
	if err != nil {
		t.Fatalf("card sale: %v", err)
	}
	if _, err := svc.SetSaleTip(ctx, sale.ID, dec("1.40")); err != nil {
		t.Fatalf("set tip: %v", err)
	}
	if _, err := svc.CreateWithdrawal(ctx, domain.WithdrawalCreateRequest{Amount: dec("5")}); err != nil {
		t.Fatalf("withdrawal: %v", err)
	}

	// expected = 42.60 + 20 (cash) + 1.40 (tips) - 5 (withdrawals) = 59
	summary, err := svc.CalculateDailySummary(ctx, dec("60"))
	if err != nil {
		t.Fatalf("calculate summary: %v", err)
	}
	if !summary.TotalSales.Equal(dec("30")) {
		t.Fatalf("total sales = %s, want 30", summary.TotalSales)
	}
	if !summary.TotalCash.Equal(dec("20")) {
		t.Fatalf("total cash = %s, want 20", summary.TotalCash)
	}
	if !summary.TotalCard.Equal(dec("10")) {
		t.Fatalf("total card = %s, want 10", summary.TotalCard)
	}
	if !summary.TotalWithdrawals.Equal(dec("5")) {
		t.Fatalf("total withdrawals = %s, want 5", summary.TotalWithdrawals)
	}
	if !summary.CashDifference.Equal(dec("1")) {
		t.Fatalf("cash difference = %s, want 1", summary.CashDifference)
	}
	if !summary.ClosingCash.Equal(dec("60")) {
		t.Fatalf("closing cash = %s, want 60", summary.ClosingCash)
	}
}

func TestDailySummaryRecalculateReplacesRow(t *testing.T) {
	svc, _ := newTestService()
	ctx := cashierCtx("jana")

	first, err := svc.CalculateDailySummary(ctx, dec("100"))
	if err != nil {
		t.Fatalf("first calculate: %v", err)
	}
	second, err := svc.CalculateDailySummary(ctx, dec("120"))
	if err != nil {
		t.Fatalf("second calculate: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("recalculation created a new row: %s vs %s", first.ID, second.ID)
	}
	if !second.ClosingCash.Equal(dec("120")) {
		t.Fatalf("closing cash = %s, want 120", second.ClosingCash)
	}

	summaries, err := svc.ListDailySummaries(adminCtx())
	if err != nil {
		t.Fatalf("list summaries: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("summaries = %d, want 1", len(summaries))
	}
}

func TestDailySummaryAcceptsNegativeActualCash(t *testing.T) {
	svc, _ := newTestService()
	ctx := cashierCtx("jana")

	// A negative count is unusual but valid; the drawer can be owed money
	// after corrections, and the difference still has to chain correctly.
	summary, err := svc.CalculateDailySummary(ctx, dec("-5"))
	if err != nil {
		t.Fatalf("calculate with negative actual cash: %v", err)
	}
	if !summary.ClosingCash.Equal(dec("-5")) {
		t.Fatalf("closing cash = %s, want -5", summary.ClosingCash)
	}
	if !summary.CashDifference.Equal(dec("-5")) {
		t.Fatalf("cash difference = %s, want -5", summary.CashDifference)
	}
	summaries, err := svc.ListDailySummaries(adminCtx())
	if err != nil {
		t.Fatalf("list summaries: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("summaries = %d, want 1", len(summaries))
	}
}

func TestWithdrawalVisibilityByRole(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.CreateWithdrawal(cashierCtx("jana"), domain.WithdrawalCreateRequest{Amount: dec("5")}); err != nil {
		t.Fatalf("jana withdrawal: %v", err)
	}
	if _, err := svc.CreateWithdrawal(cashierCtx("petr"), domain.WithdrawalCreateRequest{Amount: dec("7")}); err != nil {
		t.Fatalf("petr withdrawal: %v", err)
	}

	own, err := svc.ListWithdrawals(cashierCtx("jana"), "", 0)
	if err != nil {
		t.Fatalf("list own: %v", err)
	}
	if len(own) != 1 || own[0].Cashier != "jana" {
		t.Fatalf("cashier sees %d withdrawals, want only their own", len(own))
	}

	all, err := svc.ListWithdrawals(adminCtx(), "", 0)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("admin sees %d withdrawals, want 2", len(all))
	}
}

func TestVoucherSoftDeleteHidesVoucher(t *testing.T) {
	svc, _ := newTestService()

	voucher, err := svc.CreateVoucher(adminCtx(), domain.Voucher{
		Title:          "Spring Promo",
		ExpirationDate: time.Now().UTC().Add(30 * 24 * time.Hour),
		DiscountType:   domain.DiscountPercentage,
		DiscountAmount: dec("10"),
		IsActive:       true,
	})
	if err != nil {
		t.Fatalf("create voucher: %v", err)
	}

	if err := svc.DeleteVoucher(adminCtx(), voucher.ID); err != nil {
		t.Fatalf("delete voucher: %v", err)
	}
	if _, err := svc.GetVoucher(adminCtx(), voucher.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("get deleted voucher err = %v, want ErrNotFound", err)
	}
	vouchers, err := svc.ListVouchers(adminCtx())
	if err != nil {
		t.Fatalf("list vouchers: %v", err)
	}
	if len(vouchers) != 0 {
		t.Fatalf("vouchers = %d, want 0", len(vouchers))
	}
}

func TestProductSoftDeleteFreesEAN(t *testing.T) {
	svc, _ := newTestService()

	ean := "8591234567890"
	first, err := svc.CreateProduct(adminCtx(), domain.ProductCreateRequest{
		Name:                  "Original",
		PriceWithVAT:          dec("1"),
		PriceWithoutVAT:       dec("1"),
		MeasurementOfQuantity: dec("1"),
		Unit:                  "pc",
		EANCode:               &ean,
	})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}

	if err := svc.DeleteProduct(adminCtx(), first.ID); err != nil {
		t.Fatalf("delete first: %v", err)
	}

	// The barcode is released for reuse once the product is deactivated.
	_, err = svc.CreateProduct(adminCtx(), domain.ProductCreateRequest{
		Name:                  "Replacement",
		PriceWithVAT:          dec("1"),
		PriceWithoutVAT:       dec("1"),
		MeasurementOfQuantity: dec("1"),
		Unit:                  "pc",
		EANCode:               &ean,
	})
	if err != nil {
		t.Fatalf("create replacement with reused ean: %v", err)
	}
}

func TestUserManagementAdminOnly(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateUser(cashierCtx("jana"), domain.UserCreateRequest{
		Username: "eve", Password: "longenough", Role: domain.RoleCashier,
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}

	user, err := svc.CreateUser(adminCtx(), domain.UserCreateRequest{
		Username: "Petr", Password: "longenough", Role: domain.RoleCashier,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.Username != "petr" {
		t.Fatalf("username = %s, want lowercased petr", user.Username)
	}

	if _, err := svc.CreateUser(adminCtx(), domain.UserCreateRequest{
		Username: "petr", Password: "longenough", Role: domain.RoleCashier,
	}); !errors.Is(err, store.ErrConflict) {
		t.Fatalf("duplicate err = %v, want ErrConflict", err)
	}
}

func TestSaleRejectsExpiredOrInactiveVoucher(t *testing.T) {
	svc, _ := newTestService()
	product := mustCreateProduct(t, svc, "Coffee")

	expired, err := svc.CreateVoucher(adminCtx(), domain.Voucher{
		Title:          "Last Year",
		ExpirationDate: time.Now().UTC().Add(-24 * time.Hour),
		DiscountType:   domain.DiscountFixed,
		DiscountAmount: dec("5"),
		IsActive:       true,
	})
	if err != nil {
		t.Fatalf("create expired voucher: %v", err)
	}

	inactive, err := svc.CreateVoucher(adminCtx(), domain.Voucher{
		Title:          "Disabled",
		ExpirationDate: time.Now().UTC().Add(24 * time.Hour),
		DiscountType:   domain.DiscountFixed,
		DiscountAmount: dec("5"),
		IsActive:       false,
	})
	if err != nil {
		t.Fatalf("create inactive voucher: %v", err)
	}

	for _, voucherID := range []string{expired.ID, inactive.ID} {
		_, err := svc.CreateSale(cashierCtx("jana"), domain.SaleCreateRequest{
			TotalAmount: dec("10"),
			VoucherID:   &voucherID,
			Items:       []domain.SaleItem{{ProductID: product.ID, Quantity: 1, Price: dec("10")}},
			PaymentType: domain.PaymentCash,
		})
		if !errors.Is(err, store.ErrInvalid) {
			t.Fatalf("voucher %s: err = %v, want ErrInvalid", voucherID, err)
		}
	}
}

func TestStockImportRequiresSupplierOrICO(t *testing.T) {
	svc, _ := newTestService()
	product := mustCreateProduct(t, svc, "Flour")

	_, err := svc.CreateStockImport(adminCtx(), domain.StockImportCreateRequest{
		Lines: []domain.StockImportLine{
			{ProductID: product.ID, Quantity: 2, ImportPrice: dec("3")},
		},
	})
	if !errors.Is(err, store.ErrInvalid) {
		t.Fatalf("import without supplier or ico: err = %v, want ErrInvalid", err)
	}

	_, err = svc.CreateStockImport(adminCtx(), domain.StockImportCreateRequest{
		ICO: "12345678",
		Lines: []domain.StockImportLine{
			{ProductID: product.ID, Quantity: 2, ImportPrice: dec("3")},
			{ProductID: product.ID, Quantity: 1, ImportPrice: dec("3")},
		},
	})
	if !errors.Is(err, store.ErrInvalid) {
		t.Fatalf("import with duplicate product line: err = %v, want ErrInvalid", err)
	}
}

func TestWithdrawalAcceptsNegativeAmount(t *testing.T) {
	svc, _ := newTestService()
	ctx := cashierCtx("jana")

	// A negative withdrawal puts money back, correcting an earlier entry.
	withdrawal, err := svc.CreateWithdrawal(ctx, domain.WithdrawalCreateRequest{
		Amount: dec("-5"),
		Note:   "correction",
	})
	if err != nil {
		t.Fatalf("create negative withdrawal: %v", err)
	}
	if !withdrawal.Amount.Equal(dec("-5")) {
		t.Fatalf("amount = %s, want -5", withdrawal.Amount)
	}

	withdrawals, err := svc.ListWithdrawals(ctx, "", 10)
	if err != nil {
		t.Fatalf("list withdrawals: %v", err)
	}
	if len(withdrawals) != 1 {
		t.Fatalf("withdrawals = %d, want 1", len(withdrawals))
	}
}

func TestBusinessSettingsUpdateAndMerge(t *testing.T) {
	svc, _ := newTestService()

	// Before the first update the singleton reads back empty.
	initial, err := svc.GetBusinessSettings(cashierCtx("jana"))
	if err != nil {
		t.Fatalf("get initial settings: %v", err)
	}
	if initial.BusinessName != "" || !initial.EuroRate.IsZero() {
		t.Fatalf("initial settings = %+v, want empty", initial)
	}

	name := "Potraviny U Lip"
	rate := dec("25.1234")
	if _, err := svc.UpdateBusinessSettings(adminCtx(), domain.BusinessSettingsUpdateRequest{
		BusinessName: &name,
		EuroRate:     &rate,
	}); err != nil {
		t.Fatalf("first update: %v", err)
	}

	// A partial update must leave the untouched fields alone.
	ico := "87654321"
	updated, err := svc.UpdateBusinessSettings(adminCtx(), domain.BusinessSettingsUpdateRequest{ICO: &ico})
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if updated.BusinessName != name {
		t.Fatalf("business name = %s, want %s", updated.BusinessName, name)
	}
	if updated.ICO != ico {
		t.Fatalf("ico = %s, want %s", updated.ICO, ico)
	}
	if !updated.EuroRate.Equal(rate) {
		t.Fatalf("euro rate = %s, want %s", updated.EuroRate, rate)
	}

	if _, err := svc.UpdateBusinessSettings(cashierCtx("jana"), domain.BusinessSettingsUpdateRequest{ICO: &ico}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("cashier update err = %v, want ErrForbidden", err)
	}
}
