package store

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"tillpoint/backend/internal/domain"
)

var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid request")
	ErrConflict = errors.New("conflict")
)

// DayTotals carries the per-day sale aggregates the reconciliation consumes.
// Cash and card sum each matching payment's full sale amount, so a sale with
// both a cash and a card payment row counts fully in both buckets.
type DayTotals struct {
	TotalSales decimal.Decimal
	TotalTips  decimal.Decimal
	TotalCash  decimal.Decimal
	TotalCard  decimal.Decimal
}

type Repository interface {
	CreateCategory(ctx context.Context, category domain.Category) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context, activeOnly bool) ([]domain.Product, error)
	LatestProduct(ctx context.Context) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	SoftDeleteProduct(ctx context.Context, id string) error

	CreateSupplier(ctx context.Context, supplier domain.Supplier) (*domain.Supplier, error)
	GetSupplier(ctx context.Context, id string) (*domain.Supplier, error)
	ListSuppliers(ctx context.Context) ([]domain.Supplier, error)
	UpdateSupplier(ctx context.Context, supplier domain.Supplier) (*domain.Supplier, error)
	DeleteSupplier(ctx context.Context, id string) error

	// CreateStockMovement appends a ledger entry and synchronously recomputes
	// the owning product's inventory state; both writes commit or fail
	// together.
	CreateStockMovement(ctx context.Context, mov domain.StockMovement) (*domain.StockMovementResult, error)
	// DeleteStockMovement removes a ledger entry and reverses its valuation
	// effect under the same atomicity contract.
	DeleteStockMovement(ctx context.Context, id string) (*domain.Product, error)
	GetStockMovement(ctx context.Context, id string) (*domain.StockMovement, error)
	ListStockMovements(ctx context.Context, productID string, limit int) ([]domain.StockMovement, error)

	CreateStockImport(ctx context.Context, imp domain.StockImport) (*domain.StockImport, error)
	GetStockImport(ctx context.Context, id string) (*domain.StockImport, error)
	ListStockImports(ctx context.Context, limit int) ([]domain.StockImport, error)

	CreateVoucher(ctx context.Context, voucher domain.Voucher) (*domain.Voucher, error)
	GetVoucher(ctx context.Context, id string) (*domain.Voucher, error)
	ListVouchers(ctx context.Context) ([]domain.Voucher, error)
	UpdateVoucher(ctx context.Context, voucher domain.Voucher) (*domain.Voucher, error)
	SoftDeleteVoucher(ctx context.Context, id string) error

	CreateSale(ctx context.Context, sale domain.Sale) (*domain.Sale, error)
	GetSale(ctx context.Context, id string) (*domain.Sale, error)
	ListSales(ctx context.Context, limit int) ([]domain.Sale, error)
	SetSaleTip(ctx context.Context, saleID string, tip decimal.Decimal) (*domain.Sale, error)

	CreateQuickSale(ctx context.Context, quickSale domain.QuickSale) (*domain.QuickSale, error)
	ListQuickSales(ctx context.Context, limit int) ([]domain.QuickSale, error)

	SaleTotalsForDay(ctx context.Context, cashier string, day time.Time) (DayTotals, error)
	WithdrawalTotalForDay(ctx context.Context, cashier string, day time.Time) (decimal.Decimal, error)
	LatestDailySummary(ctx context.Context, cashier string) (*domain.DailySummary, error)
	UpsertDailySummary(ctx context.Context, summary domain.DailySummary) (*domain.DailySummary, error)
	ListDailySummaries(ctx context.Context) ([]domain.DailySummary, error)

	CreateWithdrawal(ctx context.Context, withdrawal domain.Withdrawal) (*domain.Withdrawal, error)
	ListWithdrawals(ctx context.Context, cashier string, limit int) ([]domain.Withdrawal, error)

	// GetBusinessSettings returns ErrNotFound until the singleton row has
	// been written once.
	GetBusinessSettings(ctx context.Context) (*domain.BusinessSettings, error)
	SaveBusinessSettings(ctx context.Context, settings domain.BusinessSettings) (*domain.BusinessSettings, error)

	CreateUser(ctx context.Context, user domain.UserAccount) error
	ListUsers(ctx context.Context) ([]domain.UserAccount, error)
	UpdateUserPassword(ctx context.Context, username string, password string) error
}
