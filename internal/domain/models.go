package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Roles understood by the permission checks.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleCashier = "cashier"
)

// Movement types for stock ledger entries.
const (
	MovementIncoming = "incoming"
	MovementOutgoing = "outgoing"
)

// Payment types accepted on a sale.
const (
	PaymentCash = "cash"
	PaymentCard = "card"
)

// Voucher discount types.
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

type Category struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id,omitempty"`
}

type Product struct {
	ID                    string          `json:"id"`
	Name                  string          `json:"name"`
	CategoryID            *string         `json:"category_id,omitempty"`
	PriceWithVAT          decimal.Decimal `json:"price_with_vat"`
	PriceWithoutVAT       decimal.Decimal `json:"price_without_vat"`
	InventoryCount        *int            `json:"inventory_count"`
	MeasurementOfQuantity decimal.Decimal `json:"measurement_of_quantity"`
	Unit                  string          `json:"unit"`
	EANCode               *string         `json:"ean_code,omitempty"`
	TaxRate               decimal.Decimal `json:"tax_rate"`
	Description           string          `json:"description,omitempty"`
	AveragePrice          decimal.Decimal `json:"average_price"`
	IsActive              bool            `json:"is_active"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

type ProductCreateRequest struct {
	Name                  string           `json:"name"`
	CategoryID            *string          `json:"category_id,omitempty"`
	PriceWithVAT          decimal.Decimal  `json:"price_with_vat"`
	PriceWithoutVAT       decimal.Decimal  `json:"price_without_vat"`
	InventoryCount        *int             `json:"inventory_count,omitempty"`
	MeasurementOfQuantity decimal.Decimal  `json:"measurement_of_quantity"`
	Unit                  string           `json:"unit"`
	EANCode               *string          `json:"ean_code,omitempty"`
	TaxRate               *decimal.Decimal `json:"tax_rate,omitempty"`
	Description           string           `json:"description,omitempty"`
}

type ProductUpdateRequest struct {
	Name                  *string          `json:"name,omitempty"`
	CategoryID            *string          `json:"category_id,omitempty"`
	PriceWithVAT          *decimal.Decimal `json:"price_with_vat,omitempty"`
	PriceWithoutVAT       *decimal.Decimal `json:"price_without_vat,omitempty"`
	MeasurementOfQuantity *decimal.Decimal `json:"measurement_of_quantity,omitempty"`
	Unit                  *string          `json:"unit,omitempty"`
	EANCode               *string          `json:"ean_code,omitempty"`
	TaxRate               *decimal.Decimal `json:"tax_rate,omitempty"`
	Description           *string          `json:"description,omitempty"`
	IsActive              *bool            `json:"is_active,omitempty"`
}

type Supplier struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address,omitempty"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	Email       string    `json:"email,omitempty"`
	ICO         string    `json:"ico"`
	DIC         string    `json:"dic"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type SupplierUpdateRequest struct {
	Name        *string `json:"name,omitempty"`
	Address     *string `json:"address,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	Email       *string `json:"email,omitempty"`
	ICO         *string `json:"ico,omitempty"`
	DIC         *string `json:"dic,omitempty"`
}

// StockMovement is one ledger entry for a product. Incoming entries may carry
// an import price which feeds the product's weighted-average cost.
type StockMovement struct {
	ID           string           `json:"id"`
	ProductID    string           `json:"product_id"`
	Quantity     int              `json:"quantity"`
	MovementType string           `json:"movement_type"`
	ImportPrice  *decimal.Decimal `json:"import_price,omitempty"`
	SupplierID   *string          `json:"supplier_id,omitempty"`
	ImportID     *string          `json:"import_id,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

type StockMovementCreateRequest struct {
	ProductID    string           `json:"product_id"`
	Quantity     int              `json:"quantity"`
	MovementType string           `json:"movement_type"`
	ImportPrice  *decimal.Decimal `json:"import_price,omitempty"`
	SupplierID   *string          `json:"supplier_id,omitempty"`
}

// StockMovementResult returns the ledger entry together with the product
// inventory state it produced.
type StockMovementResult struct {
	Movement StockMovement `json:"movement"`
	Product  Product       `json:"product"`
}

type StockImport struct {
	ID            string            `json:"id"`
	SupplierID    *string           `json:"supplier_id,omitempty"`
	ICO           string            `json:"ico,omitempty"`
	Note          string            `json:"note,omitempty"`
	InvoiceNumber string            `json:"invoice_number,omitempty"`
	Lines         []StockImportLine `json:"lines"`
	CreatedAt     time.Time         `json:"created_at"`
}

type StockImportLine struct {
	ProductID   string          `json:"product_id"`
	Quantity    int             `json:"quantity"`
	ImportPrice decimal.Decimal `json:"import_price"`
}

type StockImportCreateRequest struct {
	SupplierID    *string           `json:"supplier_id,omitempty"`
	ICO           string            `json:"ico,omitempty"`
	Note          string            `json:"note,omitempty"`
	InvoiceNumber string            `json:"invoice_number,omitempty"`
	Lines         []StockImportLine `json:"lines"`
}

type Voucher struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	EANCode        string          `json:"ean_code,omitempty"`
	ExpirationDate time.Time       `json:"expiration_date"`
	DiscountType   string          `json:"discount_type"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	IsActive       bool            `json:"is_active"`
	IsDeleted      bool            `json:"-"`
	Description    string          `json:"description,omitempty"`
}

type VoucherUpdateRequest struct {
	Title          *string          `json:"title,omitempty"`
	EANCode        *string          `json:"ean_code,omitempty"`
	ExpirationDate *time.Time       `json:"expiration_date,omitempty"`
	DiscountType   *string          `json:"discount_type,omitempty"`
	DiscountAmount *decimal.Decimal `json:"discount_amount,omitempty"`
	IsActive       *bool            `json:"is_active,omitempty"`
	Description    *string          `json:"description,omitempty"`
}

type Sale struct {
	ID          string           `json:"id"`
	Cashier     string           `json:"cashier"`
	TotalAmount decimal.Decimal  `json:"total_amount"`
	Tip         *decimal.Decimal `json:"tip,omitempty"`
	VoucherIDs  []string         `json:"voucher_ids,omitempty"`
	Items       []SaleItem       `json:"items"`
	Payment     *Payment         `json:"payment,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

type SaleItem struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type Payment struct {
	ID          string `json:"id"`
	SaleID      string `json:"sale_id"`
	PaymentType string `json:"payment_type"`
}

type SaleCreateRequest struct {
	TotalAmount decimal.Decimal `json:"total_amount"`
	VoucherID   *string         `json:"voucher_id,omitempty"`
	Items       []SaleItem      `json:"items"`
	PaymentType string          `json:"payment_type"`
}

type QuickSale struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	EANCode      *string         `json:"ean_code,omitempty"`
	PriceWithVAT decimal.Decimal `json:"price_with_vat"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	Quantity     int             `json:"quantity"`
	DateSold     time.Time       `json:"date_sold"`
}

// DailySummary is the per-cashier end-of-day reconciliation row. At most one
// exists per (cashier, date); recalculating on the same day replaces it.
type DailySummary struct {
	ID               string          `json:"id"`
	Cashier          string          `json:"cashier"`
	Date             string          `json:"date"` // YYYY-MM-DD
	TotalSales       decimal.Decimal `json:"total_sales"`
	TotalCash        decimal.Decimal `json:"total_cash"`
	TotalCard        decimal.Decimal `json:"total_card"`
	TotalTips        decimal.Decimal `json:"total_tips"`
	TotalWithdrawals decimal.Decimal `json:"total_withdrawals"`
	ClosingCash      decimal.Decimal `json:"closing_cash"`
	CashDifference   decimal.Decimal `json:"cash_difference"`
}

type Withdrawal struct {
	ID        string          `json:"id"`
	Cashier   string          `json:"cashier"`
	Amount    decimal.Decimal `json:"amount"`
	Note      string          `json:"note,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type WithdrawalCreateRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note,omitempty"`
}

// BusinessSettings is a singleton row holding the business identity printed
// on receipts and the euro conversion rate.
type BusinessSettings struct {
	BusinessName string          `json:"business_name"`
	ICO          string          `json:"ico"`
	DIC          string          `json:"dic"`
	ContactEmail string          `json:"contact_email"`
	ContactPhone string          `json:"contact_phone"`
	Address      string          `json:"address"`
	EuroRate     decimal.Decimal `json:"euro_rate"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type BusinessSettingsUpdateRequest struct {
	BusinessName *string          `json:"business_name,omitempty"`
	ICO          *string          `json:"ico,omitempty"`
	DIC          *string          `json:"dic,omitempty"`
	ContactEmail *string          `json:"contact_email,omitempty"`
	ContactPhone *string          `json:"contact_phone,omitempty"`
	Address      *string          `json:"address,omitempty"`
	EuroRate     *decimal.Decimal `json:"euro_rate,omitempty"`
}

type UserAccount struct {
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

type UserCreateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	ExpiresAt   string `json:"expires_at"`
}

// Actor is the authenticated caller, carried on the request context.
type Actor struct {
	Username string
	Role     string
}
