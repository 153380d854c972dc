package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"

	"tillpoint/backend/internal/domain"
	"tillpoint/backend/internal/store"
	"tillpoint/backend/internal/valuation"
	"tillpoint/backend/internal/xid"
)

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// --- categories ---

func (s *Store) CreateCategory(ctx context.Context, category domain.Category) (*domain.Category, error) {
	if category.ID == "" {
		category.ID = xid.New("cat")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, parent_id)
		VALUES ($1,$2,$3)
	`, category.ID, category.Name, nullIfEmptyPtr(category.ParentID))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		if isForeignKeyViolation(err) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	created := category
	return &created, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, parent_id
		FROM categories
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]domain.Category, 0, 32)
	for rows.Next() {
		var c domain.Category
		var parentID sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &parentID); err != nil {
			return nil, err
		}
		if parentID.Valid {
			c.ParentID = &parentID.String
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *Store) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	var c domain.Category
	var parentID sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, parent_id
		FROM categories
		WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &parentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	if parentID.Valid {
		c.ParentID = &parentID.String
	}
	return &c, nil
}

func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM categories
		WHERE id = $1
	`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return store.ErrConflict
		}
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- products ---

const productColumns = `
	id, name, category_id, price_with_vat, price_without_vat, inventory_count,
	measurement_of_quantity, unit, ean_code, tax_rate, description,
	average_price, is_active, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	var categoryID sql.NullString
	var inventoryCount sql.NullInt64
	var eanCode sql.NullString
	err := row.Scan(
		&p.ID, &p.Name, &categoryID, &p.PriceWithVAT, &p.PriceWithoutVAT, &inventoryCount,
		&p.MeasurementOfQuantity, &p.Unit, &eanCode, &p.TaxRate, &p.Description,
		&p.AveragePrice, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if categoryID.Valid {
		p.CategoryID = &categoryID.String
	}
	if inventoryCount.Valid {
		count := int(inventoryCount.Int64)
		p.InventoryCount = &count
	}
	if eanCode.Valid {
		p.EANCode = &eanCode.String
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}

func (s *Store) CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if product.ID == "" {
		product.ID = xid.New("prod")
	}
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (
			id, name, category_id, price_with_vat, price_without_vat, inventory_count,
			measurement_of_quantity, unit, ean_code, tax_rate, description,
			average_price, is_active, created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`, product.ID, product.Name, nullIfEmptyPtr(product.CategoryID), product.PriceWithVAT,
		product.PriceWithoutVAT, nullInt(product.InventoryCount), product.MeasurementOfQuantity,
		product.Unit, nullIfEmptyPtr(product.EANCode), product.TaxRate, product.Description,
		product.AveragePrice, product.IsActive, product.CreatedAt, product.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		if isForeignKeyViolation(err) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	created := product
	return &created, nil
}

func (s *Store) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id = $1
	`, id)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *Store) ListProducts(ctx context.Context, activeOnly bool) ([]domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products`
	if activeOnly {
		query += `
		WHERE is_active = true`
	}
	query += `
		ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]domain.Product, 0, 128)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *Store) LatestProduct(ctx context.Context) (*domain.Product, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE is_active = true
		ORDER BY created_at DESC
		LIMIT 1
	`)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *Store) UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	product.UpdatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET name = $2, category_id = $3, price_with_vat = $4, price_without_vat = $5,
			measurement_of_quantity = $6, unit = $7, ean_code = $8, tax_rate = $9,
			description = $10, is_active = $11, updated_at = $12
		WHERE id = $1
	`, product.ID, product.Name, nullIfEmptyPtr(product.CategoryID), product.PriceWithVAT,
		product.PriceWithoutVAT, product.MeasurementOfQuantity, product.Unit,
		nullIfEmptyPtr(product.EANCode), product.TaxRate, product.Description,
		product.IsActive, product.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		if isForeignKeyViolation(err) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	return s.GetProduct(ctx, product.ID)
}

func (s *Store) SoftDeleteProduct(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET is_active = false, ean_code = NULL, updated_at = now()
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- suppliers ---

func (s *Store) CreateSupplier(ctx context.Context, supplier domain.Supplier) (*domain.Supplier, error) {
	if supplier.ID == "" {
		supplier.ID = xid.New("sup")
	}
	now := time.Now().UTC()
	supplier.CreatedAt = now
	supplier.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO suppliers (id, name, address, phone_number, email, ico, dic, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, supplier.ID, supplier.Name, supplier.Address, supplier.PhoneNumber, supplier.Email,
		supplier.ICO, supplier.DIC, supplier.CreatedAt, supplier.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}
	created := supplier
	return &created, nil
}

func (s *Store) GetSupplier(ctx context.Context, id string) (*domain.Supplier, error) {
	var sup domain.Supplier
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, address, phone_number, email, ico, dic, created_at, updated_at
		FROM suppliers
		WHERE id = $1
	`, id).Scan(&sup.ID, &sup.Name, &sup.Address, &sup.PhoneNumber, &sup.Email, &sup.ICO, &sup.DIC, &sup.CreatedAt, &sup.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	sup.CreatedAt = sup.CreatedAt.UTC()
	sup.UpdatedAt = sup.UpdatedAt.UTC()
	return &sup, nil
}

func (s *Store) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, address, phone_number, email, ico, dic, created_at, updated_at
		FROM suppliers
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	suppliers := make([]domain.Supplier, 0, 32)
	for rows.Next() {
		var sup domain.Supplier
		if err := rows.Scan(&sup.ID, &sup.Name, &sup.Address, &sup.PhoneNumber, &sup.Email, &sup.ICO, &sup.DIC, &sup.CreatedAt, &sup.UpdatedAt); err != nil {
			return nil, err
		}
		sup.CreatedAt = sup.CreatedAt.UTC()
		sup.UpdatedAt = sup.UpdatedAt.UTC()
		suppliers = append(suppliers, sup)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return suppliers, nil
}

func (s *Store) UpdateSupplier(ctx context.Context, supplier domain.Supplier) (*domain.Supplier, error) {
	supplier.UpdatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		UPDATE suppliers
		SET name = $2, address = $3, phone_number = $4, email = $5, ico = $6, dic = $7, updated_at = $8
		WHERE id = $1
	`, supplier.ID, supplier.Name, supplier.Address, supplier.PhoneNumber, supplier.Email,
		supplier.ICO, supplier.DIC, supplier.UpdatedAt)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	return s.GetSupplier(ctx, supplier.ID)
}

func (s *Store) DeleteSupplier(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM suppliers
		WHERE id = $1
	`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return store.ErrConflict
		}
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- stock movements ---

// incomingLedgerTx loads the currently existing incoming entries for a
// product inside the caller's transaction.
func incomingLedgerTx(ctx context.Context, tx *sql.Tx, productID string) ([]domain.StockMovement, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, product_id, quantity, movement_type, import_price, supplier_id, import_id, created_at
		FROM stock_movements
		WHERE product_id = $1 AND movement_type = $2
	`, productID, domain.MovementIncoming)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ledger := make([]domain.StockMovement, 0, 32)
	for rows.Next() {
		mov, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		ledger = append(ledger, *mov)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ledger, nil
}

func scanMovement(row rowScanner) (*domain.StockMovement, error) {
	var mov domain.StockMovement
	var importPrice decimal.NullDecimal
	var supplierID sql.NullString
	var importID sql.NullString
	err := row.Scan(&mov.ID, &mov.ProductID, &mov.Quantity, &mov.MovementType, &importPrice, &supplierID, &importID, &mov.CreatedAt)
	if err != nil {
		return nil, err
	}
	if importPrice.Valid {
		mov.ImportPrice = &importPrice.Decimal
	}
	if supplierID.Valid {
		mov.SupplierID = &supplierID.String
	}
	if importID.Valid {
		mov.ImportID = &importID.String
	}
	mov.CreatedAt = mov.CreatedAt.UTC()
	return &mov, nil
}

// productForUpdateTx loads and row-locks the product so the ledger append and
// the recomputed inventory state commit against the same snapshot.
func productForUpdateTx(ctx context.Context, tx *sql.Tx, productID string) (*domain.Product, error) {
	row := tx.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id = $1
		FOR UPDATE
	`, productID)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return product, nil
}

func saveInventoryStateTx(ctx context.Context, tx *sql.Tx, product domain.Product) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE products
		SET inventory_count = $2, average_price = $3, updated_at = now()
		WHERE id = $1
	`, product.ID, nullInt(product.InventoryCount), product.AveragePrice)
	return err
}

// createMovementTx inserts the ledger entry and writes the recomputed product
// state. Callers own the transaction.
func createMovementTx(ctx context.Context, tx *sql.Tx, mov domain.StockMovement) (*domain.StockMovementResult, error) {
	product, err := productForUpdateTx(ctx, tx, mov.ProductID)
	if err != nil {
		return nil, err
	}

	if mov.ID == "" {
		mov.ID = xid.New("mov")
	}
	if mov.CreatedAt.IsZero() {
		mov.CreatedAt = time.Now().UTC()
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO stock_movements (id, product_id, quantity, movement_type, import_price, supplier_id, import_id, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, mov.ID, mov.ProductID, mov.Quantity, mov.MovementType, nullDecimal(mov.ImportPrice),
		nullIfEmptyPtr(mov.SupplierID), nullIfEmptyPtr(mov.ImportID), mov.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}

	ledger, err := incomingLedgerTx(ctx, tx, mov.ProductID)
	if err != nil {
		return nil, err
	}
	updated := valuation.ApplyMovement(*product, mov, ledger)
	if err := saveInventoryStateTx(ctx, tx, updated); err != nil {
		return nil, err
	}

	return &domain.StockMovementResult{Movement: mov, Product: updated}, nil
}

func (s *Store) CreateStockMovement(ctx context.Context, mov domain.StockMovement) (*domain.StockMovementResult, error) {
	if mov.Quantity < 1 {
		return nil, store.ErrInvalid
	}
	if mov.MovementType != domain.MovementIncoming && mov.MovementType != domain.MovementOutgoing {
		return nil, store.ErrInvalid
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	result, err := createMovementTx(ctx, tx, mov)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) DeleteStockMovement(ctx context.Context, id string) (*domain.Product, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, `
		SELECT id, product_id, quantity, movement_type, import_price, supplier_id, import_id, created_at
		FROM stock_movements
		WHERE id = $1
		FOR UPDATE
	`, id)
	mov, err := scanMovement(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}

	product, err := productForUpdateTx(ctx, tx, mov.ProductID)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM stock_movements
		WHERE id = $1
	`, id)
	if err != nil {
		return nil, err
	}

	ledger, err := incomingLedgerTx(ctx, tx, mov.ProductID)
	if err != nil {
		return nil, err
	}
	updated := valuation.RetractMovement(*product, *mov, ledger)
	if err := saveInventoryStateTx(ctx, tx, updated); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Store) GetStockMovement(ctx context.Context, id string) (*domain.StockMovement, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, product_id, quantity, movement_type, import_price, supplier_id, import_id, created_at
		FROM stock_movements
		WHERE id = $1
	`, id)
	mov, err := scanMovement(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return mov, nil
}

func (s *Store) ListStockMovements(ctx context.Context, productID string, limit int) ([]domain.StockMovement, error) {
	if limit < 1 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, product_id, quantity, movement_type, import_price, supplier_id, import_id, created_at
		FROM stock_movements
		WHERE ($1 = '' OR product_id = $1)
		ORDER BY created_at DESC
		LIMIT $2
	`, productID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movements := make([]domain.StockMovement, 0, limit)
	for rows.Next() {
		mov, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		movements = append(movements, *mov)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return movements, nil
}

// --- stock imports ---

func (s *Store) CreateStockImport(ctx context.Context, imp domain.StockImport) (*domain.StockImport, error) {
	if len(imp.Lines) == 0 {
		return nil, store.ErrInvalid
	}
	for _, line := range imp.Lines {
		if line.Quantity < 1 {
			return nil, store.ErrInvalid
		}
	}
	if imp.ID == "" {
		imp.ID = xid.New("imp")
	}
	imp.CreatedAt = time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO stock_imports (id, supplier_id, ico, note, invoice_number, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, imp.ID, nullIfEmptyPtr(imp.SupplierID), imp.ICO, imp.Note, imp.InvoiceNumber, imp.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}

	for _, line := range imp.Lines {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO stock_import_lines (import_id, product_id, quantity, import_price)
			VALUES ($1,$2,$3,$4)
		`, imp.ID, line.ProductID, line.Quantity, line.ImportPrice)
		if err != nil {
			if isForeignKeyViolation(err) {
				return nil, store.ErrNotFound
			}
			return nil, err
		}

		importPrice := line.ImportPrice
		_, err = createMovementTx(ctx, tx, domain.StockMovement{
			ProductID:    line.ProductID,
			Quantity:     line.Quantity,
			MovementType: domain.MovementIncoming,
			ImportPrice:  &importPrice,
			SupplierID:   imp.SupplierID,
			ImportID:     &imp.ID,
		})
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	created := imp
	return &created, nil
}

func (s *Store) GetStockImport(ctx context.Context, id string) (*domain.StockImport, error) {
	var imp domain.StockImport
	var supplierID sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, supplier_id, ico, note, invoice_number, created_at
		FROM stock_imports
		WHERE id = $1
	`, id).Scan(&imp.ID, &supplierID, &imp.ICO, &imp.Note, &imp.InvoiceNumber, &imp.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	if supplierID.Valid {
		imp.SupplierID = &supplierID.String
	}
	imp.CreatedAt = imp.CreatedAt.UTC()

	lines, err := s.importLines(ctx, imp.ID)
	if err != nil {
		return nil, err
	}
	imp.Lines = lines
	return &imp, nil
}

func (s *Store) importLines(ctx context.Context, importID string) ([]domain.StockImportLine, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT product_id, quantity, import_price
		FROM stock_import_lines
		WHERE import_id = $1
		ORDER BY id ASC
	`, importID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := make([]domain.StockImportLine, 0, 8)
	for rows.Next() {
		var line domain.StockImportLine
		if err := rows.Scan(&line.ProductID, &line.Quantity, &line.ImportPrice); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *Store) ListStockImports(ctx context.Context, limit int) ([]domain.StockImport, error) {
	if limit < 1 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, supplier_id, ico, note, invoice_number, created_at
		FROM stock_imports
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	imports := make([]domain.StockImport, 0, limit)
	for rows.Next() {
		var imp domain.StockImport
		var supplierID sql.NullString
		if err := rows.Scan(&imp.ID, &supplierID, &imp.ICO, &imp.Note, &imp.InvoiceNumber, &imp.CreatedAt); err != nil {
			return nil, err
		}
		if supplierID.Valid {
			imp.SupplierID = &supplierID.String
		}
		imp.CreatedAt = imp.CreatedAt.UTC()
		imports = append(imports, imp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range imports {
		lines, err := s.importLines(ctx, imports[i].ID)
		if err != nil {
			return nil, err
		}
		imports[i].Lines = lines
	}
	return imports, nil
}

// --- vouchers ---

func (s *Store) CreateVoucher(ctx context.Context, voucher domain.Voucher) (*domain.Voucher, error) {
	if voucher.ID == "" {
		voucher.ID = xid.New("vch")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO vouchers (id, title, ean_code, expiration_date, discount_type, discount_amount, is_active, is_deleted, description)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, voucher.ID, voucher.Title, voucher.EANCode, voucher.ExpirationDate, voucher.DiscountType,
		voucher.DiscountAmount, voucher.IsActive, voucher.IsDeleted, voucher.Description)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}
	created := voucher
	return &created, nil
}

func (s *Store) GetVoucher(ctx context.Context, id string) (*domain.Voucher, error) {
	var v domain.Voucher
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, ean_code, expiration_date, discount_type, discount_amount, is_active, is_deleted, description
		FROM vouchers
		WHERE id = $1 AND is_deleted = false
	`, id).Scan(&v.ID, &v.Title, &v.EANCode, &v.ExpirationDate, &v.DiscountType, &v.DiscountAmount, &v.IsActive, &v.IsDeleted, &v.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	v.ExpirationDate = v.ExpirationDate.UTC()
	return &v, nil
}

func (s *Store) ListVouchers(ctx context.Context) ([]domain.Voucher, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, ean_code, expiration_date, discount_type, discount_amount, is_active, is_deleted, description
		FROM vouchers
		WHERE is_deleted = false
		ORDER BY title
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vouchers := make([]domain.Voucher, 0, 32)
	for rows.Next() {
		var v domain.Voucher
		if err := rows.Scan(&v.ID, &v.Title, &v.EANCode, &v.ExpirationDate, &v.DiscountType, &v.DiscountAmount, &v.IsActive, &v.IsDeleted, &v.Description); err != nil {
			return nil, err
		}
		v.ExpirationDate = v.ExpirationDate.UTC()
		vouchers = append(vouchers, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return vouchers, nil
}

func (s *Store) UpdateVoucher(ctx context.Context, voucher domain.Voucher) (*domain.Voucher, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE vouchers
		SET title = $2, ean_code = $3, expiration_date = $4, discount_type = $5,
			discount_amount = $6, is_active = $7, description = $8
		WHERE id = $1 AND is_deleted = false
	`, voucher.ID, voucher.Title, voucher.EANCode, voucher.ExpirationDate, voucher.DiscountType,
		voucher.DiscountAmount, voucher.IsActive, voucher.Description)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	return s.GetVoucher(ctx, voucher.ID)
}

func (s *Store) SoftDeleteVoucher(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE vouchers
		SET is_deleted = true, is_active = false
		WHERE id = $1 AND is_deleted = false
	`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- sales ---

func (s *Store) CreateSale(ctx context.Context, sale domain.Sale) (*domain.Sale, error) {
	for _, item := range sale.Items {
		if item.Quantity < 1 {
			return nil, store.ErrInvalid
		}
	}
	if sale.ID == "" {
		sale.ID = xid.New("sale")
	}
	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sales (id, cashier, total_amount, tip, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, sale.ID, sale.Cashier, sale.TotalAmount, nullDecimal(sale.Tip), sale.CreatedAt)
	if err != nil {
		return nil, err
	}

	for _, voucherID := range sale.VoucherIDs {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO sale_vouchers (sale_id, voucher_id)
			VALUES ($1,$2)
		`, sale.ID, voucherID)
		if err != nil {
			if isForeignKeyViolation(err) {
				return nil, store.ErrNotFound
			}
			return nil, err
		}
	}

	for _, item := range sale.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO sale_items (sale_id, product_id, quantity, price)
			VALUES ($1,$2,$3,$4)
		`, sale.ID, item.ProductID, item.Quantity, item.Price)
		if err != nil {
			if isForeignKeyViolation(err) {
				return nil, store.ErrNotFound
			}
			return nil, err
		}

		// Each sold item leaves the warehouse through the ledger.
		_, err = createMovementTx(ctx, tx, domain.StockMovement{
			ProductID:    item.ProductID,
			Quantity:     item.Quantity,
			MovementType: domain.MovementOutgoing,
		})
		if err != nil {
			return nil, err
		}
	}

	if sale.Payment != nil {
		payment := *sale.Payment
		if payment.ID == "" {
			payment.ID = xid.New("pay")
		}
		payment.SaleID = sale.ID
		_, err = tx.ExecContext(ctx, `
			INSERT INTO payments (id, sale_id, payment_type)
			VALUES ($1,$2,$3)
		`, payment.ID, payment.SaleID, payment.PaymentType)
		if err != nil {
			return nil, err
		}
		sale.Payment = &payment
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	created := sale
	return &created, nil
}

func (s *Store) GetSale(ctx context.Context, id string) (*domain.Sale, error) {
	sale, err := s.scanSaleRow(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.attachSaleDetails(ctx, sale); err != nil {
		return nil, err
	}
	return sale, nil
}

func (s *Store) scanSaleRow(ctx context.Context, id string) (*domain.Sale, error) {
	var sale domain.Sale
	var tip decimal.NullDecimal
	err := s.db.QueryRowContext(ctx, `
		SELECT id, cashier, total_amount, tip, created_at
		FROM sales
		WHERE id = $1
	`, id).Scan(&sale.ID, &sale.Cashier, &sale.TotalAmount, &tip, &sale.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	if tip.Valid {
		sale.Tip = &tip.Decimal
	}
	sale.CreatedAt = sale.CreatedAt.UTC()
	return &sale, nil
}

func (s *Store) attachSaleDetails(ctx context.Context, sale *domain.Sale) error {
	itemRows, err := s.db.QueryContext(ctx, `
		SELECT product_id, quantity, price
		FROM sale_items
		WHERE sale_id = $1
		ORDER BY id ASC
	`, sale.ID)
	if err != nil {
		return err
	}
	items := make([]domain.SaleItem, 0, 8)
	for itemRows.Next() {
		var item domain.SaleItem
		if err := itemRows.Scan(&item.ProductID, &item.Quantity, &item.Price); err != nil {
			_ = itemRows.Close()
			return err
		}
		items = append(items, item)
	}
	if err := itemRows.Err(); err != nil {
		_ = itemRows.Close()
		return err
	}
	_ = itemRows.Close()
	sale.Items = items

	voucherRows, err := s.db.QueryContext(ctx, `
		SELECT voucher_id
		FROM sale_vouchers
		WHERE sale_id = $1
	`, sale.ID)
	if err != nil {
		return err
	}
	for voucherRows.Next() {
		var voucherID string
		if err := voucherRows.Scan(&voucherID); err != nil {
			_ = voucherRows.Close()
			return err
		}
		sale.VoucherIDs = append(sale.VoucherIDs, voucherID)
	}
	if err := voucherRows.Err(); err != nil {
		_ = voucherRows.Close()
		return err
	}
	_ = voucherRows.Close()

	var payment domain.Payment
	err = s.db.QueryRowContext(ctx, `
		SELECT id, sale_id, payment_type
		FROM payments
		WHERE sale_id = $1
		LIMIT 1
	`, sale.ID).Scan(&payment.ID, &payment.SaleID, &payment.PaymentType)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}
	} else {
		sale.Payment = &payment
	}
	return nil
}

func (s *Store) ListSales(ctx context.Context, limit int) ([]domain.Sale, error) {
	if limit < 1 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, cashier, total_amount, tip, created_at
		FROM sales
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sales := make([]domain.Sale, 0, limit)
	for rows.Next() {
		var sale domain.Sale
		var tip decimal.NullDecimal
		if err := rows.Scan(&sale.ID, &sale.Cashier, &sale.TotalAmount, &tip, &sale.CreatedAt); err != nil {
			return nil, err
		}
		if tip.Valid {
			sale.Tip = &tip.Decimal
		}
		sale.CreatedAt = sale.CreatedAt.UTC()
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range sales {
		if err := s.attachSaleDetails(ctx, &sales[i]); err != nil {
			return nil, err
		}
	}
	return sales, nil
}

func (s *Store) SetSaleTip(ctx context.Context, saleID string, tip decimal.Decimal) (*domain.Sale, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE sales
		SET tip = $2
		WHERE id = $1
	`, saleID, tip)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	return s.GetSale(ctx, saleID)
}

// --- quick sales ---

func (s *Store) CreateQuickSale(ctx context.Context, quickSale domain.QuickSale) (*domain.QuickSale, error) {
	if quickSale.ID == "" {
		quickSale.ID = xid.New("qs")
	}
	quickSale.DateSold = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO quick_sales (id, name, ean_code, price_with_vat, tax_rate, quantity, date_sold)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, quickSale.ID, quickSale.Name, nullIfEmptyPtr(quickSale.EANCode), quickSale.PriceWithVAT,
		quickSale.TaxRate, quickSale.Quantity, quickSale.DateSold)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrConflict
		}
		return nil, err
	}
	created := quickSale
	return &created, nil
}

func (s *Store) ListQuickSales(ctx context.Context, limit int) ([]domain.QuickSale, error) {
	if limit < 1 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, ean_code, price_with_vat, tax_rate, quantity, date_sold
		FROM quick_sales
		ORDER BY date_sold DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	quickSales := make([]domain.QuickSale, 0, limit)
	for rows.Next() {
		var qs domain.QuickSale
		var eanCode sql.NullString
		if err := rows.Scan(&qs.ID, &qs.Name, &eanCode, &qs.PriceWithVAT, &qs.TaxRate, &qs.Quantity, &qs.DateSold); err != nil {
			return nil, err
		}
		if eanCode.Valid {
			qs.EANCode = &eanCode.String
		}
		qs.DateSold = qs.DateSold.UTC()
		quickSales = append(quickSales, qs)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return quickSales, nil
}

// --- daily closure ---

func (s *Store) SaleTotalsForDay(ctx context.Context, cashier string, day time.Time) (store.DayTotals, error) {
	dayStart := nowDateUTC(day)
	dayEnd := dayStart.Add(24 * time.Hour)

	totals := store.DayTotals{
		TotalSales: decimal.Zero,
		TotalTips:  decimal.Zero,
		TotalCash:  decimal.Zero,
		TotalCard:  decimal.Zero,
	}

	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(total_amount), 0), COALESCE(SUM(tip), 0)
		FROM sales
		WHERE cashier = $1 AND created_at >= $2 AND created_at < $3
	`, cashier, dayStart, dayEnd).Scan(&totals.TotalSales, &totals.TotalTips)
	if err != nil {
		return totals, err
	}

	// Each payment row attributes the whole sale amount to its bucket.
	err = s.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(s.total_amount) FILTER (WHERE p.payment_type = $4), 0),
			COALESCE(SUM(s.total_amount) FILTER (WHERE p.payment_type = $5), 0)
		FROM payments p
		JOIN sales s ON s.id = p.sale_id
		WHERE s.cashier = $1 AND s.created_at >= $2 AND s.created_at < $3
	`, cashier, dayStart, dayEnd, domain.PaymentCash, domain.PaymentCard).Scan(&totals.TotalCash, &totals.TotalCard)
	if err != nil {
		return totals, err
	}

	return totals, nil
}

func (s *Store) WithdrawalTotalForDay(ctx context.Context, cashier string, day time.Time) (decimal.Decimal, error) {
	dayStart := nowDateUTC(day)
	dayEnd := dayStart.Add(24 * time.Hour)

	var total decimal.Decimal
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM withdrawals
		WHERE cashier = $1 AND created_at >= $2 AND created_at < $3
	`, cashier, dayStart, dayEnd).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (s *Store) LatestDailySummary(ctx context.Context, cashier string) (*domain.DailySummary, error) {
	var summary domain.DailySummary
	err := s.db.QueryRowContext(ctx, `
		SELECT id, cashier, date, total_sales, total_cash, total_card, total_tips,
			total_withdrawals, closing_cash, cash_difference
		FROM daily_summaries
		WHERE cashier = $1
		ORDER BY date DESC
		LIMIT 1
	`, cashier).Scan(
		&summary.ID, &summary.Cashier, &summary.Date, &summary.TotalSales, &summary.TotalCash,
		&summary.TotalCard, &summary.TotalTips, &summary.TotalWithdrawals,
		&summary.ClosingCash, &summary.CashDifference,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &summary, nil
}

func (s *Store) UpsertDailySummary(ctx context.Context, summary domain.DailySummary) (*domain.DailySummary, error) {
	if summary.ID == "" {
		summary.ID = xid.New("ds")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO daily_summaries (
			id, cashier, date, total_sales, total_cash, total_card, total_tips,
			total_withdrawals, closing_cash, cash_difference
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (cashier, date)
		DO UPDATE SET total_sales = EXCLUDED.total_sales, total_cash = EXCLUDED.total_cash,
			total_card = EXCLUDED.total_card, total_tips = EXCLUDED.total_tips,
			total_withdrawals = EXCLUDED.total_withdrawals, closing_cash = EXCLUDED.closing_cash,
			cash_difference = EXCLUDED.cash_difference
	`, summary.ID, summary.Cashier, summary.Date, summary.TotalSales, summary.TotalCash,
		summary.TotalCard, summary.TotalTips, summary.TotalWithdrawals,
		summary.ClosingCash, summary.CashDifference)
	if err != nil {
		return nil, err
	}

	var saved domain.DailySummary
	err = s.db.QueryRowContext(ctx, `
		SELECT id, cashier, date, total_sales, total_cash, total_card, total_tips,
			total_withdrawals, closing_cash, cash_difference
		FROM daily_summaries
		WHERE cashier = $1 AND date = $2
	`, summary.Cashier, summary.Date).Scan(
		&saved.ID, &saved.Cashier, &saved.Date, &saved.TotalSales, &saved.TotalCash,
		&saved.TotalCard, &saved.TotalTips, &saved.TotalWithdrawals,
		&saved.ClosingCash, &saved.CashDifference,
	)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (s *Store) ListDailySummaries(ctx context.Context) ([]domain.DailySummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, cashier, date, total_sales, total_cash, total_card, total_tips,
			total_withdrawals, closing_cash, cash_difference
		FROM daily_summaries
		ORDER BY date DESC, cashier ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]domain.DailySummary, 0, 64)
	for rows.Next() {
		var summary domain.DailySummary
		if err := rows.Scan(
			&summary.ID, &summary.Cashier, &summary.Date, &summary.TotalSales, &summary.TotalCash,
			&summary.TotalCard, &summary.TotalTips, &summary.TotalWithdrawals,
			&summary.ClosingCash, &summary.CashDifference,
		); err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return summaries, nil
}

// --- withdrawals ---

func (s *Store) CreateWithdrawal(ctx context.Context, withdrawal domain.Withdrawal) (*domain.Withdrawal, error) {
	if withdrawal.ID == "" {
		withdrawal.ID = xid.New("wd")
	}
	if withdrawal.CreatedAt.IsZero() {
		withdrawal.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO withdrawals (id, cashier, amount, note, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, withdrawal.ID, withdrawal.Cashier, withdrawal.Amount, withdrawal.Note, withdrawal.CreatedAt)
	if err != nil {
		return nil, err
	}
	created := withdrawal
	return &created, nil
}

func (s *Store) ListWithdrawals(ctx context.Context, cashier string, limit int) ([]domain.Withdrawal, error) {
	if limit < 1 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, cashier, amount, note, created_at
		FROM withdrawals
		WHERE ($1 = '' OR cashier = $1)
		ORDER BY created_at DESC
		LIMIT $2
	`, cashier, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	withdrawals := make([]domain.Withdrawal, 0, limit)
	for rows.Next() {
		var w domain.Withdrawal
		if err := rows.Scan(&w.ID, &w.Cashier, &w.Amount, &w.Note, &w.CreatedAt); err != nil {
			return nil, err
		}
		w.CreatedAt = w.CreatedAt.UTC()
		withdrawals = append(withdrawals, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return withdrawals, nil
}

// --- business settings ---

// The business_settings table holds a single row pinned to id 1.
func (s *Store) GetBusinessSettings(ctx context.Context) (*domain.BusinessSettings, error) {
	var settings domain.BusinessSettings
	err := s.db.QueryRowContext(ctx, `
		SELECT business_name, ico, dic, contact_email, contact_phone, address, euro_rate, updated_at
		FROM business_settings
		WHERE id = 1
	`).Scan(&settings.BusinessName, &settings.ICO, &settings.DIC, &settings.ContactEmail,
		&settings.ContactPhone, &settings.Address, &settings.EuroRate, &settings.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	settings.UpdatedAt = settings.UpdatedAt.UTC()
	return &settings, nil
}

func (s *Store) SaveBusinessSettings(ctx context.Context, settings domain.BusinessSettings) (*domain.BusinessSettings, error) {
	if settings.UpdatedAt.IsZero() {
		settings.UpdatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO business_settings (id, business_name, ico, dic, contact_email, contact_phone, address, euro_rate, updated_at)
		VALUES (1,$1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (id) DO UPDATE SET
			business_name = EXCLUDED.business_name,
			ico = EXCLUDED.ico,
			dic = EXCLUDED.dic,
			contact_email = EXCLUDED.contact_email,
			contact_phone = EXCLUDED.contact_phone,
			address = EXCLUDED.address,
			euro_rate = EXCLUDED.euro_rate,
			updated_at = EXCLUDED.updated_at
	`, settings.BusinessName, settings.ICO, settings.DIC, settings.ContactEmail,
		settings.ContactPhone, settings.Address, settings.EuroRate, settings.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s.GetBusinessSettings(ctx)
}

// --- users ---

func (s *Store) CreateUser(ctx context.Context, user domain.UserAccount) error {
	username := strings.ToLower(strings.TrimSpace(user.Username))
	if username == "" {
		return store.ErrInvalid
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, password_hash, role, active, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, username, user.Password, user.Role, user.Active, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrConflict
		}
		return err
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.UserAccount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT username, password_hash, role, active, created_at
		FROM users
		ORDER BY username
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.UserAccount, 0, 16)
	for rows.Next() {
		var u domain.UserAccount
		if err := rows.Scan(&u.Username, &u.Password, &u.Role, &u.Active, &u.CreatedAt); err != nil {
			return nil, err
		}
		u.CreatedAt = u.CreatedAt.UTC()
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) UpdateUserPassword(ctx context.Context, username string, password string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET password_hash = $2
		WHERE username = $1
	`, username, password)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- helpers ---

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}

func nowDateUTC(t time.Time) time.Time {
	return time.Date(t.UTC().Year(), t.UTC().Month(), t.UTC().Day(), 0, 0, 0, 0, time.UTC)
}

func nullIfEmptyPtr(val *string) any {
	if val == nil || *val == "" {
		return nil
	}
	return *val
}

func nullInt(val *int) any {
	if val == nil {
		return nil
	}
	return *val
}

func nullDecimal(val *decimal.Decimal) any {
	if val == nil {
		return nil
	}
	return *val
}
