package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tillpoint/backend/internal/cache"
	"tillpoint/backend/internal/domain"
	"tillpoint/backend/internal/store"
)

// ErrForbidden marks an operation the authenticated actor's role does not
// allow.
var ErrForbidden = errors.New("insufficient role")

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

const catalogCacheKey = "catalog:active"

type Service struct {
	repo       store.Repository
	catalog    cache.CatalogCache
	catalogTTL time.Duration
	logger     *zap.Logger
}

func New(repo store.Repository, catalog cache.CatalogCache, catalogTTL time.Duration, logger *zap.Logger) *Service {
	if catalog == nil {
		catalog = cache.NoopCatalogCache{}
	}
	if catalogTTL <= 0 {
		catalogTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		repo:       repo,
		catalog:    catalog,
		catalogTTL: catalogTTL,
		logger:     logger,
	}
}

func (s *Service) requireRole(ctx context.Context, roles ...string) (domain.Actor, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		return domain.Actor{}, ErrForbidden
	}
	for _, role := range roles {
		if actor.Role == role {
			return actor, nil
		}
	}
	return domain.Actor{}, ErrForbidden
}

// invalidateCatalog drops the cached product list after a catalog mutation.
// Cache failures never fail the write.
func (s *Service) invalidateCatalog(ctx context.Context) {
	if err := s.catalog.Invalidate(ctx, catalogCacheKey); err != nil {
		s.logger.Warn("catalog cache invalidation failed", zap.Error(err))
	}
}

// --- categories ---

func (s *Service) CreateCategory(ctx context.Context, category domain.Category) (domain.Category, error) {
	if _, err := s.requireRole(ctx, domain.RoleAdmin, domain.RoleManager); err != nil {
		return domain.Category{}, err
	}

	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return domain.Category{}, store.ErrInvalid
	}

	created, err := s.repo.CreateCategory(ctx, category)
	if err != nil {
		return domain.Category{}, err
	}
	s.invalidateCatalog(ctx)
	return *created, nil
}

func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) GetCategory(ctx context.Context, id string) (domain.Category, error) {
	category, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return domain.Category{}, err
	}
	return *category, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if _, err := s.requireRole(ctx, domain.RoleAdmin, domain.RoleManager); err != nil {
		return err
	}
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.invalidateCatalog(ctx)
	return nil
}

// --- products ---

func (s *Service) ListProducts(ctx context.Context, activeOnly bool) ([]domain.Product, error) {
	if activeOnly {
		if cached, ok, err := s.catalog.Get(ctx, catalogCacheKey); err == nil && ok {
			return cached, nil
		} else if err != nil {
			s.logger.Warn("catalog cache read failed", zap.Error(err))
		}
	}

	products, err := s.repo.ListProducts(ctx, activeOnly)
	if err != nil {
		return nil, err
	}

	if activeOnly {
		if err := s.catalog.Set(ctx, catalogCacheKey, products, s.catalogTTL); err != nil {
			s.logger.Warn("catalog cache write failed", zap.Error(err))
		}
	}
	return products, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	return *product, nil
}

func (s *Service) LatestProduct(ctx context.Context) (domain.Product, error) {
	product, err := s.repo.LatestProduct(ctx)
	if err != nil {
		return domain.Product{}, err
	}
	return *product, nil
}

func (s *Service) CreateProduct(ctx context.Context, req domain.ProductCreateRequest) (domain.Product, error) {
	actor, err := s.requireRole(ctx, domain.RoleAdmin, domain.RoleManager)
	if err != nil {
		return domain.Product{}, err
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Unit = strings.TrimSpace(req.Unit)
	if req.Name == "" || req.Unit == "" {
		return domain.Product{}, store.ErrInvalid
	}
	if req.PriceWithVAT.IsNegative() || req.PriceWithoutVAT.IsNegative() {
		return domain.Product{}, store.ErrInvalid
	}
	if req.MeasurementOfQuantity.Sign() <= 0 {
		return domain.Product{}, store.ErrInvalid
	}
	if req.EANCode != nil {
		trimmed := strings.TrimSpace(*req.EANCode)
		if trimmed == "" {
			req.EANCode = nil
		} else {
			req.EANCode = &trimmed
		}
	}

	taxRate := decimal.RequireFromString("0.21")
	if req.TaxRate != nil {
		if req.TaxRate.IsNegative() {
			return domain.Product{}, store.ErrInvalid
		}
		taxRate = *req.TaxRate
	}

	product := domain.Product{
		Name:                  req.Name,
		CategoryID:            req.CategoryID,
		PriceWithVAT:          req.PriceWithVAT,
		PriceWithoutVAT:       req.PriceWithoutVAT,
		InventoryCount:        req.InventoryCount,
		MeasurementOfQuantity: req.MeasurementOfQuantity,
		Unit:                  req.Unit,
		EANCode:               req.EANCode,
		TaxRate:               taxRate,
		Description:           req.Description,
		AveragePrice:          decimal.Zero,
		IsActive:              true,
	}

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return domain.Product{}, err
	}

	s.invalidateCatalog(ctx)
	s.logger.Info("product created",
		zap.String("product_id", created.ID),
		zap.String("name", created.Name),
		zap.String("actor", actor.Username),
	)
	return *created, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id string, req domain.ProductUpdateRequest) (domain.Product, error) {
	actor, err := s.requireRole(ctx, domain.RoleAdmin, domain.RoleManager)
	if err != nil {
		return domain.Product{}, err
	}

	existing, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	updated := *existing
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Product{}, store.ErrInvalid
		}
		updated.Name = name
	}
	if req.CategoryID != nil {
		updated.CategoryID = req.CategoryID
	}
	if req.PriceWithVAT != nil {
		if req.PriceWithVAT.IsNegative() {
			return domain.Product{}, store.ErrInvalid
		}
		updated.PriceWithVAT = *req.PriceWithVAT
	}
	if req.PriceWithoutVAT != nil {
		if req.PriceWithoutVAT.IsNegative() {
			return domain.Product{}, store.ErrInvalid
		}
		updated.PriceWithoutVAT = *req.PriceWithoutVAT
	}
	if req.MeasurementOfQuantity != nil {
		if req.MeasurementOfQuantity.Sign() <= 0 {
			return domain.Product{}, store.ErrInvalid
		}
		updated.MeasurementOfQuantity = *req.MeasurementOfQuantity
	}
	if req.Unit != nil {
		unit := strings.TrimSpace(*req.Unit)
		if unit == "" {
			return domain.Product{}, store.ErrInvalid
		}
		updated.Unit = unit
	}
	if req.EANCode != nil {
		trimmed := strings.TrimSpace(*req.EANCode)
		if trimmed == "" {
			updated.EANCode = nil
		} else {
			updated.EANCode = &trimmed
		}
	}
	if req.TaxRate != nil {
		if req.TaxRate.IsNegative() {
			return domain.Product{}, store.ErrInvalid
		}
		updated.TaxRate = *req.TaxRate
	}
	if req.Description != nil {
		updated.Description = *req.Description
	}
	if req.IsActive != nil {
		updated.IsActive = *req.IsActive
	}

	saved, err := s.repo.UpdateProduct(ctx, updated)
	if err != nil {
		return domain.Product{}, err
	}

	s.invalidateCatalog(ctx)
	s.logger.Info("product updated",
		zap.String("product_id", saved.ID),
		zap.String("actor", actor.Username),
	)
	return *saved, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	actor, err := s.requireRole(ctx, domain.RoleAdmin, domain.RoleManager)
	if err != nil {
		return err
	}
	if err := s.repo.SoftDeleteProduct(ctx, id); err != nil {
		return err
	}
	s.invalidateCatalog(ctx)
	s.logger.Info("product deactivated",
		zap.String("product_id", id),
		zap.String("actor", actor.Username),
	)
	return nil
}

// --- suppliers ---

func (s *Service) CreateSupplier(ctx context.Context, supplier domain.Supplier) (domain.Supplier, error) {
	if _, err := s.requireRole(ctx, domain.RoleAdmin, domain.RoleManager); err != nil {
		return domain.Supplier{}, err
	}

	supplier.Name = strings.TrimSpace(supplier.Name)
	if supplier.Name == "" {
		return domain.Supplier{}, store.ErrInvalid
	}

	created, err := s.repo.CreateSupplier(ctx, supplier)
	if err != nil {
		return domain.Supplier{}, err
	}
	return *created, nil
}

func (s *Service) GetSupplier(ctx context.Context, id string) (domain.Supplier, error) {
	supplier, err := s.repo.GetSupplier(ctx, id)
	if err != nil {
		return domain.Supplier{}, err
	}
	return *supplier, nil
}

func (s *Service) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	return s.repo.ListSuppliers(ctx)
}

func (s *Service) UpdateSupplier(ctx context.Context, id string, req domain.SupplierUpdateRequest) (domain.Supplier, error) {
	if _, err := s.requireRole(ctx, domain.RoleAdmin, domain.RoleManager); err != nil {
		return domain.Supplier{}, err
	}

	existing, err := s.repo.GetSupplier(ctx, id)
	if err != nil {
		return domain.Supplier{}, err
	}

	updated := *existing
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Supplier{}, store.ErrInvalid
		}
		updated.Name = name
	}
	if req.Address != nil {
		updated.Address = *req.Address
	}
	if req.PhoneNumber != nil {
		updated.PhoneNumber = *req.PhoneNumber
	}
	if req.Email != nil {
		updated.Email = *req.Email
	}
	if req.ICO != nil {
		updated.ICO = *req.ICO
	}
	if req.DIC != nil {
		updated.DIC = *req.DIC
	}

	saved, err := s.repo.UpdateSupplier(ctx, updated)
	if err != nil {
		return domain.Supplier{}, err
	}
	return *saved, nil
}

func (s *Service) DeleteSupplier(ctx context.Context, id string) error {
	if _, err := s.requireRole(ctx, domain.RoleAdmin, domain.RoleManager); err != nil {
		return err
	}
	return s.repo.DeleteSupplier(ctx, id)
}
