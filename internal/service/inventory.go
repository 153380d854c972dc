package service

import (
	"context"

	"go.uber.org/zap"

	"tillpoint/backend/internal/domain"
	"tillpoint/backend/internal/store"
)

// --- stock movements ---

func (s *Service) CreateStockMovement(ctx context.Context, req domain.StockMovementCreateRequest) (domain.StockMovementResult, error) {
	actor, err := s.requireRole(ctx, domain.RoleAdmin, domain.RoleManager)
	if err != nil {
		return domain.StockMovementResult{}, err
	}

	if req.ProductID == "" || req.Quantity < 1 {
		return domain.StockMovementResult{}, store.ErrInvalid
	}
	if req.MovementType != domain.MovementIncoming && req.MovementType != domain.MovementOutgoing {
		return domain.StockMovementResult{}, store.ErrInvalid
	}
	if req.ImportPrice != nil {
		if req.MovementType != domain.MovementIncoming {
			return domain.StockMovementResult{}, store.ErrInvalid
		}
		if req.ImportPrice.IsNegative() {
			return domain.StockMovementResult{}, store.ErrInvalid
		}
	}

	result, err := s.repo.CreateStockMovement(ctx, domain.StockMovement{
		ProductID:    req.ProductID,
		Quantity:     req.Quantity,
		MovementType: req.MovementType,
		ImportPrice:  req.ImportPrice,
		SupplierID:   req.SupplierID,
	})
	if err != nil {
		return domain.StockMovementResult{}, err
	}

	s.logger.Info("stock movement recorded",
		zap.String("movement_id", result.Movement.ID),
		zap.String("product_id", result.Movement.ProductID),
		zap.String("movement_type", result.Movement.MovementType),
		zap.Int("quantity", result.Movement.Quantity),
		zap.String("actor", actor.Username),
	)
	return *result, nil
}

func (s *Service) DeleteStockMovement(ctx context.Context, id string) (domain.Product, error) {
	actor, err := s.requireRole(ctx, domain.RoleAdmin, domain.RoleManager)
	if err != nil {
		return domain.Product{}, err
	}

	product, err := s.repo.DeleteStockMovement(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	s.logger.Info("stock movement deleted",
		zap.String("movement_id", id),
		zap.String("product_id", product.ID),
		zap.String("actor", actor.Username),
	)
	return *product, nil
}

func (s *Service) GetStockMovement(ctx context.Context, id string) (domain.StockMovement, error) {
	mov, err := s.repo.GetStockMovement(ctx, id)
	if err != nil {
		return domain.StockMovement{}, err
	}
	return *mov, nil
}

func (s *Service) ListStockMovements(ctx context.Context, productID string, limit int) ([]domain.StockMovement, error) {
	return s.repo.ListStockMovements(ctx, productID, limit)
}

// --- stock imports ---

func (s *Service) CreateStockImport(ctx context.Context, req domain.StockImportCreateRequest) (domain.StockImport, error) {
	actor, err := s.requireRole(ctx, domain.RoleAdmin, domain.RoleManager)
	if err != nil {
		return domain.StockImport{}, err
	}

	if len(req.Lines) == 0 {
		return domain.StockImport{}, store.ErrInvalid
	}
	if (req.SupplierID == nil || *req.SupplierID == "") && req.ICO == "" {
		return domain.StockImport{}, store.ErrInvalid
	}
	seen := make(map[string]bool, len(req.Lines))
	for _, line := range req.Lines {
		if line.ProductID == "" || line.Quantity < 1 || line.ImportPrice.IsNegative() {
			return domain.StockImport{}, store.ErrInvalid
		}
		if seen[line.ProductID] {
			return domain.StockImport{}, store.ErrInvalid
		}
		seen[line.ProductID] = true
	}

	created, err := s.repo.CreateStockImport(ctx, domain.StockImport{
		SupplierID:    req.SupplierID,
		ICO:           req.ICO,
		Note:          req.Note,
		InvoiceNumber: req.InvoiceNumber,
		Lines:         req.Lines,
	})
	if err != nil {
		return domain.StockImport{}, err
	}

	s.logger.Info("stock import recorded",
		zap.String("import_id", created.ID),
		zap.Int("lines", len(created.Lines)),
		zap.String("actor", actor.Username),
	)
	return *created, nil
}

func (s *Service) GetStockImport(ctx context.Context, id string) (domain.StockImport, error) {
	imp, err := s.repo.GetStockImport(ctx, id)
	if err != nil {
		return domain.StockImport{}, err
	}
	return *imp, nil
}

func (s *Service) ListStockImports(ctx context.Context, limit int) ([]domain.StockImport, error) {
	return s.repo.ListStockImports(ctx, limit)
}
