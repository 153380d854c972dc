package service

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"tillpoint/backend/internal/domain"
	"tillpoint/backend/internal/store"
)

// --- vouchers ---

func (s *Service) CreateVoucher(ctx context.Context, voucher domain.Voucher) (domain.Voucher, error) {
	if _, err := s.requireRole(ctx, domain.RoleAdmin, domain.RoleManager); err != nil {
		return domain.Voucher{}, err
	}

	voucher.Title = strings.TrimSpace(voucher.Title)
	if voucher.Title == "" {
		return domain.Voucher{}, store.ErrInvalid
	}
	if voucher.DiscountType != domain.DiscountPercentage && voucher.DiscountType != domain.DiscountFixed {
		return domain.Voucher{}, store.ErrInvalid
	}
	if voucher.DiscountAmount.IsNegative() {
		return domain.Voucher{}, store.ErrInvalid
	}
	voucher.IsDeleted = false

	created, err := s.repo.CreateVoucher(ctx, voucher)
	if err != nil {
		return domain.Voucher{}, err
	}
	return *created, nil
}

func (s *Service) GetVoucher(ctx context.Context, id string) (domain.Voucher, error) {
	voucher, err := s.repo.GetVoucher(ctx, id)
	if err != nil {
		return domain.Voucher{}, err
	}
	return *voucher, nil
}

func (s *Service) ListVouchers(ctx context.Context) ([]domain.Voucher, error) {
	return s.repo.ListVouchers(ctx)
}

func (s *Service) UpdateVoucher(ctx context.Context, id string, req domain.VoucherUpdateRequest) (domain.Voucher, error) {
	if _, err := s.requireRole(ctx, domain.RoleAdmin, domain.RoleManager); err != nil {
		return domain.Voucher{}, err
	}

	existing, err := s.repo.GetVoucher(ctx, id)
	if err != nil {
		return domain.Voucher{}, err
	}

	updated := *existing
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return domain.Voucher{}, store.ErrInvalid
		}
		updated.Title = title
	}
	if req.EANCode != nil {
		updated.EANCode = *req.EANCode
	}
	if req.ExpirationDate != nil {
		updated.ExpirationDate = *req.ExpirationDate
	}
	if req.DiscountType != nil {
		if *req.DiscountType != domain.DiscountPercentage && *req.DiscountType != domain.DiscountFixed {
			return domain.Voucher{}, store.ErrInvalid
		}
		updated.DiscountType = *req.DiscountType
	}
	if req.DiscountAmount != nil {
		if req.DiscountAmount.IsNegative() {
			return domain.Voucher{}, store.ErrInvalid
		}
		updated.DiscountAmount = *req.DiscountAmount
	}
	if req.IsActive != nil {
		updated.IsActive = *req.IsActive
	}
	if req.Description != nil {
		updated.Description = *req.Description
	}

	saved, err := s.repo.UpdateVoucher(ctx, updated)
	if err != nil {
		return domain.Voucher{}, err
	}
	return *saved, nil
}

func (s *Service) DeleteVoucher(ctx context.Context, id string) error {
	if _, err := s.requireRole(ctx, domain.RoleAdmin, domain.RoleManager); err != nil {
		return err
	}
	return s.repo.SoftDeleteVoucher(ctx, id)
}

// --- sales ---

func (s *Service) CreateSale(ctx context.Context, req domain.SaleCreateRequest) (domain.Sale, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		return domain.Sale{}, ErrForbidden
	}

	if req.TotalAmount.IsNegative() {
		return domain.Sale{}, store.ErrInvalid
	}
	if len(req.Items) == 0 {
		return domain.Sale{}, store.ErrInvalid
	}
	for _, item := range req.Items {
		if item.ProductID == "" || item.Quantity < 1 || item.Price.IsNegative() {
			return domain.Sale{}, store.ErrInvalid
		}
	}
	if req.PaymentType != domain.PaymentCash && req.PaymentType != domain.PaymentCard {
		return domain.Sale{}, store.ErrInvalid
	}

	sale := domain.Sale{
		Cashier:     actor.Username,
		TotalAmount: req.TotalAmount,
		Items:       req.Items,
		Payment:     &domain.Payment{PaymentType: req.PaymentType},
	}
	if req.VoucherID != nil {
		voucher, err := s.repo.GetVoucher(ctx, *req.VoucherID)
		if err != nil {
			return domain.Sale{}, err
		}
		if !voucher.IsActive || voucher.ExpirationDate.Before(time.Now()) {
			return domain.Sale{}, store.ErrInvalid
		}
		sale.VoucherIDs = []string{*req.VoucherID}
	}

	created, err := s.repo.CreateSale(ctx, sale)
	if err != nil {
		return domain.Sale{}, err
	}

	s.logger.Info("sale recorded",
		zap.String("sale_id", created.ID),
		zap.String("cashier", created.Cashier),
		zap.String("total_amount", created.TotalAmount.String()),
		zap.String("payment_type", req.PaymentType),
	)
	return *created, nil
}

func (s *Service) GetSale(ctx context.Context, id string) (domain.Sale, error) {
	sale, err := s.repo.GetSale(ctx, id)
	if err != nil {
		return domain.Sale{}, err
	}
	return *sale, nil
}

func (s *Service) ListSales(ctx context.Context, limit int) ([]domain.Sale, error) {
	return s.repo.ListSales(ctx, limit)
}

func (s *Service) SetSaleTip(ctx context.Context, saleID string, tip decimal.Decimal) (domain.Sale, error) {
	if _, ok := ActorFromContext(ctx); !ok {
		return domain.Sale{}, ErrForbidden
	}
	if tip.IsNegative() {
		return domain.Sale{}, store.ErrInvalid
	}

	sale, err := s.repo.SetSaleTip(ctx, saleID, tip)
	if err != nil {
		return domain.Sale{}, err
	}
	return *sale, nil
}

// --- quick sales ---

func (s *Service) CreateQuickSale(ctx context.Context, quickSale domain.QuickSale) (domain.QuickSale, error) {
	if _, ok := ActorFromContext(ctx); !ok {
		return domain.QuickSale{}, ErrForbidden
	}

	quickSale.Name = strings.TrimSpace(quickSale.Name)
	if quickSale.Name == "" || quickSale.Quantity < 1 {
		return domain.QuickSale{}, store.ErrInvalid
	}
	if quickSale.PriceWithVAT.IsNegative() || quickSale.TaxRate.IsNegative() {
		return domain.QuickSale{}, store.ErrInvalid
	}

	created, err := s.repo.CreateQuickSale(ctx, quickSale)
	if err != nil {
		return domain.QuickSale{}, err
	}
	return *created, nil
}

func (s *Service) ListQuickSales(ctx context.Context, limit int) ([]domain.QuickSale, error) {
	return s.repo.ListQuickSales(ctx, limit)
}
