package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"tillpoint/backend/internal/domain"
	"tillpoint/backend/internal/store"
)

// GetBusinessSettings returns the singleton settings row. Before the first
// update an empty settings value is returned rather than an error.
func (s *Service) GetBusinessSettings(ctx context.Context) (domain.BusinessSettings, error) {
	if _, ok := ActorFromContext(ctx); !ok {
		return domain.BusinessSettings{}, ErrForbidden
	}

	settings, err := s.repo.GetBusinessSettings(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.BusinessSettings{}, nil
		}
		return domain.BusinessSettings{}, err
	}
	return *settings, nil
}

func (s *Service) UpdateBusinessSettings(ctx context.Context, req domain.BusinessSettingsUpdateRequest) (domain.BusinessSettings, error) {
	actor, err := s.requireRole(ctx, domain.RoleAdmin, domain.RoleManager)
	if err != nil {
		return domain.BusinessSettings{}, err
	}

	updated := domain.BusinessSettings{}
	existing, err := s.repo.GetBusinessSettings(ctx)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return domain.BusinessSettings{}, err
	}
	if existing != nil {
		updated = *existing
	}

	if req.BusinessName != nil {
		name := strings.TrimSpace(*req.BusinessName)
		if name == "" {
			return domain.BusinessSettings{}, store.ErrInvalid
		}
		updated.BusinessName = name
	}
	if req.ICO != nil {
		updated.ICO = strings.TrimSpace(*req.ICO)
	}
	if req.DIC != nil {
		updated.DIC = strings.TrimSpace(*req.DIC)
	}
	if req.ContactEmail != nil {
		updated.ContactEmail = strings.TrimSpace(*req.ContactEmail)
	}
	if req.ContactPhone != nil {
		updated.ContactPhone = strings.TrimSpace(*req.ContactPhone)
	}
	if req.Address != nil {
		updated.Address = *req.Address
	}
	if req.EuroRate != nil {
		updated.EuroRate = *req.EuroRate
	}
	updated.UpdatedAt = time.Now().UTC()

	saved, err := s.repo.SaveBusinessSettings(ctx, updated)
	if err != nil {
		return domain.BusinessSettings{}, err
	}

	s.logger.Info("business settings updated",
		zap.String("actor", actor.Username),
	)
	return *saved, nil
}
