package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"tillpoint/backend/internal/domain"
	"tillpoint/backend/internal/store"
)

// CalculateDailySummary reconciles the actor's cash drawer for today.
//
// The expected drawer content is the previous closing cash plus today's cash
// sales and tips minus today's withdrawals. The difference against the
// counted cash is stored on the summary, and recalculating on the same day
// replaces the existing row instead of appending a second one.
func (s *Service) CalculateDailySummary(ctx context.Context, actualCash decimal.Decimal) (domain.DailySummary, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		return domain.DailySummary{}, ErrForbidden
	}

	now := time.Now().UTC()
	totals, err := s.repo.SaleTotalsForDay(ctx, actor.Username, now)
	if err != nil {
		return domain.DailySummary{}, err
	}
	withdrawals, err := s.repo.WithdrawalTotalForDay(ctx, actor.Username, now)
	if err != nil {
		return domain.DailySummary{}, err
	}

	// The baseline is the most recent summary for this cashier regardless of
	// how long ago it was written. A first-ever closure starts from zero.
	previousClosing := decimal.Zero
	previous, err := s.repo.LatestDailySummary(ctx, actor.Username)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return domain.DailySummary{}, err
	}
	if previous != nil {
		previousClosing = previous.ClosingCash
	}

	expected := previousClosing.Add(totals.TotalCash).Add(totals.TotalTips).Sub(withdrawals)

	summary := domain.DailySummary{
		Cashier:          actor.Username,
		Date:             now.Format("2006-01-02"),
		TotalSales:       totals.TotalSales,
		TotalCash:        totals.TotalCash,
		TotalCard:        totals.TotalCard,
		TotalTips:        totals.TotalTips,
		TotalWithdrawals: withdrawals,
		ClosingCash:      actualCash,
		CashDifference:   actualCash.Sub(expected),
	}

	saved, err := s.repo.UpsertDailySummary(ctx, summary)
	if err != nil {
		return domain.DailySummary{}, err
	}

	s.logger.Info("daily summary calculated",
		zap.String("cashier", saved.Cashier),
		zap.String("date", saved.Date),
		zap.String("cash_difference", saved.CashDifference.String()),
	)
	return *saved, nil
}

func (s *Service) ListDailySummaries(ctx context.Context) ([]domain.DailySummary, error) {
	if _, err := s.requireRole(ctx, domain.RoleAdmin, domain.RoleManager); err != nil {
		return nil, err
	}
	return s.repo.ListDailySummaries(ctx)
}

// --- withdrawals ---

func (s *Service) CreateWithdrawal(ctx context.Context, req domain.WithdrawalCreateRequest) (domain.Withdrawal, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		return domain.Withdrawal{}, ErrForbidden
	}

	// Negative amounts are accepted as corrections of earlier withdrawals.
	created, err := s.repo.CreateWithdrawal(ctx, domain.Withdrawal{
		Cashier: actor.Username,
		Amount:  req.Amount,
		Note:    strings.TrimSpace(req.Note),
	})
	if err != nil {
		return domain.Withdrawal{}, err
	}

	s.logger.Info("withdrawal recorded",
		zap.String("withdrawal_id", created.ID),
		zap.String("cashier", created.Cashier),
		zap.String("amount", created.Amount.String()),
	)
	return *created, nil
}

func (s *Service) ListWithdrawals(ctx context.Context, cashier string, limit int) ([]domain.Withdrawal, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		return nil, ErrForbidden
	}
	// Cashiers only see their own withdrawals.
	if actor.Role == domain.RoleCashier {
		cashier = actor.Username
	}
	return s.repo.ListWithdrawals(ctx, cashier, limit)
}

// --- users ---

func (s *Service) CreateUser(ctx context.Context, req domain.UserCreateRequest) (domain.UserAccount, error) {
	if _, err := s.requireRole(ctx, domain.RoleAdmin); err != nil {
		return domain.UserAccount{}, err
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))
	if username == "" || len(req.Password) < 8 {
		return domain.UserAccount{}, store.ErrInvalid
	}
	switch req.Role {
	case domain.RoleAdmin, domain.RoleManager, domain.RoleCashier:
	default:
		return domain.UserAccount{}, store.ErrInvalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.UserAccount{}, err
	}

	user := domain.UserAccount{
		Username:  username,
		Password:  string(hash),
		Role:      req.Role,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return domain.UserAccount{}, err
	}

	s.logger.Info("user created",
		zap.String("username", user.Username),
		zap.String("role", user.Role),
	)
	return user, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]domain.UserAccount, error) {
	if _, err := s.requireRole(ctx, domain.RoleAdmin); err != nil {
		return nil, err
	}
	return s.repo.ListUsers(ctx)
}

func (s *Service) ChangePassword(ctx context.Context, username string, password string) error {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		return ErrForbidden
	}
	username = strings.ToLower(strings.TrimSpace(username))
	if actor.Role != domain.RoleAdmin && actor.Username != username {
		return ErrForbidden
	}
	if len(password) < 8 {
		return store.ErrInvalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdateUserPassword(ctx, username, string(hash))
}
