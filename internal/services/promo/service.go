// Package promo manages promo codes: creation, validation against a
// player's redemption history, and use counting.
package promo

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/clickonomy/clickonomy-go/internal/model"
	"github.com/clickonomy/clickonomy-go/internal/storage"
)

// Service validates and administers promo codes. Applying a code's reward
// to a player is the caller's job so balance mutation stays inside the
// session's single-writer discipline.
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new promo service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// Validate checks that a code exists, has uses left, and has not already
// been redeemed by this player. Codes are case-insensitive.
func (s *Service) Validate(ctx context.Context, player *model.Player, code string) (*model.PromoCode, error) {
	promo, err := s.storage.GetPromoCode(ctx, normalize(code))
	if err != nil {
		return nil, err
	}

	if promo.Exhausted() {
		return nil, model.ErrPromoExhausted
	}
	if player.HasRedeemed(promo.Code) {
		return nil, model.ErrPromoAlreadyRedeemed
	}

	return promo, nil
}

// MarkRedeemed counts one use against the code
func (s *Service) MarkRedeemed(ctx context.Context, code string) error {
	promo, err := s.storage.GetPromoCode(ctx, normalize(code))
	if err != nil {
		return err
	}

	promo.Uses++
	if err := s.storage.SavePromoCode(ctx, promo); err != nil {
		return err
	}

	s.logger.Info("promo code redeemed",
		slog.String("code", promo.Code),
		slog.Int("uses", promo.Uses),
		slog.Int("max_uses", promo.MaxUses),
	)
	return nil
}

// Create registers a new promo code. MaxUses of zero means unlimited.
func (s *Service) Create(ctx context.Context, code string, reward float64, maxUses int) (*model.PromoCode, error) {
	code = normalize(code)
	if code == "" {
		return nil, model.ErrPromoNotFound
	}

	_, err := s.storage.GetPromoCode(ctx, code)
	if err == nil {
		return nil, model.ErrPromoExists
	}
	if !errors.Is(err, model.ErrPromoNotFound) {
		return nil, err
	}

	promo := &model.PromoCode{
		Code:    code,
		Reward:  reward,
		MaxUses: maxUses,
	}
	if err := s.storage.SavePromoCode(ctx, promo); err != nil {
		return nil, err
	}

	s.logger.Info("promo code created",
		slog.String("code", code),
		slog.Float64("reward", reward),
		slog.Int("max_uses", maxUses),
	)
	return promo, nil
}

// List returns all promo codes
func (s *Service) List(ctx context.Context) ([]model.PromoCode, error) {
	return s.storage.ListPromoCodes(ctx)
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Interface for dependency injection
type ServiceInterface interface {
	Validate(ctx context.Context, player *model.Player, code string) (*model.PromoCode, error)
	MarkRedeemed(ctx context.Context, code string) error
	Create(ctx context.Context, code string, reward float64, maxUses int) (*model.PromoCode, error)
	List(ctx context.Context) ([]model.PromoCode, error)
}

var _ ServiceInterface = (*Service)(nil)
