// Package market advances investment prices one simulated step per market
// tick, maintaining a bounded OHLC candle history per symbol.
package market

import (
	"log/slog"
	"math"

	"github.com/clickonomy/clickonomy-go/internal/dependencies/clock"
	"github.com/clickonomy/clickonomy-go/internal/dependencies/random"
	"github.com/clickonomy/clickonomy-go/internal/model"
)

// Config tunes the simulated price walk
type Config struct {
	// BucketSeconds is the width of one candle bucket in simulated seconds
	BucketSeconds int64
	// Retention is the maximum number of candles kept per symbol
	Retention int
	// Volatility scales the random component of each step
	Volatility float64
	// MeanReversion pulls prices back toward their base price
	MeanReversion float64
	// MaxDropPerTick bounds a single step's loss as a fraction of price
	MaxDropPerTick float64
	// MaxRisePerTick bounds a single step's gain as a fraction of price
	MaxRisePerTick float64
	// MinPrice and MaxPrice bound the absolute price range
	MinPrice float64
	MaxPrice float64
}

// DefaultConfig returns the default market tuning
func DefaultConfig() Config {
	return Config{
		BucketSeconds:  30,
		Retention:      50,
		Volatility:     0.04,
		MeanReversion:  0.08,
		MaxDropPerTick: 0.15,
		MaxRisePerTick: 0.20,
		MinPrice:       0.01,
		MaxPrice:       1e9,
	}
}

// Service applies market price steps to player portfolios
type Service struct {
	random random.Random
	clock  clock.Clock
	logger *slog.Logger
	cfg    Config
}

// New creates a new market service
func New(
	random random.Random,
	clock clock.Clock,
	logger *slog.Logger,
	cfg Config,
) *Service {
	return &Service{
		random: random,
		clock:  clock,
		logger: logger,
		cfg:    cfg,
	}
}

// Reprice applies one price step to every investment and returns the updated
// player. The input player is not mutated; callers are responsible for not
// invoking this more often than once per market-tick period.
func (s *Service) Reprice(player model.Player) model.Player {
	updated := *player.Clone()
	now := s.clock.Now()
	bucket := now.Unix() - (now.Unix() % s.cfg.BucketSeconds)

	for i := range updated.Investments {
		inv := &updated.Investments[i]
		prev := inv.CurrentPrice
		if prev <= 0 {
			// Heal a corrupt series from its anchor price
			prev = inv.BasePrice
			if prev <= 0 {
				prev = s.cfg.MinPrice
			}
		}

		price := s.step(prev, inv.BasePrice)
		inv.CurrentPrice = price
		inv.ChangePercent = (price - prev) / prev * 100

		s.recordCandle(inv, bucket, prev, price)
	}

	s.logger.Debug("market repriced",
		slog.String("player_id", string(updated.ID)),
		slog.Int("symbols", len(updated.Investments)),
	)

	return updated
}

// step produces the next price from the previous one: a random log-return
// scaled by volatility, pulled toward the base price, bounded per tick and
// in absolute range.
func (s *Service) step(prev, base float64) float64 {
	noise := 2*s.random.Float64() - 1
	ret := noise * s.cfg.Volatility
	if base > 0 {
		ret += s.cfg.MeanReversion * (base - prev) / base
	}

	factor := math.Exp(ret)
	if factor < 1-s.cfg.MaxDropPerTick {
		factor = 1 - s.cfg.MaxDropPerTick
	}
	if factor > 1+s.cfg.MaxRisePerTick {
		factor = 1 + s.cfg.MaxRisePerTick
	}

	price := prev * factor
	if price < s.cfg.MinPrice {
		price = s.cfg.MinPrice
	}
	if price > s.cfg.MaxPrice {
		price = s.cfg.MaxPrice
	}
	return price
}

// recordCandle amends the current bucket's candle or seals it and opens a new
// one when the bucket boundary has passed, evicting history past retention
func (s *Service) recordCandle(inv *model.Investment, bucket int64, prev, price float64) {
	n := len(inv.History)
	if n > 0 && inv.History[n-1].Bucket == bucket {
		candle := &inv.History[n-1]
		candle.Close = price
		if price > candle.High {
			candle.High = price
		}
		if price < candle.Low {
			candle.Low = price
		}
		return
	}

	candle := model.Candle{
		Bucket: bucket,
		Open:   prev,
		High:   math.Max(prev, price),
		Low:    math.Min(prev, price),
		Close:  price,
	}
	inv.History = append(inv.History, candle)

	if len(inv.History) > s.cfg.Retention {
		trimmed := make([]model.Candle, s.cfg.Retention)
		copy(trimmed, inv.History[len(inv.History)-s.cfg.Retention:])
		inv.History = trimmed
	}
}

// Interface for dependency injection
type ServiceInterface interface {
	Reprice(player model.Player) model.Player
}

var _ ServiceInterface = (*Service)(nil)
