// Package economy implements the per-tick economic calculators: business
// income, mining performance, and manual tap gains. Every function is pure
// and never mutates its inputs.
package economy

import (
	"math"

	"github.com/clickonomy/clickonomy-go/internal/model"
)

const (
	// MaxCurrencyDelta caps any single per-tick delta so runaway
	// gpuCount/level products cannot blow up balances
	MaxCurrencyDelta = 1e15

	// BTCPerGPU is the base mining yield per GPU per tick at level 1
	BTCPerGPU = 0.00025

	// GPULevelStep is the extra yield fraction each GPU level adds
	GPULevelStep = 0.5
)

// BusinessIncome returns the net currency gain for one tick across all owned
// businesses: level-scaled gross, boosted by the global multiplier, then
// taxed. Unowned catalog entries contribute nothing.
func BusinessIncome(p *model.Player, cfg *model.GlobalConfig) float64 {
	gross := 0.0
	for _, b := range p.Businesses {
		if !b.Owned {
			continue
		}
		gross += b.BaseIncome * float64(b.Level)
	}
	return ClampDelta(gross * cfg.GlobalMultiplier * (1 - cfg.TaxRate))
}

// MiningPerformance returns the BTC yield and energy cost for one tick.
// Yield is linear in GPU count and grows with GPU level; energy cost is
// linear in GPU count. Both are non-negative.
func MiningPerformance(p *model.Player, cfg *model.GlobalConfig) (btc float64, energy float64) {
	farm := p.MiningFarm
	if farm.GPUCount <= 0 {
		return 0, 0
	}

	levelBoost := 1 + GPULevelStep*float64(farm.GPULevel-1)
	if levelBoost < 1 {
		levelBoost = 1
	}

	btc = clampNonNegative(BTCPerGPU * float64(farm.GPUCount) * levelBoost)
	energy = clampNonNegative(cfg.EnergyCostPerGPU * float64(farm.GPUCount))
	return btc, energy
}

// TapGain returns the currency gained from count manual taps. Taps benefit
// from the global multiplier but are not taxed.
func TapGain(p *model.Player, cfg *model.GlobalConfig, count int) float64 {
	if count <= 0 {
		return 0
	}
	return ClampDelta(p.TapPower * float64(count) * cfg.GlobalMultiplier)
}

// ClampDelta bounds a currency delta to the saturating ceiling. Overflowed
// products (infinities) saturate at the ceiling; NaN clamps to zero so a
// poisoned input cannot corrupt balances.
func ClampDelta(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if v > MaxCurrencyDelta {
		return MaxCurrencyDelta
	}
	if v < -MaxCurrencyDelta {
		return -MaxCurrencyDelta
	}
	return v
}

func clampNonNegative(v float64) float64 {
	v = ClampDelta(v)
	if v < 0 {
		return 0
	}
	return v
}
