package economy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/clickonomy/clickonomy-go/internal/model"
)

type EconomySuite struct {
	suite.Suite
	cfg model.GlobalConfig
}

func TestEconomySuite(t *testing.T) {
	suite.Run(t, new(EconomySuite))
}

func (s *EconomySuite) SetupTest() {
	s.cfg = model.DefaultGlobalConfig()
}

// Helper to create a player with specific owned businesses
func (s *EconomySuite) playerWithBusinesses(owned ...model.Business) *model.Player {
	return &model.Player{
		ID:         "player-1",
		Username:   "alice",
		TapPower:   1,
		Businesses: owned,
	}
}

// Business income tests

func (s *EconomySuite) TestBusinessIncomeNoBusinesses() {
	p := s.playerWithBusinesses()
	s.Equal(0.0, BusinessIncome(p, &s.cfg))
}

func (s *EconomySuite) TestBusinessIncomeSkipsUnowned() {
	p := s.playerWithBusinesses(
		model.Business{ID: "lemonade", BaseIncome: 10, Level: 1, Owned: true},
		model.Business{ID: "carwash", BaseIncome: 1000, Level: 5, Owned: false},
	)
	s.cfg.GlobalMultiplier = 1
	s.cfg.TaxRate = 0

	s.Equal(10.0, BusinessIncome(p, &s.cfg))
}

func (s *EconomySuite) TestBusinessIncomeScalesWithLevel() {
	p := s.playerWithBusinesses(
		model.Business{ID: "lemonade", BaseIncome: 10, Level: 3, Owned: true},
	)
	s.cfg.GlobalMultiplier = 1
	s.cfg.TaxRate = 0

	s.Equal(30.0, BusinessIncome(p, &s.cfg))
}

func (s *EconomySuite) TestBusinessIncomeAppliesMultiplierAndTax() {
	p := s.playerWithBusinesses(
		model.Business{ID: "lemonade", BaseIncome: 100, Level: 1, Owned: true},
	)
	s.cfg.GlobalMultiplier = 2
	s.cfg.TaxRate = 0.25

	// 100 * 2 * (1 - 0.25)
	s.InDelta(150.0, BusinessIncome(p, &s.cfg), 1e-9)
}

func (s *EconomySuite) TestBusinessIncomeDoesNotMutateInput() {
	p := s.playerWithBusinesses(
		model.Business{ID: "lemonade", BaseIncome: 10, Level: 2, Owned: true},
	)
	before := p.Clone()

	_ = BusinessIncome(p, &s.cfg)

	s.Equal(before, p)
}

func (s *EconomySuite) TestBusinessIncomeSaturates() {
	p := s.playerWithBusinesses(
		model.Business{ID: "lemonade", BaseIncome: math.MaxFloat64 / 2, Level: 1000000, Owned: true},
	)
	s.cfg.GlobalMultiplier = 1
	s.cfg.TaxRate = 0

	s.Equal(MaxCurrencyDelta, BusinessIncome(p, &s.cfg))
}

// Mining performance tests

func (s *EconomySuite) TestMiningPerformanceNoGPUs() {
	p := &model.Player{ID: "player-1"}

	btc, energy := MiningPerformance(p, &s.cfg)
	s.Equal(0.0, btc)
	s.Equal(0.0, energy)
}

func (s *EconomySuite) TestMiningPerformanceScalesWithCount() {
	one := &model.Player{MiningFarm: model.MiningFarm{GPUCount: 1, GPULevel: 1}}
	four := &model.Player{MiningFarm: model.MiningFarm{GPUCount: 4, GPULevel: 1}}

	btc1, energy1 := MiningPerformance(one, &s.cfg)
	btc4, energy4 := MiningPerformance(four, &s.cfg)

	s.InDelta(btc1*4, btc4, 1e-12)
	s.InDelta(energy1*4, energy4, 1e-12)
}

func (s *EconomySuite) TestMiningPerformanceMonotonicInLevel() {
	lvl1 := &model.Player{MiningFarm: model.MiningFarm{GPUCount: 2, GPULevel: 1}}
	lvl3 := &model.Player{MiningFarm: model.MiningFarm{GPUCount: 2, GPULevel: 3}}

	btc1, _ := MiningPerformance(lvl1, &s.cfg)
	btc3, _ := MiningPerformance(lvl3, &s.cfg)

	s.Greater(btc3, btc1)
}

func (s *EconomySuite) TestMiningEnergyCost() {
	p := &model.Player{MiningFarm: model.MiningFarm{GPUCount: 3, GPULevel: 1}}
	s.cfg.EnergyCostPerGPU = 0.5

	_, energy := MiningPerformance(p, &s.cfg)
	s.InDelta(1.5, energy, 1e-12)
}

func (s *EconomySuite) TestMiningPerformanceNeverNegative() {
	p := &model.Player{MiningFarm: model.MiningFarm{GPUCount: 3, GPULevel: 0}}
	s.cfg.EnergyCostPerGPU = -1 // Corrupt config must not produce negative deltas

	btc, energy := MiningPerformance(p, &s.cfg)
	s.GreaterOrEqual(btc, 0.0)
	s.Equal(0.0, energy)
}

// Tap gain tests

func (s *EconomySuite) TestTapGain() {
	p := &model.Player{TapPower: 2}
	s.cfg.GlobalMultiplier = 3

	s.InDelta(30.0, TapGain(p, &s.cfg, 5), 1e-12)
}

func (s *EconomySuite) TestTapGainZeroCount() {
	p := &model.Player{TapPower: 2}

	s.Equal(0.0, TapGain(p, &s.cfg, 0))
	s.Equal(0.0, TapGain(p, &s.cfg, -3))
}

func (s *EconomySuite) TestTapGainUntaxed() {
	p := &model.Player{TapPower: 10}
	s.cfg.GlobalMultiplier = 1
	s.cfg.TaxRate = 0.9

	s.Equal(10.0, TapGain(p, &s.cfg, 1))
}

// Clamp tests

func (s *EconomySuite) TestClampDelta() {
	s.Equal(0.0, ClampDelta(math.NaN()))
	s.Equal(MaxCurrencyDelta, ClampDelta(math.Inf(1)))
	s.Equal(-MaxCurrencyDelta, ClampDelta(math.Inf(-1)))
	s.Equal(MaxCurrencyDelta, ClampDelta(math.MaxFloat64))
	s.Equal(-MaxCurrencyDelta, ClampDelta(-math.MaxFloat64))
	s.Equal(42.0, ClampDelta(42.0))
}
