package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/clickonomy/clickonomy-go/internal/dependencies/mocks"
	"github.com/clickonomy/clickonomy-go/internal/model"
	"github.com/clickonomy/clickonomy-go/internal/services/audio"
	"github.com/clickonomy/clickonomy-go/internal/services/market"
	"github.com/clickonomy/clickonomy-go/internal/storage/memory"
	"github.com/clickonomy/clickonomy-go/internal/testutil"
)

// stubEvents records everything a runtime publishes
type stubEvents struct {
	mu        sync.Mutex
	snapshots []snapshotEvent
	bans      []banEvent
	configs   []model.GlobalConfig
	audio     *stubAudio
}

type snapshotEvent struct {
	id     model.PlayerID
	player *model.Player
	tick   int64
}

type banEvent struct {
	id     model.PlayerID
	reason string
	until  int64
}

func newStubEvents() *stubEvents {
	return &stubEvents{audio: &stubAudio{}}
}

func (e *stubEvents) PublishSnapshot(id model.PlayerID, player *model.Player, tick int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.snapshots = append(e.snapshots, snapshotEvent{id: id, player: player.Clone(), tick: tick})
}

func (e *stubEvents) PublishBanned(id model.PlayerID, reason string, until int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bans = append(e.bans, banEvent{id: id, reason: reason, until: until})
}

func (e *stubEvents) PublishConfig(id model.PlayerID, cfg *model.GlobalConfig) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.configs = append(e.configs, cfg.Clone())
}

func (e *stubEvents) AudioController(id model.PlayerID) audio.Controller {
	return e.audio
}

func (e *stubEvents) snapshotCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.snapshots)
}

func (e *stubEvents) lastSnapshot() snapshotEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshots[len(e.snapshots)-1]
}

func (e *stubEvents) banCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.bans)
}

func (e *stubEvents) lastBan() banEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bans[len(e.bans)-1]
}

func (e *stubEvents) configCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.configs)
}

func (e *stubEvents) lastConfig() model.GlobalConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.configs[len(e.configs)-1]
}

// stubAudio implements audio.Controller and records every call
type stubAudio struct {
	mu      sync.Mutex
	sources []string
	volumes []float64
	plays   []bool
}

func (a *stubAudio) SetSource(url string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sources = append(a.sources, url)
	return nil
}

func (a *stubAudio) SetVolume(volume float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.volumes = append(a.volumes, volume)
}

func (a *stubAudio) SetShouldPlay(play bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.plays = append(a.plays, play)
}

func (a *stubAudio) lastPlay() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.plays) == 0 {
		return false
	}
	return a.plays[len(a.plays)-1]
}

type RuntimeSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	random  *mocks.MockRandom
	market  *market.Service
	events  *stubEvents
	ctx     context.Context
}

func TestRuntimeSuite(t *testing.T) {
	suite.Run(t, new(RuntimeSuite))
}

func (s *RuntimeSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.market = market.New(s.random, s.clock, testutil.NopLogger(), market.DefaultConfig())
	s.events = newStubEvents()
	s.ctx = context.Background()
}

// newPlayer returns a player earning a flat 10 per tick under a tax-free
// config
func (s *RuntimeSuite) newPlayer() *model.Player {
	return &model.Player{
		ID:       "player-1",
		Username: "satoshi",
		Balance:  100,
		MaxMoney: 100,
		TapPower: 1,
		Businesses: []model.Business{
			{ID: "lemonade", Name: "Lemonade Stand", Owned: true, Level: 1, BaseIncome: 10, Cost: 50},
		},
		MiningFarm: model.MiningFarm{GPULevel: 1},
		CreatedAt:  s.clock.Now(),
		UpdatedAt:  s.clock.Now(),
	}
}

func (s *RuntimeSuite) flatConfig() model.GlobalConfig {
	cfg := model.DefaultGlobalConfig()
	cfg.TaxRate = 0
	return cfg
}

// newRuntime persists the player and config, then builds a runtime around
// them without starting the loop. Tests drive Tick directly.
func (s *RuntimeSuite) newRuntime(player *model.Player, cfg model.GlobalConfig) *Runtime {
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))
	s.Require().NoError(s.storage.SaveConfig(s.ctx, &cfg))
	return NewRuntime(
		s.storage, s.market, s.clock, testutil.NopLogger(), s.events,
		player, model.DefaultAppSettings(), cfg,
		Config{TickPeriod: time.Second, MarketEvery: 30},
	)
}

func (s *RuntimeSuite) tick(r *Runtime) {
	s.clock.Advance(time.Second)
	r.Tick(s.ctx)
}

// Tick tests

func (s *RuntimeSuite) TestTickAppliesBusinessIncome() {
	runtime := s.newRuntime(s.newPlayer(), s.flatConfig())

	s.tick(runtime)

	snap := runtime.Snapshot()
	s.InDelta(110.0, snap.Player.Balance, 0.0001)
	s.Equal(int64(1), snap.Player.Playtime)
	s.Equal(int64(1), snap.Tick)
}

func (s *RuntimeSuite) TestTickAccumulates() {
	runtime := s.newRuntime(s.newPlayer(), s.flatConfig())

	for i := 0; i < 3; i++ {
		s.tick(runtime)
	}

	snap := runtime.Snapshot()
	s.InDelta(130.0, snap.Player.Balance, 0.0001)
	s.InDelta(130.0, snap.Player.MaxMoney, 0.0001)
	s.Equal(int64(3), snap.Player.Playtime)
	s.Equal(int64(3), snap.Tick)
}

func (s *RuntimeSuite) TestTickTracksMaxMoney() {
	player := s.newPlayer()
	player.MaxMoney = 115
	runtime := s.newRuntime(player, s.flatConfig())

	s.tick(runtime)
	s.InDelta(115.0, runtime.Snapshot().Player.MaxMoney, 0.0001)

	s.tick(runtime)
	s.InDelta(120.0, runtime.Snapshot().Player.MaxMoney, 0.0001)

	s.tick(runtime)
	s.InDelta(130.0, runtime.Snapshot().Player.MaxMoney, 0.0001)
}

func (s *RuntimeSuite) TestTickAppliesMining() {
	player := s.newPlayer()
	player.Businesses = nil
	player.MiningFarm = model.MiningFarm{GPUCount: 4, GPULevel: 2}
	runtime := s.newRuntime(player, s.flatConfig())

	s.tick(runtime)

	snap := runtime.Snapshot()
	s.InDelta(0.0015, snap.Player.MiningFarm.BTCBalance, 1e-9)
	s.InDelta(0.2, snap.Player.MiningFarm.EnergyDebt, 1e-9)
}

func (s *RuntimeSuite) TestTickPersistsEveryTick() {
	runtime := s.newRuntime(s.newPlayer(), s.flatConfig())

	s.tick(runtime)

	stored, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.InDelta(110.0, stored.Balance, 0.0001)
	s.Equal(int64(1), stored.Playtime)
	s.True(stored.UpdatedAt.Equal(s.clock.Now()))
}

func (s *RuntimeSuite) TestTickPublishesNumberedSnapshots() {
	runtime := s.newRuntime(s.newPlayer(), s.flatConfig())

	s.tick(runtime)
	s.tick(runtime)

	s.Require().Equal(2, s.events.snapshotCount())
	last := s.events.lastSnapshot()
	s.Equal(model.PlayerID("player-1"), last.id)
	s.Equal(int64(2), last.tick)
	s.InDelta(120.0, last.player.Balance, 0.0001)
}

func (s *RuntimeSuite) TestTickSeesExternalBalanceChange() {
	runtime := s.newRuntime(s.newPlayer(), s.flatConfig())

	// An out-of-band write to the record becomes the next tick's base
	stored, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	stored.Balance = 1000
	s.Require().NoError(s.storage.SavePlayer(s.ctx, stored))

	s.tick(runtime)

	s.InDelta(1010.0, runtime.Snapshot().Player.Balance, 0.0001)
}

func (s *RuntimeSuite) TestTickFillsMissingCatalogEntries() {
	runtime := s.newRuntime(s.newPlayer(), s.flatConfig())

	s.tick(runtime)

	snap := runtime.Snapshot()
	s.Len(snap.Player.Businesses, len(model.DefaultBusinesses()))
	s.Len(snap.Player.Investments, len(model.DefaultInvestments()))

	// The entry the player already had keeps its progress: income comes from
	// the owned lemonade at its stored rate, not the catalog default
	s.InDelta(110.0, snap.Player.Balance, 0.0001)

	// The fill reaches the store through the tick's persist
	stored, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Len(stored.Businesses, len(model.DefaultBusinesses()))
	s.Len(stored.Investments, len(model.DefaultInvestments()))
}

// Market cadence tests

func (s *RuntimeSuite) TestMarketRepricesEveryThirtiethTick() {
	player := s.newPlayer()
	player.Investments = []model.Investment{
		{Symbol: "BTC", Name: "Bitcoin", BasePrice: 100, CurrentPrice: 100},
	}
	runtime := s.newRuntime(player, s.flatConfig())

	history := func() int {
		snap := runtime.Snapshot()
		return len(snap.Player.GetInvestment("BTC").History)
	}

	for i := 1; i <= 90; i++ {
		s.tick(runtime)
		switch {
		case i < 30:
			s.Require().Equal(0, history(), "tick %d", i)
		case i < 60:
			s.Require().Equal(1, history(), "tick %d", i)
		case i < 90:
			s.Require().Equal(2, history(), "tick %d", i)
		default:
			s.Require().Equal(3, history(), "tick %d", i)
		}
	}
}

func (s *RuntimeSuite) TestMarketHoldsPriceUnderNeutralNoise() {
	player := s.newPlayer()
	player.Investments = []model.Investment{
		{Symbol: "BTC", Name: "Bitcoin", BasePrice: 100, CurrentPrice: 100},
	}
	runtime := s.newRuntime(player, s.flatConfig())

	for i := 0; i < 30; i++ {
		s.tick(runtime)
	}

	// Default mock randomness is drift-neutral, so a reprice at the base
	// price leaves it there
	snap := runtime.Snapshot()
	s.InDelta(100.0, snap.Player.GetInvestment("BTC").CurrentPrice, 0.0001)
}

// Config propagation tests

func (s *RuntimeSuite) TestConfigChangePropagates() {
	runtime := s.newRuntime(s.newPlayer(), s.flatConfig())

	changed := s.flatConfig()
	changed.Version = 2
	changed.GlobalMultiplier = 2
	s.Require().NoError(s.storage.SaveConfig(s.ctx, &changed))

	s.tick(runtime)

	s.Require().Equal(1, s.events.configCount())
	s.Equal(int64(2), s.events.lastConfig().Version)

	// The doubled multiplier applies on the same tick it is observed
	s.InDelta(120.0, runtime.Snapshot().Player.Balance, 0.0001)
}

func (s *RuntimeSuite) TestConfigRewriteWithSameValuesIsNotAChange() {
	cfg := s.flatConfig()
	runtime := s.newRuntime(s.newPlayer(), cfg)

	rewritten := cfg
	s.Require().NoError(s.storage.SaveConfig(s.ctx, &rewritten))

	s.tick(runtime)

	s.Equal(0, s.events.configCount())
}

// Ban and deletion tests

func (s *RuntimeSuite) TestDeletedPlayerHaltsTicking() {
	runtime := s.newRuntime(s.newPlayer(), s.flatConfig())

	s.tick(runtime)
	s.Require().NoError(s.storage.DeletePlayer(s.ctx, "player-1"))
	s.tick(runtime)

	s.True(runtime.Stopped())
	s.Equal(1, s.events.snapshotCount())

	// The last snapshot stays readable after the halt
	s.InDelta(110.0, runtime.Snapshot().Player.Balance, 0.0001)

	// Further ticks are no-ops
	s.tick(runtime)
	s.Equal(1, s.events.snapshotCount())
}

func (s *RuntimeSuite) banStoredPlayer(reason string, until int64) {
	stored, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	stored.BanReason = reason
	stored.BannedUntil = until
	s.Require().NoError(s.storage.SavePlayer(s.ctx, stored))
}

func (s *RuntimeSuite) TestBanFreezesSimulation() {
	runtime := s.newRuntime(s.newPlayer(), s.flatConfig())

	s.tick(runtime)
	s.banStoredPlayer("fraud", model.BanPermanent)
	s.tick(runtime)

	snap := runtime.Snapshot()
	s.True(snap.Frozen)
	s.InDelta(110.0, snap.Player.Balance, 0.0001)
	s.Equal(int64(1), snap.Player.Playtime)

	s.Require().Equal(1, s.events.banCount())
	ban := s.events.lastBan()
	s.Equal("fraud", ban.reason)
	s.Equal(model.BanPermanent, ban.until)
	s.False(s.events.audio.lastPlay())

	// The ban event fires once, not every tick
	s.tick(runtime)
	s.Equal(1, s.events.banCount())
	s.InDelta(110.0, runtime.Snapshot().Player.Balance, 0.0001)
}

func (s *RuntimeSuite) TestBanExpiryResumesSimulation() {
	runtime := s.newRuntime(s.newPlayer(), s.flatConfig())

	s.tick(runtime)
	until := s.clock.Now().Add(2 * time.Minute).UnixMilli()
	s.banStoredPlayer("cooling off", until)
	s.tick(runtime)
	s.Require().True(runtime.Snapshot().Frozen)

	s.clock.Advance(3 * time.Minute)
	s.tick(runtime)

	snap := runtime.Snapshot()
	s.False(snap.Frozen)
	s.InDelta(120.0, snap.Player.Balance, 0.0001)
	s.Equal(int64(2), snap.Player.Playtime)

	// The lapsed ban is cleared on the resuming tick's observation
	stored, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(int64(0), stored.BannedUntil)
	s.Empty(stored.BanReason)
}

func (s *RuntimeSuite) TestAdminUnbanResumesSimulation() {
	runtime := s.newRuntime(s.newPlayer(), s.flatConfig())

	s.banStoredPlayer("fraud", model.BanPermanent)
	s.tick(runtime)
	s.Require().True(runtime.Snapshot().Frozen)

	stored, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	stored.ClearBan()
	s.Require().NoError(s.storage.SavePlayer(s.ctx, stored))

	s.tick(runtime)
	s.False(runtime.Snapshot().Frozen)
	s.True(s.events.audio.lastPlay())
}

// Apply tests

func (s *RuntimeSuite) TestApplyPersistsAndPublishes() {
	runtime := s.newRuntime(s.newPlayer(), s.flatConfig())

	err := runtime.Apply(s.ctx, func(p *model.Player, cfg *model.GlobalConfig) error {
		p.Balance += 50
		return nil
	})
	s.Require().NoError(err)

	s.InDelta(150.0, runtime.Snapshot().Player.Balance, 0.0001)
	s.InDelta(150.0, runtime.Snapshot().Player.MaxMoney, 0.0001)

	stored, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.InDelta(150.0, stored.Balance, 0.0001)

	s.Equal(1, s.events.snapshotCount())
}

func (s *RuntimeSuite) TestApplyErrorLeavesNoTrace() {
	runtime := s.newRuntime(s.newPlayer(), s.flatConfig())

	wantErr := errors.New("insufficient funds")
	err := runtime.Apply(s.ctx, func(p *model.Player, cfg *model.GlobalConfig) error {
		p.Balance = 0
		return wantErr
	})
	s.Require().ErrorIs(err, wantErr)

	s.InDelta(100.0, runtime.Snapshot().Player.Balance, 0.0001)
	stored, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.InDelta(100.0, stored.Balance, 0.0001)
	s.Equal(0, s.events.snapshotCount())
}

func (s *RuntimeSuite) TestApplyRejectedWhenFrozen() {
	runtime := s.newRuntime(s.newPlayer(), s.flatConfig())
	s.banStoredPlayer("fraud", model.BanPermanent)
	s.tick(runtime)

	err := runtime.Apply(s.ctx, func(p *model.Player, cfg *model.GlobalConfig) error {
		p.Balance += 50
		return nil
	})
	s.ErrorIs(err, model.ErrPlayerBanned)
}

func (s *RuntimeSuite) TestApplyRejectedWhenStopped() {
	runtime := s.newRuntime(s.newPlayer(), s.flatConfig())
	runtime.Stop()

	err := runtime.Apply(s.ctx, func(p *model.Player, cfg *model.GlobalConfig) error {
		return nil
	})
	s.ErrorIs(err, model.ErrSessionClosed)
}

// Lifecycle tests

func (s *RuntimeSuite) TestStartPublishesInitialState() {
	runtime := s.newRuntime(s.newPlayer(), s.flatConfig())
	defer runtime.Stop()

	s.Require().NoError(runtime.Start())

	s.Equal(1, s.events.configCount())
	s.True(s.events.audio.lastPlay())
}

func (s *RuntimeSuite) TestStartRejectsSecondStart() {
	runtime := s.newRuntime(s.newPlayer(), s.flatConfig())
	defer runtime.Stop()

	s.Require().NoError(runtime.Start())
	s.ErrorIs(runtime.Start(), model.ErrSessionActive)
}

func (s *RuntimeSuite) TestLoopTicksOnTimer() {
	runtime := s.newRuntime(s.newPlayer(), s.flatConfig())
	s.Require().NoError(runtime.Start())

	s.Require().Eventually(func() bool {
		return len(s.clock.Tickers()) == 1
	}, time.Second, time.Millisecond)
	ticker := s.clock.Tickers()[0]
	s.Equal(time.Second, ticker.Period)

	s.clock.Advance(time.Second)
	ticker.Fire(s.clock.Now())

	s.Require().Eventually(func() bool {
		return s.events.snapshotCount() == 1
	}, time.Second, time.Millisecond)
	s.InDelta(110.0, s.events.lastSnapshot().player.Balance, 0.0001)

	runtime.Stop()
	s.Require().Eventually(func() bool {
		return ticker.Stopped()
	}, time.Second, time.Millisecond)
}

func (s *RuntimeSuite) TestStopIsIdempotent() {
	runtime := s.newRuntime(s.newPlayer(), s.flatConfig())
	s.Require().NoError(runtime.Start())

	runtime.Stop()
	runtime.Stop()

	s.True(runtime.Stopped())
	s.False(s.events.audio.lastPlay())
}

func (s *RuntimeSuite) TestStopBeforeStartPreventsStart() {
	runtime := s.newRuntime(s.newPlayer(), s.flatConfig())
	runtime.Stop()
	s.ErrorIs(runtime.Start(), model.ErrSessionActive)
}

func (s *RuntimeSuite) TestSetSettingsReconcilesAudio() {
	runtime := s.newRuntime(s.newPlayer(), s.flatConfig())
	defer runtime.Stop()
	s.Require().NoError(runtime.Start())
	s.Require().True(s.events.audio.lastPlay())

	muted := model.DefaultAppSettings()
	muted.EnableMusic = false
	runtime.SetSettings(muted)
	s.False(s.events.audio.lastPlay())

	runtime.SetSettings(model.DefaultAppSettings())
	s.True(s.events.audio.lastPlay())
}

func (s *RuntimeSuite) TestSnapshotIsACopy() {
	runtime := s.newRuntime(s.newPlayer(), s.flatConfig())

	snap := runtime.Snapshot()
	snap.Player.Balance = 9999
	snap.Player.Businesses[0].Level = 50

	fresh := runtime.Snapshot()
	s.InDelta(100.0, fresh.Player.Balance, 0.0001)
	s.Equal(1, fresh.Player.Businesses[0].Level)
}
