// Package scheduler drives the per-session simulation: a repeating tick
// that reconciles config and ban state, applies economic deltas, advances
// the market on its own cadence, persists, and publishes snapshots.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/clickonomy/clickonomy-go/internal/dependencies/clock"
	"github.com/clickonomy/clickonomy-go/internal/metrics"
	"github.com/clickonomy/clickonomy-go/internal/model"
	"github.com/clickonomy/clickonomy-go/internal/services/audio"
	"github.com/clickonomy/clickonomy-go/internal/services/economy"
	"github.com/clickonomy/clickonomy-go/internal/services/market"
	"github.com/clickonomy/clickonomy-go/internal/storage"
)

// Events publishes session state to the player's connected clients
type Events interface {
	PublishSnapshot(id model.PlayerID, player *model.Player, tick int64)
	PublishBanned(id model.PlayerID, reason string, until int64)
	PublishConfig(id model.PlayerID, cfg *model.GlobalConfig)

	// AudioController returns the playback controller for the player's
	// clients; the runtime's audio reconciler drives it
	AudioController(id model.PlayerID) audio.Controller
}

// Config tunes the tick loop
type Config struct {
	// TickPeriod is one simulated second; economic deltas are per tick
	TickPeriod time.Duration
	// MarketEvery is the number of ticks between market price updates
	MarketEvery int
}

// DefaultConfig returns the standard 1s tick with a market update every 30
func DefaultConfig() Config {
	return Config{
		TickPeriod:  time.Second,
		MarketEvery: 30,
	}
}

// Snapshot is a point-in-time copy of a session's state
type Snapshot struct {
	Player   model.Player
	Config   model.GlobalConfig
	Settings model.AppSettings
	Tick     int64
	Frozen   bool
}

// Runtime is one player's live session: the in-memory player copy, the tick
// loop around it, and the audio reconciler. A single mutex serializes the
// tick callback and manual actions, so exactly one mutation is in flight
// per player at a time.
type Runtime struct {
	storage storage.Storage
	market  *market.Service
	clock   clock.Clock
	logger  *slog.Logger
	events  Events
	cfg     Config

	mu         sync.Mutex
	player     *model.Player
	lastConfig model.GlobalConfig
	settings   model.AppSettings
	audio      *audio.Reconciler
	counter    int
	ticks      int64
	frozen     bool
	started    bool
	stopped    bool
	done       chan struct{}
}

// NewRuntime builds a runtime around a gate-admitted player snapshot
func NewRuntime(
	storage storage.Storage,
	market *market.Service,
	clk clock.Clock,
	logger *slog.Logger,
	events Events,
	player *model.Player,
	settings model.AppSettings,
	initialConfig model.GlobalConfig,
	cfg Config,
) *Runtime {
	if cfg.TickPeriod == 0 {
		cfg.TickPeriod = DefaultConfig().TickPeriod
	}
	if cfg.MarketEvery == 0 {
		cfg.MarketEvery = DefaultConfig().MarketEvery
	}

	logger = logger.With(slog.String("player_id", string(player.ID)))

	return &Runtime{
		storage:    storage,
		market:     market,
		clock:      clk,
		logger:     logger,
		events:     events,
		cfg:        cfg,
		player:     player.Clone(),
		lastConfig: initialConfig,
		settings:   settings,
		audio:      audio.NewReconciler(events.AudioController(player.ID), logger),
		done:       make(chan struct{}),
	}
}

// Start launches the tick loop. A runtime starts at most once; restarting a
// session means building a fresh runtime.
func (r *Runtime) Start() error {
	r.mu.Lock()
	if r.started || r.stopped {
		r.mu.Unlock()
		return model.ErrSessionActive
	}
	r.started = true

	// Push the config and audio state out immediately so a client does not
	// wait a full period for its first reconcile
	r.events.PublishConfig(r.player.ID, &r.lastConfig)
	r.reconcileAudio()
	r.mu.Unlock()

	go r.loop()
	return nil
}

func (r *Runtime) loop() {
	ticker := r.clock.NewTicker(r.cfg.TickPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-ticker.Chan():
			r.Tick(context.Background())
		}
	}
}

// Stop halts the tick loop and silences audio. Safe to call repeatedly and
// before Start.
func (r *Runtime) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.halt()
}

// halt is the lock-held stop path, shared with the deleted-player case
func (r *Runtime) halt() {
	if r.stopped {
		return
	}
	r.stopped = true
	close(r.done)
	r.audio.Stop()
}

// Tick runs one simulation step. The loop calls this once per period; tests
// may call it directly.
func (r *Runtime) Tick(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return
	}

	now := r.clock.Now()

	// 1. Observe config changes by value, never by reference; this poll is
	// the only config propagation path
	if cfg, err := r.storage.GetConfig(ctx); err != nil {
		if !errors.Is(err, model.ErrConfigNotFound) {
			r.logger.Error("config reload failed",
				slog.String("error", err.Error()),
			)
		}
	} else if !reflect.DeepEqual(*cfg, r.lastConfig) {
		r.lastConfig = *cfg
		r.events.PublishConfig(r.player.ID, cfg)
		r.reconcileAudio()
		r.logger.Info("config change observed",
			slog.Int64("config_version", cfg.Version),
		)
	}

	// 2. Reload the authoritative record; bans applied externally must be
	// seen within one period
	stored, err := r.storage.GetPlayer(ctx, r.player.ID)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			// Deleted mid-session: stop ticking, keep the last snapshot,
			// leave error surfacing to the gate
			r.logger.Warn("player record gone, halting session")
			r.halt()
			return
		}
		r.logger.Error("player reload failed",
			slog.String("error", err.Error()),
		)
		return
	}

	if stored.BanActive(now) {
		if !r.frozen {
			r.frozen = true
			r.events.PublishBanned(stored.ID, stored.BanReason, stored.BannedUntil)
			r.audio.Stop()
			metrics.BansObserved.Inc()
			r.logger.Warn("ban observed, freezing session",
				slog.String("reason", stored.BanReason),
				slog.Int64("banned_until", stored.BannedUntil),
			)
		}
		// Keep the snapshot current so ban metadata can render
		r.player = stored
		return
	}

	if r.frozen {
		r.frozen = false
		r.reconcileAudio()
		r.logger.Info("ban lifted, resuming session")
	}

	r.player = stored

	// A lapsed timed ban clears on this observation; the unconditional
	// persist below writes the cleared fields back
	if r.player.BanExpired(now) {
		r.player.ClearBan()
		r.logger.Info("expired ban cleared")
	}

	// Catalog entries added since the record was written fill in the same way
	r.player.FillCatalog()

	// 3. Apply one tick of economic deltas
	income := economy.BusinessIncome(r.player, &r.lastConfig)
	btc, energyCost := economy.MiningPerformance(r.player, &r.lastConfig)

	r.player.Balance += income
	r.player.MiningFarm.BTCBalance += btc
	r.player.MiningFarm.EnergyDebt += energyCost
	r.player.TouchMaxMoney()
	r.player.Playtime += int64(r.cfg.TickPeriod.Seconds())

	// 4. Market cadence
	r.counter++
	if r.counter >= r.cfg.MarketEvery {
		updated := r.market.Reprice(*r.player)
		r.player = &updated
		r.counter = 0
		metrics.MarketUpdatesTotal.Inc()
	}

	// 5. Persist unconditionally so playtime and freshness stay accurate
	r.player.UpdatedAt = now
	if err := r.storage.SavePlayer(ctx, r.player); err != nil {
		metrics.PersistFailures.Inc()
		r.logger.Error("tick persist failed",
			slog.String("error", err.Error()),
		)
	}

	// 6. Publish the new snapshot
	r.ticks++
	r.events.PublishSnapshot(r.player.ID, r.player, r.ticks)
	metrics.TicksTotal.Inc()
}

// Apply runs a manual action under the same lock as the tick loop. The
// action works on copies; only a successful, persisted result is swapped
// in and published, so a failed action leaves no trace.
func (r *Runtime) Apply(ctx context.Context, action func(p *model.Player, cfg *model.GlobalConfig) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return model.ErrSessionClosed
	}
	if r.frozen {
		return model.ErrPlayerBanned
	}

	updated := r.player.Clone()
	cfg := r.lastConfig.Clone()
	if err := action(updated, &cfg); err != nil {
		return err
	}

	updated.TouchMaxMoney()
	updated.UpdatedAt = r.clock.Now()
	if err := r.storage.SavePlayer(ctx, updated); err != nil {
		return err
	}

	r.player = updated
	r.events.PublishSnapshot(r.player.ID, r.player, r.ticks)
	return nil
}

// SetSettings swaps in new settings and reconciles audio against them
func (r *Runtime) SetSettings(settings model.AppSettings) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.settings = settings
	r.reconcileAudio()
}

// Snapshot returns a copy of the session state
func (r *Runtime) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	return Snapshot{
		Player:   *r.player.Clone(),
		Config:   r.lastConfig.Clone(),
		Settings: r.settings,
		Tick:     r.ticks,
		Frozen:   r.frozen,
	}
}

// PlayerID returns the owning player's id
func (r *Runtime) PlayerID() model.PlayerID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.player.ID
}

// Stopped reports whether the loop has halted
func (r *Runtime) Stopped() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopped
}

// reconcileAudio is called with the lock held whenever settings, config, or
// session liveness change
func (r *Runtime) reconcileAudio() {
	loggedIn := r.started && !r.stopped && !r.frozen
	r.audio.Apply(loggedIn, &r.settings, &r.lastConfig)
}
