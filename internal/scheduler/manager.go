package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/clickonomy/clickonomy-go/internal/dependencies/clock"
	"github.com/clickonomy/clickonomy-go/internal/metrics"
	"github.com/clickonomy/clickonomy-go/internal/model"
	"github.com/clickonomy/clickonomy-go/internal/services/market"
	"github.com/clickonomy/clickonomy-go/internal/storage"
)

// Manager owns the live runtimes, at most one per player. Logging in again
// replaces the old runtime so a player never accumulates tick loops.
type Manager struct {
	storage storage.Storage
	market  *market.Service
	clock   clock.Clock
	logger  *slog.Logger
	events  Events
	cfg     Config

	mu       sync.Mutex
	runtimes map[model.PlayerID]*Runtime
}

// NewManager creates a new session manager
func NewManager(
	storage storage.Storage,
	market *market.Service,
	clk clock.Clock,
	logger *slog.Logger,
	events Events,
	cfg Config,
) *Manager {
	return &Manager{
		storage:  storage,
		market:   market,
		clock:    clk,
		logger:   logger,
		events:   events,
		cfg:      cfg,
		runtimes: make(map[model.PlayerID]*Runtime),
	}
}

// StartSession launches a tick loop for a gate-admitted player, stopping
// any loop the player already had. The context covers the initial config
// load only; the loop itself outlives the request.
func (m *Manager) StartSession(ctx context.Context, player *model.Player, settings model.AppSettings) (*Runtime, error) {
	initialConfig, err := m.loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	runtime := NewRuntime(m.storage, m.market, m.clock, m.logger, m.events, player, settings, initialConfig, m.cfg)

	m.mu.Lock()
	if existing, ok := m.runtimes[player.ID]; ok {
		existing.Stop()
	}
	m.runtimes[player.ID] = runtime
	metrics.ActiveSessions.Set(float64(len(m.runtimes)))
	m.mu.Unlock()

	if err := runtime.Start(); err != nil {
		return nil, err
	}

	m.logger.Info("session started",
		slog.String("player_id", string(player.ID)),
	)
	return runtime, nil
}

// Get returns the player's runtime, which may already be halted
func (m *Manager) Get(id model.PlayerID) (*Runtime, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	runtime, ok := m.runtimes[id]
	return runtime, ok
}

// StopSession halts and forgets the player's runtime. Idempotent.
func (m *Manager) StopSession(id model.PlayerID) {
	m.mu.Lock()
	runtime, ok := m.runtimes[id]
	if ok {
		delete(m.runtimes, id)
		metrics.ActiveSessions.Set(float64(len(m.runtimes)))
	}
	m.mu.Unlock()

	if !ok {
		return
	}

	runtime.Stop()
	m.logger.Info("session stopped",
		slog.String("player_id", string(id)),
	)
}

// StopAll halts every runtime, for server shutdown
func (m *Manager) StopAll() {
	m.mu.Lock()
	runtimes := make([]*Runtime, 0, len(m.runtimes))
	for _, runtime := range m.runtimes {
		runtimes = append(runtimes, runtime)
	}
	m.runtimes = make(map[model.PlayerID]*Runtime)
	metrics.ActiveSessions.Set(0)
	m.mu.Unlock()

	for _, runtime := range runtimes {
		runtime.Stop()
	}

	m.logger.Info("all sessions stopped",
		slog.Int("count", len(runtimes)),
	)
}

// Count returns the number of tracked runtimes
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.runtimes)
}

// loadConfig reads the shared config, healing absence with defaults
func (m *Manager) loadConfig(ctx context.Context) (model.GlobalConfig, error) {
	cfg, err := m.storage.GetConfig(ctx)
	if err != nil {
		if errors.Is(err, model.ErrConfigNotFound) {
			return model.DefaultGlobalConfig(), nil
		}
		return model.GlobalConfig{}, err
	}
	return *cfg, nil
}
