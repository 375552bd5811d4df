package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/clickonomy/clickonomy-go/internal/dependencies/clock"
	"github.com/clickonomy/clickonomy-go/internal/dependencies/random"
	"github.com/clickonomy/clickonomy-go/internal/scheduler"
	"github.com/clickonomy/clickonomy-go/internal/services/admin"
	"github.com/clickonomy/clickonomy-go/internal/services/gate"
	"github.com/clickonomy/clickonomy-go/internal/services/leaderboard"
	"github.com/clickonomy/clickonomy-go/internal/services/market"
	"github.com/clickonomy/clickonomy-go/internal/services/promo"
	"github.com/clickonomy/clickonomy-go/internal/services/settings"
	"github.com/clickonomy/clickonomy-go/internal/sse"
	"github.com/clickonomy/clickonomy-go/internal/storage"
	"github.com/clickonomy/clickonomy-go/internal/storage/memory"
	redisstorage "github.com/clickonomy/clickonomy-go/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	GateService        *gate.Service
	SettingsService    *settings.Service
	PromoService       *promo.Service
	AdminService       *admin.Service
	LeaderboardService *leaderboard.Service
	MarketService      *market.Service

	// Simulation and streaming
	HubManager *sse.HubManager
	Gateway    *sse.Gateway
	Manager    *scheduler.Manager
}

// Config holds configuration for the application factory
type Config struct {
	// GateConfig holds configuration for the gate service (optional)
	// If zero value, defaults to gate.DefaultConfig()
	GateConfig gate.Config
	// SchedulerConfig holds tick loop settings (optional)
	// If zero value, defaults to scheduler.DefaultConfig()
	SchedulerConfig scheduler.Config
	// MarketConfig holds price walk settings (optional)
	// If zero value, defaults to market.DefaultConfig()
	MarketConfig market.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	// Fill zero-value configs with defaults
	gateCfg := cfg.GateConfig
	if gateCfg.SessionDuration == 0 {
		gateCfg = gate.DefaultConfig()
	}
	schedCfg := cfg.SchedulerConfig
	if schedCfg.TickPeriod == 0 {
		schedCfg = scheduler.DefaultConfig()
	}
	marketCfg := cfg.MarketConfig
	if marketCfg.BucketSeconds == 0 {
		marketCfg = market.DefaultConfig()
	}

	return newWithDependencies(store, clk, rnd, gateCfg, schedCfg, marketCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	gateCfg gate.Config,
	schedCfg scheduler.Config,
	marketCfg market.Config,
	logger *slog.Logger,
) *App {
	// Create services
	gateService := gate.New(store, clk, rnd, logger, gateCfg)
	settingsService := settings.New(store, logger)
	promoService := promo.New(store, logger)
	adminService := admin.New(store, clk, logger)
	leaderboardService := leaderboard.New(store)
	marketService := market.New(rnd, clk, logger, marketCfg)

	// The SSE gateway doubles as the scheduler's event sink
	hubManager := sse.NewHubManager(logger)
	gateway := sse.NewGateway(hubManager, logger)
	manager := scheduler.NewManager(store, marketService, clk, logger, gateway, schedCfg)

	return &App{
		Storage:            store,
		Clock:              clk,
		Random:             rnd,
		GateService:        gateService,
		SettingsService:    settingsService,
		PromoService:       promoService,
		AdminService:       adminService,
		LeaderboardService: leaderboardService,
		MarketService:      marketService,
		HubManager:         hubManager,
		Gateway:            gateway,
		Manager:            manager,
	}
}
