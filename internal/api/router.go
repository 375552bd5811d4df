package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clickonomy/clickonomy-go/internal/api/handler"
	"github.com/clickonomy/clickonomy-go/internal/api/middleware"
	"github.com/clickonomy/clickonomy-go/internal/dependencies/clock"
	"github.com/clickonomy/clickonomy-go/internal/scheduler"
	"github.com/clickonomy/clickonomy-go/internal/services/admin"
	"github.com/clickonomy/clickonomy-go/internal/services/gate"
	"github.com/clickonomy/clickonomy-go/internal/services/leaderboard"
	"github.com/clickonomy/clickonomy-go/internal/services/promo"
	"github.com/clickonomy/clickonomy-go/internal/services/settings"
	"github.com/clickonomy/clickonomy-go/internal/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger             *slog.Logger
	Clock              clock.Clock
	GateService        *gate.Service
	SettingsService    *settings.Service
	PromoService       *promo.Service
	AdminService       *admin.Service
	LeaderboardService *leaderboard.Service
	Manager            *scheduler.Manager
	Gateway            *sse.Gateway
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	accountHandler := handler.NewAccountHandler(cfg.GateService, cfg.SettingsService, cfg.Manager, cfg.Gateway)
	gameHandler := handler.NewGameHandler(cfg.Manager, cfg.SettingsService, cfg.PromoService)
	settingsHandler := handler.NewSettingsHandler(cfg.SettingsService, cfg.Manager)
	leaderboardHandler := handler.NewLeaderboardHandler(cfg.LeaderboardService)
	adminHandler := handler.NewAdminHandler(cfg.AdminService, cfg.PromoService)
	streamHandler := handler.NewStreamHandler(cfg.Manager, cfg.SettingsService, cfg.Gateway)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.GateService)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.GateService)
	requireActiveMiddleware := middleware.RequireActive(cfg.Clock)
	requireAdminMiddleware := middleware.RequireAdmin()
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Account routes (no auth required for registering/logging in)
	api.HandleFunc("/players/register", accountHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/players/login", accountHandler.Login).Methods(http.MethodPost)

	// Protected account routes
	players := api.PathPrefix("/players").Subrouter()
	players.Use(authMiddleware)
	players.HandleFunc("/logout", accountHandler.Logout).Methods(http.MethodPost)
	players.HandleFunc("/me", accountHandler.GetMe).Methods(http.MethodGet)

	// Session state; banned players still read their frozen snapshot here
	state := api.PathPrefix("/state").Subrouter()
	state.Use(authMiddleware)
	state.HandleFunc("", gameHandler.GetState).Methods(http.MethodGet)

	// Manual actions; banned players are turned away before the handler
	actions := api.PathPrefix("/actions").Subrouter()
	actions.Use(authMiddleware)
	actions.Use(requireActiveMiddleware)
	actions.HandleFunc("/tap", gameHandler.Tap).Methods(http.MethodPost)
	actions.HandleFunc("/businesses/{id}/buy", gameHandler.BuyBusiness).Methods(http.MethodPost)
	actions.HandleFunc("/businesses/{id}/upgrade", gameHandler.UpgradeBusiness).Methods(http.MethodPost)
	actions.HandleFunc("/mining/gpus", gameHandler.BuyGPUs).Methods(http.MethodPost)
	actions.HandleFunc("/mining/upgrade", gameHandler.UpgradeMining).Methods(http.MethodPost)
	actions.HandleFunc("/mining/sell", gameHandler.SellBTC).Methods(http.MethodPost)
	actions.HandleFunc("/investments/{symbol}/buy", gameHandler.BuyInvestment).Methods(http.MethodPost)
	actions.HandleFunc("/investments/{symbol}/sell", gameHandler.SellInvestment).Methods(http.MethodPost)
	actions.HandleFunc("/promo", gameHandler.Redeem).Methods(http.MethodPost)

	// Player preferences
	settingsRoutes := api.PathPrefix("/settings").Subrouter()
	settingsRoutes.Use(authMiddleware)
	settingsRoutes.HandleFunc("", settingsHandler.Get).Methods(http.MethodGet)
	settingsRoutes.HandleFunc("", settingsHandler.Update).Methods(http.MethodPut)

	// Leaderboard is public; auth is optional
	board := api.PathPrefix("/leaderboard").Subrouter()
	board.Use(optionalAuthMiddleware)
	board.HandleFunc("", leaderboardHandler.Get).Methods(http.MethodGet)

	// Event stream
	stream := api.PathPrefix("/stream").Subrouter()
	stream.Use(authMiddleware)
	stream.HandleFunc("", streamHandler.Stream).Methods(http.MethodGet)

	// Admin routes
	adminRoutes := api.PathPrefix("/admin").Subrouter()
	adminRoutes.Use(authMiddleware)
	adminRoutes.Use(requireAdminMiddleware)
	adminRoutes.HandleFunc("/players", adminHandler.ListPlayers).Methods(http.MethodGet)
	adminRoutes.HandleFunc("/players/{id}/ban", adminHandler.BanPlayer).Methods(http.MethodPost)
	adminRoutes.HandleFunc("/players/{id}/unban", adminHandler.UnbanPlayer).Methods(http.MethodPost)
	adminRoutes.HandleFunc("/config", adminHandler.GetConfig).Methods(http.MethodGet)
	adminRoutes.HandleFunc("/config/economy", adminHandler.UpdateEconomy).Methods(http.MethodPatch)
	adminRoutes.HandleFunc("/broadcast", adminHandler.SetBroadcast).Methods(http.MethodPut)
	adminRoutes.HandleFunc("/tracks", adminHandler.AddTrack).Methods(http.MethodPost)
	adminRoutes.HandleFunc("/tracks/{id}", adminHandler.SetTrackHidden).Methods(http.MethodPatch)
	adminRoutes.HandleFunc("/ips/ban", adminHandler.BanIP).Methods(http.MethodPost)
	adminRoutes.HandleFunc("/promos", adminHandler.CreatePromo).Methods(http.MethodPost)
	adminRoutes.HandleFunc("/promos", adminHandler.ListPromos).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Prometheus endpoint at the root, outside the logged API surface
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
