// Package admin implements moderation and global config tooling: player
// bans, economy tuning, and the audio broadcast controls.
package admin

import (
	"context"
	"errors"
	"log/slog"
	"net"

	"github.com/google/uuid"

	"github.com/clickonomy/clickonomy-go/internal/dependencies/clock"
	"github.com/clickonomy/clickonomy-go/internal/model"
	"github.com/clickonomy/clickonomy-go/internal/services/audio"
	"github.com/clickonomy/clickonomy-go/internal/storage"
)

// Errors
var (
	ErrInvalidBanExpiry = errors.New("ban expiry must be permanent or in the future")
	ErrInvalidIP        = errors.New("not a valid ip address")
)

// EconomyUpdate carries the tunable economic fields. Nil pointers leave the
// current value unchanged.
type EconomyUpdate struct {
	GlobalMultiplier *float64
	TaxRate          *float64
	EnergyCostPerGPU *float64
}

// Service provides admin operations over players and the global config
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new admin service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// ListPlayers returns every player record
func (s *Service) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	return s.storage.ListPlayers(ctx)
}

// BanPlayer bans a player until the given unix-millis timestamp, or
// permanently with model.BanPermanent. The scheduler picks the ban up within
// one tick; no forced disconnect happens here.
func (s *Service) BanPlayer(ctx context.Context, id model.PlayerID, until int64, reason string) error {
	if until != model.BanPermanent && until <= s.clock.Now().UnixMilli() {
		return ErrInvalidBanExpiry
	}

	player, err := s.storage.GetPlayer(ctx, id)
	if err != nil {
		return err
	}

	player.BannedUntil = until
	player.BanReason = reason
	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return err
	}

	s.logger.Warn("player banned",
		slog.String("player_id", string(id)),
		slog.Int64("until", until),
		slog.String("reason", reason),
	)
	return nil
}

// UnbanPlayer clears a player's ban fields
func (s *Service) UnbanPlayer(ctx context.Context, id model.PlayerID) error {
	if err := s.storage.UnbanPlayer(ctx, id); err != nil {
		return err
	}

	s.logger.Info("player unbanned",
		slog.String("player_id", string(id)),
	)
	return nil
}

// UpdateEconomy applies the given economic tuning and bumps the config
// version. Active schedulers converge on the new values within one tick.
func (s *Service) UpdateEconomy(ctx context.Context, update EconomyUpdate) (*model.GlobalConfig, error) {
	cfg, err := s.loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	if update.GlobalMultiplier != nil {
		cfg.GlobalMultiplier = *update.GlobalMultiplier
	}
	if update.TaxRate != nil {
		cfg.TaxRate = *update.TaxRate
	}
	if update.EnergyCostPerGPU != nil {
		cfg.EnergyCostPerGPU = *update.EnergyCostPerGPU
	}

	if err := s.saveConfig(ctx, cfg); err != nil {
		return nil, err
	}

	s.logger.Info("economy updated",
		slog.Int64("config_version", cfg.Version),
		slog.Float64("global_multiplier", cfg.GlobalMultiplier),
		slog.Float64("tax_rate", cfg.TaxRate),
		slog.Float64("energy_cost_per_gpu", cfg.EnergyCostPerGPU),
	)
	return cfg, nil
}

// SetBroadcast points the audio broadcast at a track and toggles the master
// switch. The track must exist as a built-in or custom entry; hidden custom
// tracks may be selected but resolve to silence on clients until unhidden.
func (s *Service) SetBroadcast(ctx context.Context, activeTrack string, musicEnabled bool) (*model.GlobalConfig, error) {
	cfg, err := s.loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	if !trackExists(activeTrack, cfg) {
		return nil, model.ErrTrackNotFound
	}

	cfg.ActiveTrack = activeTrack
	cfg.IsMusicEnabled = musicEnabled

	if err := s.saveConfig(ctx, cfg); err != nil {
		return nil, err
	}

	s.logger.Info("audio broadcast updated",
		slog.String("active_track", activeTrack),
		slog.Bool("music_enabled", musicEnabled),
	)
	return cfg, nil
}

// AddTrack registers a custom track and returns it with its generated id
func (s *Service) AddTrack(ctx context.Context, name, url string) (*model.AudioTrack, error) {
	cfg, err := s.loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	track := model.AudioTrack{
		ID:   uuid.NewString(),
		Name: name,
		URL:  url,
	}
	cfg.CustomTracks = append(cfg.CustomTracks, track)

	if err := s.saveConfig(ctx, cfg); err != nil {
		return nil, err
	}

	s.logger.Info("custom track added",
		slog.String("track_id", track.ID),
		slog.String("name", name),
	)
	return &track, nil
}

// SetTrackHidden flips a custom track's hidden flag. Built-in tracks cannot
// be hidden.
func (s *Service) SetTrackHidden(ctx context.Context, id string, hidden bool) error {
	cfg, err := s.loadConfig(ctx)
	if err != nil {
		return err
	}

	found := false
	for i := range cfg.CustomTracks {
		if cfg.CustomTracks[i].ID == id {
			cfg.CustomTracks[i].Hidden = hidden
			found = true
			break
		}
	}
	if !found {
		return model.ErrTrackNotFound
	}

	if err := s.saveConfig(ctx, cfg); err != nil {
		return err
	}

	s.logger.Info("track visibility changed",
		slog.String("track_id", id),
		slog.Bool("hidden", hidden),
	)
	return nil
}

// BanIP adds an address to the IP ban list
func (s *Service) BanIP(ctx context.Context, ip string) error {
	if net.ParseIP(ip) == nil {
		return ErrInvalidIP
	}

	if err := s.storage.BanIP(ctx, ip); err != nil {
		return err
	}

	s.logger.Warn("ip banned",
		slog.String("ip", ip),
	)
	return nil
}

// GetConfig returns the current global config, defaulted when unset
func (s *Service) GetConfig(ctx context.Context) (*model.GlobalConfig, error) {
	return s.loadConfig(ctx)
}

// loadConfig reads the global config, healing absence with defaults
func (s *Service) loadConfig(ctx context.Context) (*model.GlobalConfig, error) {
	cfg, err := s.storage.GetConfig(ctx)
	if err != nil {
		if !errors.Is(err, model.ErrConfigNotFound) {
			return nil, err
		}
		defaults := model.DefaultGlobalConfig()
		return &defaults, nil
	}
	return cfg, nil
}

// saveConfig bumps the version and persists
func (s *Service) saveConfig(ctx context.Context, cfg *model.GlobalConfig) error {
	cfg.Version++
	return s.storage.SaveConfig(ctx, cfg)
}

func trackExists(id string, cfg *model.GlobalConfig) bool {
	for _, t := range audio.BuiltinTracks() {
		if t.ID == id {
			return true
		}
	}
	return cfg.GetTrack(id) != nil
}

// Interface for dependency injection
type ServiceInterface interface {
	ListPlayers(ctx context.Context) ([]*model.Player, error)
	BanPlayer(ctx context.Context, id model.PlayerID, until int64, reason string) error
	UnbanPlayer(ctx context.Context, id model.PlayerID) error
	UpdateEconomy(ctx context.Context, update EconomyUpdate) (*model.GlobalConfig, error)
	SetBroadcast(ctx context.Context, activeTrack string, musicEnabled bool) (*model.GlobalConfig, error)
	AddTrack(ctx context.Context, name, url string) (*model.AudioTrack, error)
	SetTrackHidden(ctx context.Context, id string, hidden bool) error
	BanIP(ctx context.Context, ip string) error
	GetConfig(ctx context.Context) (*model.GlobalConfig, error)
}

var _ ServiceInterface = (*Service)(nil)
