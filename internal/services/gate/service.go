// Package gate implements account registration and the session/ban gate:
// every login passes through a ban check, expired bans are cleared on the
// way in, and banned logins surface the ban instead of a session.
package gate

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/clickonomy/clickonomy-go/internal/dependencies/clock"
	"github.com/clickonomy/clickonomy-go/internal/dependencies/random"
	"github.com/clickonomy/clickonomy-go/internal/metrics"
	"github.com/clickonomy/clickonomy-go/internal/model"
	"github.com/clickonomy/clickonomy-go/internal/storage"
)

// State is the outcome of a login attempt
type State string

const (
	// StateActive means the player is logged in with a live session
	StateActive State = "active"
	// StateBanned means the player exists but is barred from play; the
	// player snapshot is retained so ban metadata can be rendered
	StateBanned State = "banned"
)

// Result is the outcome of passing the gate. A banned result carries no
// session token but keeps the player snapshot and ban metadata.
type Result struct {
	State       State
	Player      *model.Player
	Token       string
	BanReason   string
	BannedUntil int64
}

// Banned reports whether the gate held the player back
func (r *Result) Banned() bool {
	return r.State == StateBanned
}

// Config holds configuration for the gate service
type Config struct {
	SessionDuration time.Duration
	StartingBalance float64
	StartingTap     float64
	MinPasswordLen  int
}

// DefaultConfig returns default gate configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
		StartingBalance: 100,
		StartingTap:     1,
		MinPasswordLen:  6,
	}
}

var usernamePattern = regexp.MustCompile(`^[a-z0-9_]{3,24}$`)

const (
	idAlphabet    = "abcdefghijklmnopqrstuvwxyz0123456789"
	tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Service handles registration, login, session restore, and logout
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
	cfg     Config
}

// New creates a new gate service
func New(
	storage storage.Storage,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
	cfg Config,
) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	if cfg.MinPasswordLen == 0 {
		cfg.MinPasswordLen = DefaultConfig().MinPasswordLen
	}
	return &Service{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger,
		cfg:     cfg,
	}
}

// Register creates a new account with the starting catalog and logs it in.
// The caller supplies the client IP for the ban list check; an empty IP
// skips the check.
func (s *Service) Register(ctx context.Context, username, password, ip string) (*Result, error) {
	if !usernamePattern.MatchString(username) {
		return nil, model.ErrInvalidUsername
	}
	if len(password) < s.cfg.MinPasswordLen {
		return nil, model.ErrInvalidPassword
	}

	if err := s.checkIP(ctx, ip); err != nil {
		return nil, err
	}

	_, err := s.storage.GetCredentialsByUsername(ctx, username)
	if err == nil {
		return nil, model.ErrUsernameTaken
	}
	if !errors.Is(err, model.ErrCredentialsNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	player := s.newPlayer(username, now)

	creds := &model.Credentials{
		PlayerID:     player.ID,
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    now,
	}

	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}
	if err := s.storage.SaveCredentials(ctx, creds); err != nil {
		return nil, err
	}

	s.logger.Info("player registered",
		slog.String("player_id", string(player.ID)),
		slog.String("username", username),
	)

	return s.admit(ctx, player, now)
}

// Login authenticates by username and password, then passes the ban gate
func (s *Service) Login(ctx context.Context, username, password, ip string) (*Result, error) {
	if err := s.checkIP(ctx, ip); err != nil {
		return nil, err
	}

	creds, err := s.storage.GetCredentialsByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrCredentialsNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(password)); err != nil {
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		return nil, model.ErrInvalidCredentials
	}

	return s.LoginPlayer(ctx, creds.PlayerID)
}

// LoginPlayer passes an already-authenticated player through the ban gate.
// A missing player surfaces ErrPlayerNotFound rather than proceeding with
// empty state. An expired ban is cleared in the store before admitting; an
// active ban produces a banned result with no session token.
func (s *Service) LoginPlayer(ctx context.Context, id model.PlayerID) (*Result, error) {
	player, err := s.storage.GetPlayer(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()

	if player.BanActive(now) {
		metrics.LoginsTotal.WithLabelValues("banned").Inc()
		s.logger.Info("banned player held at gate",
			slog.String("player_id", string(id)),
			slog.String("reason", player.BanReason),
			slog.Int64("banned_until", player.BannedUntil),
		)
		return &Result{
			State:       StateBanned,
			Player:      player,
			BanReason:   player.BanReason,
			BannedUntil: player.BannedUntil,
		}, nil
	}

	if err := s.heal(ctx, player, now); err != nil {
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("active").Inc()
	return s.admit(ctx, player, now)
}

// Authenticate resolves a token to its player for request handling. Unlike
// RestoreSession it keeps the token alive for banned players, so they can
// still read their banned state and log out; only expired sessions are
// discarded. An expired ban is cleared on the way through.
func (s *Service) Authenticate(ctx context.Context, token string) (*model.Player, error) {
	session, err := s.storage.GetSession(ctx, token)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if session.Expired(now) {
		_ = s.storage.DeleteSession(ctx, token)
		return nil, model.ErrSessionExpired
	}

	player, err := s.storage.GetPlayer(ctx, session.PlayerID)
	if err != nil {
		return nil, err
	}

	if err := s.heal(ctx, player, now); err != nil {
		return nil, err
	}

	return player, nil
}

// RestoreSession resumes a session from its token, re-running the ban gate.
// A session held by a now-banned player is discarded.
func (s *Service) RestoreSession(ctx context.Context, token string) (*Result, error) {
	session, err := s.storage.GetSession(ctx, token)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if session.Expired(now) {
		_ = s.storage.DeleteSession(ctx, token)
		return nil, model.ErrSessionExpired
	}

	player, err := s.storage.GetPlayer(ctx, session.PlayerID)
	if err != nil {
		return nil, err
	}

	if player.BanActive(now) {
		_ = s.storage.DeleteSession(ctx, token)
		return &Result{
			State:       StateBanned,
			Player:      player,
			BanReason:   player.BanReason,
			BannedUntil: player.BannedUntil,
		}, nil
	}

	if err := s.heal(ctx, player, now); err != nil {
		return nil, err
	}

	return &Result{
		State:  StateActive,
		Player: player,
		Token:  token,
	}, nil
}

// Logout discards the session token. Deleting an unknown token is not an
// error, so logout is idempotent.
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.storage.DeleteSession(ctx, token); err != nil {
		return err
	}
	s.logger.Info("session closed")
	return nil
}

// heal repairs a loaded record in place: a lapsed timed ban is cleared and
// catalog entries added since the record was written are filled in. Persists
// only when something changed.
func (s *Service) heal(ctx context.Context, player *model.Player, now time.Time) error {
	changed := player.FillCatalog()

	if player.BanExpired(now) {
		player.ClearBan()
		changed = true
		s.logger.Info("expired ban cleared",
			slog.String("player_id", string(player.ID)),
		)
	}

	if !changed {
		return nil
	}
	return s.storage.SavePlayer(ctx, player)
}

// admit creates and persists a session for a player cleared by the gate
func (s *Service) admit(ctx context.Context, player *model.Player, now time.Time) (*Result, error) {
	token := "sess_" + s.random.String(32, tokenAlphabet)

	session := &model.Session{
		Token:     token,
		PlayerID:  player.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.SessionDuration),
	}

	if err := s.storage.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	return &Result{
		State:  StateActive,
		Player: player,
		Token:  token,
	}, nil
}

// checkIP rejects clients on the IP ban list; an empty IP skips the check
func (s *Service) checkIP(ctx context.Context, ip string) error {
	if ip == "" {
		return nil
	}
	banned, err := s.storage.IsIPBanned(ctx, ip)
	if err != nil {
		return err
	}
	if banned {
		return model.ErrIPBanned
	}
	return nil
}

// newPlayer builds a fresh player with the starting catalog
func (s *Service) newPlayer(username string, now time.Time) *model.Player {
	return &model.Player{
		ID:          model.PlayerID("p_" + s.random.String(16, idAlphabet)),
		Username:    username,
		Balance:     s.cfg.StartingBalance,
		MaxMoney:    s.cfg.StartingBalance,
		TapPower:    s.cfg.StartingTap,
		Businesses:  model.DefaultBusinesses(),
		Investments: model.DefaultInvestments(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Interface for dependency injection
type ServiceInterface interface {
	Register(ctx context.Context, username, password, ip string) (*Result, error)
	Login(ctx context.Context, username, password, ip string) (*Result, error)
	LoginPlayer(ctx context.Context, id model.PlayerID) (*Result, error)
	Authenticate(ctx context.Context, token string) (*model.Player, error)
	RestoreSession(ctx context.Context, token string) (*Result, error)
	Logout(ctx context.Context, token string) error
}

var _ ServiceInterface = (*Service)(nil)
