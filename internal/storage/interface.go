package storage

import (
	"context"

	"github.com/clickonomy/clickonomy-go/internal/model"
)

// Storage defines the interface for data persistence. It is a document
// store: records are read and written whole, there are no transactions,
// and concurrent writers of the same record can clobber each other.
type Storage interface {
	// Database operations
	LoadDatabase(ctx context.Context) (*model.Database, error)
	SaveDatabase(ctx context.Context, db *model.Database) error

	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error
	ListPlayers(ctx context.Context) ([]*model.Player, error)
	UnbanPlayer(ctx context.Context, id model.PlayerID) error

	// Credential operations
	SaveCredentials(ctx context.Context, creds *model.Credentials) error
	GetCredentialsByUsername(ctx context.Context, username string) (*model.Credentials, error)

	// Session operations
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, token string) (*model.Session, error)
	DeleteSession(ctx context.Context, token string) error

	// Global config operations
	GetConfig(ctx context.Context) (*model.GlobalConfig, error)
	SaveConfig(ctx context.Context, cfg *model.GlobalConfig) error

	// Per-player settings operations
	GetSettings(ctx context.Context, id model.PlayerID) (*model.AppSettings, error)
	SaveSettings(ctx context.Context, id model.PlayerID, settings *model.AppSettings) error

	// Promo code operations
	GetPromoCode(ctx context.Context, code string) (*model.PromoCode, error)
	SavePromoCode(ctx context.Context, promo *model.PromoCode) error
	ListPromoCodes(ctx context.Context) ([]model.PromoCode, error)

	// Banned IP operations
	BanIP(ctx context.Context, ip string) error
	IsIPBanned(ctx context.Context, ip string) (bool, error)
}
