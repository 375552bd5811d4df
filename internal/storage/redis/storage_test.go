package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/clickonomy/clickonomy-go/internal/model"
	"github.com/clickonomy/clickonomy-go/internal/testutil"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.SessionTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

// Player tests

func (s *StorageSuite) TestSaveAndGetPlayer() {
	player := &model.Player{
		ID:         "player-1",
		Username:   "alice",
		Balance:    125.5,
		Businesses: model.DefaultBusinesses(),
		CreatedAt:  time.Now(),
	}

	err := s.storage.SavePlayer(s.ctx, player)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(player.ID, retrieved.ID)
	s.Equal(player.Username, retrieved.Username)
	s.Equal(player.Balance, retrieved.Balance)
	s.Len(retrieved.Businesses, len(player.Businesses))
}

func (s *StorageSuite) TestPlayerRoundTripPreservesEverything() {
	player := testutil.NewMidgamePlayer("player-1")

	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	retrieved, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)

	// Times lose their monotonic reading through the codec, so compare
	// them on their own and normalize before the deep check.
	s.True(retrieved.CreatedAt.Equal(player.CreatedAt))
	retrieved.CreatedAt = player.CreatedAt
	retrieved.UpdatedAt = player.UpdatedAt
	s.Equal(player, retrieved)
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestDeletePlayer() {
	player := &model.Player{ID: "player-1", Username: "alice"}
	_ = s.storage.SavePlayer(s.ctx, player)

	err := s.storage.DeletePlayer(s.ctx, "player-1")
	s.Require().NoError(err)

	_, err = s.storage.GetPlayer(s.ctx, "player-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)

	players, err := s.storage.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Empty(players)
}

func (s *StorageSuite) TestListPlayers() {
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "player-b", Username: "bob"})
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "player-a", Username: "alice"})

	players, err := s.storage.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(players, 2)
	s.Equal(model.PlayerID("player-a"), players[0].ID)
	s.Equal(model.PlayerID("player-b"), players[1].ID)
}

func (s *StorageSuite) TestListPlayersEmpty() {
	players, err := s.storage.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Empty(players)
}

func (s *StorageSuite) TestPlayerNoTTL() {
	player := &model.Player{ID: "player-1", Username: "alice"}
	_ = s.storage.SavePlayer(s.ctx, player)

	ttl := s.mini.TTL(playerKey(player.ID))
	s.Equal(time.Duration(0), ttl, "Player records should not expire")
}

func (s *StorageSuite) TestUnbanPlayer() {
	player := &model.Player{
		ID:          "player-1",
		Username:    "alice",
		BannedUntil: model.BanPermanent,
		BanReason:   "spam",
	}
	_ = s.storage.SavePlayer(s.ctx, player)

	err := s.storage.UnbanPlayer(s.ctx, "player-1")
	s.Require().NoError(err)

	retrieved, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Zero(retrieved.BannedUntil)
	s.Empty(retrieved.BanReason)
}

func (s *StorageSuite) TestUnbanPlayerNotFound() {
	err := s.storage.UnbanPlayer(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Credential tests

func (s *StorageSuite) TestSaveAndGetCredentials() {
	creds := &model.Credentials{
		PlayerID:     "player-1",
		Username:     "alice",
		PasswordHash: "hash123",
		CreatedAt:    time.Now(),
	}

	err := s.storage.SaveCredentials(s.ctx, creds)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetCredentialsByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("player-1", string(retrieved.PlayerID))
	s.Equal(creds.PasswordHash, retrieved.PasswordHash)
}

func (s *StorageSuite) TestGetCredentialsNotFound() {
	_, err := s.storage.GetCredentialsByUsername(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrCredentialsNotFound)
}

// Session tests

func (s *StorageSuite) TestSaveAndGetSession() {
	session := &model.Session{
		Token:     "sess_abc123",
		PlayerID:  "player-1",
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}

	err := s.storage.SaveSession(s.ctx, session)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetSession(s.ctx, "sess_abc123")
	s.Require().NoError(err)
	s.Equal(session.PlayerID, retrieved.PlayerID)
}

func (s *StorageSuite) TestGetSessionNotFound() {
	_, err := s.storage.GetSession(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestDeleteSession() {
	session := &model.Session{Token: "sess_abc123", PlayerID: "player-1"}
	_ = s.storage.SaveSession(s.ctx, session)

	err := s.storage.DeleteSession(s.ctx, "sess_abc123")
	s.Require().NoError(err)

	_, err = s.storage.GetSession(s.ctx, "sess_abc123")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestSessionTTLFromExpiry() {
	session := &model.Session{
		Token:     "sess_abc123",
		PlayerID:  "player-1",
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}
	_ = s.storage.SaveSession(s.ctx, session)

	ttl := s.mini.TTL(sessionKey(session.Token))
	s.True(ttl > 0, "Session should expire with its token")
	s.True(ttl <= 10*time.Minute)
}

func (s *StorageSuite) TestSessionFallbackTTL() {
	session := &model.Session{Token: "sess_abc123", PlayerID: "player-1"}
	_ = s.storage.SaveSession(s.ctx, session)

	ttl := s.mini.TTL(sessionKey(session.Token))
	s.True(ttl > 0, "Session without expiry should get the fallback TTL")
}

func (s *StorageSuite) TestSaveExpiredSessionDeletes() {
	session := &model.Session{Token: "sess_abc123", PlayerID: "player-1"}
	_ = s.storage.SaveSession(s.ctx, session)

	session.ExpiresAt = time.Now().Add(-time.Minute)
	err := s.storage.SaveSession(s.ctx, session)
	s.Require().NoError(err)

	_, err = s.storage.GetSession(s.ctx, "sess_abc123")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

// Global config tests

func (s *StorageSuite) TestGetConfigNotFound() {
	_, err := s.storage.GetConfig(s.ctx)
	s.ErrorIs(err, model.ErrConfigNotFound)
}

func (s *StorageSuite) TestSaveAndGetConfig() {
	cfg := model.DefaultGlobalConfig()
	cfg.Version = 7
	cfg.GlobalMultiplier = 2.5

	err := s.storage.SaveConfig(s.ctx, &cfg)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetConfig(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(7), retrieved.Version)
	s.Equal(2.5, retrieved.GlobalMultiplier)
}

// Settings tests

func (s *StorageSuite) TestGetSettingsNotFound() {
	_, err := s.storage.GetSettings(s.ctx, "player-1")
	s.ErrorIs(err, model.ErrSettingsNotFound)
}

func (s *StorageSuite) TestSaveAndGetSettings() {
	settings := model.DefaultAppSettings()
	settings.Theme = "light"
	settings.Volume = 0.8

	err := s.storage.SaveSettings(s.ctx, "player-1", &settings)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetSettings(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal("light", retrieved.Theme)
	s.Equal(0.8, retrieved.Volume)
}

func (s *StorageSuite) TestGetSettingsMergesDefaults() {
	// Simulate a record persisted before newer fields existed
	s.Require().NoError(s.mini.Set(settingsKey("player-1"), `{"theme":"light"}`))

	retrieved, err := s.storage.GetSettings(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal("light", retrieved.Theme)
	s.Equal(model.TrackGlobal, retrieved.SelectedTrack)
	s.Equal(0.5, retrieved.Volume)
	s.True(retrieved.EnableMusic)
}

// Promo code tests

func (s *StorageSuite) TestSaveAndGetPromoCode() {
	promo := &model.PromoCode{Code: "WELCOME", Reward: 500, MaxUses: 10}

	err := s.storage.SavePromoCode(s.ctx, promo)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetPromoCode(s.ctx, "WELCOME")
	s.Require().NoError(err)
	s.Equal(promo.Reward, retrieved.Reward)
	s.Equal(promo.MaxUses, retrieved.MaxUses)
}

func (s *StorageSuite) TestGetPromoCodeNotFound() {
	_, err := s.storage.GetPromoCode(s.ctx, "NOPE")
	s.ErrorIs(err, model.ErrPromoNotFound)
}

func (s *StorageSuite) TestListPromoCodes() {
	_ = s.storage.SavePromoCode(s.ctx, &model.PromoCode{Code: "BETA", Reward: 100})
	_ = s.storage.SavePromoCode(s.ctx, &model.PromoCode{Code: "ALPHA", Reward: 50})

	promos, err := s.storage.ListPromoCodes(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(promos, 2)
	s.Equal("ALPHA", promos[0].Code)
	s.Equal("BETA", promos[1].Code)
}

// Banned IP tests

func (s *StorageSuite) TestBanIP() {
	err := s.storage.BanIP(s.ctx, "203.0.113.9")
	s.Require().NoError(err)

	banned, err := s.storage.IsIPBanned(s.ctx, "203.0.113.9")
	s.Require().NoError(err)
	s.True(banned)

	banned, err = s.storage.IsIPBanned(s.ctx, "203.0.113.10")
	s.Require().NoError(err)
	s.False(banned)
}

// Database tests

func (s *StorageSuite) TestLoadDatabaseEmpty() {
	db, err := s.storage.LoadDatabase(s.ctx)
	s.Require().NoError(err)
	s.Empty(db.Players)
	s.Empty(db.PromoCodes)
	s.Equal(model.DefaultGlobalConfig(), db.Config)
}

func (s *StorageSuite) TestSaveAndLoadDatabase() {
	db := &model.Database{
		Players: []*model.Player{
			{ID: "player-1", Username: "alice", Balance: 100},
			{ID: "player-2", Username: "bob", Balance: 200},
		},
		PromoCodes: []model.PromoCode{
			{Code: "WELCOME", Reward: 500, MaxUses: 10},
		},
		BannedIPs: []string{"203.0.113.9"},
		Config:    model.DefaultGlobalConfig(),
	}
	db.Config.Version = 3

	err := s.storage.SaveDatabase(s.ctx, db)
	s.Require().NoError(err)

	loaded, err := s.storage.LoadDatabase(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(loaded.Players, 2)
	s.Equal(model.PlayerID("player-1"), loaded.Players[0].ID)
	s.Require().Len(loaded.PromoCodes, 1)
	s.Equal([]string{"203.0.113.9"}, loaded.BannedIPs)
	s.Equal(int64(3), loaded.Config.Version)
}

func (s *StorageSuite) TestSaveDatabaseReplacesIndexes() {
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "stale", Username: "stale"})

	db := &model.Database{
		Players: []*model.Player{{ID: "fresh", Username: "fresh"}},
		Config:  model.DefaultGlobalConfig(),
	}
	s.Require().NoError(s.storage.SaveDatabase(s.ctx, db))

	players, err := s.storage.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(players, 1)
	s.Equal(model.PlayerID("fresh"), players[0].ID)
}
