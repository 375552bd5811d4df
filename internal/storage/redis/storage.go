package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/clickonomy/clickonomy-go/internal/model"
	"github.com/clickonomy/clickonomy-go/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Database operations

func (s *Storage) LoadDatabase(ctx context.Context) (*model.Database, error) {
	players, err := s.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}

	promos, err := s.ListPromoCodes(ctx)
	if err != nil {
		return nil, err
	}

	db := &model.Database{
		Players:    players,
		PromoCodes: promos,
	}

	if err := s.getCollection(ctx, ticketsKey(), &db.Tickets); err != nil {
		return nil, err
	}
	if err := s.getCollection(ctx, tradeRequestsKey(), &db.TradeRequests); err != nil {
		return nil, err
	}
	if err := s.getCollection(ctx, activeTradesKey(), &db.ActiveTrades); err != nil {
		return nil, err
	}
	if err := s.getCollection(ctx, clansKey(), &db.Clans); err != nil {
		return nil, err
	}
	if err := s.getCollection(ctx, clanInvitesKey(), &db.ClanInvites); err != nil {
		return nil, err
	}

	ips, err := s.client.SMembers(ctx, bannedIPsKey()).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(ips)
	if len(ips) > 0 {
		db.BannedIPs = ips
	}

	// Absent config is healed with defaults rather than surfaced
	cfg, err := s.GetConfig(ctx)
	if err != nil {
		if !errors.Is(err, model.ErrConfigNotFound) {
			return nil, err
		}
		db.Config = model.DefaultGlobalConfig()
	} else {
		db.Config = *cfg
	}

	return db, nil
}

func (s *Storage) SaveDatabase(ctx context.Context, db *model.Database) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, playersIndexKey(), promosIndexKey(), bannedIPsKey())

	for _, p := range db.Players {
		data, err := json.Marshal(p)
		if err != nil {
			return err
		}
		pipe.Set(ctx, playerKey(p.ID), data, 0)
		pipe.SAdd(ctx, playersIndexKey(), string(p.ID))
	}

	for _, c := range db.PromoCodes {
		data, err := json.Marshal(c)
		if err != nil {
			return err
		}
		pipe.Set(ctx, promoKey(c.Code), data, 0)
		pipe.SAdd(ctx, promosIndexKey(), c.Code)
	}

	collections := map[string]any{
		ticketsKey():       db.Tickets,
		tradeRequestsKey(): db.TradeRequests,
		activeTradesKey():  db.ActiveTrades,
		clansKey():         db.Clans,
		clanInvitesKey():   db.ClanInvites,
	}
	for key, value := range collections {
		data, err := json.Marshal(value)
		if err != nil {
			return err
		}
		pipe.Set(ctx, key, data, 0)
	}

	if len(db.BannedIPs) > 0 {
		members := make([]interface{}, len(db.BannedIPs))
		for i, ip := range db.BannedIPs {
			members[i] = ip
		}
		pipe.SAdd(ctx, bannedIPsKey(), members...)
	}

	cfgData, err := json.Marshal(db.Config)
	if err != nil {
		return err
	}
	pipe.Set(ctx, configKey(), cfgData, 0)

	_, err = pipe.Exec(ctx)
	return err
}

// getCollection reads a whole-blob JSON collection into dest, leaving dest
// untouched when the key is absent
func (s *Storage) getCollection(ctx context.Context, key string, dest any) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, dest)
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, playerKey(player.ID), data, 0)
	pipe.SAdd(ctx, playersIndexKey(), string(player.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	data, err := s.client.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, playerKey(id))
	pipe.SRem(ctx, playersIndexKey(), string(id))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	ids, err := s.client.SMembers(ctx, playersIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return []*model.Player{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = playerKey(model.PlayerID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	players := make([]*model.Player, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue // record may have been deleted out from under the index
		}
		var player model.Player
		if err := json.Unmarshal([]byte(val.(string)), &player); err != nil {
			continue // Skip invalid data
		}
		players = append(players, &player)
	}

	sort.Slice(players, func(i, j int) bool {
		return players[i].ID < players[j].ID
	})
	return players, nil
}

func (s *Storage) UnbanPlayer(ctx context.Context, id model.PlayerID) error {
	player, err := s.GetPlayer(ctx, id)
	if err != nil {
		return err
	}
	player.ClearBan()
	return s.SavePlayer(ctx, player)
}

// Credential operations

func (s *Storage) SaveCredentials(ctx context.Context, creds *model.Credentials) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, credentialsKey(creds.Username), data, 0).Err()
}

func (s *Storage) GetCredentialsByUsername(ctx context.Context, username string) (*model.Credentials, error) {
	data, err := s.client.Get(ctx, credentialsKey(username)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrCredentialsNotFound
		}
		return nil, err
	}

	var creds model.Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	// Let Redis expire the key alongside the session itself
	ttl := s.cfg.SessionTTL
	if !session.ExpiresAt.IsZero() {
		ttl = time.Until(session.ExpiresAt)
		if ttl <= 0 {
			return s.client.Del(ctx, sessionKey(session.Token)).Err()
		}
	}

	return s.client.Set(ctx, sessionKey(session.Token), data, ttl).Err()
}

func (s *Storage) GetSession(ctx context.Context, token string) (*model.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Storage) DeleteSession(ctx context.Context, token string) error {
	return s.client.Del(ctx, sessionKey(token)).Err()
}

// Global config operations

func (s *Storage) GetConfig(ctx context.Context) (*model.GlobalConfig, error) {
	data, err := s.client.Get(ctx, configKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrConfigNotFound
		}
		return nil, err
	}

	var cfg model.GlobalConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s *Storage) SaveConfig(ctx context.Context, cfg *model.GlobalConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, configKey(), data, 0).Err()
}

// Per-player settings operations

func (s *Storage) GetSettings(ctx context.Context, id model.PlayerID) (*model.AppSettings, error) {
	data, err := s.client.Get(ctx, settingsKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSettingsNotFound
		}
		return nil, err
	}

	// Decode over defaults so fields absent from older persisted copies
	// keep their default values
	settings := model.DefaultAppSettings()
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *Storage) SaveSettings(ctx context.Context, id model.PlayerID, settings *model.AppSettings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, settingsKey(id), data, 0).Err()
}

// Promo code operations

func (s *Storage) GetPromoCode(ctx context.Context, code string) (*model.PromoCode, error) {
	data, err := s.client.Get(ctx, promoKey(code)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPromoNotFound
		}
		return nil, err
	}

	var promo model.PromoCode
	if err := json.Unmarshal(data, &promo); err != nil {
		return nil, err
	}
	return &promo, nil
}

func (s *Storage) SavePromoCode(ctx context.Context, promo *model.PromoCode) error {
	data, err := json.Marshal(promo)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, promoKey(promo.Code), data, 0)
	pipe.SAdd(ctx, promosIndexKey(), promo.Code)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) ListPromoCodes(ctx context.Context) ([]model.PromoCode, error) {
	codes, err := s.client.SMembers(ctx, promosIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	if len(codes) == 0 {
		return []model.PromoCode{}, nil
	}

	keys := make([]string, len(codes))
	for i, code := range codes {
		keys[i] = promoKey(code)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	promos := make([]model.PromoCode, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var promo model.PromoCode
		if err := json.Unmarshal([]byte(val.(string)), &promo); err != nil {
			continue // Skip invalid data
		}
		promos = append(promos, promo)
	}

	sort.Slice(promos, func(i, j int) bool {
		return promos[i].Code < promos[j].Code
	})
	return promos, nil
}

// Banned IP operations

func (s *Storage) BanIP(ctx context.Context, ip string) error {
	return s.client.SAdd(ctx, bannedIPsKey(), ip).Err()
}

func (s *Storage) IsIPBanned(ctx context.Context, ip string) (bool, error) {
	banned, err := s.client.SIsMember(ctx, bannedIPsKey(), ip).Result()
	if err != nil {
		return false, err
	}
	return banned, nil
}
