package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/clickonomy/clickonomy-go/internal/model"
	"github.com/clickonomy/clickonomy-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Values are deep-copied on the way in and out so callers never alias
// stored state; reload-observe-persist flows behave like a real backend.
type Storage struct {
	mu sync.RWMutex

	players       map[model.PlayerID]*model.Player
	credentials   map[string]*model.Credentials
	sessions      map[string]*model.Session
	settings      map[model.PlayerID]model.AppSettings
	promoCodes    map[string]model.PromoCode
	bannedIPs     map[string]struct{}
	config        *model.GlobalConfig
	tickets       []model.Ticket
	tradeRequests []model.TradeRequest
	activeTrades  []model.Trade
	clans         []model.Clan
	clanInvites   []model.ClanInvite
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:     make(map[model.PlayerID]*model.Player),
		credentials: make(map[string]*model.Credentials),
		sessions:    make(map[string]*model.Session),
		settings:    make(map[model.PlayerID]model.AppSettings),
		promoCodes:  make(map[string]model.PromoCode),
		bannedIPs:   make(map[string]struct{}),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Database operations

func (s *Storage) LoadDatabase(ctx context.Context) (*model.Database, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	db := &model.Database{
		Players:       s.playersLocked(),
		PromoCodes:    s.promoCodesLocked(),
		Tickets:       append([]model.Ticket(nil), s.tickets...),
		TradeRequests: append([]model.TradeRequest(nil), s.tradeRequests...),
		ActiveTrades:  append([]model.Trade(nil), s.activeTrades...),
		Clans:         append([]model.Clan(nil), s.clans...),
		ClanInvites:   append([]model.ClanInvite(nil), s.clanInvites...),
		BannedIPs:     s.bannedIPsLocked(),
		Config:        model.DefaultGlobalConfig(),
	}
	if s.config != nil {
		db.Config = s.config.Clone()
	}
	return db, nil
}

func (s *Storage) SaveDatabase(ctx context.Context, db *model.Database) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.players = make(map[model.PlayerID]*model.Player, len(db.Players))
	for _, p := range db.Players {
		s.players[p.ID] = p.Clone()
	}
	s.promoCodes = make(map[string]model.PromoCode, len(db.PromoCodes))
	for _, c := range db.PromoCodes {
		s.promoCodes[c.Code] = c
	}
	s.bannedIPs = make(map[string]struct{}, len(db.BannedIPs))
	for _, ip := range db.BannedIPs {
		s.bannedIPs[ip] = struct{}{}
	}
	s.tickets = append([]model.Ticket(nil), db.Tickets...)
	s.tradeRequests = append([]model.TradeRequest(nil), db.TradeRequests...)
	s.activeTrades = append([]model.Trade(nil), db.ActiveTrades...)
	s.clans = append([]model.Clan(nil), db.Clans...)
	s.clanInvites = append([]model.ClanInvite(nil), db.ClanInvites...)
	cfg := db.Config.Clone()
	s.config = &cfg
	return nil
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[player.ID] = player.Clone()
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player.Clone(), nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, id)
	return nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.playersLocked(), nil
}

func (s *Storage) UnbanPlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	player, ok := s.players[id]
	if !ok {
		return model.ErrPlayerNotFound
	}
	player.ClearBan()
	return nil
}

func (s *Storage) playersLocked() []*model.Player {
	players := make([]*model.Player, 0, len(s.players))
	for _, p := range s.players {
		players = append(players, p.Clone())
	}
	sort.Slice(players, func(i, j int) bool {
		return players[i].ID < players[j].ID
	})
	return players
}

// Credential operations

func (s *Storage) SaveCredentials(ctx context.Context, creds *model.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *creds
	s.credentials[creds.Username] = &copied
	return nil
}

func (s *Storage) GetCredentialsByUsername(ctx context.Context, username string) (*model.Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	creds, ok := s.credentials[username]
	if !ok {
		return nil, model.ErrCredentialsNotFound
	}
	copied := *creds
	return &copied, nil
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *session
	s.sessions[session.Token] = &copied
	return nil
}

func (s *Storage) GetSession(ctx context.Context, token string) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[token]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

func (s *Storage) DeleteSession(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

// Global config operations

func (s *Storage) GetConfig(ctx context.Context) (*model.GlobalConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.config == nil {
		return nil, model.ErrConfigNotFound
	}
	cfg := s.config.Clone()
	return &cfg, nil
}

func (s *Storage) SaveConfig(ctx context.Context, cfg *model.GlobalConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := cfg.Clone()
	s.config = &copied
	return nil
}

// Per-player settings operations

func (s *Storage) GetSettings(ctx context.Context, id model.PlayerID) (*model.AppSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	settings, ok := s.settings[id]
	if !ok {
		return nil, model.ErrSettingsNotFound
	}
	return &settings, nil
}

func (s *Storage) SaveSettings(ctx context.Context, id model.PlayerID, settings *model.AppSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[id] = *settings
	return nil
}

// Promo code operations

func (s *Storage) GetPromoCode(ctx context.Context, code string) (*model.PromoCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	promo, ok := s.promoCodes[code]
	if !ok {
		return nil, model.ErrPromoNotFound
	}
	return &promo, nil
}

func (s *Storage) SavePromoCode(ctx context.Context, promo *model.PromoCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.promoCodes[promo.Code] = *promo
	return nil
}

func (s *Storage) ListPromoCodes(ctx context.Context) ([]model.PromoCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.promoCodesLocked(), nil
}

func (s *Storage) promoCodesLocked() []model.PromoCode {
	codes := make([]model.PromoCode, 0, len(s.promoCodes))
	for _, c := range s.promoCodes {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool {
		return codes[i].Code < codes[j].Code
	})
	return codes
}

// Banned IP operations

func (s *Storage) BanIP(ctx context.Context, ip string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bannedIPs[ip] = struct{}{}
	return nil
}

func (s *Storage) IsIPBanned(ctx context.Context, ip string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.bannedIPs[ip]
	return ok, nil
}

func (s *Storage) bannedIPsLocked() []string {
	ips := make([]string, 0, len(s.bannedIPs))
	for ip := range s.bannedIPs {
		ips = append(ips, ip)
	}
	sort.Strings(ips)
	return ips
}
