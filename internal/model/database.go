package model

import "time"

// PromoCode is a redeemable balance reward
type PromoCode struct {
	Code    string
	Reward  float64
	MaxUses int // 0 means unlimited
	Uses    int
}

// Exhausted reports whether the code has no redemptions left
func (c *PromoCode) Exhausted() bool {
	return c.MaxUses > 0 && c.Uses >= c.MaxUses
}

// Ticket is a player support request
type Ticket struct {
	ID        string
	PlayerID  PlayerID
	Subject   string
	Body      string
	Status    string
	CreatedAt time.Time
}

// TradeRequest is a pending player-to-player trade offer
type TradeRequest struct {
	ID            string
	FromPlayer    PlayerID
	ToPlayer      PlayerID
	OfferAmount   float64
	RequestAmount float64
	CreatedAt     time.Time
}

// Trade is an accepted trade
type Trade struct {
	TradeRequest
	AcceptedAt time.Time
}

// Clan is a player group
type Clan struct {
	ID        string
	Name      string
	Tag       string
	OwnerID   PlayerID
	Members   []PlayerID
	CreatedAt time.Time
}

// ClanInvite is a pending clan membership offer
type ClanInvite struct {
	ID        string
	ClanID    string
	PlayerID  PlayerID
	CreatedAt time.Time
}

// Database is the full persisted document root. LoadDatabase assembles it
// from the store; seeds and admin exports write it back whole.
type Database struct {
	Players       []*Player
	PromoCodes    []PromoCode
	Tickets       []Ticket
	TradeRequests []TradeRequest
	ActiveTrades  []Trade
	Clans         []Clan
	ClanInvites   []ClanInvite
	BannedIPs     []string
	Config        GlobalConfig
}
