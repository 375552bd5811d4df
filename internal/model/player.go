package model

import (
	"math"
	"time"
)

// PlayerID uniquely identifies a player across the system
type PlayerID string

// BanPermanent is the BannedUntil value for a ban with no expiry
const BanPermanent int64 = -1

// Player is the central mutable aggregate of the simulation. At most one
// scheduler runtime owns it at a time; every mutation goes through that
// runtime's serialized apply path and is written back to storage whole.
type Player struct {
	ID       PlayerID
	Username string
	IsAdmin  bool

	Balance  float64
	MaxMoney float64 // historical maximum balance, never decreases
	TapPower float64 // currency gained per manual tap

	Businesses  []Business
	MiningFarm  MiningFarm
	Investments []Investment

	Playtime int64 // accumulated seconds of active simulation

	// Ban state: 0 = not banned, BanPermanent = no expiry,
	// positive = expiry as unix milliseconds
	BannedUntil int64
	BanReason   string

	RedeemedCodes []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BanActive reports whether the player is banned as of now
func (p *Player) BanActive(now time.Time) bool {
	if p.BannedUntil == BanPermanent {
		return true
	}
	return p.BannedUntil > 0 && now.UnixMilli() < p.BannedUntil
}

// BanExpired reports whether a timed ban has lapsed.
// Permanent bans never expire.
func (p *Player) BanExpired(now time.Time) bool {
	return p.BannedUntil > 0 && now.UnixMilli() >= p.BannedUntil
}

// ClearBan resets the ban fields
func (p *Player) ClearBan() {
	p.BannedUntil = 0
	p.BanReason = ""
}

// TouchMaxMoney raises MaxMoney if the balance has moved past it
func (p *Player) TouchMaxMoney() {
	if p.Balance > p.MaxMoney {
		p.MaxMoney = p.Balance
	}
}

// GetBusiness returns the catalog entry with the given ID, or nil if absent
func (p *Player) GetBusiness(id BusinessID) *Business {
	for i := range p.Businesses {
		if p.Businesses[i].ID == id {
			return &p.Businesses[i]
		}
	}
	return nil
}

// GetInvestment returns the investment with the given symbol, or nil if absent
func (p *Player) GetInvestment(symbol string) *Investment {
	for i := range p.Investments {
		if p.Investments[i].Symbol == symbol {
			return &p.Investments[i]
		}
	}
	return nil
}

// HasRedeemed reports whether the player has already used the promo code
func (p *Player) HasRedeemed(code string) bool {
	for _, c := range p.RedeemedCodes {
		if c == code {
			return true
		}
	}
	return false
}

// FillCatalog appends catalog entries added since this record was created,
// so older players pick up new businesses and symbols. Existing entries keep
// their levels and holdings. Reports whether anything was added.
func (p *Player) FillCatalog() bool {
	changed := false
	for _, b := range DefaultBusinesses() {
		if p.GetBusiness(b.ID) == nil {
			p.Businesses = append(p.Businesses, b)
			changed = true
		}
	}
	for _, inv := range DefaultInvestments() {
		if p.GetInvestment(inv.Symbol) == nil {
			p.Investments = append(p.Investments, inv)
			changed = true
		}
	}
	return changed
}

// Clone returns a deep copy safe to hand outside the owning runtime
func (p *Player) Clone() *Player {
	c := *p
	c.Businesses = copySlice(p.Businesses)
	c.RedeemedCodes = copySlice(p.RedeemedCodes)
	if p.Investments != nil {
		c.Investments = make([]Investment, len(p.Investments))
		for i, inv := range p.Investments {
			inv.History = copySlice(inv.History)
			c.Investments[i] = inv
		}
	}
	return &c
}

func copySlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

// BusinessID identifies a business catalog entry
type BusinessID string

// Business is one entry in a player's business catalog. Every player carries
// the full catalog; Owned marks which entries have been purchased.
type Business struct {
	ID         BusinessID
	Name       string
	Owned      bool
	Level      int
	BaseIncome float64 // income per tick at level 1
	Cost       float64 // purchase price
}

// UpgradeCost returns the price of raising the business one level
func (b *Business) UpgradeCost() float64 {
	return b.Cost * math.Pow(1.5, float64(b.Level))
}

// MiningFarm tracks a player's GPU mining operation. EnergyDebt only
// accumulates here; settling it against the balance is not the core's job.
type MiningFarm struct {
	GPUCount   int
	GPULevel   int
	BTCBalance float64
	EnergyDebt float64
}

// NextGPUCost returns the price of the next GPU
func (m *MiningFarm) NextGPUCost() float64 {
	return 500 * math.Pow(1.15, float64(m.GPUCount))
}

// UpgradeCost returns the price of raising the farm one GPU level
func (m *MiningFarm) UpgradeCost() float64 {
	level := m.GPULevel
	if level < 1 {
		level = 1
	}
	return 2000 * math.Pow(1.6, float64(level-1))
}

// DefaultBusinesses returns the catalog a new player starts with,
// all unowned at level zero
func DefaultBusinesses() []Business {
	return []Business{
		{ID: "lemonade", Name: "Lemonade Stand", BaseIncome: 1, Cost: 50},
		{ID: "carwash", Name: "Car Wash", BaseIncome: 5, Cost: 400},
		{ID: "cafe", Name: "Internet Cafe", BaseIncome: 22, Cost: 2500},
		{ID: "arcade", Name: "Retro Arcade", BaseIncome: 90, Cost: 16000},
		{ID: "datacenter", Name: "Data Center", BaseIncome: 420, Cost: 110000},
	}
}
