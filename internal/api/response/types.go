package response

import (
	"time"

	"github.com/clickonomy/clickonomy-go/internal/model"
	"github.com/clickonomy/clickonomy-go/internal/services/gate"
	"github.com/clickonomy/clickonomy-go/internal/services/leaderboard"
)

// Business represents a business catalog entry in API responses
type Business struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Owned       bool    `json:"owned"`
	Level       int     `json:"level"`
	BaseIncome  float64 `json:"base_income"`
	Cost        float64 `json:"cost"`
	UpgradeCost float64 `json:"upgrade_cost"`
}

// BusinessFromModel converts a model.Business to a response Business
func BusinessFromModel(b model.Business) Business {
	return Business{
		ID:          string(b.ID),
		Name:        b.Name,
		Owned:       b.Owned,
		Level:       b.Level,
		BaseIncome:  b.BaseIncome,
		Cost:        b.Cost,
		UpgradeCost: b.UpgradeCost(),
	}
}

// MiningFarm represents a player's mining operation, with the derived
// purchase costs the client needs to render buy buttons
type MiningFarm struct {
	GPUCount    int     `json:"gpu_count"`
	GPULevel    int     `json:"gpu_level"`
	BTCBalance  float64 `json:"btc_balance"`
	EnergyDebt  float64 `json:"energy_debt"`
	NextGPUCost float64 `json:"next_gpu_cost"`
	UpgradeCost float64 `json:"upgrade_cost"`
}

// MiningFarmFromModel converts model.MiningFarm
func MiningFarmFromModel(m model.MiningFarm) MiningFarm {
	return MiningFarm{
		GPUCount:    m.GPUCount,
		GPULevel:    m.GPULevel,
		BTCBalance:  m.BTCBalance,
		EnergyDebt:  m.EnergyDebt,
		NextGPUCost: m.NextGPUCost(),
		UpgradeCost: m.UpgradeCost(),
	}
}

// Candle is one OHLC price-history bucket
type Candle struct {
	Bucket int64   `json:"bucket"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
}

// Investment represents one tradable symbol in API responses
type Investment struct {
	Symbol        string   `json:"symbol"`
	Name          string   `json:"name"`
	BasePrice     float64  `json:"base_price"`
	CurrentPrice  float64  `json:"current_price"`
	ChangePercent float64  `json:"change_percent"`
	Owned         float64  `json:"owned"`
	History       []Candle `json:"history,omitempty"`
}

// InvestmentFromModel converts model.Investment
func InvestmentFromModel(inv model.Investment) Investment {
	var history []Candle
	if len(inv.History) > 0 {
		history = make([]Candle, len(inv.History))
		for i, c := range inv.History {
			history[i] = Candle{
				Bucket: c.Bucket,
				Open:   c.Open,
				High:   c.High,
				Low:    c.Low,
				Close:  c.Close,
			}
		}
	}
	return Investment{
		Symbol:        inv.Symbol,
		Name:          inv.Name,
		BasePrice:     inv.BasePrice,
		CurrentPrice:  inv.CurrentPrice,
		ChangePercent: inv.ChangePercent,
		Owned:         inv.Owned,
		History:       history,
	}
}

// Player represents a player in API responses
type Player struct {
	ID            string       `json:"id"`
	Username      string       `json:"username"`
	IsAdmin       bool         `json:"is_admin,omitempty"`
	Balance       float64      `json:"balance"`
	MaxMoney      float64      `json:"max_money"`
	TapPower      float64      `json:"tap_power"`
	Businesses    []Business   `json:"businesses"`
	MiningFarm    MiningFarm   `json:"mining_farm"`
	Investments   []Investment `json:"investments"`
	Playtime      int64        `json:"playtime"`
	BannedUntil   int64        `json:"banned_until,omitempty"`
	BanReason     string       `json:"ban_reason,omitempty"`
	RedeemedCodes []string     `json:"redeemed_codes,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	businesses := make([]Business, len(p.Businesses))
	for i, b := range p.Businesses {
		businesses[i] = BusinessFromModel(b)
	}

	investments := make([]Investment, len(p.Investments))
	for i, inv := range p.Investments {
		investments[i] = InvestmentFromModel(inv)
	}

	return Player{
		ID:            string(p.ID),
		Username:      p.Username,
		IsAdmin:       p.IsAdmin,
		Balance:       p.Balance,
		MaxMoney:      p.MaxMoney,
		TapPower:      p.TapPower,
		Businesses:    businesses,
		MiningFarm:    MiningFarmFromModel(p.MiningFarm),
		Investments:   investments,
		Playtime:      p.Playtime,
		BannedUntil:   p.BannedUntil,
		BanReason:     p.BanReason,
		RedeemedCodes: p.RedeemedCodes,
		CreatedAt:     p.CreatedAt,
	}
}

// AudioTrack represents a configured audio track
type AudioTrack struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	URL    string `json:"url"`
	Hidden bool   `json:"hidden,omitempty"`
}

// AudioTrackFromModel converts model.AudioTrack
func AudioTrackFromModel(t model.AudioTrack) AudioTrack {
	return AudioTrack{
		ID:     t.ID,
		Name:   t.Name,
		URL:    t.URL,
		Hidden: t.Hidden,
	}
}

// Config represents the shared global config
type Config struct {
	Version          int64        `json:"version"`
	GlobalMultiplier float64      `json:"global_multiplier"`
	TaxRate          float64      `json:"tax_rate"`
	EnergyCostPerGPU float64      `json:"energy_cost_per_gpu"`
	ActiveTrack      string       `json:"active_track"`
	IsMusicEnabled   bool         `json:"is_music_enabled"`
	CustomTracks     []AudioTrack `json:"custom_tracks,omitempty"`
}

// ConfigFromModel converts model.GlobalConfig
func ConfigFromModel(cfg *model.GlobalConfig) Config {
	var tracks []AudioTrack
	if len(cfg.CustomTracks) > 0 {
		tracks = make([]AudioTrack, len(cfg.CustomTracks))
		for i, t := range cfg.CustomTracks {
			tracks[i] = AudioTrackFromModel(t)
		}
	}
	return Config{
		Version:          cfg.Version,
		GlobalMultiplier: cfg.GlobalMultiplier,
		TaxRate:          cfg.TaxRate,
		EnergyCostPerGPU: cfg.EnergyCostPerGPU,
		ActiveTrack:      cfg.ActiveTrack,
		IsMusicEnabled:   cfg.IsMusicEnabled,
		CustomTracks:     tracks,
	}
}

// Settings represents a player's client preferences
type Settings struct {
	Theme         string  `json:"theme"`
	EnableMusic   bool    `json:"enable_music"`
	Volume        float64 `json:"volume"`
	SelectedTrack string  `json:"selected_track"`
	Language      string  `json:"language"`
}

// SettingsFromModel converts model.AppSettings
func SettingsFromModel(s model.AppSettings) Settings {
	return Settings{
		Theme:         s.Theme,
		EnableMusic:   s.EnableMusic,
		Volume:        s.Volume,
		SelectedTrack: s.SelectedTrack,
		Language:      s.Language,
	}
}

// Auth is the response for login/register/me. A banned outcome keeps the
// player visible, carries the ban metadata, and never includes a token.
type Auth struct {
	State       string `json:"state"`
	Player      Player `json:"player"`
	Token       string `json:"token,omitempty"`
	BanReason   string `json:"ban_reason,omitempty"`
	BannedUntil int64  `json:"banned_until,omitempty"`
}

// AuthFromResult converts a gate.Result
func AuthFromResult(r *gate.Result) Auth {
	return Auth{
		State:       string(r.State),
		Player:      PlayerFromModel(r.Player),
		Token:       r.Token,
		BanReason:   r.BanReason,
		BannedUntil: r.BannedUntil,
	}
}

// State is the full session view: the player under simulation, the config
// the session has observed, and the player's settings
type State struct {
	Player   Player   `json:"player"`
	Config   Config   `json:"config"`
	Settings Settings `json:"settings"`
	Tick     int64    `json:"tick"`
	Frozen   bool     `json:"frozen,omitempty"`
}

// ActionResult is the response to a game action: the updated player
type ActionResult struct {
	Player Player `json:"player"`
}

// LeaderboardEntry is one ranked row
type LeaderboardEntry struct {
	Rank     int     `json:"rank"`
	PlayerID string  `json:"player_id"`
	Username string  `json:"username"`
	MaxMoney float64 `json:"max_money"`
	Playtime int64   `json:"playtime"`
}

// LeaderboardFromEntries converts leaderboard entries
func LeaderboardFromEntries(entries []leaderboard.Entry) []LeaderboardEntry {
	out := make([]LeaderboardEntry, len(entries))
	for i, e := range entries {
		out[i] = LeaderboardEntry{
			Rank:     e.Rank,
			PlayerID: string(e.PlayerID),
			Username: e.Username,
			MaxMoney: e.MaxMoney,
			Playtime: e.Playtime,
		}
	}
	return out
}

// PromoCode represents a promo code in admin responses
type PromoCode struct {
	Code    string  `json:"code"`
	Reward  float64 `json:"reward"`
	MaxUses int     `json:"max_uses"`
	Uses    int     `json:"uses"`
}

// PromoCodeFromModel converts model.PromoCode
func PromoCodeFromModel(p model.PromoCode) PromoCode {
	return PromoCode{
		Code:    p.Code,
		Reward:  p.Reward,
		MaxUses: p.MaxUses,
		Uses:    p.Uses,
	}
}

// PromoCodesFromModel converts a promo code list
func PromoCodesFromModel(codes []model.PromoCode) []PromoCode {
	out := make([]PromoCode, len(codes))
	for i, c := range codes {
		out[i] = PromoCodeFromModel(c)
	}
	return out
}

// RedeemResult is the response to a successful promo redemption
type RedeemResult struct {
	Code   string  `json:"code"`
	Reward float64 `json:"reward"`
	Player Player  `json:"player"`
}
