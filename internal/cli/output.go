package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case AuthResult:
		o.printAuthResult(v)
	case State:
		o.printState(v)
	case ActionResult:
		o.printPlayer(v.Player)
	case Settings:
		o.printSettings(v)
	case GlobalConfig:
		o.printConfig(v)
	case AudioTrack:
		o.printTrack(v)
	case RedeemResult:
		o.printRedeemResult(v)
	case PromoCode:
		o.printPromoCode(v)
	case []PromoCode:
		o.printPromoCodes(v)
	case []LeaderboardEntry:
		o.printLeaderboard(v)
	case []Player:
		o.printPlayerList(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Business response type (matches API)
type Business struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Owned       bool    `json:"owned"`
	Level       int     `json:"level"`
	BaseIncome  float64 `json:"base_income"`
	Cost        float64 `json:"cost"`
	UpgradeCost float64 `json:"upgrade_cost"`
}

// MiningFarm response type
type MiningFarm struct {
	GPUCount    int     `json:"gpu_count"`
	GPULevel    int     `json:"gpu_level"`
	BTCBalance  float64 `json:"btc_balance"`
	EnergyDebt  float64 `json:"energy_debt"`
	NextGPUCost float64 `json:"next_gpu_cost"`
	UpgradeCost float64 `json:"upgrade_cost"`
}

// Investment response type
type Investment struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	BasePrice     float64 `json:"base_price"`
	CurrentPrice  float64 `json:"current_price"`
	ChangePercent float64 `json:"change_percent"`
	Owned         float64 `json:"owned"`
}

// Player response type
type Player struct {
	ID          string       `json:"id"`
	Username    string       `json:"username"`
	IsAdmin     bool         `json:"is_admin,omitempty"`
	Balance     float64      `json:"balance"`
	MaxMoney    float64      `json:"max_money"`
	TapPower    float64      `json:"tap_power"`
	Businesses  []Business   `json:"businesses"`
	MiningFarm  MiningFarm   `json:"mining_farm"`
	Investments []Investment `json:"investments"`
	Playtime    int64        `json:"playtime"`
	BannedUntil int64        `json:"banned_until,omitempty"`
	BanReason   string       `json:"ban_reason,omitempty"`
}

// AuthResult is the response for register/login/me
type AuthResult struct {
	State       string `json:"state"`
	Player      Player `json:"player"`
	Token       string `json:"token,omitempty"`
	BanReason   string `json:"ban_reason,omitempty"`
	BannedUntil int64  `json:"banned_until,omitempty"`
}

// AudioTrack response type
type AudioTrack struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	URL    string `json:"url"`
	Hidden bool   `json:"hidden,omitempty"`
}

// GlobalConfig response type
type GlobalConfig struct {
	Version          int64        `json:"version"`
	GlobalMultiplier float64      `json:"global_multiplier"`
	TaxRate          float64      `json:"tax_rate"`
	EnergyCostPerGPU float64      `json:"energy_cost_per_gpu"`
	ActiveTrack      string       `json:"active_track"`
	IsMusicEnabled   bool         `json:"is_music_enabled"`
	CustomTracks     []AudioTrack `json:"custom_tracks,omitempty"`
}

// Settings response type
type Settings struct {
	Theme         string  `json:"theme"`
	EnableMusic   bool    `json:"enable_music"`
	Volume        float64 `json:"volume"`
	SelectedTrack string  `json:"selected_track"`
	Language      string  `json:"language"`
}

// State is the full session view
type State struct {
	Player   Player       `json:"player"`
	Config   GlobalConfig `json:"config"`
	Settings Settings     `json:"settings"`
	Tick     int64        `json:"tick"`
	Frozen   bool         `json:"frozen,omitempty"`
}

// ActionResult is the response to a game action
type ActionResult struct {
	Player Player `json:"player"`
}

// LeaderboardEntry response type
type LeaderboardEntry struct {
	Rank     int     `json:"rank"`
	PlayerID string  `json:"player_id"`
	Username string  `json:"username"`
	MaxMoney float64 `json:"max_money"`
	Playtime int64   `json:"playtime"`
}

// PromoCode response type
type PromoCode struct {
	Code    string  `json:"code"`
	Reward  float64 `json:"reward"`
	MaxUses int     `json:"max_uses"`
	Uses    int     `json:"uses"`
}

// RedeemResult response type
type RedeemResult struct {
	Code   string  `json:"code"`
	Reward float64 `json:"reward"`
	Player Player  `json:"player"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p Player) {
	fmt.Printf("Player: %s (%s)\n", p.Username, p.ID)
	if p.IsAdmin {
		fmt.Println("Admin: yes")
	}
	fmt.Printf("Balance: $%.2f (peak $%.2f)\n", p.Balance, p.MaxMoney)
	fmt.Printf("Tap Power: %.2f\n", p.TapPower)
	fmt.Printf("Playtime: %s\n", formatPlaytime(p.Playtime))

	if p.BannedUntil != 0 {
		fmt.Printf("Banned: %s", formatBanExpiry(p.BannedUntil))
		if p.BanReason != "" {
			fmt.Printf(" (%s)", p.BanReason)
		}
		fmt.Println()
	}

	owned := 0
	for _, b := range p.Businesses {
		if b.Owned {
			owned++
		}
	}
	fmt.Printf("Businesses: %d/%d owned\n", owned, len(p.Businesses))
	for _, b := range p.Businesses {
		if b.Owned {
			fmt.Printf("  - %s L%d (%.2f/tick)\n", b.Name, b.Level, b.BaseIncome*float64(b.Level))
		}
	}

	if p.MiningFarm.GPUCount > 0 {
		fmt.Printf("Mining: %d GPUs L%d, %.6f BTC unsold\n",
			p.MiningFarm.GPUCount, p.MiningFarm.GPULevel, p.MiningFarm.BTCBalance)
	}

	for _, inv := range p.Investments {
		if inv.Owned > 0 {
			fmt.Printf("Holding: %.6f %s @ $%.2f\n", inv.Owned, inv.Symbol, inv.CurrentPrice)
		}
	}
}

func (o *Output) printAuthResult(a AuthResult) {
	fmt.Printf("State: %s\n", a.State)

	if a.State == "banned" {
		fmt.Printf("Banned: %s\n", formatBanExpiry(a.BannedUntil))
		if a.BanReason != "" {
			fmt.Printf("Reason: %s\n", a.BanReason)
		}
		return
	}

	o.printPlayer(a.Player)
	if a.Token != "" {
		fmt.Printf("Token: %s\n", a.Token)
	}
}

func (o *Output) printState(s State) {
	o.printPlayer(s.Player)
	fmt.Printf("Tick: %d\n", s.Tick)
	if s.Frozen {
		fmt.Println("Simulation: FROZEN")
	}
	fmt.Printf("Economy: x%.2f multiplier, %.0f%% tax\n",
		s.Config.GlobalMultiplier, s.Config.TaxRate*100)
	if s.Config.IsMusicEnabled {
		fmt.Printf("Broadcast: %s\n", s.Config.ActiveTrack)
	}
}

func (o *Output) printSettings(s Settings) {
	musicStr := "off"
	if s.EnableMusic {
		musicStr = "on"
	}
	fmt.Printf("Theme: %s\n", s.Theme)
	fmt.Printf("Music: %s (volume %.1f)\n", musicStr, s.Volume)
	if s.SelectedTrack != "" {
		fmt.Printf("Track: %s\n", s.SelectedTrack)
	}
	if s.Language != "" {
		fmt.Printf("Language: %s\n", s.Language)
	}
}

func (o *Output) printConfig(c GlobalConfig) {
	fmt.Printf("Version: %d\n", c.Version)
	fmt.Printf("Multiplier: x%.2f\n", c.GlobalMultiplier)
	fmt.Printf("Tax Rate: %.0f%%\n", c.TaxRate*100)
	fmt.Printf("Energy Cost/GPU: %.2f\n", c.EnergyCostPerGPU)

	musicStr := "off"
	if c.IsMusicEnabled {
		musicStr = "on"
	}
	fmt.Printf("Music: %s (track: %s)\n", musicStr, c.ActiveTrack)

	if len(c.CustomTracks) > 0 {
		fmt.Printf("Custom Tracks (%d):\n", len(c.CustomTracks))
		for _, t := range c.CustomTracks {
			hiddenStr := ""
			if t.Hidden {
				hiddenStr = " [hidden]"
			}
			fmt.Printf("  - %s (%s)%s\n", t.Name, t.ID, hiddenStr)
		}
	}
}

func (o *Output) printTrack(t AudioTrack) {
	fmt.Printf("Track: %s (%s)\n", t.Name, t.ID)
	fmt.Printf("URL: %s\n", t.URL)
	if t.Hidden {
		fmt.Println("Hidden: yes")
	}
}

func (o *Output) printRedeemResult(r RedeemResult) {
	fmt.Printf("Redeemed %s for $%.2f\n", r.Code, r.Reward)
	fmt.Printf("Balance: $%.2f\n", r.Player.Balance)
}

func (o *Output) printPromoCode(p PromoCode) {
	usesStr := fmt.Sprintf("%d", p.Uses)
	if p.MaxUses > 0 {
		usesStr = fmt.Sprintf("%d/%d", p.Uses, p.MaxUses)
	}
	fmt.Printf("%s: $%.2f reward, %s uses\n", p.Code, p.Reward, usesStr)
}

func (o *Output) printPromoCodes(codes []PromoCode) {
	if len(codes) == 0 {
		fmt.Println("No promo codes")
		return
	}
	for _, c := range codes {
		o.printPromoCode(c)
	}
}

func (o *Output) printLeaderboard(entries []LeaderboardEntry) {
	if len(entries) == 0 {
		fmt.Println("Leaderboard is empty")
		return
	}
	for _, e := range entries {
		fmt.Printf("%3d. %-24s $%.2f (%s played)\n",
			e.Rank, e.Username, e.MaxMoney, formatPlaytime(e.Playtime))
	}
}

func (o *Output) printPlayerList(players []Player) {
	fmt.Printf("Players (%d):\n", len(players))
	for _, p := range players {
		status := ""
		if p.BannedUntil != 0 {
			status = " [banned]"
		}
		if p.IsAdmin {
			status += " [admin]"
		}
		fmt.Printf("  - %s (%s) $%.2f%s\n", p.Username, p.ID, p.Balance, status)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}

func formatPlaytime(seconds int64) string {
	return (time.Duration(seconds) * time.Second).String()
}

func formatBanExpiry(bannedUntil int64) string {
	if bannedUntil < 0 {
		return "permanently"
	}
	return "until " + time.UnixMilli(bannedUntil).Format("2006-01-02 15:04:05")
}
