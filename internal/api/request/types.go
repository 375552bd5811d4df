package request

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TapRequest is the request body for manual taps
type TapRequest struct {
	Count int `json:"count,omitempty"`
}

// BuyGPURequest is the request body for buying mining GPUs
type BuyGPURequest struct {
	Count int `json:"count,omitempty"`
}

// SellBTCRequest is the request body for selling mined bitcoin
type SellBTCRequest struct {
	Amount float64 `json:"amount,omitempty"`
}

// InvestBuyRequest is the request body for buying into an investment
type InvestBuyRequest struct {
	Amount float64 `json:"amount"`
}

// InvestSellRequest is the request body for selling investment units
type InvestSellRequest struct {
	Units float64 `json:"units"`
}

// RedeemRequest is the request body for redeeming a promo code
type RedeemRequest struct {
	Code string `json:"code"`
}

// UpdateSettingsRequest is the request body for updating player settings.
// Omitted fields keep their current values.
type UpdateSettingsRequest struct {
	Theme         *string  `json:"theme,omitempty"`
	EnableMusic   *bool    `json:"enable_music,omitempty"`
	Volume        *float64 `json:"volume,omitempty"`
	SelectedTrack *string  `json:"selected_track,omitempty"`
	Language      *string  `json:"language,omitempty"`
}

// BanRequest is the request body for banning a player
type BanRequest struct {
	BannedUntil int64  `json:"banned_until"`
	Reason      string `json:"reason"`
}

// EconomyRequest is the request body for tuning the economy. Omitted fields
// keep their current values.
type EconomyRequest struct {
	GlobalMultiplier *float64 `json:"global_multiplier,omitempty"`
	TaxRate          *float64 `json:"tax_rate,omitempty"`
	EnergyCostPerGPU *float64 `json:"energy_cost_per_gpu,omitempty"`
}

// BroadcastRequest is the request body for steering the audio broadcast
type BroadcastRequest struct {
	ActiveTrack    string `json:"active_track"`
	IsMusicEnabled bool   `json:"is_music_enabled"`
}

// AddTrackRequest is the request body for registering a custom track
type AddTrackRequest struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// TrackHiddenRequest is the request body for hiding or unhiding a track
type TrackHiddenRequest struct {
	Hidden bool `json:"hidden"`
}

// BanIPRequest is the request body for banning an address
type BanIPRequest struct {
	IP string `json:"ip"`
}

// CreatePromoRequest is the request body for creating a promo code
type CreatePromoRequest struct {
	Code    string  `json:"code"`
	Reward  float64 `json:"reward"`
	MaxUses int     `json:"max_uses,omitempty"`
}
