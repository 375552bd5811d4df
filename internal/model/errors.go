package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrPlayerBanned   = errors.New("player is banned")

	// Account errors
	ErrCredentialsNotFound = errors.New("credentials not found")
	ErrUsernameTaken       = errors.New("username is already taken")
	ErrInvalidUsername     = errors.New("invalid username")
	ErrInvalidPassword     = errors.New("invalid password")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrIPBanned            = errors.New("ip address is banned")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session has expired")
	ErrSessionActive   = errors.New("session is already running")
	ErrSessionClosed   = errors.New("session is closed")

	// Config and settings errors
	ErrConfigNotFound   = errors.New("global config not found")
	ErrSettingsNotFound = errors.New("settings not found")
	ErrTrackNotFound    = errors.New("track not found")

	// Economy errors
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrBusinessNotFound     = errors.New("business not found")
	ErrBusinessNotOwned     = errors.New("business not owned")
	ErrBusinessOwned        = errors.New("business already owned")
	ErrInvestmentNotFound   = errors.New("investment not found")
	ErrInsufficientHoldings = errors.New("insufficient holdings")
	ErrNoGPUs               = errors.New("no gpus installed")

	// Promo errors
	ErrPromoNotFound        = errors.New("promo code not found")
	ErrPromoExhausted       = errors.New("promo code has no uses left")
	ErrPromoAlreadyRedeemed = errors.New("promo code already redeemed")
	ErrPromoExists          = errors.New("promo code already exists")

	// Audio errors
	ErrPlaybackRejected = errors.New("playback rejected")

	// Authorization errors
	ErrNotAdmin = errors.New("player is not an admin")
)
