package redis

import (
	"fmt"

	"github.com/clickonomy/clickonomy-go/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "ckn"

// Key generation functions for each entity type

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// playersIndexKey returns the Redis key for the SET of all player IDs
func playersIndexKey() string {
	return fmt.Sprintf("%s:idx:players", keyPrefix)
}

// credentialsKey returns the Redis key for a player's Credentials
func credentialsKey(username string) string {
	return fmt.Sprintf("%s:credentials:%s", keyPrefix, username)
}

// sessionKey returns the Redis key for a Session token
func sessionKey(token string) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, token)
}

// configKey returns the Redis key for the shared GlobalConfig
func configKey() string {
	return fmt.Sprintf("%s:config", keyPrefix)
}

// settingsKey returns the Redis key for a player's AppSettings
func settingsKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:settings:%s", keyPrefix, id)
}

// promoKey returns the Redis key for a PromoCode
func promoKey(code string) string {
	return fmt.Sprintf("%s:promo:%s", keyPrefix, code)
}

// promosIndexKey returns the Redis key for the SET of all promo codes
func promosIndexKey() string {
	return fmt.Sprintf("%s:idx:promos", keyPrefix)
}

// bannedIPsKey returns the Redis key for the SET of banned IP addresses
func bannedIPsKey() string {
	return fmt.Sprintf("%s:banned_ips", keyPrefix)
}

// ticketsKey returns the Redis key for the tickets collection blob
func ticketsKey() string {
	return fmt.Sprintf("%s:tickets", keyPrefix)
}

// tradeRequestsKey returns the Redis key for the trade requests blob
func tradeRequestsKey() string {
	return fmt.Sprintf("%s:trade_requests", keyPrefix)
}

// activeTradesKey returns the Redis key for the active trades blob
func activeTradesKey() string {
	return fmt.Sprintf("%s:active_trades", keyPrefix)
}

// clansKey returns the Redis key for the clans collection blob
func clansKey() string {
	return fmt.Sprintf("%s:clans", keyPrefix)
}

// clanInvitesKey returns the Redis key for the clan invites blob
func clanInvitesKey() string {
	return fmt.Sprintf("%s:clan_invites", keyPrefix)
}
