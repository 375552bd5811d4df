package model

import "time"

// Session is a persisted login token for a player
type Session struct {
	Token     string
	PlayerID  PlayerID
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry. Sessions without
// an expiry never expire here; the store's fallback TTL bounds their life.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// Credentials holds a player's login secret
// Stored separately from the player aggregate so the hash never travels
// with gameplay snapshots
type Credentials struct {
	PlayerID     PlayerID
	Username     string // login username (immutable)
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
}
