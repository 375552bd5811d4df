package model

// AudioTrack is an admin-managed custom music track
type AudioTrack struct {
	ID     string
	Name   string
	URL    string
	Hidden bool // hidden tracks resolve to silence for everyone
}

// GlobalConfig is the shared admin-owned configuration embedded in the
// persisted database. The simulation core only reads it; admin tooling
// writes it. Sessions converge to a new copy within one tick period.
type GlobalConfig struct {
	Version          int64
	GlobalMultiplier float64
	TaxRate          float64
	EnergyCostPerGPU float64
	ActiveTrack      string
	IsMusicEnabled   bool
	CustomTracks     []AudioTrack
}

// DefaultGlobalConfig returns the bootstrap configuration written when the
// store has none yet
func DefaultGlobalConfig() GlobalConfig {
	return GlobalConfig{
		Version:          1,
		GlobalMultiplier: 1.0,
		TaxRate:          0.1,
		EnergyCostPerGPU: 0.05,
		ActiveTrack:      "main-theme",
		IsMusicEnabled:   true,
	}
}

// GetTrack returns the custom track with the given ID, or nil if absent
func (c *GlobalConfig) GetTrack(id string) *AudioTrack {
	for i := range c.CustomTracks {
		if c.CustomTracks[i].ID == id {
			return &c.CustomTracks[i]
		}
	}
	return nil
}

// Clone returns a deep copy. Nilness of CustomTracks is preserved so a
// clone stays deep-equal to its source.
func (c GlobalConfig) Clone() GlobalConfig {
	out := c
	out.CustomTracks = copySlice(c.CustomTracks)
	return out
}
