package model

// TrackGlobal is the SelectedTrack sentinel meaning
// "follow the admin broadcast"
const TrackGlobal = "global"

// AppSettings is a player's local client preference. Loads are merged over
// defaults so copies persisted by older versions pick up new fields.
type AppSettings struct {
	Theme         string
	EnableMusic   bool
	Volume        float64 // [0, 1]
	SelectedTrack string  // TrackGlobal or an explicit track key
	Language      string
}

// DefaultAppSettings returns the first-run settings
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Theme:         "dark",
		EnableMusic:   true,
		Volume:        0.5,
		SelectedTrack: TrackGlobal,
		Language:      "en",
	}
}

// Normalize clamps fields to their valid ranges and fills blanks with
// defaults
func (s *AppSettings) Normalize() {
	if s.Volume < 0 {
		s.Volume = 0
	}
	if s.Volume > 1 {
		s.Volume = 1
	}
	if s.SelectedTrack == "" {
		s.SelectedTrack = TrackGlobal
	}
	if s.Theme == "" {
		s.Theme = "dark"
	}
	if s.Language == "" {
		s.Language = "en"
	}
}
