// Package audio resolves which music track a client should play and
// reconciles client playback state against settings and global config.
package audio

import (
	"github.com/clickonomy/clickonomy-go/internal/model"
)

// builtinTracks is the fixed first-tier track table. Custom tracks from the
// global config form the second tier.
var builtinTracks = []model.AudioTrack{
	{ID: "main-theme", Name: "Main Theme", URL: "/assets/audio/main-theme.mp3"},
	{ID: "night-drive", Name: "Night Drive", URL: "/assets/audio/night-drive.mp3"},
	{ID: "arcade-loop", Name: "Arcade Loop", URL: "/assets/audio/arcade-loop.mp3"},
}

// BuiltinTracks returns the built-in track table
func BuiltinTracks() []model.AudioTrack {
	tracks := make([]model.AudioTrack, len(builtinTracks))
	copy(tracks, builtinTracks)
	return tracks
}

// ResolveTrack derives the URL the client should have loaded, or empty string
// for no playback. The global sentinel follows the admin's master switch;
// an explicit local selection overrides it but still cannot reach hidden or
// missing tracks.
func ResolveTrack(settings *model.AppSettings, cfg *model.GlobalConfig) string {
	selected := settings.SelectedTrack
	if selected == "" || selected == model.TrackGlobal {
		if !cfg.IsMusicEnabled {
			return ""
		}
		return lookupTrack(cfg.ActiveTrack, cfg)
	}
	return lookupTrack(selected, cfg)
}

// lookupTrack resolves an id through the two-tier table: built-ins first,
// then non-hidden custom tracks
func lookupTrack(id string, cfg *model.GlobalConfig) string {
	for _, t := range builtinTracks {
		if t.ID == id {
			return t.URL
		}
	}
	for _, t := range cfg.CustomTracks {
		if t.ID == id && !t.Hidden {
			return t.URL
		}
	}
	return ""
}
