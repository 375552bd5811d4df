package audio

import (
	"errors"
	"log/slog"

	"github.com/clickonomy/clickonomy-go/internal/metrics"
	"github.com/clickonomy/clickonomy-go/internal/model"
)

// Controller drives a client's audio output. Implementations push directives
// to the client (e.g. over its event stream); SetSource may fail with
// ErrPlaybackRejected when the client refuses to start playback.
type Controller interface {
	SetSource(url string) error
	SetVolume(volume float64)
	SetShouldPlay(play bool)
}

// Reconciler keeps one client's audio state in sync with its settings and
// the global config. Callers serialize access; the reconciler holds no lock.
type Reconciler struct {
	controller Controller
	logger     *slog.Logger
	currentURL string
}

// NewReconciler creates a reconciler around the given controller
func NewReconciler(controller Controller, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		controller: controller,
		logger:     logger,
	}
}

// Apply reconciles playback against the current session, settings, and
// config state. The source is only switched when the resolved URL changes;
// volume is applied every time. Play intent requires a logged-in session,
// music enabled locally, and a resolved track.
func (r *Reconciler) Apply(loggedIn bool, settings *model.AppSettings, cfg *model.GlobalConfig) {
	url := ResolveTrack(settings, cfg)

	if url != r.currentURL {
		if err := r.controller.SetSource(url); err != nil {
			// A rejected autoplay is routine; anything else is still
			// non-fatal for the session
			if errors.Is(err, model.ErrPlaybackRejected) {
				metrics.PlaybackRejections.Inc()
				r.logger.Warn("playback rejected by client",
					slog.String("url", url),
				)
			} else {
				r.logger.Error("failed to switch audio source",
					slog.String("url", url),
					slog.String("error", err.Error()),
				)
			}
		}
		r.currentURL = url
	}

	r.controller.SetVolume(settings.Volume)

	shouldPlay := loggedIn && settings.EnableMusic && url != ""
	r.controller.SetShouldPlay(shouldPlay)
}

// Stop silences playback while keeping the loaded source, so a later login
// can resume without reloading
func (r *Reconciler) Stop() {
	r.controller.SetShouldPlay(false)
}

// CurrentURL returns the source the controller was last pointed at
func (r *Reconciler) CurrentURL() string {
	return r.currentURL
}
