package handler

import (
	"net/http"

	"github.com/clickonomy/clickonomy-go/internal/api/middleware"
	"github.com/clickonomy/clickonomy-go/internal/scheduler"
	"github.com/clickonomy/clickonomy-go/internal/services/settings"
	"github.com/clickonomy/clickonomy-go/internal/sse"
)

// StreamHandler handles the SSE event stream endpoint
type StreamHandler struct {
	manager         *scheduler.Manager
	settingsService *settings.Service
	gateway         *sse.Gateway
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(
	manager *scheduler.Manager,
	settingsService *settings.Service,
	gateway *sse.Gateway,
) *StreamHandler {
	return &StreamHandler{
		manager:         manager,
		settingsService: settingsService,
		gateway:         gateway,
	}
}

// Stream handles GET /api/v1/stream. The stream opens with the current
// snapshot, config, ban state and audio directive, then follows the tick
// loop's broadcasts.
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	rt, err := ensureRuntime(r.Context(), h.manager, h.settingsService, player)
	if err != nil {
		WriteError(w, err)
		return
	}

	snap := rt.Snapshot()
	initial := [][]byte{
		h.gateway.SnapshotMessage(&snap.Player, snap.Tick),
		h.gateway.ConfigMessage(&snap.Config),
	}
	if snap.Frozen {
		initial = append(initial, h.gateway.BannedMessage(snap.Player.BanReason, snap.Player.BannedUntil))
	}
	if replay := h.gateway.AudioReplay(player.ID); replay != nil {
		initial = append(initial, replay)
	}

	hub := h.gateway.Hubs().GetOrCreateHub(player.ID)
	sse.ServeSSE(w, r, hub, initial...)
}
