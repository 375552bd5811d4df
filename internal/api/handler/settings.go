package handler

import (
	"encoding/json"
	"net/http"

	"github.com/clickonomy/clickonomy-go/internal/api/middleware"
	"github.com/clickonomy/clickonomy-go/internal/api/request"
	"github.com/clickonomy/clickonomy-go/internal/api/response"
	"github.com/clickonomy/clickonomy-go/internal/scheduler"
	"github.com/clickonomy/clickonomy-go/internal/services/settings"
)

// SettingsHandler handles player preference endpoints
type SettingsHandler struct {
	settingsService *settings.Service
	manager         *scheduler.Manager
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *settings.Service, manager *scheduler.Manager) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		manager:         manager,
	}
}

// Get handles GET /api/v1/settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	playerSettings, err := h.settingsService.Get(r.Context(), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SettingsFromModel(*playerSettings))
}

// Update handles PUT /api/v1/settings. Omitted fields keep their stored
// values; the live runtime picks the change up immediately so audio
// reconciles without waiting for a reconnect.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	current, err := h.settingsService.Get(r.Context(), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	if req.Theme != nil {
		current.Theme = *req.Theme
	}
	if req.EnableMusic != nil {
		current.EnableMusic = *req.EnableMusic
	}
	if req.Volume != nil {
		current.Volume = *req.Volume
	}
	if req.SelectedTrack != nil {
		current.SelectedTrack = *req.SelectedTrack
	}
	if req.Language != nil {
		current.Language = *req.Language
	}

	updated, err := h.settingsService.Update(r.Context(), player.ID, current)
	if err != nil {
		WriteError(w, err)
		return
	}

	if rt, ok := h.manager.Get(player.ID); ok {
		rt.SetSettings(*updated)
	}

	response.JSON(w, http.StatusOK, response.SettingsFromModel(*updated))
}
