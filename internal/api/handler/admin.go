package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/clickonomy/clickonomy-go/internal/api/request"
	"github.com/clickonomy/clickonomy-go/internal/api/response"
	"github.com/clickonomy/clickonomy-go/internal/model"
	"github.com/clickonomy/clickonomy-go/internal/services/admin"
	"github.com/clickonomy/clickonomy-go/internal/services/promo"
)

// AdminHandler handles moderation and config endpoints. The router guards
// every route here with RequireAdmin.
type AdminHandler struct {
	adminService *admin.Service
	promoService *promo.Service
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService *admin.Service, promoService *promo.Service) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		promoService: promoService,
	}
}

// ListPlayers handles GET /api/v1/admin/players
func (h *AdminHandler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.adminService.ListPlayers(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	out := make([]response.Player, len(players))
	for i, p := range players {
		out[i] = response.PlayerFromModel(p)
	}
	response.JSON(w, http.StatusOK, out)
}

// BanPlayer handles POST /api/v1/admin/players/{id}/ban. The ban lands in
// the store; the player's running session observes and freezes within one
// tick.
func (h *AdminHandler) BanPlayer(w http.ResponseWriter, r *http.Request) {
	id := model.PlayerID(mux.Vars(r)["id"])

	var req request.BanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.BannedUntil == 0 {
		WriteError(w, NewInvalidRequestError("banned_until is required"))
		return
	}

	if err := h.adminService.BanPlayer(r.Context(), id, req.BannedUntil, req.Reason); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// UnbanPlayer handles POST /api/v1/admin/players/{id}/unban
func (h *AdminHandler) UnbanPlayer(w http.ResponseWriter, r *http.Request) {
	id := model.PlayerID(mux.Vars(r)["id"])

	if err := h.adminService.UnbanPlayer(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// GetConfig handles GET /api/v1/admin/config
func (h *AdminHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.adminService.GetConfig(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ConfigFromModel(cfg))
}

// UpdateEconomy handles PATCH /api/v1/admin/config/economy
func (h *AdminHandler) UpdateEconomy(w http.ResponseWriter, r *http.Request) {
	var req request.EconomyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	cfg, err := h.adminService.UpdateEconomy(r.Context(), admin.EconomyUpdate{
		GlobalMultiplier: req.GlobalMultiplier,
		TaxRate:          req.TaxRate,
		EnergyCostPerGPU: req.EnergyCostPerGPU,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ConfigFromModel(cfg))
}

// SetBroadcast handles PUT /api/v1/admin/broadcast
func (h *AdminHandler) SetBroadcast(w http.ResponseWriter, r *http.Request) {
	var req request.BroadcastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.ActiveTrack == "" {
		WriteError(w, NewInvalidRequestError("active_track is required"))
		return
	}

	cfg, err := h.adminService.SetBroadcast(r.Context(), req.ActiveTrack, req.IsMusicEnabled)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ConfigFromModel(cfg))
}

// AddTrack handles POST /api/v1/admin/tracks
func (h *AdminHandler) AddTrack(w http.ResponseWriter, r *http.Request) {
	var req request.AddTrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}
	if req.URL == "" {
		WriteError(w, NewInvalidRequestError("url is required"))
		return
	}

	track, err := h.adminService.AddTrack(r.Context(), req.Name, req.URL)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AudioTrackFromModel(*track))
}

// SetTrackHidden handles PATCH /api/v1/admin/tracks/{id}
func (h *AdminHandler) SetTrackHidden(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req request.TrackHiddenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if err := h.adminService.SetTrackHidden(r.Context(), id, req.Hidden); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// BanIP handles POST /api/v1/admin/ips/ban
func (h *AdminHandler) BanIP(w http.ResponseWriter, r *http.Request) {
	var req request.BanIPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if err := h.adminService.BanIP(r.Context(), req.IP); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// CreatePromo handles POST /api/v1/admin/promos
func (h *AdminHandler) CreatePromo(w http.ResponseWriter, r *http.Request) {
	var req request.CreatePromoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Code == "" {
		WriteError(w, NewInvalidRequestError("code is required"))
		return
	}
	if req.Reward <= 0 {
		WriteError(w, NewInvalidRequestError("reward must be positive"))
		return
	}

	created, err := h.promoService.Create(r.Context(), req.Code, req.Reward, req.MaxUses)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.PromoCodeFromModel(*created))
}

// ListPromos handles GET /api/v1/admin/promos
func (h *AdminHandler) ListPromos(w http.ResponseWriter, r *http.Request) {
	codes, err := h.promoService.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PromoCodesFromModel(codes))
}
