package handler

import (
	"context"
	"encoding/json"
	"net"
	"net/http"

	"github.com/clickonomy/clickonomy-go/internal/api/middleware"
	"github.com/clickonomy/clickonomy-go/internal/api/request"
	"github.com/clickonomy/clickonomy-go/internal/api/response"
	"github.com/clickonomy/clickonomy-go/internal/model"
	"github.com/clickonomy/clickonomy-go/internal/scheduler"
	"github.com/clickonomy/clickonomy-go/internal/services/gate"
	"github.com/clickonomy/clickonomy-go/internal/services/settings"
	"github.com/clickonomy/clickonomy-go/internal/sse"
)

// AccountHandler handles registration, login and session endpoints
type AccountHandler struct {
	gateService     *gate.Service
	settingsService *settings.Service
	manager         *scheduler.Manager
	gateway         *sse.Gateway
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(
	gateService *gate.Service,
	settingsService *settings.Service,
	manager *scheduler.Manager,
	gateway *sse.Gateway,
) *AccountHandler {
	return &AccountHandler{
		gateService:     gateService,
		settingsService: settingsService,
		manager:         manager,
		gateway:         gateway,
	}
}

// Register handles POST /api/v1/players/register
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" {
		WriteError(w, NewInvalidRequestError("username is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}

	result, err := h.gateService.Register(r.Context(), req.Username, req.Password, clientIP(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.startSession(r.Context(), result.Player); err != nil {
		WriteError(w, err)
		return
	}
	setSessionCookie(w, result.Token)

	response.JSON(w, http.StatusCreated, response.AuthFromResult(result))
}

// Login handles POST /api/v1/players/login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" {
		WriteError(w, NewInvalidRequestError("username is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}

	result, err := h.gateService.Login(r.Context(), req.Username, req.Password, clientIP(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	// A banned result carries no token and starts no simulation; the client
	// renders the ban surface from the returned state
	if result.State == gate.StateActive {
		if err := h.startSession(r.Context(), result.Player); err != nil {
			WriteError(w, err)
			return
		}
		setSessionCookie(w, result.Token)
	}

	response.JSON(w, http.StatusOK, response.AuthFromResult(result))
}

// Logout handles POST /api/v1/players/logout
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	token := middleware.GetToken(r.Context())

	h.manager.StopSession(player.ID)
	if err := h.gateService.Logout(r.Context(), token); err != nil {
		WriteError(w, err)
		return
	}
	h.gateway.DropPlayer(player.ID)
	clearSessionCookie(w)

	response.NoContent(w)
}

// GetMe handles GET /api/v1/players/me. It runs the full session restore, so
// a ban applied while away surfaces here as a banned state and discards the
// token.
func (h *AccountHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	token := middleware.GetToken(r.Context())

	result, err := h.gateService.RestoreSession(r.Context(), token)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthFromResult(result))
}

// startSession loads the player's settings and launches their tick loop
func (h *AccountHandler) startSession(ctx context.Context, player *model.Player) error {
	playerSettings, err := h.settingsService.Get(ctx, player.ID)
	if err != nil {
		return err
	}
	_, err = h.manager.StartSession(ctx, player, *playerSettings)
	return err
}

// clientIP extracts the caller's address for the gate's IP ban check
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "session",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     "session",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
