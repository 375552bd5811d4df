package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/clickonomy/clickonomy-go/internal/model"
	"github.com/clickonomy/clickonomy-go/internal/services/admin"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest        = "INVALID_REQUEST"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeSessionExpired        = "SESSION_EXPIRED"
	CodeSessionClosed         = "SESSION_CLOSED"
	CodePlayerNotFound        = "PLAYER_NOT_FOUND"
	CodePlayerBanned          = "PLAYER_BANNED"
	CodeIPBanned              = "IP_BANNED"
	CodeUsernameTaken         = "USERNAME_TAKEN"
	CodeInvalidUsername       = "INVALID_USERNAME"
	CodeInvalidPassword       = "INVALID_PASSWORD"
	CodeInvalidCredentials    = "INVALID_CREDENTIALS"
	CodeInsufficientFunds     = "INSUFFICIENT_FUNDS"
	CodeBusinessNotFound      = "BUSINESS_NOT_FOUND"
	CodeBusinessNotOwned      = "BUSINESS_NOT_OWNED"
	CodeBusinessOwned         = "BUSINESS_OWNED"
	CodeInvestmentNotFound    = "INVESTMENT_NOT_FOUND"
	CodeInsufficientHoldings  = "INSUFFICIENT_HOLDINGS"
	CodeNoGPUs                = "NO_GPUS"
	CodePromoNotFound         = "PROMO_NOT_FOUND"
	CodePromoExhausted        = "PROMO_EXHAUSTED"
	CodePromoAlreadyRedeemed  = "PROMO_ALREADY_REDEEMED"
	CodePromoExists           = "PROMO_EXISTS"
	CodeTrackNotFound         = "TRACK_NOT_FOUND"
	CodeInvalidBanExpiry      = "INVALID_BAN_EXPIRY"
	CodeInvalidIP             = "INVALID_IP"
	CodeNotAdmin              = "NOT_ADMIN"
	CodeInternalError         = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrPlayerBanned):
		return &httpError{http.StatusForbidden, APIError{CodePlayerBanned, "Player is banned"}}
	case errors.Is(err, model.ErrIPBanned):
		return &httpError{http.StatusForbidden, APIError{CodeIPBanned, "This address is banned"}}
	case errors.Is(err, model.ErrUsernameTaken):
		return &httpError{http.StatusConflict, APIError{CodeUsernameTaken, "Username already exists"}}
	case errors.Is(err, model.ErrInvalidUsername):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidUsername, "Username must be 3-24 lowercase letters, digits or underscores"}}
	case errors.Is(err, model.ErrInvalidPassword):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidPassword, "Password is too short"}}
	case errors.Is(err, model.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid username or password"}}
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}
	case errors.Is(err, model.ErrSessionExpired):
		return &httpError{http.StatusUnauthorized, APIError{CodeSessionExpired, "Session has expired"}}
	case errors.Is(err, model.ErrSessionClosed):
		return &httpError{http.StatusConflict, APIError{CodeSessionClosed, "Session is no longer running"}}
	case errors.Is(err, model.ErrInsufficientFunds):
		return &httpError{http.StatusConflict, APIError{CodeInsufficientFunds, "Not enough funds"}}
	case errors.Is(err, model.ErrBusinessNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeBusinessNotFound, "Business not found"}}
	case errors.Is(err, model.ErrBusinessNotOwned):
		return &httpError{http.StatusConflict, APIError{CodeBusinessNotOwned, "Business is not owned"}}
	case errors.Is(err, model.ErrBusinessOwned):
		return &httpError{http.StatusConflict, APIError{CodeBusinessOwned, "Business is already owned"}}
	case errors.Is(err, model.ErrInvestmentNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeInvestmentNotFound, "Investment not found"}}
	case errors.Is(err, model.ErrInsufficientHoldings):
		return &httpError{http.StatusConflict, APIError{CodeInsufficientHoldings, "Not enough holdings"}}
	case errors.Is(err, model.ErrNoGPUs):
		return &httpError{http.StatusConflict, APIError{CodeNoGPUs, "No GPUs installed"}}
	case errors.Is(err, model.ErrPromoNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePromoNotFound, "Promo code not found"}}
	case errors.Is(err, model.ErrPromoExhausted):
		return &httpError{http.StatusConflict, APIError{CodePromoExhausted, "Promo code has no uses left"}}
	case errors.Is(err, model.ErrPromoAlreadyRedeemed):
		return &httpError{http.StatusConflict, APIError{CodePromoAlreadyRedeemed, "Promo code already redeemed"}}
	case errors.Is(err, model.ErrPromoExists):
		return &httpError{http.StatusConflict, APIError{CodePromoExists, "Promo code already exists"}}
	case errors.Is(err, model.ErrTrackNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeTrackNotFound, "Track not found"}}
	case errors.Is(err, model.ErrNotAdmin):
		return &httpError{http.StatusForbidden, APIError{CodeNotAdmin, "Admin access required"}}

	// Map admin validation errors
	case errors.Is(err, admin.ErrInvalidBanExpiry):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidBanExpiry, "Ban expiry must be -1 or a future timestamp"}}
	case errors.Is(err, admin.ErrInvalidIP):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidIP, "Invalid IP address"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
