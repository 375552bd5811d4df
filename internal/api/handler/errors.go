package handler

import (
	"net/http"

	"github.com/clickonomy/clickonomy-go/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeInvalidRequest       = apierr.CodeInvalidRequest
	CodeUnauthorized         = apierr.CodeUnauthorized
	CodeSessionExpired       = apierr.CodeSessionExpired
	CodeSessionClosed        = apierr.CodeSessionClosed
	CodePlayerNotFound       = apierr.CodePlayerNotFound
	CodePlayerBanned         = apierr.CodePlayerBanned
	CodeIPBanned             = apierr.CodeIPBanned
	CodeUsernameTaken        = apierr.CodeUsernameTaken
	CodeInvalidUsername      = apierr.CodeInvalidUsername
	CodeInvalidPassword      = apierr.CodeInvalidPassword
	CodeInvalidCredentials   = apierr.CodeInvalidCredentials
	CodeInsufficientFunds    = apierr.CodeInsufficientFunds
	CodeBusinessNotFound     = apierr.CodeBusinessNotFound
	CodeBusinessNotOwned     = apierr.CodeBusinessNotOwned
	CodeBusinessOwned        = apierr.CodeBusinessOwned
	CodeInvestmentNotFound   = apierr.CodeInvestmentNotFound
	CodeInsufficientHoldings = apierr.CodeInsufficientHoldings
	CodeNoGPUs               = apierr.CodeNoGPUs
	CodePromoNotFound        = apierr.CodePromoNotFound
	CodePromoExhausted       = apierr.CodePromoExhausted
	CodePromoAlreadyRedeemed = apierr.CodePromoAlreadyRedeemed
	CodeTrackNotFound        = apierr.CodeTrackNotFound
	CodeNotAdmin             = apierr.CodeNotAdmin
	CodeInternalError        = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return apierr.NewUnauthorizedError()
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return apierr.NewInternalError()
}
