// Package shared centralizes JSON response writing and domain error
// translation so every handler maps codes to HTTP statuses the same way.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "coverledger/pkg/domain-errors"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a coded domain error into an HTTP response.
// Errors without a code read as internal.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	message := "internal error"
	var de *dErrors.Error
	if errors.As(err, &de) {
		message = de.Message
	}

	WriteJSON(w, statusFor(code), errorBody{Error: errorDetail{
		Code:    string(code),
		Message: message,
	}})
}

func statusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeNotAuthorized:
		return http.StatusForbidden
	case dErrors.CodePolicyNotFound:
		return http.StatusNotFound
	case dErrors.CodePolicyExists, dErrors.CodeClaimAlreadyProcessed, dErrors.CodePolicyExpired:
		return http.StatusConflict
	case dErrors.CodeInvalidCoverage, dErrors.CodeInvalidPremium, dErrors.CodeInvalidDuration,
		dErrors.CodeInvalidClaim, dErrors.CodeBadRequest:
		return http.StatusBadRequest
	case dErrors.CodeInsufficientPremium, dErrors.CodeTransferFailed:
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}
