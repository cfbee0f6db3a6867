package http

import (
	"encoding/json"
	"net/http"

	"github.com/viralforge/affiliate-engine/internal/contracts"
	"github.com/viralforge/affiliate-engine/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, contracts.SuccessResponse{Status: "success", Data: data})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, contracts.ErrorResponse{Status: "error", Code: code, Message: message})
}

func mapDomainError(err error) (int, string) {
	switch err {
	case nil:
		return http.StatusOK, ""
	case domain.ErrUnauthorized:
		return http.StatusUnauthorized, "unauthorized"
	case domain.ErrForbidden:
		return http.StatusForbidden, "forbidden"
	case domain.ErrNotFound:
		return http.StatusNotFound, "not_found"
	case domain.ErrInvalidInput:
		return http.StatusBadRequest, "invalid_input"
	case domain.ErrConflict:
		return http.StatusConflict, "conflict"
	case domain.ErrCreatorNotEligible:
		return http.StatusForbidden, "creator_not_eligible"
	case domain.ErrAliasTaken:
		return http.StatusConflict, "alias_taken"
	case domain.ErrCodeGenerationExhausted:
		return http.StatusServiceUnavailable, "code_generation_exhausted"
	case domain.ErrLinkUnavailable:
		return http.StatusNotFound, "link_unavailable"
	case domain.ErrClickAlreadyConverted:
		return http.StatusConflict, "click_already_converted"
	case domain.ErrInvalidTransition:
		return http.StatusConflict, "invalid_transition"
	case domain.ErrTransactionImmutable:
		return http.StatusConflict, "transaction_immutable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
