package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"lms-platform/internal/domain"
)

type successEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

type errorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func respondJSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(successEnvelope{Success: true, Data: data})
}

func respondMessage(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(successEnvelope{Success: true, Message: msg})
}

func respondError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorEnvelope{Success: false, Error: msg})
}

// respondDomainError maps domain sentinels onto HTTP statuses. Anything not
// recognized is a 500 with a generic message so internals never leak.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrSignatureMismatch):
		respondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrCourseNotFound),
		errors.Is(err, domain.ErrPurchaseNotFound),
		errors.Is(err, domain.ErrLectureNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrInvalidStateTransition),
		errors.Is(err, domain.ErrRefundWindowExpired),
		errors.Is(err, domain.ErrLockNotAcquired):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrGatewayTimeout):
		respondError(w, http.StatusGatewayTimeout, err.Error())
	case errors.Is(err, domain.ErrGatewayUnavailable),
		errors.Is(err, domain.ErrReconciliationRequired):
		respondError(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, domain.ErrStoreUnavailable):
		respondError(w, http.StatusServiceUnavailable, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
