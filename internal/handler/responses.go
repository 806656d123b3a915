package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/osse101/ItemVault_Go/internal/domain"
	"github.com/osse101/ItemVault_Go/internal/logger"
)

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response. Code is the client-visible
// domain error code, omitted for transport-level failures.
type ErrorResponse struct {
	Error string           `json:"error"`
	Kind  string           `json:"kind,omitempty"`
	Code  domain.ErrorCode `json:"code,omitempty"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		// headers are already sent
		slog.Error("Failed to encode JSON response", "error", err)
		return
	}

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError logs a failed command and answers with the status its
// error kind maps to.
func respondServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, body := mapServiceError(err)

	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(op+" failed", "error", err, "kind", body.Kind, "code", body.Code)
	} else {
		log.Info(op+" rejected", "error", err, "kind", body.Kind, "code", body.Code)
	}

	respondJSON(w, status, body)
}

// mapServiceError converts a classified domain error into an HTTP status and
// a client-safe body. Unclassified errors never leak their text.
func mapServiceError(err error) (int, ErrorResponse) {
	if err == nil {
		return http.StatusInternalServerError, ErrorResponse{Error: ErrMsgUnknownError}
	}

	kind := domain.KindOf(err)
	body := ErrorResponse{
		Error: domain.MessageOf(err),
		Kind:  kind.String(),
		Code:  domain.CodeOf(err),
	}

	switch kind {
	case domain.KindValidation:
		if errors.Is(err, domain.ErrSessionNotFound) {
			return http.StatusNotFound, body
		}
		if errors.Is(err, domain.ErrAccountInUse) {
			return http.StatusConflict, body
		}
		return http.StatusBadRequest, body
	case domain.KindCapacity:
		return http.StatusConflict, body
	case domain.KindEconomy:
		return http.StatusUnprocessableEntity, body
	case domain.KindPersistence:
		return http.StatusServiceUnavailable, body
	case domain.KindInvariant:
		if errors.Is(err, domain.ErrSessionPoisoned) {
			return http.StatusConflict, body
		}
		return http.StatusInternalServerError, body
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: ErrMsgGenericServerError}
	}
}
