package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// RespondWithJSON writes payload with the given status.
func RespondWithJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// RespondErrorWithCode writes an error body. devErr, when set, is only logged.
func RespondErrorWithCode(w http.ResponseWriter, log *zap.Logger, status int, publicMessage string, details any, devErr error) {
	RespondWithJSON(w, status, ErrorResponse{Error: publicMessage, Details: details})

	if log == nil {
		return
	}
	fields := []zap.Field{zap.Int("status", status)}
	if devErr != nil {
		fields = append(fields, zap.Error(devErr))
	}
	if status >= http.StatusInternalServerError {
		log.Error(publicMessage, fields...)
	} else {
		log.Debug(publicMessage, fields...)
	}
}

// StatusFor maps the error taxonomy onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// RespondError maps err through the taxonomy. notFoundMsg and fallback are the
// public messages for ErrNotFound and for server-side failures.
func RespondError(w http.ResponseWriter, log *zap.Logger, err error, notFoundMsg, fallback string, details any) {
	status := StatusFor(err)
	msg := fallback
	switch status {
	case http.StatusBadRequest:
		msg = PublicMessage(err, "requisição inválida")
	case http.StatusNotFound:
		msg = notFoundMsg
	}
	RespondErrorWithCode(w, log, status, msg, details, err)
}
