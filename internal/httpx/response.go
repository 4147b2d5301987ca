package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"restaurant-pos/internal/apperr"
	"restaurant-pos/internal/logger"
)

// WriteJSON writes v with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error     string `json:"error"`
	Field     string `json:"field,omitempty"`
	Timestamp string `json:"timestamp"`
	RequestID string `json:"request_id"`
}

// StatusFor maps a domain error to an HTTP status code.
func StatusFor(err error) int {
	var (
		validation apperr.ValidationError
		notFound   apperr.NotFoundError
		inUse      apperr.InUseError
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &inUse):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrInvalidCredentials), errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// WriteError converts err into the JSON error body. Internal errors are logged
// and replaced by a generic message.
func WriteError(w http.ResponseWriter, r *http.Request, log *logger.Logger, action string, err error) {
	requestID := RequestID(r.Context())
	status := StatusFor(err)

	body := errorResponse{
		Error:     err.Error(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: requestID,
	}

	var validation apperr.ValidationError
	if errors.As(err, &validation) {
		body.Field = validation.Field
		body.Error = validation.Message
	}

	if status == http.StatusInternalServerError {
		log.Error(action, "Request failed", requestID, err, map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
		})
		body.Error = "Internal server error"
	} else {
		log.Debug(action, err.Error(), requestID, map[string]interface{}{"status_code": status})
	}

	WriteJSON(w, status, body)
}
