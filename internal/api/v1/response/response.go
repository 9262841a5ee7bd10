// Package response is the single formatter every success and failure passes
// through, so each body carries the stable {success, message} shape.
package response

import (
	"encoding/json"
	"net/http"

	"lms/internal/apperr"

	"github.com/rs/zerolog"
)

// Body is the common response envelope. Resource payloads ride alongside the
// fixed fields under their own key (course, courses, lectures, ...).
type Body struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    map[string]any `json:"-"`
}

// MarshalJSON flattens Data next to success/message.
func (b Body) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(b.Data)+2)
	for k, v := range b.Data {
		out[k] = v
	}
	out["success"] = b.Success
	out["message"] = b.Message
	return json.Marshal(out)
}

// OK writes a success envelope. resources may be nil for message-only bodies.
func OK(w http.ResponseWriter, logger zerolog.Logger, status int, message string, resources map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := Body{Success: true, Message: message, Data: resources}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error().Err(err).Msg("Failed to encode success response")
	}
}

// Err converts err through the apperr taxonomy and writes the failure
// envelope. The full cause is logged; only the client-safe message leaves.
func Err(w http.ResponseWriter, logger zerolog.Logger, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Msg("Request failed")
	} else {
		logger.Debug().Err(err).Msg("Request rejected")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := Body{Success: false, Message: apperr.ClientMessage(err)}
	if encodeErr := json.NewEncoder(w).Encode(body); encodeErr != nil {
		logger.Error().Err(encodeErr).Msg("Failed to encode error response")
	}
}

// NotFound is the catch-all for unmatched routes.
func NotFound(w http.ResponseWriter, logger zerolog.Logger) {
	Err(w, logger, apperr.New(apperr.NotFound, "route not found"))
}
