// Package response writes the JSON envelope shared by every API endpoint:
// {"ok": bool, "data": ..., "error": {"code": ..., "message": ...}}.
package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"mindpulse/internal/service"
)

type Envelope struct {
	OK    bool       `json:"ok"`
	Data  any        `json:"data,omitempty"`
	Error *ErrorBody `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Message is the data payload of endpoints that only confirm an action
type Message struct {
	Message string `json:"message"`
}

// JSON writes data inside a successful envelope
func JSON(w http.ResponseWriter, status int, data any) {
	write(w, status, Envelope{OK: true, Data: data})
}

// Fail writes an error envelope with an explicit status and code
func Fail(w http.ResponseWriter, status int, code service.Kind, message string) {
	write(w, status, Envelope{Error: &ErrorBody{Code: string(code), Message: message}})
}

// Error maps err to its status and writes it. Errors that are not
// *service.Error are logged and reported without detail.
func Error(w http.ResponseWriter, log *slog.Logger, err error) {
	var se *service.Error
	if !errors.As(err, &se) {
		log.Error("request_failed", slog.Any("err", err))
		Fail(w, http.StatusInternalServerError, service.KindInternal, "internal server error")
		return
	}
	Fail(w, StatusOf(se.Kind), se.Kind, se.Message)
}

// StatusOf returns the HTTP status of an error kind
func StatusOf(kind service.Kind) int {
	switch kind {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindUnauthorized:
		return http.StatusUnauthorized
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func write(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
