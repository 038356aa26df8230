package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"hrkpi/internal/domain/apperror"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

type Envelope struct {
	Status    string              `json:"status"`
	Code      int                 `json:"code"`
	Data      any                 `json:"data,omitempty"`
	Errors    map[string][]string `json:"errors,omitempty"`
	RequestID string              `json:"requestId,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("write json failed", "err", err)
	}
}

func Success(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusOK, Envelope{Status: StatusSuccess, Code: http.StatusOK, Data: data, RequestID: requestID})
}

func Created(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusCreated, Envelope{Status: StatusSuccess, Code: http.StatusCreated, Data: data, RequestID: requestID})
}

// Fail writes an error envelope carrying a single non-field message.
func Fail(w http.ResponseWriter, status int, message, requestID string) {
	FailFields(w, status, map[string][]string{apperror.FieldMessage: {message}}, requestID)
}

func FailFields(w http.ResponseWriter, status int, fields map[string][]string, requestID string) {
	WriteJSON(w, status, Envelope{Status: StatusError, Code: status, Errors: fields, RequestID: requestID})
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation:
		return http.StatusUnprocessableEntity
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindConflict:
		return http.StatusConflict
	case apperror.KindUnauthorized:
		return http.StatusUnauthorized
	case apperror.KindForbidden:
		return http.StatusForbidden
	case apperror.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err as an error envelope. Causes of internal and unavailable
// errors are logged and never sent to the client.
func Error(w http.ResponseWriter, err error, requestID string) {
	appErr := apperror.From(err)
	status := StatusFor(appErr.Kind)
	switch appErr.Kind {
	case apperror.KindInternal:
		slog.Error("request failed", "code", appErr.Code, "requestId", requestID, "err", appErr.Err)
	case apperror.KindUnavailable:
		slog.Warn("dependency unavailable", "code", appErr.Code, "requestId", requestID, "err", appErr.Err)
	}
	FailFields(w, status, appErr.FieldErrors(), requestID)
}
