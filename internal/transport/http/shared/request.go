package shared

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"hrkpi/internal/domain/apperror"
)

// DecodeJSON reads a JSON body into dst. Unknown fields are ignored.
func DecodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return apperror.FieldInvalid(apperror.FieldMessage, "Request body too large")
		case errors.Is(err, io.EOF):
			return apperror.FieldInvalid(apperror.FieldMessage, "Request body is required")
		default:
			return apperror.FieldInvalid(apperror.FieldMessage, "Invalid JSON payload")
		}
	}
	return nil
}

// ParseID reads a UUID path parameter. A malformed id cannot name an existing
// record, so it is reported as not found with notFoundMessage.
func ParseID(r *http.Request, param, notFoundCode, notFoundMessage string) (string, error) {
	raw := strings.TrimSpace(chi.URLParam(r, param))
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", apperror.NotFound(notFoundCode, notFoundMessage)
	}
	return id.String(), nil
}

// ValidUUID reports whether value parses as a UUID.
func ValidUUID(value string) bool {
	_, err := uuid.Parse(strings.TrimSpace(value))
	return err == nil
}
