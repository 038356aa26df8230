package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"hrkpi/internal/transport/http/api"
)

// Recoverer turns a handler panic into a 500 envelope. http.ErrAbortHandler
// is re-raised so the server can drop the connection.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			slog.Error("panic recovered",
				"requestId", GetRequestID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"panic", rec,
				"stack", string(debug.Stack()),
			)
			api.Fail(w, http.StatusInternalServerError, "internal server error", GetRequestID(r.Context()))
		}()
		next.ServeHTTP(w, r)
	})
}
