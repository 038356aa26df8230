package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"hrkpi/internal/transport/http/api"
)

type RateLimitKeyFunc func(r *http.Request) string

type rateBucket struct {
	count int
	reset time.Time
}

type rateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	keyFn   RateLimitKeyFunc
	clients map[string]*rateBucket
}

// RateLimit applies a fixed-window limit keyed by caller, or by client IP for
// anonymous requests.
func RateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	rl := newRateLimiter(limit, window, actorOrIPKey)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.enforce(w, r) {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SensitiveRateLimit applies tighter limits to credential endpoints and to
// assessment writes. Other requests pass untouched.
func SensitiveRateLimit(baseLimit int, window time.Duration) func(http.Handler) http.Handler {
	authLimit := max(baseLimit/4, 1)
	writeLimit := max(baseLimit/2, 1)
	authByIP := newRateLimiter(authLimit, window, clientIPKey)
	authByEmail := newRateLimiter(authLimit, window, emailOrIPKey)
	writesByActor := newRateLimiter(writeLimit, window, actorOrIPKey)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch sensitiveRateScope(r) {
			case scopeAuth:
				if !authByIP.enforce(w, r) || !authByEmail.enforce(w, r) {
					return
				}
			case scopeWrite:
				if !writesByActor.enforce(w, r) {
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func emailOrIPKey(r *http.Request) string {
	email := extractJSONField(r, "email")
	if email == "" {
		return clientIPKey(r)
	}
	return "email:" + strings.ToLower(email)
}

func actorOrIPKey(r *http.Request) string {
	if user, ok := GetUser(r.Context()); ok && user.UserID != "" {
		return "user:" + user.UserID
	}
	return clientIPKey(r)
}

func clientIPKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	return strings.TrimSpace(r.RemoteAddr)
}

func newRateLimiter(limit int, window time.Duration, keyFn RateLimitKeyFunc) *rateLimiter {
	return &rateLimiter{
		limit:   limit,
		window:  window,
		keyFn:   keyFn,
		clients: map[string]*rateBucket{},
	}
}

func (rl *rateLimiter) enforce(w http.ResponseWriter, r *http.Request) bool {
	if rl.limit <= 0 {
		return true
	}

	key := rl.keyFn(r)
	if key == "" {
		key = clientIPKey(r)
	}
	now := time.Now()

	rl.mu.Lock()
	bucket, ok := rl.clients[key]
	if !ok || now.After(bucket.reset) {
		rl.sweep(now)
		bucket = &rateBucket{reset: now.Add(rl.window)}
		rl.clients[key] = bucket
	}
	bucket.count++
	remaining := rl.limit - bucket.count
	resetIn := durationSeconds(bucket.reset.Sub(now))
	overLimit := bucket.count > rl.limit
	rl.mu.Unlock()

	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(remaining, 0)))
	w.Header().Set("X-RateLimit-Reset", strconv.Itoa(resetIn))

	if overLimit {
		w.Header().Set("Retry-After", strconv.Itoa(max(resetIn, 1)))
		slog.Warn("rate limit exceeded",
			"key", key,
			"path", r.URL.Path,
			"method", r.Method,
			"limit", rl.limit,
		)
		api.Fail(w, http.StatusTooManyRequests, "Too many requests, please try again later", GetRequestID(r.Context()))
		return false
	}
	return true
}

// sweep drops expired buckets so idle clients do not accumulate. Caller holds mu.
func (rl *rateLimiter) sweep(now time.Time) {
	for key, bucket := range rl.clients {
		if now.After(bucket.reset) {
			delete(rl.clients, key)
		}
	}
}

func durationSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return max(int(d.Seconds()), 1)
}

func extractJSONField(r *http.Request, field string) string {
	if r.Body == nil {
		return ""
	}
	if !strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "application/json") {
		return ""
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, 64*1024))
	if err != nil {
		return ""
	}
	r.Body = io.NopCloser(bytes.NewReader(raw))
	payload := map[string]any{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	value, _ := payload[field].(string)
	return strings.TrimSpace(value)
}

type rateScope int

const (
	scopeNone rateScope = iota
	scopeAuth
	scopeWrite
)

func sensitiveRateScope(r *http.Request) rateScope {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		return scopeNone
	}

	path := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/v1"), "/")
	switch {
	case path == "/auth/login", path == "/auth/register":
		return scopeAuth
	case path == "/assessments", strings.HasPrefix(path, "/assessments/"):
		return scopeWrite
	case path == "/jobs/reminders/run":
		return scopeWrite
	}
	return scopeNone
}
