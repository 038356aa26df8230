package requestctx

import "context"

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	clientIPKey  ctxKey = "client_ip"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	if value, ok := ctx.Value(requestIDKey).(string); ok {
		return value
	}
	return ""
}

// WithClientIP stores the caller address resolved by the transport layer so
// audit records written deep in a service can reference it.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

func GetClientIP(ctx context.Context) string {
	if value, ok := ctx.Value(clientIPKey).(string); ok {
		return value
	}
	return ""
}
