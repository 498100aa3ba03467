package middlewares

// contextKey is an unexported type for context keys in this package.
type contextKey string

const (
	HeaderSessionToken   = "X-Session-Token"
	HeaderIdempotencyKey = "Idempotency-Key"

	ContextKeyRequestID      contextKey = "request_id"
	ContextKeyIdempotencyKey contextKey = "idempotency_key"
	ContextKeySession        contextKey = "session"
	ContextKeyUser           contextKey = "user"
)
