package jwt

import (
	"context"
	"net/http"
	"strings"

	"lexdraft/internal/pkg/logx"
)

// Define Context Key for storing the Payload struct, preventing key collisions with other packages.
type contextKey string

const (
	// ContextAuthPayloadKey is the key used to store the parsed jwt.Payload (session identity) in the request Context.
	ContextAuthPayloadKey contextKey = "auth_payload"

	// SessionCookieName is the cookie that page navigations carry the session token in.
	// API clients may use the Authorization header instead; the header wins when both are present.
	SessionCookieName = "lexdraft_session"
)

// IdentityExtractorMiddleware attempts to extract and validate a JWT from the request.
// It checks the Authorization header first and falls back to the session cookie, so both
// API calls and plain page navigations resolve to the same identity. It injects the
// Payload into the Context upon success. It does NOT interrupt the request (no 401
// response) on failure or missing token, treating the user as anonymous instead —
// the route guard decides what anonymous users may see.
func IdentityExtractorMiddleware(secretKey string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			tokenString := ""

			authHeader := r.Header.Get("Authorization")
			if authHeader != "" {
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) == 2 && parts[0] == "Bearer" {
					tokenString = parts[1]
				}
			}

			if tokenString == "" {
				if cookie, err := r.Cookie(SessionCookieName); err == nil {
					tokenString = cookie.Value
				}
			}

			if tokenString == "" {
				// No token at all. Treat as anonymous user and continue.
				next.ServeHTTP(w, r)
				return
			}

			payload, err := ParseToken(tokenString, secretKey)

			if err != nil {
				// Token exists but is invalid (e.g., expired, wrong signature).
				// Log the warning but treat the user as anonymous and continue.
				logx.Warn("Invalid or expired JWT provided, treating as anonymous", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ContextAuthPayloadKey, payload)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetPayloadFromContext safely extracts the authenticated Payload from the request Context.
// In contexts where IdentityExtractorMiddleware is used, a nil return means the user is anonymous.
func GetPayloadFromContext(r *http.Request) *Payload {
	payload, ok := r.Context().Value(ContextAuthPayloadKey).(*Payload)

	if !ok {
		return nil
	}

	return payload
}
