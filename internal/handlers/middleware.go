package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"eduwordle/internal/apperr"
	"eduwordle/internal/auth"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const claimsContextKey ContextKey = "claims"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	tokens      *auth.TokenManager
	development bool
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(tokens *auth.TokenManager, development bool) *Middleware {
	return &Middleware{
		tokens:      tokens,
		development: development,
	}
}

// RequireRole authenticates the bearer token and checks the caller's role.
// Missing or invalid tokens answer 401, a role mismatch answers 403.
func (m *Middleware) RequireRole(role string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := m.authenticate(r)
		if err != nil {
			writeError(w, r, err, m.development)
			return
		}
		if claims.Role != role {
			writeError(w, r, apperr.Forbidden("You do not have permission to access this resource"), m.development)
			return
		}
		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next(w, r.WithContext(ctx))
	}
}

// RequireAuth authenticates the bearer token without a role restriction
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := m.authenticate(r)
		if err != nil {
			writeError(w, r, err, m.development)
			return
		}
		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next(w, r.WithContext(ctx))
	}
}

func (m *Middleware) authenticate(r *http.Request) (*auth.Claims, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, apperr.Unauthorized("Authorization header is required")
	}
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return nil, apperr.Unauthorized("Authorization header must use the Bearer scheme")
	}

	claims, err := m.tokens.Verify(token)
	if err != nil {
		if err == auth.ErrExpiredToken {
			return nil, apperr.Unauthorized("Token has expired")
		}
		return nil, apperr.Unauthorized("Invalid token")
	}
	return claims, nil
}

// GetClaimsFromContext retrieves the authenticated claims from the request context
func GetClaimsFromContext(ctx context.Context) *auth.Claims {
	claims, ok := ctx.Value(claimsContextKey).(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}

// statusRecorder captures the response status for logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// Logging middleware logs HTTP requests with a per-request id
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		log.Printf("%s %s %s %d %s", requestID[:8], r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
