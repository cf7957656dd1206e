package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eduwordle/internal/auth"
	"eduwordle/internal/models"
)

func newTestMiddleware(t *testing.T, ttl time.Duration) (*Middleware, *auth.TokenManager) {
	t.Helper()
	tokens, err := auth.NewTokenManager("test-secret-key", ttl)
	if err != nil {
		t.Fatalf("Failed to create token manager: %v", err)
	}
	return NewMiddleware(tokens, false), tokens
}

func issueTestToken(t *testing.T, tokens *auth.TokenManager, role string) string {
	t.Helper()
	token, err := tokens.Issue(&models.User{ID: 7, Email: "user@example.com", Role: role})
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	return token
}

func TestRequireRole(t *testing.T) {
	m, tokens := newTestMiddleware(t, time.Hour)

	var gotClaims *auth.Claims
	handler := m.RequireRole(models.RoleTeacher, func(w http.ResponseWriter, r *http.Request) {
		gotClaims = GetClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{
			name:       "valid teacher token",
			authHeader: "Bearer " + issueTestToken(t, tokens, models.RoleTeacher),
			wantStatus: http.StatusOK,
		},
		{
			name:       "student token on teacher route",
			authHeader: "Bearer " + issueTestToken(t, tokens, models.RoleStudent),
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "missing header",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			authHeader: "Basic dXNlcjpwYXNz",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "garbage token",
			authHeader: "Bearer not.a.token",
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotClaims = nil
			req := httptest.NewRequest("GET", "/groups", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			handler(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK {
				if gotClaims == nil {
					t.Fatal("handler should see the authenticated claims")
				}
				if gotClaims.UserID != 7 || gotClaims.Role != models.RoleTeacher {
					t.Errorf("claims = %+v, want user 7 with teacher role", gotClaims)
				}
			}
		})
	}
}

func TestRequireRoleRejectsForgedToken(t *testing.T) {
	m, _ := newTestMiddleware(t, time.Hour)

	otherTokens, err := auth.NewTokenManager("different-secret", time.Hour)
	if err != nil {
		t.Fatalf("Failed to create token manager: %v", err)
	}
	forged := issueTestToken(t, otherTokens, models.RoleTeacher)

	handler := m.RequireRole(models.RoleTeacher, func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run for a forged token")
	})

	req := httptest.NewRequest("GET", "/groups", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireRoleRejectsExpiredToken(t *testing.T) {
	m, tokens := newTestMiddleware(t, -time.Minute)
	expired := issueTestToken(t, tokens, models.RoleTeacher)

	handler := m.RequireRole(models.RoleTeacher, func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run for an expired token")
	})

	req := httptest.NewRequest("GET", "/groups", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	rec := httptest.NewRecorder()

	handler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAuthAcceptsAnyRole(t *testing.T) {
	m, tokens := newTestMiddleware(t, time.Hour)

	handler := m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, role := range []string{models.RoleTeacher, models.RoleStudent} {
		req := httptest.NewRequest("GET", "/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+issueTestToken(t, tokens, role))
		rec := httptest.NewRecorder()

		handler(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("role %s: status = %d, want 200", role, rec.Code)
		}
	}
}
