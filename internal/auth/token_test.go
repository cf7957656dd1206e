package auth

import (
	"testing"
	"time"

	"eduwordle/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	manager, err := NewTokenManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager() error: %v", err)
	}

	user := &models.User{ID: 42, Email: "teacher@school.edu", Role: models.RoleTeacher}
	token, err := manager.Issue(user)
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	claims, err := manager.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Email != "teacher@school.edu" {
		t.Errorf("Email = %q, want %q", claims.Email, "teacher@school.edu")
	}
	if claims.Role != models.RoleTeacher {
		t.Errorf("Role = %q, want %q", claims.Role, models.RoleTeacher)
	}
	if claims.ID == "" {
		t.Error("expected a non-empty token ID")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer, _ := NewTokenManager("secret-a", time.Hour)
	verifier, _ := NewTokenManager("secret-b", time.Hour)

	token, err := issuer.Issue(&models.User{ID: 1, Email: "s@x.com", Role: models.RoleStudent})
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	if _, err := verifier.Verify(token); err != ErrInvalidToken {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	manager, _ := NewTokenManager("test-secret", -time.Minute)

	token, err := manager.Issue(&models.User{ID: 1, Email: "s@x.com", Role: models.RoleStudent})
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	if _, err := manager.Verify(token); err != ErrExpiredToken {
		t.Errorf("Verify() error = %v, want ErrExpiredToken", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	manager, _ := NewTokenManager("test-secret", time.Hour)
	if _, err := manager.Verify("not-a-token"); err != ErrInvalidToken {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestNewTokenManagerRequiresSecret(t *testing.T) {
	if _, err := NewTokenManager("", time.Hour); err == nil {
		t.Error("expected an error for an empty secret")
	}
}
