package service

import (
	"testing"

	"eduwordle/internal/apperr"
	"eduwordle/internal/credentials"
	"eduwordle/internal/models"
)

func TestRegisterAndLogin(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := setupTestEnv(t, "test_auth_register.db")

	user, err := env.auth.Register("Ms Rivera", "Rivera@Example.com", "Str0ng!pass")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Email != "rivera@example.com" {
		t.Errorf("Email = %s, want lowercased rivera@example.com", user.Email)
	}
	if user.Role != models.RoleTeacher {
		t.Errorf("Role = %s, want teacher", user.Role)
	}

	result, err := env.auth.Login("rivera@example.com", "Str0ng!pass")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if result.Token == "" {
		t.Error("Login should issue a token")
	}
	if result.RequiresPasswordChange {
		t.Error("Strong password should not be flagged for change")
	}

	_, err = env.auth.Login("rivera@example.com", "wrong-password")
	if err == nil || apperr.From(err).StatusCode != 401 {
		t.Errorf("Wrong password: error = %v, want 401", err)
	}
	_, err = env.auth.Login("nobody@example.com", "Str0ng!pass")
	if err == nil || apperr.From(err).StatusCode != 401 {
		t.Errorf("Unknown email: error = %v, want 401", err)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := setupTestEnv(t, "test_auth_duplicate.db")

	if _, err := env.auth.Register("Ms Rivera", "rivera@example.com", "Str0ng!pass"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	_, err := env.auth.Register("Impostor", "rivera@example.com", "An0ther!pass")
	if err == nil || apperr.From(err).StatusCode != 409 {
		t.Errorf("Duplicate email: error = %v, want 409", err)
	}
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := setupTestEnv(t, "test_auth_weak.db")

	_, err := env.auth.Register("Ms Rivera", "rivera@example.com", "short")
	if err == nil || apperr.From(err).StatusCode != 400 {
		t.Errorf("Weak password: error = %v, want 400", err)
	}
}

func TestLoginFlagsGeneratedPassword(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := setupTestEnv(t, "test_auth_flag.db")

	// Simulate a provisioned student still on their generated password,
	// which deliberately fails the strength policy.
	weak := "ab1234!"
	hash, err := credentials.HashPassword(weak)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if _, err := env.users.CreateUser(env.db, "Kid", "kid@example.com", hash, models.RoleStudent); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	result, err := env.auth.Login("kid@example.com", weak)
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if !result.RequiresPasswordChange {
		t.Error("Generated password should be flagged for change")
	}
}

func TestChangePassword(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := setupTestEnv(t, "test_auth_change.db")

	user, err := env.auth.Register("Ms Rivera", "rivera@example.com", "Str0ng!pass")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	err = env.auth.ChangePassword(user.ID, "wrong-current", "N3w!strong")
	if err == nil || apperr.From(err).StatusCode != 401 {
		t.Errorf("Wrong current password: error = %v, want 401", err)
	}

	err = env.auth.ChangePassword(user.ID, "Str0ng!pass", "weak")
	if err == nil || apperr.From(err).StatusCode != 400 {
		t.Errorf("Weak new password: error = %v, want 400", err)
	}

	if err := env.auth.ChangePassword(user.ID, "Str0ng!pass", "N3w!strong"); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}
	if _, err := env.auth.Login("rivera@example.com", "N3w!strong"); err != nil {
		t.Errorf("Login with new password failed: %v", err)
	}
	if _, err := env.auth.Login("rivera@example.com", "Str0ng!pass"); err == nil {
		t.Error("Old password should no longer work")
	}
}
