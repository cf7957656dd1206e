package handlers

import (
	"net/http"

	"eduwordle/internal/apperr"
	"eduwordle/internal/service"
)

// AuthHandler handles registration, login and password changes
type AuthHandler struct {
	authService *service.AuthService
	development bool
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, development bool) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		development: development,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Register creates a new teacher account
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, h.development)
		return
	}

	user, err := h.authService.Register(req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, r, err, h.development)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"user": user})
}

// Login authenticates a user and returns a token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, h.development)
		return
	}

	result, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		writeError(w, r, err, h.development)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ChangePassword replaces the caller's password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims := GetClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, r, apperr.Unauthorized("Authentication required"), h.development)
		return
	}

	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, h.development)
		return
	}

	if err := h.authService.ChangePassword(claims.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		writeError(w, r, err, h.development)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated"})
}

// Me returns the authenticated user's profile
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := GetClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, r, apperr.Unauthorized("Authentication required"), h.development)
		return
	}

	user, err := h.authService.GetUser(claims.UserID)
	if err != nil {
		writeError(w, r, err, h.development)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}
