package service

import (
	"context"
	"log"
	"strings"

	"eduwordle/internal/apperr"
	"eduwordle/internal/auth"
	"eduwordle/internal/credentials"
	"eduwordle/internal/database"
	"eduwordle/internal/models"
	"eduwordle/internal/repository"
	"eduwordle/internal/validation"
)

// AuthService handles registration, login and password management
type AuthService struct {
	db           *database.DB
	userRepo     *repository.UserRepository
	tokens       *auth.TokenManager
	emailService *EmailService
}

// LoginResult is what a successful login returns: the user, their token and
// whether their current password fails the strength policy and should be
// changed.
type LoginResult struct {
	User                   *models.User `json:"user"`
	Token                  string       `json:"token"`
	RequiresPasswordChange bool         `json:"requiresPasswordChange"`
}

// NewAuthService creates a new auth service
func NewAuthService(db *database.DB, userRepo *repository.UserRepository, tokens *auth.TokenManager, emailService *EmailService) *AuthService {
	return &AuthService{
		db:           db,
		userRepo:     userRepo,
		tokens:       tokens,
		emailService: emailService,
	}
}

// Register creates a new teacher account. Student accounts are provisioned
// through group membership, never through self-registration.
func (s *AuthService) Register(name, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var details []string
	if err := validation.ValidateName(name); err != nil {
		details = append(details, err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		details = append(details, err.Error())
	}
	if !credentials.IsStrongPassword(password) {
		details = append(details, "password: must be at least 8 characters with upper and lower case letters, a number and a symbol")
	}
	if len(details) > 0 {
		return nil, apperr.BadRequest("Validation failed", details...)
	}

	existing, err := s.userRepo.GetUserByEmail(s.db, email)
	if err != nil {
		return nil, apperr.Internal("failed to check existing user", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("An account with this email already exists")
	}

	passwordHash, err := credentials.HashPassword(password)
	if err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}

	user, err := s.userRepo.CreateUser(s.db, strings.TrimSpace(name), email, passwordHash, models.RoleTeacher)
	if err != nil {
		return nil, apperr.Internal("failed to create user", err)
	}

	// Welcome email is best effort and must not block registration
	go func(email, name string) {
		if err := s.emailService.SendTeacherWelcomeEmail(context.Background(), email, name); err != nil {
			log.Printf("Failed to send welcome email to %s: %v", email, err)
		}
	}(user.Email, user.Name)

	return user, nil
}

// Login authenticates a user and issues a token. The result also tells the
// client whether the password in use is a generated weak one that should be
// replaced.
func (s *AuthService) Login(email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetUserByEmail(s.db, email)
	if err != nil {
		return nil, apperr.Internal("failed to get user", err)
	}
	if user == nil || !credentials.CheckPassword(password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid email or password")
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, apperr.Internal("failed to issue token", err)
	}

	return &LoginResult{
		User:                   user,
		Token:                  token,
		RequiresPasswordChange: !credentials.IsStrongPassword(password),
	}, nil
}

// ChangePassword replaces a user's password after verifying the current one
func (s *AuthService) ChangePassword(userID int64, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetUserByID(s.db, userID)
	if err != nil {
		return apperr.Internal("failed to get user", err)
	}
	if user == nil {
		return apperr.NotFound("user not found")
	}

	if !credentials.CheckPassword(currentPassword, user.PasswordHash) {
		return apperr.Unauthorized("Current password is incorrect")
	}
	if !credentials.IsStrongPassword(newPassword) {
		return apperr.BadRequest("Validation failed",
			"newPassword: must be at least 8 characters with upper and lower case letters, a number and a symbol")
	}

	passwordHash, err := credentials.HashPassword(newPassword)
	if err != nil {
		return apperr.Internal("failed to hash password", err)
	}
	if err := s.userRepo.UpdatePassword(userID, passwordHash); err != nil {
		return apperr.Internal("failed to update password", err)
	}
	return nil
}

// GetUser fetches a user by id
func (s *AuthService) GetUser(userID int64) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(s.db, userID)
	if err != nil {
		return nil, apperr.Internal("failed to get user", err)
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}
	return user, nil
}
