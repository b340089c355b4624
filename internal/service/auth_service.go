package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"studyplanner/internal/models"
	"studyplanner/internal/security"
	"studyplanner/internal/validation"
)

var (
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
)

// resetTokenDuration is how long a password reset link stays valid
const resetTokenDuration = 1 * time.Hour

// AuthService handles registration, login and password reset
type AuthService struct {
	users  UserStore
	tokens *security.TokenIssuer
	email  Emailer
}

// NewAuthService creates a new auth service
func NewAuthService(users UserStore, tokens *security.TokenIssuer, email Emailer) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		email:  email,
	}
}

// Register creates a new account and returns a bearer token for it
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, string, time.Time, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if err := validation.ValidateName(name); err != nil {
		return nil, "", time.Time{}, err
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, "", time.Time{}, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, "", time.Time{}, err
	}

	existing, err := s.users.GetUserByEmail(email)
	if err != nil {
		return nil, "", time.Time{}, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, "", time.Time{}, ErrEmailTaken
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, "", time.Time{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.CreateUser(email, passwordHash, strings.TrimSpace(name))
	if err != nil {
		return nil, "", time.Time{}, fmt.Errorf("failed to create user: %w", err)
	}

	// Welcome mail is best effort; registration never fails on it.
	if err := s.email.SendWelcomeEmail(ctx, user.Email, user.Name); err != nil {
		log.Printf("Warning: failed to send welcome email to %s: %v", user.Email, err)
	}

	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", time.Time{}, fmt.Errorf("failed to issue token: %w", err)
	}

	return user, token, expiresAt, nil
}

// Login authenticates a user and returns a bearer token
func (s *AuthService) Login(email, password string) (*models.User, string, time.Time, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetUserByEmail(email)
	if err != nil {
		return nil, "", time.Time{}, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	if !security.CheckPassword(password, user.PasswordHash) {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	if err := s.users.UpdateLastLogin(user.ID); err != nil {
		log.Printf("Warning: failed to update last login for user %d: %v", user.ID, err)
	}

	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", time.Time{}, fmt.Errorf("failed to issue token: %w", err)
	}

	return user, token, expiresAt, nil
}

// ValidateToken resolves a bearer token to its user
func (s *AuthService) ValidateToken(token string) (*models.User, error) {
	userID, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, security.ErrInvalidToken
	}
	return user, nil
}

// OAuthLogin authenticates or creates a user from a verified OAuth
// identity and returns a bearer token
func (s *AuthService) OAuthLogin(provider, subject, email, name string) (*models.User, string, time.Time, error) {
	if provider == "" || subject == "" {
		return nil, "", time.Time{}, errors.New("missing oauth provider information")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validation.ValidateEmail(email); err != nil {
		return nil, "", time.Time{}, err
	}

	user, err := s.users.GetUserByOAuth(provider, subject)
	if err != nil {
		return nil, "", time.Time{}, fmt.Errorf("failed to look up oauth user: %w", err)
	}

	if user == nil {
		// Fall back to the email: a password account gets the OAuth
		// identity linked instead of a duplicate account.
		user, err = s.users.GetUserByEmail(email)
		if err != nil {
			return nil, "", time.Time{}, fmt.Errorf("failed to look up user by email: %w", err)
		}
		if user != nil {
			if err := s.users.LinkOAuthAccount(user.ID, provider, subject); err != nil {
				return nil, "", time.Time{}, fmt.Errorf("failed to link oauth account: %w", err)
			}
		}
	}

	if user == nil {
		if strings.TrimSpace(name) == "" {
			name = email
		}
		// OAuth users never log in with this password; it only keeps
		// the column non-empty.
		randomHash, err := security.HashPassword(security.GenerateResetToken())
		if err != nil {
			return nil, "", time.Time{}, fmt.Errorf("failed to hash placeholder password: %w", err)
		}
		user, err = s.users.CreateOAuthUser(email, randomHash, strings.TrimSpace(name), provider, subject)
		if err != nil {
			return nil, "", time.Time{}, fmt.Errorf("failed to create oauth user: %w", err)
		}
	}

	if err := s.users.UpdateLastLogin(user.ID); err != nil {
		log.Printf("Warning: failed to update last login for user %d: %v", user.ID, err)
	}

	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", time.Time{}, fmt.Errorf("failed to issue token: %w", err)
	}

	return user, token, expiresAt, nil
}

// RequestPasswordReset creates a reset token and emails the reset link.
// Unknown addresses are ignored silently so the endpoint does not leak
// which emails have accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validation.ValidateEmail(email); err != nil {
		return err
	}

	user, err := s.users.GetUserByEmail(email)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil
	}

	token := security.GenerateResetToken()
	expiresAt := time.Now().Add(resetTokenDuration)
	if err := s.users.CreatePasswordResetToken(token, user.ID, expiresAt); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	if err := s.email.SendPasswordResetEmail(ctx, user.Email, user.Name, token); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}

// ResetPassword consumes a reset token and sets the new password
func (s *AuthService) ResetPassword(token, newPassword string) error {
	if err := validation.ValidatePassword(newPassword); err != nil {
		return err
	}

	resetToken, err := s.users.GetPasswordResetToken(token)
	if err != nil {
		return fmt.Errorf("failed to get reset token: %w", err)
	}
	if resetToken == nil || resetToken.Used || resetToken.IsExpired() {
		return ErrInvalidResetToken
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.UpdatePassword(resetToken.UserID, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if err := s.users.MarkPasswordResetTokenUsed(token); err != nil {
		return fmt.Errorf("failed to mark reset token used: %w", err)
	}
	return nil
}

// CleanupExpiredResetTokens removes stale reset tokens from storage
func (s *AuthService) CleanupExpiredResetTokens() error {
	if err := s.users.DeleteExpiredPasswordResetTokens(); err != nil {
		return fmt.Errorf("failed to cleanup reset tokens: %w", err)
	}
	return nil
}
