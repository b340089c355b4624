package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"studyplanner/internal/security"
	"studyplanner/internal/validation"
)

func newTestAuthService() (*AuthService, *fakeUserStore, *fakeEmailer) {
	users := newFakeUserStore()
	emailer := &fakeEmailer{}
	tokens := security.NewTokenIssuer("test-secret", time.Hour)
	return NewAuthService(users, tokens, emailer), users, emailer
}

func TestRegister(t *testing.T) {
	svc, users, emailer := newTestAuthService()
	ctx := context.Background()

	user, token, expiresAt, err := svc.Register(ctx, "Alice", "Alice@Example.com", "password123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("expected email folded to lowercase, got %q", user.Email)
	}
	if user.PasswordHash == "password123" {
		t.Error("password must not be stored in plain text")
	}
	if token == "" {
		t.Error("expected a bearer token")
	}
	if !expiresAt.After(time.Now()) {
		t.Error("expected token expiry in the future")
	}
	if len(emailer.welcomes) != 1 || emailer.welcomes[0] != "alice@example.com" {
		t.Errorf("expected one welcome email, got %v", emailer.welcomes)
	}

	t.Run("duplicate email", func(t *testing.T) {
		_, _, _, err := svc.Register(ctx, "Alice Again", "alice@example.com", "password456")
		if !errors.Is(err, ErrEmailTaken) {
			t.Errorf("expected ErrEmailTaken, got %v", err)
		}
	})

	t.Run("email failure does not block registration", func(t *testing.T) {
		emailer.sendErr = errors.New("ses unavailable")
		user, token, _, err := svc.Register(ctx, "Bob", "bob@example.com", "password123")
		if err != nil {
			t.Fatalf("Register should survive email failure: %v", err)
		}
		if user == nil || token == "" {
			t.Error("expected a user and token despite email failure")
		}
	})

	if len(users.users) != 2 {
		t.Errorf("expected 2 users stored, got %d", len(users.users))
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	tests := []struct {
		name     string
		userName string
		email    string
		password string
	}{
		{"empty name", "", "alice@example.com", "password123"},
		{"bad email", "Alice", "not-an-email", "password123"},
		{"short password", "Alice", "alice@example.com", "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := svc.Register(ctx, tt.userName, tt.email, tt.password)
			var vErr validation.ValidationError
			if !errors.As(err, &vErr) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	if _, _, _, err := svc.Register(ctx, "Alice", "alice@example.com", "password123"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	t.Run("valid credentials", func(t *testing.T) {
		user, token, _, err := svc.Login("alice@example.com", "password123")
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if token == "" {
			t.Error("expected a bearer token")
		}
		if user.LastLoginAt == nil {
			t.Error("expected last login to be recorded")
		}
	})

	t.Run("case-insensitive email", func(t *testing.T) {
		if _, _, _, err := svc.Login("ALICE@example.com", "password123"); err != nil {
			t.Errorf("expected case-insensitive email match, got %v", err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		if _, _, _, err := svc.Login("alice@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		if _, _, _, err := svc.Login("nobody@example.com", "password123"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestValidateToken(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	registered, token, _, err := svc.Register(ctx, "Alice", "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	t.Run("valid token", func(t *testing.T) {
		user, err := svc.ValidateToken(token)
		if err != nil {
			t.Fatalf("ValidateToken failed: %v", err)
		}
		if user.ID != registered.ID {
			t.Errorf("expected user %d, got %d", registered.ID, user.ID)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		if _, err := svc.ValidateToken("not-a-token"); !errors.Is(err, security.ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other := security.NewTokenIssuer("other-secret", time.Hour)
		forged, _, err := other.Issue(registered.ID)
		if err != nil {
			t.Fatalf("Issue failed: %v", err)
		}
		if _, err := svc.ValidateToken(forged); !errors.Is(err, security.ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})
}

func TestOAuthLogin(t *testing.T) {
	svc, users, _ := newTestAuthService()
	ctx := context.Background()

	t.Run("creates account on first login", func(t *testing.T) {
		user, token, _, err := svc.OAuthLogin("google", "sub-1", "carol@example.com", "Carol")
		if err != nil {
			t.Fatalf("OAuthLogin failed: %v", err)
		}
		if token == "" {
			t.Error("expected a bearer token")
		}
		if user.OAuthProvider != "google" || user.OAuthSubject != "sub-1" {
			t.Errorf("expected oauth identity stored, got %s/%s", user.OAuthProvider, user.OAuthSubject)
		}
	})

	t.Run("second login reuses the account", func(t *testing.T) {
		before := len(users.users)
		if _, _, _, err := svc.OAuthLogin("google", "sub-1", "carol@example.com", "Carol"); err != nil {
			t.Fatalf("OAuthLogin failed: %v", err)
		}
		if len(users.users) != before {
			t.Errorf("expected no new account, got %d users", len(users.users))
		}
	})

	t.Run("links to an existing password account by email", func(t *testing.T) {
		registered, _, _, err := svc.Register(ctx, "Dave", "dave@example.com", "password123")
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		user, _, _, err := svc.OAuthLogin("facebook", "sub-2", "dave@example.com", "Dave")
		if err != nil {
			t.Fatalf("OAuthLogin failed: %v", err)
		}
		if user.ID != registered.ID {
			t.Errorf("expected existing account %d, got %d", registered.ID, user.ID)
		}
		if user.OAuthProvider != "facebook" {
			t.Errorf("expected oauth identity linked, got %q", user.OAuthProvider)
		}
	})

	t.Run("missing provider info", func(t *testing.T) {
		if _, _, _, err := svc.OAuthLogin("", "", "e@example.com", "E"); err == nil {
			t.Error("expected an error for missing provider information")
		}
	})
}

func TestPasswordReset(t *testing.T) {
	svc, users, emailer := newTestAuthService()
	ctx := context.Background()

	if _, _, _, err := svc.Register(ctx, "Alice", "alice@example.com", "password123"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	t.Run("unknown email is silently ignored", func(t *testing.T) {
		if err := svc.RequestPasswordReset(ctx, "nobody@example.com"); err != nil {
			t.Errorf("unknown email must not error, got %v", err)
		}
		if len(emailer.resets) != 0 {
			t.Errorf("no reset email expected, got %v", emailer.resets)
		}
	})

	if err := svc.RequestPasswordReset(ctx, "alice@example.com"); err != nil {
		t.Fatalf("RequestPasswordReset failed: %v", err)
	}
	if len(emailer.tokens) != 1 {
		t.Fatalf("expected one reset token sent, got %d", len(emailer.tokens))
	}
	token := emailer.tokens[0]

	t.Run("weak new password rejected", func(t *testing.T) {
		err := svc.ResetPassword(token, "short")
		var vErr validation.ValidationError
		if !errors.As(err, &vErr) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("reset changes the password", func(t *testing.T) {
		if err := svc.ResetPassword(token, "newpassword123"); err != nil {
			t.Fatalf("ResetPassword failed: %v", err)
		}
		if _, _, _, err := svc.Login("alice@example.com", "password123"); !errors.Is(err, ErrInvalidCredentials) {
			t.Error("old password should no longer work")
		}
		if _, _, _, err := svc.Login("alice@example.com", "newpassword123"); err != nil {
			t.Errorf("new password should work, got %v", err)
		}
	})

	t.Run("token is single use", func(t *testing.T) {
		if err := svc.ResetPassword(token, "anotherpassword1"); !errors.Is(err, ErrInvalidResetToken) {
			t.Errorf("expected ErrInvalidResetToken, got %v", err)
		}
	})

	t.Run("expired token rejected", func(t *testing.T) {
		if err := users.CreatePasswordResetToken("expired-token", 1, time.Now().Add(-time.Minute)); err != nil {
			t.Fatalf("failed to seed token: %v", err)
		}
		if err := svc.ResetPassword("expired-token", "validpassword1"); !errors.Is(err, ErrInvalidResetToken) {
			t.Errorf("expected ErrInvalidResetToken, got %v", err)
		}
	})

	t.Run("cleanup removes expired tokens", func(t *testing.T) {
		if err := svc.CleanupExpiredResetTokens(); err != nil {
			t.Fatalf("CleanupExpiredResetTokens failed: %v", err)
		}
		if users.tokens["expired-token"] != nil {
			t.Error("expected expired token to be removed")
		}
	})
}
