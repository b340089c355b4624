package handlers

import (
	"errors"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/google"

	"studyplanner/internal/config"
	"studyplanner/internal/models"
	"studyplanner/internal/service"
	"studyplanner/internal/validation"
)

// AuthHandler serves registration, login and password reset endpoints
type AuthHandler struct {
	authService          *service.AuthService
	oauthProviders       map[string]OAuthProvider
	oauthRedirectBaseURL string
	frontendBaseURL      string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, cfg *config.Config) *AuthHandler {
	providers := map[string]OAuthProvider{
		"google": {
			Name: "google",
			Config: &oauth2.Config{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				Endpoint:     google.Endpoint,
				Scopes:       []string{"openid", "email", "profile"},
			},
			UserInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		},
		"facebook": {
			Name: "facebook",
			Config: &oauth2.Config{
				ClientID:     cfg.FacebookClientID,
				ClientSecret: cfg.FacebookClientSecret,
				Endpoint:     facebook.Endpoint,
				Scopes:       []string{"email", "public_profile"},
			},
			UserInfoURL: "https://graph.facebook.com/me?fields=id,name,email",
		},
	}

	return &AuthHandler{
		authService:          authService,
		oauthProviders:       providers,
		oauthRedirectBaseURL: cfg.OAuthRedirectBaseURL,
		frontendBaseURL:      cfg.FrontendBaseURL,
	}
}

type authResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// Register handles POST /api/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	user, token, expiresAt, err := h.authService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		var vErr validation.ValidationError
		switch {
		case errors.As(err, &vErr):
			respondWithError(w, http.StatusBadRequest, vErr.Message, nil)
		case errors.Is(err, service.ErrEmailTaken):
			respondWithError(w, http.StatusConflict, "An account with this email already exists", nil)
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to create account", err)
		}
		return
	}

	respondJSON(w, http.StatusCreated, authResponse{Token: token, ExpiresAt: expiresAt, User: user})
}

// Login handles POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	user, token, expiresAt, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondWithError(w, http.StatusUnauthorized, "Invalid email or password", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to log in", err)
		return
	}

	respondJSON(w, http.StatusOK, authResponse{Token: token, ExpiresAt: expiresAt, User: user})
}

// Me handles GET /api/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

// RequestPasswordReset handles POST /api/password-reset/request.
// The response never reveals whether the email has an account.
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.authService.RequestPasswordReset(r.Context(), req.Email); err != nil {
		var vErr validation.ValidationError
		if errors.As(err, &vErr) {
			respondWithError(w, http.StatusBadRequest, vErr.Message, nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to process reset request", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "If an account exists for this email, a reset link has been sent",
	})
}

// ResetPassword handles POST /api/password-reset/confirm
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.authService.ResetPassword(req.Token, req.Password); err != nil {
		var vErr validation.ValidationError
		switch {
		case errors.As(err, &vErr):
			respondWithError(w, http.StatusBadRequest, vErr.Message, nil)
		case errors.Is(err, service.ErrInvalidResetToken):
			respondWithError(w, http.StatusBadRequest, "Invalid or expired reset token", nil)
		default:
			respondWithError(w, http.StatusInternalServerError, "Failed to reset password", err)
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Password updated"})
}
