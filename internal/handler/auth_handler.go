package handler

import (
	"net/http"
	"time"

	"storefront/internal/auth"
	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/rs/zerolog"
)

// AuthHandler signs users in through OAuth and issues session tokens.
type AuthHandler struct {
	users         service.UserService
	tokens        *auth.TokenManager
	enabled       bool
	secureCookies bool
	logger        zerolog.Logger

	begin    func(w http.ResponseWriter, r *http.Request)
	complete func(w http.ResponseWriter, r *http.Request) (goth.User, error)
	logout   func(w http.ResponseWriter, r *http.Request) error
}

// NewAuthHandler creates a new auth handler. enabled reports whether an
// OAuth provider was registered.
func NewAuthHandler(users service.UserService, tokens *auth.TokenManager, enabled, secureCookies bool, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		users:         users,
		tokens:        tokens,
		enabled:       enabled,
		secureCookies: secureCookies,
		logger:        logger.With().Str("handler", "auth").Logger(),
		begin:         gothic.BeginAuthHandler,
		complete:      gothic.CompleteUserAuth,
		logout:        gothic.Logout,
	}
}

type sessionResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      *model.User `json:"user"`
}

// Begin handles GET /api/auth/{provider} by redirecting to the provider.
func (h *AuthHandler) Begin(w http.ResponseWriter, r *http.Request) {
	if !h.enabled {
		writeError(w, r, http.StatusServiceUnavailable, model.ErrCodeInternalError, "sign-in is not configured", h.logger)
		return
	}
	h.begin(w, r)
}

// Callback handles GET /api/auth/{provider}/callback. The account is
// created or refreshed by e-mail and the admin flag is read from the
// stored user.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	if !h.enabled {
		writeError(w, r, http.StatusServiceUnavailable, model.ErrCodeInternalError, "sign-in is not configured", h.logger)
		return
	}

	gu, err := h.complete(w, r)
	if err != nil {
		h.logger.Warn().Err(err).Msg("oauth callback failed")
		writeError(w, r, http.StatusUnauthorized, model.ErrCodeUnauthorised, "sign-in failed", h.logger)
		return
	}
	if gu.Email == "" {
		writeError(w, r, http.StatusUnauthorized, model.ErrCodeUnauthorised, "provider returned no e-mail", h.logger)
		return
	}

	name := gu.Name
	if name == "" {
		name = gu.NickName
	}

	user, err := h.users.SignIn(r.Context(), &model.User{
		Name:  name,
		Email: gu.Email,
		Image: gu.AvatarURL,
	})
	if err != nil {
		writeServiceError(w, r, err, "failed to sign in", h.logger)
		return
	}

	token, expires, err := h.tokens.Issue(auth.Principal{UserID: user.ID, Email: user.Email, IsAdmin: user.IsAdmin})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to issue token")
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to sign in", h.logger)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.Info().Str("user_id", user.ID.String()).Bool("admin", user.IsAdmin).Msg("user signed in")
	writeJSON(w, http.StatusOK, sessionResponse{Token: token, ExpiresAt: expires, User: user})
}

// Logout handles POST /api/auth/logout by clearing the token cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if h.enabled {
		if err := h.logout(w, r); err != nil {
			h.logger.Debug().Err(err).Msg("no provider session to clear")
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, messageResponse{Message: "Signed out"})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r, h.logger)
	if !ok {
		return
	}

	user, err := h.users.GetByID(r.Context(), p.UserID)
	if err != nil {
		writeServiceError(w, r, err, "failed to retrieve user", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
