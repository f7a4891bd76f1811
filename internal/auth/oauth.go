package auth

import (
	"errors"
	"net/http"

	"storefront/internal/config"

	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"
	"github.com/rs/zerolog"
)

// SetupOAuth registers the configured OAuth providers with gothic and
// reports whether any provider is available.
func SetupOAuth(cfg config.AuthConfig, secureCookies bool, logger zerolog.Logger) bool {
	if !cfg.OAuthEnabled() {
		logger.Info().Msg("OAuth sign-in disabled")
		return false
	}

	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
	gothic.Store = store
	gothic.GetProviderName = ProviderName

	goth.UseProviders(google.New(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleCallbackURL, "email", "profile"))

	logger.Info().Str("provider", "google").Msg("OAuth sign-in enabled")
	return true
}

// ProviderName reads the provider from the {provider} path segment, then
// from the query string.
func ProviderName(r *http.Request) (string, error) {
	if p := r.PathValue("provider"); p != "" {
		return p, nil
	}
	if p := r.URL.Query().Get("provider"); p != "" {
		return p, nil
	}
	return "", errors.New("provider not found")
}
