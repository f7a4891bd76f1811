package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/auth"
	"storefront/internal/middleware"
	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/markbates/goth"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestAuthHandler(users *MockUserService, gu goth.User, completeErr error) (*AuthHandler, *auth.TokenManager) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	h := NewAuthHandler(users, tokens, true, false, zerolog.Nop())
	h.complete = func(http.ResponseWriter, *http.Request) (goth.User, error) {
		return gu, completeErr
	}
	h.logout = func(http.ResponseWriter, *http.Request) error { return nil }
	return h, tokens
}

func TestAuthHandler_Callback(t *testing.T) {
	users := new(MockUserService)
	stored := &model.User{ID: uuid.New(), Name: "Ada", Email: "ada@example.com", IsAdmin: true}
	users.On("SignIn", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Email == "ada@example.com" && u.Name == "Ada" && u.Image == "https://img/ada.png"
	})).Return(stored, nil)

	h, tokens := newTestAuthHandler(users, goth.User{Email: "ada@example.com", Name: "Ada", AvatarURL: "https://img/ada.png"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?code=abc", nil)
	req.SetPathValue("provider", "google")
	w := httptest.NewRecorder()

	h.Callback(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp sessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	p, err := tokens.Parse(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, p.UserID)
	assert.True(t, p.IsAdmin)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.TokenCookie, cookies[0].Name)
	assert.Equal(t, resp.Token, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	users.AssertExpectations(t)
}

func TestAuthHandler_CallbackFailures(t *testing.T) {
	tests := []struct {
		name        string
		user        goth.User
		completeErr error
	}{
		{name: "Provider error", completeErr: errors.New("state mismatch")},
		{name: "No e-mail", user: goth.User{Name: "Ada"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserService)
			h, _ := newTestAuthHandler(users, tt.user, tt.completeErr)

			w := httptest.NewRecorder()
			h.Callback(w, httptest.NewRequest(http.MethodGet, "/api/auth/google/callback", nil))

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Empty(t, w.Result().Cookies())
			users.AssertNotCalled(t, "SignIn", mock.Anything, mock.Anything)
		})
	}
}

func TestAuthHandler_Disabled(t *testing.T) {
	h := NewAuthHandler(new(MockUserService), auth.NewTokenManager("s", time.Hour), false, false, zerolog.Nop())

	w := httptest.NewRecorder()
	h.Begin(w, httptest.NewRequest(http.MethodGet, "/api/auth/google", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	h, _ := newTestAuthHandler(new(MockUserService), goth.User{}, nil)

	w := httptest.NewRecorder()
	h.Logout(w, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.TokenCookie, cookies[0].Name)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestAuthHandler_Me(t *testing.T) {
	users := new(MockUserService)
	h, _ := newTestAuthHandler(users, goth.User{}, nil)
	users.On("GetByID", mock.Anything, customer.UserID).Return(&model.User{ID: customer.UserID, Email: customer.Email}, nil)

	w := httptest.NewRecorder()
	h.Me(w, withPrincipal(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil), customer))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), customer.Email)

	w = httptest.NewRecorder()
	h.Me(w, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
