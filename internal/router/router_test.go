package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"digikart/internal/auth"
	"digikart/internal/config"
	mw "digikart/internal/middleware"
	"digikart/internal/model"
)

func newSessionEcho(tokens *auth.TokenService) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(&config.Config{AppEnv: "production"}, zerolog.Nop())

	secured := e.Group("", echojwt.WithConfig(sessionJWTConfig(tokens)))
	secured.GET("/whoami", func(c echo.Context) error {
		claims, _ := mw.CurrentClaims(c)
		return c.String(http.StatusOK, claims.Email)
	})
	return e
}

func sessionUser(email string) *model.User {
	return &model.User{ID: uuid.New(), Name: "Test", Email: email, Role: model.RoleUser}
}

func TestSessionJWT_HeaderBeatsCookie(t *testing.T) {
	tokens := auth.NewTokenService("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	e := newSessionEcho(tokens)

	headerToken, err := tokens.IssueAccessToken(sessionUser("header@example.com"))
	assert.NoError(t, err)
	cookieToken, err := tokens.IssueAccessToken(sessionUser("cookie@example.com"))
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+headerToken)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: cookieToken})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "header@example.com", rec.Body.String())
}

func TestSessionJWT_CookieFallback(t *testing.T) {
	tokens := auth.NewTokenService("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	e := newSessionEcho(tokens)

	cookieToken, err := tokens.IssueAccessToken(sessionUser("cookie@example.com"))
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: cookieToken})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cookie@example.com", rec.Body.String())
}

func TestSessionJWT_ErrorMessages(t *testing.T) {
	tokens := auth.NewTokenService("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	expiredTokens := auth.NewTokenService("access-secret", "refresh-secret", -1*time.Second, -1*time.Second)

	expiredToken, err := expiredTokens.IssueAccessToken(sessionUser("gone@example.com"))
	assert.NoError(t, err)

	tests := []struct {
		name            string
		decorate        func(*http.Request)
		expectedMessage string
	}{
		{
			name:            "no token at all",
			decorate:        func(r *http.Request) {},
			expectedMessage: "You are not logged in! Please log in to get access.",
		},
		{
			name: "expired token",
			decorate: func(r *http.Request) {
				r.Header.Set(echo.HeaderAuthorization, "Bearer "+expiredToken)
			},
			expectedMessage: "Your token has expired. Please refresh your session or log in again.",
		},
		{
			name: "garbage token",
			decorate: func(r *http.Request) {
				r.Header.Set(echo.HeaderAuthorization, "Bearer not-a-token")
			},
			expectedMessage: "Invalid token.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newSessionEcho(tokens)
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			tt.decorate(req)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedMessage)
			assert.Contains(t, rec.Body.String(), `"success":false`)
		})
	}
}
