package middleware

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"digikart/internal/auth"
	"digikart/internal/errors"
	"digikart/internal/model"
	"digikart/internal/repository"
)

// Context keys used by the session middleware chain.
const (
	ContextClaims      = "tokenClaims"
	ContextUser        = "currentUser"
	ContextAccessToken = "accessToken"
)

// LoadUser resolves the authenticated identity by re-reading the user
// record behind the verified token claims. Tokens are not the sole
// source of truth: a deleted or deactivated account invalidates its
// tokens before they expire because this lookup fails.
func LoadUser(users repository.UserRepository, denylist auth.DenylistInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get(ContextClaims).(*auth.Claims)
			if !ok {
				return errors.NewHTTPError(http.StatusUnauthorized, "You are not logged in! Please log in to get access.")
			}

			if denylist != nil && denylist.IsRevoked(c.Request().Context(), claims.ID) {
				return errors.NewHTTPError(http.StatusUnauthorized, "Invalid token.")
			}

			id, err := uuid.Parse(claims.UserID)
			if err != nil {
				return errors.NewHTTPError(http.StatusUnauthorized, "Invalid token.")
			}

			user, err := users.FindByID(c.Request().Context(), id)
			if err != nil || !user.Active {
				return errors.NewHTTPError(http.StatusUnauthorized, "The user belonging to this token does not exist.")
			}

			c.Set(ContextUser, user)
			return next(c)
		}
	}
}

// RequireRoles gates a route to the given roles. It must run after LoadUser.
func RequireRoles(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return errors.NewHTTPError(http.StatusUnauthorized, "You are not logged in! Please log in to get access.")
			}
			for _, role := range roles {
				if user.Role == role {
					return next(c)
				}
			}
			return errors.NewHTTPError(http.StatusForbidden,
				fmt.Sprintf("Role '%s' is not permitted to perform this action", user.Role))
		}
	}
}

// CurrentUser extracts the resolved identity from the request context.
func CurrentUser(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(ContextUser).(*model.User)
	return user, ok
}

// CurrentClaims extracts the verified token claims from the request context.
func CurrentClaims(c echo.Context) (*auth.Claims, bool) {
	claims, ok := c.Get(ContextClaims).(*auth.Claims)
	return claims, ok
}

// PresentedToken returns the raw access token the caller presented.
func PresentedToken(c echo.Context) string {
	token, _ := c.Get(ContextAccessToken).(string)
	return token
}
