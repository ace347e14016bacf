package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"digikart/internal/errors"
	mw "digikart/internal/middleware"
	"digikart/internal/service"
)

// Cookie names and paths for the session cookies. The refresh cookie is
// path-scoped so browsers only send it to the refresh endpoint.
const (
	accessCookieName  = "accessToken"
	refreshCookieName = "refreshToken"
	refreshCookiePath = "/api/auth/refresh"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	accessTTL   time.Duration
	refreshTTL  time.Duration
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, accessTTL, refreshTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		accessTTL:   accessTTL,
		refreshTTL:  refreshTTL,
	}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Mobile   string `json:"mobile" validate:"required,numeric,len=10"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdatePasswordRequest represents a password change request.
type UpdatePasswordRequest struct {
	CurrentPassword    string `json:"currentPassword" validate:"required"`
	NewPassword        string `json:"newPassword" validate:"required,min=8"`
	NewPasswordConfirm string `json:"newPasswordConfirm" validate:"required,eqfield=NewPassword"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return errors.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return errors.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, accessToken, refreshToken, err := h.authService.Register(
		c.Request().Context(), req.Name, req.Mobile, req.Email, req.Password, req.Role)
	if err != nil {
		return errors.MapErrorToHTTP(err)
	}

	h.setSessionCookies(c, accessToken, refreshToken)
	return c.JSON(http.StatusCreated, echo.Map{
		"success":     true,
		"user":        user,
		"accessToken": accessToken,
	})
}

// Login godoc
// @Summary Authenticate a user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return errors.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return errors.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, accessToken, refreshToken, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return errors.MapErrorToHTTP(err)
	}

	h.setSessionCookies(c, accessToken, refreshToken)
	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"user":        user,
		"accessToken": accessToken,
	})
}

// Logout godoc
// @Summary Clear the caller's session
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	user, ok := mw.CurrentUser(c)
	if !ok {
		return errors.NewHTTPError(http.StatusUnauthorized, "You are not logged in! Please log in to get access.")
	}

	var tokenID string
	remaining := h.accessTTL
	if claims, ok := mw.CurrentClaims(c); ok {
		tokenID = claims.ID
		if claims.ExpiresAt != nil {
			remaining = time.Until(claims.ExpiresAt.Time)
		}
	}

	if err := h.authService.Logout(c.Request().Context(), user.ID, tokenID, remaining); err != nil {
		return errors.MapErrorToHTTP(err)
	}

	h.clearSessionCookies(c)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "logged out successfully",
	})
}

// Me godoc
// @Summary Return the current identity
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, ok := mw.CurrentUser(c)
	if !ok {
		return errors.NewHTTPError(http.StatusUnauthorized, "You are not logged in! Please log in to get access.")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"user":        user,
		"accessToken": mw.PresentedToken(c),
	})
}

// Refresh godoc
// @Summary Issue a new access token from the refresh cookie
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /auth/refresh [get]
func (h *AuthHandler) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		h.clearRefreshCookie(c)
		return errors.MapErrorToHTTP(errors.ErrNoRefreshToken)
	}

	accessToken, err := h.authService.Refresh(c.Request().Context(), cookie.Value)
	if err != nil {
		h.clearRefreshCookie(c)
		return errors.MapErrorToHTTP(err)
	}

	h.setAccessCookie(c, accessToken)
	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"accessToken": accessToken,
	})
}

// UpdatePassword godoc
// @Summary Change the caller's password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdatePasswordRequest true "Password change data"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/update-password [patch]
func (h *AuthHandler) UpdatePassword(c echo.Context) error {
	user, ok := mw.CurrentUser(c)
	if !ok {
		return errors.NewHTTPError(http.StatusUnauthorized, "You are not logged in! Please log in to get access.")
	}

	var req UpdatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return errors.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return errors.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.authService.UpdatePassword(c.Request().Context(), user.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		return errors.MapErrorToHTTP(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"user":    updated,
	})
}

func (h *AuthHandler) setSessionCookies(c echo.Context, accessToken, refreshToken string) {
	h.setAccessCookie(c, accessToken)
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    refreshToken,
		Path:     refreshCookiePath,
		MaxAge:   int(h.refreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func (h *AuthHandler) setAccessCookie(c echo.Context, accessToken string) {
	c.SetCookie(&http.Cookie{
		Name:     accessCookieName,
		Value:    accessToken,
		Path:     "/",
		MaxAge:   int(h.accessTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func (h *AuthHandler) clearSessionCookies(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     accessCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
	h.clearRefreshCookie(c)
}

func (h *AuthHandler) clearRefreshCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     refreshCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}
