package router

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"digikart/internal/auth"
	"digikart/internal/config"
	"digikart/internal/errors"
	"digikart/internal/handler"
	mw "digikart/internal/middleware"
	"digikart/internal/model"
	"digikart/internal/repository"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	log zerolog.Logger,
	tokens *auth.TokenService,
	denylist auth.DenylistInterface,
	userRepo repository.UserRepository,
	authHandler *handler.AuthHandler,
	orderHandler *handler.OrderHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg, log)

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/refresh", authHandler.Refresh)

	// Secured routes: token extraction and verification first, then
	// identity resolution against the credential store.
	secured := api.Group("",
		echojwt.WithConfig(sessionJWTConfig(tokens)),
		mw.LoadUser(userRepo, denylist),
	)

	secured.POST("/auth/logout", authHandler.Logout)
	secured.GET("/auth/me", authHandler.Me)
	secured.PATCH("/auth/update-password", authHandler.UpdatePassword)

	secured.POST("/orders/create", orderHandler.CreateOrder)
	secured.POST("/orders/verify-payment", orderHandler.VerifyPayment)
	secured.GET("/orders/my-orders", orderHandler.MyOrders)

	admin := secured.Group("", mw.RequireRoles(model.RoleAdmin))
	admin.GET("/orders", orderHandler.AllOrders)
	admin.DELETE("/orders/:id", orderHandler.DeleteOrder)
}

// sessionJWTConfig extracts the token from the bearer header first, the
// accessToken cookie second, and verifies it through the token service.
func sessionJWTConfig(tokens *auth.TokenService) echojwt.Config {
	return echojwt.Config{
		ContextKey:  mw.ContextClaims,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ,cookie:accessToken",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			claims, err := tokens.VerifyAccessToken(token)
			if err != nil {
				return nil, err
			}
			c.Set(mw.ContextAccessToken, token)
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			switch {
			case stderrors.Is(err, errors.ErrTokenExpired):
				return errors.NewHTTPError(http.StatusUnauthorized, "Your token has expired. Please refresh your session or log in again.")
			case stderrors.Is(err, errors.ErrTokenInvalid):
				return errors.NewHTTPError(http.StatusUnauthorized, "Invalid token.")
			default:
				return errors.NewHTTPError(http.StatusUnauthorized, "You are not logged in! Please log in to get access.")
			}
		},
	}
}

// NewHTTPErrorHandler formats every surfaced error as the JSON envelope
// {"success":false,"message":...}. Internal detail is attached only
// outside production.
func NewHTTPErrorHandler(cfg *config.Config, log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		resp := errors.ErrorResponse{Success: false, Message: "internal server error"}

		var httpErr *errors.HTTPError
		var echoErr *echo.HTTPError
		switch {
		case stderrors.As(err, &httpErr):
			status = httpErr.StatusCode
			resp = httpErr.ToErrorResponse()
		case stderrors.As(err, &echoErr):
			status = echoErr.Code
			resp.Message = fmt.Sprintf("%v", echoErr.Message)
		default:
			if !cfg.IsProduction() {
				resp.Errors = err.Error()
			}
		}

		if status >= http.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("request failed")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, resp)
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
