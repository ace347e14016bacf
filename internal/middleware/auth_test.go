package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"digikart/internal/auth"
	"digikart/internal/errors"
	"digikart/internal/model"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmailOrMobile(ctx context.Context, email, mobile string) (*model.User, error) {
	args := m.Called(ctx, email, mobile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, id uuid.UUID, token string) error {
	args := m.Called(ctx, id, token)
	return args.Error(0)
}

type MockDenylist struct {
	mock.Mock
}

func (m *MockDenylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockDenylist) IsRevoked(ctx context.Context, tokenID string) bool {
	args := m.Called(ctx, tokenID)
	return args.Bool(0)
}

func newTestContext() echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func testClaims(userID uuid.UUID) *auth.Claims {
	return &auth.Claims{
		UserID: userID.String(),
		Name:   "Alice",
		Email:  "alice@example.com",
		Role:   model.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			ID: uuid.NewString(),
		},
	}
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestLoadUser(t *testing.T) {
	userID := uuid.New()

	t.Run("resolves active user", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockDenylist := new(MockDenylist)
		claims := testClaims(userID)

		mockDenylist.On("IsRevoked", mock.Anything, claims.ID).Return(false)
		mockRepo.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID, Active: true}, nil)

		c := newTestContext()
		c.Set(ContextClaims, claims)

		err := LoadUser(mockRepo, mockDenylist)(okHandler)(c)
		assert.NoError(t, err)

		user, ok := CurrentUser(c)
		assert.True(t, ok)
		assert.Equal(t, userID, user.ID)
	})

	t.Run("no claims in context", func(t *testing.T) {
		c := newTestContext()

		err := LoadUser(new(MockUserRepository), new(MockDenylist))(okHandler)(c)

		var httpErr *errors.HTTPError
		assert.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
		assert.Equal(t, "You are not logged in! Please log in to get access.", httpErr.Message)
	})

	t.Run("revoked token", func(t *testing.T) {
		mockDenylist := new(MockDenylist)
		claims := testClaims(userID)
		mockDenylist.On("IsRevoked", mock.Anything, claims.ID).Return(true)

		c := newTestContext()
		c.Set(ContextClaims, claims)

		err := LoadUser(new(MockUserRepository), mockDenylist)(okHandler)(c)

		var httpErr *errors.HTTPError
		assert.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
		assert.Equal(t, "Invalid token.", httpErr.Message)
	})

	t.Run("user record gone", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockDenylist := new(MockDenylist)
		claims := testClaims(userID)

		mockDenylist.On("IsRevoked", mock.Anything, claims.ID).Return(false)
		mockRepo.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)

		c := newTestContext()
		c.Set(ContextClaims, claims)

		err := LoadUser(mockRepo, mockDenylist)(okHandler)(c)

		var httpErr *errors.HTTPError
		assert.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
		assert.Equal(t, "The user belonging to this token does not exist.", httpErr.Message)
	})

	t.Run("deactivated user", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockDenylist := new(MockDenylist)
		claims := testClaims(userID)

		mockDenylist.On("IsRevoked", mock.Anything, claims.ID).Return(false)
		mockRepo.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID, Active: false}, nil)

		c := newTestContext()
		c.Set(ContextClaims, claims)

		err := LoadUser(mockRepo, mockDenylist)(okHandler)(c)

		var httpErr *errors.HTTPError
		assert.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
	})
}

func TestRequireRoles(t *testing.T) {
	t.Run("allows matching role", func(t *testing.T) {
		c := newTestContext()
		c.Set(ContextUser, &model.User{Role: model.RoleAdmin})

		err := RequireRoles(model.RoleAdmin)(okHandler)(c)
		assert.NoError(t, err)
	})

	t.Run("rejects other roles", func(t *testing.T) {
		c := newTestContext()
		c.Set(ContextUser, &model.User{Role: model.RoleUser})

		err := RequireRoles(model.RoleAdmin)(okHandler)(c)

		var httpErr *errors.HTTPError
		assert.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusForbidden, httpErr.StatusCode)
		assert.Equal(t, "Role 'user' is not permitted to perform this action", httpErr.Message)
	})

	t.Run("rejects anonymous caller", func(t *testing.T) {
		c := newTestContext()

		err := RequireRoles(model.RoleAdmin)(okHandler)(c)

		var httpErr *errors.HTTPError
		assert.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
	})
}
