package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"digikart/internal/auth"
	"digikart/internal/errors"
	"digikart/internal/mailer"
	"digikart/internal/metrics"
	"digikart/internal/model"
	"digikart/internal/repository"
)

const bcryptCost = 10

// AuthService orchestrates the session lifecycle: registration, login,
// refresh, logout and password changes.
type AuthService interface {
	Register(ctx context.Context, name, mobile, email, password, role string) (user *model.User, accessToken, refreshToken string, err error)
	Login(ctx context.Context, email, password string) (user *model.User, accessToken, refreshToken string, err error)
	Refresh(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, userID uuid.UUID, accessTokenID string, remaining time.Duration) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) (*model.User, error)
}

type authService struct {
	users    repository.UserRepository
	tokens   *auth.TokenService
	denylist auth.DenylistInterface
	mail     mailer.Mailer
	log      zerolog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	denylist auth.DenylistInterface,
	mail mailer.Mailer,
	log zerolog.Logger,
) AuthService {
	return &authService{
		users:    users,
		tokens:   tokens,
		denylist: denylist,
		mail:     mail,
		log:      log,
	}
}

// Register creates a new user, hashes the password and opens a session.
func (s *authService) Register(ctx context.Context, name, mobile, email, password, role string) (*model.User, string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	mobile = strings.TrimSpace(mobile)

	existing, err := s.users.FindByEmailOrMobile(ctx, email, mobile)
	if err == nil && existing != nil {
		return nil, "", "", errors.ErrUserExists
	}
	if err != nil && !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, "", "", fmt.Errorf("hash password: %w", err)
	}

	if role != model.RoleAdmin {
		role = model.RoleUser
	}

	user := &model.User{
		ID:           uuid.New(),
		Name:         name,
		Mobile:       mobile,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
		Active:       true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", "", fmt.Errorf("create user: %w", err)
	}

	accessToken, refreshToken, err := s.openSession(ctx, user)
	if err != nil {
		return nil, "", "", err
	}

	// Welcome mail is best effort and must never block registration.
	go func(name, email string) {
		if err := s.mail.SendWelcome(name, email); err != nil {
			s.log.Warn().Err(err).Str("email", email).Msg("welcome mail failed")
		}
	}(user.Name, user.Email)

	metrics.RegistrationsTotal.Inc()
	return user, accessToken, refreshToken, nil
}

// Login authenticates a user and opens a fresh session, overwriting any
// previously stored refresh token. This is the rotation point.
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", "", errors.ErrUserNotFound
		}
		return nil, "", "", fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", errors.ErrInvalidCredentials
	}

	if !user.Active {
		return nil, "", "", errors.ErrUserInactive
	}

	accessToken, refreshToken, err := s.openSession(ctx, user)
	if err != nil {
		return nil, "", "", err
	}

	metrics.LoginsTotal.Inc()
	return user, accessToken, refreshToken, nil
}

// Refresh validates a refresh token against the stored one and issues a
// new access token. A presented token that no longer matches the stored
// one is treated as replay: the stored token is invalidated so the
// superseded session dies too.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return "", errors.ErrInvalidRefreshToken
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return "", errors.ErrInvalidRefreshToken
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return "", errors.ErrInvalidRefreshToken
	}

	if !user.Active {
		return "", errors.ErrInvalidRefreshToken
	}

	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		// Reuse after rotation or logout. Kill the stored session as well.
		if err := s.users.UpdateRefreshToken(ctx, user.ID, ""); err != nil {
			s.log.Error().Err(err).Str("user_id", user.ID.String()).Msg("clear refresh token failed")
		}
		metrics.RefreshReplaysTotal.Inc()
		return "", errors.ErrInvalidRefreshToken
	}

	accessToken, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}

	metrics.TokenRefreshesTotal.Inc()
	return accessToken, nil
}

// Logout clears the stored refresh token and revokes the presented
// access token for the remainder of its lifetime.
func (s *authService) Logout(ctx context.Context, userID uuid.UUID, accessTokenID string, remaining time.Duration) error {
	if err := s.users.UpdateRefreshToken(ctx, userID, ""); err != nil {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	_ = s.denylist.Revoke(ctx, accessTokenID, remaining)
	return nil
}

// UpdatePassword verifies the current password, persists a new hash and
// revokes the stored refresh token so stolen sessions do not survive a
// password change.
func (s *authService) UpdatePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return nil, errors.ErrWrongPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = string(hashedPassword)
	user.RefreshToken = ""
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	return user, nil
}

// openSession issues both tokens and stores the refresh token on the record.
func (s *authService) openSession(ctx context.Context, user *model.User) (string, string, error) {
	accessToken, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return "", "", fmt.Errorf("issue access token: %w", err)
	}

	refreshToken, err := s.tokens.IssueRefreshToken(user)
	if err != nil {
		return "", "", fmt.Errorf("issue refresh token: %w", err)
	}

	if err := s.users.UpdateRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return "", "", fmt.Errorf("store refresh token: %w", err)
	}
	user.RefreshToken = refreshToken

	return accessToken, refreshToken, nil
}
