package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/media2net-app/bloemenvandegier-sub001/internal/users"
	pkgauth "github.com/media2net-app/bloemenvandegier-sub001/pkg/auth"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/config"
	"github.com/media2net-app/bloemenvandegier-sub001/pkg/db/models"
	pkgerrors "github.com/media2net-app/bloemenvandegier-sub001/pkg/errors"
)

type userFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type sessionStore interface {
	StoreRefreshToken(ctx context.Context, userID, token string, ttl time.Duration) error
	GetRefreshToken(ctx context.Context, userID string) (string, error)
	RevokeRefreshToken(ctx context.Context, userID string) error
}

type passwordVerifier func(password, encoded string) (bool, error)

// TokenPairDTO is the response shape of login and refresh.
type TokenPairDTO struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	TokenType    string         `json:"token_type"`
	ExpiresIn    int64          `json:"expires_in"`
	User         *users.UserDTO `json:"user"`
}

// Service issues and revokes sessions.
type Service interface {
	Login(ctx context.Context, email, password string) (*TokenPairDTO, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPairDTO, error)
	Logout(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	users    userFinder
	sessions sessionStore
	verify   passwordVerifier
	jwt      config.JWTConfig
	now      func() time.Time
}

// NewService constructs the auth service.
func NewService(userRepo userFinder, sessions sessionStore, verify passwordVerifier, jwt config.JWTConfig) (Service, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session store required")
	}
	if verify == nil {
		return nil, fmt.Errorf("password verifier required")
	}
	return &service{
		users:    userRepo,
		sessions: sessions,
		verify:   verify,
		jwt:      jwt,
		now:      time.Now,
	}, nil
}

var errInvalidCredentials = pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")

func (s *service) Login(ctx context.Context, email, password string) (*TokenPairDTO, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, errInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
	}

	ok, err := s.verify(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying password")
	}
	if !ok {
		return nil, errInvalidCredentials
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account is disabled")
	}

	return s.issue(ctx, user)
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (*TokenPairDTO, error) {
	userPart, _, found := strings.Cut(refreshToken, ".")
	if !found {
		return nil, errInvalidCredentials
	}
	userID, err := uuid.Parse(userPart)
	if err != nil {
		return nil, errInvalidCredentials
	}

	stored, err := s.sessions.GetRefreshToken(ctx, userID.String())
	if err != nil {
		return nil, errInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(refreshToken)) != 1 {
		return nil, errInvalidCredentials
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading user")
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account is disabled")
	}

	// Rotation: the presented token is spent the moment a new pair is issued.
	return s.issue(ctx, user)
}

func (s *service) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.sessions.RevokeRefreshToken(ctx, userID.String()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoking session")
	}
	return nil
}

func (s *service) issue(ctx context.Context, user *models.User) (*TokenPairDTO, error) {
	access, err := pkgauth.MintAccessToken(s.jwt, s.now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}

	refresh := fmt.Sprintf("%s.%s", user.ID, uuid.NewString())
	if err := s.sessions.StoreRefreshToken(ctx, user.ID.String(), refresh, s.jwt.RefreshTokenTTL()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storing session")
	}

	return &TokenPairDTO{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.jwt.ExpirationMinutes) * 60,
		User:         users.NewUserDTO(user),
	}, nil
}
