package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"vidshare/internal/model"
	"vidshare/internal/pkg/jwtutil"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("no user found with this email")
	ErrInvalidToken       = errors.New("invalid or expired session token")
	ErrTokenRevoked       = errors.New("session token revoked")
)

const minPasswordLen = 8

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// SessionRevoker is the server-side revocation list. Without one, logout
// only discards the client's copy of the token.
type SessionRevoker interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type AuthService struct {
	users         UserStore
	revoker       SessionRevoker
	sessionSecret string
	sessionMaxAge time.Duration
}

type Identity = jwtutil.Identity

// Session is a freshly issued token.
type Session struct {
	Token     string
	Identity  Identity
	ExpiresAt time.Time
}

// SessionView is the per-request view of an authenticated token.
type SessionView struct {
	Identity  Identity
	TokenID   string
	ExpiresAt time.Time
}

func NewAuthService(users UserStore, revoker SessionRevoker, sessionSecret string, sessionMaxAge time.Duration) *AuthService {
	return &AuthService{
		users:         users,
		revoker:       revoker,
		sessionSecret: sessionSecret,
		sessionMaxAge: sessionMaxAge,
	}
}

func (s *AuthService) Register(ctx context.Context, email, password string) (*Identity, error) {
	email = normalizeEmail(email)
	if email == "" || len(password) < minPasswordLen {
		return nil, ErrInvalidInput
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration; the unique index decides.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	log.Info().Str("user_id", user.ID).Msg("user registered")
	return &Identity{ID: user.ID, Email: user.Email}, nil
}

// Authorize checks an email/password pair against the stored bcrypt hash.
func (s *AuthService) Authorize(ctx context.Context, email, password string) (*Identity, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &Identity{ID: user.ID, Email: user.Email}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	identity, err := s.Authorize(ctx, email, password)
	if err != nil {
		return nil, err
	}

	token, claims, err := jwtutil.GenerateToken(s.sessionSecret, s.sessionMaxAge, *identity)
	if err != nil {
		return nil, err
	}
	return &Session{
		Token:     token,
		Identity:  claims.Identity(),
		ExpiresAt: claims.ExpiresAtTime(),
	}, nil
}

// Authenticate verifies a session token and consults the revocation list.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*SessionView, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	claims, err := jwtutil.ParseToken(s.sessionSecret, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if s.revoker != nil {
		revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("check session revocation failed: %w", err)
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}

	return &SessionView{
		Identity:  claims.Identity(),
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAtTime(),
	}, nil
}

// CurrentUser resolves an authenticated session to its stored account. A
// token that outlived its account yields ErrUserNotFound.
func (s *AuthService) CurrentUser(ctx context.Context, session *SessionView) (*Identity, error) {
	user, err := s.users.GetByID(ctx, session.Identity.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return &Identity{ID: user.ID, Email: user.Email}, nil
}

// Logout revokes the token until its natural expiry. Invalid or already
// expired tokens need no revocation and are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" || s.revoker == nil {
		return nil
	}
	claims, err := jwtutil.ParseToken(s.sessionSecret, token)
	if err != nil {
		return nil
	}
	return s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAtTime())
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
