package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/acedreamer/onam-photo-hub/internal/domain/model"
	pgrepo "github.com/acedreamer/onam-photo-hub/internal/repo/postgres"
	redrepo "github.com/acedreamer/onam-photo-hub/internal/repo/redis"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmailDomain        = errors.New("email domain not allowed")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const minPasswordLen = 8

type UserStore interface {
	Create(ctx context.Context, user model.User) error
	GetByEmail(ctx context.Context, email string) (model.User, error)
}

type ProfileStore interface {
	EnsureExists(ctx context.Context, userID, fullName string) error
}

type SessionStore interface {
	Create(ctx context.Context, refreshToken string, session redrepo.SessionRecord) error
	Get(ctx context.Context, refreshToken string) (redrepo.SessionRecord, error)
	Delete(ctx context.Context, refreshToken string) error
}

type Config struct {
	RefreshTTL time.Duration
	// AllowedEmailDomain restricts sign-up to one institutional domain.
	// Empty accepts any address.
	AllowedEmailDomain string
}

type Service struct {
	jwt      *JWTManager
	users    UserStore
	profiles ProfileStore
	sessions SessionStore
	cfg      Config
	now      func() time.Time
}

type TokenPair struct {
	UserID       string
	Role         string
	AccessToken  string
	ExpiresAt    time.Time
	RefreshToken string
}

func NewService(jwtManager *JWTManager, users UserStore, profiles ProfileStore, sessions SessionStore, cfg Config) *Service {
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 30 * 24 * time.Hour
	}

	return &Service{
		jwt:      jwtManager,
		users:    users,
		profiles: profiles,
		sessions: sessions,
		cfg:      cfg,
		now:      time.Now,
	}
}

// SignUp registers an account, creates its profile row, and issues tokens.
// Registration is restricted to the configured email domain.
func (s *Service) SignUp(ctx context.Context, email, password, fullName string) (TokenPair, error) {
	if s.users == nil || s.jwt == nil {
		return TokenPair{}, fmt.Errorf("auth dependencies are not configured")
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if !validEmail(email) || len(password) < minPasswordLen {
		return TokenPair{}, ErrInvalidInput
	}
	if !s.domainAllowed(email) {
		return TokenPair{}, ErrEmailDomain
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return TokenPair{}, fmt.Errorf("hash password: %w", err)
	}

	user := model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, pgrepo.ErrEmailTaken) {
			return TokenPair{}, ErrEmailTaken
		}
		return TokenPair{}, fmt.Errorf("create user: %w", err)
	}

	if s.profiles != nil {
		if err := s.profiles.EnsureExists(ctx, user.ID, displayNameFrom(fullName, email)); err != nil {
			return TokenPair{}, fmt.Errorf("create profile: %w", err)
		}
	}

	return s.issueTokens(ctx, user.ID, user.Role)
}

func (s *Service) Login(ctx context.Context, email, password string) (TokenPair, error) {
	if s.users == nil || s.jwt == nil {
		return TokenPair{}, fmt.Errorf("auth dependencies are not configured")
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if !validEmail(email) || password == "" {
		return TokenPair{}, ErrInvalidInput
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return TokenPair{}, ErrInvalidCredentials
		}
		return TokenPair{}, fmt.Errorf("load user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return TokenPair{}, ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user.ID, user.Role)
}

// Refresh rotates the refresh token: the presented token is revoked and a new
// pair is issued.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	if s.sessions == nil || s.jwt == nil {
		return TokenPair{}, fmt.Errorf("auth dependencies are not configured")
	}
	if strings.TrimSpace(refreshToken) == "" {
		return TokenPair{}, ErrUnauthorized
	}

	session, err := s.sessions.Get(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, redrepo.ErrSessionNotFound) {
			return TokenPair{}, ErrUnauthorized
		}
		return TokenPair{}, fmt.Errorf("load refresh session: %w", err)
	}
	if s.now().UTC().After(session.ExpiresAt) {
		_ = s.sessions.Delete(ctx, refreshToken)
		return TokenPair{}, ErrUnauthorized
	}

	if err := s.sessions.Delete(ctx, refreshToken); err != nil {
		return TokenPair{}, fmt.Errorf("rotate refresh session: %w", err)
	}

	return s.issueTokens(ctx, session.UserID, session.Role)
}

func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if s.sessions == nil {
		return fmt.Errorf("auth dependencies are not configured")
	}
	if strings.TrimSpace(refreshToken) == "" {
		return nil
	}
	return s.sessions.Delete(ctx, refreshToken)
}

func (s *Service) ValidateAccessToken(_ context.Context, raw string) (AccessClaims, error) {
	if s.jwt == nil {
		return AccessClaims{}, fmt.Errorf("jwt manager is nil")
	}
	return s.jwt.ParseAccessToken(raw)
}

func (s *Service) issueTokens(ctx context.Context, userID, role string) (TokenPair, error) {
	access, expiresAt, err := s.jwt.GenerateAccessToken(userID, role)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}

	refresh := uuid.NewString()
	if s.sessions != nil {
		if err := s.sessions.Create(ctx, refresh, redrepo.SessionRecord{
			UserID:    userID,
			Role:      role,
			ExpiresAt: s.now().UTC().Add(s.cfg.RefreshTTL),
		}); err != nil {
			return TokenPair{}, fmt.Errorf("store refresh session: %w", err)
		}
	}

	return TokenPair{
		UserID:       userID,
		Role:         role,
		AccessToken:  access,
		ExpiresAt:    expiresAt,
		RefreshToken: refresh,
	}, nil
}

func (s *Service) domainAllowed(email string) bool {
	domain := strings.TrimSpace(s.cfg.AllowedEmailDomain)
	if domain == "" {
		return true
	}
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	return strings.EqualFold(email[at+1:], domain)
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t")
}

func displayNameFrom(fullName, email string) string {
	name := strings.TrimSpace(fullName)
	if name != "" {
		return name
	}
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
