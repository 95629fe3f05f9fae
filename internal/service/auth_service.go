package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/smileie/smileie-backend/internal/config"
	"github.com/smileie/smileie-backend/internal/model"
	"github.com/smileie/smileie-backend/internal/session"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Claims extends JWT standard claims with app-specific fields. The JWT ID is
// the session id; the session blob it points at, not the token, is the
// authority on who is logged in.
type Claims struct {
	jwt.RegisteredClaims
	UserID int        `json:"user_id"`
	Role   model.Role `json:"role"`
}

// AccountLookup finds accounts by login email.
type AccountLookup interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// AuthService handles passwords, JWTs and session creation at login.
type AuthService struct {
	cfg      *config.Config
	sessions *session.Manager
	accounts AccountLookup
}

// NewAuthService creates a new AuthService. accounts may be set later with
// SetAccounts when the lookup itself depends on the AuthService.
func NewAuthService(cfg *config.Config, sessions *session.Manager, accounts AccountLookup) *AuthService {
	return &AuthService{cfg: cfg, sessions: sessions, accounts: accounts}
}

// SetAccounts installs the account lookup used by Login.
func (s *AuthService) SetAccounts(accounts AccountLookup) {
	s.accounts = accounts
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// Login verifies credentials, persists a fresh session blob and returns a
// token bound to that session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.LoginResponse, error) {
	user, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	if err := s.CheckPassword(user.PasswordHash, password); err != nil {
		return nil, err
	}
	if !user.Role.Valid() {
		return nil, ErrInvalidCredentials
	}

	sessionID := s.sessions.NewSessionID()
	profile := user.Profile()
	if err := s.sessions.NewProvider(sessionID).Login(ctx, profile); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	token, err := s.GenerateToken(user, sessionID)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &model.LoginResponse{Token: token, Profile: profile, SessionID: sessionID}, nil
}

// GenerateToken creates a JWT for user bound to sessionID.
func (s *AuthService) GenerateToken(user *model.User, sessionID string) (string, error) {
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   strconv.Itoa(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		UserID: user.ID,
		Role:   user.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.ID == "" {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}
