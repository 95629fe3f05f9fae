package service

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/smileie/smileie-backend/internal/config"
	"github.com/smileie/smileie-backend/internal/model"
	"github.com/smileie/smileie-backend/internal/repository"
	"github.com/smileie/smileie-backend/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// memoryUsers is an in-memory UserStore.
type memoryUsers struct {
	mu     sync.Mutex
	nextID int
	users  []model.User
}

func (m *memoryUsers) GetByID(_ context.Context, id int) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryUsers) Create(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	m.nextID++
	u.ID = m.nextID
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.users = append(m.users, *u)
	return nil
}

func (m *memoryUsers) List(_ context.Context, role model.Role, limit, offset int) ([]model.User, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []model.User
	for _, u := range m.users {
		if role == "" || u.Role == role {
			matched = append(matched, u)
		}
	}
	total := len(matched)
	if offset >= total {
		return []model.User{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

type fixture struct {
	auth     *AuthService
	users    *UserService
	sessions *session.Manager
	mr       *miniredis.Miniredis
	rdb      *redis.Client
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{
		JWTSecret:  "test-secret",
		JWTExpiry:  time.Hour,
		BcryptCost: bcrypt.MinCost,
	}
	sessions := session.NewManager(session.NewRedisStore(rdb), time.Hour, zerolog.Nop())
	auth := NewAuthService(cfg, sessions, nil)
	users := NewUserService(&memoryUsers{}, auth)
	auth.SetAccounts(users)

	return &fixture{auth: auth, users: users, sessions: sessions, mr: mr, rdb: rdb}
}

func (f *fixture) createUser(t *testing.T, email string, role model.Role) *model.User {
	t.Helper()
	u, err := f.users.CreateUser(context.Background(), model.CreateUserRequest{
		Email:       email,
		DisplayName: "Test " + string(role),
		Password:    "secret123",
		Role:        role,
	})
	require.NoError(t, err)
	return u
}

func TestLoginPersistsSessionAndSignsToken(t *testing.T) {
	f := newFixture(t)
	u := f.createUser(t, "doc@smileie.test", model.RoleDoctor)

	resp, err := f.auth.Login(context.Background(), "doc@smileie.test", "secret123")
	require.NoError(t, err)
	assert.Equal(t, u.Profile(), resp.Profile)

	claims, err := f.auth.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, model.RoleDoctor, claims.Role)
	assert.Equal(t, strconv.Itoa(u.ID), claims.Subject)
	require.NotEmpty(t, claims.ID)

	assert.True(t, f.mr.Exists(config.CacheKey.SessionKey(claims.ID)))

	profile, ok := f.sessions.NewProvider(claims.ID).Resolve(context.Background())
	require.True(t, ok)
	assert.Equal(t, resp.Profile, profile)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := newFixture(t)
	f.createUser(t, "admin@smileie.test", model.RoleAdmin)

	_, err := f.auth.Login(context.Background(), "admin@smileie.test", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.auth.Login(context.Background(), "nobody@smileie.test", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	assert.Empty(t, f.mr.Keys())
}

func TestLogoutDeletesSession(t *testing.T) {
	f := newFixture(t)
	f.createUser(t, "pat@smileie.test", model.RolePatient)

	resp, err := f.auth.Login(context.Background(), "pat@smileie.test", "secret123")
	require.NoError(t, err)
	claims, err := f.auth.ValidateToken(resp.Token)
	require.NoError(t, err)

	require.NoError(t, f.sessions.NewProvider(claims.ID).Logout(context.Background()))
	assert.False(t, f.mr.Exists(config.CacheKey.SessionKey(claims.ID)))

	_, ok := f.sessions.NewProvider(claims.ID).Resolve(context.Background())
	assert.False(t, ok)
}

func TestValidateTokenRejects(t *testing.T) {
	f := newFixture(t)
	u := &model.User{ID: 1, Role: model.RoleAdmin}

	t.Run("wrong secret", func(t *testing.T) {
		other := NewAuthService(&config.Config{JWTSecret: "other", JWTExpiry: time.Hour}, f.sessions, nil)
		token, err := other.GenerateToken(u, "sid")
		require.NoError(t, err)
		_, err = f.auth.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		expired := NewAuthService(&config.Config{JWTSecret: "test-secret", JWTExpiry: -time.Minute}, f.sessions, nil)
		token, err := expired.GenerateToken(u, "sid")
		require.NoError(t, err)
		_, err = f.auth.ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("missing session id", func(t *testing.T) {
		token, err := f.auth.GenerateToken(u, "")
		require.NoError(t, err)
		_, err = f.auth.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := f.auth.ValidateToken("not-a-token")
		assert.Error(t, err)
	})
}
