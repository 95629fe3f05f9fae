package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/smileie/smileie-backend/internal/access"
	"github.com/smileie/smileie-backend/internal/config"
	"github.com/smileie/smileie-backend/internal/guard"
	"github.com/smileie/smileie-backend/internal/model"
	"github.com/smileie/smileie-backend/internal/response"
	"github.com/smileie/smileie-backend/internal/service"
	"github.com/smileie/smileie-backend/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type env struct {
	auth     *service.AuthService
	sessions *session.Manager
	mr       *miniredis.Miniredis
}

func newEnv(t *testing.T) *env {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{JWTSecret: "mw-secret", JWTExpiry: time.Hour}
	sessions := session.NewManager(session.NewRedisStore(rdb), time.Hour, zerolog.Nop())
	return &env{auth: service.NewAuthService(cfg, sessions, nil), sessions: sessions, mr: mr}
}

// login persists a session for role and returns a bearer token for it.
func (e *env) login(t *testing.T, role model.Role) string {
	t.Helper()
	u := &model.User{ID: 1, DisplayName: "Test", Role: role}
	sid := e.sessions.NewSessionID()
	require.NoError(t, e.sessions.NewProvider(sid).Login(context.Background(), u.Profile()))
	token, err := e.auth.GenerateToken(u, sid)
	require.NoError(t, err)
	return token
}

func do(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errCode(t *testing.T, w *httptest.ResponseRecorder) response.ErrCode {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	return body.Error.Code
}

func TestRequireJWT(t *testing.T) {
	e := newEnv(t)
	r := gin.New()
	r.GET("/x", RequireJWT(e.auth), func(c *gin.Context) {
		c.String(http.StatusOK, GetClaims(c).ID)
	})

	w := do(r, "/x", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, response.ErrTokenRequired, errCode(t, w))

	w = do(r, "/x", "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, response.ErrTokenInvalid, errCode(t, w))

	expired := service.NewAuthService(&config.Config{JWTSecret: "mw-secret", JWTExpiry: -time.Minute}, e.sessions, nil)
	token, err := expired.GenerateToken(&model.User{ID: 1, Role: model.RoleAdmin}, "sid")
	require.NoError(t, err)
	w = do(r, "/x", token)
	assert.Equal(t, response.ErrTokenExpired, errCode(t, w))

	token = e.login(t, model.RoleAdmin)
	w = do(r, "/x", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Body.String())

	w = do(r, "/x?token="+token, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireSessionRejectsLoggedOutToken(t *testing.T) {
	e := newEnv(t)
	r := gin.New()
	r.GET("/me", RequireJWT(e.auth), AttachSession(e.sessions), RequireSession(), func(c *gin.Context) {
		profile, _ := GetProfile(c)
		c.String(http.StatusOK, string(profile.Role))
	})

	token := e.login(t, model.RoleDoctor)
	w := do(r, "/me", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "doctor", w.Body.String())

	claims, err := e.auth.ValidateToken(token)
	require.NoError(t, err)
	require.NoError(t, e.sessions.NewProvider(claims.ID).Logout(context.Background()))

	w = do(r, "/me", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, response.ErrSessionInvalidated, errCode(t, w))
}

func TestRouteGuardRedirects(t *testing.T) {
	e := newEnv(t)
	g := guard.New(access.New())

	r := gin.New()
	screens := r.Group("/app", OptionalJWT(e.auth), AttachSession(e.sessions), RouteGuard(g, "/app", zerolog.Nop()))
	screens.GET("/*route", func(c *gin.Context) {
		d, ok := GetDecision(c)
		require.True(t, ok)
		c.String(http.StatusOK, "screen "+d.Route)
	})

	tests := []struct {
		name     string
		role     model.Role
		path     string
		status   int
		location string
	}{
		{"anonymous to login", "", "/app/dashboard", http.StatusFound, "/app/login"},
		{"admin sees doctors", model.RoleAdmin, "/app/doctors", http.StatusOK, ""},
		{"doctor bounced to patients", model.RoleDoctor, "/app/doctors", http.StatusFound, "/app/patients"},
		{"doctor opens a patient", model.RoleDoctor, "/app/patients/42", http.StatusOK, ""},
		{"patient bounced to dashboard", model.RolePatient, "/app/patients/42", http.StatusFound, "/app/dashboard"},
		{"patient unknown route", model.RolePatient, "/app/nowhere", http.StatusFound, "/app/dashboard"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := ""
			if tt.role != "" {
				token = e.login(t, tt.role)
			}
			w := do(r, tt.path, token)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.location, w.Header().Get("Location"))
			if tt.status == http.StatusOK {
				assert.Contains(t, w.Body.String(), "screen /")
			}
		})
	}
}

func TestRequireFeature(t *testing.T) {
	e := newEnv(t)
	r := gin.New()
	r.DELETE("/patients/:id",
		RequireJWT(e.auth), AttachSession(e.sessions), RequireSession(),
		RequireFeature(access.New(), model.FeatureDeletePatients),
		func(c *gin.Context) { c.Status(http.StatusNoContent) },
	)

	del := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodDelete, "/patients/1", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusNoContent, del(e.login(t, model.RoleAdmin)).Code)

	w := del(e.login(t, model.RoleDoctor))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, response.ErrFeatureDenied, errCode(t, w))
}

func TestRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(ctx, 2, time.Minute)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))

	now = now.Add(time.Minute)
	assert.True(t, rl.Allow("a"))

	now = now.Add(10 * time.Minute)
	rl.cleanup()
	rl.mu.Lock()
	assert.Empty(t, rl.visitors)
	rl.mu.Unlock()
}

func TestRateLimiterMiddleware(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := gin.New()
	r.GET("/login", NewRateLimiter(ctx, 1, time.Hour).Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, do(r, "/login", "").Code)
	w := do(r, "/login", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, response.ErrRateLimitExceeded, errCode(t, w))
}

func TestCacheHeaders(t *testing.T) {
	r := gin.New()
	r.GET("/nav", PrivateCache(5*time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/me", NoStore(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := do(r, "/nav", "")
	assert.Equal(t, "private, max-age=300", w.Header().Get("Cache-Control"))
	assert.Equal(t, "Authorization", w.Header().Get("Vary"))

	assert.Equal(t, "no-store", do(r, "/me", "").Header().Get("Cache-Control"))
}
