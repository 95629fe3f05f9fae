package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/smileie/smileie-backend/internal/access"
	"github.com/smileie/smileie-backend/internal/config"
	"github.com/smileie/smileie-backend/internal/guard"
	"github.com/smileie/smileie-backend/internal/handler"
	"github.com/smileie/smileie-backend/internal/middleware"
	"github.com/smileie/smileie-backend/internal/model"
	"github.com/smileie/smileie-backend/internal/response"
	"github.com/smileie/smileie-backend/internal/session"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Access     *handler.AccessHandler
	Navigation *handler.NavigationHandler
	User       *handler.UserHandler
	Screen     *handler.ScreenHandler
	WS         *handler.WSHandler
}

// Deps are the shared gate components the middlewares need.
type Deps struct {
	Tokens    middleware.TokenValidator
	Sessions  *session.Manager
	Evaluator *access.Evaluator
	Guard     *guard.Guard
	Log       zerolog.Logger
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// ctx bounds background work started for the router, such as the login
// rate limiter's sweeper.
func SetupRouter(ctx context.Context, deps Deps, handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Location"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(
		response.RequestIDMiddleware(),
		middleware.RequestLogger(deps.Log),
		gin.Recovery(),
	)

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	requireJWT := middleware.RequireJWT(deps.Tokens)
	attachSession := middleware.AttachSession(deps.Sessions)
	requireSession := middleware.RequireSession()

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	loginLimiter := middleware.NewRateLimiter(ctx, cfg.LoginRatePerMinute, time.Minute)

	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/login", loginLimiter.Middleware(), handlers.Auth.Login)
		auth.POST("/logout", requireJWT, attachSession, handlers.Auth.Logout)
		auth.GET("/me", middleware.NoStore(), requireJWT, attachSession, requireSession, handlers.Auth.Me)
	}

	// ─── 2. Dashboard API (JWT + live session) ─────────────────────────
	api := router.Group("/api/v1")
	api.Use(requireJWT, attachSession, requireSession)
	{
		api.GET("/access", middleware.NoStore(), handlers.Access.Summary)
		api.GET("/access/route", middleware.NoStore(), handlers.Access.CheckRoute)
		api.GET("/access/features/:feature", middleware.NoStore(), handlers.Access.CheckFeature)

		api.GET("/navigation/:region",
			middleware.PrivateCache(cfg.NavCacheTTL),
			handlers.Navigation.Menu,
		)

		api.GET("/users",
			middleware.RequireFeature(deps.Evaluator, model.FeatureManageUsers),
			handlers.User.ListUsers,
		)
		api.POST("/users",
			middleware.RequireFeature(deps.Evaluator, model.FeatureManageUsers),
			handlers.User.CreateUser,
		)
	}

	// ─── 3. Guarded Screens ────────────────────────────────────────────
	screens := router.Group(handler.ScreenPrefix)
	screens.Use(
		middleware.NoStore(),
		middleware.OptionalJWT(deps.Tokens),
		attachSession,
		middleware.RouteGuard(deps.Guard, handler.ScreenPrefix, deps.Log, model.RouteLogin),
	)
	{
		screens.GET("/*route", handlers.Screen.Show)
	}

	// ─── 4. WebSocket Group (token query param) ────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(requireJWT, attachSession, requireSession)
	{
		ws.GET("/session", handlers.WS.SessionStream)
	}

	return router
}
