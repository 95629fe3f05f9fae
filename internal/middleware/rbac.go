package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/smileie/smileie-backend/internal/access"
	"github.com/smileie/smileie-backend/internal/guard"
	"github.com/smileie/smileie-backend/internal/model"
	"github.com/smileie/smileie-backend/internal/response"
)

// ContextKeyDecision is the Gin context key for the guard decision.
const ContextKeyDecision = "guard_decision"

// RouteGuard gates screens mounted under prefix. The dashboard route is the
// request path with prefix removed; only an Authorized decision reaches the
// screen handler, everything else is a 302 to prefix + redirect target.
// Routes listed in public pass through without a decision.
func RouteGuard(g *guard.Guard, prefix string, log zerolog.Logger, public ...string) gin.HandlerFunc {
	log = log.With().Str("component", "route_guard").Logger()

	return func(c *gin.Context) {
		route := strings.TrimPrefix(c.Request.URL.Path, prefix)
		if route == "" {
			route = "/"
		}
		for _, open := range public {
			if strings.TrimSuffix(route, "/") == open {
				c.Next()
				return
			}
		}

		p := GetSession(c)
		if p == nil {
			response.Redirect(c, prefix+model.RouteLogin, response.ErrSessionInvalidated)
			return
		}

		d := g.Check(c.Request.Context(), route, p)
		if d.State == guard.StateAuthorized {
			c.Set(ContextKeyDecision, d)
			c.Next()
			return
		}

		reason := response.ErrRouteRedirect
		if d.Role == "" {
			reason = response.ErrSessionInvalidated
		}

		log.Debug().
			Str("request_id", response.RequestID(c)).
			Str("route", route).
			Str("role", string(d.Role)).
			Str("redirect", d.Redirect).
			Msg("Screen redirected")

		response.Redirect(c, prefix+d.Redirect, reason)
	}
}

// GetDecision returns the decision RouteGuard authorized the request with.
func GetDecision(c *gin.Context) (guard.Decision, bool) {
	val, exists := c.Get(ContextKeyDecision)
	if !exists {
		return guard.Decision{}, false
	}
	d, ok := val.(guard.Decision)
	return d, ok
}

// RequireFeature checks the session role against the feature rule table.
// It must run after RequireSession.
func RequireFeature(evaluator *access.Evaluator, feature model.Feature) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, ok := GetProfile(c)
		if !ok {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionInvalidated)
			return
		}

		if !evaluator.CanAccessFeature(feature, profile.Role) {
			response.AbortFail(c, http.StatusForbidden, response.ErrFeatureDenied)
			return
		}

		c.Next()
	}
}
