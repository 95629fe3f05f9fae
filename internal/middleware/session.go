package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smileie/smileie-backend/internal/model"
	"github.com/smileie/smileie-backend/internal/response"
	"github.com/smileie/smileie-backend/internal/session"
)

const (
	// ContextKeySession is the Gin context key for the request's session provider.
	ContextKeySession = "session"
	// ContextKeyProfile is the Gin context key for the resolved session profile.
	ContextKeyProfile = "profile"
)

// AttachSession gives every request its own session provider keyed by the
// token's session id and starts resolving it. Requests without claims get a
// provider that resolves to no session. The provider is closed when the
// chain returns.
func AttachSession(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := ""
		if claims := GetClaims(c); claims != nil {
			sessionID = claims.ID
		}

		p := sessions.NewProvider(sessionID)
		p.Init(c.Request.Context())
		defer p.Close()

		c.Set(ContextKeySession, p)
		c.Next()
	}
}

// RequireSession rejects requests whose session blob is gone, e.g. after a
// logout elsewhere, even when the token itself is still valid.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := GetSession(c)
		if p == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		profile, ok := p.Resolve(c.Request.Context())
		if !ok {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionInvalidated)
			return
		}

		c.Set(ContextKeyProfile, profile)
		c.Next()
	}
}

// GetSession returns the provider attached by AttachSession.
func GetSession(c *gin.Context) *session.Provider {
	val, exists := c.Get(ContextKeySession)
	if !exists {
		return nil
	}
	p, _ := val.(*session.Provider)
	return p
}

// GetProfile returns the profile resolved by RequireSession.
func GetProfile(c *gin.Context) (model.SessionProfile, bool) {
	val, exists := c.Get(ContextKeyProfile)
	if !exists {
		return model.SessionProfile{}, false
	}
	profile, ok := val.(model.SessionProfile)
	return profile, ok
}
