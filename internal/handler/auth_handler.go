package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/smileie/smileie-backend/internal/middleware"
	"github.com/smileie/smileie-backend/internal/model"
	"github.com/smileie/smileie-backend/internal/response"
	"github.com/smileie/smileie-backend/internal/service"
	"github.com/smileie/smileie-backend/internal/validator"
)

// LoginRecorder queues login events for auditing.
type LoginRecorder interface {
	Enqueue(ctx context.Context, e model.LoginEvent) error
}

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
	audit       LoginRecorder
	log         zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler. audit may be nil.
func NewAuthHandler(authService *service.AuthService, audit LoginRecorder, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		audit:       audit,
		log:         log.With().Str("component", "auth_handler").Logger(),
	}
}

// Login godoc
// POST /api/v1/auth/login
// Validates email + password, persists the session profile, returns JWT.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
			return
		}
		h.log.Error().Err(err).Str("request_id", response.RequestID(c)).Msg("Login failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	h.log.Info().
		Int("user_id", resp.Profile.ID).
		Str("role", string(resp.Profile.Role)).
		Msg("User logged in")

	if h.audit != nil {
		err := h.audit.Enqueue(c.Request.Context(), model.LoginEvent{
			UserID:    resp.Profile.ID,
			SessionID: resp.SessionID,
			Role:      resp.Profile.Role,
			IP:        c.ClientIP(),
			At:        time.Now().UTC(),
		})
		if err != nil {
			h.log.Warn().Err(err).Msg("Login audit enqueue failed")
		}
	}

	response.Success(c, http.StatusOK, resp)
}

// Logout godoc
// POST /api/v1/auth/logout
// Deletes the persisted session; other tabs are told over the session stream.
func (h *AuthHandler) Logout(c *gin.Context) {
	p := middleware.GetSession(c)
	if p == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := p.Logout(c.Request.Context()); err != nil {
		h.log.Error().Err(err).Str("request_id", response.RequestID(c)).Msg("Logout failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"redirect": model.RouteLogin})
}

// Me godoc
// GET /api/v1/auth/me
// Returns the session profile of the caller.
func (h *AuthHandler) Me(c *gin.Context) {
	profile, ok := middleware.GetProfile(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrSessionInvalidated)
		return
	}

	response.Success(c, http.StatusOK, profile)
}
