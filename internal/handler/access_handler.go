package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smileie/smileie-backend/internal/access"
	"github.com/smileie/smileie-backend/internal/guard"
	"github.com/smileie/smileie-backend/internal/middleware"
	"github.com/smileie/smileie-backend/internal/model"
	"github.com/smileie/smileie-backend/internal/response"
)

// AccessHandler exposes the access rules as they apply to the caller, so the
// dashboard can hide what it would be refused anyway.
type AccessHandler struct {
	evaluator *access.Evaluator
	guard     *guard.Guard
}

// NewAccessHandler creates a new AccessHandler.
func NewAccessHandler(evaluator *access.Evaluator, g *guard.Guard) *AccessHandler {
	return &AccessHandler{evaluator: evaluator, guard: g}
}

// AccessSummary is what one role may reach.
type AccessSummary struct {
	Role     model.Role      `json:"role"`
	Landing  string          `json:"landing"`
	Routes   []string        `json:"routes"`
	Features []model.Feature `json:"features"`
}

// Summary godoc
// GET /api/v1/access
func (h *AccessHandler) Summary(c *gin.Context) {
	profile, ok := middleware.GetProfile(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrSessionInvalidated)
		return
	}

	response.Success(c, http.StatusOK, AccessSummary{
		Role:     profile.Role,
		Landing:  h.evaluator.LandingRoute(profile.Role),
		Routes:   h.evaluator.AccessibleRoutes(profile.Role),
		Features: h.evaluator.AccessibleFeatures(profile.Role),
	})
}

// CheckRoute godoc
// GET /api/v1/access/route?path=/patients/42
// Returns the guard decision for path without rendering anything.
func (h *AccessHandler) CheckRoute(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{
			"path": "path is a required field",
		})
		return
	}

	p := middleware.GetSession(c)
	if p == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	response.Success(c, http.StatusOK, h.guard.Check(c.Request.Context(), path, p))
}

// CheckFeature godoc
// GET /api/v1/access/features/:feature
// Unknown features are reported as not allowed.
func (h *AccessHandler) CheckFeature(c *gin.Context) {
	profile, ok := middleware.GetProfile(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrSessionInvalidated)
		return
	}

	feature := model.Feature(c.Param("feature"))
	response.Success(c, http.StatusOK, gin.H{
		"feature": feature,
		"allowed": h.evaluator.CanAccessFeature(feature, profile.Role),
	})
}
