package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smileie/smileie-backend/internal/middleware"
	"github.com/smileie/smileie-backend/internal/model"
	"github.com/smileie/smileie-backend/internal/response"
)

// ScreenPrefix is where dashboard screens are mounted.
const ScreenPrefix = "/app"

// ScreenHandler stands in for the dashboard screens. The screens render in
// the browser; the server only confirms which screen was mounted and for
// whom, after RouteGuard has authorized it.
type ScreenHandler struct{}

// NewScreenHandler creates a new ScreenHandler.
func NewScreenHandler() *ScreenHandler {
	return &ScreenHandler{}
}

// Show godoc
// GET /app/*route
func (h *ScreenHandler) Show(c *gin.Context) {
	if d, ok := middleware.GetDecision(c); ok {
		response.Success(c, http.StatusOK, gin.H{
			"screen": d.Route,
			"role":   d.Role,
		})
		return
	}

	// Only public screens get here without a decision.
	if strings.TrimSuffix(c.Param("route"), "/") == model.RouteLogin {
		response.Success(c, http.StatusOK, gin.H{"screen": model.RouteLogin})
		return
	}

	response.Redirect(c, ScreenPrefix+model.RouteLogin, response.ErrSessionInvalidated)
}
