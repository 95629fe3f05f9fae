package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/smileie/smileie-backend/internal/middleware"
	"github.com/smileie/smileie-backend/internal/navigation"
	"github.com/smileie/smileie-backend/internal/response"
)

// NavigationHandler serves role-filtered menus.
type NavigationHandler struct {
	menus *navigation.Service
	log   zerolog.Logger
}

// NewNavigationHandler creates a new NavigationHandler.
func NewNavigationHandler(menus *navigation.Service, log zerolog.Logger) *NavigationHandler {
	return &NavigationHandler{
		menus: menus,
		log:   log.With().Str("component", "navigation_handler").Logger(),
	}
}

// Menu godoc
// GET /api/v1/navigation/:region
// region is one of header, header-right, sidebar.
func (h *NavigationHandler) Menu(c *gin.Context) {
	profile, ok := middleware.GetProfile(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrSessionInvalidated)
		return
	}

	region, err := navigation.ParseRegion(c.Param("region"))
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrUnknownMenuRegion)
		return
	}

	menu, err := h.menus.Menu(c.Request.Context(), region, profile.Role)
	if err != nil {
		h.log.Error().Err(err).Str("region", string(region)).Msg("Menu build failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, menu)
}
