package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/smileie/smileie-backend/internal/model"
	"github.com/smileie/smileie-backend/internal/response"
	"github.com/smileie/smileie-backend/internal/service"
	"github.com/smileie/smileie-backend/internal/validator"
)

// UserHandler handles dashboard account management.
type UserHandler struct {
	users *service.UserService
	log   zerolog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *service.UserService, log zerolog.Logger) *UserHandler {
	return &UserHandler{
		users: users,
		log:   log.With().Str("component", "user_handler").Logger(),
	}
}

// ListUsers godoc
// GET /api/v1/users?page=1&per_page=10&role=doctor
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 10
	}

	var role model.Role
	if raw := c.Query("role"); raw != "" {
		parsed, ok := model.ParseRole(raw)
		if !ok {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{
				"role": "role must be one of admin, doctor or patient",
			})
			return
		}
		role = parsed
	}

	users, total, err := h.users.ListUsers(c.Request.Context(), role, page, perPage)
	if err != nil {
		h.log.Error().Err(err).Msg("List users failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, users, response.PageOf(page, perPage, total))
}

// CreateUser godoc
// POST /api/v1/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req model.CreateUserRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			response.Fail(c, http.StatusConflict, response.ErrConflict)
			return
		}
		h.log.Error().Err(err).Msg("Create user failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	h.log.Info().Int("user_id", user.ID).Str("role", string(user.Role)).Msg("User created")
	response.Success(c, http.StatusCreated, user)
}
