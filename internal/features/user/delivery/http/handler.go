package http

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"miniapp-user-backend/internal/common/errors"
	"miniapp-user-backend/internal/common/middleware"
	"miniapp-user-backend/internal/features/user/mapper"
	"miniapp-user-backend/internal/features/user/models"
	"miniapp-user-backend/internal/features/user/service"
)

type UserHandler struct {
	service  service.UserService
	adminIDs []int64
}

func NewUserHandler(service service.UserService, adminIDs []int64) *UserHandler {
	return &UserHandler{
		service:  service,
		adminIDs: adminIDs,
	}
}

// RegisterRoutes expects router to run middleware.TelegramInitData already.
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	users.Use(middleware.RequireIdentity())
	{
		users.GET("/me", h.getMe)
		users.PATCH("/me", h.updateMe)
	}

	// Админские маршруты
	admin := router.Group("/users")
	admin.Use(middleware.RequireAdmin(h.adminIDs))
	{
		admin.GET("/:id/exists", h.userExists)
	}
}

// @Summary Get current user
// @Description Returns the user record of the init data owner, creating it on first access.
// @Tags users
// @Produce json
// @Security TelegramInitData
// @Success 200 {object} models.User "Existing user"
// @Success 201 {object} models.User "User created by this request"
// @Failure 400 {object} middleware.ErrorResponse "Invalid profile in init data"
// @Failure 401 {object} middleware.ErrorResponse "Missing or invalid init data"
// @Failure 503 {object} middleware.ErrorResponse "User store unavailable"
// @Router /users/me [get]
func (h *UserHandler) getMe(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)

	user, created, err := h.service.GetOrCreate(c.Request.Context(), identity.ID, mapper.ToProfileHints(identity))
	if err != nil {
		middleware.Abort(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, user)
}

// @Summary Update current user
// @Description Partially updates the current user. Omitted fields are left untouched, user_data is replaced as a whole.
// @Tags users
// @Accept json
// @Produce json
// @Security TelegramInitData
// @Param user body models.UpdateUserRequest true "Fields to update"
// @Success 200 {object} models.User "Updated user"
// @Failure 400 {object} middleware.ErrorResponse "Validation error"
// @Failure 401 {object} middleware.ErrorResponse "Missing or invalid init data"
// @Failure 404 {object} middleware.ErrorResponse "User not found"
// @Failure 413 {object} middleware.ErrorResponse "user_data exceeds 10 KiB"
// @Failure 503 {object} middleware.ErrorResponse "User store unavailable"
// @Router /users/me [patch]
func (h *UserHandler) updateMe(c *gin.Context) {
	identity, _ := middleware.GetIdentity(c)

	// UseNumber keeps large integers in user_data intact
	var input models.UpdateUserRequest
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	if err := dec.Decode(&input); err != nil {
		middleware.Abort(c, errors.New(errors.ErrCodeBadRequest, "Invalid request body").WithDetail("reason", err.Error()))
		return
	}

	user, err := h.service.Update(c.Request.Context(), identity.ID, mapper.ToUserPatch(&input))
	if err != nil {
		middleware.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// @Summary Check user existence
// @Description Reports whether a record exists for the telegram id (admin only)
// @Tags users
// @Produce json
// @Security TelegramInitData
// @Param id path string true "Telegram user id"
// @Success 200 {object} models.ExistsResponse
// @Failure 401 {object} middleware.ErrorResponse "Unauthorized"
// @Failure 403 {object} middleware.ErrorResponse "Forbidden - not an admin"
// @Failure 503 {object} middleware.ErrorResponse "User store unavailable"
// @Router /users/{id}/exists [get]
func (h *UserHandler) userExists(c *gin.Context) {
	id := c.Param("id")

	exists, err := h.service.Exists(c.Request.Context(), id)
	if err != nil {
		middleware.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ExistsResponse{TelegramID: id, Exists: exists})
}
