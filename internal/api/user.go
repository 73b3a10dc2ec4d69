package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-api/backend/internal/models"
	"github.com/pageza/recipe-api/backend/internal/service"
	"github.com/pageza/recipe-api/backend/internal/types"
)

// UserHandler serves account creation, token issuance and the caller's own
// account.
type UserHandler struct {
	users service.IUserService
	auth  service.IAuthService
}

func NewUserHandler(users service.IUserService, auth service.IAuthService) *UserHandler {
	return &UserHandler{users: users, auth: auth}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	users := router.Group("/users")
	{
		users.POST("", h.CreateUser)
		users.POST("/token", h.CreateToken)
		users.GET("/me", authMiddleware, h.GetMe)
		users.PATCH("/me", authMiddleware, h.UpdateMe)
	}
}

func newUserResponse(u *models.User) types.UserResponse {
	return types.UserResponse{ID: u.ID.String(), Email: u.Email, Name: u.Name}
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req types.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), req.Email, req.Password, service.WithName(req.Name))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, newUserResponse(user))
}

func (h *UserHandler) CreateToken(c *gin.Context) {
	var req types.TokenRequest
	if !bindJSON(c, &req) {
		return
	}

	token, expiresAt, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, types.ErrInvalidCredentials) {
			c.Error(types.NewValidationError("non_field_errors", err.Error()))
			return
		}
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.TokenResponse{Token: token, ExpiresAt: expiresAt.Unix()})
}

func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req types.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.users.UpdateUser(c.Request.Context(), userID, req.Name, req.Password)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user))
}
