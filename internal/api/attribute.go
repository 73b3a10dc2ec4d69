package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-api/backend/internal/models"
	"github.com/pageza/recipe-api/backend/internal/service"
	"github.com/pageza/recipe-api/backend/internal/types"
)

// AttributeHandler serves the owner-scoped tag and ingredient endpoints.
type AttributeHandler[T any, PT models.AttributeModel[T]] struct {
	svc service.IAttributeService[T, PT]
}

func NewAttributeHandler[T any, PT models.AttributeModel[T]](svc service.IAttributeService[T, PT]) *AttributeHandler[T, PT] {
	return &AttributeHandler[T, PT]{svc: svc}
}

// RegisterRoutes expects a group already behind AuthMiddleware.
func (h *AttributeHandler[T, PT]) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("", h.List)
	group.POST("", h.Create)
	group.PATCH("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
}

func (h *AttributeHandler[T, PT]) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	assignedOnly, ok := queryFlag(c, "assigned_only")
	if !ok {
		return
	}

	items, err := h.svc.List(c.Request.Context(), userID, service.ListAttributesOptions{AssignedOnly: assignedOnly})
	if err != nil {
		c.Error(err)
		return
	}

	out := make([]types.AttributeResponse, len(items))
	for i := range items {
		out[i] = types.NewAttributeResponse(PT(&items[i]).Base())
	}
	c.JSON(http.StatusOK, out)
}

func (h *AttributeHandler[T, PT]) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	req, ok := h.bind(c)
	if !ok {
		return
	}

	item, err := h.svc.Create(c.Request.Context(), userID, req.Name)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, types.NewAttributeResponse(item.Base()))
}

func (h *AttributeHandler[T, PT]) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	req, ok := h.bind(c)
	if !ok {
		return
	}

	item, err := h.svc.Update(c.Request.Context(), userID, id, req.Name)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, types.NewAttributeResponse(item.Base()))
}

func (h *AttributeHandler[T, PT]) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userID, id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AttributeHandler[T, PT]) bind(c *gin.Context) (*types.AttributeRequest, bool) {
	var req types.AttributeRequest
	if !bindJSON(c, &req) {
		return nil, false
	}
	if err := req.Validate(); err != nil {
		c.Error(err)
		return nil, false
	}
	return &req, true
}
