package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-api/backend/internal/service"
	"github.com/pageza/recipe-api/backend/internal/types"
)

// maxImageBytes caps the multipart body of an image upload.
const maxImageBytes = 10 << 20

type RecipeHandler struct {
	recipes  service.IRecipeService
	renderer *types.RecipeRenderer
	limiters RateLimiters
}

func NewRecipeHandler(recipes service.IRecipeService, limiters RateLimiters) *RecipeHandler {
	return &RecipeHandler{
		recipes:  recipes,
		renderer: types.NewRecipeRenderer(recipes.ImageURL),
		limiters: limiters,
	}
}

// RegisterRoutes expects a group already behind AuthMiddleware.
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	if h.limiters.RecipeWrite != nil {
		recipes.Use(h.limiters.RecipeWrite.Middleware())
	}
	{
		recipes.GET("", h.ListRecipes)
		recipes.POST("", h.CreateRecipe)
		recipes.GET("/:id", h.GetRecipe)
		recipes.PUT("/:id", h.UpdateRecipe)
		recipes.PATCH("/:id", h.PartialUpdateRecipe)
		recipes.DELETE("/:id", h.DeleteRecipe)
	}

	upload := []gin.HandlerFunc{h.UploadImage}
	if h.limiters.ImageUpload != nil {
		upload = append([]gin.HandlerFunc{h.limiters.ImageUpload.PerRecipeMiddleware()}, upload...)
	}
	recipes.POST("/:id/upload-image", upload...)
	recipes.PATCH("/:id/upload-image", upload...)
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	tagIDs, ok := queryIDs(c, "tags")
	if !ok {
		return
	}
	ingredientIDs, ok := queryIDs(c, "ingredients")
	if !ok {
		return
	}

	recipes, err := h.recipes.List(c.Request.Context(), userID, service.RecipeFilter{
		TagIDs:        tagIDs,
		IngredientIDs: ingredientIDs,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, h.renderer.RenderMany(types.RepresentationList, recipes))
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	recipe, err := h.recipes.Get(c.Request.Context(), userID, id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, h.renderer.Render(types.RepresentationDetail, recipe))
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	req, ok := bindRecipe(c, false)
	if !ok {
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), userID, req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, h.renderer.Render(types.RepresentationList, recipe))
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	h.update(c, false)
}

func (h *RecipeHandler) PartialUpdateRecipe(c *gin.Context) {
	h.update(c, true)
}

func (h *RecipeHandler) update(c *gin.Context, partial bool) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	req, ok := bindRecipe(c, partial)
	if !ok {
		return
	}

	recipe, err := h.recipes.Update(c.Request.Context(), userID, id, req, partial)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, h.renderer.Render(types.RepresentationList, recipe))
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.recipes.Delete(c.Request.Context(), userID, id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) UploadImage(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageBytes)
	file, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || c.Request.ContentLength > maxImageBytes {
			c.Error(types.NewValidationError("image", fmt.Sprintf("Ensure the upload is at most %d MB.", maxImageBytes>>20)))
			return
		}
		c.Error(types.NewValidationError("image", "No file was submitted."))
		return
	}
	f, err := file.Open()
	if err != nil {
		c.Error(err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.Error(err)
		return
	}

	recipe, err := h.recipes.UploadImage(c.Request.Context(), userID, id, file.Filename, data)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, h.renderer.Render(types.RepresentationImage, recipe))
}

func bindRecipe(c *gin.Context, partial bool) (*types.RecipeRequest, bool) {
	var req types.RecipeRequest
	if !bindJSON(c, &req) {
		return nil, false
	}
	if err := req.Validate(partial); err != nil {
		c.Error(err)
		return nil, false
	}
	return &req, true
}
