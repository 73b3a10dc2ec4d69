package testhelpers

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/recipe-api/backend/internal/models"
)

// CreateTestUser stores an active user with a random email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		Email:    fmt.Sprintf("user-%s@example.com", uuid.NewString()),
		Name:     "Test User",
		IsActive: true,
	}
	require.NoError(t, user.SetPassword("testpass123"))
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTestTag stores a tag owned by owner.
func CreateTestTag(t *testing.T, db *gorm.DB, owner uuid.UUID, name string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Attribute: models.Attribute{Name: name, UserID: owner}}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

// CreateTestIngredient stores an ingredient owned by owner.
func CreateTestIngredient(t *testing.T, db *gorm.DB, owner uuid.UUID, name string) *models.Ingredient {
	t.Helper()
	ingredient := &models.Ingredient{Attribute: models.Attribute{Name: name, UserID: owner}}
	require.NoError(t, db.Create(ingredient).Error)
	return ingredient
}

// CreateTestRecipe stores a recipe owned by owner with the given associations.
func CreateTestRecipe(t *testing.T, db *gorm.DB, owner uuid.UUID, title string, tags []models.Tag, ingredients []models.Ingredient) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{
		UserID:      owner,
		Title:       title,
		TimeMinutes: 22,
		Price:       decimal.RequireFromString("5.25"),
		Link:        "http://example.com/recipe.pdf",
		Tags:        tags,
		Ingredients: ingredients,
	}
	require.NoError(t, db.Omit("Tags.*", "Ingredients.*").Create(recipe).Error)
	return recipe
}

// PNG encodes a small solid image.
func PNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for x := 0; x < 10; x++ {
		for y := 0; y < 10; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 80, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
