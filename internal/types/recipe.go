package types

import (
	"github.com/pageza/recipe-api/backend/internal/models"
)

// Representation selects how a recipe is rendered for a given action.
type Representation int

const (
	// RepresentationList is used by list, create and update responses.
	RepresentationList Representation = iota
	// RepresentationDetail expands tags and ingredients inline.
	RepresentationDetail
	// RepresentationImage carries only the id and image.
	RepresentationImage
)

// AttributeResponse is the wire form of a tag or ingredient
type AttributeResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// NewAttributeResponse renders the shared tag/ingredient columns.
func NewAttributeResponse(a *models.Attribute) AttributeResponse {
	return AttributeResponse{ID: a.ID, Name: a.Name}
}

// RecipeResponse references tags and ingredients by id
type RecipeResponse struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	TimeMinutes int     `json:"time_minutes"`
	Price       string  `json:"price"`
	Ingredients []uint  `json:"ingredients"`
	Tags        []uint  `json:"tags"`
	Link        string  `json:"link"`
	Image       *string `json:"image"`
}

// RecipeDetailResponse nests full tag and ingredient objects
type RecipeDetailResponse struct {
	ID          uint                `json:"id"`
	Title       string              `json:"title"`
	TimeMinutes int                 `json:"time_minutes"`
	Price       string              `json:"price"`
	Ingredients []AttributeResponse `json:"ingredients"`
	Tags        []AttributeResponse `json:"tags"`
	Link        string              `json:"link"`
	Image       *string             `json:"image"`
}

// RecipeImageResponse is returned by the image upload
type RecipeImageResponse struct {
	ID    uint    `json:"id"`
	Image *string `json:"image"`
}

// ImageURLFunc turns a stored image key into the URL clients fetch it from.
type ImageURLFunc func(key string) string

type recipeBuilder func(r *models.Recipe, imageURL ImageURLFunc) any

var recipeBuilders = map[Representation]recipeBuilder{
	RepresentationList:   buildRecipe,
	RepresentationDetail: buildRecipeDetail,
	RepresentationImage:  buildRecipeImage,
}

// RecipeRenderer renders recipes in the representation an action asks for.
type RecipeRenderer struct {
	imageURL ImageURLFunc
}

// NewRecipeRenderer creates a renderer resolving image URLs with imageURL.
func NewRecipeRenderer(imageURL ImageURLFunc) *RecipeRenderer {
	if imageURL == nil {
		imageURL = func(key string) string { return key }
	}
	return &RecipeRenderer{imageURL: imageURL}
}

// Render renders a single recipe. Unknown representations fall back to the
// list form.
func (rr *RecipeRenderer) Render(rep Representation, r *models.Recipe) any {
	build, ok := recipeBuilders[rep]
	if !ok {
		build = buildRecipe
	}
	return build(r, rr.imageURL)
}

// RenderMany renders a slice of recipes.
func (rr *RecipeRenderer) RenderMany(rep Representation, recipes []models.Recipe) []any {
	out := make([]any, len(recipes))
	for i := range recipes {
		out[i] = rr.Render(rep, &recipes[i])
	}
	return out
}

func buildRecipe(r *models.Recipe, imageURL ImageURLFunc) any {
	return RecipeResponse{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price.StringFixed(2),
		Ingredients: r.IngredientIDs(),
		Tags:        r.TagIDs(),
		Link:        r.Link,
		Image:       imageField(r.Image, imageURL),
	}
}

func buildRecipeDetail(r *models.Recipe, imageURL ImageURLFunc) any {
	tags := make([]AttributeResponse, len(r.Tags))
	for i := range r.Tags {
		tags[i] = NewAttributeResponse(&r.Tags[i].Attribute)
	}
	ingredients := make([]AttributeResponse, len(r.Ingredients))
	for i := range r.Ingredients {
		ingredients[i] = NewAttributeResponse(&r.Ingredients[i].Attribute)
	}

	return RecipeDetailResponse{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price.StringFixed(2),
		Ingredients: ingredients,
		Tags:        tags,
		Link:        r.Link,
		Image:       imageField(r.Image, imageURL),
	}
}

func buildRecipeImage(r *models.Recipe, imageURL ImageURLFunc) any {
	return RecipeImageResponse{
		ID:    r.ID,
		Image: imageField(r.Image, imageURL),
	}
}

func imageField(key string, imageURL ImageURLFunc) *string {
	if key == "" {
		return nil
	}
	url := imageURL(key)
	return &url
}
