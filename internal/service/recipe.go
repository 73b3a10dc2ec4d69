package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pageza/recipe-api/backend/internal/models"
	"github.com/pageza/recipe-api/backend/internal/types"
)

// RecipeFilter restricts a recipe listing. Empty slices do not filter.
type RecipeFilter struct {
	TagIDs        []uint
	IngredientIDs []uint
}

// TagService and IngredientService are the attribute services recipes
// resolve their associations through.
type (
	TagService        = AttributeService[models.Tag, *models.Tag]
	IngredientService = AttributeService[models.Ingredient, *models.Ingredient]
)

// RecipeService handles recipe-related business logic
type RecipeService struct {
	db          *gorm.DB
	tags        *TagService
	ingredients *IngredientService
	images      *ImageService
	log         logrus.FieldLogger
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, tags *TagService, ingredients *IngredientService, images *ImageService, log logrus.FieldLogger) *RecipeService {
	return &RecipeService{
		db:          db,
		tags:        tags,
		ingredients: ingredients,
		images:      images,
		log:         log,
	}
}

func preloadAssociations(db *gorm.DB) *gorm.DB {
	return db.Preload("Tags", OrderByIDAsc).Preload("Ingredients", OrderByIDAsc)
}

// OrderByIDAsc orders rows oldest first.
func OrderByIDAsc(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

// List returns the owner's recipes, newest first.
func (s *RecipeService) List(ctx context.Context, owner uuid.UUID, filter RecipeFilter) ([]models.Recipe, error) {
	q := s.db.WithContext(ctx).Scopes(ScopeOwner(owner), OrderByIDDesc, preloadAssociations)

	if len(filter.TagIDs) > 0 {
		q = q.Where("id IN (?)", s.db.Table("recipe_tags").Select("recipe_id").Where("tag_id IN ?", filter.TagIDs))
	}
	if len(filter.IngredientIDs) > 0 {
		q = q.Where("id IN (?)", s.db.Table("recipe_ingredients").Select("recipe_id").Where("ingredient_id IN ?", filter.IngredientIDs))
	}

	recipes := []models.Recipe{}
	if err := q.Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

// Get returns one of the owner's recipes with its associations.
func (s *RecipeService) Get(ctx context.Context, owner uuid.UUID, id uint) (*models.Recipe, error) {
	return s.get(s.db.WithContext(ctx), owner, id)
}

func (s *RecipeService) get(db *gorm.DB, owner uuid.UUID, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := db.Scopes(ScopeOwner(owner), preloadAssociations).First(&recipe, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// Create stores a recipe for owner. Tag and ingredient ids must belong to
// owner. req must already have passed Validate(false).
func (s *RecipeService) Create(ctx context.Context, owner uuid.UUID, req *types.RecipeRequest) (*models.Recipe, error) {
	recipe := &models.Recipe{UserID: owner}
	applyRecipeFields(recipe, req, false)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.resolveAssociations(ctx, tx, owner, recipe, req); err != nil {
			return err
		}
		return tx.Omit("Tags.*", "Ingredients.*").Create(recipe).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"recipe_id": recipe.ID,
		"user_id":   owner,
	}).Info("recipe created")
	return s.Get(ctx, owner, recipe.ID)
}

// Update modifies one of the owner's recipes. With partial set only supplied
// fields change; otherwise omitted optional fields and associations are
// cleared.
func (s *RecipeService) Update(ctx context.Context, owner uuid.UUID, id uint, req *types.RecipeRequest, partial bool) (*models.Recipe, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe, err := s.get(tx, owner, id)
		if err != nil {
			return err
		}

		applyRecipeFields(recipe, req, partial)
		if err := tx.Model(recipe).Select("title", "time_minutes", "price", "link").Updates(recipe).Error; err != nil {
			return fmt.Errorf("failed to update recipe: %w", err)
		}

		if req.Tags != nil || !partial {
			tags, err := s.tags.WithTx(tx).Resolve(ctx, owner, derefIDs(req.Tags))
			if err != nil {
				return err
			}
			if err := replaceAssociation(tx, recipe, "Tags", tags); err != nil {
				return err
			}
		}
		if req.Ingredients != nil || !partial {
			ingredients, err := s.ingredients.WithTx(tx).Resolve(ctx, owner, derefIDs(req.Ingredients))
			if err != nil {
				return err
			}
			if err := replaceAssociation(tx, recipe, "Ingredients", ingredients); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, owner, id)
}

// Delete removes one of the owner's recipes and its associations. The image
// file, if any, is removed after the row is gone.
func (s *RecipeService) Delete(ctx context.Context, owner uuid.UUID, id uint) error {
	var image string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe, err := s.get(tx, owner, id)
		if err != nil {
			return err
		}
		image = recipe.Image
		if err := tx.Model(recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Model(recipe).Association("Ingredients").Clear(); err != nil {
			return err
		}
		return tx.Delete(&models.Recipe{}, recipe.ID).Error
	})
	if err != nil {
		return err
	}

	if err := s.images.Remove(ctx, image); err != nil {
		s.log.WithError(err).WithField("recipe_id", id).Warn("failed to remove recipe image")
	}
	return nil
}

// UploadImage validates and stores an image for one of the owner's recipes.
// An invalid upload leaves the recipe untouched; a failed update removes the
// stored file again.
func (s *RecipeService) UploadImage(ctx context.Context, owner uuid.UUID, id uint, filename string, data []byte) (*models.Recipe, error) {
	recipe, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	img, err := s.images.Prepare(filename, data)
	if err != nil {
		return nil, err
	}
	if err := s.images.Store(ctx, img); err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	previous := recipe.Image
	res := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Scopes(ScopeOwner(owner)).
		Where("id = ?", recipe.ID).
		Update("image", img.Key)
	if res.Error != nil || res.RowsAffected == 0 {
		s.discard(ctx, img.Key)
		if res.Error != nil {
			return nil, fmt.Errorf("failed to update recipe image: %w", res.Error)
		}
		// Deleted while the file was being written.
		return nil, types.ErrNotFound
	}

	recipe.Image = img.Key
	if previous != "" && previous != img.Key {
		if err := s.images.Remove(ctx, previous); err != nil {
			s.log.WithError(err).WithField("key", previous).Warn("failed to remove previous image")
		}
	}

	s.log.WithFields(logrus.Fields{
		"recipe_id": recipe.ID,
		"key":       img.Key,
		"width":     img.Width,
		"height":    img.Height,
	}).Info("recipe image uploaded")
	return recipe, nil
}

func (s *RecipeService) discard(ctx context.Context, key string) {
	if err := s.images.Remove(ctx, key); err != nil {
		s.log.WithError(err).WithField("key", key).Error("failed to remove orphaned image")
	}
}

// ImageURL is the public URL of a stored recipe image.
func (s *RecipeService) ImageURL(key string) string {
	return s.images.URL(key)
}

func (s *RecipeService) resolveAssociations(ctx context.Context, tx *gorm.DB, owner uuid.UUID, recipe *models.Recipe, req *types.RecipeRequest) error {
	tags, err := s.tags.WithTx(tx).Resolve(ctx, owner, derefIDs(req.Tags))
	if err != nil {
		return err
	}
	ingredients, err := s.ingredients.WithTx(tx).Resolve(ctx, owner, derefIDs(req.Ingredients))
	if err != nil {
		return err
	}
	recipe.Tags = tags
	recipe.Ingredients = ingredients
	return nil
}

func applyRecipeFields(recipe *models.Recipe, req *types.RecipeRequest, partial bool) {
	if req.Title != nil {
		recipe.Title = strings.TrimSpace(*req.Title)
	}
	if req.TimeMinutes != nil {
		recipe.TimeMinutes = *req.TimeMinutes
	}
	if req.Price != nil {
		recipe.Price = req.Price.Round(2)
	}
	switch {
	case req.Link != nil:
		recipe.Link = strings.TrimSpace(*req.Link)
	case !partial:
		recipe.Link = ""
	}
}

func replaceAssociation[T any](tx *gorm.DB, recipe *models.Recipe, name string, values []T) error {
	assoc := tx.Model(recipe).Association(name)
	if len(values) == 0 {
		return assoc.Clear()
	}
	return assoc.Replace(values)
}

func derefIDs(ids *[]uint) []uint {
	if ids == nil {
		return nil
	}
	return *ids
}
