package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/recipe-api/backend/internal/models"
	"github.com/pageza/recipe-api/backend/internal/types"
)

// IUserService defines the interface for user account operations
type IUserService interface {
	CreateUser(ctx context.Context, email, password string, opts ...UserOption) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, name, password *string) (*models.User, error)
}

// IAuthService defines the interface for token operations
type IAuthService interface {
	Login(ctx context.Context, email, password string) (string, time.Time, error)
	AuthenticateToken(ctx context.Context, token string) (*models.User, error)
}

// IAttributeService defines the owner-scoped operations on tags and ingredients
type IAttributeService[T any, PT models.AttributeModel[T]] interface {
	List(ctx context.Context, owner uuid.UUID, opts ListAttributesOptions) ([]T, error)
	Create(ctx context.Context, owner uuid.UUID, name string) (PT, error)
	Update(ctx context.Context, owner uuid.UUID, id uint, name string) (PT, error)
	Delete(ctx context.Context, owner uuid.UUID, id uint) error
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	List(ctx context.Context, owner uuid.UUID, filter RecipeFilter) ([]models.Recipe, error)
	Get(ctx context.Context, owner uuid.UUID, id uint) (*models.Recipe, error)
	Create(ctx context.Context, owner uuid.UUID, req *types.RecipeRequest) (*models.Recipe, error)
	Update(ctx context.Context, owner uuid.UUID, id uint, req *types.RecipeRequest, partial bool) (*models.Recipe, error)
	Delete(ctx context.Context, owner uuid.UUID, id uint) error
	UploadImage(ctx context.Context, owner uuid.UUID, id uint, filename string, data []byte) (*models.Recipe, error)
	ImageURL(key string) string
}

var (
	_ IUserService                                             = (*UserService)(nil)
	_ IAuthService                                             = (*AuthService)(nil)
	_ IAttributeService[models.Tag, *models.Tag]               = (*TagService)(nil)
	_ IAttributeService[models.Ingredient, *models.Ingredient] = (*IngredientService)(nil)
	_ IRecipeService                                           = (*RecipeService)(nil)
)
