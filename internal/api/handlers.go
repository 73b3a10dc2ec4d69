package api

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pageza/recipe-api/backend/internal/logging"
	"github.com/pageza/recipe-api/backend/internal/middleware"
	"github.com/pageza/recipe-api/backend/internal/models"
	"github.com/pageza/recipe-api/backend/internal/service"
)

// Services are the business operations the handlers delegate to
type Services struct {
	Users       service.IUserService
	Auth        service.IAuthService
	Tags        service.IAttributeService[models.Tag, *models.Tag]
	Ingredients service.IAttributeService[models.Ingredient, *models.Ingredient]
	Recipes     service.IRecipeService
}

// RateLimiters are optional. A nil limiter disables limiting for its routes.
type RateLimiters struct {
	RecipeWrite *middleware.RateLimiter
	ImageUpload *middleware.RateLimiter
}

// RouterOptions configures the engine built by NewRouter
type RouterOptions struct {
	CORSOrigins []string
	// MediaURL and MediaRoot serve locally stored images. Leave MediaRoot
	// empty when images live elsewhere.
	MediaURL  string
	MediaRoot string
	Limiters  RateLimiters
	// Ping backs the health endpoint. Nil reports healthy unconditionally.
	Ping func(ctx context.Context) error
}

// NewRouter builds the gin engine with the ambient middleware and all routes
func NewRouter(svc Services, opts RouterOptions, log logrus.FieldLogger) *gin.Engine {
	UseJSONFieldNames()

	router := gin.New()
	router.Use(
		logging.RequestLogger(log),
		middleware.ErrorHandler(log),
		middleware.CORS(opts.CORSOrigins),
	)

	if opts.MediaRoot != "" && opts.MediaURL != "" {
		router.Static(strings.TrimSuffix(opts.MediaURL, "/"), opts.MediaRoot)
	}

	RegisterRoutes(router, svc, opts)
	return router
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, svc Services, opts RouterOptions) {
	// Health check endpoint (no auth required)
	router.GET("/health", HealthCheck(opts.Ping))

	v1 := router.Group("/api/v1")
	auth := middleware.AuthMiddleware(svc.Auth)

	NewUserHandler(svc.Users, svc.Auth).RegisterRoutes(v1, auth)

	protected := v1.Group("")
	protected.Use(auth)
	NewAttributeHandler(svc.Tags).RegisterRoutes(protected.Group("/tags"))
	NewAttributeHandler(svc.Ingredients).RegisterRoutes(protected.Group("/ingredients"))
	NewRecipeHandler(svc.Recipes, opts.Limiters).RegisterRoutes(protected)
}
