package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pageza/recipe-api/backend/config"
	"github.com/pageza/recipe-api/backend/internal/api"
	"github.com/pageza/recipe-api/backend/internal/database"
	"github.com/pageza/recipe-api/backend/internal/middleware"
	"github.com/pageza/recipe-api/backend/internal/models"
	"github.com/pageza/recipe-api/backend/internal/service"
	"github.com/pageza/recipe-api/backend/internal/storage"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *gorm.DB
	redis  *redis.Client
	log    logrus.FieldLogger
}

// New wires storage, services and routes. Rate limiting is enabled only when
// redis is configured and reachable.
func New(ctx context.Context, cfg *config.Config, db *gorm.DB, log logrus.FieldLogger) (*Server, error) {
	store, err := storage.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to set up image storage: %w", err)
	}

	users := service.NewUserService(db, log)
	tags := service.NewAttributeService[models.Tag](db, "tags")
	ingredients := service.NewAttributeService[models.Ingredient](db, "ingredients")
	images := service.NewImageService(store, cfg.UploadDir)

	s := &Server{db: db, log: log}

	var limiters api.RateLimiters
	if cfg.RedisEnabled() {
		client, err := database.NewRedisClient(ctx, cfg, log)
		if err != nil {
			log.WithError(err).Warn("redis unavailable, rate limiting disabled")
		} else {
			s.redis = client
			limiters.RecipeWrite = middleware.NewRecipeWriteRateLimiter(client, log)
			limiters.ImageUpload = middleware.NewImageUploadRateLimiter(client, log)
		}
	}

	opts := api.RouterOptions{
		CORSOrigins: cfg.CORSOrigins,
		Limiters:    limiters,
		Ping: func(ctx context.Context) error {
			return database.HealthCheck(ctx, db)
		},
	}
	if cfg.StorageBackend == config.StorageLocal {
		opts.MediaURL = cfg.MediaURL
		opts.MediaRoot = cfg.MediaRoot
	}

	s.router = api.NewRouter(api.Services{
		Users:       users,
		Auth:        service.NewAuthService(users, cfg.JWTSecret, cfg.JWTTTL),
		Tags:        tags,
		Ingredients: ingredients,
		Recipes:     service.NewRecipeService(db, tags, ingredients, images, log),
	}, opts, log)

	s.http = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.log.WithField("addr", s.http.Addr).Info("starting HTTP server")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server and closes redis
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)
	if s.redis != nil {
		if cerr := s.redis.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
