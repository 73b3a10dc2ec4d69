package api

import (
	"context"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/pageza/recipe-api/backend/internal/middleware"
	"github.com/pageza/recipe-api/backend/internal/types"
)

var registerTagNames sync.Once

// UseJSONFieldNames makes binding errors report json field names.
func UseJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// bindJSON binds the request body, attaching a ValidationError on failure.
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.Error(types.FromBindingError(err))
		return false
	}
	return true
}

// currentUser returns the authenticated user id. Routes are always behind
// AuthMiddleware, a missing id is reported as unauthorized.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.CurrentUserID(c)
	if !ok {
		c.Error(types.ErrUnauthorized)
	}
	return id, ok
}

// pathID parses the :id path parameter. Malformed ids cannot name a row and
// are reported as not found.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.Error(types.ErrNotFound)
		return 0, false
	}
	return uint(id), true
}

// queryIDs parses a comma separated id list such as "1,2,3".
func queryIDs(c *gin.Context, key string) ([]uint, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, true
	}

	var ids []uint
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil {
			c.Error(types.NewValidationError(key, "Enter a comma separated list of ids."))
			return nil, false
		}
		ids = append(ids, uint(id))
	}
	return ids, true
}

// queryFlag parses an integer flag such as assigned_only=1.
func queryFlag(c *gin.Context, key string) (bool, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return false, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		c.Error(types.NewValidationError(key, "A valid integer is required."))
		return false, false
	}
	return n != 0, true
}

// HealthCheck reports whether the API and, when ping is set, its database
// are reachable.
func HealthCheck(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			if err := ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status": "unhealthy",
					"error":  "database unreachable",
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Recipe API is running",
		})
	}
}
