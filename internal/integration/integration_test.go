package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-api/backend/config"
	"github.com/pageza/recipe-api/backend/internal/logging"
	"github.com/pageza/recipe-api/backend/internal/server"
	"github.com/pageza/recipe-api/backend/internal/testhelpers"
	"github.com/pageza/recipe-api/backend/internal/types"
)

type client struct {
	t       *testing.T
	handler http.Handler
	token   string
}

func (c *client) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	return w
}

func (c *client) upload(path, filename string, data []byte) *httptest.ResponseRecorder {
	c.t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", filename)
	require.NoError(c.t, err)
	_, err = part.Write(data)
	require.NoError(c.t, err)
	require.NoError(c.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.token)
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func setupServer(t *testing.T) (*server.Server, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupPostgres(t)
	cfg := &config.Config{
		Environment:    config.Test,
		ServerHost:     "127.0.0.1",
		ServerPort:     "0",
		JWTSecret:      "integration-secret",
		JWTTTL:         time.Hour,
		StorageBackend: config.StorageLocal,
		MediaRoot:      t.TempDir(),
		MediaURL:       "/media/",
		UploadDir:      "uploads/recipe",
	}

	srv, err := server.New(context.Background(), cfg, db, logging.Discard())
	require.NoError(t, err)
	return srv, cfg
}

// signup registers a user through the API and returns an authenticated client.
func signup(t *testing.T, handler http.Handler, email string) *client {
	t.Helper()
	anon := &client{t: t, handler: handler}

	w := anon.do(http.MethodPost, "/api/v1/users", types.CreateUserRequest{
		Email:    email,
		Password: "testpass123",
		Name:     "Integration",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = anon.do(http.MethodPost, "/api/v1/users/token", types.TokenRequest{
		Email:    email,
		Password: "testpass123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token := decode[types.TokenResponse](t, w)
	require.NotEmpty(t, token.Token)

	return &client{t: t, handler: handler, token: token.Token}
}

func TestRecipeLifecycle(t *testing.T) {
	srv, cfg := setupServer(t)
	handler := srv.Handler()

	alice := signup(t, handler, "Alice@Example.com")
	bob := signup(t, handler, "bob@example.com")

	w := alice.do(http.MethodGet, "/api/v1/users/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice@example.com", decode[types.UserResponse](t, w).Email)

	w = alice.do(http.MethodPost, "/api/v1/tags", types.AttributeRequest{Name: "Vegan"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	vegan := decode[types.AttributeResponse](t, w)

	w = alice.do(http.MethodPost, "/api/v1/tags", types.AttributeRequest{Name: "Quick"})
	require.Equal(t, http.StatusCreated, w.Code)
	quick := decode[types.AttributeResponse](t, w)

	w = alice.do(http.MethodPost, "/api/v1/ingredients", types.AttributeRequest{Name: "Tofu"})
	require.Equal(t, http.StatusCreated, w.Code)
	tofu := decode[types.AttributeResponse](t, w)

	w = alice.do(http.MethodPost, "/api/v1/recipes", map[string]interface{}{
		"title":        "Tofu stir fry",
		"time_minutes": 20,
		"price":        "7.50",
		"tags":         []uint{vegan.ID, quick.ID},
		"ingredients":  []uint{tofu.ID},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	stirFry := decode[types.RecipeResponse](t, w)
	assert.ElementsMatch(t, []uint{vegan.ID, quick.ID}, stirFry.Tags)
	assert.Equal(t, "7.50", stirFry.Price)

	w = alice.do(http.MethodPost, "/api/v1/recipes", map[string]interface{}{
		"title":        "Toast",
		"time_minutes": 3,
		"price":        "1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	t.Run("filters by tag", func(t *testing.T) {
		w := alice.do(http.MethodGet, fmt.Sprintf("/api/v1/recipes?tags=%d,%d", vegan.ID, quick.ID), nil)
		require.Equal(t, http.StatusOK, w.Code)
		got := decode[[]types.RecipeResponse](t, w)
		require.Len(t, got, 1)
		assert.Equal(t, stirFry.ID, got[0].ID)
	})

	t.Run("assigned only tags are distinct", func(t *testing.T) {
		w := alice.do(http.MethodGet, "/api/v1/tags?assigned_only=1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[[]types.AttributeResponse](t, w), 2)
	})

	t.Run("other users see nothing", func(t *testing.T) {
		w := bob.do(http.MethodGet, "/api/v1/recipes", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, decode[[]types.RecipeResponse](t, w))

		w = bob.do(http.MethodGet, fmt.Sprintf("/api/v1/recipes/%d", stirFry.ID), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = bob.do(http.MethodPost, "/api/v1/recipes", map[string]interface{}{
			"title":        "Stolen",
			"time_minutes": 1,
			"price":        "1.00",
			"tags":         []uint{vegan.ID},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("put clears associations", func(t *testing.T) {
		w := alice.do(http.MethodPut, fmt.Sprintf("/api/v1/recipes/%d", stirFry.ID), map[string]interface{}{
			"title":        "Plain stir fry",
			"time_minutes": 15,
			"price":        "6.00",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		got := decode[types.RecipeResponse](t, w)
		assert.Empty(t, got.Tags)
		assert.Empty(t, got.Ingredients)
	})

	t.Run("upload image", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/recipes/%d/upload-image", stirFry.ID)

		w := alice.upload(path, "notimage.png", []byte("notimage"))
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = alice.upload(path, "photo.PNG", testhelpers.PNG(t))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		got := decode[types.RecipeImageResponse](t, w)
		require.NotNil(t, got.Image)
		assert.True(t, strings.HasPrefix(*got.Image, "/media/uploads/recipe/"))
		assert.True(t, strings.HasSuffix(*got.Image, ".png"))

		_, err := os.Stat(filepath.Join(cfg.MediaRoot, strings.TrimPrefix(*got.Image, "/media/")))
		assert.NoError(t, err)

		w = alice.do(http.MethodGet, *got.Image, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("delete recipe", func(t *testing.T) {
		w := alice.do(http.MethodDelete, fmt.Sprintf("/api/v1/recipes/%d", stirFry.ID), nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = alice.do(http.MethodGet, fmt.Sprintf("/api/v1/recipes/%d", stirFry.ID), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv, _ := setupServer(t)
	anon := &client{t: t, handler: srv.Handler()}

	for _, path := range []string{"/api/v1/tags", "/api/v1/ingredients", "/api/v1/recipes", "/api/v1/users/me"} {
		w := anon.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}
