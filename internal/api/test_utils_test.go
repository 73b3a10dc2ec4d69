package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/recipe-api/backend/internal/logging"
	"github.com/pageza/recipe-api/backend/internal/models"
	"github.com/pageza/recipe-api/backend/internal/service"
	"github.com/pageza/recipe-api/backend/internal/storage"
	"github.com/pageza/recipe-api/backend/internal/testhelpers"
)

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	auth   *service.AuthService
	media  string
}

// setupTestEnv wires the real services over sqlite and a temporary media root.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupSQLite(t)
	media := t.TempDir()
	store, err := storage.NewLocalStore(media, "/media/")
	require.NoError(t, err)

	log := logging.Discard()
	users := service.NewUserService(db, log)
	auth := service.NewAuthService(users, "test-secret", time.Hour)
	tags := service.NewAttributeService[models.Tag](db, "tags")
	ingredients := service.NewAttributeService[models.Ingredient](db, "ingredients")
	recipes := service.NewRecipeService(db, tags, ingredients, service.NewImageService(store, "uploads/recipe"), log)

	router := NewRouter(Services{
		Users:       users,
		Auth:        auth,
		Tags:        tags,
		Ingredients: ingredients,
		Recipes:     recipes,
	}, RouterOptions{
		CORSOrigins: []string{"http://localhost:5173"},
		MediaURL:    "/media/",
		MediaRoot:   media,
	}, log)

	return &testEnv{router: router, db: db, auth: auth, media: media}
}

// CreateTestUserAndToken creates a user and returns it with a valid token
func (e *testEnv) CreateTestUserAndToken(t *testing.T) (*models.User, string) {
	t.Helper()
	user := testhelpers.CreateTestUser(t, e.db)
	token, _, err := e.auth.GenerateToken(user)
	require.NoError(t, err)
	return user, token
}

// PerformRequest sends a JSON request, authenticated when token is set
func (e *testEnv) PerformRequest(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request

	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		req = httptest.NewRequest(method, path, bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	e.router.ServeHTTP(w, req)
	return w
}

// PerformUpload sends data as the multipart field "image"
func (e *testEnv) PerformUpload(t *testing.T, path, token, filename string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
