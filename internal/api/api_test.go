package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/FinalGun/foodgram/internal/database"
	"github.com/FinalGun/foodgram/internal/models"
	"github.com/FinalGun/foodgram/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestRouter builds the full handler stack over a per-test in-memory
// database, mirroring the production wiring without Redis or S3.
func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:api_%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Discard,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	imageService := service.NewImageService(nil, t.TempDir(), "")
	authService := service.NewAuthService(db, nil, "test-secret")
	userService := service.NewUserService(db, imageService)
	recipeService := service.NewRecipeService(db)
	catalogService := service.NewCatalogService(db)

	engine := gin.New()
	engine.GET("/health", NewHealthHandler(db).Check)
	v1 := engine.Group("/api/v1")
	NewAuthHandler(authService).RegisterRoutes(v1)
	NewUserHandler(userService, authService).RegisterRoutes(v1)
	NewCatalogHandler(catalogService).RegisterRoutes(v1)
	recipeHandler := NewRecipeHandler(recipeService, imageService, authService)
	recipeHandler.RegisterRoutes(v1)
	engine.GET("/s/:id", recipeHandler.RedirectShortLink)

	return engine, db
}

// registerUser creates an account through the API and returns its id and
// bearer token.
func registerUser(t *testing.T, engine *gin.Engine, username string) (string, string) {
	t.Helper()
	w := doRequest(t, engine, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":      username + "@example.com",
		"username":   username,
		"first_name": "Test",
		"last_name":  "User",
		"password":   "s3cretpass",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		User  UserResponse `json:"user"`
		Token string       `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.User.ID, resp.Token
}

func seedTag(t *testing.T, db *gorm.DB, name, slug string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: name, Slug: slug}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

func seedIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	ingredient := &models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(ingredient).Error)
	return ingredient
}

func doRequest(t *testing.T, engine *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func recipeBody(tag *models.Tag, ingredient *models.Ingredient, name string) gin.H {
	return gin.H{
		"name":         name,
		"text":         "instructions for " + name,
		"cooking_time": 30,
		"tags":         []string{tag.ID.String()},
		"ingredients": []gin.H{
			{"id": ingredient.ID.String(), "amount": 100},
		},
	}
}

// createRecipeViaAPI posts a recipe and returns its decoded response.
func createRecipeViaAPI(t *testing.T, engine *gin.Engine, token string, tag *models.Tag, ingredient *models.Ingredient, name string) RecipeResponse {
	t.Helper()
	w := doRequest(t, engine, http.MethodPost, "/api/v1/recipes", token, recipeBody(tag, ingredient, name))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp RecipeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}
