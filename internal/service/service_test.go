package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/FinalGun/foodgram/internal/database"
	"github.com/FinalGun/foodgram/internal/models"
)

// newTestDB opens a per-test in-memory database. The shared-cache name is
// derived from the test name so parallel tests never see each other's rows.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Discard,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "not-a-real-hash",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestTag(t *testing.T, db *gorm.DB, name, slug string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: name, Slug: slug}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

func createTestIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	ingredient := &models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(ingredient).Error)
	return ingredient
}

// createTestRecipe goes through the service so tags and ingredient rows are
// wired the same way production writes are.
func createTestRecipe(t *testing.T, db *gorm.DB, author *models.User, name string, tags []*models.Tag, ingredients []IngredientAmount) *RecipeDetail {
	t.Helper()
	tagIDs := make([]uuid.UUID, len(tags))
	for i, tag := range tags {
		tagIDs[i] = tag.ID
	}
	detail, err := NewRecipeService(db).CreateRecipe(context.Background(), author.ID, &RecipeInput{
		Name:        name,
		Text:        "instructions for " + name,
		CookingTime: 30,
		Ingredients: ingredients,
		TagIDs:      tagIDs,
	})
	require.NoError(t, err)
	return detail
}
