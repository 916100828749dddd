package database

import (
	"gorm.io/gorm"

	"github.com/FinalGun/foodgram/internal/models"
)

// Migrate creates or updates the schema for every entity, including the
// recipe_tags join table and the composite unique indexes backing the
// membership conflict semantics.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.Favorite{},
		&models.ShoppingCartEntry{},
		&models.Follow{},
	)
}
