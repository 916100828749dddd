package service

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// userRecipeRow is implemented by the membership rows relating a user to a
// recipe (favorites, shopping-cart entries).
type userRecipeRow interface {
	SetUserRecipe(userID, recipeID uuid.UUID)
}

// addMembership inserts a (user, recipe) membership row. A pre-check catches
// the common duplicate add; the composite unique index is the backstop when
// two adds race, surfaced as the same conflict.
func addMembership[T any, P interface {
	*T
	userRecipeRow
}](db *gorm.DB, userID, recipeID uuid.UUID) error {
	exists, err := membershipExists[T](db, userID, recipeID)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyExists
	}
	row := P(new(T))
	row.SetUserRecipe(userID, recipeID)
	if err := db.Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

// removeMembership deletes a membership row, failing with ErrNotFound when
// no row exists. No side effect occurs in that case.
func removeMembership[T any](db *gorm.DB, userID, recipeID uuid.UUID) error {
	res := db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func membershipExists[T any](db *gorm.DB, userID, recipeID uuid.UUID) (bool, error) {
	var count int64
	err := db.Model(new(T)).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	return count > 0, err
}
