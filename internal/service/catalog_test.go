package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListIngredientsPrefixSearch(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)

	createTestIngredient(t, db, "Salt", "g")
	createTestIngredient(t, db, "Saffron", "g")
	createTestIngredient(t, db, "Pepper", "g")
	createTestIngredient(t, db, "100% cocoa", "g")

	all, err := svc.ListIngredients(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 4)

	salty, err := svc.ListIngredients(context.Background(), "sa")
	require.NoError(t, err)
	require.Len(t, salty, 2)
	require.Equal(t, "Saffron", salty[0].Name)
	require.Equal(t, "Salt", salty[1].Name)

	none, err := svc.ListIngredients(context.Background(), "zz")
	require.NoError(t, err)
	require.Empty(t, none)
}

// LIKE metacharacters in the prefix are matched literally, not as wildcards.
func TestListIngredientsPrefixEscapesWildcards(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)

	createTestIngredient(t, db, "Salt", "g")
	createTestIngredient(t, db, "100% cocoa", "g")
	createTestIngredient(t, db, "a_b spice mix", "g")
	createTestIngredient(t, db, "acb spice mix", "g")

	matchAll, err := svc.ListIngredients(context.Background(), "%")
	require.NoError(t, err)
	require.Empty(t, matchAll)

	percent, err := svc.ListIngredients(context.Background(), "100%")
	require.NoError(t, err)
	require.Len(t, percent, 1)
	require.Equal(t, "100% cocoa", percent[0].Name)

	underscore, err := svc.ListIngredients(context.Background(), "a_b")
	require.NoError(t, err)
	require.Len(t, underscore, 1)
	require.Equal(t, "a_b spice mix", underscore[0].Name)

	anyChar, err := svc.ListIngredients(context.Background(), "a_")
	require.NoError(t, err)
	require.Len(t, anyChar, 1, "underscore must not match an arbitrary character")
	require.Equal(t, "a_b spice mix", anyChar[0].Name)
}
