package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagEndpoints(t *testing.T) {
	engine, db := newTestRouter(t)
	dinner := seedTag(t, db, "Dinner", "dinner")
	seedTag(t, db, "Lunch", "lunch")

	w := doRequest(t, engine, http.MethodGet, "/api/v1/tags", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listing struct {
		Tags []TagResponse `json:"tags"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	assert.Len(t, listing.Tags, 2)

	w = doRequest(t, engine, http.MethodGet, "/api/v1/tags/"+dinner.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tag TagResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tag))
	assert.Equal(t, "dinner", tag.Slug)

	w = doRequest(t, engine, http.MethodGet, "/api/v1/tags/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIngredientEndpoints(t *testing.T) {
	engine, db := newTestRouter(t)
	seedIngredient(t, db, "Salt", "g")
	seedIngredient(t, db, "salmon", "kg")
	seedIngredient(t, db, "flour", "g")

	// The name filter is a case-insensitive prefix match.
	w := doRequest(t, engine, http.MethodGet, "/api/v1/ingredients?name=sal", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listing struct {
		Ingredients []IngredientResponse `json:"ingredients"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	require.Len(t, listing.Ingredients, 2)

	w = doRequest(t, engine, http.MethodGet, "/api/v1/ingredients", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	assert.Len(t, listing.Ingredients, 3)
}
