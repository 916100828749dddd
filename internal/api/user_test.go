package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeEndpoint(t *testing.T) {
	engine, _ := newTestRouter(t)
	userID, token := registerUser(t, engine, "alice")

	w := doRequest(t, engine, http.MethodGet, "/api/v1/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, userID, resp.ID)
	assert.Equal(t, "alice", resp.Username)

	w = doRequest(t, engine, http.MethodGet, "/api/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetUserEndpoint(t *testing.T) {
	engine, _ := newTestRouter(t)
	aliceID, _ := registerUser(t, engine, "alice")
	_, bobToken := registerUser(t, engine, "bob")

	// Anonymous read works and is never subscribed.
	w := doRequest(t, engine, http.MethodGet, "/api/v1/users/"+aliceID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.IsSubscribed)

	// After subscribing the flag flips for the viewer.
	w = doRequest(t, engine, http.MethodPost, "/api/v1/users/"+aliceID+"/subscribe", bobToken, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doRequest(t, engine, http.MethodGet, "/api/v1/users/"+aliceID, bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.IsSubscribed)
}

func TestSubscribeEndpoints(t *testing.T) {
	engine, _ := newTestRouter(t)
	aliceID, aliceToken := registerUser(t, engine, "alice")
	_, bobToken := registerUser(t, engine, "bob")
	path := "/api/v1/users/" + aliceID + "/subscribe"

	w := doRequest(t, engine, http.MethodPost, path, bobToken, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var resp UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp.Username)
	assert.True(t, resp.IsSubscribed)

	// Duplicate subscription conflicts.
	w = doRequest(t, engine, http.MethodPost, path, bobToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Self-subscription is rejected outright.
	w = doRequest(t, engine, http.MethodPost, path, aliceToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, engine, http.MethodDelete, path, bobToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	// Removing an absent subscription is a 404.
	w = doRequest(t, engine, http.MethodDelete, path, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubscriptionsEndpoint(t *testing.T) {
	engine, db := newTestRouter(t)
	aliceID, aliceToken := registerUser(t, engine, "alice")
	_, bobToken := registerUser(t, engine, "bob")
	tag := seedTag(t, db, "Dinner", "dinner")
	flour := seedIngredient(t, db, "flour", "g")

	for _, name := range []string{"Bread", "Cake", "Pasta"} {
		createRecipeViaAPI(t, engine, aliceToken, tag, flour, name)
	}
	w := doRequest(t, engine, http.MethodPost, "/api/v1/users/"+aliceID+"/subscribe", bobToken, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(t, engine, http.MethodGet, "/api/v1/users/subscriptions?recipes_limit=2", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Subscriptions []SubscriptionResponse `json:"subscriptions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Subscriptions, 1)
	assert.Equal(t, "alice", resp.Subscriptions[0].Username)
	assert.Len(t, resp.Subscriptions[0].Recipes, 2)
	assert.EqualValues(t, 3, resp.Subscriptions[0].RecipesCount)
}

func TestAvatarEndpoints(t *testing.T) {
	engine, _ := newTestRouter(t)
	_, token := registerUser(t, engine, "alice")

	dataURI := "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mP8z8BQDwAEhQGAhKmMIQAAAABJRU5ErkJggg=="
	w := doRequest(t, engine, http.MethodPut, "/api/v1/users/me/avatar", token, map[string]string{"avatar": dataURI})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Avatar string `json:"avatar"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Avatar)

	// A plain string is not a data URI.
	w = doRequest(t, engine, http.MethodPut, "/api/v1/users/me/avatar", token, map[string]string{"avatar": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, engine, http.MethodDelete, "/api/v1/users/me/avatar", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestListUsersEndpoint(t *testing.T) {
	engine, _ := newTestRouter(t)
	registerUser(t, engine, "zoe")
	registerUser(t, engine, "adam")

	w := doRequest(t, engine, http.MethodGet, "/api/v1/users", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Users []UserResponse `json:"users"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Users, 2)
	assert.Equal(t, "adam", resp.Users[0].Username)
}
