package api

import (
	"github.com/FinalGun/foodgram/internal/models"
	"github.com/FinalGun/foodgram/internal/service"
)

// UserResponse is the user read-shape; IsSubscribed is computed against the
// viewer at assembly time, never stored.
type UserResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
	Avatar       string `json:"avatar,omitempty"`
}

func newUserResponse(u *models.User, isSubscribed bool) UserResponse {
	return UserResponse{
		ID:           u.ID.String(),
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: isSubscribed,
		Avatar:       u.Avatar,
	}
}

type TagResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func newTagResponse(t *models.Tag) TagResponse {
	return TagResponse{ID: t.ID.String(), Name: t.Name, Slug: t.Slug}
}

type IngredientResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

func newIngredientResponse(i *models.Ingredient) IngredientResponse {
	return IngredientResponse{ID: i.ID.String(), Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}

// RecipeIngredientResponse flattens a junction row with its ingredient.
type RecipeIngredientResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeResponse is the full recipe read-shape.
type RecipeResponse struct {
	ID               string                     `json:"id"`
	Tags             []TagResponse              `json:"tags"`
	Author           UserResponse               `json:"author"`
	Ingredients      []RecipeIngredientResponse `json:"ingredients"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
	Name             string                     `json:"name"`
	Image            string                     `json:"image,omitempty"`
	Text             string                     `json:"text"`
	CookingTime      int                        `json:"cooking_time"`
}

func newRecipeResponse(d *service.RecipeDetail) RecipeResponse {
	tags := make([]TagResponse, len(d.Tags))
	for i := range d.Tags {
		tags[i] = newTagResponse(&d.Tags[i])
	}
	ingredients := make([]RecipeIngredientResponse, len(d.Ingredients))
	for i := range d.Ingredients {
		row := &d.Ingredients[i]
		ingredients[i] = RecipeIngredientResponse{
			ID:              row.Ingredient.ID.String(),
			Name:            row.Ingredient.Name,
			MeasurementUnit: row.Ingredient.MeasurementUnit,
			Amount:          row.Amount,
		}
	}
	return RecipeResponse{
		ID:               d.ID.String(),
		Tags:             tags,
		Author:           newUserResponse(&d.Author, d.AuthorSubscribed),
		Ingredients:      ingredients,
		IsFavorited:      d.Favorited,
		IsInShoppingCart: d.InShoppingCart,
		Name:             d.Name,
		Image:            d.Image,
		Text:             d.Text,
		CookingTime:      d.CookingTime,
	}
}

// RecipeShortResponse is the compact recipe shape returned by the
// membership toggles and embedded in subscriptions.
type RecipeShortResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image,omitempty"`
	CookingTime int    `json:"cooking_time"`
}

func newRecipeShortResponse(r *models.Recipe) RecipeShortResponse {
	return RecipeShortResponse{
		ID:          r.ID.String(),
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}

// SubscriptionResponse is a followed author with a capped recipe list.
type SubscriptionResponse struct {
	UserResponse
	Recipes      []RecipeShortResponse `json:"recipes"`
	RecipesCount int64                 `json:"recipes_count"`
}

func newSubscriptionResponse(sub *service.Subscription) SubscriptionResponse {
	recipes := make([]RecipeShortResponse, len(sub.Recipes))
	for i := range sub.Recipes {
		recipes[i] = newRecipeShortResponse(&sub.Recipes[i])
	}
	return SubscriptionResponse{
		UserResponse: newUserResponse(&sub.User, true),
		Recipes:      recipes,
		RecipesCount: sub.RecipesCount,
	}
}

// RecipeRequest is the recipe write-shape. Empty and duplicate set checks
// happen in the service so the error can name the offending ids.
type RecipeRequest struct {
	Ingredients []RecipeIngredientRequest `json:"ingredients" binding:"dive"`
	Tags        []string                  `json:"tags"`
	Name        string                    `json:"name" binding:"required"`
	Text        string                    `json:"text" binding:"required"`
	CookingTime int                       `json:"cooking_time" binding:"required,gt=0"`
	Image       string                    `json:"image"`
}

type RecipeIngredientRequest struct {
	ID     string `json:"id" binding:"required"`
	Amount int    `json:"amount" binding:"required,gt=0"`
}

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Password  string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AvatarRequest struct {
	Avatar string `json:"avatar" binding:"required"`
}
