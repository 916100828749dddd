package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/FinalGun/foodgram/internal/middleware"
	"github.com/FinalGun/foodgram/internal/models"
	"github.com/FinalGun/foodgram/internal/service"
)

type RecipeHandler struct {
	recipeService *service.RecipeService
	imageService  *service.ImageService
	authService   *service.AuthService
}

func NewRecipeHandler(recipeService *service.RecipeService, imageService *service.ImageService, authService *service.AuthService) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		imageService:  imageService,
		authService:   authService,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	recipes.Use(middleware.OptionalAuth(h.authService))
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/:id", h.GetRecipe)
		recipes.GET("/:id/get-link", h.GetLink)
	}

	authed := router.Group("/recipes")
	authed.Use(middleware.AuthMiddleware(h.authService))
	{
		authed.POST("", h.CreateRecipe)
		authed.PATCH("/:id", h.UpdateRecipe)
		authed.DELETE("/:id", h.DeleteRecipe)
		authed.POST("/:id/favorite", h.FavoriteRecipe)
		authed.DELETE("/:id/favorite", h.UnfavoriteRecipe)
		authed.POST("/:id/shopping_cart", h.AddToShoppingCart)
		authed.DELETE("/:id/shopping_cart", h.RemoveFromShoppingCart)
		authed.GET("/download_shopping_cart", h.DownloadShoppingCart)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	filter := service.RecipeFilter{
		TagSlugs:       c.QueryArray("tags"),
		Favorited:      isTruthy(c.Query("is_favorited")),
		InShoppingCart: isTruthy(c.Query("is_in_shopping_cart")),
	}
	if author := c.Query("author"); author != "" {
		authorID, err := uuid.Parse(author)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
			return
		}
		filter.AuthorID = &authorID
	}
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "0"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	details, err := h.recipeService.ListRecipes(c.Request.Context(), filter, viewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]RecipeResponse, len(details))
	for i := range details {
		responses[i] = newRecipeResponse(&details[i])
	}
	c.JSON(http.StatusOK, gin.H{"recipes": responses})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipeID, ok := recipeIDParam(c)
	if !ok {
		return
	}

	detail, err := h.recipeService.GetRecipe(c.Request.Context(), recipeID, viewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRecipeResponse(detail))
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	input, ok := h.bindRecipeInput(c)
	if !ok {
		return
	}

	detail, err := h.recipeService.CreateRecipe(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newRecipeResponse(detail))
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	recipeID, ok := recipeIDParam(c)
	if !ok {
		return
	}

	input, ok := h.bindRecipeInput(c)
	if !ok {
		return
	}

	detail, err := h.recipeService.UpdateRecipe(c.Request.Context(), userID, recipeID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRecipeResponse(detail))
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	recipeID, ok := recipeIDParam(c)
	if !ok {
		return
	}

	if err := h.recipeService.DeleteRecipe(c.Request.Context(), userID, recipeID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) FavoriteRecipe(c *gin.Context) {
	h.addMembership(c, h.recipeService.FavoriteRecipe)
}

func (h *RecipeHandler) UnfavoriteRecipe(c *gin.Context) {
	h.removeMembership(c, h.recipeService.UnfavoriteRecipe)
}

func (h *RecipeHandler) AddToShoppingCart(c *gin.Context) {
	h.addMembership(c, h.recipeService.AddToShoppingCart)
}

func (h *RecipeHandler) RemoveFromShoppingCart(c *gin.Context) {
	h.removeMembership(c, h.recipeService.RemoveFromShoppingCart)
}

func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	items, recipes, err := h.recipeService.ShoppingList(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	report := service.RenderShoppingList(items, recipes, time.Now())
	c.Header("Content-Disposition", `attachment; filename="shopping_cart.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(report))
}

func (h *RecipeHandler) GetLink(c *gin.Context) {
	recipeID, ok := recipeIDParam(c)
	if !ok {
		return
	}

	exists, err := h.recipeService.RecipeExists(c.Request.Context(), recipeID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !exists {
		respondError(c, service.ErrNotFound)
		return
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	c.JSON(http.StatusOK, gin.H{
		"short-link": fmt.Sprintf("%s://%s/s/%s", scheme, c.Request.Host, recipeID),
	})
}

// RedirectShortLink resolves /s/:id to the recipe page after an existence
// check. It is registered outside the API group.
func (h *RecipeHandler) RedirectShortLink(c *gin.Context) {
	recipeID, ok := recipeIDParam(c)
	if !ok {
		return
	}

	exists, err := h.recipeService.RecipeExists(c.Request.Context(), recipeID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !exists {
		respondError(c, service.ErrNotFound)
		return
	}
	c.Redirect(http.StatusFound, "/recipes/"+recipeID.String())
}

func (h *RecipeHandler) addMembership(c *gin.Context, add func(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error)) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	recipeID, ok := recipeIDParam(c)
	if !ok {
		return
	}

	recipe, err := add(c.Request.Context(), userID, recipeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newRecipeShortResponse(recipe))
}

func (h *RecipeHandler) removeMembership(c *gin.Context, remove func(ctx context.Context, userID, recipeID uuid.UUID) error) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	recipeID, ok := recipeIDParam(c)
	if !ok {
		return
	}

	if err := remove(c.Request.Context(), userID, recipeID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) bindRecipeInput(c *gin.Context) (*service.RecipeInput, bool) {
	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	input := &service.RecipeInput{
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
	}

	for _, ing := range req.Ingredients {
		id, err := uuid.Parse(ing.ID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid ingredient id %q", ing.ID)})
			return nil, false
		}
		input.Ingredients = append(input.Ingredients, service.IngredientAmount{ID: id, Amount: ing.Amount})
	}
	for _, tag := range req.Tags {
		id, err := uuid.Parse(tag)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid tag id %q", tag)})
			return nil, false
		}
		input.TagIDs = append(input.TagIDs, id)
	}

	if req.Image != "" {
		if strings.HasPrefix(req.Image, "data:image/") {
			location, err := h.imageService.SaveDataURI(c.Request.Context(), "recipes", req.Image)
			if err != nil {
				respondError(c, err)
				return nil, false
			}
			input.Image = location
		} else {
			input.Image = req.Image
		}
	}
	return input, true
}

func recipeIDParam(c *gin.Context) (uuid.UUID, bool) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return uuid.Nil, false
	}
	return recipeID, true
}

func isTruthy(value string) bool {
	return value == "1" || strings.EqualFold(value, "true")
}
