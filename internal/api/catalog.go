package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/FinalGun/foodgram/internal/service"
)

// CatalogHandler exposes the read-only tag and ingredient reference data.
type CatalogHandler struct {
	catalogService *service.CatalogService
}

func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	tags := router.Group("/tags")
	{
		tags.GET("", h.ListTags)
		tags.GET("/:id", h.GetTag)
	}
	ingredients := router.Group("/ingredients")
	{
		ingredients.GET("", h.ListIngredients)
		ingredients.GET("/:id", h.GetIngredient)
	}
}

func (h *CatalogHandler) ListTags(c *gin.Context) {
	tags, err := h.catalogService.ListTags(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	responses := make([]TagResponse, len(tags))
	for i := range tags {
		responses[i] = newTagResponse(&tags[i])
	}
	c.JSON(http.StatusOK, gin.H{"tags": responses})
}

func (h *CatalogHandler) GetTag(c *gin.Context) {
	tagID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tag id"})
		return
	}
	tag, err := h.catalogService.GetTag(c.Request.Context(), tagID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTagResponse(tag))
}

func (h *CatalogHandler) ListIngredients(c *gin.Context) {
	ingredients, err := h.catalogService.ListIngredients(c.Request.Context(), c.Query("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	responses := make([]IngredientResponse, len(ingredients))
	for i := range ingredients {
		responses[i] = newIngredientResponse(&ingredients[i])
	}
	c.JSON(http.StatusOK, gin.H{"ingredients": responses})
}

func (h *CatalogHandler) GetIngredient(c *gin.Context) {
	ingredientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ingredient id"})
		return
	}
	ingredient, err := h.catalogService.GetIngredient(c.Request.Context(), ingredientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newIngredientResponse(ingredient))
}
