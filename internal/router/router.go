package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/FinalGun/foodgram/internal/api"
)

// SetupRouter configures the application routes
func SetupRouter(
	healthHandler *api.HealthHandler,
	authHandler *api.AuthHandler,
	userHandler *api.UserHandler,
	catalogHandler *api.CatalogHandler,
	recipeHandler *api.RecipeHandler,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())

	router.GET("/health", healthHandler.Check)

	v1 := router.Group("/api/v1")
	authHandler.RegisterRoutes(v1)
	userHandler.RegisterRoutes(v1)
	catalogHandler.RegisterRoutes(v1)
	recipeHandler.RegisterRoutes(v1)

	// Short links live outside the API prefix.
	router.GET("/s/:id", recipeHandler.RedirectShortLink)

	return router
}
