package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/FinalGun/foodgram/config"
	"github.com/FinalGun/foodgram/internal/api"
	"github.com/FinalGun/foodgram/internal/router"
	"github.com/FinalGun/foodgram/internal/service"
)

// Server wires the services and handlers behind a single HTTP server.
type Server struct {
	engine *gin.Engine
	http   *http.Server
	log    zerolog.Logger
}

// New builds the full application: services, handlers and routes.
func New(ctx context.Context, cfg *config.Config, db *gorm.DB, redisClient *redis.Client, log zerolog.Logger) (*Server, error) {
	var s3Config *config.S3Config
	if cfg.S3Bucket != "" {
		var err error
		s3Config, err = config.NewS3Config(ctx, cfg.S3Bucket)
		if err != nil {
			return nil, err
		}
	}

	imageService := service.NewImageService(s3Config, cfg.MediaDir, cfg.MediaBaseURL)
	authService := service.NewAuthService(db, redisClient, cfg.JWTSecret)
	userService := service.NewUserService(db, imageService)
	recipeService := service.NewRecipeService(db)
	catalogService := service.NewCatalogService(db)

	engine := router.SetupRouter(
		api.NewHealthHandler(db),
		api.NewAuthHandler(authService),
		api.NewUserHandler(userService, authService),
		api.NewCatalogHandler(catalogService),
		api.NewRecipeHandler(recipeService, imageService, authService),
	)

	return &Server{
		engine: engine,
		http: &http.Server{
			Addr:    cfg.ServerHost + ":" + cfg.ServerPort,
			Handler: engine,
		},
		log: log,
	}, nil
}

// Start begins serving and blocks until the listener fails or is shut down.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.http.Addr).Msg("starting HTTP server")
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
