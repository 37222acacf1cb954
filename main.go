package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Pyxyll/web-api-ca/config"
	"github.com/Pyxyll/web-api-ca/controllers"
	"github.com/Pyxyll/web-api-ca/data_access"
	"github.com/Pyxyll/web-api-ca/middleware"
	"github.com/Pyxyll/web-api-ca/services"
)

func setupCORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func setupRouter(
	authController *controllers.AuthController,
	userMoviesController *controllers.UserMoviesController,
	moviesController *controllers.MoviesController,
) *gin.Engine {
	r := gin.Default()
	r.Use(setupCORS())

	// Health check endpoint
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	api := r.Group("/api")
	{
		users := api.Group("/users")
		{
			users.POST("", authController.CreateOrAuthenticate)
			users.GET("/profile/:username", authController.Profile)

			// Protected routes
			protected := users.Group("")
			protected.Use(middleware.AuthMiddleware())
			{
				protected.GET("/favorites", userMoviesController.ListFavorites)
				protected.POST("/favorites/:movieId", userMoviesController.AddFavorite)
				protected.DELETE("/favorites/:movieId", userMoviesController.RemoveFavorite)
				protected.GET("/favorites/:movieId/check", userMoviesController.CheckFavorite)

				protected.GET("/watchlist", userMoviesController.ListWatchlist)
				protected.POST("/watchlist/:movieId", userMoviesController.AddToWatchlist)
				protected.DELETE("/watchlist/:movieId", userMoviesController.RemoveFromWatchlist)
				protected.GET("/watchlist/:movieId/check", userMoviesController.CheckWatchlist)

				protected.GET("/reviews", userMoviesController.GetReviews)
				protected.POST("/reviews/:movieId", userMoviesController.UpsertReview)
				protected.DELETE("/reviews/:movieId", userMoviesController.RemoveReview)
			}
		}

		movies := api.Group("/movies")
		{
			movies.GET("/discover", moviesController.Discover)
			movies.GET("/genre", moviesController.Genres)
			movies.GET("/:id", moviesController.GetMovie)
		}

		actors := api.Group("/actors")
		{
			actors.GET("/:id", moviesController.GetActor)
			actors.GET("/:id/credits", moviesController.GetActorCredits)
		}
	}

	return r
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("configuration loaded", zap.String("env", cfg.Env))

	// Initialize MongoDB connection
	mongodb, err := data_access.NewMongoDB(cfg.MongoURI, cfg.DBName)
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer mongodb.Close(context.Background())

	// Initialize repositories
	userRepo := data_access.NewUserRepository(mongodb)
	userMoviesRepo := data_access.NewUserMoviesRepository(mongodb)

	indexCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := userRepo.EnsureIndexes(indexCtx); err != nil {
		logger.Fatal("failed to create user indexes", zap.Error(err))
	}
	if err := userMoviesRepo.EnsureIndexes(indexCtx); err != nil {
		logger.Fatal("failed to create user movies indexes", zap.Error(err))
	}

	// Initialize external clients
	imageStore := data_access.NewCloudinaryClient(
		cfg.CloudinaryCloudName,
		cfg.CloudinaryAPIKey,
		cfg.CloudinaryAPISecret,
		cfg.CloudinaryFolder,
	)
	tmdbClient := data_access.NewTMDBClient(cfg.TMDBKey, cfg.TMDBBaseURL)

	// Set JWT secret for middleware
	middleware.SetJWTSecret(cfg.JWTSecret)

	// Initialize services
	authService := services.NewAuthService(userRepo, imageStore, cfg.JWTSecret,
		time.Duration(cfg.TokenTTLHours)*time.Hour, logger)
	userMoviesService := services.NewUserMoviesService(userMoviesRepo, logger)

	// Initialize controllers
	authController := controllers.NewAuthController(authService)
	userMoviesController := controllers.NewUserMoviesController(userMoviesService)
	moviesController := controllers.NewMoviesController(tmdbClient)

	r := setupRouter(authController, userMoviesController, moviesController)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	logger.Info("server starting", zap.String("port", port))
	if err := r.Run(":" + port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
