package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Catalog API Configuration
	TMDBKey     string
	TMDBBaseURL string

	// Object Storage Configuration
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string

	// Database Configuration
	MongoURI string
	DBName   string

	// Security Configuration
	JWTSecret     string
	TokenTTLHours int

	// Server Configuration
	Port string
	Env  string
}

// LoadConfig loads the configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load environment file based on GO_ENV
	env := getEnvOrDefault("GO_ENV", "development")
	envFile := filepath.Join("environments", fmt.Sprintf(".env.%s", env))

	if err := godotenv.Load(envFile); err != nil {
		return nil, fmt.Errorf("error loading env file %s: %v", envFile, err)
	}

	ttl, err := strconv.Atoi(getEnvOrDefault("TOKEN_TTL_HOURS", "24"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL_HOURS: %v", err)
	}

	return &Config{
		// Catalog API Configuration
		TMDBKey:     getEnvOrDefault("TMDB_KEY", ""),
		TMDBBaseURL: getEnvOrDefault("TMDB_BASE_URL", "https://api.themoviedb.org/3"),

		// Object Storage Configuration
		CloudinaryCloudName: getEnvOrDefault("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnvOrDefault("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnvOrDefault("CLOUDINARY_API_SECRET", ""),
		CloudinaryFolder:    getEnvOrDefault("CLOUDINARY_FOLDER", "tmdb-client/profile-images"),

		// Database Configuration
		MongoURI: getEnvOrDefault("MONGO_URI", ""),
		DBName:   getEnvOrDefault("DB_NAME", "moviesdb"),

		// Security Configuration
		JWTSecret:     getEnvOrDefault("JWT_SECRET", ""),
		TokenTTLHours: ttl,

		// Server Configuration
		Port: getEnvOrDefault("PORT", "8080"),
		Env:  env,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
