package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration loaded from the environment.
type Config struct {
	Port        string
	MongoURI    string
	DBName      string
	JWTSecret   string
	TokenExpiry time.Duration
	UploadDir   string
}

// LoadConfig reads configuration from .env (if present) and the environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		Port:        getEnv("PORT", "5000"),
		MongoURI:    os.Getenv("MONGO_URI"),
		DBName:      getEnv("DB_NAME", "special_network"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		TokenExpiry: 24 * time.Hour,
		UploadDir:   getEnv("UPLOAD_DIR", "./uploads"),
	}

	if cfg.MongoURI == "" {
		log.Fatal("MONGO_URI is not set")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	if hours, err := strconv.Atoi(os.Getenv("TOKEN_EXPIRY_HOURS")); err == nil && hours > 0 {
		cfg.TokenExpiry = time.Duration(hours) * time.Hour
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
