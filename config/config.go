package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration. It is built once in main and
// passed into every component that needs it; nothing reads the environment
// after startup.
type Config struct {
	MongoURI  string
	DBName    string
	Port      string
	JWTSecret string
	TokenTTL  time.Duration
	UploadDir string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		MongoURI:  os.Getenv("MONGO_URI"),
		DBName:    os.Getenv("DB_NAME"),
		Port:      os.Getenv("PORT"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		TokenTTL:  24 * time.Hour,
		UploadDir: os.Getenv("UPLOAD_DIR"),
	}

	if config.MongoURI == "" {
		config.MongoURI = "mongodb://localhost:27017"
	}

	if config.DBName == "" {
		config.DBName = "campushub"
	}

	if config.Port == "" {
		config.Port = "8080"
	}

	if config.UploadDir == "" {
		config.UploadDir = "uploads"
	}

	if hours := os.Getenv("TOKEN_TTL_HOURS"); hours != "" {
		n, err := strconv.Atoi(hours)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid TOKEN_TTL_HOURS: %q", hours)
		}
		config.TokenTTL = time.Duration(n) * time.Hour
	}

	if config.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return config, nil
}
