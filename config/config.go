package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env       string
	Port      string
	MongoURI  string
	DBName    string
	JWTSecret string
	JWTExpire time.Duration
	ClientURL string
	UploadDir string
}

// Load reads configuration from the environment. A .env file is honored
// when present so local development matches production env vars.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		Env:       getEnv("NODE_ENV", "development"),
		Port:      getEnv("PORT", "5000"),
		MongoURI:  getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		DBName:    getEnv("MONGODB_DB", "tok"),
		JWTSecret: getEnv("JWT_SECRET", "your_jwt_secret_key"),
		JWTExpire: getDurationDays("JWT_EXPIRE_DAYS", 30),
		ClientURL: getEnv("CLIENT_URL", "http://localhost:5173"),
		UploadDir: getEnv("UPLOAD_DIR", "public/uploads"),
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDurationDays(key string, fallback int) time.Duration {
	days := fallback
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			days = n
		}
	}
	return time.Duration(days) * 24 * time.Hour
}
