package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"NODE_ENV", "PORT", "MONGODB_URI", "MONGODB_DB", "JWT_EXPIRE_DAYS", "CLIENT_URL", "UPLOAD_DIR"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "tok", cfg.DBName)
	assert.Equal(t, 30*24*time.Hour, cfg.JWTExpire)
	assert.Equal(t, "http://localhost:5173", cfg.ClientURL)
	assert.Equal(t, "public/uploads", cfg.UploadDir)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("NODE_ENV", "production")
	t.Setenv("PORT", "8080")
	t.Setenv("MONGODB_DB", "tok_test")
	t.Setenv("JWT_EXPIRE_DAYS", "7")

	cfg := Load()

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "tok_test", cfg.DBName)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTExpire)
	assert.False(t, cfg.IsDevelopment())
}

func TestInvalidExpireDaysFallsBack(t *testing.T) {
	t.Setenv("JWT_EXPIRE_DAYS", "not-a-number")

	cfg := Load()
	assert.Equal(t, 30*24*time.Hour, cfg.JWTExpire)
}
