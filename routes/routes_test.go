package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Emmanuel1255/tok-backend/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:       "development",
		Port:      "5000",
		JWTSecret: "test_secret",
		JWTExpire: time.Hour,
		ClientURL: "http://localhost:5173",
		UploadDir: "public/uploads",
	}
}

func TestStatusEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := SetupRouter(testConfig())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/status", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "API is running")
}

func TestUnknownRouteReturns404(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := SetupRouter(testConfig())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/does-not-exist", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "API endpoint not found")
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := SetupRouter(testConfig())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/users/stats", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
