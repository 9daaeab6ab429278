package handlers

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/Emmanuel1255/tok-backend/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCanModify(t *testing.T) {
	owner := primitive.NewObjectID()
	other := primitive.NewObjectID()

	assert.True(t, canModify(owner, owner, false))
	assert.True(t, canModify(owner, other, true))
	assert.False(t, canModify(owner, other, false))
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, int64(0), totalPages(0, 10))
	assert.Equal(t, int64(1), totalPages(1, 10))
	assert.Equal(t, int64(1), totalPages(10, 10))
	assert.Equal(t, int64(2), totalPages(11, 10))
	assert.Equal(t, int64(0), totalPages(5, 0))
}

func TestPaginationDefaults(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/posts", nil)

	page, limit := pagination(c)
	assert.Equal(t, int64(1), page)
	assert.Equal(t, int64(10), limit)
}

func TestPaginationFromQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/posts?page=3&limit=25", nil)

	page, limit := pagination(c)
	assert.Equal(t, int64(3), page)
	assert.Equal(t, int64(25), limit)
}

func TestPaginationRejectsInvalidValues(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/posts?page=-1&limit=abc", nil)

	page, limit := pagination(c)
	assert.Equal(t, int64(1), page)
	assert.Equal(t, int64(10), limit)
}

func TestActorID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	userID := primitive.NewObjectID()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set("userId", userID.Hex())

	got, ok := actorID(c)
	assert.True(t, ok)
	assert.Equal(t, userID, got)
}

func TestActorIDMissing(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := actorID(c)
	assert.False(t, ok)
}

func TestErrorDetail(t *testing.T) {
	original := cfg
	defer Init(original)

	err := errors.New("connection refused")

	Init(&config.Config{Env: "development"})
	assert.Equal(t, "connection refused", errorDetail(err))

	Init(&config.Config{Env: "production"})
	assert.Equal(t, "Server error", errorDetail(err))
}
