package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Emmanuel1255/tok-backend/database"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestEngagementRate(t *testing.T) {
	// No views means no rate, never a division by zero
	assert.Equal(t, float64(0), engagementRate(10, 5, 0))

	assert.Equal(t, float64(50), engagementRate(3, 2, 10))
	assert.Equal(t, 71.43, engagementRate(3, 2, 7))
	assert.Equal(t, float64(0), engagementRate(0, 0, 100))
}

func TestStatsCacheKey(t *testing.T) {
	userID := primitive.NewObjectID()
	assert.Equal(t, "stats-"+userID.Hex(), statsCacheKey(userID))
}

func TestInvalidateUserStats(t *testing.T) {
	userID := primitive.NewObjectID()

	userStatsCache.Set(statsCacheKey(userID), &userStats{})
	_, hit := userStatsCache.Get(statsCacheKey(userID))
	assert.True(t, hit)

	InvalidateUserStats(userID)

	_, hit = userStatsCache.Get(statsCacheKey(userID))
	assert.False(t, hit)
}

func TestInvalidateUserStatsLeavesOtherUsers(t *testing.T) {
	first := primitive.NewObjectID()
	second := primitive.NewObjectID()

	userStatsCache.Set(statsCacheKey(first), &userStats{})
	userStatsCache.Set(statsCacheKey(second), &userStats{})

	InvalidateUserStats(first)

	_, hit := userStatsCache.Get(statsCacheKey(second))
	assert.True(t, hit)

	userStatsCache.Delete(statsCacheKey(second))
}

// Zero is a legitimate count for the manual counter and must not be
// rejected as a missing field.
func TestUpdateCountriesReachedAcceptsZero(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("count zero updates", func(mt *mtest.T) {
		database.Stats = mt.Coll
		now := primitive.NewDateTimeFromTime(time.Now())
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "countriesReached", Value: bson.D{
				{Key: "count", Value: int64(0)},
				{Key: "lastUpdated", Value: now},
			}},
		}}))

		gin.SetMode(gin.TestMode)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		req := httptest.NewRequest("PUT", "/api/stats/countries", strings.NewReader(`{"count":0}`))
		req.Header.Set("Content-Type", "application/json")
		c.Request = req

		UpdateCountriesReached(c)

		assert.Equal(mt, http.StatusOK, w.Code)
		assert.Contains(mt, w.Body.String(), `"count":0`)
	})
}

func TestUpdateCountriesReachedRequiresCount(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest("PUT", "/api/stats/countries", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	UpdateCountriesReached(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Count is required")
}
