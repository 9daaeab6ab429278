package handlers

import (
	"context"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/Emmanuel1255/tok-backend/cache"
	"github.com/Emmanuel1255/tok-backend/database"
	"github.com/Emmanuel1255/tok-backend/models"
	"github.com/Emmanuel1255/tok-backend/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Per-user stats are cached for 5 minutes. Mutations that change the
// numbers call InvalidateUserStats explicitly; nothing invalidates
// automatically.
var userStatsCache = cache.New(5 * time.Minute)

func statsCacheKey(userID primitive.ObjectID) string {
	return "stats-" + userID.Hex()
}

// InvalidateUserStats is the invalidation hook for post, comment and like
// mutations.
func InvalidateUserStats(userID primitive.ObjectID) {
	userStatsCache.Delete(statsCacheKey(userID))
}

// engagementRate is (likes + comments) / views * 100 rounded to two
// decimals, and 0 when there are no views.
func engagementRate(likes, comments, views int64) float64 {
	if views == 0 {
		return 0
	}
	rate := float64(likes+comments) / float64(views) * 100
	return math.Round(rate*100) / 100
}

const countriesReachedSeed = 150
const uptimeSeed = 99.9

// GetStats serves the public site-wide stats. The singleton document is
// created lazily on first read; user and published-post counts are
// recomputed live on every read.
func GetStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userCount, err := database.Users.CountDocuments(ctx, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errorDetail(err)})
		return
	}

	postCount, err := database.Posts.CountDocuments(ctx, bson.M{"status": models.StatusPublished})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errorDetail(err)})
		return
	}

	now := time.Now()
	var stats models.Stats
	err = database.Stats.FindOneAndUpdate(
		ctx,
		bson.M{},
		bson.M{
			"$set": bson.M{
				"activeUsers":    models.StatCounter{Count: userCount, LastUpdated: now},
				"publishedPosts": models.StatCounter{Count: postCount, LastUpdated: now},
			},
			"$setOnInsert": bson.M{
				"countriesReached": models.StatCounter{Count: countriesReachedSeed, LastUpdated: now},
				"uptime":           models.StatPercentage{Percentage: uptimeSeed, LastUpdated: now},
			},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&stats)
	if err != nil {
		log.Printf("[GetStats] Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errorDetail(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": []gin.H{
			{"label": "Active users", "value": utils.FormatCount(stats.ActiveUsers.Count)},
			{"label": "Blog posts published", "value": utils.FormatCount(stats.PublishedPosts.Count)},
			{"label": "Countries reached", "value": utils.FormatCount(stats.CountriesReached.Count)},
			{"label": "Uptime", "value": utils.FormatPercent(stats.Uptime.Percentage)},
		},
	})
}

// UpdateCountriesReached is the admin-only manual update for the one
// static counter.
func UpdateCountriesReached(c *gin.Context) {
	// Pointer so an explicit zero is distinguishable from a missing field
	var req struct {
		Count *int64 `json:"count" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Count is required"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var stats models.Stats
	err := database.Stats.FindOneAndUpdate(
		ctx,
		bson.M{},
		bson.M{"$set": bson.M{
			"countriesReached": models.StatCounter{Count: *req.Count, LastUpdated: time.Now()},
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&stats)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Stats not initialized yet"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errorDetail(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}

type monthlyStat struct {
	Year     int   `json:"year"`
	Month    int   `json:"month"`
	Posts    int64 `json:"posts"`
	Views    int64 `json:"views"`
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
}

type userStats struct {
	Overview struct {
		TotalPosts     int64   `json:"totalPosts"`
		TotalViews     int64   `json:"totalViews"`
		TotalLikes     int64   `json:"totalLikes"`
		TotalComments  int64   `json:"totalComments"`
		EngagementRate float64 `json:"engagementRate"`
	} `json:"overview"`
	PostsByStatus map[string]int64 `json:"postsByStatus"`
	MonthlyStats  []monthlyStat    `json:"monthlyStats"`
	Recent        struct {
		Last30Days struct {
			Views    int64 `json:"views"`
			Likes    int64 `json:"likes"`
			Comments int64 `json:"comments"`
		} `json:"last30Days"`
	} `json:"recentEngagement"`
}

type engagementTotals struct {
	Views    int64 `bson:"views"`
	Likes    int64 `bson:"likes"`
	Comments int64 `bson:"comments"`
}

func sumEngagement(ctx context.Context, match bson.M) (engagementTotals, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":      nil,
			"views":    bson.M{"$sum": "$views"},
			"likes":    bson.M{"$sum": bson.M{"$size": "$likes"}},
			"comments": bson.M{"$sum": bson.M{"$size": "$comments"}},
		}}},
	}

	cursor, err := database.Posts.Aggregate(ctx, pipeline)
	if err != nil {
		return engagementTotals{}, err
	}
	defer cursor.Close(ctx)

	var results []engagementTotals
	if err := cursor.All(ctx, &results); err != nil {
		return engagementTotals{}, err
	}
	if len(results) == 0 {
		return engagementTotals{}, nil
	}
	return results[0], nil
}

func computeUserStats(ctx context.Context, userID primitive.ObjectID) (*userStats, error) {
	stats := &userStats{
		PostsByStatus: map[string]int64{},
		MonthlyStats:  []monthlyStat{},
	}

	totalPosts, err := database.Posts.CountDocuments(ctx, bson.M{"author": userID})
	if err != nil {
		return nil, err
	}
	stats.Overview.TotalPosts = totalPosts

	totals, err := sumEngagement(ctx, bson.M{"author": userID})
	if err != nil {
		return nil, err
	}
	stats.Overview.TotalViews = totals.Views
	stats.Overview.TotalLikes = totals.Likes
	stats.Overview.TotalComments = totals.Comments
	stats.Overview.EngagementRate = engagementRate(totals.Likes, totals.Comments, totals.Views)

	// Breakdown by status
	statusCursor, err := database.Posts.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"author": userID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}}},
	})
	if err != nil {
		return nil, err
	}
	defer statusCursor.Close(ctx)

	var byStatus []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := statusCursor.All(ctx, &byStatus); err != nil {
		return nil, err
	}
	for _, s := range byStatus {
		stats.PostsByStatus[s.Status] = s.Count
	}

	// 6-month rolling monthly breakdown by calendar year+month
	sixMonthsAgo := time.Now().AddDate(0, -6, 0)
	monthlyCursor, err := database.Posts.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"author":    userID,
			"createdAt": bson.M{"$gte": sixMonthsAgo},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"year":  bson.M{"$year": "$createdAt"},
				"month": bson.M{"$month": "$createdAt"},
			},
			"count":    bson.M{"$sum": 1},
			"views":    bson.M{"$sum": "$views"},
			"likes":    bson.M{"$sum": bson.M{"$size": "$likes"}},
			"comments": bson.M{"$sum": bson.M{"$size": "$comments"}},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "_id.year", Value: 1},
			{Key: "_id.month", Value: 1},
		}}},
	})
	if err != nil {
		return nil, err
	}
	defer monthlyCursor.Close(ctx)

	var monthly []struct {
		ID struct {
			Year  int `bson:"year"`
			Month int `bson:"month"`
		} `bson:"_id"`
		Count    int64 `bson:"count"`
		Views    int64 `bson:"views"`
		Likes    int64 `bson:"likes"`
		Comments int64 `bson:"comments"`
	}
	if err := monthlyCursor.All(ctx, &monthly); err != nil {
		return nil, err
	}
	for _, m := range monthly {
		stats.MonthlyStats = append(stats.MonthlyStats, monthlyStat{
			Year:     m.ID.Year,
			Month:    m.ID.Month,
			Posts:    m.Count,
			Views:    m.Views,
			Likes:    m.Likes,
			Comments: m.Comments,
		})
	}

	// Trailing-30-day engagement snapshot
	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	recent, err := sumEngagement(ctx, bson.M{
		"author":    userID,
		"createdAt": bson.M{"$gte": thirtyDaysAgo},
	})
	if err != nil {
		return nil, err
	}
	stats.Recent.Last30Days.Views = recent.Views
	stats.Recent.Last30Days.Likes = recent.Likes
	stats.Recent.Last30Days.Comments = recent.Comments

	return stats, nil
}

// GetUserStats serves the requester's engagement stats through the
// 5-minute read-through cache.
func GetUserStats(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid user ID"})
		return
	}

	if cached, hit := userStatsCache.Get(statsCacheKey(userID)); hit {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": cached, "cached": true})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stats, err := computeUserStats(ctx, userID)
	if err != nil {
		log.Printf("[GetUserStats] Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errorDetail(err)})
		return
	}

	userStatsCache.Set(statsCacheKey(userID), stats)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}
