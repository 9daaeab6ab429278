package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/Emmanuel1255/tok-backend/database"
	"github.com/Emmanuel1255/tok-backend/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// recordActivity is a pure append. Failures are logged and swallowed: the
// primary operation has already committed and must not be rolled back or
// fail because of a missing feed entry.
func recordActivity(activity models.Activity) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	activity.ID = primitive.NewObjectID()
	activity.CreatedAt = time.Now()

	if _, err := database.Activities.InsertOne(ctx, activity); err != nil {
		log.Printf("[Activity] Failed to record %s: %v", activity.Type, err)
	}
}

func trackPostCreated(userID primitive.ObjectID, post *models.Post) {
	recordActivity(models.Activity{
		User:     userID,
		Type:     models.ActivityPostCreated,
		Post:     &post.ID,
		Metadata: models.ActivityMetadata{Title: post.Title},
	})
}

func trackPostUpdated(userID primitive.ObjectID, post *models.Post) {
	recordActivity(models.Activity{
		User:     userID,
		Type:     models.ActivityPostUpdated,
		Post:     &post.ID,
		Metadata: models.ActivityMetadata{Title: post.Title},
	})
}

// trackPostDeleted takes the title captured before deletion, since the
// post document is gone by the time this runs.
func trackPostDeleted(userID primitive.ObjectID, postTitle string) {
	recordActivity(models.Activity{
		User:     userID,
		Type:     models.ActivityPostDeleted,
		Metadata: models.ActivityMetadata{Title: postTitle},
	})
}

func trackCommentAdded(userID primitive.ObjectID, post *models.Post, commentID primitive.ObjectID) {
	recordActivity(models.Activity{
		User:     userID,
		Type:     models.ActivityCommentAdded,
		Post:     &post.ID,
		Comment:  &commentID,
		Metadata: models.ActivityMetadata{PostTitle: post.Title},
	})

	// No self-notification when commenting on your own post
	if post.Author != userID {
		author := post.Author
		recordActivity(models.Activity{
			User:    post.Author,
			Type:    models.ActivityCommentReceived,
			Post:    &post.ID,
			Comment: &commentID,
			Metadata: models.ActivityMetadata{
				PostTitle:  post.Title,
				TargetUser: &author,
			},
		})
	}
}

func trackLikeGiven(userID primitive.ObjectID, post *models.Post) {
	recordActivity(models.Activity{
		User:     userID,
		Type:     models.ActivityLikeGiven,
		Post:     &post.ID,
		Metadata: models.ActivityMetadata{PostTitle: post.Title},
	})

	if post.Author != userID {
		author := post.Author
		recordActivity(models.Activity{
			User: post.Author,
			Type: models.ActivityLikeReceived,
			Post: &post.ID,
			Metadata: models.ActivityMetadata{
				PostTitle:  post.Title,
				TargetUser: &author,
			},
		})
	}
}

func trackProfileUpdated(userID primitive.ObjectID) {
	recordActivity(models.Activity{
		User: userID,
		Type: models.ActivityProfileUpdated,
	})
}

// formatActivity renders a raw event to a human-readable sentence. An
// unknown kind gets a fallback string, never an error.
func formatActivity(activity *models.Activity) string {
	switch activity.Type {
	case models.ActivityPostCreated:
		return fmt.Sprintf("You created a new post %q", activity.Metadata.Title)
	case models.ActivityPostUpdated:
		return fmt.Sprintf("You updated your post %q", activity.Metadata.Title)
	case models.ActivityPostDeleted:
		return fmt.Sprintf("You deleted post %q", activity.Metadata.Title)
	case models.ActivityCommentAdded:
		return fmt.Sprintf("You commented on %q", activity.Metadata.PostTitle)
	case models.ActivityCommentReceived:
		return fmt.Sprintf("Someone commented on your post %q", activity.Metadata.PostTitle)
	case models.ActivityLikeGiven:
		return fmt.Sprintf("You liked %q", activity.Metadata.PostTitle)
	case models.ActivityLikeReceived:
		return fmt.Sprintf("Someone liked your post %q", activity.Metadata.PostTitle)
	case models.ActivityProfileUpdated:
		return "You updated your profile"
	default:
		return "Unknown activity"
	}
}

// GetUserActivities returns the paginated feed of events the user
// performed or was the target of, newest-first, with post title/slug
// joined in.
func GetUserActivities(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid user ID"})
		return
	}

	page, limit := pagination(c)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"$or": []bson.M{
		{"user": userID},
		{"metadata.targetUser": userID},
	}}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := database.Activities.Find(ctx, filter, findOptions)
	if err != nil {
		log.Printf("[GetUserActivities] Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errorDetail(err)})
		return
	}
	defer cursor.Close(ctx)

	var activities []models.Activity
	if err := cursor.All(ctx, &activities); err != nil {
		log.Printf("[GetUserActivities] Decode error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errorDetail(err)})
		return
	}

	total, err := database.Activities.CountDocuments(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errorDetail(err)})
		return
	}

	// Join in lightweight post title/slug for the referenced posts
	var postIDs []primitive.ObjectID
	for _, a := range activities {
		if a.Post != nil {
			postIDs = append(postIDs, *a.Post)
		}
	}

	postMap := make(map[primitive.ObjectID]gin.H)
	if len(postIDs) > 0 {
		postCursor, err := database.Posts.Find(ctx, bson.M{"_id": bson.M{"$in": postIDs}},
			options.Find().SetProjection(bson.M{"title": 1, "slug": 1}))
		if err == nil {
			defer postCursor.Close(ctx)
			var posts []models.Post
			if err := postCursor.All(ctx, &posts); err == nil {
				for _, p := range posts {
					postMap[p.ID] = gin.H{"id": p.ID.Hex(), "title": p.Title, "slug": p.Slug}
				}
			}
		}
	}

	formatted := make([]gin.H, len(activities))
	for i := range activities {
		a := &activities[i]
		entry := gin.H{
			"id":        a.ID.Hex(),
			"content":   formatActivity(a),
			"type":      a.Type,
			"createdAt": a.CreatedAt,
			"metadata":  a.Metadata,
		}
		if a.Post != nil {
			if p, exists := postMap[*a.Post]; exists {
				entry["post"] = p
			}
		}
		formatted[i] = entry
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    formatted,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": totalPages(total, limit),
		},
	})
}

// ClearActivities deletes the activities the user performed. Events that
// merely targeted the user belong to their actors and stay.
func ClearActivities(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := database.Activities.DeleteMany(ctx, bson.M{"user": userID}); err != nil {
		log.Printf("[ClearActivities] Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errorDetail(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "All activities cleared"})
}
