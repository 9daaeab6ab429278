package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/Emmanuel1255/tok-backend/database"
	"github.com/Emmanuel1255/tok-backend/middleware"
	"github.com/Emmanuel1255/tok-backend/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetUserProfile is the public profile page: user, their posts
// newest-first, and a small engagement summary.
func GetUserProfile(c *gin.Context) {
	username := c.Param("username")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := database.Users.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errorDetail(err)})
		return
	}

	cursor, err := database.Posts.Find(ctx, bson.M{"author": user.ID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errorDetail(err)})
		return
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errorDetail(err)})
		return
	}

	var totalLikes, totalComments int64
	for i := range posts {
		totalLikes += int64(len(posts[i].Likes))
		totalComments += int64(len(posts[i].Comments))
	}

	users := fetchUsers(ctx, postUserIDs(posts))
	postData := make([]gin.H, len(posts))
	for i := range posts {
		postData[i] = postJSON(&posts[i], users)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"user": gin.H{
				"id":        user.ID.Hex(),
				"firstName": user.FirstName,
				"lastName":  user.LastName,
				"username":  user.Username,
				"email":     user.Email,
				"bio":       user.Bio,
				"avatar":    user.Avatar,
				"interests": user.Interests,
				"role":      user.Role,
				"createdAt": user.CreatedAt,
			},
			"posts": postData,
			"stats": gin.H{
				"totalPosts":    len(posts),
				"totalLikes":    totalLikes,
				"totalComments": totalComments,
			},
		},
	})
}

// SaveInterests persists the onboarding interest selection.
func SaveInterests(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authorized. Please log in."})
		return
	}

	var req struct {
		Interests []string `json:"interests"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Interests) < 3 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Please select at least 3 interests"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := database.Users.FindOneAndUpdate(
		ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"interests": req.Interests}},
		mongoReturnAfter(),
	).Decode(&user)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errorDetail(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
		"message": "Interests saved successfully",
	})
}

type updateProfileRequest struct {
	FirstName string   `json:"firstName" form:"firstName"`
	LastName  string   `json:"lastName" form:"lastName"`
	Bio       string   `json:"bio" form:"bio"`
	Interests []string `json:"interests" form:"interests"`
}

// UpdateProfile is the profile-update variant used by the settings page.
func UpdateProfile(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		middleware.DeleteFile(middleware.UploadedFile(c))
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid user ID"})
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		middleware.DeleteFile(middleware.UploadedFile(c))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request data"})
		return
	}

	update := bson.M{}
	if req.FirstName != "" {
		update["firstName"] = req.FirstName
	}
	if req.LastName != "" {
		update["lastName"] = req.LastName
	}
	if req.Bio != "" {
		update["bio"] = req.Bio
	}
	if len(req.Interests) > 0 {
		update["interests"] = req.Interests
	}
	if avatar := middleware.UploadedFile(c); avatar != "" {
		update["avatar"] = avatar
	}

	if len(update) == 0 {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "No changes to update"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := database.Users.FindOneAndUpdate(
		ctx,
		bson.M{"_id": userID},
		bson.M{"$set": update},
		mongoReturnAfter(),
	).Decode(&user)
	if err == mongo.ErrNoDocuments {
		middleware.DeleteFile(middleware.UploadedFile(c))
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}
	if err != nil {
		log.Printf("[UpdateProfile] Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errorDetail(err)})
		return
	}

	trackProfileUpdated(userID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
		"message": "Profile updated successfully",
	})
}

// GetUsers lists all users. Admin only.
func GetUsers(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.Users.Find(ctx, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errorDetail(err)})
		return
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errorDetail(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": users})
}

// GetUser fetches a single user by id. Admin only.
func GetUser(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err = database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errorDetail(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

type adminUpdateUserRequest struct {
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Email     string   `json:"email"`
	Username  string   `json:"username"`
	Bio       string   `json:"bio"`
	Role      string   `json:"role"`
	Interests []string `json:"interests"`
}

// UpdateUser is the admin user update.
func UpdateUser(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}

	var req adminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request data"})
		return
	}

	update := bson.M{}
	if req.FirstName != "" {
		update["firstName"] = req.FirstName
	}
	if req.LastName != "" {
		update["lastName"] = req.LastName
	}
	if req.Email != "" {
		update["email"] = req.Email
	}
	if req.Username != "" {
		update["username"] = req.Username
	}
	if req.Bio != "" {
		update["bio"] = req.Bio
	}
	if req.Role == models.RoleUser || req.Role == models.RoleAdmin {
		update["role"] = req.Role
	}
	if len(req.Interests) > 0 {
		update["interests"] = req.Interests
	}

	if len(update) == 0 {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "No changes to update"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err = database.Users.FindOneAndUpdate(
		ctx,
		bson.M{"_id": userID},
		bson.M{"$set": update},
		mongoReturnAfter(),
	).Decode(&user)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email or username already exists"})
			return
		}
		log.Printf("[UpdateUser] Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errorDetail(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

// DeleteUser removes a user account. Admin only.
func DeleteUser(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := database.Users.DeleteOne(ctx, bson.M{"_id": userID})
	if err != nil {
		log.Printf("[DeleteUser] Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errorDetail(err)})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{}})
}
