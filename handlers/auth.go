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
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func userSummary(user *models.User) gin.H {
	return gin.H{
		"id":        user.ID.Hex(),
		"firstName": user.FirstName,
		"lastName":  user.LastName,
		"email":     user.Email,
		"username":  user.Username,
		"role":      user.Role,
	}
}

func sendTokenResponse(c *gin.Context, user *models.User, status int) {
	token, err := middleware.GenerateToken(user, cfg.JWTSecret, cfg.JWTExpire)
	if err != nil {
		log.Printf("[Auth] Token generation error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Error generating authentication token",
		})
		return
	}

	c.JSON(status, gin.H{
		"success": true,
		"token":   token,
		"user":    userSummary(user),
	})
}

func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Check if email or username is already taken
	var existing models.User
	err := database.Users.FindOne(ctx, bson.M{
		"$or": []bson.M{{"email": req.Email}, {"username": req.Username}},
	}).Decode(&existing)
	if err == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "User already exists with that email or username",
		})
		return
	}
	if err != mongo.ErrNoDocuments {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errorDetail(err)})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to hash password"})
		return
	}

	user := models.User{
		ID:        primitive.NewObjectID(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Email:     req.Email,
		Password:  string(hashed),
		Avatar:    models.DefaultAvatar,
		Interests: []string{},
		Role:      models.RoleUser,
		CreatedAt: time.Now(),
	}

	if _, err := database.Users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "User already exists with that email or username",
			})
			return
		}
		log.Printf("[Register] Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errorDetail(err)})
		return
	}

	sendTokenResponse(c, &user, http.StatusCreated)
}

func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Please provide an email and password"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := database.Users.FindOne(ctx, bson.M{"email": req.Email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errorDetail(err)})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials"})
		return
	}

	sendTokenResponse(c, &user, http.StatusOK)
}

func GetMe(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
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

type updateDetailsRequest struct {
	FirstName string   `json:"firstName" form:"firstName"`
	LastName  string   `json:"lastName" form:"lastName"`
	Email     string   `json:"email" form:"email"`
	Username  string   `json:"username" form:"username"`
	Bio       string   `json:"bio" form:"bio"`
	Interests []string `json:"interests" form:"interests"`
}

// UpdateDetails merges the profile fields present in the request. A new
// avatar replaces the old file, which is deleted best-effort unless it is
// the default.
func UpdateDetails(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		middleware.DeleteFile(middleware.UploadedFile(c))
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid user ID"})
		return
	}

	var req updateDetailsRequest
	if err := c.ShouldBind(&req); err != nil {
		middleware.DeleteFile(middleware.UploadedFile(c))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request data"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

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

	// Unique fields are checked against every other user before the write
	if req.Email != "" {
		count, err := database.Users.CountDocuments(ctx, bson.M{
			"email": req.Email,
			"_id":   bson.M{"$ne": userID},
		})
		if err != nil {
			middleware.DeleteFile(middleware.UploadedFile(c))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errorDetail(err)})
			return
		}
		if count > 0 {
			middleware.DeleteFile(middleware.UploadedFile(c))
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email already exists"})
			return
		}
		update["email"] = req.Email
	}
	if req.Username != "" {
		count, err := database.Users.CountDocuments(ctx, bson.M{
			"username": req.Username,
			"_id":      bson.M{"$ne": userID},
		})
		if err != nil {
			middleware.DeleteFile(middleware.UploadedFile(c))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errorDetail(err)})
			return
		}
		if count > 0 {
			middleware.DeleteFile(middleware.UploadedFile(c))
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Username already exists"})
			return
		}
		update["username"] = req.Username
	}

	newAvatar := middleware.UploadedFile(c)
	if newAvatar != "" {
		update["avatar"] = newAvatar
	}

	if len(update) == 0 {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "No changes to update"})
		return
	}

	var oldUser models.User
	err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&oldUser)
	if err == mongo.ErrNoDocuments {
		middleware.DeleteFile(newAvatar)
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errorDetail(err)})
		return
	}

	var user models.User
	err = database.Users.FindOneAndUpdate(
		ctx,
		bson.M{"_id": userID},
		bson.M{"$set": update},
		mongoReturnAfter(),
	).Decode(&user)
	if err != nil {
		log.Printf("[UpdateDetails] Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errorDetail(err)})
		return
	}

	if newAvatar != "" && oldUser.Avatar != models.DefaultAvatar {
		middleware.DeleteFile(oldUser.Avatar)
	}

	trackProfileUpdated(userID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id":        user.ID.Hex(),
			"firstName": user.FirstName,
			"lastName":  user.LastName,
			"email":     user.Email,
			"username":  user.Username,
			"bio":       user.Bio,
			"interests": user.Interests,
			"avatar":    user.Avatar,
			"role":      user.Role,
		},
	})
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

func UpdatePassword(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid user ID"})
		return
	}

	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errorDetail(err)})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Password is incorrect"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to hash password"})
		return
	}

	_, err = database.Users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$set": bson.M{"password": string(hashed)},
	})
	if err != nil {
		log.Printf("[UpdatePassword] Database error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errorDetail(err)})
		return
	}

	sendTokenResponse(c, &user, http.StatusOK)
}

func UpdateInterests(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid user ID"})
		return
	}

	var req struct {
		Interests []string `json:"interests"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Interests == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Please provide an array of interests"})
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

	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}
