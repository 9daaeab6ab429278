package handlers

import (
	"strconv"

	"github.com/Emmanuel1255/tok-backend/config"
	"github.com/Emmanuel1255/tok-backend/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var cfg *config.Config

// Init wires the loaded configuration into the handlers package.
func Init(c *config.Config) {
	cfg = c
}

// actorID returns the authenticated user's ObjectID from the context set
// by the JWT middleware.
func actorID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

func isAdmin(c *gin.Context) bool {
	return c.GetString("role") == models.RoleAdmin
}

// canModify is the authorization rule shared by post update/delete and
// comment delete: the owner or an admin.
func canModify(owner, actor primitive.ObjectID, admin bool) bool {
	return owner == actor || admin
}

// pagination parses page/limit query params with the API-wide defaults.
func pagination(c *gin.Context) (page, limit int64) {
	page, _ = strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64)
	if limit < 1 {
		limit = 10
	}
	return page, limit
}

func totalPages(count, limit int64) int64 {
	if limit <= 0 {
		return 0
	}
	return (count + limit - 1) / limit
}

func mongoReturnAfter() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}

// errorDetail hides internal error messages outside development mode.
func errorDetail(err error) string {
	if cfg != nil && cfg.IsDevelopment() {
		return err.Error()
	}
	return "Server error"
}
