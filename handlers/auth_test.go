package handlers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Emmanuel1255/tok-backend/database"
	"github.com/Emmanuel1255/tok-backend/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

// A freshly stored avatar must not be orphaned when the uniqueness check
// fails with a database error rather than a duplicate.
func TestUpdateDetailsRemovesAvatarOnDatabaseError(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("email check error", func(mt *mtest.T) {
		database.Users = mt.Coll
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    11601,
			Name:    "Interrupted",
			Message: "operation was interrupted",
		}))

		dir := mt.TempDir()
		defer middleware.SetUploadDir("public/uploads")
		middleware.SetUploadDir(dir)

		diskPath := filepath.Join(dir, "avatars", "avatar-orphan.png")
		assert.NoError(mt, os.MkdirAll(filepath.Dir(diskPath), 0755))
		assert.NoError(mt, os.WriteFile(diskPath, []byte("png"), 0644))

		gin.SetMode(gin.TestMode)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		req := httptest.NewRequest("PUT", "/api/auth/updatedetails", strings.NewReader(`{"email":"new@example.com"}`))
		req.Header.Set("Content-Type", "application/json")
		c.Request = req
		c.Set("userId", primitive.NewObjectID().Hex())
		c.Set("uploadedFile", "/uploads/avatars/avatar-orphan.png")

		UpdateDetails(c)

		assert.Equal(mt, http.StatusInternalServerError, w.Code)
		_, err := os.Stat(diskPath)
		assert.True(mt, os.IsNotExist(err))
	})

	mt.Run("username check error", func(mt *mtest.T) {
		database.Users = mt.Coll
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    11601,
			Name:    "Interrupted",
			Message: "operation was interrupted",
		}))

		dir := mt.TempDir()
		defer middleware.SetUploadDir("public/uploads")
		middleware.SetUploadDir(dir)

		diskPath := filepath.Join(dir, "avatars", "avatar-orphan.png")
		assert.NoError(mt, os.MkdirAll(filepath.Dir(diskPath), 0755))
		assert.NoError(mt, os.WriteFile(diskPath, []byte("png"), 0644))

		gin.SetMode(gin.TestMode)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		req := httptest.NewRequest("PUT", "/api/auth/updatedetails", strings.NewReader(`{"username":"newname"}`))
		req.Header.Set("Content-Type", "application/json")
		c.Request = req
		c.Set("userId", primitive.NewObjectID().Hex())
		c.Set("uploadedFile", "/uploads/avatars/avatar-orphan.png")

		UpdateDetails(c)

		assert.Equal(mt, http.StatusInternalServerError, w.Code)
		_, err := os.Stat(diskPath)
		assert.True(mt, os.IsNotExist(err))
	})
}
