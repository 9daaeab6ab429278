package middleware

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func uploadTestRouter(field, subdir string) (*gin.Engine, *string) {
	gin.SetMode(gin.TestMode)
	var stored string
	router := gin.New()
	router.POST("/upload", Upload(field, subdir), func(c *gin.Context) {
		stored = UploadedFile(c)
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return router, &stored
}

func multipartUpload(t *testing.T, field, filename, contentType string, data []byte) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	assert.NoError(t, err)
	_, err = part.Write(data)
	assert.NoError(t, err)
	assert.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadStoresImage(t *testing.T) {
	original := uploadBase
	defer SetUploadDir(original)
	SetUploadDir(t.TempDir())

	router, stored := uploadTestRouter("featuredImage", "posts")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartUpload(t, "featuredImage", "photo.png", "image/png", []byte("png-bytes")))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(*stored, "/uploads/posts/post-"))
	assert.True(t, strings.HasSuffix(*stored, ".png"))

	diskPath := filepath.Join(uploadBase, "posts", filepath.Base(*stored))
	_, err := os.Stat(diskPath)
	assert.NoError(t, err)
}

func TestUploadRejectsNonImageExtension(t *testing.T) {
	original := uploadBase
	defer SetUploadDir(original)
	SetUploadDir(t.TempDir())

	router, _ := uploadTestRouter("featuredImage", "posts")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartUpload(t, "featuredImage", "script.exe", "image/png", []byte("bytes")))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Images only")
}

func TestUploadRejectsNonImageMimeType(t *testing.T) {
	original := uploadBase
	defer SetUploadDir(original)
	SetUploadDir(t.TempDir())

	router, _ := uploadTestRouter("featuredImage", "posts")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, multipartUpload(t, "featuredImage", "photo.png", "text/plain", []byte("bytes")))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	original := uploadBase
	defer SetUploadDir(original)
	SetUploadDir(t.TempDir())

	router, _ := uploadTestRouter("featuredImage", "posts")
	w := httptest.NewRecorder()
	big := make([]byte, maxUploadSize+1)
	router.ServeHTTP(w, multipartUpload(t, "featuredImage", "photo.jpg", "image/jpeg", big))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "file too large")
}

func TestUploadWithoutFilePassesThrough(t *testing.T) {
	router, stored := uploadTestRouter("featuredImage", "posts")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/upload", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, *stored)
}

func TestDeleteFile(t *testing.T) {
	original := uploadBase
	defer SetUploadDir(original)
	SetUploadDir(t.TempDir())

	diskPath := filepath.Join(uploadBase, "avatars", "avatar-test.png")
	assert.NoError(t, os.MkdirAll(filepath.Dir(diskPath), 0755))
	assert.NoError(t, os.WriteFile(diskPath, []byte("png"), 0644))

	DeleteFile("/uploads/avatars/avatar-test.png")

	_, err := os.Stat(diskPath)
	assert.True(t, os.IsNotExist(err))
}

func TestDeleteFileSkipsNonUploads(t *testing.T) {
	// The default avatar is not a stored upload and must never be removed
	DeleteFile("default-avatar.jpg")
	DeleteFile("")
}
