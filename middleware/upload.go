package middleware

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxUploadSize = 1 << 20 // 1MB

const uploadedFileKey = "uploadedFile"

var uploadBase = "public/uploads"

// SetUploadDir points file storage at the configured base directory.
func SetUploadDir(dir string) {
	if dir != "" {
		uploadBase = dir
	}
}

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// Upload stores an optional image from the named multipart field under
// uploadBase/<subdir>/ and exposes the public path to the handler via the
// context. Requests without a file pass through untouched.
func Upload(field, subdir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := c.FormFile(field)
		if err != nil {
			// No file attached (or not a multipart request)
			c.Next()
			return
		}

		if file.Size > maxUploadSize {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Upload error: file too large (max 1MB)",
			})
			c.Abort()
			return
		}

		ext := strings.ToLower(filepath.Ext(file.Filename))
		mimetype := file.Header.Get("Content-Type")
		if !allowedExtensions[ext] || !strings.HasPrefix(mimetype, "image/") {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Images only (jpeg, jpg, png, gif)",
			})
			c.Abort()
			return
		}

		name := fmt.Sprintf("%s-%s%s", strings.TrimSuffix(subdir, "s"), uuid.NewString(), ext)
		diskPath := filepath.Join(uploadBase, subdir, name)

		if err := os.MkdirAll(filepath.Dir(diskPath), 0755); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Error uploading file",
			})
			c.Abort()
			return
		}

		if err := c.SaveUploadedFile(file, diskPath); err != nil {
			log.Printf("[Upload] Failed to save file: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Error uploading file",
			})
			c.Abort()
			return
		}

		c.Set(uploadedFileKey, "/uploads/"+subdir+"/"+name)
		c.Next()
	}
}

// UploadedFile returns the public path stored by Upload, if any.
func UploadedFile(c *gin.Context) string {
	return c.GetString(uploadedFileKey)
}

// DeleteFile removes a stored upload by its public path. Best-effort:
// failures are logged, never propagated.
func DeleteFile(publicPath string) {
	if publicPath == "" {
		return
	}
	rel := strings.TrimPrefix(publicPath, "/uploads/")
	if rel == publicPath {
		// Not a stored upload (e.g. the default avatar)
		return
	}
	diskPath := filepath.Join(uploadBase, filepath.FromSlash(rel))
	if err := os.Remove(diskPath); err != nil && !os.IsNotExist(err) {
		log.Printf("[Upload] Error deleting file %s: %v", diskPath, err)
	}
}
