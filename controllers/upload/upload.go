package uploadcontroller

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/adega-api/storage"
)

// MaxImageSize bounds a single uploaded image.
const MaxImageSize = 5 << 20

// UploadImage - POST /admin/uploads, multipart field "image". Responds
// with the public URL to put in an item or highlight.
func UploadImage(uploader storage.Uploader) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, fileHeader, err := c.Request.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No image uploaded"})
			return
		}
		defer file.Close()

		if fileHeader.Size > MaxImageSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Image is too large"})
			return
		}

		name, err := storage.SafeFileName(fileHeader.Filename, time.Now())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Only .jpg, .jpeg, .png, .gif and .webp images are allowed"})
			return
		}

		url, err := uploader.Upload(c.Request.Context(), name, file, fileHeader.Header.Get("Content-Type"))
		if err != nil {
			log.Printf("❌ Failed to store upload %s: %v", name, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
			return
		}

		log.Printf("📝 Image uploaded: %s", url)
		c.JSON(http.StatusOK, gin.H{"message": "Image uploaded", "url": url})
	}
}
