package handlers

import (
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"campushub/utils"
)

// FileHandler stores uploads on local disk under a single directory and
// serves them back by stored name. Every stored name carries a uuid, so
// concurrent uploads never collide.
type FileHandler struct {
	uploadDir string
}

func NewFileHandler(uploadDir string) *FileHandler {
	return &FileHandler{uploadDir: uploadDir}
}

// Upload saves a multipart file and returns its reference URL
func (h *FileHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "A file is required"})
		return
	}

	name := utils.StoredFileName(file.Filename)
	if err := c.SaveUploadedFile(file, filepath.Join(h.uploadDir, name)); err != nil {
		log.Printf("Error saving file: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error storing file"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": "/api/files/" + name})
}

// Download serves a previously uploaded file
func (h *FileHandler) Download(c *gin.Context) {
	// filepath.Base strips any path components from the parameter.
	name := filepath.Base(c.Param("name"))
	path := filepath.Join(h.uploadDir, name)

	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "File not found"})
		return
	}

	c.FileAttachment(path, name)
}
