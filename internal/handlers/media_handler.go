package handlers

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// BlobReader reads stored uploads
type BlobReader interface {
	Download(ctx context.Context, path string, w io.Writer) (contentType string, err error)
}

// MediaHandler serves uploaded event images
type MediaHandler struct {
	blobs BlobReader
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(blobs BlobReader) *MediaHandler {
	return &MediaHandler{blobs: blobs}
}

// Get handles GET /media/*path
func (h *MediaHandler) Get(c *gin.Context) {
	path := strings.TrimPrefix(c.Param("path"), "/")
	if path == "" || strings.Contains(path, "..") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid media path"})
		return
	}
	var buf bytes.Buffer
	contentType, err := h.blobs.Download(c.Request.Context(), path, &buf)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
