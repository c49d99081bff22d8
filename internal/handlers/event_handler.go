package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ArowuTest/church-calendar-backend/internal/eventform"
	"github.com/ArowuTest/church-calendar-backend/internal/middleware"
	"github.com/ArowuTest/church-calendar-backend/internal/models"
	"github.com/ArowuTest/church-calendar-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// EventHandler handles church event requests
type EventHandler struct {
	eventService   services.EventService
	maxUploadBytes int64
}

// NewEventHandler creates a new EventHandler. maxUploadMB caps image uploads.
func NewEventHandler(eventService services.EventService, maxUploadMB int) *EventHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = 8
	}
	return &EventHandler{eventService: eventService, maxUploadBytes: int64(maxUploadMB) << 20}
}

// ListByChurch handles GET /churches/:id/events
func (h *EventHandler) ListByChurch(c *gin.Context) {
	events, err := h.eventService.ListByChurch(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// Get handles GET /events/:id
func (h *EventHandler) Get(c *gin.Context) {
	event, err := h.eventService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// Create handles POST /events
func (h *EventHandler) Create(c *gin.Context) {
	var in models.EventInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	event, err := h.eventService.Create(c.Request.Context(), middleware.NewRequestAuth(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

// Update handles PUT /events/:id
func (h *EventHandler) Update(c *gin.Context) {
	var in models.EventInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	event, err := h.eventService.Update(c.Request.Context(), middleware.NewRequestAuth(c), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// Delete handles DELETE /events/:id?confirm=true
func (h *EventHandler) Delete(c *gin.Context) {
	confirmed, _ := strconv.ParseBool(c.Query("confirm"))
	if err := h.eventService.Delete(c.Request.Context(), middleware.NewRequestAuth(c), c.Param("id"), confirmed); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadImage handles POST /events/image with a multipart "image" file and
// either a "churchId" field for a new event or an "eventId" field for an
// existing one
func (h *EventHandler) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+1<<20)
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	defer file.Close()

	if header.Size > h.maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("image must be at most %d MB", h.maxUploadBytes>>20)})
		return
	}
	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image"})
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file must be an image"})
		return
	}

	img := eventform.PickedImage{
		URI:         "upload://" + header.Filename,
		Ext:         strings.TrimPrefix(filepath.Ext(header.Filename), "."),
		ContentType: contentType,
		Data:        data,
	}
	url, warning, err := h.eventService.AttachImage(c.Request.Context(), middleware.NewRequestAuth(c), c.PostForm("churchId"), c.PostForm("eventId"), img)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := gin.H{"url": url}
	if warning != "" {
		resp["warning"] = warning
	}
	c.JSON(http.StatusOK, resp)
}
