package handlers

import (
	"net/http"

	"github.com/ArowuTest/church-calendar-backend/internal/middleware"
	"github.com/ArowuTest/church-calendar-backend/internal/models"
	"github.com/ArowuTest/church-calendar-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// ChurchHandler handles church and membership requests
type ChurchHandler struct {
	churchService services.ChurchService
}

// NewChurchHandler creates a new ChurchHandler
func NewChurchHandler(churchService services.ChurchService) *ChurchHandler {
	return &ChurchHandler{churchService: churchService}
}

// ListMine handles GET /churches
func (h *ChurchHandler) ListMine(c *gin.Context) {
	userID, _, _ := middleware.CurrentUser(c)
	memberships, err := h.churchService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"churches": memberships})
}

// Create handles POST /churches
func (h *ChurchHandler) Create(c *gin.Context) {
	var req models.CreateChurchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, _, _ := middleware.CurrentUser(c)
	church, err := h.churchService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, church)
}

// SetMemberRole handles PUT /churches/:id/members
func (h *ChurchHandler) SetMemberRole(c *gin.Context) {
	var req models.SetMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID, _, _ := middleware.CurrentUser(c)
	if err := h.churchService.SetMemberRole(c.Request.Context(), userID, c.Param("id"), &req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "role updated"})
}
