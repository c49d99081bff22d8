package handlers

import (
	"errors"
	"net/http"

	"github.com/ArowuTest/church-calendar-backend/internal/eventform"
	"github.com/ArowuTest/church-calendar-backend/internal/repositories"
	"github.com/ArowuTest/church-calendar-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// respondError maps service and form errors onto HTTP responses
func respondError(c *gin.Context, err error) {
	var (
		validation *eventform.ValidationError
		denied     *eventform.PermissionDenied
		persist    *eventform.PersistenceError
	)
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error(), "field": validation.Field})
	case errors.As(err, &denied):
		c.JSON(http.StatusForbidden, gin.H{"error": denied.Error()})
	case errors.Is(err, eventform.ErrNotSignedIn), errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, eventform.ErrDeleteDeclined),
		errors.Is(err, eventform.ErrSubmitInProgress),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrChurchNameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, eventform.ErrNoChurchSelected),
		errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrChurchNameMissing):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, repositories.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
	case errors.As(err, &persist):
		// The store's message is shown as is.
		c.JSON(http.StatusInternalServerError, gin.H{"error": persist.Error()})
	default:
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
