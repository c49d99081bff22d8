package handlers

import (
	"net/http"
	"regexp"

	"github.com/ArowuTest/church-calendar-backend/internal/services"
	"github.com/gin-gonic/gin"
)

var safeFileName = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// CalendarHandler serves month grids and iCalendar feeds
type CalendarHandler struct {
	calendarService services.CalendarService
	icalService     services.ICalService
}

// NewCalendarHandler creates a new CalendarHandler
func NewCalendarHandler(calendarService services.CalendarService, icalService services.ICalService) *CalendarHandler {
	return &CalendarHandler{calendarService: calendarService, icalService: icalService}
}

// Month handles GET /churches/:id/calendar?month=YYYY-MM
func (h *CalendarHandler) Month(c *gin.Context) {
	month, err := h.calendarService.Month(c.Request.Context(), c.Param("id"), c.Query("month"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, month)
}

// Feed handles GET /churches/:id/calendar.ics
func (h *CalendarHandler) Feed(c *gin.Context) {
	churchID := c.Param("id")
	feed, err := h.icalService.Feed(c.Request.Context(), churchID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+safeFileName.ReplaceAllString(churchID, "")+`.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", feed)
}
