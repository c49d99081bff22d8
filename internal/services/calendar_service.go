package services

import (
	"context"

	"github.com/ArowuTest/church-calendar-backend/internal/calendar"
	"github.com/ArowuTest/church-calendar-backend/internal/eventform"
	"github.com/ArowuTest/church-calendar-backend/internal/models"
	"github.com/ArowuTest/church-calendar-backend/internal/repositories"
)

// CalendarService builds month grids for a church
type CalendarService interface {
	// Month returns the grid for month ("2006-01"); empty means the current month
	Month(ctx context.Context, churchID, month string) (*models.CalendarMonth, error)
}

type calendarService struct {
	events  repositories.EventRepository
	builder *calendar.GridBuilder
}

// NewCalendarService creates a new CalendarService
func NewCalendarService(events repositories.EventRepository, builder *calendar.GridBuilder) CalendarService {
	return &calendarService{events: events, builder: builder}
}

func (s *calendarService) Month(ctx context.Context, churchID, month string) (*models.CalendarMonth, error) {
	loc := s.builder.Location()
	anchor := s.builder.Today()
	if month != "" {
		parsed, err := calendar.ParseMonth(month, loc)
		if err != nil {
			return nil, &eventform.ValidationError{Field: "month", Reason: "month must look like 2024-02"}
		}
		anchor = parsed
	}

	events, err := s.events.QueryByChurch(ctx, churchID)
	if err != nil {
		return nil, err
	}

	grid := s.builder.Generate(anchor, events)
	return &models.CalendarMonth{
		ChurchID: churchID,
		Month:    grid.Month.Format("2006-01"),
		Timezone: loc.String(),
		Weeks:    grid.Weeks(),
	}, nil
}
