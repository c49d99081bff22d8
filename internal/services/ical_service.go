package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/ArowuTest/church-calendar-backend/internal/clock"
	"github.com/ArowuTest/church-calendar-backend/internal/models"
	"github.com/ArowuTest/church-calendar-backend/internal/recurrence"
	"github.com/ArowuTest/church-calendar-backend/internal/repositories"
	ical "github.com/arran4/golang-ical"
)

const (
	icalProductID        = "-//Church Calendar//Events//EN"
	defaultEventDuration = time.Hour
)

// ICalService renders a church's events as an iCalendar feed
type ICalService interface {
	Feed(ctx context.Context, churchID string) ([]byte, error)
	// Invalidate drops the cached feed after the church's events change
	Invalidate(churchID string)
}

type icalService struct {
	churches repositories.ChurchRepository
	events   repositories.EventRepository
	clock    clock.Clock
	uidHost  string

	mu    sync.Mutex
	cache map[string][]byte
	// gens counts invalidations per church; a render started before the
	// latest invalidation is not cached
	gens map[string]uint64
}

// NewICalService creates a new ICalService. uidHost is the domain part of event UIDs.
func NewICalService(churches repositories.ChurchRepository, events repositories.EventRepository, c clock.Clock, uidHost string) ICalService {
	if c == nil {
		c = clock.System{}
	}
	if uidHost == "" {
		uidHost = "church-calendar"
	}
	return &icalService{
		churches: churches,
		events:   events,
		clock:    c,
		uidHost:  uidHost,
		cache:    make(map[string][]byte),
		gens:     make(map[string]uint64),
	}
}

func (s *icalService) Feed(ctx context.Context, churchID string) ([]byte, error) {
	s.mu.Lock()
	cached, ok := s.cache[churchID]
	gen := s.gens[churchID]
	s.mu.Unlock()
	if ok {
		return cached, nil
	}

	church, err := s.churches.FindByID(ctx, churchID)
	if err != nil {
		return nil, err
	}
	events, err := s.events.QueryByChurch(ctx, churchID)
	if err != nil {
		return nil, err
	}

	feed := []byte(s.render(church, events).Serialize())
	s.mu.Lock()
	if s.gens[churchID] == gen {
		s.cache[churchID] = feed
	}
	s.mu.Unlock()
	return feed, nil
}

func (s *icalService) Invalidate(churchID string) {
	s.mu.Lock()
	delete(s.cache, churchID)
	s.gens[churchID]++
	s.mu.Unlock()
}

func (s *icalService) render(church *models.Church, events []models.ChurchEvent) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(icalProductID)
	cal.SetXWRCalName(church.Name)

	stamp := s.clock.Now()
	for i := range events {
		e := &events[i]
		ev := cal.AddEvent(e.ID + "@" + s.uidHost)
		if e.UpdatedAt.IsZero() {
			ev.SetDtStampTime(stamp)
		} else {
			ev.SetDtStampTime(e.UpdatedAt)
		}
		ev.SetStartAt(e.Time)
		ev.SetEndAt(e.Time.Add(defaultEventDuration))
		ev.SetSummary(e.Title)
		ev.SetDescription(e.Excerpt)
		if e.EventLocation != "" {
			ev.SetLocation(e.EventLocation)
		}
		if e.VideoLink != nil && *e.VideoLink != "" {
			ev.SetURL(*e.VideoLink)
		}
		if !e.IsRecurring {
			continue
		}
		rule, err := recurrence.ToRRule(e)
		if err != nil {
			log.Printf("[WARN] ICalService: skipping recurrence of event %s: %v", e.ID, err)
			continue
		}
		ev.AddRrule(rule)
	}
	return cal
}
