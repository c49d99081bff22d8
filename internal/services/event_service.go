package services

import (
	"context"
	"errors"
	"time"

	"github.com/ArowuTest/church-calendar-backend/internal/clock"
	"github.com/ArowuTest/church-calendar-backend/internal/diagnostics"
	"github.com/ArowuTest/church-calendar-backend/internal/eventform"
	"github.com/ArowuTest/church-calendar-backend/internal/models"
	"github.com/ArowuTest/church-calendar-backend/internal/repositories"
)

// EventService runs event mutations through an event form controller, one per call
type EventService interface {
	ListByChurch(ctx context.Context, churchID string) ([]models.ChurchEvent, error)
	Get(ctx context.Context, id string) (*models.ChurchEvent, error)
	Create(ctx context.Context, auth eventform.Auth, in models.EventInput) (*models.ChurchEvent, error)
	Update(ctx context.Context, auth eventform.Auth, id string, in models.EventInput) (*models.ChurchEvent, error)
	Delete(ctx context.Context, auth eventform.Auth, id string, confirmed bool) error
	// AttachImage uploads an image for a new event in churchID or, when
	// eventID is set, for that existing event. warning is set when the upload
	// failed and the local reference was kept.
	AttachImage(ctx context.Context, auth eventform.Auth, churchID, eventID string, img eventform.PickedImage) (url, warning string, err error)
}

// EventServiceDeps wires an EventService
type EventServiceDeps struct {
	Events      repositories.EventRepository
	Memberships repositories.MembershipRepository
	Blobs       eventform.BlobStore
	Clock       clock.Clock
	Diagnostics diagnostics.Reporter
	Location    *time.Location
	// OnChange runs after a church's events change
	OnChange func(churchID string)
}

type eventService struct {
	deps EventServiceDeps
}

// NewEventService creates a new EventService
func NewEventService(deps EventServiceDeps) EventService {
	return &eventService{deps: deps}
}

func (s *eventService) controller(auth eventform.Auth, confirm eventform.ConfirmationPrompt, picker eventform.ImagePicker) *eventform.Controller {
	return eventform.NewController(eventform.Deps{
		Store:       s.deps.Events,
		Memberships: s.deps.Memberships,
		Auth:        auth,
		Blobs:       s.deps.Blobs,
		Picker:      picker,
		Confirm:     confirm,
		Clock:       s.deps.Clock,
		Diagnostics: s.deps.Diagnostics,
		Location:    s.deps.Location,
		OnRefresh:   s.deps.OnChange,
	})
}

func (s *eventService) ListByChurch(ctx context.Context, churchID string) ([]models.ChurchEvent, error) {
	return s.deps.Events.QueryByChurch(ctx, churchID)
}

func (s *eventService) Get(ctx context.Context, id string) (*models.ChurchEvent, error) {
	return s.deps.Events.FindByID(ctx, id)
}

func (s *eventService) Create(ctx context.Context, auth eventform.Auth, in models.EventInput) (*models.ChurchEvent, error) {
	c := s.controller(auth, nil, nil)
	if err := c.OpenCreate(ctx, in.ChurchID); err != nil {
		return nil, err
	}
	if err := c.Update(func(f eventform.StagedEventForm) eventform.StagedEventForm {
		return eventform.FormFromInput(f, in)
	}); err != nil {
		return nil, err
	}
	id, err := c.SubmitCreate(ctx)
	if err != nil {
		return nil, err
	}
	return s.deps.Events.FindByID(ctx, id)
}

func (s *eventService) Update(ctx context.Context, auth eventform.Auth, id string, in models.EventInput) (*models.ChurchEvent, error) {
	event, err := s.deps.Events.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c := s.controller(auth, nil, nil)
	if err := c.OpenEdit(ctx, *event); err != nil {
		return nil, err
	}
	if err := c.Update(func(f eventform.StagedEventForm) eventform.StagedEventForm {
		return eventform.FormFromInput(f, in)
	}); err != nil {
		return nil, err
	}
	if err := c.SubmitUpdate(ctx); err != nil {
		return nil, err
	}
	return s.deps.Events.FindByID(ctx, id)
}

func (s *eventService) Delete(ctx context.Context, auth eventform.Auth, id string, confirmed bool) error {
	event, err := s.deps.Events.FindByID(ctx, id)
	if err != nil {
		return err
	}
	return s.controller(auth, eventform.StaticConfirmation(confirmed), nil).SubmitDelete(ctx, *event)
}

func (s *eventService) AttachImage(ctx context.Context, auth eventform.Auth, churchID, eventID string, img eventform.PickedImage) (string, string, error) {
	c := s.controller(auth, nil, eventform.PreselectedImage{Image: img})
	if eventID != "" {
		event, err := s.deps.Events.FindByID(ctx, eventID)
		if err != nil {
			return "", "", err
		}
		if err := c.OpenEdit(ctx, *event); err != nil {
			return "", "", err
		}
	} else if err := c.OpenCreate(ctx, churchID); err != nil {
		return "", "", err
	}
	url, err := c.AttachImage(ctx)
	var degraded *eventform.UploadDegraded
	if errors.As(err, &degraded) {
		return url, degraded.Warning, nil
	}
	return url, "", err
}
