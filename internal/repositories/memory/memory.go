// Package memory holds in-process repositories. They back the API when no
// MongoDB is configured and stand in for it in tests.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ArowuTest/church-calendar-backend/internal/models"
	"github.com/ArowuTest/church-calendar-backend/internal/recurrence"
	"github.com/ArowuTest/church-calendar-backend/internal/repositories"
	"github.com/google/uuid"
)

var (
	_ repositories.EventRepository      = (*EventRepository)(nil)
	_ repositories.ChurchRepository     = (*ChurchRepository)(nil)
	_ repositories.MembershipRepository = (*MembershipRepository)(nil)
	_ repositories.UserRepository       = (*UserRepository)(nil)
)

// Store groups the repositories over one shared dataset
type Store struct {
	Events      *EventRepository
	Churches    *ChurchRepository
	Memberships *MembershipRepository
	Users       *UserRepository
	Blobs       *BlobStore
}

// NewStore creates an empty dataset
func NewStore(publicBaseURL string) *Store {
	churches := &ChurchRepository{churches: map[string]models.Church{}}
	return &Store{
		Events:      &EventRepository{churches: churches, events: map[string]storedEvent{}},
		Churches:    churches,
		Memberships: &MembershipRepository{churches: churches, roles: map[string]map[string]models.Role{}},
		Users:       &UserRepository{users: map[string]models.User{}},
		Blobs:       &BlobStore{publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"), blobs: map[string]blob{}},
	}
}

func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

type storedEvent struct {
	id        string
	rec       models.EventRecord
	createdAt time.Time
	updatedAt time.Time
}

// EventRepository keeps event records in their stored (encoded) form
type EventRepository struct {
	mu       sync.RWMutex
	churches *ChurchRepository
	events   map[string]storedEvent
	// Err, when set, fails every write with this error
	Err error
}

func (r *EventRepository) Insert(_ context.Context, rec models.EventRecord) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return "", r.Err
	}
	now := time.Now().UTC()
	id := newID()
	r.events[id] = storedEvent{id: id, rec: rec, createdAt: now, updatedAt: now}
	return id, nil
}

func (r *EventRepository) Update(_ context.Context, id string, rec models.EventRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	stored, ok := r.events[id]
	if !ok {
		return repositories.ErrNotFound
	}
	rec.CreatedBy = stored.rec.CreatedBy
	stored.rec = rec
	stored.updatedAt = time.Now().UTC()
	r.events[id] = stored
	return nil
}

func (r *EventRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.events[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.events, id)
	return nil
}

func (r *EventRepository) FindByID(_ context.Context, id string) (*models.ChurchEvent, error) {
	r.mu.RLock()
	stored, ok := r.events[id]
	r.mu.RUnlock()
	if !ok {
		return nil, repositories.ErrNotFound
	}
	e := r.toModel(stored)
	return &e, nil
}

func (r *EventRepository) QueryByChurch(_ context.Context, churchID string) ([]models.ChurchEvent, error) {
	r.mu.RLock()
	events := make([]models.ChurchEvent, 0)
	for _, stored := range r.events {
		if stored.rec.ChurchID == churchID {
			events = append(events, r.toModel(stored))
		}
	}
	r.mu.RUnlock()
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Time.Equal(events[j].Time) {
			return events[i].ID < events[j].ID
		}
		return events[i].Time.Before(events[j].Time)
	})
	return events, nil
}

// Count returns the number of stored events
func (r *EventRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.events)
}

func (r *EventRepository) toModel(s storedEvent) models.ChurchEvent {
	rec := s.rec
	e := models.ChurchEvent{
		ID:                   s.id,
		Time:                 rec.Time,
		Title:                rec.Title,
		Excerpt:              rec.Excerpt,
		AuthorName:           rec.AuthorName,
		EventLocation:        rec.EventLocation,
		ImageURL:             rec.ImageURL,
		VideoLink:            rec.VideoLink,
		CreatedBy:            rec.CreatedBy,
		ChurchID:             rec.ChurchID,
		IsRecurring:          rec.IsRecurring,
		RecurrenceType:       rec.RecurrenceType,
		RecurrenceInterval:   rec.RecurrenceInterval,
		RecurrenceEndDate:    rec.RecurrenceEndDate,
		RecurrenceDaysOfWeek: recurrence.DecodePtr(rec.RecurrenceDaysOfWeek),
		Church:               models.ChurchRef{ID: rec.ChurchID, Name: r.churches.name(rec.ChurchID)},
		CreatedAt:            s.createdAt,
		UpdatedAt:            s.updatedAt,
	}
	e.Normalize()
	return e
}

// ChurchRepository keeps churches by id
type ChurchRepository struct {
	mu       sync.RWMutex
	churches map[string]models.Church
}

func (r *ChurchRepository) Create(_ context.Context, church *models.Church) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.churches {
		if strings.EqualFold(c.Name, strings.TrimSpace(church.Name)) {
			return repositories.ErrDuplicate
		}
	}
	church.ID = newID()
	church.Name = strings.TrimSpace(church.Name)
	church.CreatedAt = time.Now().UTC()
	r.churches[church.ID] = *church
	return nil
}

func (r *ChurchRepository) FindByID(_ context.Context, id string) (*models.Church, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.churches[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &c, nil
}

func (r *ChurchRepository) FindByName(_ context.Context, name string) (*models.Church, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.churches {
		if strings.EqualFold(c.Name, strings.TrimSpace(name)) {
			return &c, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *ChurchRepository) name(id string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.churches[id].Name
}

// MembershipRepository keeps roles by user then church
type MembershipRepository struct {
	mu       sync.RWMutex
	churches *ChurchRepository
	roles    map[string]map[string]models.Role
}

func (r *MembershipRepository) ListChurchesForUser(_ context.Context, userID string) ([]models.UserChurchMembership, error) {
	r.mu.RLock()
	memberships := make([]models.UserChurchMembership, 0, len(r.roles[userID]))
	for churchID, role := range r.roles[userID] {
		memberships = append(memberships, models.UserChurchMembership{
			ChurchID:   churchID,
			ChurchName: r.churches.name(churchID),
			Role:       role,
		})
	}
	r.mu.RUnlock()
	sort.Slice(memberships, func(i, j int) bool {
		return memberships[i].ChurchName < memberships[j].ChurchName
	})
	return memberships, nil
}

func (r *MembershipRepository) SetRole(_ context.Context, churchID, userID string, role models.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.roles[userID] == nil {
		r.roles[userID] = map[string]models.Role{}
	}
	r.roles[userID][churchID] = role
	return nil
}

// UserRepository keeps users by id
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func (r *UserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	email := strings.ToLower(strings.TrimSpace(user.Email))
	for _, u := range r.users {
		if u.Email == email {
			return repositories.ErrDuplicate
		}
	}
	now := time.Now().UTC()
	user.ID = newID()
	user.Email = email
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &u, nil
}

type blob struct {
	data        []byte
	contentType string
}

// BlobStore keeps uploaded files in memory
type BlobStore struct {
	mu            sync.RWMutex
	publicBaseURL string
	blobs         map[string]blob
	// Err, when set, fails every upload with this error
	Err error
}

func (s *BlobStore) Upload(_ context.Context, path string, data []byte, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	path = strings.TrimPrefix(path, "/")
	s.blobs[path] = blob{data: append([]byte(nil), data...), contentType: contentType}
	return fmt.Sprintf("%s/%s", s.publicBaseURL, path), nil
}

func (s *BlobStore) Download(_ context.Context, path string, w io.Writer) (string, error) {
	s.mu.RLock()
	b, ok := s.blobs[strings.TrimPrefix(path, "/")]
	s.mu.RUnlock()
	if !ok {
		return "", repositories.ErrNotFound
	}
	if _, err := io.Copy(w, bytes.NewReader(b.data)); err != nil {
		return "", err
	}
	if b.contentType == "" {
		return "application/octet-stream", nil
	}
	return b.contentType, nil
}
