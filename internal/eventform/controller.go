// Package eventform owns the staged event draft and drives create, update and
// delete against the event store.
package eventform

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ArowuTest/church-calendar-backend/internal/clock"
	"github.com/ArowuTest/church-calendar-backend/internal/diagnostics"
	"github.com/ArowuTest/church-calendar-backend/internal/models"
	"github.com/ArowuTest/church-calendar-backend/internal/permissions"
)

// Mode is the controller's form state
type Mode int

const (
	ModeClosed Mode = iota
	ModeCreating
	ModeEditing
)

func (m Mode) String() string {
	switch m {
	case ModeCreating:
		return "creating"
	case ModeEditing:
		return "editing"
	default:
		return "closed"
	}
}

// Deps are the collaborators of a Controller. Picker, Blobs and Confirm may be
// nil when the caller never attaches images or deletes.
type Deps struct {
	Store       EventStore
	Memberships MembershipStore
	Auth        Auth
	Blobs       BlobStore
	Picker      ImagePicker
	Confirm     ConfirmationPrompt
	Clock       clock.Clock
	Diagnostics diagnostics.Reporter
	// Location is the zone used for weekday repair when loading events
	Location *time.Location
	// OnRefresh runs after every successful mutation so the caller can re-query
	OnRefresh func(churchID string)
}

// Controller owns one staged event form. Each screen or request gets its own.
type Controller struct {
	deps Deps

	mu         sync.Mutex
	mode       Mode
	form       *StagedEventForm
	editing    *models.ChurchEvent
	submitting bool
}

// NewController creates a closed controller
func NewController(deps Deps) *Controller {
	if deps.Clock == nil {
		deps.Clock = clock.System{}
	}
	if deps.Diagnostics == nil {
		deps.Diagnostics = diagnostics.Nop{}
	}
	if deps.Location == nil {
		deps.Location = time.Local
	}
	return &Controller{deps: deps}
}

// OpenCreate starts a new draft for churchID. The caller must be signed in and
// hold create permission on that church.
func (c *Controller) OpenCreate(ctx context.Context, churchID string) error {
	userID, ok := c.currentUser()
	if !ok {
		return c.fail(ctx, ErrNotSignedIn, "action", "openCreate")
	}
	if churchID == "" {
		return c.fail(ctx, ErrNoChurchSelected, "action", "openCreate")
	}
	resolver, err := c.resolver(ctx, userID)
	if err != nil {
		return err
	}
	if !resolver.CanCreateIn(churchID) {
		return c.fail(ctx, &PermissionDenied{Action: "create"}, "church_id", churchID, "user_id", userID)
	}

	form := NewForm(c.deps.Clock.Now(), churchID, c.deps.Location)
	c.mu.Lock()
	c.mode = ModeCreating
	c.form = &form
	c.editing = nil
	c.mu.Unlock()
	return nil
}

// OpenEdit loads event into the draft. The caller must be its creator or hold
// create permission on the event's church.
func (c *Controller) OpenEdit(ctx context.Context, event models.ChurchEvent) error {
	userID, ok := c.currentUser()
	if !ok {
		return c.fail(ctx, ErrNotSignedIn, "action", "openEdit")
	}
	if err := c.checkModify(ctx, userID, &event, "edit"); err != nil {
		return err
	}

	form := FormFromEvent(&event, c.deps.Location)
	c.mu.Lock()
	c.mode = ModeEditing
	c.form = &form
	c.editing = &event
	c.mu.Unlock()
	return nil
}

// Close discards the draft
func (c *Controller) Close() {
	c.mu.Lock()
	c.closeLocked()
	c.mu.Unlock()
}

func (c *Controller) closeLocked() {
	c.mode = ModeClosed
	c.form = nil
	c.editing = nil
}

// Mode returns the form state and, when editing, the event id
func (c *Controller) Mode() (Mode, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode == ModeEditing && c.editing != nil {
		return c.mode, c.editing.ID
	}
	return c.mode, ""
}

// Form returns a copy of the draft
func (c *Controller) Form() (StagedEventForm, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.form == nil {
		return StagedEventForm{}, false
	}
	return *c.form, true
}

// IsSubmitting reports whether a mutation is in flight
func (c *Controller) IsSubmitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

// Update applies a pure transition to the draft
func (c *Controller) Update(fn func(StagedEventForm) StagedEventForm) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.form == nil {
		return ErrFormClosed
	}
	next := fn(*c.form)
	c.form = &next
	return nil
}

// ToggleRecurrenceDay adds or removes a weekday. It reports false when the
// change was refused, which happens when removing the last remaining day.
func (c *Controller) ToggleRecurrenceDay(day int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.form == nil {
		return false
	}
	next, changed := c.form.WithToggledDay(day)
	if changed {
		c.form = &next
	}
	return changed
}

// Validate checks the draft and returns the first violated constraint
func (c *Controller) Validate() *ValidationError {
	form, ok := c.Form()
	if !ok {
		return &ValidationError{Field: "form", Reason: ErrFormClosed.Error()}
	}
	return form.Validate()
}

// SubmitCreate persists a new event from the draft and returns its id.
// On any failure the draft stays open for correction.
func (c *Controller) SubmitCreate(ctx context.Context) (string, error) {
	form, _, err := c.beginSubmit(ModeCreating)
	if err != nil {
		return "", c.fail(ctx, err, "action", "submitCreate")
	}
	defer c.endSubmit()

	userID, ok := c.currentUser()
	if !ok {
		return "", c.fail(ctx, ErrNotSignedIn, "action", "submitCreate")
	}
	resolver, err := c.resolver(ctx, userID)
	if err != nil {
		return "", err
	}
	if !resolver.CanCreateIn(form.ChurchID) {
		return "", c.fail(ctx, &PermissionDenied{Action: "create"}, "church_id", form.ChurchID, "user_id", userID)
	}
	if verr := form.Validate(); verr != nil {
		return "", c.fail(ctx, verr, "field", verr.Field)
	}

	id, err := c.deps.Store.Insert(ctx, form.Record(userID))
	if err != nil {
		return "", c.fail(ctx, &PersistenceError{Operation: "insert", Err: err}, "church_id", form.ChurchID)
	}

	c.finish(form.ChurchID, "")
	return id, nil
}

// SubmitUpdate writes the draft back to the event being edited
func (c *Controller) SubmitUpdate(ctx context.Context) error {
	form, original, err := c.beginSubmit(ModeEditing)
	if err != nil {
		return c.fail(ctx, err, "action", "submitUpdate")
	}
	defer c.endSubmit()

	userID, ok := c.currentUser()
	if !ok {
		return c.fail(ctx, ErrNotSignedIn, "action", "submitUpdate")
	}
	resolver, err := c.resolver(ctx, userID)
	if err != nil {
		return err
	}
	if !permissions.CanModify(userID, original, resolver.RoleFor(original.ChurchID)) {
		return c.fail(ctx, &PermissionDenied{Action: "edit"}, "event_id", original.ID, "user_id", userID)
	}
	if form.ChurchID != original.ChurchID && !resolver.CanCreateIn(form.ChurchID) {
		return c.fail(ctx, &PermissionDenied{Action: "move"}, "event_id", original.ID, "church_id", form.ChurchID)
	}
	if verr := form.Validate(); verr != nil {
		return c.fail(ctx, verr, "field", verr.Field)
	}

	if err := c.deps.Store.Update(ctx, original.ID, form.Record(original.CreatedBy)); err != nil {
		return c.fail(ctx, &PersistenceError{Operation: "update", Err: err}, "event_id", original.ID)
	}

	c.finish(form.ChurchID, original.ID)
	if original.ChurchID != form.ChurchID {
		c.refresh(original.ChurchID)
	}
	return nil
}

// SubmitDelete removes event after the user confirms. An open edit form for
// the same event is closed on success.
func (c *Controller) SubmitDelete(ctx context.Context, event models.ChurchEvent) error {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return c.fail(ctx, ErrSubmitInProgress, "action", "submitDelete")
	}
	c.submitting = true
	c.mu.Unlock()
	defer c.endSubmit()

	userID, ok := c.currentUser()
	if !ok {
		return c.fail(ctx, ErrNotSignedIn, "action", "submitDelete")
	}
	if err := c.checkModify(ctx, userID, &event, "delete"); err != nil {
		return err
	}
	if c.deps.Confirm == nil || !c.deps.Confirm.Confirm(ctx, fmt.Sprintf("Delete %q? This cannot be undone.", event.Title)) {
		return ErrDeleteDeclined
	}

	if err := c.deps.Store.Delete(ctx, event.ID); err != nil {
		return c.fail(ctx, &PersistenceError{Operation: "delete", Err: err}, "event_id", event.ID)
	}

	c.mu.Lock()
	if c.mode == ModeEditing && c.editing != nil && c.editing.ID == event.ID {
		c.closeLocked()
	}
	c.mu.Unlock()
	c.refresh(event.ChurchID)
	return nil
}

func (c *Controller) beginSubmit(want Mode) (StagedEventForm, *models.ChurchEvent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitting {
		return StagedEventForm{}, nil, ErrSubmitInProgress
	}
	if c.form == nil || c.mode != want {
		return StagedEventForm{}, nil, ErrFormClosed
	}
	c.submitting = true
	return *c.form, c.editing, nil
}

func (c *Controller) endSubmit() {
	c.mu.Lock()
	c.submitting = false
	c.mu.Unlock()
}

// finish closes the draft after a successful write, unless the caller already
// moved on to a different form.
func (c *Controller) finish(churchID, eventID string) {
	c.mu.Lock()
	switch {
	case eventID == "" && c.mode == ModeCreating:
		c.closeLocked()
	case eventID != "" && c.mode == ModeEditing && c.editing != nil && c.editing.ID == eventID:
		c.closeLocked()
	}
	c.mu.Unlock()
	c.refresh(churchID)
}

func (c *Controller) refresh(churchID string) {
	if c.deps.OnRefresh != nil {
		c.deps.OnRefresh(churchID)
	}
}

func (c *Controller) currentUser() (string, bool) {
	if c.deps.Auth == nil {
		return "", false
	}
	id, _, ok := c.deps.Auth.CurrentUser()
	return id, ok && id != ""
}

func (c *Controller) resolver(ctx context.Context, userID string) (*permissions.Resolver, error) {
	memberships, err := c.deps.Memberships.ListChurchesForUser(ctx, userID)
	if err != nil {
		return nil, c.fail(ctx, &PersistenceError{Operation: "listChurchesForUser", Err: err}, "user_id", userID)
	}
	return permissions.NewResolver(memberships), nil
}

func (c *Controller) checkModify(ctx context.Context, userID string, event *models.ChurchEvent, action string) error {
	// The creator needs no membership lookup.
	if event.CreatedBy == userID {
		return nil
	}
	resolver, err := c.resolver(ctx, userID)
	if err != nil {
		return err
	}
	if !permissions.CanModify(userID, event, resolver.RoleFor(event.ChurchID)) {
		return c.fail(ctx, &PermissionDenied{Action: action}, "event_id", event.ID, "user_id", userID)
	}
	return nil
}

func (c *Controller) fail(ctx context.Context, err error, kv ...any) error {
	c.deps.Diagnostics.Report(ctx, err, kv...)
	return err
}
