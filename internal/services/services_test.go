package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ArowuTest/church-calendar-backend/internal/calendar"
	"github.com/ArowuTest/church-calendar-backend/internal/clock"
	"github.com/ArowuTest/church-calendar-backend/internal/diagnostics"
	"github.com/ArowuTest/church-calendar-backend/internal/eventform"
	"github.com/ArowuTest/church-calendar-backend/internal/models"
	"github.com/ArowuTest/church-calendar-backend/internal/repositories"
	"github.com/ArowuTest/church-calendar-backend/internal/repositories/memory"
	"github.com/ArowuTest/church-calendar-backend/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

var fixedNow = time.Date(2024, time.February, 14, 9, 0, 0, 0, time.UTC)

type fixture struct {
	store    *memory.Store
	events   EventService
	churches ChurchService
	ical     ICalService
	calendar CalendarService
	church   *models.Church
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore("/api/v1/media")
	clk := clock.Fixed(fixedNow)
	icalSvc := NewICalService(store.Churches, store.Events, clk, "test")
	f := &fixture{
		store:    store,
		churches: NewChurchService(store.Churches, store.Memberships, store.Users),
		ical:     icalSvc,
		calendar: NewCalendarService(store.Events, calendar.NewGridBuilder(clk, time.UTC)),
		events: NewEventService(EventServiceDeps{
			Events:      store.Events,
			Memberships: store.Memberships,
			Blobs:       store.Blobs,
			Clock:       clk,
			Diagnostics: diagnostics.Nop{},
			Location:    time.UTC,
			OnChange:    icalSvc.Invalidate,
		}),
	}
	church, err := f.churches.Create(ctx, "owner-1", &models.CreateChurchRequest{Name: "St. Peter's"})
	if err != nil {
		t.Fatalf("create church: %v", err)
	}
	f.church = church
	store.Memberships.SetRole(ctx, church.ID, "member-1", models.RoleMember)
	return f
}

func sundayService(churchID string) models.EventInput {
	interval := 1
	return models.EventInput{
		ChurchID:             churchID,
		Title:                "Sunday Service",
		Excerpt:              "Morning worship",
		Time:                 time.Date(2024, time.February, 18, 10, 0, 0, 0, time.UTC),
		IsRecurring:          true,
		RecurrenceType:       "weekly",
		RecurrenceInterval:   &interval,
		RecurrenceDaysOfWeek: []int{0},
	}
}

func TestEventServiceCreateByOwner(t *testing.T) {
	f := newFixture(t)
	event, err := f.events.Create(context.Background(), eventform.StaticAuth{UserID: "owner-1"}, sundayService(f.church.ID))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if event.Church.Name != "St. Peter's" {
		t.Errorf("Expected church name filled, got %q", event.Church.Name)
	}
	if len(event.RecurrenceDaysOfWeek) != 1 || event.RecurrenceDaysOfWeek[0] != 0 {
		t.Errorf("Expected Sunday to survive the round trip, got %v", event.RecurrenceDaysOfWeek)
	}
}

func TestEventServiceCreateByMemberDenied(t *testing.T) {
	f := newFixture(t)
	_, err := f.events.Create(context.Background(), eventform.StaticAuth{UserID: "member-1"}, sundayService(f.church.ID))
	var denied *eventform.PermissionDenied
	if !errors.As(err, &denied) {
		t.Fatalf("Expected PermissionDenied, got %v", err)
	}
	if n := f.store.Events.Count(); n != 0 {
		t.Errorf("Expected no stored events, got %d", n)
	}
}

func TestEventServiceUpdateByCreatorMember(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	event, _ := f.events.Create(ctx, eventform.StaticAuth{UserID: "owner-1"}, sundayService(f.church.ID))

	in := sundayService(f.church.ID)
	in.Title = "Evening Service"
	in.IsRecurring = false
	updated, err := f.events.Update(ctx, eventform.StaticAuth{UserID: "owner-1"}, event.ID, in)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "Evening Service" || updated.IsRecurring || updated.RecurrenceType != nil {
		t.Errorf("Unexpected updated event %+v", updated)
	}
	if updated.CreatedBy != "owner-1" {
		t.Errorf("Expected creator kept, got %s", updated.CreatedBy)
	}

	_, err = f.events.Update(ctx, eventform.StaticAuth{UserID: "member-1"}, event.ID, in)
	var denied *eventform.PermissionDenied
	if !errors.As(err, &denied) {
		t.Errorf("Expected member update to be denied, got %v", err)
	}
}

func TestEventServiceDeleteNeedsConfirmation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	auth := eventform.StaticAuth{UserID: "owner-1"}
	event, _ := f.events.Create(ctx, auth, sundayService(f.church.ID))

	if err := f.events.Delete(ctx, auth, event.ID, false); !errors.Is(err, eventform.ErrDeleteDeclined) {
		t.Fatalf("Expected ErrDeleteDeclined, got %v", err)
	}
	if f.store.Events.Count() != 1 {
		t.Fatal("Expected event to survive a declined delete")
	}
	if err := f.events.Delete(ctx, auth, event.ID, true); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if f.store.Events.Count() != 0 {
		t.Error("Expected event deleted")
	}
}

func TestEventServiceAttachImageDegraded(t *testing.T) {
	f := newFixture(t)
	f.store.Blobs.Err = errors.New("storage offline")
	img := eventform.PickedImage{URI: "upload://flyer.png", Ext: "png", ContentType: "image/png", Data: []byte{1, 2}}

	url, warning, err := f.events.AttachImage(context.Background(), eventform.StaticAuth{UserID: "owner-1"}, f.church.ID, "", img)
	if err != nil {
		t.Fatalf("AttachImage: %v", err)
	}
	if url != "upload://flyer.png" || warning == "" {
		t.Errorf("Expected local uri with warning, got %q %q", url, warning)
	}
}

func TestICalFeed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	auth := eventform.StaticAuth{UserID: "owner-1"}
	f.events.Create(ctx, auth, sundayService(f.church.ID))
	single := sundayService(f.church.ID)
	single.Title = "Baptism"
	single.IsRecurring = false
	f.events.Create(ctx, auth, single)

	feed, err := f.ical.Feed(ctx, f.church.ID)
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	body := string(feed)
	if got := strings.Count(body, "BEGIN:VEVENT"); got != 2 {
		t.Errorf("Expected 2 VEVENTs, got %d", got)
	}
	if !strings.Contains(body, "FREQ=WEEKLY") || !strings.Contains(body, "BYDAY=SU") {
		t.Errorf("Expected weekly RRULE in feed:\n%s", body)
	}

	// The cache is dropped when events change.
	extra := single
	extra.Title = "Choir"
	f.events.Create(ctx, auth, extra)
	feed, _ = f.ical.Feed(ctx, f.church.ID)
	if got := strings.Count(string(feed), "BEGIN:VEVENT"); got != 3 {
		t.Errorf("Expected 3 VEVENTs after invalidation, got %d", got)
	}
}

func TestCalendarMonth(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.events.Create(ctx, eventform.StaticAuth{UserID: "owner-1"}, sundayService(f.church.ID))

	month, err := f.calendar.Month(ctx, f.church.ID, "")
	if err != nil {
		t.Fatalf("Month: %v", err)
	}
	if month.Month != "2024-02" {
		t.Errorf("Expected current month 2024-02, got %s", month.Month)
	}
	if len(month.Weeks) != 5 {
		t.Errorf("Expected 5 weeks, got %d", len(month.Weeks))
	}
	// Feb 18 is the first day of the fourth row.
	if got := month.Weeks[3][0]; got.DayOfMonth != 18 || len(got.Events) != 1 {
		t.Errorf("Expected the event on Feb 18, got day %d with %d events", got.DayOfMonth, len(got.Events))
	}
	if month.Weeks[3][0].Events[0].Title != "Sunday Service" {
		t.Errorf("Unexpected event %+v", month.Weeks[3][0].Events[0])
	}

	if _, err := f.calendar.Month(ctx, f.church.ID, "2024-13"); err == nil {
		t.Error("Expected error for invalid month")
	}
}

func TestSetMemberRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := &models.User{Name: "Ada", Email: "ada@example.org"}
	f.store.Users.Create(ctx, user)

	err := f.churches.SetMemberRole(ctx, "member-1", f.church.ID, &models.SetMemberRoleRequest{UserID: user.ID, Role: "admin"})
	var denied *eventform.PermissionDenied
	if !errors.As(err, &denied) {
		t.Errorf("Expected member to be denied, got %v", err)
	}
	if err := f.churches.SetMemberRole(ctx, "owner-1", f.church.ID, &models.SetMemberRoleRequest{UserID: user.ID, Role: "Admin "}); err != nil {
		t.Fatalf("SetMemberRole: %v", err)
	}
	memberships, _ := f.churches.ListForUser(ctx, user.ID)
	if len(memberships) != 1 || memberships[0].Role != models.RoleAdmin {
		t.Errorf("Expected admin membership, got %+v", memberships)
	}
	if err := f.churches.SetMemberRole(ctx, "owner-1", f.church.ID, &models.SetMemberRoleRequest{UserID: user.ID, Role: "deacon"}); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("Expected ErrInvalidRole, got %v", err)
	}
}

func TestAuthRegisterAndLogin(t *testing.T) {
	store := memory.NewStore("")
	svc := NewAuthService(store.Users, jwt.NewTokenService("secret", 3600)).(*authService)
	svc.cost = bcrypt.MinCost
	ctx := context.Background()

	resp, err := svc.Register(ctx, &models.RegisterRequest{Name: "Grace", Email: "Grace@Example.org", Password: "hunter22"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if resp.Token == "" || resp.User.Password != "" {
		t.Errorf("Unexpected register response %+v", resp)
	}
	if _, err := svc.Register(ctx, &models.RegisterRequest{Name: "G", Email: "grace@example.org", Password: "x"}); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("Expected ErrEmailTaken, got %v", err)
	}
	if _, err := svc.Login(ctx, &models.LoginRequest{Email: "grace@example.org", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, &models.LoginRequest{Email: "grace@example.org", Password: "hunter22"}); err != nil {
		t.Errorf("Login: %v", err)
	}
}

func TestMovingEventRefreshesSourceChurchFeed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	auth := eventform.StaticAuth{UserID: "owner-1"}
	other, err := f.churches.Create(ctx, "owner-1", &models.CreateChurchRequest{Name: "Holy Trinity"})
	if err != nil {
		t.Fatalf("create church: %v", err)
	}
	event, err := f.events.Create(ctx, auth, sundayService(f.church.ID))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if feed, _ := f.ical.Feed(ctx, f.church.ID); strings.Count(string(feed), "BEGIN:VEVENT") != 1 {
		t.Fatalf("Expected the event in the source feed before the move")
	}

	moved := sundayService(other.ID)
	if _, err := f.events.Update(ctx, auth, event.ID, moved); err != nil {
		t.Fatalf("Update: %v", err)
	}

	feed, _ := f.ical.Feed(ctx, f.church.ID)
	if strings.Contains(string(feed), "BEGIN:VEVENT") {
		t.Errorf("Expected source feed without the moved event:\n%s", feed)
	}
	feed, _ = f.ical.Feed(ctx, other.ID)
	if got := strings.Count(string(feed), "BEGIN:VEVENT"); got != 1 {
		t.Errorf("Expected 1 VEVENT in destination feed, got %d", got)
	}
}

// pausingEvents holds the first QueryByChurch after it has read the store
type pausingEvents struct {
	repositories.EventRepository
	once    sync.Once
	read    chan struct{}
	release chan struct{}
}

func (p *pausingEvents) QueryByChurch(ctx context.Context, churchID string) ([]models.ChurchEvent, error) {
	events, err := p.EventRepository.QueryByChurch(ctx, churchID)
	p.once.Do(func() {
		close(p.read)
		<-p.release
	})
	return events, err
}

func TestICalFeedDoesNotCacheRenderOlderThanInvalidate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	events := &pausingEvents{EventRepository: f.store.Events, read: make(chan struct{}), release: make(chan struct{})}
	icalSvc := NewICalService(f.store.Churches, events, clock.Fixed(fixedNow), "test")

	done := make(chan struct{})
	go func() {
		defer close(done)
		icalSvc.Feed(ctx, f.church.ID)
	}()
	<-events.read

	if _, err := f.events.Create(ctx, eventform.StaticAuth{UserID: "owner-1"}, sundayService(f.church.ID)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	icalSvc.Invalidate(f.church.ID)
	close(events.release)
	<-done

	feed, err := icalSvc.Feed(ctx, f.church.ID)
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if !strings.Contains(string(feed), "Sunday Service") {
		t.Errorf("Expected feed after invalidate to list the new event:\n%s", feed)
	}
}
