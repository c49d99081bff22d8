// Command import_ics loads the VEVENTs of an .ics file into a church's calendar.
//
//	go run ./cmd/scripts/import_ics -church "Grace Chapel" -user <creator id> events.ics
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/ArowuTest/church-calendar-backend/internal/config"
	"github.com/ArowuTest/church-calendar-backend/internal/eventform"
	"github.com/ArowuTest/church-calendar-backend/internal/recurrence"
	mongorepo "github.com/ArowuTest/church-calendar-backend/internal/repositories/mongodb"
	"github.com/ArowuTest/church-calendar-backend/pkg/mongodb"
	ical "github.com/arran4/golang-ical"
	"github.com/joho/godotenv"
)

func main() {
	churchName := flag.String("church", "", "name of the church that owns the events")
	createdBy := flag.String("user", "", "user id recorded as the creator")
	dryRun := flag.Bool("dry-run", false, "parse and validate without writing")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}
	if flag.NArg() < 1 || *churchName == "" || *createdBy == "" {
		log.Fatal("usage: import_ics -church NAME -user USER_ID [-dry-run] FILE.ics")
	}

	cfg, err := config.Load(config.GetEnv("CONFIG_PATH", "."))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	client, err := mongodb.NewClient(ctx, cfg.MongoDB.URI, time.Duration(cfg.MongoDB.ConnectTimeout)*time.Second)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())
	db := client.Database(cfg.MongoDB.Database)

	church, err := mongorepo.NewChurchRepository(db).FindByName(ctx, *churchName)
	if err != nil {
		log.Fatalf("Failed to find church %q: %v", *churchName, err)
	}

	file, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatalf("Failed to open calendar file: %v", err)
	}
	defer file.Close()

	var store eventform.EventStore = mongorepo.NewEventRepository(db)
	if *dryRun {
		store = nil
	}
	result, err := importCalendar(ctx, file, church.ID, *createdBy, store, cfg.Calendar.Location())
	if err != nil {
		log.Fatalf("Failed to import calendar: %v", err)
	}
	log.Printf("Imported %d events into %s, skipped %d", result.Imported, church.Name, len(result.Skipped))
	for _, s := range result.Skipped {
		log.Printf("  skipped: %s", s)
	}
}

type importResult struct {
	Imported int
	Skipped  []string
}

// importCalendar validates every VEVENT as an event form and inserts the valid
// ones. A nil store only validates.
func importCalendar(ctx context.Context, r io.Reader, churchID, createdBy string, store eventform.EventStore, loc *time.Location) (importResult, error) {
	var result importResult
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return result, fmt.Errorf("failed to parse calendar: %w", err)
	}

	for _, ve := range cal.Events() {
		form, err := formFromVEvent(ve, churchID, loc)
		if err != nil {
			result.Skipped = append(result.Skipped, err.Error())
			continue
		}
		if verr := form.Validate(); verr != nil {
			result.Skipped = append(result.Skipped, fmt.Sprintf("%s: %v", ve.Id(), verr))
			continue
		}
		if store != nil {
			if _, err := store.Insert(ctx, form.Record(createdBy)); err != nil {
				return result, fmt.Errorf("failed to insert %s: %w", ve.Id(), err)
			}
		}
		result.Imported++
	}
	return result, nil
}

func formFromVEvent(ve *ical.VEvent, churchID string, loc *time.Location) (eventform.StagedEventForm, error) {
	start, err := ve.GetStartAt()
	if err != nil {
		return eventform.StagedEventForm{}, fmt.Errorf("%s: no usable DTSTART: %v", ve.Id(), err)
	}
	title := propValue(ve, ical.ComponentPropertySummary)
	excerpt := propValue(ve, ical.ComponentPropertyDescription)
	if excerpt == "" {
		excerpt = title
	}

	form := eventform.NewForm(start.In(loc), churchID, loc).
		WithTitle(title).
		WithExcerpt(excerpt).
		WithLocation(propValue(ve, ical.ComponentPropertyLocation))
	if url := propValue(ve, ical.ComponentPropertyUrl); url != "" {
		form = form.WithVideoLink(&url)
	}

	raw := propValue(ve, ical.ComponentPropertyRrule)
	if raw == "" {
		return form, nil
	}
	rule, err := recurrence.FromRRule(raw)
	if err != nil {
		return form, fmt.Errorf("%s: %v", ve.Id(), err)
	}
	if len(rule.DaysOfWeek) > 0 {
		form = form.WithDaysOfWeek(rule.DaysOfWeek)
	}
	form = form.
		WithRecurrenceType(rule.Type).
		WithRecurring(true).
		WithRecurrenceInterval(rule.Interval).
		WithRecurrenceEndDate(rule.EndDate)
	return form, nil
}

func propValue(ve *ical.VEvent, prop ical.ComponentProperty) string {
	if p := ve.GetProperty(prop); p != nil {
		return strings.TrimSpace(p.Value)
	}
	return ""
}
