package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ArowuTest/church-calendar-backend/internal/models"
	"github.com/ArowuTest/church-calendar-backend/internal/repositories/memory"
)

const sampleICS = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//Test//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:service-1\r\n" +
	"DTSTAMP:20240101T000000Z\r\n" +
	"DTSTART:20240107T100000Z\r\n" +
	"SUMMARY:Sunday Service\r\n" +
	"DESCRIPTION:Morning worship\r\n" +
	"RRULE:FREQ=WEEKLY;INTERVAL=1;BYDAY=SU,WE\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:picnic-1\r\n" +
	"DTSTAMP:20240101T000000Z\r\n" +
	"DTSTART:20240615T120000Z\r\n" +
	"SUMMARY:Church Picnic\r\n" +
	"LOCATION:Riverside Park\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:untitled-1\r\n" +
	"DTSTAMP:20240101T000000Z\r\n" +
	"DTSTART:20240701T120000Z\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestImportCalendar(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore("")
	church := &models.Church{Name: "Grace Chapel"}
	store.Churches.Create(ctx, church)

	result, err := importCalendar(ctx, strings.NewReader(sampleICS), church.ID, "importer", store.Events, time.UTC)
	if err != nil {
		t.Fatalf("importCalendar: %v", err)
	}
	if result.Imported != 2 || len(result.Skipped) != 1 {
		t.Fatalf("Expected 2 imported and 1 skipped, got %d and %v", result.Imported, result.Skipped)
	}

	events, _ := store.Events.QueryByChurch(ctx, church.ID)
	if len(events) != 2 {
		t.Fatalf("Expected 2 stored events, got %d", len(events))
	}
	service := events[0]
	if !service.IsWeekly() || len(service.RecurrenceDaysOfWeek) != 2 || service.RecurrenceDaysOfWeek[0] != 0 || service.RecurrenceDaysOfWeek[1] != 3 {
		t.Errorf("Expected weekly on [0 3], got %+v", service)
	}
	picnic := events[1]
	if picnic.IsRecurring || picnic.Excerpt != "Church Picnic" || picnic.EventLocation != "Riverside Park" {
		t.Errorf("Unexpected picnic %+v", picnic)
	}
}

func TestImportCalendarDryRun(t *testing.T) {
	result, err := importCalendar(context.Background(), strings.NewReader(sampleICS), "church-1", "importer", nil, time.UTC)
	if err != nil {
		t.Fatalf("importCalendar: %v", err)
	}
	if result.Imported != 2 {
		t.Errorf("Expected 2 valid events, got %d", result.Imported)
	}
}
