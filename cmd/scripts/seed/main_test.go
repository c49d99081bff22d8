package main

import (
	"context"
	"strings"
	"testing"

	"github.com/ArowuTest/church-calendar-backend/internal/models"
	"github.com/ArowuTest/church-calendar-backend/internal/repositories/memory"
	"golang.org/x/crypto/bcrypt"
)

const sampleSeed = `
users:
  - name: Pastor John
    email: john@example.org
    password: change-me
  - name: Mary
    email: mary@example.org
    password: change-me-too
churches:
  - name: Grace Chapel
    members:
      - email: john@example.org
        role: Owner
      - email: mary@example.org
        role: member
`

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	data, err := parseSeed(strings.NewReader(sampleSeed))
	if err != nil {
		t.Fatalf("parseSeed: %v", err)
	}
	store := memory.NewStore("")
	repos := seedRepos{users: store.Users, churches: store.Churches, memberships: store.Memberships}

	for i := 0; i < 2; i++ {
		if err := seed(ctx, data, repos, bcrypt.MinCost); err != nil {
			t.Fatalf("seed run %d: %v", i+1, err)
		}
	}

	john, err := store.Users.FindByEmail(ctx, "john@example.org")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	memberships, _ := store.Memberships.ListChurchesForUser(ctx, john.ID)
	if len(memberships) != 1 || memberships[0].Role != models.RoleOwner || memberships[0].ChurchName != "Grace Chapel" {
		t.Errorf("Unexpected memberships %+v", memberships)
	}
}

func TestSeedRejectsUnknownRole(t *testing.T) {
	data, _ := parseSeed(strings.NewReader(strings.Replace(sampleSeed, "role: member", "role: deacon", 1)))
	store := memory.NewStore("")
	err := seed(context.Background(), data, seedRepos{users: store.Users, churches: store.Churches, memberships: store.Memberships}, bcrypt.MinCost)
	if err == nil || !strings.Contains(err.Error(), "deacon") {
		t.Errorf("Expected unknown role error, got %v", err)
	}
}

func TestParseSeedRejectsUnknownFields(t *testing.T) {
	if _, err := parseSeed(strings.NewReader("churchez: []\n")); err == nil {
		t.Error("Expected error for unknown field")
	}
}
