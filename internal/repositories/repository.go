package repositories

import (
	"context"
	"errors"

	"github.com/ArowuTest/church-calendar-backend/internal/models"
)

var (
	// ErrNotFound is returned when a lookup matches nothing
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique index rejects a write
	ErrDuplicate = errors.New("already exists")
)

// EventRepository defines the interface for church event data operations.
// It satisfies eventform.EventStore.
type EventRepository interface {
	Insert(ctx context.Context, rec models.EventRecord) (string, error)
	Update(ctx context.Context, id string, rec models.EventRecord) error
	Delete(ctx context.Context, id string) error
	QueryByChurch(ctx context.Context, churchID string) ([]models.ChurchEvent, error)
	FindByID(ctx context.Context, id string) (*models.ChurchEvent, error)
}

// ChurchRepository defines the interface for church data operations
type ChurchRepository interface {
	Create(ctx context.Context, church *models.Church) error
	FindByID(ctx context.Context, id string) (*models.Church, error)
	FindByName(ctx context.Context, name string) (*models.Church, error)
}

// MembershipRepository defines the interface for user/church role operations.
// It satisfies eventform.MembershipStore.
type MembershipRepository interface {
	ListChurchesForUser(ctx context.Context, userID string) ([]models.UserChurchMembership, error)
	SetRole(ctx context.Context, churchID, userID string, role models.Role) error
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
}
