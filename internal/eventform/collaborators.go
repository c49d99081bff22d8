package eventform

import (
	"context"

	"github.com/ArowuTest/church-calendar-backend/internal/models"
)

// EventStore persists church events
type EventStore interface {
	Insert(ctx context.Context, rec models.EventRecord) (string, error)
	Update(ctx context.Context, id string, rec models.EventRecord) error
	Delete(ctx context.Context, id string) error
	// QueryByChurch returns the church's events ordered by time ascending
	QueryByChurch(ctx context.Context, churchID string) ([]models.ChurchEvent, error)
}

// MembershipStore lists the churches a user belongs to
type MembershipStore interface {
	ListChurchesForUser(ctx context.Context, userID string) ([]models.UserChurchMembership, error)
}

// Auth exposes the signed-in user
type Auth interface {
	CurrentUser() (userID, email string, ok bool)
}

// BlobStore stores uploaded files and returns their public URL
type BlobStore interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)
}

// PickedImage is an image chosen on the device
type PickedImage struct {
	URI         string
	Ext         string
	ContentType string
	Data        []byte
}

// ImagePicker lets the user choose an image. ok is false when the user cancels.
type ImagePicker interface {
	PickImage(ctx context.Context) (img PickedImage, ok bool, err error)
}

// ConfirmationPrompt asks the user to accept a destructive action
type ConfirmationPrompt interface {
	Confirm(ctx context.Context, message string) bool
}

// StaticAuth is an Auth for a known user id
type StaticAuth struct {
	UserID string
	Email  string
}

func (a StaticAuth) CurrentUser() (string, string, bool) {
	return a.UserID, a.Email, a.UserID != ""
}

// StaticConfirmation answers every prompt with the same decision, e.g. an
// explicit confirm flag on a request
type StaticConfirmation bool

func (s StaticConfirmation) Confirm(context.Context, string) bool { return bool(s) }

// PreselectedImage is an ImagePicker for an image the caller already holds
type PreselectedImage struct {
	Image PickedImage
}

func (p PreselectedImage) PickImage(context.Context) (PickedImage, bool, error) {
	return p.Image, len(p.Image.Data) > 0 || p.Image.URI != "", nil
}
