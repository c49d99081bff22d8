package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ArowuTest/church-calendar-backend/internal/eventform"
	"github.com/ArowuTest/church-calendar-backend/internal/models"
	"github.com/ArowuTest/church-calendar-backend/internal/permissions"
	"github.com/ArowuTest/church-calendar-backend/internal/repositories"
)

var (
	ErrInvalidRole       = errors.New("role must be member, admin or owner")
	ErrChurchNameTaken   = errors.New("a church with this name already exists")
	ErrChurchNameMissing = errors.New("church name is required")
)

// ChurchService manages churches and the roles users hold in them
type ChurchService interface {
	ListForUser(ctx context.Context, userID string) ([]models.UserChurchMembership, error)
	Create(ctx context.Context, userID string, req *models.CreateChurchRequest) (*models.Church, error)
	SetMemberRole(ctx context.Context, actorID, churchID string, req *models.SetMemberRoleRequest) error
}

type churchService struct {
	churches    repositories.ChurchRepository
	memberships repositories.MembershipRepository
	users       repositories.UserRepository
}

// NewChurchService creates a new ChurchService
func NewChurchService(churches repositories.ChurchRepository, memberships repositories.MembershipRepository, users repositories.UserRepository) ChurchService {
	return &churchService{churches: churches, memberships: memberships, users: users}
}

func (s *churchService) ListForUser(ctx context.Context, userID string) ([]models.UserChurchMembership, error) {
	return s.memberships.ListChurchesForUser(ctx, userID)
}

// Create registers a church and makes its creator the owner
func (s *churchService) Create(ctx context.Context, userID string, req *models.CreateChurchRequest) (*models.Church, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrChurchNameMissing
	}
	church := &models.Church{Name: name, CreatedBy: userID}
	if err := s.churches.Create(ctx, church); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrChurchNameTaken
		}
		return nil, fmt.Errorf("failed to create church: %w", err)
	}
	if err := s.memberships.SetRole(ctx, church.ID, userID, models.RoleOwner); err != nil {
		return nil, fmt.Errorf("failed to add owner membership: %w", err)
	}
	return church, nil
}

// SetMemberRole lets an admin or owner set another user's role. Only owners
// may grant or revoke ownership.
func (s *churchService) SetMemberRole(ctx context.Context, actorID, churchID string, req *models.SetMemberRoleRequest) error {
	role := models.ParseRole(req.Role)
	if !role.IsValid() {
		return ErrInvalidRole
	}
	if _, err := s.churches.FindByID(ctx, churchID); err != nil {
		return err
	}

	memberships, err := s.memberships.ListChurchesForUser(ctx, actorID)
	if err != nil {
		return err
	}
	actorRole := permissions.NewResolver(memberships).RoleFor(churchID)
	if !permissions.CanManageMembers(actorRole) {
		return &eventform.PermissionDenied{Action: "manage members"}
	}

	if actorRole != models.RoleOwner {
		if role == models.RoleOwner {
			return &eventform.PermissionDenied{Action: "grant owner"}
		}
		targetMemberships, err := s.memberships.ListChurchesForUser(ctx, req.UserID)
		if err != nil {
			return err
		}
		if permissions.NewResolver(targetMemberships).RoleFor(churchID) == models.RoleOwner {
			return &eventform.PermissionDenied{Action: "change owner"}
		}
	}

	if _, err := s.users.FindByID(ctx, req.UserID); err != nil {
		return err
	}
	return s.memberships.SetRole(ctx, churchID, req.UserID, role)
}
