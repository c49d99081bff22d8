package permissions

import (
	"github.com/ArowuTest/church-calendar-backend/internal/models"
)

// HasCreatePermission reports whether a raw role string may create events.
// Only "admin" and "owner" qualify, compared case-insensitively.
func HasCreatePermission(role string) bool {
	return CanCreate(models.ParseRole(role))
}

// CanCreate is HasCreatePermission over a normalized role
func CanCreate(role models.Role) bool {
	switch role {
	case models.RoleAdmin, models.RoleOwner:
		return true
	default:
		return false
	}
}

// CanModify reports whether userID may edit or delete the event: its creator
// always may, otherwise the caller needs create permission on the event's church.
func CanModify(userID string, event *models.ChurchEvent, role models.Role) bool {
	if event == nil {
		return false
	}
	if userID != "" && event.CreatedBy == userID {
		return true
	}
	return CanCreate(role)
}

// CanManageMembers reports whether a role may change other members' roles
func CanManageMembers(role models.Role) bool {
	return CanCreate(role)
}

// Resolver answers role lookups over a user's memberships
type Resolver struct {
	roles map[string]models.Role
}

// NewResolver indexes memberships by church id
func NewResolver(memberships []models.UserChurchMembership) *Resolver {
	roles := make(map[string]models.Role, len(memberships))
	for _, m := range memberships {
		if m.Role > roles[m.ChurchID] {
			roles[m.ChurchID] = m.Role
		}
	}
	return &Resolver{roles: roles}
}

// RoleFor returns the user's role in churchID, RoleUnknown when not a member
func (r *Resolver) RoleFor(churchID string) models.Role {
	if r == nil {
		return models.RoleUnknown
	}
	return r.roles[churchID]
}

// CanCreateIn reports create permission for a church
func (r *Resolver) CanCreateIn(churchID string) bool {
	return CanCreate(r.RoleFor(churchID))
}
