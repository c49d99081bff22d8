package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Role is a membership's authorization level within a church
type Role int

const (
	RoleUnknown Role = iota
	RoleMember
	RoleAdmin
	RoleOwner
)

// ParseRole normalizes a role string case-insensitively
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "member":
		return RoleMember
	case "admin":
		return RoleAdmin
	case "owner":
		return RoleOwner
	default:
		return RoleUnknown
	}
}

func (r Role) String() string {
	switch r {
	case RoleMember:
		return "member"
	case RoleAdmin:
		return "admin"
	case RoleOwner:
		return "owner"
	default:
		return "unknown"
	}
}

func (r Role) IsValid() bool {
	return r >= RoleMember && r <= RoleOwner
}

func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*r = ParseRole(s)
	return nil
}

// UserChurchMembership links the signed-in user to a church with a role
type UserChurchMembership struct {
	ChurchID   string `json:"churchId"`
	ChurchName string `json:"churchName"`
	Role       Role   `json:"role"`
}

// Church is a congregation that owns events
type Church struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateChurchRequest is the body of POST /churches
type CreateChurchRequest struct {
	Name string `json:"name" binding:"required"`
}

// SetMemberRoleRequest is the body of PUT /churches/:id/members
type SetMemberRoleRequest struct {
	UserID string `json:"userId" binding:"required"`
	Role   string `json:"role" binding:"required"`
}
