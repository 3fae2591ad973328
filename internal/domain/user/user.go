package user

import (
	"errors"
	"time"
)

type Role string

const (
	RoleMember Role = "Member"
	RoleLead   Role = "Lead"
)

func (r Role) IsValid() bool {
	return r == RoleMember || r == RoleLead
}

var ErrNotFound = errors.New("user not found")

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	TeamID    int64     `json:"teamId"`
	CreatedAt time.Time `json:"createdAt"`
}

// RoleLabel is a display entry for a role.
type RoleLabel struct {
	Value       Role   `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

var roleLabels = []RoleLabel{
	{Value: RoleMember, Label: "Team Member", Description: "Submits daily standups"},
	{Value: RoleLead, Label: "Team Lead", Description: "Reviews standups and triages blockers"},
}

func RoleLabels() []RoleLabel {
	out := make([]RoleLabel, len(roleLabels))
	copy(out, roleLabels)
	return out
}
