package dto

import (
	"time"

	"github.com/aarondl/null/v8"
)

type CreateTeamDTO struct {
	Name        string      `json:"name" validate:"required,max=255"`
	Description null.String `json:"description"`
	IsActive    *bool       `json:"is_active"`
}

type UpdateTeamDTO struct {
	Name        string      `json:"name" validate:"required,max=255"`
	Description null.String `json:"description"`
	IsActive    *bool       `json:"is_active"`
}

type AddTeamMemberDTO struct {
	UserID     uint64 `json:"user_id" validate:"required"`
	RoleInTeam string `json:"role_in_team" validate:"omitempty,max=100"`
}

type TeamDTO struct {
	ID             uint64    `json:"id"`
	Name           string    `json:"name"`
	Description    *string   `json:"description,omitempty"`
	IsActive       bool      `json:"is_active"`
	MemberCount    uint64    `json:"member_count"`
	EquipmentCount uint64    `json:"equipment_count"`
	CreatedAt      time.Time `json:"created_at"`
}

type TeamMemberDTO struct {
	ID         uint64    `json:"id"`
	UserID     uint64    `json:"user_id"`
	Username   string    `json:"username"`
	FullName   string    `json:"full_name"`
	RoleInTeam string    `json:"role_in_team"`
	JoinedDate time.Time `json:"joined_date"`
}
