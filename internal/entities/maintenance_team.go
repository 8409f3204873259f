package entities

import "time"

type MaintenanceTeam struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TeamMember is the (team, user) join row; the pair is unique.
type TeamMember struct {
	ID         uint64    `json:"id"`
	TeamID     uint64    `json:"team_id"`
	UserID     uint64    `json:"user_id"`
	RoleInTeam string    `json:"role_in_team"`
	JoinedDate time.Time `json:"joined_date"`
	CreatedAt  time.Time `json:"created_at"`
}
