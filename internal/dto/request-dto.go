package dto

import (
	"time"

	"github.com/aarondl/null/v8"

	"gearguard/internal/entities"
)

type CreateCorrectiveRequestDTO struct {
	Subject     string            `json:"subject" validate:"required,max=255"`
	Description null.String       `json:"description"`
	EquipmentID uint64            `json:"equipment_id" validate:"required"`
	Priority    entities.Priority `json:"priority" validate:"omitempty,oneof=Low Medium High Critical"`
	DueDate     *string           `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

type CreatePreventiveRequestDTO struct {
	Subject                string            `json:"subject" validate:"required,max=255"`
	Description            null.String       `json:"description"`
	EquipmentID            uint64            `json:"equipment_id" validate:"required"`
	Priority               entities.Priority `json:"priority" validate:"omitempty,oneof=Low Medium High Critical"`
	ScheduledDate          string            `json:"scheduled_date" validate:"required,datetime=2006-01-02"`
	DueDate                *string           `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	AssignedTechnicianID   *uint64           `json:"assigned_technician_id"`
	EstimatedDurationHours *float64          `json:"estimated_duration_hours" validate:"omitempty,gte=0"`
}

// UpdateRequestDTO covers the manager's edit form: assignment, scheduling
// and informational fields. Stage changes go through TransitionDTO.
type UpdateRequestDTO struct {
	Subject              string            `json:"subject" validate:"required,max=255"`
	Description          null.String       `json:"description"`
	Priority             entities.Priority `json:"priority" validate:"omitempty,oneof=Low Medium High Critical"`
	MaintenanceTeamID    *uint64           `json:"maintenance_team_id"`
	AssignedTechnicianID *uint64           `json:"assigned_technician_id"`
	ScheduledDate        *string           `json:"scheduled_date" validate:"omitempty,datetime=2006-01-02"`
	DueDate              *string           `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	TechnicianNotes      null.String       `json:"technician_notes"`
}

type TransitionDTO struct {
	Stage             entities.Stage `json:"stage" validate:"required"`
	ResolutionSummary null.String    `json:"resolution_summary"`
	TechnicianNotes   null.String    `json:"technician_notes"`
	// Manual override, e.g. estimated-only preventive work. When set, the
	// automatic start/end computation never overwrites it.
	DurationHours *float64 `json:"duration_hours" validate:"omitempty,gte=0"`
}

type EndTaskDTO struct {
	ResolutionSummary string      `json:"resolution_summary" validate:"required"`
	TechnicianNotes   null.String `json:"technician_notes"`
}

type RequestFilterDTO struct {
	Stage       string `query:"stage"`
	RequestType string `query:"request_type"`
	TeamID      uint64 `query:"team"`
	EquipmentID uint64 `query:"equipment"`
	Limit       uint64 `query:"limit"`
	Offset      uint64 `query:"offset"`
}

// RequestDTO is the read model: the request plus display names resolved by
// the repository join.
type RequestDTO struct {
	entities.MaintenanceRequest

	EquipmentName      string  `json:"equipment_name"`
	SerialNumber       string  `json:"serial_number"`
	TeamName           *string `json:"team_name,omitempty"`
	AssignedTechnician *string `json:"assigned_technician,omitempty"`
	CreatedBy          string  `json:"created_by"`
}

type KanbanBoardDTO struct {
	Stages map[entities.Stage][]RequestDTO `json:"stages"`
	Order  []entities.Stage                `json:"order"`
}

type StartTaskResultDTO struct {
	RequestID uint64    `json:"request_id"`
	Stage     string    `json:"stage"`
	StartTime time.Time `json:"start_time"`
}

type EndTaskResultDTO struct {
	RequestID     uint64    `json:"request_id"`
	Stage         string    `json:"stage"`
	DurationHours float64   `json:"duration_hours"`
	EndTime       time.Time `json:"end_time"`
}
