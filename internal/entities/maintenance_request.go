package entities

import "time"

type RequestType string

const (
	RequestTypeCorrective RequestType = "Corrective"
	RequestTypePreventive RequestType = "Preventive"
)

func (t RequestType) Valid() bool {
	return t == RequestTypeCorrective || t == RequestTypePreventive
}

// Stage is the lifecycle state of a maintenance request.
type Stage string

const (
	StageNew        Stage = "New"
	StageInProgress Stage = "In Progress"
	StageRepaired   Stage = "Repaired"
	StageScrap      Stage = "Scrap"
)

func (s Stage) Valid() bool {
	switch s {
	case StageNew, StageInProgress, StageRepaired, StageScrap:
		return true
	}
	return false
}

// IsTerminal reports whether no further stage transition is permitted.
func (s Stage) IsTerminal() bool {
	return s == StageRepaired || s == StageScrap
}

// CanTransitionTo enforces the forward-only stage machine:
//
//	New ─────────► In Progress ─────────► Repaired
//	 │                  │
//	 └──────────────────┴───────────────► Scrap
//
// A same-stage save is always allowed so re-saving stays idempotent.
func (s Stage) CanTransitionTo(target Stage) bool {
	if !target.Valid() {
		return false
	}
	if s == target {
		return true
	}
	if s.IsTerminal() {
		return false
	}
	switch s {
	case StageNew:
		return target == StageInProgress || target == StageRepaired || target == StageScrap
	case StageInProgress:
		return target == StageRepaired || target == StageScrap
	}
	return false
}

type Priority string

const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Rank orders priorities for sorting, highest urgency first.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

type MaintenanceRequest struct {
	ID          uint64  `json:"id"`
	Subject     string  `json:"subject"`
	Description *string `json:"description,omitempty"`

	RequestType RequestType `json:"request_type"`
	Stage       Stage       `json:"stage"`
	Priority    Priority    `json:"priority"`

	EquipmentID          uint64  `json:"equipment_id"`
	MaintenanceTeamID    *uint64 `json:"maintenance_team_id,omitempty"`
	AssignedTechnicianID *uint64 `json:"assigned_technician_id,omitempty"`
	CreatedByID          uint64  `json:"created_by_id"`

	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	CompletedDate *time.Time `json:"completed_date,omitempty"`

	EstimatedDurationHours *float64 `json:"estimated_duration_hours,omitempty"`
	DurationHours          *float64 `json:"duration_hours,omitempty"`

	ActualStartTime *time.Time `json:"actual_start_time,omitempty"`
	ActualEndTime   *time.Time `json:"actual_end_time,omitempty"`

	IsOverdue bool `json:"is_overdue"`

	TechnicianNotes   *string `json:"technician_notes,omitempty"`
	ResolutionSummary *string `json:"resolution_summary,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
