package dto

import "github.com/aarondl/null/v8"

// CompletedTaskRowDTO is one repaired request with a measured duration.
type CompletedTaskRowDTO struct {
	RequestID     uint64      `json:"request_id"`
	Subject       string      `json:"subject"`
	EquipmentName string      `json:"equipment_name"`
	TeamName      null.String `json:"team_name"`
	Technician    null.String `json:"technician"`
	CompletedDate null.Time   `json:"completed_date"`
	DurationHours float64     `json:"duration_hours"`
}

type TechnicianReportDTO struct {
	Rows        []CompletedTaskRowDTO `json:"rows"`
	TotalTasks  uint64                `json:"total_tasks"`
	TotalHours  float64               `json:"total_hours"`
	AvgDuration float64               `json:"avg_duration"`
}

// TechnicianSummaryDTO aggregates one technician across all repaired work.
type TechnicianSummaryDTO struct {
	UserID     uint64     `json:"user_id"`
	Username   string     `json:"username"`
	FullName   string     `json:"full_name"`
	TotalTasks uint64     `json:"total_tasks"`
	TotalHours null.Float64 `json:"total_hours"`
}

type ManagerHoursRowDTO struct {
	UserID            uint64       `json:"user_id"`
	Username          string       `json:"username"`
	FullName          string       `json:"full_name"`
	RequestsCreated   uint64       `json:"requests_created"`
	CompletedRequests uint64       `json:"completed_requests"`
	TotalHoursManaged null.Float64 `json:"total_hours_managed"`
}

type ManagerHoursReportDTO struct {
	Managers          []ManagerHoursRowDTO `json:"managers"`
	TotalManagerHours float64              `json:"total_manager_hours"`
}
