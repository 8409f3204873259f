package entities

import "time"

type Equipment struct {
	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	SerialNumber string `json:"serial_number"`
	Category     string `json:"category"`
	Department   *string `json:"department,omitempty"`

	AssignedToUserID    *uint64 `json:"assigned_to_user_id,omitempty"`
	MaintenanceTeamID   uint64  `json:"maintenance_team_id"`
	DefaultTechnicianID *uint64 `json:"default_technician_id,omitempty"`

	PurchaseDate   *time.Time `json:"purchase_date,omitempty"`
	WarrantyExpiry *time.Time `json:"warranty_expiry,omitempty"`
	Location       *string    `json:"location,omitempty"`
	Specifications *string    `json:"specifications,omitempty"`

	// Days between preventive maintenance cycles; nil disables projection.
	MaintenanceIntervalDays *int `json:"maintenance_interval_days,omitempty"`

	IsScrapped  bool       `json:"is_scrapped"`
	ScrapDate   *time.Time `json:"scrap_date,omitempty"`
	ScrapReason *string    `json:"scrap_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
