package dto

import "github.com/aarondl/null/v8"

type CreateEquipmentDTO struct {
	Name                    string      `json:"name" validate:"required,max=255"`
	SerialNumber            string      `json:"serial_number" validate:"required,max=100"`
	Category                string      `json:"category" validate:"required,max=100"`
	Department              null.String `json:"department"`
	MaintenanceTeamID       uint64      `json:"maintenance_team_id" validate:"required"`
	AssignedToUserID        *uint64     `json:"assigned_to_user_id"`
	DefaultTechnicianID     *uint64     `json:"default_technician_id"`
	PurchaseDate            *string     `json:"purchase_date" validate:"omitempty,datetime=2006-01-02"`
	WarrantyExpiry          *string     `json:"warranty_expiry" validate:"omitempty,datetime=2006-01-02"`
	Location                null.String `json:"location"`
	Specifications          null.String `json:"specifications"`
	MaintenanceIntervalDays *int        `json:"maintenance_interval_days" validate:"omitempty,gt=0"`
}

type UpdateEquipmentDTO struct {
	Name                    string      `json:"name" validate:"required,max=255"`
	Category                string      `json:"category" validate:"required,max=100"`
	Department              null.String `json:"department"`
	MaintenanceTeamID       uint64      `json:"maintenance_team_id" validate:"required"`
	AssignedToUserID        *uint64     `json:"assigned_to_user_id"`
	DefaultTechnicianID     *uint64     `json:"default_technician_id"`
	PurchaseDate            *string     `json:"purchase_date" validate:"omitempty,datetime=2006-01-02"`
	WarrantyExpiry          *string     `json:"warranty_expiry" validate:"omitempty,datetime=2006-01-02"`
	Location                null.String `json:"location"`
	Specifications          null.String `json:"specifications"`
	MaintenanceIntervalDays *int        `json:"maintenance_interval_days" validate:"omitempty,gt=0"`
}

// DeleteEquipmentDTO: deletion cascades to the equipment's requests, so the
// caller has to confirm explicitly.
type DeleteEquipmentDTO struct {
	Confirm bool `json:"confirm" validate:"required"`
}

type EquipmentFilterDTO struct {
	Category   string `query:"category"`
	Department string `query:"department"`
	Scrapped   string `query:"scrapped"`
	Search     string `query:"search"`
	Limit      uint64 `query:"limit"`
	Offset     uint64 `query:"offset"`
}
