package dto

import "time"

const (
	// CalendarEntryScheduled is backed by a persisted request and navigable.
	CalendarEntryScheduled = "scheduled"
	// CalendarEntryProjected is a computed future occurrence, informational
	// only, with no request behind it.
	CalendarEntryProjected = "projected"
)

type CalendarEntryDTO struct {
	Type          string    `json:"type"`
	Subject       string    `json:"subject"`
	EquipmentName string    `json:"equipment_name"`
	Technician    *string   `json:"technician,omitempty"`
	RequestID     *uint64   `json:"request_id,omitempty"`
	Date          time.Time `json:"date"`
}

// CalendarDayDTO is one populated cell of the month grid. Leading pad cells
// are nil entries in CalendarDTO.Days.
type CalendarDayDTO struct {
	Date     time.Time          `json:"date"`
	Day      int                `json:"day"`
	Requests []CalendarEntryDTO `json:"requests"`
}

type CalendarDTO struct {
	Year      int               `json:"year"`
	Month     int               `json:"month"`
	MonthName string            `json:"month_name"`
	Days      []*CalendarDayDTO `json:"days"`
	PrevYear  int               `json:"prev_year"`
	PrevMonth int               `json:"prev_month"`
	NextYear  int               `json:"next_year"`
	NextMonth int               `json:"next_month"`
	Today     time.Time         `json:"today"`
}
