package dto

type ManagerDashboardDTO struct {
	TotalEquipment     uint64 `json:"total_equipment"`
	OpenRequests       uint64 `json:"open_requests"`
	OverdueRequests    uint64 `json:"overdue_requests"`
	UpcomingPreventive uint64 `json:"upcoming_preventive"`
}

type AdminDashboardDTO struct {
	TotalEquipment    uint64 `json:"total_equipment"`
	TotalRequests     uint64 `json:"total_requests"`
	ActiveTeams       uint64 `json:"active_teams"`
	ScrappedEquipment uint64 `json:"scrapped_equipment"`
	OpenRequests      uint64 `json:"open_requests"`
	OverdueRequests   uint64 `json:"overdue_requests"`
	TotalUsers        uint64 `json:"total_users"`
}

type TechnicianDashboardDTO struct {
	NewRequests   uint64       `json:"new_requests"`
	InProgress    uint64       `json:"in_progress"`
	Overdue       uint64       `json:"overdue"`
	Completed     uint64       `json:"completed"`
	TotalAssigned uint64       `json:"total_assigned"`
	TotalHours    float64      `json:"total_hours"`
	Assigned      []RequestDTO `json:"assigned"`
	TeamQueue     []RequestDTO `json:"team_queue"`
}

type UserDashboardDTO struct {
	NewRequests   uint64       `json:"new_requests"`
	InProgress    uint64       `json:"in_progress"`
	Repaired      uint64       `json:"repaired"`
	TotalRequests uint64       `json:"total_requests"`
	Requests      []RequestDTO `json:"requests"`
}
