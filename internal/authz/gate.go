package authz

import (
	"gearguard/internal/entities"
	apperrors "gearguard/pkg/errors"
)

// Actor is the authenticated identity plus its resolved role. Every
// operation entry point runs a gate check against an Actor before touching
// any state.
type Actor struct {
	ID   uint64
	Role entities.Role
}

// Allow fails closed: a zero Actor (no id, no role) is always denied.
func Allow(actor Actor, allowed ...entities.Role) error {
	if actor.ID == 0 || !actor.Role.Valid() {
		return apperrors.ErrUnauthorized
	}
	for _, role := range allowed {
		if actor.Role == role {
			return nil
		}
	}
	return apperrors.ErrForbidden
}

// IsCreator is the ownership predicate layered on top of the role check for
// creator-scoped reads.
func IsCreator(actor Actor, req *entities.MaintenanceRequest) bool {
	return req != nil && req.CreatedByID == actor.ID
}

// IsAssignedTechnician reports whether the actor is the request's assignee.
func IsAssignedTechnician(actor Actor, req *entities.MaintenanceRequest) bool {
	return req != nil && req.AssignedTechnicianID != nil && *req.AssignedTechnicianID == actor.ID
}

// CanWorkOnRequest decides whether a technician may pick up a request:
// either it is assigned to them, or it is unassigned and queued on one of
// their teams. Work assigned to somebody else is off limits even for
// teammates.
func CanWorkOnRequest(actor Actor, req *entities.MaintenanceRequest, memberTeams map[uint64]bool) bool {
	if req == nil {
		return false
	}
	if IsAssignedTechnician(actor, req) {
		return true
	}
	return req.AssignedTechnicianID == nil &&
		req.MaintenanceTeamID != nil && memberTeams[*req.MaintenanceTeamID]
}
