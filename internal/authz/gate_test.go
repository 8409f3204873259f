package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gearguard/internal/entities"
	apperrors "gearguard/pkg/errors"
)

func TestAllow(t *testing.T) {
	testCases := []struct {
		name    string
		actor   Actor
		allowed []entities.Role
		wantErr error
	}{
		{
			name:    "zero actor is always denied",
			actor:   Actor{},
			allowed: []entities.Role{entities.RoleAdmin, entities.RoleManager, entities.RoleTechnician, entities.RoleUser},
			wantErr: apperrors.ErrUnauthorized,
		},
		{
			name:    "actor without role is denied",
			actor:   Actor{ID: 1},
			allowed: []entities.Role{entities.RoleUser},
			wantErr: apperrors.ErrUnauthorized,
		},
		{
			name:    "role in set is allowed",
			actor:   Actor{ID: 1, Role: entities.RoleManager},
			allowed: []entities.Role{entities.RoleAdmin, entities.RoleManager},
			wantErr: nil,
		},
		{
			name:    "role outside set is forbidden",
			actor:   Actor{ID: 1, Role: entities.RoleUser},
			allowed: []entities.Role{entities.RoleAdmin, entities.RoleManager},
			wantErr: apperrors.ErrForbidden,
		},
		{
			name:    "empty allowed set denies everyone",
			actor:   Actor{ID: 1, Role: entities.RoleAdmin},
			allowed: nil,
			wantErr: apperrors.ErrForbidden,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Allow(tc.actor, tc.allowed...)
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestOwnershipPredicates(t *testing.T) {
	techID := uint64(7)
	teamID := uint64(3)

	req := &entities.MaintenanceRequest{
		ID:                   1,
		CreatedByID:          42,
		AssignedTechnicianID: &techID,
		MaintenanceTeamID:    &teamID,
	}

	assert.True(t, IsCreator(Actor{ID: 42, Role: entities.RoleUser}, req))
	assert.False(t, IsCreator(Actor{ID: 43, Role: entities.RoleUser}, req))
	assert.False(t, IsCreator(Actor{ID: 42}, nil))

	assert.True(t, IsAssignedTechnician(Actor{ID: 7, Role: entities.RoleTechnician}, req))
	assert.False(t, IsAssignedTechnician(Actor{ID: 8, Role: entities.RoleTechnician}, req))

	unassigned := &entities.MaintenanceRequest{ID: 2, MaintenanceTeamID: &teamID}
	assert.False(t, IsAssignedTechnician(Actor{ID: 7}, unassigned))
}

func TestCanWorkOnRequest(t *testing.T) {
	techID := uint64(7)
	teamID := uint64(3)
	actor := Actor{ID: 7, Role: entities.RoleTechnician}

	assigned := &entities.MaintenanceRequest{AssignedTechnicianID: &techID}
	assert.True(t, CanWorkOnRequest(actor, assigned, nil))

	teamQueued := &entities.MaintenanceRequest{MaintenanceTeamID: &teamID}
	assert.True(t, CanWorkOnRequest(actor, teamQueued, map[uint64]bool{3: true}))
	assert.False(t, CanWorkOnRequest(actor, teamQueued, map[uint64]bool{4: true}))
	assert.False(t, CanWorkOnRequest(actor, teamQueued, nil))

	otherTech := uint64(8)
	assignedElsewhere := &entities.MaintenanceRequest{AssignedTechnicianID: &otherTech, MaintenanceTeamID: &teamID}
	// Assigned work belongs to its assignee even within the same team.
	assert.False(t, CanWorkOnRequest(actor, assignedElsewhere, map[uint64]bool{3: true}))

	assert.False(t, CanWorkOnRequest(actor, nil, map[uint64]bool{3: true}))
}
