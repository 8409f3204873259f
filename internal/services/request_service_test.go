package services

import (
	"context"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gearguard/internal/authz"
	"gearguard/internal/dto"
	"gearguard/internal/entities"
	apperrors "gearguard/pkg/errors"
)

var (
	adminActor      = authz.Actor{ID: 1, Role: entities.RoleAdmin}
	managerActor    = authz.Actor{ID: 2, Role: entities.RoleManager}
	technicianActor = authz.Actor{ID: 7, Role: entities.RoleTechnician}
	userActor       = authz.Actor{ID: 42, Role: entities.RoleUser}
)

func newRequestService(
	requestRepo *fakeRequestRepo,
	equipmentRepo *fakeEquipmentRepo,
	teamRepo *fakeTeamRepo,
	now time.Time,
) *requestService {
	if teamRepo == nil {
		teamRepo = &fakeTeamRepo{}
	}
	return &requestService{
		requestRepo:   requestRepo,
		equipmentRepo: equipmentRepo,
		teamRepo:      teamRepo,
		txManager:     &fakeTxManager{},
		logger:        zap.NewNop(),
		now:           func() time.Time { return now },
	}
}

func TestCreateCorrectiveCopiesTeamAndDefaultsPriority(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	equipmentRepo := newFakeEquipmentRepo(entities.Equipment{ID: 5, MaintenanceTeamID: 3})
	requestRepo := newFakeRequestRepo()

	s := newRequestService(requestRepo, equipmentRepo, nil, now)

	created, err := s.CreateCorrective(context.Background(), userActor, dto.CreateCorrectiveRequestDTO{
		Subject:     "Spindle makes grinding noise",
		EquipmentID: 5,
	})
	require.NoError(t, err)

	assert.Equal(t, entities.RequestTypeCorrective, created.RequestType)
	assert.Equal(t, entities.StageNew, created.Stage)
	assert.Equal(t, entities.PriorityMedium, created.Priority)
	assert.Equal(t, userActor.ID, created.CreatedByID)
	require.NotNil(t, created.MaintenanceTeamID)
	assert.Equal(t, uint64(3), *created.MaintenanceTeamID)
	assert.Nil(t, created.AssignedTechnicianID)
}

func TestCreateCorrectiveRejectsScrappedEquipment(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	equipmentRepo := newFakeEquipmentRepo(entities.Equipment{ID: 5, MaintenanceTeamID: 3, IsScrapped: true})
	requestRepo := newFakeRequestRepo()

	s := newRequestService(requestRepo, equipmentRepo, nil, now)

	_, err := s.CreateCorrective(context.Background(), userActor, dto.CreateCorrectiveRequestDTO{
		Subject:     "Spindle makes grinding noise",
		EquipmentID: 5,
	})

	var validationErr *apperrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Empty(t, requestRepo.requests)
}

func TestCreatePreventiveDefaultsToEquipmentTechnician(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	technicianID := uint64(7)
	equipmentRepo := newFakeEquipmentRepo(entities.Equipment{
		ID:                  5,
		MaintenanceTeamID:   3,
		DefaultTechnicianID: &technicianID,
	})
	requestRepo := newFakeRequestRepo()

	s := newRequestService(requestRepo, equipmentRepo, nil, now)

	created, err := s.CreatePreventive(context.Background(), managerActor, dto.CreatePreventiveRequestDTO{
		Subject:       "Quarterly lubrication",
		EquipmentID:   5,
		ScheduledDate: "2024-04-01",
	})
	require.NoError(t, err)

	assert.Equal(t, entities.RequestTypePreventive, created.RequestType)
	require.NotNil(t, created.AssignedTechnicianID)
	assert.Equal(t, technicianID, *created.AssignedTechnicianID)
	require.NotNil(t, created.ScheduledDate)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), *created.ScheduledDate)
}

func TestCreatePreventiveForbiddenForRegularUsers(t *testing.T) {
	s := newRequestService(newFakeRequestRepo(), newFakeEquipmentRepo(), nil,
		time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC))

	_, err := s.CreatePreventive(context.Background(), userActor, dto.CreatePreventiveRequestDTO{
		Subject:       "Quarterly lubrication",
		EquipmentID:   5,
		ScheduledDate: "2024-04-01",
	})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestApplyTransitionRepairedRequiresSummary(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	requestRepo := newFakeRequestRepo()
	requestRepo.put(entities.MaintenanceRequest{
		ID:          1,
		EquipmentID: 5,
		Stage:       entities.StageInProgress,
	})

	s := newRequestService(requestRepo, newFakeEquipmentRepo(), nil, now)

	_, err := s.ApplyTransition(context.Background(), managerActor, 1, dto.TransitionDTO{
		Stage: entities.StageRepaired,
	})

	var validationErr *apperrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "resolution_summary", validationErr.Field)

	// Nothing was written: the stored request is untouched.
	assert.Equal(t, 0, requestRepo.saves)
	assert.Equal(t, entities.StageInProgress, requestRepo.requests[1].Stage)
}

func TestApplyTransitionRepairedComputesDuration(t *testing.T) {
	start := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	now := start.Add(time.Hour)

	requestRepo := newFakeRequestRepo()
	requestRepo.put(entities.MaintenanceRequest{
		ID:              1,
		EquipmentID:     5,
		Stage:           entities.StageInProgress,
		ActualStartTime: &start,
	})

	s := newRequestService(requestRepo, newFakeEquipmentRepo(), nil, now)

	updated, err := s.ApplyTransition(context.Background(), managerActor, 1, dto.TransitionDTO{
		Stage:             entities.StageRepaired,
		ResolutionSummary: null.StringFrom("replaced worn bearing"),
	})
	require.NoError(t, err)

	assert.Equal(t, entities.StageRepaired, updated.Stage)
	require.NotNil(t, updated.DurationHours)
	assert.Equal(t, 1.0, *updated.DurationHours)
	require.NotNil(t, updated.CompletedDate)
	assert.Equal(t, dateOf(now), *updated.CompletedDate)
}

func TestApplyTransitionKeepsManualDurationOverride(t *testing.T) {
	start := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	now := start.Add(time.Hour)

	requestRepo := newFakeRequestRepo()
	requestRepo.put(entities.MaintenanceRequest{
		ID:              1,
		EquipmentID:     5,
		Stage:           entities.StageInProgress,
		ActualStartTime: &start,
	})

	s := newRequestService(requestRepo, newFakeEquipmentRepo(), nil, now)

	override := 2.505
	updated, err := s.ApplyTransition(context.Background(), managerActor, 1, dto.TransitionDTO{
		Stage:             entities.StageRepaired,
		ResolutionSummary: null.StringFrom("replaced worn bearing"),
		DurationHours:     &override,
	})
	require.NoError(t, err)

	require.NotNil(t, updated.DurationHours)
	assert.Equal(t, 2.51, *updated.DurationHours)
}

func TestApplyTransitionScrapCascadesOnce(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	equipmentRepo := newFakeEquipmentRepo(entities.Equipment{ID: 5, MaintenanceTeamID: 3})
	requestRepo := newFakeRequestRepo()
	requestRepo.put(entities.MaintenanceRequest{
		ID:          1,
		EquipmentID: 5,
		Stage:       entities.StageNew,
	})

	s := newRequestService(requestRepo, equipmentRepo, nil, now)

	updated, err := s.ApplyTransition(context.Background(), adminActor, 1, dto.TransitionDTO{
		Stage:             entities.StageScrap,
		ResolutionSummary: null.StringFrom("beyond economical repair"),
	})
	require.NoError(t, err)
	assert.Equal(t, entities.StageScrap, updated.Stage)

	require.Equal(t, 1, equipmentRepo.scrapCalls)
	scrapped := equipmentRepo.equipment[5]
	assert.True(t, scrapped.IsScrapped)
	require.NotNil(t, scrapped.ScrapDate)
	assert.Equal(t, dateOf(now), *scrapped.ScrapDate)
	require.NotNil(t, scrapped.ScrapReason)
	assert.Equal(t, "beyond economical repair", *scrapped.ScrapReason)

	// Re-saving the scrapped request must not fire the cascade again.
	_, err = s.ApplyTransition(context.Background(), adminActor, 1, dto.TransitionDTO{
		Stage: entities.StageScrap,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, equipmentRepo.scrapCalls)
}

func TestApplyTransitionForbiddenForTechniciansAndUsers(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	requestRepo := newFakeRequestRepo()
	requestRepo.put(entities.MaintenanceRequest{ID: 1, EquipmentID: 5, Stage: entities.StageNew})

	s := newRequestService(requestRepo, newFakeEquipmentRepo(), nil, now)

	for _, actor := range []authz.Actor{technicianActor, userActor} {
		_, err := s.ApplyTransition(context.Background(), actor, 1, dto.TransitionDTO{
			Stage: entities.StageInProgress,
		})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	}
	assert.Equal(t, 0, requestRepo.saves)
}

func TestStartTaskAutoAssignsUnassignedTeamWork(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	teamID := uint64(3)

	requestRepo := newFakeRequestRepo()
	requestRepo.put(entities.MaintenanceRequest{
		ID:                1,
		EquipmentID:       5,
		Stage:             entities.StageNew,
		MaintenanceTeamID: &teamID,
	})
	teamRepo := &fakeTeamRepo{teamIDsByUser: map[uint64][]uint64{technicianActor.ID: {3}}}

	s := newRequestService(requestRepo, newFakeEquipmentRepo(), teamRepo, now)

	result, err := s.StartTask(context.Background(), technicianActor, 1)
	require.NoError(t, err)

	assert.Equal(t, string(entities.StageInProgress), result.Stage)
	assert.Equal(t, now, result.StartTime)

	stored := requestRepo.requests[1]
	require.NotNil(t, stored.AssignedTechnicianID)
	assert.Equal(t, technicianActor.ID, *stored.AssignedTechnicianID)
}

func TestStartTaskForbiddenOutsideOwnTeams(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	teamID := uint64(4)

	requestRepo := newFakeRequestRepo()
	requestRepo.put(entities.MaintenanceRequest{
		ID:                1,
		EquipmentID:       5,
		Stage:             entities.StageNew,
		MaintenanceTeamID: &teamID,
	})
	teamRepo := &fakeTeamRepo{teamIDsByUser: map[uint64][]uint64{technicianActor.ID: {3}}}

	s := newRequestService(requestRepo, newFakeEquipmentRepo(), teamRepo, now)

	_, err := s.StartTask(context.Background(), technicianActor, 1)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Equal(t, 0, requestRepo.saves)
}

func TestEndTaskComputesDurationForAssignee(t *testing.T) {
	start := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	now := start.Add(time.Hour)
	technicianID := technicianActor.ID

	requestRepo := newFakeRequestRepo()
	requestRepo.put(entities.MaintenanceRequest{
		ID:                   1,
		EquipmentID:          5,
		Stage:                entities.StageInProgress,
		AssignedTechnicianID: &technicianID,
		ActualStartTime:      &start,
	})

	s := newRequestService(requestRepo, newFakeEquipmentRepo(), nil, now)

	result, err := s.EndTask(context.Background(), technicianActor, 1, dto.EndTaskDTO{
		ResolutionSummary: "replaced worn bearing",
	})
	require.NoError(t, err)

	assert.Equal(t, string(entities.StageRepaired), result.Stage)
	assert.Equal(t, 1.0, result.DurationHours)
	assert.Equal(t, now, result.EndTime)

	stored := requestRepo.requests[1]
	require.NotNil(t, stored.ResolutionSummary)
	assert.Equal(t, "replaced worn bearing", *stored.ResolutionSummary)
}

func TestEndTaskRequiresStartedTask(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	technicianID := technicianActor.ID

	requestRepo := newFakeRequestRepo()
	requestRepo.put(entities.MaintenanceRequest{
		ID:                   1,
		EquipmentID:          5,
		Stage:                entities.StageNew,
		AssignedTechnicianID: &technicianID,
	})

	s := newRequestService(requestRepo, newFakeEquipmentRepo(), nil, now)

	// Assigned but never started, the usual shape of a fresh preventive
	// request: ending it must be rejected, not silently repaired.
	_, err := s.EndTask(context.Background(), technicianActor, 1, dto.EndTaskDTO{
		ResolutionSummary: "done",
	})

	var validationErr *apperrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, 0, requestRepo.saves)
	assert.Equal(t, entities.StageNew, requestRepo.requests[1].Stage)
}

func TestEndTaskOnlyForAssignedTechnician(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	otherTechnician := uint64(8)

	requestRepo := newFakeRequestRepo()
	requestRepo.put(entities.MaintenanceRequest{
		ID:                   1,
		EquipmentID:          5,
		Stage:                entities.StageInProgress,
		AssignedTechnicianID: &otherTechnician,
	})

	s := newRequestService(requestRepo, newFakeEquipmentRepo(), nil, now)

	_, err := s.EndTask(context.Background(), technicianActor, 1, dto.EndTaskDTO{
		ResolutionSummary: "done",
	})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Equal(t, 0, requestRepo.saves)
}

func TestFindByIDHidesOtherUsersRequests(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	requestRepo := newFakeRequestRepo()
	requestRepo.put(entities.MaintenanceRequest{
		ID:          1,
		EquipmentID: 5,
		Stage:       entities.StageNew,
		CreatedByID: 99,
	})

	s := newRequestService(requestRepo, newFakeEquipmentRepo(), nil, now)

	// The record exists but belongs to somebody else: not found, not
	// forbidden, so its existence does not leak.
	_, err := s.FindByID(context.Background(), userActor, 1)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	creator := authz.Actor{ID: 99, Role: entities.RoleUser}
	found, err := s.FindByID(context.Background(), creator, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), found.ID)

	found, err = s.FindByID(context.Background(), managerActor, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), found.ID)
}

func TestKanbanOrdersColumnsByPriorityThenRecency(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	requestRepo := newFakeRequestRepo()
	requestRepo.put(entities.MaintenanceRequest{
		ID: 1, EquipmentID: 5, Stage: entities.StageNew,
		Priority: entities.PriorityLow, CreatedAt: now.Add(-3 * time.Hour),
	})
	requestRepo.put(entities.MaintenanceRequest{
		ID: 2, EquipmentID: 5, Stage: entities.StageNew,
		Priority: entities.PriorityCritical, CreatedAt: now.Add(-2 * time.Hour),
	})
	requestRepo.put(entities.MaintenanceRequest{
		ID: 3, EquipmentID: 5, Stage: entities.StageNew,
		Priority: entities.PriorityMedium, CreatedAt: now.Add(-1 * time.Hour),
	})
	// Same priority as ID 3, created later: recency breaks the tie.
	requestRepo.put(entities.MaintenanceRequest{
		ID: 4, EquipmentID: 5, Stage: entities.StageNew,
		Priority: entities.PriorityMedium, CreatedAt: now,
	})

	s := newRequestService(requestRepo, newFakeEquipmentRepo(), nil, now)

	board, err := s.Kanban(context.Background(), managerActor)
	require.NoError(t, err)

	column := board.Stages[entities.StageNew]
	require.Len(t, column, 4)

	gotIDs := []uint64{column[0].ID, column[1].ID, column[2].ID, column[3].ID}
	assert.Equal(t, []uint64{2, 4, 3, 1}, gotIDs)
}
