package services

import (
	"context"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"gearguard/internal/authz"
	"gearguard/internal/dto"
	"gearguard/internal/entities"
	"gearguard/internal/repositories"
	apperrors "gearguard/pkg/errors"
)

// kanbanOrder is the column order of the board, left to right.
var kanbanOrder = []entities.Stage{
	entities.StageNew,
	entities.StageInProgress,
	entities.StageRepaired,
	entities.StageScrap,
}

type RequestServiceInterface interface {
	CreateCorrective(ctx context.Context, actor authz.Actor, payload dto.CreateCorrectiveRequestDTO) (*dto.RequestDTO, error)
	CreatePreventive(ctx context.Context, actor authz.Actor, payload dto.CreatePreventiveRequestDTO) (*dto.RequestDTO, error)
	Update(ctx context.Context, actor authz.Actor, id uint64, payload dto.UpdateRequestDTO) (*dto.RequestDTO, error)
	ApplyTransition(ctx context.Context, actor authz.Actor, id uint64, payload dto.TransitionDTO) (*dto.RequestDTO, error)
	StartTask(ctx context.Context, actor authz.Actor, id uint64) (*dto.StartTaskResultDTO, error)
	EndTask(ctx context.Context, actor authz.Actor, id uint64, payload dto.EndTaskDTO) (*dto.EndTaskResultDTO, error)
	GetAll(ctx context.Context, actor authz.Actor, filter dto.RequestFilterDTO) ([]dto.RequestDTO, uint64, error)
	FindByID(ctx context.Context, actor authz.Actor, id uint64) (*dto.RequestDTO, error)
	Kanban(ctx context.Context, actor authz.Actor) (*dto.KanbanBoardDTO, error)
}

// requestService owns the request lifecycle: stage transitions, derived
// timestamps and durations, and the equipment-scrap cascade. Every
// multi-record mutation runs inside one transaction over a row locked with
// FOR UPDATE, so side effects are computed from a single snapshot.
type requestService struct {
	requestRepo   repositories.RequestRepositoryInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	teamRepo      repositories.TeamRepositoryInterface
	txManager     repositories.TxManagerInterface
	logger        *zap.Logger
	now           func() time.Time
}

func NewRequestService(
	requestRepo repositories.RequestRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	teamRepo repositories.TeamRepositoryInterface,
	txManager repositories.TxManagerInterface,
	logger *zap.Logger,
) RequestServiceInterface {
	return &requestService{
		requestRepo:   requestRepo,
		equipmentRepo: equipmentRepo,
		teamRepo:      teamRepo,
		txManager:     txManager,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *requestService) loadActiveEquipment(ctx context.Context, equipmentID uint64) (*entities.Equipment, error) {
	equipment, err := s.equipmentRepo.FindByID(ctx, equipmentID)
	if err != nil {
		return nil, err
	}
	if equipment.IsScrapped {
		return nil, apperrors.NewValidationError("equipment_id", "equipment is scrapped")
	}
	return equipment, nil
}

func (s *requestService) CreateCorrective(ctx context.Context, actor authz.Actor, payload dto.CreateCorrectiveRequestDTO) (*dto.RequestDTO, error) {
	if err := authz.Allow(actor, entities.RoleAdmin, entities.RoleManager, entities.RoleUser); err != nil {
		return nil, err
	}

	equipment, err := s.loadActiveEquipment(ctx, payload.EquipmentID)
	if err != nil {
		return nil, err
	}

	dueDate, err := parseDate("due_date", payload.DueDate)
	if err != nil {
		return nil, err
	}

	priority := payload.Priority
	if priority == "" {
		priority = entities.PriorityMedium
	}

	req := entities.MaintenanceRequest{
		Subject:           payload.Subject,
		Description:       payload.Description.Ptr(),
		RequestType:       entities.RequestTypeCorrective,
		Stage:             entities.StageNew,
		Priority:          priority,
		EquipmentID:       equipment.ID,
		MaintenanceTeamID: &equipment.MaintenanceTeamID,
		CreatedByID:       actor.ID,
		DueDate:           dueDate,
	}
	recomputeOverdue(&req, s.now())

	id, err := s.requestRepo.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.requestRepo.FindByID(ctx, id)
}

func (s *requestService) CreatePreventive(ctx context.Context, actor authz.Actor, payload dto.CreatePreventiveRequestDTO) (*dto.RequestDTO, error) {
	if err := authz.Allow(actor, entities.RoleAdmin, entities.RoleManager); err != nil {
		return nil, err
	}

	equipment, err := s.loadActiveEquipment(ctx, payload.EquipmentID)
	if err != nil {
		return nil, err
	}

	scheduledDate, err := parseDate("scheduled_date", &payload.ScheduledDate)
	if err != nil {
		return nil, err
	}
	dueDate, err := parseDate("due_date", payload.DueDate)
	if err != nil {
		return nil, err
	}

	priority := payload.Priority
	if priority == "" {
		priority = entities.PriorityMedium
	}

	// Preventive work defaults to the equipment's regular technician when
	// the form leaves the assignee blank.
	technicianID := payload.AssignedTechnicianID
	if technicianID == nil {
		technicianID = equipment.DefaultTechnicianID
	}

	req := entities.MaintenanceRequest{
		Subject:                payload.Subject,
		Description:            payload.Description.Ptr(),
		RequestType:            entities.RequestTypePreventive,
		Stage:                  entities.StageNew,
		Priority:               priority,
		EquipmentID:            equipment.ID,
		MaintenanceTeamID:      &equipment.MaintenanceTeamID,
		AssignedTechnicianID:   technicianID,
		CreatedByID:            actor.ID,
		ScheduledDate:          scheduledDate,
		DueDate:                dueDate,
		EstimatedDurationHours: payload.EstimatedDurationHours,
	}
	recomputeOverdue(&req, s.now())

	id, err := s.requestRepo.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.requestRepo.FindByID(ctx, id)
}

func (s *requestService) Update(ctx context.Context, actor authz.Actor, id uint64, payload dto.UpdateRequestDTO) (*dto.RequestDTO, error) {
	if err := authz.Allow(actor, entities.RoleAdmin, entities.RoleManager); err != nil {
		return nil, err
	}

	scheduledDate, err := parseDate("scheduled_date", payload.ScheduledDate)
	if err != nil {
		return nil, err
	}
	dueDate, err := parseDate("due_date", payload.DueDate)
	if err != nil {
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		req, err := s.requestRepo.FindForUpdateInTx(ctx, tx, id)
		if err != nil {
			return err
		}

		req.Subject = payload.Subject
		req.Description = payload.Description.Ptr()
		if payload.Priority != "" {
			req.Priority = payload.Priority
		}
		req.MaintenanceTeamID = payload.MaintenanceTeamID
		req.AssignedTechnicianID = payload.AssignedTechnicianID
		req.ScheduledDate = scheduledDate
		req.DueDate = dueDate
		if payload.TechnicianNotes.Valid {
			req.TechnicianNotes = payload.TechnicianNotes.Ptr()
		}

		recomputeOverdue(req, s.now())
		return s.requestRepo.SaveInTx(ctx, tx, *req)
	})
	if err != nil {
		return nil, err
	}
	return s.requestRepo.FindByID(ctx, id)
}

// ApplyTransition moves a request to a target stage, applying the stage
// machine's side effects and, for Scrap, cascading into the equipment
// record within the same transaction.
func (s *requestService) ApplyTransition(ctx context.Context, actor authz.Actor, id uint64, payload dto.TransitionDTO) (*dto.RequestDTO, error) {
	if err := authz.Allow(actor, entities.RoleAdmin, entities.RoleManager); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		req, err := s.requestRepo.FindForUpdateInTx(ctx, tx, id)
		if err != nil {
			return err
		}
		return s.transitionInTx(ctx, tx, req, payload)
	})
	if err != nil {
		return nil, err
	}
	return s.requestRepo.FindByID(ctx, id)
}

func (s *requestService) transitionInTx(ctx context.Context, tx pgx.Tx, req *entities.MaintenanceRequest, payload dto.TransitionDTO) error {
	now := s.now()

	if payload.ResolutionSummary.Valid {
		req.ResolutionSummary = payload.ResolutionSummary.Ptr()
	}
	if payload.TechnicianNotes.Valid {
		req.TechnicianNotes = payload.TechnicianNotes.Ptr()
	}
	if payload.DurationHours != nil {
		d := roundHours(*payload.DurationHours)
		req.DurationHours = &d
	}

	if err := validateTransition(req, payload.Stage); err != nil {
		return err
	}

	switch payload.Stage {
	case entities.StageInProgress:
		startRequest(req, now)
	case entities.StageRepaired:
		finishRequest(req, entities.StageRepaired, now)
	case entities.StageScrap:
		finishRequest(req, entities.StageScrap, now)
		if err := s.scrapEquipmentInTx(ctx, tx, req, now); err != nil {
			return err
		}
	}

	recomputeOverdue(req, now)
	return s.requestRepo.SaveInTx(ctx, tx, *req)
}

// scrapEquipmentInTx fires the cascade at most once: equipment already
// scrapped keeps its original scrap date and reason.
func (s *requestService) scrapEquipmentInTx(ctx context.Context, tx pgx.Tx, req *entities.MaintenanceRequest, now time.Time) error {
	equipment, err := s.equipmentRepo.FindByIDInTx(ctx, tx, req.EquipmentID)
	if err != nil {
		return err
	}
	if equipment.IsScrapped {
		return nil
	}
	return s.equipmentRepo.MarkScrappedInTx(ctx, tx, equipment.ID, dateOf(now), req.ResolutionSummary)
}

// StartTask is the technician's entry point: picks up a request that is
// assigned to them or queued on one of their teams, auto-assigning
// themselves when nobody is assigned yet.
func (s *requestService) StartTask(ctx context.Context, actor authz.Actor, id uint64) (*dto.StartTaskResultDTO, error) {
	if err := authz.Allow(actor, entities.RoleTechnician); err != nil {
		return nil, err
	}

	memberTeams, err := s.memberTeams(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	var result dto.StartTaskResultDTO
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		req, err := s.requestRepo.FindForUpdateInTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if !authz.CanWorkOnRequest(actor, req, memberTeams) {
			return apperrors.ErrForbidden
		}
		if err := validateTransition(req, entities.StageInProgress); err != nil {
			return err
		}

		now := s.now()
		startRequest(req, now)
		if req.AssignedTechnicianID == nil {
			req.AssignedTechnicianID = &actor.ID
		}
		recomputeOverdue(req, now)

		if err := s.requestRepo.SaveInTx(ctx, tx, *req); err != nil {
			return err
		}
		result = dto.StartTaskResultDTO{
			RequestID: req.ID,
			Stage:     string(req.Stage),
			StartTime: *req.ActualStartTime,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// EndTask closes out the caller's own task as Repaired. Only the assigned
// technician may end it, the task must already be started, and a resolution
// summary is mandatory.
func (s *requestService) EndTask(ctx context.Context, actor authz.Actor, id uint64, payload dto.EndTaskDTO) (*dto.EndTaskResultDTO, error) {
	if err := authz.Allow(actor, entities.RoleTechnician); err != nil {
		return nil, err
	}

	var result dto.EndTaskResultDTO
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		req, err := s.requestRepo.FindForUpdateInTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if !authz.IsAssignedTechnician(actor, req) {
			return apperrors.ErrForbidden
		}
		if req.ActualStartTime == nil {
			return apperrors.NewValidationError("stage",
				"task must be started before it can be ended")
		}

		req.ResolutionSummary = &payload.ResolutionSummary
		if payload.TechnicianNotes.Valid {
			req.TechnicianNotes = payload.TechnicianNotes.Ptr()
		}

		if err := validateTransition(req, entities.StageRepaired); err != nil {
			return err
		}

		now := s.now()
		finishRequest(req, entities.StageRepaired, now)
		recomputeOverdue(req, now)

		if err := s.requestRepo.SaveInTx(ctx, tx, *req); err != nil {
			return err
		}

		var duration float64
		if req.DurationHours != nil {
			duration = *req.DurationHours
		}
		result = dto.EndTaskResultDTO{
			RequestID:     req.ID,
			Stage:         string(req.Stage),
			DurationHours: duration,
			EndTime:       *req.ActualEndTime,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *requestService) memberTeams(ctx context.Context, userID uint64) (map[uint64]bool, error) {
	ids, err := s.teamRepo.FindTeamIDsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	teams := make(map[uint64]bool, len(ids))
	for _, id := range ids {
		teams[id] = true
	}
	return teams, nil
}

// scopeFor narrows listings to the actor's visibility: admins and managers
// see everything, technicians see their queue, users see what they created.
func (s *requestService) scopeFor(ctx context.Context, actor authz.Actor) (repositories.RequestScope, error) {
	switch actor.Role {
	case entities.RoleAdmin, entities.RoleManager:
		return repositories.RequestScope{}, nil
	case entities.RoleTechnician:
		ids, err := s.teamRepo.FindTeamIDsByUser(ctx, actor.ID)
		if err != nil {
			return repositories.RequestScope{}, err
		}
		return repositories.RequestScope{TechnicianID: &actor.ID, TeamIDs: ids}, nil
	default:
		return repositories.RequestScope{CreatedByID: &actor.ID}, nil
	}
}

func (s *requestService) GetAll(ctx context.Context, actor authz.Actor, filter dto.RequestFilterDTO) ([]dto.RequestDTO, uint64, error) {
	if err := authz.Allow(actor, entities.RoleAdmin, entities.RoleManager, entities.RoleTechnician, entities.RoleUser); err != nil {
		return nil, 0, err
	}

	scope, err := s.scopeFor(ctx, actor)
	if err != nil {
		return nil, 0, err
	}
	return s.requestRepo.GetAll(ctx, filter, scope)
}

// FindByID answers not-found rather than forbidden when the record exists
// outside the actor's visibility, so its existence does not leak.
func (s *requestService) FindByID(ctx context.Context, actor authz.Actor, id uint64) (*dto.RequestDTO, error) {
	if err := authz.Allow(actor, entities.RoleAdmin, entities.RoleManager, entities.RoleTechnician, entities.RoleUser); err != nil {
		return nil, err
	}

	req, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case entities.RoleAdmin, entities.RoleManager:
		return req, nil
	case entities.RoleTechnician:
		memberTeams, err := s.memberTeams(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		if authz.CanWorkOnRequest(actor, &req.MaintenanceRequest, memberTeams) {
			return req, nil
		}
	default:
		if authz.IsCreator(actor, &req.MaintenanceRequest) {
			return req, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *requestService) Kanban(ctx context.Context, actor authz.Actor) (*dto.KanbanBoardDTO, error) {
	requests, _, err := s.GetAll(ctx, actor, dto.RequestFilterDTO{})
	if err != nil {
		return nil, err
	}

	board := &dto.KanbanBoardDTO{
		Stages: make(map[entities.Stage][]dto.RequestDTO, len(kanbanOrder)),
		Order:  kanbanOrder,
	}
	for _, stage := range kanbanOrder {
		board.Stages[stage] = []dto.RequestDTO{}
	}
	for _, req := range requests {
		board.Stages[req.Stage] = append(board.Stages[req.Stage], req)
	}

	// Columns read most urgent first, newest breaking ties.
	for _, column := range board.Stages {
		sort.SliceStable(column, func(i, j int) bool {
			if column[i].Priority.Rank() != column[j].Priority.Rank() {
				return column[i].Priority.Rank() > column[j].Priority.Rank()
			}
			return column[i].CreatedAt.After(column[j].CreatedAt)
		})
	}
	return board, nil
}
