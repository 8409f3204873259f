package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"gearguard/internal/authz"
	"gearguard/internal/dto"
	"gearguard/internal/entities"
	"gearguard/internal/repositories"
)

// upcomingPreventiveWindow is how far ahead the manager dashboard counts
// scheduled preventive work.
const upcomingPreventiveWindow = 30 * 24 * time.Hour

type DashboardServiceInterface interface {
	Manager(ctx context.Context, actor authz.Actor) (*dto.ManagerDashboardDTO, error)
	Admin(ctx context.Context, actor authz.Actor) (*dto.AdminDashboardDTO, error)
	Technician(ctx context.Context, actor authz.Actor) (*dto.TechnicianDashboardDTO, error)
	User(ctx context.Context, actor authz.Actor) (*dto.UserDashboardDTO, error)
}

type dashboardService struct {
	requestRepo   repositories.RequestRepositoryInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	teamRepo      repositories.TeamRepositoryInterface
	userRepo      repositories.UserRepositoryInterface
	logger        *zap.Logger
	now           func() time.Time
}

func NewDashboardService(
	requestRepo repositories.RequestRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	teamRepo repositories.TeamRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	logger *zap.Logger,
) DashboardServiceInterface {
	return &dashboardService{
		requestRepo:   requestRepo,
		equipmentRepo: equipmentRepo,
		teamRepo:      teamRepo,
		userRepo:      userRepo,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *dashboardService) Manager(ctx context.Context, actor authz.Actor) (*dto.ManagerDashboardDTO, error) {
	if err := authz.Allow(actor, entities.RoleAdmin, entities.RoleManager); err != nil {
		return nil, err
	}

	totalEquipment, err := s.equipmentRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	byStage, err := s.requestRepo.CountByStage(ctx, repositories.RequestScope{})
	if err != nil {
		return nil, err
	}
	overdue, err := s.requestRepo.CountOverdue(ctx, repositories.RequestScope{})
	if err != nil {
		return nil, err
	}

	today := dateOf(s.now())
	upcoming, err := s.requestRepo.CountScheduledPreventiveInRange(ctx, today, today.Add(upcomingPreventiveWindow))
	if err != nil {
		return nil, err
	}

	return &dto.ManagerDashboardDTO{
		TotalEquipment:     totalEquipment,
		OpenRequests:       byStage[entities.StageNew] + byStage[entities.StageInProgress],
		OverdueRequests:    overdue,
		UpcomingPreventive: upcoming,
	}, nil
}

func (s *dashboardService) Admin(ctx context.Context, actor authz.Actor) (*dto.AdminDashboardDTO, error) {
	if err := authz.Allow(actor, entities.RoleAdmin); err != nil {
		return nil, err
	}

	totalEquipment, err := s.equipmentRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	scrapped, err := s.equipmentRepo.CountScrapped(ctx)
	if err != nil {
		return nil, err
	}
	totalRequests, err := s.requestRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	byStage, err := s.requestRepo.CountByStage(ctx, repositories.RequestScope{})
	if err != nil {
		return nil, err
	}
	overdue, err := s.requestRepo.CountOverdue(ctx, repositories.RequestScope{})
	if err != nil {
		return nil, err
	}
	activeTeams, err := s.teamRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	totalUsers, err := s.userRepo.CountUsers(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.AdminDashboardDTO{
		TotalEquipment:    totalEquipment,
		TotalRequests:     totalRequests,
		ActiveTeams:       activeTeams,
		ScrappedEquipment: scrapped,
		OpenRequests:      byStage[entities.StageNew] + byStage[entities.StageInProgress],
		OverdueRequests:   overdue,
		TotalUsers:        totalUsers,
	}, nil
}

// Technician shows the caller's own queue: directly assigned work plus
// unassigned work sitting on their teams.
func (s *dashboardService) Technician(ctx context.Context, actor authz.Actor) (*dto.TechnicianDashboardDTO, error) {
	if err := authz.Allow(actor, entities.RoleTechnician); err != nil {
		return nil, err
	}

	teamIDs, err := s.teamRepo.FindTeamIDsByUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	scope := repositories.RequestScope{TechnicianID: &actor.ID, TeamIDs: teamIDs}

	byStage, err := s.requestRepo.CountByStage(ctx, scope)
	if err != nil {
		return nil, err
	}
	overdue, err := s.requestRepo.CountOverdue(ctx, scope)
	if err != nil {
		return nil, err
	}
	totalHours, err := s.requestRepo.SumDurationForTechnician(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	visible, _, err := s.requestRepo.GetAll(ctx, dto.RequestFilterDTO{}, scope)
	if err != nil {
		return nil, err
	}

	assigned := make([]dto.RequestDTO, 0)
	teamQueue := make([]dto.RequestDTO, 0)
	for _, req := range visible {
		if req.AssignedTechnicianID != nil && *req.AssignedTechnicianID == actor.ID {
			assigned = append(assigned, req)
		} else {
			teamQueue = append(teamQueue, req)
		}
	}

	var total uint64
	for _, count := range byStage {
		total += count
	}

	return &dto.TechnicianDashboardDTO{
		NewRequests:   byStage[entities.StageNew],
		InProgress:    byStage[entities.StageInProgress],
		Overdue:       overdue,
		Completed:     byStage[entities.StageRepaired],
		TotalAssigned: total,
		TotalHours:    totalHours,
		Assigned:      assigned,
		TeamQueue:     teamQueue,
	}, nil
}

func (s *dashboardService) User(ctx context.Context, actor authz.Actor) (*dto.UserDashboardDTO, error) {
	if err := authz.Allow(actor, entities.RoleUser); err != nil {
		return nil, err
	}

	scope := repositories.RequestScope{CreatedByID: &actor.ID}
	byStage, err := s.requestRepo.CountByStage(ctx, scope)
	if err != nil {
		return nil, err
	}
	requests, total, err := s.requestRepo.GetAll(ctx, dto.RequestFilterDTO{}, scope)
	if err != nil {
		return nil, err
	}

	return &dto.UserDashboardDTO{
		NewRequests:   byStage[entities.StageNew],
		InProgress:    byStage[entities.StageInProgress],
		Repaired:      byStage[entities.StageRepaired],
		TotalRequests: total,
		Requests:      requests,
	}, nil
}
