package services

import (
	"context"

	"go.uber.org/zap"

	"gearguard/internal/authz"
	"gearguard/internal/dto"
	"gearguard/internal/entities"
	"gearguard/internal/repositories"
	apperrors "gearguard/pkg/errors"
)

type TeamServiceInterface interface {
	GetAll(ctx context.Context, actor authz.Actor, activeOnly bool, limit, offset uint64) ([]dto.TeamDTO, uint64, error)
	FindByID(ctx context.Context, actor authz.Actor, id uint64) (*entities.MaintenanceTeam, error)
	Create(ctx context.Context, actor authz.Actor, payload dto.CreateTeamDTO) (*entities.MaintenanceTeam, error)
	Update(ctx context.Context, actor authz.Actor, id uint64, payload dto.UpdateTeamDTO) (*entities.MaintenanceTeam, error)
	Delete(ctx context.Context, actor authz.Actor, id uint64) error

	AddMember(ctx context.Context, actor authz.Actor, teamID uint64, payload dto.AddTeamMemberDTO) error
	RemoveMember(ctx context.Context, actor authz.Actor, teamID, userID uint64) error
	ListMembers(ctx context.Context, actor authz.Actor, teamID uint64) ([]dto.TeamMemberDTO, error)
}

type teamService struct {
	teamRepo repositories.TeamRepositoryInterface
	userRepo repositories.UserRepositoryInterface
	logger   *zap.Logger
}

func NewTeamService(
	teamRepo repositories.TeamRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	logger *zap.Logger,
) TeamServiceInterface {
	return &teamService{teamRepo: teamRepo, userRepo: userRepo, logger: logger}
}

func (s *teamService) GetAll(ctx context.Context, actor authz.Actor, activeOnly bool, limit, offset uint64) ([]dto.TeamDTO, uint64, error) {
	if err := authz.Allow(actor, entities.RoleAdmin, entities.RoleManager, entities.RoleTechnician, entities.RoleUser); err != nil {
		return nil, 0, err
	}
	return s.teamRepo.GetAll(ctx, activeOnly, limit, offset)
}

func (s *teamService) FindByID(ctx context.Context, actor authz.Actor, id uint64) (*entities.MaintenanceTeam, error) {
	if err := authz.Allow(actor, entities.RoleAdmin, entities.RoleManager, entities.RoleTechnician, entities.RoleUser); err != nil {
		return nil, err
	}
	return s.teamRepo.FindByID(ctx, id)
}

func (s *teamService) Create(ctx context.Context, actor authz.Actor, payload dto.CreateTeamDTO) (*entities.MaintenanceTeam, error) {
	if err := authz.Allow(actor, entities.RoleAdmin, entities.RoleManager); err != nil {
		return nil, err
	}

	isActive := true
	if payload.IsActive != nil {
		isActive = *payload.IsActive
	}

	id, err := s.teamRepo.Create(ctx, entities.MaintenanceTeam{
		Name:        payload.Name,
		Description: payload.Description.Ptr(),
		IsActive:    isActive,
	})
	if err != nil {
		return nil, err
	}
	return s.teamRepo.FindByID(ctx, id)
}

func (s *teamService) Update(ctx context.Context, actor authz.Actor, id uint64, payload dto.UpdateTeamDTO) (*entities.MaintenanceTeam, error) {
	if err := authz.Allow(actor, entities.RoleAdmin, entities.RoleManager); err != nil {
		return nil, err
	}

	team, err := s.teamRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	isActive := team.IsActive
	if payload.IsActive != nil {
		isActive = *payload.IsActive
	}

	err = s.teamRepo.Update(ctx, id, entities.MaintenanceTeam{
		Name:        payload.Name,
		Description: payload.Description.Ptr(),
		IsActive:    isActive,
	})
	if err != nil {
		return nil, err
	}
	return s.teamRepo.FindByID(ctx, id)
}

// Delete is protected: a team that still owns equipment cannot go away.
func (s *teamService) Delete(ctx context.Context, actor authz.Actor, id uint64) error {
	if err := authz.Allow(actor, entities.RoleAdmin); err != nil {
		return err
	}

	count, err := s.teamRepo.CountEquipment(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperrors.NewConflictError("equipment", "team still has %d equipment record(s) assigned", count)
	}
	return s.teamRepo.Delete(ctx, id)
}

func (s *teamService) AddMember(ctx context.Context, actor authz.Actor, teamID uint64, payload dto.AddTeamMemberDTO) error {
	if err := authz.Allow(actor, entities.RoleAdmin, entities.RoleManager); err != nil {
		return err
	}

	if _, err := s.teamRepo.FindByID(ctx, teamID); err != nil {
		return err
	}
	if _, err := s.userRepo.FindByID(ctx, payload.UserID); err != nil {
		return err
	}

	_, err := s.teamRepo.AddMember(ctx, entities.TeamMember{
		TeamID:     teamID,
		UserID:     payload.UserID,
		RoleInTeam: payload.RoleInTeam,
	})
	return err
}

func (s *teamService) RemoveMember(ctx context.Context, actor authz.Actor, teamID, userID uint64) error {
	if err := authz.Allow(actor, entities.RoleAdmin, entities.RoleManager); err != nil {
		return err
	}
	return s.teamRepo.RemoveMember(ctx, teamID, userID)
}

func (s *teamService) ListMembers(ctx context.Context, actor authz.Actor, teamID uint64) ([]dto.TeamMemberDTO, error) {
	if err := authz.Allow(actor, entities.RoleAdmin, entities.RoleManager, entities.RoleTechnician); err != nil {
		return nil, err
	}
	if _, err := s.teamRepo.FindByID(ctx, teamID); err != nil {
		return nil, err
	}
	return s.teamRepo.ListMembers(ctx, teamID)
}
