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

type EquipmentServiceInterface interface {
	GetAll(ctx context.Context, actor authz.Actor, filter dto.EquipmentFilterDTO) ([]entities.Equipment, uint64, error)
	FindByID(ctx context.Context, actor authz.Actor, id uint64) (*entities.Equipment, error)
	Create(ctx context.Context, actor authz.Actor, payload dto.CreateEquipmentDTO) (*entities.Equipment, error)
	Update(ctx context.Context, actor authz.Actor, id uint64, payload dto.UpdateEquipmentDTO) (*entities.Equipment, error)
	Delete(ctx context.Context, actor authz.Actor, id uint64, payload dto.DeleteEquipmentDTO) error
}

type equipmentService struct {
	equipmentRepo repositories.EquipmentRepositoryInterface
	teamRepo      repositories.TeamRepositoryInterface
	logger        *zap.Logger
}

func NewEquipmentService(
	equipmentRepo repositories.EquipmentRepositoryInterface,
	teamRepo repositories.TeamRepositoryInterface,
	logger *zap.Logger,
) EquipmentServiceInterface {
	return &equipmentService{equipmentRepo: equipmentRepo, teamRepo: teamRepo, logger: logger}
}

func (s *equipmentService) GetAll(ctx context.Context, actor authz.Actor, filter dto.EquipmentFilterDTO) ([]entities.Equipment, uint64, error) {
	if err := authz.Allow(actor, entities.RoleAdmin, entities.RoleManager, entities.RoleTechnician, entities.RoleUser); err != nil {
		return nil, 0, err
	}
	return s.equipmentRepo.GetAll(ctx, filter)
}

func (s *equipmentService) FindByID(ctx context.Context, actor authz.Actor, id uint64) (*entities.Equipment, error) {
	if err := authz.Allow(actor, entities.RoleAdmin, entities.RoleManager, entities.RoleTechnician, entities.RoleUser); err != nil {
		return nil, err
	}
	return s.equipmentRepo.FindByID(ctx, id)
}

func (s *equipmentService) Create(ctx context.Context, actor authz.Actor, payload dto.CreateEquipmentDTO) (*entities.Equipment, error) {
	if err := authz.Allow(actor, entities.RoleAdmin, entities.RoleManager); err != nil {
		return nil, err
	}

	if _, err := s.teamRepo.FindByID(ctx, payload.MaintenanceTeamID); err != nil {
		return nil, err
	}

	purchaseDate, err := parseDate("purchase_date", payload.PurchaseDate)
	if err != nil {
		return nil, err
	}
	warrantyExpiry, err := parseDate("warranty_expiry", payload.WarrantyExpiry)
	if err != nil {
		return nil, err
	}

	id, err := s.equipmentRepo.Create(ctx, entities.Equipment{
		Name:                    payload.Name,
		SerialNumber:            payload.SerialNumber,
		Category:                payload.Category,
		Department:              payload.Department.Ptr(),
		AssignedToUserID:        payload.AssignedToUserID,
		MaintenanceTeamID:       payload.MaintenanceTeamID,
		DefaultTechnicianID:     payload.DefaultTechnicianID,
		PurchaseDate:            purchaseDate,
		WarrantyExpiry:          warrantyExpiry,
		Location:                payload.Location.Ptr(),
		Specifications:          payload.Specifications.Ptr(),
		MaintenanceIntervalDays: payload.MaintenanceIntervalDays,
	})
	if err != nil {
		return nil, err
	}
	return s.equipmentRepo.FindByID(ctx, id)
}

// Update never touches the serial number or the scrap fields: the serial is
// the immutable identity, and scrap state changes only through the request
// lifecycle's cascade.
func (s *equipmentService) Update(ctx context.Context, actor authz.Actor, id uint64, payload dto.UpdateEquipmentDTO) (*entities.Equipment, error) {
	if err := authz.Allow(actor, entities.RoleAdmin, entities.RoleManager); err != nil {
		return nil, err
	}

	if _, err := s.teamRepo.FindByID(ctx, payload.MaintenanceTeamID); err != nil {
		return nil, err
	}

	purchaseDate, err := parseDate("purchase_date", payload.PurchaseDate)
	if err != nil {
		return nil, err
	}
	warrantyExpiry, err := parseDate("warranty_expiry", payload.WarrantyExpiry)
	if err != nil {
		return nil, err
	}

	err = s.equipmentRepo.Update(ctx, id, entities.Equipment{
		Name:                    payload.Name,
		Category:                payload.Category,
		Department:              payload.Department.Ptr(),
		AssignedToUserID:        payload.AssignedToUserID,
		MaintenanceTeamID:       payload.MaintenanceTeamID,
		DefaultTechnicianID:     payload.DefaultTechnicianID,
		PurchaseDate:            purchaseDate,
		WarrantyExpiry:          warrantyExpiry,
		Location:                payload.Location.Ptr(),
		Specifications:          payload.Specifications.Ptr(),
		MaintenanceIntervalDays: payload.MaintenanceIntervalDays,
	})
	if err != nil {
		return nil, err
	}
	return s.equipmentRepo.FindByID(ctx, id)
}

// Delete removes the equipment and, through the schema's cascade, every
// request referencing it. Destructive, so the caller must confirm.
func (s *equipmentService) Delete(ctx context.Context, actor authz.Actor, id uint64, payload dto.DeleteEquipmentDTO) error {
	if err := authz.Allow(actor, entities.RoleAdmin); err != nil {
		return err
	}
	if !payload.Confirm {
		return apperrors.NewValidationError("confirm", "deletion must be confirmed")
	}
	return s.equipmentRepo.Delete(ctx, id)
}
