package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"gearguard/internal/authz"
	"gearguard/internal/dto"
	"gearguard/internal/entities"
	"gearguard/internal/repositories"
	apperrors "gearguard/pkg/errors"
)

type RegistrationServiceInterface interface {
	Signup(ctx context.Context, payload dto.SignupDTO) (uint64, error)
	GetAll(ctx context.Context, actor authz.Actor, filter dto.RegistrationFilterDTO) ([]entities.UserRegistration, uint64, error)
	Approve(ctx context.Context, actor authz.Actor, id uint64) (*dto.ApproveResultDTO, error)
	Reject(ctx context.Context, actor authz.Actor, id uint64, payload dto.RejectRegistrationDTO) error
}

// registrationService runs the signup approval queue: public signups land
// as Pending rows, admins approve or reject them. Approval creates the
// account and its role profile in one transaction, and is idempotent when
// the account already exists.
type registrationService struct {
	registrationRepo repositories.RegistrationRepositoryInterface
	userRepo         repositories.UserRepositoryInterface
	roleService      RoleServiceInterface
	txManager        repositories.TxManagerInterface
	logger           *zap.Logger
}

func NewRegistrationService(
	registrationRepo repositories.RegistrationRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	roleService RoleServiceInterface,
	txManager repositories.TxManagerInterface,
	logger *zap.Logger,
) RegistrationServiceInterface {
	return &registrationService{
		registrationRepo: registrationRepo,
		userRepo:         userRepo,
		roleService:      roleService,
		txManager:        txManager,
		logger:           logger,
	}
}

func (s *registrationService) Signup(ctx context.Context, payload dto.SignupDTO) (uint64, error) {
	if taken, err := s.userRepo.ExistsByUsername(ctx, payload.Username); err != nil {
		return 0, err
	} else if taken {
		return 0, apperrors.NewConflictError("username", "username already exists")
	}
	if taken, err := s.userRepo.ExistsByEmail(ctx, payload.Email); err != nil {
		return 0, err
	} else if taken {
		return 0, apperrors.NewConflictError("email", "email already exists")
	}
	if pending, err := s.registrationRepo.ExistsPendingByUsername(ctx, payload.Username); err != nil {
		return 0, err
	} else if pending {
		return 0, apperrors.NewConflictError("username", "a signup for this username is already pending review")
	}
	if pending, err := s.registrationRepo.ExistsPendingByEmail(ctx, payload.Email); err != nil {
		return 0, err
	} else if pending {
		return 0, apperrors.NewConflictError("email", "a signup for this email is already pending review")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}

	role := payload.RequestedRole
	if role == "" {
		role = entities.RoleUser
	}

	return s.registrationRepo.Create(ctx, entities.UserRegistration{
		Username:      payload.Username,
		Email:         payload.Email,
		FirstName:     payload.FirstName,
		LastName:      payload.LastName,
		PasswordHash:  string(hash),
		RequestedRole: role,
		Status:        entities.RegistrationPending,
	})
}

func (s *registrationService) GetAll(ctx context.Context, actor authz.Actor, filter dto.RegistrationFilterDTO) ([]entities.UserRegistration, uint64, error) {
	if err := authz.Allow(actor, entities.RoleAdmin); err != nil {
		return nil, 0, err
	}
	return s.registrationRepo.GetAll(ctx, filter)
}

// Approve creates the account and attaches its role profile as two explicit
// steps of one transaction. When an account under that username already
// exists, only the profile role is updated; repeating an approval changes
// nothing.
func (s *registrationService) Approve(ctx context.Context, actor authz.Actor, id uint64) (*dto.ApproveResultDTO, error) {
	if err := authz.Allow(actor, entities.RoleAdmin); err != nil {
		return nil, err
	}

	var result dto.ApproveResultDTO
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		reg, err := s.registrationRepo.FindForUpdateInTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if reg.Status == entities.RegistrationRejected {
			return apperrors.NewValidationError("status", "registration has already been rejected")
		}

		existing, err := s.userRepo.FindByUsername(ctx, reg.Username)
		switch {
		case err == nil:
			if err := s.setRoleInTx(ctx, tx, existing.ID, reg.RequestedRole); err != nil {
				return err
			}
			result = dto.ApproveResultDTO{
				UserID:      existing.ID,
				Username:    existing.Username,
				Role:        reg.RequestedRole,
				UserExisted: true,
			}
		case errors.Is(err, apperrors.ErrNotFound):
			userID, err := s.userRepo.CreateUserInTx(ctx, tx, entities.User{
				Username:     reg.Username,
				Email:        reg.Email,
				FirstName:    reg.FirstName,
				LastName:     reg.LastName,
				PasswordHash: reg.PasswordHash,
				IsActive:     true,
			})
			if err != nil {
				return err
			}
			if err := s.userRepo.CreateProfileInTx(ctx, tx, userID, reg.RequestedRole); err != nil {
				return err
			}
			result = dto.ApproveResultDTO{
				UserID:   userID,
				Username: reg.Username,
				Role:     reg.RequestedRole,
			}
		default:
			return err
		}

		if reg.Status != entities.RegistrationApproved {
			if err := s.registrationRepo.SetStatusInTx(ctx, tx, id, entities.RegistrationApproved, actor.ID, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.roleService.InvalidateRole(ctx, result.UserID)
	return &result, nil
}

func (s *registrationService) setRoleInTx(ctx context.Context, tx pgx.Tx, userID uint64, role entities.Role) error {
	err := s.userRepo.UpdateProfileRoleInTx(ctx, tx, userID, role)
	if errors.Is(err, apperrors.ErrNotFound) {
		return s.userRepo.CreateProfileInTx(ctx, tx, userID, role)
	}
	return err
}

func (s *registrationService) Reject(ctx context.Context, actor authz.Actor, id uint64, payload dto.RejectRegistrationDTO) error {
	if err := authz.Allow(actor, entities.RoleAdmin); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		reg, err := s.registrationRepo.FindForUpdateInTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if reg.Status == entities.RegistrationRejected {
			return nil
		}
		if reg.Status == entities.RegistrationApproved {
			return apperrors.NewValidationError("status", "registration has already been approved")
		}

		var reason *string
		if payload.RejectionReason != "" {
			reason = &payload.RejectionReason
		}
		return s.registrationRepo.SetStatusInTx(ctx, tx, id, entities.RegistrationRejected, actor.ID, reason)
	})
}
