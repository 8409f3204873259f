package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"gearguard/internal/authz"
	"gearguard/internal/dto"
	"gearguard/internal/entities"
	apperrors "gearguard/pkg/errors"
)

func newRegistrationService(
	registrationRepo *fakeRegistrationRepo,
	userRepo *fakeUserRepo,
	roleService *fakeRoleService,
) *registrationService {
	return &registrationService{
		registrationRepo: registrationRepo,
		userRepo:         userRepo,
		roleService:      roleService,
		txManager:        &fakeTxManager{},
		logger:           zap.NewNop(),
	}
}

func pendingRegistration(id uint64) entities.UserRegistration {
	return entities.UserRegistration{
		ID:            id,
		Username:      "jdoe",
		Email:         "jdoe@example.com",
		FirstName:     "Jane",
		LastName:      "Doe",
		PasswordHash:  "$2a$10$hash",
		RequestedRole: entities.RoleTechnician,
		Status:        entities.RegistrationPending,
	}
}

func TestSignupCreatesPendingRegistration(t *testing.T) {
	registrationRepo := newFakeRegistrationRepo()
	s := newRegistrationService(registrationRepo, newFakeUserRepo(), &fakeRoleService{})

	id, err := s.Signup(context.Background(), dto.SignupDTO{
		Username:  "jdoe",
		Email:     "jdoe@example.com",
		FirstName: "Jane",
		LastName:  "Doe",
		Password:  "correct horse battery",
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	require.Len(t, registrationRepo.created, 1)
	created := registrationRepo.created[0]
	assert.Equal(t, entities.RegistrationPending, created.Status)
	assert.Equal(t, entities.RoleUser, created.RequestedRole, "role defaults to User")
	assert.NotEqual(t, "correct horse battery", created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("correct horse battery")))
}

func TestSignupRejectsTakenIdentities(t *testing.T) {
	payload := dto.SignupDTO{
		Username: "jdoe",
		Email:    "jdoe@example.com",
		Password: "correct horse battery",
	}

	t.Run("existing username", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		userRepo.usernameTaken = true
		s := newRegistrationService(newFakeRegistrationRepo(), userRepo, &fakeRoleService{})

		_, err := s.Signup(context.Background(), payload)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("existing email", func(t *testing.T) {
		userRepo := newFakeUserRepo()
		userRepo.emailTaken = true
		s := newRegistrationService(newFakeRegistrationRepo(), userRepo, &fakeRoleService{})

		_, err := s.Signup(context.Background(), payload)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("pending signup for same username", func(t *testing.T) {
		registrationRepo := newFakeRegistrationRepo()
		registrationRepo.pendingByName = true
		s := newRegistrationService(registrationRepo, newFakeUserRepo(), &fakeRoleService{})

		_, err := s.Signup(context.Background(), payload)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})
}

func TestApproveCreatesUserAndProfile(t *testing.T) {
	registrationRepo := newFakeRegistrationRepo(pendingRegistration(1))
	userRepo := newFakeUserRepo()
	roleService := &fakeRoleService{}

	s := newRegistrationService(registrationRepo, userRepo, roleService)

	result, err := s.Approve(context.Background(), adminActor, 1)
	require.NoError(t, err)

	assert.False(t, result.UserExisted)
	assert.Equal(t, "jdoe", result.Username)
	assert.Equal(t, entities.RoleTechnician, result.Role)

	require.Len(t, userRepo.createdUsers, 1)
	created := userRepo.createdUsers[0]
	assert.True(t, created.IsActive)
	assert.Equal(t, "$2a$10$hash", created.PasswordHash, "stored hash carries over, never rehashed")
	assert.Equal(t, entities.RoleTechnician, userRepo.createdProfiles[result.UserID])

	assert.Equal(t, entities.RegistrationApproved, registrationRepo.registrations[1].Status)
	assert.Equal(t, []uint64{result.UserID}, roleService.invalidated)
}

func TestApproveExistingUserOnlyUpdatesRole(t *testing.T) {
	registrationRepo := newFakeRegistrationRepo(pendingRegistration(1))
	userRepo := newFakeUserRepo(entities.User{ID: 50, Username: "jdoe"})
	userRepo.profileExists[50] = true

	s := newRegistrationService(registrationRepo, userRepo, &fakeRoleService{})

	result, err := s.Approve(context.Background(), adminActor, 1)
	require.NoError(t, err)

	assert.True(t, result.UserExisted)
	assert.Equal(t, uint64(50), result.UserID)
	assert.Empty(t, userRepo.createdUsers)
	assert.Equal(t, entities.RoleTechnician, userRepo.updatedProfiles[50])
}

func TestApproveIsIdempotent(t *testing.T) {
	registrationRepo := newFakeRegistrationRepo(pendingRegistration(1))
	userRepo := newFakeUserRepo()

	s := newRegistrationService(registrationRepo, userRepo, &fakeRoleService{})

	first, err := s.Approve(context.Background(), adminActor, 1)
	require.NoError(t, err)

	// The first approval created the account, so the second run finds it
	// and touches nothing but the profile role.
	second, err := s.Approve(context.Background(), adminActor, 1)
	require.NoError(t, err)

	assert.Equal(t, first.UserID, second.UserID)
	assert.True(t, second.UserExisted)
	assert.Len(t, userRepo.createdUsers, 1)
	assert.Equal(t, 1, registrationRepo.statusCalls, "status is written once")
}

func TestApproveRejectedRegistrationFails(t *testing.T) {
	reg := pendingRegistration(1)
	reg.Status = entities.RegistrationRejected
	registrationRepo := newFakeRegistrationRepo(reg)
	userRepo := newFakeUserRepo()

	s := newRegistrationService(registrationRepo, userRepo, &fakeRoleService{})

	_, err := s.Approve(context.Background(), adminActor, 1)

	var validationErr *apperrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Empty(t, userRepo.createdUsers)
}

func TestApproveRequiresAdmin(t *testing.T) {
	s := newRegistrationService(newFakeRegistrationRepo(pendingRegistration(1)), newFakeUserRepo(), &fakeRoleService{})

	for _, actor := range []authz.Actor{managerActor, technicianActor, userActor} {
		_, err := s.Approve(context.Background(), actor, 1)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	}
}

func TestRejectRecordsReason(t *testing.T) {
	registrationRepo := newFakeRegistrationRepo(pendingRegistration(1))
	s := newRegistrationService(registrationRepo, newFakeUserRepo(), &fakeRoleService{})

	err := s.Reject(context.Background(), adminActor, 1, dto.RejectRegistrationDTO{
		RejectionReason: "duplicate account",
	})
	require.NoError(t, err)

	reg := registrationRepo.registrations[1]
	assert.Equal(t, entities.RegistrationRejected, reg.Status)
	require.NotNil(t, reg.RejectionReason)
	assert.Equal(t, "duplicate account", *reg.RejectionReason)
	require.NotNil(t, reg.ApprovedByID)
	assert.Equal(t, adminActor.ID, *reg.ApprovedByID)
}

func TestRejectIsIdempotent(t *testing.T) {
	reg := pendingRegistration(1)
	reg.Status = entities.RegistrationRejected
	registrationRepo := newFakeRegistrationRepo(reg)

	s := newRegistrationService(registrationRepo, newFakeUserRepo(), &fakeRoleService{})

	err := s.Reject(context.Background(), adminActor, 1, dto.RejectRegistrationDTO{})
	require.NoError(t, err)
	assert.Equal(t, 0, registrationRepo.statusCalls)
}

func TestRejectApprovedRegistrationFails(t *testing.T) {
	reg := pendingRegistration(1)
	reg.Status = entities.RegistrationApproved
	registrationRepo := newFakeRegistrationRepo(reg)

	s := newRegistrationService(registrationRepo, newFakeUserRepo(), &fakeRoleService{})

	err := s.Reject(context.Background(), adminActor, 1, dto.RejectRegistrationDTO{})

	var validationErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}
