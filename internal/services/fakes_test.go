package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"gearguard/internal/dto"
	"gearguard/internal/entities"
	"gearguard/internal/repositories"
	apperrors "gearguard/pkg/errors"
)

// The fakes embed the repository interfaces so each test only fills in the
// methods it exercises. Calling anything unimplemented panics, which is
// exactly what we want from a test double.

type fakeTxManager struct{}

func (f *fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

type fakeRequestRepo struct {
	repositories.RequestRepositoryInterface

	requests map[uint64]*entities.MaintenanceRequest
	nextID   uint64
	saves    int

	scheduled     []dto.RequestDTO
	lastCompleted map[uint64]*entities.MaintenanceRequest
	existsOnDate  map[string]bool
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{
		requests:      make(map[uint64]*entities.MaintenanceRequest),
		nextID:        1,
		lastCompleted: make(map[uint64]*entities.MaintenanceRequest),
		existsOnDate:  make(map[string]bool),
	}
}

func (f *fakeRequestRepo) put(req entities.MaintenanceRequest) uint64 {
	if req.ID == 0 {
		req.ID = f.nextID
	}
	if req.ID >= f.nextID {
		f.nextID = req.ID + 1
	}
	stored := req
	f.requests[req.ID] = &stored
	return req.ID
}

func (f *fakeRequestRepo) Create(ctx context.Context, req entities.MaintenanceRequest) (uint64, error) {
	return f.put(req), nil
}

func (f *fakeRequestRepo) FindByID(ctx context.Context, id uint64) (*dto.RequestDTO, error) {
	req, ok := f.requests[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &dto.RequestDTO{MaintenanceRequest: *req}, nil
}

func (f *fakeRequestRepo) FindForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.MaintenanceRequest, error) {
	req, ok := f.requests[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	// A copy, like a row read from the database: changes are not visible
	// until saved.
	clone := *req
	return &clone, nil
}

func (f *fakeRequestRepo) SaveInTx(ctx context.Context, tx pgx.Tx, req entities.MaintenanceRequest) error {
	if _, ok := f.requests[req.ID]; !ok {
		return apperrors.ErrNotFound
	}
	f.saves++
	stored := req
	f.requests[req.ID] = &stored
	return nil
}

func (f *fakeRequestRepo) GetAll(ctx context.Context, filter dto.RequestFilterDTO, scope repositories.RequestScope) ([]dto.RequestDTO, uint64, error) {
	list := make([]dto.RequestDTO, 0, len(f.requests))
	for id := uint64(1); id < f.nextID; id++ {
		if req, ok := f.requests[id]; ok {
			list = append(list, dto.RequestDTO{MaintenanceRequest: *req})
		}
	}
	return list, uint64(len(list)), nil
}

func (f *fakeRequestRepo) ListPreventiveInRange(ctx context.Context, from, to time.Time) ([]dto.RequestDTO, error) {
	return f.scheduled, nil
}

func existsKey(equipmentID uint64, date time.Time) string {
	return fmt.Sprintf("%d|%s", equipmentID, date.Format("2006-01-02"))
}

func (f *fakeRequestRepo) ExistsPreventiveOnDate(ctx context.Context, equipmentID uint64, date time.Time) (bool, error) {
	return f.existsOnDate[existsKey(equipmentID, date)], nil
}

func (f *fakeRequestRepo) FindLastCompletedPreventive(ctx context.Context, equipmentID uint64) (*entities.MaintenanceRequest, error) {
	if req, ok := f.lastCompleted[equipmentID]; ok {
		return req, nil
	}
	return nil, apperrors.ErrNotFound
}

type fakeEquipmentRepo struct {
	repositories.EquipmentRepositoryInterface

	equipment  map[uint64]*entities.Equipment
	scrapCalls int
}

func newFakeEquipmentRepo(items ...entities.Equipment) *fakeEquipmentRepo {
	f := &fakeEquipmentRepo{equipment: make(map[uint64]*entities.Equipment)}
	for i := range items {
		item := items[i]
		f.equipment[item.ID] = &item
	}
	return f
}

func (f *fakeEquipmentRepo) FindByID(ctx context.Context, id uint64) (*entities.Equipment, error) {
	eq, ok := f.equipment[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	clone := *eq
	return &clone, nil
}

func (f *fakeEquipmentRepo) FindByIDInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeEquipmentRepo) MarkScrappedInTx(ctx context.Context, tx pgx.Tx, id uint64, scrapDate time.Time, scrapReason *string) error {
	eq, ok := f.equipment[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	f.scrapCalls++
	eq.IsScrapped = true
	date := scrapDate
	eq.ScrapDate = &date
	eq.ScrapReason = scrapReason
	return nil
}

func (f *fakeEquipmentRepo) ListWithInterval(ctx context.Context) ([]entities.Equipment, error) {
	var out []entities.Equipment
	for _, eq := range f.equipment {
		if !eq.IsScrapped && eq.MaintenanceIntervalDays != nil && *eq.MaintenanceIntervalDays > 0 {
			out = append(out, *eq)
		}
	}
	return out, nil
}

type fakeTeamRepo struct {
	repositories.TeamRepositoryInterface

	teamIDsByUser map[uint64][]uint64
}

func (f *fakeTeamRepo) FindTeamIDsByUser(ctx context.Context, userID uint64) ([]uint64, error) {
	return f.teamIDsByUser[userID], nil
}

type fakeUserRepo struct {
	repositories.UserRepositoryInterface

	users map[uint64]*entities.User

	usernameTaken bool
	emailTaken    bool

	createdUsers    []entities.User
	createdProfiles map[uint64]entities.Role
	updatedProfiles map[uint64]entities.Role
	profileExists   map[uint64]bool
}

func newFakeUserRepo(users ...entities.User) *fakeUserRepo {
	f := &fakeUserRepo{
		users:           make(map[uint64]*entities.User),
		createdProfiles: make(map[uint64]entities.Role),
		updatedProfiles: make(map[uint64]entities.Role),
		profileExists:   make(map[uint64]bool),
	}
	for i := range users {
		user := users[i]
		f.users[user.ID] = &user
	}
	return f
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uint64) (*entities.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return f.usernameTaken, nil
}

func (f *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return f.emailTaken, nil
}

func (f *fakeUserRepo) CreateUserInTx(ctx context.Context, tx pgx.Tx, user entities.User) (uint64, error) {
	id := uint64(len(f.users) + 1000)
	user.ID = id
	f.users[id] = &user
	f.createdUsers = append(f.createdUsers, user)
	return id, nil
}

func (f *fakeUserRepo) CreateProfileInTx(ctx context.Context, tx pgx.Tx, userID uint64, role entities.Role) error {
	f.createdProfiles[userID] = role
	f.profileExists[userID] = true
	return nil
}

func (f *fakeUserRepo) UpdateProfileRoleInTx(ctx context.Context, tx pgx.Tx, userID uint64, role entities.Role) error {
	if !f.profileExists[userID] {
		return apperrors.ErrNotFound
	}
	f.updatedProfiles[userID] = role
	return nil
}

type fakeRegistrationRepo struct {
	repositories.RegistrationRepositoryInterface

	registrations map[uint64]*entities.UserRegistration
	created       []entities.UserRegistration
	pendingByName bool
	pendingByMail bool
	statusCalls   int
}

func newFakeRegistrationRepo(regs ...entities.UserRegistration) *fakeRegistrationRepo {
	f := &fakeRegistrationRepo{registrations: make(map[uint64]*entities.UserRegistration)}
	for i := range regs {
		reg := regs[i]
		f.registrations[reg.ID] = &reg
	}
	return f
}

func (f *fakeRegistrationRepo) Create(ctx context.Context, reg entities.UserRegistration) (uint64, error) {
	reg.ID = uint64(len(f.registrations) + 1)
	f.registrations[reg.ID] = &reg
	f.created = append(f.created, reg)
	return reg.ID, nil
}

func (f *fakeRegistrationRepo) FindForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.UserRegistration, error) {
	reg, ok := f.registrations[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	clone := *reg
	return &clone, nil
}

func (f *fakeRegistrationRepo) SetStatusInTx(ctx context.Context, tx pgx.Tx, id uint64, status entities.RegistrationStatus, reviewerID uint64, rejectionReason *string) error {
	reg, ok := f.registrations[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	f.statusCalls++
	reg.Status = status
	reg.ApprovedByID = &reviewerID
	reg.RejectionReason = rejectionReason
	return nil
}

func (f *fakeRegistrationRepo) ExistsPendingByUsername(ctx context.Context, username string) (bool, error) {
	return f.pendingByName, nil
}

func (f *fakeRegistrationRepo) ExistsPendingByEmail(ctx context.Context, email string) (bool, error) {
	return f.pendingByMail, nil
}

type fakeRoleService struct {
	RoleServiceInterface

	invalidated []uint64
}

func (f *fakeRoleService) InvalidateRole(ctx context.Context, userID uint64) {
	f.invalidated = append(f.invalidated, userID)
}
