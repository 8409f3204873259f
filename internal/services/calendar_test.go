package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gearguard/internal/authz"
	"gearguard/internal/dto"
	"gearguard/internal/entities"
	apperrors "gearguard/pkg/errors"
)

func newCalendarService(
	requestRepo *fakeRequestRepo,
	equipmentRepo *fakeEquipmentRepo,
	userRepo *fakeUserRepo,
	now time.Time,
) *calendarService {
	return &calendarService{
		requestRepo:   requestRepo,
		equipmentRepo: equipmentRepo,
		userRepo:      userRepo,
		logger:        zap.NewNop(),
		now:           func() time.Time { return now },
	}
}

var calendarActor = authz.Actor{ID: 1, Role: entities.RoleAdmin}

func TestBuildMonthGrid(t *testing.T) {
	testCases := []struct {
		name     string
		year     int
		month    int
		wantDays int
		wantPad  int
		wantName string
	}{
		// February 2024 is a leap month starting on a Thursday.
		{name: "leap february", year: 2024, month: 2, wantDays: 29, wantPad: 3, wantName: "February"},
		{name: "plain february", year: 2023, month: 2, wantDays: 28, wantPad: 2, wantName: "February"},
		{name: "month starting on monday", year: 2025, month: 9, wantDays: 30, wantPad: 0, wantName: "September"},
		{name: "month starting on sunday", year: 2024, month: 12, wantDays: 31, wantPad: 6, wantName: "December"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			grid := buildMonthGrid(tc.year, tc.month, nil)

			assert.Equal(t, tc.wantName, grid.MonthName)
			require.Len(t, grid.Days, tc.wantPad+tc.wantDays)
			for i := 0; i < tc.wantPad; i++ {
				assert.Nil(t, grid.Days[i])
			}

			first := grid.Days[tc.wantPad]
			require.NotNil(t, first)
			assert.Equal(t, 1, first.Day)

			last := grid.Days[len(grid.Days)-1]
			require.NotNil(t, last)
			assert.Equal(t, tc.wantDays, last.Day)
		})
	}
}

func TestBuildMonthGridNavigationRollsOverYears(t *testing.T) {
	january := buildMonthGrid(2024, 1, nil)
	assert.Equal(t, 2023, january.PrevYear)
	assert.Equal(t, 12, january.PrevMonth)
	assert.Equal(t, 2024, january.NextYear)
	assert.Equal(t, 2, january.NextMonth)

	december := buildMonthGrid(2024, 12, nil)
	assert.Equal(t, 2024, december.PrevYear)
	assert.Equal(t, 11, december.PrevMonth)
	assert.Equal(t, 2025, december.NextYear)
	assert.Equal(t, 1, december.NextMonth)
}

func TestNextMaintenanceDateFromPurchaseDate(t *testing.T) {
	interval := 90
	purchase := time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)
	equipmentRepo := newFakeEquipmentRepo(entities.Equipment{
		ID:                      5,
		Name:                    "CNC Milling Machine",
		MaintenanceIntervalDays: &interval,
		PurchaseDate:            &purchase,
	})

	s := newCalendarService(newFakeRequestRepo(), equipmentRepo, newFakeUserRepo(),
		time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC))

	due, err := s.NextMaintenanceDate(context.Background(), calendarActor, 5)
	require.NoError(t, err)
	require.NotNil(t, due)
	assert.Equal(t, time.Date(2023, 4, 15, 0, 0, 0, 0, time.UTC), *due)
}

func TestNextMaintenanceDateFromLastCompletedService(t *testing.T) {
	interval := 90
	purchase := time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)
	equipmentRepo := newFakeEquipmentRepo(entities.Equipment{
		ID:                      5,
		MaintenanceIntervalDays: &interval,
		PurchaseDate:            &purchase,
	})

	requestRepo := newFakeRequestRepo()
	completed := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	requestRepo.lastCompleted[5] = &entities.MaintenanceRequest{
		Stage:         entities.StageRepaired,
		CompletedDate: &completed,
	}

	s := newCalendarService(requestRepo, equipmentRepo, newFakeUserRepo(),
		time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC))

	due, err := s.NextMaintenanceDate(context.Background(), calendarActor, 5)
	require.NoError(t, err)
	require.NotNil(t, due)
	// The completed service resets the cycle; the purchase date no longer
	// matters.
	assert.Equal(t, time.Date(2024, 5, 30, 0, 0, 0, 0, time.UTC), *due)
}

func TestNextMaintenanceDateSkipsUnmaintainableEquipment(t *testing.T) {
	interval := 90
	equipmentRepo := newFakeEquipmentRepo(
		entities.Equipment{ID: 1, MaintenanceIntervalDays: &interval, IsScrapped: true},
		entities.Equipment{ID: 2},
	)

	s := newCalendarService(newFakeRequestRepo(), equipmentRepo, newFakeUserRepo(),
		time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC))

	due, err := s.NextMaintenanceDate(context.Background(), calendarActor, 1)
	require.NoError(t, err)
	assert.Nil(t, due, "scrapped equipment has no next maintenance")

	due, err = s.NextMaintenanceDate(context.Background(), calendarActor, 2)
	require.NoError(t, err)
	assert.Nil(t, due, "equipment without an interval has no next maintenance")
}

func TestMonthCalendarRejectsBadMonth(t *testing.T) {
	s := newCalendarService(newFakeRequestRepo(), newFakeEquipmentRepo(), newFakeUserRepo(),
		time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC))

	_, err := s.MonthCalendar(context.Background(), calendarActor, 2024, 0)
	assert.Error(t, err)
	_, err = s.MonthCalendar(context.Background(), calendarActor, 2024, 13)
	assert.Error(t, err)
}

func TestMonthCalendarMergesScheduledAndProjected(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	technicianID := uint64(7)
	interval := 30
	equipmentRepo := newFakeEquipmentRepo(entities.Equipment{
		ID:                      5,
		Name:                    "Conveyor Belt",
		MaintenanceIntervalDays: &interval,
		DefaultTechnicianID:     &technicianID,
	})

	requestRepo := newFakeRequestRepo()
	lastCompleted := time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC)
	requestRepo.lastCompleted[5] = &entities.MaintenanceRequest{
		Stage:         entities.StageRepaired,
		CompletedDate: &lastCompleted,
	}

	scheduledDate := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	requestRepo.scheduled = []dto.RequestDTO{{
		MaintenanceRequest: entities.MaintenanceRequest{
			ID:            9,
			Subject:       "Quarterly inspection",
			ScheduledDate: &scheduledDate,
		},
		EquipmentName: "Conveyor Belt",
	}}

	userRepo := newFakeUserRepo(entities.User{ID: 7, FirstName: "Alex", LastName: "Rivera"})

	s := newCalendarService(requestRepo, equipmentRepo, userRepo, now)

	calendar, err := s.MonthCalendar(context.Background(), calendarActor, 2024, 3)
	require.NoError(t, err)
	assert.Equal(t, dateOf(now), calendar.Today)

	// March 2024 starts on a Friday: four pad cells, then the days.
	pad := 4
	require.Len(t, calendar.Days, pad+31)

	day5 := calendar.Days[pad+4]
	require.NotNil(t, day5)
	require.Len(t, day5.Requests, 1)
	assert.Equal(t, dto.CalendarEntryScheduled, day5.Requests[0].Type)
	assert.Equal(t, "Quarterly inspection", day5.Requests[0].Subject)
	require.NotNil(t, day5.Requests[0].RequestID)
	assert.Equal(t, uint64(9), *day5.Requests[0].RequestID)

	// Last service on Feb 20 plus a 30 day interval projects March 21.
	day21 := calendar.Days[pad+20]
	require.NotNil(t, day21)
	require.Len(t, day21.Requests, 1)
	assert.Equal(t, dto.CalendarEntryProjected, day21.Requests[0].Type)
	assert.Equal(t, "Conveyor Belt", day21.Requests[0].EquipmentName)
	assert.Nil(t, day21.Requests[0].RequestID)
	require.NotNil(t, day21.Requests[0].Technician)
	assert.Equal(t, "Alex Rivera", *day21.Requests[0].Technician)
}

func TestMonthCalendarSuppressesCoveredProjections(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	interval := 30
	equipmentRepo := newFakeEquipmentRepo(entities.Equipment{
		ID:                      5,
		Name:                    "Conveyor Belt",
		MaintenanceIntervalDays: &interval,
	})

	requestRepo := newFakeRequestRepo()
	lastCompleted := time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC)
	requestRepo.lastCompleted[5] = &entities.MaintenanceRequest{
		Stage:         entities.StageRepaired,
		CompletedDate: &lastCompleted,
	}
	// A persisted request already covers the projected March 21 slot.
	requestRepo.existsOnDate[existsKey(5, time.Date(2024, 3, 21, 0, 0, 0, 0, time.UTC))] = true

	s := newCalendarService(requestRepo, equipmentRepo, newFakeUserRepo(), now)

	calendar, err := s.MonthCalendar(context.Background(), calendarActor, 2024, 3)
	require.NoError(t, err)

	for _, day := range calendar.Days {
		if day == nil {
			continue
		}
		assert.Empty(t, day.Requests, "day %d should have no entries", day.Day)
	}
}

func TestMonthCalendarRequiresAuthentication(t *testing.T) {
	s := newCalendarService(newFakeRequestRepo(), newFakeEquipmentRepo(), newFakeUserRepo(),
		time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC))

	_, err := s.MonthCalendar(context.Background(), authz.Actor{}, 2024, 3)
	assert.Error(t, err)
}

func TestMonthCalendarIsForPlannersOnly(t *testing.T) {
	s := newCalendarService(newFakeRequestRepo(), newFakeEquipmentRepo(), newFakeUserRepo(),
		time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC))

	for _, actor := range []authz.Actor{
		{ID: 7, Role: entities.RoleTechnician},
		{ID: 42, Role: entities.RoleUser},
	} {
		_, err := s.MonthCalendar(context.Background(), actor, 2024, 3)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	}

	_, err := s.MonthCalendar(context.Background(), authz.Actor{ID: 2, Role: entities.RoleManager}, 2024, 3)
	assert.NoError(t, err)
}
