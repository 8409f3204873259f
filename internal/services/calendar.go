package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"gearguard/internal/authz"
	"gearguard/internal/dto"
	"gearguard/internal/entities"
	"gearguard/internal/repositories"
	apperrors "gearguard/pkg/errors"
)

type CalendarServiceInterface interface {
	MonthCalendar(ctx context.Context, actor authz.Actor, year, month int) (*dto.CalendarDTO, error)
	NextMaintenanceDate(ctx context.Context, actor authz.Actor, equipmentID uint64) (*time.Time, error)
}

// calendarService projects recurring preventive maintenance per equipment
// and merges the projections with explicitly scheduled requests into a
// month grid. All reads, no mutation.
type calendarService struct {
	requestRepo   repositories.RequestRepositoryInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	userRepo      repositories.UserRepositoryInterface
	logger        *zap.Logger
	now           func() time.Time
}

func NewCalendarService(
	requestRepo repositories.RequestRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	logger *zap.Logger,
) CalendarServiceInterface {
	return &calendarService{
		requestRepo:   requestRepo,
		equipmentRepo: equipmentRepo,
		userRepo:      userRepo,
		logger:        logger,
		now:           time.Now,
	}
}

// nextDueDate computes the single next projected maintenance date: interval
// days after the last completed preventive service, or after the purchase
// date (today when unknown) if the equipment was never serviced.
func (s *calendarService) nextDueDate(ctx context.Context, equipment *entities.Equipment, today time.Time) (time.Time, error) {
	interval := *equipment.MaintenanceIntervalDays

	last, err := s.requestRepo.FindLastCompletedPreventive(ctx, equipment.ID)
	if err == nil && last.CompletedDate != nil {
		return dateOf(*last.CompletedDate).AddDate(0, 0, interval), nil
	}
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return time.Time{}, err
	}

	base := dateOf(today)
	if equipment.PurchaseDate != nil {
		base = dateOf(*equipment.PurchaseDate)
	}
	return base.AddDate(0, 0, interval), nil
}

func (s *calendarService) NextMaintenanceDate(ctx context.Context, actor authz.Actor, equipmentID uint64) (*time.Time, error) {
	if err := authz.Allow(actor, entities.RoleAdmin, entities.RoleManager, entities.RoleTechnician, entities.RoleUser); err != nil {
		return nil, err
	}

	equipment, err := s.equipmentRepo.FindByID(ctx, equipmentID)
	if err != nil {
		return nil, err
	}
	if equipment.IsScrapped || equipment.MaintenanceIntervalDays == nil || *equipment.MaintenanceIntervalDays <= 0 {
		return nil, nil
	}

	due, err := s.nextDueDate(ctx, equipment, s.now())
	if err != nil {
		return nil, err
	}
	return &due, nil
}

// MonthCalendar is a planning view, so it is limited to the roles that do
// the planning.
func (s *calendarService) MonthCalendar(ctx context.Context, actor authz.Actor, year, month int) (*dto.CalendarDTO, error) {
	if err := authz.Allow(actor, entities.RoleAdmin, entities.RoleManager); err != nil {
		return nil, err
	}
	if month < 1 || month > 12 {
		return nil, apperrors.NewValidationError("month", "month must be between 1 and 12")
	}

	today := dateOf(s.now())
	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	entriesByDay := make(map[int][]dto.CalendarEntryDTO)

	scheduled, err := s.requestRepo.ListPreventiveInRange(ctx, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}
	for _, req := range scheduled {
		if req.ScheduledDate == nil {
			continue
		}
		day := req.ScheduledDate.Day()
		requestID := req.ID
		entriesByDay[day] = append(entriesByDay[day], dto.CalendarEntryDTO{
			Type:          dto.CalendarEntryScheduled,
			Subject:       req.Subject,
			EquipmentName: req.EquipmentName,
			Technician:    req.AssignedTechnician,
			RequestID:     &requestID,
			Date:          dateOf(*req.ScheduledDate),
		})
	}

	projected, err := s.projectOccurrences(ctx, monthStart, monthEnd, today)
	if err != nil {
		return nil, err
	}
	for day, entries := range projected {
		entriesByDay[day] = append(entriesByDay[day], entries...)
	}

	calendar := buildMonthGrid(year, month, entriesByDay)
	calendar.Today = today
	return calendar, nil
}

// projectOccurrences walks every maintainable equipment forward from its
// next due date in interval steps, keeping the occurrences that land in the
// target month and are not already covered by a persisted request on the
// same date.
func (s *calendarService) projectOccurrences(ctx context.Context, monthStart, monthEnd, today time.Time) (map[int][]dto.CalendarEntryDTO, error) {
	equipmentList, err := s.equipmentRepo.ListWithInterval(ctx)
	if err != nil {
		return nil, err
	}

	technicianNames := make(map[uint64]*string)
	entriesByDay := make(map[int][]dto.CalendarEntryDTO)

	for i := range equipmentList {
		equipment := &equipmentList[i]
		interval := *equipment.MaintenanceIntervalDays

		due, err := s.nextDueDate(ctx, equipment, today)
		if err != nil {
			return nil, err
		}

		for date := due; !date.After(monthEnd); date = date.AddDate(0, 0, interval) {
			if date.Before(monthStart) {
				continue
			}

			exists, err := s.requestRepo.ExistsPreventiveOnDate(ctx, equipment.ID, date)
			if err != nil {
				return nil, err
			}
			if exists {
				continue
			}

			technician, err := s.technicianName(ctx, technicianNames, equipment.DefaultTechnicianID)
			if err != nil {
				return nil, err
			}

			day := date.Day()
			entriesByDay[day] = append(entriesByDay[day], dto.CalendarEntryDTO{
				Type:          dto.CalendarEntryProjected,
				Subject:       fmt.Sprintf("Preventive maintenance: %s", equipment.Name),
				EquipmentName: equipment.Name,
				Technician:    technician,
				Date:          date,
			})
		}
	}
	return entriesByDay, nil
}

func (s *calendarService) technicianName(ctx context.Context, cache map[uint64]*string, technicianID *uint64) (*string, error) {
	if technicianID == nil {
		return nil, nil
	}
	if name, ok := cache[*technicianID]; ok {
		return name, nil
	}

	user, err := s.userRepo.FindByID(ctx, *technicianID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			cache[*technicianID] = nil
			return nil, nil
		}
		return nil, err
	}

	name := user.FirstName + " " + user.LastName
	cache[*technicianID] = &name
	return &name, nil
}

// buildMonthGrid lays the month out Monday-first: leading pad cells are nil,
// then exactly one cell per day of the month. Month lengths and leap years
// come from the calendar, never from fixed day counts.
func buildMonthGrid(year, month int, entriesByDay map[int][]dto.CalendarEntryDTO) *dto.CalendarDTO {
	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := monthStart.AddDate(0, 1, -1).Day()
	leadingPad := (int(monthStart.Weekday()) + 6) % 7

	days := make([]*dto.CalendarDayDTO, 0, leadingPad+daysInMonth)
	for i := 0; i < leadingPad; i++ {
		days = append(days, nil)
	}
	for day := 1; day <= daysInMonth; day++ {
		entries := entriesByDay[day]
		if entries == nil {
			entries = []dto.CalendarEntryDTO{}
		}
		days = append(days, &dto.CalendarDayDTO{
			Date:     time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC),
			Day:      day,
			Requests: entries,
		})
	}

	prevYear, prevMonth := year, month-1
	if prevMonth < 1 {
		prevYear, prevMonth = year-1, 12
	}
	nextYear, nextMonth := year, month+1
	if nextMonth > 12 {
		nextYear, nextMonth = year+1, 1
	}

	return &dto.CalendarDTO{
		Year:      year,
		Month:     month,
		MonthName: monthStart.Month().String(),
		Days:      days,
		PrevYear:  prevYear,
		PrevMonth: prevMonth,
		NextYear:  nextYear,
		NextMonth: nextMonth,
	}
}
