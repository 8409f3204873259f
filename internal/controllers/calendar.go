package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"gearguard/internal/services"
	"gearguard/pkg/utils"
)

type CalendarController struct {
	calendarService services.CalendarServiceInterface
	roleService     services.RoleServiceInterface
	logger          *zap.Logger
}

func NewCalendarController(
	calendarService services.CalendarServiceInterface,
	roleService services.RoleServiceInterface,
	logger *zap.Logger,
) *CalendarController {
	return &CalendarController{
		calendarService: calendarService,
		roleService:     roleService,
		logger:          logger,
	}
}

// MonthCalendar serves the maintenance month grid; year and month default
// to the current month when absent.
func (c *CalendarController) MonthCalendar(ctx echo.Context) error {
	actor, err := actorFrom(ctx, c.roleService)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	now := time.Now()
	year := now.Year()
	month := int(now.Month())
	if v := ctx.QueryParam("year"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			year = parsed
		}
	}
	if v := ctx.QueryParam("month"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			month = parsed
		}
	}

	calendar, err := c.calendarService.MonthCalendar(ctx.Request().Context(), actor, year, month)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, calendar, "calendar computed", http.StatusOK)
}

func (c *CalendarController) NextMaintenanceDate(ctx echo.Context) error {
	actor, err := actorFrom(ctx, c.roleService)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	equipmentID, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	due, err := c.calendarService.NextMaintenanceDate(ctx.Request().Context(), actor, equipmentID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	body := map[string]interface{}{"next_maintenance_date": nil}
	if due != nil {
		body["next_maintenance_date"] = due.Format("2006-01-02")
	}
	return utils.SuccessResponse(ctx, body, "next maintenance date computed", http.StatusOK)
}
