package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"gearguard/internal/entities"
	"gearguard/internal/services"
	"gearguard/pkg/utils"
)

type DashboardController struct {
	dashboardService services.DashboardServiceInterface
	roleService      services.RoleServiceInterface
	logger           *zap.Logger
}

func NewDashboardController(
	dashboardService services.DashboardServiceInterface,
	roleService services.RoleServiceInterface,
	logger *zap.Logger,
) *DashboardController {
	return &DashboardController{
		dashboardService: dashboardService,
		roleService:      roleService,
		logger:           logger,
	}
}

// Dashboard serves the role-appropriate dashboard for the caller.
func (c *DashboardController) Dashboard(ctx echo.Context) error {
	actor, err := actorFrom(ctx, c.roleService)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var body interface{}
	switch actor.Role {
	case entities.RoleAdmin:
		body, err = c.dashboardService.Admin(ctx.Request().Context(), actor)
	case entities.RoleManager:
		body, err = c.dashboardService.Manager(ctx.Request().Context(), actor)
	case entities.RoleTechnician:
		body, err = c.dashboardService.Technician(ctx.Request().Context(), actor)
	default:
		body, err = c.dashboardService.User(ctx.Request().Context(), actor)
	}
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, body, "dashboard loaded", http.StatusOK)
}
