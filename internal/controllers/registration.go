package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"gearguard/internal/dto"
	"gearguard/internal/services"
	"gearguard/pkg/utils"
)

type RegistrationController struct {
	registrationService services.RegistrationServiceInterface
	roleService         services.RoleServiceInterface
	logger              *zap.Logger
}

func NewRegistrationController(
	registrationService services.RegistrationServiceInterface,
	roleService services.RoleServiceInterface,
	logger *zap.Logger,
) *RegistrationController {
	return &RegistrationController{
		registrationService: registrationService,
		roleService:         roleService,
		logger:              logger,
	}
}

// Signup is the only unauthenticated mutation in the API: it queues a
// pending registration for admin review.
func (c *RegistrationController) Signup(ctx echo.Context) error {
	var payload dto.SignupDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	id, err := c.registrationService.Signup(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, map[string]uint64{"registration_id": id}, "signup submitted for review", http.StatusCreated)
}

func (c *RegistrationController) GetRegistrations(ctx echo.Context) error {
	actor, err := actorFrom(ctx, c.roleService)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var filter dto.RegistrationFilterDTO
	if err := ctx.Bind(&filter); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	list, total, err := c.registrationService.GetAll(ctx.Request().Context(), actor, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "registrations loaded", http.StatusOK, total)
}

func (c *RegistrationController) Approve(ctx echo.Context) error {
	actor, err := actorFrom(ctx, c.roleService)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	result, err := c.registrationService.Approve(ctx.Request().Context(), actor, id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "registration approved", http.StatusOK)
}

func (c *RegistrationController) Reject(ctx echo.Context) error {
	actor, err := actorFrom(ctx, c.roleService)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.RejectRegistrationDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.registrationService.Reject(ctx.Request().Context(), actor, id, payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "registration rejected", http.StatusOK)
}
