package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"gearguard/internal/services"
	"gearguard/pkg/utils"
)

type ReportController struct {
	reportService services.ReportServiceInterface
	roleService   services.RoleServiceInterface
	logger        *zap.Logger
}

func NewReportController(
	reportService services.ReportServiceInterface,
	roleService services.RoleServiceInterface,
	logger *zap.Logger,
) *ReportController {
	return &ReportController{reportService: reportService, roleService: roleService, logger: logger}
}

func (c *ReportController) TechnicianReport(ctx echo.Context) error {
	actor, err := actorFrom(ctx, c.roleService)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	technicianID, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	report, err := c.reportService.TechnicianReport(ctx.Request().Context(), actor, technicianID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, report, "technician report built", http.StatusOK)
}

func (c *ReportController) TechnicianSummaries(ctx echo.Context) error {
	actor, err := actorFrom(ctx, c.roleService)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	summaries, err := c.reportService.TechnicianSummaries(ctx.Request().Context(), actor)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, summaries, "technician summaries built", http.StatusOK)
}

func (c *ReportController) ManagerHours(ctx echo.Context) error {
	actor, err := actorFrom(ctx, c.roleService)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	report, err := c.reportService.ManagerHours(ctx.Request().Context(), actor)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, report, "manager hours report built", http.StatusOK)
}

// ExportTechnicianSummaries streams the summaries as an xlsx attachment.
func (c *ReportController) ExportTechnicianSummaries(ctx echo.Context) error {
	actor, err := actorFrom(ctx, c.roleService)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	data, err := c.reportService.ExportTechnicianSummaries(ctx.Request().Context(), actor)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="technician_hours.xlsx"`)
	return ctx.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
