package routes

import (
	"github.com/labstack/echo/v4"

	"gearguard/internal/controllers"
)

func runReportRouter(secure *echo.Group, ctrl *controllers.ReportController) {
	secure.GET("/reports/technicians", ctrl.TechnicianSummaries)
	secure.GET("/reports/technicians/export", ctrl.ExportTechnicianSummaries)
	secure.GET("/reports/technicians/:id", ctrl.TechnicianReport)
	secure.GET("/reports/managers/hours", ctrl.ManagerHours)
}
