package routes

import (
	"github.com/labstack/echo/v4"

	"gearguard/internal/controllers"
)

func runDashboardRouter(secure *echo.Group, ctrl *controllers.DashboardController) {
	secure.GET("/dashboard", ctrl.Dashboard)
}
