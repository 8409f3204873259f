package routes

import (
	"github.com/labstack/echo/v4"

	"gearguard/internal/controllers"
)

func runCalendarRouter(secure *echo.Group, ctrl *controllers.CalendarController) {
	secure.GET("/calendar", ctrl.MonthCalendar)
}
