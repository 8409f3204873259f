package routes

import (
	"github.com/labstack/echo/v4"

	"gearguard/internal/controllers"
)

func runRegistrationRouter(secure *echo.Group, ctrl *controllers.RegistrationController) {
	secure.GET("/registrations", ctrl.GetRegistrations)
	secure.POST("/registrations/:id/approve", ctrl.Approve)
	secure.POST("/registrations/:id/reject", ctrl.Reject)
}
