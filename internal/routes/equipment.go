package routes

import (
	"github.com/labstack/echo/v4"

	"gearguard/internal/controllers"
)

func runEquipmentRouter(secure *echo.Group, ctrl *controllers.EquipmentController, calendarCtrl *controllers.CalendarController) {
	secure.GET("/equipment", ctrl.GetEquipments)
	secure.GET("/equipment/:id", ctrl.FindEquipment)
	secure.POST("/equipment", ctrl.CreateEquipment)
	secure.PUT("/equipment/:id", ctrl.UpdateEquipment)
	secure.DELETE("/equipment/:id", ctrl.DeleteEquipment)

	secure.GET("/equipment/:id/next-maintenance", calendarCtrl.NextMaintenanceDate)
}
