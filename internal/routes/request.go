package routes

import (
	"github.com/labstack/echo/v4"

	"gearguard/internal/controllers"
)

func runRequestRouter(secure *echo.Group, ctrl *controllers.RequestController) {
	secure.GET("/requests", ctrl.GetRequests)
	secure.GET("/requests/kanban", ctrl.Kanban)
	secure.GET("/requests/:id", ctrl.FindRequest)
	secure.POST("/requests/corrective", ctrl.CreateCorrectiveRequest)
	secure.POST("/requests/preventive", ctrl.CreatePreventiveRequest)
	secure.PUT("/requests/:id", ctrl.UpdateRequest)

	secure.POST("/requests/:id/transition", ctrl.Transition)
	secure.POST("/requests/:id/start", ctrl.StartTask)
	secure.POST("/requests/:id/end", ctrl.EndTask)
}
