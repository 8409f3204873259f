package routes

import (
	"github.com/labstack/echo/v4"

	"gearguard/internal/controllers"
)

func runAuthRouter(public *echo.Group, secure *echo.Group, authCtrl *controllers.AuthController, registrationCtrl *controllers.RegistrationController) {
	public.POST("/auth/login", authCtrl.Login)
	public.POST("/auth/refresh", authCtrl.Refresh)
	public.POST("/auth/signup", registrationCtrl.Signup)

	secure.GET("/auth/me", authCtrl.Me)
}
