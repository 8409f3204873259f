package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"gearguard/internal/controllers"
	"gearguard/internal/repositories"
	"gearguard/internal/services"
	"gearguard/pkg/config"
	"gearguard/pkg/middleware"
	"gearguard/pkg/service"
)

// InitRouter wires repositories, services and controllers and mounts every
// route group. Login, token refresh and signup stay outside the auth
// middleware; everything else requires a valid access token.
func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, jwtSvc service.JWTService, logger *zap.Logger, cfg *config.Config) {
	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, logger)
	txManager := repositories.NewTxManager(dbConn)

	userRepo := repositories.NewUserRepository(dbConn, logger)
	teamRepo := repositories.NewTeamRepository(dbConn, logger)
	equipmentRepo := repositories.NewEquipmentRepository(dbConn, logger)
	requestRepo := repositories.NewRequestRepository(dbConn, logger)
	registrationRepo := repositories.NewRegistrationRepository(dbConn, logger)
	reportRepo := repositories.NewReportRepository(dbConn, logger)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	roleService := services.NewRoleService(userRepo, cacheRepo, cfg.Authz.RoleCacheTTL, logger)
	authService := services.NewAuthService(userRepo, roleService, jwtSvc, logger)
	registrationService := services.NewRegistrationService(registrationRepo, userRepo, roleService, txManager, logger)
	equipmentService := services.NewEquipmentService(equipmentRepo, teamRepo, logger)
	teamService := services.NewTeamService(teamRepo, userRepo, logger)
	requestService := services.NewRequestService(requestRepo, equipmentRepo, teamRepo, txManager, logger)
	calendarService := services.NewCalendarService(requestRepo, equipmentRepo, userRepo, logger)
	dashboardService := services.NewDashboardService(requestRepo, equipmentRepo, teamRepo, userRepo, logger)
	reportService := services.NewReportService(reportRepo, logger)

	authCtrl := controllers.NewAuthController(authService, logger)
	registrationCtrl := controllers.NewRegistrationController(registrationService, roleService, logger)
	equipmentCtrl := controllers.NewEquipmentController(equipmentService, roleService, logger)
	teamCtrl := controllers.NewTeamController(teamService, roleService, logger)
	requestCtrl := controllers.NewRequestController(requestService, roleService, logger)
	calendarCtrl := controllers.NewCalendarController(calendarService, roleService, logger)
	dashboardCtrl := controllers.NewDashboardController(dashboardService, roleService, logger)
	reportCtrl := controllers.NewReportController(reportService, roleService, logger)

	secureGroup := api.Group("", authMW.Auth)

	runAuthRouter(api, secureGroup, authCtrl, registrationCtrl)
	runRegistrationRouter(secureGroup, registrationCtrl)
	runEquipmentRouter(secureGroup, equipmentCtrl, calendarCtrl)
	runTeamRouter(secureGroup, teamCtrl)
	runRequestRouter(secureGroup, requestCtrl)
	runCalendarRouter(secureGroup, calendarCtrl)
	runDashboardRouter(secureGroup, dashboardCtrl)
	runReportRouter(secureGroup, reportCtrl)

	logger.Info("router initialized")
}
