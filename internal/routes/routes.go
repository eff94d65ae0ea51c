package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"inventory-system/internal/controllers"
	"inventory-system/internal/repositories"
	"inventory-system/internal/services"
	"inventory-system/pkg/config"
	"inventory-system/pkg/middleware"
	"inventory-system/pkg/service"
)

// InitRouter собирает весь граф зависимостей и регистрирует маршруты.
// Защищённые маршруты проходят две прослойки: Auth (JWT) и Resolve
// (X-Tenant-Key -> TenantScope в контексте запроса).
func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, jwtSvc service.JWTService, logger *zap.Logger, cfg *config.Config) {
	logger.Info("InitRouter: начало создания маршрутов")

	api := e.Group("/api")
	txManager := repositories.NewTxManager(dbConn)

	// --- 1. РЕПОЗИТОРИИ ---
	universityRepo := repositories.NewUniversityRepository(dbConn)
	userRepo := repositories.NewUserRepository(dbConn)
	locationRepo := repositories.NewLocationRepository(dbConn)
	typeRepo := repositories.NewEquipmentTypeRepository(dbConn)
	specRepo := repositories.NewSpecificationRepository(dbConn)
	equipmentRepo := repositories.NewEquipmentRepository(dbConn)
	historyRepo := repositories.NewHistoryRepository(dbConn)
	statsRepo := repositories.NewStatisticsRepository(dbConn, logger)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	// --- 2. СЕРВИСЫ ---
	authService := services.NewAuthService(userRepo, jwtSvc, logger)
	typeService := services.NewEquipmentTypeService(typeRepo, logger)
	specService := services.NewSpecificationService(specRepo, typeRepo, logger)
	equipmentService := services.NewEquipmentService(equipmentRepo, typeRepo, specRepo, locationRepo, txManager, logger)
	lifecycleService := services.NewLifecycleService(equipmentRepo, historyRepo, locationRepo, txManager, logger)
	bulkService := services.NewBulkService(equipmentService, equipmentRepo, txManager, logger)
	historyService := services.NewHistoryService(historyRepo, logger)
	statsService := services.NewStatisticsService(statsRepo, cacheRepo, cfg.Cache, logger)
	importService := services.NewEquipmentImportService(equipmentService, typeService, logger)

	// --- 3. КОНТРОЛЛЕРЫ ---
	authCtrl := controllers.NewAuthController(authService, logger)
	typeCtrl := controllers.NewEquipmentTypeController(typeService, logger)
	specCtrl := controllers.NewSpecificationController(specService, logger)
	equipmentCtrl := controllers.NewEquipmentController(equipmentService, bulkService, importService, logger)
	lifecycleCtrl := controllers.NewLifecycleController(lifecycleService, logger)
	historyCtrl := controllers.NewHistoryController(historyService, logger)
	statsCtrl := controllers.NewStatisticsController(statsService, logger)

	// --- 4. MIDDLEWARE И ГРУППЫ ---
	authMW := middleware.NewAuthMiddleware(jwtSvc, logger)
	tenantMW := middleware.NewTenantMiddleware(universityRepo, logger)
	secureGroup := api.Group("", authMW.Auth, tenantMW.Resolve)

	// --- 5. РОУТЕРЫ ---
	runAuthRouter(api, authCtrl)
	runEquipmentTypeRouter(secureGroup, typeCtrl, specCtrl)
	runSpecificationRouter(secureGroup, specCtrl)
	runEquipmentRouter(secureGroup, equipmentCtrl, lifecycleCtrl, historyCtrl)
	runStatisticsRouter(secureGroup, statsCtrl)

	logger.Info("InitRouter: маршруты зарегистрированы")
}
