package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"production-system/internal/repositories"
	"production-system/internal/services"
	"production-system/pkg/config"
	"production-system/pkg/eventbus"
	"production-system/pkg/middleware"
	"production-system/pkg/service"
	"production-system/pkg/websocket"
)

type Loggers struct {
	Main       *zap.Logger
	Auth       *zap.Logger
	Session    *zap.Logger
	LiveStatus *zap.Logger
}

// InitRouter собирает весь граф зависимостей и навешивает маршруты.
// Возвращает поллер табло: его жизненным циклом управляет main.
func InitRouter(
	e *echo.Echo,
	dbConn *pgxpool.Pool,
	redisClient *redis.Client,
	jwtSvc service.JWTService,
	hub *websocket.Hub,
	bus *eventbus.Bus,
	loggers *Loggers,
	cfg *config.Config,
) *services.LiveStatusPoller {
	loggers.Main.Info("InitRouter: начало создания маршрутов")

	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, loggers.Auth)

	// --- репозитории ---
	operatorRepo := repositories.NewOperatorRepository(dbConn)
	phaseRepo := repositories.NewPhaseRepository(dbConn)
	sheetRepo := repositories.NewSheetRepository(dbConn)
	workLogRepo := repositories.NewWorkLogRepository(dbConn)
	deadTimeRepo := repositories.NewDeadTimeRepository(dbConn)
	liveStatusRepo := repositories.NewLiveStatusRepository(dbConn, loggers.LiveStatus)
	reportRepo := repositories.NewReportRepository(dbConn)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	// --- сервисы ---
	authService := services.NewAuthService(operatorRepo, jwtSvc, loggers.Auth)
	catalogService := services.NewCatalogService(phaseRepo, cacheRepo, cfg.Catalog.CacheTTL, loggers.Main)
	sheetService := services.NewSheetService(sheetRepo, phaseRepo, loggers.Main)
	sessionService := services.NewSessionService(workLogRepo, deadTimeRepo, sheetRepo, bus, loggers.Session)
	deadTimeService := services.NewDeadTimeService(deadTimeRepo, workLogRepo, phaseRepo, bus, loggers.Session)
	liveStatusService := services.NewLiveStatusService(liveStatusRepo, operatorRepo, sheetRepo, loggers.LiveStatus)
	reportService := services.NewReportService(reportRepo, loggers.Main)

	poller := services.NewLiveStatusPoller(
		liveStatusService, hub, cacheRepo,
		cfg.LiveStatus.PollInterval, cfg.LiveStatus.CacheTTL,
		loggers.LiveStatus,
	)
	// табло обновляется сразу после действий операторов, не дожидаясь тика
	bus.Subscribe(services.EventSessionChanged, poller.Notify)

	// --- маршруты ---
	secureGroup := api.Group("", authMW.Auth)

	runAuthRouter(api, authService, jwtSvc, authMW, loggers.Auth)
	runSessionRouter(secureGroup, sessionService, loggers.Session)
	runDeadTimeRouter(secureGroup, deadTimeService, loggers.Session)
	runSheetRouter(secureGroup, sheetService, loggers.Main)
	runCatalogRouter(secureGroup, catalogService, loggers.Main)
	runLiveStatusRouter(secureGroup, liveStatusService, cacheRepo, loggers.LiveStatus)
	runReportRouter(secureGroup, reportService, loggers.Main)
	runWebSocketRouter(e, hub, jwtSvc, loggers.Main)

	loggers.Main.Info("InitRouter: создание маршрутов завершено")
	return poller
}
