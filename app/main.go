package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	"production-system/internal/routes"
	"production-system/migrations"
	"production-system/pkg/config"
	"production-system/pkg/database/postgresql"
	apperrors "production-system/pkg/errors"
	"production-system/pkg/eventbus"
	applogger "production-system/pkg/logger"
	"production-system/pkg/service"
	"production-system/pkg/utils"
	"production-system/pkg/validation"
	"production-system/pkg/websocket"

	"github.com/go-redis/redis/v8"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or could not be loaded.")
	}

	e := echo.New()
	logger := applogger.NewLogger()
	cfg := config.New()

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("!!! ОБНАРУЖЕНА ПАНИКА (PANIC) !!!",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "Внутренняя ошибка сервера", err, nil)
				utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		ExposeHeaders:    []string{"Content-Disposition"},
	}))

	e.Validator = validation.New()

	runMigrations(cfg.Postgres.DSN, logger)

	dbConn := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer dbConn.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logger.Fatal("не удалось подключиться к Redis", zap.Error(err), zap.String("address", cfg.Redis.Address))
	}

	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL)
	bus := eventbus.New(logger.Named("eventbus"))

	hub := websocket.NewHub()
	go hub.Run()

	loggers := &routes.Loggers{
		Main:       logger,
		Auth:       logger.Named("auth"),
		Session:    logger.Named("session"),
		LiveStatus: logger.Named("livestatus"),
	}

	poller := routes.InitRouter(e, dbConn, redisClient, jwtSvc, hub, bus, loggers, cfg)

	pollerCtx, stopPoller := context.WithCancel(context.Background())
	defer stopPoller()
	go poller.Run(pollerCtx)

	logger.Info("🚀 Сервер запущен", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Ошибка запуска сервера", zap.Error(err))
	}
}

// runMigrations применяет встроенные goose-миграции через database/sql
// поверх драйвера pgx. Основной код работает с pgxpool напрямую.
func runMigrations(dsn string, logger *zap.Logger) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		logger.Fatal("не удалось открыть соединение для миграций", zap.Error(err))
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		logger.Fatal("не удалось выбрать диалект миграций", zap.Error(err))
	}
	if err := goose.Up(db, "."); err != nil {
		logger.Fatal("не удалось применить миграции", zap.Error(err))
	}
	logger.Info("Миграции применены")
}
