package routes

import (
	"production-system/internal/controllers"
	"production-system/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runSessionRouter(secureGroup *echo.Group, sessionService services.SessionServiceInterface, logger *zap.Logger) {
	sessionCtrl := controllers.NewSessionController(sessionService, logger)
	{
		secureGroup.GET("/session", sessionCtrl.GetCurrent)
		secureGroup.POST("/session/start", sessionCtrl.StartStage)
		secureGroup.POST("/session/finish", sessionCtrl.FinishStage)
	}
}
