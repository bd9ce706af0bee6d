package routes

import (
	"production-system/internal/controllers"
	"production-system/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runDeadTimeRouter(secureGroup *echo.Group, deadTimeService services.DeadTimeServiceInterface, logger *zap.Logger) {
	deadTimeCtrl := controllers.NewDeadTimeController(deadTimeService, logger)
	{
		secureGroup.GET("/deadtime/codes", deadTimeCtrl.GetCodes)
		secureGroup.POST("/deadtime/start", deadTimeCtrl.Start)
		secureGroup.POST("/deadtime/finish", deadTimeCtrl.Finish)
	}
}
