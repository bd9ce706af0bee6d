package routes

import (
	"production-system/internal/controllers"
	"production-system/internal/repositories"
	"production-system/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runLiveStatusRouter(secureGroup *echo.Group, liveStatusService services.LiveStatusServiceInterface, cacheRepo repositories.CacheRepositoryInterface, logger *zap.Logger) {
	liveStatusCtrl := controllers.NewLiveStatusController(liveStatusService, cacheRepo, logger)
	{
		secureGroup.GET("/live-status", liveStatusCtrl.GetLiveStatus)
	}
}
