package routes

import (
	"production-system/internal/controllers"
	"production-system/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runSheetRouter(secureGroup *echo.Group, sheetService services.SheetServiceInterface, logger *zap.Logger) {
	sheetCtrl := controllers.NewSheetController(sheetService, logger)
	{
		secureGroup.GET("/sheets", sheetCtrl.List)
		secureGroup.GET("/sheets/scan", sheetCtrl.Scan)
		secureGroup.GET("/sheets/:id", sheetCtrl.GetByID)
		secureGroup.POST("/sheets", sheetCtrl.Create)
		secureGroup.PUT("/sheets/:id", sheetCtrl.Update)
	}
}
