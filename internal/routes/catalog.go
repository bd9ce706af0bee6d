package routes

import (
	"production-system/internal/controllers"
	"production-system/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runCatalogRouter(secureGroup *echo.Group, catalogService services.CatalogServiceInterface, logger *zap.Logger) {
	catalogCtrl := controllers.NewCatalogController(catalogService, logger)
	{
		secureGroup.GET("/catalog", catalogCtrl.GetCatalog)
		secureGroup.GET("/products/:id", catalogCtrl.GetProduct)
	}
}
