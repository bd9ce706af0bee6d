package routes

import (
	"production-system/internal/controllers"
	"production-system/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runReportRouter(secureGroup *echo.Group, reportService services.ReportServiceInterface, logger *zap.Logger) {
	reportCtrl := controllers.NewReportController(reportService, logger)
	{
		secureGroup.GET("/reports/worklogs", reportCtrl.GetReport)
	}
}
