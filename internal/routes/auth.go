package routes

import (
	"production-system/internal/controllers"
	"production-system/internal/services"
	"production-system/pkg/middleware"
	"production-system/pkg/service"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runAuthRouter(api *echo.Group, authService services.AuthServiceInterface, jwtSvc service.JWTService, authMW *middleware.AuthMiddleware, logger *zap.Logger) {
	authCtrl := controllers.NewAuthController(authService, logger)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", authCtrl.Login)
		authGroup.POST("/refresh_token", authCtrl.Refresh)
		authGroup.GET("/me", authCtrl.Me, authMW.Auth)
	}
}
