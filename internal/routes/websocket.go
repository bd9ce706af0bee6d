package routes

import (
	"production-system/internal/controllers"
	"production-system/pkg/service"
	"production-system/pkg/websocket"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runWebSocketRouter(e *echo.Echo, hub *websocket.Hub, jwtSvc service.JWTService, logger *zap.Logger) {
	wsCtrl := controllers.NewWebSocketController(hub, jwtSvc, logger)
	e.GET("/ws", wsCtrl.ServeWs)
}
