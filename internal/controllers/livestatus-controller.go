package controllers

import (
	"encoding/json"
	"net/http"

	"production-system/internal/dto"
	"production-system/internal/repositories"
	"production-system/internal/services"
	"production-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const liveStatusCacheKey = "live_status:snapshot"

type LiveStatusController struct {
	liveStatusService services.LiveStatusServiceInterface
	cacheRepo         repositories.CacheRepositoryInterface
	logger            *zap.Logger
}

func NewLiveStatusController(
	liveStatusService services.LiveStatusServiceInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	logger *zap.Logger,
) *LiveStatusController {
	return &LiveStatusController{
		liveStatusService: liveStatusService,
		cacheRepo:         cacheRepo,
		logger:            logger,
	}
}

// GetLiveStatus отдает снимок цеха. Сначала пробуем снимок последнего тика
// опроса из кэша, при промахе собираем свежий.
func (c *LiveStatusController) GetLiveStatus(ctx echo.Context) error {
	if cached, err := c.cacheRepo.Get(ctx.Request().Context(), liveStatusCacheKey); err == nil && cached != "" {
		var status dto.LiveStatusDTO
		if err := json.Unmarshal([]byte(cached), &status); err == nil {
			return utils.SuccessResponse(ctx, &status, "Статус цеха", http.StatusOK)
		}
	}

	status, err := c.liveStatusService.GetLiveStatus(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, status, "Статус цеха", http.StatusOK)
}
