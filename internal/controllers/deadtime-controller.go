package controllers

import (
	"net/http"

	"production-system/internal/dto"
	"production-system/internal/services"
	apperrors "production-system/pkg/errors"
	"production-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type DeadTimeController struct {
	deadTimeService services.DeadTimeServiceInterface
	logger          *zap.Logger
}

func NewDeadTimeController(deadTimeService services.DeadTimeServiceInterface, logger *zap.Logger) *DeadTimeController {
	return &DeadTimeController{deadTimeService: deadTimeService, logger: logger}
}

func (c *DeadTimeController) Start(ctx echo.Context) error {
	operatorID, err := utils.GetOperatorIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.StartDeadTimeDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	deadTime, err := c.deadTimeService.StartDeadTime(ctx.Request().Context(), operatorID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, deadTime, "Простой начат", http.StatusCreated)
}

func (c *DeadTimeController) Finish(ctx echo.Context) error {
	operatorID, err := utils.GetOperatorIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	deadTime, err := c.deadTimeService.FinishDeadTime(ctx.Request().Context(), operatorID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, deadTime, "Простой завершен", http.StatusOK)
}

func (c *DeadTimeController) GetCodes(ctx echo.Context) error {
	codes, err := c.deadTimeService.GetCodes(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, codes, "Коды простоев", http.StatusOK)
}
