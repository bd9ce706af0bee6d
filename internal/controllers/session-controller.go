package controllers

import (
	"net/http"
	"strconv"

	"production-system/internal/dto"
	"production-system/internal/services"
	apperrors "production-system/pkg/errors"
	"production-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type SessionController struct {
	sessionService services.SessionServiceInterface
	logger         *zap.Logger
}

func NewSessionController(sessionService services.SessionServiceInterface, logger *zap.Logger) *SessionController {
	return &SessionController{sessionService: sessionService, logger: logger}
}

// StartStage начинает стадию. Ответ 409 с body.record означает, что у
// оператора уже есть открытая стадия: запрос нужно повторить с resolution.
func (c *SessionController) StartStage(ctx echo.Context) error {
	operatorID, err := utils.GetOperatorIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.StartStageDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	snapshot, err := c.sessionService.StartStage(ctx.Request().Context(), operatorID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, snapshot, "Стадия начата", http.StatusCreated)
}

func (c *SessionController) FinishStage(ctx echo.Context) error {
	operatorID, err := utils.GetOperatorIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.FinishStageDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	snapshot, err := c.sessionService.FinishStage(ctx.Request().Context(), operatorID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, snapshot, "Стадия завершена", http.StatusOK)
}

// GetCurrent восстанавливает сессию после перезагрузки терминала.
// Необязательный ?sheet_id= сверяет открытую запись с отсканированным листом.
func (c *SessionController) GetCurrent(ctx echo.Context) error {
	operatorID, err := utils.GetOperatorIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var scannedSheetID uint64
	if raw := ctx.QueryParam("sheet_id"); raw != "" {
		scannedSheetID, err = strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return utils.ErrorResponse(ctx, apperrors.NewValidationError("Неверный sheet_id", err), c.logger)
		}
	}

	snapshot, err := c.sessionService.Rehydrate(ctx.Request().Context(), operatorID, scannedSheetID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, snapshot, "Текущая сессия", http.StatusOK)
}
