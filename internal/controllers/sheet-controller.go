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

type SheetController struct {
	sheetService services.SheetServiceInterface
	logger       *zap.Logger
}

func NewSheetController(sheetService services.SheetServiceInterface, logger *zap.Logger) *SheetController {
	return &SheetController{sheetService: sheetService, logger: logger}
}

func (c *SheetController) List(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	sheets, total, err := c.sheetService.ListSheets(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, sheets, "Список листов", http.StatusOK, total)
}

func (c *SheetController) GetByID(ctx echo.Context) error {
	sheetID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}

	sheet, err := c.sheetService.GetSheetState(ctx.Request().Context(), sheetID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, sheet, "Лист", http.StatusOK)
}

// Scan — вход терминала по штрихкоду: ?order=З-100&sheet=Л-1.
func (c *SheetController) Scan(ctx echo.Context) error {
	orderNumber := ctx.QueryParam("order")
	sheetNumber := ctx.QueryParam("sheet")
	if orderNumber == "" || sheetNumber == "" {
		return utils.ErrorResponse(ctx, apperrors.NewValidationError("Укажите номер заказа и номер листа", nil), c.logger)
	}

	sheet, err := c.sheetService.GetSheetByScan(ctx.Request().Context(), orderNumber, sheetNumber)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, sheet, "Лист", http.StatusOK)
}

func (c *SheetController) Create(ctx echo.Context) error {
	var payload dto.CreateSheetDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	sheet, err := c.sheetService.CreateSheet(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, sheet, "Лист создан", http.StatusCreated)
}

func (c *SheetController) Update(ctx echo.Context) error {
	sheetID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}

	var payload dto.UpdateSheetDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	sheet, err := c.sheetService.UpdateSheet(ctx.Request().Context(), sheetID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, sheet, "Лист обновлен", http.StatusOK)
}
