package controllers

import (
	"net/http"
	"strconv"

	"production-system/internal/services"
	apperrors "production-system/pkg/errors"
	"production-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type CatalogController struct {
	catalogService services.CatalogServiceInterface
	logger         *zap.Logger
}

func NewCatalogController(catalogService services.CatalogServiceInterface, logger *zap.Logger) *CatalogController {
	return &CatalogController{catalogService: catalogService, logger: logger}
}

func (c *CatalogController) GetCatalog(ctx echo.Context) error {
	catalog, err := c.catalogService.GetCatalog(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, catalog, "Справочник терминала", http.StatusOK)
}

func (c *CatalogController) GetProduct(ctx echo.Context) error {
	productID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}

	product, err := c.catalogService.GetProduct(ctx.Request().Context(), productID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, product, "Изделие", http.StatusOK)
}
