package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"production-system/internal/entities"
	"production-system/internal/services"
	"production-system/pkg/utils"
)

type ReportController struct {
	reportService services.ReportServiceInterface
	logger        *zap.Logger
}

func NewReportController(reportService services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, logger: logger}
}

func (c *ReportController) GetReport(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	filter, format := c.parseFilters(ctx)
	c.logger.Debug("Запрос на отчет с фильтрами", zap.Any("filters", filter), zap.String("format", format))

	data, total, err := c.reportService.GetWorkLogReport(reqCtx, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if format == "xlsx" {
		return c.respondWithXLSX(ctx, data)
	}

	return utils.SuccessResponse(ctx, data, "Отчет успешно сформирован", http.StatusOK, total)
}

func (c *ReportController) parseFilters(ctx echo.Context) (entities.ReportFilter, string) {
	stdFilter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	filter := entities.ReportFilter{
		Page:    stdFilter.Page,
		PerPage: stdFilter.Limit,
	}
	format := strings.ToLower(ctx.QueryParam("format"))

	if format == "xlsx" {
		filter.Page = 1
		filter.PerPage = 100000 // Выгружаем все для экспорта
	}

	if df := ctx.QueryParam("date_from"); df != "" {
		if t, err := time.Parse(time.RFC3339, df); err == nil {
			filter.DateFrom = &t
		}
	}
	if dt := ctx.QueryParam("date_to"); dt != "" {
		if t, err := time.Parse(time.RFC3339, dt); err == nil {
			filter.DateTo = &t
		}
	}

	parseIDs := func(name string) []uint64 {
		var strs []string
		if arr, ok := ctx.QueryParams()[name+"[]"]; ok {
			strs = arr
		} else if s := ctx.QueryParam(name); s != "" {
			strs = strings.Split(s, ",")
		}
		ids, _ := utils.ParseUint64Slice(strs)
		return ids
	}

	filter.OperatorIDs = parseIDs("operator_ids")
	filter.PhaseIDs = parseIDs("phase_ids")

	return filter, format
}

var reportHeaders = []string{
	"№", "Оператор", "Заказ", "Лист", "Изделие", "Фаза", "Стадия",
	"Начало", "Конец", "Сдано, шт", "Поиск материала", "Наладка", "Производство",
}

func rowToSlice(item entities.ReportItem) []interface{} {
	timeFmt := "02.01.2006 15:04"
	var endTime string
	if item.EndTime.Valid {
		endTime = item.EndTime.Time.Format(timeFmt)
	}

	return []interface{}{
		item.LogID, item.OperatorFio, item.OrderNumber, item.SheetNumber,
		item.ProductName.String, item.PhaseName, item.Stage,
		item.StartTime.Format(timeFmt), endTime, item.QuantityDone,
		utils.FormatSecondsToHumanReadable(item.FindMaterialTimeSec),
		utils.FormatSecondsToHumanReadable(item.SetupTimeSec),
		utils.FormatSecondsToHumanReadable(item.ProductionTimeSec),
	}
}

func (c *ReportController) respondWithXLSX(ctx echo.Context, data []entities.ReportItem) error {
	f := excelize.NewFile()
	sheet := "Журнал работ"
	f.SetSheetName("Sheet1", sheet)
	f.SetSheetRow(sheet, "A1", &reportHeaders)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "M1", style)

	for i, item := range data {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := rowToSlice(item)
		f.SetSheetRow(sheet, cell, &row)
	}
	f.SetColWidth(sheet, "B", "B", 25)
	f.SetColWidth(sheet, "C", "F", 18)
	f.SetColWidth(sheet, "H", "I", 20)
	f.SetColWidth(sheet, "K", "M", 16)

	fileName := fmt.Sprintf("worklog_report_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
