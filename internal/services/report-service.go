package services

import (
	"context"

	"production-system/internal/entities"
	"production-system/internal/repositories"
	apperrors "production-system/pkg/errors"

	"go.uber.org/zap"
)

type ReportServiceInterface interface {
	GetWorkLogReport(ctx context.Context, filter entities.ReportFilter) ([]entities.ReportItem, uint64, error)
}

type ReportService struct {
	reportRepo repositories.ReportRepositoryInterface
	logger     *zap.Logger
}

func NewReportService(reportRepo repositories.ReportRepositoryInterface, logger *zap.Logger) *ReportService {
	return &ReportService{reportRepo: reportRepo, logger: logger}
}

func (s *ReportService) GetWorkLogReport(ctx context.Context, filter entities.ReportFilter) ([]entities.ReportItem, uint64, error) {
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateTo.Before(*filter.DateFrom) {
		return nil, 0, apperrors.NewValidationError("Дата конца периода раньше даты начала", nil)
	}
	items, total, err := s.reportRepo.GetWorkLogReport(ctx, filter)
	if err != nil {
		s.logger.Error("Не удалось собрать отчет по журналам работ", zap.Error(err))
		return nil, 0, err
	}
	return items, total, nil
}
