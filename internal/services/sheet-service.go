package services

import (
	"context"
	"errors"

	"production-system/internal/dto"
	"production-system/internal/repositories"
	apperrors "production-system/pkg/errors"
	"production-system/pkg/types"

	"go.uber.org/zap"
)

type SheetServiceInterface interface {
	GetSheetState(ctx context.Context, sheetID uint64) (*dto.SheetStateDTO, error)
	GetSheetByScan(ctx context.Context, orderNumber, sheetNumber string) (*dto.SheetStateDTO, error)
	CreateSheet(ctx context.Context, payload dto.CreateSheetDTO) (*dto.SheetStateDTO, error)
	UpdateSheet(ctx context.Context, sheetID uint64, payload dto.UpdateSheetDTO) (*dto.SheetStateDTO, error)
	ListSheets(ctx context.Context, filter types.Filter) ([]dto.SheetShortDTO, uint64, error)
}

type SheetService struct {
	sheetRepo repositories.SheetRepositoryInterface
	phaseRepo repositories.PhaseRepositoryInterface
	logger    *zap.Logger
}

func NewSheetService(
	sheetRepo repositories.SheetRepositoryInterface,
	phaseRepo repositories.PhaseRepositoryInterface,
	logger *zap.Logger,
) *SheetService {
	return &SheetService{sheetRepo: sheetRepo, phaseRepo: phaseRepo, logger: logger}
}

func (s *SheetService) GetSheetState(ctx context.Context, sheetID uint64) (*dto.SheetStateDTO, error) {
	state, err := s.sheetRepo.FindSheetState(ctx, sheetID)
	if err != nil {
		return nil, err
	}
	return toSheetStateDTO(state), nil
}

// GetSheetByScan — вход терминала: оператор сканирует штрихкод
// "заказ/лист" и получает лист с прогрессом по фазам.
func (s *SheetService) GetSheetByScan(ctx context.Context, orderNumber, sheetNumber string) (*dto.SheetStateDTO, error) {
	state, err := s.sheetRepo.FindSheetStateByNumber(ctx, orderNumber, sheetNumber)
	if err != nil {
		return nil, err
	}
	return toSheetStateDTO(state), nil
}

// CreateSheet заводит лист и замораживает в нем техпроцесс изделия на
// момент создания. Дальнейшие правки техпроцесса изделия на лист не влияют.
func (s *SheetService) CreateSheet(ctx context.Context, payload dto.CreateSheetDTO) (*dto.SheetStateDTO, error) {
	product, err := s.phaseRepo.FindProductWithPhases(ctx, payload.ProductID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewValidationError("Изделие не найдено", err)
		}
		return nil, apperrors.NewTransientError("Не удалось загрузить изделие", err)
	}
	if len(product.Phases) == 0 {
		return nil, apperrors.NewValidationError("У изделия нет техпроцесса", nil)
	}

	id, err := s.sheetRepo.CreateSheet(ctx, payload, product.Phases)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.NewConflictError("Лист с таким номером уже существует", nil)
		}
		return nil, apperrors.NewTransientError("Не удалось создать лист", err)
	}
	return s.GetSheetState(ctx, id)
}

// UpdateSheet заменяет количество и фазы листа целиком. Лист с хотя бы
// одним журналом работ заблокирован для правок.
func (s *SheetService) UpdateSheet(ctx context.Context, sheetID uint64, payload dto.UpdateSheetDTO) (*dto.SheetStateDTO, error) {
	positions := make(map[int]bool, len(payload.Phases))
	phaseIDs := make(map[uint64]bool, len(payload.Phases))
	for _, p := range payload.Phases {
		if positions[p.SequencePosition] {
			return nil, apperrors.NewValidationError("Позиции фаз должны быть уникальны", nil)
		}
		if phaseIDs[p.PhaseID] {
			return nil, apperrors.NewValidationError("Фазы в техпроцессе не должны повторяться", nil)
		}
		positions[p.SequencePosition] = true
		phaseIDs[p.PhaseID] = true
	}

	if err := s.sheetRepo.UpdateSheet(ctx, sheetID, payload); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.NewConflictError("По листу уже есть работы, правка запрещена", nil)
		}
		return nil, err
	}
	return s.GetSheetState(ctx, sheetID)
}

func (s *SheetService) ListSheets(ctx context.Context, filter types.Filter) ([]dto.SheetShortDTO, uint64, error) {
	sheets, total, err := s.sheetRepo.ListSheets(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.SheetShortDTO, 0, len(sheets))
	for _, sheet := range sheets {
		out = append(out, dto.SheetShortDTO{
			ID:          sheet.ID,
			OrderNumber: sheet.OrderNumber,
			SheetNumber: sheet.SheetNumber,
			ProductName: sheet.ProductName,
			Quantity:    sheet.Quantity,
			CreatedAt:   sheet.CreatedAt.Local().Format(timeLayout),
		})
	}
	return out, total, nil
}
