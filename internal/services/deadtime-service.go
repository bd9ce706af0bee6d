package services

import (
	"context"
	"errors"
	"time"

	"production-system/internal/dto"
	"production-system/internal/entities"
	"production-system/internal/repositories"
	apperrors "production-system/pkg/errors"
	"production-system/pkg/eventbus"

	"go.uber.org/zap"
)

type DeadTimeServiceInterface interface {
	StartDeadTime(ctx context.Context, operatorID uint64, payload dto.StartDeadTimeDTO) (*dto.DeadTimeDTO, error)
	FinishDeadTime(ctx context.Context, operatorID uint64) (*dto.DeadTimeDTO, error)
	GetCodes(ctx context.Context) ([]dto.DeadTimeCodeDTO, error)
}

type DeadTimeService struct {
	deadTimeRepo repositories.DeadTimeRepositoryInterface
	workLogRepo  repositories.WorkLogRepositoryInterface
	phaseRepo    repositories.PhaseRepositoryInterface
	bus          *eventbus.Bus
	logger       *zap.Logger
	now          func() time.Time
}

func NewDeadTimeService(
	deadTimeRepo repositories.DeadTimeRepositoryInterface,
	workLogRepo repositories.WorkLogRepositoryInterface,
	phaseRepo repositories.PhaseRepositoryInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) *DeadTimeService {
	return &DeadTimeService{
		deadTimeRepo: deadTimeRepo,
		workLogRepo:  workLogRepo,
		phaseRepo:    phaseRepo,
		bus:          bus,
		logger:       logger,
		now:          time.Now,
	}
}

// StartDeadTime открывает простой. Код простоя диктует обязательность
// привязки: часть кодов требует изделие, часть — изделие или лист.
// Открытая рабочая стадия блокирует старт, решения "закрыть автоматически"
// здесь нет: оператор обязан сначала завершить работу.
func (s *DeadTimeService) StartDeadTime(ctx context.Context, operatorID uint64, payload dto.StartDeadTimeDTO) (*dto.DeadTimeDTO, error) {
	code, err := s.phaseRepo.FindDeadTimeCode(ctx, payload.Code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewValidationError("Неизвестный код простоя", err)
		}
		return nil, apperrors.NewTransientError("Не удалось загрузить код простоя", err)
	}

	switch code.Requirement {
	case entities.RequirementManualProduct:
		if !payload.ProductID.Valid {
			return nil, apperrors.NewValidationError("Для этого кода простоя обязательно изделие", nil)
		}
	case entities.RequirementProductOrSheet:
		if !payload.ProductID.Valid && !payload.SheetID.Valid {
			return nil, apperrors.NewValidationError("Для этого кода простоя укажите изделие или лист", nil)
		}
	}

	openWork, err := s.workLogRepo.FindOpenByOperator(ctx, operatorID)
	if err != nil {
		return nil, apperrors.NewTransientError("Не удалось проверить открытую стадию", err)
	}
	if openWork != nil {
		return nil, apperrors.NewConflictError("Сначала завершите рабочую стадию", recordPtr(openWork))
	}

	openDT, err := s.deadTimeRepo.FindOpenByOperator(ctx, operatorID)
	if err != nil {
		return nil, apperrors.NewTransientError("Не удалось проверить открытый простой", err)
	}
	if openDT != nil {
		return nil, apperrors.NewConflictError("Простой уже открыт", toDeadTimeDTO(openDT))
	}

	dt := &entities.DeadTime{
		OperatorID:  operatorID,
		CodeID:      code.ID,
		Code:        code.Code,
		CodeName:    code.Name,
		Description: payload.Description,
		StartTime:   s.now(),
	}
	if payload.ProductID.Valid {
		v := payload.ProductID.Uint64
		dt.ProductID = &v
	}
	if payload.SheetID.Valid {
		v := payload.SheetID.Uint64
		dt.SheetID = &v
	}

	id, err := s.deadTimeRepo.Insert(ctx, dt)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.NewConflictError("У оператора уже есть открытая запись", nil)
		}
		return nil, apperrors.NewTransientError("Не удалось начать простой", err)
	}
	dt.ID = id

	s.bus.Publish(ctx, SessionChangedEvent{OperatorID: operatorID, Action: "start_deadtime"})
	return deadTimePtr(dt), nil
}

func (s *DeadTimeService) FinishDeadTime(ctx context.Context, operatorID uint64) (*dto.DeadTimeDTO, error) {
	open, err := s.deadTimeRepo.FindOpenByOperator(ctx, operatorID)
	if err != nil {
		return nil, apperrors.NewTransientError("Не удалось проверить открытый простой", err)
	}
	if open == nil {
		return nil, apperrors.NewHttpError(404, "У оператора нет открытого простоя", apperrors.ErrNotFound, nil)
	}

	closed, err := s.deadTimeRepo.Close(ctx, open.ID, s.now())
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.NewConflictError("Простой уже закрыт", nil)
		}
		return nil, apperrors.NewTransientError("Не удалось закрыть простой", err)
	}

	s.bus.Publish(ctx, SessionChangedEvent{OperatorID: operatorID, Action: "finish_deadtime"})
	return deadTimePtr(closed), nil
}

func (s *DeadTimeService) GetCodes(ctx context.Context) ([]dto.DeadTimeCodeDTO, error) {
	codes, err := s.phaseRepo.GetDeadTimeCodes(ctx)
	if err != nil {
		return nil, apperrors.NewTransientError("Не удалось загрузить коды простоев", err)
	}
	out := make([]dto.DeadTimeCodeDTO, 0, len(codes))
	for _, c := range codes {
		out = append(out, dto.DeadTimeCodeDTO{
			ID:          c.ID,
			Code:        c.Code,
			Name:        c.Name,
			Requirement: string(c.Requirement),
		})
	}
	return out, nil
}
