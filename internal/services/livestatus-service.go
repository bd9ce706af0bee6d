package services

import (
	"context"
	"sync"
	"time"

	"production-system/internal/dto"
	"production-system/internal/entities"
	"production-system/internal/repositories"
	apperrors "production-system/pkg/errors"
	"production-system/pkg/types"

	"go.uber.org/zap"
)

type LiveStatusServiceInterface interface {
	GetLiveStatus(ctx context.Context) (*dto.LiveStatusDTO, error)
}

// LiveStatusService собирает мгновенный снимок цеха: кто работает,
// кто в простое, кто свободен. Снимок считается заново на каждый запрос.
type LiveStatusService struct {
	statusRepo   repositories.LiveStatusRepositoryInterface
	operatorRepo repositories.OperatorRepositoryInterface
	sheetRepo    repositories.SheetRepositoryInterface
	logger       *zap.Logger
	now          func() time.Time
}

func NewLiveStatusService(
	statusRepo repositories.LiveStatusRepositoryInterface,
	operatorRepo repositories.OperatorRepositoryInterface,
	sheetRepo repositories.SheetRepositoryInterface,
	logger *zap.Logger,
) *LiveStatusService {
	return &LiveStatusService{
		statusRepo:   statusRepo,
		operatorRepo: operatorRepo,
		sheetRepo:    sheetRepo,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *LiveStatusService) GetLiveStatus(ctx context.Context) (*dto.LiveStatusDTO, error) {
	var (
		workRows  []types.OpenWorkRow
		deadRows  []types.OpenDeadTimeRow
		lastByOp  map[uint64]types.LastActivityRow
		operators []entities.Operator

		wg      sync.WaitGroup
		mu      sync.Mutex
		loadErr error
	)

	addTask := func(task func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := task(); err != nil {
				mu.Lock()
				if loadErr == nil {
					loadErr = err
				}
				mu.Unlock()
			}
		}()
	}

	addTask(func() error {
		rows, err := s.statusRepo.GetOpenWorkRows(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		workRows = rows
		mu.Unlock()
		return nil
	})
	addTask(func() error {
		rows, err := s.statusRepo.GetOpenDeadTimeRows(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		deadRows = rows
		mu.Unlock()
		return nil
	})
	addTask(func() error {
		last, err := s.statusRepo.GetLastClosedByOperator(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		lastByOp = last
		mu.Unlock()
		return nil
	})
	addTask(func() error {
		ops, err := s.operatorRepo.GetOperators(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		operators = ops
		mu.Unlock()
		return nil
	})
	wg.Wait()

	if loadErr != nil {
		s.logger.Error("Не удалось собрать статус цеха", zap.Error(loadErr))
		return nil, apperrors.NewInternalError("Ошибка загрузки статуса цеха")
	}

	now := s.now()
	states := s.loadSheetStates(ctx, workRows)

	deadByOp := make(map[uint64]bool, len(deadRows))
	for _, row := range deadRows {
		deadByOp[row.OperatorID] = true
	}

	out := &dto.LiveStatusDTO{
		Active:      make([]dto.ActiveEntryDTO, 0, len(workRows)),
		DeadTime:    make([]dto.DeadTimeEntryDTO, 0, len(deadRows)),
		Idle:        make([]dto.IdleEntryDTO, 0),
		GeneratedAt: now.Local().Format(timeLayout),
	}

	workByOp := make(map[uint64]bool, len(workRows))
	for _, row := range workRows {
		// Открытая работа и открытый простой одновременно нарушают
		// инвариант единственной открытой записи. Победителем считаем
		// простой, работу из снимка убираем и громко пишем в лог.
		if deadByOp[row.OperatorID] {
			s.logger.Error("У оператора одновременно открыты работа и простой",
				zap.Uint64("operator_id", row.OperatorID),
				zap.Uint64("work_log_id", row.LogID),
			)
			continue
		}
		workByOp[row.OperatorID] = true

		running := int64(now.Sub(row.StartTime).Seconds())
		if running < 0 {
			running = 0
		}
		planned := s.plannedSeconds(row, states[row.SheetID])

		out.Active = append(out.Active, dto.ActiveEntryDTO{
			OperatorID:     row.OperatorID,
			OperatorFio:    row.OperatorFio,
			SheetID:        row.SheetID,
			OrderNumber:    row.OrderNumber,
			SheetNumber:    row.SheetNumber,
			PhaseID:        row.PhaseID,
			PhaseName:      row.PhaseName,
			Stage:          row.Stage,
			StartTime:      row.StartTime.Local().Format(timeLayout),
			RunningSeconds: running,
			PlannedSeconds: planned,
			IsOverrun:      planned > 0 && running > planned,
		})
	}

	for _, row := range deadRows {
		running := int64(now.Sub(row.StartTime).Seconds())
		if running < 0 {
			running = 0
		}
		out.DeadTime = append(out.DeadTime, dto.DeadTimeEntryDTO{
			OperatorID:     row.OperatorID,
			OperatorFio:    row.OperatorFio,
			Code:           row.Code,
			CodeName:       row.CodeName,
			Description:    row.Description,
			StartTime:      row.StartTime.Local().Format(timeLayout),
			RunningSeconds: running,
		})
	}

	for _, op := range operators {
		if workByOp[op.ID] || deadByOp[op.ID] {
			continue
		}
		entry := dto.IdleEntryDTO{
			OperatorID:  op.ID,
			OperatorFio: op.Fio,
			LastKind:    "none",
		}
		if last, ok := lastByOp[op.ID]; ok {
			entry.LastKind = last.Kind
			entry.LastLabel = last.Label
			if last.EndTime.Valid {
				entry.LastEndTime = last.EndTime.Time.Local().Format(timeLayout)
				idle := int64(now.Sub(last.EndTime.Time).Seconds())
				if idle > 0 {
					entry.IdleSeconds = idle
				}
			}
		}
		out.Idle = append(out.Idle, entry)
	}

	return out, nil
}

// loadSheetStates тянет состояния всех листов с открытой работой, по одному
// запросу на лист параллельно. Ошибка по отдельному листу не валит снимок:
// для его записей плановое время остается оценкой по total_quantity.
func (s *LiveStatusService) loadSheetStates(ctx context.Context, rows []types.OpenWorkRow) map[uint64]*entities.SheetState {
	ids := make(map[uint64]bool, len(rows))
	for _, row := range rows {
		ids[row.SheetID] = true
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	states := make(map[uint64]*entities.SheetState, len(ids))
	for id := range ids {
		wg.Add(1)
		go func(sheetID uint64) {
			defer wg.Done()
			state, err := s.sheetRepo.FindSheetState(ctx, sheetID)
			if err != nil {
				s.logger.Warn("Не удалось загрузить лист для планового времени",
					zap.Uint64("sheet_id", sheetID), zap.Error(err))
				return
			}
			mu.Lock()
			states[sheetID] = state
			mu.Unlock()
		}(id)
	}
	wg.Wait()
	return states
}

// plannedSeconds — нормативное время открытой стадии. Для производства это
// штучное время на remaining фазы, для поиска и наладки — норматив наладки
// плюс штучное время на remaining.
func (s *LiveStatusService) plannedSeconds(row types.OpenWorkRow, state *entities.SheetState) int64 {
	remaining := row.TotalQuantity
	if state != nil {
		remaining = state.Remaining(row.PhaseID)
	}
	if remaining < 0 {
		remaining = 0
	}

	perPiece := row.ProductionTimePerPieceSec * int64(remaining)
	if row.Stage == string(entities.StageProduction) {
		return perPiece
	}
	return row.SetupTimeSec + perPiece
}
