package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"production-system/internal/dto"
	"production-system/internal/entities"
	"production-system/internal/repositories"
	apperrors "production-system/pkg/errors"
	"production-system/pkg/eventbus"

	"go.uber.org/zap"
)

type SessionServiceInterface interface {
	StartStage(ctx context.Context, operatorID uint64, payload dto.StartStageDTO) (*dto.SessionSnapshotDTO, error)
	FinishStage(ctx context.Context, operatorID uint64, payload dto.FinishStageDTO) (*dto.SessionSnapshotDTO, error)
	Rehydrate(ctx context.Context, operatorID uint64, scannedSheetID uint64) (*dto.SessionSnapshotDTO, error)
}

// SessionService — машина состояний рабочей сессии оператора.
// Истина всегда в БД: сервис не держит состояния между вызовами,
// каждый вызов начинается с чтения открытой записи из хранилища.
type SessionService struct {
	workLogRepo  repositories.WorkLogRepositoryInterface
	deadTimeRepo repositories.DeadTimeRepositoryInterface
	sheetRepo    repositories.SheetRepositoryInterface
	bus          *eventbus.Bus
	logger       *zap.Logger
	now          func() time.Time
}

func NewSessionService(
	workLogRepo repositories.WorkLogRepositoryInterface,
	deadTimeRepo repositories.DeadTimeRepositoryInterface,
	sheetRepo repositories.SheetRepositoryInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) *SessionService {
	return &SessionService{
		workLogRepo:  workLogRepo,
		deadTimeRepo: deadTimeRepo,
		sheetRepo:    sheetRepo,
		bus:          bus,
		logger:       logger,
		now:          time.Now,
	}
}

// StartStage начинает новую стадию. Если у оператора уже есть открытая
// стадия и решение по ней не передано, возвращается ConflictError с
// деталями открытой записи: фронт обязан показать диалог принудительного
// завершения и повторить запрос с resolution.
func (s *SessionService) StartStage(ctx context.Context, operatorID uint64, payload dto.StartStageDTO) (*dto.SessionSnapshotDTO, error) {
	openDT, err := s.deadTimeRepo.FindOpenByOperator(ctx, operatorID)
	if err != nil {
		return nil, apperrors.NewTransientError("Не удалось проверить открытый простой", err)
	}
	if openDT != nil {
		return nil, apperrors.NewConflictError("Сначала закройте открытый простой", toDeadTimeDTO(openDT))
	}

	open, err := s.workLogRepo.FindOpenByOperator(ctx, operatorID)
	if err != nil {
		return nil, apperrors.NewTransientError("Не удалось проверить открытую стадию", err)
	}

	var resolved *entities.WorkLog
	if open != nil {
		proceed, closed, err := s.resolveOpenSession(ctx, open, payload.Resolution)
		if err != nil {
			return nil, err
		}
		if !proceed {
			// partial и abort закрывают диалог, но новую стадию не начинают.
			// Закрытая запись возвращается, чтобы терминал показал
			// зафиксированное количество без повторного запроса.
			s.publishChange(ctx, operatorID, "resolve")
			snapshot := &dto.SessionSnapshotDTO{State: dto.SessionStateIdle}
			if closed != nil {
				snapshot.LastClosed = recordPtr(closed)
			}
			return snapshot, nil
		}
		resolved = closed
	}

	snapshot, err := s.startNew(ctx, operatorID, payload, false)
	if err != nil {
		return nil, err
	}
	if resolved != nil {
		snapshot.LastClosed = recordPtr(resolved)
	}
	s.publishChange(ctx, operatorID, "start_"+payload.Stage)
	return snapshot, nil
}

// resolveOpenSession обрабатывает решение оператора по найденной открытой
// стадии. Возвращает true, когда можно продолжать старт новой стадии,
// и закрытую запись, если решение ее закрыло.
func (s *SessionService) resolveOpenSession(ctx context.Context, open *entities.WorkLog, res *dto.ResolutionDTO) (bool, *entities.WorkLog, error) {
	if res == nil {
		details, err := s.openSessionDetails(ctx, open)
		if err != nil {
			return false, nil, err
		}
		return false, nil, apperrors.NewConflictError("У оператора уже есть открытая стадия", details)
	}

	switch res.Action {
	case dto.ResolutionAbort:
		return false, nil, nil
	case dto.ResolutionFull:
		closed, err := s.closeOpen(ctx, open, true, 0)
		if err != nil {
			return false, nil, err
		}
		return true, closed, nil
	case dto.ResolutionPartial:
		if open.Stage != entities.StageProduction {
			return false, nil, apperrors.NewValidationError("Частичное завершение доступно только для производства", nil)
		}
		if !res.QuantityDone.Valid {
			return false, nil, apperrors.NewValidationError("Для частичного завершения укажите количество", nil)
		}
		closed, err := s.closeOpen(ctx, open, false, int(res.QuantityDone.Int))
		if err != nil {
			return false, nil, err
		}
		return false, closed, nil
	}
	return false, nil, apperrors.NewValidationError("Неизвестное действие по открытой стадии", nil)
}

func (s *SessionService) openSessionDetails(ctx context.Context, open *entities.WorkLog) (*dto.OpenSessionDetailsDTO, error) {
	state, err := s.sheetRepo.FindSheetState(ctx, open.SheetID)
	if err != nil {
		return nil, apperrors.NewTransientError("Не удалось загрузить лист открытой стадии", err)
	}
	details := &dto.OpenSessionDetailsDTO{
		Record:      toWorkLogDTO(open),
		OrderNumber: state.Sheet.OrderNumber,
		SheetNumber: state.Sheet.SheetNumber,
		Remaining:   state.Remaining(open.PhaseID),
	}
	if def, ok := state.PhaseByID(open.PhaseID); ok {
		details.PhaseName = def.PhaseName
	}
	return details, nil
}

// closeOpen закрывает открытую запись, раскладывая прошедшее время в
// секундный счетчик ее стадии. Для производства количество проверяется
// по свежему remaining из БД.
func (s *SessionService) closeOpen(ctx context.Context, open *entities.WorkLog, full bool, quantity int) (*entities.WorkLog, error) {
	now := s.now()
	elapsed := int64(now.Sub(open.StartTime).Seconds())
	if elapsed < 0 {
		elapsed = 0
	}

	var findSec, setupSec, prodSec int64
	switch open.Stage {
	case entities.StageFind:
		findSec = elapsed
	case entities.StageSetup:
		setupSec = elapsed
	case entities.StageProduction:
		prodSec = elapsed
		state, err := s.sheetRepo.FindSheetState(ctx, open.SheetID)
		if err != nil {
			return nil, apperrors.NewTransientError("Не удалось загрузить лист для закрытия стадии", err)
		}
		remaining := state.Remaining(open.PhaseID)
		if remaining <= 0 {
			return nil, apperrors.NewConflictError("По фазе не осталось количества к сдаче", nil)
		}
		if full {
			quantity = remaining
		} else if quantity <= 0 || quantity > remaining {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("Недопустимое количество: должно быть от 1 до %d", remaining), nil)
		}
	default:
		return nil, apperrors.NewInternalError("Открытая запись с неизвестной стадией")
	}

	closed, err := s.workLogRepo.Close(ctx, open.ID, now, quantity, findSec, setupSec, prodSec)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.NewConflictError("Стадия уже закрыта", nil)
		}
		return nil, apperrors.NewTransientError("Не удалось закрыть стадию", err)
	}
	return closed, nil
}

// startNew открывает запись новой стадии. Любая ошибка оставляет состояние
// оператора неизменным: клиент не входит в новое состояние без записи в БД.
// chained == true, когда производство открывается цепочкой из только что
// закрытой наладки и проверка подготовительных стадий не нужна.
func (s *SessionService) startNew(ctx context.Context, operatorID uint64, payload dto.StartStageDTO, chained bool) (*dto.SessionSnapshotDTO, error) {
	stage := entities.Stage(payload.Stage)
	if !stage.Valid() {
		return nil, apperrors.NewValidationError("Неизвестная стадия", nil)
	}

	state, err := s.sheetRepo.FindSheetState(ctx, payload.SheetID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewHttpError(404, "Лист не найден", err, nil)
		}
		return nil, apperrors.NewTransientError("Не удалось загрузить лист", err)
	}

	def, ok := state.PhaseByID(payload.PhaseID)
	if !ok {
		return nil, apperrors.NewValidationError("Фаза не входит в техпроцесс листа", nil)
	}

	remaining := state.Remaining(payload.PhaseID)
	if remaining <= 0 {
		return nil, apperrors.NewConflictError("По фазе нет доступного количества", map[string]interface{}{
			"phase_id":  payload.PhaseID,
			"remaining": 0,
		})
	}

	log := &entities.WorkLog{
		OperatorID: operatorID,
		SheetID:    payload.SheetID,
		PhaseID:    payload.PhaseID,
		Stage:      stage,
		StartTime:  s.now(),
	}

	switch stage {
	case entities.StageFind:
		if !def.RequiresFind {
			return nil, apperrors.NewValidationError("Фаза не требует поиска материала", nil)
		}
	case entities.StageSetup:
		if def.SetupTimeSec == 0 {
			return nil, apperrors.NewValidationError("Фаза не предусматривает наладку", nil)
		}
	case entities.StageProduction:
		findSec, setupSec, err := s.workLogRepo.SumPendingStageSeconds(ctx, operatorID, payload.SheetID, payload.PhaseID)
		if err != nil {
			return nil, apperrors.NewTransientError("Не удалось собрать время подготовительных стадий", err)
		}
		// Прямой вход в производство возможен только когда фаза не требует
		// подготовки либо подготовка уже отработана (закрытые find/setup
		// после последнего производства). Иначе обязательные стадии можно
		// было бы пропустить.
		if !chained {
			if def.RequiresFind && findSec == 0 {
				return nil, apperrors.NewValidationError("Сначала выполните поиск материала по фазе", nil)
			}
			if def.SetupTimeSec > 0 && setupSec == 0 {
				return nil, apperrors.NewValidationError("Сначала выполните наладку по фазе", nil)
			}
		}
		log.TotalQuantity = remaining
		log.FindMaterialTimeSec = findSec
		log.SetupTimeSec = setupSec
	}

	id, err := s.workLogRepo.Insert(ctx, log)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.NewConflictError("У оператора уже есть открытая запись", nil)
		}
		return nil, apperrors.NewTransientError("Не удалось начать стадию", err)
	}
	log.ID = id

	return &dto.SessionSnapshotDTO{
		State:          stageToState(stage),
		Record:         recordPtr(log),
		ElapsedSeconds: 0,
		Remaining:      remaining,
	}, nil
}

// FinishStage закрывает текущую открытую стадию оператора. Для find можно
// сразу продолжить наладкой, закрытие наладки всегда открывает производство.
func (s *SessionService) FinishStage(ctx context.Context, operatorID uint64, payload dto.FinishStageDTO) (*dto.SessionSnapshotDTO, error) {
	open, err := s.workLogRepo.FindOpenByOperator(ctx, operatorID)
	if err != nil {
		return nil, apperrors.NewTransientError("Не удалось проверить открытую стадию", err)
	}
	if open == nil {
		return nil, apperrors.ErrNoOpenSession
	}

	switch open.Stage {
	case entities.StageFind:
		if _, err := s.closeOpen(ctx, open, false, 0); err != nil {
			return nil, err
		}
		s.publishChange(ctx, operatorID, "finish_find")
		if !payload.ContinueNext {
			return &dto.SessionSnapshotDTO{State: dto.SessionStateIdle}, nil
		}
		return s.continueWith(ctx, operatorID, open, entities.StageSetup)

	case entities.StageSetup:
		if _, err := s.closeOpen(ctx, open, false, 0); err != nil {
			return nil, err
		}
		s.publishChange(ctx, operatorID, "finish_setup")
		return s.continueWith(ctx, operatorID, open, entities.StageProduction)

	case entities.StageProduction:
		quantity := 0
		if !payload.Full {
			if !payload.QuantityDone.Valid {
				return nil, apperrors.NewValidationError("Укажите количество или завершите полностью", nil)
			}
			quantity = int(payload.QuantityDone.Int)
		}
		closed, err := s.closeOpen(ctx, open, payload.Full, quantity)
		if err != nil {
			return nil, err
		}
		s.publishChange(ctx, operatorID, "finish_production")
		snapshot := &dto.SessionSnapshotDTO{State: dto.SessionStateIdle}
		if closed != nil {
			snapshot.LastClosed = recordPtr(closed)
		}
		return snapshot, nil
	}
	return nil, apperrors.NewInternalError("Открытая запись с неизвестной стадией")
}

// continueWith открывает следующую стадию той же фазы. Предыдущая запись
// уже закрыта: если открыть новую не удалось, оператор остается в idle
// и ошибка возвращается клиенту как есть.
func (s *SessionService) continueWith(ctx context.Context, operatorID uint64, prev *entities.WorkLog, stage entities.Stage) (*dto.SessionSnapshotDTO, error) {
	snapshot, err := s.startNew(ctx, operatorID, dto.StartStageDTO{
		SheetID: prev.SheetID,
		PhaseID: prev.PhaseID,
		Stage:   string(stage),
	}, true)
	if err != nil {
		return nil, err
	}
	s.publishChange(ctx, operatorID, "start_"+string(stage))
	return snapshot, nil
}

// Rehydrate восстанавливает состояние сессии после перезагрузки клиента.
// Прошедшее время считается от startTime записи в БД, а не от локальных
// часов клиента. scannedSheetID == 0 означает запрос без привязки к листу.
func (s *SessionService) Rehydrate(ctx context.Context, operatorID uint64, scannedSheetID uint64) (*dto.SessionSnapshotDTO, error) {
	openDT, err := s.deadTimeRepo.FindOpenByOperator(ctx, operatorID)
	if err != nil {
		return nil, apperrors.NewTransientError("Не удалось проверить открытый простой", err)
	}
	if openDT != nil {
		elapsed := int64(s.now().Sub(openDT.StartTime).Seconds())
		return &dto.SessionSnapshotDTO{
			State:          dto.SessionStateDeadTime,
			DeadTime:       deadTimePtr(openDT),
			ElapsedSeconds: elapsed,
		}, nil
	}

	open, err := s.workLogRepo.FindOpenByOperator(ctx, operatorID)
	if err != nil {
		return nil, apperrors.NewTransientError("Не удалось проверить открытую стадию", err)
	}
	if open == nil {
		return &dto.SessionSnapshotDTO{State: dto.SessionStateIdle}, nil
	}

	elapsed := int64(s.now().Sub(open.StartTime).Seconds())
	if elapsed < 0 {
		elapsed = 0
	}

	state, err := s.sheetRepo.FindSheetState(ctx, open.SheetID)
	if err != nil {
		return nil, apperrors.NewTransientError("Не удалось загрузить лист открытой стадии", err)
	}

	snapshot := &dto.SessionSnapshotDTO{
		State:          stageToState(open.Stage),
		Record:         recordPtr(open),
		ElapsedSeconds: elapsed,
		Remaining:      state.Remaining(open.PhaseID),
	}

	if scannedSheetID != 0 && scannedSheetID != open.SheetID {
		snapshot.State = dto.SessionStateOtherSheet
		snapshot.BlockingSheetID = open.SheetID
		snapshot.BlockingOrderNumber = state.Sheet.OrderNumber
		snapshot.BlockingSheetNumber = state.Sheet.SheetNumber
	}
	return snapshot, nil
}

func (s *SessionService) publishChange(ctx context.Context, operatorID uint64, action string) {
	s.bus.Publish(ctx, SessionChangedEvent{OperatorID: operatorID, Action: action})
}

func recordPtr(log *entities.WorkLog) *dto.WorkLogDTO {
	d := toWorkLogDTO(log)
	return &d
}

func deadTimePtr(dt *entities.DeadTime) *dto.DeadTimeDTO {
	d := toDeadTimeDTO(dt)
	return &d
}
