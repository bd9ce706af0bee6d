package services

import (
	"context"
	"time"

	"production-system/internal/dto"
	"production-system/internal/entities"
	apperrors "production-system/pkg/errors"
	"production-system/pkg/types"
)

// Фейковые репозитории для юнит-тестов сервисов.

type fakeWorkLogRepo struct {
	open        *entities.WorkLog
	nextID      uint64
	inserted    []*entities.WorkLog
	closed      []closedCall
	insertErr   error
	pendingFind int64
	pendingSet  int64
}

type closedCall struct {
	id       uint64
	endTime  time.Time
	quantity int
	findSec  int64
	setupSec int64
	prodSec  int64
}

func (f *fakeWorkLogRepo) FindOpenByOperator(_ context.Context, _ uint64) (*entities.WorkLog, error) {
	return f.open, nil
}

func (f *fakeWorkLogRepo) Insert(_ context.Context, log *entities.WorkLog) (uint64, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	if f.open != nil {
		return 0, apperrors.ErrConflict
	}
	f.nextID++
	inserted := *log
	inserted.ID = f.nextID
	f.inserted = append(f.inserted, &inserted)
	f.open = &inserted
	return f.nextID, nil
}

func (f *fakeWorkLogRepo) Close(_ context.Context, id uint64, endTime time.Time, quantityDone int, findSec, setupSec, prodSec int64) (*entities.WorkLog, error) {
	if f.open == nil || f.open.ID != id {
		return nil, apperrors.ErrConflict
	}
	f.closed = append(f.closed, closedCall{id, endTime, quantityDone, findSec, setupSec, prodSec})
	closed := *f.open
	closed.EndTime = &endTime
	closed.QuantityDone = quantityDone
	f.open = nil
	return &closed, nil
}

func (f *fakeWorkLogRepo) SumPendingStageSeconds(_ context.Context, _, _, _ uint64) (int64, int64, error) {
	return f.pendingFind, f.pendingSet, nil
}

func (f *fakeWorkLogRepo) ListBySheet(_ context.Context, _ uint64) ([]entities.WorkLog, error) {
	return nil, nil
}

type fakeDeadTimeRepo struct {
	open   *entities.DeadTime
	nextID uint64
}

func (f *fakeDeadTimeRepo) FindOpenByOperator(_ context.Context, _ uint64) (*entities.DeadTime, error) {
	return f.open, nil
}

func (f *fakeDeadTimeRepo) Insert(_ context.Context, dt *entities.DeadTime) (uint64, error) {
	if f.open != nil {
		return 0, apperrors.ErrConflict
	}
	f.nextID++
	inserted := *dt
	inserted.ID = f.nextID
	f.open = &inserted
	return f.nextID, nil
}

func (f *fakeDeadTimeRepo) Close(_ context.Context, id uint64, endTime time.Time) (*entities.DeadTime, error) {
	if f.open == nil || f.open.ID != id {
		return nil, apperrors.ErrConflict
	}
	closed := *f.open
	closed.EndTime = &endTime
	f.open = nil
	return &closed, nil
}

type fakeSheetRepo struct {
	states map[uint64]*entities.SheetState
}

func (f *fakeSheetRepo) FindSheetState(_ context.Context, sheetID uint64) (*entities.SheetState, error) {
	state, ok := f.states[sheetID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return state, nil
}

func (f *fakeSheetRepo) FindSheetStateByNumber(_ context.Context, _, _ string) (*entities.SheetState, error) {
	return nil, apperrors.ErrNotFound
}

func (f *fakeSheetRepo) CreateSheet(_ context.Context, _ dto.CreateSheetDTO, _ []entities.PhaseDefinition) (uint64, error) {
	return 0, nil
}

func (f *fakeSheetRepo) UpdateSheet(_ context.Context, _ uint64, _ dto.UpdateSheetDTO) error {
	return nil
}

func (f *fakeSheetRepo) ListSheets(_ context.Context, _ types.Filter) ([]entities.Sheet, uint64, error) {
	return nil, 0, nil
}

type fakePhaseRepo struct {
	codes map[string]*entities.DeadTimeCode
}

func (f *fakePhaseRepo) GetPhases(_ context.Context) ([]entities.Phase, error) { return nil, nil }

func (f *fakePhaseRepo) FindProductWithPhases(_ context.Context, _ uint64) (*entities.Product, error) {
	return nil, apperrors.ErrNotFound
}

func (f *fakePhaseRepo) GetDeadTimeCodes(_ context.Context) ([]entities.DeadTimeCode, error) {
	out := make([]entities.DeadTimeCode, 0, len(f.codes))
	for _, c := range f.codes {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakePhaseRepo) FindDeadTimeCode(_ context.Context, code string) (*entities.DeadTimeCode, error) {
	c, ok := f.codes[code]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return c, nil
}

type fakeLiveStatusRepo struct {
	workRows []types.OpenWorkRow
	deadRows []types.OpenDeadTimeRow
	lastByOp map[uint64]types.LastActivityRow
}

func (f *fakeLiveStatusRepo) GetOpenWorkRows(_ context.Context) ([]types.OpenWorkRow, error) {
	return f.workRows, nil
}

func (f *fakeLiveStatusRepo) GetOpenDeadTimeRows(_ context.Context) ([]types.OpenDeadTimeRow, error) {
	return f.deadRows, nil
}

func (f *fakeLiveStatusRepo) GetLastClosedByOperator(_ context.Context) (map[uint64]types.LastActivityRow, error) {
	return f.lastByOp, nil
}

type fakeOperatorRepo struct {
	operators []entities.Operator
}

func (f *fakeOperatorRepo) FindByID(_ context.Context, id uint64) (*entities.Operator, error) {
	for i := range f.operators {
		if f.operators[i].ID == id {
			return &f.operators[i], nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeOperatorRepo) FindByLogin(_ context.Context, login string) (*entities.Operator, error) {
	for i := range f.operators {
		if f.operators[i].Login == login {
			return &f.operators[i], nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeOperatorRepo) GetOperators(_ context.Context) ([]entities.Operator, error) {
	return f.operators, nil
}
