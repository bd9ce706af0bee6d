package services

import (
	"context"
	"testing"
	"time"

	"production-system/internal/dto"
	"production-system/internal/entities"
	apperrors "production-system/pkg/errors"
	"production-system/pkg/eventbus"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testNow = time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)

func newSessionService(workLogs *fakeWorkLogRepo, deadTimes *fakeDeadTimeRepo, sheets *fakeSheetRepo) *SessionService {
	svc := NewSessionService(workLogs, deadTimes, sheets, eventbus.New(zap.NewNop()), zap.NewNop())
	svc.now = func() time.Time { return testNow }
	return svc
}

func simpleState(sheetID uint64, quantity int) *entities.SheetState {
	return &entities.SheetState{
		Sheet: entities.Sheet{ID: sheetID, OrderNumber: "З-100", SheetNumber: "Л-1", Quantity: quantity},
		Phases: []entities.PhaseDefinition{
			{PhaseID: 1, PhaseName: "Резка", SequencePosition: 1, SetupTimeSec: 300, ProductionTimePerPieceSec: 10, RequiresFind: true},
			{PhaseID: 2, PhaseName: "Гибка", SequencePosition: 2, ProductionTimePerPieceSec: 20},
		},
	}
}

func TestStartStage_OpenSessionWithoutResolutionReturnsConflict(t *testing.T) {
	start := testNow.Add(-5 * time.Minute)
	workLogs := &fakeWorkLogRepo{open: &entities.WorkLog{
		ID: 7, OperatorID: 1, SheetID: 10, PhaseID: 1,
		Stage: entities.StageProduction, StartTime: start, TotalQuantity: 50,
	}}
	sheets := &fakeSheetRepo{states: map[uint64]*entities.SheetState{10: simpleState(10, 50)}}
	svc := newSessionService(workLogs, &fakeDeadTimeRepo{}, sheets)

	_, err := svc.StartStage(context.Background(), 1, dto.StartStageDTO{SheetID: 10, PhaseID: 1, Stage: "find"})
	require.Error(t, err)

	httpErr, ok := err.(*apperrors.HttpError)
	require.True(t, ok)
	assert.Equal(t, 409, httpErr.Code)

	details, ok := httpErr.Details.(*dto.OpenSessionDetailsDTO)
	require.True(t, ok)
	assert.Equal(t, uint64(7), details.Record.ID)
	assert.Equal(t, "Резка", details.PhaseName)
	assert.Equal(t, 50, details.Remaining)
	assert.Empty(t, workLogs.closed, "без решения ничего закрываться не должно")
}

func TestStartStage_FullResolutionClosesAndStartsNew(t *testing.T) {
	workLogs := &fakeWorkLogRepo{nextID: 7, open: &entities.WorkLog{
		ID: 7, OperatorID: 1, SheetID: 10, PhaseID: 1,
		Stage: entities.StageProduction, StartTime: testNow.Add(-100 * time.Second), TotalQuantity: 50,
	}}
	sheets := &fakeSheetRepo{states: map[uint64]*entities.SheetState{10: simpleState(10, 50)}}
	svc := newSessionService(workLogs, &fakeDeadTimeRepo{}, sheets)

	snapshot, err := svc.StartStage(context.Background(), 1, dto.StartStageDTO{
		SheetID: 10, PhaseID: 1, Stage: "find",
		Resolution: &dto.ResolutionDTO{Action: dto.ResolutionFull},
	})
	require.NoError(t, err)

	require.Len(t, workLogs.closed, 1)
	assert.Equal(t, 50, workLogs.closed[0].quantity, "full закрывает на весь remaining")
	assert.Equal(t, int64(100), workLogs.closed[0].prodSec)

	assert.Equal(t, dto.SessionStateFinding, snapshot.State)
	require.NotNil(t, snapshot.Record)
	assert.Equal(t, "find", snapshot.Record.Stage)
}

func TestStartStage_PartialResolutionClosesWithoutStarting(t *testing.T) {
	workLogs := &fakeWorkLogRepo{nextID: 7, open: &entities.WorkLog{
		ID: 7, OperatorID: 1, SheetID: 10, PhaseID: 1,
		Stage: entities.StageProduction, StartTime: testNow.Add(-time.Hour), TotalQuantity: 50,
	}}
	sheets := &fakeSheetRepo{states: map[uint64]*entities.SheetState{10: simpleState(10, 50)}}
	svc := newSessionService(workLogs, &fakeDeadTimeRepo{}, sheets)

	snapshot, err := svc.StartStage(context.Background(), 1, dto.StartStageDTO{
		SheetID: 10, PhaseID: 1, Stage: "production",
		Resolution: &dto.ResolutionDTO{Action: dto.ResolutionPartial, QuantityDone: null.IntFrom(30)},
	})
	require.NoError(t, err)

	require.Len(t, workLogs.closed, 1)
	assert.Equal(t, 30, workLogs.closed[0].quantity)
	assert.Empty(t, workLogs.inserted, "partial не начинает новую стадию")
	assert.Equal(t, dto.SessionStateIdle, snapshot.State)
	require.NotNil(t, snapshot.LastClosed, "терминал подтверждает закрытие без запроса состояния")
	assert.Equal(t, 30, snapshot.LastClosed.QuantityDone)
}

func TestStartStage_PartialAboveRemainingRejected(t *testing.T) {
	workLogs := &fakeWorkLogRepo{open: &entities.WorkLog{
		ID: 7, OperatorID: 1, SheetID: 10, PhaseID: 1,
		Stage: entities.StageProduction, StartTime: testNow.Add(-time.Hour), TotalQuantity: 50,
	}}
	sheets := &fakeSheetRepo{states: map[uint64]*entities.SheetState{10: simpleState(10, 50)}}
	svc := newSessionService(workLogs, &fakeDeadTimeRepo{}, sheets)

	_, err := svc.StartStage(context.Background(), 1, dto.StartStageDTO{
		SheetID: 10, PhaseID: 1, Stage: "production",
		Resolution: &dto.ResolutionDTO{Action: dto.ResolutionPartial, QuantityDone: null.IntFrom(51)},
	})
	require.Error(t, err)
	httpErr, ok := err.(*apperrors.HttpError)
	require.True(t, ok)
	assert.Equal(t, 400, httpErr.Code)
	assert.Empty(t, workLogs.closed)
}

func TestStartStage_AbortResolutionLeavesRecordOpen(t *testing.T) {
	workLogs := &fakeWorkLogRepo{open: &entities.WorkLog{
		ID: 7, OperatorID: 1, SheetID: 10, PhaseID: 1,
		Stage: entities.StageFind, StartTime: testNow.Add(-time.Minute),
	}}
	sheets := &fakeSheetRepo{states: map[uint64]*entities.SheetState{10: simpleState(10, 50)}}
	svc := newSessionService(workLogs, &fakeDeadTimeRepo{}, sheets)

	snapshot, err := svc.StartStage(context.Background(), 1, dto.StartStageDTO{
		SheetID: 10, PhaseID: 1, Stage: "find",
		Resolution: &dto.ResolutionDTO{Action: dto.ResolutionAbort},
	})
	require.NoError(t, err)
	assert.Equal(t, dto.SessionStateIdle, snapshot.State)
	assert.NotNil(t, workLogs.open, "abort не трогает открытую запись")
	assert.Empty(t, workLogs.inserted)
}

func TestStartStage_OpenDeadTimeBlocksWork(t *testing.T) {
	deadTimes := &fakeDeadTimeRepo{open: &entities.DeadTime{
		ID: 3, OperatorID: 1, Code: "NO_MATERIAL", StartTime: testNow.Add(-time.Minute),
	}}
	sheets := &fakeSheetRepo{states: map[uint64]*entities.SheetState{10: simpleState(10, 50)}}
	svc := newSessionService(&fakeWorkLogRepo{}, deadTimes, sheets)

	_, err := svc.StartStage(context.Background(), 1, dto.StartStageDTO{SheetID: 10, PhaseID: 1, Stage: "find"})
	require.Error(t, err)
	httpErr, ok := err.(*apperrors.HttpError)
	require.True(t, ok)
	assert.Equal(t, 409, httpErr.Code)
}

func TestStartStage_ProductionCollectsPendingStageSeconds(t *testing.T) {
	workLogs := &fakeWorkLogRepo{pendingFind: 120, pendingSet: 300}
	state := simpleState(10, 50)
	// вторая фаза открыта после полного закрытия первой
	endTime := testNow.Add(-time.Hour)
	state.Logs = []entities.WorkLog{{
		ID: 1, SheetID: 10, PhaseID: 1, Stage: entities.StageProduction,
		StartTime: endTime.Add(-time.Hour), EndTime: &endTime, QuantityDone: 40,
	}}
	sheets := &fakeSheetRepo{states: map[uint64]*entities.SheetState{10: state}}
	svc := newSessionService(workLogs, &fakeDeadTimeRepo{}, sheets)

	snapshot, err := svc.StartStage(context.Background(), 1, dto.StartStageDTO{SheetID: 10, PhaseID: 2, Stage: "production"})
	require.NoError(t, err)

	require.Len(t, workLogs.inserted, 1)
	opened := workLogs.inserted[0]
	assert.Equal(t, 40, opened.TotalQuantity, "total фиксируется как remaining на момент старта")
	assert.Equal(t, int64(120), opened.FindMaterialTimeSec)
	assert.Equal(t, int64(300), opened.SetupTimeSec)
	assert.Equal(t, 40, snapshot.Remaining)
}

func TestStartStage_DirectProductionRequiresPreparation(t *testing.T) {
	sheets := &fakeSheetRepo{states: map[uint64]*entities.SheetState{10: simpleState(10, 50)}}

	// первая фаза требует и поиск материала, и наладку
	cases := []struct {
		name        string
		pendingFind int64
		pendingSet  int64
		wantErr     bool
	}{
		{"без подготовки", 0, 0, true},
		{"поиск есть, наладки нет", 120, 0, true},
		{"подготовка отработана", 120, 300, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			workLogs := &fakeWorkLogRepo{pendingFind: tc.pendingFind, pendingSet: tc.pendingSet}
			svc := newSessionService(workLogs, &fakeDeadTimeRepo{}, sheets)

			_, err := svc.StartStage(context.Background(), 1, dto.StartStageDTO{SheetID: 10, PhaseID: 1, Stage: "production"})
			if tc.wantErr {
				require.Error(t, err)
				httpErr, ok := err.(*apperrors.HttpError)
				require.True(t, ok)
				assert.Equal(t, 400, httpErr.Code)
				assert.Empty(t, workLogs.inserted, "обязательные стадии пропускать нельзя")
				return
			}
			require.NoError(t, err)
			require.Len(t, workLogs.inserted, 1)
			assert.Equal(t, int64(300), workLogs.inserted[0].SetupTimeSec)
		})
	}
}

func TestStartStage_ExhaustedPhaseRejected(t *testing.T) {
	sheets := &fakeSheetRepo{states: map[uint64]*entities.SheetState{10: simpleState(10, 50)}}
	svc := newSessionService(&fakeWorkLogRepo{}, &fakeDeadTimeRepo{}, sheets)

	// по второй фазе upstream ещё нулевой
	_, err := svc.StartStage(context.Background(), 1, dto.StartStageDTO{SheetID: 10, PhaseID: 2, Stage: "production"})
	require.Error(t, err)
	httpErr, ok := err.(*apperrors.HttpError)
	require.True(t, ok)
	assert.Equal(t, 409, httpErr.Code)
}

func TestStartStage_StageNotAllowedByPhase(t *testing.T) {
	sheets := &fakeSheetRepo{states: map[uint64]*entities.SheetState{10: simpleState(10, 50)}}
	svc := newSessionService(&fakeWorkLogRepo{}, &fakeDeadTimeRepo{}, sheets)

	// у второй фазы нет ни поиска, ни наладки
	state := sheets.states[10]
	endTime := testNow.Add(-time.Hour)
	state.Logs = []entities.WorkLog{{
		ID: 1, SheetID: 10, PhaseID: 1, Stage: entities.StageProduction,
		StartTime: endTime.Add(-time.Hour), EndTime: &endTime, QuantityDone: 50,
	}}

	for _, stage := range []string{"find", "setup"} {
		_, err := svc.StartStage(context.Background(), 1, dto.StartStageDTO{SheetID: 10, PhaseID: 2, Stage: stage})
		require.Error(t, err, stage)
		httpErr, ok := err.(*apperrors.HttpError)
		require.True(t, ok)
		assert.Equal(t, 400, httpErr.Code)
	}
}

func TestFinishStage_FindContinuesIntoSetup(t *testing.T) {
	workLogs := &fakeWorkLogRepo{nextID: 7, open: &entities.WorkLog{
		ID: 7, OperatorID: 1, SheetID: 10, PhaseID: 1,
		Stage: entities.StageFind, StartTime: testNow.Add(-90 * time.Second),
	}}
	sheets := &fakeSheetRepo{states: map[uint64]*entities.SheetState{10: simpleState(10, 50)}}
	svc := newSessionService(workLogs, &fakeDeadTimeRepo{}, sheets)

	snapshot, err := svc.FinishStage(context.Background(), 1, dto.FinishStageDTO{ContinueNext: true})
	require.NoError(t, err)

	require.Len(t, workLogs.closed, 1)
	assert.Equal(t, int64(90), workLogs.closed[0].findSec)
	assert.Equal(t, dto.SessionStateSettingUp, snapshot.State)
	require.Len(t, workLogs.inserted, 1)
	assert.Equal(t, entities.StageSetup, workLogs.inserted[0].Stage)
}

func TestFinishStage_SetupAlwaysOpensProduction(t *testing.T) {
	workLogs := &fakeWorkLogRepo{nextID: 7, open: &entities.WorkLog{
		ID: 7, OperatorID: 1, SheetID: 10, PhaseID: 1,
		Stage: entities.StageSetup, StartTime: testNow.Add(-300 * time.Second),
	}}
	sheets := &fakeSheetRepo{states: map[uint64]*entities.SheetState{10: simpleState(10, 50)}}
	svc := newSessionService(workLogs, &fakeDeadTimeRepo{}, sheets)

	snapshot, err := svc.FinishStage(context.Background(), 1, dto.FinishStageDTO{})
	require.NoError(t, err)

	assert.Equal(t, int64(300), workLogs.closed[0].setupSec)
	assert.Equal(t, dto.SessionStateProducing, snapshot.State)
	require.Len(t, workLogs.inserted, 1)
	assert.Equal(t, entities.StageProduction, workLogs.inserted[0].Stage)
	assert.Equal(t, 50, workLogs.inserted[0].TotalQuantity)
}

func TestFinishStage_ProductionPartialValidatesBounds(t *testing.T) {
	newRepo := func() *fakeWorkLogRepo {
		return &fakeWorkLogRepo{open: &entities.WorkLog{
			ID: 7, OperatorID: 1, SheetID: 10, PhaseID: 1,
			Stage: entities.StageProduction, StartTime: testNow.Add(-time.Hour), TotalQuantity: 50,
		}}
	}
	sheets := &fakeSheetRepo{states: map[uint64]*entities.SheetState{10: simpleState(10, 50)}}

	for _, quantity := range []int{0, -5, 51} {
		workLogs := newRepo()
		svc := newSessionService(workLogs, &fakeDeadTimeRepo{}, sheets)
		_, err := svc.FinishStage(context.Background(), 1, dto.FinishStageDTO{QuantityDone: null.IntFrom(quantity)})
		require.Error(t, err, "quantity=%d", quantity)
		assert.Empty(t, workLogs.closed)
	}

	workLogs := newRepo()
	svc := newSessionService(workLogs, &fakeDeadTimeRepo{}, sheets)
	snapshot, err := svc.FinishStage(context.Background(), 1, dto.FinishStageDTO{QuantityDone: null.IntFrom(50)})
	require.NoError(t, err)
	assert.Equal(t, 50, workLogs.closed[0].quantity)
	assert.Equal(t, dto.SessionStateIdle, snapshot.State)
	require.NotNil(t, snapshot.LastClosed)
	assert.Equal(t, 50, snapshot.LastClosed.QuantityDone)
}

func TestFinishStage_NoOpenSession(t *testing.T) {
	sheets := &fakeSheetRepo{states: map[uint64]*entities.SheetState{}}
	svc := newSessionService(&fakeWorkLogRepo{}, &fakeDeadTimeRepo{}, sheets)

	_, err := svc.FinishStage(context.Background(), 1, dto.FinishStageDTO{Full: true})
	assert.ErrorIs(t, err, apperrors.ErrNoOpenSession)
}

func TestRehydrate_ElapsedFromServerClock(t *testing.T) {
	workLogs := &fakeWorkLogRepo{open: &entities.WorkLog{
		ID: 7, OperatorID: 1, SheetID: 10, PhaseID: 1,
		Stage: entities.StageSetup, StartTime: testNow.Add(-90 * time.Second),
	}}
	sheets := &fakeSheetRepo{states: map[uint64]*entities.SheetState{10: simpleState(10, 50)}}
	svc := newSessionService(workLogs, &fakeDeadTimeRepo{}, sheets)

	snapshot, err := svc.Rehydrate(context.Background(), 1, 10)
	require.NoError(t, err)

	assert.Equal(t, dto.SessionStateSettingUp, snapshot.State)
	assert.Equal(t, int64(90), snapshot.ElapsedSeconds, "секундомер продолжается от startTime записи")
	assert.Equal(t, 50, snapshot.Remaining)
}

func TestRehydrate_OtherSheetBlocks(t *testing.T) {
	workLogs := &fakeWorkLogRepo{open: &entities.WorkLog{
		ID: 7, OperatorID: 1, SheetID: 10, PhaseID: 1,
		Stage: entities.StageProduction, StartTime: testNow.Add(-time.Minute), TotalQuantity: 50,
	}}
	sheets := &fakeSheetRepo{states: map[uint64]*entities.SheetState{10: simpleState(10, 50)}}
	svc := newSessionService(workLogs, &fakeDeadTimeRepo{}, sheets)

	snapshot, err := svc.Rehydrate(context.Background(), 1, 99)
	require.NoError(t, err)

	assert.Equal(t, dto.SessionStateOtherSheet, snapshot.State)
	assert.Equal(t, uint64(10), snapshot.BlockingSheetID)
	assert.Equal(t, "З-100", snapshot.BlockingOrderNumber)
	assert.Equal(t, "Л-1", snapshot.BlockingSheetNumber)
}

func TestRehydrate_IdleAndDeadTime(t *testing.T) {
	sheets := &fakeSheetRepo{states: map[uint64]*entities.SheetState{}}
	svc := newSessionService(&fakeWorkLogRepo{}, &fakeDeadTimeRepo{}, sheets)

	snapshot, err := svc.Rehydrate(context.Background(), 1, 0)
	require.NoError(t, err)
	assert.Equal(t, dto.SessionStateIdle, snapshot.State)

	deadTimes := &fakeDeadTimeRepo{open: &entities.DeadTime{
		ID: 3, OperatorID: 1, Code: "NO_MATERIAL", StartTime: testNow.Add(-45 * time.Second),
	}}
	svc = newSessionService(&fakeWorkLogRepo{}, deadTimes, sheets)

	snapshot, err = svc.Rehydrate(context.Background(), 1, 0)
	require.NoError(t, err)
	assert.Equal(t, dto.SessionStateDeadTime, snapshot.State)
	assert.Equal(t, int64(45), snapshot.ElapsedSeconds)
}
