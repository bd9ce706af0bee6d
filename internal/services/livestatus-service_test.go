package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"production-system/internal/entities"
	"production-system/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newLiveStatusService(statusRepo *fakeLiveStatusRepo, operators *fakeOperatorRepo, sheets *fakeSheetRepo) *LiveStatusService {
	svc := NewLiveStatusService(statusRepo, operators, sheets, zap.NewNop())
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestGetLiveStatus_OverrunDetection(t *testing.T) {
	// remaining = 4, норматив 20 сек/шт, работа идет 100 секунд при плане 80
	state := &entities.SheetState{
		Sheet: entities.Sheet{ID: 10, OrderNumber: "З-100", SheetNumber: "Л-1", Quantity: 4},
		Phases: []entities.PhaseDefinition{
			{PhaseID: 1, PhaseName: "Резка", SequencePosition: 1, ProductionTimePerPieceSec: 20},
		},
	}
	statusRepo := &fakeLiveStatusRepo{workRows: []types.OpenWorkRow{{
		LogID: 7, OperatorID: 1, OperatorFio: "Иванов И.И.",
		SheetID: 10, OrderNumber: "З-100", SheetNumber: "Л-1",
		PhaseID: 1, PhaseName: "Резка", Stage: "production",
		StartTime: testNow.Add(-100 * time.Second), TotalQuantity: 4,
		ProductionTimePerPieceSec: 20,
	}}}
	operators := &fakeOperatorRepo{operators: []entities.Operator{{ID: 1, Fio: "Иванов И.И."}}}
	sheets := &fakeSheetRepo{states: map[uint64]*entities.SheetState{10: state}}

	svc := newLiveStatusService(statusRepo, operators, sheets)
	out, err := svc.GetLiveStatus(context.Background())
	require.NoError(t, err)

	require.Len(t, out.Active, 1)
	entry := out.Active[0]
	assert.Equal(t, int64(100), entry.RunningSeconds)
	assert.Equal(t, int64(80), entry.PlannedSeconds)
	assert.True(t, entry.IsOverrun)
	assert.Empty(t, out.Idle)
}

func TestGetLiveStatus_SetupPlannedIncludesSetupNorm(t *testing.T) {
	state := &entities.SheetState{
		Sheet: entities.Sheet{ID: 10, Quantity: 10},
		Phases: []entities.PhaseDefinition{
			{PhaseID: 1, SequencePosition: 1, SetupTimeSec: 300, ProductionTimePerPieceSec: 10},
		},
	}
	statusRepo := &fakeLiveStatusRepo{workRows: []types.OpenWorkRow{{
		LogID: 7, OperatorID: 1, SheetID: 10, PhaseID: 1, Stage: "setup",
		StartTime: testNow.Add(-60 * time.Second),
		SetupTimeSec: 300, ProductionTimePerPieceSec: 10,
	}}}
	operators := &fakeOperatorRepo{operators: []entities.Operator{{ID: 1}}}
	sheets := &fakeSheetRepo{states: map[uint64]*entities.SheetState{10: state}}

	svc := newLiveStatusService(statusRepo, operators, sheets)
	out, err := svc.GetLiveStatus(context.Background())
	require.NoError(t, err)

	require.Len(t, out.Active, 1)
	assert.Equal(t, int64(300+100), out.Active[0].PlannedSeconds)
	assert.False(t, out.Active[0].IsOverrun)
}

func TestGetLiveStatus_DeadTimeWinsOverWork(t *testing.T) {
	// нарушенный инвариант: у одного оператора открыты и работа, и простой
	statusRepo := &fakeLiveStatusRepo{
		workRows: []types.OpenWorkRow{{
			LogID: 7, OperatorID: 1, OperatorFio: "Иванов И.И.",
			SheetID: 10, PhaseID: 1, Stage: "production",
			StartTime: testNow.Add(-time.Minute),
		}},
		deadRows: []types.OpenDeadTimeRow{{
			DeadTimeID: 3, OperatorID: 1, OperatorFio: "Иванов И.И.",
			Code: "NO_MATERIAL", CodeName: "Нет материала",
			StartTime: testNow.Add(-30 * time.Second),
		}},
	}
	operators := &fakeOperatorRepo{operators: []entities.Operator{{ID: 1, Fio: "Иванов И.И."}}}
	sheets := &fakeSheetRepo{states: map[uint64]*entities.SheetState{}}

	svc := newLiveStatusService(statusRepo, operators, sheets)
	out, err := svc.GetLiveStatus(context.Background())
	require.NoError(t, err)

	assert.Empty(t, out.Active)
	require.Len(t, out.DeadTime, 1)
	assert.Equal(t, int64(30), out.DeadTime[0].RunningSeconds)
	assert.Empty(t, out.Idle)
}

func TestGetLiveStatus_IdleBucket(t *testing.T) {
	statusRepo := &fakeLiveStatusRepo{
		lastByOp: map[uint64]types.LastActivityRow{
			2: {
				OperatorID: 2, Kind: "work", Label: "Резка",
				EndTime: sql.NullTime{Time: testNow.Add(-15 * time.Minute), Valid: true},
			},
		},
	}
	operators := &fakeOperatorRepo{operators: []entities.Operator{
		{ID: 2, Fio: "Петров П.П."},
		{ID: 3, Fio: "Сидоров С.С."},
	}}
	sheets := &fakeSheetRepo{states: map[uint64]*entities.SheetState{}}

	svc := newLiveStatusService(statusRepo, operators, sheets)
	out, err := svc.GetLiveStatus(context.Background())
	require.NoError(t, err)

	require.Len(t, out.Idle, 2)
	byID := map[uint64]int{}
	for i, entry := range out.Idle {
		byID[entry.OperatorID] = i
	}

	withHistory := out.Idle[byID[2]]
	assert.Equal(t, "work", withHistory.LastKind)
	assert.Equal(t, "Резка", withHistory.LastLabel)
	assert.Equal(t, int64(15*60), withHistory.IdleSeconds)

	fresh := out.Idle[byID[3]]
	assert.Equal(t, "none", fresh.LastKind)
	assert.Zero(t, fresh.IdleSeconds)
}
