package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeSheetState(quantity int) *SheetState {
	return &SheetState{
		Sheet: Sheet{ID: 1, OrderNumber: "З-105", SheetNumber: "12", ProductID: 7, Quantity: quantity},
		Phases: []PhaseDefinition{
			{PhaseID: 10, PhaseName: "Резка", SequencePosition: 1, SetupTimeSec: 0, ProductionTimePerPieceSec: 3, RequiresFind: true},
			{PhaseID: 20, PhaseName: "Сборка", SequencePosition: 2, SetupTimeSec: 60, ProductionTimePerPieceSec: 2},
			{PhaseID: 30, PhaseName: "Упаковка", SequencePosition: 3, SetupTimeSec: 30, ProductionTimePerPieceSec: 1},
		},
	}
}

func closedProduction(operatorID, phaseID uint64, qty int) WorkLog {
	start := time.Now().Add(-time.Hour)
	end := start.Add(30 * time.Minute)
	return WorkLog{
		OperatorID:   operatorID,
		SheetID:      1,
		PhaseID:      phaseID,
		Stage:        StageProduction,
		StartTime:    start,
		EndTime:      &end,
		QuantityDone: qty,
	}
}

func TestRemaining_FirstPhaseWithoutLogs_EqualsSheetQuantity(t *testing.T) {
	st := makeSheetState(100)

	assert.Equal(t, 100, st.Remaining(10))
	assert.Equal(t, 0, st.Remaining(20), "вторая фаза заперта, пока первая ничего не выдала")
	assert.Equal(t, 0, st.Remaining(30))
}

func TestRemaining_FullFinishOnFirstPhase_OpensSecond(t *testing.T) {
	st := makeSheetState(100)
	st.Logs = append(st.Logs, closedProduction(1, 10, 100))

	assert.Equal(t, 0, st.Remaining(10))
	assert.Equal(t, 100, st.Remaining(20))
	assert.Equal(t, 0, st.Remaining(30))
}

func TestRemaining_PartialFinish_ReducesExactly(t *testing.T) {
	st := makeSheetState(100)
	st.Logs = append(st.Logs, closedProduction(1, 10, 40))

	assert.Equal(t, 60, st.Remaining(10))
	assert.Equal(t, 40, st.Remaining(20), "сборка ограничена выданным резкой количеством")

	st.Logs = append(st.Logs, closedProduction(2, 20, 15))
	assert.Equal(t, 25, st.Remaining(20))
	assert.Equal(t, 15, st.Remaining(30))
}

func TestRemaining_PipelineInvariant_NeverNegative(t *testing.T) {
	st := makeSheetState(10)
	// Аномалия в данных: по второй фазе закрыто больше, чем выдала первая
	st.Logs = append(st.Logs,
		closedProduction(1, 10, 5),
		closedProduction(2, 20, 8),
	)

	assert.Equal(t, 0, st.Remaining(20), "remaining не уходит в минус")
}

func TestRemaining_UnknownPhaseOrEmptySheet(t *testing.T) {
	st := makeSheetState(50)
	assert.Equal(t, 0, st.Remaining(999))

	empty := &SheetState{}
	assert.Equal(t, 0, empty.Remaining(10))
}

func TestDoneByPhase_CountsOnlyClosedProductionLogs(t *testing.T) {
	st := makeSheetState(100)

	open := closedProduction(1, 10, 77)
	open.EndTime = nil // открытая запись не считается
	find := closedProduction(1, 10, 0)
	find.Stage = StageFind

	st.Logs = append(st.Logs, open, find, closedProduction(2, 10, 30))

	done := st.DoneByPhase()
	require.Equal(t, 30, done[10])
	assert.True(t, st.InProgress(10))
	assert.False(t, st.InProgress(20))
}

func TestLocked_AnyLogLocksSheet(t *testing.T) {
	st := makeSheetState(100)
	assert.False(t, st.Locked())

	find := closedProduction(1, 10, 0)
	find.Stage = StageFind
	st.Logs = append(st.Logs, find)
	assert.True(t, st.Locked())
}

func TestStage_Valid(t *testing.T) {
	assert.True(t, StageFind.Valid())
	assert.True(t, StageSetup.Valid())
	assert.True(t, StageProduction.Valid())
	assert.False(t, Stage("pause").Valid())
}
