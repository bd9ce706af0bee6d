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

func testCodes() map[string]*entities.DeadTimeCode {
	return map[string]*entities.DeadTimeCode{
		"MEETING":     {ID: 1, Code: "MEETING", Name: "Собрание", Requirement: entities.RequirementNone},
		"MANUAL_WORK": {ID: 2, Code: "MANUAL_WORK", Name: "Ручная операция", Requirement: entities.RequirementManualProduct},
		"NO_MATERIAL": {ID: 3, Code: "NO_MATERIAL", Name: "Нет материала", Requirement: entities.RequirementProductOrSheet},
	}
}

func newDeadTimeService(deadTimes *fakeDeadTimeRepo, workLogs *fakeWorkLogRepo) *DeadTimeService {
	svc := NewDeadTimeService(deadTimes, workLogs, &fakePhaseRepo{codes: testCodes()}, eventbus.New(zap.NewNop()), zap.NewNop())
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestStartDeadTime_RequirementTiers(t *testing.T) {
	cases := []struct {
		name    string
		payload dto.StartDeadTimeDTO
		wantErr bool
	}{
		{"без привязки", dto.StartDeadTimeDTO{Code: "MEETING"}, false},
		{"ручная операция без изделия", dto.StartDeadTimeDTO{Code: "MANUAL_WORK"}, true},
		{"ручная операция с изделием", dto.StartDeadTimeDTO{Code: "MANUAL_WORK", ProductID: null.Uint64From(5)}, false},
		{"нет материала без привязки", dto.StartDeadTimeDTO{Code: "NO_MATERIAL"}, true},
		{"нет материала с листом", dto.StartDeadTimeDTO{Code: "NO_MATERIAL", SheetID: null.Uint64From(10)}, false},
		{"нет материала с изделием", dto.StartDeadTimeDTO{Code: "NO_MATERIAL", ProductID: null.Uint64From(5)}, false},
		{"неизвестный код", dto.StartDeadTimeDTO{Code: "UNKNOWN"}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newDeadTimeService(&fakeDeadTimeRepo{}, &fakeWorkLogRepo{})
			out, err := svc.StartDeadTime(context.Background(), 1, tc.payload)
			if tc.wantErr {
				require.Error(t, err)
				httpErr, ok := err.(*apperrors.HttpError)
				require.True(t, ok)
				assert.Equal(t, 400, httpErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.payload.Code, out.Code)
		})
	}
}

func TestStartDeadTime_OpenWorkBlocks(t *testing.T) {
	workLogs := &fakeWorkLogRepo{open: &entities.WorkLog{
		ID: 7, OperatorID: 1, SheetID: 10, PhaseID: 1,
		Stage: entities.StageProduction, StartTime: testNow.Add(-time.Minute),
	}}
	svc := newDeadTimeService(&fakeDeadTimeRepo{}, workLogs)

	_, err := svc.StartDeadTime(context.Background(), 1, dto.StartDeadTimeDTO{Code: "MEETING"})
	require.Error(t, err)
	httpErr, ok := err.(*apperrors.HttpError)
	require.True(t, ok)
	assert.Equal(t, 409, httpErr.Code)
}

func TestStartDeadTime_SecondDeadTimeBlocks(t *testing.T) {
	deadTimes := &fakeDeadTimeRepo{open: &entities.DeadTime{
		ID: 3, OperatorID: 1, Code: "MEETING", StartTime: testNow.Add(-time.Minute),
	}}
	svc := newDeadTimeService(deadTimes, &fakeWorkLogRepo{})

	_, err := svc.StartDeadTime(context.Background(), 1, dto.StartDeadTimeDTO{Code: "MEETING"})
	require.Error(t, err)
	httpErr, ok := err.(*apperrors.HttpError)
	require.True(t, ok)
	assert.Equal(t, 409, httpErr.Code)
}

func TestFinishDeadTime(t *testing.T) {
	deadTimes := &fakeDeadTimeRepo{nextID: 3, open: &entities.DeadTime{
		ID: 3, OperatorID: 1, Code: "MEETING", StartTime: testNow.Add(-10 * time.Minute),
	}}
	svc := newDeadTimeService(deadTimes, &fakeWorkLogRepo{})

	out, err := svc.FinishDeadTime(context.Background(), 1)
	require.NoError(t, err)
	assert.NotEmpty(t, out.EndTime)
	assert.Nil(t, deadTimes.open)

	// повторное закрытие — уже нечего закрывать
	_, err = svc.FinishDeadTime(context.Background(), 1)
	require.Error(t, err)
	httpErr, ok := err.(*apperrors.HttpError)
	require.True(t, ok)
	assert.Equal(t, 404, httpErr.Code)
}
