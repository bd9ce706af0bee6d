package services

import (
	"production-system/internal/dto"
	"production-system/internal/entities"
)

const timeLayout = "2006-01-02 15:04:05"

func toWorkLogDTO(log *entities.WorkLog) dto.WorkLogDTO {
	out := dto.WorkLogDTO{
		ID:                  log.ID,
		OperatorID:          log.OperatorID,
		SheetID:             log.SheetID,
		PhaseID:             log.PhaseID,
		Stage:               string(log.Stage),
		StartTime:           log.StartTime.Local().Format(timeLayout),
		QuantityDone:        log.QuantityDone,
		TotalQuantity:       log.TotalQuantity,
		FindMaterialTimeSec: log.FindMaterialTimeSec,
		SetupTimeSec:        log.SetupTimeSec,
		ProductionTimeSec:   log.ProductionTimeSec,
	}
	if log.EndTime != nil {
		out.EndTime = log.EndTime.Local().Format(timeLayout)
	}
	return out
}

func toDeadTimeDTO(dt *entities.DeadTime) dto.DeadTimeDTO {
	out := dto.DeadTimeDTO{
		ID:          dt.ID,
		OperatorID:  dt.OperatorID,
		Code:        dt.Code,
		CodeName:    dt.CodeName,
		Description: dt.Description,
		ProductID:   dt.ProductID,
		SheetID:     dt.SheetID,
		OrderNumber: dt.OrderNumber,
		SheetNumber: dt.SheetNumber,
		StartTime:   dt.StartTime.Local().Format(timeLayout),
	}
	if dt.EndTime != nil {
		out.EndTime = dt.EndTime.Local().Format(timeLayout)
	}
	return out
}

func toSheetStateDTO(state *entities.SheetState) *dto.SheetStateDTO {
	done := state.DoneByPhase()
	out := &dto.SheetStateDTO{
		ID:          state.Sheet.ID,
		OrderNumber: state.Sheet.OrderNumber,
		SheetNumber: state.Sheet.SheetNumber,
		ProductID:   state.Sheet.ProductID,
		ProductName: state.Sheet.ProductName,
		Quantity:    state.Sheet.Quantity,
		Locked:      state.Locked(),
		Phases:      make([]dto.PhaseProgressDTO, 0, len(state.Phases)),
		Logs:        make([]dto.WorkLogDTO, 0, len(state.Logs)),
		CreatedAt:   state.Sheet.CreatedAt.Local().Format(timeLayout),
	}
	for i := range state.Phases {
		def := &state.Phases[i]
		out.Phases = append(out.Phases, dto.PhaseProgressDTO{
			PhaseID:                   def.PhaseID,
			PhaseName:                 def.PhaseName,
			SequencePosition:          def.SequencePosition,
			SetupTimeSec:              def.SetupTimeSec,
			ProductionTimePerPieceSec: def.ProductionTimePerPieceSec,
			RequiresFind:              def.RequiresFind,
			Done:                      done[def.PhaseID],
			Remaining:                 state.Remaining(def.PhaseID),
			InProgress:                state.InProgress(def.PhaseID),
		})
	}
	for i := range state.Logs {
		out.Logs = append(out.Logs, toWorkLogDTO(&state.Logs[i]))
	}
	return out
}

func stageToState(stage entities.Stage) string {
	switch stage {
	case entities.StageFind:
		return dto.SessionStateFinding
	case entities.StageSetup:
		return dto.SessionStateSettingUp
	case entities.StageProduction:
		return dto.SessionStateProducing
	}
	return dto.SessionStateIdle
}
