package entities

import "time"

type Stage string

const (
	StageFind       Stage = "find"
	StageSetup      Stage = "setup"
	StageProduction Stage = "production"
)

func (s Stage) Valid() bool {
	switch s {
	case StageFind, StageSetup, StageProduction:
		return true
	}
	return false
}

// WorkLog — запись о работе оператора над одной стадией одной фазы листа.
// Создается при старте стадии, мутируется ровно один раз — при закрытии.
// EndTime == nil означает открытую (идущую) стадию.
type WorkLog struct {
	ID         uint64
	OperatorID uint64
	SheetID    uint64
	PhaseID    uint64
	Stage      Stage
	StartTime  time.Time
	EndTime    *time.Time

	// QuantityDone имеет смысл только для stage=production
	QuantityDone  int
	TotalQuantity int

	// Накопленные секунды, заполняются при закрытии
	FindMaterialTimeSec int64
	SetupTimeSec        int64
	ProductionTimeSec   int64

	CreatedAt time.Time
}

func (w *WorkLog) IsOpen() bool {
	return w.EndTime == nil
}
