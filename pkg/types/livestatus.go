package types

import (
	"database/sql"
	"time"
)

// Строки выборок для живого табло цеха.

type OpenWorkRow struct {
	LogID                     uint64
	OperatorID                uint64
	OperatorFio               string
	SheetID                   uint64
	OrderNumber               string
	SheetNumber               string
	PhaseID                   uint64
	PhaseName                 string
	Stage                     string
	StartTime                 time.Time
	TotalQuantity             int
	SetupTimeSec              int64
	ProductionTimePerPieceSec int64
}

type OpenDeadTimeRow struct {
	DeadTimeID  uint64
	OperatorID  uint64
	OperatorFio string
	Code        string
	CodeName    string
	Description string
	StartTime   time.Time
}

// LastActivityRow — последняя закрытая запись оператора (работа или простой).
type LastActivityRow struct {
	OperatorID uint64
	Kind       string // work | deadtime
	Label      string
	EndTime    sql.NullTime
}
