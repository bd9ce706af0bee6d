package entities

import (
	"database/sql"
	"time"
)

type ReportFilter struct {
	DateFrom    *time.Time
	DateTo      *time.Time
	OperatorIDs []uint64
	PhaseIDs    []uint64
	Page        int
	PerPage     int
}

// ReportItem — строка выгрузки закрытых журналов работ.
type ReportItem struct {
	LogID               uint64
	OperatorFio         string
	OrderNumber         string
	SheetNumber         string
	ProductName         sql.NullString
	PhaseName           string
	Stage               string
	StartTime           time.Time
	EndTime             sql.NullTime
	QuantityDone        int
	FindMaterialTimeSec int64
	SetupTimeSec        int64
	ProductionTimeSec   int64
}
