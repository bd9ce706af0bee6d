package dto

type WorkLogDTO struct {
	ID                  uint64 `json:"id"`
	OperatorID          uint64 `json:"operator_id"`
	OperatorFio         string `json:"operator_fio,omitempty"`
	SheetID             uint64 `json:"sheet_id"`
	PhaseID             uint64 `json:"phase_id"`
	Stage               string `json:"stage"`
	StartTime           string `json:"start_time"`
	EndTime             string `json:"end_time,omitempty"`
	QuantityDone        int    `json:"quantity_done"`
	TotalQuantity       int    `json:"total_quantity"`
	FindMaterialTimeSec int64  `json:"find_material_time_sec"`
	SetupTimeSec        int64  `json:"setup_time_sec"`
	ProductionTimeSec   int64  `json:"production_time_sec"`
}
