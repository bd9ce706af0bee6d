package dto

type PhaseDTO struct {
	ID   uint64 `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type PhaseDefinitionDTO struct {
	PhaseID                   uint64 `json:"phase_id"`
	PhaseCode                 string `json:"phase_code"`
	PhaseName                 string `json:"phase_name"`
	SequencePosition          int    `json:"sequence_position"`
	SetupTimeSec              int64  `json:"setup_time_sec"`
	ProductionTimePerPieceSec int64  `json:"production_time_per_piece_sec"`
	RequiresFind              bool   `json:"requires_find"`
}

type ProductDTO struct {
	ID      uint64               `json:"id"`
	Name    string               `json:"name"`
	Article string               `json:"article"`
	Phases  []PhaseDefinitionDTO `json:"phases"`
}

// CatalogDTO — статический справочник для терминала оператора.
type CatalogDTO struct {
	Phases        []PhaseDTO        `json:"phases"`
	DeadTimeCodes []DeadTimeCodeDTO `json:"dead_time_codes"`
}
