package dto

type SheetPhaseInputDTO struct {
	PhaseID                   uint64 `json:"phase_id" validate:"required"`
	SequencePosition          int    `json:"sequence_position" validate:"required,gt=0"`
	SetupTimeSec              int64  `json:"setup_time_sec" validate:"gte=0"`
	ProductionTimePerPieceSec int64  `json:"production_time_per_piece_sec" validate:"gte=0"`
	RequiresFind              bool   `json:"requires_find"`
}

type CreateSheetDTO struct {
	OrderNumber string `json:"order_number" validate:"required"`
	SheetNumber string `json:"sheet_number" validate:"required,sheet_number"`
	ProductID   uint64 `json:"product_id" validate:"required"`
	Quantity    int    `json:"quantity" validate:"required,gt=0"`
}

// UpdateSheetDTO — замена количества и фаз целиком.
// Разрешено только пока по листу нет журналов работ.
type UpdateSheetDTO struct {
	Quantity int                  `json:"quantity" validate:"required,gt=0"`
	Phases   []SheetPhaseInputDTO `json:"phases" validate:"required,min=1,dive"`
}

type PhaseProgressDTO struct {
	PhaseID                   uint64 `json:"phase_id"`
	PhaseName                 string `json:"phase_name"`
	SequencePosition          int    `json:"sequence_position"`
	SetupTimeSec              int64  `json:"setup_time_sec"`
	ProductionTimePerPieceSec int64  `json:"production_time_per_piece_sec"`
	RequiresFind              bool   `json:"requires_find"`
	Done                      int    `json:"done"`
	Remaining                 int    `json:"remaining"`
	InProgress                bool   `json:"in_progress"`
}

type SheetStateDTO struct {
	ID          uint64             `json:"id"`
	OrderNumber string             `json:"order_number"`
	SheetNumber string             `json:"sheet_number"`
	ProductID   uint64             `json:"product_id"`
	ProductName string             `json:"product_name"`
	Quantity    int                `json:"quantity"`
	Locked      bool               `json:"locked"`
	Phases      []PhaseProgressDTO `json:"phases"`
	Logs        []WorkLogDTO       `json:"logs"`
	CreatedAt   string             `json:"created_at"`
}

type SheetShortDTO struct {
	ID          uint64 `json:"id"`
	OrderNumber string `json:"order_number"`
	SheetNumber string `json:"sheet_number"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	CreatedAt   string `json:"created_at"`
}
