package dto

// ActiveEntryDTO — оператор с открытой рабочей стадией.
type ActiveEntryDTO struct {
	OperatorID     uint64 `json:"operator_id"`
	OperatorFio    string `json:"operator_fio"`
	SheetID        uint64 `json:"sheet_id"`
	OrderNumber    string `json:"order_number"`
	SheetNumber    string `json:"sheet_number"`
	PhaseID        uint64 `json:"phase_id"`
	PhaseName      string `json:"phase_name"`
	Stage          string `json:"stage"`
	StartTime      string `json:"start_time"`
	RunningSeconds int64  `json:"running_seconds"`
	PlannedSeconds int64  `json:"planned_seconds"`
	IsOverrun      bool   `json:"is_overrun"`
}

// DeadTimeEntryDTO — оператор в простое.
type DeadTimeEntryDTO struct {
	OperatorID     uint64 `json:"operator_id"`
	OperatorFio    string `json:"operator_fio"`
	Code           string `json:"code"`
	CodeName       string `json:"code_name"`
	Description    string `json:"description,omitempty"`
	StartTime      string `json:"start_time"`
	RunningSeconds int64  `json:"running_seconds"`
}

// IdleEntryDTO — оператор без открытых записей; LastKind помечает,
// чем он занимался в последний раз: work | deadtime | none.
type IdleEntryDTO struct {
	OperatorID  uint64 `json:"operator_id"`
	OperatorFio string `json:"operator_fio"`
	LastKind    string `json:"last_kind"`
	LastLabel   string `json:"last_label,omitempty"`
	LastEndTime string `json:"last_end_time,omitempty"`
	IdleSeconds int64  `json:"idle_seconds"`
}

type LiveStatusDTO struct {
	Active      []ActiveEntryDTO   `json:"active"`
	DeadTime    []DeadTimeEntryDTO `json:"dead_time"`
	Idle        []IdleEntryDTO     `json:"idle"`
	GeneratedAt string             `json:"generated_at"`
}
