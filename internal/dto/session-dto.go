package dto

import "github.com/aarondl/null/v8"

// Действия диалога принудительного завершения предыдущей стадии.
const (
	ResolutionFull    = "full"
	ResolutionPartial = "partial"
	ResolutionAbort   = "abort"
)

// ResolutionDTO — решение оператора по уже открытой стадии,
// обнаруженной при попытке начать новую.
type ResolutionDTO struct {
	Action       string   `json:"action" validate:"required,oneof=full partial abort"`
	QuantityDone null.Int `json:"quantity_done" validate:"omitempty,gt=0"`
}

type StartStageDTO struct {
	SheetID    uint64         `json:"sheet_id" validate:"required"`
	PhaseID    uint64         `json:"phase_id" validate:"required"`
	Stage      string         `json:"stage" validate:"required,oneof=find setup production"`
	Resolution *ResolutionDTO `json:"resolution" validate:"omitempty"`
}

type FinishStageDTO struct {
	// ContinueNext: find → сразу открыть setup. Для setup переход в production
	// обязателен и флага не требует.
	ContinueNext bool `json:"continue_next"`

	// Для production: Full — закрыть на всё remaining, иначе частичное
	// количество в QuantityDone.
	Full         bool     `json:"full"`
	QuantityDone null.Int `json:"quantity_done" validate:"omitempty,gt=0"`
}

// Состояния машины сессии.
const (
	SessionStateIdle       = "idle"
	SessionStateFinding    = "finding"
	SessionStateSettingUp  = "setting_up"
	SessionStateProducing  = "producing"
	SessionStateDeadTime   = "dead_time"
	SessionStateOtherSheet = "other_sheet"
)

// SessionSnapshotDTO — восстановленное с сервера состояние сессии оператора.
// ElapsedSeconds всегда считается как now − startTime записи в БД,
// локальные счетчики клиента не участвуют.
type SessionSnapshotDTO struct {
	State          string       `json:"state"`
	Record         *WorkLogDTO  `json:"record,omitempty"`
	DeadTime       *DeadTimeDTO `json:"dead_time,omitempty"`
	ElapsedSeconds int64        `json:"elapsed_seconds"`
	Remaining      int          `json:"remaining"`

	// Запись, закрытая этим же запросом (full/partial решение, завершение
	// производства): терминал подтверждает зафиксированное количество
	// без дополнительного запроса текущего состояния.
	LastClosed *WorkLogDTO `json:"last_closed,omitempty"`

	// Открытая запись висит на другом листе: работу на отсканированном
	// листе нужно заблокировать, оператор должен вернуться к тому листу.
	BlockingSheetID     uint64 `json:"blocking_sheet_id,omitempty"`
	BlockingOrderNumber string `json:"blocking_order_number,omitempty"`
	BlockingSheetNumber string `json:"blocking_sheet_number,omitempty"`
}

// OpenSessionDetailsDTO — тело ConflictError: из него фронт строит диалог
// "завершить полностью / завершить частично / отменить".
type OpenSessionDetailsDTO struct {
	Record      WorkLogDTO `json:"record"`
	OrderNumber string     `json:"order_number"`
	SheetNumber string     `json:"sheet_number"`
	PhaseName   string     `json:"phase_name"`
	Remaining   int        `json:"remaining"`
}
