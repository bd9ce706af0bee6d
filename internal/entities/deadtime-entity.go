package entities

import "time"

// RequirementTier — что обязан указать оператор при старте простоя с данным кодом.
type RequirementTier string

const (
	RequirementNone           RequirementTier = "none"
	RequirementManualProduct  RequirementTier = "manual-product-required"
	RequirementProductOrSheet RequirementTier = "product-or-sheet-required"
)

// DeadTimeCode — справочник причин простоя.
type DeadTimeCode struct {
	ID          uint64
	Code        string
	Name        string
	Requirement RequirementTier
	CreatedAt   time.Time
}

// DeadTime — сессия непроизводительного времени. Взаимоисключается с открытым
// WorkLog: у оператора в любой момент не больше одной открытой записи вообще.
type DeadTime struct {
	ID          uint64
	OperatorID  uint64
	CodeID      uint64
	Code        string
	CodeName    string
	Description string
	ProductID   *uint64
	SheetID     *uint64
	OrderNumber *string
	SheetNumber *string
	StartTime   time.Time
	EndTime     *time.Time
	CreatedAt   time.Time
}

func (d *DeadTime) IsOpen() bool {
	return d.EndTime == nil
}
