package dto

import "github.com/aarondl/null/v8"

type StartDeadTimeDTO struct {
	Code        string      `json:"code" validate:"required,deadtime_code"`
	Description string      `json:"description" validate:"max=500"`
	ProductID   null.Uint64 `json:"product_id"`
	SheetID     null.Uint64 `json:"sheet_id"`
}

type DeadTimeDTO struct {
	ID          uint64  `json:"id"`
	OperatorID  uint64  `json:"operator_id"`
	OperatorFio string  `json:"operator_fio,omitempty"`
	Code        string  `json:"code"`
	CodeName    string  `json:"code_name"`
	Description string  `json:"description,omitempty"`
	ProductID   *uint64 `json:"product_id,omitempty"`
	SheetID     *uint64 `json:"sheet_id,omitempty"`
	OrderNumber *string `json:"order_number,omitempty"`
	SheetNumber *string `json:"sheet_number,omitempty"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time,omitempty"`
}

type DeadTimeCodeDTO struct {
	ID          uint64 `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Requirement string `json:"requirement"`
}
