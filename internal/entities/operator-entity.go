package entities

import "time"

type Operator struct {
	ID           uint64
	Fio          string
	Login        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}
