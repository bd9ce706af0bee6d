package entities

import "time"

// Phase — запись справочника фаз (резка, сборка и т.д.)
type Phase struct {
	ID        uint64
	Code      string
	Name      string
	CreatedAt time.Time
}

// PhaseDefinition — фаза в составе техпроцесса изделия.
// SequencePosition уникальна внутри изделия и задает строгий порядок фаз.
type PhaseDefinition struct {
	PhaseID                   uint64
	PhaseCode                 string
	PhaseName                 string
	SequencePosition          int
	SetupTimeSec              int64
	ProductionTimePerPieceSec int64
	RequiresFind              bool
}

// Product — изделие с шаблоном техпроцесса. Шаблон копируется в лист
// при его создании; дальнейшие правки шаблона на лист не влияют.
type Product struct {
	ID        uint64
	Name      string
	Article   string
	Phases    []PhaseDefinition
	CreatedAt time.Time
}
