package entities

import "time"

// Sheet — производственный лист: "сделать N штук изделия P по заказу O".
type Sheet struct {
	ID          uint64
	OrderNumber string
	SheetNumber string
	ProductID   uint64
	ProductName string
	Quantity    int
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// SheetState — лист вместе с замороженным снимком фаз и всеми журналами работ.
// Все производные величины (doneByPhase, remaining) считаются из этого снимка,
// всегда свежезагруженного из БД перед принятием решения.
type SheetState struct {
	Sheet  Sheet
	Phases []PhaseDefinition // отсортированы по SequencePosition
	Logs   []WorkLog
}

func (s *SheetState) PhaseByID(phaseID uint64) (*PhaseDefinition, bool) {
	for i := range s.Phases {
		if s.Phases[i].PhaseID == phaseID {
			return &s.Phases[i], true
		}
	}
	return nil, false
}

// DoneByPhase — сколько штук закрыто по каждой фазе.
// Считаются только ЗАКРЫТЫЕ production-записи: повторное закрытие той же
// записи невозможно (репозиторий закрывает только end_time IS NULL),
// поэтому каждая запись входит в сумму ровно один раз.
func (s *SheetState) DoneByPhase() map[uint64]int {
	done := make(map[uint64]int, len(s.Phases))
	for i := range s.Logs {
		l := &s.Logs[i]
		if l.Stage == StageProduction && !l.IsOpen() {
			done[l.PhaseID] += l.QuantityDone
		}
	}
	return done
}

// InProgress — есть ли открытая production-запись по фазе.
func (s *SheetState) InProgress(phaseID uint64) bool {
	for i := range s.Logs {
		l := &s.Logs[i]
		if l.Stage == StageProduction && l.IsOpen() && l.PhaseID == phaseID {
			return true
		}
	}
	return false
}

// Remaining — сколько штук еще можно запустить в фазе.
// Конвейерное правило: первая фаза ограничена количеством листа,
// каждая следующая — закрытым количеством непосредственного предшественника.
// Неизвестная фаза дает 0.
func (s *SheetState) Remaining(phaseID uint64) int {
	done := s.DoneByPhase()
	for i := range s.Phases {
		if s.Phases[i].PhaseID != phaseID {
			continue
		}
		upstream := s.Sheet.Quantity
		if i > 0 {
			upstream = done[s.Phases[i-1].PhaseID]
		}
		remaining := upstream - done[phaseID]
		if remaining < 0 {
			return 0
		}
		return remaining
	}
	return 0
}

// Locked — по листу уже есть журналы работ: снимок фаз и количество
// менять нельзя.
func (s *SheetState) Locked() bool {
	return len(s.Logs) > 0
}
