package services

// Имена событий шины.
const (
	EventSessionChanged = "session.changed"
)

// SessionChangedEvent публикуется после каждого успешного старта или
// завершения стадии либо простоя. Слушатели (обновление табло) работают
// в фоне и не влияют на результат операции.
type SessionChangedEvent struct {
	OperatorID uint64
	Action     string
}

func (e SessionChangedEvent) Name() string {
	return EventSessionChanged
}
