package websocket

import "time"

// Envelope — "конверт" сообщения: тип подсказывает фронтенду, что делать.
type Envelope struct {
	EventID   string      `json:"eventId"`
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

const (
	MessageTypeLiveStatus = "live_status"
)
