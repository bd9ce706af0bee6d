package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Hub управляет всеми клиентами и рассылкой сообщений
type Hub struct {
	clients         map[*Client]bool
	operatorClients map[uint64][]*Client
	broadcast       chan []byte
	Register        chan *Client
	unregister      chan *Client
	mu              sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:         make(map[*Client]bool),
		operatorClients: make(map[uint64][]*Client),
		broadcast:       make(chan []byte),
		Register:        make(chan *Client),
		unregister:      make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			h.operatorClients[client.OperatorID] = append(h.operatorClients[client.OperatorID], client)
			log.Printf("Клиент зарегистрирован: operatorID %d", client.OperatorID)
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				clients := h.operatorClients[client.OperatorID]
				for i, c := range clients {
					if c == client {
						h.operatorClients[client.OperatorID] = append(clients[:i], clients[i+1:]...)
						break
					}
				}
				if len(h.operatorClients[client.OperatorID]) == 0 {
					delete(h.operatorClients, client.OperatorID)
				}
				log.Printf("Клиент отсоединен: operatorID %d", client.OperatorID)
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast — рассылка всем подключенным: табло цеха одно на всех.
func (h *Hub) Broadcast(payload interface{}, messageType string) error {
	envelope := Envelope{
		EventID:   uuid.NewString(),
		Type:      messageType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}

	messageBytes, err := json.Marshal(envelope)
	if err != nil {
		log.Printf("Ошибка сериализации сообщения для WebSocket: %v", err)
		return err
	}

	h.broadcast <- messageBytes
	return nil
}

// SendMessageToOperator — отправка уведомления конкретному оператору
func (h *Hub) SendMessageToOperator(operatorID uint64, payload interface{}, messageType string) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	envelope := Envelope{
		EventID:   uuid.NewString(),
		Type:      messageType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}

	messageBytes, err := json.Marshal(envelope)
	if err != nil {
		log.Printf("Ошибка сериализации сообщения для WebSocket: %v", err)
		return err
	}

	if clients, ok := h.operatorClients[operatorID]; ok {
		for _, client := range clients {
			client.Send <- messageBytes
		}
	}

	return nil
}
