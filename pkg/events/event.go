package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "CHAT_TURN").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the standard Event implementation.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Event type codes emitted by this service.
const (
	TypeModelStateChanged = "MODEL_STATE_CHANGED"
	TypeChatTurn          = "CHAT_TURN"
	TypeSessionEnded      = "SESSION_ENDED"
	TypeProductEmbedded   = "PRODUCT_EMBEDDED"
)

// NewModelStateChanged records a lifecycle transition of the chat model.
func NewModelStateChanged(model, from, to string) Event {
	return BaseEvent{
		Type: TypeModelStateChanged,
		Data: map[string]interface{}{
			"model": model,
			"from":  from,
			"to":    to,
		},
		OccurredAt: time.Now(),
	}
}

// NewChatTurn records one completed user turn. fallback marks turns
// answered without inference.
func NewChatTurn(sessionKey string, fallback bool, retrievedCount int) Event {
	return BaseEvent{
		Type: TypeChatTurn,
		Data: map[string]interface{}{
			"session_key":     sessionKey,
			"fallback":        fallback,
			"retrieved_count": retrievedCount,
		},
		OccurredAt: time.Now(),
	}
}

func NewSessionEnded(sessionKey string) Event {
	return BaseEvent{
		Type: TypeSessionEnded,
		Data: map[string]interface{}{
			"session_key": sessionKey,
		},
		OccurredAt: time.Now(),
	}
}

func NewProductEmbedded(productId string, chunks int) Event {
	return BaseEvent{
		Type: TypeProductEmbedded,
		Data: map[string]interface{}{
			"product_id": productId,
			"chunks":     chunks,
		},
		OccurredAt: time.Now(),
	}
}
