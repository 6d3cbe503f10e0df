package service

import "sync"

// EventType defines the type of event
type EventType string

const (
	EventNodeAdded         EventType = "node_added"
	EventNodeMoved         EventType = "node_moved"
	EventNodeDeleted       EventType = "node_deleted"
	EventCableAdded        EventType = "cable_added"
	EventCableRemoved      EventType = "cable_removed"
	EventNodeConfigured    EventType = "node_configured"
	EventTransitionRefused EventType = "transition_refused"
)

// Event represents something that happened in a lab
type Event struct {
	Type    EventType   `json:"type"`
	Scope   string      `json:"scope,omitempty"` // session id when hosted
	Payload interface{} `json:"payload,omitempty"`
}

// EventBus allows publishing and subscribing to events
type EventBus struct {
	mu          sync.RWMutex
	subscribers []chan<- Event
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make([]chan<- Event, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (eb *EventBus) Subscribe(ch chan<- Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.subscribers = append(eb.subscribers, ch)
}

// Publish sends an event to all subscribers
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	for _, ch := range eb.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is slow, skip
		}
	}
}
