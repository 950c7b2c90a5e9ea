package events

import (
	"sync"
	"time"
)

// Console event types published by the pipeline. Handlers subscribe by type,
// or to "*" for everything.
const (
	TypePhaseChanged      = "phase.changed"
	TypeTranscriptStatus  = "transcript.status"
	TypeTranscriptPartial = "transcript.partial"
	TypeUtterance         = "transcript.utterance"
	TypeSearchResults     = "search.results"
	TypeSuggestionDelta   = "suggestion.delta"
	TypeSuggestionDone    = "suggestion.completed"
	TypeSpeechAudio       = "speech.audio"
	TypeRunnerStep        = "runner.step"
	TypeCrmUpdated        = "crm.updated"
	TypeError             = "error"
)

// Event system event
type Event struct {
	Type      string                 `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
	Source    string                 `json:"source"`
}

// EventHandler event handler function
type EventHandler func(event Event)

// EventBus fan-out bus for console events. Handlers run synchronously in
// publish order so that subscribers observe phase transitions, transcript
// entries and runner steps in the order they happened.
type EventBus struct {
	handlers map[string][]EventHandler
	mu       sync.RWMutex
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[string][]EventHandler),
	}
}

// Subscribe registers a handler for the given event type.
func (bus *EventBus) Subscribe(eventType string, handler EventHandler) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.handlers[eventType] = append(bus.handlers[eventType], handler)
}

// Unsubscribe removes all handlers for the type.
func (bus *EventBus) Unsubscribe(eventType string) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	delete(bus.handlers, eventType)
}

// Publish delivers the event to all matching handlers, in registration order.
func (bus *EventBus) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	bus.mu.RLock()
	handlers := bus.handlers[event.Type]
	wildcardHandlers := bus.handlers["*"]
	all := make([]EventHandler, 0, len(handlers)+len(wildcardHandlers))
	all = append(all, handlers...)
	all = append(all, wildcardHandlers...)
	bus.mu.RUnlock()

	for _, handler := range all {
		handler(event)
	}
}

// PublishEvent convenience method: publish event
func (bus *EventBus) PublishEvent(eventType string, data map[string]interface{}, source string) {
	bus.Publish(Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
		Source:    source,
	})
}
