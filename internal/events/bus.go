// Package events provides an in-process event bus that decouples the food
// analysis flow from diary persistence and websocket notifications.
package events

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Event is any value that can travel over the bus.
type Event interface {
	EventName() string
}

// Handler processes a published event. Handlers run synchronously on the
// publisher's goroutine; a failing handler does not stop the others.
type Handler func(ctx context.Context, event Event) error

// Bus is an in-memory publish/subscribe bus keyed by event name.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   zerolog.Logger
}

// NewBus creates a new event bus
func NewBus(logger zerolog.Logger) *Bus {
	return &Bus{
		handlers: make(map[string][]Handler),
		logger:   logger,
	}
}

// Subscribe registers a handler for the named event
func (b *Bus) Subscribe(eventName string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventName] = append(b.handlers[eventName], handler)
}

// Publish delivers the event to every subscribed handler. Handler errors and
// panics are logged, not returned: side effects must not fail the originating
// request or stop delivery to the remaining handlers.
func (b *Bus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := b.handlers[event.EventName()]
	b.mu.RUnlock()

	for _, handler := range handlers {
		b.dispatch(ctx, event, handler)
	}
}

func (b *Bus) dispatch(ctx context.Context, event Event, handler Handler) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error().
				Interface("panic", r).
				Str("event", event.EventName()).
				Msg("Event handler panicked")
		}
	}()

	if err := handler(ctx, event); err != nil {
		b.logger.Error().
			Err(err).
			Str("event", event.EventName()).
			Msg("Event handler failed")
	}
}
