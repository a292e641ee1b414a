package event

import (
	"sync"

	"github.com/distributor/backend/internal/domain/shared"
)

// HandlerRegistry maps event types to their subscribed handlers.
// Handlers registered with no event types receive every event.
type HandlerRegistry struct {
	mu       sync.RWMutex
	handlers map[string][]shared.EventHandler
	catchAll []shared.EventHandler
}

// NewHandlerRegistry creates an empty handler registry
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{
		handlers: make(map[string][]shared.EventHandler),
	}
}

// Register subscribes a handler to the given event types
func (r *HandlerRegistry) Register(handler shared.EventHandler, eventTypes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(eventTypes) == 0 {
		r.catchAll = append(r.catchAll, handler)
		return
	}
	for _, eventType := range eventTypes {
		r.handlers[eventType] = append(r.handlers[eventType], handler)
	}
}

// Unregister removes a handler from all subscriptions
func (r *HandlerRegistry) Unregister(handler shared.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for eventType, list := range r.handlers {
		r.handlers[eventType] = removeHandler(list, handler)
	}
	r.catchAll = removeHandler(r.catchAll, handler)
}

// GetHandlers returns the handlers subscribed to an event type,
// including catch-all handlers
func (r *HandlerRegistry) GetHandlers(eventType string) []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	specific := r.handlers[eventType]
	result := make([]shared.EventHandler, 0, len(specific)+len(r.catchAll))
	result = append(result, specific...)
	result = append(result, r.catchAll...)
	return result
}

func removeHandler(list []shared.EventHandler, handler shared.EventHandler) []shared.EventHandler {
	out := list[:0]
	for _, h := range list {
		if h != handler {
			out = append(out, h)
		}
	}
	return out
}
