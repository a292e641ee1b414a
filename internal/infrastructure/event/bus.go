package event

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/distributor/backend/internal/domain/shared"
)

// InMemoryEventBus is a synchronous in-process event bus. Handlers run in
// the caller's goroutine; a handler error or panic is logged and does not
// stop delivery to the remaining handlers.
type InMemoryEventBus struct {
	registry *HandlerRegistry
	logger   *zap.Logger
	started  atomic.Bool
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		registry: NewHandlerRegistry(),
		logger:   logger.Named("eventbus"),
	}
}

// Publish delivers events to all subscribed handlers
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if !b.started.Load() {
		return fmt.Errorf("event bus is not started")
	}

	for _, evt := range events {
		handlers := b.registry.GetHandlers(evt.EventType())
		if len(handlers) == 0 {
			b.logger.Debug("no handlers for event",
				zap.String("event_type", evt.EventType()),
				zap.String("aggregate_type", evt.AggregateType()),
			)
			continue
		}

		for _, handler := range handlers {
			b.dispatchToHandler(ctx, handler, evt)
		}
	}
	return nil
}

// dispatchToHandler invokes a single handler, converting panics into log entries
func (b *InMemoryEventBus) dispatchToHandler(ctx context.Context, handler shared.EventHandler, evt shared.DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				zap.String("event_type", evt.EventType()),
				zap.String("event_id", evt.EventID().String()),
				zap.Any("panic", r),
				zap.Stack("stacktrace"),
			)
		}
	}()

	if err := handler.Handle(ctx, evt); err != nil {
		b.logger.Error("event handler failed",
			zap.String("event_type", evt.EventType()),
			zap.String("event_id", evt.EventID().String()),
			zap.String("aggregate_id", evt.AggregateID().String()),
			zap.Error(err),
		)
	}
}

// Subscribe registers a handler. When no event types are given, the
// handler's own EventTypes() declaration is used.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
}

// Unsubscribe removes a handler from all subscriptions
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
}

// Start marks the bus as ready to deliver events
func (b *InMemoryEventBus) Start(ctx context.Context) error {
	if !b.started.CompareAndSwap(false, true) {
		return fmt.Errorf("event bus already started")
	}
	b.logger.Info("event bus started")
	return nil
}

// Stop stops event delivery
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	if !b.started.CompareAndSwap(true, false) {
		return fmt.Errorf("event bus is not started")
	}
	b.logger.Info("event bus stopped")
	return nil
}
