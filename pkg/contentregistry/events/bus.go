// Package events provides a small in-process publish/subscribe bus used for
// fire-and-forget registry notifications.
package events

import (
	"log/slog"
	"sync"
)

// Handler receives emitted events. Handlers run asynchronously; a panicking
// handler is isolated from the publisher and from other handlers.
type Handler func(event string, payload any)

// Bus is an asynchronous in-process event bus. The zero value is not usable;
// use New.
type Bus struct {
	mu     sync.RWMutex
	subs   map[string][]Handler
	wg     sync.WaitGroup
	logger *slog.Logger
}

// Option represents a functional option for configuring the bus
type Option func(*Bus)

// WithLogger sets the logger used to report subscriber panics
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bus) {
		b.logger = logger
	}
}

// New creates an event bus
func New(options ...Option) *Bus {
	b := &Bus{
		subs:   make(map[string][]Handler),
		logger: slog.Default(),
	}
	for _, option := range options {
		option(b)
	}
	return b
}

// Subscribe registers a handler for an event name.
func (b *Bus) Subscribe(event string, fn Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[event] = append(b.subs[event], fn)
}

// Emit delivers payload to every subscriber of event, each on its own
// goroutine. Emit never blocks on delivery and never reports subscriber
// failures to the caller.
func (b *Bus) Emit(event string, payload any) {
	b.mu.RLock()
	handlers := b.subs[event]
	b.mu.RUnlock()

	for _, fn := range handlers {
		b.wg.Add(1)
		go func(fn Handler) {
			defer b.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					b.logger.Error("event subscriber panicked", "event", event, "panic", r)
				}
			}()
			fn(event, payload)
		}(fn)
	}
}

// Wait blocks until all in-flight deliveries have finished. Intended for
// shutdown and tests.
func (b *Bus) Wait() {
	b.wg.Wait()
}
