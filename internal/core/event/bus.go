// Package event provides a typed in-process event bus. The engine publishes
// state-change events after each committed batch; the presentation layer
// subscribes to re-render from the latest snapshot.
package event

import (
	"reflect"
	"sync"
)

// Bus dispatches events synchronously to typed handlers. Emission happens on
// the queue's drain path, which is already serialized, so no delivery
// buffering is needed.
type Bus struct {
	mu       sync.RWMutex
	handlers map[reflect.Type][]any
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[reflect.Type][]any)}
}

// Subscribe registers a typed handler for events of type T.
func Subscribe[T any](b *Bus, fn func(T)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.handlers[t] = append(b.handlers[t], fn)
}

// Emit delivers an event to every subscribed handler, in registration order,
// on the caller's goroutine.
func Emit[T any](b *Bus, ev T) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.mu.RLock()
	handlers := b.handlers[t]
	b.mu.RUnlock()
	for _, h := range handlers {
		h.(func(T))(ev)
	}
}
