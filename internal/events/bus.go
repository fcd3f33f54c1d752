// Package events is a small typed publish/subscribe bus for cross-view
// signaling, replacing ad hoc global event dispatch. The one event today is
// DocumentHighlighted: the chat view publishes it when the user picks a
// citation, and the document view scrolls the named file into focus.
package events

import "sync"

// DocumentHighlighted asks document views to bring a file into focus.
type DocumentHighlighted struct {
	CollectionID string
	Filename     string
	Page         int
}

// Bus dispatches events of type T to all current subscribers, in subscribe
// order, on the publisher's goroutine. Safe for concurrent use.
type Bus[T any] struct {
	mu   sync.Mutex
	subs map[int]func(T)
	next int
}

// NewBus returns an empty bus.
func NewBus[T any]() *Bus[T] {
	return &Bus[T]{subs: make(map[int]func(T))}
}

// Subscribe registers fn and returns a function that removes it again.
// Unsubscribing twice is harmless.
func (b *Bus[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	b.subs[id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

// Publish delivers ev to every subscriber.
func (b *Bus[T]) Publish(ev T) {
	b.mu.Lock()
	fns := make([]func(T), 0, len(b.subs))
	for i := 0; i < b.next; i++ {
		if fn, ok := b.subs[i]; ok {
			fns = append(fns, fn)
		}
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
