// Package realtime delivers table-change notifications. A notification
// carries no payload beyond the table name: consumers are expected to
// re-query in full, never to merge deltas. Publishing is fire-and-forget —
// a lost notification costs one refresh, nothing else.
package realtime

import (
	"context"
	"sync"
)

// Notifier is the subscription abstraction over change notifications.
type Notifier interface {
	// Publish announces that rows in the given table changed.
	Publish(ctx context.Context, table string)

	// Subscribe registers a callback for changes to the given table and
	// returns an unsubscribe function.
	Subscribe(table string, fn func(table string)) (unsubscribe func())

	// Close releases any underlying connections.
	Close() error
}

// Bus is the in-process Notifier. It backs tests and deployments without
// Redis; with a single API replica it is fully equivalent.
type Bus struct {
	mu   sync.RWMutex
	subs map[string]map[int]func(string)
	next int
}

// NewBus creates an in-process notifier
func NewBus() *Bus {
	return &Bus{subs: make(map[string]map[int]func(string))}
}

// Publish invokes subscribers synchronously in the caller's goroutine
func (b *Bus) Publish(_ context.Context, table string) {
	b.mu.RLock()
	fns := make([]func(string), 0, len(b.subs[table]))
	for _, fn := range b.subs[table] {
		fns = append(fns, fn)
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(table)
	}
}

// Subscribe registers a callback for a table
func (b *Bus) Subscribe(table string, fn func(table string)) func() {
	b.mu.Lock()
	if b.subs[table] == nil {
		b.subs[table] = make(map[int]func(string))
	}
	id := b.next
	b.next++
	b.subs[table][id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs[table], id)
		b.mu.Unlock()
	}
}

// Close is a no-op for the in-process bus
func (b *Bus) Close() error {
	return nil
}
