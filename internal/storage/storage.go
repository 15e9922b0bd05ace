// Package storage provides the durable key-value repository backing the
// local collections. Callers depend on the Repository interface so tests
// can substitute the in-memory implementation.
package storage

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Get when no value exists for a key.
var ErrNotFound = errors.New("storage: key not found")

// Repository is a durable key-value store. Set must flush synchronously:
// once it returns, a fresh process reading the same key observes the new
// value. Subscribe registers an in-process callback invoked after every
// successful Set of the watched key; the returned function cancels it.
//
// Concurrent writers from other processes are not coordinated.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Subscribe(key string, fn func(value []byte)) (cancel func())
}

// notifier implements Subscribe fan-out for repository implementations.
type notifier struct {
	mu   sync.Mutex
	next int
	subs map[string]map[int]func([]byte)
}

func (n *notifier) Subscribe(key string, fn func([]byte)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.subs == nil {
		n.subs = make(map[string]map[int]func([]byte))
	}
	if n.subs[key] == nil {
		n.subs[key] = make(map[int]func([]byte))
	}
	id := n.next
	n.next++
	n.subs[key][id] = fn

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs[key], id)
	}
}

func (n *notifier) notify(key string, value []byte) {
	n.mu.Lock()
	fns := make([]func([]byte), 0, len(n.subs[key]))
	for _, fn := range n.subs[key] {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn(value)
	}
}
