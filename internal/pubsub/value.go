// Package pubsub implements a minimal synchronous observable value, the
// backbone of session, toast and page-controller state propagation.
package pubsub

import "sync"

// Value holds a current value of type T and notifies registered listeners
// synchronously whenever it is set. It is the single propagation mechanism in
// this codebase; consumers must release their subscription when torn down.
type Value[T any] struct {
	mu        sync.Mutex
	current   T
	nextID    int
	listeners map[int]func(T)
}

// NewValue returns a Value seeded with initial. Subscribers registered later
// receive the current value immediately on subscription.
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{current: initial, listeners: make(map[int]func(T))}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Set stores next and notifies every listener with it. Listeners are invoked
// synchronously on the caller's goroutine, outside the internal lock, so a
// listener may itself call Get, Set or Subscribe.
func (v *Value[T]) Set(next T) {
	v.mu.Lock()
	v.current = next
	fns := make([]func(T), 0, len(v.listeners))
	for _, fn := range v.listeners {
		fns = append(fns, fn)
	}
	v.mu.Unlock()

	for _, fn := range fns {
		fn(next)
	}
}

// Subscribe registers fn, immediately invokes it with the current value, and
// returns a release function. Releasing twice is harmless.
func (v *Value[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.listeners[id] = fn
	cur := v.current
	v.mu.Unlock()

	fn(cur)

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			delete(v.listeners, id)
			v.mu.Unlock()
		})
	}
}
