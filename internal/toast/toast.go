// Package toast implements the ordered queue of transient user notifications.
// Entries auto-dismiss after a duration, then linger briefly in a "closing"
// state so the front-end can play an exit animation before the entry is
// purged.
package toast

import (
	"sync"
	"time"

	"github.com/retailpos/backoffice/internal/metrics"
	"github.com/retailpos/backoffice/internal/pubsub"
)

// Kind distinguishes success from error notifications.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

const (
	// DefaultDuration is how long an entry is shown before removal starts.
	DefaultDuration = 3600 * time.Millisecond
	// closeGrace is how long a closing entry stays visible for its exit
	// animation before being purged.
	closeGrace = 400 * time.Millisecond
)

// Entry is one notification. Closing flips true when removal begins.
type Entry struct {
	ID      int
	Message string
	Kind    Kind
	Closing bool
}

// Queue holds the visible notifications, newest first.
type Queue struct {
	mu      sync.Mutex
	entries []Entry
	nextID  int
	timers  map[int]*time.Timer

	state *pubsub.Value[[]Entry]
}

func NewQueue() *Queue {
	return &Queue{
		timers: make(map[int]*time.Timer),
		state:  pubsub.NewValue[[]Entry](nil),
	}
}

// ShowSuccess enqueues a success notification. A zero duration means
// DefaultDuration.
func (q *Queue) ShowSuccess(message string, duration ...time.Duration) int {
	return q.add(message, KindSuccess, optional(duration))
}

// ShowError enqueues an error notification. A zero duration means
// DefaultDuration.
func (q *Queue) ShowError(message string, duration ...time.Duration) int {
	return q.add(message, KindError, optional(duration))
}

func optional(d []time.Duration) time.Duration {
	if len(d) > 0 && d[0] > 0 {
		return d[0]
	}
	return DefaultDuration
}

func (q *Queue) add(message string, kind Kind, duration time.Duration) int {
	q.mu.Lock()
	id := q.nextID
	q.nextID++
	// Newest entry is displayed first.
	q.entries = append([]Entry{{ID: id, Message: message, Kind: kind}}, q.entries...)
	q.timers[id] = time.AfterFunc(duration, func() { q.Remove(id) })
	q.mu.Unlock()

	metrics.ToastsShownTotal.WithLabelValues(string(kind)).Inc()
	q.publish()
	return id
}

// Remove begins the removal of the entry with the given id: it is marked
// closing, republished, and purged after the grace period. Calling Remove on
// an absent or already-closing id is a no-op.
func (q *Queue) Remove(id int) {
	q.mu.Lock()
	idx := -1
	for i := range q.entries {
		if q.entries[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 || q.entries[idx].Closing {
		q.mu.Unlock()
		return
	}
	q.entries[idx].Closing = true
	if t, ok := q.timers[id]; ok {
		t.Stop()
		delete(q.timers, id)
	}
	q.timers[id] = time.AfterFunc(closeGrace, func() { q.purge(id) })
	q.mu.Unlock()

	q.publish()
}

func (q *Queue) purge(id int) {
	q.mu.Lock()
	kept := q.entries[:0]
	for _, e := range q.entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	q.entries = kept
	delete(q.timers, id)
	q.mu.Unlock()

	q.publish()
}

// Entries returns a snapshot of the visible entries, newest first.
func (q *Queue) Entries() []Entry {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Entry, len(q.entries))
	copy(out, q.entries)
	return out
}

// Subscribe registers a listener for queue changes and returns its release
// function.
func (q *Queue) Subscribe(fn func([]Entry)) func() {
	return q.state.Subscribe(fn)
}

// Close cancels all pending timers. Entries are left as-is; the queue is no
// longer usable afterwards.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for id, t := range q.timers {
		t.Stop()
		delete(q.timers, id)
	}
}

func (q *Queue) publish() {
	q.state.Set(q.Entries())
}
