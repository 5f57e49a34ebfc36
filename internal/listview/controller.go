// Package listview implements the fetch/transition choreography shared by
// every paginated list page: a skeleton shown immediately, a heavier loader
// overlay only when the request is slow, and a short staged reveal so exit
// animations can finish before new rows appear.
package listview

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/retailpos/backoffice/internal/domain"
	"github.com/retailpos/backoffice/internal/metrics"
	"github.com/retailpos/backoffice/internal/pubsub"
	"github.com/retailpos/backoffice/internal/toast"
)

// Delays are the choreography constants. The defaults match the values the
// pages were tuned with.
type Delays struct {
	// Overlay is how long a request may run before the loader overlay shows.
	Overlay time.Duration
	// Reveal is the pause between response arrival and the row swap.
	Reveal time.Duration
	// ErrorHide is the pause before the skeleton hides after a failure.
	ErrorHide time.Duration
}

// DefaultDelays returns the standard choreography timings.
func DefaultDelays() Delays {
	return Delays{
		Overlay:   180 * time.Millisecond,
		Reveal:    160 * time.Millisecond,
		ErrorHide: 120 * time.Millisecond,
	}
}

// FetchFunc loads one page of rows.
type FetchFunc[T any] func(ctx context.Context, page, size int) (domain.Page[T], error)

// State is a snapshot of everything a list view renders.
type State[T any] struct {
	Rows         []T
	Pagination   *domain.Page[T]
	Page         int
	Loading      bool
	ShowSkeleton bool
	ShowOverlay  bool
}

// Controller orchestrates filter-independent pagination and loading state for
// one list page. Filters live in the page controller and are baked into the
// FetchFunc. Fetch cycles are not fenced: when two overlap, the last response
// to arrive determines the displayed rows.
type Controller[T any] struct {
	name     string
	fetch    FetchFunc[T]
	toasts   *toast.Queue
	log      zerolog.Logger
	errMsg   string
	delays   Delays
	pageSize int

	mu           sync.Mutex
	page         int
	rows         []T
	pagination   *domain.Page[T]
	loading      bool
	showSkeleton bool
	showOverlay  bool
	staged       *domain.Page[T]
	overlayTimer *time.Timer
	revealTimer  *time.Timer
	closed       bool

	state *pubsub.Value[State[T]]
}

// New returns a Controller for one list page. name labels metrics; errMsg is
// the notification shown when a fetch fails.
func New[T any](name string, fetch FetchFunc[T], pageSize int, toasts *toast.Queue, errMsg string, log zerolog.Logger) *Controller[T] {
	c := &Controller[T]{
		name:     name,
		fetch:    fetch,
		toasts:   toasts,
		log:      log,
		errMsg:   errMsg,
		delays:   DefaultDelays(),
		pageSize: pageSize,
	}
	c.state = pubsub.NewValue(c.snapshotLocked())
	return c
}

// SetDelays overrides the choreography timings. Intended for tests.
func (c *Controller[T]) SetDelays(d Delays) {
	c.mu.Lock()
	c.delays = d
	c.mu.Unlock()
}

// Fetch runs one fetch cycle for the current page. It blocks until the
// response arrives; the row swap itself happens after the reveal delay.
func (c *Controller[T]) Fetch(ctx context.Context) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.loading = true
	c.showSkeleton = true
	c.showOverlay = false
	c.staged = nil
	c.stopTimersLocked()

	// Rows from a previous filter would be misleading on a fresh page.
	if c.page == 0 {
		c.rows = nil
		c.pagination = nil
	}

	delays := c.delays
	page, size := c.page, c.pageSize
	c.overlayTimer = time.AfterFunc(delays.Overlay, func() {
		c.mu.Lock()
		if c.loading && !c.closed {
			c.showOverlay = true
		}
		c.mu.Unlock()
		c.publish()
	})
	c.mu.Unlock()
	c.publish()

	result, err := c.fetch(ctx, page, size)
	if err != nil {
		metrics.ListFetchesTotal.WithLabelValues(c.name, "error").Inc()
		c.onFailure(err)
		return
	}
	metrics.ListFetchesTotal.WithLabelValues(c.name, "ok").Inc()
	c.onSuccess(result)
}

func (c *Controller[T]) onSuccess(result domain.Page[T]) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.overlayTimer != nil {
		c.overlayTimer.Stop()
		c.overlayTimer = nil
	}
	c.showOverlay = false
	c.loading = false
	c.staged = &result

	reveal := c.delays.Reveal
	c.revealTimer = time.AfterFunc(reveal, func() {
		c.mu.Lock()
		if c.staged != nil && !c.closed {
			staged := c.staged
			c.rows = staged.Content
			c.pagination = staged
			// The last row of the last page may have been deleted; clamp the
			// index so the next explicit fetch lands in range. No automatic
			// refetch.
			if staged.TotalPages > 0 && c.page >= staged.TotalPages {
				c.page = staged.TotalPages - 1
				if c.page < 0 {
					c.page = 0
				}
			}
			c.staged = nil
		}
		c.showSkeleton = false
		c.mu.Unlock()
		c.publish()
	})
	c.mu.Unlock()
	c.publish()
}

func (c *Controller[T]) onFailure(err error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.overlayTimer != nil {
		c.overlayTimer.Stop()
		c.overlayTimer = nil
	}
	c.showOverlay = false
	c.loading = false
	c.rows = nil
	c.pagination = nil

	hide := c.delays.ErrorHide
	c.revealTimer = time.AfterFunc(hide, func() {
		c.mu.Lock()
		c.showSkeleton = false
		c.mu.Unlock()
		c.publish()
	})
	c.mu.Unlock()

	c.log.Error().Err(err).Str("page", c.name).Msg("list fetch failed")
	c.toasts.ShowError(c.errMsg)
	c.publish()
}

// Page returns the current zero-based page index.
func (c *Controller[T]) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// GoToPage moves to the given page when it is in range. The caller still
// triggers the fetch.
func (c *Controller[T]) GoToPage(page int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if page < 0 {
		return false
	}
	if c.pagination != nil && page >= c.pagination.TotalPages {
		return false
	}
	c.page = page
	return true
}

// ResetPage returns to page zero, typically when filters change.
func (c *Controller[T]) ResetPage() {
	c.mu.Lock()
	c.page = 0
	c.mu.Unlock()
}

// Snapshot returns the current view state.
func (c *Controller[T]) Snapshot() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe registers a listener for state changes and returns its release
// function.
func (c *Controller[T]) Subscribe(fn func(State[T])) func() {
	return c.state.Subscribe(fn)
}

// Close cancels pending choreography timers. The controller ignores any
// late responses afterwards.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	c.closed = true
	c.stopTimersLocked()
	c.mu.Unlock()
}

func (c *Controller[T]) stopTimersLocked() {
	if c.overlayTimer != nil {
		c.overlayTimer.Stop()
		c.overlayTimer = nil
	}
	if c.revealTimer != nil {
		c.revealTimer.Stop()
		c.revealTimer = nil
	}
}

func (c *Controller[T]) snapshotLocked() State[T] {
	return State[T]{
		Rows:         c.rows,
		Pagination:   c.pagination,
		Page:         c.page,
		Loading:      c.loading,
		ShowSkeleton: c.showSkeleton,
		ShowOverlay:  c.showOverlay,
	}
}

func (c *Controller[T]) publish() {
	c.mu.Lock()
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.state.Set(snap)
}
