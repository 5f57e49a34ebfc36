package listview

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailpos/backoffice/internal/domain"
	"github.com/retailpos/backoffice/internal/toast"
)

func fastDelays() Delays {
	return Delays{Overlay: 30 * time.Millisecond, Reveal: 20 * time.Millisecond, ErrorHide: 15 * time.Millisecond}
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting: %s", msg)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestFetch_SuccessSwapsRowsAfterReveal(t *testing.T) {
	toasts := toast.NewQueue()
	defer toasts.Close()

	c := New("clients", func(ctx context.Context, page, size int) (domain.Page[string], error) {
		return domain.Page[string]{Content: []string{"a", "b"}, TotalPages: 1, TotalElements: 2}, nil
	}, 10, toasts, "Could not load clients.", zerolog.Nop())
	defer c.Close()
	c.SetDelays(fastDelays())

	c.Fetch(context.Background())

	// Response has arrived, but rows are staged until the reveal delay.
	snap := c.Snapshot()
	assert.False(t, snap.Loading)
	assert.True(t, snap.ShowSkeleton)
	assert.Empty(t, snap.Rows)

	waitFor(t, func() bool { return len(c.Snapshot().Rows) == 2 }, "rows swapped")
	snap = c.Snapshot()
	assert.False(t, snap.ShowSkeleton)
	require.NotNil(t, snap.Pagination)
	assert.Equal(t, 2, snap.Pagination.TotalElements)
}

func TestFetch_ClampsPageWithoutRefetch(t *testing.T) {
	toasts := toast.NewQueue()
	defer toasts.Close()

	var calls atomic.Int32
	c := New("clients", func(ctx context.Context, page, size int) (domain.Page[string], error) {
		calls.Add(1)
		return domain.Page[string]{Content: nil, TotalPages: 3, TotalElements: 21}, nil
	}, 10, toasts, "Could not load clients.", zerolog.Nop())
	defer c.Close()
	c.SetDelays(fastDelays())

	// An out-of-range index can arise when the last row of the last page was
	// deleted between fetches; set it directly since GoToPage guards by the
	// previous pagination.
	c.mu.Lock()
	c.page = 5
	c.mu.Unlock()

	c.Fetch(context.Background())
	waitFor(t, func() bool { return !c.Snapshot().ShowSkeleton }, "cycle finished")

	assert.Equal(t, 2, c.Page(), "page must clamp to totalPages-1")
	assert.Equal(t, int32(1), calls.Load(), "clamping must not refetch")
}

func TestFetch_OverlayOnlyWhenSlow(t *testing.T) {
	toasts := toast.NewQueue()
	defer toasts.Close()

	block := make(chan struct{})
	c := New("products", func(ctx context.Context, page, size int) (domain.Page[int], error) {
		<-block
		return domain.Page[int]{TotalPages: 1}, nil
	}, 10, toasts, "Could not load products.", zerolog.Nop())
	defer c.Close()
	c.SetDelays(fastDelays())

	sawOverlay := false
	release := c.Subscribe(func(s State[int]) {
		if s.ShowOverlay {
			sawOverlay = true
		}
	})
	defer release()

	done := make(chan struct{})
	go func() {
		c.Fetch(context.Background())
		close(done)
	}()

	waitFor(t, func() bool { return c.Snapshot().ShowOverlay }, "overlay shown for slow fetch")
	close(block)
	<-done

	assert.True(t, sawOverlay)
	waitFor(t, func() bool { return !c.Snapshot().ShowOverlay }, "overlay cleared on arrival")
}

func TestFetch_FastResponseNeverShowsOverlay(t *testing.T) {
	toasts := toast.NewQueue()
	defer toasts.Close()

	c := New("products", func(ctx context.Context, page, size int) (domain.Page[int], error) {
		return domain.Page[int]{TotalPages: 1}, nil
	}, 10, toasts, "Could not load products.", zerolog.Nop())
	defer c.Close()
	c.SetDelays(Delays{Overlay: 80 * time.Millisecond, Reveal: 10 * time.Millisecond, ErrorHide: 10 * time.Millisecond})

	sawOverlay := false
	release := c.Subscribe(func(s State[int]) {
		if s.ShowOverlay {
			sawOverlay = true
		}
	})
	defer release()

	c.Fetch(context.Background())
	time.Sleep(150 * time.Millisecond)

	assert.False(t, sawOverlay, "overlay must not flash for fast responses")
}

func TestFetch_FailureClearsRowsAndNotifies(t *testing.T) {
	toasts := toast.NewQueue()
	defer toasts.Close()

	failing := errors.New("boom")
	ok := true
	c := New("orders", func(ctx context.Context, page, size int) (domain.Page[string], error) {
		if ok {
			return domain.Page[string]{Content: []string{"row"}, TotalPages: 1, TotalElements: 1}, nil
		}
		return domain.Page[string]{}, failing
	}, 10, toasts, "Could not load orders.", zerolog.Nop())
	defer c.Close()
	c.SetDelays(fastDelays())

	c.Fetch(context.Background())
	waitFor(t, func() bool { return len(c.Snapshot().Rows) == 1 }, "initial rows")

	ok = false
	c.Fetch(context.Background())
	waitFor(t, func() bool { return !c.Snapshot().ShowSkeleton }, "error cycle finished")

	snap := c.Snapshot()
	assert.Empty(t, snap.Rows, "failure must leave the empty state")
	assert.Nil(t, snap.Pagination)
	assert.False(t, snap.Loading)

	entries := toasts.Entries()
	require.NotEmpty(t, entries)
	assert.Equal(t, "Could not load orders.", entries[0].Message)
	assert.Equal(t, toast.KindError, entries[0].Kind)
}

func TestFetch_PageZeroClearsStaleRows(t *testing.T) {
	toasts := toast.NewQueue()
	defer toasts.Close()

	block := make(chan struct{})
	first := true
	c := New("clients", func(ctx context.Context, page, size int) (domain.Page[string], error) {
		if first {
			first = false
			return domain.Page[string]{Content: []string{"stale"}, TotalPages: 1, TotalElements: 1}, nil
		}
		<-block
		return domain.Page[string]{TotalPages: 1}, nil
	}, 10, toasts, "Could not load clients.", zerolog.Nop())
	defer c.Close()
	c.SetDelays(fastDelays())

	c.Fetch(context.Background())
	waitFor(t, func() bool { return len(c.Snapshot().Rows) == 1 }, "stale rows in place")

	done := make(chan struct{})
	go func() {
		c.Fetch(context.Background())
		close(done)
	}()
	waitFor(t, func() bool { return len(c.Snapshot().Rows) == 0 }, "page-0 fetch clears rows immediately")
	close(block)
	<-done
}

func TestGoToPage_Bounds(t *testing.T) {
	toasts := toast.NewQueue()
	defer toasts.Close()

	c := New("clients", func(ctx context.Context, page, size int) (domain.Page[string], error) {
		return domain.Page[string]{TotalPages: 2, TotalElements: 12}, nil
	}, 10, toasts, "err", zerolog.Nop())
	defer c.Close()
	c.SetDelays(fastDelays())

	c.Fetch(context.Background())
	waitFor(t, func() bool { return c.Snapshot().Pagination != nil }, "pagination known")

	assert.False(t, c.GoToPage(-1))
	assert.False(t, c.GoToPage(2), "page index equal to totalPages is out of range")
	assert.True(t, c.GoToPage(1))
	assert.Equal(t, 1, c.Page())

	c.ResetPage()
	assert.Equal(t, 0, c.Page())
}
