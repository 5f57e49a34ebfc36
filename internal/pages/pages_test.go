package pages

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/retailpos/backoffice/internal/listview"
	"github.com/retailpos/backoffice/internal/toast"
)

func fastDelays() listview.Delays {
	return listview.Delays{
		Overlay:   30 * time.Millisecond,
		Reveal:    5 * time.Millisecond,
		ErrorHide: 5 * time.Millisecond,
	}
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

func toastMessages(q *toast.Queue) []string {
	var out []string
	for _, e := range q.Entries() {
		out = append(out, e.Message)
	}
	return out
}

type fakeNav struct {
	visited []string
}

func (n *fakeNav) Navigate(_ context.Context, name string) string {
	n.visited = append(n.visited, name)
	return name
}

type fakeSaver struct {
	names []string
	data  [][]byte
	fail  bool
}

func (s *fakeSaver) Save(name string, data []byte) (string, error) {
	if s.fail {
		return "", errSaveFailed
	}
	s.names = append(s.names, name)
	s.data = append(s.data, data)
	return "/downloads/" + name, nil
}

var errSaveFailed = errors.New("save failed")
