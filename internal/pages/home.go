package pages

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/retailpos/backoffice/internal/domain"
	"github.com/retailpos/backoffice/internal/toast"
)

// SummaryAPI is the slice of the POS client the home page needs.
type SummaryAPI interface {
	Summary(ctx context.Context) (domain.DashboardSummary, error)
}

// Home drives the dashboard view. A failed fetch clears any previously shown
// summary rather than displaying stale numbers.
type Home struct {
	api    SummaryAPI
	toasts *toast.Queue
	log    zerolog.Logger

	mu      sync.Mutex
	summary *domain.DashboardSummary
	loading bool
}

func NewHome(summaryAPI SummaryAPI, toasts *toast.Queue, log zerolog.Logger) *Home {
	return &Home{api: summaryAPI, toasts: toasts, log: log}
}

// Load fetches the dashboard summary.
func (p *Home) Load(ctx context.Context) error {
	p.mu.Lock()
	p.loading = true
	p.mu.Unlock()

	summary, err := p.api.Summary(ctx)

	p.mu.Lock()
	p.loading = false
	if err != nil {
		p.summary = nil
	} else {
		p.summary = &summary
	}
	p.mu.Unlock()

	if err != nil {
		p.log.Error().Err(err).Msg("home: summary fetch failed")
		p.toasts.ShowError("Failed to load dashboard summary.")
		return err
	}
	return nil
}

// Summary returns the last loaded summary, or nil when none is available.
func (p *Home) Summary() *domain.DashboardSummary {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.summary
}

// Loading reports whether a summary fetch is in flight.
func (p *Home) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}
