package pages

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/retailpos/backoffice/internal/domain"
	"github.com/retailpos/backoffice/internal/forms"
	"github.com/retailpos/backoffice/internal/listview"
	"github.com/retailpos/backoffice/internal/toast"
)

// ClientAPI is the slice of the POS client the clients page needs.
type ClientAPI interface {
	ListClients(ctx context.Context, clientName string, page, size int) (domain.Page[domain.Client], error)
	CreateClient(ctx context.Context, form domain.ClientForm) (domain.Client, error)
	UpdateClient(ctx context.Context, id int64, form domain.ClientForm) (domain.Client, error)
}

// Clients drives the client list view. The search box holds a typed value
// that only becomes the active filter when applied, so paging keeps using the
// filter the rows were fetched with.
type Clients struct {
	api      ClientAPI
	toasts   *toast.Queue
	validate *forms.Validator
	log      zerolog.Logger

	List *listview.Controller[domain.Client]

	mu           sync.Mutex
	typedSearch  string
	activeSearch string
}

func NewClients(clientAPI ClientAPI, pageSize int, toasts *toast.Queue, log zerolog.Logger) *Clients {
	p := &Clients{
		api:      clientAPI,
		toasts:   toasts,
		validate: forms.NewValidator(),
		log:      log,
	}
	p.List = listview.New("clients", p.fetchPage, pageSize, toasts, "Failed to load clients.", log)
	return p
}

func (p *Clients) fetchPage(ctx context.Context, page, size int) (domain.Page[domain.Client], error) {
	p.mu.Lock()
	search := p.activeSearch
	p.mu.Unlock()
	return p.api.ListClients(ctx, search, page, size)
}

// SetSearch records the search box value without applying it.
func (p *Clients) SetSearch(term string) {
	p.mu.Lock()
	p.typedSearch = term
	p.mu.Unlock()
}

// ApplyFilter promotes the typed search term to the active filter and
// refetches from the first page.
func (p *Clients) ApplyFilter(ctx context.Context) {
	p.mu.Lock()
	p.activeSearch = strings.TrimSpace(p.typedSearch)
	p.mu.Unlock()
	p.List.ResetPage()
	p.List.Fetch(ctx)
}

// ResetFilter clears both the typed and active search and refetches.
func (p *Clients) ResetFilter(ctx context.Context) {
	p.mu.Lock()
	p.typedSearch = ""
	p.activeSearch = ""
	p.mu.Unlock()
	p.List.ResetPage()
	p.List.Fetch(ctx)
}

// GoToPage fetches the requested page when it is within bounds.
func (p *Clients) GoToPage(ctx context.Context, page int) {
	if p.List.GoToPage(page) {
		p.List.Fetch(ctx)
	}
}

// Add creates a client, then clears the filters and refetches so the new row
// is visible wherever it sorts.
func (p *Clients) Add(ctx context.Context, name string) error {
	form := domain.ClientForm{ClientName: strings.TrimSpace(name)}
	if err := p.validate.Validate(form); err != nil {
		p.toasts.ShowError("Client name cannot be empty.")
		return err
	}

	if _, err := p.api.CreateClient(ctx, form); err != nil {
		notifyAPIError(p.toasts, p.log, err, "adding client")
		return err
	}

	p.toasts.ShowSuccess("Client added successfully!")
	p.ResetFilter(ctx)
	return nil
}

// Rename updates a client's name inline. Empty names are rejected and an
// unchanged name is a no-op.
func (p *Clients) Rename(ctx context.Context, client domain.Client, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		p.toasts.ShowError("Client name cannot be empty.")
		return errInputRejected
	}
	if newName == client.ClientName {
		return nil
	}

	if _, err := p.api.UpdateClient(ctx, client.ID, domain.ClientForm{ClientName: newName}); err != nil {
		notifyAPIError(p.toasts, p.log, err, "updating client")
		return err
	}

	p.toasts.ShowSuccess("Client updated successfully!")
	p.List.Fetch(ctx)
	return nil
}
