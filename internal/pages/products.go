package pages

import (
	"context"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/retailpos/backoffice/internal/domain"
	"github.com/retailpos/backoffice/internal/forms"
	"github.com/retailpos/backoffice/internal/listview"
	"github.com/retailpos/backoffice/internal/toast"
)

// Sample TSV headers offered to users preparing bulk upload files.
const (
	ProductsTSVHeader  = "Barcode,Name,Category,MRP,ClientName"
	InventoryTSVHeader = "Barcode,Quantity"
)

// ProductAPI is the slice of the POS client the products page needs.
type ProductAPI interface {
	ListProducts(ctx context.Context, filters domain.ProductFilters, page, size int) (domain.Page[domain.Product], error)
	CreateProduct(ctx context.Context, form domain.ProductForm) (domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, form domain.ProductForm) (domain.Product, error)
	UpdateInventory(ctx context.Context, productID int64, quantity int) error
	UploadProductsTSV(ctx context.Context, filename string, content io.Reader) ([]byte, error)
	UploadInventoryTSV(ctx context.Context, filename string, content io.Reader) ([]byte, error)
}

// Products drives the product list view: a five-field filter set, product
// create/edit, per-row inventory updates, and the SUPERVISOR-only TSV bulk
// uploads whose row-reports are saved to disk.
type Products struct {
	api      ProductAPI
	sessions SessionSource
	saver    Saver
	toasts   *toast.Queue
	validate *forms.Validator
	log      zerolog.Logger

	List *listview.Controller[domain.Product]

	mu     sync.Mutex
	typed  domain.ProductFilters
	active domain.ProductFilters
}

func NewProducts(productAPI ProductAPI, sessions SessionSource, saver Saver, pageSize int, toasts *toast.Queue, log zerolog.Logger) *Products {
	p := &Products{
		api:      productAPI,
		sessions: sessions,
		saver:    saver,
		toasts:   toasts,
		validate: forms.NewValidator(),
		log:      log,
	}
	p.List = listview.New("products", p.fetchPage, pageSize, toasts, "Failed to load products.", log)
	return p
}

func (p *Products) fetchPage(ctx context.Context, page, size int) (domain.Page[domain.Product], error) {
	p.mu.Lock()
	filters := p.active
	p.mu.Unlock()
	return p.api.ListProducts(ctx, filters, page, size)
}

// SetFilters records the filter inputs without applying them.
func (p *Products) SetFilters(f domain.ProductFilters) {
	p.mu.Lock()
	p.typed = f
	p.mu.Unlock()
}

// ApplyFilters promotes the typed filters to the active set and refetches
// from the first page.
func (p *Products) ApplyFilters(ctx context.Context) {
	p.mu.Lock()
	p.active = p.typed
	p.mu.Unlock()
	p.List.ResetPage()
	p.List.Fetch(ctx)
}

// ResetFilters clears every filter field and refetches.
func (p *Products) ResetFilters(ctx context.Context) {
	p.mu.Lock()
	p.typed = domain.ProductFilters{}
	p.active = domain.ProductFilters{}
	p.mu.Unlock()
	p.List.ResetPage()
	p.List.Fetch(ctx)
}

// GoToPage fetches the requested page when it is within bounds.
func (p *Products) GoToPage(ctx context.Context, page int) {
	if p.List.GoToPage(page) {
		p.List.Fetch(ctx)
	}
}

// Add creates a product and refetches the current page.
func (p *Products) Add(ctx context.Context, form domain.ProductForm) error {
	if err := p.validate.Validate(form); err != nil {
		p.toasts.ShowError(err.Error())
		return err
	}
	if _, err := p.api.CreateProduct(ctx, form); err != nil {
		notifyAPIError(p.toasts, p.log, err, "adding product")
		return err
	}
	p.toasts.ShowSuccess("Product added successfully!")
	p.List.Fetch(ctx)
	return nil
}

// Update edits an existing product and refetches the current page.
func (p *Products) Update(ctx context.Context, id int64, form domain.ProductForm) error {
	if err := p.validate.Validate(form); err != nil {
		p.toasts.ShowError(err.Error())
		return err
	}
	if _, err := p.api.UpdateProduct(ctx, id, form); err != nil {
		notifyAPIError(p.toasts, p.log, err, "updating product")
		return err
	}
	p.toasts.ShowSuccess("Product updated successfully!")
	p.List.Fetch(ctx)
	return nil
}

// UpdateQuantity sets a product's stock level and refetches.
func (p *Products) UpdateQuantity(ctx context.Context, productID int64, quantity int) error {
	if quantity < 0 {
		p.toasts.ShowError("Quantity cannot be negative.")
		return errInputRejected
	}
	if err := p.api.UpdateInventory(ctx, productID, quantity); err != nil {
		notifyAPIError(p.toasts, p.log, err, "updating inventory")
		return err
	}
	p.toasts.ShowSuccess("Inventory updated successfully!")
	p.List.Fetch(ctx)
	return nil
}

// UploadProducts bulk-creates products from a TSV file. SUPERVISOR only.
// The API returns a per-row result report which is saved next to other
// downloads for review.
func (p *Products) UploadProducts(ctx context.Context, filename string, content io.Reader) error {
	if !p.supervisor() {
		p.toasts.ShowError("You do not have permission to perform this action.")
		return errInputRejected
	}
	report, err := p.api.UploadProductsTSV(ctx, filename, content)
	if err != nil {
		notifyAPIError(p.toasts, p.log, err, "uploading products")
		return err
	}
	p.saveReport(ctx, "product-upload-report.tsv", report)
	return nil
}

// UploadInventory bulk-updates stock levels from a TSV file. SUPERVISOR only.
func (p *Products) UploadInventory(ctx context.Context, filename string, content io.Reader) error {
	if !p.supervisor() {
		p.toasts.ShowError("You do not have permission to perform this action.")
		return errInputRejected
	}
	report, err := p.api.UploadInventoryTSV(ctx, filename, content)
	if err != nil {
		notifyAPIError(p.toasts, p.log, err, "uploading inventory")
		return err
	}
	p.saveReport(ctx, "inventory-upload-report.tsv", report)
	return nil
}

func (p *Products) saveReport(ctx context.Context, name string, report []byte) {
	if len(report) > 0 {
		if path, err := p.saver.Save(name, report); err != nil {
			p.log.Error().Err(err).Str("file", name).Msg("products: saving upload report failed")
			p.toasts.ShowError("Upload processed, but the result file could not be saved.")
		} else {
			p.toasts.ShowSuccess("Upload processed. Result saved to " + path)
		}
	} else {
		p.toasts.ShowSuccess("Upload processed successfully!")
	}
	p.List.Fetch(ctx)
}

func (p *Products) supervisor() bool {
	sess := p.sessions.Current()
	return sess != nil && sess.User.Role == domain.RoleSupervisor
}
