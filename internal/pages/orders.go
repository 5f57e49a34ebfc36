package pages

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/retailpos/backoffice/internal/domain"
	"github.com/retailpos/backoffice/internal/listview"
	"github.com/retailpos/backoffice/internal/toast"
)

// OrderListAPI is the slice of the POS client the orders page needs.
type OrderListAPI interface {
	ListOrders(ctx context.Context, filters domain.OrderFilters, page, size int) (domain.Page[domain.Order], error)
	UpdateOrder(ctx context.Context, orderID int64, form domain.OrderUpdateForm) (domain.Order, error)
	GenerateInvoice(ctx context.Context, orderID int64) (string, error)
	DownloadInvoice(ctx context.Context, orderID int64) ([]byte, error)
}

// Orders drives the order list view: filtered browsing, invoicing and
// cancelling guarded by the order status transition table, and invoice PDF
// downloads.
type Orders struct {
	api    OrderListAPI
	saver  Saver
	toasts *toast.Queue
	log    zerolog.Logger

	List *listview.Controller[domain.Order]

	mu     sync.Mutex
	typed  domain.OrderFilters
	active domain.OrderFilters
}

func NewOrders(orderAPI OrderListAPI, saver Saver, pageSize int, toasts *toast.Queue, log zerolog.Logger) *Orders {
	p := &Orders{
		api:    orderAPI,
		saver:  saver,
		toasts: toasts,
		log:    log,
	}
	p.List = listview.New("orders", p.fetchPage, pageSize, toasts, "Failed to load orders.", log)
	return p
}

func (p *Orders) fetchPage(ctx context.Context, page, size int) (domain.Page[domain.Order], error) {
	p.mu.Lock()
	filters := p.active
	p.mu.Unlock()
	return p.api.ListOrders(ctx, filters, page, size)
}

// SetFilters records the filter inputs without applying them.
func (p *Orders) SetFilters(f domain.OrderFilters) {
	p.mu.Lock()
	p.typed = f
	p.mu.Unlock()
}

// ApplyFilters promotes the typed filters to the active set and refetches.
// An inverted date range is rejected locally without touching the API.
func (p *Orders) ApplyFilters(ctx context.Context) error {
	p.mu.Lock()
	f := p.typed
	p.mu.Unlock()

	if f.StartDate != nil && f.EndDate != nil && f.StartDate.After(*f.EndDate) {
		p.toasts.ShowError("Start date cannot be after end date.")
		return errInputRejected
	}

	p.mu.Lock()
	p.active = f
	p.mu.Unlock()
	p.List.ResetPage()
	p.List.Fetch(ctx)
	return nil
}

// ResetFilters clears every filter field and refetches.
func (p *Orders) ResetFilters(ctx context.Context) {
	p.mu.Lock()
	p.typed = domain.OrderFilters{}
	p.active = domain.OrderFilters{}
	p.mu.Unlock()
	p.List.ResetPage()
	p.List.Fetch(ctx)
}

// GoToPage fetches the requested page when it is within bounds.
func (p *Orders) GoToPage(ctx context.Context, page int) {
	if p.List.GoToPage(page) {
		p.List.Fetch(ctx)
	}
}

// Invoice generates the invoice for an order, moving it CREATED → INVOICED.
func (p *Orders) Invoice(ctx context.Context, order domain.Order) error {
	if !order.OrderStatus.CanTransitionTo(domain.OrderInvoiced) {
		p.toasts.ShowError("This order cannot be invoiced.")
		return domain.ErrInvalidTransition
	}

	message, err := p.api.GenerateInvoice(ctx, order.ID)
	if err != nil {
		notifyAPIError(p.toasts, p.log, err, "generating invoice")
		return err
	}

	if message == "" {
		message = fmt.Sprintf("Invoice generated for order #%d.", order.ID)
	}
	p.toasts.ShowSuccess(message)
	p.List.Fetch(ctx)
	return nil
}

// Cancel moves an order CREATED → CANCELLED, keeping the customer fields as
// they are.
func (p *Orders) Cancel(ctx context.Context, order domain.Order) error {
	if !order.OrderStatus.CanTransitionTo(domain.OrderCancelled) {
		p.toasts.ShowError("This order cannot be cancelled.")
		return domain.ErrInvalidTransition
	}

	form := domain.OrderUpdateForm{
		CustomerName:  order.CustomerName,
		CustomerPhone: order.CustomerPhone,
		Status:        domain.OrderCancelled,
	}
	if _, err := p.api.UpdateOrder(ctx, order.ID, form); err != nil {
		notifyAPIError(p.toasts, p.log, err, "cancelling order")
		return err
	}

	p.toasts.ShowSuccess(fmt.Sprintf("Order #%d cancelled.", order.ID))
	p.List.Fetch(ctx)
	return nil
}

// DownloadInvoice fetches an order's invoice PDF and saves it as
// invoice-order-{id}.pdf. An empty body means the invoice does not exist.
func (p *Orders) DownloadInvoice(ctx context.Context, orderID int64) error {
	data, err := p.api.DownloadInvoice(ctx, orderID)
	if err != nil {
		notifyAPIError(p.toasts, p.log, err, "downloading invoice")
		return err
	}
	if len(data) == 0 {
		p.toasts.ShowError("Invoice file not found or is empty.")
		return errInputRejected
	}

	name := fmt.Sprintf("invoice-order-%d.pdf", orderID)
	path, err := p.saver.Save(name, data)
	if err != nil {
		p.log.Error().Err(err).Str("file", name).Msg("orders: saving invoice failed")
		p.toasts.ShowError("Could not save the invoice file.")
		return err
	}
	p.toasts.ShowSuccess("Invoice saved to " + path)
	return nil
}
