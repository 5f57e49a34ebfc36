// Package editor implements the order editor: building a new order line by
// line via barcode entry, or editing an existing CREATED order and submitting
// the minimal set of item operations computed by the reconciler.
package editor

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/retailpos/backoffice/internal/api"
	"github.com/retailpos/backoffice/internal/domain"
	"github.com/retailpos/backoffice/internal/nav"
	"github.com/retailpos/backoffice/internal/reconcile"
	"github.com/retailpos/backoffice/internal/toast"
)

// OrderAPI is the slice of the POS client the editor needs.
type OrderAPI interface {
	reconcile.ItemAPI
	GetOrder(ctx context.Context, orderID int64) (domain.Order, error)
	CreateOrder(ctx context.Context, form domain.OrderForm) (domain.Order, error)
	UpdateOrder(ctx context.Context, orderID int64, form domain.OrderUpdateForm) (domain.Order, error)
	ProductByBarcode(ctx context.Context, barcode string) (domain.Product, error)
}

// Navigator moves the front-end between views. Satisfied by nav.Router.
type Navigator interface {
	Navigate(ctx context.Context, name string) string
}

// Controller drives one editing session, either creating a new order or
// editing an existing one. Two snapshots are held while editing: the original
// items (deep-copied at load) and the current ones; they are never aliased.
type Controller struct {
	api    OrderAPI
	toasts *toast.Queue
	nav    Navigator
	log    zerolog.Logger

	mu            sync.Mutex
	editMode      bool
	orderID       int64
	items         []domain.OrderItem
	original      []domain.OrderItem
	customerName  string
	customerPhone string
	originalName  string
	originalPhone string
	submitting    bool
}

func New(orderAPI OrderAPI, toasts *toast.Queue, navigator Navigator, log zerolog.Logger) *Controller {
	return &Controller{api: orderAPI, toasts: toasts, nav: navigator, log: log}
}

// NewOrder resets the controller for creating a brand new order.
func (c *Controller) NewOrder() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
}

// Load fetches an order for editing. Orders past the CREATED status are not
// editable: the user is notified and bounced back to the order list before
// the form is populated.
func (c *Controller) Load(ctx context.Context, orderID int64) error {
	order, err := c.api.GetOrder(ctx, orderID)
	if err != nil {
		c.log.Error().Err(err).Int64("order_id", orderID).Msg("editor: load failed")
		c.toasts.ShowError("Could not load order details.")
		c.nav.Navigate(ctx, nav.RouteOrders)
		return err
	}
	if !order.OrderStatus.Editable() {
		c.toasts.ShowError(`Only orders with "CREATED" status can be edited.`)
		c.nav.Navigate(ctx, nav.RouteOrders)
		return domain.ErrOrderNotEditable
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
	c.editMode = true
	c.orderID = orderID
	c.prefill(order)
	return nil
}

// prefill copies the fetched order into both snapshots. Caller holds c.mu.
func (c *Controller) prefill(order domain.Order) {
	c.customerName = order.CustomerName
	c.customerPhone = order.CustomerPhone
	c.originalName = order.CustomerName
	c.originalPhone = order.CustomerPhone
	c.items = append([]domain.OrderItem(nil), order.Items...)
	c.original = append([]domain.OrderItem(nil), order.Items...)
}

func (c *Controller) reset() {
	c.editMode = false
	c.orderID = 0
	c.items = nil
	c.original = nil
	c.customerName = ""
	c.customerPhone = ""
	c.originalName = ""
	c.originalPhone = ""
}

// SetCustomer records the customer fields as typed.
func (c *Controller) SetCustomer(name, phone string) {
	c.mu.Lock()
	c.customerName = name
	c.customerPhone = phone
	c.mu.Unlock()
}

// AddItem resolves a barcode and adds it to the current items. quantity must
// parse to an integer ≥ 1; price, when non-empty, must parse to a number > 0.
// A barcode matching a product already in the list increments that line's
// quantity and overwrites its price only when one was explicitly entered.
// New lines default to the product's MRP when no price was entered.
func (c *Controller) AddItem(ctx context.Context, barcode, quantity, price string) error {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		c.toasts.ShowError("Please enter a barcode.")
		return errInputRejected
	}
	qty, err := parseQuantity(quantity)
	if err != nil {
		c.toasts.ShowError(err.Error())
		return errInputRejected
	}
	newPrice, err := parsePrice(price)
	if err != nil {
		c.toasts.ShowError(err.Error())
		return errInputRejected
	}

	product, err := c.api.ProductByBarcode(ctx, barcode)
	if err != nil {
		c.notifyAPIError(err, "finding product")
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ProductID == product.ID {
			c.items[i].Quantity += qty
			if newPrice != nil {
				c.items[i].SellingPrice = *newPrice
			}
			return nil
		}
	}

	selling := product.MRP
	if newPrice != nil {
		selling = *newPrice
	}
	c.items = append(c.items, domain.OrderItem{
		ProductID:    product.ID,
		ProductName:  product.Name,
		Quantity:     qty,
		SellingPrice: selling,
	})
	return nil
}

// errInputRejected marks a locally rejected input; no call was made.
var errInputRejected = errors.New("input rejected")

func parseQuantity(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("Please enter a quantity.")
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, errors.New("Quantity must be at least 1.")
	}
	return n, nil
}

// parsePrice returns nil when no price was entered.
func parsePrice(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return nil, errors.New("Selling price must be a positive number.")
	}
	return &f, nil
}

// IncreaseQuantity bumps the line at index by one.
func (c *Controller) IncreaseQuantity(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index >= 0 && index < len(c.items) {
		c.items[index].Quantity++
	}
}

// DecreaseQuantity lowers the line at index by one, removing the line when
// it reaches zero.
func (c *Controller) DecreaseQuantity(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.items) {
		return
	}
	c.items[index].Quantity--
	if c.items[index].Quantity <= 0 {
		c.items = append(c.items[:index], c.items[index+1:]...)
	}
}

// RemoveItem drops the line at index.
func (c *Controller) RemoveItem(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index >= 0 && index < len(c.items) {
		c.items = append(c.items[:index], c.items[index+1:]...)
	}
}

// Items returns a snapshot of the current lines.
func (c *Controller) Items() []domain.OrderItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.OrderItem, len(c.items))
	copy(out, c.items)
	return out
}

// Total is the running order total.
func (c *Controller) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var sum float64
	for _, item := range c.items {
		sum += float64(item.Quantity) * item.SellingPrice
	}
	return sum
}

// EditMode reports whether the controller is editing an existing order.
func (c *Controller) EditMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editMode
}

// Submit places a new order or applies the edit, depending on mode.
func (c *Controller) Submit(ctx context.Context) {
	if c.EditMode() {
		c.updateOrder(ctx)
		return
	}
	c.placeOrder(ctx)
}

func (c *Controller) placeOrder(ctx context.Context) {
	c.mu.Lock()
	if len(c.items) == 0 {
		c.mu.Unlock()
		c.toasts.ShowError("Cannot place an empty order.")
		return
	}
	if c.submitting {
		c.mu.Unlock()
		return
	}
	c.submitting = true
	form := domain.OrderForm{
		CustomerName:  strings.TrimSpace(c.customerName),
		CustomerPhone: strings.TrimSpace(c.customerPhone),
	}
	for _, item := range c.items {
		form.Items = append(form.Items, domain.OrderItemForm{
			ProductID:    item.ProductID,
			Quantity:     item.Quantity,
			SellingPrice: item.SellingPrice,
		})
	}
	c.mu.Unlock()

	created, err := c.api.CreateOrder(ctx, form)
	c.setSubmitting(false)
	if err != nil {
		c.notifyAPIError(err, "placing order")
		return
	}

	c.toasts.ShowSuccess(fmt.Sprintf("Order #%d placed successfully!", created.ID))
	c.mu.Lock()
	c.reset()
	c.mu.Unlock()
	c.nav.Navigate(ctx, nav.RouteOrders)
}

func (c *Controller) updateOrder(ctx context.Context) {
	c.mu.Lock()
	if len(c.items) == 0 {
		c.mu.Unlock()
		c.toasts.ShowError("Cannot update order to have no items. Cancel the order instead.")
		return
	}
	if c.submitting {
		c.mu.Unlock()
		return
	}
	c.submitting = true

	orderID := c.orderID
	name := strings.TrimSpace(c.customerName)
	phone := strings.TrimSpace(c.customerPhone)
	customerChanged := name != c.originalName || phone != c.originalPhone
	plan := reconcile.Diff(c.original, c.items)
	c.mu.Unlock()

	// Item operations and the customer update fan out together and join;
	// item failures are soft, a customer-update failure is not.
	var (
		wg          sync.WaitGroup
		customerErr error
	)
	if customerChanged {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, customerErr = c.api.UpdateOrder(ctx, orderID, domain.OrderUpdateForm{
				CustomerName:  name,
				CustomerPhone: phone,
				Status:        domain.OrderCreated,
			})
		}()
	}
	soft := reconcile.Apply(ctx, orderID, plan, c.api)
	wg.Wait()
	c.setSubmitting(false)

	if customerErr != nil {
		c.notifyAPIError(customerErr, "updating order")
		return
	}

	switch {
	case len(soft) > 0:
		for _, se := range soft {
			c.log.Error().Err(se.Err).Int64("order_id", orderID).Msg("editor: item operation failed")
			c.toasts.ShowError(se.Message)
		}
		c.toasts.ShowError(fmt.Sprintf("Order #%d updated with some issues. Please review.", orderID))
		c.resync(ctx, orderID)
	case plan.Ops() > 0 || customerChanged:
		c.toasts.ShowSuccess(fmt.Sprintf("Order #%d updated successfully!", orderID))
		c.nav.Navigate(ctx, nav.RouteOrders)
	default:
		c.toasts.ShowSuccess("No changes detected in the order.")
		c.nav.Navigate(ctx, nav.RouteOrders)
	}
}

// resync refetches the order after a partially failed submit so the form
// reflects server truth again.
func (c *Controller) resync(ctx context.Context, orderID int64) {
	order, err := c.api.GetOrder(ctx, orderID)
	if err != nil {
		c.log.Error().Err(err).Int64("order_id", orderID).Msg("editor: resync failed")
		return
	}
	c.mu.Lock()
	c.prefill(order)
	c.mu.Unlock()
}

func (c *Controller) setSubmitting(v bool) {
	c.mu.Lock()
	c.submitting = v
	c.mu.Unlock()
}

// notifyAPIError surfaces the server's message when one exists, otherwise a
// generic message naming the failed action.
func (c *Controller) notifyAPIError(err error, action string) {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		c.toasts.ShowError(apiErr.UserMessage(fmt.Sprintf("An error occurred while %s. Status: %d", action, apiErr.StatusCode)))
		return
	}
	if errors.Is(err, domain.ErrProductNotFound) {
		c.toasts.ShowError("Product not found for that barcode.")
		return
	}
	c.log.Error().Err(err).Str("action", action).Msg("editor: request failed")
	c.toasts.ShowError(fmt.Sprintf("An unexpected error occurred while %s.", action))
}
