package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/retailpos/backoffice/internal/domain"
)

// ListOrders fetches one page of orders under the given filters. Date bounds
// are sent as RFC3339 instants.
func (c *Client) ListOrders(ctx context.Context, filters domain.OrderFilters, page, size int) (domain.Page[domain.Order], error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	if filters.StartDate != nil {
		q.Set("startDate", filters.StartDate.UTC().Format(time.RFC3339))
	}
	if filters.EndDate != nil {
		q.Set("endDate", filters.EndDate.UTC().Format(time.RFC3339))
	}
	if filters.Status != "" {
		q.Set("status", string(filters.Status))
	}
	if filters.OrderID != 0 {
		q.Set("id", strconv.FormatInt(filters.OrderID, 10))
	}

	var out domain.Page[domain.Order]
	if err := c.doJSON(ctx, http.MethodGet, "/orders", q, nil, &out); err != nil {
		return domain.Page[domain.Order]{}, err
	}
	return out, nil
}

// CreateOrder places a new order with its items.
func (c *Client) CreateOrder(ctx context.Context, form domain.OrderForm) (domain.Order, error) {
	var out domain.Order
	if err := c.doJSON(ctx, http.MethodPost, "/orders", nil, form, &out); err != nil {
		return domain.Order{}, err
	}
	return out, nil
}

// GetOrder fetches one order by id. A 404 maps to domain.ErrOrderNotFound.
func (c *Client) GetOrder(ctx context.Context, orderID int64) (domain.Order, error) {
	var out domain.Order
	err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/orders/%d", orderID), nil, nil, &out)
	if err != nil {
		if IsStatus(err, http.StatusNotFound) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, err
	}
	return out, nil
}

// UpdateOrder updates customer details and/or status of an order.
func (c *Client) UpdateOrder(ctx context.Context, orderID int64, form domain.OrderUpdateForm) (domain.Order, error) {
	var out domain.Order
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/orders/%d", orderID), nil, form, &out); err != nil {
		return domain.Order{}, err
	}
	return out, nil
}

// AddOrderItem appends a line to an existing order.
func (c *Client) AddOrderItem(ctx context.Context, orderID int64, form domain.OrderItemForm) (domain.OrderItem, error) {
	var out domain.OrderItem
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/orders/%d/items", orderID), nil, form, &out); err != nil {
		return domain.OrderItem{}, err
	}
	return out, nil
}

// UpdateOrderItem changes quantity/price of an existing line.
func (c *Client) UpdateOrderItem(ctx context.Context, orderID, itemID int64, form domain.OrderItemUpdateForm) (domain.OrderItem, error) {
	var out domain.OrderItem
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/orders/%d/items/%d", orderID, itemID), nil, form, &out); err != nil {
		return domain.OrderItem{}, err
	}
	return out, nil
}

// DeleteOrderItem removes a line from an existing order.
func (c *Client) DeleteOrderItem(ctx context.Context, orderID, itemID int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/orders/%d/items/%d", orderID, itemID), nil, nil, nil)
}

// GenerateInvoice asks the server to produce an invoice for the order.
func (c *Client) GenerateInvoice(ctx context.Context, orderID int64) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/invoices/%d", orderID), nil, struct{}{}, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// DownloadInvoice fetches the generated invoice PDF bytes.
func (c *Client) DownloadInvoice(ctx context.Context, orderID int64) ([]byte, error) {
	return c.doBinary(ctx, http.MethodGet, fmt.Sprintf("/invoices/%d", orderID), nil)
}
