package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/retailpos/backoffice/internal/domain"
)

// ListClients fetches one page of clients, optionally filtered by name.
func (c *Client) ListClients(ctx context.Context, clientName string, page, size int) (domain.Page[domain.Client], error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	if clientName != "" {
		q.Set("clientName", clientName)
	}

	var out domain.Page[domain.Client]
	if err := c.doJSON(ctx, http.MethodGet, "/clients", q, nil, &out); err != nil {
		return domain.Page[domain.Client]{}, err
	}
	return out, nil
}

// CreateClient registers a new client.
func (c *Client) CreateClient(ctx context.Context, form domain.ClientForm) (domain.Client, error) {
	var out domain.Client
	if err := c.doJSON(ctx, http.MethodPost, "/clients", nil, form, &out); err != nil {
		return domain.Client{}, err
	}
	return out, nil
}

// UpdateClient renames an existing client.
func (c *Client) UpdateClient(ctx context.Context, id int64, form domain.ClientForm) (domain.Client, error) {
	var out domain.Client
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/clients/%d", id), nil, form, &out); err != nil {
		return domain.Client{}, err
	}
	return out, nil
}
