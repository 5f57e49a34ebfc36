package api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/retailpos/backoffice/internal/domain"
)

// Summary fetches the dashboard summary payload.
func (c *Client) Summary(ctx context.Context) (domain.DashboardSummary, error) {
	var out domain.DashboardSummary
	if err := c.doJSON(ctx, http.MethodGet, "/report/summary", nil, nil, &out); err != nil {
		return domain.DashboardSummary{}, err
	}
	return out, nil
}

// SalesReport fetches the sales TSV covering [start, end].
func (c *Client) SalesReport(ctx context.Context, start, end time.Time) ([]byte, error) {
	q := url.Values{}
	q.Set("start", start.UTC().Format(time.RFC3339))
	q.Set("end", end.UTC().Format(time.RFC3339))
	return c.doBinary(ctx, http.MethodGet, "/report/sales", q)
}

// InventoryReport fetches the current inventory TSV.
func (c *Client) InventoryReport(ctx context.Context) ([]byte, error) {
	return c.doBinary(ctx, http.MethodGet, "/report/inventory", nil)
}
