package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// UpdateInventory sets the stock quantity for a product.
func (c *Client) UpdateInventory(ctx context.Context, productID int64, quantity int) error {
	body := map[string]int{"quantity": quantity}
	return c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/inventory/product/%d", productID), nil, body, nil)
}

// UploadInventoryTSV bulk-adjusts stock from a TSV file and returns the
// row-by-row result report produced by the server.
func (c *Client) UploadInventoryTSV(ctx context.Context, filename string, content io.Reader) ([]byte, error) {
	return c.doUpload(ctx, "/inventory/upload", filename, content)
}
