package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/retailpos/backoffice/internal/domain"
)

// ListProducts fetches one page of products under the given filters.
func (c *Client) ListProducts(ctx context.Context, filters domain.ProductFilters, page, size int) (domain.Page[domain.Product], error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	if filters.SearchTerm != "" {
		q.Set("searchTerm", filters.SearchTerm)
	}
	if filters.ClientName != "" {
		q.Set("clientName", filters.ClientName)
	}
	if filters.Category != "" {
		q.Set("category", filters.Category)
	}
	if filters.MinMRP != nil {
		q.Set("minMrp", strconv.FormatFloat(*filters.MinMRP, 'f', -1, 64))
	}
	if filters.MaxMRP != nil {
		q.Set("maxMrp", strconv.FormatFloat(*filters.MaxMRP, 'f', -1, 64))
	}

	var out domain.Page[domain.Product]
	if err := c.doJSON(ctx, http.MethodGet, "/products", q, nil, &out); err != nil {
		return domain.Page[domain.Product]{}, err
	}
	return out, nil
}

// CreateProduct registers a new product.
func (c *Client) CreateProduct(ctx context.Context, form domain.ProductForm) (domain.Product, error) {
	var out domain.Product
	if err := c.doJSON(ctx, http.MethodPost, "/products", nil, form, &out); err != nil {
		return domain.Product{}, err
	}
	return out, nil
}

// UpdateProduct updates an existing product.
func (c *Client) UpdateProduct(ctx context.Context, id int64, form domain.ProductForm) (domain.Product, error) {
	var out domain.Product
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/products/%d", id), nil, form, &out); err != nil {
		return domain.Product{}, err
	}
	return out, nil
}

// ProductByBarcode looks a product up by its barcode. A 404 maps to
// domain.ErrProductNotFound.
func (c *Client) ProductByBarcode(ctx context.Context, barcode string) (domain.Product, error) {
	var out domain.Product
	err := c.doJSON(ctx, http.MethodGet, "/products/barcode/"+url.PathEscape(barcode), nil, nil, &out)
	if err != nil {
		if IsStatus(err, http.StatusNotFound) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, err
	}
	return out, nil
}

// UploadProductsTSV bulk-creates products from a TSV file and returns the
// row-by-row result report produced by the server.
func (c *Client) UploadProductsTSV(ctx context.Context, filename string, content io.Reader) ([]byte, error) {
	return c.doUpload(ctx, "/products/upload", filename, content)
}
