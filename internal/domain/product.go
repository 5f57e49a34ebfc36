package domain

import "errors"

var ErrProductNotFound = errors.New("product not found")

// Product as returned by the POS API.
type Product struct {
	ID         int64   `json:"id"`
	Barcode    string  `json:"barcode"`
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	MRP        float64 `json:"mrp"`
	ImageURL   string  `json:"imageUrl,omitempty"`
	ClientID   int64   `json:"clientId"`
	ClientName string  `json:"clientName"`
	Quantity   int     `json:"quantity"`
}

// ProductForm creates or updates a product.
type ProductForm struct {
	Barcode  string  `json:"barcode" validate:"required"`
	Name     string  `json:"name" validate:"required"`
	Category string  `json:"category" validate:"required"`
	MRP      float64 `json:"mrp" validate:"gt=0"`
	ImageURL string  `json:"imageUrl,omitempty"`
	ClientID int64   `json:"clientId" validate:"required"`
}

// ProductFilters narrows the product list. Nil fields are omitted from the
// query string.
type ProductFilters struct {
	SearchTerm string
	ClientName string
	Category   string
	MinMRP     *float64
	MaxMRP     *float64
}
