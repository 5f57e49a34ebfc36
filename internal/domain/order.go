package domain

import (
	"errors"
	"time"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderCreated   OrderStatus = "CREATED"
	OrderInvoiced  OrderStatus = "INVOICED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// validTransitions defines the allowed order state machine transitions.
var validTransitions = map[OrderStatus][]OrderStatus{
	OrderCreated: {OrderInvoiced, OrderCancelled},
}

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrOrderNotEditable = errors.New("only orders with CREATED status can be edited")
	ErrInvalidTransition = errors.New("invalid order status transition")
)

// CanTransitionTo reports whether a transition from the current status to
// next is valid. INVOICED and CANCELLED are terminal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Editable reports whether the order may still be modified item by item.
func (s OrderStatus) Editable() bool { return s == OrderCreated }

// OrderItem is one line of an order. ID is zero until the line has been
// persisted by the API.
type OrderItem struct {
	ID           int64   `json:"id,omitempty"`
	ProductID    int64   `json:"productId"`
	ProductName  string  `json:"productName"`
	Quantity     int     `json:"quantity"`
	SellingPrice float64 `json:"sellingPrice"`
}

// Order as returned by the POS API.
type Order struct {
	ID            int64       `json:"id"`
	OrderStatus   OrderStatus `json:"orderStatus"`
	CustomerName  string      `json:"customerName"`
	CustomerPhone string      `json:"customerPhone"`
	TotalAmount   float64     `json:"totalAmount"`
	Items         []OrderItem `json:"orderItemDataList"`
	CreatedAt     time.Time   `json:"createdAt"`
}

// OrderForm creates a brand new order with its items.
type OrderForm struct {
	CustomerName  string          `json:"customerName"`
	CustomerPhone string          `json:"customerPhone"`
	Items         []OrderItemForm `json:"items"`
}

// OrderUpdateForm updates customer details and/or status of an existing order.
type OrderUpdateForm struct {
	CustomerName  string      `json:"customerName"`
	CustomerPhone string      `json:"customerPhone"`
	Status        OrderStatus `json:"status"`
}

// OrderItemForm adds a new item to an existing order.
type OrderItemForm struct {
	ProductID    int64   `json:"productId"`
	Quantity     int     `json:"quantity" validate:"gte=1"`
	SellingPrice float64 `json:"sellingPrice" validate:"gt=0"`
}

// OrderItemUpdateForm updates an existing item within an order.
type OrderItemUpdateForm struct {
	Quantity     int     `json:"quantity" validate:"gte=1"`
	SellingPrice float64 `json:"sellingPrice" validate:"gt=0"`
}

// OrderFilters narrows the order list. Zero fields are omitted from the
// query string.
type OrderFilters struct {
	StartDate *time.Time
	EndDate   *time.Time
	Status    OrderStatus
	OrderID   int64
}
