// Package reconcile computes and applies the minimal set of item-level
// create/update/delete calls that move an order's line items from their
// original snapshot to the edited one.
package reconcile

import (
	"context"
	"fmt"
	"sync"

	"github.com/retailpos/backoffice/internal/domain"
)

// Plan is the outcome of diffing two item snapshots.
type Plan struct {
	// Deletions are persisted items present in the original snapshot only.
	Deletions []domain.OrderItem
	// Additions are edited items that have never been persisted (no id).
	Additions []domain.OrderItem
	// Updates are persisted items whose quantity or price changed.
	Updates []domain.OrderItem
}

// Empty reports whether the plan contains no operations.
func (p Plan) Empty() bool {
	return len(p.Deletions) == 0 && len(p.Additions) == 0 && len(p.Updates) == 0
}

// Ops returns the total number of operations in the plan.
func (p Plan) Ops() int {
	return len(p.Deletions) + len(p.Additions) + len(p.Updates)
}

// Diff compares the original snapshot (all items persisted, carrying ids)
// against the edited one (new items id-less). Matching is by item id; a
// persisted item counts as updated when quantity or selling price differ.
func Diff(original, current []domain.OrderItem) Plan {
	currentByID := make(map[int64]domain.OrderItem, len(current))
	for _, item := range current {
		if item.ID != 0 {
			currentByID[item.ID] = item
		}
	}
	originalByID := make(map[int64]domain.OrderItem, len(original))
	for _, item := range original {
		if item.ID != 0 {
			originalByID[item.ID] = item
		}
	}

	var plan Plan
	for _, item := range original {
		if item.ID == 0 {
			continue
		}
		if _, kept := currentByID[item.ID]; !kept {
			plan.Deletions = append(plan.Deletions, item)
		}
	}
	for _, item := range current {
		if item.ID == 0 {
			plan.Additions = append(plan.Additions, item)
			continue
		}
		orig, known := originalByID[item.ID]
		if known && (orig.Quantity != item.Quantity || orig.SellingPrice != item.SellingPrice) {
			plan.Updates = append(plan.Updates, item)
		}
	}
	return plan
}

// ItemAPI is the slice of the POS client the reconciler needs.
type ItemAPI interface {
	AddOrderItem(ctx context.Context, orderID int64, form domain.OrderItemForm) (domain.OrderItem, error)
	UpdateOrderItem(ctx context.Context, orderID, itemID int64, form domain.OrderItemUpdateForm) (domain.OrderItem, error)
	DeleteOrderItem(ctx context.Context, orderID, itemID int64) error
}

// SoftError records one failed operation without aborting its siblings.
type SoftError struct {
	Message string
	Err     error
}

// Apply issues every operation in the plan concurrently and joins them.
// Individual failures are collected as soft errors; successfully applied
// sibling operations stand.
func Apply(ctx context.Context, orderID int64, plan Plan, items ItemAPI) []SoftError {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []SoftError
	)
	record := func(msg string, err error) {
		mu.Lock()
		errs = append(errs, SoftError{Message: msg, Err: err})
		mu.Unlock()
	}

	for _, item := range plan.Deletions {
		wg.Add(1)
		go func(item domain.OrderItem) {
			defer wg.Done()
			if err := items.DeleteOrderItem(ctx, orderID, item.ID); err != nil {
				record(fmt.Sprintf("Failed to delete item %s", item.ProductName), err)
			}
		}(item)
	}
	for _, item := range plan.Additions {
		wg.Add(1)
		go func(item domain.OrderItem) {
			defer wg.Done()
			form := domain.OrderItemForm{
				ProductID:    item.ProductID,
				Quantity:     item.Quantity,
				SellingPrice: item.SellingPrice,
			}
			if _, err := items.AddOrderItem(ctx, orderID, form); err != nil {
				record(fmt.Sprintf("Failed to add item %s", item.ProductName), err)
			}
		}(item)
	}
	for _, item := range plan.Updates {
		wg.Add(1)
		go func(item domain.OrderItem) {
			defer wg.Done()
			form := domain.OrderItemUpdateForm{
				Quantity:     item.Quantity,
				SellingPrice: item.SellingPrice,
			}
			if _, err := items.UpdateOrderItem(ctx, orderID, item.ID, form); err != nil {
				record(fmt.Sprintf("Failed to update item %s", item.ProductName), err)
			}
		}(item)
	}

	wg.Wait()
	return errs
}
