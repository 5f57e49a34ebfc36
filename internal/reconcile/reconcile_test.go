package reconcile

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailpos/backoffice/internal/domain"
)

func item(id int64, productID int64, qty int, price float64) domain.OrderItem {
	return domain.OrderItem{ID: id, ProductID: productID, ProductName: "P", Quantity: qty, SellingPrice: price}
}

func TestDiff_RemovedItemBecomesDeletion(t *testing.T) {
	plan := Diff(
		[]domain.OrderItem{item(1, 10, 2, 10)},
		nil,
	)

	require.Len(t, plan.Deletions, 1)
	assert.Equal(t, int64(1), plan.Deletions[0].ID)
	assert.Empty(t, plan.Additions)
	assert.Empty(t, plan.Updates)
}

func TestDiff_NewItemBecomesAddition(t *testing.T) {
	plan := Diff(
		nil,
		[]domain.OrderItem{{ProductID: 10, ProductName: "P", Quantity: 3, SellingPrice: 5}},
	)

	require.Len(t, plan.Additions, 1)
	assert.Equal(t, 3, plan.Additions[0].Quantity)
	assert.Empty(t, plan.Deletions)
	assert.Empty(t, plan.Updates)
}

func TestDiff_UnchangedItemYieldsNothing(t *testing.T) {
	plan := Diff(
		[]domain.OrderItem{item(1, 10, 2, 10)},
		[]domain.OrderItem{item(1, 10, 2, 10)},
	)

	assert.True(t, plan.Empty())
	assert.Equal(t, 0, plan.Ops())
}

func TestDiff_ChangedQuantityBecomesUpdate(t *testing.T) {
	plan := Diff(
		[]domain.OrderItem{item(1, 10, 2, 10)},
		[]domain.OrderItem{item(1, 10, 5, 10)},
	)

	require.Len(t, plan.Updates, 1)
	assert.Equal(t, int64(1), plan.Updates[0].ID)
	assert.Equal(t, 5, plan.Updates[0].Quantity)
	assert.Empty(t, plan.Deletions)
	assert.Empty(t, plan.Additions)
}

func TestDiff_ChangedPriceBecomesUpdate(t *testing.T) {
	plan := Diff(
		[]domain.OrderItem{item(1, 10, 2, 10)},
		[]domain.OrderItem{item(1, 10, 2, 12.5)},
	)

	require.Len(t, plan.Updates, 1)
	assert.Equal(t, 12.5, plan.Updates[0].SellingPrice)
}

func TestDiff_MixedChanges(t *testing.T) {
	original := []domain.OrderItem{
		item(1, 10, 2, 10),
		item(2, 20, 1, 4),
		item(3, 30, 6, 8),
	}
	current := []domain.OrderItem{
		item(1, 10, 9, 10),                    // update
		item(3, 30, 6, 8),                     // unchanged
		{ProductID: 40, Quantity: 2, SellingPrice: 3}, // addition
	}

	plan := Diff(original, current)
	assert.Len(t, plan.Deletions, 1) // id 2
	assert.Len(t, plan.Additions, 1)
	assert.Len(t, plan.Updates, 1)
	assert.Equal(t, int64(2), plan.Deletions[0].ID)
	assert.Equal(t, 3, plan.Ops())
}

// stubItemAPI records calls and fails selected operations.
type stubItemAPI struct {
	mu        sync.Mutex
	adds      []domain.OrderItemForm
	updates   map[int64]domain.OrderItemUpdateForm
	deletes   []int64
	failAdd   bool
	failDelID int64
}

func newStubItemAPI() *stubItemAPI {
	return &stubItemAPI{updates: make(map[int64]domain.OrderItemUpdateForm)}
}

func (s *stubItemAPI) AddOrderItem(_ context.Context, _ int64, form domain.OrderItemForm) (domain.OrderItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAdd {
		return domain.OrderItem{}, errors.New("add rejected")
	}
	s.adds = append(s.adds, form)
	return domain.OrderItem{ID: 100, ProductID: form.ProductID, Quantity: form.Quantity, SellingPrice: form.SellingPrice}, nil
}

func (s *stubItemAPI) UpdateOrderItem(_ context.Context, _ int64, itemID int64, form domain.OrderItemUpdateForm) (domain.OrderItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates[itemID] = form
	return domain.OrderItem{ID: itemID, Quantity: form.Quantity, SellingPrice: form.SellingPrice}, nil
}

func (s *stubItemAPI) DeleteOrderItem(_ context.Context, _ int64, itemID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if itemID == s.failDelID {
		return errors.New("delete rejected")
	}
	s.deletes = append(s.deletes, itemID)
	return nil
}

func TestApply_IssuesEveryOperation(t *testing.T) {
	api := newStubItemAPI()
	plan := Diff(
		[]domain.OrderItem{item(1, 10, 2, 10), item(2, 20, 1, 4)},
		[]domain.OrderItem{item(1, 10, 3, 10), {ProductID: 30, ProductName: "New", Quantity: 1, SellingPrice: 7}},
	)

	errs := Apply(context.Background(), 55, plan, api)
	assert.Empty(t, errs)
	assert.Equal(t, []int64{2}, api.deletes)
	require.Len(t, api.adds, 1)
	assert.Equal(t, int64(30), api.adds[0].ProductID)
	require.Contains(t, api.updates, int64(1))
	assert.Equal(t, 3, api.updates[int64(1)].Quantity)
}

func TestApply_PartialFailureDoesNotAbortSiblings(t *testing.T) {
	api := newStubItemAPI()
	api.failDelID = 2

	plan := Diff(
		[]domain.OrderItem{item(1, 10, 2, 10), item(2, 20, 1, 4)},
		[]domain.OrderItem{item(1, 10, 9, 10)},
	)

	errs := Apply(context.Background(), 55, plan, api)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "Failed to delete item")
	// The sibling update still went through.
	require.Contains(t, api.updates, int64(1))
	assert.Equal(t, 9, api.updates[int64(1)].Quantity)
}

func TestApply_EmptyPlanIsNoop(t *testing.T) {
	api := newStubItemAPI()
	errs := Apply(context.Background(), 55, Plan{}, api)
	assert.Empty(t, errs)
	assert.Empty(t, api.adds)
	assert.Empty(t, api.deletes)
	assert.Empty(t, api.updates)
}
