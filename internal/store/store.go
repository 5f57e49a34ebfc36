// Package store persists the two session slots — the auth token and the
// serialized current-user record — the way the browser app used per-tab
// storage. The file backend is the default; the redis backend suits shared
// terminal fleets.
package store

import (
	"context"
	"errors"
)

// Slot keys. These are the only keys this layer ever writes.
const (
	SlotToken = "authToken"
	SlotUser  = "currentUser"
)

// ErrSlotEmpty is returned when a slot has no value.
var ErrSlotEmpty = errors.New("store: slot empty")

// Store is small key/value persistence for the session slots.
type Store interface {
	// Get returns the slot value, or ErrSlotEmpty.
	Get(ctx context.Context, slot string) (string, error)
	// Set writes the slot value.
	Set(ctx context.Context, slot, value string) error
	// Delete removes the slot. Deleting an absent slot is a no-op.
	Delete(ctx context.Context, slot string) error
}
