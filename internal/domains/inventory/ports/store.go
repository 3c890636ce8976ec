package ports

import (
	"context"
	"errors"

	"github.com/bloodlink/bloodlink-api/internal/domains/inventory/domain"
)

var ErrStockNotFound = errors.New("institution stock not found")

// Store persists per-institution blood inventories.
type Store interface {
	// GetStock returns the institution's entries in schema order.
	GetStock(ctx context.Context, institutionID int64) ([]domain.BloodGroupEntry, error)
	// ReplaceStock overwrites the institution's entries wholesale.
	ReplaceStock(ctx context.Context, institutionID int64, entries []domain.BloodGroupEntry) ([]domain.BloodGroupEntry, error)
	// ApplyDelta adjusts counts per type and fails with
	// domain.ErrStockUnderflow when a decrement would go negative.
	ApplyDelta(ctx context.Context, institutionID int64, deltas []domain.BloodGroupEntry) ([]domain.BloodGroupEntry, error)
}

// Seeder provisions a zeroed inventory for a new institution.
type Seeder interface {
	Seed(ctx context.Context, institutionID int64) error
}

// SeededStore combines stock access with provisioning; both adapters
// implement it.
type SeededStore interface {
	Store
	Seeder
}
