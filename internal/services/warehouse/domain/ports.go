// Package domain holds the warehouse loader ports
package domain

import (
	"context"

	"marketingetl/internal/core/fact"
)

// BatchRepo writes one batch of column-aligned values to a destination
type BatchRepo interface {
	// WriteBatch returns the driver's affected row count
	WriteBatch(ctx context.Context, dest fact.Destination, rows [][]any) (int64, error)
}
