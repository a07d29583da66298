package telemetry

import (
	"context"

	"codeberg.org/mutker/simtempd/internal/simtemp"
)

// Collector defines the core domain interface
type Collector interface {
	Record(ctx context.Context, sample simtemp.Sample) error
	Close() error
}

// Repository defines the interface for sample storage
type Repository interface {
	Store(ctx context.Context, sample simtemp.Sample) error
	Close() error
}
