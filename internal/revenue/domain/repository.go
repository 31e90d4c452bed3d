package domain

import (
	"context"

	"gorm.io/gorm"
)

// MonthTotal aggregates one reference month's snapshots.
type MonthTotal struct {
	Revenue float64
	Clients int
}

type Repository interface {
	// InsertBatch writes snapshots in chunks sized for the dialect's
	// parameter limits.
	InsertBatch(ctx context.Context, db *gorm.DB, revenues []*Revenue, batchSize int) error
	SumByReference(ctx context.Context, db *gorm.DB, month, year int) (MonthTotal, error)
	ListByReference(ctx context.Context, db *gorm.DB, month, year int) ([]*Revenue, error)
}
