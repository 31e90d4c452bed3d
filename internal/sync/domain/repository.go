package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	InsertReport(ctx context.Context, db *gorm.DB, report *Report) error
	UpdateReport(ctx context.Context, db *gorm.DB, report *Report) error
	FindReport(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Report, error)
	ListReports(ctx context.Context, db *gorm.DB) ([]*Report, error)
	ListReportsByStatus(ctx context.Context, db *gorm.DB, status ReportStatus) ([]*Report, error)

	// ClaimLock atomically takes the singleton lock for reportID. A
	// held lock older than staleBefore is treated as abandoned and may
	// be stolen. Returns false when another sync holds a fresh lock.
	ClaimLock(ctx context.Context, db *gorm.DB, reportID snowflake.ID, now, staleBefore time.Time) (bool, error)

	// ReleaseLock frees the lock if reportID still holds it.
	ReleaseLock(ctx context.Context, db *gorm.DB, reportID snowflake.ID) error
}
