package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/convertfy/backoffice/internal/sync/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertReport(ctx context.Context, db *gorm.DB, report *domain.Report) error {
	return db.WithContext(ctx).Create(report).Error
}

func (r *repo) UpdateReport(ctx context.Context, db *gorm.DB, report *domain.Report) error {
	return db.WithContext(ctx).
		Model(&domain.Report{}).
		Where("id = ?", report.ID).
		Updates(map[string]any{
			"total_processed": report.TotalProcessed,
			"created":         report.Created,
			"updated":         report.Updated,
			"failed":          report.Failed,
			"errors":          report.Errors,
			"status":          report.Status,
			"ended_at":        report.EndedAt,
			"updated_at":      report.UpdatedAt,
		}).Error
}

func (r *repo) FindReport(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Report, error) {
	var report domain.Report
	err := db.WithContext(ctx).
		Model(&domain.Report{}).
		Where("id = ?", id).
		Limit(1).
		Find(&report).Error
	if err != nil {
		return nil, err
	}
	if report.ID == 0 {
		return nil, nil
	}
	return &report, nil
}

func (r *repo) ListReports(ctx context.Context, db *gorm.DB) ([]*domain.Report, error) {
	var reports []*domain.Report
	err := db.WithContext(ctx).
		Model(&domain.Report{}).
		Order("started_at desc, id desc").
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *repo) ListReportsByStatus(ctx context.Context, db *gorm.DB, status domain.ReportStatus) ([]*domain.Report, error) {
	var reports []*domain.Report
	err := db.WithContext(ctx).
		Model(&domain.Report{}).
		Where("status = ?", status).
		Order("started_at desc, id desc").
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *repo) ClaimLock(ctx context.Context, db *gorm.DB, reportID snowflake.ID, now, staleBefore time.Time) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE sync_locks
		 SET locked = ?, report_id = ?, locked_at = ?
		 WHERE id = ? AND (locked = ? OR locked_at IS NULL OR locked_at < ?)`,
		true, reportID, now,
		domain.LockID, false, staleBefore,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repo) ReleaseLock(ctx context.Context, db *gorm.DB, reportID snowflake.ID) error {
	return db.WithContext(ctx).Exec(
		`UPDATE sync_locks
		 SET locked = ?, report_id = NULL, locked_at = NULL
		 WHERE id = ? AND report_id = ?`,
		false, domain.LockID, reportID,
	).Error
}
