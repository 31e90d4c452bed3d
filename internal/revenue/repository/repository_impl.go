package repository

import (
	"context"

	"github.com/convertfy/backoffice/internal/revenue/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertBatch(ctx context.Context, db *gorm.DB, revenues []*domain.Revenue, batchSize int) error {
	if len(revenues) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = 500
	}
	return db.WithContext(ctx).CreateInBatches(revenues, batchSize).Error
}

func (r *repo) SumByReference(ctx context.Context, db *gorm.DB, month, year int) (domain.MonthTotal, error) {
	var row struct {
		Revenue float64
		Clients int
	}
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(total_revenue), 0) AS revenue, COUNT(*) AS clients
		 FROM revenues WHERE reference_month = ? AND reference_year = ?`,
		month, year,
	).Scan(&row).Error
	if err != nil {
		return domain.MonthTotal{}, err
	}
	return domain.MonthTotal{Revenue: row.Revenue, Clients: row.Clients}, nil
}

func (r *repo) ListByReference(ctx context.Context, db *gorm.DB, month, year int) ([]*domain.Revenue, error) {
	var revenues []*domain.Revenue
	err := db.WithContext(ctx).
		Model(&domain.Revenue{}).
		Where("reference_month = ? AND reference_year = ?", month, year).
		Order("client_id").
		Find(&revenues).Error
	if err != nil {
		return nil, err
	}
	return revenues, nil
}
