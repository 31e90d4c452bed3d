package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/convertfy/backoffice/internal/subscription/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, sub *domain.Subscription) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO subscriptions (id, client_id, value, next_due_date, cycle, plan_type, status, asaas_id, cancellation_reason, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID,
		sub.ClientID,
		sub.Value,
		sub.NextDueDate,
		sub.Cycle,
		sub.PlanType,
		sub.Status,
		sub.AsaasID,
		sub.CancellationReason,
		sub.CreatedAt,
		sub.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, sub *domain.Subscription) error {
	return db.WithContext(ctx).Exec(
		`UPDATE subscriptions
		 SET value = ?, next_due_date = ?, cycle = ?, plan_type = ?, status = ?, asaas_id = ?, cancellation_reason = ?, updated_at = ?
		 WHERE id = ?`,
		sub.Value,
		sub.NextDueDate,
		sub.Cycle,
		sub.PlanType,
		sub.Status,
		sub.AsaasID,
		sub.CancellationReason,
		sub.UpdatedAt,
		sub.ID,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Subscription, error) {
	var sub domain.Subscription
	err := db.WithContext(ctx).
		Model(&domain.Subscription{}).
		Where("id = ?", id).
		Limit(1).
		Find(&sub).Error
	if err != nil {
		return nil, err
	}
	if sub.ID == 0 {
		return nil, nil
	}
	return &sub, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListSubscriptionFilter) ([]*domain.Subscription, error) {
	var subs []*domain.Subscription
	stmt := db.WithContext(ctx).Model(&domain.Subscription{})
	if filter.ClientID != 0 {
		stmt = stmt.Where("client_id = ?", filter.ClientID)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	err := stmt.
		Order("created_at desc, id desc").
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}
