package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/convertfy/backoffice/internal/client/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, client *domain.Client) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO clients (id, user_id, contact_name, contact_email, contact_phone, cnpj, address, plan, platform,
		                      subscription_status, subscription_value, commission_percentage, due_date, contract_start_date,
		                      store_name, store_url, notify_email, notify_system, notify_whatsapp, asaas_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		client.ID,
		client.UserID,
		client.ContactName,
		client.ContactEmail,
		client.ContactPhone,
		client.CNPJ,
		client.Address,
		client.Plan,
		client.Platform,
		client.SubscriptionStatus,
		client.SubscriptionValue,
		client.CommissionPercentage,
		client.DueDate,
		client.ContractStartDate,
		client.StoreName,
		client.StoreURL,
		client.NotifyEmail,
		client.NotifySystem,
		client.NotifyWhatsapp,
		client.AsaasID,
		client.CreatedAt,
		client.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, client *domain.Client) error {
	return db.WithContext(ctx).Exec(
		`UPDATE clients
		 SET user_id = ?, contact_name = ?, contact_email = ?, contact_phone = ?, cnpj = ?, address = ?, plan = ?,
		     platform = ?, subscription_status = ?, subscription_value = ?, commission_percentage = ?, due_date = ?,
		     contract_start_date = ?, store_name = ?, store_url = ?, notify_email = ?, notify_system = ?,
		     notify_whatsapp = ?, asaas_id = ?, updated_at = ?
		 WHERE id = ?`,
		client.UserID,
		client.ContactName,
		client.ContactEmail,
		client.ContactPhone,
		client.CNPJ,
		client.Address,
		client.Plan,
		client.Platform,
		client.SubscriptionStatus,
		client.SubscriptionValue,
		client.CommissionPercentage,
		client.DueDate,
		client.ContractStartDate,
		client.StoreName,
		client.StoreURL,
		client.NotifyEmail,
		client.NotifySystem,
		client.NotifyWhatsapp,
		client.AsaasID,
		client.UpdatedAt,
		client.ID,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Exec(`DELETE FROM clients WHERE id = ?`, id).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Client, error) {
	return r.findOne(ctx, db, `id = ?`, id)
}

func (r *repo) FindByUserID(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*domain.Client, error) {
	return r.findOne(ctx, db, `user_id = ?`, userID)
}

func (r *repo) findOne(ctx context.Context, db *gorm.DB, cond string, arg any) (*domain.Client, error) {
	var client domain.Client
	err := db.WithContext(ctx).
		Model(&domain.Client{}).
		Where(cond, arg).
		Limit(1).
		Find(&client).Error
	if err != nil {
		return nil, err
	}
	if client.ID == 0 {
		return nil, nil
	}
	return &client, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListClientFilter) ([]*domain.Client, error) {
	var clients []*domain.Client
	stmt := db.WithContext(ctx).Model(&domain.Client{})
	if filter.Status != "" {
		stmt = stmt.Where("subscription_status = ?", filter.Status)
	}
	if filter.Plan != "" {
		stmt = stmt.Where("plan = ?", filter.Plan)
	}
	if filter.Platform != "" {
		stmt = stmt.Where("platform = ?", filter.Platform)
	}
	err := stmt.
		Order("created_at desc, id desc").
		Find(&clients).Error
	if err != nil {
		return nil, err
	}
	return clients, nil
}
