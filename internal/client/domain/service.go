package domain

import (
	"context"
	"errors"
	"time"
)

// CreateClientRequest carries the fields accepted on client creation.
// SyncWithAsaas asks the service to mirror the record to the billing
// provider; mirroring is best-effort and never fails the local write.
type CreateClientRequest struct {
	ContactName          string     `json:"contact_name" binding:"required"`
	ContactEmail         string     `json:"contact_email" binding:"required"`
	ContactPhone         string     `json:"contact_phone"`
	CNPJ                 string     `json:"cnpj"`
	Address              string     `json:"address"`
	Plan                 string     `json:"plan"`
	Platform             string     `json:"platform"`
	SubscriptionValue    float64    `json:"subscription_value"`
	CommissionPercentage float64    `json:"commission_percentage"`
	DueDate              int        `json:"due_date"`
	ContractStartDate    *time.Time `json:"contract_start_date"`
	StoreName            string     `json:"store_name"`
	StoreURL             string     `json:"store_url"`
	SyncWithAsaas        bool       `json:"sync_with_asaas"`
}

type UpdateClientRequest struct {
	ID                   string
	ContactName          *string             `json:"contact_name"`
	ContactEmail         *string             `json:"contact_email"`
	ContactPhone         *string             `json:"contact_phone"`
	CNPJ                 *string             `json:"cnpj"`
	Address              *string             `json:"address"`
	Plan                 *string             `json:"plan"`
	Platform             *string             `json:"platform"`
	SubscriptionStatus   *SubscriptionStatus `json:"subscription_status"`
	SubscriptionValue    *float64            `json:"subscription_value"`
	CommissionPercentage *float64            `json:"commission_percentage"`
	DueDate              *int                `json:"due_date"`
	StoreName            *string             `json:"store_name"`
	StoreURL             *string             `json:"store_url"`
	NotifyEmail          *bool               `json:"notify_email"`
	NotifySystem         *bool               `json:"notify_system"`
	NotifyWhatsapp       *bool               `json:"notify_whatsapp"`
	SyncWithAsaas        bool                `json:"sync_with_asaas"`
}

// ListClientRequest combines exact-match filters with a free-text
// Search term matched against contact and store fields.
type ListClientRequest struct {
	Status   SubscriptionStatus
	Plan     string
	Platform string
	Search   string
}

type Service interface {
	Create(ctx context.Context, req CreateClientRequest) (Client, error)
	Update(ctx context.Context, req UpdateClientRequest) (Client, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Client, error)
	GetByUserID(ctx context.Context, userID string) (Client, error)
	List(ctx context.Context, req ListClientRequest) ([]Client, error)
}

var (
	ErrInvalidID    = errors.New("invalid_client_id")
	ErrInvalidName  = errors.New("invalid_contact_name")
	ErrInvalidEmail = errors.New("invalid_contact_email")
	ErrNotFound     = errors.New("client_not_found")
)
