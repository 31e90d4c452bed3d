// Package domain contains models and contracts for managed store clients.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// SubscriptionStatus is the billing state of a client account.
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionInactive  SubscriptionStatus = "inactive"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	SubscriptionOverdue   SubscriptionStatus = "overdue"
)

// Client is a store account managed by the backoffice. AsaasID links it
// to the billing-provider customer when the account is mirrored remotely.
type Client struct {
	ID                   snowflake.ID       `gorm:"primaryKey" json:"id"`
	UserID               *snowflake.ID      `gorm:"column:user_id;index" json:"user_id,omitempty"`
	ContactName          string             `gorm:"not null;default:''" json:"contact_name"`
	ContactEmail         string             `gorm:"not null;default:''" json:"contact_email"`
	ContactPhone         string             `gorm:"not null;default:''" json:"contact_phone"`
	CNPJ                 string             `gorm:"column:cnpj;not null;default:''" json:"cnpj"`
	Address              string             `gorm:"not null;default:''" json:"address"`
	Plan                 string             `gorm:"not null;default:'standard'" json:"plan"`
	Platform             string             `gorm:"not null;default:''" json:"platform"`
	SubscriptionStatus   SubscriptionStatus `gorm:"type:text;not null;default:'active'" json:"subscription_status"`
	SubscriptionValue    float64            `gorm:"not null;default:0" json:"subscription_value"`
	CommissionPercentage float64            `gorm:"not null;default:0" json:"commission_percentage"`
	DueDate              int                `gorm:"not null;default:10" json:"due_date"`
	ContractStartDate    *time.Time         `json:"contract_start_date,omitempty"`
	StoreName            string             `gorm:"not null;default:''" json:"store_name"`
	StoreURL             string             `gorm:"column:store_url;not null;default:''" json:"store_url"`
	NotifyEmail          bool               `gorm:"not null;default:true" json:"notify_email"`
	NotifySystem         bool               `gorm:"not null;default:true" json:"notify_system"`
	NotifyWhatsapp       bool               `gorm:"not null;default:false" json:"notify_whatsapp"`
	AsaasID              *string            `gorm:"column:asaas_id;index" json:"asaas_id,omitempty"`
	CreatedAt            time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt            time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Client) TableName() string { return "clients" }
