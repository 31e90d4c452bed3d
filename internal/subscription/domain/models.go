// Package domain contains models and contracts for recurring subscriptions.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Status is the subscription lifecycle state.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusCancelled Status = "cancelled"
	StatusOverdue   Status = "overdue"
)

// Subscription is a recurring charge attached to a client. AsaasID is
// set when the charge is mirrored on the billing provider.
type Subscription struct {
	ID                 snowflake.ID `gorm:"primaryKey" json:"id"`
	ClientID           snowflake.ID `gorm:"column:client_id;not null;index" json:"client_id"`
	Value              float64      `gorm:"not null;default:0" json:"value"`
	NextDueDate        *time.Time   `gorm:"column:next_due_date" json:"next_due_date,omitempty"`
	Cycle              string       `gorm:"not null;default:'MONTHLY'" json:"cycle"`
	PlanType           string       `gorm:"not null;default:''" json:"plan_type"`
	Status             Status       `gorm:"type:text;not null;default:'active'" json:"status"`
	AsaasID            *string      `gorm:"column:asaas_id" json:"asaas_id,omitempty"`
	CancellationReason *string      `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Subscription) TableName() string { return "subscriptions" }
