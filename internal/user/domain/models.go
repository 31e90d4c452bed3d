// Package domain contains persistence models for local user accounts.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Role separates admin operators from imported client accounts.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

// Status is the local account lifecycle state.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// User is a local account, optionally linked to a billing-provider customer.
type User struct {
	ID                snowflake.ID `gorm:"primaryKey" json:"id"`
	Name              string       `gorm:"not null" json:"name"`
	Email             string       `gorm:"not null;uniqueIndex" json:"email"`
	Phone             string       `gorm:"not null;default:''" json:"phone"`
	Password          string       `gorm:"not null" json:"-"`
	AsaasID           *string      `gorm:"column:asaas_id;index" json:"asaas_id,omitempty"`
	ImportedFromAsaas bool         `gorm:"not null;default:false" json:"imported_from_asaas"`
	Role              Role         `gorm:"type:text;not null;default:'client'" json:"role"`
	Status            Status       `gorm:"type:text;not null;default:'active'" json:"status"`
	FirstLogin        bool         `gorm:"not null;default:false" json:"first_login"`
	CreatedAt         time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }
