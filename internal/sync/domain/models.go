// Package domain contains models and contracts for the customer
// reconciliation engine.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// ReportStatus is the lifecycle state of one reconciliation pass.
type ReportStatus string

const (
	StatusRunning   ReportStatus = "running"
	StatusCompleted ReportStatus = "completed"
	StatusFailed    ReportStatus = "failed"
)

// ItemError records one customer that could not be reconciled.
type ItemError struct {
	Email string `json:"email"`
	Error string `json:"error"`
}

// Report is the progress and result record of one reconciliation pass.
// The engine mutates it in place while running and finalizes it to
// completed or failed exactly once.
type Report struct {
	ID             snowflake.ID                   `gorm:"primaryKey" json:"id"`
	TotalProcessed int                            `gorm:"not null;default:0" json:"total_processed"`
	Created        int                            `gorm:"not null;default:0" json:"created"`
	Updated        int                            `gorm:"not null;default:0" json:"updated"`
	Failed         int                            `gorm:"not null;default:0" json:"failed"`
	Errors         datatypes.JSONSlice[ItemError] `gorm:"type:jsonb" json:"errors"`
	Status         ReportStatus                   `gorm:"type:text;not null;default:'running'" json:"status"`
	StartedAt      time.Time                      `gorm:"not null" json:"started_at"`
	EndedAt        *time.Time                     `json:"ended_at,omitempty"`
	CreatedAt      time.Time                      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time                      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Report) TableName() string { return "sync_reports" }

// Lock is the singleton row guarding the one-sync-at-a-time rule.
// Claiming it is a conditional update on the row, so two concurrent
// start requests cannot both win.
type Lock struct {
	ID       int16         `gorm:"primaryKey" json:"id"`
	Locked   bool          `gorm:"not null;default:false" json:"locked"`
	ReportID *snowflake.ID `gorm:"column:report_id" json:"report_id,omitempty"`
	LockedAt *time.Time    `json:"locked_at,omitempty"`
}

// TableName sets the database table name.
func (Lock) TableName() string { return "sync_locks" }

// LockID is the primary key of the singleton lock row.
const LockID int16 = 1
