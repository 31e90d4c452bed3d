// Package domain contains the monthly revenue snapshot model.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Revenue is one client's revenue snapshot for a reference month.
// Channel figures are derived splits of the total until real
// marketing-attribution data is wired in.
type Revenue struct {
	ID                snowflake.ID `gorm:"primaryKey" json:"id"`
	ClientID          snowflake.ID `gorm:"column:client_id;not null;index" json:"client_id"`
	TotalRevenue      float64      `gorm:"not null;default:0" json:"total_revenue"`
	CommissionRevenue float64      `gorm:"not null;default:0" json:"commission_revenue"`
	ReferenceMonth    int          `gorm:"not null" json:"reference_month"`
	ReferenceYear     int          `gorm:"not null" json:"reference_year"`
	EmailRevenue      float64      `gorm:"not null;default:0" json:"email_revenue"`
	WhatsappRevenue   float64      `gorm:"not null;default:0" json:"whatsapp_revenue"`
	SMSRevenue        float64      `gorm:"column:sms_revenue;not null;default:0" json:"sms_revenue"`
	AverageTicket     float64      `gorm:"not null;default:0" json:"average_ticket"`
	ConversionRate    float64      `gorm:"not null;default:0" json:"conversion_rate"`
	ROI               float64      `gorm:"column:roi;not null;default:0" json:"roi"`
	CreatedAt         time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Revenue) TableName() string { return "revenues" }
