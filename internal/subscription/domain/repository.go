package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// ListSubscriptionFilter narrows List results with exact matches.
type ListSubscriptionFilter struct {
	ClientID snowflake.ID
	Status   Status
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, sub *Subscription) error
	Update(ctx context.Context, db *gorm.DB, sub *Subscription) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Subscription, error)
	List(ctx context.Context, db *gorm.DB, filter ListSubscriptionFilter) ([]*Subscription, error)
}
