package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// ListClientFilter narrows List results. All filters are exact matches
// applied in SQL; free-text search is the service's concern.
type ListClientFilter struct {
	Status   SubscriptionStatus
	Plan     string
	Platform string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, client *Client) error
	Update(ctx context.Context, db *gorm.DB, client *Client) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Client, error)
	FindByUserID(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*Client, error)
	List(ctx context.Context, db *gorm.DB, filter ListClientFilter) ([]*Client, error)
}
