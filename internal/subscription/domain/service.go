package domain

import (
	"context"
	"errors"
)

type CreateSubscriptionRequest struct {
	ClientID string  `json:"client_id" binding:"required"`
	Value    float64 `json:"value"`
	Cycle    string  `json:"cycle"`
	PlanType string  `json:"plan_type"`
	DueDay   int     `json:"due_day"`
}

type UpdateSubscriptionRequest struct {
	ID       string
	Value    *float64 `json:"value"`
	PlanType *string  `json:"plan_type"`
	DueDay   *int     `json:"due_day"`
	Status   *Status  `json:"status"`
}

type ListSubscriptionRequest struct {
	ClientID string
	Status   Status
}

type Service interface {
	Create(ctx context.Context, req CreateSubscriptionRequest) (Subscription, error)
	Update(ctx context.Context, req UpdateSubscriptionRequest) (Subscription, error)
	Cancel(ctx context.Context, id, reason string) (Subscription, error)
	GetByID(ctx context.Context, id string) (Subscription, error)
	List(ctx context.Context, req ListSubscriptionRequest) ([]Subscription, error)
}

var (
	ErrInvalidID       = errors.New("invalid_subscription_id")
	ErrInvalidClientID = errors.New("invalid_subscription_client")
	ErrInvalidValue    = errors.New("invalid_subscription_value")
	ErrNotFound        = errors.New("subscription_not_found")
)
