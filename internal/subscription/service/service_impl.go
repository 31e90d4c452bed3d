package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/convertfy/backoffice/internal/asaas"
	clientdomain "github.com/convertfy/backoffice/internal/client/domain"
	"github.com/convertfy/backoffice/internal/clock"
	"github.com/convertfy/backoffice/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    domain.Repository
	Clients clientdomain.Repository
	Asaas   *asaas.Client
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	clients clientdomain.Repository
	asaas   *asaas.Client
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("subscription.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		clients: p.Clients,
		asaas:   p.Asaas,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateSubscriptionRequest) (domain.Subscription, error) {
	clientID, err := snowflake.ParseString(strings.TrimSpace(req.ClientID))
	if err != nil || clientID == 0 {
		return domain.Subscription{}, domain.ErrInvalidClientID
	}
	if req.Value < 0 {
		return domain.Subscription{}, domain.ErrInvalidValue
	}

	client, err := s.clients.FindByID(ctx, s.db, clientID)
	if err != nil {
		return domain.Subscription{}, err
	}
	if client == nil {
		return domain.Subscription{}, clientdomain.ErrNotFound
	}

	now := s.clock.Now().UTC()
	dueDay := req.DueDay
	if dueDay <= 0 {
		dueDay = client.DueDate
	}
	nextDue := nextDueDate(now, dueDay)

	cycle := strings.ToUpper(strings.TrimSpace(req.Cycle))
	if cycle == "" {
		cycle = "MONTHLY"
	}

	sub := domain.Subscription{
		ID:          s.genID.Generate(),
		ClientID:    clientID,
		Value:       req.Value,
		NextDueDate: &nextDue,
		Cycle:       cycle,
		PlanType:    req.PlanType,
		Status:      domain.StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// Mirror to the billing provider when the client is linked there.
	// Mirror failures are logged and never fail the local write.
	if client.AsaasID != nil {
		created, err := s.asaas.CreateSubscription(ctx, asaas.SubscriptionInput{
			Customer:          *client.AsaasID,
			Value:             sub.Value,
			NextDueDate:       nextDue.Format("2006-01-02"),
			BillingType:       "BOLETO",
			Cycle:             sub.Cycle,
			Description:       subscriptionDescription(sub.PlanType),
			ExternalReference: sub.ID.String(),
		})
		if err != nil {
			s.log.Warn("asaas mirror create failed",
				zap.String("client_id", clientID.String()),
				zap.Error(err),
			)
		} else {
			sub.AsaasID = &created.ID
		}
	}

	if err := s.repo.Insert(ctx, s.db, &sub); err != nil {
		return domain.Subscription{}, err
	}
	return sub, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateSubscriptionRequest) (domain.Subscription, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Subscription{}, err
	}

	sub, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Subscription{}, err
	}
	if sub == nil {
		return domain.Subscription{}, domain.ErrNotFound
	}

	now := s.clock.Now().UTC()
	input := asaas.SubscriptionInput{}
	dirty := false

	if req.Value != nil {
		if *req.Value < 0 {
			return domain.Subscription{}, domain.ErrInvalidValue
		}
		sub.Value = *req.Value
		input.Value = *req.Value
		dirty = true
	}
	if req.DueDay != nil && *req.DueDay > 0 {
		next := nextDueDate(now, *req.DueDay)
		sub.NextDueDate = &next
		input.NextDueDate = next.Format("2006-01-02")
		dirty = true
	}
	if req.PlanType != nil {
		sub.PlanType = *req.PlanType
		input.Description = subscriptionDescription(*req.PlanType)
		dirty = true
	}
	if req.Status != nil {
		sub.Status = *req.Status
	}
	sub.UpdatedAt = now

	if err := s.repo.Update(ctx, s.db, sub); err != nil {
		return domain.Subscription{}, err
	}

	if dirty && sub.AsaasID != nil {
		if _, err := s.asaas.UpdateSubscription(ctx, *sub.AsaasID, input); err != nil {
			s.log.Warn("asaas mirror update failed",
				zap.String("asaas_id", *sub.AsaasID),
				zap.Error(err),
			)
		}
	}
	return *sub, nil
}

func (s *Service) Cancel(ctx context.Context, rawID, reason string) (domain.Subscription, error) {
	id, err := s.parseID(rawID)
	if err != nil {
		return domain.Subscription{}, err
	}

	sub, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Subscription{}, err
	}
	if sub == nil {
		return domain.Subscription{}, domain.ErrNotFound
	}

	if reason == "" {
		reason = "Cancelado pelo sistema"
	}
	sub.Status = domain.StatusCancelled
	sub.CancellationReason = &reason
	sub.UpdatedAt = s.clock.Now().UTC()

	if err := s.repo.Update(ctx, s.db, sub); err != nil {
		return domain.Subscription{}, err
	}

	if sub.AsaasID != nil {
		if err := s.asaas.CancelSubscription(ctx, *sub.AsaasID); err != nil {
			s.log.Warn("asaas cancel failed",
				zap.String("asaas_id", *sub.AsaasID),
				zap.Error(err),
			)
		}
	}
	return *sub, nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.Subscription, error) {
	id, err := s.parseID(rawID)
	if err != nil {
		return domain.Subscription{}, err
	}
	sub, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Subscription{}, err
	}
	if sub == nil {
		return domain.Subscription{}, domain.ErrNotFound
	}
	return *sub, nil
}

func (s *Service) List(ctx context.Context, req domain.ListSubscriptionRequest) ([]domain.Subscription, error) {
	filter := domain.ListSubscriptionFilter{Status: req.Status}
	if raw := strings.TrimSpace(req.ClientID); raw != "" {
		clientID, err := snowflake.ParseString(raw)
		if err != nil || clientID == 0 {
			return nil, domain.ErrInvalidClientID
		}
		filter.ClientID = clientID
	}

	items, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}
	subs := make([]domain.Subscription, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		subs = append(subs, *item)
	}
	return subs, nil
}

// nextDueDate picks the due day in the current month, rolling over to
// the next month when the day has already passed.
func nextDueDate(now time.Time, dueDay int) time.Time {
	due := time.Date(now.Year(), now.Month(), dueDay, 0, 0, 0, 0, time.UTC)
	if due.Before(now) {
		due = time.Date(now.Year(), now.Month()+1, dueDay, 0, 0, 0, 0, time.UTC)
	}
	return due
}

func subscriptionDescription(planType string) string {
	return fmt.Sprintf("Assinatura Convertfy - Plano %s", planType)
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
