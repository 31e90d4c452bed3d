package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/convertfy/backoffice/internal/asaas"
	"github.com/convertfy/backoffice/internal/client/domain"
	"github.com/convertfy/backoffice/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
	Asaas *asaas.Client
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
	asaas *asaas.Client
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("client.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
		asaas: p.Asaas,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateClientRequest) (domain.Client, error) {
	name := strings.TrimSpace(req.ContactName)
	if name == "" {
		return domain.Client{}, domain.ErrInvalidName
	}
	email := strings.TrimSpace(req.ContactEmail)
	if email == "" || !strings.Contains(email, "@") {
		return domain.Client{}, domain.ErrInvalidEmail
	}

	now := s.clock.Now().UTC()
	client := domain.Client{
		ID:                   s.genID.Generate(),
		ContactName:          name,
		ContactEmail:         email,
		ContactPhone:         strings.TrimSpace(req.ContactPhone),
		CNPJ:                 strings.TrimSpace(req.CNPJ),
		Address:              strings.TrimSpace(req.Address),
		Plan:                 req.Plan,
		Platform:             req.Platform,
		SubscriptionStatus:   domain.SubscriptionActive,
		SubscriptionValue:    req.SubscriptionValue,
		CommissionPercentage: req.CommissionPercentage,
		DueDate:              req.DueDate,
		ContractStartDate:    req.ContractStartDate,
		StoreName:            strings.TrimSpace(req.StoreName),
		StoreURL:             strings.TrimSpace(req.StoreURL),
		NotifyEmail:          true,
		NotifySystem:         true,
		NotifyWhatsapp:       false,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if client.Plan == "" {
		client.Plan = "standard"
	}
	if client.DueDate <= 0 {
		client.DueDate = 10
	}

	if req.SyncWithAsaas {
		// Mirror before the local insert so the provider id lands on
		// the stored row. A mirror failure never fails the create.
		input := ClientToAsaas(client)
		created, err := s.asaas.CreateCustomer(ctx, input)
		if err != nil {
			s.log.Warn("asaas mirror create failed",
				zap.String("contact_email", email),
				zap.Error(err),
			)
		} else {
			client.AsaasID = &created.ID
		}
	}

	if err := s.repo.Insert(ctx, s.db, &client); err != nil {
		return domain.Client{}, err
	}
	return client, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateClientRequest) (domain.Client, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Client{}, err
	}

	client, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Client{}, err
	}
	if client == nil {
		return domain.Client{}, domain.ErrNotFound
	}

	applyUpdate(client, req)
	client.UpdatedAt = s.clock.Now().UTC()

	if err := s.repo.Update(ctx, s.db, client); err != nil {
		return domain.Client{}, err
	}

	if req.SyncWithAsaas && client.AsaasID != nil {
		input := ClientToAsaas(*client)
		if _, err := s.asaas.UpdateCustomer(ctx, *client.AsaasID, input); err != nil {
			s.log.Warn("asaas mirror update failed",
				zap.String("asaas_id", *client.AsaasID),
				zap.Error(err),
			)
		}
	}
	return *client, nil
}

// Delete removes the client locally. The remote customer is only
// deactivated, never deleted, so billing history survives upstream.
func (s *Service) Delete(ctx context.Context, rawID string) error {
	id, err := s.parseID(rawID)
	if err != nil {
		return err
	}

	client, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if client == nil {
		return domain.ErrNotFound
	}

	if err := s.repo.Delete(ctx, s.db, id); err != nil {
		return err
	}

	if client.AsaasID != nil {
		input := asaas.CustomerInput{Status: asaas.CustomerStatusInactive}
		if _, err := s.asaas.UpdateCustomer(ctx, *client.AsaasID, input); err != nil {
			s.log.Warn("asaas deactivate failed",
				zap.String("asaas_id", *client.AsaasID),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (s *Service) GetByID(ctx context.Context, rawID string) (domain.Client, error) {
	id, err := s.parseID(rawID)
	if err != nil {
		return domain.Client{}, err
	}
	client, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Client{}, err
	}
	if client == nil {
		return domain.Client{}, domain.ErrNotFound
	}
	return *client, nil
}

func (s *Service) GetByUserID(ctx context.Context, rawID string) (domain.Client, error) {
	userID, err := s.parseID(rawID)
	if err != nil {
		return domain.Client{}, err
	}
	client, err := s.repo.FindByUserID(ctx, s.db, userID)
	if err != nil {
		return domain.Client{}, err
	}
	if client == nil {
		return domain.Client{}, domain.ErrNotFound
	}
	return *client, nil
}

func (s *Service) List(ctx context.Context, req domain.ListClientRequest) ([]domain.Client, error) {
	items, err := s.repo.List(ctx, s.db, domain.ListClientFilter{
		Status:   req.Status,
		Plan:     strings.TrimSpace(req.Plan),
		Platform: strings.TrimSpace(req.Platform),
	})
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(req.Search))
	clients := make([]domain.Client, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		if search != "" && !matchesSearch(item, search) {
			continue
		}
		clients = append(clients, *item)
	}
	return clients, nil
}

// matchesSearch does a substring match over contact and store fields.
// The term list mirrors the admin UI's free-text search.
func matchesSearch(client *domain.Client, term string) bool {
	for _, field := range []string{
		client.ContactName,
		client.ContactEmail,
		client.StoreName,
		client.StoreURL,
	} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func applyUpdate(client *domain.Client, req domain.UpdateClientRequest) {
	if req.ContactName != nil {
		client.ContactName = strings.TrimSpace(*req.ContactName)
	}
	if req.ContactEmail != nil {
		client.ContactEmail = strings.TrimSpace(*req.ContactEmail)
	}
	if req.ContactPhone != nil {
		client.ContactPhone = strings.TrimSpace(*req.ContactPhone)
	}
	if req.CNPJ != nil {
		client.CNPJ = strings.TrimSpace(*req.CNPJ)
	}
	if req.Address != nil {
		client.Address = strings.TrimSpace(*req.Address)
	}
	if req.Plan != nil {
		client.Plan = *req.Plan
	}
	if req.Platform != nil {
		client.Platform = *req.Platform
	}
	if req.SubscriptionStatus != nil {
		client.SubscriptionStatus = *req.SubscriptionStatus
	}
	if req.SubscriptionValue != nil {
		client.SubscriptionValue = *req.SubscriptionValue
	}
	if req.CommissionPercentage != nil {
		client.CommissionPercentage = *req.CommissionPercentage
	}
	if req.DueDate != nil {
		client.DueDate = *req.DueDate
	}
	if req.StoreName != nil {
		client.StoreName = strings.TrimSpace(*req.StoreName)
	}
	if req.StoreURL != nil {
		client.StoreURL = strings.TrimSpace(*req.StoreURL)
	}
	if req.NotifyEmail != nil {
		client.NotifyEmail = *req.NotifyEmail
	}
	if req.NotifySystem != nil {
		client.NotifySystem = *req.NotifySystem
	}
	if req.NotifyWhatsapp != nil {
		client.NotifyWhatsapp = *req.NotifyWhatsapp
	}
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
