package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/convertfy/backoffice/internal/asaas"
	"github.com/convertfy/backoffice/internal/auth/password"
	clientdomain "github.com/convertfy/backoffice/internal/client/domain"
	clientservice "github.com/convertfy/backoffice/internal/client/service"
	"github.com/convertfy/backoffice/internal/clock"
	"github.com/convertfy/backoffice/internal/config"
	"github.com/convertfy/backoffice/internal/sync/domain"
	userdomain "github.com/convertfy/backoffice/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Defaults applied to client records created from imported customers.
// These match what the admin UI expects for a freshly imported partner
// store before an operator fills in the real data.
const (
	importedPlatform   = "shopify"
	importedStoreName  = "Loja Padrão"
	importedStoreURL   = "https://seudominio.com"
	importedCommission = 10.0
	importedPassword   = "admin123"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Config  config.Config
	Repo    domain.Repository
	Users   userdomain.Repository
	Clients clientdomain.Repository
	Asaas   *asaas.Client
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	cfg     config.SyncConfig
	repo    domain.Repository
	users   userdomain.Repository
	clients clientdomain.Repository
	asaas   *asaas.Client
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("sync.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		cfg:     p.Config.Sync,
		repo:    p.Repo,
		users:   p.Users,
		clients: p.Clients,
		asaas:   p.Asaas,
	}
}

func (s *Service) Start(ctx context.Context) (*domain.Run, error) {
	now := s.clock.Now().UTC()

	report := &domain.Report{
		ID:        s.genID.Generate(),
		Errors:    datatypes.NewJSONSlice([]domain.ItemError{}),
		Status:    domain.StatusRunning,
		StartedAt: now,
		CreatedAt: now,
		UpdatedAt: now,
	}

	claimed, err := s.repo.ClaimLock(ctx, s.db, report.ID, now, now.Add(-s.cfg.StaleAfter))
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, domain.ErrSyncInProgress
	}

	if err := s.repo.InsertReport(ctx, s.db, report); err != nil {
		if relErr := s.repo.ReleaseLock(ctx, s.db, report.ID); relErr != nil {
			s.log.Error("lock release failed after insert error", zap.Error(relErr))
		}
		return nil, err
	}

	// The loop outlives the start request, so it gets its own context.
	runCtx, cancel := context.WithCancel(context.Background())
	run := domain.NewRun(report.ID, cancel)

	go s.runSync(runCtx, run, report)

	return run, nil
}

func (s *Service) runSync(ctx context.Context, run *domain.Run, report *domain.Report) {
	defer run.Finish()
	defer func() {
		if err := s.repo.ReleaseLock(context.Background(), s.db, report.ID); err != nil {
			s.log.Error("lock release failed", zap.Error(err))
		}
	}()

	s.log.Info("sync started", zap.String("report_id", report.ID.String()))

	offset := 0
	for {
		page, err := s.asaas.ListCustomers(ctx, asaas.ListCustomersRequest{
			Limit:  s.cfg.PageSize,
			Offset: offset,
			Status: asaas.CustomerStatusActive,
		})
		if err != nil {
			s.finalize(report, domain.StatusFailed, domain.ItemError{
				Email: "general",
				Error: err.Error(),
			})
			return
		}

		for _, customer := range page.Data {
			select {
			case <-ctx.Done():
				s.finalize(report, domain.StatusFailed, domain.ItemError{
					Email: "general",
					Error: "sync cancelled",
				})
				return
			default:
			}

			report.TotalProcessed++
			action, err := s.processCustomer(ctx, customer)
			switch {
			case err != nil:
				report.Failed++
				report.Errors = append(report.Errors, domain.ItemError{
					Email: customer.Email,
					Error: err.Error(),
				})
				s.log.Warn("customer reconcile failed",
					zap.String("email", customer.Email),
					zap.Error(err),
				)
			case action == actionCreated:
				report.Created++
			case action == actionUpdated:
				report.Updated++
			}

			if s.cfg.Checkpoint > 0 && report.TotalProcessed%s.cfg.Checkpoint == 0 {
				s.checkpoint(ctx, report)
			}
		}

		if !page.HasMore {
			break
		}
		offset += s.cfg.PageSize

		select {
		case <-ctx.Done():
			s.finalize(report, domain.StatusFailed, domain.ItemError{
				Email: "general",
				Error: "sync cancelled",
			})
			return
		case <-time.After(s.cfg.PageDelay):
		}
	}

	s.finalize(report, domain.StatusCompleted)
	s.log.Info("sync completed",
		zap.String("report_id", report.ID.String()),
		zap.Int("total_processed", report.TotalProcessed),
		zap.Int("created", report.Created),
		zap.Int("updated", report.Updated),
		zap.Int("failed", report.Failed),
	)
}

func (s *Service) checkpoint(ctx context.Context, report *domain.Report) {
	report.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.UpdateReport(ctx, s.db, report); err != nil {
		s.log.Warn("report checkpoint failed",
			zap.String("report_id", report.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *Service) finalize(report *domain.Report, status domain.ReportStatus, extra ...domain.ItemError) {
	now := s.clock.Now().UTC()
	report.Status = status
	report.EndedAt = &now
	report.UpdatedAt = now
	report.Errors = append(report.Errors, extra...)

	// Finalization must land even when the run context was cancelled.
	if err := s.repo.UpdateReport(context.Background(), s.db, report); err != nil {
		s.log.Error("report finalize failed",
			zap.String("report_id", report.ID.String()),
			zap.Error(err),
		)
	}
}

type customerAction int

const (
	actionCreated customerAction = iota
	actionUpdated
)

// processCustomer reconciles one remote customer into local User and
// Client records. Matching is by provider id first, then by email, so
// a re-run of the same customer never creates a duplicate.
func (s *Service) processCustomer(ctx context.Context, customer asaas.Customer) (customerAction, error) {
	user, err := s.users.FindByAsaasID(ctx, s.db, customer.ID)
	if err != nil {
		return 0, err
	}
	if user == nil {
		user, err = s.users.FindByEmail(ctx, s.db, customer.Email)
		if err != nil {
			return 0, err
		}
	}

	now := s.clock.Now().UTC()

	if user != nil {
		s.applyCustomer(user, customer, now)
		if err := s.users.Update(ctx, s.db, user); err != nil {
			return 0, err
		}
		if err := s.upsertClient(ctx, user.ID, customer, now); err != nil {
			return 0, err
		}
		return actionUpdated, nil
	}

	hashed, err := password.Hash(importedPassword)
	if err != nil {
		return 0, err
	}
	user = &userdomain.User{
		ID:         s.genID.Generate(),
		Password:   hashed,
		Role:       userdomain.RoleClient,
		FirstLogin: true,
		CreatedAt:  now,
	}
	s.applyCustomer(user, customer, now)
	if err := s.users.Insert(ctx, s.db, user); err != nil {
		return 0, err
	}
	if err := s.insertClient(ctx, user.ID, customer, now); err != nil {
		return 0, err
	}
	return actionCreated, nil
}

func (s *Service) applyCustomer(user *userdomain.User, customer asaas.Customer, now time.Time) {
	user.Name = customer.Name
	user.Email = customer.Email
	user.Phone = contactPhone(customer)
	user.AsaasID = &customer.ID
	user.ImportedFromAsaas = true
	user.Role = userdomain.RoleClient
	if customer.Status == asaas.CustomerStatusActive {
		user.Status = userdomain.StatusActive
	} else {
		user.Status = userdomain.StatusInactive
	}
	user.UpdatedAt = now
}

func (s *Service) upsertClient(ctx context.Context, userID snowflake.ID, customer asaas.Customer, now time.Time) error {
	client, err := s.clients.FindByUserID(ctx, s.db, userID)
	if err != nil {
		return err
	}
	if client == nil {
		return s.insertClient(ctx, userID, customer, now)
	}

	clientservice.AsaasToClient(customer, client)
	client.UpdatedAt = now
	return s.clients.Update(ctx, s.db, client)
}

func (s *Service) insertClient(ctx context.Context, userID snowflake.ID, customer asaas.Customer, now time.Time) error {
	client := clientservice.AsaasToClientCreate(customer, s.importDefaults(), now)
	client.ID = s.genID.Generate()
	client.UserID = &userID
	return s.clients.Insert(ctx, s.db, &client)
}

func (s *Service) importDefaults() clientservice.ImportDefaults {
	return clientservice.ImportDefaults{
		Plan:                 s.cfg.DefaultPlan,
		Platform:             importedPlatform,
		CommissionPercentage: importedCommission,
		DueDate:              s.cfg.DefaultDueDay,
		StoreName:            importedStoreName,
		StoreURL:             importedStoreURL,
	}
}

func contactPhone(customer asaas.Customer) string {
	if customer.MobilePhone != "" {
		return customer.MobilePhone
	}
	return customer.Phone
}

func (s *Service) GetReport(ctx context.Context, rawID string) (domain.Report, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil || id == 0 {
		return domain.Report{}, domain.ErrInvalidReportID
	}
	report, err := s.repo.FindReport(ctx, s.db, id)
	if err != nil {
		return domain.Report{}, err
	}
	if report == nil {
		return domain.Report{}, domain.ErrReportNotFound
	}
	return *report, nil
}

func (s *Service) ListReports(ctx context.Context) ([]domain.Report, error) {
	items, err := s.repo.ListReports(ctx, s.db)
	if err != nil {
		return nil, err
	}
	return collect(items), nil
}

func (s *Service) ActiveReports(ctx context.Context) ([]domain.Report, error) {
	items, err := s.repo.ListReportsByStatus(ctx, s.db, domain.StatusRunning)
	if err != nil {
		return nil, err
	}
	return collect(items), nil
}

// RecoverStale finalizes running reports that stopped making progress,
// typically left behind by a crash mid-sync. Invoked on startup.
func (s *Service) RecoverStale(ctx context.Context) error {
	running, err := s.repo.ListReportsByStatus(ctx, s.db, domain.StatusRunning)
	if err != nil {
		return err
	}

	cutoff := s.clock.Now().UTC().Add(-s.cfg.StaleAfter)
	for _, report := range running {
		if report == nil || report.UpdatedAt.After(cutoff) {
			continue
		}
		s.log.Warn("finalizing stale sync report",
			zap.String("report_id", report.ID.String()),
			zap.Time("last_progress", report.UpdatedAt),
		)
		s.finalize(report, domain.StatusFailed, domain.ItemError{
			Email: "general",
			Error: "sync interrupted",
		})
		if err := s.repo.ReleaseLock(ctx, s.db, report.ID); err != nil {
			return err
		}
	}
	return nil
}

func collect(items []*domain.Report) []domain.Report {
	reports := make([]domain.Report, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		reports = append(reports, *item)
	}
	return reports
}
