package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	clientdomain "github.com/convertfy/backoffice/internal/client/domain"
	"github.com/convertfy/backoffice/internal/clock"
	"github.com/convertfy/backoffice/internal/metrics/domain"
	revenuedomain "github.com/convertfy/backoffice/internal/revenue/domain"
	subdomain "github.com/convertfy/backoffice/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Placeholder figures used until real marketing-attribution data is
// available. The channel split and rates mirror what the dashboard
// currently displays.
const (
	emailShare    = 0.6
	whatsappShare = 0.3
	smsShare      = 0.1

	placeholderConversionRate = 2.5
	placeholderROI            = 3.2

	snapshotBatchSize = 500

	// Without churn the LTV horizon is capped at 24 months.
	defaultLTVMonths = 24
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Clients  clientdomain.Repository
	Subs     subdomain.Repository
	Revenues revenuedomain.Repository
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	clients  clientdomain.Repository
	subs     subdomain.Repository
	revenues revenuedomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("metrics.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		clients:  p.Clients,
		subs:     p.Subs,
		revenues: p.Revenues,
	}
}

func (s *Service) MRR(ctx context.Context) (float64, error) {
	active, err := s.clients.List(ctx, s.db, clientdomain.ListClientFilter{
		Status: clientdomain.SubscriptionActive,
	})
	if err != nil {
		return 0, err
	}

	var mrr float64
	for _, client := range active {
		if client == nil {
			continue
		}
		mrr += client.SubscriptionValue
	}
	return mrr, nil
}

// ChurnRate divides cancellations in the current calendar month by the
// active base as of the end of the previous month, in percent.
func (s *Service) ChurnRate(ctx context.Context) (float64, error) {
	all, err := s.clients.List(ctx, s.db, clientdomain.ListClientFilter{})
	if err != nil {
		return 0, err
	}

	now := s.clock.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	prevMonthEnd := monthStart

	var cancelled, previousActive int
	for _, client := range all {
		if client == nil {
			continue
		}
		switch client.SubscriptionStatus {
		case clientdomain.SubscriptionInactive, clientdomain.SubscriptionCancelled:
			if !client.UpdatedAt.Before(monthStart) {
				cancelled++
			}
		case clientdomain.SubscriptionActive:
			if client.CreatedAt.Before(prevMonthEnd) {
				previousActive++
			}
		}
	}

	if previousActive == 0 {
		return 0, nil
	}
	return float64(cancelled) / float64(previousActive) * 100, nil
}

func (s *Service) LTV(ctx context.Context) (float64, error) {
	mrr, err := s.MRR(ctx)
	if err != nil {
		return 0, err
	}
	churn, err := s.ChurnRate(ctx)
	if err != nil {
		return 0, err
	}
	if churn == 0 {
		return mrr * defaultLTVMonths, nil
	}
	return mrr / (churn / 100), nil
}

func (s *Service) FinancialReport(ctx context.Context) (domain.FinancialReport, error) {
	all, err := s.clients.List(ctx, s.db, clientdomain.ListClientFilter{})
	if err != nil {
		return domain.FinancialReport{}, err
	}

	report := domain.FinancialReport{
		ByPlatform: map[string]domain.Bucket{},
		ByPlan:     map[string]domain.Bucket{},
	}

	for _, client := range all {
		if client == nil {
			continue
		}
		report.TotalClients++
		if client.SubscriptionStatus != clientdomain.SubscriptionActive {
			continue
		}
		report.ActiveClients++
		if client.SubscriptionValue == 0 {
			continue
		}

		report.TotalRevenue += client.SubscriptionValue
		report.CommissionRevenue += client.SubscriptionValue * (client.CommissionPercentage / 100)

		platform := client.Platform
		if platform == "" {
			platform = "other"
		}
		bucket := report.ByPlatform[platform]
		bucket.Clients++
		bucket.Revenue += client.SubscriptionValue
		report.ByPlatform[platform] = bucket

		plan := client.Plan
		if plan == "" {
			plan = "standard"
		}
		bucket = report.ByPlan[plan]
		bucket.Clients++
		bucket.Revenue += client.SubscriptionValue
		report.ByPlan[plan] = bucket
	}

	if report.ActiveClients > 0 {
		report.AverageTicket = report.TotalRevenue / float64(report.ActiveClients)
	}
	if report.TotalClients > 0 {
		report.ConversionRate = float64(report.ActiveClients) / float64(report.TotalClients) * 100
	}
	return report, nil
}

func (s *Service) MonthlyComparison(ctx context.Context) (domain.FinancialReport, error) {
	report, err := s.FinancialReport(ctx)
	if err != nil {
		return domain.FinancialReport{}, err
	}

	prevMonth, prevYear := previousReference(s.clock.Now().UTC())
	previous, err := s.revenues.SumByReference(ctx, s.db, prevMonth, prevYear)
	if err != nil {
		return domain.FinancialReport{}, err
	}

	report.MonthlyComparison = &domain.MonthlyComparison{
		CurrentMonth: domain.PeriodSnapshot{
			Revenue: report.TotalRevenue,
			Clients: report.ActiveClients,
		},
		PreviousMonth: domain.PeriodSnapshot{
			Revenue: previous.Revenue,
			Clients: previous.Clients,
		},
		PercentChange: domain.PercentChange{
			Revenue: percentChange(previous.Revenue, report.TotalRevenue),
			Clients: percentChange(float64(previous.Clients), float64(report.ActiveClients)),
		},
	}
	return report, nil
}

func (s *Service) GenerateMonthlyRevenues(ctx context.Context) (int, error) {
	now := s.clock.Now().UTC()
	refMonth := int(now.Month())
	refYear := now.Year()

	active, err := s.clients.List(ctx, s.db, clientdomain.ListClientFilter{
		Status: clientdomain.SubscriptionActive,
	})
	if err != nil {
		return 0, err
	}

	// Re-running generation within the same month must not duplicate
	// a client's snapshot.
	existing, err := s.revenues.ListByReference(ctx, s.db, refMonth, refYear)
	if err != nil {
		return 0, err
	}
	snapshotted := make(map[snowflake.ID]bool, len(existing))
	for _, snapshot := range existing {
		if snapshot != nil {
			snapshotted[snapshot.ClientID] = true
		}
	}

	snapshots := make([]*revenuedomain.Revenue, 0, len(active))
	for _, client := range active {
		if client == nil || snapshotted[client.ID] {
			continue
		}

		subs, err := s.subs.List(ctx, s.db, subdomain.ListSubscriptionFilter{
			ClientID: client.ID,
			Status:   subdomain.StatusActive,
		})
		if err != nil {
			s.log.Warn("subscription lookup failed, skipping client",
				zap.String("client_id", client.ID.String()),
				zap.Error(err),
			)
			continue
		}

		var total float64
		for _, sub := range subs {
			if sub == nil {
				continue
			}
			total += sub.Value
		}

		snapshots = append(snapshots, &revenuedomain.Revenue{
			ID:                s.genID.Generate(),
			ClientID:          client.ID,
			TotalRevenue:      total,
			CommissionRevenue: total * (client.CommissionPercentage / 100),
			ReferenceMonth:    refMonth,
			ReferenceYear:     refYear,
			EmailRevenue:      total * emailShare,
			WhatsappRevenue:   total * whatsappShare,
			SMSRevenue:        total * smsShare,
			AverageTicket:     total,
			ConversionRate:    placeholderConversionRate,
			ROI:               placeholderROI,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
	}

	if err := s.revenues.InsertBatch(ctx, s.db, snapshots, snapshotBatchSize); err != nil {
		return 0, err
	}
	return len(snapshots), nil
}

func previousReference(now time.Time) (month, year int) {
	month = int(now.Month()) - 1
	year = now.Year()
	if month < 1 {
		month = 12
		year--
	}
	return month, year
}

func percentChange(old, current float64) float64 {
	if old == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (current - old) / old * 100
}
