package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/convertfy/backoffice/internal/asaas"
	clientdomain "github.com/convertfy/backoffice/internal/client/domain"
	clientrepo "github.com/convertfy/backoffice/internal/client/repository"
	"github.com/convertfy/backoffice/internal/clock"
	"github.com/convertfy/backoffice/internal/config"
	"github.com/convertfy/backoffice/internal/subscription/domain"
	"github.com/convertfy/backoffice/internal/subscription/repository"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type subscriptionUpstream struct {
	creates    []asaas.SubscriptionInput
	cancelled  []string
	nextRemote int
}

func (u *subscriptionUpstream) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/subscriptions":
			var input asaas.SubscriptionInput
			_ = json.NewDecoder(r.Body).Decode(&input)
			u.creates = append(u.creates, input)
			u.nextRemote++
			json.NewEncoder(w).Encode(asaas.Subscription{ID: fmt.Sprintf("sub_%d", u.nextRemote)})
		case r.Method == http.MethodDelete:
			u.cancelled = append(u.cancelled, r.URL.Path[len("/subscriptions/"):])
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, `{"deleted":true}`)
		default:
			http.NotFound(w, r)
		}
	}
}

func newTestService(t *testing.T) (*Service, *gorm.DB, *subscriptionUpstream) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&clientdomain.Client{}, &domain.Subscription{}))

	upstream := &subscriptionUpstream{}
	srv := httptest.NewServer(upstream.handler())
	t.Cleanup(srv.Close)

	node, err := snowflake.NewNode(4)
	require.NoError(t, err)

	cfg := config.Config{
		Asaas: config.AsaasConfig{
			BaseURL:  srv.URL,
			APIToken: "test-token",
			Timeout:  2 * time.Second,
		},
	}

	// 2026-03-05: day 10 of the current month is still ahead.
	fake := clock.NewFakeClock(time.Date(2026, time.March, 5, 9, 0, 0, 0, time.UTC))

	svc := New(Params{
		DB:      db,
		Log:     zap.NewNop(),
		GenID:   node,
		Clock:   fake,
		Repo:    repository.Provide(),
		Clients: clientrepo.Provide(),
		Asaas:   asaas.NewClient(cfg, zap.NewNop()),
	})
	return svc.(*Service), db, upstream
}

func seedClient(t *testing.T, db *gorm.DB, id int64, asaasID string) clientdomain.Client {
	t.Helper()
	client := clientdomain.Client{
		ID:           snowflake.ParseInt64(id),
		ContactName:  "Loja",
		ContactEmail: fmt.Sprintf("loja%d@example.com", id),
		Plan:         "standard",
		DueDate:      10,
	}
	if asaasID != "" {
		client.AsaasID = &asaasID
	}
	require.NoError(t, db.Create(&client).Error)
	return client
}

func TestCreateMirrorsWhenClientLinked(t *testing.T) {
	svc, db, upstream := newTestService(t)
	client := seedClient(t, db, 500, "cus_500")

	sub, err := svc.Create(context.Background(), domain.CreateSubscriptionRequest{
		ClientID: client.ID.String(),
		Value:    149.9,
		PlanType: "pro",
	})
	require.NoError(t, err)
	require.NotNil(t, sub.AsaasID)
	require.Equal(t, "sub_1", *sub.AsaasID)
	require.Equal(t, "MONTHLY", sub.Cycle)
	require.Equal(t, domain.StatusActive, sub.Status)

	// Due day 10 of March has not passed on March 5.
	require.NotNil(t, sub.NextDueDate)
	require.Equal(t, time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC), *sub.NextDueDate)

	require.Len(t, upstream.creates, 1)
	require.Equal(t, "cus_500", upstream.creates[0].Customer)
	require.Equal(t, "BOLETO", upstream.creates[0].BillingType)
	require.Equal(t, "2026-03-10", upstream.creates[0].NextDueDate)
	require.Equal(t, "Assinatura Convertfy - Plano pro", upstream.creates[0].Description)
}

func TestCreateSkipsMirrorForUnlinkedClient(t *testing.T) {
	svc, db, upstream := newTestService(t)
	client := seedClient(t, db, 501, "")

	sub, err := svc.Create(context.Background(), domain.CreateSubscriptionRequest{
		ClientID: client.ID.String(),
		Value:    99,
	})
	require.NoError(t, err)
	require.Nil(t, sub.AsaasID)
	require.Empty(t, upstream.creates)
}

func TestCreateRejectsUnknownClient(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), domain.CreateSubscriptionRequest{
		ClientID: "123456789",
	})
	require.ErrorIs(t, err, clientdomain.ErrNotFound)

	_, err = svc.Create(context.Background(), domain.CreateSubscriptionRequest{
		ClientID: "not-a-number",
	})
	require.ErrorIs(t, err, domain.ErrInvalidClientID)
}

func TestNextDueDateRollsOver(t *testing.T) {
	now := time.Date(2026, time.March, 15, 9, 0, 0, 0, time.UTC)
	require.Equal(t,
		time.Date(2026, time.April, 10, 0, 0, 0, 0, time.UTC),
		nextDueDate(now, 10),
		"a due day already past rolls to next month",
	)
	require.Equal(t,
		time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC),
		nextDueDate(now, 20),
	)
}

func TestCancelSetsReasonAndMirrors(t *testing.T) {
	svc, db, upstream := newTestService(t)
	client := seedClient(t, db, 502, "cus_502")

	sub, err := svc.Create(context.Background(), domain.CreateSubscriptionRequest{
		ClientID: client.ID.String(),
		Value:    50,
	})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(context.Background(), sub.ID.String(), "")
	require.NoError(t, err)
	require.Equal(t, domain.StatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancellationReason)
	require.Equal(t, "Cancelado pelo sistema", *cancelled.CancellationReason)

	require.Equal(t, []string{"sub_1"}, upstream.cancelled)
}
