package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/convertfy/backoffice/internal/asaas"
	"github.com/convertfy/backoffice/internal/client/domain"
	"github.com/convertfy/backoffice/internal/client/repository"
	"github.com/convertfy/backoffice/internal/clock"
	"github.com/convertfy/backoffice/internal/config"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// upstreamRecorder captures the customer mutations sent to the
// billing provider.
type upstreamRecorder struct {
	mu      sync.Mutex
	creates []asaas.CustomerInput
	updates map[string]asaas.CustomerInput
	fail    bool
}

func (u *upstreamRecorder) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		defer u.mu.Unlock()

		if u.fail {
			http.Error(w, `{"errors":[{"description":"boom"}]}`, http.StatusInternalServerError)
			return
		}

		var input asaas.CustomerInput
		_ = json.NewDecoder(r.Body).Decode(&input)

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/customers":
			u.creates = append(u.creates, input)
			json.NewEncoder(w).Encode(asaas.Customer{ID: "cus_mirrored"})
		case r.Method == http.MethodPut:
			id := r.URL.Path[len("/customers/"):]
			u.updates[id] = input
			json.NewEncoder(w).Encode(asaas.Customer{ID: id})
		default:
			http.NotFound(w, r)
		}
	}
}

func newTestService(t *testing.T) (*Service, *gorm.DB, *upstreamRecorder) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Client{}))

	recorder := &upstreamRecorder{updates: map[string]asaas.CustomerInput{}}
	srv := httptest.NewServer(recorder.handler())
	t.Cleanup(srv.Close)

	node, err := snowflake.NewNode(3)
	require.NoError(t, err)

	cfg := config.Config{
		Asaas: config.AsaasConfig{
			BaseURL:  srv.URL,
			APIToken: "test-token",
			Timeout:  2 * time.Second,
		},
	}

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)),
		Repo:  repository.Provide(),
		Asaas: asaas.NewClient(cfg, zap.NewNop()),
	})
	return svc.(*Service), db, recorder
}

func TestCreateMirrorsToProviderAndStoresRemoteID(t *testing.T) {
	svc, db, recorder := newTestService(t)

	created, err := svc.Create(context.Background(), domain.CreateClientRequest{
		ContactName:   "Loja Azul",
		ContactEmail:  "azul@example.com",
		SyncWithAsaas: true,
	})
	require.NoError(t, err)
	require.NotNil(t, created.AsaasID)
	require.Equal(t, "cus_mirrored", *created.AsaasID)
	require.Equal(t, "standard", created.Plan)
	require.Equal(t, 10, created.DueDate)
	require.True(t, created.NotifyEmail)
	require.True(t, created.NotifySystem)
	require.False(t, created.NotifyWhatsapp)

	require.Len(t, recorder.creates, 1)
	require.Equal(t, "Loja Azul", recorder.creates[0].Name)

	var stored domain.Client
	require.NoError(t, db.First(&stored, "id = ?", created.ID).Error)
	require.NotNil(t, stored.AsaasID)
	require.Equal(t, "cus_mirrored", *stored.AsaasID)
}

func TestCreateSurvivesMirrorFailure(t *testing.T) {
	svc, db, recorder := newTestService(t)
	recorder.fail = true

	created, err := svc.Create(context.Background(), domain.CreateClientRequest{
		ContactName:   "Loja Verde",
		ContactEmail:  "verde@example.com",
		SyncWithAsaas: true,
	})
	require.NoError(t, err, "mirror failure must not fail the local create")
	require.Nil(t, created.AsaasID)

	var count int64
	require.NoError(t, db.Model(&domain.Client{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestCreateValidation(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), domain.CreateClientRequest{
		ContactEmail: "a@example.com",
	})
	require.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Create(context.Background(), domain.CreateClientRequest{
		ContactName:  "Sem Email",
		ContactEmail: "not-an-email",
	})
	require.ErrorIs(t, err, domain.ErrInvalidEmail)
}

func TestListFiltersAndSearch(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	seed := []domain.CreateClientRequest{
		{ContactName: "Alice", ContactEmail: "alice@example.com", Platform: "shopify", StoreName: "Mar Aberto"},
		{ContactName: "Bruno", ContactEmail: "bruno@example.com", Platform: "nuvemshop", StoreName: "Loja do Bruno"},
		{ContactName: "Carla", ContactEmail: "carla@example.com", Platform: "shopify", StoreName: "Maresia"},
	}
	for _, req := range seed {
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
	}

	shopify, err := svc.List(ctx, domain.ListClientRequest{Platform: "shopify"})
	require.NoError(t, err)
	require.Len(t, shopify, 2)

	// Substring search over store names, case insensitive.
	mar, err := svc.List(ctx, domain.ListClientRequest{Search: "mar"})
	require.NoError(t, err)
	require.Len(t, mar, 2)

	both, err := svc.List(ctx, domain.ListClientRequest{Platform: "shopify", Search: "maresia"})
	require.NoError(t, err)
	require.Len(t, both, 1)
	require.Equal(t, "Carla", both[0].ContactName)
}

func TestDeleteDeactivatesRemoteCustomer(t *testing.T) {
	svc, db, recorder := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateClientRequest{
		ContactName:   "Loja Roxa",
		ContactEmail:  "roxa@example.com",
		SyncWithAsaas: true,
	})
	require.NoError(t, err)
	require.NotNil(t, created.AsaasID)

	require.NoError(t, svc.Delete(ctx, created.ID.String()))

	var count int64
	require.NoError(t, db.Model(&domain.Client{}).Count(&count).Error)
	require.Zero(t, count)

	input, ok := recorder.updates["cus_mirrored"]
	require.True(t, ok, "remote customer must be deactivated, not deleted")
	require.Equal(t, asaas.CustomerStatusInactive, input.Status)
}

func TestUpdateUnknownClient(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Update(context.Background(), domain.UpdateClientRequest{ID: "nope"})
	require.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = svc.Update(context.Background(), domain.UpdateClientRequest{ID: "987654321"})
	require.ErrorIs(t, err, domain.ErrNotFound)
}
