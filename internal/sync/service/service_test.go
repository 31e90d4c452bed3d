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
	clientdomain "github.com/convertfy/backoffice/internal/client/domain"
	clientrepo "github.com/convertfy/backoffice/internal/client/repository"
	"github.com/convertfy/backoffice/internal/clock"
	"github.com/convertfy/backoffice/internal/config"
	"github.com/convertfy/backoffice/internal/sync/domain"
	syncrepo "github.com/convertfy/backoffice/internal/sync/repository"
	userdomain "github.com/convertfy/backoffice/internal/user/domain"
	userrepo "github.com/convertfy/backoffice/internal/user/repository"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&userdomain.User{},
		&clientdomain.Client{},
		&domain.Report{},
		&domain.Lock{},
	))
	require.NoError(t, db.Create(&domain.Lock{ID: domain.LockID}).Error)
	return db
}

func newTestEngine(t *testing.T, db *gorm.DB, upstream string) (*Service, *clock.FakeClock) {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2026, time.April, 15, 10, 0, 0, 0, time.UTC))
	cfg := config.Config{
		Asaas: config.AsaasConfig{
			BaseURL:  upstream,
			APIToken: "test-token",
			Timeout:  2 * time.Second,
		},
		Sync: config.SyncConfig{
			PageSize:      100,
			PageDelay:     time.Millisecond,
			Checkpoint:    10,
			StaleAfter:    30 * time.Minute,
			DefaultPlan:   "partner",
			DefaultDueDay: 10,
		},
	}

	svc := New(Params{
		DB:      db,
		Log:     zap.NewNop(),
		GenID:   node,
		Clock:   fake,
		Config:  cfg,
		Repo:    syncrepo.Provide(),
		Users:   userrepo.Provide(),
		Clients: clientrepo.Provide(),
		Asaas:   asaas.NewClient(cfg, zap.NewNop()),
	})
	return svc.(*Service), fake
}

// customerServer serves a single page holding the given customers.
func customerServer(t *testing.T, customers []asaas.Customer) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/customers" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(asaas.CustomerPage{
			Data:       customers,
			TotalCount: len(customers),
			HasMore:    false,
		})
	}))
}

func waitDone(t *testing.T, run *domain.Run) {
	t.Helper()
	select {
	case <-run.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("sync did not finish in time")
	}
}

func TestSyncCreatesUserAndClientForUnknownCustomer(t *testing.T) {
	db := newTestDB(t)
	srv := customerServer(t, []asaas.Customer{{
		ID:          "cus_new",
		Name:        "Marina Souza",
		Email:       "marina@example.com",
		MobilePhone: "11999990000",
		CpfCnpj:     "11222333000144",
		Status:      asaas.CustomerStatusActive,
	}})
	defer srv.Close()

	svc, _ := newTestEngine(t, db, srv.URL)
	run, err := svc.Start(context.Background())
	require.NoError(t, err)
	waitDone(t, run)

	report, err := svc.GetReport(context.Background(), run.ReportID.String())
	require.NoError(t, err)
	require.Equal(t, domain.StatusCompleted, report.Status)
	require.Equal(t, 1, report.TotalProcessed)
	require.Equal(t, 1, report.Created)
	require.Zero(t, report.Updated)
	require.Zero(t, report.Failed)
	require.NotNil(t, report.EndedAt)

	var users []userdomain.User
	require.NoError(t, db.Find(&users).Error)
	require.Len(t, users, 1)
	require.Equal(t, "marina@example.com", users[0].Email)
	require.True(t, users[0].ImportedFromAsaas)
	require.True(t, users[0].FirstLogin)
	require.Equal(t, userdomain.RoleClient, users[0].Role)
	require.NotEqual(t, "admin123", users[0].Password, "placeholder password must be stored hashed")

	var clients []clientdomain.Client
	require.NoError(t, db.Find(&clients).Error)
	require.Len(t, clients, 1)
	require.Equal(t, "partner", clients[0].Plan)
	require.Equal(t, "shopify", clients[0].Platform)
	require.Equal(t, "Loja Padrão", clients[0].StoreName)
	require.Equal(t, 10, clients[0].DueDate)
	require.NotNil(t, clients[0].AsaasID)
	require.Equal(t, "cus_new", *clients[0].AsaasID)
}

func TestSyncUpdatesExistingUserAndCreatesMissingClient(t *testing.T) {
	db := newTestDB(t)
	srv := customerServer(t, []asaas.Customer{{
		ID:     "cus_known",
		Name:   "Novo Nome",
		Email:  "known@example.com",
		Status: asaas.CustomerStatusActive,
	}})
	defer srv.Close()

	svc, fake := newTestEngine(t, db, srv.URL)

	// Existing user matched by email, with no client record yet.
	existing := userdomain.User{
		ID:        snowflake.ParseInt64(100),
		Name:      "Nome Antigo",
		Email:     "known@example.com",
		Password:  "x",
		Role:      userdomain.RoleClient,
		Status:    userdomain.StatusActive,
		CreatedAt: fake.Now(),
		UpdatedAt: fake.Now(),
	}
	require.NoError(t, db.Create(&existing).Error)

	run, err := svc.Start(context.Background())
	require.NoError(t, err)
	waitDone(t, run)

	report, err := svc.GetReport(context.Background(), run.ReportID.String())
	require.NoError(t, err)
	require.Equal(t, 1, report.Updated)
	require.Zero(t, report.Created)

	var users []userdomain.User
	require.NoError(t, db.Find(&users).Error)
	require.Len(t, users, 1, "no duplicate user")
	require.Equal(t, "Novo Nome", users[0].Name)
	require.NotNil(t, users[0].AsaasID)
	require.Equal(t, "cus_known", *users[0].AsaasID)

	var clients []clientdomain.Client
	require.NoError(t, db.Find(&clients).Error)
	require.Len(t, clients, 1, "client created for existing user")
	require.Equal(t, "partner", clients[0].Plan)
}

func TestSyncIdempotence(t *testing.T) {
	db := newTestDB(t)
	srv := customerServer(t, []asaas.Customer{{
		ID:     "cus_once",
		Name:   "Uma Vez",
		Email:  "once@example.com",
		Status: asaas.CustomerStatusActive,
	}})
	defer srv.Close()

	svc, _ := newTestEngine(t, db, srv.URL)

	run, err := svc.Start(context.Background())
	require.NoError(t, err)
	waitDone(t, run)
	first, err := svc.GetReport(context.Background(), run.ReportID.String())
	require.NoError(t, err)
	require.Equal(t, 1, first.Created)

	run, err = svc.Start(context.Background())
	require.NoError(t, err)
	waitDone(t, run)
	second, err := svc.GetReport(context.Background(), run.ReportID.String())
	require.NoError(t, err)
	require.Zero(t, second.Created)
	require.Equal(t, 1, second.Updated)

	var count int64
	require.NoError(t, db.Model(&userdomain.User{}).Count(&count).Error)
	require.EqualValues(t, 1, count, "re-running the sync never duplicates users")
}

func TestSyncThreeCustomerScenario(t *testing.T) {
	db := newTestDB(t)
	srv := customerServer(t, []asaas.Customer{
		{ID: "cus_by_email", Name: "Por Email", Email: "byemail@example.com", Status: asaas.CustomerStatusActive},
		{ID: "cus_by_id", Name: "Por ID", Email: "byid-new-mail@example.com", Status: asaas.CustomerStatusActive},
		{ID: "cus_fresh", Name: "Novo", Email: "fresh@example.com", Status: asaas.CustomerStatusActive},
	})
	defer srv.Close()

	svc, fake := newTestEngine(t, db, srv.URL)

	asaasID := "cus_by_id"
	seed := []userdomain.User{
		{ID: snowflake.ParseInt64(201), Name: "A", Email: "byemail@example.com", Password: "x", Role: userdomain.RoleClient, Status: userdomain.StatusActive, CreatedAt: fake.Now(), UpdatedAt: fake.Now()},
		{ID: snowflake.ParseInt64(202), Name: "B", Email: "old-mail@example.com", Password: "x", AsaasID: &asaasID, Role: userdomain.RoleClient, Status: userdomain.StatusActive, CreatedAt: fake.Now(), UpdatedAt: fake.Now()},
	}
	for i := range seed {
		require.NoError(t, db.Create(&seed[i]).Error)
	}

	run, err := svc.Start(context.Background())
	require.NoError(t, err)
	waitDone(t, run)

	report, err := svc.GetReport(context.Background(), run.ReportID.String())
	require.NoError(t, err)
	require.Equal(t, domain.StatusCompleted, report.Status)
	require.Equal(t, 3, report.TotalProcessed)
	require.Equal(t, 1, report.Created)
	require.Equal(t, 2, report.Updated)
	require.Zero(t, report.Failed)
	require.Empty(t, report.Errors)
}

// failingUserRepo rejects inserts for one email to simulate a broken
// record mid-batch.
type failingUserRepo struct {
	userdomain.Repository
	failEmail string
}

func (f failingUserRepo) Insert(ctx context.Context, db *gorm.DB, user *userdomain.User) error {
	if user.Email == f.failEmail {
		return fmt.Errorf("storage rejected %s", user.Email)
	}
	return f.Repository.Insert(ctx, db, user)
}

func TestSyncPartialFailureIsolation(t *testing.T) {
	db := newTestDB(t)
	srv := customerServer(t, []asaas.Customer{
		{ID: "cus_a", Name: "A", Email: "a@example.com", Status: asaas.CustomerStatusActive},
		{ID: "cus_b", Name: "B", Email: "broken@example.com", Status: asaas.CustomerStatusActive},
		{ID: "cus_c", Name: "C", Email: "c@example.com", Status: asaas.CustomerStatusActive},
	})
	defer srv.Close()

	svc, _ := newTestEngine(t, db, srv.URL)
	svc.users = failingUserRepo{Repository: svc.users, failEmail: "broken@example.com"}

	run, err := svc.Start(context.Background())
	require.NoError(t, err)
	waitDone(t, run)

	report, err := svc.GetReport(context.Background(), run.ReportID.String())
	require.NoError(t, err)
	require.Equal(t, domain.StatusCompleted, report.Status)
	require.Equal(t, 3, report.TotalProcessed)
	require.Equal(t, 2, report.Created, "customers after the failure are still processed")
	require.Equal(t, 1, report.Failed)
	require.Len(t, report.Errors, 1)
	require.Equal(t, "broken@example.com", report.Errors[0].Email)
	require.Contains(t, report.Errors[0].Error, "storage rejected")
}

func TestSyncConflictReturnsNoNewReport(t *testing.T) {
	db := newTestDB(t)

	// Slow upstream keeps the first run in flight while the second
	// start request races it for the lock.
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		json.NewEncoder(w).Encode(asaas.CustomerPage{Data: nil, HasMore: false})
	}))
	defer srv.Close()

	svc, _ := newTestEngine(t, db, srv.URL)

	run, err := svc.Start(context.Background())
	require.NoError(t, err)

	_, err = svc.Start(context.Background())
	require.ErrorIs(t, err, domain.ErrSyncInProgress)

	var count int64
	require.NoError(t, db.Model(&domain.Report{}).Count(&count).Error)
	require.EqualValues(t, 1, count, "conflicting start must not create a report")

	close(release)
	waitDone(t, run)
}

func TestSyncCancelStopsRunAndReleasesLock(t *testing.T) {
	db := newTestDB(t)

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		json.NewEncoder(w).Encode(asaas.CustomerPage{
			Data:    []asaas.Customer{{ID: "cus_x", Email: "x@example.com", Status: asaas.CustomerStatusActive}},
			HasMore: false,
		})
	}))
	defer srv.Close()

	svc, _ := newTestEngine(t, db, srv.URL)
	run, err := svc.Start(context.Background())
	require.NoError(t, err)

	run.Cancel()
	close(release)
	waitDone(t, run)

	report, err := svc.GetReport(context.Background(), run.ReportID.String())
	require.NoError(t, err)
	require.Equal(t, domain.StatusFailed, report.Status)
	require.NotNil(t, report.EndedAt)
	require.Zero(t, report.Created)

	// Cancellation released the lock, so a new run can start.
	run, err = svc.Start(context.Background())
	require.NoError(t, err)
	waitDone(t, run)
}

func TestSyncListFailureFinalizesFailed(t *testing.T) {
	db := newTestDB(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":[{"description":"boom"}]}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc, _ := newTestEngine(t, db, srv.URL)
	run, err := svc.Start(context.Background())
	require.NoError(t, err)
	waitDone(t, run)

	report, err := svc.GetReport(context.Background(), run.ReportID.String())
	require.NoError(t, err)
	require.Equal(t, domain.StatusFailed, report.Status)
	require.Len(t, report.Errors, 1)
	require.Equal(t, "general", report.Errors[0].Email)

	// The lock is released, so the next start succeeds.
	run, err = svc.Start(context.Background())
	require.NoError(t, err)
	waitDone(t, run)
}

// recordingRepo captures every persisted report write so tests can see
// the engine's mid-run checkpoints, not just the final row.
type recordingRepo struct {
	domain.Repository

	mu     sync.Mutex
	writes []domain.Report
}

func (r *recordingRepo) UpdateReport(ctx context.Context, db *gorm.DB, report *domain.Report) error {
	r.mu.Lock()
	r.writes = append(r.writes, *report)
	r.mu.Unlock()
	return r.Repository.UpdateReport(ctx, db, report)
}

func (r *recordingRepo) snapshots() []domain.Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Report(nil), r.writes...)
}

func TestSyncCheckpointsEveryTenCustomers(t *testing.T) {
	db := newTestDB(t)

	customers := make([]asaas.Customer, 25)
	for i := range customers {
		customers[i] = asaas.Customer{
			ID:     fmt.Sprintf("cus_%03d", i),
			Name:   fmt.Sprintf("Cliente %d", i),
			Email:  fmt.Sprintf("c%d@example.com", i),
			Status: asaas.CustomerStatusActive,
		}
	}
	srv := customerServer(t, customers)
	defer srv.Close()

	svc, _ := newTestEngine(t, db, srv.URL)
	recorder := &recordingRepo{Repository: svc.repo}
	svc.repo = recorder

	run, err := svc.Start(context.Background())
	require.NoError(t, err)
	waitDone(t, run)

	var progress []int
	for _, write := range recorder.snapshots() {
		if write.Status == domain.StatusRunning {
			progress = append(progress, write.TotalProcessed)
		}
	}
	require.Equal(t, []int{10, 20}, progress, "progress persists every 10 customers")

	report, err := svc.GetReport(context.Background(), run.ReportID.String())
	require.NoError(t, err)
	require.Equal(t, domain.StatusCompleted, report.Status)
	require.Equal(t, 25, report.TotalProcessed)
	require.Equal(t, 25, report.Created)
}

func TestRecoverStaleFinalizesAbandonedReports(t *testing.T) {
	db := newTestDB(t)
	srv := customerServer(t, nil)
	defer srv.Close()

	svc, fake := newTestEngine(t, db, srv.URL)

	stale := domain.Report{
		ID:        snowflake.ParseInt64(900),
		Status:    domain.StatusRunning,
		StartedAt: fake.Now().Add(-2 * time.Hour),
		CreatedAt: fake.Now().Add(-2 * time.Hour),
		UpdatedAt: fake.Now().Add(-2 * time.Hour),
	}
	require.NoError(t, db.Create(&stale).Error)

	require.NoError(t, svc.RecoverStale(context.Background()))

	report, err := svc.GetReport(context.Background(), stale.ID.String())
	require.NoError(t, err)
	require.Equal(t, domain.StatusFailed, report.Status)
	require.NotNil(t, report.EndedAt)
	require.Len(t, report.Errors, 1)
	require.Equal(t, "sync interrupted", report.Errors[0].Error)
}
