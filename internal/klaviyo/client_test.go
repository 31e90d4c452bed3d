package klaviyo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/convertfy/backoffice/internal/config"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.Config{}
	cfg.Klaviyo.BaseURL = server.URL
	cfg.Klaviyo.Timeout = 2 * time.Second

	return NewClient(cfg, zap.NewNop())
}

func TestRevenueTimelineUsesV3First(t *testing.T) {
	var v2Called bool
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/metrics/timeline":
			require.Equal(t, "Klaviyo-API-Key pk_test", r.Header.Get("Authorization"))
			require.Equal(t, "2023-02-22", r.Header.Get("revision"))
			_, _ = w.Write([]byte(`{"data":[{"datetime":"2024-01-01","value":100}]}`))
		case "/api/v2/metrics/timeline":
			v2Called = true
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	data, err := client.RevenueTimeline(context.Background(), RevenueTimelineRequest{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-31",
		APIKey:    "pk_test",
	})
	require.NoError(t, err)
	require.Contains(t, string(data), "2024-01-01")
	require.False(t, v2Called)
}

func TestRevenueTimelineFallsBackToV2(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/metrics/timeline":
			w.WriteHeader(http.StatusGone)
		case "/api/v2/metrics/timeline":
			require.Equal(t, "pk_test", r.URL.Query().Get("api_key"))
			require.Equal(t, "revenue", r.URL.Query().Get("measurement"))
			_, _ = w.Write([]byte(`{"results":[]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	data, err := client.RevenueTimeline(context.Background(), RevenueTimelineRequest{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-31",
		APIKey:    "pk_test",
	})
	require.NoError(t, err)
	require.Contains(t, string(data), "results")
}

func TestRevenueTimelineMissingKey(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	_, err := client.RevenueTimeline(context.Background(), RevenueTimelineRequest{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-31",
	})
	require.ErrorIs(t, err, ErrMissingAPIKey)
}
