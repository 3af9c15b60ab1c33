package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lead-pruner/internal/config"
	"github.com/lead-pruner/internal/retry"
	"github.com/lead-pruner/internal/types"
)

func newTestClient(t *testing.T, router *mux.Router) *SmartleadClient {
	t.Helper()

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	client := NewSmartleadClient(config.SmartLeadConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	}, nil)

	// Shrink backoff so retry paths run fast
	client.retry = &retry.RetryConfig{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     10 * time.Millisecond,
		Multiplier:   2.0,
	}

	return client
}

func TestListCampaigns(t *testing.T) {
	var gotAPIKey string

	router := mux.NewRouter()
	router.HandleFunc("/campaigns", func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.URL.Query().Get("api_key")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
			{"id": 101, "client_id": 7, "name": "Q1 Outreach", "status": "PAUSED", "created_at": "2024-11-02T10:00:00.000Z", "updated_at": "2025-01-10T09:15:00.000Z"},
			{"id": 102, "client_id": null, "name": "Beta List", "status": "ACTIVE", "created_at": "2024-12-01T08:30:00.000Z"}
		]`)
	}).Methods(http.MethodGet)

	client := newTestClient(t, router)

	campaigns, err := client.ListCampaigns(context.Background())
	require.NoError(t, err)
	require.Len(t, campaigns, 2)

	assert.Equal(t, "test-key", gotAPIKey)
	assert.Equal(t, int64(101), campaigns[0].ID)
	require.NotNil(t, campaigns[0].ClientID)
	assert.Equal(t, int64(7), *campaigns[0].ClientID)
	assert.Equal(t, "PAUSED", campaigns[0].Status)
	assert.Equal(t, "2025-01-10T09:15:00.000Z", campaigns[0].UpdatedAt)
	assert.Nil(t, campaigns[1].ClientID)
}

func TestListCampaignsRetriesThenSucceeds(t *testing.T) {
	var mu sync.Mutex
	calls := 0

	router := mux.NewRouter()
	router.HandleFunc("/campaigns", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()

		if n < 3 {
			http.Error(w, "service unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"id": 1, "name": "only", "status": "COMPLETED", "created_at": "2024-01-01T00:00:00.000Z"}]`)
	}).Methods(http.MethodGet)

	client := newTestClient(t, router)

	campaigns, err := client.ListCampaigns(context.Background())
	require.NoError(t, err)
	assert.Len(t, campaigns, 1)
	assert.Equal(t, 3, calls)
}

func TestListCampaignsExhaustsRetries(t *testing.T) {
	var mu sync.Mutex
	calls := 0

	router := mux.NewRouter()
	router.HandleFunc("/campaigns", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()
		http.Error(w, "internal error", http.StatusInternalServerError)
	}).Methods(http.MethodGet)

	client := newTestClient(t, router)

	_, err := client.ListCampaigns(context.Background())
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "after 3 attempts")
}

func TestExportLeads(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/campaigns/{id}/leads-export", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "101", mux.Vars(r)["id"])
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		fmt.Fprint(w, "id,email,reply_count\n9001,alice@example.com,0\n9002,bob@example.com,3\n")
	}).Methods(http.MethodGet)

	client := newTestClient(t, router)

	export, err := client.ExportLeads(context.Background(), 101)
	require.NoError(t, err)

	assert.Equal(t, int64(101), export.CampaignID)
	assert.Equal(t, []string{"id", "email", "reply_count"}, export.Header)
	assert.Equal(t, 2, export.LeadCount())
	assert.Equal(t, 2, export.ColumnIndex("reply_count"))
	assert.Equal(t, -1, export.ColumnIndex("missing"))
	assert.Equal(t, "9001", export.Rows[0][0])
}

func TestExportLeadsRejectsNonCSV(t *testing.T) {
	var mu sync.Mutex
	calls := 0

	router := mux.NewRouter()
	router.HandleFunc("/campaigns/{id}/leads-export", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"error": "export not ready"}`)
	}).Methods(http.MethodGet)

	client := newTestClient(t, router)

	_, err := client.ExportLeads(context.Background(), 55)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected content type")
	assert.Equal(t, 1, calls, "a wrong content type must not be retried")
}

func TestExportLeadsEmptyBody(t *testing.T) {
	router := mux.NewRouter()
	router.HandleFunc("/campaigns/{id}/leads-export", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
	}).Methods(http.MethodGet)

	client := newTestClient(t, router)

	export, err := client.ExportLeads(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 0, export.LeadCount())
	assert.Empty(t, export.Header)
}

func TestDeleteLead(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		wantOutcome types.DeleteOutcome
		wantErr     bool
		wantCalls   int
	}{
		{"deleted", http.StatusOK, types.DeleteOutcomeDeleted, false, 1},
		{"already gone", http.StatusNotFound, types.DeleteOutcomeAlreadyGone, false, 1},
		{"server error", http.StatusInternalServerError, types.DeleteOutcomeFailed, true, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var mu sync.Mutex
			calls := 0

			router := mux.NewRouter()
			router.HandleFunc("/campaigns/{campaign_id}/leads/{lead_id}", func(w http.ResponseWriter, r *http.Request) {
				mu.Lock()
				calls++
				mu.Unlock()

				assert.Equal(t, "101", mux.Vars(r)["campaign_id"])
				assert.Equal(t, "9001", mux.Vars(r)["lead_id"])
				w.WriteHeader(tt.status)
			}).Methods(http.MethodDelete)

			client := newTestClient(t, router)

			outcome, err := client.DeleteLead(context.Background(), 101, "9001")
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantOutcome, outcome)
			assert.Equal(t, tt.wantCalls, calls)
		})
	}
}

func TestDeleteLeadRecoversAfterTransientFailure(t *testing.T) {
	var mu sync.Mutex
	calls := 0

	router := mux.NewRouter()
	router.HandleFunc("/campaigns/{campaign_id}/leads/{lead_id}", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()

		if n == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodDelete)

	client := newTestClient(t, router)

	outcome, err := client.DeleteLead(context.Background(), 101, "9001")
	require.NoError(t, err)
	assert.Equal(t, types.DeleteOutcomeDeleted, outcome)
	assert.Equal(t, 2, calls)
}
