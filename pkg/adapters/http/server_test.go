package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wizardhttp "github.com/marcosfrias28/brymar-sub012/pkg/adapters/http"
	"github.com/marcosfrias28/brymar-sub012/pkg/adapters/memory"
	"github.com/marcosfrias28/brymar-sub012/pkg/analytics"
	"github.com/marcosfrias28/brymar-sub012/pkg/domain"
	"github.com/marcosfrias28/brymar-sub012/pkg/draft"
	"github.com/marcosfrias28/brymar-sub012/pkg/ports"
)

func newTestServer(t *testing.T, opts ...wizardhttp.Option) (*httptest.Server, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	managers := draft.NewManagers()
	require.NoError(t, managers.Register(domain.KindProperty, store))

	srv := httptest.NewServer(wizardhttp.NewHandler(managers, opts...))
	t.Cleanup(srv.Close)
	return srv, store
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func TestServer_DraftRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/property/drafts", map[string]any{
		"userId":        "user-1",
		"formData":      map[string]any{"title": "Ocean Villa"},
		"currentStepId": "general",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var saved struct {
		DraftID string `json:"draftId"`
		SavedAt int64  `json:"savedAt"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&saved))
	assert.NotEmpty(t, saved.DraftID)
	assert.NotZero(t, saved.SavedAt, "server stamps the save time")

	get, err := http.Get(srv.URL + "/api/property/drafts/" + saved.DraftID)
	require.NoError(t, err)
	defer get.Body.Close()
	require.Equal(t, http.StatusOK, get.StatusCode)

	var loaded domain.Draft
	require.NoError(t, json.NewDecoder(get.Body).Decode(&loaded))
	assert.Equal(t, "Ocean Villa", loaded.FormData["title"])
	assert.Equal(t, domain.KindProperty, loaded.Kind, "kind comes from the URL, not the body")
}

func TestServer_LoadMissingDraft(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/property/drafts/property-1-nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_UnknownKind(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/timeshare/drafts/whatever")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Valid kind, but no store registered for it.
	resp, err = http.Get(srv.URL + "/api/blog/drafts/whatever")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_ListAndDelete(t *testing.T) {
	srv, store := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.Draft{
		DraftID:       "property-1-abc",
		UserID:        "user-1",
		Kind:          domain.KindProperty,
		FormData:      map[string]any{"title": "One"},
		CurrentStepID: "general",
		SavedAt:       time.Now().UnixMilli(),
	}))

	resp, err := http.Get(srv.URL + "/api/property/drafts?user=user-1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listed struct {
		DraftIDs []string `json:"draftIds"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listed))
	assert.Equal(t, []string{"property-1-abc"}, listed.DraftIDs)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/property/drafts/property-1-abc", nil)
	require.NoError(t, err)
	del, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer del.Body.Close()
	assert.Equal(t, http.StatusNoContent, del.StatusCode)

	_, err = store.Load(ctx, "property-1-abc")
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)
}

func TestServer_ListRequiresUser(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/property/drafts")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_IngestEvents(t *testing.T) {
	var received []domain.Event
	sink := ports.EventSinkFunc(func(ctx context.Context, events []domain.Event) error {
		received = append(received, events...)
		return nil
	})
	srv, _ := newTestServer(t, wizardhttp.WithSink(sink))

	resp := postJSON(t, srv.URL+"/api/events", []domain.Event{
		{ID: "ev-1", SessionID: "s-1", Type: domain.EventStepView, StepID: "general"},
		{ID: "ev-2", SessionID: "s-1", Type: domain.EventDraftSaved},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var out struct {
		Accepted int `json:"accepted"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, 2, out.Accepted)
	require.Len(t, received, 2)
	assert.Equal(t, domain.EventStepView, received[0].Type)
}

func TestServer_IngestWithoutSink(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/events", []domain.Event{{ID: "ev-1"}})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
}

func TestServer_HealthAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := analytics.NewMetrics(reg)
	srv, _ := newTestServer(t,
		wizardhttp.WithMetricsRegistry(reg),
		wizardhttp.WithMetrics(metrics),
	)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ingest := postJSON(t, srv.URL+"/api/events", []domain.Event{
		{ID: "ev-1", Type: domain.EventStepView},
	})
	ingest.Body.Close()

	mresp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer mresp.Body.Close()
	assert.Equal(t, http.StatusOK, mresp.StatusCode)

	var buf bytes.Buffer
	_, err = buf.ReadFrom(mresp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `wizard_events_total{type="step_view"} 1`)
}
