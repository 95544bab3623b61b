package analytics_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcosfrias28/brymar-sub012/pkg/analytics"
	"github.com/marcosfrias28/brymar-sub012/pkg/domain"
	"github.com/marcosfrias28/brymar-sub012/pkg/ports"
)

func TestRecorder_BufferAndSummary(t *testing.T) {
	r := analytics.New("session-1", analytics.WithUserID("user-1"))
	defer r.Close()

	r.Track(domain.EventStepView, nil, "general")
	r.TrackStepCompletion("general", 100)
	r.TrackValidationFailure("pricing", map[string][]string{"price": {"price is required"}})
	r.TrackDraftSaved(domain.SaveOutcome{DraftID: "d1", Location: domain.LocationServer}, "pricing")
	r.TrackError(errors.New("boom"), map[string]any{"op": "save"})

	events := r.Events()
	require.Len(t, events, 5)
	assert.Equal(t, "session-1", events[0].SessionID)
	assert.Equal(t, "user-1", events[0].UserID)
	assert.NotEmpty(t, events[0].ID)

	summary := r.SessionSummary()
	assert.Equal(t, 5, summary.Events)
	assert.Equal(t, 1, summary.StepsCompleted)
	assert.Equal(t, 2, summary.Errors) // validation failure + tracked error
	assert.Equal(t, 1, summary.DraftSaves)
}

func TestRecorder_DisabledIsNoOp(t *testing.T) {
	r := analytics.New("session-2", analytics.Disabled())
	defer r.Close()

	r.Track(domain.EventStepView, nil, "general")
	assert.Empty(t, r.Events())

	// Re-enabling resumes recording.
	r.SetEnabled(true)
	r.Track(domain.EventStepView, nil, "general")
	assert.Len(t, r.Events(), 1)
}

func TestRecorder_SinkFailureIsSwallowed(t *testing.T) {
	sink := ports.EventSinkFunc(func(ctx context.Context, events []domain.Event) error {
		return errors.New("sink down")
	})
	r := analytics.New("session-3", analytics.WithSink(sink))

	// Must not panic or block.
	r.Track(domain.EventDraftSaved, nil, "")
	r.Close()

	assert.Len(t, r.Events(), 1, "local buffer keeps the event even when delivery fails")
}

func TestRecorder_DeliversToSink(t *testing.T) {
	var mu sync.Mutex
	var got []domain.Event
	sink := ports.EventSinkFunc(func(ctx context.Context, events []domain.Event) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, events...)
		return nil
	})

	r := analytics.New("session-4", analytics.WithSink(sink))
	r.Track(domain.EventStepView, map[string]any{"k": "v"}, "general")
	r.Close() // waits for in-flight deliveries

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 1)
	assert.Equal(t, domain.EventStepView, got[0].Type)
}

func TestHTTPSink(t *testing.T) {
	received := make(chan []byte, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		body := make([]byte, req.ContentLength)
		_, _ = req.Body.Read(body)
		received <- body
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	sink := analytics.NewHTTPSink(srv.URL, srv.Client())
	err := sink.Send(context.Background(), []domain.Event{{
		ID: "e1", SessionID: "s", Type: domain.EventStepView, Timestamp: time.Now(),
	}})
	require.NoError(t, err)

	select {
	case body := <-received:
		assert.Contains(t, string(body), `"step_view"`)
	case <-time.After(time.Second):
		t.Fatal("sink never delivered")
	}
}

func TestHTTPSink_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	sink := analytics.NewHTTPSink(srv.URL, srv.Client())
	err := sink.Send(context.Background(), nil)
	assert.Error(t, err)
}
