package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/marcosfrias28/brymar-sub012/pkg/domain"
)

// HTTPSink posts event batches as JSON to a remote endpoint.
// It does not retry; a non-2xx response is just an error for the caller
// (the recorder) to log and drop.
type HTTPSink struct {
	endpoint string
	client   *http.Client
}

// NewHTTPSink creates a sink for the given endpoint. A nil client uses
// http.DefaultClient.
func NewHTTPSink(endpoint string, client *http.Client) *HTTPSink {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSink{endpoint: endpoint, client: client}
}

// Send delivers one batch of events.
func (s *HTTPSink) Send(ctx context.Context, events []domain.Event) error {
	body, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("failed to marshal events: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver events: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("analytics endpoint returned %s", resp.Status)
	}
	return nil
}
