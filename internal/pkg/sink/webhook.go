package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-gate/internal/domain/attendance"
)

// WebhookSink posts attendance records as JSON to an HTTP endpoint.
//
// The endpoint (a spreadsheet script) answers with an opaque response, so
// delivery is fire-and-forget: only transport errors are reported, the status
// code and body are never used to decide success. This means a record the
// endpoint silently dropped is indistinguishable from one it stored.
type WebhookSink struct {
	url    string
	client *http.Client
}

// NewWebhookSink creates a sink posting to url. A nil client uses a client
// without timeout; the sink never retries.
func NewWebhookSink(url string, client *http.Client) *WebhookSink {
	if client == nil {
		client = &http.Client{}
	}
	return &WebhookSink{
		url:    url,
		client: client,
	}
}

// Deliver implements attendance.Sink.
func (s *WebhookSink) Deliver(ctx context.Context, record attendance.Record) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode attendance record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build sink request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post attendance record: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	slog.Debug("Attendance record posted", "type", string(record.Type), "status", resp.StatusCode)
	return nil
}
