// Package telemetry envia relatórios de erro para um coletor externo.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sanjux-xx/pricescout/internal/core/ports"
)

const deliveryTimeout = 5 * time.Second

// Reporter posts error events to a configured endpoint in the background. It
// never blocks the request path and a delivery failure never fails anything.
type Reporter struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

var _ ports.Telemetry = (*Reporter)(nil)

// New returns a reporter for endpoint. An empty endpoint yields a reporter
// that only logs locally.
func New(endpoint string, logger *zap.Logger) *Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reporter{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: deliveryTimeout},
		logger:     logger,
	}
}

type event struct {
	ID       string    `json:"id"`
	Time     time.Time `json:"time"`
	Error    string    `json:"error"`
	Query    string    `json:"query,omitempty"`
	ClientIP string    `json:"client_ip,omitempty"`
}

func (r *Reporter) ReportError(_ context.Context, report ports.ErrorReport) {
	if report.Err == nil {
		return
	}

	evt := event{
		ID:       uuid.NewString(),
		Time:     time.Now().UTC(),
		Error:    report.Err.Error(),
		Query:    report.Query,
		ClientIP: report.ClientID,
	}
	if r.endpoint == "" {
		r.logger.Debug("telemetry endpoint not configured, dropping report",
			zap.String("event_id", evt.ID),
			zap.String("error", evt.Error))
		return
	}

	go r.send(evt)
}

func (r *Reporter) send(evt event) {
	body, err := json.Marshal(evt)
	if err != nil {
		r.logger.Warn("telemetry encode failed", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		r.logger.Warn("telemetry request build failed", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.logger.Warn("telemetry delivery failed", zap.String("event_id", evt.ID), zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		r.logger.Warn("telemetry collector rejected event",
			zap.String("event_id", evt.ID),
			zap.Int("status", resp.StatusCode))
	}
}
