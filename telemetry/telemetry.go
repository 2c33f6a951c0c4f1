// Package telemetry fetches raw encounter data from the upstream
// telemetry service.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"lostark_dps/cache"
	"lostark_dps/share"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const maxRetries = 3

var upstreamRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "loadps_telemetry_requests_total",
		Help: "Outbound telemetry requests by outcome.",
	},
	[]string{"outcome"},
)

// UpstreamError reports a non-success status from the telemetry service.
type UpstreamError struct {
	Status string
	RunID  string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("telemetry upstream returned %s for run %s", e.Status, e.RunID)
}

type Client struct {
	// Host is the service base URL, without trailing slash.
	Host string
}

func NewClient(host string) *Client {
	return &Client{Host: host}
}

// Run fetches the encounter payload for runID. Payloads are immutable once
// recorded, so hits from the disk cache skip the upstream call entirely.
// Transport-level failures are retried; a non-success status is not.
func (c *Client) Run(ctx context.Context, runID string) (*Run, error) {
	var run Run
	if cache.Run(runID, &run, false) {
		upstreamRequests.WithLabelValues("cached").Inc()
		return &run, nil
	}

	var err error
	for i := 0; i < maxRetries; i++ {
		var r *Run
		r, err = c.fetch(ctx, runID)
		if err == nil {
			return r, nil
		}

		var ue *UpstreamError
		if errors.As(err, &ue) || share.IsContextClosedError(err) {
			return nil, err
		}

		if i+1 < maxRetries {
			select {
			case <-time.After(3 * time.Second):
			case <-ctx.Done():
				return nil, errors.WithStack(ctx.Err())
			}
		}
	}

	return nil, err
}

func (c *Client) fetch(ctx context.Context, runID string) (*Run, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s/api/v2/game/dps/%s", c.Host, runID), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		upstreamRequests.WithLabelValues("error").Inc()
		return nil, errors.WithStack(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		upstreamRequests.WithLabelValues("bad_status").Inc()
		io.Copy(io.Discard, resp.Body)
		return nil, errors.WithStack(&UpstreamError{Status: resp.Status, RunID: runID})
	}

	var run Run
	if err := jsoniter.NewDecoder(resp.Body).Decode(&run); err != nil {
		upstreamRequests.WithLabelValues("bad_body").Inc()
		return nil, errors.Wrapf(err, "decoding run %s", runID)
	}

	upstreamRequests.WithLabelValues("ok").Inc()
	cache.Run(runID, &run, true)

	return &run, nil
}
