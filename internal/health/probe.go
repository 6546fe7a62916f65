package health

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/crossnav/crossnav/internal/registry"
)

// LivenessPath is the well-known liveness endpoint every federation member
// exposes. Response bodies are not inspected; only the status class matters.
const LivenessPath = "/api/health"

// NewHTTPProbe returns the default probe: GET <baseUrl>/api/health with the
// given timeout. 2xx classifies as healthy, any other response as warning, and
// a transport failure (including timeout) as error.
func NewHTTPProbe(timeout time.Duration) ProbeFunc {
	client := &http.Client{Timeout: timeout}

	return func(ctx context.Context, app registry.Application) Result {
		url := strings.TrimRight(app.BaseURL, "/") + LivenessPath

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return Result{State: StateError}
		}

		start := time.Now()
		resp, err := client.Do(req)
		if err != nil {
			return Result{State: StateError}
		}
		defer resp.Body.Close()

		latency := time.Since(start)
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return Result{State: StateHealthy, Latency: latency, HasLatency: true}
		}
		return Result{State: StateWarning, Latency: latency, HasLatency: true}
	}
}
