// Package health polls the liveness of every remote federated application and
// keeps the latest status per application id.
package health

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/crossnav/crossnav/internal/metrics"
	"github.com/crossnav/crossnav/internal/registry"
)

// State classifies the reachability of one application.
type State string

const (
	// StateLoading is the initial state before the first probe resolves. It is
	// never re-entered once any result has been observed, except via Reset.
	StateLoading State = "loading"
	// StateHealthy means the probe returned a 2xx response.
	StateHealthy State = "healthy"
	// StateWarning means the probe returned a non-2xx response.
	StateWarning State = "warning"
	// StateError means the probe failed outright (network error or timeout).
	StateError State = "error"
)

var allStates = []State{StateLoading, StateHealthy, StateWarning, StateError}

// Status is the latest observation for one application. Only the newest value
// is kept; there is no history.
type Status struct {
	State         State     `json:"state"`
	LastCheckedAt time.Time `json:"lastCheckedAt"`
	LastLatencyMs *int64    `json:"lastLatencyMs,omitempty"`
}

// Result is the outcome of a single probe.
type Result struct {
	State   State
	Latency time.Duration
	// HasLatency is false when the probe never got a response.
	HasLatency bool
}

// ProbeFunc performs one liveness probe against an application.
type ProbeFunc func(ctx context.Context, app registry.Application) Result

// Monitor owns all health-status writes. Probes for different applications run
// concurrently and independently; a slow probe for one application never
// delays another's update. Each completed probe overwrites the previous status
// for its application, so the last-resolved probe always wins.
type Monitor struct {
	reg      *registry.Registry
	interval time.Duration
	timeout  time.Duration
	probe    ProbeFunc

	mu       sync.RWMutex
	statuses map[string]Status
	epoch    uint64
	subs     map[int]func(appID string, st Status)
	nextSub  int
}

// NewMonitor builds a monitor over the registry's remote applications. The
// local application is pinned healthy without a network round trip: a process
// that answers at all is, by definition, reachable from itself.
func NewMonitor(reg *registry.Registry, interval, timeout time.Duration) *Monitor {
	m := &Monitor{
		reg:      reg,
		interval: interval,
		timeout:  timeout,
		statuses: make(map[string]Status),
		subs:     make(map[int]func(string, Status)),
	}
	m.probe = NewHTTPProbe(timeout)
	m.resetLocked()
	return m
}

// SetProbeFunc overrides the probe implementation; used by tests.
func (m *Monitor) SetProbeFunc(probe ProbeFunc) {
	m.probe = probe
}

// Run polls on the configured interval until ctx is canceled. The first cycle
// starts immediately. Each cycle fans out one goroutine per remote application
// and does not wait for the previous cycle to finish.
func (m *Monitor) Run(ctx context.Context) {
	if m.interval <= 0 {
		return
	}

	slog.Info("health monitor started", "interval", m.interval, "timeout", m.timeout)
	m.pollOnce(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			slog.Info("health monitor stopped")
			return
		case <-ticker.C:
			m.pollOnce(ctx)
		}
	}
}

// pollOnce launches one fire-and-forget probe per remote application.
func (m *Monitor) pollOnce(ctx context.Context) {
	m.mu.RLock()
	epoch := m.epoch
	m.mu.RUnlock()

	for _, app := range m.remoteApps() {
		go m.probeApp(ctx, app, epoch)
	}
}

// ProbeAll probes every remote application once and waits for all results.
// Used by the one-shot probe command; the serve path uses Run.
func (m *Monitor) ProbeAll(ctx context.Context) map[string]Status {
	m.mu.RLock()
	epoch := m.epoch
	m.mu.RUnlock()

	var wg sync.WaitGroup
	for _, app := range m.remoteApps() {
		wg.Add(1)
		go func(app registry.Application) {
			defer wg.Done()
			m.probeApp(ctx, app, epoch)
		}(app)
	}
	wg.Wait()
	return m.Snapshot()
}

func (m *Monitor) probeApp(ctx context.Context, app registry.Application, epoch uint64) {
	probeCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	start := time.Now()
	res := m.probe(probeCtx, app)
	metrics.ProbeDuration.WithLabelValues(app.ID).Observe(time.Since(start).Seconds())
	metrics.ProbesTotal.WithLabelValues(app.ID, string(res.State)).Inc()

	st := Status{State: res.State, LastCheckedAt: time.Now()}
	if res.HasLatency {
		ms := res.Latency.Milliseconds()
		st.LastLatencyMs = &ms
	}
	m.apply(app.ID, st, epoch)
}

// apply overwrites the status for one application. Results from before a Reset
// carry a stale epoch and are discarded so they cannot resurrect old state.
func (m *Monitor) apply(appID string, st Status, epoch uint64) {
	m.mu.Lock()
	if epoch != m.epoch {
		m.mu.Unlock()
		return
	}
	m.statuses[appID] = st
	subs := make([]func(string, Status), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	setStateGauge(appID, st.State)
	for _, fn := range subs {
		fn(appID, st)
	}
}

// GetStatus returns the latest status for an application id. Unknown ids get a
// zero Status with an empty state.
func (m *Monitor) GetStatus(appID string) Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.statuses[appID]
}

// Snapshot returns a copy of all current statuses keyed by application id.
func (m *Monitor) Snapshot() map[string]Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]Status, len(m.statuses))
	for id, st := range m.statuses {
		out[id] = st
	}
	return out
}

// Subscribe registers a status-change callback and returns its cancel func.
// Callbacks run on the probing goroutine and must not block.
func (m *Monitor) Subscribe(fn func(appID string, st Status)) func() {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// Reset returns every remote application to loading, as on first mount.
// In-flight probe results from before the reset are discarded.
func (m *Monitor) Reset() {
	m.mu.Lock()
	m.resetLocked()
	m.mu.Unlock()
}

func (m *Monitor) resetLocked() {
	m.epoch++
	now := time.Now()
	for _, app := range m.reg.List() {
		if app.ID == m.reg.LocalID() {
			m.statuses[app.ID] = Status{State: StateHealthy, LastCheckedAt: now}
			setStateGauge(app.ID, StateHealthy)
			continue
		}
		m.statuses[app.ID] = Status{State: StateLoading}
		setStateGauge(app.ID, StateLoading)
	}
}

func (m *Monitor) remoteApps() []registry.Application {
	apps := m.reg.List()
	out := make([]registry.Application, 0, len(apps))
	for _, app := range apps {
		if app.ID == m.reg.LocalID() {
			continue
		}
		out = append(out, app)
	}
	return out
}

func setStateGauge(appID string, active State) {
	for _, s := range allStates {
		v := 0.0
		if s == active {
			v = 1.0
		}
		metrics.AppHealthState.WithLabelValues(appID, string(s)).Set(v)
	}
}
