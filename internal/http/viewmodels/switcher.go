// Package viewmodels builds display-ready structures for the federation API.
// Labels, badge classes, and relative ages are precomputed here so hosting
// dashboards can render status without re-deriving presentation rules.
package viewmodels

import (
	"fmt"
	"time"

	"github.com/crossnav/crossnav/internal/health"
	"github.com/crossnav/crossnav/internal/registry"
)

// SwitcherApp is one entry in the cross-app switcher.
type SwitcherApp struct {
	ID             string   `json:"id"`
	DisplayName    string   `json:"displayName"`
	BaseURL        string   `json:"baseUrl"`
	CapabilityTags []string `json:"capabilityTags"`
	Current        bool     `json:"current"`

	State            string `json:"state"`
	StatusLabel      string `json:"statusLabel"`
	StatusClass      string `json:"statusClass"`
	LastCheckedLabel string `json:"lastCheckedLabel"`
	LastLatencyMs    *int64 `json:"lastLatencyMs,omitempty"`

	// NavigationDisabled marks apps the switcher should not offer as direct
	// targets (currently unreachable). Other apps stay fully interactive.
	NavigationDisabled bool `json:"navigationDisabled"`
}

// SwitcherViewData is the payload of the switcher endpoint.
type SwitcherViewData struct {
	CurrentAppID string        `json:"currentAppId"`
	Apps         []SwitcherApp `json:"apps"`
}

// BuildSwitcher annotates the catalogue with live health statuses.
func BuildSwitcher(apps []registry.Application, statuses map[string]health.Status, localID string, now time.Time) SwitcherViewData {
	out := SwitcherViewData{
		CurrentAppID: localID,
		Apps:         make([]SwitcherApp, 0, len(apps)),
	}
	for _, app := range apps {
		st := statuses[app.ID]
		item := SwitcherApp{
			ID:                 app.ID,
			DisplayName:        app.DisplayName,
			BaseURL:            app.BaseURL,
			CapabilityTags:     app.CapabilityTags,
			Current:            app.ID == localID,
			State:              string(st.State),
			LastCheckedLabel:   formatAge(now, st.LastCheckedAt),
			LastLatencyMs:      st.LastLatencyMs,
			NavigationDisabled: st.State == health.StateError,
		}
		item.StatusLabel, item.StatusClass = statusPresentation(st.State)
		out.Apps = append(out.Apps, item)
	}
	return out
}

func statusPresentation(state health.State) (label, class string) {
	switch state {
	case health.StateHealthy:
		return "Healthy", badgeClassSuccess()
	case health.StateWarning:
		return "Degraded", badgeClassWarning()
	case health.StateError:
		return "Unreachable", badgeClassDanger()
	case health.StateLoading:
		return "Checking", badgeClassNeutral()
	default:
		return "Unknown", badgeClassNeutral()
	}
}

func formatAge(now time.Time, t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	if now.IsZero() {
		now = time.Now()
	}
	delta := now.Sub(t)
	if delta < 0 {
		delta = 0
	}
	switch {
	case delta < time.Minute:
		return "just now"
	case delta < time.Hour:
		return fmt.Sprintf("%dm ago", int(delta.Minutes()))
	case delta < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(delta.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(delta.Hours()/24))
	}
}

func badgeClassSuccess() string {
	return "badge bg-emerald-100 text-emerald-800 dark:bg-emerald-900/50 dark:text-emerald-100"
}

func badgeClassWarning() string {
	return "badge bg-amber-100 text-amber-800 dark:bg-amber-900/50 dark:text-amber-100"
}

func badgeClassDanger() string {
	return "badge bg-rose-100 text-rose-800 dark:bg-rose-900/50 dark:text-rose-100"
}

func badgeClassNeutral() string {
	return "badge bg-slate-100 text-slate-800 dark:bg-slate-900/50 dark:text-slate-100"
}
