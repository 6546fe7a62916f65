// Package registry holds the immutable catalogue of federated applications.
package registry

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Application is one federated application as declared in the catalogue file.
// Entries are loaded once at process start and never mutated afterward.
type Application struct {
	ID             string   `yaml:"id" json:"id"`
	DisplayName    string   `yaml:"displayName" json:"displayName"`
	BaseURL        string   `yaml:"baseUrl" json:"baseUrl"`
	CapabilityTags []string `yaml:"capabilityTags" json:"capabilityTags"`
}

// Registry is the read-only application catalogue. The zero value is empty;
// use Load or New to build one.
type Registry struct {
	apps    map[string]Application
	order   []string
	localID string
}

// New builds a registry from an in-memory application list. The local id may be
// empty for commands that do not identify as a federation member.
func New(apps []Application, localID string) (*Registry, error) {
	r := &Registry{
		apps:  make(map[string]Application, len(apps)),
		order: make([]string, 0, len(apps)),
	}
	for _, app := range apps {
		app.ID = strings.ToLower(strings.TrimSpace(app.ID))
		if err := validateApplication(app); err != nil {
			return nil, err
		}
		if _, exists := r.apps[app.ID]; exists {
			return nil, fmt.Errorf("application id %q declared twice", app.ID)
		}
		r.apps[app.ID] = app
		r.order = append(r.order, app.ID)
	}
	localID = strings.ToLower(strings.TrimSpace(localID))
	if localID != "" {
		if _, ok := r.apps[localID]; !ok {
			return nil, fmt.Errorf("local application id %q is not in the catalogue", localID)
		}
		r.localID = localID
	}
	return r, nil
}

type catalogueFile struct {
	Applications []Application `yaml:"applications"`
}

// Load reads the YAML catalogue at path and validates it.
func Load(path, localID string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalogue: %w", err)
	}
	var file catalogueFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse catalogue: %w", err)
	}
	if len(file.Applications) == 0 {
		return nil, fmt.Errorf("catalogue %s declares no applications", path)
	}
	return New(file.Applications, localID)
}

// List returns the full catalogue in declaration order.
func (r *Registry) List() []Application {
	out := make([]Application, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.apps[id])
	}
	return out
}

// Get looks up an application by id. An unknown id is an ordinary absent
// result, never an error; callers treat it as "navigation unavailable".
func (r *Registry) Get(id string) (Application, bool) {
	app, ok := r.apps[strings.ToLower(strings.TrimSpace(id))]
	return app, ok
}

// Has reports whether id resolves to a catalogue entry.
func (r *Registry) Has(id string) bool {
	_, ok := r.Get(id)
	return ok
}

// Local returns the application this process runs alongside.
func (r *Registry) Local() Application {
	return r.apps[r.localID]
}

// LocalID returns the configured local application id.
func (r *Registry) LocalID() string {
	return r.localID
}

func validateApplication(app Application) error {
	if app.ID == "" {
		return fmt.Errorf("application id cannot be empty")
	}
	if strings.TrimSpace(app.DisplayName) == "" {
		return fmt.Errorf("application %q has no display name", app.ID)
	}
	base := strings.TrimSpace(app.BaseURL)
	if base == "" {
		return fmt.Errorf("application %q has no base URL", app.ID)
	}
	u, err := url.Parse(base)
	if err != nil {
		return fmt.Errorf("application %q base URL: %w", app.ID, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("application %q base URL %q must be absolute", app.ID, base)
	}
	return nil
}
