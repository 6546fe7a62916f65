// Package dataflow tracks claimed data-replication links between federated
// applications. The tracker is observational only: it validates and serves the
// link set it is fed, it never initiates or verifies a sync.
package dataflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/crossnav/crossnav/internal/metrics"
	"github.com/crossnav/crossnav/internal/registry"
)

// LinkStatus classifies a replication link as claimed by its reporter.
type LinkStatus string

const (
	StatusActive   LinkStatus = "active"
	StatusInactive LinkStatus = "inactive"
	StatusError    LinkStatus = "error"
)

var linkStatuses = []LinkStatus{StatusActive, StatusInactive, StatusError}

// Link is one claimed one-directional synchronization relationship.
type Link struct {
	FromAppID   string     `yaml:"fromAppId" json:"fromAppId"`
	ToAppID     string     `yaml:"toAppId" json:"toAppId"`
	DataType    string     `yaml:"dataType" json:"dataType"`
	Status      LinkStatus `yaml:"status" json:"status"`
	LastSyncAt  time.Time  `yaml:"lastSyncAt" json:"lastSyncAt"`
	RecordCount int64      `yaml:"recordCount" json:"recordCount"`
}

var (
	// ErrSelfLink rejects links whose endpoints are the same application.
	ErrSelfLink = errors.New("data-flow link cannot point at its own application")
	// ErrUnknownEndpoint rejects links referencing applications outside the registry.
	ErrUnknownEndpoint = errors.New("data-flow link endpoint is not a registered application")
)

// Tracker holds the current link set. Replacements are atomic: an invalid set
// leaves the previous one in place.
type Tracker struct {
	reg *registry.Registry

	mu    sync.RWMutex
	links []Link
}

func NewTracker(reg *registry.Registry) *Tracker {
	return &Tracker{reg: reg}
}

// Replace validates and installs a new link set.
func (t *Tracker) Replace(links []Link) error {
	normalized := make([]Link, 0, len(links))
	for i, link := range links {
		link.FromAppID = strings.ToLower(strings.TrimSpace(link.FromAppID))
		link.ToAppID = strings.ToLower(strings.TrimSpace(link.ToAppID))
		if link.Status == "" {
			link.Status = StatusInactive
		}
		if err := t.validate(link); err != nil {
			return fmt.Errorf("link %d (%s -> %s): %w", i, link.FromAppID, link.ToAppID, err)
		}
		normalized = append(normalized, link)
	}

	t.mu.Lock()
	t.links = normalized
	t.mu.Unlock()

	updateLinkGauges(normalized)
	return nil
}

// Snapshot returns a copy of the current link set.
func (t *Tracker) Snapshot() []Link {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Link, len(t.links))
	copy(out, t.links)
	return out
}

type feedFile struct {
	Links []Link `yaml:"links"`
}

// LoadFile reads a YAML link feed and replaces the current set.
func (t *Tracker) LoadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read data-flow feed: %w", err)
	}
	var feed feedFile
	if err := yaml.Unmarshal(raw, &feed); err != nil {
		return fmt.Errorf("parse data-flow feed: %w", err)
	}
	return t.Replace(feed.Links)
}

// RunRefresher re-reads the feed file on the given interval until ctx is
// canceled. A failed refresh keeps the previous link set.
func (t *Tracker) RunRefresher(ctx context.Context, path string, interval time.Duration) {
	if path == "" || interval <= 0 {
		return
	}

	if err := t.LoadFile(path); err != nil {
		slog.Error("initial data-flow feed load failed", "path", path, "err", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := t.LoadFile(path); err != nil {
				slog.Error("data-flow feed refresh failed", "path", path, "err", err)
			}
		}
	}
}

func (t *Tracker) validate(link Link) error {
	if link.FromAppID == "" || link.ToAppID == "" {
		return fmt.Errorf("%w: empty id", ErrUnknownEndpoint)
	}
	if link.FromAppID == link.ToAppID {
		return ErrSelfLink
	}
	if !t.reg.Has(link.FromAppID) {
		return fmt.Errorf("%w: %q", ErrUnknownEndpoint, link.FromAppID)
	}
	if !t.reg.Has(link.ToAppID) {
		return fmt.Errorf("%w: %q", ErrUnknownEndpoint, link.ToAppID)
	}
	switch link.Status {
	case StatusActive, StatusInactive, StatusError:
		return nil
	default:
		return fmt.Errorf("unknown link status %q", link.Status)
	}
}

func updateLinkGauges(links []Link) {
	counts := make(map[LinkStatus]int, len(linkStatuses))
	for _, link := range links {
		counts[link.Status]++
	}
	for _, status := range linkStatuses {
		metrics.DataFlowLinks.WithLabelValues(string(status)).Set(float64(counts[status]))
	}
}
