package navctx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"

	"github.com/crossnav/crossnav/internal/registry"
)

// ErrUnknownTarget is returned by Send when the target application id does not
// resolve in the registry. It fires before any navigation side effect.
var ErrUnknownTarget = errors.New("unknown target application")

// Context is the navigation context handed from one application to another.
// The JSON field names are the session-store wire format and must not change
// independently of the sibling deployments.
type Context struct {
	HandoffID  string         `json:"handoffId,omitempty"`
	SourceApp  string         `json:"sourceApp"`
	SourcePath string         `json:"sourcePath"`
	TargetApp  string         `json:"targetApp"`
	TargetPath string         `json:"targetPath"`
	Data       map[string]any `json:"dataContext"`
	CreatedAt  time.Time      `json:"timestamp"`
}

// Propagator packages outbound navigation contexts and unpacks inbound ones.
// It owns all writes to the session-scoped handoff store.
type Propagator struct {
	reg      *registry.Registry
	sessions *scs.SessionManager
}

func NewPropagator(reg *registry.Registry, sessions *scs.SessionManager) *Propagator {
	return &Propagator{reg: reg, sessions: sessions}
}

// SendRequest describes one outbound cross-app navigation.
type SendRequest struct {
	SourcePath string
	TargetApp  string
	TargetPath string
	// Current is the inbound context of the page initiating the navigation.
	Current map[string]any
	// Patch is merged over Current; patch keys win.
	Patch map[string]any
}

// Send validates the target, merges the context, writes the session envelope,
// and returns the destination URL carrying the nav/source/data parameters.
// Validation failures happen before any side effect.
func (p *Propagator) Send(ctx context.Context, req SendRequest) (string, error) {
	target, ok := p.reg.Get(req.TargetApp)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTarget, req.TargetApp)
	}

	data := mergeData(req.Current, req.Patch)
	encoded, err := EncodeData(data)
	if err != nil {
		return "", fmt.Errorf("encode navigation context: %w", err)
	}

	dest, err := buildDestinationURL(target, req.TargetPath, p.reg.LocalID(), encoded)
	if err != nil {
		return "", err
	}

	envelope := Context{
		HandoffID:  uuid.NewString(),
		SourceApp:  p.reg.LocalID(),
		SourcePath: req.SourcePath,
		TargetApp:  target.ID,
		TargetPath: req.TargetPath,
		Data:       data,
		CreatedAt:  time.Now().UTC(),
	}
	raw, err := json.Marshal(envelope)
	if err != nil {
		return "", fmt.Errorf("marshal handoff envelope: %w", err)
	}
	p.sessions.Put(ctx, SessionKey, string(raw))

	slog.Info("cross-app navigation prepared",
		"handoff_id", envelope.HandoffID,
		"source", envelope.SourceApp,
		"target", envelope.TargetApp,
		"target_path", envelope.TargetPath,
	)
	return dest, nil
}

// Receive unpacks the inbound context for the current page load. The data
// query parameter is authoritative; the session envelope is the fallback and
// is consumed on first read so a later load without a data parameter cannot
// replay stale context. Decode failures degrade to an empty context.
//
// The returned bool reports whether this load was a federated entry at all.
func (p *Propagator) Receive(ctx context.Context, query url.Values) (Context, bool) {
	envelope, hasEnvelope := p.popEnvelope(ctx)

	if data, ok := DecodeData(query.Get(ParamData)); ok {
		c := Context{
			SourceApp: strings.TrimSpace(query.Get(ParamSource)),
			TargetApp: p.reg.LocalID(),
			Data:      data,
		}
		// The envelope carries provenance the URL cannot; attach it when it
		// belongs to the same handoff.
		if hasEnvelope && envelope.SourceApp == c.SourceApp {
			c.HandoffID = envelope.HandoffID
			c.SourcePath = envelope.SourcePath
			c.TargetPath = envelope.TargetPath
			c.CreatedAt = envelope.CreatedAt
		}
		return c, true
	}

	if hasEnvelope {
		return envelope, true
	}

	return Context{TargetApp: p.reg.LocalID(), Data: map[string]any{}}, false
}

// popEnvelope reads and clears the session-store handoff in one step.
func (p *Propagator) popEnvelope(ctx context.Context) (Context, bool) {
	raw := p.sessions.PopString(ctx, SessionKey)
	if raw == "" {
		return Context{}, false
	}
	var envelope Context
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		slog.Warn("navigation context: malformed session envelope", "err", err)
		return Context{}, false
	}
	if envelope.Data == nil {
		envelope.Data = map[string]any{}
	}
	return envelope, true
}

func mergeData(current, patch map[string]any) map[string]any {
	merged := make(map[string]any, len(current)+len(patch))
	for k, v := range current {
		merged[k] = v
	}
	for k, v := range patch {
		merged[k] = v
	}
	return merged
}

func buildDestinationURL(target registry.Application, targetPath, sourceID, encoded string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(targetPath))
	if err != nil {
		return "", fmt.Errorf("target path %q: %w", targetPath, err)
	}
	// A scheme or host here would either escape the catalogue's origins or be
	// silently swallowed by the base-URL join; refuse rather than guess. The
	// raw input is checked before any slash-prefixing can mask it.
	if parsed.Scheme != "" || parsed.Host != "" {
		return "", fmt.Errorf("target path %q must not carry a scheme or host", targetPath)
	}

	path := parsed.EscapedPath()
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	q := parsed.Query()
	q.Set(ParamNav, NavValue)
	q.Set(ParamSource, sourceID)
	q.Set(ParamData, encoded)

	return strings.TrimRight(target.BaseURL, "/") + path + "?" + q.Encode(), nil
}
