// Package navctx transfers a navigation context across an origin boundary
// where no shared server-side session exists. The URL is the wire: the flat
// context map travels base64(JSON)-encoded in a query parameter, and a richer
// provenance envelope rides in the session-scoped store as a single-use copy.
package navctx

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"

	"github.com/crossnav/crossnav/internal/metrics"
)

const (
	// ParamNav marks a URL as a federated entry rather than a direct bookmark.
	ParamNav = "nav"
	// ParamSource carries the originating application id.
	ParamSource = "source"
	// ParamData carries the base64(JSON) context map.
	ParamData = "data"

	// NavValue is the fixed value of the nav parameter.
	NavValue = "cross-platform"

	// SessionKey is the well-known session-store key for the handoff envelope.
	SessionKey = "crossnav_handoff"
)

// EncodeData serializes a flat context map for the data query parameter.
// Both ends of every origin transition use this codec, so the encoding is
// bit-exact by construction: JSON, then standard base64.
func EncodeData(data map[string]any) (string, error) {
	if data == nil {
		data = map[string]any{}
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(payload), nil
}

// DecodeData parses a data parameter value. Malformed base64 or JSON is an
// expected condition (independently deployed peers, hand-edited URLs) and
// yields ok=false; it is logged and counted, never returned as an error.
func DecodeData(raw string) (map[string]any, bool) {
	if raw == "" {
		return nil, false
	}
	payload, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		slog.Warn("navigation context: malformed base64 in data parameter", "err", err)
		metrics.ContextDecodeFailuresTotal.Inc()
		return nil, false
	}
	var data map[string]any
	if err := json.Unmarshal(payload, &data); err != nil {
		slog.Warn("navigation context: malformed JSON in data parameter", "err", err)
		metrics.ContextDecodeFailuresTotal.Inc()
		return nil, false
	}
	if data == nil {
		data = map[string]any{}
	}
	return data, true
}
