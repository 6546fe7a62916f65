package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultHTTPAddr     = ":3005"
	defaultRegistryPath = "crossnav.yaml"

	defaultProbeInterval   = 30 * time.Second
	defaultProbeTimeout    = 3 * time.Second
	defaultDataFlowRefresh = 60 * time.Second
)

// Config holds the runtime configuration for a crossnav sidecar.
type Config struct {
	AppID            string
	HTTPAddr         string
	MetricsAddr      string
	RegistryPath     string
	DataFlowPath     string
	ProbeInterval    time.Duration
	ProbeTimeout     time.Duration
	DataFlowRefresh  time.Duration
	AuthCookieSecure bool
}

type LoadOptions struct {
	RequireAppID bool
}

func Load() (Config, error) {
	return LoadWithOptions(LoadOptions{RequireAppID: true})
}

// LoadOptionalAppID loads config without requiring CROSSNAV_APP_ID; used by
// commands that only validate files and never identify as a federation member.
func LoadOptionalAppID() (Config, error) {
	return LoadWithOptions(LoadOptions{RequireAppID: false})
}

func LoadWithOptions(opts LoadOptions) (Config, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return Config{}, err
		}
	}

	cfg := Config{
		AppID:            strings.TrimSpace(os.Getenv("CROSSNAV_APP_ID")),
		HTTPAddr:         getenvDefault("HTTP_ADDR", defaultHTTPAddr),
		MetricsAddr:      os.Getenv("METRICS_ADDR"),
		RegistryPath:     getenvDefault("REGISTRY_PATH", defaultRegistryPath),
		DataFlowPath:     os.Getenv("DATAFLOW_PATH"),
		ProbeInterval:    defaultProbeInterval,
		ProbeTimeout:     defaultProbeTimeout,
		DataFlowRefresh:  defaultDataFlowRefresh,
		AuthCookieSecure: getenvBoolDefault("AUTH_COOKIE_SECURE", false),
	}

	if v := os.Getenv("PROBE_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.ProbeInterval = d
		}
	}
	if v := os.Getenv("PROBE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.ProbeTimeout = d
		}
	}
	if v := os.Getenv("DATAFLOW_REFRESH_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.DataFlowRefresh = d
		}
	}

	if opts.RequireAppID && cfg.AppID == "" {
		return cfg, errors.New("CROSSNAV_APP_ID is required")
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBoolDefault(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	switch v {
	case "1":
		return true
	case "0":
		return false
	default:
		return def
	}
}
