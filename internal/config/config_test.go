package config

import "testing"

func TestLoad_RequiresAppID(t *testing.T) {
	t.Setenv("CROSSNAV_APP_ID", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected CROSSNAV_APP_ID error")
	}
}

func TestLoadWithOptions_Defaults(t *testing.T) {
	t.Setenv("CROSSNAV_APP_ID", "")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("REGISTRY_PATH", "")
	t.Setenv("PROBE_INTERVAL", "")
	t.Setenv("PROBE_TIMEOUT", "")

	cfg, err := LoadWithOptions(LoadOptions{RequireAppID: false})
	if err != nil {
		t.Fatalf("LoadWithOptions() error = %v", err)
	}
	if cfg.HTTPAddr != defaultHTTPAddr {
		t.Fatalf("HTTPAddr = %q, want %q", cfg.HTTPAddr, defaultHTTPAddr)
	}
	if cfg.RegistryPath != defaultRegistryPath {
		t.Fatalf("RegistryPath = %q, want %q", cfg.RegistryPath, defaultRegistryPath)
	}
	if cfg.ProbeInterval != defaultProbeInterval {
		t.Fatalf("ProbeInterval = %s, want %s", cfg.ProbeInterval, defaultProbeInterval)
	}
	if cfg.ProbeTimeout != defaultProbeTimeout {
		t.Fatalf("ProbeTimeout = %s, want %s", cfg.ProbeTimeout, defaultProbeTimeout)
	}
}

func TestLoadWithOptions_ParsesProbeDurations(t *testing.T) {
	t.Setenv("CROSSNAV_APP_ID", "portal")
	t.Setenv("PROBE_INTERVAL", "10s")
	t.Setenv("PROBE_TIMEOUT", "1500ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.AppID != "portal" {
		t.Fatalf("AppID = %q, want %q", cfg.AppID, "portal")
	}
	if cfg.ProbeInterval.String() != "10s" {
		t.Fatalf("ProbeInterval = %s, want 10s", cfg.ProbeInterval)
	}
	if cfg.ProbeTimeout.String() != "1.5s" {
		t.Fatalf("ProbeTimeout = %s, want 1.5s", cfg.ProbeTimeout)
	}
}

func TestLoadWithOptions_IgnoresInvalidDurations(t *testing.T) {
	t.Setenv("CROSSNAV_APP_ID", "portal")
	t.Setenv("PROBE_INTERVAL", "soon")
	t.Setenv("PROBE_TIMEOUT", "-2s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ProbeInterval != defaultProbeInterval {
		t.Fatalf("ProbeInterval = %s, want default %s", cfg.ProbeInterval, defaultProbeInterval)
	}
	if cfg.ProbeTimeout != defaultProbeTimeout {
		t.Fatalf("ProbeTimeout = %s, want default %s", cfg.ProbeTimeout, defaultProbeTimeout)
	}
}
