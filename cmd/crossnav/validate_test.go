package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("os.WriteFile(%s) error = %v", name, err)
	}
	return path
}

func TestRunValidate_ReportsCatalogueAndFeed(t *testing.T) {
	dir := t.TempDir()
	registryPath := writeTestFile(t, dir, "crossnav.yaml", `
applications:
  - id: portal
    displayName: Client Portal
    baseUrl: http://localhost:3006
  - id: store
    displayName: Storefront
    baseUrl: http://localhost:3007
`)
	feedPath := writeTestFile(t, dir, "dataflow.yaml", `
links:
  - fromAppId: portal
    toAppId: store
    dataType: leads
    status: active
`)
	t.Setenv("REGISTRY_PATH", registryPath)
	t.Setenv("DATAFLOW_PATH", feedPath)
	t.Setenv("CROSSNAV_APP_ID", "")

	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)

	if err := runValidate(cmd); err != nil {
		t.Fatalf("runValidate() error = %v", err)
	}
	if !strings.Contains(out.String(), "2 application(s)") {
		t.Fatalf("output = %q, want application count", out.String())
	}
	if !strings.Contains(out.String(), "1 link(s)") {
		t.Fatalf("output = %q, want link count", out.String())
	}
}

func TestRunValidate_RejectsSelfLinkFeed(t *testing.T) {
	dir := t.TempDir()
	registryPath := writeTestFile(t, dir, "crossnav.yaml", `
applications:
  - id: portal
    displayName: Client Portal
    baseUrl: http://localhost:3006
`)
	feedPath := writeTestFile(t, dir, "dataflow.yaml", `
links:
  - fromAppId: portal
    toAppId: portal
    dataType: leads
    status: active
`)
	t.Setenv("REGISTRY_PATH", registryPath)
	t.Setenv("DATAFLOW_PATH", feedPath)
	t.Setenv("CROSSNAV_APP_ID", "")

	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})

	err := runValidate(cmd)
	if err == nil || !strings.Contains(err.Error(), "own application") {
		t.Fatalf("runValidate() error = %v, want self-link rejection", err)
	}
}
