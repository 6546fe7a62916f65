package registry

import (
	"os"
	"path/filepath"
	"testing"
)

func testApps() []Application {
	return []Application{
		{ID: "portal", DisplayName: "Client Portal", BaseURL: "http://localhost:3006", CapabilityTags: []string{"dashboard"}},
		{ID: "store", DisplayName: "Storefront", BaseURL: "http://localhost:3007", CapabilityTags: []string{"ecommerce"}},
	}
}

func TestNew_PreservesDeclarationOrder(t *testing.T) {
	r, err := New(testApps(), "portal")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	apps := r.List()
	if len(apps) != 2 {
		t.Fatalf("len(List()) = %d, want 2", len(apps))
	}
	if apps[0].ID != "portal" || apps[1].ID != "store" {
		t.Fatalf("List() order = %q, %q; want portal, store", apps[0].ID, apps[1].ID)
	}
}

func TestGet_UnknownIDIsAbsentNotError(t *testing.T) {
	r, err := New(testApps(), "portal")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, ok := r.Get("billing"); ok {
		t.Fatal("Get(billing) ok = true, want false")
	}
	if app, ok := r.Get("  STORE "); !ok || app.ID != "store" {
		t.Fatalf("Get(STORE) = %v, %v; want store entry", app, ok)
	}
}

func TestNew_RejectsDuplicateIDs(t *testing.T) {
	apps := testApps()
	apps = append(apps, Application{ID: "Portal", DisplayName: "Dup", BaseURL: "http://localhost:3008"})
	if _, err := New(apps, ""); err == nil {
		t.Fatal("expected duplicate id error")
	}
}

func TestNew_RejectsRelativeBaseURL(t *testing.T) {
	apps := []Application{{ID: "portal", DisplayName: "Portal", BaseURL: "/portal"}}
	if _, err := New(apps, ""); err == nil {
		t.Fatal("expected absolute base URL error")
	}
}

func TestNew_RejectsUnknownLocalID(t *testing.T) {
	if _, err := New(testApps(), "admin"); err == nil {
		t.Fatal("expected unknown local id error")
	}
}

func TestLoad_ReadsCatalogueFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crossnav.yaml")
	raw := `applications:
  - id: portal
    displayName: Client Portal
    baseUrl: http://localhost:3006
    capabilityTags: [dashboard, crm]
  - id: store
    displayName: Storefront
    baseUrl: http://localhost:3007
    capabilityTags: [ecommerce]
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	r, err := Load(path, "store")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if r.Local().ID != "store" {
		t.Fatalf("Local().ID = %q, want %q", r.Local().ID, "store")
	}
	app, ok := r.Get("portal")
	if !ok {
		t.Fatal("Get(portal) ok = false, want true")
	}
	if len(app.CapabilityTags) != 2 || app.CapabilityTags[0] != "dashboard" {
		t.Fatalf("CapabilityTags = %v, want [dashboard crm]", app.CapabilityTags)
	}
}

func TestLoad_EmptyCatalogueFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crossnav.yaml")
	if err := os.WriteFile(path, []byte("applications: []\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := Load(path, ""); err == nil {
		t.Fatal("expected empty catalogue error")
	}
}
