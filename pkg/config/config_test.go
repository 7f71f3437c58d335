package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, dir, name, data string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestResolve_Defaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module example.com/shop/v2\n\ngo 1.24\n")

	r, err := Resolve(dir)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if r.AppName != "shop" {
		t.Errorf("AppName = %q, want shop", r.AppName)
	}
	if r.ModulePath != "example.com/shop/v2" {
		t.Errorf("ModulePath = %q", r.ModulePath)
	}
	if r.Mode != "development" || !r.TemplateReload {
		t.Errorf("Mode = %q, TemplateReload = %v", r.Mode, r.TemplateReload)
	}
	if r.Charset != "UTF-8" || r.Locale != "en" || r.SessionCookie != "CLICKSESSION" {
		t.Errorf("unexpected defaults: %+v", r)
	}
	if r.SessionStore != StoreMemory {
		t.Errorf("SessionStore = %q", r.SessionStore)
	}
	if r.MaxRequestSize != 10<<20 || r.MaxFileSize != 5<<20 {
		t.Errorf("limits = %d/%d", r.MaxRequestSize, r.MaxFileSize)
	}
	if r.TemplateDir != filepath.Join(dir, "templates") {
		t.Errorf("TemplateDir = %q", r.TemplateDir)
	}
}

func TestResolve_NoGoMod(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "intranet")
	if err := os.Mkdir(dir, 0755); err != nil {
		t.Fatal(err)
	}
	r, err := Resolve(dir)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if r.AppName != "intranet" {
		t.Errorf("AppName = %q, want intranet", r.AppName)
	}
}

func TestLoadOptional_YAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "click.yaml", `
app:
  name: Shop
  mode: production
  version: v1.4
pages:
  - path: home
    template: home.htm
  - path: /cart
    stateful: true
session:
  store: bolt
upload:
  max_request_size: 2048
  max_file_size: 1024
`)
	cfg, err := LoadOptional(dir)
	if err != nil {
		t.Fatalf("LoadOptional() error = %v", err)
	}
	r, err := cfg.Resolve(dir, "")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if r.AppName != "Shop" || r.Mode != "production" || r.TemplateReload {
		t.Errorf("unexpected app settings: %+v", r)
	}
	if r.Version != "v1.4.0" {
		t.Errorf("Version = %q, want canonical v1.4.0", r.Version)
	}
	want := map[string]PageConfig{
		"/home": {Path: "/home", Template: "home.htm"},
		"/cart": {Path: "/cart", Stateful: true},
	}
	if diff := cmp.Diff(want, r.Pages); diff != "" {
		t.Errorf("Pages mismatch (-want +got):\n%s", diff)
	}
	if r.SessionPath != filepath.Join(dir, "sessions.db") {
		t.Errorf("SessionPath = %q", r.SessionPath)
	}
	if r.MaxRequestSize != 2048 || r.MaxFileSize != 1024 {
		t.Errorf("limits = %d/%d", r.MaxRequestSize, r.MaxFileSize)
	}
}

func TestLoadOptional_TOML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "click.toml", `
[app]
name = "Admin"
locale = "de"

[[pages]]
path = "/users"
template = "users.htm"

[templates]
dir = "/srv/tpl"
reload = false
`)
	cfg, err := LoadOptional(dir)
	if err != nil {
		t.Fatalf("LoadOptional() error = %v", err)
	}
	r, err := cfg.Resolve(dir, "")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if r.AppName != "Admin" || r.Locale != "de" {
		t.Errorf("app = %+v", r)
	}
	if r.Pages["/users"].Template != "users.htm" {
		t.Errorf("Pages = %+v", r.Pages)
	}
	if r.TemplateDir != "/srv/tpl" || r.TemplateReload {
		t.Errorf("templates = %q reload=%v", r.TemplateDir, r.TemplateReload)
	}
}

func TestLoadOptional_Missing(t *testing.T) {
	cfg, err := LoadOptional(t.TempDir())
	if err != nil {
		t.Fatalf("LoadOptional() error = %v", err)
	}
	if diff := cmp.Diff(&Config{}, cfg); diff != "" {
		t.Errorf("expected empty config (-want +got):\n%s", diff)
	}
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"bad mode", Config{App: AppConfig{Mode: "fast"}}, "app.mode"},
		{"bad version", Config{App: AppConfig{Version: "1.0"}}, "app.version"},
		{"bad store", Config{Session: SessionConfig{Store: "redis"}}, "session.store"},
		{"file over request", Config{Upload: UploadConfig{MaxRequestSize: 10, MaxFileSize: 20}}, "max_file_size"},
		{"duplicate page", Config{Pages: []PageConfig{{Path: "/a"}, {Path: "a"}}}, "configured twice"},
		{"other major", Config{App: AppConfig{ClickVersion: "v2.0.0"}}, "requires click"},
		{"newer minor", Config{App: AppConfig{ClickVersion: "v1.99.0"}}, "or newer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.cfg.Resolve("", "")
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Resolve() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestCheckFrameworkVersion_Compatible(t *testing.T) {
	for _, v := range []string{"", "v1", "v1.0.0", FrameworkVersion} {
		if err := checkFrameworkVersion(v); err != nil {
			t.Errorf("checkFrameworkVersion(%q) = %v", v, err)
		}
	}
}
