// Package config loads the optional click.yaml or click.toml application
// configuration and resolves defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-click/click/pkg/logging"
)

// FrameworkVersion is the version of this module. Applications may pin a
// compatible range with app.click_version.
const FrameworkVersion = "v1.2.0"

// File names probed by LoadOptional, in order.
var FileNames = []string{"click.yaml", "click.yml", "click.toml"}

// Config represents the application configuration file.
type Config struct {
	App       AppConfig      `yaml:"app" toml:"app"`
	Pages     []PageConfig   `yaml:"pages" toml:"pages"`
	Templates TemplateConfig `yaml:"templates" toml:"templates"`
	Session   SessionConfig  `yaml:"session" toml:"session"`
	Upload    UploadConfig   `yaml:"upload" toml:"upload"`
	Messages  MessagesConfig `yaml:"messages" toml:"messages"`
}

// AppConfig contains application metadata.
type AppConfig struct {
	Name         string `yaml:"name,omitempty" toml:"name,omitempty"`
	Mode         string `yaml:"mode,omitempty" toml:"mode,omitempty"`
	Charset      string `yaml:"charset,omitempty" toml:"charset,omitempty"`
	Locale       string `yaml:"locale,omitempty" toml:"locale,omitempty"`
	Version      string `yaml:"version,omitempty" toml:"version,omitempty"`
	ClickVersion string `yaml:"click_version,omitempty" toml:"click_version,omitempty"`
}

// PageConfig overrides settings of a page registered in code.
type PageConfig struct {
	Path     string            `yaml:"path" toml:"path"`
	Template string            `yaml:"template,omitempty" toml:"template,omitempty"`
	Stateful bool              `yaml:"stateful,omitempty" toml:"stateful,omitempty"`
	Headers  map[string]string `yaml:"headers,omitempty" toml:"headers,omitempty"`
}

// TemplateConfig locates page templates.
type TemplateConfig struct {
	Dir    string `yaml:"dir,omitempty" toml:"dir,omitempty"`
	Reload *bool  `yaml:"reload,omitempty" toml:"reload,omitempty"`
}

// SessionConfig selects the session store.
type SessionConfig struct {
	Store  string `yaml:"store,omitempty" toml:"store,omitempty"`
	Path   string `yaml:"path,omitempty" toml:"path,omitempty"`
	Cookie string `yaml:"cookie,omitempty" toml:"cookie,omitempty"`
}

// UploadConfig limits multipart request sizes in bytes.
type UploadConfig struct {
	MaxRequestSize int64 `yaml:"max_request_size,omitempty" toml:"max_request_size,omitempty"`
	MaxFileSize    int64 `yaml:"max_file_size,omitempty" toml:"max_file_size,omitempty"`
}

// MessagesConfig lists message override files keyed by locale.
type MessagesConfig struct {
	Files map[string]string `yaml:"files,omitempty" toml:"files,omitempty"`
}

// Resolved contains configuration with every default applied.
type Resolved struct {
	Root           string
	ModulePath     string
	AppName        string
	Mode           string
	Charset        string
	Locale         string
	Version        string
	Pages          map[string]PageConfig
	TemplateDir    string
	TemplateReload bool
	SessionStore   string
	SessionPath    string
	SessionCookie  string
	MaxRequestSize int64
	MaxFileSize    int64
	MessageFiles   map[string]string
}

// Session store kinds.
const (
	StoreMemory = "memory"
	StoreBolt   = "bolt"
)

const (
	defaultMaxRequestSize = 10 << 20
	defaultMaxFileSize    = 5 << 20
)

// Load reads the configuration file at path, choosing the decoder by
// extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	return decode(filepath.Base(path), data)
}

func decode(name string, data []byte) (*Config, error) {
	var cfg Config
	switch strings.ToLower(filepath.Ext(name)) {
	case ".toml":
		md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		for _, key := range md.Undecoded() {
			logging.Logger().Warn("unknown configuration key", "file", name, "key", key.String())
		}
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
	}
	return &cfg, nil
}

// LoadOptional reads the first configuration file found in dir, or returns an
// empty Config if there is none.
func LoadOptional(dir string) (*Config, error) {
	for _, name := range FileNames {
		cfg, err := Load(filepath.Join(dir, name))
		if err == nil {
			return cfg, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	return &Config{}, nil
}

// Resolve loads the configuration in dir (if present) and resolves defaults.
// A missing go.mod is tolerated; the directory name then names the app.
func Resolve(dir string) (*Resolved, error) {
	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}
	modulePath, err := modulePath(dir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return cfg.Resolve(dir, modulePath)
}

// Resolve applies defaults to cfg. modulePath may be empty.
func (cfg *Config) Resolve(dir, modulePath string) (*Resolved, error) {
	r := &Resolved{
		Root:           dir,
		ModulePath:     modulePath,
		AppName:        strings.TrimSpace(cfg.App.Name),
		Mode:           strings.ToLower(strings.TrimSpace(cfg.App.Mode)),
		Charset:        strings.TrimSpace(cfg.App.Charset),
		Locale:         strings.TrimSpace(cfg.App.Locale),
		Version:        strings.TrimSpace(cfg.App.Version),
		Pages:          make(map[string]PageConfig, len(cfg.Pages)),
		TemplateDir:    cfg.Templates.Dir,
		SessionStore:   strings.ToLower(cfg.Session.Store),
		SessionPath:    cfg.Session.Path,
		SessionCookie:  cfg.Session.Cookie,
		MaxRequestSize: cfg.Upload.MaxRequestSize,
		MaxFileSize:    cfg.Upload.MaxFileSize,
		MessageFiles:   cfg.Messages.Files,
	}

	if r.AppName == "" {
		r.AppName = defaultAppName(modulePath, dir)
	}
	if r.Mode == "" {
		r.Mode = logging.ModeDevelopment
	}
	if err := validateMode(r.Mode); err != nil {
		return nil, err
	}
	if r.Charset == "" {
		r.Charset = "UTF-8"
	}
	if r.Locale == "" {
		r.Locale = "en"
	}
	if r.Version != "" {
		if err := validateVersion(r.Version); err != nil {
			return nil, err
		}
		r.Version = semver.Canonical(r.Version)
	}
	if err := checkFrameworkVersion(cfg.App.ClickVersion); err != nil {
		return nil, err
	}

	for _, p := range cfg.Pages {
		path := "/" + strings.TrimPrefix(strings.TrimSpace(p.Path), "/")
		if _, dup := r.Pages[path]; dup {
			return nil, fmt.Errorf("page %s is configured twice", path)
		}
		p.Path = path
		r.Pages[path] = p
	}

	if r.TemplateDir == "" {
		r.TemplateDir = "templates"
	}
	if !filepath.IsAbs(r.TemplateDir) && dir != "" {
		r.TemplateDir = filepath.Join(dir, r.TemplateDir)
	}
	if cfg.Templates.Reload != nil {
		r.TemplateReload = *cfg.Templates.Reload
	} else {
		r.TemplateReload = r.Mode != logging.ModeProduction && r.Mode != logging.ModeProfile
	}

	switch r.SessionStore {
	case "":
		r.SessionStore = StoreMemory
	case StoreMemory:
	case StoreBolt:
		if r.SessionPath == "" {
			r.SessionPath = filepath.Join(dir, "sessions.db")
		}
	default:
		return nil, fmt.Errorf("session.store must be %q or %q (got %q)", StoreMemory, StoreBolt, r.SessionStore)
	}
	if r.SessionCookie == "" {
		r.SessionCookie = "CLICKSESSION"
	}

	if r.MaxRequestSize <= 0 {
		r.MaxRequestSize = defaultMaxRequestSize
	}
	if r.MaxFileSize <= 0 {
		r.MaxFileSize = defaultMaxFileSize
	}
	if r.MaxFileSize > r.MaxRequestSize {
		return nil, fmt.Errorf("upload.max_file_size (%d) exceeds upload.max_request_size (%d)", r.MaxFileSize, r.MaxRequestSize)
	}
	return r, nil
}

// IsProduction reports whether the app runs in production or profile mode.
func (r *Resolved) IsProduction() bool {
	return r.Mode == logging.ModeProduction || r.Mode == logging.ModeProfile
}

// FindProjectRoot walks up from the current directory to find go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a Go module (no go.mod found)")
		}
		dir = parent
	}
}

func modulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", fmt.Errorf("could not determine module path from go.mod")
	}
	return path, nil
}

func defaultAppName(modulePath, dir string) string {
	base := filepath.Base(dir)
	if modulePath != "" {
		prefix, _, ok := module.SplitPathVersion(modulePath)
		if ok {
			parts := strings.Split(prefix, "/")
			base = parts[len(parts)-1]
		}
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "click_app"
	}
	return base
}

func validateMode(mode string) error {
	switch mode {
	case logging.ModeProduction, logging.ModeProfile, logging.ModeDevelopment,
		logging.ModeDebug, logging.ModeTrace:
		return nil
	}
	return fmt.Errorf("app.mode must be one of production, profile, development, debug, trace (got %q)", mode)
}

func validateVersion(v string) error {
	if !semver.IsValid(v) {
		return fmt.Errorf("app.version must be a semantic version such as v1.0.0 (got %q)", v)
	}
	return nil
}

// checkFrameworkVersion accepts an empty requirement or one with the same
// major version that is not newer than FrameworkVersion.
func checkFrameworkVersion(required string) error {
	required = strings.TrimSpace(required)
	if required == "" {
		return nil
	}
	if !semver.IsValid(required) {
		return fmt.Errorf("app.click_version must be a semantic version (got %q)", required)
	}
	if semver.Major(required) != semver.Major(FrameworkVersion) {
		return fmt.Errorf("app requires click %s but this is %s", required, FrameworkVersion)
	}
	if semver.Compare(required, FrameworkVersion) > 0 {
		return fmt.Errorf("app requires click %s or newer but this is %s", required, FrameworkVersion)
	}
	return nil
}
