package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/go-click/click/pkg/config"
)

func init() {
	RegisterCommand(&Command{
		Name:  "config",
		Short: "Print the resolved configuration",
		Long: `Print the application configuration with every default applied.

The configuration is read from click.yaml, click.yml or click.toml in the
project directory. Missing settings show the values the server would use.

Flags:
  --format FORMAT    Output format: yaml (default) or toml`,
		Usage: "click config [--format yaml|toml]",
		Run:   runConfig,
	})
}

func runConfig(args []string) error {
	format := "yaml"
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--format" && i+1 < len(args):
			format = args[i+1]
			i++
		case strings.HasPrefix(args[i], "--format="):
			format = strings.TrimPrefix(args[i], "--format=")
		default:
			return fmt.Errorf("unexpected argument %q", args[i])
		}
	}

	cfg, err := resolveProject()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	return writeConfig(os.Stdout, cfg, format)
}

// writeConfig encodes the resolved configuration in the file format.
func writeConfig(w io.Writer, r *config.Resolved, format string) error {
	eff := effectiveConfig(r)
	switch strings.ToLower(format) {
	case "yaml", "yml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(eff); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	case "toml":
		return toml.NewEncoder(w).Encode(eff)
	default:
		return fmt.Errorf("unknown format %q (use yaml or toml)", format)
	}
}

// effectiveConfig maps r back to the file layout.
func effectiveConfig(r *config.Resolved) *config.Config {
	reload := r.TemplateReload
	cfg := &config.Config{
		App: config.AppConfig{
			Name:    r.AppName,
			Mode:    r.Mode,
			Charset: r.Charset,
			Locale:  r.Locale,
			Version: r.Version,
		},
		Templates: config.TemplateConfig{Dir: r.TemplateDir, Reload: &reload},
		Session: config.SessionConfig{
			Store:  r.SessionStore,
			Path:   r.SessionPath,
			Cookie: r.SessionCookie,
		},
		Upload: config.UploadConfig{
			MaxRequestSize: r.MaxRequestSize,
			MaxFileSize:    r.MaxFileSize,
		},
		Messages: config.MessagesConfig{Files: r.MessageFiles},
	}
	paths := make([]string, 0, len(r.Pages))
	for p := range r.Pages {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	for _, p := range paths {
		cfg.Pages = append(cfg.Pages, r.Pages[p])
	}
	return cfg
}
