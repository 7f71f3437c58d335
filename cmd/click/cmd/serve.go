package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/go-click/click/cmd/click/internal/showcase"
	"github.com/go-click/click/pkg/config"
	"github.com/go-click/click/pkg/controls"
	"github.com/go-click/click/pkg/engine"
	"github.com/go-click/click/pkg/logging"
)

func init() {
	RegisterCommand(&Command{
		Name:  "serve",
		Short: "Serve the showcase application",
		Long: `Serve the showcase pages: a customer form, a paged and sortable customer
table backed by SQLite, a file upload form and an auto complete field.

The server uses the resolved project configuration for the application
mode, session store, upload limits and message files.

Flags:
  --addr ADDR         Listen address (default: :8080)
  --db DSN            SQLite data source (default: in-memory database)
  --debug-addr ADDR   Start the diagnostics server on ADDR`,
		Usage: "click serve [--addr ADDR] [--db DSN] [--debug-addr ADDR]",
		Run:   runServe,
	})
}

type serveOptions struct {
	addr      string
	db        string
	debugAddr string
}

func parseServeArgs(args []string) (serveOptions, error) {
	opts := serveOptions{addr: ":8080", db: showcase.MemoryDSN}
	for i := 0; i < len(args); i++ {
		name, value, inline := strings.Cut(args[i], "=")
		var dst *string
		switch name {
		case "--addr":
			dst = &opts.addr
		case "--db":
			dst = &opts.db
		case "--debug-addr":
			dst = &opts.debugAddr
		default:
			return opts, fmt.Errorf("unknown flag %q", args[i])
		}
		if !inline {
			if i+1 >= len(args) {
				return opts, fmt.Errorf("%s requires a value", name)
			}
			value = args[i+1]
			i++
		}
		*dst = value
	}
	return opts, nil
}

func runServe(args []string) error {
	opts, err := parseServeArgs(args)
	if err != nil {
		return err
	}
	cfg, err := resolveProject()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logging.Configure(os.Stderr, cfg.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := showcase.OpenDB(ctx, opts.db)
	if err != nil {
		return err
	}
	defer db.Close()

	e, err := newEngine(cfg, opts)
	if err != nil {
		return err
	}
	defer e.Close()
	showcase.Register(e, db)

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           newMux(e),
		ReadHeaderTimeout: 10 * time.Second,
	}

	fmt.Printf("Serving %s (%s mode) on %s\n", cfg.AppName, cfg.Mode, opts.addr)
	for _, p := range e.Pages() {
		fmt.Printf("  %s\n", p)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logging.Logger().Info("server shutting down", "addr", opts.addr)
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func newEngine(cfg *config.Resolved, opts serveOptions) (*engine.Engine, error) {
	engineOpts := []engine.Option{engine.WithTemplates(showcase.Templates())}
	if opts.debugAddr != "" {
		d := engine.DefaultDiagnosticsConfig()
		d.DebugServerAddr = opts.debugAddr
		engineOpts = append(engineOpts, engine.WithDiagnostics(d))
	}
	return engine.New(cfg, engineOpts...)
}

// newMux serves the control resources beside the pages.
func newMux(e *engine.Engine) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle(controls.ResourcePrefix, controls.ResourceHandler())
	mux.Handle("/", e)
	return mux
}
