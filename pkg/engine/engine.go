// Package engine drives pages through the request lifecycle. An Engine is an
// http.Handler: it maps request paths to registered page factories, builds a
// Context per request and runs the page and its controls through init,
// process, listener firing, render and destroy.
package engine

import (
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/text/language"

	"github.com/go-click/click/pkg/config"
	"github.com/go-click/click/pkg/core"
	"github.com/go-click/click/pkg/errors"
	"github.com/go-click/click/pkg/i18n"
	"github.com/go-click/click/pkg/logging"
	"github.com/go-click/click/pkg/rendering"
	"github.com/go-click/click/pkg/session"
)

// PageFactory creates a fresh page. Stateless pages are created for every
// request; stateful pages once per session.
type PageFactory func() core.Page

// Option configures an Engine.
type Option func(*Engine)

// WithTemplates serves page templates from fsys instead of the configured
// template directory.
func WithTemplates(fsys fs.FS) Option {
	return func(e *Engine) { e.templateFS = fsys }
}

// WithBundle replaces the message bundle.
func WithBundle(b *i18n.Bundle) Option {
	return func(e *Engine) { e.bundle = b }
}

// WithSessionStore replaces the configured session store.
func WithSessionStore(store session.Store) Option {
	return func(e *Engine) { e.store = store }
}

// WithDiagnostics enables request tracing with the given settings.
func WithDiagnostics(d *DiagnosticsConfig) Option {
	return func(e *Engine) { e.diagnostics = d }
}

type pageEntry struct {
	path     string
	factory  PageFactory
	config   config.PageConfig
	stateful atomic.Bool
}

// Engine serves registered pages. It is safe for concurrent use.
type Engine struct {
	cfg         *config.Resolved
	templateFS  fs.FS
	templates   *rendering.TemplateService
	bundle      *i18n.Bundle
	store       session.Store
	sessions    *session.Manager
	diagnostics *DiagnosticsConfig
	trace       *RequestTraceBuffer
	runtime     *RuntimeSampleBuffer
	sampler     *runtimeSampler
	debug       *DebugServer
	load        serverLoad

	mu    sync.RWMutex
	pages map[string]*pageEntry
}

// New creates an engine for cfg. A nil cfg uses the defaults of an empty
// configuration.
func New(cfg *config.Resolved, opts ...Option) (*Engine, error) {
	if cfg == nil {
		resolved, err := (&config.Config{}).Resolve("", "")
		if err != nil {
			return nil, err
		}
		cfg = resolved
	}
	e := &Engine{cfg: cfg, pages: make(map[string]*pageEntry)}
	for _, opt := range opts {
		opt(e)
	}

	if e.templateFS == nil {
		if info, err := os.Stat(cfg.TemplateDir); err == nil && info.IsDir() {
			e.templateFS = os.DirFS(cfg.TemplateDir)
		}
	}
	if e.templateFS != nil {
		e.templates = rendering.NewTemplateService(e.templateFS, cfg.TemplateReload)
	}

	if e.bundle == nil {
		b, err := loadBundle(cfg)
		if err != nil {
			return nil, err
		}
		e.bundle = b
	}

	if e.store == nil {
		store, err := openStore(cfg)
		if err != nil {
			return nil, err
		}
		e.store = store
	}
	e.sessions = session.NewManager(e.store, cfg.SessionCookie)

	if e.diagnostics != nil {
		e.trace = NewRequestTraceBuffer(e.diagnostics.TraceSamples, e.diagnostics.SlowRequestThreshold)
		if e.diagnostics.RuntimeSampleInterval > 0 {
			interval, window := runtimeSampleConfig(e.diagnostics)
			e.runtime = NewRuntimeSampleBuffer(window, interval)
			e.sampler = startRuntimeSampler(e.runtime, interval, &e.load)
		}
		if addr := e.diagnostics.DebugServerAddr; addr != "" {
			d, err := e.StartDebugServer(addr)
			if err != nil {
				if e.sampler != nil {
					e.sampler.stop()
				}
				return nil, err
			}
			e.debug = d
			logging.Logger().Info("debug server listening", "addr", d.Addr())
		}
	}

	logging.Logger().Debug("engine created",
		"app", cfg.AppName,
		"mode", cfg.Mode,
		"templates", e.templates != nil,
		"session_store", cfg.SessionStore)
	return e, nil
}

func loadBundle(cfg *config.Resolved) (*i18n.Bundle, error) {
	tag, err := language.Parse(cfg.Locale)
	if err != nil {
		return nil, fmt.Errorf("invalid app.locale %q: %w", cfg.Locale, err)
	}
	b := i18n.NewBundle(tag)
	locales := make([]string, 0, len(cfg.MessageFiles))
	for locale := range cfg.MessageFiles {
		locales = append(locales, locale)
	}
	sort.Strings(locales)
	for _, locale := range locales {
		t, err := language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("invalid messages locale %q: %w", locale, err)
		}
		file := cfg.MessageFiles[locale]
		if !strings.HasPrefix(file, "/") && cfg.Root != "" {
			file = path.Join(cfg.Root, file)
		}
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("failed to open messages for %s: %w", locale, err)
		}
		err = b.LoadYAML(f, t)
		f.Close()
		if err != nil {
			return nil, err
		}
	}
	return b, nil
}

func openStore(cfg *config.Resolved) (session.Store, error) {
	if cfg.SessionStore == config.StoreBolt {
		return session.OpenBoltStore(cfg.SessionPath)
	}
	return session.NewMemoryStore(), nil
}

// Config returns the resolved configuration.
func (e *Engine) Config() *config.Resolved { return e.cfg }

// Bundle returns the message bundle.
func (e *Engine) Bundle() *i18n.Bundle { return e.bundle }

// Sessions returns the session manager.
func (e *Engine) Sessions() *session.Manager { return e.sessions }

// Trace returns the request trace buffer, or nil when diagnostics are off.
func (e *Engine) Trace() *RequestTraceBuffer { return e.trace }

// Handle registers factory for path. It panics with a usage error on a nil
// factory or a path registered twice.
func (e *Engine) Handle(pagePath string, factory PageFactory) {
	const op = "engine.Engine.Handle"
	if factory == nil {
		panic(errors.Usage(op, errors.ErrInvalidValue, "nil page factory for %s", pagePath))
	}
	pagePath = cleanPath(pagePath)

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, dup := e.pages[pagePath]; dup {
		panic(errors.Usage(op, errors.ErrDuplicateName, "page %s is already registered", pagePath))
	}
	entry := &pageEntry{path: pagePath, factory: factory}
	if pc, ok := e.cfg.Pages[pagePath]; ok {
		entry.config = pc
		entry.stateful.Store(pc.Stateful)
	}
	e.pages[pagePath] = entry
}

// Pages returns the registered paths in sorted order.
func (e *Engine) Pages() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	paths := make([]string, 0, len(e.pages))
	for p := range e.pages {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (e *Engine) lookup(pagePath string) *pageEntry {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.pages[cleanPath(pagePath)]
}

func cleanPath(p string) string {
	p = path.Clean("/" + strings.TrimSpace(p))
	if p == "/" {
		return "/index.htm"
	}
	return p
}

// ServeHTTP processes the page registered for the request path.
func (e *Engine) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	entry := e.lookup(r.URL.Path)
	if entry == nil {
		http.NotFound(w, r)
		return
	}

	ctx := e.newContext(w, r, entry.path)
	e.load.begin()
	if e.trace != nil {
		ctx.sample = &RequestSample{
			Timestamp: start.UnixMilli(),
			Method:    r.Method,
			Path:      entry.path,
			Ajax:      ctx.IsAjax(),
		}
	}

	e.serve(ctx, entry)

	elapsed := time.Since(start)
	e.load.end(ctx.w.Status())
	if ctx.sample != nil {
		ctx.sample.Status = ctx.w.Status()
		ctx.sample.DurationMs = durationToMillis(elapsed)
		e.trace.Add(*ctx.sample, elapsed)
	}
	logging.Logger().Info("request",
		"method", r.Method,
		"path", entry.path,
		"status", ctx.w.Status(),
		"ajax", ctx.IsAjax(),
		"duration", elapsed)
}

func (e *Engine) serve(ctx *Context, entry *pageEntry) {
	// Page creation and session handling run outside processPage.
	defer errors.Recover("engine.serve", func(pe *errors.PanicError) {
		e.renderError(ctx, pe)
	})
	page, release := e.acquirePage(ctx, entry)
	defer release()

	ctx.scope.Push()
	defer ctx.scope.Pop()

	if err := e.processPage(ctx, page); err != nil {
		e.renderError(ctx, err)
	}
	if s := ctx.session; s != nil {
		if err := e.sessions.Save(s); err != nil {
			errors.Report(&errors.ClickError{
				Op:   "engine.serve",
				Kind: errors.KindSession,
				Err:  err,
			})
		}
	}
}

// acquirePage returns the page for the request and a release function.
// Stateful pages are cached in the session and serialized by its lock.
func (e *Engine) acquirePage(ctx *Context, entry *pageEntry) (core.Page, func()) {
	var fresh core.Page
	if !entry.stateful.Load() {
		fresh = e.newPage(entry)
		if !fresh.IsStateful() {
			return fresh, func() {}
		}
		entry.stateful.Store(true)
	}

	s := ctx.Session(true)
	if s == nil {
		if fresh == nil {
			fresh = e.newPage(entry)
		}
		return fresh, func() {}
	}
	s.Lock()
	defer func() {
		// A panicking factory must not leave the session locked.
		if r := recover(); r != nil {
			s.Unlock()
			panic(r)
		}
	}()
	key := statefulPageKey + entry.path
	if v, ok := s.Value(key); ok {
		if page, ok := v.(core.Page); ok {
			if ctx.sample != nil {
				ctx.sample.Stateful = true
			}
			return page, s.Unlock
		}
	}
	page := fresh
	if page == nil {
		page = e.newPage(entry)
	}
	s.SetValue(key, page)
	if ctx.sample != nil {
		ctx.sample.Stateful = true
	}
	return page, s.Unlock
}

const statefulPageKey = "click.page:"

func (e *Engine) newPage(entry *pageEntry) core.Page {
	page := entry.factory()
	page.SetPath(entry.path)
	if entry.config.Template != "" {
		page.SetTemplate(entry.config.Template)
	}
	return page
}

// Close stops diagnostics and closes the session store.
func (e *Engine) Close() error {
	if e.sampler != nil {
		e.sampler.stop()
	}
	if e.debug != nil {
		e.debug.Stop()
	}
	return e.sessions.Close()
}
