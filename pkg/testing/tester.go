package testing

import (
	"bytes"
	"io/fs"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"golang.org/x/text/language"

	"github.com/go-click/click/pkg/config"
	"github.com/go-click/click/pkg/core"
	"github.com/go-click/click/pkg/engine"
	"github.com/go-click/click/pkg/i18n"
)

// Option configures the request built by NewTester.
type Option func(*options)

type upload struct {
	field, filename string
	data            []byte
}

type options struct {
	method    string
	target    string
	params    url.Values
	files     []upload
	headers   http.Header
	cookies   []*http.Cookie
	locale    *language.Tag
	templates fs.FS
	bundle    *i18n.Bundle
	cfg       config.Config
	engine    *engine.Engine
}

// Get makes the request a GET of target. This is the default, for
// "/test.htm".
func Get(target string) Option {
	return func(o *options) { o.method, o.target = http.MethodGet, target }
}

// Post makes the request a POST of target.
func Post(target string) Option {
	return func(o *options) { o.method, o.target = http.MethodPost, target }
}

// Param adds request parameter values.
func Param(name string, values ...string) Option {
	return func(o *options) { o.params[name] = append(o.params[name], values...) }
}

// Params adds single valued request parameters.
func Params(params map[string]string) Option {
	return func(o *options) {
		for k, v := range params {
			o.params.Add(k, v)
		}
	}
}

// File adds an uploaded file, making the request a multipart POST.
func File(field, filename string, data []byte) Option {
	return func(o *options) {
		o.method = http.MethodPost
		o.files = append(o.files, upload{field, filename, data})
	}
}

// Ajax marks the request as an XMLHttpRequest.
func Ajax() Option {
	return Header("X-Requested-With", "XMLHttpRequest")
}

// Header sets a request header.
func Header(name, value string) Option {
	return func(o *options) { o.headers.Set(name, value) }
}

// Cookie adds a request cookie.
func Cookie(c *http.Cookie) Option {
	return func(o *options) { o.cookies = append(o.cookies, c) }
}

// WithLocale overrides the negotiated locale.
func WithLocale(tag language.Tag) Option {
	return func(o *options) { o.locale = &tag }
}

// WithTemplates serves templates from fsys.
func WithTemplates(fsys fs.FS) Option {
	return func(o *options) { o.templates = fsys }
}

// WithBundle replaces the message bundle.
func WithBundle(b *i18n.Bundle) Option {
	return func(o *options) { o.bundle = b }
}

// WithUploadLimits sets the request and per file size limits in bytes.
func WithUploadLimits(maxRequest, maxFile int64) Option {
	return func(o *options) {
		o.cfg.Upload.MaxRequestSize = maxRequest
		o.cfg.Upload.MaxFileSize = maxFile
	}
}

// WithEngine builds the context on e instead of a private engine. The
// other engine options are ignored.
func WithEngine(e *engine.Engine) Option {
	return func(o *options) { o.engine = e }
}

// Tester is a request context with a pushed dispatcher frame, ready to drive
// controls outside of a page.
type Tester struct {
	*engine.Context
	t        testing.TB
	engine   *engine.Engine
	recorder *httptest.ResponseRecorder
}

// NewTester builds a request from opts and a context serving it. The frame
// and any private engine are released through t.Cleanup.
func NewTester(t testing.TB, opts ...Option) *Tester {
	t.Helper()
	o := &options{
		method:  http.MethodGet,
		target:  "/test.htm",
		params:  make(url.Values),
		headers: make(http.Header),
	}
	for _, opt := range opts {
		opt(o)
	}

	e := o.engine
	if e == nil {
		cfg, err := o.cfg.Resolve("", "")
		if err != nil {
			t.Fatalf("clicktest: resolve config: %v", err)
		}
		var engineOpts []engine.Option
		if o.templates != nil {
			engineOpts = append(engineOpts, engine.WithTemplates(o.templates))
		}
		if o.bundle != nil {
			engineOpts = append(engineOpts, engine.WithBundle(o.bundle))
		}
		e, err = engine.New(cfg, engineOpts...)
		if err != nil {
			t.Fatalf("clicktest: new engine: %v", err)
		}
		t.Cleanup(func() { e.Close() })
	}

	r := newRequest(t, o)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(rec, r, r.URL.Path)
	if o.locale != nil {
		ctx.SetLocale(*o.locale)
	}
	ctx.Scope().Push()
	t.Cleanup(func() {
		if ctx.Scope().Depth() > 0 {
			ctx.Scope().Pop()
		}
	})
	return &Tester{Context: ctx, t: t, engine: e, recorder: rec}
}

func newRequest(t testing.TB, o *options) *http.Request {
	t.Helper()
	var r *http.Request
	switch {
	case len(o.files) > 0:
		var body bytes.Buffer
		w := multipart.NewWriter(&body)
		for name, values := range o.params {
			for _, v := range values {
				w.WriteField(name, v)
			}
		}
		for _, f := range o.files {
			fw, err := w.CreateFormFile(f.field, f.filename)
			if err != nil {
				t.Fatalf("clicktest: multipart: %v", err)
			}
			fw.Write(f.data)
		}
		w.Close()
		r = httptest.NewRequest(o.method, o.target, &body)
		r.Header.Set("Content-Type", w.FormDataContentType())
	case o.method == http.MethodPost:
		r = httptest.NewRequest(o.method, o.target, strings.NewReader(o.params.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	default:
		u, err := url.Parse(o.target)
		if err != nil {
			t.Fatalf("clicktest: target %q: %v", o.target, err)
		}
		q := u.Query()
		for k, v := range o.params {
			q[k] = append(q[k], v...)
		}
		u.RawQuery = q.Encode()
		r = httptest.NewRequest(o.method, u.String(), nil)
	}
	for k, v := range o.headers {
		r.Header[k] = v
	}
	for _, c := range o.cookies {
		r.AddCookie(c)
	}
	return r
}

// Engine returns the engine serving the context.
func (t *Tester) Engine() *engine.Engine { return t.engine }

// Recorder returns the response recorder.
func (t *Tester) Recorder() *httptest.ResponseRecorder { return t.recorder }

// Body returns the response body written so far.
func (t *Tester) Body() string { return t.recorder.Body.String() }

// Frame returns the active dispatcher frame.
func (t *Tester) Frame() *core.Frame { return t.Scope().Current() }

// Bind sets the context on controls without running any lifecycle step.
func (t *Tester) Bind(controls ...core.Control) {
	for _, c := range controls {
		c.SetContext(t.Context)
	}
}

// Process binds, initializes and processes controls in order, then fires
// the queued listeners. It stops at the first control or listener returning
// false and reports whether processing continued.
func (t *Tester) Process(controls ...core.Control) bool {
	t.t.Helper()
	t.Bind(controls...)
	for _, c := range controls {
		core.InitControl(c)
	}
	for _, c := range controls {
		if !core.ProcessControl(c) {
			return false
		}
	}
	return t.Frame().Actions.FireActionEvents(t.Context)
}

// Render prepares c for rendering and returns its markup.
func (t *Tester) Render(c core.Control) string {
	if c.Context() == nil {
		t.Bind(c)
	}
	core.PrepareRender(c)
	return core.RenderString(c)
}

// Destroy destroys controls, failing the test on a destroy error.
func (t *Tester) Destroy(controls ...core.Control) {
	t.t.Helper()
	for _, c := range controls {
		if err := core.DestroyControl(c); err != nil {
			t.t.Errorf("clicktest: destroy %s: %v", c.Name(), err)
		}
	}
}

// Serve runs req through e and returns the recorded response.
func Serve(e *engine.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}
