package engine

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"golang.org/x/text/language"

	"github.com/go-click/click/pkg/core"
	"github.com/go-click/click/pkg/errors"
	"github.com/go-click/click/pkg/session"
)

// Context implements core.Context for one request. It is not safe for
// concurrent use.
type Context struct {
	engine  *Engine
	req     *http.Request
	w       *responseWriter
	scope   *core.Scope
	path    string
	locale  language.Tag
	forward bool

	session       *session.Session
	sessionLoaded bool
	outer         *Context
	upload        *errors.UploadError

	sample *RequestSample
}

func (e *Engine) newContext(w http.ResponseWriter, r *http.Request, pagePath string) *Context {
	ctx := &Context{
		engine: e,
		req:    r,
		w:      &responseWriter{ResponseWriter: w},
		scope:  core.NewScope(),
		path:   pagePath,
	}
	ctx.locale = e.bundle.Match(r.Header.Get("Accept-Language"))
	ctx.upload = parseRequest(w, r, e.cfg.MaxRequestSize, e.cfg.MaxFileSize)
	return ctx
}

// NewContext returns a context for r served by e, as the engine would build
// it for the page registered at pagePath. The scope is empty.
func (e *Engine) NewContext(w http.ResponseWriter, r *http.Request, pagePath string) *Context {
	return e.newContext(w, r, cleanPath(pagePath))
}

func (c *Context) Request() *http.Request        { return c.req }
func (c *Context) Response() http.ResponseWriter { return c.w }
func (c *Context) Method() string                { return c.req.Method }
func (c *Context) IsPost() bool                  { return c.req.Method == http.MethodPost }
func (c *Context) IsForward() bool               { return c.forward }
func (c *Context) Scope() *core.Scope            { return c.scope }
func (c *Context) Locale() language.Tag          { return c.locale }
func (c *Context) Charset() string               { return c.engine.cfg.Charset }

// Engine returns the engine serving the request.
func (c *Context) Engine() *Engine { return c.engine }

// ResourcePath returns the path of the page being processed.
func (c *Context) ResourcePath() string { return c.path }

// SetLocale overrides the locale negotiated from Accept-Language.
func (c *Context) SetLocale(tag language.Tag) { c.locale = tag }

// IsAjax reports whether the request carries the XMLHttpRequest marker
// header.
func (c *Context) IsAjax() bool {
	return c.req.Header.Get("X-Requested-With") == "XMLHttpRequest"
}

func (c *Context) HasParam(name string) bool {
	if _, ok := c.req.Form[name]; ok {
		return true
	}
	if mf := c.req.MultipartForm; mf != nil {
		if _, ok := mf.Value[name]; ok {
			return true
		}
		if _, ok := mf.File[name]; ok {
			return true
		}
	}
	return false
}

func (c *Context) Param(name string) string {
	if v := c.ParamValues(name); len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c *Context) ParamValues(name string) []string {
	if v, ok := c.req.Form[name]; ok {
		return v
	}
	if mf := c.req.MultipartForm; mf != nil {
		return mf.Value[name]
	}
	return nil
}

func (c *Context) File(name string) (*multipart.FileHeader, bool) {
	mf := c.req.MultipartForm
	if mf == nil || len(mf.File[name]) == 0 {
		return nil, false
	}
	return mf.File[name][0], true
}

func (c *Context) Message(key string, args ...any) string {
	return c.engine.bundle.Message(c.locale, key, args...)
}

func (c *Context) LookupMessage(key string) (string, bool) {
	return c.engine.bundle.Lookup(c.locale, key)
}

// Session returns the client session. Store failures are reported and
// yield nil.
func (c *Context) Session(create bool) *session.Session {
	if c.outer != nil {
		// The including request owns the cookie and saves the session.
		return c.outer.Session(create)
	}
	if c.session != nil || (c.sessionLoaded && !create) {
		return c.session
	}
	s, err := c.engine.sessions.Session(c.w, c.req, create)
	c.sessionLoaded = true
	if err != nil {
		errors.Report(&errors.ClickError{
			Op:   "engine.Context.Session",
			Kind: errors.KindSession,
			Err:  err,
		})
		return nil
	}
	c.session = s
	return s
}

// RenderTemplate renders the named template with model.
func (c *Context) RenderTemplate(name string, model any) (string, error) {
	if c.engine.templates == nil {
		return "", fmt.Errorf("no templates configured to render %s", name)
	}
	return c.engine.templates.RenderString(name, model)
}

func (c *Context) UploadError() *errors.UploadError { return c.upload }

func (c *Context) ClearUploadError() { c.upload = nil }

func (c *Context) phaseTimer() *phaseTimer {
	t := &phaseTimer{phases: &RequestPhaseTimings{}, last: time.Now()}
	if c.sample != nil {
		t.phases = &c.sample.Phases
	}
	return t
}

// Include processes the page registered at pagePath as part of the current
// request and returns its output. The included page runs on its own frame
// of the request scope and does not process its controls.
func (c *Context) Include(pagePath string) (_ string, err error) {
	entry := c.engine.lookup(pagePath)
	if entry == nil {
		return "", fmt.Errorf("no page registered at %s", pagePath)
	}
	out := &bufferWriter{header: make(http.Header)}
	inner := &Context{
		engine:  c.engine,
		req:     c.req,
		w:       &responseWriter{ResponseWriter: out},
		scope:   c.scope,
		path:    entry.path,
		locale:  c.locale,
		forward: true,
		outer:   c,
	}

	c.scope.Push()
	defer c.scope.Pop()
	defer errors.Recover("engine.Include", func(pe *errors.PanicError) { err = pe })

	if err = c.engine.processPage(inner, c.engine.newPage(entry)); err != nil {
		return "", err
	}
	return out.buf.String(), nil
}

// responseWriter records the status and whether the body was started.
type responseWriter struct {
	http.ResponseWriter
	status  int
	written bool
}

func (w *responseWriter) WriteHeader(status int) {
	if w.written {
		return
	}
	w.status = status
	w.written = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseWriter) Write(p []byte) (int, error) {
	if !w.written {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(p)
}

// Written reports whether the response was started.
func (w *responseWriter) Written() bool { return w.written }

// Status returns the response status, 200 when nothing was written.
func (w *responseWriter) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func (w *responseWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// bufferWriter captures the output of an included page.
type bufferWriter struct {
	header http.Header
	buf    bytes.Buffer
}

func (w *bufferWriter) Header() http.Header         { return w.header }
func (w *bufferWriter) WriteHeader(int)             {}
func (w *bufferWriter) Write(p []byte) (int, error) { return w.buf.Write(p) }
