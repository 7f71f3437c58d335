package core

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"

	"golang.org/x/text/language"

	"github.com/go-click/click/pkg/errors"
	"github.com/go-click/click/pkg/rendering"
	"github.com/go-click/click/pkg/session"
)

// fakeContext is a minimal Context over httptest.
type fakeContext struct {
	req       *http.Request
	rec       *httptest.ResponseRecorder
	scope     *Scope
	params    map[string][]string
	ajax      bool
	charset   string
	templates map[string]string
	upload    *errors.UploadError
}

func newFakeContext(params map[string]string) *fakeContext {
	ctx := &fakeContext{
		req:     httptest.NewRequest(http.MethodGet, "/", nil),
		rec:     httptest.NewRecorder(),
		scope:   NewScope(),
		params:  make(map[string][]string),
		charset: "UTF-8",
	}
	for k, v := range params {
		ctx.params[k] = []string{v}
	}
	ctx.scope.Push()
	return ctx
}

func (c *fakeContext) Request() *http.Request           { return c.req }
func (c *fakeContext) Response() http.ResponseWriter    { return c.rec }
func (c *fakeContext) Method() string                   { return c.req.Method }
func (c *fakeContext) IsPost() bool                     { return c.req.Method == http.MethodPost }
func (c *fakeContext) IsAjax() bool                     { return c.ajax }
func (c *fakeContext) IsForward() bool                  { return false }
func (c *fakeContext) HasParam(name string) bool        { _, ok := c.params[name]; return ok }
func (c *fakeContext) ParamValues(name string) []string { return c.params[name] }
func (c *fakeContext) Scope() *Scope                    { return c.scope }
func (c *fakeContext) Locale() language.Tag             { return language.English }
func (c *fakeContext) Charset() string                  { return c.charset }
func (c *fakeContext) Session(bool) *session.Session    { return nil }
func (c *fakeContext) UploadError() *errors.UploadError { return c.upload }
func (c *fakeContext) ClearUploadError()                { c.upload = nil }

func (c *fakeContext) File(string) (*multipart.FileHeader, bool) { return nil, false }

func (c *fakeContext) Param(name string) string {
	if v := c.params[name]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c *fakeContext) Message(key string, args ...any) string {
	if len(args) == 0 {
		return key
	}
	return key + fmt.Sprint(args...)
}

func (c *fakeContext) LookupMessage(key string) (string, bool) { return "", false }

func (c *fakeContext) RenderTemplate(name string, model any) (string, error) {
	tpl, ok := c.templates[name]
	if !ok {
		return "", fmt.Errorf("no template %s", name)
	}
	return fmt.Sprintf(tpl, model), nil
}

// recorder is a control that logs its lifecycle calls.
type recorder struct {
	Base
	log         *[]string
	processOK   bool
	panicOnDone bool
	markup      string
	shares      bool
}

func newRecorder(name string, log *[]string) *recorder {
	r := &recorder{log: log, processOK: true}
	r.Init(r, name)
	return r
}

func (r *recorder) SharesName() bool { return r.shares }

func (r *recorder) OnInit()   { *r.log = append(*r.log, "init:"+r.Name()) }
func (r *recorder) OnRender() { *r.log = append(*r.log, "render:"+r.Name()) }
func (r *recorder) OnProcess() bool {
	*r.log = append(*r.log, "process:"+r.Name())
	return r.processOK
}

func (r *recorder) OnDestroy() {
	*r.log = append(*r.log, "destroy:"+r.Name())
	if r.panicOnDone {
		panic("destroy failed: " + r.Name())
	}
	r.Base.OnDestroy()
}

func (r *recorder) Render(buf *rendering.Buffer) {
	buf.Append(r.markup)
}
