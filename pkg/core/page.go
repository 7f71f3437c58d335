package core

import (
	"fmt"
	"slices"

	"github.com/go-click/click/pkg/errors"
	"github.com/go-click/click/pkg/logging"
)

// Page is the root owner of a control tree and the unit the request driver
// executes. Implementations embed PageBase and override the hooks they need.
type Page interface {
	Path() string
	SetPath(path string)
	Template() string
	SetTemplate(name string)
	ContentType() string
	Headers() map[string]string
	IsStateful() bool

	Context() Context
	SetContext(ctx Context)

	AddControl(c Control) Control
	RemoveControl(c Control) bool
	Controls() []Control
	Control(name string) Control

	Model() map[string]any
	HeadElements() []HeadElement

	// OnSecurityCheck runs before controls are processed. Returning false
	// stops processing; the page is still destroyed.
	OnSecurityCheck() bool
	OnInit()
	OnGet()
	OnPost()
	OnRender()
	OnDestroy()
}

// PageBase implements Page. Embedders call Init with themselves.
type PageBase struct {
	self        Page
	path        string
	template    string
	contentType string
	ctx         Context
	controls    []Control
	byName      map[string]Control
	model       map[string]any
	headers     map[string]string
	head        []HeadElement
	stateful    bool
}

// Init records the outer page.
func (p *PageBase) Init(self Page) {
	p.self = self
}

func (p *PageBase) page() Page {
	if p.self == nil {
		p.self = p
	}
	return p.self
}

func (p *PageBase) Path() string              { return p.path }
func (p *PageBase) SetPath(path string)       { p.path = path }
func (p *PageBase) Template() string          { return p.template }
func (p *PageBase) SetTemplate(name string)   { p.template = name }
func (p *PageBase) IsStateful() bool          { return p.stateful }
func (p *PageBase) SetStateful(stateful bool) { p.stateful = stateful }

// ContentType defaults to text/html.
func (p *PageBase) ContentType() string {
	if p.contentType == "" {
		return ContentTypeHTML
	}
	return p.contentType
}

func (p *PageBase) SetContentType(ct string) { p.contentType = ct }

// SetHeader adds a response header.
func (p *PageBase) SetHeader(name, value string) {
	if p.headers == nil {
		p.headers = make(map[string]string)
	}
	p.headers[name] = value
}

func (p *PageBase) Headers() map[string]string { return p.headers }

func (p *PageBase) Context() Context { return p.ctx }

// SetContext binds the page and its controls to ctx.
func (p *PageBase) SetContext(ctx Context) {
	p.ctx = ctx
	for _, c := range p.controls {
		c.SetContext(ctx)
	}
}

// AddControl adds a named control to the page. It panics with a usage error
// for a nil control, an empty name or a name already used by another control
// or model entry. A control owned elsewhere is moved to the page.
func (p *PageBase) AddControl(c Control) Control {
	const op = "core.PageBase.AddControl"
	if c == nil {
		panic(errors.Usage(op, errors.ErrNilControl, ""))
	}
	name := c.Name()
	if name == "" {
		panic(errors.Usage(op, errors.ErrInvalidValue, "page controls must be named"))
	}
	if _, taken := p.byName[name]; taken {
		panic(errors.Usage(op, errors.ErrDuplicateName, "page %s already contains a control named %q", p.path, name))
	}
	if _, taken := p.model[name]; taken {
		panic(errors.Usage(op, errors.ErrDuplicateName, "page %s already has a model entry named %q", p.path, name))
	}

	self := p.page()
	if old := c.Parent(); !old.IsNone() && !old.Is(PageParent(self)) {
		old.detach(c)
		logging.Logger().Debug("control reparented",
			"control", fmt.Sprintf("%T", c),
			"id", c.ID(),
			"from", old.String(),
			"to", "page "+p.path)
	}
	c.SetParent(PageParent(self))
	p.controls = append(p.controls, c)
	if p.byName == nil {
		p.byName = make(map[string]Control)
	}
	p.byName[name] = c
	if p.ctx != nil {
		c.SetContext(p.ctx)
	}
	return c
}

// RemoveControl removes c and reports whether it was on the page.
func (p *PageBase) RemoveControl(c Control) bool {
	i := slices.Index(p.controls, c)
	if c == nil || i < 0 {
		return false
	}
	p.controls = slices.Delete(p.controls, i, i+1)
	if p.byName[c.Name()] == c {
		delete(p.byName, c.Name())
	}
	if c.Parent().Is(PageParent(p.page())) {
		c.SetParent(NoParent())
	}
	return true
}

func (p *PageBase) Controls() []Control { return p.controls }

func (p *PageBase) Control(name string) Control { return p.byName[name] }

// AddModel stores a template value. It panics with a usage error when name
// is empty or already used.
func (p *PageBase) AddModel(name string, value any) {
	const op = "core.PageBase.AddModel"
	if name == "" {
		panic(errors.Usage(op, errors.ErrInvalidValue, "empty model name"))
	}
	if _, taken := p.model[name]; taken {
		panic(errors.Usage(op, errors.ErrDuplicateName, "model entry %q", name))
	}
	if p.model == nil {
		p.model = make(map[string]any)
	}
	p.model[name] = value
}

// Model returns the template values added with AddModel.
func (p *PageBase) Model() map[string]any { return p.model }

// AddHeadElement registers a page level head element.
func (p *PageBase) AddHeadElement(e HeadElement) {
	p.head = append(p.head, e)
}

// HeadElements returns the page's own elements followed by those of its
// controls, without duplicates.
func (p *PageBase) HeadElements() []HeadElement {
	all := append([]HeadElement(nil), p.head...)
	for _, c := range p.controls {
		all = append(all, c.HeadElements()...)
	}
	return UniqueHeadElements(all)
}

func (p *PageBase) OnSecurityCheck() bool { return true }
func (p *PageBase) OnInit()               {}
func (p *PageBase) OnGet()                {}
func (p *PageBase) OnPost()               {}
func (p *PageBase) OnRender()             {}

// OnDestroy drops the request context.
func (p *PageBase) OnDestroy() {
	p.ctx = nil
}
