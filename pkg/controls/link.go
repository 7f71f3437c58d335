package controls

import (
	"maps"
	"mime"
	"net/url"
	"strconv"

	"github.com/go-click/click/pkg/core"
	"github.com/go-click/click/pkg/rendering"
)

const (
	// ActionLinkParam is the request parameter naming the clicked action
	// link.
	ActionLinkParam = "actionLink"
	// ValueParam carries the value of a clicked action link or button.
	ValueParam = "value"
)

// requestPath returns override, else the path of the request.
func requestPath(ctx core.Context, override string) string {
	if override != "" {
		return override
	}
	if ctx == nil || ctx.Request() == nil {
		return ""
	}
	return ctx.Request().URL.Path
}

func isMultipart(ctx core.Context) bool {
	r := ctx.Request()
	if r == nil {
		return false
	}
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "multipart/form-data"
}

// linkBase renders an anchor with a label and an optional title.
type linkBase struct {
	core.Base
	label string
	title string
	// Disabled renders the label without a target.
	Disabled bool
}

// Label returns the explicit label, the "<name>.label" message, or a label
// derived from the name.
func (l *linkBase) Label() string {
	if l.label != "" {
		return l.label
	}
	if ctx := l.Context(); ctx != nil {
		if s, ok := ctx.LookupMessage(l.Name() + ".label"); ok {
			return s
		}
	}
	return ToLabel(l.Name())
}

func (l *linkBase) SetLabel(label string) { l.label = label }

func (l *linkBase) Title() string { return l.title }

func (l *linkBase) SetTitle(title string) { l.title = title }

func (l *linkBase) renderAnchor(buf *rendering.Buffer, id, href string) {
	buf.ElementStart("a")
	if l.Disabled {
		attrs := maps.Clone(l.Attributes())
		if attrs == nil {
			attrs = make(map[string]string)
		}
		attrs["class"] = joinClass(attrs["class"], "disabled")
		buf.AppendOptionalAttribute("id", id)
		buf.AppendOptionalAttribute("title", l.title)
		buf.AppendAttributes(attrs)
	} else {
		buf.AppendAttribute("href", href)
		buf.AppendOptionalAttribute("id", id)
		buf.AppendOptionalAttribute("title", l.title)
		buf.AppendAttributes(l.Attributes())
	}
	buf.CloseTag()
	buf.AppendEscaped(l.Label())
	buf.ElementEnd("a")
}

func joinClass(class, add string) string {
	if class == "" {
		return add
	}
	return class + " " + add
}

// ActionLink is a link to the current page with its name in the actionLink
// parameter. The link listener runs when the link was clicked. Links are
// processed whether or not an enclosing form was submitted.
type ActionLink struct {
	linkBase
	// Path overrides the request path as the link target.
	Path    string
	value   string
	clicked bool
	params  url.Values
}

// NewActionLink returns an action link. An empty label derives one from the
// name.
func NewActionLink(name, label string) *ActionLink {
	l := &ActionLink{}
	l.Init(l, name)
	l.label = label
	return l
}

func (l *ActionLink) ProcessesIndependently() bool { return true }

// IsClicked reports whether the request was issued by this link.
func (l *ActionLink) IsClicked() bool { return l.clicked }

// Value returns the value parameter of the click, or the value set.
func (l *ActionLink) Value() string { return l.value }

func (l *ActionLink) SetValue(v string) { l.value = v }

// ValueInt parses the value. ok is false for an empty or malformed value.
func (l *ActionLink) ValueInt() (n int, ok bool) {
	n, err := strconv.Atoi(l.value)
	return n, err == nil
}

// Parameter returns a link parameter.
func (l *ActionLink) Parameter(name string) string { return l.params.Get(name) }

// SetParameter sets a parameter rendered in the href. Parameters are bound
// from the request when the link is clicked.
func (l *ActionLink) SetParameter(name, value string) {
	if l.params == nil {
		l.params = make(url.Values)
	}
	l.params.Set(name, value)
}

// DefineParameter declares a parameter bound from the request without a
// default value.
func (l *ActionLink) DefineParameter(name string) {
	if l.params == nil {
		l.params = make(url.Values)
	}
	if _, ok := l.params[name]; !ok {
		l.params[name] = nil
	}
}

// Parameters returns a copy of the link parameters.
func (l *ActionLink) Parameters() url.Values { return cloneValues(l.params) }

// IsAjaxTarget reports whether the request names this link.
func (l *ActionLink) IsAjaxTarget(ctx core.Context) bool {
	return ctx != nil && ctx.Param(ActionLinkParam) == l.Name()
}

// OnProcess records a click, binds the value and the declared parameters
// and queues the listener. Multipart requests are ignored.
func (l *ActionLink) OnProcess() bool {
	ctx := l.Context()
	if ctx == nil || isMultipart(ctx) {
		return true
	}
	l.clicked = ctx.Param(ActionLinkParam) == l.Name()
	if !l.clicked {
		return true
	}
	l.value = ctx.Param(ValueParam)
	for name := range l.params {
		if ctx.HasParam(name) {
			l.params[name] = append([]string(nil), ctx.ParamValues(name)...)
		}
	}
	l.DispatchActionEvent()
	return true
}

// OnDestroy forgets the click.
func (l *ActionLink) OnDestroy() {
	l.clicked = false
	l.linkBase.OnDestroy()
}

// Href returns the link target.
func (l *ActionLink) Href() string { return l.HrefWith(nil) }

// HrefWith returns the link target with extra parameters added. The link's
// own parameters are not modified.
func (l *ActionLink) HrefWith(extra url.Values) string {
	q := cloneValues(l.params)
	for name, vs := range q {
		if len(vs) == 0 {
			delete(q, name)
		}
	}
	q.Set(ActionLinkParam, l.Name())
	if l.value != "" {
		q.Set(ValueParam, l.value)
	}
	for name, vs := range extra {
		q[name] = append([]string(nil), vs...)
	}
	return requestPath(l.Context(), l.Path) + "?" + q.Encode()
}

func (l *ActionLink) Render(buf *rendering.Buffer) {
	l.renderAnchor(buf, l.ID(), l.Href())
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}

// PageLink is a link to another page.
type PageLink struct {
	linkBase
	// Target is the path of the linked page.
	Target string
	Params url.Values
}

// NewPageLink returns a link to target. An empty label derives one from the
// name.
func NewPageLink(name, target, label string) *PageLink {
	l := &PageLink{Target: target}
	l.Init(l, name)
	l.label = label
	return l
}

// Href returns the target with its parameters.
func (l *PageLink) Href() string {
	if len(l.Params) == 0 {
		return l.Target
	}
	return l.Target + "?" + l.Params.Encode()
}

func (l *PageLink) Render(buf *rendering.Buffer) {
	l.renderAnchor(buf, l.ID(), l.Href())
}

var (
	_ core.Control = (*ActionLink)(nil)
	_ core.Control = (*PageLink)(nil)
)
