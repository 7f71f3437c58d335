package controls

import (
	"net/url"

	"github.com/go-click/click/pkg/core"
	"github.com/go-click/click/pkg/rendering"
)

// Button is an input element of type button. A form renders its buttons in
// a row below the fields and processes them after the fields.
type Button struct {
	core.Base
	typ      string
	label    string
	title    string
	disabled bool
	clicked  bool
	form     *Form
}

// NewButton returns a push button. An empty label derives one from the name.
func NewButton(name, label string) *Button {
	b := &Button{}
	b.init(b, name, "button", label)
	return b
}

func (b *Button) init(self core.Control, name, typ, label string) {
	b.Base.Init(self, name)
	b.typ = typ
	b.label = label
}

// ID returns the id attribute, or the form id and name joined by an
// underscore.
func (b *Button) ID() string {
	if id := b.Attribute("id"); id != "" {
		return id
	}
	if b.form != nil {
		return b.form.ID() + "_" + b.Name()
	}
	return b.Name()
}

func (b *Button) LayoutKind() LayoutKind { return LayoutButton }

func (b *Button) Form() *Form { return b.form }

func (b *Button) SetForm(f *Form) { b.form = f }

// Label returns the explicit label, the "<name>.label" message, or a label
// derived from the name.
func (b *Button) Label() string {
	if b.label != "" {
		return b.label
	}
	if ctx := b.Context(); ctx != nil {
		if s, ok := ctx.LookupMessage(b.Name() + ".label"); ok {
			return s
		}
	}
	return ToLabel(b.Name())
}

func (b *Button) SetLabel(label string) { b.label = label }

func (b *Button) SetTitle(title string) { b.title = title }

// IsDisabled reports whether the button or its form is disabled.
func (b *Button) IsDisabled() bool {
	return b.disabled || (b.form != nil && b.form.Disabled)
}

func (b *Button) SetDisabled(disabled bool) { b.disabled = disabled }

// IsClicked reports whether the request was submitted with this button.
func (b *Button) IsClicked() bool { return b.clicked }

// SetOnClick sets the onclick handler.
func (b *Button) SetOnClick(js string) { b.SetAttribute("onclick", js) }

// OnProcess records whether the button submitted the request and queues
// its listener if so.
func (b *Button) OnProcess() bool {
	ctx := b.Context()
	b.clicked = ctx != nil && ctx.HasParam(b.Name())
	if b.clicked {
		b.DispatchActionEvent()
	}
	return true
}

func (b *Button) OnDestroy() {
	b.clicked = false
	b.Base.OnDestroy()
}

func (b *Button) Render(buf *rendering.Buffer) {
	b.render(buf, b.Attributes())
}

func (b *Button) render(buf *rendering.Buffer, attrs map[string]string) {
	buf.ElementStart("input")
	buf.AppendAttribute("type", b.typ)
	buf.AppendAttribute("name", b.Name())
	buf.AppendAttribute("id", b.ID())
	buf.AppendAttribute("value", b.Label())
	buf.AppendOptionalAttribute("title", b.title)
	buf.AppendAttributes(attrs)
	if b.IsDisabled() {
		buf.AppendAttributeDisabled()
	}
	buf.ElementClose()
}

// Submit is a form submit button.
type Submit struct {
	Button
	// CancelJavaScriptValidation skips the client side validation of the
	// form when the button is used.
	CancelJavaScriptValidation bool
}

// NewSubmit returns a submit button. An empty label derives one from the
// name.
func NewSubmit(name, label string) *Submit {
	s := &Submit{}
	s.init(s, name, "submit", label)
	return s
}

func (s *Submit) Render(buf *rendering.Buffer) {
	if s.CancelJavaScriptValidation {
		s.SetOnClick("form.onsubmit=null;")
	}
	s.Button.Render(buf)
}

// Reset is a form reset button. It is never submitted.
type Reset struct {
	Button
}

// NewReset returns a reset button.
func NewReset(name, label string) *Reset {
	r := &Reset{}
	r.init(r, name, "reset", label)
	return r
}

// ActionButtonParam is the request parameter naming the clicked action
// button.
const ActionButtonParam = "actionButton"

// ActionButton is a button navigating to the current page with its name in
// the actionButton parameter. It is processed whether or not its form was
// submitted.
type ActionButton struct {
	Button
	value string
	// Path overrides the request path as the target.
	Path string
}

// NewActionButton returns an action button. An empty label derives one from
// the name.
func NewActionButton(name, label string) *ActionButton {
	b := &ActionButton{}
	b.init(b, name, "button", label)
	return b
}

func (b *ActionButton) ProcessesIndependently() bool { return true }

// Value returns the value parameter of the click, or the value set.
func (b *ActionButton) Value() string { return b.value }

func (b *ActionButton) SetValue(v string) { b.value = v }

// IsAjaxTarget reports whether the request names this button.
func (b *ActionButton) IsAjaxTarget(ctx core.Context) bool {
	return ctx != nil && ctx.Param(ActionButtonParam) == b.Name()
}

// OnProcess records a click and its value and queues the listener.
// Multipart requests are ignored.
func (b *ActionButton) OnProcess() bool {
	ctx := b.Context()
	if ctx == nil || isMultipart(ctx) {
		return true
	}
	b.clicked = ctx.Param(ActionButtonParam) == b.Name()
	if b.clicked {
		b.value = ctx.Param(ValueParam)
		b.DispatchActionEvent()
	}
	return true
}

// Href returns the URL requested by a click.
func (b *ActionButton) Href() string {
	q := url.Values{}
	q.Set(ActionButtonParam, b.Name())
	if b.value != "" {
		q.Set(ValueParam, b.value)
	}
	return requestPath(b.Context(), b.Path) + "?" + q.Encode()
}

func (b *ActionButton) Render(buf *rendering.Buffer) {
	attrs := map[string]string{
		"onclick": "javascript:document.location.href='" + b.Href() + "';",
	}
	for k, v := range b.Attributes() {
		attrs[k] = v
	}
	b.render(buf, attrs)
}

var (
	_ FormMember = (*Button)(nil)
	_ FormMember = (*Submit)(nil)
	_ FormMember = (*Reset)(nil)
	_ FormMember = (*ActionButton)(nil)
)
