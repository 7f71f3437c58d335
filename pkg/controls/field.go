package controls

import (
	"fmt"
	"maps"
	"strings"
	"time"
	"unicode"

	"github.com/go-click/click/pkg/core"
	"github.com/go-click/click/pkg/rendering"
)

// LayoutKind tells Form and FieldSet how to place a control in their layout
// table.
type LayoutKind int

const (
	// LayoutField renders a label cell followed by the control cell.
	LayoutField LayoutKind = iota
	// LayoutSpan renders the control alone across the label and control
	// cells. Containers and plain controls use it.
	LayoutSpan
	// LayoutLabel renders label text across both cells.
	LayoutLabel
	// LayoutHidden renders the control in the form header, outside the
	// layout table.
	LayoutHidden
	// LayoutButton renders the control in the button row.
	LayoutButton
)

func (k LayoutKind) String() string {
	switch k {
	case LayoutField:
		return "field"
	case LayoutLabel:
		return "label"
	case LayoutHidden:
		return "hidden"
	case LayoutButton:
		return "button"
	default:
		return "span"
	}
}

// Layouter is implemented by controls that choose their own placement.
type Layouter interface {
	LayoutKind() LayoutKind
}

// LayoutOf returns the placement of c. Controls without a preference span
// both cells.
func LayoutOf(c core.Control) LayoutKind {
	if l, ok := c.(Layouter); ok {
		return l.LayoutKind()
	}
	return LayoutSpan
}

// FormMember is implemented by controls that keep a reference to the form
// they belong to.
type FormMember interface {
	Form() *Form
	SetForm(f *Form)
}

// independent is implemented by controls processed even when their form was
// not submitted.
type independent interface {
	ProcessesIndependently() bool
}

func processesIndependently(c core.Control) bool {
	i, ok := c.(independent)
	return ok && i.ProcessesIndependently()
}

// Field is a control bound to one HTML form value.
//
// A field is processed in three steps: [Field.BindRequestValue] copies the
// request parameter into the field, [Field.Validate] sets or clears the error
// text, and the listener, if any, is queued on the active dispatcher. An
// empty ErrorText means the field is valid.
type Field interface {
	core.Control
	FormMember
	Layouter

	Value() string
	SetValue(value string)
	// ValueObject returns the typed value, or nil when the field is empty.
	ValueObject() any
	SetValueObject(v any)

	ErrorText() string
	SetErrorText(msg string)
	IsValid() bool

	Label() string
	SetLabel(label string)
	Title() string

	IsRequired() bool
	SetRequired(required bool)
	IsDisabled() bool
	SetDisabled(disabled bool)
	IsReadonly() bool
	SetReadonly(readonly bool)
	HasFocus() bool

	BindRequestValue()
	Validate()

	FocusJavaScript() string
	// ValidationJavaScript returns a "function validate_<id>()" declaration
	// or "" when the field has no client side checks.
	ValidationJavaScript() string
}

// FieldBase implements the state and request pipeline shared by all fields.
// Embedders call Init with themselves and override BindRequestValue,
// Validate and Render as needed.
type FieldBase struct {
	core.Base
	field    Field
	value    string
	errText  string
	label    string
	title    string
	help     string
	required bool
	disabled bool
	readonly bool
	focus    bool
	noTrim   bool
	tabIndex int
	form     *Form

	// LabelStyle and LabelStyleClass are rendered on the field's label
	// element by the enclosing layout.
	LabelStyle      string
	LabelStyleClass string
	// ParentStyleHint and ParentStyleClassHint are rendered on the layout
	// cells holding the label and the field.
	ParentStyleHint      string
	ParentStyleClassHint string
}

// Init records the outer field and its name.
func (f *FieldBase) Init(self Field, name string) {
	f.Base.Init(self, name)
	f.field = self
}

func (f *FieldBase) self() Field {
	if f.field == nil {
		panic("controls: field used before Init")
	}
	return f.field
}

// ID returns the id attribute, or the form id and name joined by an
// underscore.
func (f *FieldBase) ID() string {
	if id := f.Attribute("id"); id != "" {
		return id
	}
	if f.form != nil {
		return f.form.ID() + "_" + f.Name()
	}
	return f.Name()
}

func (f *FieldBase) LayoutKind() LayoutKind { return LayoutField }

func (f *FieldBase) Form() *Form { return f.form }

func (f *FieldBase) SetForm(form *Form) { f.form = form }

func (f *FieldBase) Value() string { return f.value }

func (f *FieldBase) SetValue(value string) { f.value = value }

func (f *FieldBase) ValueObject() any {
	if f.value == "" {
		return nil
	}
	return f.value
}

// SetValueObject sets the value from its string form. Nil is ignored.
func (f *FieldBase) SetValueObject(v any) {
	if v == nil {
		return
	}
	f.self().SetValue(formatValue(v))
}

func (f *FieldBase) ErrorText() string { return f.errText }

func (f *FieldBase) SetErrorText(msg string) { f.errText = msg }

func (f *FieldBase) IsValid() bool { return f.errText == "" }

// Label returns the explicit label, the "<name>.label" message, or a label
// derived from the name.
func (f *FieldBase) Label() string {
	if f.label != "" {
		return f.label
	}
	if ctx := f.Context(); ctx != nil {
		if s, ok := ctx.LookupMessage(f.Name() + ".label"); ok {
			return s
		}
	}
	return ToLabel(f.Name())
}

func (f *FieldBase) SetLabel(label string) { f.label = label }

// ErrorLabel is the label used in error messages, without a trailing colon.
func (f *FieldBase) ErrorLabel() string {
	return strings.TrimSuffix(strings.TrimSpace(f.self().Label()), ":")
}

// Title returns the explicit title or the "<name>.title" message.
func (f *FieldBase) Title() string {
	if f.title != "" {
		return f.title
	}
	if ctx := f.Context(); ctx != nil {
		if s, ok := ctx.LookupMessage(f.Name() + ".title"); ok {
			return s
		}
	}
	return ""
}

func (f *FieldBase) SetTitle(title string) { f.title = title }

// Help is markup rendered after the field.
func (f *FieldBase) Help() string { return f.help }

func (f *FieldBase) SetHelp(help string) { f.help = help }

func (f *FieldBase) IsRequired() bool { return f.required }

func (f *FieldBase) SetRequired(required bool) { f.required = required }

// IsDisabled reports whether the field or its form is disabled.
func (f *FieldBase) IsDisabled() bool {
	if f.form != nil && f.form.Disabled {
		return true
	}
	return f.disabled
}

func (f *FieldBase) SetDisabled(disabled bool) { f.disabled = disabled }

// IsReadonly reports whether the field or its form is read only.
func (f *FieldBase) IsReadonly() bool {
	if f.form != nil && f.form.Readonly {
		return true
	}
	return f.readonly
}

func (f *FieldBase) SetReadonly(readonly bool) { f.readonly = readonly }

func (f *FieldBase) HasFocus() bool { return f.focus }

// SetFocus requests the browser focus on page load.
func (f *FieldBase) SetFocus(focus bool) { f.focus = focus }

func (f *FieldBase) TabIndex() int { return f.tabIndex }

func (f *FieldBase) SetTabIndex(i int) { f.tabIndex = i }

// SetTrim controls whether request values are trimmed. Trimming is on by
// default.
func (f *FieldBase) SetTrim(trim bool) { f.noTrim = !trim }

// Validates reports whether the field validates itself on processing, which
// follows the form setting.
func (f *FieldBase) Validates() bool {
	return f.form == nil || f.form.Validates()
}

// RequestValue returns the request parameter named after the field,
// trimmed unless trimming was switched off.
func (f *FieldBase) RequestValue() string {
	ctx := f.Context()
	if ctx == nil {
		return ""
	}
	v := ctx.Param(f.Name())
	if f.noTrim {
		return v
	}
	return strings.TrimSpace(v)
}

// OnProcess binds and validates the field, then queues its listener.
// A disabled field absent from the request is left untouched; one present
// in the request is enabled again.
func (f *FieldBase) OnProcess() bool {
	self := f.self()
	if self.IsDisabled() {
		ctx := f.Context()
		if ctx == nil || !ctx.HasParam(f.Name()) {
			return true
		}
		f.disabled = false
	}
	self.BindRequestValue()
	if f.Validates() {
		self.Validate()
	}
	f.DispatchActionEvent()
	return true
}

// BindRequestValue copies the request parameter into the value.
func (f *FieldBase) BindRequestValue() {
	f.value = f.RequestValue()
}

// Validate flags a required field without a value.
func (f *FieldBase) Validate() {
	f.errText = ""
	if f.required && f.self().Value() == "" {
		f.SetErrorMessage("field-required-error")
	}
}

// SetErrorMessage sets the error text to the message key formatted with the
// error label followed by args.
func (f *FieldBase) SetErrorMessage(key string, args ...any) {
	f.errText = f.Message(key, append([]any{f.ErrorLabel()}, args...)...)
}

func (f *FieldBase) FocusJavaScript() string {
	return "setFocus('" + f.self().ID() + "');"
}

func (f *FieldBase) ValidationJavaScript() string { return "" }

// Render writes a text input.
func (f *FieldBase) Render(buf *rendering.Buffer) {
	renderInput(buf, f, "text", func(buf *rendering.Buffer) {
		buf.AppendAttribute("value", f.self().Value())
	})
}

// fieldAttributes returns the field's attributes with the class attribute
// extended by the validity state.
func (f *FieldBase) fieldAttributes(markDisabled bool) map[string]string {
	attrs := maps.Clone(f.Attributes())
	if attrs == nil {
		attrs = make(map[string]string)
	}
	var state string
	switch {
	case !f.self().IsValid():
		state = "error"
	case markDisabled && f.self().IsDisabled():
		state = "disabled"
	}
	if state != "" {
		attrs["class"] = strings.TrimSpace(attrs["class"] + " " + state)
	}
	return attrs
}

// labelStyles returns the layout hints of the field.
func (f *FieldBase) labelStyles() labelStyles {
	return labelStyles{
		style:     f.LabelStyle,
		class:     f.LabelStyleClass,
		hint:      f.ParentStyleHint,
		classHint: f.ParentStyleClassHint,
	}
}

// inputExtras writes the type specific attributes of an input element,
// value included.
type inputExtras func(buf *rendering.Buffer)

func renderInput(buf *rendering.Buffer, f *FieldBase, typ string, extras inputExtras) {
	self := f.self()
	buf.ElementStart("input")
	buf.AppendAttribute("type", typ)
	buf.AppendAttribute("name", f.Name())
	buf.AppendAttribute("id", self.ID())
	if extras != nil {
		extras(buf)
	}
	buf.AppendOptionalAttribute("title", self.Title())
	if f.tabIndex > 0 {
		buf.AppendAttributeInt("tabindex", f.tabIndex)
	}
	if f.focus {
		buf.AppendAttribute("autofocus", "autofocus")
	}
	buf.AppendAttributes(f.fieldAttributes(true))
	if self.IsDisabled() {
		buf.AppendAttributeDisabled()
	}
	if self.IsReadonly() {
		buf.AppendAttributeReadonly()
	}
	buf.ElementClose()
	buf.Append(f.help)
}

// ToLabel converts a field name such as "firstName" or "first_name" to a
// label such as "First Name".
func ToLabel(name string) string {
	var b strings.Builder
	upper := true
	var prev rune
	for i, r := range name {
		switch {
		case r == '_' || r == '-' || r == ' ':
			if b.Len() > 0 && prev != ' ' {
				b.WriteRune(' ')
				prev = ' '
			}
			upper = true
			continue
		case i > 0 && unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
			b.WriteRune(' ')
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
		prev = r
	}
	return strings.TrimSpace(b.String())
}

// formatValue returns the string form of a value object. Times use the
// millisecond Unix epoch.
func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case time.Time:
		return fmt.Sprint(t.UnixMilli())
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}
