package controls

import (
	"fmt"
	"html/template"
	"unicode/utf8"

	"github.com/go-click/click/pkg/core"
	"github.com/go-click/click/pkg/rendering"
)

// sizer is implemented by fields whose width follows the form's default
// field size.
type sizer interface {
	setDefaultSize(n int)
}

// TextField is a single line text input.
type TextField struct {
	FieldBase
	// Size is the visible width in characters.
	Size int
	// MinLength and MaxLength bound the value length. Zero disables the
	// check.
	MinLength int
	MaxLength int
}

// NewTextField returns a text field of size 20.
func NewTextField(name string) *TextField {
	f := &TextField{Size: 20}
	f.Init(f, name)
	return f
}

func (f *TextField) setDefaultSize(n int) { f.Size = n }

// Validate checks the required flag and the length bounds.
func (f *TextField) Validate() {
	f.SetErrorText("")
	validateLength(&f.FieldBase, f.Value(), f.MinLength, f.MaxLength)
}

// validateLength sets the required or length error of f and reports whether
// value passed.
func validateLength(f *FieldBase, value string, minLen, maxLen int) bool {
	n := utf8.RuneCountInString(value)
	switch {
	case n == 0:
		if f.IsRequired() {
			f.SetErrorMessage("field-required-error")
			return false
		}
	case minLen > 0 && n < minLen:
		f.SetErrorMessage("field-minlength-error", minLen)
		return false
	case maxLen > 0 && n > maxLen:
		f.SetErrorMessage("field-maxlength-error", maxLen)
		return false
	}
	return true
}

func (f *TextField) Render(buf *rendering.Buffer) {
	renderInput(buf, &f.FieldBase, "text", f.textAttributes(f.Value()))
}

func (f *TextField) textAttributes(value string) inputExtras {
	return func(buf *rendering.Buffer) {
		buf.AppendAttribute("value", value)
		buf.AppendAttributeInt("size", f.Size)
		if f.MaxLength > 0 {
			buf.AppendAttributeInt("maxlength", f.MaxLength)
		}
	}
}

// ValidationJavaScript checks the required flag and the length bounds on
// the client.
func (f *TextField) ValidationJavaScript() string {
	return lengthScript(&f.FieldBase, "validateTextField", f.MinLength, f.MaxLength)
}

func lengthScript(f *FieldBase, fn string, minLen, maxLen int) string {
	id := f.self().ID()
	label := f.ErrorLabel()
	return fmt.Sprintf(`function validate_%s() {
   var msg = %s('%s', %t, %d, %d, ['%s', '%s', '%s']);
   if (msg) { return msg + '|%s'; } else { return null; }
}
`, id, fn, id, f.IsRequired(), minLen, maxLen,
		jsMessage(f, "field-required-error", label),
		jsMessage(f, "field-minlength-error", label, minLen),
		jsMessage(f, "field-maxlength-error", label, maxLen),
		id)
}

func jsMessage(f *FieldBase, key string, args ...any) string {
	return template.JSEscapeString(f.Message(key, args...))
}

// PasswordField is a text field whose value is never written back to the
// page.
type PasswordField struct {
	TextField
}

// NewPasswordField returns a password field of size 20.
func NewPasswordField(name string) *PasswordField {
	f := &PasswordField{TextField{Size: 20}}
	f.Init(f, name)
	return f
}

func (f *PasswordField) Render(buf *rendering.Buffer) {
	renderInput(buf, &f.FieldBase, "password", f.textAttributes(""))
}

// TextArea is a multi line text input.
type TextArea struct {
	FieldBase
	Cols      int
	Rows      int
	MinLength int
	MaxLength int
}

// NewTextArea returns a text area of 20 columns and 3 rows.
func NewTextArea(name string) *TextArea {
	f := &TextArea{Cols: 20, Rows: 3}
	f.Init(f, name)
	return f
}

func (f *TextArea) setDefaultSize(n int) { f.Cols = n }

func (f *TextArea) Validate() {
	f.SetErrorText("")
	validateLength(&f.FieldBase, f.Value(), f.MinLength, f.MaxLength)
}

func (f *TextArea) ValidationJavaScript() string {
	return lengthScript(&f.FieldBase, "validateTextField", f.MinLength, f.MaxLength)
}

func (f *TextArea) Render(buf *rendering.Buffer) {
	buf.ElementStart("textarea")
	buf.AppendAttribute("name", f.Name())
	buf.AppendAttribute("id", f.ID())
	buf.AppendAttributeInt("rows", f.Rows)
	buf.AppendAttributeInt("cols", f.Cols)
	buf.AppendOptionalAttribute("title", f.Title())
	if f.tabIndex > 0 {
		buf.AppendAttributeInt("tabindex", f.tabIndex)
	}
	buf.AppendAttributes(f.fieldAttributes(true))
	if f.IsDisabled() {
		buf.AppendAttributeDisabled()
	}
	if f.IsReadonly() {
		buf.AppendAttributeReadonly()
	}
	buf.CloseTag()
	buf.AppendEscaped(f.Value())
	buf.ElementEnd("textarea")
	buf.Append(f.help)
}

// HiddenField carries a value through the page without displaying it.
// Hidden fields are rendered in the form header and never validated.
type HiddenField struct {
	FieldBase
	immutable bool
}

// NewHiddenField returns a hidden field holding value.
func NewHiddenField(name, value string) *HiddenField {
	f := &HiddenField{}
	f.Init(f, name)
	f.SetValue(value)
	return f
}

// newFrameworkField returns a hidden field whose name cannot change.
func newFrameworkField(name, value string) *HiddenField {
	f := NewHiddenField(name, value)
	f.immutable = true
	return f
}

func (f *HiddenField) LayoutKind() LayoutKind { return LayoutHidden }

// SetName renames the field unless it belongs to the form machinery.
func (f *HiddenField) SetName(name string) {
	if f.immutable && f.Name() != "" {
		return
	}
	f.FieldBase.SetName(name)
}

// BindRequestValue copies the untrimmed request parameter.
func (f *HiddenField) BindRequestValue() {
	if ctx := f.Context(); ctx != nil {
		f.SetValue(ctx.Param(f.Name()))
	}
}

func (f *HiddenField) Validate() {}

func (f *HiddenField) Render(buf *rendering.Buffer) {
	buf.ElementStart("input")
	buf.AppendAttribute("type", "hidden")
	buf.AppendAttribute("name", f.Name())
	buf.AppendAttribute("id", f.ID())
	buf.AppendAttribute("value", f.Value())
	buf.AppendAttributes(f.Attributes())
	buf.ElementClose()
}

// Label displays text across the label and field cells of a form layout.
// A label may share its name with a sibling.
type Label struct {
	FieldBase
}

// NewLabel returns a label displaying text. The text is written as markup.
func NewLabel(name, text string) *Label {
	l := &Label{}
	l.Init(l, name)
	l.SetLabel(text)
	return l
}

func (l *Label) LayoutKind() LayoutKind { return LayoutLabel }

func (l *Label) SharesName() bool { return true }

func (l *Label) OnProcess() bool { return true }

func (l *Label) Validate() {}

func (l *Label) Render(buf *rendering.Buffer) {
	buf.Append(l.Label())
}

var (
	_ Field           = (*TextField)(nil)
	_ Field           = (*PasswordField)(nil)
	_ Field           = (*TextArea)(nil)
	_ Field           = (*HiddenField)(nil)
	_ Field           = (*Label)(nil)
	_ core.NameSharer = (*Label)(nil)
)
