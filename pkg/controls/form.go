package controls

import (
	stderrors "errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/go-click/click/pkg/core"
	"github.com/go-click/click/pkg/errors"
	"github.com/go-click/click/pkg/logging"
	"github.com/go-click/click/pkg/property"
	"github.com/go-click/click/pkg/rendering"
)

const (
	// FormName is the hidden field identifying the submitted form.
	FormName = "form_name"
	// SubmitCheck prefixes the hidden field and session attribute holding
	// the duplicate submission token.
	SubmitCheck = "SUBMIT_CHECK_"
)

// Form is a container rendering an HTML form. Fields are laid out in a table,
// buttons in a row below it and hidden fields in the form header.
//
// A form is processed only when the request method matches Method and the
// form_name parameter carries the form name. Fields validate themselves
// while processed; IsValid aggregates their state with the form error.
type Form struct {
	core.ContainerBase

	// Method is the submission method, "post" unless set.
	Method string
	// ActionURL overrides the request path as the form action.
	ActionURL string
	// Enctype overrides the encoding. Forms holding a FileField are always
	// multipart.
	Enctype string
	// Disabled and Readonly apply to every field of the form.
	Disabled bool
	Readonly bool
	// JavaScriptValidation renders the client side validation functions of
	// the fields.
	JavaScriptValidation bool
	// DefaultFieldSize sets the size of added text fields when positive.
	DefaultFieldSize int

	ButtonStyle string
	ErrorsStyle string
	LabelStyle  string
	FieldStyle  string

	buttonAlign    string
	errorsAlign    string
	labelAlign     string
	errorsPosition Position
	labelsPosition Position
	columns        int
	validate       bool
	errText        string

	nameField    *HiddenField
	fieldList    []core.Control
	buttonList   []core.Control
	fieldWidths  map[string]int
	insertOffset int
}

// NewForm returns a validating post form with one column.
func NewForm(name string) *Form {
	f := &Form{
		Method:         "post",
		buttonAlign:    AlignLeft,
		errorsAlign:    AlignLeft,
		labelAlign:     AlignLeft,
		errorsPosition: PositionMiddle,
		labelsPosition: PositionLeft,
		columns:        1,
		validate:       true,
	}
	f.Init(f, name)
	f.nameField = newFrameworkField(FormName, name)
	f.addFrameworkField(f.nameField)
	return f
}

// SetName renames the form and its identity field.
func (f *Form) SetName(name string) {
	f.ContainerBase.SetName(name)
	if f.nameField != nil {
		f.nameField.SetValue(name)
	}
}

func (f *Form) addFrameworkField(h *HiddenField) {
	f.ContainerBase.Insert(h, len(f.Controls()))
	f.fieldList = append(f.fieldList, h)
	h.SetForm(f)
	f.insertOffset++
}

func isFrameworkField(c core.Control) bool {
	h, ok := c.(*HiddenField)
	return ok && h.immutable
}

// Add appends c before the hidden fields managed by the form.
func (f *Form) Add(c core.Control) core.Control {
	return f.Insert(c, len(f.Controls()))
}

// Insert adds c at index, clamped so that c stays before the hidden fields
// managed by the form. Buttons join the button row, other form members the
// field layout. It panics with a usage error like ContainerBase.Insert.
func (f *Form) Insert(c core.Control, index int) core.Control {
	const op = "controls.Form.Insert"
	if c == nil {
		panic(errors.Usage(op, errors.ErrNilControl, "form %q", f.Name()))
	}
	if index < 0 || index > len(f.Controls()) {
		panic(errors.Usage(op, errors.ErrIndexOutOfRange, "index %d, size %d", index, len(f.Controls())))
	}
	at := min(index, len(f.Controls())-f.insertOffset)
	f.ContainerBase.Insert(c, at)

	if LayoutOf(c) == LayoutButton {
		f.buttonList = append(f.buttonList, c)
	} else if _, ok := c.(FormMember); ok {
		f.fieldList = slices.Insert(f.fieldList, f.fieldsBefore(at), c)
	}
	if m, ok := c.(FormMember); ok {
		m.SetForm(f)
	}
	if s, ok := c.(sizer); ok && f.DefaultFieldSize > 0 {
		s.setDefaultSize(f.DefaultFieldSize)
	}
	return c
}

// fieldsBefore counts the field list entries among the first n controls.
func (f *Form) fieldsBefore(n int) int {
	count := 0
	for _, c := range f.Controls()[:n] {
		if slices.Contains(f.fieldList, c) {
			count++
		}
	}
	return count
}

// Remove removes c from the form and clears its form reference.
func (f *Form) Remove(c core.Control) bool {
	if !f.ContainerBase.Remove(c) {
		return false
	}
	f.fieldList = slices.DeleteFunc(f.fieldList, func(o core.Control) bool { return o == c })
	f.buttonList = slices.DeleteFunc(f.buttonList, func(o core.Control) bool { return o == c })
	delete(f.fieldWidths, c.Name())
	if m, ok := c.(FormMember); ok {
		m.SetForm(nil)
	}
	if isFrameworkField(c) {
		f.insertOffset--
	}
	return true
}

// RemoveField removes the direct child named name.
func (f *Form) RemoveField(name string) bool {
	c := f.Control(name)
	if c == nil {
		return false
	}
	return f.Remove(c)
}

// Replace swaps current for replacement at the same position.
func (f *Form) Replace(current, replacement core.Control) core.Control {
	const op = "controls.Form.Replace"
	i := slices.Index(f.Controls(), current)
	if current == nil || i < 0 {
		panic(errors.Usage(op, errors.ErrInvalidValue, "control to replace is not a child of %q", f.Name()))
	}
	if err := f.CheckInsert(replacement, i); err != nil {
		// Only the name held by current may be taken over.
		if !stderrors.Is(err, errors.ErrDuplicateName) || replacement == nil || f.Control(replacement.Name()) != current {
			panic(err)
		}
	}
	f.Remove(current)
	return f.Insert(replacement, i)
}

// FieldList returns the non button form members in layout order, hidden
// fields included. The slice must not be modified.
func (f *Form) FieldList() []core.Control { return f.fieldList }

// ButtonList returns the buttons in add order. The slice must not be
// modified.
func (f *Form) ButtonList() []core.Control { return f.buttonList }

// AddWidth makes c span width columns of the layout. It panics for buttons,
// hidden fields and widths below one.
func (f *Form) AddWidth(c core.Control, width int) {
	const op = "controls.Form.AddWidth"
	if k := LayoutOf(c); k == LayoutButton || k == LayoutHidden {
		panic(errors.Usage(op, errors.ErrInvalidValue, "%s controls have no layout width", k))
	}
	if width < 1 {
		panic(errors.Usage(op, errors.ErrInvalidValue, "width %d", width))
	}
	if f.fieldWidths == nil {
		f.fieldWidths = make(map[string]int)
	}
	f.fieldWidths[c.Name()] = width
}

// FieldWidths returns the declared layout widths by control name.
func (f *Form) FieldWidths() map[string]int { return f.fieldWidths }

func (f *Form) Columns() int { return f.columns }

// SetColumns sets the number of fields per layout row.
func (f *Form) SetColumns(n int) {
	if n < 1 {
		panic(errors.Usage("controls.Form.SetColumns", errors.ErrInvalidValue, "columns %d", n))
	}
	f.columns = n
}

func (f *Form) ButtonAlign() string { return f.buttonAlign }

func (f *Form) SetButtonAlign(align string) {
	checkAlign("controls.Form.SetButtonAlign", align)
	f.buttonAlign = align
}

func (f *Form) ErrorsAlign() string { return f.errorsAlign }

func (f *Form) SetErrorsAlign(align string) {
	checkAlign("controls.Form.SetErrorsAlign", align)
	f.errorsAlign = align
}

func (f *Form) LabelAlign() string { return f.labelAlign }

func (f *Form) SetLabelAlign(align string) {
	checkAlign("controls.Form.SetLabelAlign", align)
	f.labelAlign = align
}

func (f *Form) ErrorsPosition() Position { return f.errorsPosition }

// SetErrorsPosition places the error block above the fields, between fields
// and buttons, or below the buttons.
func (f *Form) SetErrorsPosition(p Position) {
	switch p {
	case PositionTop, PositionMiddle, PositionBottom:
		f.errorsPosition = p
	default:
		panic(errors.Usage("controls.Form.SetErrorsPosition", errors.ErrInvalidValue, "position %q", p))
	}
}

func (f *Form) LabelsPosition() Position { return f.labelsPosition }

// SetLabelsPosition places labels left of or above their fields.
func (f *Form) SetLabelsPosition(p Position) {
	switch p {
	case PositionLeft, PositionTop:
		f.labelsPosition = p
	default:
		panic(errors.Usage("controls.Form.SetLabelsPosition", errors.ErrInvalidValue, "position %q", p))
	}
}

// Validates reports whether fields validate while processed.
func (f *Form) Validates() bool { return f.validate }

func (f *Form) SetValidate(validate bool) { f.validate = validate }

func (f *Form) ErrorText() string { return f.errText }

// SetErrorText sets the form level error shown above the field errors.
func (f *Form) SetErrorText(msg string) { f.errText = msg }

// IsValid reports whether the form has no error and every field is valid.
func (f *Form) IsValid() bool {
	if f.errText != "" {
		return false
	}
	valid := true
	walkFields(f.Controls(), func(fd Field) {
		if !fd.IsValid() {
			valid = false
		}
	})
	return valid
}

// Field returns the field named name, searching nested containers, or nil.
func (f *Form) Field(name string) Field {
	var found Field
	walkFields(f.Controls(), func(fd Field) {
		if found == nil && fd.Name() == name && LayoutOf(fd) != LayoutLabel {
			found = fd
		}
	})
	return found
}

// FieldValue returns the value of the field named name, or "".
func (f *Form) FieldValue(name string) string {
	if fd := f.Field(name); fd != nil {
		return fd.Value()
	}
	return ""
}

// InputFields returns the fields holding request values, nested ones
// included. Labels and buttons are excluded.
func (f *Form) InputFields() []Field {
	var out []Field
	walkFields(f.Controls(), func(fd Field) {
		if k := LayoutOf(fd); k != LayoutLabel && k != LayoutButton {
			out = append(out, fd)
		}
	})
	return out
}

// ErrorFields returns the visible fields holding an error.
func (f *Form) ErrorFields() []Field {
	var out []Field
	for _, fd := range f.InputFields() {
		if !fd.IsValid() && !isHidden(fd) {
			out = append(out, fd)
		}
	}
	return out
}

// ClearErrors clears the form error and every field error.
func (f *Form) ClearErrors() {
	f.errText = ""
	walkFields(f.Controls(), func(fd Field) { fd.SetErrorText("") })
}

// ClearValues clears every input field value except the form's own hidden
// fields.
func (f *Form) ClearValues() {
	for _, fd := range f.InputFields() {
		if !isFrameworkField(fd) {
			fd.SetValue("")
		}
	}
}

// CopyTo copies the field values into obj, a pointer to a struct or a map,
// by field name. Names without a matching property are skipped.
func (f *Form) CopyTo(obj any) error {
	for _, fd := range f.InputFields() {
		if isFrameworkField(fd) || fd.Name() == "" {
			continue
		}
		err := property.Set(obj, fd.Name(), fd.ValueObject())
		if stderrors.Is(err, property.ErrNotFound) {
			logging.Logger().Debug("form field has no property", "form", f.Name(), "field", fd.Name())
			continue
		}
		if err != nil {
			return fmt.Errorf("form %s: copy %s: %w", f.Name(), fd.Name(), err)
		}
	}
	return nil
}

// CopyFrom sets the field values from the properties of obj. Names without
// a matching property are skipped.
func (f *Form) CopyFrom(obj any) error {
	for _, fd := range f.InputFields() {
		if isFrameworkField(fd) || fd.Name() == "" {
			continue
		}
		v, err := property.Get(obj, fd.Name())
		if stderrors.Is(err, property.ErrNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("form %s: copy %s: %w", f.Name(), fd.Name(), err)
		}
		fd.SetValueObject(v)
	}
	return nil
}

// IsFormSubmission reports whether the request submits this form.
func (f *Form) IsFormSubmission() bool {
	ctx := f.Context()
	if ctx == nil {
		return false
	}
	return strings.EqualFold(ctx.Method(), f.Method) && ctx.Param(FormName) == f.Name()
}

// Validate sets the form error from a pending upload limit violation.
func (f *Form) Validate() {
	f.errText = ""
	ctx := f.Context()
	if ctx == nil {
		return
	}
	ue := ctx.UploadError()
	if ue == nil {
		return
	}
	permitted := humanize.IBytes(uint64(max(ue.Permitted, 0)))
	switch ue.Limit {
	case errors.UploadFileTooLarge:
		name := ue.Field
		if fd := f.Field(ue.Field); fd != nil {
			name = fd.Label()
		}
		f.errText = f.Message("file-size-limit-exceeded-error", name, permitted)
	default:
		actual := "unknown size"
		if ue.Actual >= 0 {
			actual = humanize.IBytes(uint64(ue.Actual))
		}
		f.errText = f.Message("post-size-limit-exceeded-error", actual, permitted)
	}
}

// OnProcess processes the fields and then the buttons of a submitted form
// and queues the form listener. Controls processed independently of their
// form, such as action links, are processed on every request.
//
// A pending upload error is turned into the form error and consumed; the
// form is then left unprocessed.
func (f *Form) OnProcess() bool {
	ctx := f.Context()
	if ctx == nil {
		return true
	}
	if f.validate {
		f.Validate()
		if ctx.UploadError() != nil {
			ctx.ClearUploadError()
			return true
		}
	}
	if !f.IsFormSubmission() {
		for _, c := range f.Controls() {
			if processesIndependently(c) && !core.ProcessControl(c) {
				return false
			}
		}
		return true
	}
	for _, c := range f.Controls() {
		if LayoutOf(c) == LayoutButton || strings.HasPrefix(c.Name(), SubmitCheck) {
			continue
		}
		if !core.ProcessControl(c) {
			return false
		}
	}
	for _, c := range f.buttonList {
		if !core.ProcessControl(c) {
			return false
		}
	}
	f.DispatchActionEvent()
	return true
}

// OnDestroy destroys the children and clears the form error.
func (f *Form) OnDestroy() {
	f.ContainerBase.OnDestroy()
	f.errText = ""
}

func (f *Form) submitTokenName() string {
	path := "/"
	if ctx := f.Context(); ctx != nil {
		if rp, ok := ctx.(interface{ ResourcePath() string }); ok && rp.ResourcePath() != "" {
			path = rp.ResourcePath()
		} else if r := ctx.Request(); r != nil {
			path = r.URL.Path
		}
	}
	return SubmitCheck + f.Name() + strings.ReplaceAll(path, "/", "_")
}

// OnSubmitCheck guards against duplicate submission of the form. It reports
// whether the request carries the token issued with the previous render,
// then issues a new token in the session and in a hidden field. Ajax
// requests always pass.
//
// Call it from the page security check or the form listener and treat a
// false result as a resubmission.
func (f *Form) OnSubmitCheck() bool {
	ctx := f.Context()
	if ctx == nil || ctx.IsAjax() {
		return true
	}
	name := f.submitTokenName()
	valid := true
	if f.IsFormSubmission() {
		var stored int64
		if s := ctx.Session(false); s != nil && s.Get(name, &stored) {
			valid = strconv.FormatInt(stored, 10) == ctx.Param(name)
		}
	}

	token := time.Now().UnixMilli()
	s := ctx.Session(true)
	if err := s.Set(name, token); err != nil {
		errors.Report(&errors.ClickError{
			Op:      "controls.Form.OnSubmitCheck",
			Kind:    errors.KindSession,
			Control: f.Name(),
			Err:     err,
		})
	}
	value := strconv.FormatInt(token, 10)
	if h, ok := f.Control(name).(*HiddenField); ok {
		h.SetValue(value)
	} else {
		f.addFrameworkField(newFrameworkField(name, value))
	}
	if !valid {
		logging.Logger().Info("duplicate form submission", "form", f.Name(), "token", name)
	}
	return valid
}

func (f *Form) hasFileField() bool {
	found := false
	walkFields(f.Controls(), func(fd Field) {
		if _, ok := fd.(*FileField); ok {
			found = true
		}
	})
	return found
}

// ActionPath returns the form action: ActionURL, else the request path.
func (f *Form) ActionPath() string {
	if f.ActionURL != "" {
		return f.ActionURL
	}
	if ctx := f.Context(); ctx != nil && ctx.Request() != nil {
		return ctx.Request().URL.Path
	}
	return ""
}

// StartTag writes the opening form element followed by the hidden fields.
func (f *Form) StartTag(buf *rendering.Buffer) {
	id := f.ID()
	buf.ElementStart("form")
	buf.AppendAttribute("method", strings.ToLower(f.Method))
	buf.AppendAttribute("name", f.Name())
	buf.AppendAttribute("id", id)
	buf.AppendAttribute("action", f.ActionPath())
	enctype := f.Enctype
	if f.hasFileField() {
		enctype = "multipart/form-data"
	}
	buf.AppendOptionalAttribute("enctype", enctype)
	buf.AppendAttributes(f.Attributes())
	if f.JavaScriptValidation {
		buf.AppendAttribute("onsubmit", "return on_"+id+"_submit();")
	}
	buf.CloseTag()
	buf.Append("\n")
	renderHiddenFields(buf, f.Controls())
}

// EndTag writes the closing form element followed by the focus and
// validation scripts.
func (f *Form) EndTag(buf *rendering.Buffer) {
	buf.ElementEnd("form")
	buf.Append("\n")
	f.renderFocusScript(buf)
	if f.JavaScriptValidation {
		f.renderValidationScript(buf)
	}
}

// Render writes the complete form.
func (f *Form) Render(buf *rendering.Buffer) {
	f.StartTag(buf)
	buf.Append(`<table class="form" id="`)
	buf.AppendEscaped(f.ID() + "-form")
	buf.Append("\"><tbody>\n")
	switch f.errorsPosition {
	case PositionTop:
		f.renderErrors(buf)
		f.renderFields(buf)
		f.renderButtons(buf)
	case PositionMiddle:
		f.renderFields(buf)
		f.renderErrors(buf)
		f.renderButtons(buf)
	default:
		f.renderFields(buf)
		f.renderButtons(buf)
		f.renderErrors(buf)
	}
	buf.Append("</tbody></table>\n")
	f.EndTag(buf)
}

func (f *Form) layout() layoutStyle {
	return layoutStyle{
		id:             f.ID(),
		columns:        f.columns,
		labelAlign:     f.labelAlign,
		labelsPosition: f.labelsPosition,
		labelStyle:     f.LabelStyle,
		fieldStyle:     f.FieldStyle,
		widths:         f.fieldWidths,
	}
}

func (f *Form) renderFields(buf *rendering.Buffer) {
	if allHidden(f.Controls()) {
		return
	}
	buf.Append("<tr><td>\n")
	renderLayout(buf, f.Context(), f.layout(), f.Controls())
	buf.Append("</td></tr>\n")
}

// processed reports whether the request was sent with the form method.
func (f *Form) processed() bool {
	ctx := f.Context()
	return ctx != nil && strings.EqualFold(ctx.Method(), f.Method)
}

func (f *Form) renderErrors(buf *rendering.Buffer) {
	id := f.ID()
	if f.processed() && !f.IsValid() {
		buf.Append("<tr><td")
		buf.AppendAttribute("align", f.errorsAlign)
		buf.AppendOptionalAttribute("style", f.ErrorsStyle)
		buf.Append(">\n")
		buf.Append(`<table class="errors" id="`)
		buf.AppendEscaped(id + "-errors")
		buf.Append("\"><tbody>\n")
		if f.errText != "" {
			buf.Append("<tr class=\"errors\"><td class=\"errors\"")
			buf.AppendAttribute("align", f.errorsAlign)
			buf.AppendAttributeInt("colspan", f.columns*2)
			buf.Append(">\n<span class=\"error\">")
			buf.Append(f.errText)
			buf.Append("</span>\n</td></tr>\n")
		}
		for _, fd := range f.ErrorFields() {
			buf.Append("<tr class=\"errors\"><td class=\"errors\"")
			buf.AppendAttribute("align", f.errorsAlign)
			buf.AppendAttributeInt("colspan", f.columns*2)
			buf.Append(">")
			buf.Append(`<a class="error" href="javascript:`)
			buf.Append(fd.FocusJavaScript())
			buf.Append(`">`)
			buf.Append(fd.ErrorText())
			buf.Append("</a></td></tr>\n")
		}
		buf.Append("</tbody></table>\n</td></tr>\n")
	}
	if f.validate && f.JavaScriptValidation {
		buf.Append(`<tr style="display:none" id="`)
		buf.AppendEscaped(id + "-errorsTr")
		buf.Append("\"><td width=\"100%\"")
		buf.AppendAttribute("align", f.errorsAlign)
		buf.AppendOptionalAttribute("style", f.ErrorsStyle)
		buf.Append(">\n")
		buf.Append(`<div class="errors" id="`)
		buf.AppendEscaped(id + "-errorsDiv")
		buf.Append("\"></div>\n</td></tr>\n")
	}
}

func (f *Form) renderButtons(buf *rendering.Buffer) {
	if len(f.buttonList) == 0 {
		return
	}
	buf.Append("<tr><td")
	buf.AppendAttribute("align", f.buttonAlign)
	buf.Append(">\n")
	buf.Append(`<table class="buttons" id="`)
	buf.AppendEscaped(f.ID() + "-buttons")
	buf.Append("\"><tbody>\n<tr class=\"buttons\">")
	for _, b := range f.buttonList {
		buf.Append(`<td class="buttons"`)
		buf.AppendOptionalAttribute("style", f.ButtonStyle)
		buf.Append(">")
		b.Render(buf)
		buf.Append("</td>")
	}
	buf.Append("</tr>\n</tbody></table>\n</td></tr>\n")
}

func (f *Form) renderFocusScript(buf *rendering.Buffer) {
	var target Field
	fields := f.InputFields()
	for _, fd := range fields {
		if !fd.IsValid() && !isHidden(fd) && !fd.IsDisabled() {
			target = fd
			break
		}
	}
	if target == nil {
		for _, fd := range fields {
			if fd.HasFocus() && !isHidden(fd) && !fd.IsDisabled() {
				target = fd
				break
			}
		}
	}
	if target == nil {
		return
	}
	buf.Append("<script type=\"text/javascript\"><!--\n")
	buf.Append(target.FocusJavaScript())
	buf.Append("\n//--></script>\n")
}

func (f *Form) renderValidationScript(buf *rendering.Buffer) {
	id := f.ID()
	var names []string
	var scripts strings.Builder
	for _, fd := range f.InputFields() {
		if isHidden(fd) || fd.IsDisabled() {
			continue
		}
		if js := fd.ValidationJavaScript(); js != "" {
			names = append(names, "validate_"+fd.ID()+"()")
			scripts.WriteString(js)
		}
	}
	buf.Append("<script type=\"text/javascript\"><!--\n")
	buf.Append("function on_" + id + "_submit() {\n")
	if len(names) == 0 {
		buf.Append("   return true;\n}\n")
	} else {
		buf.Append("   var msgs = new Array(" + strconv.Itoa(len(names)) + ");\n")
		for i, n := range names {
			buf.Append("   msgs[" + strconv.Itoa(i) + "] = " + n + ";\n")
		}
		style := "null"
		if f.ErrorsStyle != "" {
			style = "'" + f.ErrorsStyle + "'"
		}
		buf.Append("   return validateForm(msgs, '" + id + "', '" + f.errorsAlign + "', " + style + ");\n}\n")
		buf.Append(scripts.String())
	}
	buf.Append("//--></script>\n")
}

// HeadElements returns the form stylesheet and script followed by the
// resources of the children.
func (f *Form) HeadElements() []core.HeadElement {
	out := []core.HeadElement{
		core.CssImport{Href: "/click/control.css"},
		core.JsImport{Src: "/click/control.js"},
	}
	return append(out, f.ContainerBase.HeadElements()...)
}

var (
	_ core.Container = (*Form)(nil)
)
