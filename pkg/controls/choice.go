package controls

import (
	"slices"
	"strconv"
	"strings"

	"github.com/go-click/click/pkg/core"
	"github.com/go-click/click/pkg/errors"
	"github.com/go-click/click/pkg/rendering"
)

// Checkbox is a boolean field. Its value is "true" or "false".
type Checkbox struct {
	FieldBase
	checked bool
}

// NewCheckbox returns an unchecked checkbox.
func NewCheckbox(name string) *Checkbox {
	c := &Checkbox{}
	c.Init(c, name)
	return c
}

func (c *Checkbox) IsChecked() bool { return c.checked }

func (c *Checkbox) SetChecked(checked bool) { c.checked = checked }

func (c *Checkbox) Value() string { return strconv.FormatBool(c.checked) }

// SetValue checks the box for "true" in any case and clears it otherwise.
func (c *Checkbox) SetValue(value string) {
	c.checked = strings.EqualFold(value, "true")
}

func (c *Checkbox) ValueObject() any { return c.checked }

// SetValueObject accepts bool values and ignores everything else.
func (c *Checkbox) SetValueObject(v any) {
	if b, ok := v.(bool); ok {
		c.checked = b
	}
}

// BindRequestValue checks the box when the request carries its parameter,
// whatever the parameter value.
func (c *Checkbox) BindRequestValue() {
	ctx := c.Context()
	c.checked = ctx != nil && ctx.HasParam(c.Name())
}

func (c *Checkbox) Validate() {
	c.SetErrorText("")
	if c.IsRequired() && !c.checked {
		c.SetErrorMessage("checkbox-error")
	}
}

func (c *Checkbox) ValidationJavaScript() string {
	if !c.IsRequired() {
		return ""
	}
	id := c.ID()
	return "function validate_" + id + "() {\n" +
		"   var msg = validateCheckbox('" + id + "', true, ['" + jsMessage(&c.FieldBase, "checkbox-error", c.ErrorLabel()) + "']);\n" +
		"   if (msg) { return msg + '|" + id + "'; } else { return null; }\n" +
		"}\n"
}

// Render writes the checkbox. A read only checkbox is disabled and carries
// its state in a hidden input.
func (c *Checkbox) Render(buf *rendering.Buffer) {
	buf.ElementStart("input")
	buf.AppendAttribute("type", "checkbox")
	buf.AppendAttribute("name", c.Name())
	buf.AppendAttribute("id", c.ID())
	buf.AppendOptionalAttribute("title", c.Title())
	if c.tabIndex > 0 {
		buf.AppendAttributeInt("tabindex", c.tabIndex)
	}
	if c.checked {
		buf.AppendAttribute("checked", "checked")
	}
	buf.AppendAttributes(c.fieldAttributes(false))
	if c.IsDisabled() || c.IsReadonly() {
		buf.AppendAttributeDisabled()
	}
	buf.ElementClose()
	if c.IsReadonly() && c.checked {
		buf.ElementStart("input")
		buf.AppendAttribute("type", "hidden")
		buf.AppendAttribute("name", c.Name())
		buf.AppendAttribute("value", "on")
		buf.ElementClose()
	}
	buf.Append(c.help)
}

// Option is one entry of a Select.
type Option struct {
	Value string
	Label string
}

// NewOption returns an option whose label is its value.
func NewOption(value string) Option {
	return Option{Value: value, Label: value}
}

func (o Option) render(buf *rendering.Buffer, selected bool) {
	buf.ElementStart("option")
	buf.AppendAttribute("value", o.Value)
	if selected {
		buf.AppendAttribute("selected", "selected")
	}
	buf.CloseTag()
	buf.AppendEscaped(o.Label)
	buf.ElementEnd("option")
}

// Select is a drop down or list box field.
type Select struct {
	FieldBase
	// Size is the number of visible rows.
	Size     int
	Multiple bool
	// DefaultOption is shown first and counts as no selection for a required
	// select.
	DefaultOption *Option
	// Options loads the options lazily when none were added.
	Options func() []Option

	options  []Option
	loaded   bool
	selected []string
}

// NewSelect returns a single row, single choice select.
func NewSelect(name string) *Select {
	s := &Select{Size: 1}
	s.Init(s, name)
	return s
}

// Add appends options.
func (s *Select) Add(opts ...Option) {
	s.options = append(s.options, opts...)
}

// AddValues appends options whose labels are their values.
func (s *Select) AddValues(values ...string) {
	for _, v := range values {
		s.options = append(s.options, NewOption(v))
	}
}

// OptionList returns the options, loading them on first use.
func (s *Select) OptionList() []Option {
	if len(s.options) == 0 && !s.loaded && s.Options != nil {
		s.loaded = true
		if s.DefaultOption != nil {
			s.options = append(s.options, *s.DefaultOption)
		}
		s.options = append(s.options, s.Options()...)
	}
	return s.options
}

// SelectedValues returns the selected values of a multiple select.
func (s *Select) SelectedValues() []string { return s.selected }

func (s *Select) SetSelectedValues(values []string) {
	s.selected = slices.Clone(values)
}

func (s *Select) isSelected(value string) bool {
	if s.Multiple {
		return slices.Contains(s.selected, value)
	}
	return value == s.Value()
}

func (s *Select) BindRequestValue() {
	ctx := s.Context()
	if ctx == nil {
		return
	}
	if !s.Multiple {
		s.SetValue(ctx.Param(s.Name()))
		s.selected = []string{s.Value()}
		return
	}
	s.selected = slices.Clone(ctx.ParamValues(s.Name()))
}

// Validate rejects a required select left on its default option. It panics
// with a usage error when a required single select has no options to
// compare against.
func (s *Select) Validate() {
	s.SetErrorText("")
	if !s.IsRequired() {
		return
	}
	if s.Multiple {
		if len(s.selected) == 0 {
			s.SetErrorMessage("select-error")
		}
		return
	}
	if s.Value() == "" {
		s.SetErrorMessage("select-error")
		return
	}
	var def string
	if s.DefaultOption != nil {
		def = s.DefaultOption.Value
	} else {
		opts := s.OptionList()
		if len(opts) == 0 {
			panic(errors.Usage("controls.Select.Validate", errors.ErrInvalidValue,
				"required select %q has no options to validate against", s.Name()))
		}
		def = opts[0].Value
	}
	if s.Value() == def {
		s.SetErrorMessage("select-error")
	}
}

// OnRender loads the options.
func (s *Select) OnRender() {
	s.OptionList()
}

func (s *Select) Render(buf *rendering.Buffer) {
	buf.ElementStart("select")
	buf.AppendAttribute("name", s.Name())
	buf.AppendAttribute("id", s.ID())
	buf.AppendAttributeInt("size", s.Size)
	buf.AppendOptionalAttribute("title", s.Title())
	if s.tabIndex > 0 {
		buf.AppendAttributeInt("tabindex", s.tabIndex)
	}
	if s.Multiple {
		buf.AppendAttribute("multiple", "multiple")
	}
	buf.AppendAttributes(s.fieldAttributes(false))
	if s.IsDisabled() || s.IsReadonly() {
		buf.AppendAttributeDisabled()
	}
	buf.CloseTag()
	for _, o := range s.OptionList() {
		o.render(buf, s.isSelected(o.Value))
	}
	buf.ElementEnd("select")
	buf.Append(s.help)
	if s.IsReadonly() {
		buf.ElementStart("input")
		buf.AppendAttribute("type", "hidden")
		buf.AppendAttribute("name", s.Name())
		buf.AppendAttribute("value", s.Value())
		buf.ElementClose()
	}
}

// Radio is one choice of a RadioGroup. Outside a group it is a field of its
// own, checked when the request parameter equals its value.
type Radio struct {
	FieldBase
	radioValue string
	checked    bool
	group      *RadioGroup
}

// NewRadio returns a radio for value. An empty label uses the value.
func NewRadio(value, label string) *Radio {
	r := &Radio{radioValue: value}
	r.Init(r, "")
	if label == "" {
		label = value
	}
	r.SetLabel(label)
	return r
}

// RadioValue returns the value submitted when the radio is checked.
func (r *Radio) RadioValue() string { return r.radioValue }

// IsChecked reports whether the radio is the selected choice.
func (r *Radio) IsChecked() bool {
	if r.group != nil {
		return r.group.Value() == r.radioValue
	}
	return r.checked
}

func (r *Radio) SetChecked(checked bool) { r.checked = checked }

// ID returns the id attribute or the group id and the radio value joined by
// an underscore.
func (r *Radio) ID() string {
	if id := r.Attribute("id"); id != "" {
		return id
	}
	if r.group != nil {
		return r.group.ID() + "_" + r.radioValue
	}
	return r.FieldBase.ID() + "_" + r.radioValue
}

func (r *Radio) BindRequestValue() {
	if ctx := r.Context(); ctx != nil {
		r.checked = ctx.Param(r.Name()) == r.radioValue
	}
}

func (r *Radio) Validate() {}

func (r *Radio) Render(buf *rendering.Buffer) {
	id := r.ID()
	buf.ElementStart("input")
	buf.AppendAttribute("type", "radio")
	buf.AppendAttribute("name", r.Name())
	buf.AppendAttribute("id", id)
	buf.AppendAttribute("value", r.radioValue)
	buf.AppendOptionalAttribute("title", r.Title())
	if r.IsChecked() {
		buf.AppendAttribute("checked", "checked")
	}
	buf.AppendAttributes(r.Attributes())
	if r.IsDisabled() || r.IsReadonly() {
		buf.AppendAttributeDisabled()
	}
	buf.ElementClose()
	buf.ElementStart("label")
	buf.AppendAttribute("for", id)
	buf.CloseTag()
	buf.Append(r.Label())
	buf.ElementEnd("label")
}

// RadioGroup is a field whose value is the value of its checked radio.
type RadioGroup struct {
	FieldBase
	// Vertical renders one radio per line.
	Vertical bool
	radios   []*Radio
}

// NewRadioGroup returns an empty radio group.
func NewRadioGroup(name string) *RadioGroup {
	g := &RadioGroup{}
	g.Init(g, name)
	return g
}

// Add appends radios, renaming them after the group.
func (g *RadioGroup) Add(radios ...*Radio) {
	for _, r := range radios {
		if r == nil {
			panic(errors.Usage("controls.RadioGroup.Add", errors.ErrNilControl, "group %q", g.Name()))
		}
		r.SetName(g.Name())
		r.group = g
		r.SetForm(g.Form())
		if ctx := g.Context(); ctx != nil {
			r.SetContext(ctx)
		}
		g.radios = append(g.radios, r)
	}
}

func (g *RadioGroup) Radios() []*Radio { return g.radios }

func (g *RadioGroup) SetForm(f *Form) {
	g.FieldBase.SetForm(f)
	for _, r := range g.radios {
		r.SetForm(f)
	}
}

func (g *RadioGroup) SetContext(ctx core.Context) {
	g.FieldBase.SetContext(ctx)
	for _, r := range g.radios {
		r.SetContext(ctx)
	}
}

func (g *RadioGroup) Validate() {
	g.SetErrorText("")
	if g.IsRequired() && g.Value() == "" {
		g.SetErrorMessage("select-error")
	}
}

// FocusJavaScript focuses the first radio.
func (g *RadioGroup) FocusJavaScript() string {
	if len(g.radios) == 0 {
		return g.FieldBase.FocusJavaScript()
	}
	return "setFocus('" + g.radios[0].ID() + "');"
}

func (g *RadioGroup) Render(buf *rendering.Buffer) {
	sep := "&nbsp;"
	if g.Vertical {
		sep = "<br/>"
	}
	if !g.IsValid() {
		buf.Append(`<span class="error">`)
	}
	for i, r := range g.radios {
		if i > 0 {
			buf.Append(sep)
		}
		r.Render(buf)
	}
	if !g.IsValid() {
		buf.Append("</span>")
	}
	buf.Append(g.help)
}

var (
	_ Field = (*Checkbox)(nil)
	_ Field = (*Select)(nil)
	_ Field = (*Radio)(nil)
	_ Field = (*RadioGroup)(nil)
)
