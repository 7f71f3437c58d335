package controls

import (
	"github.com/go-click/click/pkg/core"
	"github.com/go-click/click/pkg/errors"
	"github.com/go-click/click/pkg/rendering"
)

// FieldSet groups fields under a legend inside a form. Its fields are laid
// out with the form's label settings and the fieldset's own columns.
type FieldSet struct {
	core.ContainerBase
	// Legend overrides the "<name>.legend" message and the name derived
	// legend.
	Legend string

	form        *Form
	columns     int
	fieldWidths map[string]int
}

// NewFieldSet returns a one column fieldset.
func NewFieldSet(name string) *FieldSet {
	fs := &FieldSet{columns: 1}
	fs.Init(fs, name)
	return fs
}

// ID returns the id attribute, or the form id and name joined by an
// underscore.
func (fs *FieldSet) ID() string {
	if id := fs.Attribute("id"); id != "" {
		return id
	}
	if fs.form != nil {
		return fs.form.ID() + "_" + fs.Name()
	}
	return fs.Name()
}

func (fs *FieldSet) Form() *Form { return fs.form }

// SetForm sets the form of the fieldset and of its members.
func (fs *FieldSet) SetForm(f *Form) {
	fs.form = f
	for _, c := range fs.Controls() {
		if m, ok := c.(FormMember); ok {
			m.SetForm(f)
		}
	}
}

// LegendText returns the rendered legend.
func (fs *FieldSet) LegendText() string {
	if fs.Legend != "" {
		return fs.Legend
	}
	if ctx := fs.Context(); ctx != nil {
		if s, ok := ctx.LookupMessage(fs.Name() + ".legend"); ok {
			return s
		}
	}
	return ToLabel(fs.Name())
}

func (fs *FieldSet) Add(c core.Control) core.Control {
	return fs.Insert(c, len(fs.Controls()))
}

// Insert adds c at index and hands it the fieldset's form.
func (fs *FieldSet) Insert(c core.Control, index int) core.Control {
	fs.ContainerBase.Insert(c, index)
	if m, ok := c.(FormMember); ok {
		m.SetForm(fs.form)
	}
	if s, ok := c.(sizer); ok && fs.form != nil && fs.form.DefaultFieldSize > 0 {
		s.setDefaultSize(fs.form.DefaultFieldSize)
	}
	return c
}

func (fs *FieldSet) Remove(c core.Control) bool {
	if !fs.ContainerBase.Remove(c) {
		return false
	}
	delete(fs.fieldWidths, c.Name())
	if m, ok := c.(FormMember); ok {
		m.SetForm(nil)
	}
	return true
}

func (fs *FieldSet) Columns() int { return fs.columns }

func (fs *FieldSet) SetColumns(n int) {
	if n < 1 {
		panic(errors.Usage("controls.FieldSet.SetColumns", errors.ErrInvalidValue, "columns %d", n))
	}
	fs.columns = n
}

// AddWidth makes c span width columns. It panics for buttons, hidden fields
// and widths below one.
func (fs *FieldSet) AddWidth(c core.Control, width int) {
	const op = "controls.FieldSet.AddWidth"
	if k := LayoutOf(c); k == LayoutButton || k == LayoutHidden {
		panic(errors.Usage(op, errors.ErrInvalidValue, "%s controls have no layout width", k))
	}
	if width < 1 {
		panic(errors.Usage(op, errors.ErrInvalidValue, "width %d", width))
	}
	if fs.fieldWidths == nil {
		fs.fieldWidths = make(map[string]int)
	}
	fs.fieldWidths[c.Name()] = width
}

func (fs *FieldSet) layout() layoutStyle {
	ls := layoutStyle{
		id:             fs.ID(),
		columns:        fs.columns,
		labelAlign:     AlignLeft,
		labelsPosition: PositionLeft,
		widths:         fs.fieldWidths,
	}
	if f := fs.form; f != nil {
		ls.labelAlign = f.labelAlign
		ls.labelsPosition = f.labelsPosition
		ls.labelStyle = f.LabelStyle
		ls.fieldStyle = f.FieldStyle
	}
	return ls
}

// Render writes the fieldset, its legend and the field layout. Outside a
// form the hidden fields are written first.
func (fs *FieldSet) Render(buf *rendering.Buffer) {
	id := fs.ID()
	buf.ElementStart("fieldset")
	buf.AppendAttribute("id", id)
	buf.AppendAttributes(fs.Attributes())
	buf.CloseTag()
	buf.Append("\n")
	if fs.form == nil {
		renderHiddenFields(buf, fs.Controls())
	}
	buf.ElementStart("legend")
	buf.AppendAttribute("id", id+"-legend")
	buf.CloseTag()
	buf.Append(fs.LegendText())
	buf.ElementEnd("legend")
	buf.Append("\n")
	if !allHidden(fs.Controls()) {
		renderLayout(buf, fs.Context(), fs.layout(), fs.Controls())
	}
	buf.ElementEnd("fieldset")
	buf.Append("\n")
}

var (
	_ core.Container = (*FieldSet)(nil)
	_ FormMember     = (*FieldSet)(nil)
)
