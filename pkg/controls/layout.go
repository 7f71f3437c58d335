package controls

import (
	"slices"
	"strings"

	"github.com/go-click/click/pkg/core"
	"github.com/go-click/click/pkg/errors"
	"github.com/go-click/click/pkg/i18n"
	"github.com/go-click/click/pkg/rendering"
)

// Position places labels and error messages within a form.
type Position string

const (
	PositionTop    Position = "top"
	PositionMiddle Position = "middle"
	PositionBottom Position = "bottom"
	PositionLeft   Position = "left"
)

// Alignments accepted for labels, buttons and errors.
const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
)

func checkAlign(op, align string) {
	switch align {
	case AlignLeft, AlignCenter, AlignRight:
	default:
		panic(errors.Usage(op, errors.ErrInvalidValue, "alignment %q", align))
	}
}

// labelStyles are the per field hints read by the layout.
type labelStyles struct {
	style     string
	class     string
	hint      string
	classHint string
}

type styledField interface {
	labelStyles() labelStyles
}

// layoutStyle holds the table settings of a Form or FieldSet.
type layoutStyle struct {
	id             string
	columns        int
	labelAlign     string
	labelsPosition Position
	labelStyle     string
	fieldStyle     string
	widths         map[string]int
}

// markupMessage returns the raw message format for key. Layout messages hold
// markup and are not run through the printer.
func markupMessage(ctx core.Context, key string) string {
	if ctx != nil {
		if s, ok := ctx.LookupMessage(key); ok {
			return s
		}
	}
	return i18n.Defaults[key]
}

func isHidden(c core.Control) bool { return LayoutOf(c) == LayoutHidden }

func allHidden(controls []core.Control) bool {
	return !slices.ContainsFunc(controls, func(c core.Control) bool {
		k := LayoutOf(c)
		return k != LayoutHidden && k != LayoutButton
	})
}

// renderLayout writes controls as a table of label and field cells,
// ls.columns fields per row. Hidden controls and buttons are skipped.
func renderLayout(buf *rendering.Buffer, ctx core.Context, ls layoutStyle, controls []core.Control) {
	buf.Append(`<table class="fields" id="`)
	buf.AppendEscaped(ls.id + "-fields")
	buf.Append("\"><tbody>\n")

	column := 1
	open := false
	for _, c := range controls {
		kind := LayoutOf(c)
		if kind == LayoutHidden || kind == LayoutButton {
			continue
		}
		width, hasWidth := ls.widths[c.Name()]
		if column == 1 {
			buf.Append("<tr class=\"fields\">\n")
			open = true
		}

		field, isField := c.(Field)
		switch {
		case kind == LayoutLabel:
			buf.Append(`<td class="fields"`)
			buf.AppendAttribute("align", ls.labelAlign)
			buf.AppendAttributeInt("colspan", spanWidth(width, hasWidth))
			if b, ok := c.(interface{ Attributes() map[string]string }); ok {
				attrs := b.Attributes()
				keys := make([]string, 0, len(attrs))
				for k := range attrs {
					if k != "style" && k != "id" {
						keys = append(keys, k)
					}
				}
				slices.Sort(keys)
				for _, k := range keys {
					buf.AppendAttribute(k, attrs[k])
				}
			}
			buf.Append(">")
			c.Render(buf)
			buf.Append("</td>\n")
		case kind == LayoutField && isField:
			renderFieldCells(buf, ctx, ls, field, width, hasWidth)
		default:
			buf.Append(`<td class="fields" align="left"`)
			buf.AppendAttributeInt("colspan", spanWidth(width, hasWidth))
			buf.Append(">\n")
			c.Render(buf)
			buf.Append("</td>\n")
		}

		if hasWidth {
			column += width
		} else {
			column++
		}
		if column > ls.columns {
			buf.Append("</tr>\n")
			open = false
			column = 1
		}
	}
	if open {
		buf.Append("</tr>\n")
	}
	buf.Append("</tbody></table>\n")
}

func spanWidth(width int, ok bool) int {
	if ok {
		return width * 2
	}
	return 2
}

func renderFieldCells(buf *rendering.Buffer, ctx core.Context, ls layoutStyle, f Field, width int, hasWidth bool) {
	var st labelStyles
	if s, ok := f.(styledField); ok {
		st = s.labelStyles()
	}
	cellStyle := st.hint
	if cellStyle == "" {
		cellStyle = ls.labelStyle
	}
	buf.Append(`<td class="fields`)
	if st.classHint != "" {
		buf.Append(" ")
		buf.AppendEscaped(st.classHint)
	}
	buf.Append(`"`)
	if ls.labelsPosition == PositionTop {
		buf.Append(` valign="top"`)
	} else {
		buf.AppendAttribute("align", ls.labelAlign)
	}
	buf.AppendOptionalAttribute("style", cellStyle)
	buf.Append(">")

	if label := f.Label(); label != "" {
		prefix, suffix := "label-not-required-prefix", "label-not-required-suffix"
		if f.IsRequired() {
			prefix, suffix = "label-required-prefix", "label-required-suffix"
		}
		buf.Append(markupMessage(ctx, prefix))
		buf.ElementStart("label")
		buf.AppendAttribute("for", f.ID())
		if f.IsDisabled() {
			buf.AppendAttributeDisabled()
		}
		class := st.class
		if !f.IsValid() {
			class = strings.TrimSpace("error " + class)
		}
		buf.AppendOptionalAttribute("class", class)
		buf.AppendOptionalAttribute("style", st.style)
		buf.CloseTag()
		buf.Append(label)
		buf.ElementEnd("label")
		buf.Append(markupMessage(ctx, suffix))
	}

	if ls.labelsPosition == PositionTop {
		buf.Append("<br/>")
	} else {
		fieldStyle := st.hint
		if fieldStyle == "" {
			fieldStyle = ls.fieldStyle
		}
		buf.Append("</td>\n<td")
		buf.AppendOptionalAttribute("class", st.classHint)
		buf.AppendAttribute("align", "left")
		buf.AppendOptionalAttribute("style", fieldStyle)
		if hasWidth && width > 1 {
			buf.AppendAttributeInt("colspan", width*2-1)
		}
		buf.Append(">")
	}
	f.Render(buf)
	buf.Append("</td>\n")
}

// walkFields calls fn for every field in controls, descending into
// containers.
func walkFields(controls []core.Control, fn func(Field)) {
	for _, c := range controls {
		if f, ok := c.(Field); ok {
			fn(f)
		}
		if ct, ok := c.(core.Container); ok {
			walkFields(ct.Controls(), fn)
		}
	}
}

// renderHiddenFields writes the hidden fields of controls and nested
// containers, one per line.
func renderHiddenFields(buf *rendering.Buffer, controls []core.Control) {
	for _, c := range controls {
		if isHidden(c) {
			c.Render(buf)
			buf.Append("\n")
			continue
		}
		if ct, ok := c.(core.Container); ok {
			renderHiddenFields(buf, ct.Controls())
		}
	}
}
