// Package rendering provides the HTML output primitives used by controls and
// the template service used by pages and panels.
package rendering

import (
	"html"
	"sort"
	"strconv"
	"strings"
)

// jsAttributes are event handler attributes whose values are emitted without
// escaping.
var jsAttributes = map[string]bool{
	"onload": true, "onunload": true, "onclick": true, "ondblclick": true,
	"onmousedown": true, "onmouseup": true, "onmouseover": true,
	"onmousemove": true, "onmouseout": true, "onfocus": true, "onblur": true,
	"onkeypress": true, "onkeydown": true, "onkeyup": true, "onsubmit": true,
	"onreset": true, "onselect": true, "onchange": true,
}

// IsJavaScriptAttribute reports whether name is an inline event handler.
func IsJavaScriptAttribute(name string) bool {
	if len(name) < 6 || len(name) > 11 || !strings.HasPrefix(name, "on") {
		return false
	}
	return jsAttributes[strings.ToLower(name)]
}

// Buffer accumulates HTML markup. The zero value is ready to use.
type Buffer struct {
	sb strings.Builder
}

// NewBuffer returns a Buffer with at least size bytes preallocated.
func NewBuffer(size int) *Buffer {
	b := &Buffer{}
	if size > 0 {
		b.sb.Grow(size)
	}
	return b
}

// Write implements io.Writer so templates can render into a Buffer.
func (b *Buffer) Write(p []byte) (int, error) {
	return b.sb.Write(p)
}

// Append writes s unescaped.
func (b *Buffer) Append(s string) {
	b.sb.WriteString(s)
}

// AppendInt writes the decimal form of i.
func (b *Buffer) AppendInt(i int) {
	b.sb.WriteString(strconv.Itoa(i))
}

// AppendEscaped writes s with HTML special characters escaped.
func (b *Buffer) AppendEscaped(s string) {
	b.sb.WriteString(html.EscapeString(s))
}

// ElementStart writes "<name".
func (b *Buffer) ElementStart(name string) {
	b.sb.WriteByte('<')
	b.sb.WriteString(name)
}

// CloseTag writes ">".
func (b *Buffer) CloseTag() {
	b.sb.WriteByte('>')
}

// ElementEnd writes "</name>".
func (b *Buffer) ElementEnd(name string) {
	b.sb.WriteString("</")
	b.sb.WriteString(name)
	b.sb.WriteByte('>')
}

// ElementClose writes "/>" to finish a self-closing element.
func (b *Buffer) ElementClose() {
	b.sb.WriteString("/>")
}

// AppendAttribute writes ` name="value"`. The value is escaped unless name
// is an event handler attribute.
func (b *Buffer) AppendAttribute(name, value string) {
	b.sb.WriteByte(' ')
	b.sb.WriteString(name)
	b.sb.WriteString(`="`)
	if IsJavaScriptAttribute(name) {
		b.sb.WriteString(value)
	} else {
		b.sb.WriteString(html.EscapeString(value))
	}
	b.sb.WriteByte('"')
}

// AppendOptionalAttribute is AppendAttribute but writes nothing for an empty
// value.
func (b *Buffer) AppendOptionalAttribute(name, value string) {
	if value == "" {
		return
	}
	b.AppendAttribute(name, value)
}

// AppendAttributeInt writes ` name="i"`.
func (b *Buffer) AppendAttributeInt(name string, i int) {
	b.AppendAttribute(name, strconv.Itoa(i))
}

// AppendAttributeDisabled writes ` disabled="disabled"`.
func (b *Buffer) AppendAttributeDisabled() {
	b.sb.WriteString(` disabled="disabled"`)
}

// AppendAttributeReadonly writes ` readonly="readonly"`.
func (b *Buffer) AppendAttributeReadonly() {
	b.sb.WriteString(` readonly="readonly"`)
}

// AppendAttributes writes attrs in name order. The id attribute is skipped
// since controls render it explicitly.
func (b *Buffer) AppendAttributes(attrs map[string]string) {
	if len(attrs) == 0 {
		return
	}
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		if name != "id" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		b.AppendAttribute(name, attrs[name])
	}
}

// Len returns the number of bytes written.
func (b *Buffer) Len() int {
	return b.sb.Len()
}

// Reset discards the contents.
func (b *Buffer) Reset() {
	b.sb.Reset()
}

func (b *Buffer) String() string {
	return b.sb.String()
}
