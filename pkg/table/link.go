package table

import "github.com/go-click/click/pkg/rendering"

// link is one rendered anchor. Every paging and sorting link is built as its
// own value from the table's control link href.
type link struct {
	label string
	title string
	href  string
	class string
}

// render writes the anchor with label as markup.
func (l link) render(buf *rendering.Buffer) {
	l.start(buf)
	buf.Append(l.label)
	buf.ElementEnd("a")
}

func (l link) renderText(buf *rendering.Buffer, escape bool) {
	l.start(buf)
	if escape {
		buf.AppendEscaped(l.label)
	} else {
		buf.Append(l.label)
	}
	buf.ElementEnd("a")
}

func (l link) start(buf *rendering.Buffer) {
	buf.ElementStart("a")
	buf.AppendAttribute("href", l.href)
	buf.AppendOptionalAttribute("title", l.title)
	buf.AppendOptionalAttribute("class", l.class)
	buf.CloseTag()
}

func (l link) String() string {
	buf := rendering.NewBuffer(len(l.href) + len(l.label) + 32)
	l.render(buf)
	return buf.String()
}
