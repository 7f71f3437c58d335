package core

import "github.com/go-click/click/pkg/rendering"

// HeadElement is a resource rendered in the page head or before the closing
// body tag. Key identifies duplicates.
type HeadElement interface {
	Key() string
	// IsScript reports whether the element belongs with the page scripts
	// rather than the head.
	IsScript() bool
	Render(buf *rendering.Buffer)
}

// JsImport references an external script.
type JsImport struct {
	Src string
}

func (e JsImport) Key() string    { return "js-import:" + e.Src }
func (e JsImport) IsScript() bool { return true }

func (e JsImport) Render(buf *rendering.Buffer) {
	buf.ElementStart("script")
	buf.AppendAttribute("type", "text/javascript")
	buf.AppendAttribute("src", e.Src)
	buf.CloseTag()
	buf.ElementEnd("script")
}

// JsScript is inline script content. An empty ID never deduplicates.
type JsScript struct {
	ID      string
	Content string
}

func (e JsScript) Key() string {
	if e.ID == "" {
		return "js-script:" + e.Content
	}
	return "js-script#" + e.ID
}

func (e JsScript) IsScript() bool { return true }

func (e JsScript) Render(buf *rendering.Buffer) {
	buf.ElementStart("script")
	buf.AppendAttribute("type", "text/javascript")
	buf.AppendOptionalAttribute("id", e.ID)
	buf.CloseTag()
	buf.Append(e.Content)
	buf.ElementEnd("script")
}

// CssImport references an external stylesheet.
type CssImport struct {
	Href string
}

func (e CssImport) Key() string    { return "css-import:" + e.Href }
func (e CssImport) IsScript() bool { return false }

func (e CssImport) Render(buf *rendering.Buffer) {
	buf.ElementStart("link")
	buf.AppendAttribute("type", "text/css")
	buf.AppendAttribute("rel", "stylesheet")
	buf.AppendAttribute("href", e.Href)
	buf.ElementClose()
}

// CssStyle is inline style content.
type CssStyle struct {
	ID      string
	Content string
}

func (e CssStyle) Key() string {
	if e.ID == "" {
		return "css-style:" + e.Content
	}
	return "css-style#" + e.ID
}

func (e CssStyle) IsScript() bool { return false }

func (e CssStyle) Render(buf *rendering.Buffer) {
	buf.ElementStart("style")
	buf.AppendAttribute("type", "text/css")
	buf.AppendOptionalAttribute("id", e.ID)
	buf.CloseTag()
	buf.Append(e.Content)
	buf.ElementEnd("style")
}

// UniqueHeadElements drops elements whose key was already seen, keeping the
// first occurrence.
func UniqueHeadElements(elems []HeadElement) []HeadElement {
	seen := make(map[string]bool, len(elems))
	out := elems[:0:0]
	for _, e := range elems {
		if k := e.Key(); !seen[k] {
			seen[k] = true
			out = append(out, e)
		}
	}
	return out
}
