package core

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

// Content types commonly used for partial responses.
const (
	ContentTypeHTML       = "text/html"
	ContentTypeJSON       = "application/json"
	ContentTypeJavaScript = "text/javascript"
	ContentTypeText       = "text/plain"
	ContentTypeXML        = "text/xml"
)

// Partial is a response fragment, typically the answer to an Ajax request.
// It carries exactly one source: content, a reader, a byte stream, or a
// template with its model.
type Partial struct {
	content     string
	reader      io.Reader
	stream      io.Reader
	template    string
	model       map[string]any
	contentType string
	charset     string
	headers     map[string]string
	cache       bool
}

// NewPartial returns a Partial writing content.
func NewPartial(content, contentType string) *Partial {
	return &Partial{content: content, contentType: contentType}
}

// NewReaderPartial returns a Partial copying text from r.
func NewReaderPartial(r io.Reader, contentType string) *Partial {
	return &Partial{reader: r, contentType: contentType}
}

// NewStreamPartial returns a Partial copying bytes from r. Closers are
// closed after rendering.
func NewStreamPartial(r io.Reader, contentType string) *Partial {
	return &Partial{stream: r, contentType: contentType}
}

// NewTemplatePartial returns a Partial rendering template with model.
func NewTemplatePartial(template string, model map[string]any, contentType string) *Partial {
	return &Partial{template: template, model: model, contentType: contentType}
}

func (p *Partial) Content() string           { return p.content }
func (p *Partial) SetContent(content string) { p.content = content }
func (p *Partial) Template() string          { return p.template }
func (p *Partial) Model() map[string]any     { return p.model }

// SetTemplate sets the template and model to render.
func (p *Partial) SetTemplate(template string, model map[string]any) {
	p.template = template
	p.model = model
}

func (p *Partial) ContentType() string { return p.contentType }

func (p *Partial) SetContentType(ct string) { p.contentType = ct }

// Charset returns the explicit charset, or "".
func (p *Partial) Charset() string { return p.charset }

func (p *Partial) SetCharset(charset string) { p.charset = charset }

// SetHeader adds a response header written on render.
func (p *Partial) SetHeader(name, value string) {
	if p.headers == nil {
		p.headers = make(map[string]string)
	}
	p.headers[name] = value
}

func (p *Partial) Headers() map[string]string { return p.headers }

// IsCachePartial reports whether the response may be cached.
func (p *Partial) IsCachePartial() bool { return p.cache }

// SetCachePartial allows (true) or forbids (false, the default) caching.
func (p *Partial) SetCachePartial(cache bool) { p.cache = cache }

// Render writes the partial to the response of ctx. Reader and stream
// sources are closed before Render returns, whatever the outcome.
func (p *Partial) Render(ctx Context) error {
	defer p.closeSources()

	w := ctx.Response()
	p.prepare(ctx, w.Header())

	switch {
	case p.template != "":
		out, err := ctx.RenderTemplate(p.template, p.model)
		if err != nil {
			return fmt.Errorf("failed to render partial template %s: %w", p.template, err)
		}
		_, err = io.WriteString(w, out)
		return err
	case p.content != "":
		_, err := io.WriteString(w, p.content)
		return err
	case p.reader != nil:
		_, err := io.Copy(w, p.reader)
		return err
	case p.stream != nil:
		_, err := io.Copy(w, p.stream)
		return err
	}
	return nil
}

func (p *Partial) prepare(ctx Context, h http.Header) {
	for name, value := range p.headers {
		h.Set(name, value)
	}
	if !p.cache {
		h.Set("Pragma", "no-cache")
		h.Set("Cache-Control", "no-store, no-cache, must-revalidate, post-check=0, pre-check=0")
		h.Set("Expires", time.Unix(0, 0).UTC().Format(http.TimeFormat))
	}
	ct := p.contentType
	if ct == "" {
		ct = ContentTypeHTML
	}
	charset := p.charset
	if charset == "" {
		charset = ctx.Charset()
	}
	if charset != "" {
		ct += "; charset=" + charset
	}
	h.Set("Content-Type", ct)
}

func (p *Partial) closeSources() {
	for _, r := range []io.Reader{p.reader, p.stream} {
		if c, ok := r.(io.Closer); ok {
			c.Close()
		}
	}
}
