package controls

import (
	"fmt"
	"html/template"

	"github.com/go-click/click/pkg/core"
	"github.com/go-click/click/pkg/errors"
	"github.com/go-click/click/pkg/logging"
	"github.com/go-click/click/pkg/rendering"
)

// Panel is a container rendered through a template. Without a template it
// writes its children inside a div.
//
// The template model holds "id", "name", "controls" (the rendered children
// in order), each rendered child under its name, and the entries added with
// AddModel.
type Panel struct {
	core.ContainerBase
	// Template names a template of the context template service.
	Template string
	model    map[string]any
}

// NewPanel returns a panel rendering tmpl.
func NewPanel(name, tmpl string) *Panel {
	p := &Panel{Template: tmpl}
	p.Init(p, name)
	p.Tag = "div"
	return p
}

// AddModel adds a template model entry.
func (p *Panel) AddModel(name string, value any) {
	if p.model == nil {
		p.model = make(map[string]any)
	}
	p.model[name] = value
}

// Model returns the entries added with AddModel.
func (p *Panel) Model() map[string]any { return p.model }

func (p *Panel) templateModel() map[string]any {
	children := make([]template.HTML, 0, len(p.Controls()))
	m := map[string]any{
		"id":   p.ID(),
		"name": p.Name(),
	}
	for _, c := range p.Controls() {
		html := template.HTML(core.RenderString(c))
		children = append(children, html)
		if c.Name() != "" {
			m[c.Name()] = html
		}
	}
	m["controls"] = children
	for k, v := range p.model {
		m[k] = v
	}
	return m
}

// Render writes the rendered template. A failing template is reported and
// the children are written inside the panel tag instead.
func (p *Panel) Render(buf *rendering.Buffer) {
	ctx := p.Context()
	if p.Template == "" || ctx == nil {
		p.ContainerBase.Render(buf)
		return
	}
	out, err := ctx.RenderTemplate(p.Template, p.templateModel())
	if err != nil {
		logging.Logger().Error("panel template failed",
			"panel", p.Name(), "template", p.Template, "err", err)
		errors.Report(&errors.ClickError{
			Op:      "controls.Panel.Render",
			Kind:    errors.KindRender,
			Control: p.Name(),
			Err:     fmt.Errorf("template %s: %w", p.Template, err),
		})
		p.ContainerBase.Render(buf)
		return
	}
	buf.Append(out)
}

var _ core.Container = (*Panel)(nil)
