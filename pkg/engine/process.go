package engine

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"net/http"
	"time"

	"github.com/go-click/click/pkg/core"
	"github.com/go-click/click/pkg/errors"
	"github.com/go-click/click/pkg/logging"
	"github.com/go-click/click/pkg/rendering"
)

// processPage runs page through the request lifecycle on the current frame
// of ctx. A panic is recovered: the frame's dispatchers discard their
// pending work, the panic is reported and returned as a *errors.PanicError.
// The page is destroyed in every case.
func (e *Engine) processPage(ctx *Context, page core.Page) (err error) {
	frame := ctx.scope.Current()
	defer errors.Recover("engine.processPage", func(pe *errors.PanicError) {
		frame.Actions.ErrorOccurred(pe)
		frame.Callbacks.ErrorOccurred(pe)
		err = pe
	})
	defer e.destroyPage(ctx, page)

	t := ctx.phaseTimer()

	page.SetContext(ctx)
	page.OnInit()
	for _, c := range page.Controls() {
		core.InitControl(c)
	}
	t.mark(&t.phases.InitMs)

	if ctx.IsAjax() {
		return e.processAjax(ctx, page, frame, t)
	}

	if !page.OnSecurityCheck() {
		logging.Logger().Debug("security check failed", "path", page.Path())
		return nil
	}

	continueProcessing := true
	if !ctx.IsForward() {
		for _, c := range page.Controls() {
			if !core.ProcessControl(c) {
				continueProcessing = false
				break
			}
		}
	}
	t.mark(&t.phases.ProcessMs)

	if continueProcessing {
		continueProcessing = frame.Actions.FireActionEvents(ctx)
	}
	t.mark(&t.phases.ActionsMs)

	if continueProcessing {
		if ctx.IsPost() {
			page.OnPost()
		} else {
			page.OnGet()
		}
	}
	t.mark(&t.phases.HandlerMs)

	if !continueProcessing && ctx.w.Written() {
		// The control or listener produced the response itself.
		frame.Callbacks.ProcessPreDestroy(ctx)
		return nil
	}

	frame.Callbacks.ProcessPreResponse(ctx)
	page.OnRender()
	for _, c := range page.Controls() {
		core.PrepareRender(c)
	}
	frame.Actions.FireActionEventsAt(ctx, core.PostOnRender)
	frame.Callbacks.ProcessPreGetHeadElements(ctx)

	err = e.renderPage(ctx, page)
	t.mark(&t.phases.RenderMs)

	frame.Callbacks.ProcessPreDestroy(ctx)
	return err
}

// processAjax processes the Ajax targets addressed by the request, fires
// their listeners and behaviors and renders the resulting Partial.
func (e *Engine) processAjax(ctx *Context, page core.Page, frame *core.Frame, t *phaseTimer) error {
	if !page.OnSecurityCheck() {
		return nil
	}
	for _, c := range frame.Callbacks.AjaxTargets() {
		if !c.IsAjaxTarget(ctx) {
			continue
		}
		if logging.TraceEnabled() {
			logging.Trace("processing ajax target", "control", fmt.Sprintf("%T", c), "id", c.ID())
		}
		core.ProcessControl(c)
		frame.Actions.DispatchBehavior(c)
	}
	t.mark(&t.phases.ProcessMs)

	frame.Actions.FireActionEvents(ctx)
	frame.Actions.FireBehaviors(ctx)
	t.mark(&t.phases.ActionsMs)

	partial := frame.Actions.Partial()
	if partial == nil {
		logging.Logger().Debug("ajax request produced no partial", "path", page.Path())
		frame.Callbacks.ProcessPreDestroy(ctx)
		return nil
	}
	frame.Callbacks.ProcessPreResponse(ctx)
	err := partial.Render(ctx)
	t.mark(&t.phases.RenderMs)
	frame.Callbacks.ProcessPreDestroy(ctx)
	if err != nil {
		return &errors.ClickError{Op: "engine.processAjax", Kind: errors.KindRender, Err: err}
	}
	return nil
}

// destroyPage runs OnDestroy on every control and then on the page. It never
// panics.
func (e *Engine) destroyPage(ctx *Context, page core.Page) {
	start := time.Now()
	for _, c := range page.Controls() {
		core.DestroyControl(c)
	}
	if err := errors.Guard("engine.destroyPage", page.OnDestroy); err != nil {
		errors.Report(&errors.ClickError{
			Op:   "engine.destroyPage",
			Kind: errors.KindDestroy,
			Err:  err,
		})
	}
	if ctx.sample != nil {
		ctx.sample.Phases.DestroyMs = durationToMillis(time.Since(start))
		ctx.sample.Controls = len(page.Controls())
	}
}

// renderPage writes the page template, or the page controls when the page
// has no template.
func (e *Engine) renderPage(ctx *Context, page core.Page) error {
	h := ctx.w.Header()
	for name, value := range e.pageHeaders(page) {
		h.Set(name, value)
	}
	ct := page.ContentType()
	if charset := ctx.Charset(); charset != "" {
		ct += "; charset=" + charset
	}
	h.Set("Content-Type", ct)

	heads := page.HeadElements()
	var buf bytes.Buffer
	if name := page.Template(); name != "" {
		if e.templates == nil {
			return &errors.ClickError{
				Op:   "engine.renderPage",
				Kind: errors.KindRender,
				Err:  fmt.Errorf("page %s uses template %s but no templates are configured", page.Path(), name),
			}
		}
		if err := e.templates.Render(&buf, name, pageModel(ctx, page, heads)); err != nil {
			return &errors.ClickError{Op: "engine.renderPage", Kind: errors.KindRender, Err: err}
		}
	} else {
		renderDocument(&buf, ctx, page, heads)
	}
	_, err := buf.WriteTo(ctx.w)
	return err
}

func (e *Engine) pageHeaders(page core.Page) map[string]string {
	headers := make(map[string]string)
	if entry := e.lookup(page.Path()); entry != nil {
		for k, v := range entry.config.Headers {
			headers[k] = v
		}
	}
	for k, v := range page.Headers() {
		headers[k] = v
	}
	return headers
}

// pageModel returns the template model: the page model entries, every
// control rendered under its name, the head elements and request data.
func pageModel(ctx *Context, page core.Page, heads []core.HeadElement) map[string]any {
	model := make(map[string]any, len(page.Model())+len(page.Controls())+4)
	for k, v := range page.Model() {
		model[k] = v
	}
	for _, c := range page.Controls() {
		model[c.Name()] = template.HTML(core.RenderString(c))
	}
	head, js := splitHeadElements(heads)
	model["headElements"] = head
	model["jsElements"] = js
	model["path"] = page.Path()
	model["charset"] = ctx.Charset()
	return model
}

func splitHeadElements(heads []core.HeadElement) (template.HTML, template.HTML) {
	head := rendering.NewBuffer(256)
	js := rendering.NewBuffer(256)
	for _, h := range heads {
		if h.IsScript() {
			h.Render(js)
			js.Append("\n")
		} else {
			h.Render(head)
			head.Append("\n")
		}
	}
	return template.HTML(head.String()), template.HTML(js.String())
}

// renderDocument writes a minimal HTML document around the page controls.
func renderDocument(buf *bytes.Buffer, ctx *Context, page core.Page, heads []core.HeadElement) {
	head, js := splitHeadElements(heads)
	buf.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	if charset := ctx.Charset(); charset != "" {
		fmt.Fprintf(buf, "<meta charset=\"%s\"/>\n", html.EscapeString(charset))
	}
	buf.WriteString(string(head))
	buf.WriteString("</head>\n<body>\n")
	for _, c := range page.Controls() {
		if s := core.RenderString(c); s != "" {
			buf.WriteString(s)
			buf.WriteByte('\n')
		}
	}
	buf.WriteString(string(js))
	buf.WriteString("</body>\n</html>\n")
}

// renderError writes a 500 response for err unless the response was
// already started.
func (e *Engine) renderError(ctx *Context, err error) {
	logging.Logger().Error("page processing failed", "path", ctx.path, "err", err)
	if ctx.sample != nil {
		ctx.sample.Error = err.Error()
	}
	if ctx.w.Written() {
		return
	}

	var stack string
	if pe, ok := err.(*errors.PanicError); ok {
		stack = pe.StackTrace
	}
	model := map[string]any{
		"path":  ctx.path,
		"mode":  e.cfg.Mode,
		"error": "",
		"stack": "",
	}
	if !e.cfg.IsProduction() {
		model["error"] = err.Error()
		model["stack"] = stack
	}

	h := ctx.w.Header()
	h.Set("Content-Type", "text/html; charset="+ctx.Charset())
	h.Set("Cache-Control", "no-store")

	var buf bytes.Buffer
	if e.templates != nil && e.templates.Has(errorTemplate) {
		if rerr := e.templates.Render(&buf, errorTemplate, model); rerr == nil {
			ctx.w.WriteHeader(http.StatusInternalServerError)
			buf.WriteTo(ctx.w)
			return
		}
		buf.Reset()
	}
	buf.WriteString("<!DOCTYPE html>\n<html>\n<head><title>Error</title></head>\n<body>\n")
	buf.WriteString("<h1>The application encountered an unexpected error</h1>\n")
	if msg := model["error"].(string); msg != "" {
		fmt.Fprintf(&buf, "<p class=\"error\">%s</p>\n", html.EscapeString(msg))
	}
	if stack, _ := model["stack"].(string); stack != "" {
		fmt.Fprintf(&buf, "<pre>%s</pre>\n", html.EscapeString(stack))
	}
	buf.WriteString("</body>\n</html>\n")
	ctx.w.WriteHeader(http.StatusInternalServerError)
	buf.WriteTo(ctx.w)
}

const errorTemplate = "error.htm"

// phaseTimer records the duration of consecutive lifecycle phases.
type phaseTimer struct {
	phases *RequestPhaseTimings
	last   time.Time
}

func (t *phaseTimer) mark(dst *float64) {
	now := time.Now()
	*dst = durationToMillis(now.Sub(t.last))
	t.last = now
}
