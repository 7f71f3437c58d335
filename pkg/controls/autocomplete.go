package controls

import (
	"slices"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/go-click/click/pkg/core"
	"github.com/go-click/click/pkg/rendering"
)

// AutoCompleteTextField is a text field offering suggestions while the user
// types. The browser posts the typed text as an Ajax request under the field
// name; the response is a list of the best matching candidates.
type AutoCompleteTextField struct {
	TextField
	// Candidates returns the suggestions to rank for the typed text.
	Candidates func(text string) []string
	// MaxSuggestions limits the list, 10 unless set.
	MaxSuggestions int
}

// NewAutoCompleteTextField returns a field suggesting from candidates.
func NewAutoCompleteTextField(name string, candidates func(string) []string) *AutoCompleteTextField {
	f := &AutoCompleteTextField{
		TextField:      TextField{Size: 20},
		Candidates:     candidates,
		MaxSuggestions: 10,
	}
	f.Init(f, name)
	f.SetAttribute("autocomplete", "off")
	f.AddBehavior(&core.AjaxBehavior{
		Target: f.IsAjaxTarget,
		Action: func(core.Control) *core.Partial { return f.suggestions() },
	})
	return f
}

// IsAjaxTarget reports whether the request is an Ajax request for the
// field's suggestions.
func (f *AutoCompleteTextField) IsAjaxTarget(ctx core.Context) bool {
	return ctx != nil && ctx.IsAjax() && ctx.HasParam(f.Name())
}

// OnProcess queues the suggestion behavior for Ajax requests and processes
// the field normally otherwise.
func (f *AutoCompleteTextField) OnProcess() bool {
	if ctx := f.Context(); ctx != nil && ctx.IsAjax() {
		f.DispatchBehaviors()
		return true
	}
	return f.FieldBase.OnProcess()
}

// Suggest returns the candidates matching text, best first.
func (f *AutoCompleteTextField) Suggest(text string) []string {
	text = strings.TrimSpace(text)
	if f.Candidates == nil || text == "" {
		return nil
	}
	candidates := f.Candidates(text)
	ranks := fuzzy.RankFindNormalizedFold(text, candidates)
	slices.SortStableFunc(ranks, func(a, b fuzzy.Rank) int {
		if a.Distance != b.Distance {
			return a.Distance - b.Distance
		}
		return a.OriginalIndex - b.OriginalIndex
	})
	limit := f.MaxSuggestions
	if limit <= 0 {
		limit = 10
	}
	out := make([]string, 0, min(limit, len(ranks)))
	for _, r := range ranks[:min(limit, len(ranks))] {
		out = append(out, r.Target)
	}
	return out
}

func (f *AutoCompleteTextField) suggestions() *core.Partial {
	ctx := f.Context()
	if ctx == nil {
		return nil
	}
	buf := rendering.NewBuffer(256)
	buf.Append("<ul>")
	for _, s := range f.Suggest(ctx.Param(f.Name())) {
		buf.Append("<li>")
		buf.AppendEscaped(s)
		buf.Append("</li>")
	}
	buf.Append("</ul>")
	return core.NewPartial(buf.String(), "text/html")
}

// HeadElements adds the suggestion script to the field resources.
func (f *AutoCompleteTextField) HeadElements() []core.HeadElement {
	return append([]core.HeadElement{core.JsImport{Src: "/click/autocomplete.js"}},
		f.TextField.HeadElements()...)
}

var _ Field = (*AutoCompleteTextField)(nil)
