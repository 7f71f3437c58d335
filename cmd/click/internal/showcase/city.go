package showcase

import (
	"html"

	"github.com/go-click/click/pkg/controls"
	"github.com/go-click/click/pkg/core"
	"github.com/go-click/click/pkg/logging"
)

// cityPage demonstrates an auto complete field answering Ajax requests with
// a partial response.
type cityPage struct {
	core.PageBase
	store *Store
	form  *controls.Form
	city  *controls.AutoCompleteTextField
}

func newCityPage(store *Store) *cityPage {
	p := &cityPage{store: store}
	p.Init(p)

	p.form = controls.NewForm("form")
	p.city = controls.NewAutoCompleteTextField("city", p.cities)
	p.city.SetRequired(true)
	p.city.MaxSuggestions = 5
	p.form.Add(p.city)

	ok := controls.NewSubmit("ok", "OK")
	ok.SetListenerFunc(p.onOK)
	p.form.Add(ok)

	p.AddControl(p.form)
	return p
}

func (p *cityPage) cities(string) []string {
	cities, err := p.store.Cities(p.Context().Request().Context())
	if err != nil {
		logging.Logger().Warn("cities not loaded", "err", err)
	}
	return cities
}

func (p *cityPage) onOK(core.Control) bool {
	if p.form.IsValid() {
		p.form.Add(controls.NewLabel("chosen", "You chose "+htmlEscape(p.city.Value())+"."))
	}
	return true
}

func htmlEscape(s string) string { return html.EscapeString(s) }
