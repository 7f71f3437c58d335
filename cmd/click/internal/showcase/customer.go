package showcase

import (
	"net/http"
	"strconv"

	"github.com/go-click/click/pkg/controls"
	"github.com/go-click/click/pkg/core"
	"github.com/go-click/click/pkg/logging"
)

// customerPage edits a customer, or creates one when no id is given.
type customerPage struct {
	core.PageBase
	store *Store
	form  *controls.Form
	// resubmitted is set when the submit token did not match.
	resubmitted bool
}

func newCustomerPage(store *Store) *customerPage {
	p := &customerPage{store: store}
	p.Init(p)

	form := controls.NewForm("form")
	form.JavaScriptValidation = true
	form.SetColumns(2)

	form.Add(controls.NewHiddenField("id", ""))

	name := controls.NewTextField("name")
	name.SetRequired(true)
	name.MaxLength = 40
	form.Add(name)

	email := controls.NewEmailField("email")
	email.SetRequired(true)
	form.Add(email)

	age := controls.NewIntegerField("age")
	age.MinValue = 0
	age.MaxValue = 150
	form.Add(age)

	form.Add(controls.NewAutoCompleteTextField("city", p.suggestCities))

	category := controls.NewSelect("category")
	category.DefaultOption = &controls.Option{Value: "", Label: "-- choose --"}
	category.Options = func() []controls.Option {
		opts := make([]controls.Option, 0, len(Categories))
		for _, c := range Categories {
			opts = append(opts, controls.NewOption(c))
		}
		return opts
	}
	form.Add(category)

	form.Add(controls.NewDateField("joined"))
	form.Add(controls.NewCheckbox("active"))

	notes := controls.NewTextArea("notes")
	form.Add(notes)
	form.AddWidth(notes, 2)

	save := controls.NewSubmit("save", "Save")
	save.SetListenerFunc(p.onSave)
	form.Add(save)

	cancel := controls.NewSubmit("cancel", "Cancel")
	cancel.CancelJavaScriptValidation = true
	cancel.SetListenerFunc(p.onCancel)
	form.Add(cancel)

	p.form = form
	p.AddControl(form)
	return p
}

func (p *customerPage) suggestCities(string) []string {
	ctx := p.Context()
	if ctx == nil {
		return nil
	}
	cities, err := p.store.Cities(ctx.Request().Context())
	if err != nil {
		logging.Logger().Warn("cities not loaded", "err", err)
	}
	return cities
}

// OnSecurityCheck rejects a resubmitted form and issues the next submit
// token.
func (p *customerPage) OnSecurityCheck() bool {
	p.resubmitted = !p.form.OnSubmitCheck()
	return true
}

func (p *customerPage) OnGet() {
	ctx := p.Context()
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return
	}
	c, err := p.store.Customer(ctx.Request().Context(), id)
	if err != nil {
		p.form.SetErrorText("No customer with id " + ctx.Param("id") + ".")
		return
	}
	if err := p.form.CopyFrom(c); err != nil {
		logging.Logger().Error("customer form not filled", "id", id, "err", err)
	}
}

func (p *customerPage) onSave(core.Control) bool {
	if p.resubmitted {
		p.form.SetErrorText("This form was already submitted.")
		return true
	}
	if !p.form.IsValid() {
		return true
	}
	var c Customer
	if err := p.form.CopyTo(&c); err != nil {
		p.form.SetErrorText(err.Error())
		return true
	}
	ctx := p.Context()
	if err := p.store.Save(ctx.Request().Context(), &c); err != nil {
		logging.Logger().Error("customer not saved", "err", err)
		p.form.SetErrorText("The customer could not be saved.")
		return true
	}
	return p.redirect("/customers.htm")
}

func (p *customerPage) onCancel(core.Control) bool {
	return p.redirect("/customers.htm")
}

func (p *customerPage) redirect(target string) bool {
	ctx := p.Context()
	http.Redirect(ctx.Response(), ctx.Request(), target, http.StatusSeeOther)
	return false
}
