// Package controls provides the standard Click controls: fields, buttons,
// links and the Form, FieldSet and Panel containers.
//
// # Forms
//
// A Form holds fields and buttons and renders them as an HTML form:
//
//	form := controls.NewForm("form")
//	name := controls.NewTextField("name")
//	name.SetRequired(true)
//	form.Add(name)
//	form.Add(controls.NewSubmit("ok", "OK"))
//	form.SetListenerFunc(func(core.Control) bool {
//	    if form.IsValid() {
//	        save(form.FieldValue("name"))
//	    }
//	    return true
//	})
//
// The form processes its fields only when the request submits it, that is
// when the method matches and the form_name parameter carries the form
// name. Each field binds its request value and validates itself; the form
// listener runs after every field and button was processed.
//
// # Layout
//
// Forms and fieldsets lay their members out in a table of label and field
// cells. A control chooses its placement through [Layouter]: hidden fields
// go to the form header, buttons to the button row, labels span both cells.
//
// # Resources
//
// Forms reference a stylesheet and a script under [ResourcePrefix]; mount
// [ResourceHandler] there to serve them.
package controls
