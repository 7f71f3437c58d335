package controls

import (
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-click/click/pkg/core"
	"github.com/go-click/click/pkg/errors"
	clicktest "github.com/go-click/click/pkg/testing"
)

func names(controls []core.Control) []string {
	out := make([]string, 0, len(controls))
	for _, c := range controls {
		out = append(out, c.Name())
	}
	return out
}

func newLoginForm() (*Form, *TextField, *Submit) {
	form := NewForm("form")
	user := NewTextField("username")
	user.SetRequired(true)
	ok := NewSubmit("ok", "Ok")
	form.Add(user)
	form.Add(ok)
	return form, user, ok
}

func TestForm_GetRequestLeavesFieldsUnprocessed(t *testing.T) {
	tester := clicktest.NewTester(t, clicktest.Param("username", "ada"))
	form, user, _ := newLoginForm()
	var log []string
	user.SetListenerFunc(func(core.Control) bool { log = append(log, "field"); return true })

	tester.Process(form)

	if user.Value() != "" || !user.IsValid() || len(log) != 0 {
		t.Errorf("value = %q, error = %q, listeners = %v", user.Value(), user.ErrorText(), log)
	}
	if form.IsFormSubmission() {
		t.Error("GET request reported as a submission")
	}
}

func TestForm_SubmissionValidatesAndFiresListeners(t *testing.T) {
	tester := clicktest.NewTester(t, post(FormName, "form", "username", "", "ok", "Ok")...)
	form, user, ok := newLoginForm()
	var log []string
	record := func(name string) func(core.Control) bool {
		return func(core.Control) bool { log = append(log, name); return true }
	}
	user.SetListenerFunc(record("username"))
	ok.SetListenerFunc(record("ok"))
	form.SetListenerFunc(record("form"))

	if !tester.Process(form) {
		t.Fatal("Process returned false")
	}

	if user.ErrorText() != "You must enter a value for Username" {
		t.Errorf("error = %q", user.ErrorText())
	}
	if form.IsValid() {
		t.Error("form with an invalid field reported valid")
	}
	if !ok.IsClicked() {
		t.Error("submit button not clicked")
	}
	if diff := cmp.Diff([]string{"username", "ok", "form"}, log); diff != "" {
		t.Errorf("listener order mismatch (-want +got):\n%s", diff)
	}
}

func TestForm_OtherFormNameIsNotSubmitted(t *testing.T) {
	tester := clicktest.NewTester(t, post(FormName, "other", "username", "ada")...)
	form, user, _ := newLoginForm()
	tester.Process(form)
	if user.Value() != "" {
		t.Errorf("value = %q", user.Value())
	}
}

func TestForm_InsertKeepsFrameworkFieldsLast(t *testing.T) {
	form := NewForm("form")
	a, b, c, d := NewTextField("a"), NewTextField("b"), NewTextField("c"), NewTextField("d")
	form.Add(a)
	form.Add(b)
	form.Add(c)
	form.Insert(d, 0)
	ok := form.Add(NewSubmit("ok", ""))

	if diff := cmp.Diff([]string{"d", "a", "b", "c", "ok", FormName}, names(form.Controls())); diff != "" {
		t.Errorf("controls mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"d", "a", "b", "c", FormName}, names(form.FieldList())); diff != "" {
		t.Errorf("field list mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"ok"}, names(form.ButtonList())); diff != "" {
		t.Errorf("button list mismatch (-want +got):\n%s", diff)
	}
	if a.Form() != form || ok.(*Submit).Form() != form {
		t.Error("members should reference the form")
	}
	if a.ID() != "form_a" {
		t.Errorf("id = %q", a.ID())
	}
}

func TestForm_Remove(t *testing.T) {
	form := NewForm("form")
	a := NewTextField("a")
	form.Add(a)
	form.AddWidth(a, 2)

	if !form.RemoveField("a") {
		t.Fatal("RemoveField returned false")
	}
	if a.Form() != nil || form.Field("a") != nil {
		t.Error("removed field still attached")
	}
	if _, ok := form.FieldWidths()["a"]; ok {
		t.Error("width kept for removed field")
	}
	if form.RemoveField("a") {
		t.Error("second removal reported true")
	}
	form.Add(NewTextField("b"))
	if diff := cmp.Diff([]string{"b", FormName}, names(form.Controls())); diff != "" {
		t.Errorf("controls mismatch (-want +got):\n%s", diff)
	}
}

func TestForm_Replace(t *testing.T) {
	form := NewForm("form")
	old := NewTextField("city")
	form.Add(old)
	repl := NewTextArea("city")
	form.Replace(old, repl)

	if form.Field("city") != Field(repl) || old.Form() != nil || repl.Form() != form {
		t.Error("replacement not installed")
	}
	if diff := cmp.Diff([]string{"city", FormName}, names(form.FieldList())); diff != "" {
		t.Errorf("field list mismatch (-want +got):\n%s", diff)
	}
}

func TestForm_ReplaceNameClash(t *testing.T) {
	form := NewForm("form")
	a := NewTextField("a")
	form.Add(a)
	form.Add(NewTextField("b"))

	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Fatal("expected panic")
			}
		}()
		form.Replace(a, NewTextField("b"))
	}()

	if diff := cmp.Diff([]string{"a", "b", FormName}, names(form.Controls())); diff != "" {
		t.Errorf("controls mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b", FormName}, names(form.FieldList())); diff != "" {
		t.Errorf("field list mismatch (-want +got):\n%s", diff)
	}
	if a.Form() != form || !a.Parent().IsContainer(form) {
		t.Error("replaced control lost its form")
	}
}

func TestForm_InsertAfterButton(t *testing.T) {
	form := NewForm("form")
	form.Add(NewSubmit("ok", ""))
	form.Add(NewTextField("a"))
	form.Insert(NewTextField("x"), 1)

	if diff := cmp.Diff([]string{"ok", "x", "a", FormName}, names(form.Controls())); diff != "" {
		t.Errorf("controls mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"x", "a", FormName}, names(form.FieldList())); diff != "" {
		t.Errorf("field list mismatch (-want +got):\n%s", diff)
	}
}

func TestForm_UsagePanics(t *testing.T) {
	form := NewForm("form")
	tests := map[string]func(){
		"nil control":      func() { form.Add(nil) },
		"index":            func() { form.Insert(NewTextField("x"), 10) },
		"button width":     func() { form.AddWidth(NewSubmit("ok", ""), 2) },
		"hidden width":     func() { form.AddWidth(NewHiddenField("h", ""), 2) },
		"zero width":       func() { form.AddWidth(NewTextField("x"), 0) },
		"columns":          func() { form.SetColumns(0) },
		"errors position":  func() { form.SetErrorsPosition(PositionLeft) },
		"labels position":  func() { form.SetLabelsPosition(PositionBottom) },
		"alignment":        func() { form.SetButtonAlign("justify") },
		"fieldset columns": func() { NewFieldSet("fs").SetColumns(-1) },
	}
	for name, fn := range tests {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if r := recover(); r == nil {
					t.Fatal("expected panic")
				} else if _, ok := r.(*errors.ClickError); !ok {
					t.Fatalf("panic value %T, want *errors.ClickError", r)
				}
			}()
			fn()
		})
	}
	expectUsagePanic(t, errors.ErrIndexOutOfRange, func() { form.Insert(NewTextField("y"), -1) })
}

func TestForm_Render(t *testing.T) {
	tester := clicktest.NewTester(t)
	form := NewForm("form")
	form.Add(NewTextField("username"))
	form.Add(NewSubmit("ok", "Ok"))

	want := `<form method="post" name="form" id="form" action="/test.htm">
<input type="hidden" name="form_name" id="form_form_name" value="form"/>
<table class="form" id="form-form"><tbody>
<tr><td>
<table class="fields" id="form-fields"><tbody>
<tr class="fields">
<td class="fields" align="left"><label for="form_username">Username</label>&nbsp;</td>
<td align="left"><input type="text" name="username" id="form_username" value="" size="20"/></td>
</tr>
</tbody></table>
</td></tr>
<tr><td align="left">
<table class="buttons" id="form-buttons"><tbody>
<tr class="buttons"><td class="buttons"><input type="submit" name="ok" id="form_ok" value="Ok"/></td></tr>
</tbody></table>
</td></tr>
</tbody></table>
</form>
`
	if got := tester.Render(form); got != want {
		t.Errorf("render mismatch (-want +got):\n%s", cmp.Diff(want, got))
	}
}

func TestForm_RenderErrors(t *testing.T) {
	tester := clicktest.NewTester(t, post(FormName, "form", "username", "")...)
	form, _, _ := newLoginForm()
	form.SetErrorText("Try again")
	tester.Process(form)
	form.SetErrorText("Try again")
	got := tester.Render(form)

	for _, want := range []string{
		`<label for="form_username" class="error">Username</label><span class="red">*</span>`,
		`<input type="text" name="username" id="form_username" value="" size="20" class="error"/>`,
		"<table class=\"errors\" id=\"form-errors\"><tbody>\n",
		"<span class=\"error\">Try again</span>\n",
		`<a class="error" href="javascript:setFocus('form_username');">You must enter a value for Username</a>`,
		"<script type=\"text/javascript\"><!--\nsetFocus('form_username');\n//--></script>\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("render missing %q\n%s", want, got)
		}
	}
	if fields, errs := strings.Index(got, "form-fields"), strings.Index(got, "form-errors"); fields > errs {
		t.Error("errors should follow the fields by default")
	}

	form.SetErrorsPosition(PositionTop)
	got = tester.Render(form)
	if fields, errs := strings.Index(got, "form-fields"), strings.Index(got, "form-errors"); errs > fields {
		t.Error("errors should precede the fields when placed on top")
	}
}

func TestForm_ErrorsHiddenOnGet(t *testing.T) {
	tester := clicktest.NewTester(t)
	form, user, _ := newLoginForm()
	user.SetErrorText("stale")
	if got := tester.Render(form); strings.Contains(got, "form-errors") {
		t.Errorf("errors rendered for a GET request:\n%s", got)
	}
}

func TestForm_LayoutHints(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*TextField)
		want  []string
	}{
		{
			"parent style hint",
			func(f *TextField) { f.ParentStyleHint = "color: green" },
			[]string{`<td class="fields" align="left" style="color: green"><label`, `<td align="left" style="color: green"><input`},
		},
		{
			"parent class hint",
			func(f *TextField) { f.ParentStyleClassHint = "autumn" },
			[]string{`<td class="fields autumn" align="left"><label`, `<td class="autumn" align="left"><input`},
		},
		{
			"label style",
			func(f *TextField) { f.LabelStyle = "color: green" },
			[]string{`<label for="form_field" style="color: green">`},
		},
		{
			"label class",
			func(f *TextField) { f.LabelStyleClass = "autumn" },
			[]string{`<label for="form_field" class="autumn">`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tester := clicktest.NewTester(t)
			form := NewForm("form")
			field := NewTextField("field")
			tt.setup(field)
			form.Add(field)
			got := tester.Render(form)
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("render missing %q\n%s", want, got)
				}
			}
		})
	}
}

func TestForm_FormStylesApplyWithoutHints(t *testing.T) {
	tester := clicktest.NewTester(t)
	form := NewForm("form")
	form.LabelStyle = "width: 10em"
	form.FieldStyle = "width: 20em"
	form.Add(NewTextField("field"))
	got := tester.Render(form)
	for _, want := range []string{
		`<td class="fields" align="left" style="width: 10em"><label`,
		`<td align="left" style="width: 20em"><input`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("render missing %q", want)
		}
	}
}

func TestForm_Columns(t *testing.T) {
	tester := clicktest.NewTester(t)
	form := NewForm("form")
	form.SetColumns(2)
	a, b, c := NewTextField("a"), NewTextField("b"), NewTextField("c")
	form.Add(a)
	form.Add(b)
	form.Add(c)
	form.AddWidth(c, 2)

	got := tester.Render(form)
	if n := strings.Count(got, `<tr class="fields">`); n != 2 {
		t.Errorf("rows = %d, want 2", n)
	}
	if !strings.Contains(got, `<td align="left" colspan="3"><input type="text" name="c"`) {
		t.Errorf("wide field cell missing\n%s", got)
	}
}

func TestForm_LabelsOnTop(t *testing.T) {
	tester := clicktest.NewTester(t)
	form := NewForm("form")
	form.SetLabelsPosition(PositionTop)
	form.Add(NewTextField("a"))
	got := tester.Render(form)
	if !strings.Contains(got, `<td class="fields" valign="top"><label for="form_a">A</label>&nbsp;<br/><input`) {
		t.Errorf("top label layout missing\n%s", got)
	}
}

func TestForm_LabelsSpanBothCells(t *testing.T) {
	tester := clicktest.NewTester(t)
	form := NewForm("form")
	form.Add(NewLabel("intro", "<b>Hello</b>"))
	got := tester.Render(form)
	if !strings.Contains(got, `<td class="fields" align="left" colspan="2"><b>Hello</b></td>`) {
		t.Errorf("label cell missing\n%s", got)
	}
}

func TestForm_HiddenFieldsInHeader(t *testing.T) {
	tester := clicktest.NewTester(t)
	form := NewForm("form")
	form.Add(NewHiddenField("id", "7"))
	got := tester.Render(form)
	want := "action=\"/test.htm\">\n" +
		`<input type="hidden" name="id" id="form_id" value="7"/>` + "\n" +
		`<input type="hidden" name="form_name" id="form_form_name" value="form"/>` + "\n" +
		`<table class="form" id="form-form"><tbody>` + "\n</tbody></table>\n"
	if !strings.Contains(got, want) {
		t.Errorf("render mismatch:\n%s", got)
	}
}

func TestForm_MultipartWithFileField(t *testing.T) {
	tester := clicktest.NewTester(t)
	form := NewForm("form")
	form.Add(NewFileField("doc"))
	if got := tester.Render(form); !strings.Contains(got, `enctype="multipart/form-data"`) {
		t.Errorf("missing multipart enctype\n%s", got)
	}
}

func TestForm_JavaScriptValidation(t *testing.T) {
	t.Run("fields with checks", func(t *testing.T) {
		tester := clicktest.NewTester(t)
		form, _, _ := newLoginForm()
		form.JavaScriptValidation = true
		got := tester.Render(form)
		for _, want := range []string{
			`onsubmit="return on_form_submit();"`,
			`<tr style="display:none" id="form-errorsTr">`,
			"function on_form_submit() {\n" +
				"   var msgs = new Array(1);\n" +
				"   msgs[0] = validate_form_username();\n" +
				"   return validateForm(msgs, 'form', 'left', null);\n}\n",
			"function validate_form_username() {\n" +
				"   var msg = validateTextField('form_username', true, 0, 0,",
		} {
			if !strings.Contains(got, want) {
				t.Errorf("render missing %q\n%s", want, got)
			}
		}
	})
	t.Run("no checks", func(t *testing.T) {
		tester := clicktest.NewTester(t)
		form := NewForm("form")
		form.Add(NewCheckbox("agree"))
		form.JavaScriptValidation = true
		form.ErrorsStyle = "color: red"
		got := tester.Render(form)
		if !strings.Contains(got, "function on_form_submit() {\n   return true;\n}\n//--></script>\n") {
			t.Errorf("render missing trivial submit handler\n%s", got)
		}
	})
}

func TestForm_FocusFirstFocusField(t *testing.T) {
	tester := clicktest.NewTester(t)
	form := NewForm("form")
	a, b := NewTextField("a"), NewTextField("b")
	b.SetFocus(true)
	form.Add(a)
	form.Add(b)
	if got := tester.Render(form); !strings.Contains(got, "setFocus('form_b');") {
		t.Errorf("focus script missing\n%s", got)
	}
}

func TestForm_DefaultFieldSizeAndState(t *testing.T) {
	form := NewForm("form")
	form.DefaultFieldSize = 40
	f := NewTextField("a")
	form.Add(f)
	if f.Size != 40 {
		t.Errorf("size = %d", f.Size)
	}
	form.Disabled = true
	form.Readonly = true
	if !f.IsDisabled() || !f.IsReadonly() {
		t.Error("form state should apply to its fields")
	}
}

func TestForm_IndependentControlsProcessedWithoutSubmission(t *testing.T) {
	tester := clicktest.NewTester(t, clicktest.Param(ActionLinkParam, "delete"), clicktest.Param(ValueParam, "7"))
	form := NewForm("form")
	user := NewTextField("username")
	user.SetValue("kept")
	link := NewActionLink("delete", "")
	form.Add(user)
	form.Add(link)
	var deleted int
	link.SetListenerFunc(func(core.Control) bool {
		deleted, _ = link.ValueInt()
		return true
	})

	tester.Process(form)

	if deleted != 7 || !link.IsClicked() {
		t.Errorf("deleted = %d, clicked = %v", deleted, link.IsClicked())
	}
	if user.Value() != "kept" {
		t.Errorf("field processed without a submission: %q", user.Value())
	}
}

func TestForm_OnSubmitCheck(t *testing.T) {
	const token = "SUBMIT_CHECK_form_test.htm"
	tester := clicktest.NewTester(t, post(FormName, "form", token, "123")...)
	form := NewForm("form")
	tester.Bind(form)
	if err := tester.Session(true).Set(token, int64(123)); err != nil {
		t.Fatal(err)
	}

	if !form.OnSubmitCheck() {
		t.Fatal("first submission rejected")
	}
	h, ok := form.Control(token).(*HiddenField)
	if !ok || h.Value() == "" || h.Value() == "123" {
		t.Fatalf("token field = %v", form.Control(token))
	}
	if form.OnSubmitCheck() {
		t.Error("resubmission accepted")
	}
	if diff := cmp.Diff([]string{token}, names(form.Controls())[1:]); diff != "" {
		t.Errorf("token field should be added once (-want +got):\n%s", diff)
	}
}

func TestForm_OnSubmitCheckWithoutStoredToken(t *testing.T) {
	tester := clicktest.NewTester(t, post(FormName, "form")...)
	form := NewForm("form")
	tester.Bind(form)
	if !form.OnSubmitCheck() {
		t.Error("submission without a stored token rejected")
	}
}

func TestForm_OnSubmitCheckAjax(t *testing.T) {
	tester := clicktest.NewTester(t, clicktest.Ajax(), clicktest.Post("/test.htm"), clicktest.Param(FormName, "form"))
	form := NewForm("form")
	tester.Bind(form)
	if !form.OnSubmitCheck() {
		t.Error("ajax request rejected")
	}
	if len(form.Controls()) != 1 {
		t.Error("ajax request issued a token")
	}
}

func TestForm_TokenFieldSkippedWhileProcessing(t *testing.T) {
	const token = "SUBMIT_CHECK_form_test.htm"
	tester := clicktest.NewTester(t, post(FormName, "form", token, "999")...)
	form := NewForm("form")
	tester.Bind(form)
	form.OnSubmitCheck()
	issued := form.Control(token).(*HiddenField).Value()
	tester.Process(form)
	if got := form.Control(token).(*HiddenField).Value(); got != issued {
		t.Errorf("token rebound from request: %q", got)
	}
}

func TestForm_UploadLimitBecomesFormError(t *testing.T) {
	tester := clicktest.NewTester(t,
		clicktest.WithUploadLimits(1<<20, 4),
		clicktest.File("doc", "a.txt", []byte("hello")),
		clicktest.Param(FormName, "form"))
	form := NewForm("form")
	doc := NewFileField("doc")
	form.Add(doc)

	tester.Process(form)

	if form.ErrorText() != "The file Doc exceeds the permitted size of 4 B" {
		t.Errorf("error = %q", form.ErrorText())
	}
	if tester.UploadError() != nil {
		t.Error("upload error not consumed")
	}
	if doc.Value() != "" {
		t.Errorf("file field processed: %q", doc.Value())
	}
}

func TestForm_CopyToAndFrom(t *testing.T) {
	type customer struct {
		Name       string
		Age        int
		Subscribed bool
		Note       string `click:"remarks"`
	}
	form := NewForm("form")
	name, age, sub := NewTextField("name"), NewIntegerField("age"), NewCheckbox("subscribed")
	remarks, other := NewTextArea("remarks"), NewTextField("unknown")
	for _, c := range []core.Control{name, age, sub, remarks, other} {
		form.Add(c)
	}
	name.SetValue("Ada")
	age.SetValue("36")
	sub.SetChecked(true)
	remarks.SetValue("vip")
	other.SetValue("x")

	var got customer
	if err := form.CopyTo(&got); err != nil {
		t.Fatalf("CopyTo: %v", err)
	}
	if diff := cmp.Diff(customer{"Ada", 36, true, "vip"}, got); diff != "" {
		t.Errorf("CopyTo mismatch (-want +got):\n%s", diff)
	}

	if err := form.CopyFrom(&customer{Name: "Bob", Age: 40, Note: "new"}); err != nil {
		t.Fatalf("CopyFrom: %v", err)
	}
	values := map[string]string{}
	for _, f := range form.InputFields() {
		values[f.Name()] = f.Value()
	}
	want := map[string]string{
		"name": "Bob", "age": "40", "subscribed": "false", "remarks": "new",
		"unknown": "x", FormName: "form",
	}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Errorf("CopyFrom mismatch (-want +got):\n%s", diff)
	}
}

func TestForm_ClearValuesKeepsFormName(t *testing.T) {
	form := NewForm("form")
	a := NewTextField("a")
	a.SetValue("x")
	a.SetErrorText("bad")
	form.Add(a)
	form.ClearValues()
	form.ClearErrors()
	if a.Value() != "" || !a.IsValid() || form.FieldValue(FormName) != "form" {
		t.Errorf("value = %q, error = %q, form name = %q", a.Value(), a.ErrorText(), form.FieldValue(FormName))
	}
}

func TestForm_ErrorFieldsSkipHidden(t *testing.T) {
	form := NewForm("form")
	a, h := NewTextField("a"), NewHiddenField("h", "")
	a.SetErrorText("bad")
	h.SetErrorText("bad")
	form.Add(a)
	form.Add(h)
	got := form.ErrorFields()
	if len(got) != 1 || got[0] != Field(a) {
		t.Errorf("error fields = %v", got)
	}
}

func TestForm_HeadElements(t *testing.T) {
	form := NewForm("form")
	form.Add(NewAutoCompleteTextField("city", nil))
	got := form.HeadElements()
	want := []core.HeadElement{
		core.CssImport{Href: "/click/control.css"},
		core.JsImport{Src: "/click/control.js"},
		core.JsImport{Src: "/click/autocomplete.js"},
	}
	if !slices.Equal(want, got[:min(len(got), 3)]) {
		t.Errorf("head elements = %#v", got)
	}
}

func TestFieldSet(t *testing.T) {
	tester := clicktest.NewTester(t, post(FormName, "form", "city", "Paris", "zone", "eu")...)
	form := NewForm("form")
	fs := NewFieldSet("address")
	city := NewTextField("city")
	fs.Add(city)
	fs.Add(NewHiddenField("zone", "eu"))
	form.Add(fs)

	if city.Form() != form || fs.ID() != "form_address" || city.ID() != "form_city" {
		t.Fatalf("form = %v, fieldset id = %q, city id = %q", city.Form(), fs.ID(), city.ID())
	}
	tester.Process(form)
	if form.FieldValue("city") != "Paris" {
		t.Errorf("city = %q", form.FieldValue("city"))
	}

	got := tester.Render(form)
	for _, want := range []string{
		`<input type="hidden" name="zone" id="form_zone" value="eu"/>` + "\n" + `<input type="hidden" name="form_name"`,
		"<td class=\"fields\" align=\"left\" colspan=\"2\">\n<fieldset id=\"form_address\">\n<legend id=\"form_address-legend\">Address</legend>\n<table class=\"fields\" id=\"form_address-fields\">",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("render missing %q\n%s", want, got)
		}
	}

	fs.Remove(city)
	if city.Form() != nil {
		t.Error("removed field keeps the form")
	}
}

func TestFieldSet_LegendAndStandaloneHiddenFields(t *testing.T) {
	tester := clicktest.NewTester(t)
	fs := NewFieldSet("details")
	fs.Legend = "More"
	fs.Add(NewHiddenField("h", "1"))
	want := "<fieldset id=\"details\">\n" +
		`<input type="hidden" name="h" id="h" value="1"/>` + "\n" +
		"<legend id=\"details-legend\">More</legend>\n</fieldset>\n"
	if got := tester.Render(fs); got != want {
		t.Errorf("render mismatch (-want +got):\n%s", cmp.Diff(want, got))
	}
}
