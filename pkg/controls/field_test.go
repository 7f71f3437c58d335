package controls

import (
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-click/click/pkg/core"
	"github.com/go-click/click/pkg/errors"
	clicktest "github.com/go-click/click/pkg/testing"
)

// expectUsagePanic runs fn and fails unless it panics with a usage error
// wrapping target.
func expectUsagePanic(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected usage panic wrapping %v", target)
		}
		if !errors.IsUsage(r, target) {
			t.Fatalf("panic = %v, want usage error wrapping %v", r, target)
		}
	}()
	fn()
}

func post(params ...string) []clicktest.Option {
	opts := []clicktest.Option{clicktest.Post("/test.htm")}
	for i := 0; i+1 < len(params); i += 2 {
		opts = append(opts, clicktest.Param(params[i], params[i+1]))
	}
	return opts
}

func TestToLabel(t *testing.T) {
	tests := map[string]string{
		"username":   "Username",
		"firstName":  "First Name",
		"first_name": "First Name",
		"zip-code":   "Zip Code",
		"":           "",
	}
	for in, want := range tests {
		if got := ToLabel(in); got != want {
			t.Errorf("ToLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTextField_BindsTrimmedValue(t *testing.T) {
	tester := clicktest.NewTester(t, post("name", "  Ada ")...)
	f := NewTextField("name")

	if !tester.Process(f) {
		t.Fatal("Process returned false")
	}
	if f.Value() != "Ada" {
		t.Errorf("value = %q, want Ada", f.Value())
	}
	if !f.IsValid() {
		t.Errorf("unexpected error %q", f.ErrorText())
	}
}

func TestTextField_TrimDisabled(t *testing.T) {
	tester := clicktest.NewTester(t, post("name", " Ada ")...)
	f := NewTextField("name")
	f.SetTrim(false)
	tester.Process(f)
	if f.Value() != " Ada " {
		t.Errorf("value = %q, want untrimmed", f.Value())
	}
}

func TestTextField_Validation(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		setup   func(*TextField)
		wantErr string
	}{
		{"required empty", "", func(f *TextField) { f.SetRequired(true) }, "You must enter a value for Name"},
		{"optional empty", "", func(f *TextField) { f.MinLength = 3 }, ""},
		{"too short", "ab", func(f *TextField) { f.MinLength = 3 }, "Name must be at least 3 characters"},
		{"too long", "abcd", func(f *TextField) { f.MaxLength = 3 }, "Name must be no longer than 3 characters"},
		{"multibyte length", "äöü", func(f *TextField) { f.MaxLength = 3 }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tester := clicktest.NewTester(t, post("name", tt.value)...)
			f := NewTextField("name")
			tt.setup(f)
			tester.Process(f)
			if f.ErrorText() != tt.wantErr {
				t.Errorf("error = %q, want %q", f.ErrorText(), tt.wantErr)
			}
		})
	}
}

func TestField_DisabledAbsentFromRequestKeepsValue(t *testing.T) {
	tester := clicktest.NewTester(t, post("other", "x")...)
	f := NewTextField("name")
	f.SetDisabled(true)
	f.SetRequired(true)
	f.SetValue("keep")

	tester.Process(f)

	if f.Value() != "keep" || !f.IsValid() {
		t.Errorf("value = %q, error = %q; disabled field should be skipped", f.Value(), f.ErrorText())
	}
}

func TestField_DisabledPresentInRequestIsEnabled(t *testing.T) {
	tester := clicktest.NewTester(t, post("name", "posted")...)
	f := NewTextField("name")
	f.SetDisabled(true)

	tester.Process(f)

	if f.IsDisabled() || f.Value() != "posted" {
		t.Errorf("disabled = %v, value = %q", f.IsDisabled(), f.Value())
	}
}

func TestField_ListenerRunsAfterProcessing(t *testing.T) {
	tester := clicktest.NewTester(t, post("name", "Ada")...)
	f := NewTextField("name")
	var seen string
	f.SetListenerFunc(func(source core.Control) bool {
		seen = source.(*TextField).Value()
		return true
	})
	tester.Process(f)
	if seen != "Ada" {
		t.Errorf("listener saw %q", seen)
	}
}

func TestTextField_RenderEscapesValue(t *testing.T) {
	tester := clicktest.NewTester(t)
	f := NewTextField("name")
	f.SetValue(`"<x>`)
	f.MaxLength = 10

	want := `<input type="text" name="name" id="name" value="&#34;&lt;x&gt;" size="20" maxlength="10"/>`
	if got := tester.Render(f); got != want {
		t.Errorf("render mismatch (-want +got):\n%s", cmp.Diff(want, got))
	}
}

func TestTextField_RenderErrorAndState(t *testing.T) {
	tester := clicktest.NewTester(t)
	f := NewTextField("name")
	f.SetErrorText("bad")
	f.SetReadonly(true)
	f.AddStyleClass("wide")

	got := tester.Render(f)
	for _, want := range []string{`class="wide error"`, `readonly="readonly"`} {
		if !strings.Contains(got, want) {
			t.Errorf("render %q missing %q", got, want)
		}
	}
}

func TestPasswordField_NeverRendersValue(t *testing.T) {
	tester := clicktest.NewTester(t)
	f := NewPasswordField("secret")
	f.SetValue("hunter2")
	got := tester.Render(f)
	if strings.Contains(got, "hunter2") || !strings.Contains(got, `type="password"`) {
		t.Errorf("render = %q", got)
	}
}

func TestTextArea_Render(t *testing.T) {
	tester := clicktest.NewTester(t)
	f := NewTextArea("notes")
	f.SetValue("a < b")
	want := `<textarea name="notes" id="notes" rows="3" cols="20">a &lt; b</textarea>`
	if got := tester.Render(f); got != want {
		t.Errorf("render mismatch (-want +got):\n%s", cmp.Diff(want, got))
	}
}

func TestHiddenField_KeepsWhitespaceAndSkipsValidation(t *testing.T) {
	tester := clicktest.NewTester(t, post("token", " a ")...)
	f := NewHiddenField("token", "")
	f.SetRequired(true)
	tester.Process(f)

	if f.Value() != " a " {
		t.Errorf("value = %q", f.Value())
	}
	if !f.IsValid() {
		t.Errorf("hidden field validated: %q", f.ErrorText())
	}
	want := `<input type="hidden" name="token" id="token" value=" a "/>`
	if got := tester.Render(f); got != want {
		t.Errorf("render = %q, want %q", got, want)
	}
}

func TestHiddenField_FrameworkFieldKeepsName(t *testing.T) {
	f := newFrameworkField(FormName, "form")
	f.SetName("other")
	if f.Name() != FormName {
		t.Errorf("name = %q", f.Name())
	}
}

func TestCheckbox(t *testing.T) {
	t.Run("checked by presence", func(t *testing.T) {
		tester := clicktest.NewTester(t, post("agree", "on")...)
		c := NewCheckbox("agree")
		tester.Process(c)
		if !c.IsChecked() || c.Value() != "true" {
			t.Errorf("checked = %v, value = %q", c.IsChecked(), c.Value())
		}
		want := `<input type="checkbox" name="agree" id="agree" checked="checked"/>`
		if got := tester.Render(c); got != want {
			t.Errorf("render = %q, want %q", got, want)
		}
	})
	t.Run("required unchecked", func(t *testing.T) {
		tester := clicktest.NewTester(t, post("other", "x")...)
		c := NewCheckbox("agree")
		c.SetChecked(true)
		c.SetRequired(true)
		tester.Process(c)
		if c.IsChecked() {
			t.Error("checkbox absent from request should be unchecked")
		}
		if c.ErrorText() != "You must select Agree" {
			t.Errorf("error = %q", c.ErrorText())
		}
	})
	t.Run("value object", func(t *testing.T) {
		c := NewCheckbox("agree")
		c.SetValueObject("yes")
		if c.IsChecked() {
			t.Error("non bool value object should be ignored")
		}
		c.SetValueObject(true)
		if c.ValueObject() != true {
			t.Errorf("value object = %v", c.ValueObject())
		}
	})
	t.Run("readonly carries state", func(t *testing.T) {
		tester := clicktest.NewTester(t)
		c := NewCheckbox("agree")
		c.SetChecked(true)
		c.SetReadonly(true)
		got := tester.Render(c)
		if !strings.Contains(got, `disabled="disabled"`) || !strings.Contains(got, `<input type="hidden" name="agree" value="on"/>`) {
			t.Errorf("render = %q", got)
		}
	})
}

func newColorSelect() *Select {
	s := NewSelect("color")
	s.Add(Option{Value: "", Label: "Choose"}, NewOption("red"), NewOption("green"))
	return s
}

func TestSelect_Validation(t *testing.T) {
	tests := []struct {
		value   string
		wantErr string
	}{
		{"", "You must select a value for Color"},
		{"red", ""},
	}
	for _, tt := range tests {
		tester := clicktest.NewTester(t, post("color", tt.value)...)
		s := newColorSelect()
		s.SetRequired(true)
		tester.Process(s)
		if s.ErrorText() != tt.wantErr {
			t.Errorf("value %q: error = %q, want %q", tt.value, s.ErrorText(), tt.wantErr)
		}
	}
}

func TestSelect_RequiredWithoutOptionsPanics(t *testing.T) {
	tester := clicktest.NewTester(t, post("color", "red")...)
	s := NewSelect("color")
	s.SetRequired(true)
	tester.Bind(s)
	s.BindRequestValue()
	expectUsagePanic(t, errors.ErrInvalidValue, s.Validate)
}

func TestSelect_Render(t *testing.T) {
	tester := clicktest.NewTester(t)
	s := newColorSelect()
	s.SetValue("red")
	want := `<select name="color" id="color" size="1">` +
		`<option value="">Choose</option>` +
		`<option value="red" selected="selected">red</option>` +
		`<option value="green">green</option></select>`
	if got := tester.Render(s); got != want {
		t.Errorf("render mismatch (-want +got):\n%s", cmp.Diff(want, got))
	}
}

func TestSelect_MultipleAndLazyOptions(t *testing.T) {
	tester := clicktest.NewTester(t, clicktest.Post("/test.htm"), clicktest.Param("tags", "a", "c"))
	s := NewSelect("tags")
	s.Multiple = true
	loads := 0
	s.Options = func() []Option {
		loads++
		return []Option{NewOption("a"), NewOption("b"), NewOption("c")}
	}
	tester.Process(s)

	if diff := cmp.Diff([]string{"a", "c"}, s.SelectedValues()); diff != "" {
		t.Errorf("selected mismatch (-want +got):\n%s", diff)
	}
	got := tester.Render(s)
	tester.Render(s)
	if loads != 1 {
		t.Errorf("options loaded %d times", loads)
	}
	if strings.Count(got, `selected="selected"`) != 2 {
		t.Errorf("render = %q", got)
	}
}

func TestRadioGroup(t *testing.T) {
	tester := clicktest.NewTester(t, post("size", "m")...)
	g := NewRadioGroup("size")
	small, medium := NewRadio("s", "Small"), NewRadio("m", "")
	g.Add(small, medium)
	tester.Process(g)

	if g.Value() != "m" || !medium.IsChecked() || small.IsChecked() {
		t.Errorf("value = %q, checked = %v/%v", g.Value(), small.IsChecked(), medium.IsChecked())
	}
	got := tester.Render(g)
	want := `<input type="radio" name="size" id="size_m" value="m" checked="checked"/><label for="size_m">m</label>`
	if !strings.Contains(got, want) {
		t.Errorf("render %q missing %q", got, want)
	}
	if g.FocusJavaScript() != "setFocus('size_s');" {
		t.Errorf("focus = %q", g.FocusJavaScript())
	}
}

func TestRadioGroup_Required(t *testing.T) {
	tester := clicktest.NewTester(t, post("other", "x")...)
	g := NewRadioGroup("size")
	g.Add(NewRadio("s", ""))
	g.SetRequired(true)
	tester.Process(g)
	if g.ErrorText() != "You must select a value for Size" {
		t.Errorf("error = %q", g.ErrorText())
	}
	if got := tester.Render(g); !strings.HasPrefix(got, `<span class="error">`) {
		t.Errorf("render = %q", got)
	}
}

func TestTypedFields(t *testing.T) {
	tests := []struct {
		name    string
		field   Field
		value   string
		wantErr string
	}{
		{"integer ok", NewIntegerField("age"), "42", ""},
		{"integer format", NewIntegerField("age"), "4x", "Age must be a number"},
		{"integer min", func() Field { f := NewIntegerField("age"); f.MinValue = 18; return f }(), "5", "Age must not be smaller than 18"},
		{"integer max", func() Field { f := NewIntegerField("age"); f.MaxValue = 99; return f }(), "120", "Age must not be larger than 99"},
		{"number ok", NewNumberField("price"), "9.5", ""},
		{"number format", NewNumberField("price"), "NaN", "Price must be a number"},
		{"email ok", NewEmailField("email"), "ada@example.com", ""},
		{"email without dot", NewEmailField("email"), "ada@example", "Email is not a valid email address"},
		{"email with name", NewEmailField("email"), "Ada <ada@example.com>", "Email is not a valid email address"},
		{"regex ok", NewRegexField("code", "[A-Z]{3}"), "ABC", ""},
		{"regex anchored", NewRegexField("code", "[A-Z]{3}"), "ABCD", "Code is not in the required format"},
		{"date ok", NewDateField("birthday"), "2024-02-29", ""},
		{"date invalid", NewDateField("birthday"), "2023-02-29", "Birthday must be a date with format 2006-01-02"},
		{"empty optional", NewDateField("birthday"), "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tester := clicktest.NewTester(t, post(tt.field.Name(), tt.value)...)
			tester.Process(tt.field)
			if tt.field.ErrorText() != tt.wantErr {
				t.Errorf("error = %q, want %q", tt.field.ErrorText(), tt.wantErr)
			}
		})
	}
}

func TestTypedFields_ValueObjects(t *testing.T) {
	age := NewIntegerField("age")
	age.SetValue("42")
	if age.ValueObject() != int64(42) {
		t.Errorf("integer value object = %#v", age.ValueObject())
	}
	age.SetValue("")
	if age.ValueObject() != nil {
		t.Errorf("empty integer value object = %#v", age.ValueObject())
	}

	d := NewDateField("day")
	d.SetValue("2024-03-01")
	tm, ok := d.Time()
	if !ok || tm.Year() != 2024 || tm.Month() != 3 {
		t.Errorf("time = %v, %v", tm, ok)
	}
	d.SetValueObject(tm.AddDate(0, 0, 1))
	if d.Value() != "2024-03-02" {
		t.Errorf("value = %q", d.Value())
	}
}

func TestFileField(t *testing.T) {
	t.Run("upload", func(t *testing.T) {
		tester := clicktest.NewTester(t, clicktest.Post("/test.htm"),
			clicktest.File("doc", "a.txt", []byte("hello")))
		f := NewFileField("doc")
		f.SetRequired(true)
		tester.Process(f)

		if f.Value() != "a.txt" || !f.IsValid() {
			t.Fatalf("value = %q, error = %q", f.Value(), f.ErrorText())
		}
		r, err := f.Open()
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		defer r.Close()
		data, _ := io.ReadAll(r)
		if string(data) != "hello" {
			t.Errorf("data = %q", data)
		}
	})
	t.Run("required missing", func(t *testing.T) {
		tester := clicktest.NewTester(t, post("other", "x")...)
		f := NewFileField("doc")
		f.SetRequired(true)
		tester.Process(f)
		if f.ErrorText() != "You must enter a filename for Doc" {
			t.Errorf("error = %q", f.ErrorText())
		}
		if _, err := f.Open(); err != ErrNoUpload {
			t.Errorf("Open error = %v", err)
		}
	})
	t.Run("max size", func(t *testing.T) {
		tester := clicktest.NewTester(t, clicktest.Post("/test.htm"),
			clicktest.File("doc", "a.txt", []byte("hello")))
		f := NewFileField("doc")
		f.MaxSize = 2
		tester.Process(f)
		if f.ErrorText() != "The file Doc exceeds the permitted size of 2 B" {
			t.Errorf("error = %q", f.ErrorText())
		}
	})
}

func TestLabel_SharesNameAndRendersMarkup(t *testing.T) {
	l := NewLabel("note", "<b>Note</b>")
	if !l.SharesName() || LayoutOf(l) != LayoutLabel {
		t.Error("label should share names and use the label layout")
	}
	if got := clicktest.NewTester(t).Render(l); got != "<b>Note</b>" {
		t.Errorf("render = %q", got)
	}
}
