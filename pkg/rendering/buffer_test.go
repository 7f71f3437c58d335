package rendering

import "testing"

func TestBuffer_Element(t *testing.T) {
	var b Buffer
	b.ElementStart("input")
	b.AppendAttribute("type", "text")
	b.AppendAttribute("name", "user")
	b.AppendAttribute("value", `a"b<c`)
	b.AppendOptionalAttribute("title", "")
	b.AppendAttributeInt("size", 20)
	b.AppendAttributeDisabled()
	b.ElementClose()

	want := `<input type="text" name="user" value="a&#34;b&lt;c" size="20" disabled="disabled"/>`
	if got := b.String(); got != want {
		t.Errorf("got %s\nwant %s", got, want)
	}
}

func TestBuffer_JavaScriptAttributeNotEscaped(t *testing.T) {
	var b Buffer
	b.AppendAttribute("onsubmit", "return on_form_submit();")
	b.AppendAttribute("onclick", "a && b")
	want := ` onsubmit="return on_form_submit();" onclick="a && b"`
	if got := b.String(); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestBuffer_AttributesSortedWithoutID(t *testing.T) {
	var b Buffer
	b.AppendAttributes(map[string]string{"style": "x", "class": "y", "id": "z"})
	if got, want := b.String(), ` class="y" style="x"`; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestIsJavaScriptAttribute(t *testing.T) {
	tests := map[string]bool{
		"onclick":  true,
		"onSubmit": true,
		"onfoo":    false,
		"class":    false,
		"on":       false,
	}
	for name, want := range tests {
		if got := IsJavaScriptAttribute(name); got != want {
			t.Errorf("IsJavaScriptAttribute(%q) = %v, want %v", name, got, want)
		}
	}
}
