package i18n

import (
	"strings"
	"testing"

	"golang.org/x/text/language"
)

func TestBundle_DefaultMessages(t *testing.T) {
	b := NewBundle(language.English)
	tests := []struct {
		key  string
		args []any
		want string
	}{
		{"field-required-error", []any{"Username"}, "You must enter a value for Username"},
		{"field-minlength-error", []any{"Username", 5}, "Username must be at least 5 characters"},
		{"field-maxlength-error", []any{"Username", 8}, "Username must be no longer than 8 characters"},
		{"table-no-rows-found", nil, "No records found."},
		{"no-such-key", nil, "no-such-key"},
	}
	for _, tt := range tests {
		if got := b.Message(language.English, tt.key, tt.args...); got != tt.want {
			t.Errorf("Message(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestBundle_LoadYAMLOverrides(t *testing.T) {
	b := NewBundle(language.English)
	src := "field-required-error: \"Bitte %s angeben\"\n"
	if err := b.LoadYAML(strings.NewReader(src), language.German); err != nil {
		t.Fatalf("LoadYAML() error = %v", err)
	}

	if got, want := b.Message(language.German, "field-required-error", "Name"), "Bitte Name angeben"; got != want {
		t.Errorf("German message = %q, want %q", got, want)
	}
	// Keys missing in German fall back to English.
	if got, want := b.Message(language.German, "select-error", "Land"), "You must select a value for Land"; got != want {
		t.Errorf("fallback message = %q, want %q", got, want)
	}
}

func TestBundle_Match(t *testing.T) {
	b := NewBundle(language.English)
	if err := b.Set(language.German, map[string]string{"x": "y"}); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		header string
		want   language.Tag
	}{
		{"de-DE,de;q=0.9,en;q=0.5", language.German},
		{"en-US", language.English},
		{"ja", language.English},
		{"", language.English},
		{"!!!", language.English},
	}
	for _, tt := range tests {
		if got := b.Match(tt.header); got != tt.want {
			t.Errorf("Match(%q) = %v, want %v", tt.header, got, tt.want)
		}
	}
}

func TestBundle_LoadYAMLError(t *testing.T) {
	b := NewBundle(language.English)
	if err := b.LoadYAML(strings.NewReader("- not\n- a map\n"), language.French); err == nil {
		t.Error("expected error for non-map YAML")
	}
}
