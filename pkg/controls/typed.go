package controls

import (
	"math"
	"net/mail"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// IntegerField is a text field accepting a whole number within
// [MinValue, MaxValue].
type IntegerField struct {
	TextField
	MinValue int64
	MaxValue int64
}

// NewIntegerField returns an integer field without bounds.
func NewIntegerField(name string) *IntegerField {
	f := &IntegerField{
		TextField: TextField{Size: 20},
		MinValue:  math.MinInt64,
		MaxValue:  math.MaxInt64,
	}
	f.Init(f, name)
	return f
}

// Int returns the parsed value. ok is false for an empty or malformed value.
func (f *IntegerField) Int() (n int64, ok bool) {
	n, err := strconv.ParseInt(f.Value(), 10, 64)
	return n, err == nil
}

func (f *IntegerField) ValueObject() any {
	if n, ok := f.Int(); ok {
		return n
	}
	return nil
}

func (f *IntegerField) Validate() {
	f.TextField.Validate()
	if !f.IsValid() || f.Value() == "" {
		return
	}
	n, ok := f.Int()
	switch {
	case !ok:
		f.SetErrorMessage("number-format-error")
	case n < f.MinValue:
		f.SetErrorMessage("number-minvalue-error", f.MinValue)
	case n > f.MaxValue:
		f.SetErrorMessage("number-maxvalue-error", f.MaxValue)
	}
}

// NumberField is a text field accepting a decimal number within
// [MinValue, MaxValue].
type NumberField struct {
	TextField
	MinValue float64
	MaxValue float64
}

// NewNumberField returns a number field without bounds.
func NewNumberField(name string) *NumberField {
	f := &NumberField{
		TextField: TextField{Size: 20},
		MinValue:  math.Inf(-1),
		MaxValue:  math.Inf(1),
	}
	f.Init(f, name)
	return f
}

// Float returns the parsed value. ok is false for an empty or malformed
// value.
func (f *NumberField) Float() (v float64, ok bool) {
	v, err := strconv.ParseFloat(f.Value(), 64)
	return v, err == nil && !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (f *NumberField) ValueObject() any {
	if v, ok := f.Float(); ok {
		return v
	}
	return nil
}

func (f *NumberField) Validate() {
	f.TextField.Validate()
	if !f.IsValid() || f.Value() == "" {
		return
	}
	v, ok := f.Float()
	switch {
	case !ok:
		f.SetErrorMessage("number-format-error")
	case v < f.MinValue:
		f.SetErrorMessage("number-minvalue-error", f.MinValue)
	case v > f.MaxValue:
		f.SetErrorMessage("number-maxvalue-error", f.MaxValue)
	}
}

// EmailField is a text field accepting a bare address such as
// "someone@example.com".
type EmailField struct {
	TextField
}

// NewEmailField returns an email field of size 30.
func NewEmailField(name string) *EmailField {
	f := &EmailField{TextField{Size: 30}}
	f.Init(f, name)
	return f
}

func (f *EmailField) Validate() {
	f.TextField.Validate()
	if !f.IsValid() || f.Value() == "" {
		return
	}
	if !isEmail(f.Value()) {
		f.SetErrorMessage("email-format-error")
	}
}

func isEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return false
	}
	_, domain, _ := strings.Cut(s, "@")
	return strings.Contains(strings.Trim(domain, "."), ".")
}

// RegexField is a text field whose value must match Pattern entirely.
type RegexField struct {
	TextField
	Pattern *regexp.Regexp
}

// NewRegexField returns a field matching pattern. It panics if pattern does
// not compile.
func NewRegexField(name, pattern string) *RegexField {
	f := &RegexField{TextField: TextField{Size: 20}}
	f.Init(f, name)
	f.SetPattern(pattern)
	return f
}

// SetPattern anchors and compiles pattern.
func (f *RegexField) SetPattern(pattern string) {
	f.Pattern = regexp.MustCompile(`^(?:` + pattern + `)$`)
}

func (f *RegexField) Validate() {
	f.TextField.Validate()
	if !f.IsValid() || f.Value() == "" || f.Pattern == nil {
		return
	}
	if !f.Pattern.MatchString(f.Value()) {
		f.SetErrorMessage("regex-error")
	}
}

// DefaultDateLayout is the layout of a DateField unless set otherwise.
const DefaultDateLayout = "2006-01-02"

// DateField is a text field accepting a date in Layout.
type DateField struct {
	TextField
	// Layout is a time.Parse layout.
	Layout string
	// Location interprets dates without a zone. Nil means UTC.
	Location *time.Location
}

// NewDateField returns a date field using DefaultDateLayout.
func NewDateField(name string) *DateField {
	f := &DateField{TextField: TextField{Size: 20}, Layout: DefaultDateLayout}
	f.Init(f, name)
	return f
}

// Time returns the parsed date. ok is false for an empty or malformed value.
func (f *DateField) Time() (t time.Time, ok bool) {
	if f.Value() == "" {
		return time.Time{}, false
	}
	loc := f.Location
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(f.Layout, f.Value(), loc)
	return t, err == nil
}

// SetTime sets the value from t, or clears it for the zero time.
func (f *DateField) SetTime(t time.Time) {
	if t.IsZero() {
		f.SetValue("")
		return
	}
	f.SetValue(t.Format(f.Layout))
}

func (f *DateField) ValueObject() any {
	if t, ok := f.Time(); ok {
		return t
	}
	return nil
}

// SetValueObject accepts a time.Time, a *time.Time or a string.
func (f *DateField) SetValueObject(v any) {
	switch t := v.(type) {
	case time.Time:
		f.SetTime(t)
	case *time.Time:
		if t != nil {
			f.SetTime(*t)
		}
	case string:
		f.SetValue(t)
	}
}

func (f *DateField) Validate() {
	f.TextField.Validate()
	if !f.IsValid() || f.Value() == "" {
		return
	}
	if _, ok := f.Time(); !ok {
		f.SetErrorMessage("date-format-error", f.Layout)
	}
}

var (
	_ Field = (*IntegerField)(nil)
	_ Field = (*NumberField)(nil)
	_ Field = (*EmailField)(nil)
	_ Field = (*RegexField)(nil)
	_ Field = (*DateField)(nil)
)
