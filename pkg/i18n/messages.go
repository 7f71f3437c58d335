// Package i18n resolves control and table messages for the request locale.
package i18n

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// Defaults are the built-in English messages. Formats use printf verbs.
var Defaults = map[string]string{
	"field-required-error":           "You must enter a value for %s",
	"field-minlength-error":          "%s must be at least %d characters",
	"field-maxlength-error":          "%s must be no longer than %d characters",
	"file-required-error":            "You must enter a filename for %s",
	"select-error":                   "You must select a value for %s",
	"checkbox-error":                 "You must select %s",
	"number-format-error":            "%s must be a number",
	"number-minvalue-error":          "%s must not be smaller than %v",
	"number-maxvalue-error":          "%s must not be larger than %v",
	"email-format-error":             "%s is not a valid email address",
	"regex-error":                    "%s is not in the required format",
	"date-format-error":              "%s must be a date with format %s",
	"post-size-limit-exceeded-error": "The request of %s exceeds the permitted size of %s",
	"file-size-limit-exceeded-error": "The file %s exceeds the permitted size of %s",
	"submit-check-error":             "The form was already submitted",
	"label-required-prefix":          "",
	"label-required-suffix":          `<span class="red">*</span>`,
	"label-not-required-prefix":      "",
	"label-not-required-suffix":      "&nbsp;",
	"table-first-label":              "First",
	"table-previous-label":           "Prev",
	"table-next-label":               "Next",
	"table-last-label":               "Last",
	"table-first-title":              "Go to first page",
	"table-previous-title":           "Go to previous page",
	"table-next-title":               "Go to next page",
	"table-last-title":               "Go to last page",
	"table-goto-title":               "Go to page",
	"table-page-banner":              `<span class="pagebanner">%d items found, displaying %d to %d.</span>`,
	"table-page-banner-nolinks":      `<span class="pagebanner-nolinks">%d items found, displaying %d to %d.</span>`,
	"table-page-links":               `<span class="pagelinks">[%s/%s] %s [%s/%s]</span>`,
	"table-page-links-nobanner":      `<span class="pagelinks-nobanner">[%s/%s] %s [%s/%s]</span>`,
	"table-inline-page-links":        `Page %s %s %s %s %s`,
	"table-no-rows-found":            "No records found.",
}

// Bundle holds messages for a set of locales. It is safe for concurrent use
// once loading has finished.
type Bundle struct {
	mu       sync.RWMutex
	builder  *catalog.Builder
	messages map[language.Tag]map[string]string
	tags     []language.Tag
	matcher  language.Matcher
	printers map[language.Tag]*message.Printer
}

// NewBundle returns a bundle whose fallback language holds Defaults.
func NewBundle(fallback language.Tag) *Bundle {
	b := &Bundle{
		builder:  catalog.NewBuilder(catalog.Fallback(fallback)),
		messages: make(map[language.Tag]map[string]string),
		printers: make(map[language.Tag]*message.Printer),
	}
	if err := b.Set(fallback, Defaults); err != nil {
		// Defaults are static and always valid.
		panic(err)
	}
	return b
}

// Set registers messages for tag, replacing existing keys.
func (b *Bundle) Set(tag language.Tag, msgs map[string]string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	keys := make([]string, 0, len(msgs))
	for k := range msgs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	m, ok := b.messages[tag]
	if !ok {
		m = make(map[string]string, len(msgs))
		b.messages[tag] = m
		b.tags = append(b.tags, tag)
		b.matcher = language.NewMatcher(b.tags)
	}
	for _, k := range keys {
		if err := b.builder.SetString(tag, k, msgs[k]); err != nil {
			return fmt.Errorf("failed to set message %s for %s: %w", k, tag, err)
		}
		m[k] = msgs[k]
	}
	b.printers = make(map[language.Tag]*message.Printer)
	return nil
}

// LoadYAML reads a flat key: format mapping and registers it for tag.
func (b *Bundle) LoadYAML(r io.Reader, tag language.Tag) error {
	var msgs map[string]string
	if err := yaml.NewDecoder(r).Decode(&msgs); err != nil && err != io.EOF {
		return fmt.Errorf("failed to parse messages for %s: %w", tag, err)
	}
	return b.Set(tag, msgs)
}

// Tags returns the registered locales in registration order.
func (b *Bundle) Tags() []language.Tag {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]language.Tag(nil), b.tags...)
}

// Match picks the best registered locale for an Accept-Language header value.
func (b *Bundle) Match(acceptLanguage string) language.Tag {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if len(b.tags) == 0 {
		return language.Und
	}
	desired, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(desired) == 0 {
		return b.tags[0]
	}
	_, idx, conf := b.matcher.Match(desired...)
	if conf == language.No {
		return b.tags[0]
	}
	return b.tags[idx]
}

// Lookup returns the raw format registered for key, consulting tag and then
// the fallback language.
func (b *Bundle) Lookup(tag language.Tag, key string) (string, bool) {
	_, s, ok := b.resolve(tag, key)
	return s, ok
}

// Message formats key for tag. Unknown keys are returned unchanged.
func (b *Bundle) Message(tag language.Tag, key string, args ...any) string {
	owner, _, ok := b.resolve(tag, key)
	if !ok {
		return key
	}
	return b.Printer(owner).Sprintf(key, args...)
}

// resolve finds the locale that defines key.
func (b *Bundle) resolve(tag language.Tag, key string) (language.Tag, string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if s, ok := b.messages[tag][key]; ok {
		return tag, s, true
	}
	if len(b.tags) > 0 {
		fallback := b.tags[0]
		if s, ok := b.messages[fallback][key]; ok {
			return fallback, s, true
		}
	}
	return language.Und, "", false
}

// Printer returns a cached printer bound to the bundle catalog.
func (b *Bundle) Printer(tag language.Tag) *message.Printer {
	b.mu.RLock()
	p, ok := b.printers[tag]
	b.mu.RUnlock()
	if ok {
		return p
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if p, ok := b.printers[tag]; ok {
		return p
	}
	p = message.NewPrinter(tag, message.Catalog(b.builder))
	b.printers[tag] = p
	return p
}
