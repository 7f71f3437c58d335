package table

import (
	"cmp"
	stderrors "errors"
	"fmt"
	"maps"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-click/click/pkg/controls"
	"github.com/go-click/click/pkg/core"
	"github.com/go-click/click/pkg/logging"
	"github.com/go-click/click/pkg/property"
	"github.com/go-click/click/pkg/rendering"
)

// Decorator renders the cell of a row as markup.
type Decorator interface {
	Render(row any, ctx core.Context) string
}

// DecoratorFunc adapts a function to Decorator.
type DecoratorFunc func(row any, ctx core.Context) string

func (f DecoratorFunc) Render(row any, ctx core.Context) string { return f(row, ctx) }

// Column renders one property of the table rows.
type Column struct {
	name string
	// Title is the header text. It defaults to the "<name>.headerTitle"
	// message, else a label derived from the name.
	Title string
	// Property is the property path read from each row, the name unless set.
	Property string
	// Format converts the property value to text.
	Format func(v any) string
	// Decorator renders the whole cell and bypasses Property and Format.
	Decorator Decorator
	// Comparator orders two rows when sorting by this column. The default
	// compares the property values.
	Comparator func(a, b any) int
	// Escape HTML escapes the cell text, true unless cleared.
	Escape bool
	// Autolink renders email addresses and http URLs as links.
	Autolink bool
	// MaxLength truncates longer cell text and puts the full text in the
	// cell title.
	MaxLength int

	HeaderClass string
	HeaderStyle string
	DataClass   string
	DataStyle   string
	Width       string

	sortable *bool
	attrs    map[string]string
	table    *Table
}

// NewColumn returns an escaping column reading the property name.
func NewColumn(name string) *Column {
	return &Column{name: name, Escape: true}
}

func (c *Column) Name() string { return c.name }

// Table returns the table holding the column.
func (c *Column) Table() *Table { return c.table }

// SetSortable overrides the table default.
func (c *Column) SetSortable(sortable bool) { c.sortable = &sortable }

// IsSortable reports whether the header links to sorting by the column.
func (c *Column) IsSortable() bool {
	if c.sortable != nil {
		return *c.sortable
	}
	return c.table != nil && c.table.Sortable
}

// SetAttribute sets an attribute rendered on every data cell. An empty value
// removes it.
func (c *Column) SetAttribute(name, value string) {
	if value == "" {
		delete(c.attrs, name)
		return
	}
	if c.attrs == nil {
		c.attrs = make(map[string]string)
	}
	c.attrs[name] = value
}

func (c *Column) Attribute(name string) string { return c.attrs[name] }

// HeaderTitle returns the rendered header text.
func (c *Column) HeaderTitle() string {
	if c.Title != "" {
		return c.Title
	}
	if c.table != nil {
		if ctx := c.table.Context(); ctx != nil {
			if s, ok := ctx.LookupMessage(c.name + ".headerTitle"); ok {
				return s
			}
		}
	}
	return controls.ToLabel(c.name)
}

func (c *Column) propertyPath() string {
	if c.Property != "" {
		return c.Property
	}
	return c.name
}

// Value returns the column property of row, or nil when the row has none.
func (c *Column) Value(row any) any {
	v, err := property.Get(row, c.propertyPath())
	if err != nil {
		if !stderrors.Is(err, property.ErrNotFound) {
			logging.Logger().Warn("column property failed", "column", c.name, "err", err)
		}
		return nil
	}
	return v
}

// Text returns the formatted cell text of row.
func (c *Column) Text(row any) string {
	v := c.Value(row)
	if c.Format != nil {
		return c.Format(v)
	}
	return formatCell(v)
}

func formatCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format(time.DateOnly)
	case *time.Time:
		if t == nil {
			return ""
		}
		return formatCell(*t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}

// compare orders two rows by the column.
func (c *Column) compare(a, b any) int {
	if c.Comparator != nil {
		return c.Comparator(a, b)
	}
	return compareValues(c.Value(a), c.Value(b))
}

// compareValues orders nil first, then numbers, times and strings by value.
// Mixed kinds compare by their text.
func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if x, ok := toFloat(a); ok {
		if y, ok := toFloat(b); ok {
			return cmp.Compare(x, y)
		}
	}
	if x, ok := a.(time.Time); ok {
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	}
	if x, ok := a.(bool); ok {
		if y, ok := b.(bool); ok {
			return cmp.Compare(strconv.FormatBool(x), strconv.FormatBool(y))
		}
	}
	return strings.Compare(strings.ToLower(formatCell(a)), strings.ToLower(formatCell(b)))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func (c *Column) renderHeader(buf *rendering.Buffer, t *Table) {
	class := c.HeaderClass
	sortable := c.IsSortable()
	if sortable {
		state := "sortable"
		if t.sortedColumn == c.name {
			state = "descending"
			if t.sortedAscending {
				state = "ascending"
			}
		}
		class = joinClass(class, state)
	}
	buf.ElementStart("th")
	buf.AppendOptionalAttribute("class", class)
	buf.AppendOptionalAttribute("style", c.HeaderStyle)
	buf.AppendOptionalAttribute("width", c.Width)
	buf.CloseTag()
	if !sortable {
		buf.Append(c.HeaderTitle())
		buf.ElementEnd("th")
		return
	}
	q := url.Values{
		ColumnParam:    {c.name},
		PageParam:      {strconv.Itoa(t.pageNumber)},
		AscendingParam: {strconv.FormatBool(t.sortedAscending)},
	}
	if t.sortedColumn == c.name {
		q.Set(SortParam, "true")
	}
	link{label: c.HeaderTitle(), href: t.controlLink.HrefWith(q)}.render(buf)
	buf.ElementEnd("th")
}

func (c *Column) renderCell(buf *rendering.Buffer, row any, ctx core.Context) {
	attrs := maps.Clone(c.attrs)
	if attrs == nil {
		attrs = make(map[string]string)
	}
	if c.DataClass != "" {
		attrs["class"] = joinClass(attrs["class"], c.DataClass)
	}
	if c.DataStyle != "" {
		attrs["style"] = c.DataStyle
	}
	if c.Decorator != nil {
		buf.ElementStart("td")
		buf.AppendAttributes(attrs)
		buf.CloseTag()
		buf.Append(c.Decorator.Render(row, ctx))
		buf.ElementEnd("td")
		return
	}

	text := c.Text(row)
	display := text
	if c.MaxLength > 0 && utf8.RuneCountInString(text) > c.MaxLength {
		display = string([]rune(text)[:c.MaxLength]) + "..."
		attrs["title"] = text
	}
	buf.ElementStart("td")
	buf.AppendAttributes(attrs)
	buf.CloseTag()
	switch {
	case c.Autolink && isEmail(text):
		link{label: display, href: "mailto:" + text}.renderText(buf, c.Escape)
	case c.Autolink && (strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://")):
		link{label: display, href: text}.renderText(buf, c.Escape)
	case c.Escape:
		buf.AppendEscaped(display)
	default:
		buf.Append(display)
	}
	buf.ElementEnd("td")
}

func isEmail(s string) bool {
	local, domain, ok := strings.Cut(s, "@")
	return ok && local != "" && strings.Contains(domain, ".") && !strings.ContainsAny(s, " <>\"")
}

func joinClass(class, add string) string {
	if class == "" {
		return add
	}
	return class + " " + add
}
