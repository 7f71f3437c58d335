package table

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/go-click/click/pkg/rendering"
)

// Paginator renders the paging banner and links of a table.
type Paginator interface {
	Render(buf *rendering.Buffer)
}

// DefaultPaginator renders a row count banner followed by first, previous,
// numbered, next and last page links.
type DefaultPaginator struct {
	Table *Table
}

func (p *DefaultPaginator) Render(buf *rendering.Buffer) {
	t := p.Table
	paged := t.PageSize > 0 && t.RowCount() > t.PageSize
	if t.ShowBanner {
		key := "table-page-banner-nolinks"
		if paged {
			key = "table-page-banner"
		}
		buf.Append(banner(t, key))
	}
	if !paged {
		return
	}
	key := "table-page-links-nobanner"
	if t.ShowBanner {
		key = "table-page-links"
	}
	l := newPageLinks(t)
	buf.Append(t.Message(key, l.first, l.previous, l.numbers(", "), l.next, l.last))
}

// InlinePaginator renders the banner and a single line of page links.
type InlinePaginator struct {
	Table *Table
}

func (p *InlinePaginator) Render(buf *rendering.Buffer) {
	t := p.Table
	paged := t.PageSize > 0 && t.RowCount() > t.PageSize
	if t.ShowBanner {
		buf.Append(banner(t, "table-page-banner-nolinks"))
	}
	if !paged {
		return
	}
	l := newPageLinks(t)
	buf.Append(`<span class="pagelinks">`)
	buf.Append(t.Message("table-inline-page-links", l.first, l.previous, l.numbers(" "), l.next, l.last))
	buf.Append("</span>")
}

func banner(t *Table, key string) string {
	first := 0
	if t.RowCount() > 0 {
		first = t.FirstRow() + 1
	}
	return t.Message(key, t.RowCount(), first, t.LastRow())
}

// pageLinks holds the rendered links of the current page.
type pageLinks struct {
	t        *Table
	first    string
	previous string
	next     string
	last     string
}

func newPageLinks(t *Table) pageLinks {
	page, pages := t.pageNumber, t.NumberPages()
	l := pageLinks{t: t}
	l.first = l.step("first", 0, page > 0)
	l.previous = l.step("previous", page-1, page > 0)
	l.next = l.step("next", page+1, page < pages-1)
	l.last = l.step("last", pages-1, page < pages-1)
	return l
}

// step renders a labelled link to page, or the plain label when disabled.
func (l pageLinks) step(name string, page int, enabled bool) string {
	label := l.t.Message("table-" + name + "-label")
	if !enabled {
		return label
	}
	return link{
		label: label,
		title: l.t.Message("table-" + name + "-title"),
		href:  l.href(page),
	}.String()
}

// numbers renders the page window with the current page in bold.
func (l pageLinks) numbers(sep string) string {
	start, end := PageWindow(l.t.pageNumber, l.t.NumberPages())
	title := l.t.Message("table-goto-title")
	parts := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		n := strconv.Itoa(i + 1)
		if i == l.t.pageNumber {
			parts = append(parts, "<strong>"+n+"</strong>")
			continue
		}
		parts = append(parts, link{label: n, title: title + " " + n, href: l.href(i)}.String())
	}
	return strings.Join(parts, sep)
}

func (l pageLinks) href(page int) string {
	q := url.Values{PageParam: {strconv.Itoa(page)}}
	if l.t.sortedColumn != "" {
		q.Set(ColumnParam, l.t.sortedColumn)
		q.Set(AscendingParam, strconv.FormatBool(l.t.sortedAscending))
	}
	return l.t.controlLink.HrefWith(q)
}

var (
	_ Paginator = (*DefaultPaginator)(nil)
	_ Paginator = (*InlinePaginator)(nil)
)
