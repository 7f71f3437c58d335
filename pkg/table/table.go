package table

import (
	"context"
	"slices"
	"strconv"

	"github.com/go-click/click/pkg/controls"
	"github.com/go-click/click/pkg/core"
	"github.com/go-click/click/pkg/errors"
	"github.com/go-click/click/pkg/logging"
	"github.com/go-click/click/pkg/rendering"
)

// Request parameters of the table control link.
const (
	PageParam      = "page"
	ColumnParam    = "column"
	AscendingParam = "ascending"
	SortParam      = "sort"
)

// Attachment places the paginator relative to the table.
type Attachment int

const (
	// Detached renders the paginator below the table.
	Detached Attachment = iota
	// Attached renders the paginator in the table footer.
	Attached
)

// Table renders rows as an HTML table with paging and sorting links.
//
// Paging and sorting are driven by the table's control link, an action link
// named "<table>-controlLink" carrying the page, column, ascending and sort
// parameters. Rows are sorted lazily before rendering and at most once per
// request.
type Table struct {
	core.ContainerBase

	// Class is the style class of the table element.
	Class string
	// PageSize limits the rows per page. Zero shows every row.
	PageSize int
	// ShowBanner renders the row count banner.
	ShowBanner bool
	// Sortable is the default of columns without their own setting.
	Sortable bool
	// HoverRows highlights the row under the pointer.
	HoverRows bool
	// NullifyRowListOnDestroy drops the rows at the end of each request so a
	// data provider is queried again. It is true unless cleared.
	NullifyRowListOnDestroy bool
	// Paginator renders the paging links, a DefaultPaginator unless set.
	Paginator  Paginator
	Attachment Attachment
	// DataProvider loads the rows when no row list was set.
	DataProvider DataProvider

	columns         []*Column
	controlLink     *controls.ActionLink
	pageNumber      int
	sortedColumn    string
	sortedAscending bool
	sorted          bool
	rows            []any
	rowsLoaded      bool
	rowCount        int
}

// NewTable returns a table with ascending sorting.
func NewTable(name string) *Table {
	t := &Table{
		sortedAscending:         true,
		NullifyRowListOnDestroy: true,
	}
	t.Init(t, name)
	t.controlLink = controls.NewActionLink(name+"-controlLink", "")
	t.ContainerBase.Insert(t.controlLink, 0)
	return t
}

// ControlLink returns the link carrying the paging and sorting parameters.
func (t *Table) ControlLink() *controls.ActionLink { return t.controlLink }

// AddColumn appends a column. It panics with a usage error for a nil column
// or a name already used by another column.
func (t *Table) AddColumn(c *Column) *Column {
	const op = "table.Table.AddColumn"
	if c == nil {
		panic(errors.Usage(op, errors.ErrInvalidValue, "nil column for table %q", t.Name()))
	}
	if t.Column(c.name) != nil {
		panic(errors.Usage(op, errors.ErrDuplicateName, "table %q already has column %q", t.Name(), c.name))
	}
	c.table = t
	t.columns = append(t.columns, c)
	return c
}

// RemoveColumn removes the column named name.
func (t *Table) RemoveColumn(name string) bool {
	i := slices.IndexFunc(t.columns, func(c *Column) bool { return c.name == name })
	if i < 0 {
		return false
	}
	t.columns[i].table = nil
	t.columns = slices.Delete(t.columns, i, i+1)
	if t.sortedColumn == name {
		t.sortedColumn = ""
	}
	return true
}

// Column returns the column named name, or nil.
func (t *Table) Column(name string) *Column {
	for _, c := range t.columns {
		if c.name == name {
			return c
		}
	}
	return nil
}

// Columns returns the columns in render order. The slice must not be
// modified.
func (t *Table) Columns() []*Column { return t.columns }

func (t *Table) PageNumber() int { return t.pageNumber }

// SetPageNumber selects the zero based page to render.
func (t *Table) SetPageNumber(n int) { t.pageNumber = max(n, 0) }

func (t *Table) SortedColumn() string { return t.sortedColumn }

// SetSortedColumn sorts the rows by the named column on the next render.
func (t *Table) SetSortedColumn(name string) {
	t.sortedColumn = name
	t.sorted = false
}

func (t *Table) IsSortedAscending() bool { return t.sortedAscending }

func (t *Table) SetSortedAscending(ascending bool) {
	t.sortedAscending = ascending
	t.sorted = false
}

// IsSorted reports whether the row list is already in sorted order.
func (t *Table) IsSorted() bool { return t.sorted }

// SetSorted marks the rows as sorted, for rows loaded in order.
func (t *Table) SetSorted(sorted bool) { t.sorted = sorted }

// SetRowList sets the rows to render.
func (t *Table) SetRowList(rows []any) {
	t.rows = rows
	t.rowsLoaded = rows != nil
	t.rowCount = len(rows)
	t.sorted = false
}

// RowList returns the rows, loading them from the data provider on first
// use. A paging provider returns only the current page.
func (t *Table) RowList() []any {
	if t.rowsLoaded || t.DataProvider == nil {
		return t.rows
	}
	t.rowsLoaded = true
	ctx := context.Background()
	if c := t.Context(); c != nil && c.Request() != nil {
		ctx = c.Request().Context()
	}
	if pp, ok := t.DataProvider.(PagingDataProvider); ok {
		t.loadPage(ctx, pp)
		return t.rows
	}
	rows, err := t.DataProvider.Data(ctx, Query{SortColumn: t.sortedColumn, Ascending: t.sortedAscending})
	if err != nil {
		t.reportLoadError(err)
		return nil
	}
	t.rows = rows
	t.rowCount = len(rows)
	return t.rows
}

func (t *Table) loadPage(ctx context.Context, pp PagingDataProvider) {
	n, err := pp.Size(ctx)
	if err != nil {
		t.reportLoadError(err)
		return
	}
	t.rowCount = n
	t.pageNumber = t.clampPage(t.pageNumber)
	q := Query{
		Offset:     t.FirstRow(),
		Limit:      t.PageSize,
		SortColumn: t.sortedColumn,
		Ascending:  t.sortedAscending,
	}
	rows, err := pp.Data(ctx, q)
	if err != nil {
		t.reportLoadError(err)
		return
	}
	t.rows = rows
	t.sorted = true
}

func (t *Table) reportLoadError(err error) {
	logging.Logger().Error("table rows failed to load", "table", t.Name(), "err", err)
	errors.Report(&errors.ClickError{
		Op:      "table.Table.RowList",
		Kind:    errors.KindRender,
		Control: t.Name(),
		Err:     err,
	})
}

// pagedByProvider reports whether the row list holds a single page.
func (t *Table) pagedByProvider() bool {
	_, ok := t.DataProvider.(PagingDataProvider)
	return ok && t.rowsLoaded
}

// RowCount returns the total number of rows across all pages.
func (t *Table) RowCount() int {
	rows := t.RowList()
	if t.pagedByProvider() {
		return t.rowCount
	}
	return len(rows)
}

// NumberPages returns the number of pages, at least one.
func (t *Table) NumberPages() int {
	n := t.RowCount()
	if t.PageSize <= 0 || n == 0 {
		return 1
	}
	return (n + t.PageSize - 1) / t.PageSize
}

func (t *Table) clampPage(page int) int {
	return max(min(page, t.NumberPages()-1), 0)
}

// FirstRow returns the index of the first row of the current page.
func (t *Table) FirstRow() int {
	if t.PageSize <= 0 || t.pageNumber <= 0 {
		return 0
	}
	return t.PageSize * t.pageNumber
}

// LastRow returns the index after the last row of the current page.
func (t *Table) LastRow() int {
	n := t.RowCount()
	if t.PageSize <= 0 {
		return n
	}
	return min(t.FirstRow()+t.PageSize, n)
}

// PageWindow returns the range [start, end) of at most ten page numbers
// shown around page out of pages.
func PageWindow(page, pages int) (start, end int) {
	start = max(page-5, 0)
	end = min(start+10, pages)
	if end-start < 10 {
		start = max(end-10, 0)
	}
	return start, end
}

// OnProcess applies the paging and sorting parameters of a clicked control
// link, then processes the other controls of the table.
func (t *Table) OnProcess() bool {
	ctx := t.Context()
	if ctx == nil {
		return true
	}
	if !core.ProcessControl(t.controlLink) {
		return false
	}
	if t.controlLink.IsClicked() {
		page, err := strconv.Atoi(ctx.Param(PageParam))
		if err != nil {
			page = 0
		}
		t.SetPageNumber(page)
		if ctx.HasParam(ColumnParam) {
			t.SetSortedColumn(ctx.Param(ColumnParam))
		}
		if ctx.HasParam(AscendingParam) {
			t.SetSortedAscending(ctx.Param(AscendingParam) == "true")
		}
		if ctx.Param(SortParam) == "true" {
			t.SetSortedAscending(!t.sortedAscending)
		}
	}
	for _, c := range t.Controls() {
		if c == core.Control(t.controlLink) {
			continue
		}
		if !core.ProcessControl(c) {
			return false
		}
	}
	return true
}

// OnRender loads and sorts the rows.
func (t *Table) OnRender() {
	t.ContainerBase.OnRender()
	t.RowList()
	t.sortRowList()
}

// sortRowList sorts the rows by the sorted column unless they are already
// sorted.
func (t *Table) sortRowList() {
	if t.sorted || t.sortedColumn == "" {
		return
	}
	col := t.Column(t.sortedColumn)
	rows := t.RowList()
	if col == nil || len(rows) == 0 {
		return
	}
	slices.SortStableFunc(rows, func(a, b any) int {
		if t.sortedAscending {
			return col.compare(a, b)
		}
		return col.compare(b, a)
	})
	t.sorted = true
}

// OnDestroy forgets the sort state of the rows and, unless disabled, the
// rows themselves.
func (t *Table) OnDestroy() {
	t.ContainerBase.OnDestroy()
	t.sorted = false
	if t.NullifyRowListOnDestroy {
		t.rows = nil
		t.rowsLoaded = false
		t.rowCount = 0
	}
}

// Render writes the table followed or footed by its paginator.
func (t *Table) Render(buf *rendering.Buffer) {
	t.RowList()
	t.sortRowList()
	t.pageNumber = t.clampPage(t.pageNumber)

	buf.ElementStart("table")
	buf.AppendOptionalAttribute("class", t.Class)
	buf.AppendAttribute("id", t.ID())
	buf.AppendAttributes(t.Attributes())
	buf.CloseTag()
	buf.Append("\n")

	buf.Append("<thead>\n<tr>\n")
	for _, c := range t.columns {
		c.renderHeader(buf, t)
		buf.Append("\n")
	}
	buf.Append("</tr></thead>\n")

	if t.Attachment == Attached && t.PageSize > 0 {
		buf.Append("<tfoot>\n<tr><td class=\"paging\"")
		buf.AppendAttributeInt("colspan", max(len(t.columns), 1))
		buf.Append(">")
		t.paginator().Render(buf)
		buf.Append("</td></tr>\n</tfoot>\n")
	}

	buf.Append("<tbody>\n")
	t.renderBody(buf)
	buf.Append("</tbody></table>\n")

	if t.Attachment == Detached {
		t.paginator().Render(buf)
	}
}

func (t *Table) renderBody(buf *rendering.Buffer) {
	rows := t.RowList()
	first, last := t.FirstRow(), t.LastRow()
	offset := 0
	if t.pagedByProvider() {
		offset = first
	}
	if last <= first || len(rows) == 0 {
		buf.Append("<tr class=\"odd\"><td class=\"error\"")
		buf.AppendAttributeInt("colspan", max(len(t.columns), 1))
		buf.Append(">")
		buf.Append(t.Message("table-no-rows-found"))
		buf.Append("</td></tr>\n")
		return
	}
	ctx := t.Context()
	for i := first; i < last; i++ {
		if i-offset >= len(rows) {
			break
		}
		row := rows[i-offset]
		class := "odd"
		if (i+1)%2 == 0 {
			class = "even"
		}
		buf.Append("<tr class=\"" + class + "\"")
		if t.HoverRows {
			buf.AppendAttribute("onmouseover", "this.className='hover';")
			buf.AppendAttribute("onmouseout", "this.className='"+class+"';")
		}
		buf.Append(">\n")
		for _, c := range t.columns {
			c.renderCell(buf, row, ctx)
			buf.Append("\n")
		}
		buf.Append("</tr>\n")
	}
}

func (t *Table) paginator() Paginator {
	if t.Paginator != nil {
		return t.Paginator
	}
	return &DefaultPaginator{Table: t}
}

// HeadElements adds the table stylesheet.
func (t *Table) HeadElements() []core.HeadElement {
	return append([]core.HeadElement{core.CssImport{Href: controls.ResourcePrefix + "table.css"}},
		t.ContainerBase.HeadElements()...)
}

var _ core.Container = (*Table)(nil)
