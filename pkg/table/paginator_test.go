package table

import (
	"strings"
	"testing"

	clicktest "github.com/go-click/click/pkg/testing"
)

const pageHref = `/test.htm?actionLink=t-controlLink&amp;page=`

func TestDefaultPaginator_FirstPage(t *testing.T) {
	tester := clicktest.NewTester(t)
	tbl := newCustomerTable()
	tbl.PageSize = 10
	tbl.ShowBanner = true
	tbl.SetRowList(customers(25))

	got := tester.Render(tbl)
	want := `</tbody></table>
<span class="pagebanner">25 items found, displaying 1 to 10.</span>` +
		`<span class="pagelinks">[First/Prev] <strong>1</strong>, ` +
		`<a href="` + pageHref + `1" title="Go to page 2">2</a>, ` +
		`<a href="` + pageHref + `2" title="Go to page 3">3</a> ` +
		`[<a href="` + pageHref + `1" title="Go to next page">Next</a>/` +
		`<a href="` + pageHref + `2" title="Go to last page">Last</a>]</span>`
	if !strings.HasSuffix(got, want) {
		t.Errorf("render =\n%s\nwant suffix\n%s", got, want)
	}
}

func TestDefaultPaginator_LastPageKeepsSort(t *testing.T) {
	tester := clicktest.NewTester(t)
	tbl := newCustomerTable()
	tbl.PageSize = 10
	tbl.SetRowList(customers(25))
	tbl.SetSortedColumn("name")
	tbl.SetSortedAscending(false)
	tbl.SetPageNumber(2)

	got := tester.Render(tbl)
	for _, want := range []string{
		`<span class="pagelinks-nobanner">[<a href="/test.htm?actionLink=t-controlLink&amp;ascending=false&amp;column=name&amp;page=0" title="Go to first page">First</a>/`,
		`<strong>3</strong> [Next/Last]</span>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("render missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "pagebanner") {
		t.Error("banner rendered when disabled")
	}
}

func TestDefaultPaginator_SinglePage(t *testing.T) {
	tester := clicktest.NewTester(t)
	tbl := newCustomerTable()
	tbl.PageSize = 10
	tbl.ShowBanner = true
	tbl.SetRowList(customers(4))

	got := tester.Render(tbl)
	if !strings.HasSuffix(got, `<span class="pagebanner-nolinks">4 items found, displaying 1 to 4.</span>`) {
		t.Errorf("render = %s", got)
	}
	if strings.Contains(got, "pagelinks") {
		t.Error("links rendered for a single page")
	}
}

func TestInlinePaginator(t *testing.T) {
	tester := clicktest.NewTester(t)
	tbl := newCustomerTable()
	tbl.PageSize = 10
	tbl.SetRowList(customers(25))
	tbl.Paginator = &InlinePaginator{Table: tbl}

	got := tester.Render(tbl)
	want := `<span class="pagelinks">Page First Prev <strong>1</strong> <a href="` + pageHref + `1" title="Go to page 2">2</a> `
	if !strings.Contains(got, want) {
		t.Errorf("render missing %q:\n%s", want, got)
	}
}

func TestTable_AttachedPaginator(t *testing.T) {
	tester := clicktest.NewTester(t)
	tbl := newCustomerTable()
	tbl.PageSize = 10
	tbl.Attachment = Attached
	tbl.SetRowList(customers(25))

	got := tester.Render(tbl)
	if !strings.Contains(got, "<tfoot>\n<tr><td class=\"paging\" colspan=\"2\"><span class=\"pagelinks-nobanner\">") {
		t.Errorf("paginator not in footer:\n%s", got)
	}
	if !strings.HasSuffix(got, "</tbody></table>\n") {
		t.Errorf("paginator rendered after table:\n%s", got)
	}
}
