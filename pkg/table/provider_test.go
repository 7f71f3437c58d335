package table

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	_ "modernc.org/sqlite"

	clicktest "github.com/go-click/click/pkg/testing"
)

func openCustomers(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	for _, stmt := range []string{
		`CREATE TABLE customers (id INTEGER PRIMARY KEY, name TEXT, email TEXT, active INTEGER)`,
		`INSERT INTO customers (name, email, active) VALUES
			('Ann', 'ann@example.com', 1),
			('Bob', 'bob@example.com', 0),
			('Cid', 'cid@example.com', 1),
			('Dee', 'dee@example.com', 1),
			('Eve', 'eve@example.com', 1)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("exec: %v", err)
		}
	}
	return db
}

func mapNames(rows []any) []string {
	var out []string
	for _, r := range rows {
		out = append(out, r.(map[string]any)["name"].(string))
	}
	return out
}

func TestSQLProvider(t *testing.T) {
	ctx := context.Background()
	p := &SQLProvider{
		DB:      openCustomers(t),
		From:    "customers",
		Columns: []string{"name", "email"},
		Where:   "active = ?",
		Args:    []any{1},
		OrderBy: "id",
	}

	n, err := p.Size(ctx)
	if err != nil || n != 4 {
		t.Fatalf("Size = %d, %v", n, err)
	}

	tests := []struct {
		name string
		q    Query
		want []string
	}{
		{"all", Query{}, []string{"Ann", "Cid", "Dee", "Eve"}},
		{"page", Query{Offset: 1, Limit: 2}, []string{"Cid", "Dee"}},
		{"descending", Query{Limit: 3, SortColumn: "name"}, []string{"Eve", "Dee", "Cid"}},
		{"ascending", Query{Limit: 2, SortColumn: "email", Ascending: true}, []string{"Ann", "Cid"}},
		{"unknown sort column", Query{Limit: 2, SortColumn: "id; DROP TABLE customers"}, []string{"Ann", "Cid"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := p.Data(ctx, tt.q)
			if err != nil {
				t.Fatalf("Data: %v", err)
			}
			if diff := cmp.Diff(tt.want, mapNames(rows)); diff != "" {
				t.Errorf("rows mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTable_PagingProvider(t *testing.T) {
	tester := clicktest.NewTester(t,
		clicktest.Param("actionLink", "customers-controlLink"),
		clicktest.Param(PageParam, "1"),
		clicktest.Param(ColumnParam, "name"),
		clicktest.Param(AscendingParam, "true"))

	tbl := NewTable("customers")
	tbl.PageSize = 2
	tbl.ShowBanner = true
	tbl.AddColumn(NewColumn("name"))
	tbl.AddColumn(NewColumn("email")).Autolink = true
	tbl.DataProvider = &SQLProvider{
		DB:      openCustomers(t),
		From:    "customers",
		Columns: []string{"name", "email"},
	}

	tester.Process(tbl)
	got := tester.Render(tbl)

	if tbl.RowCount() != 5 || tbl.NumberPages() != 3 {
		t.Errorf("row count %d, pages %d", tbl.RowCount(), tbl.NumberPages())
	}
	if diff := cmp.Diff([]string{"Cid", "Dee"}, mapNames(tbl.RowList())); diff != "" {
		t.Errorf("page rows mismatch (-want +got):\n%s", diff)
	}
	for _, want := range []string{
		"<tr class=\"odd\">\n<td>Cid</td>\n<td><a href=\"mailto:cid@example.com\">cid@example.com</a></td>",
		"<tr class=\"even\">\n<td>Dee</td>",
		`5 items found, displaying 3 to 4.`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("render missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "<td>Ann</td>") {
		t.Error("rows of another page rendered")
	}
}
