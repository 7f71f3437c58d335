// Package table provides the Table control: columns rendered from row
// properties, header links sorting by a column and paginators linking to
// the other pages.
//
// Rows come from SetRowList or a DataProvider. A PagingDataProvider such as
// SQLProvider returns only the requested page, already sorted:
//
//	t := table.NewTable("customers")
//	t.PageSize = 10
//	t.Sortable = true
//	t.AddColumn(table.NewColumn("name"))
//	t.AddColumn(table.NewColumn("email")).Autolink = true
//	t.DataProvider = &table.SQLProvider{DB: db, From: "customers",
//		Columns: []string{"name", "email"}}
package table
