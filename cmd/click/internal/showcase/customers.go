package showcase

import (
	"strconv"
	"time"

	"github.com/go-click/click/pkg/controls"
	"github.com/go-click/click/pkg/core"
	"github.com/go-click/click/pkg/logging"
	"github.com/go-click/click/pkg/table"
)

// customersPage lists customers in a sortable, paged table. The paging and
// sort state is kept in the session between visits.
type customersPage struct {
	core.PageBase
	store  *Store
	table  *table.Table
	delete *controls.ActionLink
}

func newCustomersPage(store *Store) *customersPage {
	p := &customersPage{store: store}
	p.Init(p)
	p.SetTemplate("customers.htm")

	p.delete = controls.NewActionLink("delete", "Delete")
	p.delete.SetListenerFunc(p.onDelete)
	p.AddControl(p.delete)

	t := table.NewTable("customers")
	t.Class = "blue"
	t.PageSize = 10
	t.ShowBanner = true
	t.Sortable = true
	t.HoverRows = true
	t.DataProvider = &table.SQLProvider{
		DB:      store.DB(),
		From:    "customers",
		Columns: []string{"id", "name", "email", "age", "city", "category", "joined", "active"},
		OrderBy: "id",
	}

	t.AddColumn(table.NewColumn("id")).Title = "#"
	t.AddColumn(table.NewColumn("name"))
	t.AddColumn(table.NewColumn("email")).Autolink = true
	t.AddColumn(table.NewColumn("age"))
	t.AddColumn(table.NewColumn("city"))
	t.AddColumn(table.NewColumn("category"))
	joined := t.AddColumn(table.NewColumn("joined"))
	joined.Format = formatJoined
	active := t.AddColumn(table.NewColumn("active"))
	active.Format = func(v any) string {
		if n, ok := v.(int64); ok && n != 0 {
			return "yes"
		}
		return "no"
	}

	actions := t.AddColumn(table.NewColumn("actions"))
	actions.Title = "Actions"
	actions.SetSortable(false)
	actions.Decorator = table.DecoratorFunc(p.renderActions)
	p.table = t
	p.AddControl(t)
	return p
}

func formatJoined(v any) string {
	s, _ := v.(string)
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return s
	}
	return t.Format("2 Jan 2006")
}

// renderActions renders the edit link and the delete link of a row.
func (p *customersPage) renderActions(row any, _ core.Context) string {
	id := rowID(row)
	p.delete.SetValue(strconv.FormatInt(id, 10))
	edit := controls.NewPageLink("edit", "/customer.htm", "Edit")
	edit.Params = map[string][]string{"id": {strconv.FormatInt(id, 10)}}
	return core.RenderString(edit) + " | " + core.RenderString(p.delete)
}

func rowID(row any) int64 {
	m, _ := row.(map[string]any)
	id, _ := m["id"].(int64)
	return id
}

func (p *customersPage) OnInit() {
	p.table.RestoreState(p.Context())
}

func (p *customersPage) onDelete(core.Control) bool {
	id, ok := p.delete.ValueInt()
	if !ok {
		return true
	}
	ctx := p.Context()
	if err := p.store.Delete(ctx.Request().Context(), int64(id)); err != nil {
		logging.Logger().Error("customer not deleted", "id", id, "err", err)
		p.AddModel("notice", "The customer could not be deleted.")
		return true
	}
	p.AddModel("notice", "Customer "+strconv.Itoa(id)+" deleted.")
	return true
}

func (p *customersPage) OnRender() {
	p.table.SaveState(p.Context())
}
