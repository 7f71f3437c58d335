package table

import (
	"github.com/go-click/click/pkg/core"
	"github.com/go-click/click/pkg/logging"
)

// State is the paging and sorting state of a table kept across requests.
type State struct {
	PageNumber      int    `json:"page"`
	SortedColumn    string `json:"column,omitempty"`
	SortedAscending bool   `json:"ascending"`
}

// State returns the current paging and sorting state.
func (t *Table) State() State {
	return State{
		PageNumber:      t.pageNumber,
		SortedColumn:    t.sortedColumn,
		SortedAscending: t.sortedAscending,
	}
}

// SetState restores paging and sorting.
func (t *Table) SetState(s State) {
	t.SetPageNumber(s.PageNumber)
	t.SetSortedColumn(s.SortedColumn)
	t.SetSortedAscending(s.SortedAscending)
}

// stateKey scopes the state to the table name and request path.
func stateKey(t *Table, ctx core.Context) string {
	path := ""
	if r := ctx.Request(); r != nil {
		path = r.URL.Path
	}
	return "table-state:" + path + "#" + t.Name()
}

// SaveState stores the state in the session, creating one if needed.
func (t *Table) SaveState(ctx core.Context) {
	s := ctx.Session(true)
	if s == nil {
		return
	}
	if err := s.Set(stateKey(t, ctx), t.State()); err != nil {
		logging.Logger().Warn("table state not saved", "table", t.Name(), "err", err)
	}
}

// RestoreState applies a state saved by SaveState. It reports false when no
// state was saved.
func (t *Table) RestoreState(ctx core.Context) bool {
	s := ctx.Session(false)
	if s == nil {
		return false
	}
	var st State
	if !s.Get(stateKey(t, ctx), &st) {
		return false
	}
	t.SetState(st)
	return true
}

// RemoveState deletes a saved state.
func (t *Table) RemoveState(ctx core.Context) {
	if s := ctx.Session(false); s != nil {
		s.Remove(stateKey(t, ctx))
	}
}
