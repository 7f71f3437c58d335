// Package showcase is a small customer application built from click
// controls. It is served by "click serve".
package showcase

import (
	"database/sql"
	"embed"
	"io/fs"

	"github.com/go-click/click/pkg/core"
	"github.com/go-click/click/pkg/engine"
)

//go:embed templates
var templates embed.FS

// Templates returns the page and panel templates.
func Templates() fs.FS {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// Register adds the showcase pages to e.
func Register(e *engine.Engine, db *sql.DB) {
	store := NewStore(db)
	e.Handle("/index.htm", func() core.Page { return newHomePage() })
	e.Handle("/customers.htm", func() core.Page { return newCustomersPage(store) })
	e.Handle("/customer.htm", func() core.Page { return newCustomerPage(store) })
	e.Handle("/upload.htm", func() core.Page { return newUploadPage() })
	e.Handle("/city.htm", func() core.Page { return newCityPage(store) })
}

// menu lists the showcase pages.
var menu = []struct{ name, path, label string }{
	{"customersLink", "/customers.htm", "Customers"},
	{"customerLink", "/customer.htm", "New customer"},
	{"uploadLink", "/upload.htm", "Upload a file"},
	{"cityLink", "/city.htm", "Find a city"},
}
