// Package testing provides helpers for testing Click controls and pages.
//
// # Quick Start
//
// Create a tester for a request, process controls and inspect the output:
//
//	func TestNameField(t *testing.T) {
//	    tester := clicktest.NewTester(t, clicktest.Post("/edit.htm"),
//	        clicktest.Param("name", "Ada"))
//
//	    field := controls.NewTextField("name")
//	    tester.Process(field)
//
//	    if field.Value() != "Ada" {
//	        t.Errorf("value = %q", field.Value())
//	    }
//	}
//
// # Finding Controls
//
// Locate controls in a tree by name, id or type:
//
//	email := clicktest.Find(form, clicktest.ByName("email")).First()
//
// # Markup Snapshots
//
// Compare rendered markup against a golden file:
//
//	clicktest.MatchesMarkup(t, "testdata/form.html", tester.Render(form))
//
// Update snapshots with:
//
//	CLICK_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import clicktest "github.com/go-click/click/pkg/testing"
package testing
