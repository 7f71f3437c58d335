package testing

import (
	"fmt"
	"reflect"

	"github.com/go-click/click/pkg/core"
)

// Finder locates controls in a control tree.
type Finder interface {
	// Evaluate returns all matching controls under root (depth-first pre-order).
	Evaluate(root core.Control) []core.Control
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	controls []core.Control
	finder   Finder
}

// Find evaluates f against every root and returns the matches in order.
func Find(f Finder, roots ...core.Control) FinderResult {
	var matches []core.Control
	for _, root := range roots {
		matches = append(matches, f.Evaluate(root)...)
	}
	return FinderResult{controls: matches, finder: f}
}

// FindInPage evaluates f against the controls of page.
func FindInPage(f Finder, page core.Page) FinderResult {
	return Find(f, page.Controls()...)
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() core.Control {
	if len(r.controls) == 0 {
		panic(fmt.Sprintf("Finder found no controls: %s", r.description()))
	}
	return r.controls[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() core.Control {
	if len(r.controls) == 0 {
		return nil
	}
	return r.controls[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) core.Control {
	if index < 0 || index >= len(r.controls) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.controls), r.description()))
	}
	return r.controls[index]
}

// All returns all matches in traversal order.
func (r FinderResult) All() []core.Control {
	return r.controls
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.controls)
}

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool {
	return len(r.controls) > 0
}

func (r FinderResult) description() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// --- Concrete finders ---

type typeFinder struct {
	controlType reflect.Type
}

func (f *typeFinder) Evaluate(root core.Control) []core.Control {
	return collectMatches(root, func(c core.Control) bool {
		return reflect.TypeOf(c) == f.controlType
	})
}

func (f *typeFinder) Description() string {
	return fmt.Sprintf("ByType(%s)", f.controlType)
}

// ByType returns a finder that matches controls of type T.
func ByType[T core.Control]() Finder {
	return &typeFinder{controlType: reflect.TypeOf((*T)(nil)).Elem()}
}

type nameFinder struct {
	name string
}

func (f *nameFinder) Evaluate(root core.Control) []core.Control {
	return collectMatches(root, func(c core.Control) bool { return c.Name() == f.name })
}

func (f *nameFinder) Description() string {
	return fmt.Sprintf("ByName(%q)", f.name)
}

// ByName returns a finder that matches controls named name.
func ByName(name string) Finder {
	return &nameFinder{name: name}
}

type idFinder struct {
	id string
}

func (f *idFinder) Evaluate(root core.Control) []core.Control {
	return collectMatches(root, func(c core.Control) bool { return c.ID() == f.id })
}

func (f *idFinder) Description() string {
	return fmt.Sprintf("ByID(%q)", f.id)
}

// ByID returns a finder that matches controls whose HTML id is id.
func ByID(id string) Finder {
	return &idFinder{id: id}
}

type predicateFinder struct {
	fn   func(core.Control) bool
	desc string
}

func (f *predicateFinder) Evaluate(root core.Control) []core.Control {
	return collectMatches(root, f.fn)
}

func (f *predicateFinder) Description() string {
	return f.desc
}

// ByPredicate returns a finder that matches controls satisfying fn.
func ByPredicate(fn func(core.Control) bool) Finder {
	return &predicateFinder{fn: fn, desc: "ByPredicate(...)"}
}

// descendantFinder finds controls matching 'matching' that are descendants
// of controls matching 'of'.
type descendantFinder struct {
	of       Finder
	matching Finder
}

func (f *descendantFinder) Evaluate(root core.Control) []core.Control {
	var results []core.Control
	seen := make(map[core.Control]bool)
	for _, ancestor := range f.of.Evaluate(root) {
		container, ok := ancestor.(core.Container)
		if !ok {
			continue
		}
		// Search within each ancestor's subtree (skip the ancestor itself)
		for _, child := range container.Controls() {
			for _, match := range f.matching.Evaluate(child) {
				if !seen[match] {
					seen[match] = true
					results = append(results, match)
				}
			}
		}
	}
	return results
}

func (f *descendantFinder) Description() string {
	return fmt.Sprintf("Descendant(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Descendant returns a finder that matches controls satisfying 'matching'
// that are descendants of controls matching 'of'.
func Descendant(of, matching Finder) Finder {
	return &descendantFinder{of: of, matching: matching}
}

// collectMatches performs depth-first pre-order traversal, collecting
// controls that satisfy the predicate.
func collectMatches(root core.Control, predicate func(core.Control) bool) []core.Control {
	var results []core.Control
	walkTree(root, func(c core.Control) {
		if predicate(c) {
			results = append(results, c)
		}
	})
	return results
}

// walkTree performs a depth-first pre-order traversal of the control tree.
func walkTree(root core.Control, visitor func(core.Control)) {
	if root == nil {
		return
	}
	visitor(root)
	if container, ok := root.(core.Container); ok {
		for _, child := range container.Controls() {
			walkTree(child, visitor)
		}
	}
}
