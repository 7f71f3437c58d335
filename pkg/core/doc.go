// Package core defines the control model: controls, containers, pages and
// the per-request dispatch of deferred events.
//
// # Controls
//
// A Control binds part of a request and renders HTML. Every control embeds
// Base, which keeps the name, parent, request context, attributes, listener
// and behaviors:
//
//	type Greeting struct {
//	    core.Base
//	}
//
//	func NewGreeting(name string) *Greeting {
//	    g := &Greeting{}
//	    g.Init(g, name)
//	    return g
//	}
//
// # Lifecycle
//
// For each request the driver binds the context and calls InitControl,
// ProcessControl, PrepareRender, Render and DestroyControl on the page
// controls. Containers fan these calls out to their children in insertion
// order. ProcessControl stops at the first control returning false, while
// DestroyControl isolates failures so every sibling is destroyed.
//
// # Deferred events
//
// A triggered control does not call its listener directly. It queues it on
// the Dispatcher of the current Frame, and the driver fires the queue after
// the whole tree has been processed:
//
//	link.SetListenerFunc(func(source core.Control) bool {
//	    table.SetPageNumber(0)
//	    return true
//	})
//
// Frames live on the Scope of the request Context. Pages included from
// other pages push their own frame.
package core
