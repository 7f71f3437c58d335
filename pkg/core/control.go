package core

import (
	"sort"
	"strings"

	"github.com/go-click/click/pkg/rendering"
)

// Lifecycle is the per-request state of a control.
type Lifecycle int

const (
	Constructed Lifecycle = iota
	ContextBound
	Initialized
	Processed
	Rendered
	Destroyed
)

func (l Lifecycle) String() string {
	switch l {
	case ContextBound:
		return "context-bound"
	case Initialized:
		return "initialized"
	case Processed:
		return "processed"
	case Rendered:
		return "rendered"
	case Destroyed:
		return "destroyed"
	default:
		return "constructed"
	}
}

// Control is the unit of page composition.
//
// A control is constructed, bound to a request Context, then driven through
// OnInit, OnProcess, OnRender, Render and OnDestroy. Controls of stateful
// pages survive between requests and restart at OnInit.
type Control interface {
	Name() string
	SetName(name string)
	// ID returns the HTML id, derived from the id attribute or the name.
	ID() string

	Parent() Parent
	SetParent(p Parent)

	Context() Context
	SetContext(ctx Context)

	OnInit()
	// OnProcess binds the request. Returning false aborts processing of the
	// remaining controls and the page handlers.
	OnProcess() bool
	OnRender()
	OnDestroy()

	Render(buf *rendering.Buffer)

	HeadElements() []HeadElement
	Behaviors() []Behavior
	IsAjaxTarget(ctx Context) bool

	Lifecycle() Lifecycle
}

// NameSharer is implemented by controls that may share a name with a sibling,
// such as labels.
type NameSharer interface {
	SharesName() bool
}

// SharesName reports whether c may reuse a sibling's name.
func SharesName(c Control) bool {
	s, ok := c.(NameSharer)
	return ok && s.SharesName()
}

// lifecycleSetter is satisfied by every type embedding Base.
type lifecycleSetter interface {
	setLifecycle(Lifecycle)
}

// Base implements the bookkeeping shared by all controls: name, parent,
// context, attributes, listener, behaviors and head elements.
//
// Embedders call Init with themselves so that Base can hand the outer value
// to dispatchers and parents.
type Base struct {
	self      Control
	name      string
	parent    Parent
	ctx       Context
	attrs     map[string]string
	listener  ActionListener
	behaviors []Behavior
	head      []HeadElement
	state     Lifecycle
}

// Init records the outer control and its name.
func (b *Base) Init(self Control, name string) {
	b.self = self
	b.name = name
}

// Self returns the outer control passed to Init.
func (b *Base) Self() Control {
	return b.self
}

func (b *Base) Name() string { return b.name }

func (b *Base) SetName(name string) { b.name = name }

func (b *Base) ID() string {
	if id, ok := b.attrs["id"]; ok {
		return id
	}
	return b.name
}

// SetID sets the id attribute. An empty id restores the name-derived id.
func (b *Base) SetID(id string) { b.SetAttribute("id", id) }

func (b *Base) Parent() Parent { return b.parent }

func (b *Base) SetParent(p Parent) { b.parent = p }

func (b *Base) Context() Context { return b.ctx }

func (b *Base) SetContext(ctx Context) {
	b.ctx = ctx
	if ctx != nil && b.state < ContextBound {
		b.state = ContextBound
	}
}

func (b *Base) OnInit() {}

func (b *Base) OnProcess() bool { return true }

func (b *Base) OnRender() {}

// OnDestroy drops the request context so a stateful control does not retain
// the finished request.
func (b *Base) OnDestroy() {
	b.ctx = nil
}

// Render writes nothing by default.
func (b *Base) Render(buf *rendering.Buffer) {}

func (b *Base) Lifecycle() Lifecycle { return b.state }

func (b *Base) setLifecycle(l Lifecycle) { b.state = l }

// Attribute returns the named HTML attribute.
func (b *Base) Attribute(name string) string {
	return b.attrs[name]
}

// SetAttribute sets an HTML attribute. An empty value removes it.
func (b *Base) SetAttribute(name, value string) {
	if value == "" {
		delete(b.attrs, name)
		return
	}
	if b.attrs == nil {
		b.attrs = make(map[string]string)
	}
	b.attrs[name] = value
}

// HasAttribute reports whether the attribute is set.
func (b *Base) HasAttribute(name string) bool {
	_, ok := b.attrs[name]
	return ok
}

// Attributes returns the attribute map. It may be nil.
func (b *Base) Attributes() map[string]string {
	return b.attrs
}

// HasAttributes reports whether any attribute is set.
func (b *Base) HasAttributes() bool {
	return len(b.attrs) > 0
}

// AddStyleClass appends class to the class attribute if not present.
func (b *Base) AddStyleClass(class string) {
	classes := strings.Fields(b.attrs["class"])
	for _, c := range classes {
		if c == class {
			return
		}
	}
	b.SetAttribute("class", strings.Join(append(classes, class), " "))
}

// RemoveStyleClass removes class from the class attribute.
func (b *Base) RemoveStyleClass(class string) {
	classes := strings.Fields(b.attrs["class"])
	kept := classes[:0]
	for _, c := range classes {
		if c != class {
			kept = append(kept, c)
		}
	}
	b.SetAttribute("class", strings.Join(kept, " "))
}

// SetStyle sets or removes (empty value) one declaration of the style
// attribute. Declarations are kept in name order.
func (b *Base) SetStyle(name, value string) {
	styles := make(map[string]string)
	for _, decl := range strings.Split(b.attrs["style"], ";") {
		k, v, ok := strings.Cut(decl, ":")
		if ok && strings.TrimSpace(k) != "" {
			styles[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	}
	if value == "" {
		delete(styles, name)
	} else {
		styles[name] = value
	}
	keys := make([]string, 0, len(styles))
	for k := range styles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ":" + styles[k]
	}
	b.SetAttribute("style", strings.Join(parts, ";"))
}

// Style returns one declaration of the style attribute.
func (b *Base) Style(name string) string {
	for _, decl := range strings.Split(b.attrs["style"], ";") {
		k, v, ok := strings.Cut(decl, ":")
		if ok && strings.TrimSpace(k) == name {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// Listener returns the action listener, or nil.
func (b *Base) Listener() ActionListener { return b.listener }

// SetListener sets the listener invoked after the control is triggered.
func (b *Base) SetListener(l ActionListener) { b.listener = l }

// SetListenerFunc is SetListener for a plain function.
func (b *Base) SetListenerFunc(fn func(source Control) bool) {
	if fn == nil {
		b.listener = nil
		return
	}
	b.listener = ActionListenerFunc(fn)
}

// DispatchActionEvent queues the listener for the post-process phase of the
// active frame. It does nothing without a listener or context.
func (b *Base) DispatchActionEvent() {
	if b.listener == nil || b.ctx == nil {
		return
	}
	b.ctx.Scope().Current().Actions.DispatchActionEvent(b.self, b.listener)
}

// AddBehavior attaches an Ajax behavior. Duplicates are ignored.
func (b *Base) AddBehavior(behavior Behavior) {
	for _, existing := range b.behaviors {
		if existing == behavior {
			return
		}
	}
	b.behaviors = append(b.behaviors, behavior)
}

// RemoveBehavior detaches behavior.
func (b *Base) RemoveBehavior(behavior Behavior) {
	for i, existing := range b.behaviors {
		if existing == behavior {
			b.behaviors = append(b.behaviors[:i], b.behaviors[i+1:]...)
			return
		}
	}
}

func (b *Base) Behaviors() []Behavior { return b.behaviors }

// HasBehaviors reports whether any behavior is attached.
func (b *Base) HasBehaviors() bool { return len(b.behaviors) > 0 }

// DispatchBehaviors queues the control's behaviors for firing when it has
// any.
func (b *Base) DispatchBehaviors() {
	if len(b.behaviors) == 0 || b.ctx == nil {
		return
	}
	b.ctx.Scope().Current().Actions.DispatchBehavior(b.self)
}

// IsAjaxTarget reports whether the request carries a parameter named after
// the control id.
func (b *Base) IsAjaxTarget(ctx Context) bool {
	id := b.ID()
	if ctx == nil || id == "" {
		return false
	}
	return ctx.HasParam(id)
}

// AddHeadElement registers a resource to include in the page head.
func (b *Base) AddHeadElement(e HeadElement) {
	b.head = append(b.head, e)
}

func (b *Base) HeadElements() []HeadElement { return b.head }

// Message resolves a localized message through the context. Without a
// context the key is returned.
func (b *Base) Message(key string, args ...any) string {
	if b.ctx == nil {
		return key
	}
	return b.ctx.Message(key, args...)
}

// Page returns the page owning the control, walking up through containers.
func (b *Base) Page() Page {
	p := b.parent
	for {
		switch p.Kind() {
		case ParentPage:
			return p.Page()
		case ParentContainer:
			p = p.Container().Parent()
		default:
			return nil
		}
	}
}

// RenderString renders c into a fresh buffer.
func RenderString(c Control) string {
	buf := rendering.NewBuffer(256)
	c.Render(buf)
	return buf.String()
}
