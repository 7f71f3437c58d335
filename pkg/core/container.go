package core

import (
	"fmt"
	"slices"

	"github.com/go-click/click/pkg/errors"
	"github.com/go-click/click/pkg/logging"
	"github.com/go-click/click/pkg/rendering"
)

// Container is a control owning an ordered sequence of child controls with a
// name index. Insertion order is processing and render order.
type Container interface {
	Control
	Add(c Control) Control
	Insert(c Control, index int) Control
	Remove(c Control) bool
	Replace(current, replacement Control) Control
	Controls() []Control
	Control(name string) Control
	Contains(c Control) bool
	HasControls() bool
}

// ContainerBase implements Container. Embedders call Init with themselves.
type ContainerBase struct {
	Base
	container Container
	controls  []Control
	byName    map[string]Control
	// Tag is the enclosing element rendered around the children. Empty
	// renders the children only.
	Tag string
}

// Init records the outer container and its name.
func (c *ContainerBase) Init(self Container, name string) {
	c.Base.Init(self, name)
	c.container = self
}

// NewContainer returns a plain container rendering its children inside tag.
func NewContainer(name, tag string) *ContainerBase {
	c := &ContainerBase{Tag: tag}
	c.Init(c, name)
	return c
}

func (c *ContainerBase) self() Container {
	if c.container == nil {
		// Used standalone without Init.
		c.container = c
		c.Base.self = c
	}
	return c.container
}

// Add appends control.
func (c *ContainerBase) Add(control Control) Control {
	return c.Insert(control, len(c.controls))
}

// Insert adds control at index. It panics with a usage error when control
// is nil, is the container itself, index is outside [0, len], or the name is
// already taken by a sibling; the container is unchanged in that case.
// A control owned elsewhere is first removed from its previous owner.
func (c *ContainerBase) Insert(control Control, index int) Control {
	const op = "core.ContainerBase.Insert"
	self := c.self()
	if err := c.checkInsert(op, control, index); err != nil {
		panic(err)
	}

	if p := control.Parent(); !p.IsNone() && !p.IsContainer(self) {
		p.detach(control)
		logging.Logger().Debug("control reparented",
			"control", fmt.Sprintf("%T", control),
			"id", control.ID(),
			"from", p.String(),
			"to", self.Name())
	}

	control.SetParent(ContainerParent(self))
	c.controls = slices.Insert(c.controls, index, control)
	c.index(control)

	if ctx := c.Context(); ctx != nil && control.Context() != ctx {
		control.SetContext(ctx)
	}
	return control
}

// checkInsert validates an insertion without mutating anything.
func (c *ContainerBase) checkInsert(op string, control Control, index int) *errors.ClickError {
	if control == nil {
		return errors.Usage(op, errors.ErrNilControl, "")
	}
	if control == Control(c.self()) {
		return errors.Usage(op, errors.ErrSelfContainment, "container %q", c.Name())
	}
	if index < 0 || index > len(c.controls) {
		return errors.Usage(op, errors.ErrIndexOutOfRange, "index %d, size %d", index, len(c.controls))
	}
	if slices.Contains(c.controls, control) {
		return errors.Usage(op, errors.ErrDuplicateName, "control %q is already a child of %q", control.Name(), c.Name())
	}
	if name := control.Name(); name != "" && !SharesName(control) {
		if _, taken := c.byName[name]; taken {
			return errors.Usage(op, errors.ErrDuplicateName, "container %q already contains a control named %q", c.Name(), name)
		}
	}
	return nil
}

// CheckInsert reports the usage error Insert would panic with, or nil.
func (c *ContainerBase) CheckInsert(control Control, index int) error {
	if err := c.checkInsert("core.ContainerBase.Insert", control, index); err != nil {
		return err
	}
	return nil
}

func (c *ContainerBase) index(control Control) {
	name := control.Name()
	if name == "" {
		return
	}
	if _, taken := c.byName[name]; taken {
		// Only name-sharing controls get here; the first owner keeps the name.
		return
	}
	if c.byName == nil {
		c.byName = make(map[string]Control)
	}
	c.byName[name] = control
}

// Remove removes control and reports whether it was a child. The control's
// parent is cleared only if it still points at this container.
func (c *ContainerBase) Remove(control Control) bool {
	if control == nil {
		return false
	}
	i := slices.Index(c.controls, control)
	if i < 0 {
		return false
	}
	c.controls = slices.Delete(c.controls, i, i+1)
	if control.Parent().IsContainer(c.self()) {
		control.SetParent(NoParent())
	}
	name := control.Name()
	if name != "" && c.byName[name] == control {
		delete(c.byName, name)
		// Hand the name to a remaining sibling sharing it.
		for _, other := range c.controls {
			if other.Name() == name {
				c.byName[name] = other
				break
			}
		}
	}
	return true
}

// Replace swaps current for replacement at the same position. It panics
// like Insert when replacement cannot be added; current must be a child.
func (c *ContainerBase) Replace(current, replacement Control) Control {
	const op = "core.ContainerBase.Replace"
	i := slices.Index(c.controls, current)
	if current == nil || i < 0 {
		panic(errors.Usage(op, errors.ErrInvalidValue, "control to replace is not a child of %q", c.Name()))
	}
	c.Remove(current)
	defer func() {
		if r := recover(); r != nil {
			// Restore current before propagating.
			c.Insert(current, i)
			panic(r)
		}
	}()
	return c.Insert(replacement, i)
}

// Controls returns the children in insertion order. The slice must not be
// modified.
func (c *ContainerBase) Controls() []Control { return c.controls }

// Control returns the child named name, or nil.
func (c *ContainerBase) Control(name string) Control {
	return c.byName[name]
}

// Contains reports whether control is a direct child.
func (c *ContainerBase) Contains(control Control) bool {
	return slices.Contains(c.controls, control)
}

func (c *ContainerBase) HasControls() bool { return len(c.controls) > 0 }

// SetContext binds the container and all children to ctx.
func (c *ContainerBase) SetContext(ctx Context) {
	c.Base.SetContext(ctx)
	for _, child := range c.controls {
		child.SetContext(ctx)
	}
}

// OnInit initializes every child in order.
func (c *ContainerBase) OnInit() {
	for _, child := range c.controls {
		InitControl(child)
	}
}

// OnProcess processes children in order and stops at the first child
// returning false.
func (c *ContainerBase) OnProcess() bool {
	for _, child := range c.controls {
		if !ProcessControl(child) {
			return false
		}
	}
	return true
}

// OnRender prepares every child for rendering.
func (c *ContainerBase) OnRender() {
	for _, child := range c.controls {
		PrepareRender(child)
	}
}

// OnDestroy destroys every child. A failing child is reported and the
// remaining children are still destroyed.
func (c *ContainerBase) OnDestroy() {
	for _, child := range c.controls {
		DestroyControl(child)
	}
	c.Base.OnDestroy()
}

// Render writes the children, wrapped in Tag when set.
func (c *ContainerBase) Render(buf *rendering.Buffer) {
	if c.Tag == "" {
		c.RenderChildren(buf)
		return
	}
	buf.ElementStart(c.Tag)
	buf.AppendOptionalAttribute("id", c.ID())
	buf.AppendAttributes(c.Attributes())
	buf.CloseTag()
	if c.HasControls() {
		buf.Append("\n")
	}
	c.RenderChildren(buf)
	buf.ElementEnd(c.Tag)
}

// RenderChildren writes each child followed by a newline.
func (c *ContainerBase) RenderChildren(buf *rendering.Buffer) {
	for _, child := range c.controls {
		n := buf.Len()
		child.Render(buf)
		if buf.Len() > n {
			buf.Append("\n")
		}
	}
}

// HeadElements returns the container's own head elements followed by those
// of its children.
func (c *ContainerBase) HeadElements() []HeadElement {
	out := append([]HeadElement(nil), c.Base.HeadElements()...)
	for _, child := range c.controls {
		out = append(out, child.HeadElements()...)
	}
	return out
}
