package core

// ParentKind tags what owns a control.
type ParentKind int

const (
	ParentNone ParentKind = iota
	ParentPage
	ParentContainer
)

func (k ParentKind) String() string {
	switch k {
	case ParentPage:
		return "page"
	case ParentContainer:
		return "container"
	default:
		return "none"
	}
}

// Parent is the owner of a control: nothing, a page, or a container.
// The zero value means no parent.
type Parent struct {
	kind      ParentKind
	page      Page
	container Container
}

// NoParent returns the empty parent.
func NoParent() Parent { return Parent{} }

// PageParent returns a parent referring to p.
func PageParent(p Page) Parent {
	if p == nil {
		return Parent{}
	}
	return Parent{kind: ParentPage, page: p}
}

// ContainerParent returns a parent referring to c.
func ContainerParent(c Container) Parent {
	if c == nil {
		return Parent{}
	}
	return Parent{kind: ParentContainer, container: c}
}

func (p Parent) Kind() ParentKind { return p.kind }

func (p Parent) IsNone() bool { return p.kind == ParentNone }

// Page returns the owning page, or nil.
func (p Parent) Page() Page { return p.page }

// Container returns the owning container, or nil.
func (p Parent) Container() Container { return p.container }

// Is reports whether p refers to the same owner as other.
func (p Parent) Is(other Parent) bool {
	if p.kind != other.kind {
		return false
	}
	switch p.kind {
	case ParentPage:
		return p.page == other.page
	case ParentContainer:
		return p.container == other.container
	}
	return true
}

// IsContainer reports whether p is the container c.
func (p Parent) IsContainer(c Container) bool {
	return p.kind == ParentContainer && p.container == c
}

// detach removes c from its current owner.
func (p Parent) detach(c Control) bool {
	switch p.kind {
	case ParentPage:
		return p.page.RemoveControl(c)
	case ParentContainer:
		return p.container.Remove(c)
	}
	return false
}

func (p Parent) String() string {
	switch p.kind {
	case ParentPage:
		return "page " + p.page.Path()
	case ParentContainer:
		return "container " + p.container.Name()
	}
	return "none"
}
