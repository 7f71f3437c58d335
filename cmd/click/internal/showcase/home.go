package showcase

import (
	"github.com/go-click/click/pkg/controls"
	"github.com/go-click/click/pkg/core"
)

type homePage struct {
	core.PageBase
}

func newHomePage() *homePage {
	p := &homePage{}
	p.Init(p)

	intro := controls.NewPanel("intro", "intro.htm")
	intro.AddModel("title", "click showcase")
	for _, m := range menu {
		intro.Add(controls.NewPageLink(m.name, m.path, m.label))
	}
	p.AddControl(intro)
	return p
}
