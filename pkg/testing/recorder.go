package testing

import (
	"github.com/go-click/click/pkg/core"
	"github.com/go-click/click/pkg/rendering"
)

// Recorder is a control that appends "<hook>:<name>" to Log for every
// lifecycle call. Several recorders may share one log to observe ordering.
type Recorder struct {
	core.Base
	Log *[]string
	// Stop makes OnProcess return false.
	Stop bool
	// PanicOnDestroy makes OnDestroy panic after recording the call.
	PanicOnDestroy bool
	// Markup is written by Render.
	Markup string
}

// NewRecorder returns a recorder named name writing to log. A nil log gets a
// private one.
func NewRecorder(name string, log *[]string) *Recorder {
	if log == nil {
		log = new([]string)
	}
	r := &Recorder{Log: log}
	r.Init(r, name)
	return r
}

func (r *Recorder) record(hook string) {
	*r.Log = append(*r.Log, hook+":"+r.Name())
}

func (r *Recorder) OnInit() { r.record("init") }

func (r *Recorder) OnProcess() bool {
	r.record("process")
	r.DispatchActionEvent()
	return !r.Stop
}

func (r *Recorder) OnRender() { r.record("render") }

func (r *Recorder) OnDestroy() {
	r.record("destroy")
	r.Base.OnDestroy()
	if r.PanicOnDestroy {
		panic("recorder " + r.Name() + " failed to destroy")
	}
}

func (r *Recorder) Render(buf *rendering.Buffer) {
	buf.Append(r.Markup)
}
