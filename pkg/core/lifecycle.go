package core

import (
	"fmt"

	"github.com/go-click/click/pkg/errors"
	"github.com/go-click/click/pkg/logging"
)

// The functions below drive one lifecycle step of a control and record the
// resulting state. Containers and the request driver call them instead of
// the hooks directly.

// InitControl runs OnInit. Controls carrying behaviors are registered as
// Ajax targets of the active frame.
func InitControl(c Control) {
	c.OnInit()
	markLifecycle(c, Initialized)
	if len(c.Behaviors()) == 0 {
		return
	}
	if ctx := c.Context(); ctx != nil && ctx.Scope().Depth() > 0 {
		ctx.Scope().Current().Callbacks.RegisterAjaxTarget(c)
	}
}

// ProcessControl runs OnProcess and returns its result.
func ProcessControl(c Control) bool {
	ok := c.OnProcess()
	markLifecycle(c, Processed)
	return ok
}

// PrepareRender runs OnRender.
func PrepareRender(c Control) {
	c.OnRender()
	markLifecycle(c, Rendered)
}

// DestroyControl runs OnDestroy. A panic is recovered, reported and
// returned so callers can continue with the next control.
func DestroyControl(c Control) error {
	err := errors.Guard("core.DestroyControl", c.OnDestroy)
	markLifecycle(c, Destroyed)
	if err == nil {
		return nil
	}
	ce := &errors.ClickError{
		Op:      "core.DestroyControl",
		Kind:    errors.KindDestroy,
		Control: c.Name(),
		Err:     err,
	}
	if pe, ok := err.(*errors.PanicError); ok {
		ce.StackTrace = pe.StackTrace
	}
	logging.Logger().Error("control destroy failed",
		"control", fmt.Sprintf("%T", c),
		"name", c.Name(),
		"err", err)
	errors.Report(ce)
	return ce
}

func markLifecycle(c Control, l Lifecycle) {
	if s, ok := c.(lifecycleSetter); ok {
		s.setLifecycle(l)
	}
}
