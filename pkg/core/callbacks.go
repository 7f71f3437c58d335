package core

import "github.com/go-click/click/pkg/errors"

type callbackHolder struct {
	control  Control
	callback Callback
}

// CallbackDispatcher fires the response-phase hooks. It tracks an ordered
// set of Ajax target controls, whose behaviors receive the hooks, and a list
// of plain (control, callback) registrations.
type CallbackDispatcher struct {
	targets   []Control
	targetSet map[Control]struct{}
	callbacks []callbackHolder
}

// NewCallbackDispatcher returns an empty CallbackDispatcher.
func NewCallbackDispatcher() *CallbackDispatcher {
	return &CallbackDispatcher{targetSet: make(map[Control]struct{})}
}

// RegisterAjaxTarget adds control to the target set. Registering twice has
// no effect.
func (d *CallbackDispatcher) RegisterAjaxTarget(control Control) {
	if control == nil {
		panic(errors.Usage("core.CallbackDispatcher.RegisterAjaxTarget", errors.ErrNilControl, ""))
	}
	if _, ok := d.targetSet[control]; ok {
		return
	}
	d.targetSet[control] = struct{}{}
	d.targets = append(d.targets, control)
}

// AjaxTargets returns the registered targets in registration order.
func (d *CallbackDispatcher) AjaxTargets() []Control {
	return d.targets
}

// RegisterCallback adds a plain callback for control.
func (d *CallbackDispatcher) RegisterCallback(control Control, callback Callback) {
	const op = "core.CallbackDispatcher.RegisterCallback"
	if control == nil {
		panic(errors.Usage(op, errors.ErrNilControl, ""))
	}
	if callback == nil {
		panic(errors.Usage(op, errors.ErrInvalidValue, "nil callback for %q", control.Name()))
	}
	d.callbacks = append(d.callbacks, callbackHolder{control: control, callback: callback})
}

// ProcessPreResponse fires PreResponse.
func (d *CallbackDispatcher) ProcessPreResponse(ctx Context) {
	d.each(func(c Callback, source Control) { c.PreResponse(source) })
}

// ProcessPreGetHeadElements fires PreGetHeadElements.
func (d *CallbackDispatcher) ProcessPreGetHeadElements(ctx Context) {
	d.each(func(c Callback, source Control) { c.PreGetHeadElements(source) })
}

// ProcessPreDestroy fires PreDestroy.
func (d *CallbackDispatcher) ProcessPreDestroy(ctx Context) {
	d.each(func(c Callback, source Control) { c.PreDestroy(source) })
}

// each visits the behaviors of every target, then every plain callback.
func (d *CallbackDispatcher) each(fn func(c Callback, source Control)) {
	for _, control := range d.targets {
		for _, b := range control.Behaviors() {
			fn(b, control)
		}
	}
	for _, h := range d.callbacks {
		fn(h.callback, h.control)
	}
}

// ErrorOccurred discards every registration.
func (d *CallbackDispatcher) ErrorOccurred(err error) {
	d.Clear()
}

// Clear discards every registration.
func (d *CallbackDispatcher) Clear() {
	d.targets = nil
	d.targetSet = make(map[Control]struct{})
	d.callbacks = nil
}
