package core

import (
	"fmt"

	"github.com/go-click/click/pkg/errors"
	"github.com/go-click/click/pkg/logging"
)

// Phase selects when a deferred listener fires.
type Phase int

const (
	// PostOnProcess fires after every control finished OnProcess.
	PostOnProcess Phase = iota
	// PostOnRender fires after every control finished OnRender.
	PostOnRender

	phaseCount
)

func (p Phase) String() string {
	switch p {
	case PostOnProcess:
		return "post-on-process"
	case PostOnRender:
		return "post-on-render"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

type eventHolder struct {
	source   Control
	listener ActionListener
}

// Dispatcher defers action listeners and Ajax behaviors until the control
// tree has finished a phase, so listeners never observe a partially
// processed tree.
type Dispatcher struct {
	queues          [phaseCount][]eventHolder
	behaviorSources []Control
	partial         *Partial

	firing Phase
	active bool
}

// NewDispatcher returns an empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// DispatchActionEvent queues listener for source in the PostOnProcess phase.
func (d *Dispatcher) DispatchActionEvent(source Control, listener ActionListener) {
	d.DispatchActionEventAt(source, listener, PostOnProcess)
}

// DispatchActionEventAt queues listener for source in phase. It panics with
// a usage error on nil arguments or an unknown phase.
func (d *Dispatcher) DispatchActionEventAt(source Control, listener ActionListener, phase Phase) {
	const op = "core.Dispatcher.DispatchActionEvent"
	if source == nil {
		panic(errors.Usage(op, errors.ErrNilControl, "source"))
	}
	if listener == nil {
		panic(errors.Usage(op, errors.ErrInvalidValue, "nil listener for %q", source.Name()))
	}
	if phase < 0 || phase >= phaseCount {
		panic(errors.Usage(op, errors.ErrInvalidValue, "unknown %s", phase))
	}
	d.queues[phase] = append(d.queues[phase], eventHolder{source: source, listener: listener})
}

// DispatchBehavior queues source so its behaviors fire in FireBehaviors.
// A source is queued at most once.
func (d *Dispatcher) DispatchBehavior(source Control) {
	if source == nil {
		panic(errors.Usage("core.Dispatcher.DispatchBehavior", errors.ErrNilControl, "source"))
	}
	for _, s := range d.behaviorSources {
		if s == source {
			return
		}
	}
	d.behaviorSources = append(d.behaviorSources, source)
}

// Pending returns the number of listeners waiting in phase.
func (d *Dispatcher) Pending(phase Phase) int {
	if phase < 0 || phase >= phaseCount {
		return 0
	}
	return len(d.queues[phase])
}

// FireActionEvents fires the PostOnProcess listeners.
func (d *Dispatcher) FireActionEvents(ctx Context) bool {
	return d.FireActionEventsAt(ctx, PostOnProcess)
}

// FireActionEventsAt fires the listeners of phase in registration order.
// Each entry is removed before its listener runs, so listeners queued while
// firing run in the same pass. It returns false if any listener did.
func (d *Dispatcher) FireActionEventsAt(ctx Context, phase Phase) bool {
	if phase < 0 || phase >= phaseCount {
		panic(errors.Usage("core.Dispatcher.FireActionEvents", errors.ErrInvalidValue, "unknown %s", phase))
	}
	// Left set if a listener panics so ErrorOccurred knows the phase.
	d.firing, d.active = phase, true

	continueProcessing := true
	for len(d.queues[phase]) > 0 {
		h := d.queues[phase][0]
		d.queues[phase][0] = eventHolder{}
		d.queues[phase] = d.queues[phase][1:]

		ok := h.listener.OnAction(h.source)
		if logging.TraceEnabled() {
			logging.Trace("fired action listener",
				"phase", phase.String(),
				"source", h.source.Name(),
				"control", fmt.Sprintf("%T", h.source),
				"continue", ok)
		}
		if !ok {
			continueProcessing = false
		}
	}

	d.active = false
	return continueProcessing
}

// FireBehaviors fires the behaviors of every queued source. For each source
// the first behavior targeted by the request runs; the first non-nil Partial
// across all sources is kept. It returns false once any behavior ran, which
// ends normal page processing.
func (d *Dispatcher) FireBehaviors(ctx Context) bool {
	continueProcessing := true
	for len(d.behaviorSources) > 0 {
		source := d.behaviorSources[0]
		d.behaviorSources[0] = nil
		d.behaviorSources = d.behaviorSources[1:]
		if !d.fireBehavior(ctx, source) {
			continueProcessing = false
		}
	}
	return continueProcessing
}

func (d *Dispatcher) fireBehavior(ctx Context, source Control) bool {
	for _, b := range source.Behaviors() {
		if !b.IsRequestTarget(ctx) {
			continue
		}
		p := b.OnAction(source)
		if d.partial == nil && p != nil {
			d.partial = p
		}
		if logging.TraceEnabled() {
			logging.Trace("fired behavior",
				"source", source.Name(),
				"behavior", fmt.Sprintf("%T", b),
				"partial", p != nil,
				"rendered", p != nil && d.partial == p)
		}
		return false
	}
	if logging.TraceEnabled() {
		logging.Trace("no target behavior", "source", source.Name())
	}
	return true
}

// Partial returns the Partial produced by FireBehaviors, or nil.
func (d *Dispatcher) Partial() *Partial {
	return d.partial
}

// ErrorOccurred discards the listeners still queued for the failing phase
// (the phase being fired, else PostOnProcess) together with queued behavior
// sources. Other phases are kept.
func (d *Dispatcher) ErrorOccurred(err error) {
	phase := PostOnProcess
	if d.active {
		phase = d.firing
		d.active = false
	}
	logging.Logger().Debug("dispatcher cleared after error",
		"phase", phase.String(),
		"discarded", len(d.queues[phase]),
		"err", err)
	d.queues[phase] = nil
	d.behaviorSources = nil
}

// Clear discards all queued listeners, behavior sources and the Partial.
func (d *Dispatcher) Clear() {
	for i := range d.queues {
		d.queues[i] = nil
	}
	d.behaviorSources = nil
	d.partial = nil
	d.active = false
}
