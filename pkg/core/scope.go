package core

import "github.com/go-click/click/pkg/errors"

// Frame holds the dispatchers of one page execution.
type Frame struct {
	Actions   *Dispatcher
	Callbacks *CallbackDispatcher
}

// NewFrame returns a frame with empty dispatchers.
func NewFrame() *Frame {
	return &Frame{
		Actions:   NewDispatcher(),
		Callbacks: NewCallbackDispatcher(),
	}
}

// Scope is the stack of frames of one request. A page included from another
// page pushes its own frame and pops it when done, restoring the outer one.
// A Scope belongs to a single request and is not safe for concurrent use.
type Scope struct {
	frames []*Frame
}

// NewScope returns an empty scope.
func NewScope() *Scope {
	return &Scope{frames: make([]*Frame, 0, 2)}
}

// Push starts a new frame and returns it.
func (s *Scope) Push() *Frame {
	f := NewFrame()
	s.frames = append(s.frames, f)
	return f
}

// Pop removes and returns the innermost frame. It panics when the scope is
// empty.
func (s *Scope) Pop() *Frame {
	f := s.Current()
	s.frames[len(s.frames)-1] = nil
	s.frames = s.frames[:len(s.frames)-1]
	return f
}

// Current returns the innermost frame. It panics when the scope is empty.
func (s *Scope) Current() *Frame {
	if len(s.frames) == 0 {
		panic(errors.Usage("core.Scope.Current", errors.ErrEmptyStack, ""))
	}
	return s.frames[len(s.frames)-1]
}

// Depth returns the number of active frames.
func (s *Scope) Depth() int {
	return len(s.frames)
}
