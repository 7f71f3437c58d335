package core

import (
	"testing"

	"github.com/go-click/click/pkg/errors"
)

func TestScope_NestedFrames(t *testing.T) {
	s := NewScope()
	outer := s.Push()
	inner := s.Push()

	if s.Current() != inner || s.Depth() != 2 {
		t.Fatal("inner frame should be current")
	}
	if s.Pop() != inner {
		t.Error("Pop() should return the inner frame")
	}
	if s.Current() != outer {
		t.Error("outer frame should be restored")
	}
	if s.Pop() != outer || s.Depth() != 0 {
		t.Error("scope should be empty")
	}
}

func TestScope_EmptyPanics(t *testing.T) {
	s := NewScope()
	expectUsagePanic(t, errors.ErrEmptyStack, func() { s.Pop() })
	expectUsagePanic(t, errors.ErrEmptyStack, func() { s.Current() })
}
