// Package errors provides structured error handling for the Click framework.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindUsage indicates a programming mistake such as adding a nil control.
	KindUsage
	// KindUpload indicates a multipart request exceeded a configured limit.
	KindUpload
	// KindDestroy indicates a control failed while being destroyed.
	KindDestroy
	// KindListener indicates an action listener or behavior failed.
	KindListener
	// KindRender indicates a rendering error.
	KindRender
	// KindConfig indicates an invalid or unreadable configuration.
	KindConfig
	// KindSession indicates a session store failure.
	KindSession
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindUsage:
		return "usage"
	case KindUpload:
		return "upload"
	case KindDestroy:
		return "destroy"
	case KindListener:
		return "listener"
	case KindRender:
		return "render"
	case KindConfig:
		return "config"
	case KindSession:
		return "session"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// Sentinel errors wrapped by usage errors.
var (
	ErrNilControl      = stderrors.New("control cannot be nil")
	ErrSelfContainment = stderrors.New("cannot add a container to itself")
	ErrDuplicateName   = stderrors.New("control name already in use")
	ErrIndexOutOfRange = stderrors.New("index out of range")
	ErrInvalidValue    = stderrors.New("invalid value")
	ErrEmptyStack      = stderrors.New("no dispatcher frame is active")
)

// ClickError represents a structured error in the Click framework.
type ClickError struct {
	// Op is the operation that failed (e.g., "core.ContainerBase.Insert").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Control is the name of the control involved, if any.
	Control string
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *ClickError) Error() string {
	if e.Control != "" {
		return fmt.Sprintf("%s [%s] control=%s: %v", e.Op, e.Kind, e.Control, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *ClickError) Unwrap() error {
	return e.Err
}

// Usage builds a usage error wrapping sentinel with a formatted detail message.
// Callers panic with the result; the receiver of the failed call is left
// unmodified.
func Usage(op string, sentinel error, format string, args ...any) *ClickError {
	err := sentinel
	if format != "" {
		err = fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
	}
	return &ClickError{
		Op:        op,
		Kind:      KindUsage,
		Err:       err,
		Timestamp: time.Now(),
	}
}

// IsUsage reports whether v (typically a recovered panic value) is a usage
// error wrapping target.
func IsUsage(v any, target error) bool {
	err, ok := v.(error)
	if !ok {
		return false
	}
	var ce *ClickError
	if !stderrors.As(err, &ce) || ce.Kind != KindUsage {
		return false
	}
	return target == nil || stderrors.Is(ce.Err, target)
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "engine.processPage").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// UploadLimit identifies which multipart limit was exceeded.
type UploadLimit int

const (
	// UploadRequestTooLarge means the whole request body exceeded the limit.
	UploadRequestTooLarge UploadLimit = iota
	// UploadFileTooLarge means a single file part exceeded the limit.
	UploadFileTooLarge
)

// UploadError records a multipart limit violation. The request driver stores
// it on the context so forms can detect it instead of failing the request.
type UploadError struct {
	Limit UploadLimit
	// Field is the form field of the offending file part, if known.
	Field string
	// Permitted is the configured limit in bytes.
	Permitted int64
	// Actual is the declared or observed size in bytes, -1 when unknown.
	Actual int64
}

func (e *UploadError) Error() string {
	if e.Limit == UploadFileTooLarge {
		return fmt.Sprintf("file %q exceeds the permitted size of %d bytes", e.Field, e.Permitted)
	}
	return fmt.Sprintf("request exceeds the permitted size of %d bytes", e.Permitted)
}

// ErrorHandler receives errors reported by the Click framework.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *ClickError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
