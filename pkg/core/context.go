package core

import (
	"mime/multipart"
	"net/http"

	"golang.org/x/text/language"

	"github.com/go-click/click/pkg/errors"
	"github.com/go-click/click/pkg/session"
)

// Context is the per-request handle injected into every control. It is
// implemented by the request driver.
type Context interface {
	Request() *http.Request
	Response() http.ResponseWriter

	// Method returns the HTTP method of the request.
	Method() string
	IsPost() bool
	// IsAjax reports whether the request was issued by XMLHttpRequest.
	IsAjax() bool
	// IsForward reports whether the page runs as an include of another page.
	IsForward() bool

	HasParam(name string) bool
	Param(name string) string
	ParamValues(name string) []string
	// File returns the uploaded file part submitted under name.
	File(name string) (*multipart.FileHeader, bool)

	// Scope returns the dispatcher frames of the request.
	Scope() *Scope

	Locale() language.Tag
	Charset() string
	Message(key string, args ...any) string
	LookupMessage(key string) (string, bool)

	// Session returns the client session, creating it when create is true.
	// It returns nil when there is no session and create is false.
	Session(create bool) *session.Session

	RenderTemplate(name string, model any) (string, error)

	// UploadError returns the pending multipart limit violation, if any.
	UploadError() *errors.UploadError
	ClearUploadError()
}
