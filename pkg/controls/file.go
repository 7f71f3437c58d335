package controls

import (
	stderrors "errors"
	"mime/multipart"

	"github.com/dustin/go-humanize"

	"github.com/go-click/click/pkg/rendering"
)

// ErrNoUpload is returned by FileField.Open when no file was uploaded.
var ErrNoUpload = stderrors.New("controls: no file uploaded")

// FileField is a file upload input. Its value is the uploaded file name.
// A form holding a file field is submitted as multipart/form-data.
type FileField struct {
	FieldBase
	Size int
	// MaxSize rejects larger uploads when positive.
	MaxSize int64
	header  *multipart.FileHeader
}

// NewFileField returns a file field of size 20.
func NewFileField(name string) *FileField {
	f := &FileField{Size: 20}
	f.Init(f, name)
	return f
}

func (f *FileField) setDefaultSize(n int) { f.Size = n }

// File returns the uploaded part, or nil.
func (f *FileField) File() *multipart.FileHeader { return f.header }

// Open opens the uploaded part. It fails when nothing was uploaded.
func (f *FileField) Open() (multipart.File, error) {
	if f.header == nil {
		return nil, ErrNoUpload
	}
	return f.header.Open()
}

func (f *FileField) BindRequestValue() {
	f.header = nil
	f.SetValue("")
	ctx := f.Context()
	if ctx == nil {
		return
	}
	if h, ok := ctx.File(f.Name()); ok {
		f.header = h
		f.SetValue(h.Filename)
	}
}

func (f *FileField) Validate() {
	f.SetErrorText("")
	switch {
	case f.header == nil:
		if f.IsRequired() {
			f.SetErrorMessage("file-required-error")
		}
	case f.MaxSize > 0 && f.header.Size > f.MaxSize:
		f.SetErrorMessage("file-size-limit-exceeded-error", humanize.IBytes(uint64(f.MaxSize)))
	}
}

func (f *FileField) Render(buf *rendering.Buffer) {
	renderInput(buf, &f.FieldBase, "file", func(buf *rendering.Buffer) {
		buf.AppendAttributeInt("size", f.Size)
	})
}

// OnDestroy releases the uploaded part.
func (f *FileField) OnDestroy() {
	f.header = nil
	f.FieldBase.OnDestroy()
}

var _ Field = (*FileField)(nil)
