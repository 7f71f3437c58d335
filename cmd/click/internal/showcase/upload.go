package showcase

import (
	"bufio"
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/go-click/click/pkg/controls"
	"github.com/go-click/click/pkg/core"
)

// uploadPage accepts a text file and reports its size and line count.
type uploadPage struct {
	core.PageBase
	form *controls.Form
	file *controls.FileField
}

func newUploadPage() *uploadPage {
	p := &uploadPage{}
	p.Init(p)

	p.form = controls.NewForm("form")
	p.file = controls.NewFileField("file")
	p.file.SetRequired(true)
	p.file.MaxSize = 1 << 20
	p.form.Add(p.file)
	p.form.Add(controls.NewTextField("description"))

	upload := controls.NewSubmit("upload", "Upload")
	upload.SetListenerFunc(p.onUpload)
	p.form.Add(upload)

	p.AddControl(p.form)
	return p
}

func (p *uploadPage) onUpload(core.Control) bool {
	if !p.form.IsValid() {
		return true
	}
	h := p.file.File()
	f, err := p.file.Open()
	if err != nil {
		p.form.SetErrorText(err.Error())
		return true
	}
	defer f.Close()

	lines := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines++
	}
	summary := fmt.Sprintf("%s: %s, %s lines", h.Filename, humanize.Bytes(uint64(h.Size)), humanize.Comma(int64(lines)))
	if err := sc.Err(); err != nil {
		summary = fmt.Sprintf("%s: %s, not a text file", h.Filename, humanize.Bytes(uint64(h.Size)))
	}
	if d := p.form.FieldValue("description"); d != "" {
		summary += " (" + d + ")"
	}
	p.form.Add(controls.NewLabel("result", "<strong>Received "+htmlEscape(summary)+"</strong>"))
	return true
}
