package engine

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-click/click/pkg/errors"
)

func multipartRequest(t *testing.T, fields map[string]string, files map[string][]byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	for name, data := range files {
		fw, err := w.CreateFormFile(name, name+".txt")
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(data)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	r := httptest.NewRequest(http.MethodPost, "/upload.htm", &body)
	r.Header.Set("Content-Type", w.FormDataContentType())
	return r
}

func TestParseRequest_Form(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/form.htm?page=2", strings.NewReader("name=ada"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if err := parseRequest(httptest.NewRecorder(), r, 100, 10); err != nil {
		t.Fatalf("parseRequest: %v", err)
	}
	if r.Form.Get("name") != "ada" || r.Form.Get("page") != "2" {
		t.Errorf("form = %v", r.Form)
	}
}

func TestParseRequest_Multipart(t *testing.T) {
	r := multipartRequest(t, map[string]string{"title": "report"}, map[string][]byte{"doc": []byte("hello")})
	if err := parseRequest(httptest.NewRecorder(), r, 1<<20, 1<<10); err != nil {
		t.Fatalf("parseRequest: %v", err)
	}
	if got := r.MultipartForm.Value["title"]; len(got) != 1 || got[0] != "report" {
		t.Errorf("title = %v", got)
	}
	if len(r.MultipartForm.File["doc"]) != 1 {
		t.Error("uploaded file missing")
	}
}

func TestParseRequest_FileTooLarge(t *testing.T) {
	r := multipartRequest(t, nil, map[string][]byte{
		"big":   bytes.Repeat([]byte("x"), 64),
		"small": []byte("ok"),
	})
	err := parseRequest(httptest.NewRecorder(), r, 1<<20, 16)
	if err == nil {
		t.Fatal("expected a file size violation")
	}
	if err.Limit != errors.UploadFileTooLarge || err.Field != "big" || err.Permitted != 16 || err.Actual != 64 {
		t.Errorf("violation = %+v", err)
	}
	if _, ok := r.MultipartForm.File["big"]; ok {
		t.Error("oversized file kept in the form")
	}
	if _, ok := r.MultipartForm.File["small"]; !ok {
		t.Error("small file dropped")
	}
}

func TestParseRequest_RequestTooLarge(t *testing.T) {
	r := multipartRequest(t, nil, map[string][]byte{"doc": bytes.Repeat([]byte("x"), 512)})
	err := parseRequest(httptest.NewRecorder(), r, 128, 64)
	if err == nil {
		t.Fatal("expected a request size violation")
	}
	if err.Limit != errors.UploadRequestTooLarge || err.Permitted != 128 {
		t.Errorf("violation = %+v", err)
	}
	if err.Actual != r.ContentLength {
		t.Errorf("actual = %d, want declared length %d", err.Actual, r.ContentLength)
	}
}

func TestParseRequest_UndeclaredLengthTooLarge(t *testing.T) {
	r := multipartRequest(t, nil, map[string][]byte{"doc": bytes.Repeat([]byte("x"), 512)})
	r.ContentLength = -1
	err := parseRequest(httptest.NewRecorder(), r, 128, 64)
	if err == nil {
		t.Fatal("expected a request size violation")
	}
	if err.Limit != errors.UploadRequestTooLarge || err.Actual != -1 {
		t.Errorf("violation = %+v", err)
	}
}

func TestContext_UploadErrorExposed(t *testing.T) {
	e := newTestEngine(t)
	e.cfg.MaxFileSize = 8
	r := multipartRequest(t, nil, map[string][]byte{"doc": bytes.Repeat([]byte("x"), 32)})
	ctx := e.NewContext(httptest.NewRecorder(), r, "/upload.htm")

	if ctx.UploadError() == nil {
		t.Fatal("UploadError = nil")
	}
	if _, ok := ctx.File("doc"); ok {
		t.Error("oversized file reachable through File")
	}
	ctx.ClearUploadError()
	if ctx.UploadError() != nil {
		t.Error("ClearUploadError did not clear")
	}
}

func TestContext_Params(t *testing.T) {
	e := newTestEngine(t)
	r := multipartRequest(t, map[string]string{"name": "ada"}, map[string][]byte{"cv": []byte("pdf")})
	r.URL.RawQuery = "tag=a&tag=b"
	ctx := e.NewContext(httptest.NewRecorder(), r, "/upload.htm")

	if !ctx.HasParam("name") || ctx.Param("name") != "ada" {
		t.Errorf("name param = %q", ctx.Param("name"))
	}
	if !ctx.HasParam("cv") {
		t.Error("file field not reported as a parameter")
	}
	if got := ctx.ParamValues("tag"); len(got) != 2 {
		t.Errorf("tag values = %v", got)
	}
	if ctx.HasParam("missing") || ctx.Param("missing") != "" {
		t.Error("missing param reported")
	}
	if fh, ok := ctx.File("cv"); !ok || fh.Filename != "cv.txt" {
		t.Errorf("File(cv) = %v, %v", fh, ok)
	}
}
