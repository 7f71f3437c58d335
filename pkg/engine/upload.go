package engine

import (
	stderrors "errors"
	"mime"
	"net/http"
	"strings"

	"github.com/go-click/click/pkg/errors"
	"github.com/go-click/click/pkg/logging"
)

// multipartMemory is the part of a multipart body kept in memory; larger
// files spill to temporary files.
const multipartMemory = 1 << 20

// parseRequest parses the query and body parameters of r. Multipart bodies
// are limited to maxRequest bytes and each file to maxFile bytes. A limit
// violation is returned instead of failing the request; an oversized file
// is dropped from the parsed form.
func parseRequest(w http.ResponseWriter, r *http.Request, maxRequest, maxFile int64) *errors.UploadError {
	if !isMultipart(r) {
		if err := r.ParseForm(); err != nil {
			logging.Logger().Debug("malformed request parameters", "path", r.URL.Path, "err", err)
		}
		return nil
	}

	if maxRequest > 0 && r.ContentLength > maxRequest {
		r.Body = http.MaxBytesReader(w, r.Body, 0)
		r.ParseForm()
		return &errors.UploadError{
			Limit:     errors.UploadRequestTooLarge,
			Permitted: maxRequest,
			Actual:    r.ContentLength,
		}
	}
	if maxRequest > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequest)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return &errors.UploadError{
				Limit:     errors.UploadRequestTooLarge,
				Permitted: maxRequest,
				Actual:    -1,
			}
		}
		logging.Logger().Debug("malformed multipart request", "path", r.URL.Path, "err", err)
		return nil
	}

	if maxFile <= 0 || r.MultipartForm == nil {
		return nil
	}
	var violation *errors.UploadError
	for field, headers := range r.MultipartForm.File {
		kept := headers[:0]
		for _, fh := range headers {
			if fh.Size > maxFile {
				if violation == nil {
					violation = &errors.UploadError{
						Limit:     errors.UploadFileTooLarge,
						Field:     field,
						Permitted: maxFile,
						Actual:    fh.Size,
					}
				}
				continue
			}
			kept = append(kept, fh)
		}
		if len(kept) == 0 {
			delete(r.MultipartForm.File, field)
		} else {
			r.MultipartForm.File[field] = kept
		}
	}
	return violation
}

func isMultipart(r *http.Request) bool {
	if r.Method != http.MethodPost && r.Method != http.MethodPut {
		return false
	}
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && strings.HasPrefix(mt, "multipart/")
}
