package forwarder

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"

	"service-gateway/internal/common/errors"
)

// UploadField is the form field name files are re-attached under
const UploadField = "file"

// UploadMethod is the method used upstream for an upload: PUT stays PUT,
// anything else becomes POST
func UploadMethod(method string) string {
	if method == http.MethodPut {
		return http.MethodPut
	}
	return http.MethodPost
}

// EncodeMultipart rebuilds form as a new multipart body. Text fields are
// copied as-is; every non-empty file is attached under UploadField.
func EncodeMultipart(form *multipart.Form) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if form != nil {
		names := make([]string, 0, len(form.Value))
		for name := range form.Value {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			for _, v := range form.Value[name] {
				if err := w.WriteField(name, v); err != nil {
					return nil, "", fmt.Errorf("write field %s: %w", name, err)
				}
			}
		}

		fields := make([]string, 0, len(form.File))
		for name := range form.File {
			fields = append(fields, name)
		}
		sort.Strings(fields)

		for _, name := range fields {
			for _, fh := range form.File[name] {
				if fh.Size == 0 {
					continue
				}
				if err := attachFile(w, fh); err != nil {
					return nil, "", err
				}
			}
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func attachFile(w *multipart.Writer, fh *multipart.FileHeader) error {
	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer src.Close()

	dst, err := w.CreateFormFile(UploadField, fh.Filename)
	if err != nil {
		return fmt.Errorf("create part %s: %w", fh.Filename, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("copy upload %s: %w", fh.Filename, err)
	}
	return nil
}

// ForwardMultipart re-encodes form and forwards it. req.Body is ignored and
// the upstream method follows UploadMethod. An error is returned only when
// the form cannot be re-encoded; nothing has been sent upstream in that case.
func (f *Forwarder) ForwardMultipart(ctx context.Context, req *Request, form *multipart.Form) (*Outcome, error) {
	body, contentType, err := EncodeMultipart(form)
	if err != nil {
		return nil, errors.ValidationError("invalid multipart form").WithContext("reason", err.Error())
	}

	headers := req.Headers.Clone()
	if headers == nil {
		headers = http.Header{}
	}
	headers.Set("Content-Type", contentType)

	upload := *req
	upload.Method = UploadMethod(req.Method)
	upload.Headers = headers
	upload.Body = bytes.NewReader(body)
	upload.ContentLength = int64(len(body))

	return f.Forward(ctx, &upload), nil
}
