package gateway

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
)

// Form collects fields and at most one file for a multipart request.
// Book writes carry their cover image this way.
type Form struct {
	fields [][2]string
	file   *formFile
}

type formFile struct {
	key      string
	filename string
	content  []byte
}

func NewForm() *Form {
	return &Form{}
}

// Set appends a field. Field order is preserved.
func (f *Form) Set(key, value string) {
	f.fields = append(f.fields, [2]string{key, value})
}

// SetFile attaches the file part, replacing any previous one.
func (f *Form) SetFile(key, filename string, content []byte) {
	f.file = &formFile{key: key, filename: filename, content: content}
}

func (f *Form) encode() (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for _, field := range f.fields {
		if err := w.WriteField(field[0], field[1]); err != nil {
			return nil, "", fmt.Errorf("failed to write form field %q: %w", field[0], err)
		}
	}
	if f.file != nil {
		part, err := w.CreateFormFile(f.file.key, f.file.filename)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create form file: %w", err)
		}
		if _, err := part.Write(f.file.content); err != nil {
			return nil, "", fmt.Errorf("failed to write form file: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize form: %w", err)
	}

	return buf, w.FormDataContentType(), nil
}

// DoMultipart issues an authenticated multipart request and decodes the
// JSON response into target when target is non-nil.
func (c *Client) DoMultipart(ctx context.Context, method, path string, form *Form, target any) error {
	body, contentType, err := form.encode()
	if err != nil {
		return err
	}
	payload, err := c.roundTrip(ctx, method, path, body, contentType, true)
	if err != nil {
		return err
	}
	if target == nil {
		return nil
	}
	return payload.Decode(target)
}
