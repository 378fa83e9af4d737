package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
)

// Body is a request payload that knows its own content type.
type Body interface {
	// Encode returns the encoded payload and the Content-Type header to send with it.
	Encode() (io.Reader, string, error)
}

// JSONBody sends v as application/json.
type JSONBody struct {
	Value interface{}
}

// JSON wraps v as a JSON request body.
func JSON(v interface{}) JSONBody {
	return JSONBody{Value: v}
}

// Encode implements Body.
func (b JSONBody) Encode() (io.Reader, string, error) {
	data, err := json.Marshal(b.Value)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode json body: %w", err)
	}
	return bytes.NewReader(data), "application/json", nil
}

// File is a single file attached to a multipart field.
// Content takes precedence over Path when both are set.
type File struct {
	Field    string
	Path     string
	Name     string
	Content  []byte
	MimeType string
}

// FileError reports an attachment that could not be read.
type FileError struct {
	Field string
	Path  string
	Err   error
}

func (e *FileError) Error() string {
	cause := e.Err
	var pe *fs.PathError
	if errors.As(cause, &pe) {
		cause = pe.Err
	}
	return fmt.Sprintf("cannot read %s file %s: %v", e.Field, e.Path, cause)
}

func (e *FileError) Unwrap() error { return e.Err }

// Multipart is a multipart/form-data payload with ordered text fields and at most one file per field.
type Multipart struct {
	fields [][2]string
	files  []File
}

// NewMultipart creates an empty multipart payload.
func NewMultipart() *Multipart {
	return &Multipart{}
}

// Set appends a text field.
func (m *Multipart) Set(name, value string) *Multipart {
	m.fields = append(m.fields, [2]string{name, value})
	return m
}

// SetJSON appends a text field holding the JSON encoding of v.
func (m *Multipart) SetJSON(name string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode field %s: %w", name, err)
	}
	m.Set(name, string(data))
	return nil
}

// Attach adds a file, replacing any earlier file on the same field.
func (m *Multipart) Attach(f File) *Multipart {
	for i := range m.files {
		if m.files[i].Field == f.Field {
			m.files[i] = f
			return m
		}
	}
	m.files = append(m.files, f)
	return m
}

// Field returns the first value of a text field.
func (m *Multipart) Field(name string) (string, bool) {
	for _, kv := range m.fields {
		if kv[0] == name {
			return kv[1], true
		}
	}
	return "", false
}

// HasFile reports whether a file is attached to field.
func (m *Multipart) HasFile(field string) bool {
	for _, f := range m.files {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Encode implements Body.
func (m *Multipart) Encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, kv := range m.fields {
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", kv[0], err)
		}
	}

	for _, f := range m.files {
		content := f.Content
		if content == nil {
			data, err := os.ReadFile(f.Path)
			if err != nil {
				return nil, "", &FileError{Field: f.Field, Path: f.Path, Err: err}
			}
			content = data
		}
		name := f.Name
		if name == "" {
			name = filepath.Base(f.Path)
		}
		mimeType := f.MimeType
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}

		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(f.Field), escapeQuotes(name)))
		h.Set("Content-Type", mimeType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create part %s: %w", f.Field, err)
		}
		if _, err := part.Write(content); err != nil {
			return nil, "", fmt.Errorf("failed to write part %s: %w", f.Field, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
