package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

type bodyKind int

const (
	bodyEmpty bodyKind = iota
	bodyJSON
	bodyForm
	bodyMultipart
)

// FilePart names a file to attach to a multipart request.
type FilePart struct {
	Field string // form field name
	Path  string // local file path
}

// Body is the request payload as an explicit variant: empty, JSON,
// URL-encoded form fields, or multipart form data. Callers choose the
// encoding; nothing is inferred from the payload's runtime shape.
type Body struct {
	kind   bodyKind
	raw    []byte
	form   url.Values
	fields map[string]string
	files  []FilePart
}

// EmptyBody returns a bodiless payload for GET and DELETE requests.
func EmptyBody() Body {
	return Body{kind: bodyEmpty}
}

// JSONBody marshals v and sends it with the JSON content type.
func JSONBody(v any) (Body, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Body{}, fmt.Errorf("failed to marshal JSON body: %w", err)
	}
	return Body{kind: bodyJSON, raw: data}, nil
}

// RawJSONBody sends pre-encoded JSON unmodified.
func RawJSONBody(data []byte) Body {
	return Body{kind: bodyJSON, raw: data}
}

// FormBody sends URL-encoded form fields. Fields with empty values are
// skipped when the body is built.
func FormBody(values url.Values) Body {
	return Body{kind: bodyForm, form: values}
}

// MultipartBody sends text fields plus file attachments as multipart form
// data. File parts with an empty path are skipped.
func MultipartBody(fields map[string]string, files ...FilePart) Body {
	return Body{kind: bodyMultipart, fields: fields, files: files}
}

// build renders the body to a reader and its content type. Empty bodies
// return a nil reader and no content type.
func (b Body) build() (io.Reader, string, error) {
	switch b.kind {
	case bodyEmpty:
		return nil, "", nil

	case bodyJSON:
		return bytes.NewReader(b.raw), "application/json;charset=UTF-8", nil

	case bodyForm:
		encoded := url.Values{}
		for key, vals := range b.form {
			for _, v := range vals {
				if v == "" {
					continue
				}
				encoded.Add(key, v)
			}
		}
		return strings.NewReader(encoded.Encode()), "application/x-www-form-urlencoded", nil

	case bodyMultipart:
		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)

		for key, value := range b.fields {
			if value == "" {
				continue
			}
			if err := writer.WriteField(key, value); err != nil {
				return nil, "", fmt.Errorf("failed to write multipart field %s: %w", key, err)
			}
		}

		for _, file := range b.files {
			if file.Path == "" {
				continue
			}
			if err := attachFile(writer, file); err != nil {
				return nil, "", err
			}
		}

		if err := writer.Close(); err != nil {
			return nil, "", fmt.Errorf("failed to finalize multipart body: %w", err)
		}
		return &buf, writer.FormDataContentType(), nil

	default:
		return nil, "", fmt.Errorf("unknown body kind %d", b.kind)
	}
}

func attachFile(writer *multipart.Writer, file FilePart) error {
	f, err := os.Open(file.Path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", file.Path, err)
	}
	defer f.Close()

	part, err := writer.CreateFormFile(file.Field, filepath.Base(file.Path))
	if err != nil {
		return fmt.Errorf("failed to create multipart file part %s: %w", file.Field, err)
	}

	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("failed to copy %s into multipart body: %w", file.Path, err)
	}

	return nil
}
