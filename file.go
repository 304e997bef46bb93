package uploadkit

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// File is a single submitted file handle. It carries identity metadata and a
// capability to open the content for reading; the content itself is not held
// in memory unless an engine chooses to buffer it.
//
// A File is immutable. Rename hooks produce a new File via WithFilename that
// shares the same content.
type File struct {
	// Filename is the client-provided (or hook-rewritten) file name.
	Filename string

	// ContentType is the MIME type reported by the client. Engines and
	// filters that need a trustworthy type should use DetectMIME instead.
	ContentType string

	// Size is the file size in bytes.
	Size int64

	open func() (io.ReadCloser, error)
}

// NewFile creates a File from metadata and an open capability.
// The open function may be called multiple times (MIME sniffing plus upload),
// so it must return a fresh reader positioned at the start on each call.
func NewFile(filename, contentType string, size int64, open func() (io.ReadCloser, error)) *File {
	return &File{
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
		open:        open,
	}
}

// NewFileFromBytes creates a File backed by an in-memory byte slice.
// Useful in tests and for programmatic uploads.
func NewFileFromBytes(filename, contentType string, data []byte) *File {
	return &File{
		Filename:    filename,
		ContentType: contentType,
		Size:        int64(len(data)),
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// Open returns a fresh reader over the file content.
// The caller is responsible for closing the returned reader.
func (f *File) Open() (io.ReadCloser, error) {
	if f == nil || f.open == nil {
		return nil, ErrNoContent
	}
	return f.open()
}

// WithFilename returns a copy of the file with a different name.
// Content, size, and content type are unchanged.
func (f *File) WithFilename(name string) *File {
	clone := *f
	clone.Filename = name
	return &clone
}

// fileFromHeader adapts a parsed multipart file header into a File.
func fileFromHeader(fh *multipart.FileHeader) *File {
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = MIMEOctetStream
	}
	return &File{
		Filename:    fh.Filename,
		ContentType: contentType,
		Size:        fh.Size,
		open: func() (io.ReadCloser, error) {
			rc, err := fh.Open()
			if err != nil {
				return nil, fmt.Errorf("uploadkit: failed to open form file: %w", err)
			}
			return rc, nil
		},
	}
}

// Form is the demultiplexed multipart form the broker consumes: plain values
// plus zero or more files per named field. The broker never reads raw bytes
// off a socket; it only sees this abstraction.
type Form struct {
	values map[string][]string
	files  map[string][]*File
}

// NewForm creates a Form from pre-demultiplexed values and files.
func NewForm(values map[string][]string, files map[string][]*File) *Form {
	if values == nil {
		values = map[string][]string{}
	}
	if files == nil {
		files = map[string][]*File{}
	}
	return &Form{values: values, files: files}
}

// FormFromMultipart adapts a parsed stdlib multipart form.
func FormFromMultipart(mf *multipart.Form) *Form {
	form := NewForm(nil, nil)
	if mf == nil {
		return form
	}
	for name, vals := range mf.Value {
		form.values[name] = vals
	}
	for name, headers := range mf.File {
		files := make([]*File, 0, len(headers))
		for _, fh := range headers {
			files = append(files, fileFromHeader(fh))
		}
		form.files[name] = files
	}
	return form
}

// Files returns the submitted files for a field, in submission order.
func (f *Form) Files(field string) []*File {
	return f.files[field]
}

// Value returns the first plain value for a field, or "".
func (f *Form) Value(name string) string {
	if vals := f.values[name]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// Values returns all plain values for a field.
func (f *Form) Values(name string) []string {
	return f.values[name]
}

// fileCount is the total number of files across all fields.
func (f *Form) fileCount() int64 {
	var n int64
	for _, files := range f.files {
		n += int64(len(files))
	}
	return n
}

// fieldCount is the total number of parts (values plus files).
func (f *Form) fieldCount() int64 {
	var n int64
	for _, vals := range f.values {
		n += int64(len(vals))
	}
	for _, files := range f.files {
		n += int64(len(files))
	}
	return n
}

// parseRequest parses the request body as a multipart form and enforces the
// configured part limits. Limit violations are reported as parse failures so
// the broker surfaces them as a whole-report error.
func parseRequest(r *http.Request, maxMemory, maxFiles, maxFields int64) (*Form, error) {
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormParse, err)
	}

	form := FormFromMultipart(r.MultipartForm)
	if n := form.fileCount(); n > maxFiles {
		return nil, fmt.Errorf("%w: %d files exceed the limit of %d", ErrFormParse, n, maxFiles)
	}
	if n := form.fieldCount(); n > maxFields {
		return nil, fmt.Errorf("%w: %d form parts exceed the limit of %d", ErrFormParse, n, maxFields)
	}

	return form, nil
}
