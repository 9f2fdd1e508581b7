package exporter

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
)

// Input is a file offered to the exporter: a dropped upload, a file on
// disk, or an in-memory value. Type is the declared media type; the content
// is not sniffed.
type Input interface {
	Name() string
	Type() string
	Open() (io.ReadCloser, error)
}

// FileInput is a file on disk. Its type is derived from the extension.
type FileInput struct {
	Path string
}

// NewFileInput returns an Input for the file at path.
func NewFileInput(path string) *FileInput {
	return &FileInput{Path: path}
}

func (f *FileInput) Name() string { return filepath.Base(f.Path) }

func (f *FileInput) Type() string {
	return mime.TypeByExtension(strings.ToLower(filepath.Ext(f.Path)))
}

func (f *FileInput) Open() (io.ReadCloser, error) { return os.Open(f.Path) }

// BytesInput is an in-memory input.
type BytesInput struct {
	Filename  string
	MediaType string
	Data      []byte
}

// NewBytesInput returns an Input over data.
func NewBytesInput(name, mediaType string, data []byte) *BytesInput {
	return &BytesInput{Filename: name, MediaType: mediaType, Data: data}
}

func (b *BytesInput) Name() string { return b.Filename }
func (b *BytesInput) Type() string { return b.MediaType }

func (b *BytesInput) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b.Data)), nil
}

// ReadMultipart buffers one uploaded file. The content is read eagerly
// because the request's temporary files are removed once the handler
// returns, while the exporter reads its inputs in the background. The type
// is the Content-Type the client declared for the part.
func ReadMultipart(fh *multipart.FileHeader) (*BytesInput, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return NewBytesInput(fh.Filename, fh.Header.Get("Content-Type"), data), nil
}

// isJSONType reports whether a declared media type is application/json.
// Parameters such as charset are ignored.
func isJSONType(t string) bool {
	mt, _, err := mime.ParseMediaType(t)
	if err != nil {
		mt, _, _ = strings.Cut(t, ";")
	}
	return strings.EqualFold(strings.TrimSpace(mt), jsonMediaType)
}
