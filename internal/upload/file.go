package upload

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

const defaultContentType = "application/octet-stream"

// File is one candidate for upload. Bytes are opened lazily so a selection of
// large files costs nothing until the transfer starts.
type File struct {
	Name        string
	Size        int64
	ContentType string
	open        func() (io.ReadCloser, error)
}

func (f File) Open() (io.ReadCloser, error) {
	if f.open == nil {
		return nil, fmt.Errorf("file %s has no content", f.Name)
	}
	return f.open()
}

// key identifies duplicates: same name and same size.
func (f File) key() string {
	return fmt.Sprintf("%s/%d", f.Name, f.Size)
}

// FromPath stats a local file; its content is read only when uploaded.
func FromPath(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("%s is a directory", path)
	}
	return File{
		Name:        filepath.Base(path),
		Size:        info.Size(),
		ContentType: ContentTypeOf(path),
		open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// FromBytes wraps in-memory content.
func FromBytes(name string, data []byte) File {
	return File{
		Name:        name,
		Size:        int64(len(data)),
		ContentType: ContentTypeOf(name),
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// ContentTypeOf derives the MIME type from the extension.
func ContentTypeOf(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return defaultContentType
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return defaultContentType
}
