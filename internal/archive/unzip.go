// Package archive unpacks zipped query responses in memory.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"log"
)

// Error reports content that could not be read as a zip archive.
type Error struct {
	Size   int
	Prefix string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("unzip failure (%d bytes, content beginning %q): %v", e.Size, e.Prefix, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Unzip returns the decompressed content of every file in the archive, in
// archive order. Invalid archives return nil and an *Error.
func Unzip(content []byte) ([][]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		e := &Error{Size: len(content), Prefix: prefix(content, 100), Err: err}
		log.Printf("[Archive] %v", e)
		return nil, e
	}

	files := make([][]byte, 0, len(zr.File))
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		raw, err := readFile(f)
		if err != nil {
			e := &Error{Size: len(content), Prefix: prefix(content, 100), Err: fmt.Errorf("%s: %w", f.Name, err)}
			log.Printf("[Archive] %v", e)
			return nil, e
		}
		files = append(files, raw)
	}
	return files, nil
}

func readFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func prefix(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
