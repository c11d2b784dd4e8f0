package download

import (
	"bufio"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// File is a buffered, truncating writer for a download destination.
// Close flushes, syncs and closes the underlying file; a file is only
// fully committed once Close returns nil.
type File struct {
	f      *os.File
	w      *bufio.Writer
	closed bool
}

// OpenForWrite creates folder if needed and creates or truncates the file
// name inside it. bufSize sizes the write buffer; values <= 0 use
// DefaultChunkSize and values above MaxChunkSize are rejected with
// ErrInvalidChunkSize. Other failures wrap ErrDestinationWrite.
func OpenForWrite(folder, name string, bufSize int) (*File, error) {
	switch {
	case bufSize <= 0:
		bufSize = DefaultChunkSize
	case bufSize > MaxChunkSize:
		return nil, &Error{
			Err:    ErrInvalidChunkSize,
			Detail: fmt.Sprintf("buffer of %d bytes exceeds %d", bufSize, MaxChunkSize),
		}
	}

	if err := os.MkdirAll(folder, 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating folder: %w", ErrDestinationWrite, err)
	}

	f, err := os.OpenFile(CombinePath(folder, name), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: opening file: %w", ErrDestinationWrite, err)
	}

	return &File{
		f: f,
		w: bufio.NewWriterSize(f, bufSize),
	}, nil
}

// Name returns the path the file was opened with.
func (f *File) Name() string {
	return f.f.Name()
}

func (f *File) Write(p []byte) (int, error) {
	if f.closed {
		return 0, os.ErrClosed
	}

	return f.w.Write(p)
}

// Close is safe to call more than once; only the first call does work.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true

	flushErr := f.w.Flush()
	var syncErr error
	if flushErr == nil {
		syncErr = f.f.Sync()
	}
	closeErr := f.f.Close()

	if err := errors.Join(flushErr, syncErr, closeErr); err != nil {
		return fmt.Errorf("%w: closing file: %w", ErrDestinationWrite, err)
	}

	return nil
}

// CombinePath joins folder and name into the destination path.
func CombinePath(folder, name string) string {
	return filepath.Join(folder, name)
}

// FileName returns the last "/"-delimited segment of u's path. It fails
// with ErrInvalidDestination when that segment is empty, such as for
// "http://example.com/" or a URL without a path.
func FileName(u *url.URL) (string, error) {
	if u == nil {
		return "", &Error{Err: ErrInvalidDestination, Detail: "no source url"}
	}

	p := u.Path
	name := p[strings.LastIndex(p, "/")+1:]
	if err := checkFileName(name); err != nil {
		return "", &Error{
			Err:    ErrInvalidDestination,
			Detail: fmt.Sprintf("cannot derive file name from %q: %v", u.Redacted(), err),
		}
	}

	return name, nil
}

// checkFileName rejects names that would not land directly inside the
// destination folder.
func checkFileName(name string) error {
	switch {
	case name == "":
		return errors.New("empty file name")
	case name == "." || name == "..":
		return fmt.Errorf("reserved file name %q", name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("file name %q contains a path separator", name)
	}

	return nil
}
