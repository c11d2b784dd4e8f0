package download

import (
	"errors"
	"fmt"
)

const (
	// DefaultChunkSize is the copy buffer size used when none is given.
	DefaultChunkSize = 4096
	// MaxChunkSize caps the copy buffer at 64MiB.
	MaxChunkSize = 64 << 20
)

var (
	// ErrInvalidDestination indicates the destination folder or file name
	// is unusable, including when no file name can be derived from the URL.
	ErrInvalidDestination = errors.New("invalid destination")
	// ErrInvalidChunkSize indicates a chunk size that is not positive or
	// exceeds MaxChunkSize.
	ErrInvalidChunkSize = errors.New("invalid chunk size")
	// ErrTransferFailed indicates a network, protocol or read-side failure.
	ErrTransferFailed = errors.New("transfer failed")
	// ErrDestinationWrite indicates the destination file could not be
	// created, written, flushed or closed.
	ErrDestinationWrite = errors.New("destination write failed")
	// ErrDownloadCancelled is joined with ErrTransferFailed when the
	// transfer stopped because its context ended.
	ErrDownloadCancelled = errors.New("download cancelled")
)

// Error wraps a sentinel error with additional detail.
type Error struct {
	Detail string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Result describes the outcome of a single download.
//
// Disposed reports whether this call released the client that performed
// the download. It is set on failure as well, and stays false when the
// client had already been disposed before the call.
type Result struct {
	Path     string
	Size     int64
	Disposed bool
}
