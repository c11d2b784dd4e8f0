package client

import (
	"github.com/adamwoolhether/fetch/client/download"
)

// ————————————————————————————————————————————————————————————————————
// Type aliases – re-export user-facing types from [download].
// ————————————————————————————————————————————————————————————————————

type (
	// DownloadOption configures a single [Client.DownloadFile] call.
	DownloadOption = download.Option

	// DownloadError wraps a sentinel error with additional detail.
	DownloadError = download.Error

	// DownloadResult is the outcome of [Client.DownloadFile].
	DownloadResult = download.Result
)

// ————————————————————————————————————————————————————————————————————
// Sentinel errors
// ————————————————————————————————————————————————————————————————————

var (
	// ErrInvalidDestination indicates the destination folder or file name is unusable.
	ErrInvalidDestination = download.ErrInvalidDestination

	// ErrInvalidChunkSize indicates a chunk size that is not positive.
	ErrInvalidChunkSize = download.ErrInvalidChunkSize

	// ErrTransferFailed indicates a network, protocol or read-side failure.
	ErrTransferFailed = download.ErrTransferFailed

	// ErrDestinationWrite indicates the destination file could not be written.
	ErrDestinationWrite = download.ErrDestinationWrite

	// ErrDownloadCancelled indicates the download was cancelled via context.
	ErrDownloadCancelled = download.ErrDownloadCancelled
)

// ————————————————————————————————————————————————————————————————————
// Download option forwarding functions
// ————————————————————————————————————————————————————————————————————

// WithFileName sets the local file name instead of deriving it from the
// last path segment of the target URL.
func WithFileName(name string) DownloadOption { return download.WithFileName(name) }

// WithChunkSize sets the copy buffer size in bytes.
func WithChunkSize(n int) DownloadOption { return download.WithChunkSize(n) }
