package download

import (
	"errors"
	"fmt"
)

// Option defines optional settings for a single download.
//
// WithFileName sets the local file name. Without it the name is the
// last path segment of the source URL.
//
// WithChunkSize sets the copy buffer size in bytes, at most MaxChunkSize;
// the default is DefaultChunkSize.
type Option func(*options) error

type options struct {
	fileName  string
	chunkSize *int
}

func WithFileName(name string) Option {
	return func(opts *options) error {
		if name == "" {
			return errors.New("file name must not be empty")
		}

		opts.fileName = name
		return nil
	}
}

func WithChunkSize(n int) Option {
	return func(opts *options) error {
		if n <= 0 || n > MaxChunkSize {
			return &Error{
				Err:    ErrInvalidChunkSize,
				Detail: fmt.Sprintf("must be between 1 and %d, got %d", MaxChunkSize, n),
			}
		}

		opts.chunkSize = &n
		return nil
	}
}

// NewRequest applies optFns and returns a validated Request for folder.
func NewRequest(folder string, optFns ...Option) (Request, error) {
	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return Request{}, fmt.Errorf("applying option: %w", err)
		}
	}

	req := Request{
		Folder:    folder,
		FileName:  opts.fileName,
		ChunkSize: DefaultChunkSize,
	}
	if opts.chunkSize != nil {
		req.ChunkSize = *opts.chunkSize
	}

	if err := req.Validate(); err != nil {
		return Request{}, err
	}

	return req, nil
}
