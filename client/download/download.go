package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Handle streams body into the file named by req, creating or truncating
// it, and returns the combined path together with the number of bytes
// written. req.FileName must already be resolved.
//
// The destination file is released on every exit path. A failure part
// way through leaves the partial file on disk. Handle does not close body.
func Handle(ctx context.Context, body io.Reader, req Request, logger *slog.Logger) (Result, error) {
	return handle(ctx, body, req, logger, func(folder, name string, bufSize int) (destination, error) {
		return OpenForWrite(folder, name, bufSize)
	})
}

// destination is the write side of a download; *File satisfies it.
type destination interface {
	io.WriteCloser
	Name() string
}

type opener func(folder, name string, bufSize int) (destination, error)

func handle(ctx context.Context, body io.Reader, req Request, logger *slog.Logger, open opener) (Result, error) {
	if err := checkFileName(req.FileName); err != nil {
		return Result{}, &Error{Err: ErrInvalidDestination, Detail: err.Error()}
	}

	file, err := open(req.Folder, req.FileName, req.ChunkSize)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Error("defer closing destination file", "path", file.Name(), "error", err)
		}
	}()

	n, err := Copy(ctx, file, body, req.ChunkSize)
	if err != nil {
		if errors.Is(err, ErrDownloadCancelled) {
			return Result{}, err
		}

		return Result{}, fmt.Errorf("copying body: %w", err)
	}

	if err := file.Close(); err != nil {
		return Result{}, err
	}

	return Result{
		Path: CombinePath(req.Folder, req.FileName),
		Size: n,
	}, nil
}
