package download

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Copy moves every byte from src to dst through a single reusable buffer
// of chunkSize bytes, so memory use stays flat regardless of payload size.
// Each chunk read is written in full before the next read is issued.
//
// Read failures wrap ErrTransferFailed, write failures wrap
// ErrDestinationWrite. When ctx ends the error also wraps
// ErrDownloadCancelled. Bytes already written stay in dst.
func Copy(ctx context.Context, dst io.Writer, src io.Reader, chunkSize int) (int64, error) {
	if chunkSize <= 0 || chunkSize > MaxChunkSize {
		return 0, &Error{
			Err:    ErrInvalidChunkSize,
			Detail: fmt.Sprintf("must be between 1 and %d, got %d", MaxChunkSize, chunkSize),
		}
	}

	src = &contextReader{ctx: ctx, r: src}
	buf := make([]byte, chunkSize)

	var written int64
	for {
		n, rErr := src.Read(buf)
		if n > 0 {
			wn, wErr := dst.Write(buf[:n])
			written += int64(wn)
			if wErr == nil && wn != n {
				wErr = io.ErrShortWrite
			}
			if wErr != nil {
				return written, fmt.Errorf("%w: %w", ErrDestinationWrite, wErr)
			}
		}

		switch {
		case rErr == nil:
			continue
		case errors.Is(rErr, io.EOF):
			return written, nil
		case ctx.Err() != nil:
			return written, fmt.Errorf("%w: %w: %w", ErrTransferFailed, ErrDownloadCancelled, context.Cause(ctx))
		default:
			return written, fmt.Errorf("%w: %w", ErrTransferFailed, rErr)
		}
	}
}

// contextReader is an io.Reader that stops yielding data once ctx ends.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}

	return cr.r.Read(p)
}
