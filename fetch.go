// Package fetch downloads the body of an HTTP response to a local file.
//
// The functions here build a single-use [client.Client] for one URL and
// delegate to [client.Client.DownloadFile]. Callers that already hold a
// configured client should use it directly.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"

	"github.com/adamwoolhether/fetch/client"
	"github.com/adamwoolhether/fetch/client/download"
)

// ErrInvalidURL is returned when the source URL cannot be parsed or is
// not absolute.
var ErrInvalidURL = errors.New("invalid url")

// NewClient instantiates a new *client.Client with the provided options.
// If not specified, a fresh pooled http.Client and http.Transport are used.
func NewClient(opts ...client.Option) (*client.Client, error) {
	return client.Build(opts...)
}

// DownloadURL parses rawURL and downloads it into folder with a
// single-use client. See [DownloadFromURL].
func DownloadURL(ctx context.Context, rawURL, folder string, opts ...Option) (download.Result, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return download.Result{}, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	return DownloadFromURL(ctx, u, folder, opts...)
}

// DownloadFromURL downloads u into folder and returns the local path.
// The client is built with auto-dispose enabled and is always released
// before returning, whether or not the transfer started.
func DownloadFromURL(ctx context.Context, u *url.URL, folder string, opts ...Option) (download.Result, error) {
	if u == nil || u.Scheme == "" || u.Host == "" {
		return download.Result{}, fmt.Errorf("%w: %q must be absolute", ErrInvalidURL, u.Redacted())
	}

	var settings options
	for _, opt := range opts {
		if err := opt(&settings); err != nil {
			return download.Result{}, fmt.Errorf("applying option: %w", err)
		}
	}

	clientOpts := slices.Concat(settings.client, []client.Option{
		client.WithTarget(u),
		client.WithAutoDispose(true),
	})

	c, err := client.Build(clientOpts...)
	if err != nil {
		return download.Result{}, fmt.Errorf("building client: %w", err)
	}

	res, err := c.DownloadFile(ctx, folder, settings.download...)
	if !res.Disposed {
		c.Dispose()
		res.Disposed = true
	}

	return res, err
}
