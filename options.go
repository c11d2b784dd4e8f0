package fetch

import (
	"github.com/adamwoolhether/fetch/client"
)

// Option configures [DownloadURL] and [DownloadFromURL].
//
// WithClientOptions forwards options to the single-use client, for
// example a timeout or a user agent. The target URL and auto-dispose
// policy are always set by the download functions.
//
// WithDownloadOptions forwards per-download options such as the file
// name and chunk size.
type Option func(*options) error

type options struct {
	client   []client.Option
	download []client.DownloadOption
}

func WithClientOptions(opts ...client.Option) Option {
	return func(o *options) error {
		o.client = append(o.client, opts...)
		return nil
	}
}

func WithDownloadOptions(opts ...client.DownloadOption) Option {
	return func(o *options) error {
		o.download = append(o.download, opts...)
		return nil
	}
}
