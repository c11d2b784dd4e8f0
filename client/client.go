package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-cleanhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/adamwoolhether/fetch/client/download"
	"github.com/adamwoolhether/fetch/client/throttle"
)

// Client wraps the std-lib *http.Client together with a target URL and
// a disposal policy. By default every Client gets its own pooled
// *http.Client and *http.Transport, which can be customized via optional funcs.
type Client struct {
	c      *http.Client
	logger *slog.Logger
	tracer trace.Tracer
	target *url.URL

	autoDispose atomic.Bool
	disposed    atomic.Bool
}

func Build(optFns ...Option) (*Client, error) {
	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	client := &Client{
		c:      cleanhttp.DefaultPooledClient(),
		logger: slog.Default(),
		tracer: noop.NewTracerProvider().Tracer(""),
		target: opts.target,
	}
	client.autoDispose.Store(opts.autoDispose)

	if opts.client != nil {
		client.c = opts.client
	}

	if opts.logger != nil {
		client.logger = opts.logger
	}

	if opts.tracer != nil {
		client.tracer = opts.tracer
	}

	if opts.timeout != nil {
		client.c.Timeout = *opts.timeout
	}

	if opts.noFollowRedirects {
		client.c.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	var transport http.RoundTripper
	switch {
	case opts.rt != nil:
		transport = opts.rt
	case client.c.Transport != nil:
		transport = client.c.Transport
	default:
		transport = http.DefaultTransport
	}
	if opts.userAgent != "" {
		transport = userAgent{value: opts.userAgent, base: transport}
	}
	if opts.throttle != nil {
		rt, err := throttle.NewRoundTripper(opts.throttle.RPS, opts.throttle.Burst, func() *slog.Logger { return client.logger }, transport)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		transport = rt
	}
	client.c.Transport = transport

	return client, nil
}

// Target returns a copy of the client's target URL, or nil if none is set.
func (c *Client) Target() *url.URL {
	if c.target == nil {
		return nil
	}

	cpy := *c.target
	return &cpy
}

// AutoDispose reports the current disposal policy.
func (c *Client) AutoDispose() bool {
	return c.autoDispose.Load()
}

// SetAutoDispose changes the disposal policy for subsequent downloads.
// A download already in flight keeps the policy it started with.
func (c *Client) SetAutoDispose(enabled bool) {
	c.autoDispose.Store(enabled)
}

// Dispose releases the idle connections held by the underlying transport
// and marks the Client unusable. It is safe to call more than once.
func (c *Client) Dispose() {
	c.release()
}

// release disposes c and reports whether this call did the work.
func (c *Client) release() bool {
	if !c.disposed.CompareAndSwap(false, true) {
		return false
	}

	c.c.CloseIdleConnections()
	return true
}

// Disposed reports whether Dispose has run.
func (c *Client) Disposed() bool {
	return c.disposed.Load()
}

// Send issues a request with the given method against the target URL and
// returns as soon as the response headers have been read. The body is
// left unread; the caller must close it.
func (c *Client) Send(ctx context.Context, method string, opts ...RequestOption) (*http.Response, error) {
	if c.Disposed() {
		return nil, ErrClientDisposed
	}
	if c.target == nil {
		return nil, ErrNoTarget
	}

	req, err := Request(ctx, c.target, method, opts...)
	if err != nil {
		return nil, err
	}

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("exec http do: %w", err)
	}

	return resp, nil
}

// DownloadFile streams the body of a GET against the target URL into
// folder and returns the combined path of the written file.
//
// The disposal policy is read once when the transfer starts. If it is
// enabled, the Client is disposed before DownloadFile returns, on success
// and on failure alike. Result.Disposed is set only when this call did
// the disposing, so it stays false for a Client that was already disposed. A missing target,
// option errors and file name errors are reported before the transfer
// starts and never dispose.
//
// A failure after part of the body was written leaves the partial file in place.
func (c *Client) DownloadFile(ctx context.Context, folder string, opts ...DownloadOption) (res download.Result, err error) {
	if c.target == nil {
		return download.Result{}, fmt.Errorf("download: %w: %w", download.ErrTransferFailed, ErrNoTarget)
	}

	req, err := download.NewRequest(folder, opts...)
	if err != nil {
		return download.Result{}, fmt.Errorf("download: %w", err)
	}

	if req.FileName == "" {
		if req.FileName, err = download.FileName(c.target); err != nil {
			return download.Result{}, fmt.Errorf("download: %w", err)
		}
	}

	autoDispose := c.AutoDispose()

	ctx, span := c.tracer.Start(ctx, "client.download")
	defer span.End()
	span.SetAttributes(
		attribute.String("url", c.target.Redacted()),
		attribute.String("path", download.CombinePath(req.Folder, req.FileName)),
	)

	id := downloadID(span)
	start := time.Now()

	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			c.logger.Error("download failed", "download_id", id, "url", c.target.Redacted(), "error", err)
		}

		if autoDispose {
			res.Disposed = c.release()
		}
	}()

	c.logger.Info("download started", "download_id", id, "url", c.target.Redacted(), "folder", req.Folder, "file", req.FileName)

	resp, err := c.Send(ctx, http.MethodGet)
	if err != nil {
		return download.Result{}, transferErr(ctx, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "download_id", id, "error", err)
		}
	}()

	if err := checkStatus(resp); err != nil {
		return download.Result{}, fmt.Errorf("download: %w: %w", download.ErrTransferFailed, err)
	}

	res, err = download.Handle(ctx, resp.Body, req, c.logger)
	if err != nil {
		return download.Result{}, fmt.Errorf("download: %w", err)
	}

	span.SetAttributes(attribute.Int64("bytes", res.Size))
	c.logger.Info("download completed", "download_id", id, "path", res.Path, "bytes", res.Size, "elapsed", time.Since(start).Round(time.Millisecond))

	return res, nil
}

// Request instantiates an *http.Request with the provided information.
// It's just a convenience method that wraps the public Request func.
func (c *Client) Request(ctx context.Context, reqURL *url.URL, method string, opts ...RequestOption) (*http.Request, error) {
	return Request(ctx, reqURL, method, opts...)
}

// URL creates a url.URL for use in Request.
// It's just a convenience method that wraps the public URL func.
func (c *Client) URL(scheme, host, path string, opts ...URLOption) *url.URL {
	return URL(scheme, host, path, opts...)
}

// Request instantiates a body-less *http.Request with the provided information.
func Request(ctx context.Context, reqURL *url.URL, method string, opts ...RequestOption) (*http.Request, error) {
	var settings requestOpts
	for _, opt := range opts {
		err := opt(&settings)
		if err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("instantiating request: %w", err)
	}

	for _, cookie := range settings.cookies {
		req.AddCookie(cookie)
	}

	for k, v := range settings.headers {
		for _, element := range v {
			req.Header.Add(k, element)
		}
	}

	return req, nil
}

// URL creates a url.URL for use in Request.
func URL(scheme, host, path string, opts ...URLOption) *url.URL {
	var settings urlOpts
	for _, opt := range opts {
		opt(&settings)
	}

	if settings.port != nil {
		host = fmt.Sprintf("%s:%d", host, *settings.port)
	}

	endpoint := url.URL{
		Scheme: scheme,
		Host:   host,
		Path:   path,
	}

	if settings.queryStrings != nil {
		queryParams := url.Values{}
		for k, v := range settings.queryStrings {
			queryParams.Add(k, v)
		}

		endpoint.RawQuery = queryParams.Encode()
	}

	return &endpoint
}

// transferErr wraps a dispatch failure, flagging cancellation when the
// request context has ended.
func transferErr(ctx context.Context, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return fmt.Errorf("download: %w: %w: %w", download.ErrTransferFailed, download.ErrDownloadCancelled, err)
	}

	return fmt.Errorf("download: %w: %w", download.ErrTransferFailed, err)
}

// downloadID prefers the span's trace id and falls back to a random uuid
// when tracing is not recording.
func downloadID(span trace.Span) string {
	if tid := span.SpanContext().TraceID(); tid.IsValid() {
		return tid.String()
	}

	return uuid.New().String()
}
