// Package client provides the configurable HTTP client that downloads a
// response body to disk, built on [net/http].
//
// # Building a Client
//
// Use [Build] to create a [Client] with functional options. A Client is
// bound to one target URL:
//
//	u := client.URL("https", "example.com", "/files/report.pdf")
//	c, err := client.Build(
//		client.WithTarget(u),
//		client.WithTimeout(10 * time.Minute),
//		client.WithUserAgent("myapp/1.0"),
//	)
//
// # Downloading Files
//
// [Client.DownloadFile] streams the body through a fixed size buffer into
// a folder. Without [WithFileName] the name is the last segment of the
// target path, here "report.pdf":
//
//	res, err := c.DownloadFile(ctx, "/tmp/reports",
//		client.WithChunkSize(64 << 10),
//	)
//	// res.Path == "/tmp/reports/report.pdf"
//
// # Disposal
//
// A Client built with [WithAutoDispose](true) releases its connections at
// the end of its next download, and reports it via Result.Disposed.
// Otherwise the caller keeps ownership and calls [Client.Dispose] when done.
//
// For lower-level control see the
// [github.com/adamwoolhether/fetch/client/download] package.
package client
