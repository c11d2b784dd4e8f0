// Package download streams HTTP response bodies to disk through a fixed
// size buffer.
//
// # Single Download
//
// [Handle] copies a body into a destination folder, creating or
// truncating the file, and returns the combined path:
//
//	req, err := download.NewRequest("/tmp/out", download.WithChunkSize(32<<10))
//	req.FileName, err = download.FileName(resp.Request.URL)
//	res, err := download.Handle(ctx, resp.Body, req, logger)
//
// [Copy] is the underlying bounded-memory loop and can be used on any
// reader/writer pair.
//
// Most callers should use the higher-level
// [github.com/adamwoolhether/fetch/client] package, which owns the HTTP
// request, the response body and the client's disposal policy.
package download
