package fetch_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/adamwoolhether/fetch"
	"github.com/adamwoolhether/fetch/client"
)

type test struct {
	server *httptest.Server
	folder string
}

func setup(t *testing.T, handler http.HandlerFunc) *test {
	t.Helper()

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	return &test{
		server: ts,
		folder: filepath.Join(t.TempDir(), "downloads"),
	}
}

func TestDownloadURL(t *testing.T) {
	tt := setup(t, func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "fetch-test/1.0" {
			t.Errorf("expected user agent to be forwarded, got %q", ua)
		}
		_, _ = w.Write([]byte("hello, file"))
	})

	res, err := fetch.DownloadURL(t.Context(), tt.server.URL+"/files/hello.txt", tt.folder,
		fetch.WithClientOptions(client.WithUserAgent("fetch-test/1.0")),
	)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	exp := client.DownloadResult{
		Path:     filepath.Join(tt.folder, "hello.txt"),
		Size:     int64(len("hello, file")),
		Disposed: true,
	}
	if diff := cmp.Diff(exp, res); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}

	got, err := os.ReadFile(res.Path)
	if err != nil {
		t.Fatalf("reading file: %v", err)
	}
	if string(got) != "hello, file" {
		t.Errorf("expected %q, got %q", "hello, file", got)
	}
}

func TestDownloadURL_DownloadOptions(t *testing.T) {
	tt := setup(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("renamed"))
	})

	res, err := fetch.DownloadURL(t.Context(), tt.server.URL+"/", tt.folder,
		fetch.WithDownloadOptions(client.WithFileName("index.html"), client.WithChunkSize(3)),
	)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if res.Path != filepath.Join(tt.folder, "index.html") {
		t.Errorf("unexpected path %s", res.Path)
	}
}

func TestDownloadURL_InvalidURL(t *testing.T) {
	testCases := map[string]string{
		"unparsable": "http://[::1",
		"relative":   "/files/report.pdf",
		"no host":    "file:///tmp/report.pdf",
	}

	for name, raw := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := fetch.DownloadURL(t.Context(), raw, t.TempDir())
			if !errors.Is(err, fetch.ErrInvalidURL) {
				t.Errorf("expected ErrInvalidURL, got: %v", err)
			}
		})
	}
}

func TestDownloadFromURL_NilURL(t *testing.T) {
	_, err := fetch.DownloadFromURL(t.Context(), nil, t.TempDir())
	if !errors.Is(err, fetch.ErrInvalidURL) {
		t.Errorf("expected ErrInvalidURL, got: %v", err)
	}
}

func TestDownloadFromURL_DisposesOnEarlyFailure(t *testing.T) {
	tt := setup(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	u, err := url.Parse(tt.server.URL + "/")
	if err != nil {
		t.Fatal(err)
	}

	res, err := fetch.DownloadFromURL(t.Context(), u, tt.folder)
	if !errors.Is(err, client.ErrInvalidDestination) {
		t.Fatalf("expected ErrInvalidDestination, got: %v", err)
	}
	if !res.Disposed {
		t.Error("expected the single-use client to be released")
	}
}

func TestDownloadFromURL_TransferFailure(t *testing.T) {
	tt := setup(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	})

	u, err := url.Parse(tt.server.URL + "/old.bin")
	if err != nil {
		t.Fatal(err)
	}

	res, err := fetch.DownloadFromURL(t.Context(), u, tt.folder)
	if !errors.Is(err, client.ErrTransferFailed) {
		t.Fatalf("expected ErrTransferFailed, got: %v", err)
	}
	if !res.Disposed {
		t.Error("expected disposal on failure")
	}
}

func TestDownloadFromURL_ClientOptionError(t *testing.T) {
	u, err := url.Parse("https://example.com/file.bin")
	if err != nil {
		t.Fatal(err)
	}

	_, err = fetch.DownloadFromURL(t.Context(), u, t.TempDir(),
		fetch.WithClientOptions(client.WithTimeout(-time.Second)),
	)
	if err == nil {
		t.Fatal("expected error for negative timeout")
	}
}
