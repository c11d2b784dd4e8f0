package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli"

	"github.com/adamwoolhether/fetch"
	"github.com/adamwoolhether/fetch/client"
	"github.com/adamwoolhether/fetch/client/download"
)

var errInvalidArgs = errors.New("invalid arguments")

func newApp(stdout, stderr io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "fetch"
	app.Usage = "download the body of a URL into a local folder"
	app.UsageText = "fetch [options] URL\n\n   Options must come before the URL."
	app.Writer = stdout
	app.ErrWriter = stderr
	app.HideVersion = true
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "dir,d",
			Usage: "destination folder, created if missing",
			Value: ".",
		},
		cli.StringFlag{
			Name:  "name,n",
			Usage: "local file name (default: last segment of the URL path)",
		},
		cli.IntFlag{
			Name:  "chunk-size",
			Usage: "copy buffer size in bytes",
			Value: download.DefaultChunkSize,
		},
		cli.DurationFlag{
			Name:  "timeout",
			Usage: "overall request timeout, 0 for none",
		},
		cli.StringFlag{
			Name:  "user-agent",
			Usage: "User-Agent header sent with the request",
		},
		cli.IntFlag{
			Name:  "rps",
			Usage: "requests per second limit, 0 disables throttling",
		},
		cli.IntFlag{
			Name:  "burst",
			Usage: "throttle burst capacity",
			Value: 1,
		},
		cli.StringFlag{
			Name:  "log-level,l",
			Usage: "set the logging level [debug, info, warn, error]",
			Value: "warn",
		},
	}
	app.Action = func(c *cli.Context) error {
		return runDownload(c, stdout, stderr)
	}

	return app
}

func runDownload(c *cli.Context, stdout, stderr io.Writer) error {
	if c.NArg() != 1 {
		if slices.ContainsFunc(c.Args().Tail(), func(a string) bool { return strings.HasPrefix(a, "-") }) {
			return fmt.Errorf("%w: options must come before the URL", errInvalidArgs)
		}
		return fmt.Errorf("%w: expected exactly one URL, got %d", errInvalidArgs, c.NArg())
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.String("log-level")))); err != nil {
		return fmt.Errorf("%w: log level: %w", errInvalidArgs, err)
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	clientOpts := []client.Option{client.WithLogger(logger)}
	if d := c.Duration("timeout"); d > 0 {
		clientOpts = append(clientOpts, client.WithTimeout(d))
	}
	if ua := c.String("user-agent"); ua != "" {
		clientOpts = append(clientOpts, client.WithUserAgent(ua))
	}
	if rps := c.Int("rps"); rps > 0 {
		clientOpts = append(clientOpts, client.WithThrottle(rps, c.Int("burst")))
	}

	dlOpts := []client.DownloadOption{client.WithChunkSize(c.Int("chunk-size"))}
	if name := c.String("name"); name != "" {
		dlOpts = append(dlOpts, client.WithFileName(name))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := fetch.DownloadURL(ctx, c.Args().First(), c.String("dir"),
		fetch.WithClientOptions(clientOpts...),
		fetch.WithDownloadOptions(dlOpts...),
	)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "%s (%s)\n", res.Path, humanize.Bytes(uint64(res.Size)))

	return nil
}

// run executes the CLI and maps the outcome to an exit code.
func run(args []string, stdout, stderr io.Writer) int {
	err := newApp(stdout, stderr).Run(args)
	if err == nil {
		return ExitSuccess
	}

	fmt.Fprintf(stderr, "fetch: %s\n", err)

	switch {
	case errors.Is(err, errInvalidArgs),
		errors.Is(err, fetch.ErrInvalidURL),
		errors.Is(err, download.ErrInvalidDestination),
		errors.Is(err, download.ErrInvalidChunkSize):
		return ExitInvalidArgs
	case errors.Is(err, download.ErrDestinationWrite):
		return ExitDestinationWrite
	case errors.Is(err, download.ErrTransferFailed):
		return ExitTransferFailed
	default:
		return ExitGeneralError
	}
}
