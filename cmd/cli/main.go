package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vk/runbookgo/internal/app"
	"github.com/vk/runbookgo/internal/cli"
)

func main() {
	// Bootstrap logger for the CLI parser; NewApp builds the configured one.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Stdout, os.Stderr, os.Args[1:])
	stop()
	os.Exit(exitCode(err, os.Stderr))
}

// exitCode prints err, if any, and maps it to a process exit status.
func exitCode(err error, errW io.Writer) int {
	if err == nil {
		return 0
	}
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		fmt.Fprintln(errW, exitErr.Message)
		return exitErr.Code
	}
	fmt.Fprintln(errW, err)
	return 1
}

// run parses args and compiles. Rendered output goes to outW; logs and usage
// go to errW.
func run(ctx context.Context, outW, errW io.Writer, args []string) (err error) {
	cfg, shouldExit, err := cli.Parse(args, errW)
	if err != nil || shouldExit {
		return err
	}

	// NewApp panics when the entity config cannot be loaded.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked: %v", r)
		}
	}()

	return app.NewApp(errW, cfg).Run(ctx, outW)
}
