package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/runbookgo/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("runbookgo", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
runbookgo - Compiles action scripts into runbook task graphs.

Usage:
  runbookgo [options] PATH

Arguments:
  PATH
    Path to a single .action file or a directory containing .action files.

Options:
`)
		flagSet.PrintDefaults()
	}

	entityConfigFlag := flagSet.String("config", "", "Path to an entity config file (.hcl, .yaml or .yml).")
	entityFlag := flagSet.String("entity", "", "Name of the owner entity. Optional when the config declares one.")
	actionFlag := flagSet.String("action", "", "Render only this action (compiled or declared name).")
	formatFlag := flagSet.String("format", "yaml", "Output format. Options: 'yaml' or 'json'.")
	outputFlag := flagSet.String("output", "", "Write the rendered output to this file instead of stdout.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	concurrencyFlag := flagSet.Int("concurrency", 0, "Maximum number of actions compiled at once. 0 uses GOMAXPROCS.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() == 0 {
		slog.Debug("No source path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}
	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("expected a single PATH, got %d", flagSet.NArg())}
	}
	path := flagSet.Arg(0)
	slog.Debug("Source path determined.", "path", path)

	logFormat, err := app.ParseLogFormat(*logFormatFlag)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if _, err := app.ParseLogLevel(*logLevelFlag); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	logLevel := strings.ToLower(*logLevelFlag)
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		SourcePath:   path,
		EntityConfig: *entityConfigFlag,
		Entity:       *entityFlag,
		Action:       *actionFlag,
		Format:       *formatFlag,
		OutputPath:   *outputFlag,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
		Concurrency:  *concurrencyFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
