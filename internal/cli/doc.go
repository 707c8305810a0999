// Package cli turns the runbookgo command line into an app.Config. Usage
// mistakes are reported as *ExitError with exit code 2; -h and an empty
// argument list print usage and ask the caller to exit cleanly.
package cli
