package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/runbookgo/internal/cli"
)

func TestRun_PanicRecovery(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// An entity config with a syntax error panics inside app.NewApp().
	invalidHCL := `
		entity "web" {
			default_target = endpoint("web-vm")
		// Missing closing brace here
	`
	tempDir := t.TempDir()
	cfgPath := filepath.Join(tempDir, "web.hcl")
	require.NoError(t, os.WriteFile(cfgPath, []byte(invalidHCL), 0600))

	args := []string{"-config", cfgPath, tempDir}
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}

	// --- Act ---
	runErr := run(context.Background(), out, errOut, args)

	// --- Assert ---
	require.Error(t, runErr)
	require.Contains(t, runErr.Error(), "application startup panicked")
	require.Contains(t, runErr.Error(), "failed to load configuration")
	require.Empty(t, out.String())
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	err := run(context.Background(), out, errOut, []string{"-h"})

	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, errOut.String(), "Usage:", "Expected help text to be printed to the error writer")
	require.Empty(t, out.String())
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{"--this-is-not-a-valid-flag"})

	require.Error(t, err, "run() should return an error when argument parsing fails")
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestRun_CompilesToStdout(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	script := "@action\ndef __start__():\n    Task.Exec.ssh(\"systemctl start nginx\")\n    Task.Delay(seconds=3)\n"
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "web.action"), []byte(script), 0600))

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	require.NoError(t, run(context.Background(), out, errOut, []string{"-format", "json", tempDir}))

	require.Contains(t, out.String(), `"name": "start"`)
	require.Contains(t, out.String(), `"type": "EXEC"`)
	require.Contains(t, out.String(), `"from":`)
	require.Contains(t, errOut.String(), "Actions compiled.")
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		want    int
		wantMsg string
	}{
		{name: "success", err: nil, want: 0},
		{name: "usage error", err: fmt.Errorf("wrapped: %w", &cli.ExitError{Code: 2, Message: "bad flag"}), want: 2, wantMsg: "bad flag\n"},
		{name: "compile error", err: errors.New("compilation failed"), want: 1, wantMsg: "compilation failed\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.Equal(t, tc.want, exitCode(tc.err, &buf))
			require.Equal(t, tc.wantMsg, buf.String())
		})
	}
}
