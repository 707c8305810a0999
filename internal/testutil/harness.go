package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/runbookgo/internal/app"
	"github.com/vk/runbookgo/internal/registry"
	"gopkg.in/yaml.v3"
)

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput string
	// Output is the rendered document, empty when the run failed.
	Output string
	// Doc is Output decoded; nil when the run failed.
	Doc *Document
	Err error
	App *app.App
}

// RunIntegrationTest provides a standardized harness for running integration tests
// using a default background context.
func RunIntegrationTest(t *testing.T, files map[string]string, cfg app.Config, modules ...registry.Module) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithContext(context.Background(), t, files, cfg, modules...)
}

// RunIntegrationTestWithContext writes files into a temporary directory, runs
// the app against it and decodes the YAML output. Paths in cfg are relative to
// that directory; an empty SourcePath means the directory itself. Modules
// default to the app's core modules.
func RunIntegrationTestWithContext(ctx context.Context, t *testing.T, files map[string]string, cfg app.Config, modules ...registry.Module) *HarnessResult {
	t.Helper()

	// 1. Create a temporary root directory for the test.
	tmpDir := t.TempDir()

	// 2. Write all files. Relative names (e.g. "actions/web.action") create
	//    the subdirectory structure within tmpDir.
	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}

	// 3. Point the config at the temporary directory.
	cfg.SourcePath = filepath.Join(tmpDir, cfg.SourcePath)
	if cfg.EntityConfig != "" {
		cfg.EntityConfig = filepath.Join(tmpDir, cfg.EntityConfig)
	}
	cfg.Format = "yaml"
	cfg.LogLevel = "debug"
	cfg.LogFormat = "text"
	appConfig, err := app.NewConfig(cfg)
	require.NoError(t, err)

	logBuffer := &app.SyncBuffer{}
	t.Cleanup(func() {
		if os.Getenv(app.TestLogsEnv) == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	var testApp *app.App
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = r
			}
		}()
		testApp = app.NewApp(logBuffer, appConfig, modules...)
	}()
	if panicErr != nil {
		return &HarnessResult{
			LogOutput: logBuffer.String(),
			Err:       fmt.Errorf("application startup panicked | %v", panicErr),
		}
	}

	var out bytes.Buffer
	if err := testApp.Run(ctx, &out); err != nil {
		return &HarnessResult{LogOutput: logBuffer.String(), Err: err, App: testApp}
	}

	doc := &Document{}
	require.NoError(t, yaml.Unmarshal(out.Bytes(), doc), "rendered output must be valid YAML:\n%s", out.String())
	return &HarnessResult{
		LogOutput: logBuffer.String(),
		Output:    out.String(),
		Doc:       doc,
		App:       testApp,
	}
}

// RunActionTest compiles a single action script against the default entity.
func RunActionTest(t *testing.T, script string, modules ...registry.Module) *HarnessResult {
	t.Helper()
	return RunIntegrationTest(t, map[string]string{"main.action": script}, app.Config{}, modules...)
}
