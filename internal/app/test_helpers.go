package app

import (
	"bytes"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/vk/runbookgo/internal/registry"
)

// TestLogsEnv makes NewTestApp print captured logs for every test, not only
// failing ones.
const TestLogsEnv = "RUNBOOKGO_TEST_LOGS"

// SyncBuffer collects log output written from several goroutines.
type SyncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *SyncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *SyncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

// Lines returns the non-empty lines written so far.
func (s *SyncBuffer) Lines() []string {
	var out []string
	for _, ln := range strings.Split(s.String(), "\n") {
		if ln != "" {
			out = append(out, ln)
		}
	}
	return out
}

// NewTestApp builds an App that logs at debug level into a SyncBuffer. The
// buffer is dumped through t.Log when the test fails or TestLogsEnv is "true".
func NewTestApp(t *testing.T, cfg *Config, modules ...registry.Module) (*App, *SyncBuffer) {
	t.Helper()

	logs := &SyncBuffer{}
	cfg.LogLevel = "debug"
	a := NewApp(logs, cfg, modules...)

	t.Cleanup(func() {
		if t.Failed() || os.Getenv(TestLogsEnv) == "true" {
			t.Logf("logs for %s:\n%s", t.Name(), logs.String())
		}
	})
	return a, logs
}
