package config

import "context"

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads every given file and merges the entities they declare.
	Load(ctx context.Context, paths ...string) (*Model, error)
}
