package config

import (
	"context"
)

// Loader is the interface for a format-specific play file loader.
type Loader interface {
	// Load reads the play file at path and translates it into the
	// format-agnostic model.
	Load(ctx context.Context, path string) (*PlayFile, error)
}
