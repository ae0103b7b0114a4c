package hcl

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/playtraversal/internal/config"
	"github.com/vk/playtraversal/internal/ctxlog"
	"github.com/vk/playtraversal/internal/perr"
	"github.com/vk/playtraversal/internal/schema"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	conv *Converter
}

// NewLoader creates a new HCL play file loader.
func NewLoader() *Loader {
	return &Loader{conv: NewConverter()}
}

var _ config.Loader = (*Loader)(nil)

// Load parses path, which must hold exactly one play block.
func (l *Loader) Load(ctx context.Context, path string) (*config.PlayFile, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", path)

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, perr.NotFound("play file", path)
		}
		return nil, fmt.Errorf("error accessing path %s: %w", path, err)
	}

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	var root schema.PlayFile
	diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}
	if len(root.Plays) != 1 {
		return nil, perr.Validationf("play", "%s: expected exactly one play block, found %d", path, len(root.Plays))
	}

	pf, err := l.translatePlay(ctx, root.Plays[0])
	if err != nil {
		return nil, fmt.Errorf("play %q in %s: %w", root.Plays[0].Name, path, err)
	}
	pf.Path = path

	logger.Debug("HCL loading complete.", "play", pf.Config.Title, "acts", len(pf.Acts), "scenes", len(pf.Scenes))
	return pf, nil
}
