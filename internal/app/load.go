package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/playtraversal/internal/config"
	"github.com/vk/playtraversal/internal/hcl"
	"github.com/vk/playtraversal/internal/play"
	"github.com/vk/playtraversal/internal/prompt"
)

// Plan loads the play file and builds its batch queue without running
// anything.
func (a *App) Plan(ctx context.Context) (*play.Play, play.SequenceQueue, error) {
	return a.plan(ctx, hcl.NewLoader())
}

func (a *App) plan(ctx context.Context, loader config.Loader) (*play.Play, play.SequenceQueue, error) {
	ctx = a.Context(ctx)
	if a.config.PlayPath == "" {
		return nil, nil, errors.New("a play file is required")
	}
	pf, err := loader.Load(ctx, a.config.PlayPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load play: %w", err)
	}
	p, q, err := pf.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build play: %w", err)
	}
	a.logger.Info("Play planned.", "title", p.Title, "batches", q.Len(), "frames", p.FramesCount)
	return p, q, nil
}

func (a *App) loadPrompt(ctx context.Context) (prompt.Prompt, error) {
	if a.config.PromptPath == "" {
		return nil, errors.New("a prompt file is required")
	}
	p, err := prompt.Load(a.config.PromptPath)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("Prompt loaded.", "path", a.config.PromptPath, "nodes", len(p))
	return p, nil
}
