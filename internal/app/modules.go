package app

import (
	"github.com/vk/playtraversal/internal/loop"
	"github.com/vk/playtraversal/internal/nodes"
	"github.com/vk/playtraversal/internal/registry"
)

// modules is the definitive list of node packs compiled into the binary.
func (a *App) modules(policy loop.LatentPolicy, observer loop.Observer) []registry.Module {
	return []registry.Module{
		&nodes.Module{Policy: policy, Observer: observer, OutputDir: a.config.OutputDir},
	}
}
