package nodes

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/vk/playtraversal/internal/media"
	"github.com/vk/playtraversal/internal/play"
	"github.com/vk/playtraversal/internal/registry"
)

const latentExt = ".blob"

func batchInput(in map[string]any) (*play.Batch, error) {
	b, ok, err := optionalInput[*play.Batch](in, "batch")
	if err != nil {
		return nil, err
	}
	if !ok || b == nil || b.Play == nil {
		return nil, fmt.Errorf("input 'batch' is required")
	}
	return b, nil
}

func emptyLatent() *registry.Definition {
	return &registry.Definition{
		Class:       ClassEmptyLatent,
		DisplayName: "Empty Latent (Batch)",
		Required:    []string{"batch"},
		Outputs:     []string{"latent"},
		Fn: func(ctx context.Context, call *registry.Call) (registry.Result, error) {
			b, err := batchInput(call.Inputs)
			if err != nil {
				return registry.Result{}, err
			}
			l, err := media.NewLatent(b.Play.Width, b.Play.Height, b.FramesCount)
			if err != nil {
				return registry.Result{}, err
			}
			return registry.Return(l), nil
		},
	}
}

// LatentPath is where fot_SaveLatent stores the latent of a batch.
func LatentPath(outputDir string, b *play.Batch) string {
	return filepath.Join(outputDir, "batches", b.Filename+latentExt)
}

func saveLatent(outputDir string) *registry.Definition {
	return &registry.Definition{
		Class:       ClassSaveLatent,
		DisplayName: "Save Latent (Batch)",
		Required:    []string{"latent", "batch"},
		Outputs:     []string{"latent"},
		OutputNode:  true,
		Fn: func(ctx context.Context, call *registry.Call) (registry.Result, error) {
			b, err := batchInput(call.Inputs)
			if err != nil {
				return registry.Result{}, err
			}
			l, ok, err := optionalInput[*media.Tensor](call.Inputs, "latent")
			if err != nil {
				return registry.Result{}, err
			}
			if !ok || l == nil {
				return registry.Result{}, fmt.Errorf("input 'latent' is required")
			}
			if err := media.StoreTensorBlob(l, LatentPath(outputDir, b)); err != nil {
				return registry.Result{}, err
			}
			return registry.Return(l), nil
		},
	}
}
