package nodes

import (
	"context"
	"fmt"

	"github.com/vk/playtraversal/internal/backdrop"
	"github.com/vk/playtraversal/internal/media"
	"github.com/vk/playtraversal/internal/registry"
)

// Workspace names the directory that groups backdrops.
type Workspace struct {
	Codename string
}

func workspace() *registry.Definition {
	return &registry.Definition{
		Class:       ClassWorkspace,
		DisplayName: "Workspace",
		Required:    []string{"codename"},
		Outputs:     []string{"workspace"},
		Fn: func(ctx context.Context, call *registry.Call) (registry.Result, error) {
			codename, err := stringInput(call.Inputs, "codename")
			if err != nil {
				return registry.Result{}, err
			}
			return registry.Return(&Workspace{Codename: codename}), nil
		},
	}
}

// workspaceInput accepts a *Workspace or a bare codename.
func workspaceInput(in map[string]any) (string, error) {
	switch w := in["workspace"].(type) {
	case *Workspace:
		if w != nil {
			return w.Codename, nil
		}
	case Workspace:
		return w.Codename, nil
	case string:
		return w, nil
	}
	return "", fmt.Errorf("input 'workspace': expected workspace, got %T", in["workspace"])
}

func sceneBackdrop(store *backdrop.Store) *registry.Definition {
	return &registry.Definition{
		Class:       ClassSceneBackdrop,
		DisplayName: "Scene Backdrop",
		Required:    []string{"workspace", "name"},
		Optional:    []string{"positive", "negative", "image", "image_latent", "image_depthmap", "seed"},
		OutputNode:  true,
		Fn: func(ctx context.Context, call *registry.Call) (registry.Result, error) {
			ws, err := workspaceInput(call.Inputs)
			if err != nil {
				return registry.Result{}, err
			}
			var b backdrop.Backdrop
			for name, dst := range map[string]*string{
				"name":     &b.Name,
				"positive": &b.Positive,
				"negative": &b.Negative,
			} {
				if *dst, err = stringInput(call.Inputs, name); err != nil {
					return registry.Result{}, err
				}
			}
			if _, ok := call.Inputs["seed"]; ok {
				if b.Seed, err = intInput(call.Inputs, "seed"); err != nil {
					return registry.Result{}, err
				}
			}

			var a backdrop.Assets
			if a.Image, _, err = optionalInput[*media.Image](call.Inputs, "image"); err != nil {
				return registry.Result{}, err
			}
			if a.Latent, _, err = optionalInput[*media.Tensor](call.Inputs, "image_latent"); err != nil {
				return registry.Result{}, err
			}
			if a.DepthMap, _, err = optionalInput[*media.Image](call.Inputs, "image_depthmap"); err != nil {
				return registry.Result{}, err
			}

			if _, err := store.Save(ctx, ws, b, a); err != nil {
				return registry.Result{}, err
			}
			return registry.Return(), nil
		},
	}
}

func sceneBackdropData(store *backdrop.Store) *registry.Definition {
	outputs := []string{
		"name", "positive", "negative",
		"image", "image_path",
		"image_latent", "image_latent_path",
		"image_mask",
		"image_depthmap", "image_depthmap_path",
		"image_seed",
	}
	return &registry.Definition{
		Class:       ClassSceneBackdropData,
		DisplayName: "Scene Backdrop Data",
		Required:    []string{"workspace"},
		Optional:    []string{"backdrop_name"},
		Outputs:     outputs,
		Fn: func(ctx context.Context, call *registry.Call) (registry.Result, error) {
			name, err := stringInput(call.Inputs, "backdrop_name")
			if err != nil {
				return registry.Result{}, err
			}
			if name == "" {
				return registry.Return(make([]any, len(outputs))...), nil
			}
			ws, err := workspaceInput(call.Inputs)
			if err != nil {
				return registry.Result{}, err
			}

			l, err := store.Load(ctx, ws, name)
			if err != nil {
				return registry.Result{}, err
			}
			return registry.Return(
				l.Name, l.Positive, l.Negative,
				nilIfNone(l.Image), l.ImagePath,
				nilIfNone(l.Latent), l.ImageLatentPath,
				nilIfNone(l.ImageMask),
				nilIfNone(l.DepthMap), l.ImageDepthMapPath,
				l.Seed,
			), nil
		},
	}
}

// nilIfNone turns a nil pointer into an untyped nil output.
func nilIfNone[T any](p *T) any {
	if p == nil {
		return nil
	}
	return p
}
