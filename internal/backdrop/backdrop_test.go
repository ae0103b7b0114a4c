package backdrop

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/playtraversal/internal/media"
	"github.com/vk/playtraversal/internal/perr"
)

func TestStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s := NewStore(root)

	img := media.NewImage(4, 2, 3)
	img.Set(1, 1, 2, 1)
	latent := media.NewTensor(1, 2, 2)
	latent.Data[3] = 0.5

	saved, err := s.Save(ctx, "ws", Backdrop{Name: "forest", Positive: "trees", Seed: 9}, Assets{Image: img, Latent: latent})
	require.NoError(t, err)

	dir := filepath.Join(root, "workspaces", "ws", "scene_backdrops", "forest")
	assert.Equal(t, filepath.Join(dir, "backdrop.png"), saved.ImagePath)
	assert.Equal(t, filepath.Join(dir, "backdrop_latent.blob"), saved.ImageLatentPath)
	assert.Empty(t, saved.ImageDepthMapPath)
	assert.FileExists(t, filepath.Join(dir, "backdrop.json"))

	got, err := s.Load(ctx, "ws", "forest")
	require.NoError(t, err)
	assert.Equal(t, saved, got.Backdrop)
	require.NotNil(t, got.Image)
	assert.Equal(t, img.Pix, got.Image.Pix)
	require.NotNil(t, got.ImageMask)
	assert.Equal(t, latent, got.Latent)
	assert.Nil(t, got.DepthMap)
}

func TestStore_SaveOverwritesPaths(t *testing.T) {
	ctx := context.Background()
	s := NewStore(t.TempDir())

	saved, err := s.Save(ctx, "ws", Backdrop{Name: "b", ImagePath: "/elsewhere.png"}, Assets{})
	require.NoError(t, err)
	assert.Empty(t, saved.ImagePath)
}

func TestStore_LoadMissing(t *testing.T) {
	_, err := NewStore(t.TempDir()).Load(context.Background(), "ws", "nothing")
	require.Error(t, err)
	assert.True(t, perr.IsNotFound(err))
}

func TestStore_List(t *testing.T) {
	ctx := context.Background()
	s := NewStore(t.TempDir())

	names, err := s.List(ctx, "ws")
	require.NoError(t, err)
	assert.Empty(t, names)

	for _, n := range []string{"b10", "b2", "a"} {
		_, err := s.Save(ctx, "ws", Backdrop{Name: n}, Assets{})
		require.NoError(t, err)
	}
	require.NoError(t, os.WriteFile(filepath.Join(s.WorkspaceDir("ws"), "stray.txt"), nil, 0o644))

	names, err = s.List(ctx, "ws")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b2", "b10"}, names)
}

func TestStore_RejectsBadNames(t *testing.T) {
	ctx := context.Background()
	s := NewStore(t.TempDir())

	tests := []struct {
		name      string
		workspace string
		backdrop  string
	}{
		{name: "empty workspace", workspace: "", backdrop: "b"},
		{name: "empty backdrop", workspace: "ws", backdrop: ""},
		{name: "traversal", workspace: "..", backdrop: "b"},
		{name: "separator", workspace: "ws", backdrop: "a/b"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Save(ctx, tc.workspace, Backdrop{Name: tc.backdrop}, Assets{})
			require.Error(t, err)
			assert.True(t, perr.IsValidation(err))
		})
	}
}
