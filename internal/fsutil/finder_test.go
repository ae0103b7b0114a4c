package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFilesByExtension(t *testing.T) {
	root := t.TempDir()
	for _, p := range []string{"a.hcl", "sub/b.hcl", "sub/c.txt"} {
		full := filepath.Join(root, p)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, nil, 0o644))
	}

	files, err := FindFilesByExtension(root, ".hcl")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{filepath.Join(root, "a.hcl"), filepath.Join(root, "sub", "b.hcl")}, files)
}

func TestListDirs(t *testing.T) {
	root := t.TempDir()
	for _, d := range []string{"b10", "b2", "a", "b1"} {
		require.NoError(t, os.Mkdir(filepath.Join(root, d), 0o755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "file"), nil, 0o644))

	names, err := ListDirs(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b1", "b2", "b10"}, names)

	missing, err := ListDirs(filepath.Join(root, "nope"))
	require.NoError(t, err)
	assert.Empty(t, missing)
	assert.NotNil(t, missing)
}

func TestListDirs_NumbersInsideNames(t *testing.T) {
	root := t.TempDir()
	for _, d := range []string{"scene_10_beat_1", "scene_2_beat_10", "scene_1", "scene_2_beat_9"} {
		require.NoError(t, os.Mkdir(filepath.Join(root, d), 0o755))
	}

	names, err := ListDirs(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"scene_1", "scene_2_beat_9", "scene_2_beat_10", "scene_10_beat_1"}, names)
}
