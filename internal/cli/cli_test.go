package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/playtraversal/internal/play"
)

const planFile = `
play "Planned" {
  filename_base          = "fot_play"
  fps                    = 20
  width                  = 480
  height                 = 832
  frames_count_per_batch = 41

  act "1" {
    filename_part = "a1"
    scene "1" {
      filename_part = "s1"
      beat "1" {
        filename_part = "b1"
        duration_secs = 3
      }
    }
  }
}
`

const promptFile = `{
  "1": {"class_type": "fot_SceneBeat", "inputs": {"title": "Beat", "positive": "", "negative": "", "filename_part": "b1", "duration_secs": 1}},
  "2": {"class_type": "fot_Scene", "inputs": {"title": "Scene", "positive": "", "negative": "", "filename_part": "s1", "scene_beat_1": ["1", 0]}},
  "3": {"class_type": "fot_PlayStart", "inputs": {
    "model": "m", "clip": "c", "vae": "v",
    "title": "Run", "positive": "", "negative": "", "seed": 0,
    "filename_base": "cli", "fps": 10, "width": 64, "height": 64, "frames_count_per_batch": 4,
    "scene_1": ["2", 0]
  }},
  "4": {"class_type": "fot_EmptyLatent", "inputs": {"batch": ["3", 10]}},
  "5": {"class_type": "fot_SaveLatent", "inputs": {"latent": ["4", 0], "batch": ["3", 10]}},
  "6": {"class_type": "fot_PlayContinue", "inputs": {
    "flow": ["3", 0], "sequence_batches": ["3", 1], "latent_previous": ["5", 0]
  }}
}`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	base := []string{"--log-format", "json", "--log-level", "error", "-o", t.TempDir()}
	err := Execute(context.Background(), append(args, base...), &out)
	return out.String(), err
}

func TestPlanCommand(t *testing.T) {
	out, err := execute(t, "plan", writeTemp(t, "play.hcl", planFile))
	require.NoError(t, err)
	assert.Contains(t, out, "fot_play_a1_s1_b1_0_0")
	assert.Contains(t, out, "fot_play_a1_s1_b1_1_1")
	// go-pretty upper-cases headers by default
	assert.Contains(t, out, "FILENAME")
	assert.NotContains(t, out, "Filename")
	assert.Contains(t, out, "Planned: 2 batches, 60 frames, 3s at 20 fps")
}

func TestRenderTable(t *testing.T) {
	assert.Empty(t, renderTable(nil, nil, nil))

	out := renderTable([]string{"Name", "Count"}, [][]string{{"a", "1"}, {"b"}}, []columnAlignment{alignLeft, alignRight})
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "COUNT")
	assert.Contains(t, out, "a")
	assert.Contains(t, out, "b")
}

func TestRunCommand(t *testing.T) {
	journal := filepath.Join(t.TempDir(), "journal.db")
	out, err := execute(t, "run", writeTemp(t, "prompt.json", promptFile), "-q", "--journal", journal, "--latent-policy", "when-present")
	require.NoError(t, err)
	assert.Contains(t, out, "executed ")
	assert.Contains(t, out, "journal run ")
	assert.FileExists(t, journal)
}

func TestUsageErrors(t *testing.T) {
	testCases := []struct {
		name     string
		args     []string
		wantExit bool
	}{
		{name: "unknown flag", args: []string{"plan", "--nope"}, wantExit: true},
		{name: "bad log level", args: []string{"plan", "x.hcl", "--log-level", "loud"}, wantExit: true},
		{name: "bad latent policy", args: []string{"run", "x.json", "--latent-policy", "never"}, wantExit: true},
		{name: "missing argument", args: []string{"plan"}},
		{name: "missing play file", args: []string{"plan", "does-not-exist.hcl"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			err := Execute(context.Background(), tc.args, &out)
			require.Error(t, err)
			var exitErr *ExitError
			assert.Equal(t, tc.wantExit, errors.As(err, &exitErr), "error: %v", err)
			if tc.wantExit {
				assert.Equal(t, 2, exitErr.Code)
			}
		})
	}
}

func TestHelp(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Execute(context.Background(), nil, &out))
	assert.Contains(t, out.String(), "plan")
	assert.Contains(t, out.String(), "serve")
}

func TestProgressObserver(t *testing.T) {
	var buf bytes.Buffer
	p := &progress{w: &buf}
	ctx := context.Background()
	q := play.SequenceQueue{{Filename: "a"}, {Filename: "b"}}

	p.Iteration(ctx, q[0], 1)
	assert.Empty(t, buf.String())

	p.PlayBuilt(ctx, &play.Play{Config: play.Config{Title: "Bar"}}, q)
	p.Iteration(ctx, q[0], 1)
	p.Iteration(ctx, q[1], 0)
	p.Stopped(ctx, nil)

	assert.Nil(t, p.bar)
	assert.Contains(t, buf.String(), "2/2")
}
