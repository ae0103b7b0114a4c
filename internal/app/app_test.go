package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/playtraversal/internal/perr"
	"github.com/vk/playtraversal/internal/server"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testPrompt = `{
  "1": {"class_type": "fot_SceneBeat", "inputs": {"title": "Beat", "positive": "", "negative": "", "filename_part": "b1", "duration_secs": 3}},
  "2": {"class_type": "fot_Scene", "inputs": {"title": "Scene", "positive": "", "negative": "", "filename_part": "s1", "scene_beat_1": ["1", 0]}},
  "4": {"class_type": "fot_PlayStart", "inputs": {
    "model": "m", "clip": "c", "vae": "v",
    "title": "Prompt Play", "positive": "", "negative": "", "seed": 1,
    "filename_base": "fot", "fps": 20, "width": 64, "height": 32, "frames_count_per_batch": 41,
    "scene_1": ["2", 0]
  }},
  "5": {"class_type": "fot_EmptyLatent", "inputs": {"batch": ["4", 10]}},
  "6": {"class_type": "fot_SaveLatent", "inputs": {"latent": ["5", 0], "batch": ["4", 10]}},
  "7": {"class_type": "fot_PlayContinue", "inputs": {
    "flow": ["4", 0], "sequence_batches": ["4", 1], "data": ["4", 2], "latent_previous": ["6", 0]
  }}
}`

const testPlay = `
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

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewConfig(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "minimal", cfg: Config{OutputDir: "out", LogFormat: "json"}},
		{name: "full", cfg: Config{OutputDir: "out", LogFormat: "text", LogLevel: "debug", LatentPolicy: "when-present"}},
		{name: "missing output dir", cfg: Config{LogFormat: "json"}, wantErr: "OutputDir"},
		{name: "bad log format", cfg: Config{OutputDir: "out", LogFormat: "xml"}, wantErr: "log format"},
		{name: "bad log level", cfg: Config{OutputDir: "out", LogFormat: "json", LogLevel: "loud"}, wantErr: "log level"},
		{name: "bad latent policy", cfg: Config{OutputDir: "out", LogFormat: "json", LatentPolicy: "never"}, wantErr: "latent policy"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := NewConfig(tc.cfg)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.cfg, *cfg)
		})
	}
}

func TestNewConfig_DefaultLogFormat(t *testing.T) {
	cfg, err := NewConfig(Config{OutputDir: "out"})
	require.NoError(t, err)
	assert.Contains(t, []string{"text", "json"}, cfg.LogFormat)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	newLogger("warn", "json", &buf).Info("hidden")
	newLogger("warn", "json", &buf).Warn("shown", "k", "v")
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "shown", rec["msg"])

	buf.Reset()
	newLogger("debug", "text", &buf).Debug("plain")
	assert.Contains(t, buf.String(), "msg=plain")

	buf.Reset()
	newLogger("", "text", &buf).Debug("quiet")
	assert.Empty(t, buf.String())
}

func TestApp_Plan(t *testing.T) {
	dir := t.TempDir()
	a, _ := SetupAppTest(t, &Config{OutputDir: dir, PlayPath: writeFile(t, dir, "play.hcl", testPlay)})

	p, q, err := a.Plan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Planned", p.Title)
	require.Len(t, q, 2)
	assert.Equal(t, "fot_play_a1_s1_b1_1_1", q[1].Filename)
}

func TestApp_PlanErrors(t *testing.T) {
	dir := t.TempDir()
	a, _ := SetupAppTest(t, &Config{OutputDir: dir})
	_, _, err := a.Plan(context.Background())
	require.Error(t, err)

	a, _ = SetupAppTest(t, &Config{OutputDir: dir, PlayPath: filepath.Join(dir, "missing.hcl")})
	_, _, err = a.Plan(context.Background())
	require.Error(t, err)
	assert.True(t, perr.IsNotFound(err))
}

func TestApp_RunJournalsBatches(t *testing.T) {
	dir := t.TempDir()
	a, logs := SetupAppTest(t, &Config{
		OutputDir:   filepath.Join(dir, "out"),
		PromptPath:  writeFile(t, dir, "prompt.json", testPrompt),
		JournalPath: filepath.Join(dir, "journal.db"),
	})
	ctx := context.Background()

	res, err := a.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, "7", res.Executed[len(res.Executed)-1])
	assert.FileExists(t, filepath.Join(dir, "out", "batches", "fot_s1_b1_1_1.blob"))

	runID := a.Journal().RunID()
	require.NotEmpty(t, runID)
	batches, err := a.Journal().Batches(ctx, runID)
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, "fot_s1_b1_0_0", batches[0].Filename)

	assert.Contains(t, logs.String(), "Play built")
}

func TestApp_RunMissingPrompt(t *testing.T) {
	dir := t.TempDir()
	a, _ := SetupAppTest(t, &Config{OutputDir: dir, PromptPath: filepath.Join(dir, "none.json")})
	_, err := a.Run(context.Background())
	require.Error(t, err)
	assert.True(t, perr.IsNotFound(err))
}

func TestApp_ServerResolvesWebVersion(t *testing.T) {
	dir := t.TempDir()
	plugin := filepath.Join(dir, "plugin")
	writeFile(t, plugin, "config.yaml", "WEB_VERSION: v1\n")
	writeFile(t, plugin, "web_version/v1/app.js", "// v1")
	writeFile(t, filepath.Join(dir, "out"), "workspaces/ws/scene_backdrops/forest/backdrop.json", "{}")

	a, _ := SetupAppTest(t, &Config{OutputDir: filepath.Join(dir, "out"), PluginDir: plugin})
	srv, err := a.Server(context.Background())
	require.NoError(t, err)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/web/app.js", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "// v1", w.Body.String())

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, server.BackdropsPath+"?workspace_codename=ws", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"value":["forest"]}`, w.Body.String())
}

func TestApp_ServeStopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	a, _ := SetupAppTest(t, &Config{OutputDir: dir, HTTPAddr: "127.0.0.1:0"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, a.Serve(ctx))
}
