// Package backdrop stores scene backdrops of a workspace on disk.
//
// A backdrop lives in
//
//	<root>/workspaces/<codename>/scene_backdrops/<name>/
//
// as backdrop.json plus the optional backdrop.png, backdrop_latent.blob and
// backdrop_depthmap.png. Writers hold a file lock on .lock in that directory.
package backdrop

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/vk/playtraversal/internal/ctxlog"
	"github.com/vk/playtraversal/internal/fsutil"
	"github.com/vk/playtraversal/internal/media"
	"github.com/vk/playtraversal/internal/perr"
)

const (
	workspacesDir = "workspaces"
	backdropsDir  = "scene_backdrops"

	recordFile   = "backdrop.json"
	imageFile    = "backdrop.png"
	latentFile   = "backdrop_latent.blob"
	depthMapFile = "backdrop_depthmap.png"
	lockFile     = ".lock"

	lockRetry = 50 * time.Millisecond
)

// Backdrop is the JSON record of a backdrop. Paths are empty when the asset
// was not saved.
type Backdrop struct {
	Name              string `json:"name"`
	Positive          string `json:"positive"`
	Negative          string `json:"negative"`
	Seed              int64  `json:"seed"`
	ImagePath         string `json:"image_path,omitempty"`
	ImageLatentPath   string `json:"image_latent_path,omitempty"`
	ImageDepthMapPath string `json:"image_depthmap_path,omitempty"`
}

// Assets are the optional payloads saved next to the record.
type Assets struct {
	Image    *media.Image
	Latent   *media.Tensor
	DepthMap *media.Image
}

// Loaded is a backdrop read back with its assets. Absent assets are nil.
type Loaded struct {
	Backdrop
	Image     *media.Image
	ImageMask *media.Mask
	Latent    *media.Tensor
	DepthMap  *media.Image
}

// Store reads and writes backdrops below an output directory.
type Store struct {
	root string
}

// NewStore returns a store rooted at the output directory root.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// WorkspaceDir returns the directory holding the backdrops of a workspace.
func (s *Store) WorkspaceDir(workspace string) string {
	return filepath.Join(s.root, workspacesDir, workspace, backdropsDir)
}

// Dir returns the directory of one backdrop.
func (s *Store) Dir(workspace, name string) string {
	return filepath.Join(s.WorkspaceDir(workspace), name)
}

// Save writes the assets and the record of b under the workspace and returns
// the record as written.
func (s *Store) Save(ctx context.Context, workspace string, b Backdrop, a Assets) (Backdrop, error) {
	if err := checkName("workspace", workspace); err != nil {
		return Backdrop{}, err
	}
	if err := checkName("backdrop", b.Name); err != nil {
		return Backdrop{}, err
	}
	logger := ctxlog.FromContext(ctx).With(slog.String("workspace", workspace), slog.String("backdrop", b.Name))

	dir := s.Dir(workspace, b.Name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Backdrop{}, fmt.Errorf("create backdrop dir: %w", err)
	}

	lock := flock.New(filepath.Join(dir, lockFile))
	ok, err := lock.TryLockContext(ctx, lockRetry)
	if err != nil {
		return Backdrop{}, fmt.Errorf("acquire backdrop lock: %w", err)
	}
	if !ok {
		return Backdrop{}, fmt.Errorf("backdrop %q is locked", b.Name)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("Failed to release backdrop lock.", "error", err)
		}
	}()

	b.ImagePath, b.ImageLatentPath, b.ImageDepthMapPath = "", "", ""
	if a.Image != nil {
		b.ImagePath = filepath.Join(dir, imageFile)
		if err := media.StoreImage(a.Image, b.ImagePath, true); err != nil {
			return Backdrop{}, err
		}
	}
	if a.Latent != nil {
		b.ImageLatentPath = filepath.Join(dir, latentFile)
		if err := media.StoreTensorBlob(a.Latent, b.ImageLatentPath); err != nil {
			return Backdrop{}, err
		}
	}
	if a.DepthMap != nil {
		b.ImageDepthMapPath = filepath.Join(dir, depthMapFile)
		if err := media.StoreImage(a.DepthMap, b.ImageDepthMapPath, true); err != nil {
			return Backdrop{}, err
		}
	}

	if err := media.StoreJSONRecord(b, filepath.Join(dir, recordFile)); err != nil {
		return Backdrop{}, err
	}
	logger.Info("Backdrop saved.",
		"image", b.ImagePath != "",
		"latent", b.ImageLatentPath != "",
		"depthmap", b.ImageDepthMapPath != "",
	)
	return b, nil
}

// Load reads a backdrop and every asset its record points to. A missing
// record is a perr.NotFoundError.
func (s *Store) Load(ctx context.Context, workspace, name string) (*Loaded, error) {
	if err := checkName("workspace", workspace); err != nil {
		return nil, err
	}
	if err := checkName("backdrop", name); err != nil {
		return nil, err
	}

	out := &Loaded{}
	path := filepath.Join(s.Dir(workspace, name), recordFile)
	if err := media.LoadJSONRecord(path, &out.Backdrop); err != nil {
		if perr.IsNotFound(err) {
			return nil, perr.NotFound("backdrop file", path)
		}
		return nil, err
	}

	var err error
	if out.ImagePath != "" {
		if out.Image, out.ImageMask, err = media.LoadImage(out.ImagePath); err != nil {
			return nil, err
		}
	}
	if out.ImageLatentPath != "" {
		if out.Latent, err = media.LoadTensorBlob(out.ImageLatentPath); err != nil {
			return nil, err
		}
	}
	if out.ImageDepthMapPath != "" {
		if out.DepthMap, _, err = media.LoadImage(out.ImageDepthMapPath); err != nil {
			return nil, err
		}
	}
	ctxlog.FromContext(ctx).Debug("Backdrop loaded.", "workspace", workspace, "backdrop", name)
	return out, nil
}

// List returns the backdrop names of a workspace in natural order. An
// unknown workspace has no backdrops.
func (s *Store) List(ctx context.Context, workspace string) ([]string, error) {
	if err := checkName("workspace", workspace); err != nil {
		return nil, err
	}
	return fsutil.ListDirs(s.WorkspaceDir(workspace))
}

func checkName(tier, name string) error {
	switch {
	case name == "":
		return perr.Validationf(tier, "%s name is required", tier)
	case name == "." || name == ".." || strings.ContainsAny(name, `/\`):
		return perr.Validationf(tier, "invalid %s name %q", tier, name)
	}
	return nil
}
