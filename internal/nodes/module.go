package nodes

import (
	"github.com/vk/playtraversal/internal/backdrop"
	"github.com/vk/playtraversal/internal/loop"
	"github.com/vk/playtraversal/internal/play"
	"github.com/vk/playtraversal/internal/registry"
)

// Category groups every class of the pack in the authoring UI.
const Category = "Feller of Trees/Play Traversal"

// Class types of the pack.
const (
	ClassPlayStart         = "fot_PlayStart"
	ClassPlayContinue      = "fot_PlayContinue"
	ClassPlayData          = "fot_PlayData"
	ClassPlayAct           = "fot_PlayAct"
	ClassPlayActData       = "fot_PlayActData"
	ClassScene             = "fot_Scene"
	ClassSceneData         = "fot_SceneData"
	ClassSceneBeat         = "fot_SceneBeat"
	ClassSceneBeatData     = "fot_SceneBeatData"
	ClassBatchData         = "fot_BatchData"
	ClassSceneBackdrop     = "fot_SceneBackdrop"
	ClassSceneBackdropData = "fot_SceneBackdropData"
	ClassWorkspace         = "fot_Workspace"
	ClassEmptyLatent       = "fot_EmptyLatent"
	ClassSaveLatent        = "fot_SaveLatent"
)

// Module registers the pack.
type Module struct {
	// Policy decides how latents are written onto batches.
	Policy loop.LatentPolicy
	// Observer is told about plays and batches. It may be nil.
	Observer loop.Observer
	// OutputDir is the root for backdrops and saved latents.
	OutputDir string
}

// Register implements registry.Module.
func (m *Module) Register(r *registry.Registry) {
	ctrl := loop.NewController[any](m.Policy, m.Observer)
	analyzer := loop.Analyzer{
		Markers:  []string{ClassPlayStart, ClassPlayContinue},
		IsOutput: r.IsOutputNode,
	}
	backdrops := backdrop.NewStore(m.OutputDir)

	for _, def := range []*registry.Definition{
		playStart(ctrl),
		playContinue(ctrl, analyzer),
		playData(),
		playAct(),
		playActData(),
		scene(),
		sceneData(),
		sceneBeat(),
		sceneBeatData(),
		batchData(),
		sceneBackdrop(backdrops),
		sceneBackdropData(backdrops),
		workspace(),
		emptyLatent(),
		saveLatent(m.OutputDir),
	} {
		def.Category = Category
		r.Register(def)
	}
}

// slots offered per tier.
var (
	actSlots   = slotNames("act", play.MaxSlots)
	sceneSlots = slotNames("scene", play.MaxSlots)
	beatSlots  = slotNames("scene_beat", play.MaxSlots)
)
