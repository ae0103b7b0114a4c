package loop

import (
	"fmt"

	"github.com/vk/playtraversal/internal/play"
)

// LatentPolicy decides how an incoming latent is written onto a batch.
type LatentPolicy int

const (
	// LatentAlways writes the incoming latent, even when it is nil.
	LatentAlways LatentPolicy = iota
	// LatentWhenPresent leaves the batch untouched when the latent is nil.
	LatentWhenPresent
)

// ParseLatentPolicy parses "always" or "when-present".
func ParseLatentPolicy(s string) (LatentPolicy, error) {
	switch s {
	case "", "always":
		return LatentAlways, nil
	case "when-present":
		return LatentWhenPresent, nil
	default:
		return 0, fmt.Errorf("unknown latent policy %q (want always or when-present)", s)
	}
}

func (p LatentPolicy) String() string {
	switch p {
	case LatentAlways:
		return "always"
	case LatentWhenPresent:
		return "when-present"
	default:
		return fmt.Sprintf("LatentPolicy(%d)", int(p))
	}
}

// Apply writes latent onto b according to the policy.
func (p LatentPolicy) Apply(b *play.Batch, latent any) {
	if latent == nil && p == LatentWhenPresent {
		return
	}
	b.LatentPrevious = latent
}
