package play

import (
	"github.com/vk/playtraversal/internal/perr"
)

// MaxSlots is the number of child slots a tier node offers.
const MaxSlots = 4

// CompactSlots trims trailing empty slots and returns the remaining
// children in order. It fails when nothing is left or when an empty slot is
// followed by a filled one. name is the singular child tier, used in the
// error message.
func CompactSlots[T any](name string, slots []*T) ([]*T, error) {
	end := len(slots)
	for end > 0 && slots[end-1] == nil {
		end--
	}
	if end == 0 {
		return nil, perr.Validationf(name, "At least one %s is required", name)
	}
	if end > MaxSlots {
		return nil, perr.Validationf(name, "At most %d %ss are supported, got %d", MaxSlots, name, end)
	}
	out := make([]*T, 0, end)
	for _, s := range slots[:end] {
		if s == nil {
			return nil, perr.Validationf(name, "Found gap in %ss, please defragment!", name)
		}
		out = append(out, s)
	}
	return out, nil
}
