package prompt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/vk/playtraversal/internal/perr"
)

// MarshalJSON encodes links as ["id", slot] and literals as themselves.
func (i Input) MarshalJSON() ([]byte, error) {
	if i.link != nil {
		return json.Marshal([]any{i.link.NodeID, i.link.Slot})
	}
	return json.Marshal(i.value)
}

// UnmarshalJSON recognizes a two-element [string, integer] array as a link.
func (i *Input) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var pair []json.RawMessage
		if err := json.Unmarshal(trimmed, &pair); err == nil && len(pair) == 2 {
			var id string
			var slot int
			if json.Unmarshal(pair[0], &id) == nil && json.Unmarshal(pair[1], &slot) == nil {
				*i = LinkTo(id, slot)
				return nil
			}
		}
	}
	var v any
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return err
	}
	*i = Literal(v)
	return nil
}

// Decode reads a prompt in the host's API format.
func Decode(r io.Reader) (Prompt, error) {
	var p Prompt
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode prompt: %w", err)
	}
	for id, n := range p {
		if n == nil {
			return nil, fmt.Errorf("decode prompt: node %q is null", id)
		}
		if n.ClassType == "" {
			return nil, fmt.Errorf("decode prompt: node %q has no class_type", id)
		}
		if n.Inputs == nil {
			n.Inputs = make(map[string]Input)
		}
	}
	return p, nil
}

// Encode writes the prompt in the host's API format.
func Encode(w io.Writer, p Prompt) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

// Load reads a prompt file from disk.
func Load(path string) (Prompt, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, perr.NotFound("prompt file", path)
		}
		return nil, fmt.Errorf("open prompt %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}
