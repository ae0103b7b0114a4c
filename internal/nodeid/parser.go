// internal/nodeid/parser.go
package nodeid

import (
	"fmt"
	"regexp"
	"strings"
)

// segmentRegex is used to validate a single segment of a path.
var segmentRegex = regexp.MustCompile(`^[a-zA-Z0-9_:#-]+$`)

// Parse creates a new Address struct by parsing its canonical string representation.
func Parse(rawID string) (*Address, error) {
	if rawID == "" {
		return nil, fmt.Errorf("identifier cannot be empty")
	}

	addr := &Address{}
	for _, segmentStr := range strings.Split(rawID, Separator) {
		if segmentStr == "" {
			return nil, fmt.Errorf("identifier path contains empty segment: %q", rawID)
		}
		if !segmentRegex.MatchString(segmentStr) {
			return nil, fmt.Errorf("invalid path segment format: %q", segmentStr)
		}
		addr.Path = append(addr.Path, NewPathSegment(segmentStr))
	}

	return addr, nil
}

// MustParse is like Parse but panics on error. Intended for constants and tests.
func MustParse(rawID string) *Address {
	addr, err := Parse(rawID)
	if err != nil {
		panic(err)
	}
	return addr
}

// Join concatenates a nesting prefix and a local id. An empty prefix returns id unchanged.
func Join(prefix, id string) string {
	if prefix == "" {
		return id
	}
	return strings.TrimSuffix(prefix, Separator) + Separator + id
}
