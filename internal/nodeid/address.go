// internal/nodeid/address.go
package nodeid

import (
	"slices"
	"strings"
)

// String serializes the Address into its canonical path string representation.
func (a *Address) String() string {
	if a == nil {
		return ""
	}

	var sb strings.Builder
	for i, segment := range a.Path {
		if i > 0 {
			sb.WriteString(Separator)
		}
		sb.WriteString(segment.Name)
	}

	return sb.String()
}

// Equal checks for deep equality between two Address pointers.
func (a *Address) Equal(other *Address) bool {
	if a == nil || other == nil {
		return a == other
	}
	return slices.Equal(a.Path, other.Path)
}

// Last returns the local id, i.e. the final path segment.
func (a *Address) Last() string {
	if a == nil || len(a.Path) == 0 {
		return ""
	}
	return a.Path[len(a.Path)-1].Name
}

// Prefix returns everything before the final segment, without a trailing separator.
func (a *Address) Prefix() string {
	if a == nil || len(a.Path) < 2 {
		return ""
	}
	return (&Address{Path: a.Path[:len(a.Path)-1]}).String()
}

// IsNested reports whether the address lives inside an expansion.
func (a *Address) IsNested() bool {
	return a != nil && len(a.Path) > 1
}

// WithLast returns a copy of the address whose final segment is replaced by
// local. The nesting prefix is preserved.
func (a *Address) WithLast(local string) *Address {
	if a == nil || len(a.Path) == 0 {
		return &Address{Path: []PathSegment{NewPathSegment(local)}}
	}
	path := slices.Clone(a.Path)
	path[len(path)-1] = NewPathSegment(local)
	return &Address{Path: path}
}

// ReplaceLast is the string form of WithLast. Ids that fail to parse are
// treated as single-segment ids.
func ReplaceLast(rawID, local string) string {
	addr, err := Parse(rawID)
	if err != nil {
		return local
	}
	return addr.WithLast(local).String()
}
