// internal/nodeid/types.go
package nodeid

// Separator joins the segments of a nested node id.
const Separator = "."

// PathSegment represents a single component of an address path.
type PathSegment struct {
	Name string
}

// NewPathSegment creates a new path segment.
func NewPathSegment(name string) PathSegment {
	return PathSegment{Name: name}
}

// Address is the structured representation of a node identifier.
// It is modeled as a path, broken into segments; the last one is the local id.
type Address struct {
	Path []PathSegment
}
