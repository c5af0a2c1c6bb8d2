package scene

import (
	"errors"
	"maps"
	"slices"

	"github.com/google/uuid"
)

// Sentinel errors for tree edits.
var (
	// ErrHasParent is returned when attaching a node that is already owned.
	ErrHasParent = errors.New("node already has a parent")

	// ErrCycle is returned when attaching a node to one of its own descendants.
	ErrCycle = errors.New("node would become its own ancestor")
)

// Kind distinguishes grouping nodes from nodes carrying geometry.
type Kind int

const (
	KindGroup Kind = iota
	KindMesh
)

func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindMesh:
		return "mesh"
	default:
		return "unknown"
	}
}

// Node is an element of the scene tree. A node exclusively owns its
// children; a node can have at most one parent.
type Node struct {
	ID   string
	Name string
	Kind Kind
	Pose Pose
	Mesh *Mesh
	Tags map[string]string

	parent   *Node
	children []*Node
}

// NewGroup returns an empty group node.
func NewGroup(name string) *Node {
	return &Node{ID: uuid.NewString(), Name: name, Kind: KindGroup, Pose: DefaultPose()}
}

// NewMesh returns a node carrying mesh.
func NewMesh(name string, mesh *Mesh) *Node {
	return &Node{ID: uuid.NewString(), Name: name, Kind: KindMesh, Pose: DefaultPose(), Mesh: mesh}
}

// Parent returns the owning node, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node { return slices.Clone(n.children) }

// Len returns the number of direct children.
func (n *Node) Len() int { return len(n.children) }

// Child returns the i-th child.
func (n *Node) Child(i int) *Node { return n.children[i] }

// Add attaches child to n. The child must be a root and must not be an
// ancestor of n.
func (n *Node) Add(child *Node) error {
	if child.parent != nil {
		return ErrHasParent
	}
	for p := n; p != nil; p = p.parent {
		if p == child {
			return ErrCycle
		}
	}
	child.parent = n
	n.children = append(n.children, child)
	return nil
}

// Remove detaches child from n and reports whether it was a child.
func (n *Node) Remove(child *Node) bool {
	i := slices.Index(n.children, child)
	if i < 0 {
		return false
	}
	n.children = slices.Delete(n.children, i, i+1)
	child.parent = nil
	return true
}

// Find returns the first descendant (depth-first, n included) named name.
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.children {
		if f := c.Find(name); f != nil {
			return f
		}
	}
	return nil
}

// SetTag sets a string tag on the node.
func (n *Node) SetTag(key, value string) {
	if n.Tags == nil {
		n.Tags = make(map[string]string)
	}
	n.Tags[key] = value
}

// Tag returns the tag value for key.
func (n *Node) Tag(key string) string { return n.Tags[key] }

// Clone returns a detached deep copy of the subtree rooted at n. Every
// copied node gets a fresh ID and its own materials, so edits to the clone
// never reach the original.
func (n *Node) Clone() *Node {
	c := &Node{
		ID:   uuid.NewString(),
		Name: n.Name,
		Kind: n.Kind,
		Pose: n.Pose,
		Tags: maps.Clone(n.Tags),
	}
	if n.Mesh != nil {
		c.Mesh = n.Mesh.Clone()
	}
	if len(n.children) > 0 {
		c.children = make([]*Node, len(n.children))
		for i, child := range n.children {
			cc := child.Clone()
			cc.parent = c
			c.children[i] = cc
		}
	}
	return c
}

// Count returns the number of nodes in the subtree, n included.
func (n *Node) Count() int {
	total := 1
	for _, c := range n.children {
		total += c.Count()
	}
	return total
}
