package scene

import "errors"

// SkipChildren can be returned from a [WalkFunc] to skip the subtree of the
// current node.
var SkipChildren = errors.New("skip children")

// WalkFunc is called for each visited node with the node's transform
// composed with the transforms of all visited ancestors.
type WalkFunc func(n *Node, world Mat4) error

// Walk visits the subtree rooted at n depth-first, parents before children.
// The matrix passed for n is parent * n.Pose; pass [Identity] when n is a
// root.
func Walk(n *Node, parent Mat4, fn WalkFunc) error {
	world := parent.Mul(n.Pose.Matrix())
	if err := fn(n, world); err != nil {
		if errors.Is(err, SkipChildren) {
			return nil
		}
		return err
	}
	for _, c := range n.children {
		if err := Walk(c, world, fn); err != nil {
			return err
		}
	}
	return nil
}

// WorldMatrix returns the transform from n's local space to the space of
// its root's parent.
func WorldMatrix(n *Node) Mat4 {
	m := n.Pose.Matrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.Pose.Matrix().Mul(m)
	}
	return m
}

// WorldPosition returns the origin of n in root space.
func WorldPosition(n *Node) Vec3 { return WorldMatrix(n).Translation() }

// BoundingBox returns the box around every mesh in the subtree of n,
// expressed in the frame n is posed in (n's own pose is applied).
func BoundingBox(n *Node) Box3 {
	box := EmptyBox()
	_ = Walk(n, Identity(), func(node *Node, world Mat4) error {
		if node.Mesh != nil {
			box = box.Union(node.Mesh.Bounds().Transform(world))
		}
		return nil
	})
	return box
}

// Measure returns the bounding-box size of the subtree of n.
func Measure(n *Node) Vec3 { return BoundingBox(n).Size() }

// EachMaterial calls fn for every material in the subtree of n.
func EachMaterial(n *Node, fn func(*Material)) {
	_ = Walk(n, Identity(), func(node *Node, _ Mat4) error {
		if node.Mesh != nil {
			for _, m := range node.Mesh.Materials {
				fn(m)
			}
		}
		return nil
	})
}

// Meshes returns every mesh node in the subtree of n in depth-first order.
func Meshes(n *Node) []*Node {
	var out []*Node
	_ = Walk(n, Identity(), func(node *Node, _ Mat4) error {
		if node.Kind == KindMesh {
			out = append(out, node)
		}
		return nil
	})
	return out
}
