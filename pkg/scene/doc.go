// Package scene provides a small, renderer-independent scene tree.
//
// A [Node] has a [Pose] (position, rotation, scale relative to its parent),
// an optional box [Mesh] with per-face [Material]s, and exclusively owned
// children. Transforms are composed explicitly by [Walk] and [WorldMatrix]
// rather than cached on the nodes, so a tree can be cloned, edited and
// inspected without any hidden state.
//
// # Ownership
//
// [Node.Add] refuses a node that already has a parent, and [Node.Clone]
// produces a detached deep copy with fresh IDs and cloned materials.
// Textures are immutable and shared.
//
// # Measuring
//
// [BoundingBox] and [Measure] return the axis-aligned extents of a subtree
// in the frame the subtree is posed in. Layout code measures templates this
// way instead of trusting declared sizes.
//
// # Picking
//
// [Pick] casts a [Ray] against all meshes and returns the nearest [Hit].
// [Paint] recolours a paintable node with a fresh material; the default
// colours are in [Palette].
package scene
