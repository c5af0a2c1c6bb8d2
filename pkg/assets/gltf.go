package assets

import (
	"fmt"

	"github.com/qmuntal/gltf"

	"github.com/matzehuels/rackscape/pkg/scene"
)

// readGLB opens a glTF file and converts its default scene into a node
// tree. Each mesh primitive becomes a box around its POSITION accessor
// bounds, which is all the layout engine measures.
func readGLB(path, name, color string) (*scene.Node, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, err
	}

	root := scene.NewGroup(name)
	for _, i := range rootNodes(doc) {
		n, err := convertNode(doc, i, color, 0)
		if err != nil {
			return nil, err
		}
		if err := root.Add(n); err != nil {
			return nil, err
		}
	}
	if scene.BoundingBox(root).IsEmpty() {
		return nil, fmt.Errorf("%s: no mesh geometry", path)
	}
	return root, nil
}

// maxDepth bounds node recursion in malformed files.
const maxDepth = 64

func convertNode(doc *gltf.Document, i int, color string, depth int) (*scene.Node, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("node hierarchy deeper than %d", maxDepth)
	}
	if i < 0 || i >= len(doc.Nodes) {
		return nil, fmt.Errorf("node index %d out of range", i)
	}
	src := doc.Nodes[i]
	n := scene.NewGroup(src.Name)
	n.Pose = nodePose(src)

	if src.Mesh != nil {
		mi := int(*src.Mesh)
		if mi >= len(doc.Meshes) {
			return nil, fmt.Errorf("mesh index %d out of range", mi)
		}
		for pi, prim := range doc.Meshes[mi].Primitives {
			box, ok := primitiveBounds(doc, prim)
			if !ok {
				continue
			}
			mesh := scene.NewMesh(fmt.Sprintf("%s-%d", doc.Meshes[mi].Name, pi), &scene.Mesh{
				Geometry:  scene.Box{Width: box.Size().X, Height: box.Size().Y, Depth: box.Size().Z},
				Materials: []*scene.Material{scene.NewMaterial(color)},
			})
			mesh.Pose.Pos = box.Center()
			if err := n.Add(mesh); err != nil {
				return nil, err
			}
		}
	}

	for _, c := range src.Children {
		child, err := convertNode(doc, int(c), color, depth+1)
		if err != nil {
			return nil, err
		}
		if err := n.Add(child); err != nil {
			return nil, err
		}
	}
	return n, nil
}

func primitiveBounds(doc *gltf.Document, prim *gltf.Primitive) (scene.Box3, bool) {
	idx, ok := prim.Attributes["POSITION"]
	if !ok || int(idx) >= len(doc.Accessors) {
		return scene.Box3{}, false
	}
	acc := doc.Accessors[int(idx)]
	if len(acc.Min) < 3 || len(acc.Max) < 3 {
		return scene.Box3{}, false
	}
	return scene.Box3{
		Min: scene.Vec3{X: acc.Min[0], Y: acc.Min[1], Z: acc.Min[2]},
		Max: scene.Vec3{X: acc.Max[0], Y: acc.Max[1], Z: acc.Max[2]},
	}, true
}

// rootNodes returns the nodes of the default scene, or of the first scene,
// or every node no other node lists as a child.
func rootNodes(doc *gltf.Document) []int {
	var nodes []uint32
	switch {
	case doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes):
		nodes = doc.Scenes[int(*doc.Scene)].Nodes
	case len(doc.Scenes) > 0:
		nodes = doc.Scenes[0].Nodes
	default:
		child := make(map[uint32]bool)
		for _, n := range doc.Nodes {
			for _, c := range n.Children {
				child[c] = true
			}
		}
		for i := range doc.Nodes {
			if !child[uint32(i)] {
				nodes = append(nodes, uint32(i))
			}
		}
	}

	roots := make([]int, len(nodes))
	for i, n := range nodes {
		roots[i] = int(n)
	}
	return roots
}

// nodePose reads the local transform of a node. A matrix other than the
// identity takes precedence over the TRS properties, which glTF forbids
// combining with it.
func nodePose(n *gltf.Node) scene.Pose {
	p := scene.DefaultPose()
	if c := n.MatrixOrDefault(); c != gltf.DefaultMatrix {
		p.Pos, p.Rot, p.Scale = columnMajor(c).Decompose()
		return p
	}

	t, r, sc := n.TranslationOrDefault(), n.RotationOrDefault(), n.ScaleOrDefault()
	p.Pos = scene.Vec3{X: t[0], Y: t[1], Z: t[2]}
	p.Rot = scene.Quat{X: r[0], Y: r[1], Z: r[2], W: r[3]}
	p.Scale = scene.Vec3{X: sc[0], Y: sc[1], Z: sc[2]}
	return p
}

// columnMajor converts a glTF matrix to a row-major [scene.Mat4].
func columnMajor(c [16]float64) scene.Mat4 {
	var m scene.Mat4
	for row := range 4 {
		for col := range 4 {
			m[row*4+col] = c[col*4+row]
		}
	}
	return m
}
