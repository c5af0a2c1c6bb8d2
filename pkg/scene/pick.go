package scene

// TagPaintable marks nodes that accept paint.
const TagPaintable = "paintable"

// TagSwatch holds the colour of a palette swatch node.
const TagSwatch = "swatch"

// Palette is the set of paint colours offered to users.
var Palette = []string{
	"lavender",
	"lightblue",
	"lightgreen",
	"lightyellow",
	"lightcoral",
	"lightpink",
	"lightseagreen",
	"lightskyblue",
	"#ffa502",
	"#fdcb6e",
	"#2d3436",
}

// Ray is a half-line in root space.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// Hit is the result of a successful pick.
type Hit struct {
	Node     *Node
	Distance float64
	Point    Vec3
}

// Pick casts ray against every mesh under root and returns the nearest hit.
// Meshes are tested by their axis-aligned box in root space, which is exact
// for the quarter-turn rotations used by rack layouts. See-through meshes,
// such as a cabinet chassis, are skipped so that whatever they enclose can
// be picked.
func Pick(root *Node, ray Ray) (Hit, bool) {
	dir := ray.Dir.Normal()
	var (
		best  Hit
		found bool
	)
	_ = Walk(root, Identity(), func(n *Node, world Mat4) error {
		if n.Mesh == nil || seeThrough(n.Mesh) {
			return nil
		}
		t, ok := n.Mesh.Bounds().Transform(world).IntersectRay(ray.Origin, dir)
		if ok && (!found || t < best.Distance) {
			best = Hit{Node: n, Distance: t, Point: ray.Origin.Add(dir.Scale(t))}
			found = true
		}
		return nil
	})
	return best, found
}

// seeThrough reports whether every material of m is transparent with an
// opacity below one.
func seeThrough(m *Mesh) bool {
	if len(m.Materials) == 0 {
		return false
	}
	for _, mat := range m.Materials {
		if mat == nil || !mat.Transparent || mat.Opacity >= 1 {
			return false
		}
	}
	return true
}

// Paint recolours the mesh of n with a single fresh material and returns
// whether anything was painted. Only nodes tagged paintable accept paint;
// materials shared with other nodes are never modified.
func Paint(n *Node, color string) bool {
	if n == nil || n.Mesh == nil || n.Tag(TagPaintable) != "true" {
		return false
	}
	var mat *Material
	if base := n.Mesh.Material(FacePosY); base != nil {
		mat = base.Clone()
	} else {
		mat = NewMaterial(color)
	}
	mat.Color = color
	mat.Texture = nil
	n.Mesh.Materials = []*Material{mat}
	return true
}

// SwatchColor returns the colour of a palette swatch node, if n is one.
func SwatchColor(n *Node) (string, bool) {
	if n == nil {
		return "", false
	}
	c := n.Tag(TagSwatch)
	return c, c != ""
}

// NewPalette builds a grid of swatch tiles, two per column, one for each
// colour in colors.
func NewPalette(colors []string) *Node {
	const pitch = 1.2
	group := NewGroup("palette")
	for i, c := range colors {
		cube := NewMesh("swatch-"+c, &Mesh{
			Geometry:  Box{Width: 1, Height: 0.2, Depth: 1},
			Materials: []*Material{NewMaterial(c)},
		})
		if i%2 == 0 {
			cube.Pose.Pos.Z = pitch
		}
		cube.Pose.Pos.X = float64(i/2) * pitch
		cube.SetTag(TagSwatch, c)
		_ = group.Add(cube)
	}
	return group
}
