package rack

import (
	"math"
	"testing"

	"github.com/matzehuels/rackscape/pkg/scene"
)

const tol = 1e-9

// Template extents used throughout the tests.
var (
	cabinetSize = scene.Vec3{X: 0.6, Y: 2.0, Z: 1.0}
	deviceUnit  = scene.Vec3{X: 0.5, Y: 0.04, Z: 0.8}
	tileSize    = scene.Vec3{X: 2, Y: 0.2, Z: 2}
)

func boxNode(name string, size scene.Vec3, color string) *scene.Node {
	return scene.NewMesh(name, &scene.Mesh{
		Geometry:  scene.Box{Width: size.X, Height: size.Y, Depth: size.Z},
		Materials: []*scene.Material{scene.NewMaterial(color)},
	})
}

func testTemplates() Templates {
	return Templates{
		Cabinet: boxNode(TemplateCabinet, cabinetSize, "black"),
		Device:  boxNode(TemplateDevice, deviceUnit, "gray"),
		Tile:    boxNode(TemplateTile, tileSize, "white"),
	}
}

func testTextures() TextureSet {
	ts := TextureSet{}
	for _, u := range StandardSizes {
		k := SizeKey(u)
		ts[k] = TexturePair{
			Front: &scene.Texture{Key: k, Side: "front", Path: "asset/image/" + k + "_front.png"},
			Back:  &scene.Texture{Key: k, Side: "back", Path: "asset/image/" + k + "_back.png"},
		}
	}
	return ts
}

func testAssembler(opts Options) *Assembler {
	return NewAssembler(testTemplates(), testTextures(), opts)
}

func mustProfile(t *testing.T, ds ...Descriptor) *Profile {
	t.Helper()
	p, err := NewProfile("test", ds)
	if err != nil {
		t.Fatalf("NewProfile() error = %v", err)
	}
	return p
}

func approx(a, b float64) bool { return math.Abs(a-b) <= tol }

func approxVec(a, b scene.Vec3) bool {
	return approx(a.X, b.X) && approx(a.Y, b.Y) && approx(a.Z, b.Z)
}

// cabinetPos returns the position of a device in its cabinet's frame.
func cabinetPos(device *scene.Node) scene.Vec3 {
	trail := device.Parent()
	return trail.Pose.Matrix().MulPoint(device.Pose.Pos)
}

func deviceLabels(cabinet *scene.Node) []string {
	var out []string
	for _, side := range []MountSide{Front, Back} {
		for _, d := range Devices(Trail(cabinet, side)) {
			out = append(out, d.Name)
		}
	}
	return out
}
