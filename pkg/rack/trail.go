package rack

import "github.com/matzehuels/rackscape/pkg/scene"

// RailColor is the colour of the mounting rails.
const RailColor = "cyan"

// Rail node names.
const (
	RailLeft  = "rail-left"
	RailRight = "rail-right"
)

// NewTrail builds a rail pair for a cabinet of interior height cabinetHeight
// holding devices of the measured unit size device. The rails are
// RailThickness wide, width deep and cover TrailFraction of the cabinet. The
// group sits at half the rail height, so a child at y=0 is centred on the
// rails, and the rails line up with the device's -Z face.
func NewTrail(name string, width, cabinetHeight float64, device scene.Vec3) *scene.Node {
	h := cabinetHeight * TrailFraction
	z := -device.Z/2 + width/2 - railInset

	group := scene.NewGroup(name)
	group.Pose.Pos.Y = h / 2

	for _, r := range []struct {
		name string
		x    float64
	}{
		{RailLeft, device.X / 2},
		{RailRight, -device.X / 2},
	} {
		rail := scene.NewMesh(r.name, &scene.Mesh{
			Geometry:  scene.Box{Width: RailThickness, Height: h, Depth: width},
			Materials: []*scene.Material{scene.NewMaterial(RailColor)},
		})
		rail.Pose.Pos = scene.Vec3{X: r.x, Z: z}
		_ = group.Add(rail)
	}
	return group
}

// Devices returns the device nodes attached to a trail.
func Devices(trail *scene.Node) []*scene.Node {
	var out []*scene.Node
	for _, c := range trail.Children() {
		if c.Tag(TagHeightUnits) != "" {
			out = append(out, c)
		}
	}
	return out
}
