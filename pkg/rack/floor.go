package rack

import (
	"fmt"

	"github.com/matzehuels/rackscape/pkg/errors"
	"github.com/matzehuels/rackscape/pkg/scene"
)

// FloorOptions describe the tile grid under a hall.
type FloorOptions struct {
	Rows    int
	Cols    int
	Spacing float64

	// Center is the grid centre on the ground plane; Y is ignored.
	Center scene.Vec3

	// TileScale is applied to each tile clone. A zero vector keeps the
	// template's own scale.
	TileScale scene.Vec3

	// Every StripeEvery-th row (counting from one) is tinted StripeColor.
	// Zero disables striping.
	StripeEvery int
	StripeColor string
}

// DefaultFloorOptions returns the reference floor: 11 by 10 tiles on a half
// unit grid with every third row tinted.
func DefaultFloorOptions() FloorOptions {
	return FloorOptions{
		Rows:        11,
		Cols:        10,
		Spacing:     0.5,
		TileScale:   scene.Vec3{X: 0.25, Y: 0.5, Z: 0.25},
		StripeEvery: 3,
		StripeColor: "#aaaa00",
	}
}

// Validate checks the grid dimensions and stripe colour.
func (o FloorOptions) Validate() error {
	if o.Rows < 0 || o.Cols < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "floor size %dx%d is negative", o.Rows, o.Cols)
	}
	if o.Rows*o.Cols > 1 && !(o.Spacing > 0) {
		return errors.New(errors.ErrCodeInvalidInput, "floor spacing must be positive, got %v", o.Spacing)
	}
	if o.StripeEvery < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "stripe interval %d is negative", o.StripeEvery)
	}
	if o.StripeEvery > 0 {
		if err := errors.ValidateColor(o.StripeColor); err != nil {
			return err
		}
	}
	return nil
}

// striped reports whether row r is tinted.
func (o FloorOptions) striped(r int) bool {
	return o.StripeEvery > 0 && r%o.StripeEvery == o.StripeEvery-1
}

// TileFloor lays clones of tile on a grid centred on opts.Center. Tile
// (r, c) sits at x = Center.X + (r - (Rows-1)/2) * Spacing,
// z = Center.Z + (c - (Cols-1)/2) * Spacing and is lowered so that its top
// face is at y = 0. Every tile mesh is tagged paintable.
func TileFloor(tile *scene.Node, opts FloorOptions) (*scene.Node, error) {
	if tile == nil {
		return nil, errors.New(errors.ErrCodeInvalidTemplate, "missing %s template", TemplateTile)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	proto := tile.Clone()
	proto.Pose.Pos = scene.Vec3{}
	if opts.TileScale != (scene.Vec3{}) {
		proto.Pose.Scale = opts.TileScale
	}
	box := scene.BoundingBox(proto)
	if box.IsEmpty() {
		return nil, errors.New(errors.ErrCodeInvalidTemplate, "%s template has no geometry", TemplateTile)
	}
	top := box.Max.Y
	for _, m := range scene.Meshes(proto) {
		m.SetTag(scene.TagPaintable, "true")
	}

	x0 := opts.Center.X - float64(opts.Rows-1)/2*opts.Spacing
	z0 := opts.Center.Z - float64(opts.Cols-1)/2*opts.Spacing

	floor := scene.NewGroup("floor")
	for r := range opts.Rows {
		for c := range opts.Cols {
			t := proto.Clone()
			t.Name = fmt.Sprintf("tile-%02d-%02d", r, c)
			t.Pose.Pos = scene.Vec3{
				X: x0 + float64(r)*opts.Spacing,
				Y: -top,
				Z: z0 + float64(c)*opts.Spacing,
			}
			if opts.striped(r) {
				scene.EachMaterial(t, func(m *scene.Material) { m.Color = opts.StripeColor })
			}
			if err := floor.Add(t); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "attach %s", t.Name)
			}
		}
	}
	return floor, nil
}
