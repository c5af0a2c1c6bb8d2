package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/rackscape/pkg/assets"
	"github.com/matzehuels/rackscape/pkg/errors"
	"github.com/matzehuels/rackscape/pkg/observability"
	"github.com/matzehuels/rackscape/pkg/rack"
	"github.com/matzehuels/rackscape/pkg/scene"
)

// HallName is the name of the root node of a laid-out hall.
const HallName = "hall"

// PalettePos is where the swatch grid is placed beside the reference hall.
var PalettePos = scene.Vec3{X: 5, Z: 5}

// BuildScene lays out a hall from loaded assets: an aisle of two facing
// rows, unless disabled the tiled floor centred under it and, on request,
// a palette of paint swatches.
func BuildScene(ctx context.Context, set *assets.Set, p *rack.Profile, opts Options) (root *scene.Node, stats rack.Stats, err error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, stats, errors.Wrap(errors.ErrCodeInvalidInput, err, "layout options")
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, p.Name(), 2*opts.Cabinets)
	start := time.Now()
	defer func() {
		n := 0
		if root != nil {
			n = root.Count()
		}
		hooks.OnLayoutComplete(ctx, p.Name(), n, time.Since(start), err)
	}()

	asm := rack.NewAssembler(set.Templates, set.Textures, opts.AssemblerOptions())
	aisleOpts := opts.AisleOptions()
	aisle, stats, err := rack.LayoutAisle(ctx, asm, p, aisleOpts)
	if err != nil {
		return nil, stats, err
	}

	root = scene.NewGroup(HallName)
	root.SetTag("profile", p.Name())
	if err := root.Add(aisle); err != nil {
		return nil, stats, errors.Wrap(errors.ErrCodeInternal, err, "attach aisle")
	}

	if !opts.NoFloor {
		floorOpts := rack.DefaultFloorOptions()
		floorOpts.Center = aisleOpts.Center()
		floor, err := rack.TileFloor(set.Templates.Tile, floorOpts)
		if err != nil {
			return nil, stats, err
		}
		if err := root.Add(floor); err != nil {
			return nil, stats, errors.Wrap(errors.ErrCodeInternal, err, "attach floor")
		}
	}

	if opts.Palette {
		palette := scene.NewPalette(scene.Palette)
		palette.Pose.Pos = PalettePos
		if err := root.Add(palette); err != nil {
			return nil, stats, errors.Wrap(errors.ErrCodeInternal, err, "attach palette")
		}
	}
	return root, stats, nil
}

// FirstCabinet returns the first cabinet of a hall, or nil.
func FirstCabinet(root *scene.Node) *scene.Node {
	var found *scene.Node
	_ = scene.Walk(root, scene.Identity(), func(n *scene.Node, _ scene.Mat4) error {
		if found != nil {
			return scene.SkipChildren
		}
		if n.Tag(rack.TagSlot) != "" {
			found = n
			return scene.SkipChildren
		}
		return nil
	})
	return found
}
