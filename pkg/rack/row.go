package rack

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/rackscape/pkg/errors"
	"github.com/matzehuels/rackscape/pkg/scene"
)

// TagSlot records the slot index of a cabinet within its row.
const TagSlot = "slot"

// RowOptions place cabinets along the Z axis.
type RowOptions struct {
	Name       string
	Length     int
	Spacing    float64
	Origin     scene.Vec3
	Mirrored   bool
	Separation float64 // X offset of a mirrored row
	Parallel   bool
}

// AisleOptions describe two facing rows.
type AisleOptions struct {
	Length     int
	Spacing    float64
	Origin     scene.Vec3
	Separation float64
	Parallel   bool
}

// DefaultAisleOptions returns the reference hall: two rows of ten cabinets,
// half a unit apart, 4.5 units between the rows.
func DefaultAisleOptions() AisleOptions {
	return AisleOptions{
		Length:     10,
		Spacing:    0.5,
		Origin:     scene.Vec3{X: -2, Z: -2.25},
		Separation: 4.5,
	}
}

// Rows returns the options of both rows of the aisle.
func (o AisleOptions) Rows() (a, b RowOptions) {
	a = RowOptions{
		Name:     "row-a",
		Length:   o.Length,
		Spacing:  o.Spacing,
		Origin:   o.Origin,
		Parallel: o.Parallel,
	}
	b = a
	b.Name = "row-b"
	b.Mirrored = true
	b.Separation = o.Separation
	return a, b
}

// Center returns the point midway between the two rows and between the
// first and last cabinet of each.
func (o AisleOptions) Center() scene.Vec3 {
	return o.Origin.Add(scene.Vec3{
		X: o.Separation / 2,
		Z: float64(max(o.Length-1, 0)) * o.Spacing / 2,
	})
}

// LayoutRow assembles opts.Length cabinets from p. Cabinet i sits at
// Origin + i*Spacing along Z. A mirrored row is moved Separation along X and
// every cabinet is turned half way round.
func LayoutRow(ctx context.Context, asm *Assembler, p *Profile, opts RowOptions) (*scene.Node, Stats, error) {
	return layoutRow(ctx, asm, p, opts, 0)
}

func layoutRow(ctx context.Context, asm *Assembler, p *Profile, opts RowOptions, firstSlot int) (*scene.Node, Stats, error) {
	var stats Stats
	if asm == nil {
		return nil, stats, errors.New(errors.ErrCodeInvalidInput, "nil assembler")
	}
	if opts.Length < 0 {
		return nil, stats, errors.New(errors.ErrCodeInvalidInput, "row length %d is negative", opts.Length)
	}
	name := opts.Name
	if name == "" {
		name = "row"
	}

	cabinets := make([]*scene.Node, opts.Length)
	slotStats := make([]Stats, opts.Length)
	build := func(i int) error {
		c, s, err := asm.forSlot(firstSlot+i).Assemble(ctx, p)
		if err != nil {
			return fmt.Errorf("slot %d: %w", i, err)
		}
		placeCabinet(c, i, opts)
		cabinets[i], slotStats[i] = c, s
		return nil
	}

	if opts.Parallel && asm.Options.Rand == nil {
		var g errgroup.Group
		for i := range opts.Length {
			g.Go(func() error { return build(i) })
		}
		if err := g.Wait(); err != nil {
			return nil, stats, err
		}
	} else {
		for i := range opts.Length {
			if err := build(i); err != nil {
				return nil, stats, err
			}
		}
	}

	row := scene.NewGroup(name)
	for i, c := range cabinets {
		if err := row.Add(c); err != nil {
			return nil, stats, errors.Wrap(errors.ErrCodeInternal, err, "attach slot %d", i)
		}
		stats.Add(slotStats[i])
	}
	return row, stats, nil
}

func placeCabinet(c *scene.Node, i int, opts RowOptions) {
	c.Name = fmt.Sprintf("cabinet-%02d", i)
	c.SetTag(TagSlot, strconv.Itoa(i))
	c.Pose.Pos = opts.Origin.Add(scene.Vec3{Z: float64(i) * opts.Spacing})
	if opts.Mirrored {
		c.Pose.Pos.X += opts.Separation
		c.Pose.RotateY(math.Pi)
	}
}

// LayoutAisle lays out a row and a mirrored row facing it. Slots of the
// second row draw from their own random sources, so the two rows differ
// when the fill ratio is below one.
func LayoutAisle(ctx context.Context, asm *Assembler, p *Profile, opts AisleOptions) (*scene.Node, Stats, error) {
	var stats Stats
	rowA, rowB := opts.Rows()

	var (
		mu    sync.Mutex
		nodes [2]*scene.Node
	)
	g, gctx := errgroup.WithContext(ctx)
	for i, ro := range []RowOptions{rowA, rowB} {
		run := func() error {
			n, s, err := layoutRow(gctx, asm, p, ro, i*opts.Length)
			if err != nil {
				return fmt.Errorf("%s: %w", ro.Name, err)
			}
			mu.Lock()
			nodes[i] = n
			stats.Add(s)
			mu.Unlock()
			return nil
		}
		if opts.Parallel && asm != nil && asm.Options.Rand == nil {
			g.Go(run)
		} else if err := run(); err != nil {
			return nil, stats, err
		}
	}
	if err := g.Wait(); err != nil {
		return nil, stats, err
	}

	aisle := scene.NewGroup("aisle")
	for _, n := range nodes {
		if err := aisle.Add(n); err != nil {
			return nil, stats, errors.Wrap(errors.ErrCodeInternal, err, "attach %s", n.Name)
		}
	}
	return aisle, stats, nil
}
