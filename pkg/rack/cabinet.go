package rack

import (
	"context"
	"math"
	"math/rand/v2"

	"github.com/matzehuels/rackscape/pkg/errors"
	"github.com/matzehuels/rackscape/pkg/observability"
	"github.com/matzehuels/rackscape/pkg/scene"
)

// Trail node names.
const (
	TrailFront = "trail-front"
	TrailBack  = "trail-back"
)

// Facing is the direction every cabinet's +Z axis is turned toward.
var Facing = scene.Vec3{X: -1}

// Forward is the cabinet-local axis that points out of the front opening.
// Device front faces are -Z faces.
var Forward = scene.Vec3{Z: -1}

// Options control cabinet assembly.
type Options struct {
	// FillRatio is the probability that a descriptor is mounted. Zero means 1.
	FillRatio float64

	// Seed seeds the default random source.
	Seed uint64

	// Rand overrides the random source used for fill decisions.
	Rand *rand.Rand

	// StrictTextures turns a missing texture pair into an error.
	StrictTextures bool
}

// Stats summarises one or more assemblies.
type Stats struct {
	Cabinets        int `json:"cabinets"`
	Placed          int `json:"placed"`
	Skipped         int `json:"skipped"`
	MissingTextures int `json:"missing_textures"`
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Cabinets += o.Cabinets
	s.Placed += o.Placed
	s.Skipped += o.Skipped
	s.MissingTextures += o.MissingTextures
}

// Assembler composes cabinets from templates, textures and a profile.
// An Assembler is not safe for concurrent use; [LayoutRow] derives one per
// cabinet slot when it runs in parallel.
type Assembler struct {
	Templates Templates
	Textures  TextureSet
	Options   Options

	rng *rand.Rand
}

// NewAssembler returns an assembler with the given inputs.
func NewAssembler(t Templates, ts TextureSet, opts Options) *Assembler {
	return &Assembler{Templates: t, Textures: ts, Options: opts}
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

func (a *Assembler) fillRatio() float64 {
	if a.Options.FillRatio <= 0 {
		return 1
	}
	return a.Options.FillRatio
}

func (a *Assembler) random() *rand.Rand {
	if a.Options.Rand != nil {
		return a.Options.Rand
	}
	if a.rng == nil {
		a.rng = newRand(a.Options.Seed)
	}
	return a.rng
}

// forSlot returns the assembler used for cabinet slot i of a row. Unless
// a random source was injected, each slot gets its own source derived from
// the seed, so a row comes out the same whether slots run in order or not.
func (a *Assembler) forSlot(i int) *Assembler {
	if a.Options.Rand != nil {
		return a
	}
	c := &Assembler{Templates: a.Templates, Textures: a.Textures, Options: a.Options}
	c.rng = newRand(a.Options.Seed + uint64(i))
	return c
}

// Assemble builds one cabinet for profile p:
//
//  1. measure the cabinet height and device size from the templates
//  2. build the front and back trails
//  3. place every descriptor (subject to the fill ratio) on its trail
//  4. turn the back trail half way round
//  5. clone the cabinet template with translucent materials
//  6. shrink it and turn it toward [Facing]
//  7. attach both trails
//
// Every call returns a new, independent subtree. An empty profile gives a
// cabinet with two empty trails.
func (a *Assembler) Assemble(ctx context.Context, p *Profile) (*scene.Node, Stats, error) {
	var stats Stats
	if p == nil {
		return nil, stats, errors.New(errors.ErrCodeInvalidInput, "nil profile")
	}
	if err := a.Templates.Validate(); err != nil {
		return nil, stats, err
	}

	cabinetHeight := scene.Measure(a.Templates.Cabinet).Y
	unit := scene.Measure(a.Templates.Device)

	var trails [mountSides]*scene.Node
	trails[Front] = NewTrail(TrailFront, TrailWidth, cabinetHeight, unit)
	trails[Back] = NewTrail(TrailBack, TrailWidth, cabinetHeight, unit)

	hooks := observability.Layout()
	fill := a.fillRatio()
	for i, d := range p.All() {
		if fill < 1 && a.random().Float64() >= fill {
			stats.Skipped++
			hooks.OnDeviceSkipped(ctx, i, d.RackPosition)
			continue
		}

		pair, ok, err := deviceTextures(a.Textures, d, a.Options.StrictTextures)
		if err != nil {
			return nil, stats, err
		}
		if !ok {
			stats.MissingTextures++
			hooks.OnTextureMissing(ctx, SizeKey(d.HeightUnits))
		}

		device := newDevice(unit, pair, d)
		device.Pose.Pos.Z = -DepthOffset(d.DepthScale, unit.Z)
		device.Pose.Pos.Y = VerticalOffset(cabinetHeight, d.RackPosition, d.HeightUnits)
		if err := trails[d.MountSide].Add(device); err != nil {
			return nil, stats, errors.Wrap(errors.ErrCodeInternal, err, "attach %s", d.Label())
		}
		stats.Placed++
	}

	trails[Back].Pose.RotateY(math.Pi)

	cabinet := a.Templates.Cabinet.Clone()
	cabinet.Name = TemplateCabinet
	cabinet.SetTag("profile", p.Name())
	scene.EachMaterial(cabinet, func(m *scene.Material) {
		m.Transparent = true
		m.Opacity = CabinetOpacity
	})
	cabinet.Pose.SetScalar(CabinetShrink)
	cabinet.Pose.LookAt(Facing)

	for _, t := range trails {
		if err := cabinet.Add(t); err != nil {
			return nil, stats, errors.Wrap(errors.ErrCodeInternal, err, "attach %s", t.Name)
		}
	}

	stats.Cabinets = 1
	hooks.OnCabinetAssembled(ctx, stats.Placed, stats.Skipped)
	return cabinet, stats, nil
}

// Trail returns the trail of a cabinet built by [Assembler.Assemble].
func Trail(cabinet *scene.Node, side MountSide) *scene.Node {
	switch side {
	case Front:
		return cabinet.Find(TrailFront)
	case Back:
		return cabinet.Find(TrailBack)
	default:
		return nil
	}
}
