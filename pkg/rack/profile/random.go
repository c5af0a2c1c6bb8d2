package profile

import (
	"math/rand/v2"

	"github.com/matzehuels/rackscape/pkg/rack"
)

// depthScales are the depth fractions used for generated devices.
var depthScales = []float64{0.4, 0.6, 0.8, 0.9, 1}

// RandomOptions control [Random].
type RandomOptions struct {
	// Units caps the number of units filled per side. Zero means the
	// whole cabinet.
	Units int

	// Gap is the probability of leaving a unit empty before each device.
	Gap float64

	// Back also populates the back rails.
	Back bool
}

// Random generates a valid profile by stacking devices of random standard
// sizes from the bottom of the cabinet upward.
func Random(name string, rng *rand.Rand, opts RandomOptions) (*rack.Profile, error) {
	limit := opts.Units
	if limit <= 0 || limit > rack.RackUnits {
		limit = rack.RackUnits
	}

	sides := []rack.MountSide{rack.Front}
	if opts.Back {
		sides = append(sides, rack.Back)
	}

	var ds []rack.Descriptor
	for _, side := range sides {
		next := 1
		for next <= limit {
			if rng.Float64() < opts.Gap {
				next++
				continue
			}
			u := rack.RandomSize(rng)
			if next+u-1 > limit {
				u = largestFitting(limit - next + 1)
				if u == 0 {
					break
				}
			}
			ds = append(ds, rack.Descriptor{
				HeightUnits:  u,
				DepthScale:   depthScales[rng.IntN(len(depthScales))],
				RackPosition: next + u - 1,
				MountSide:    side,
			})
			next += u
		}
	}
	return rack.NewProfile(name, ds)
}

// largestFitting returns the largest standard size not above free.
func largestFitting(free int) int {
	best := 0
	for _, u := range rack.StandardSizes {
		if u <= free {
			best = u
		}
	}
	return best
}
