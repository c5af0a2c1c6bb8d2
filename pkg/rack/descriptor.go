package rack

import (
	"cmp"
	"fmt"
	"iter"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/matzehuels/rackscape/pkg/errors"
)

// MountSide selects the rail pair a device is attached to.
type MountSide int

const (
	Front MountSide = iota
	Back
)

// mountSides is the number of MountSide values; trails are indexed by side.
const mountSides = 2

func (s MountSide) String() string {
	switch s {
	case Front:
		return "front"
	case Back:
		return "back"
	default:
		return fmt.Sprintf("MountSide(%d)", int(s))
	}
}

// Valid reports whether s is Front or Back.
func (s MountSide) Valid() bool { return s == Front || s == Back }

// ParseMountSide parses "front" or "back", ignoring case.
func ParseMountSide(s string) (MountSide, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "front":
		return Front, nil
	case "back":
		return Back, nil
	default:
		return 0, errors.New(errors.ErrCodeInvalidDescriptor, "unknown mount side %q (expected front or back)", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s MountSide) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidDescriptor, "invalid mount side %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *MountSide) UnmarshalText(b []byte) error {
	v, err := ParseMountSide(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// StandardSizes lists the device heights, in rack units, that have textures.
var StandardSizes = []int{1, 2, 4, 8, 10, 12, 14, 16}

// IsStandardSize reports whether u is one of [StandardSizes].
func IsStandardSize(u int) bool { return slices.Contains(StandardSizes, u) }

// SizeKey returns the texture key for a device u units tall, e.g. "10u".
func SizeKey(u int) string { return fmt.Sprintf("%du", u) }

// RandomSize picks one of [StandardSizes] uniformly.
func RandomSize(rng *rand.Rand) int {
	return StandardSizes[rng.IntN(len(StandardSizes))]
}

// Descriptor is a request to mount one device.
//
// A device occupies units RackPosition-HeightUnits+1 through RackPosition,
// counted from 1 at the bottom of the cabinet.
type Descriptor struct {
	Name         string    `toml:"name,omitempty" json:"name,omitempty"`
	HeightUnits  int       `toml:"height_units" json:"height_units"`
	DepthScale   float64   `toml:"depth_scale" json:"depth_scale"`
	RackPosition int       `toml:"rack_position" json:"rack_position"`
	MountSide    MountSide `toml:"mount_side" json:"mount_side"`
}

// Slots returns the lowest and highest unit occupied by the device.
func (d Descriptor) Slots() (lo, hi int) {
	return d.RackPosition - d.HeightUnits + 1, d.RackPosition
}

// Label returns the name of the device, or a generated one.
func (d Descriptor) Label() string {
	if d.Name != "" {
		return d.Name
	}
	return fmt.Sprintf("%s-%s-u%d", SizeKey(d.HeightUnits), d.MountSide, d.RackPosition)
}

// Validate checks a single descriptor in isolation.
func (d Descriptor) Validate() error {
	if !IsStandardSize(d.HeightUnits) {
		return errors.New(errors.ErrCodeInvalidDescriptor,
			"%s: height %dU is not a standard size %v", d.Label(), d.HeightUnits, StandardSizes)
	}
	if !(d.DepthScale > 0 && d.DepthScale <= 1) {
		return errors.New(errors.ErrCodeInvalidDescriptor,
			"%s: depth scale %v outside (0, 1]", d.Label(), d.DepthScale)
	}
	if lo, hi := d.Slots(); lo < 1 || hi > RackUnits {
		return errors.New(errors.ErrCodeInvalidDescriptor,
			"%s: units %d-%d outside the cabinet (1-%d)", d.Label(), lo, hi, RackUnits)
	}
	if !d.MountSide.Valid() {
		return errors.New(errors.ErrCodeInvalidDescriptor,
			"%s: invalid mount side %d", d.Label(), int(d.MountSide))
	}
	return nil
}

// Profile is a validated, immutable table of descriptors. Profiles are
// passed to the assembler explicitly so different cabinet populations can
// be laid out side by side.
type Profile struct {
	name        string
	descriptors []Descriptor
}

// NewProfile validates ds and returns a profile holding a copy of it.
// Devices on the same mount side must not share a unit.
func NewProfile(name string, ds []Descriptor) (*Profile, error) {
	if err := errors.ValidateProfileName(name); err != nil {
		return nil, err
	}
	for _, d := range ds {
		if err := d.Validate(); err != nil {
			return nil, err
		}
	}
	if err := checkOverlaps(ds); err != nil {
		return nil, err
	}
	return &Profile{name: name, descriptors: slices.Clone(ds)}, nil
}

// MustProfile is like NewProfile but panics on error. It is meant for
// built-in tables.
func MustProfile(name string, ds []Descriptor) *Profile {
	p, err := NewProfile(name, ds)
	if err != nil {
		panic(err)
	}
	return p
}

func checkOverlaps(ds []Descriptor) error {
	for side := range MountSide(mountSides) {
		var onSide []Descriptor
		for _, d := range ds {
			if d.MountSide == side {
				onSide = append(onSide, d)
			}
		}
		slices.SortFunc(onSide, func(a, b Descriptor) int {
			alo, _ := a.Slots()
			blo, _ := b.Slots()
			return cmp.Compare(alo, blo)
		})
		for i := 1; i < len(onSide); i++ {
			prev, cur := onSide[i-1], onSide[i]
			_, prevHi := prev.Slots()
			curLo, _ := cur.Slots()
			if curLo <= prevHi {
				return errors.New(errors.ErrCodeOverlap,
					"%s and %s both occupy %s unit %d", prev.Label(), cur.Label(), side, curLo)
			}
		}
	}
	return nil
}

// Name returns the profile name.
func (p *Profile) Name() string { return p.name }

// Len returns the number of descriptors.
func (p *Profile) Len() int { return len(p.descriptors) }

// At returns the i-th descriptor.
func (p *Profile) At(i int) Descriptor { return p.descriptors[i] }

// Descriptors returns a copy of the table.
func (p *Profile) Descriptors() []Descriptor { return slices.Clone(p.descriptors) }

// All iterates over the table in authoring order.
func (p *Profile) All() iter.Seq2[int, Descriptor] {
	return func(yield func(int, Descriptor) bool) {
		for i, d := range p.descriptors {
			if !yield(i, d) {
				return
			}
		}
	}
}

// Units returns the number of occupied units on side.
func (p *Profile) Units(side MountSide) int {
	total := 0
	for _, d := range p.descriptors {
		if d.MountSide == side {
			total += d.HeightUnits
		}
	}
	return total
}
