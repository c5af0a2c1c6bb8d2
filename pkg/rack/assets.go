package rack

import (
	"github.com/matzehuels/rackscape/pkg/errors"
	"github.com/matzehuels/rackscape/pkg/scene"
)

// Template names used by asset manifests.
const (
	TemplateCabinet = "cabinet"
	TemplateDevice  = "device"
	TemplateTile    = "tile"
)

// Templates holds the loaded model templates. Templates are only measured
// and cloned; layout never modifies them.
type Templates struct {
	Cabinet *scene.Node
	Device  *scene.Node
	Tile    *scene.Node
}

// Validate checks that the cabinet and device templates are present and
// have usable extents. The tile template is only needed for floors.
func (t Templates) Validate() error {
	if t.Cabinet == nil {
		return errors.New(errors.ErrCodeInvalidTemplate, "missing %s template", TemplateCabinet)
	}
	if t.Device == nil {
		return errors.New(errors.ErrCodeInvalidTemplate, "missing %s template", TemplateDevice)
	}
	if h := scene.Measure(t.Cabinet).Y; !(h > 0) {
		return errors.New(errors.ErrCodeInvalidTemplate, "%s template has zero height", TemplateCabinet)
	}
	if s := scene.Measure(t.Device); !(s.X > 0 && s.Y > 0 && s.Z > 0) {
		return errors.New(errors.ErrCodeInvalidTemplate, "%s template has empty extents %v", TemplateDevice, s)
	}
	return nil
}

// TexturePair holds the end-face images of one device size.
type TexturePair struct {
	Front *scene.Texture
	Back  *scene.Texture
}

// TextureSet maps a size key (see [SizeKey]) to its texture pair.
type TextureSet map[string]TexturePair

// Lookup returns the pair for a device u units tall.
func (ts TextureSet) Lookup(u int) (TexturePair, bool) {
	p, ok := ts[SizeKey(u)]
	return p, ok
}

// Missing returns the standard sizes without a complete texture pair.
func (ts TextureSet) Missing() []int {
	var out []int
	for _, u := range StandardSizes {
		if p, ok := ts.Lookup(u); !ok || p.Front == nil || p.Back == nil {
			out = append(out, u)
		}
	}
	return out
}
