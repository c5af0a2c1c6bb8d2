package rack

import (
	"strconv"

	"github.com/matzehuels/rackscape/pkg/errors"
	"github.com/matzehuels/rackscape/pkg/scene"
)

// SideColor is the colour of the four untextured device faces.
const SideColor = "lightgray"

// Tags set on device nodes.
const (
	TagHeightUnits  = "height_units"
	TagRackPosition = "rack_position"
	TagMountSide    = "mount_side"
)

// NewDevice builds the box mesh for d, sized from the measured device
// template: the template's width, its height times d.HeightUnits and its
// depth times d.DepthScale. The -Z face shows the front texture and the +Z
// face the back texture of the device's size.
//
// When textures has no pair for the size, the end faces are left plain; if
// strict is set an ErrCodeMissingTexture error is returned instead.
func NewDevice(template *scene.Node, textures TextureSet, d Descriptor, strict bool) (*scene.Node, error) {
	if template == nil {
		return nil, errors.New(errors.ErrCodeInvalidTemplate, "missing %s template", TemplateDevice)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	pair, _, err := deviceTextures(textures, d, strict)
	if err != nil {
		return nil, err
	}
	return newDevice(scene.Measure(template), pair, d), nil
}

// deviceTextures looks up the texture pair for d. ok is false when the size
// has no pair; with strict set that is an ErrCodeMissingTexture error.
func deviceTextures(textures TextureSet, d Descriptor, strict bool) (pair TexturePair, ok bool, err error) {
	pair, ok = textures.Lookup(d.HeightUnits)
	if !ok && strict {
		return pair, false, errors.New(errors.ErrCodeMissingTexture,
			"%s: no textures for %s", d.Label(), SizeKey(d.HeightUnits))
	}
	return pair, ok, nil
}

// newDevice builds the mesh from an already measured unit size.
func newDevice(unit scene.Vec3, pair TexturePair, d Descriptor) *scene.Node {
	mats := make([]*scene.Material, scene.FaceCount)
	for i := range mats {
		mats[i] = scene.NewMaterial(SideColor)
	}
	if pair.Back != nil {
		mats[scene.FacePosZ] = scene.NewTextureMaterial(pair.Back)
	}
	if pair.Front != nil {
		mats[scene.FaceNegZ] = scene.NewTextureMaterial(pair.Front)
	}

	n := scene.NewMesh(d.Label(), &scene.Mesh{
		Geometry: scene.Box{
			Width:  unit.X,
			Height: unit.Y * float64(d.HeightUnits),
			Depth:  unit.Z * d.DepthScale,
		},
		Materials: mats,
	})
	n.SetTag(TagHeightUnits, strconv.Itoa(d.HeightUnits))
	n.SetTag(TagRackPosition, strconv.Itoa(d.RackPosition))
	n.SetTag(TagMountSide, d.MountSide.String())
	return n
}
