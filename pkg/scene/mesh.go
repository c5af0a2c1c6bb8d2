package scene

// Box face indices in material order.
const (
	FacePosX = iota
	FaceNegX
	FacePosY
	FaceNegY
	FacePosZ
	FaceNegZ
	FaceCount
)

// Box is box geometry centred on the local origin.
type Box struct {
	Width, Height, Depth float64
}

// Size returns the box extents as a vector.
func (b Box) Size() Vec3 { return Vec3{b.Width, b.Height, b.Depth} }

// Texture is an image bound to a material. Textures are immutable once
// loaded and may be shared between materials.
type Texture struct {
	Key    string // U-size key, e.g. "10u"
	Side   string // "front" or "back"
	Path   string
	Width  int
	Height int
}

// Material describes the surface of a mesh or of one mesh face.
type Material struct {
	Color       string
	Texture     *Texture
	Transparent bool
	Opacity     float64
}

// NewMaterial returns an opaque material of the given colour.
func NewMaterial(color string) *Material {
	return &Material{Color: color, Opacity: 1}
}

// NewTextureMaterial returns an opaque white material mapped with tex.
func NewTextureMaterial(tex *Texture) *Material {
	return &Material{Color: "white", Texture: tex, Opacity: 1}
}

// Clone returns a copy of m. The texture pointer is shared.
func (m *Material) Clone() *Material {
	c := *m
	return &c
}

// Mesh is box geometry with either one material for all faces or one
// material per face (see FacePosX...FaceNegZ).
type Mesh struct {
	Geometry  Box
	Materials []*Material
}

// Bounds returns the local bounding box of the geometry.
func (m *Mesh) Bounds() Box3 { return BoxFromSize(m.Geometry.Size()) }

// Material returns the material used for face, or nil if the mesh has none.
func (m *Mesh) Material(face int) *Material {
	switch {
	case len(m.Materials) == 0:
		return nil
	case len(m.Materials) == 1:
		return m.Materials[0]
	case face >= 0 && face < len(m.Materials):
		return m.Materials[face]
	default:
		return nil
	}
}

// Clone returns a deep copy of the mesh; materials are cloned.
func (m *Mesh) Clone() *Mesh {
	c := &Mesh{Geometry: m.Geometry, Materials: make([]*Material, len(m.Materials))}
	for i, mat := range m.Materials {
		c.Materials[i] = mat.Clone()
	}
	return c
}
