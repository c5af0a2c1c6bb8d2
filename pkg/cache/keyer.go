package cache

// Keyer builds cache keys for pipeline stages.
type Keyer interface {
	// LayoutKey identifies a laid-out scene.
	LayoutKey(inputHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies a rendered artifact of a scene.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the layout options that change the scene.
type LayoutKeyOpts struct {
	Profile        string  `json:"profile"`
	FillRatio      float64 `json:"fill_ratio"`
	Seed           uint64  `json:"seed"`
	Cabinets       int     `json:"cabinets"`
	Spacing        float64 `json:"spacing"`
	Separation     float64 `json:"separation"`
	Floor          bool    `json:"floor"`
	Palette        bool    `json:"palette,omitempty"`
	StrictTextures bool    `json:"strict_textures"`
}

// ArtifactKeyOpts are the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Title    string  `json:"title,omitempty"`
	Detailed bool    `json:"detailed,omitempty"`
	MaxDepth int     `json:"max_depth,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
}

// DefaultKeyer produces keys of the form "<stage>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements [Keyer].
func (DefaultKeyer) LayoutKey(inputHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", inputHash, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
