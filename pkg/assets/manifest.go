package assets

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/rackscape/pkg/errors"
	"github.com/matzehuels/rackscape/pkg/rack"
)

// DefaultTexturePattern is the texture path pattern relative to the root.
const DefaultTexturePattern = "image/{key}_{side}.png"

// Model describes one template. Exactly one of Path and Box is set.
type Model struct {
	Path  string    `toml:"path,omitempty"`
	Box   []float64 `toml:"box,omitempty"`
	Color string    `toml:"color,omitempty"`
}

// Textures describes where the per-size texture pairs live.
type Textures struct {
	Pattern string `toml:"pattern,omitempty"`
	Sizes   []int  `toml:"sizes,omitempty"`
}

// Manifest lists the assets of a hall.
type Manifest struct {
	// Root is the directory paths are relative to. A relative root is
	// resolved against the manifest's own directory.
	Root string `toml:"root"`

	Templates map[string]Model `toml:"templates"`
	Textures  Textures         `toml:"textures"`

	// source is the file the manifest was read from, if any.
	source string
}

// DefaultManifest returns the conventional layout under root.
func DefaultManifest(root string) *Manifest {
	m := &Manifest{
		Root:      root,
		Templates: map[string]Model{},
		Textures:  Textures{Pattern: DefaultTexturePattern},
	}
	for _, name := range []string{rack.TemplateCabinet, rack.TemplateDevice, rack.TemplateTile} {
		m.Templates[name] = Model{Path: "model/" + name + ".glb"}
	}
	return m
}

// ReadManifest reads and validates a manifest file.
func ReadManifest(path string) (*Manifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "read manifest %s", path)
	}
	var m Manifest
	md, err := toml.Decode(string(b), &m)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode %s", path)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidManifest, "%s: unknown key %q", path, undec[0].String())
	}
	m.source = path
	if !filepath.IsAbs(m.Root) {
		m.Root = filepath.Join(filepath.Dir(path), m.Root)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Source returns the file the manifest was read from, or "" for manifests
// built in code.
func (m *Manifest) Source() string { return m.source }

// Validate checks template definitions and paths.
func (m *Manifest) Validate() error {
	for _, name := range []string{rack.TemplateCabinet, rack.TemplateDevice} {
		if _, ok := m.Templates[name]; !ok {
			return errors.New(errors.ErrCodeInvalidManifest, "missing template %q", name)
		}
	}
	for name, model := range m.Templates {
		switch name {
		case rack.TemplateCabinet, rack.TemplateDevice, rack.TemplateTile:
		default:
			return errors.New(errors.ErrCodeInvalidManifest, "unknown template %q", name)
		}
		if err := model.validate(name); err != nil {
			return err
		}
	}
	p := m.pattern()
	if !strings.Contains(p, "{key}") || !strings.Contains(p, "{side}") {
		return errors.New(errors.ErrCodeInvalidManifest, "texture pattern %q needs {key} and {side}", p)
	}
	if err := errors.ValidatePath(m.TexturePath(1, rack.Front)); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidManifest, err, "texture pattern %q", p)
	}
	for _, u := range m.Textures.Sizes {
		if !rack.IsStandardSize(u) {
			return errors.New(errors.ErrCodeInvalidManifest, "texture size %dU is not a standard size", u)
		}
	}
	return nil
}

func (model Model) validate(name string) error {
	switch {
	case model.Path != "" && model.Box != nil:
		return errors.New(errors.ErrCodeInvalidManifest, "template %q sets both path and box", name)
	case model.Path != "":
		if err := errors.ValidatePath(model.Path); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidManifest, err, "template %q", name)
		}
	case model.Box != nil:
		if len(model.Box) != 3 {
			return errors.New(errors.ErrCodeInvalidManifest, "template %q box needs 3 values, got %d", name, len(model.Box))
		}
		for _, v := range model.Box {
			if !(v >= 0) {
				return errors.New(errors.ErrCodeInvalidManifest, "template %q box has negative size", name)
			}
		}
	default:
		return errors.New(errors.ErrCodeInvalidManifest, "template %q needs a path or a box", name)
	}
	if model.Color != "" {
		if err := errors.ValidateColor(model.Color); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidManifest, err, "template %q", name)
		}
	}
	return nil
}

func (m *Manifest) pattern() string {
	if m.Textures.Pattern == "" {
		return DefaultTexturePattern
	}
	return m.Textures.Pattern
}

func (m *Manifest) sizes() []int {
	if len(m.Textures.Sizes) == 0 {
		return rack.StandardSizes
	}
	return m.Textures.Sizes
}

// TexturePath returns the path of a texture relative to the root.
func (m *Manifest) TexturePath(u int, side rack.MountSide) string {
	return strings.NewReplacer("{key}", rack.SizeKey(u), "{side}", side.String()).Replace(m.pattern())
}

// resolve joins a relative asset path to the root.
func (m *Manifest) resolve(rel string) string {
	return filepath.Join(m.Root, filepath.FromSlash(rel))
}
