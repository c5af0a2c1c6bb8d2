package assets

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/rackscape/pkg/errors"
	"github.com/matzehuels/rackscape/pkg/rack"
	"github.com/matzehuels/rackscape/pkg/scene"
)

// writeTextures creates a PNG for every standard size and side under root.
func writeTextures(t *testing.T, m *Manifest) {
	t.Helper()
	for _, u := range rack.StandardSizes {
		for _, side := range []rack.MountSide{rack.Front, rack.Back} {
			path := m.resolve(m.TexturePath(u, side))
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				t.Fatal(err)
			}
			f, err := os.Create(path)
			if err != nil {
				t.Fatal(err)
			}
			if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 64, 8*u))); err != nil {
				t.Fatal(err)
			}
			f.Close()
		}
	}
}

func boxManifest(root string) *Manifest {
	return &Manifest{
		Root: root,
		Templates: map[string]Model{
			rack.TemplateCabinet: {Box: []float64{0.6, 2, 1}, Color: "black"},
			rack.TemplateDevice:  {Box: []float64{0.5, 0.04, 0.8}},
			rack.TemplateTile:    {Box: []float64{2, 0.2, 2}},
		},
	}
}

func TestLoad(t *testing.T) {
	m := boxManifest(t.TempDir())
	writeTextures(t, m)

	set, err := Load(context.Background(), m)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := scene.Measure(set.Templates.Cabinet); got != (scene.Vec3{X: 0.6, Y: 2, Z: 1}) {
		t.Errorf("cabinet size = %v", got)
	}
	if got := set.Templates.Device.Mesh.Material(0).Color; got != DefaultColor {
		t.Errorf("device color = %q, want %q", got, DefaultColor)
	}
	if missing := set.Textures.Missing(); len(missing) != 0 {
		t.Errorf("Missing() = %v, want none", missing)
	}
	pair, ok := set.Textures.Lookup(10)
	if !ok || pair.Front.Path != "image/10u_front.png" || pair.Back.Side != "back" {
		t.Errorf("Lookup(10) = %+v, %v", pair, ok)
	}
	if pair.Front.Width != 64 || pair.Front.Height != 80 {
		t.Errorf("10u texture size = %dx%d, want 64x80", pair.Front.Width, pair.Front.Height)
	}
	if got, want := set.Count(), 3+2*len(rack.StandardSizes); got != want {
		t.Errorf("Count() = %d, want %d", got, want)
	}
}

func TestLoadFailsFast(t *testing.T) {
	m := boxManifest(t.TempDir())
	writeTextures(t, m)
	if err := os.Remove(m.resolve(m.TexturePath(4, rack.Back))); err != nil {
		t.Fatal(err)
	}

	set, err := Load(context.Background(), m)
	if !errors.Is(err, errors.ErrCodeMissingAsset) {
		t.Fatalf("Load() error = %v, want %v", err, errors.ErrCodeMissingAsset)
	}
	if set != nil {
		t.Error("Load() returned a partial set")
	}
}

func TestLoadMissingModel(t *testing.T) {
	m := boxManifest(t.TempDir())
	m.Textures.Sizes = []int{1}
	writeTextures(t, m)
	m.Templates[rack.TemplateCabinet] = Model{Path: "model/cabinet.glb"}

	if _, err := Load(context.Background(), m); !errors.Is(err, errors.ErrCodeMissingAsset) {
		t.Errorf("Load() error = %v, want %v", err, errors.ErrCodeMissingAsset)
	}
}

func TestLoadCorruptTexture(t *testing.T) {
	m := boxManifest(t.TempDir())
	m.Textures.Sizes = []int{1}
	writeTextures(t, m)
	if err := os.WriteFile(m.resolve(m.TexturePath(1, rack.Front)), []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(context.Background(), m); !errors.Is(err, errors.ErrCodeMissingAsset) {
		t.Errorf("Load() error = %v, want %v", err, errors.ErrCodeMissingAsset)
	}
}

func TestLoadCancelled(t *testing.T) {
	m := boxManifest(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Load(ctx, m); err == nil {
		t.Error("Load() with cancelled context error = nil")
	}
}

func TestDefaultManifest(t *testing.T) {
	m := DefaultManifest("asset")
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got := m.Templates[rack.TemplateDevice].Path; got != "model/device.glb" {
		t.Errorf("device path = %q", got)
	}
	if got := m.TexturePath(16, rack.Back); got != "image/16u_back.png" {
		t.Errorf("TexturePath(16, back) = %q", got)
	}
	if got := m.resolve("model/tile.glb"); got != filepath.Join("asset", "model", "tile.glb") {
		t.Errorf("resolve() = %q", got)
	}
}

func TestReadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hall.toml")
	src := `
root = "assets"

[templates.cabinet]
box = [0.6, 2.0, 1.0]
color = "#333333"

[templates.device]
path = "model/device.glb"

[textures]
pattern = "tex/{key}-{side}.png"
sizes = [1, 2]
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := ReadManifest(path)
	if err != nil {
		t.Fatalf("ReadManifest() error = %v", err)
	}
	if m.Root != filepath.Join(dir, "assets") {
		t.Errorf("Root = %q, want %q", m.Root, filepath.Join(dir, "assets"))
	}
	if m.Source() != path {
		t.Errorf("Source() = %q", m.Source())
	}
	if got := m.TexturePath(2, rack.Front); got != "tex/2u-front.png" {
		t.Errorf("TexturePath() = %q", got)
	}
}

func TestManifestValidate(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Manifest)
	}{
		{"missing device", func(m *Manifest) { delete(m.Templates, rack.TemplateDevice) }},
		{"unknown template", func(m *Manifest) { m.Templates["door"] = Model{Box: []float64{1, 1, 1}} }},
		{"both path and box", func(m *Manifest) { m.Templates[rack.TemplateTile] = Model{Path: "a.glb", Box: []float64{1, 1, 1}} }},
		{"neither", func(m *Manifest) { m.Templates[rack.TemplateTile] = Model{} }},
		{"short box", func(m *Manifest) { m.Templates[rack.TemplateTile] = Model{Box: []float64{1, 1}} }},
		{"negative box", func(m *Manifest) { m.Templates[rack.TemplateTile] = Model{Box: []float64{1, -1, 1}} }},
		{"traversal", func(m *Manifest) { m.Templates[rack.TemplateTile] = Model{Path: "../tile.glb"} }},
		{"bad color", func(m *Manifest) { m.Templates[rack.TemplateTile] = Model{Box: []float64{1, 1, 1}, Color: "#12"} }},
		{"pattern without side", func(m *Manifest) { m.Textures.Pattern = "image/{key}.png" }},
		{"absolute pattern", func(m *Manifest) { m.Textures.Pattern = "/img/{key}_{side}.png" }},
		{"odd size", func(m *Manifest) { m.Textures.Sizes = []int{3} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := boxManifest("root")
			tt.mod(m)
			if err := m.Validate(); !errors.Is(err, errors.ErrCodeInvalidManifest) {
				t.Errorf("Validate() error = %v, want %v", err, errors.ErrCodeInvalidManifest)
			}
		})
	}
}
