package profile

import (
	"bytes"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/rackscape/pkg/errors"
	"github.com/matzehuels/rackscape/pkg/rack"
)

func TestReference(t *testing.T) {
	p := Reference()
	if p.Len() != 14 {
		t.Fatalf("Len() = %d, want 14", p.Len())
	}
	if got := p.At(0); got != (rack.Descriptor{HeightUnits: 10, DepthScale: 1, RackPosition: 10, MountSide: rack.Front}) {
		t.Errorf("At(0) = %+v", got)
	}
	if got := p.Units(rack.Front); got != 30 {
		t.Errorf("Units(Front) = %d, want 30", got)
	}
	if got := p.Units(rack.Back); got != 6 {
		t.Errorf("Units(Back) = %d, want 6", got)
	}
}

func TestBuiltin(t *testing.T) {
	if diff := cmp.Diff([]string{"empty", "reference"}, Names()); diff != "" {
		t.Errorf("Names() (-want +got):\n%s", diff)
	}
	if p, ok := Builtin("empty"); !ok || p.Len() != 0 {
		t.Errorf("Builtin(empty) = %v, %v", p, ok)
	}
	if _, ok := Builtin("missing"); ok {
		t.Error("Builtin(missing) ok = true")
	}
}

func TestReadTOML(t *testing.T) {
	src := `
name = "hall-a"

[[device]]
name = "core-switch"
height_units = 2
depth_scale = 0.8
rack_position = 26
mount_side = "front"

[[device]]
height_units = 1
depth_scale = 0.4
rack_position = 26
mount_side = "back"
`
	p, err := Read(strings.NewReader(src), FormatTOML)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	want := []rack.Descriptor{
		{Name: "core-switch", HeightUnits: 2, DepthScale: 0.8, RackPosition: 26, MountSide: rack.Front},
		{HeightUnits: 1, DepthScale: 0.4, RackPosition: 26, MountSide: rack.Back},
	}
	if p.Name() != "hall-a" {
		t.Errorf("Name() = %q, want hall-a", p.Name())
	}
	if diff := cmp.Diff(want, p.Descriptors()); diff != "" {
		t.Errorf("Descriptors() (-want +got):\n%s", diff)
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		format Format
		code   errors.Code
	}{
		{"bad toml", "name = ", FormatTOML, errors.ErrCodeInvalidFormat},
		{"unknown key", "name = \"a\"\ncolour = \"red\"", FormatTOML, errors.ErrCodeInvalidFormat},
		{"bad side", "name = \"a\"\n[[device]]\nheight_units = 1\ndepth_scale = 1.0\nrack_position = 1\nmount_side = \"top\"", FormatTOML, errors.ErrCodeInvalidFormat},
		{"overlap", `{"name":"a","devices":[
			{"height_units":2,"depth_scale":1,"rack_position":2,"mount_side":"front"},
			{"height_units":1,"depth_scale":1,"rack_position":2,"mount_side":"front"}]}`, FormatJSON, errors.ErrCodeOverlap},
		{"unknown field", `{"name":"a","racks":[]}`, FormatJSON, errors.ErrCodeInvalidFormat},
		{"bad format", "", Format("yaml"), errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.src), tt.format)
			if !errors.Is(err, tt.code) {
				t.Errorf("Read() error = %v, want %v", err, tt.code)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatTOML, FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Write(&buf, Reference(), format); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			got, err := Read(&buf, format)
			if err != nil {
				t.Fatalf("Read() error = %v\n%s", err, buf.String())
			}
			if diff := cmp.Diff(Reference().Descriptors(), got.Descriptors()); diff != "" {
				t.Errorf("round trip (-want +got):\n%s", diff)
			}
		})
	}
}

func TestImportExport(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"ref.toml", "ref.json"} {
		path := filepath.Join(dir, name)
		if err := Export(Reference(), path); err != nil {
			t.Fatalf("Export(%s) error = %v", name, err)
		}
		p, err := Resolve(path)
		if err != nil {
			t.Fatalf("Resolve(%s) error = %v", name, err)
		}
		if p.Len() != Reference().Len() {
			t.Errorf("Resolve(%s).Len() = %d", name, p.Len())
		}
	}

	if _, err := Import(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Import(missing) error = %v, want %v", err, errors.ErrCodeNotFound)
	}
	if _, err := Resolve("nope"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Resolve(nope) error = %v, want %v", err, errors.ErrCodeNotFound)
	}
	if err := Export(Reference(), filepath.Join(dir, "ref.yaml")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Export(yaml) error = %v, want %v", err, errors.ErrCodeInvalidFormat)
	}
}

// failingFile is a file whose Close fails with err.
type failingFile struct {
	bytes.Buffer
	err    error
	closed bool
}

func (f *failingFile) Close() error {
	f.closed = true
	return f.err
}

func TestWriteAndClose(t *testing.T) {
	errClose := errors.New(errors.ErrCodeInternal, "disk full")

	f := &failingFile{err: errClose}
	if err := writeAndClose(f, Reference(), FormatJSON); !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("writeAndClose() error = %v, want the close error", err)
	}
	if !f.closed || f.Len() == 0 {
		t.Errorf("closed = %v with %d bytes written", f.closed, f.Len())
	}

	// A write error wins over the close error.
	f = &failingFile{err: errClose}
	err := writeAndClose(f, Reference(), Format("yaml"))
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("writeAndClose(yaml) error = %v, want %v", err, errors.ErrCodeInvalidFormat)
	}
	if !f.closed {
		t.Error("file left open after a write error")
	}

	if err := writeAndClose(&failingFile{}, Reference(), FormatTOML); err != nil {
		t.Errorf("writeAndClose() error = %v", err)
	}
}

func TestRandom(t *testing.T) {
	for seed := range uint64(20) {
		rng := rand.New(rand.NewPCG(seed, seed))
		p, err := Random("random", rng, RandomOptions{Gap: 0.2, Back: true})
		if err != nil {
			t.Fatalf("Random(seed=%d) error = %v", seed, err)
		}
		if p.Units(rack.Front) > rack.RackUnits || p.Units(rack.Back) > rack.RackUnits {
			t.Errorf("Random(seed=%d) overfilled: %d/%d", seed, p.Units(rack.Front), p.Units(rack.Back))
		}
	}

	a, _ := Random("r", rand.New(rand.NewPCG(1, 1)), RandomOptions{Units: 20})
	b, _ := Random("r", rand.New(rand.NewPCG(1, 1)), RandomOptions{Units: 20})
	if diff := cmp.Diff(a.Descriptors(), b.Descriptors()); diff != "" {
		t.Errorf("same seed differs:\n%s", diff)
	}
	if a.Units(rack.Front) != 20 {
		t.Errorf("Units(Front) = %d, want 20 with no gaps", a.Units(rack.Front))
	}
	if a.Units(rack.Back) != 0 {
		t.Errorf("Units(Back) = %d, want 0", a.Units(rack.Back))
	}
}

func TestExampleProfiles(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "..", "examples", "profiles", "*.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Skip("no example profiles")
	}
	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			p, err := Import(path)
			if err != nil {
				t.Fatalf("Import() error: %v", err)
			}
			if p.Len() == 0 {
				t.Error("example profile has no devices")
			}
		})
	}
}
