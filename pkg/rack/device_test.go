package rack

import (
	"context"
	"testing"

	"github.com/matzehuels/rackscape/pkg/errors"
	"github.com/matzehuels/rackscape/pkg/scene"
)

func TestNewDeviceGeometry(t *testing.T) {
	tmpl := testTemplates().Device
	ts := testTextures()

	d := Descriptor{HeightUnits: 10, DepthScale: 1, RackPosition: 10}
	n, err := NewDevice(tmpl, ts, d, false)
	if err != nil {
		t.Fatalf("NewDevice() error = %v", err)
	}
	want := scene.Box{Width: deviceUnit.X, Height: 10 * deviceUnit.Y, Depth: deviceUnit.Z}
	if got := n.Mesh.Geometry; !approxVec(got.Size(), want.Size()) {
		t.Errorf("Geometry = %+v, want %+v", got, want)
	}

	t.Run("height scales with units", func(t *testing.T) {
		for _, pair := range [][2]int{{1, 2}, {2, 4}, {4, 8}} {
			a, _ := NewDevice(tmpl, ts, Descriptor{HeightUnits: pair[0], DepthScale: 0.5, RackPosition: 20}, false)
			b, _ := NewDevice(tmpl, ts, Descriptor{HeightUnits: pair[1], DepthScale: 0.5, RackPosition: 20}, false)
			ga, gb := a.Mesh.Geometry, b.Mesh.Geometry
			if !approx(gb.Height, 2*ga.Height) {
				t.Errorf("%dU height = %v, want twice %dU height %v", pair[1], gb.Height, pair[0], ga.Height)
			}
			if ga.Width != gb.Width || ga.Depth != gb.Depth {
				t.Errorf("width/depth changed with units: %+v vs %+v", ga, gb)
			}
		}
	})

	t.Run("depth scale", func(t *testing.T) {
		n, _ := NewDevice(tmpl, ts, Descriptor{HeightUnits: 1, DepthScale: 0.4, RackPosition: 28}, false)
		if got, want := n.Mesh.Geometry.Depth, 0.4*deviceUnit.Z; !approx(got, want) {
			t.Errorf("Depth = %v, want %v", got, want)
		}
	})
}

func TestNewDeviceMaterials(t *testing.T) {
	ts := testTextures()
	n, err := NewDevice(testTemplates().Device, ts, Descriptor{HeightUnits: 2, DepthScale: 1, RackPosition: 12}, false)
	if err != nil {
		t.Fatalf("NewDevice() error = %v", err)
	}
	if got := len(n.Mesh.Materials); got != scene.FaceCount {
		t.Fatalf("len(Materials) = %d, want %d", got, scene.FaceCount)
	}
	for _, f := range []int{scene.FacePosX, scene.FaceNegX, scene.FacePosY, scene.FaceNegY} {
		m := n.Mesh.Material(f)
		if m.Color != SideColor || m.Texture != nil {
			t.Errorf("face %d = %+v, want plain %s", f, m, SideColor)
		}
	}
	if got := n.Mesh.Material(scene.FaceNegZ).Texture; got != ts["2u"].Front {
		t.Errorf("-Z texture = %v, want front", got)
	}
	if got := n.Mesh.Material(scene.FacePosZ).Texture; got != ts["2u"].Back {
		t.Errorf("+Z texture = %v, want back", got)
	}
	if n.Tag(TagHeightUnits) != "2" || n.Tag(TagMountSide) != "front" || n.Tag(TagRackPosition) != "12" {
		t.Errorf("Tags = %v", n.Tags)
	}
}

func TestNewDeviceMissingTexture(t *testing.T) {
	ts := testTextures()
	delete(ts, "10u")
	d := Descriptor{HeightUnits: 10, DepthScale: 1, RackPosition: 10}

	n, err := NewDevice(testTemplates().Device, ts, d, false)
	if err != nil {
		t.Fatalf("NewDevice() error = %v", err)
	}
	for f := range scene.FaceCount {
		if m := n.Mesh.Material(f); m.Texture != nil {
			t.Errorf("face %d textured without a texture pair", f)
		}
	}

	_, err = NewDevice(testTemplates().Device, ts, d, true)
	if !errors.Is(err, errors.ErrCodeMissingTexture) {
		t.Errorf("NewDevice(strict) error = %v, want %v", err, errors.ErrCodeMissingTexture)
	}
}

func TestDeviceTextures(t *testing.T) {
	ts := testTextures()
	delete(ts, "10u")
	tests := []struct {
		name   string
		d      Descriptor
		strict bool
		ok     bool
		err    bool
	}{
		{"present", Descriptor{HeightUnits: 2, DepthScale: 1, RackPosition: 12}, true, true, false},
		{"missing", Descriptor{HeightUnits: 10, DepthScale: 1, RackPosition: 10}, false, false, false},
		{"missing strict", Descriptor{HeightUnits: 10, DepthScale: 1, RackPosition: 10}, true, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pair, ok, err := deviceTextures(ts, tt.d, tt.strict)
			if ok != tt.ok || (err != nil) != tt.err {
				t.Fatalf("deviceTextures() = _, %v, %v; want ok %v, error %v", ok, err, tt.ok, tt.err)
			}
			if ok && pair != ts[SizeKey(tt.d.HeightUnits)] {
				t.Errorf("pair = %+v", pair)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeMissingTexture) {
				t.Errorf("error = %v, want %v", err, errors.ErrCodeMissingTexture)
			}
		})
	}

	// NewDevice and Assemble report a missing pair the same way.
	d := tests[2].d
	_, devErr := NewDevice(testTemplates().Device, ts, d, true)
	asm := NewAssembler(testTemplates(), ts, Options{StrictTextures: true})
	_, _, asmErr := asm.Assemble(context.Background(), mustProfile(t, d))
	if devErr == nil || asmErr == nil || devErr.Error() != asmErr.Error() {
		t.Errorf("NewDevice() error %v, Assemble() error %v; want the same", devErr, asmErr)
	}
}

func TestNewDeviceLeavesTemplate(t *testing.T) {
	tmpl := testTemplates().Device
	before := *tmpl.Mesh
	if _, err := NewDevice(tmpl, testTextures(), Descriptor{HeightUnits: 16, DepthScale: 0.5, RackPosition: 30}, false); err != nil {
		t.Fatalf("NewDevice() error = %v", err)
	}
	if tmpl.Mesh.Geometry != before.Geometry || tmpl.Mesh.Materials[0].Color != "gray" {
		t.Error("NewDevice() modified the template")
	}
}

func TestNewTrail(t *testing.T) {
	trail := NewTrail("trail", TrailWidth, cabinetSize.Y, deviceUnit)
	h := cabinetSize.Y * TrailFraction

	if !approx(trail.Pose.Pos.Y, h/2) {
		t.Errorf("trail y = %v, want %v", trail.Pose.Pos.Y, h/2)
	}
	if trail.Len() != 2 {
		t.Fatalf("trail children = %d, want 2", trail.Len())
	}
	wantZ := -deviceUnit.Z/2 + TrailWidth/2 - 0.001
	for _, tc := range []struct {
		name string
		x    float64
	}{
		{RailLeft, deviceUnit.X / 2},
		{RailRight, -deviceUnit.X / 2},
	} {
		rail := trail.Find(tc.name)
		if rail == nil {
			t.Fatalf("%s missing", tc.name)
		}
		if !approxVec(rail.Pose.Pos, scene.Vec3{X: tc.x, Z: wantZ}) {
			t.Errorf("%s pos = %v, want (%v, 0, %v)", tc.name, rail.Pose.Pos, tc.x, wantZ)
		}
		g := rail.Mesh.Geometry
		if g.Width != RailThickness || !approx(g.Height, h) || g.Depth != TrailWidth {
			t.Errorf("%s geometry = %+v", tc.name, g)
		}
		if rail.Mesh.Material(0).Color != RailColor {
			t.Errorf("%s color = %q, want %q", tc.name, rail.Mesh.Material(0).Color, RailColor)
		}
	}
	if got := Devices(trail); len(got) != 0 {
		t.Errorf("Devices() = %d, want 0", len(got))
	}
}
