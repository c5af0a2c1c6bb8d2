package rack

import (
	"context"
	"math"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/rackscape/pkg/errors"
	"github.com/matzehuels/rackscape/pkg/scene"
)

func referenceLike(t *testing.T) *Profile {
	return mustProfile(t,
		Descriptor{HeightUnits: 10, DepthScale: 1, RackPosition: 10},
		Descriptor{HeightUnits: 2, DepthScale: 1, RackPosition: 12},
		Descriptor{HeightUnits: 2, DepthScale: 0.8, RackPosition: 26},
		Descriptor{HeightUnits: 1, DepthScale: 0.4, RackPosition: 28, MountSide: Back},
		Descriptor{HeightUnits: 1, DepthScale: 0.6, RackPosition: 41},
		Descriptor{HeightUnits: 1, DepthScale: 0.05, RackPosition: 45, MountSide: Back},
	)
}

func TestLayoutRowPositions(t *testing.T) {
	tests := []struct {
		name    string
		length  int
		spacing float64
		origin  scene.Vec3
	}{
		{"reference", 10, 0.5, scene.Vec3{X: -2, Z: -2.25}},
		{"single", 1, 0.5, scene.Vec3{}},
		{"wide", 4, 1.25, scene.Vec3{X: 3, Y: 0.1, Z: 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, stats, err := LayoutRow(context.Background(), testAssembler(Options{}), referenceLike(t), RowOptions{
				Length:  tt.length,
				Spacing: tt.spacing,
				Origin:  tt.origin,
			})
			if err != nil {
				t.Fatalf("LayoutRow() error = %v", err)
			}
			if row.Len() != tt.length || stats.Cabinets != tt.length {
				t.Fatalf("cabinets = %d (stats %d), want %d", row.Len(), stats.Cabinets, tt.length)
			}
			for i := range tt.length {
				c := row.Child(i)
				want := tt.origin.Add(scene.Vec3{Z: float64(i) * tt.spacing})
				if !approxVec(c.Pose.Pos, want) {
					t.Errorf("cabinet %d at %v, want %v", i, c.Pose.Pos, want)
				}
				if i > 0 {
					if d := c.Pose.Pos.Z - row.Child(i-1).Pose.Pos.Z; !approx(d, tt.spacing) {
						t.Errorf("step %d = %v, want %v", i, d, tt.spacing)
					}
				}
				if c.Tag(TagSlot) != strconv.Itoa(i) {
					t.Errorf("cabinet %d slot tag = %q", i, c.Tag(TagSlot))
				}
			}
		})
	}
}

func TestLayoutRowMirrored(t *testing.T) {
	opts := RowOptions{Length: 3, Spacing: 0.5, Origin: scene.Vec3{X: -2, Z: -2.25}}
	plain, _, err := LayoutRow(context.Background(), testAssembler(Options{}), referenceLike(t), opts)
	if err != nil {
		t.Fatalf("LayoutRow() error = %v", err)
	}
	opts.Mirrored, opts.Separation = true, 4.5
	mirrored, _, err := LayoutRow(context.Background(), testAssembler(Options{}), referenceLike(t), opts)
	if err != nil {
		t.Fatalf("LayoutRow(mirrored) error = %v", err)
	}

	for i := range 3 {
		a, b := plain.Child(i), mirrored.Child(i)
		if !approx(b.Pose.Pos.X, 2.5) || !approx(b.Pose.Pos.Z, a.Pose.Pos.Z) {
			t.Errorf("mirrored cabinet %d at %v", i, b.Pose.Pos)
		}
		fa := a.Pose.Rot.Rotate(scene.Vec3{Z: 1})
		fb := b.Pose.Rot.Rotate(scene.Vec3{Z: 1})
		if !approxVec(fa, fb.Scale(-1)) {
			t.Errorf("cabinet %d faces %v and %v, want opposite", i, fa, fb)
		}
	}
}

func TestLayoutRowParallelMatchesSequential(t *testing.T) {
	p := referenceLike(t)
	opts := RowOptions{Length: 8, Spacing: 0.5}
	asmOpts := Options{FillRatio: 0.7, Seed: 2024}

	seq, ss, err := LayoutRow(context.Background(), testAssembler(asmOpts), p, opts)
	if err != nil {
		t.Fatalf("LayoutRow() error = %v", err)
	}
	opts.Parallel = true
	par, ps, err := LayoutRow(context.Background(), testAssembler(asmOpts), p, opts)
	if err != nil {
		t.Fatalf("LayoutRow(parallel) error = %v", err)
	}

	if diff := cmp.Diff(ss, ps); diff != "" {
		t.Errorf("stats differ (-sequential +parallel):\n%s", diff)
	}
	for i := range opts.Length {
		if diff := cmp.Diff(deviceLabels(seq.Child(i)), deviceLabels(par.Child(i))); diff != "" {
			t.Errorf("slot %d differs (-sequential +parallel):\n%s", i, diff)
		}
	}
}

func TestLayoutRowErrors(t *testing.T) {
	if _, _, err := LayoutRow(context.Background(), nil, referenceLike(t), RowOptions{Length: 1}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("LayoutRow(nil assembler) error = %v", err)
	}
	if _, _, err := LayoutRow(context.Background(), testAssembler(Options{}), referenceLike(t), RowOptions{Length: -1}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("LayoutRow(-1) error = %v", err)
	}

	broken := testAssembler(Options{})
	broken.Templates.Cabinet = nil
	for _, parallel := range []bool{false, true} {
		_, _, err := LayoutRow(context.Background(), broken, referenceLike(t), RowOptions{Length: 3, Parallel: parallel})
		if !errors.Is(err, errors.ErrCodeInvalidTemplate) {
			t.Errorf("LayoutRow(parallel=%v) error = %v, want %v", parallel, err, errors.ErrCodeInvalidTemplate)
		}
	}

	row, _, err := LayoutRow(context.Background(), testAssembler(Options{}), referenceLike(t), RowOptions{})
	if err != nil || row.Len() != 0 {
		t.Errorf("LayoutRow(0) = %v cabinets, %v", row, err)
	}
}

func TestLayoutAisle(t *testing.T) {
	opts := DefaultAisleOptions()
	aisle, stats, err := LayoutAisle(context.Background(), testAssembler(Options{}), referenceLike(t), opts)
	if err != nil {
		t.Fatalf("LayoutAisle() error = %v", err)
	}
	if aisle.Len() != 2 {
		t.Fatalf("rows = %d, want 2", aisle.Len())
	}
	if stats.Cabinets != 20 {
		t.Errorf("Cabinets = %d, want 20", stats.Cabinets)
	}
	a, b := aisle.Find("row-a"), aisle.Find("row-b")
	if a == nil || b == nil {
		t.Fatal("rows missing")
	}
	for i := range opts.Length {
		ca, cb := a.Child(i), b.Child(i)
		if !approx(ca.Pose.Pos.X, -2) || !approx(cb.Pose.Pos.X, 2.5) {
			t.Errorf("slot %d x = %v / %v, want -2 / 2.5", i, ca.Pose.Pos.X, cb.Pose.Pos.X)
		}
		if !approx(ca.Pose.Pos.Z, -2.25+float64(i)*0.5) {
			t.Errorf("slot %d z = %v", i, ca.Pose.Pos.Z)
		}
		ya, yb := ca.Pose.Rot.Yaw(), cb.Pose.Rot.Yaw()
		if d := math.Abs(math.Remainder(ya-yb, 2*math.Pi)); !approx(d, math.Pi) {
			t.Errorf("slot %d yaw %v vs %v, want opposite", i, ya, yb)
		}
	}
}

func TestAisleCenter(t *testing.T) {
	tests := []struct {
		name string
		opts AisleOptions
		want scene.Vec3
	}{
		{"reference", DefaultAisleOptions(), scene.Vec3{X: 0.25}},
		{"single cabinet", AisleOptions{Length: 1, Spacing: 0.5, Separation: 2}, scene.Vec3{X: 1}},
		{"empty", AisleOptions{Origin: scene.Vec3{X: 1, Y: 2, Z: 3}, Spacing: 1}, scene.Vec3{X: 1, Y: 2, Z: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.opts.Center()
			if !approx(got.X, tt.want.X) || !approx(got.Y, tt.want.Y) || !approx(got.Z, tt.want.Z) {
				t.Errorf("Center() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLayoutAisleParallelDeterministic(t *testing.T) {
	opts := DefaultAisleOptions()
	opts.Length = 4
	asmOpts := Options{FillRatio: 0.5, Seed: 9}

	seq, _, err := LayoutAisle(context.Background(), testAssembler(asmOpts), referenceLike(t), opts)
	if err != nil {
		t.Fatalf("LayoutAisle() error = %v", err)
	}
	opts.Parallel = true
	par, _, err := LayoutAisle(context.Background(), testAssembler(asmOpts), referenceLike(t), opts)
	if err != nil {
		t.Fatalf("LayoutAisle(parallel) error = %v", err)
	}
	for _, name := range []string{"row-a", "row-b"} {
		rs, rp := seq.Find(name), par.Find(name)
		for i := range opts.Length {
			if diff := cmp.Diff(deviceLabels(rs.Child(i)), deviceLabels(rp.Child(i))); diff != "" {
				t.Errorf("%s slot %d differs:\n%s", name, i, diff)
			}
		}
	}
}
