package cli

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/rackscape/pkg/io"
	"github.com/matzehuels/rackscape/pkg/rack"
	"github.com/matzehuels/rackscape/pkg/scene"
)

// testHall returns a paintable tile at the origin and a cabinet at x=3.
func testHall(t *testing.T) *scene.Node {
	t.Helper()
	root := scene.NewGroup("hall")

	tile := scene.NewMesh("tile", &scene.Mesh{
		Geometry:  scene.Box{Width: 2, Height: 0.2, Depth: 2},
		Materials: []*scene.Material{scene.NewMaterial("white")},
	})
	tile.SetTag(scene.TagPaintable, "true")

	cabinet := scene.NewMesh("cabinet", &scene.Mesh{
		Geometry:  scene.Box{Width: 1, Height: 2, Depth: 1},
		Materials: []*scene.Material{scene.NewMaterial("black")},
	})
	cabinet.Pose.Pos.X = 3

	for _, n := range []*scene.Node{tile, cabinet} {
		if err := root.Add(n); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func key(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m inspectModel, keys ...string) inspectModel {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(inspectModel)
	}
	return m
}

func TestInspectPickAndPaint(t *testing.T) {
	root := testHall(t)
	m := newInspectModel(root, filepath.Join(t.TempDir(), "hall.json"))
	m.x, m.z = 0, 0
	m.pick()

	if !m.hasHit || m.hit.Node.Name != "tile" {
		t.Fatalf("pick at origin hit %v, want tile", m.hit.Node)
	}

	m = update(t, m, "c", "enter")
	want := scene.Palette[1]
	if got := root.Find("tile").Mesh.Material(scene.FacePosY).Color; got != want {
		t.Errorf("tile colour = %q, want %q", got, want)
	}
	if !m.dirty {
		t.Error("dirty = false after painting")
	}
}

func TestInspectPaintRefused(t *testing.T) {
	root := testHall(t)
	m := newInspectModel(root, filepath.Join(t.TempDir(), "hall.json"))
	m.x, m.z = 3, 0
	m.pick()

	if !m.hasHit || m.hit.Node.Name != "cabinet" {
		t.Fatalf("pick at x=3 hit %v, want cabinet", m.hit.Node)
	}
	m = update(t, m, "enter")
	if m.dirty {
		t.Error("dirty = true after painting a non-paintable node")
	}
	if got := root.Find("cabinet").Mesh.Material(scene.FacePosY).Color; got != "black" {
		t.Errorf("cabinet colour = %q, want black", got)
	}
	if !strings.Contains(m.status, "cannot be painted") {
		t.Errorf("status = %q", m.status)
	}
}

func TestInspectMoveClamps(t *testing.T) {
	m := newInspectModel(testHall(t), "")
	for range 200 {
		m = update(t, m, "left")
	}
	if m.x != m.bounds.Min.X {
		t.Errorf("x = %v after moving far left, want %v", m.x, m.bounds.Min.X)
	}

	step := m.step
	m = update(t, m, "]")
	if m.step != 2*step {
		t.Errorf("step = %v after ], want %v", m.step, 2*step)
	}
}

func TestInspectWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "painted.json")
	m := newInspectModel(testHall(t), path)
	m.x, m.z = 0, 0
	m.pick()
	m = update(t, m, "enter", "w")

	if m.dirty {
		t.Error("dirty = true after writing")
	}
	root, err := io.ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON() error: %v", err)
	}
	if got, want := root.Find("tile").Mesh.Material(scene.FacePosY).Color, scene.Palette[0]; got != want {
		t.Errorf("saved tile colour = %q, want %q", got, want)
	}
}

// layoutHall lays out a one-cabinet hall through the layout command and
// imports its scene JSON.
func layoutHall(t *testing.T, flags ...string) *scene.Node {
	t.Helper()
	out := t.TempDir()
	args := append([]string{"layout",
		"--manifest", writeHallAssets(t),
		"--cabinets", "1",
		"--format", "json",
		"--output", out,
		"--no-cache"}, flags...)
	if _, err := runCLI(t, nil, args...); err != nil {
		t.Fatalf("layout error: %v", err)
	}
	root, err := io.ImportJSON(filepath.Join(out, "hall.json"))
	if err != nil {
		t.Fatalf("ImportJSON() error: %v", err)
	}
	return root
}

func TestInspectPickSwatch(t *testing.T) {
	root := layoutHall(t, "--palette")

	// The fourth swatch sits one pitch along X in the near row.
	m := newInspectModel(root, "")
	m.x, m.z = 5+1.2, 5
	m.pick()
	if !m.hasHit || m.hit.Node.Tag(scene.TagSwatch) == "" {
		t.Fatalf("pick over the palette hit %v, want a swatch", m.hit.Node)
	}

	m = update(t, m, "enter")
	if got, want := m.currentColor(), scene.Palette[3]; got != want {
		t.Errorf("colour = %q after picking a swatch, want %q", got, want)
	}
	if m.dirty {
		t.Error("dirty = true after picking a swatch")
	}
	if !strings.Contains(m.status, "picked") {
		t.Errorf("status = %q", m.status)
	}
}

func TestInspectPickThroughCabinet(t *testing.T) {
	root := layoutHall(t)
	cabinet := root.Find("cabinet-00")
	if cabinet == nil {
		t.Fatal("hall has no cabinet-00")
	}

	m := newInspectModel(root, "")
	pos := scene.WorldPosition(cabinet)
	m.x, m.z = pos.X, pos.Z
	m.pick()
	if !m.hasHit {
		t.Fatal("nothing under the cabinet centre")
	}
	if m.hit.Node.Tag(rack.TagRackPosition) == "" {
		t.Errorf("pick over the cabinet hit %s, want a device", m.hit.Node.Name)
	}
	if !strings.Contains(hitTable(m.hit).Render(), "cabinet-00 (slot 0)") {
		t.Error("hit table does not name the enclosing cabinet")
	}
}

func TestInspectQuit(t *testing.T) {
	m := newInspectModel(testHall(t), "")
	if _, cmd := m.Update(key("q")); cmd == nil {
		t.Error("q did not return a command")
	}
}

func TestInspectView(t *testing.T) {
	m := newInspectModel(testHall(t), "")
	m.x, m.z = 0, 0
	m.pick()
	view := m.View()
	for _, want := range []string{"Inspect hall", "tile", "paintable", scene.Palette[0]} {
		if !strings.Contains(view, want) {
			t.Errorf("View() lacks %q:\n%s", want, view)
		}
	}
}
