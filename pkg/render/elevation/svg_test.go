package elevation

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/rackscape/pkg/rack"
	"github.com/matzehuels/rackscape/pkg/scene"
)

func testProfile(t *testing.T) *rack.Profile {
	t.Helper()
	p, err := rack.NewProfile("test", []rack.Descriptor{
		{HeightUnits: 10, DepthScale: 1, RackPosition: 10, MountSide: rack.Front},
		{HeightUnits: 2, DepthScale: 0.8, RackPosition: 26, MountSide: rack.Front},
		{HeightUnits: 1, DepthScale: 0.4, RackPosition: 28, MountSide: rack.Back},
	})
	if err != nil {
		t.Fatalf("NewProfile() error = %v", err)
	}
	return p
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(testProfile(t), WithTitle("hall <a>")))

	if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(svg, "</svg>\n") {
		t.Fatalf("RenderSVG() is not an svg document")
	}
	if !strings.Contains(svg, "hall &lt;a&gt;") {
		t.Error("title not escaped")
	}
	if got := strings.Count(svg, `<rect class="device"`); got != 3 {
		t.Errorf("device rects = %d, want 3", got)
	}
	if !strings.Contains(svg, "10u-front-u10 (10u, 100%)") {
		t.Error("missing device label")
	}
	if strings.Contains(svg, "stroke-dasharray") {
		t.Error("devices drawn as missing without a cabinet")
	}
}

func TestRenderSVGGeometry(t *testing.T) {
	svg := string(RenderSVG(testProfile(t), WithUnits(10)))
	// The 10U device spans the whole 10-unit column.
	want := `<rect class="device" x="46.0" y="45.0" width="176.0" height="138.0"`
	if !strings.Contains(svg, want) {
		t.Errorf("RenderSVG() missing %s", want)
	}
	if strings.Contains(svg, "u26") {
		t.Error("device above the drawn units was rendered")
	}
}

func TestWithCabinet(t *testing.T) {
	p := testProfile(t)
	tmpl := rack.Templates{
		Cabinet: scene.NewMesh("cabinet", &scene.Mesh{Geometry: scene.Box{Width: 0.6, Height: 2, Depth: 1}}),
		Device:  scene.NewMesh("device", &scene.Mesh{Geometry: scene.Box{Width: 0.5, Height: 0.04, Depth: 0.8}}),
	}
	empty, _ := rack.NewProfile("none", nil)
	cab, _, err := rack.NewAssembler(tmpl, nil, rack.Options{}).Assemble(context.Background(), empty)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	svg := string(RenderSVG(p, WithCabinet(cab)))
	if got := strings.Count(svg, "stroke-dasharray"); got != 3 {
		t.Errorf("dashed devices = %d, want 3", got)
	}
}

func TestDepthShade(t *testing.T) {
	if got := depthShade(1); got != "#878787" {
		t.Errorf("depthShade(1) = %s, want #878787", got)
	}
	if got := depthShade(0.05); got != "#e6e6e6" {
		t.Errorf("depthShade(0.05) = %s, want #e6e6e6", got)
	}
}
