package elevation

import (
	"bytes"
	"fmt"
	"html"
	"strconv"

	"github.com/matzehuels/rackscape/pkg/rack"
	"github.com/matzehuels/rackscape/pkg/scene"
)

// Drawing metrics in pixels.
const (
	unitHeight  = 14.0
	columnWidth = 180.0
	gutter      = 28.0
	margin      = 16.0
	titleHeight = 28.0
)

type Option func(*renderer)

type renderer struct {
	title   string
	units   int
	present map[string]bool // nil means every device is present
}

// WithTitle sets the heading; the profile name is used by default.
func WithTitle(title string) Option { return func(r *renderer) { r.title = title } }

// WithUnits sets the number of units drawn.
func WithUnits(n int) Option { return func(r *renderer) { r.units = n } }

// WithCabinet marks the devices actually mounted in cabinet; the others are
// drawn as empty outlines.
func WithCabinet(cabinet *scene.Node) Option {
	return func(r *renderer) {
		r.present = map[string]bool{}
		for _, side := range []rack.MountSide{rack.Front, rack.Back} {
			trail := rack.Trail(cabinet, side)
			if trail == nil {
				continue
			}
			for _, d := range rack.Devices(trail) {
				r.present[side.String()+"/"+d.Tag(rack.TagRackPosition)] = true
			}
		}
	}
}

// RenderSVG draws the front and back elevation of p.
func RenderSVG(p *rack.Profile, opts ...Option) []byte {
	r := renderer{title: p.Name(), units: rack.RackUnits}
	for _, opt := range opts {
		opt(&r)
	}

	width := 2*margin + 2*gutter + 2*columnWidth + gutter
	height := 2*margin + titleHeight + float64(r.units)*unitHeight

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	buf.WriteString(`  <style>text { font-family: sans-serif; } .unit { font-size: 9px; fill: #888; } .device { font-size: 10px; }</style>` + "\n")
	fmt.Fprintf(&buf, `  <text x="%.1f" y="%.1f" font-size="16" font-weight="bold">%s</text>`+"\n",
		margin, margin+16, html.EscapeString(r.title))

	for i, side := range []rack.MountSide{rack.Front, rack.Back} {
		x := margin + gutter + float64(i)*(columnWidth+gutter)
		r.column(&buf, p, side, x, margin+titleHeight)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *renderer) column(buf *bytes.Buffer, p *rack.Profile, side rack.MountSide, x, top float64) {
	fmt.Fprintf(buf, `  <g id="%s">`+"\n", side)
	fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" class="unit">%s</text>`+"\n", x, top-4, side)
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="#333" stroke-width="1.5"/>`+"\n",
		x, top, columnWidth, float64(r.units)*unitHeight)

	for u := 1; u <= r.units; u++ {
		y := r.unitTop(u, top)
		fmt.Fprintf(buf, `    <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#eee"/>`+"\n", x, y, x+columnWidth, y)
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" class="unit" text-anchor="end">%d</text>`+"\n", x-4, y+unitHeight-3, u)
	}

	for _, d := range p.All() {
		if d.MountSide != side {
			continue
		}
		lo, hi := d.Slots()
		if hi > r.units {
			continue
		}
		y := r.unitTop(hi, top)
		h := float64(hi-lo+1) * unitHeight

		style := fmt.Sprintf(`fill="%s" stroke="#333"`, depthShade(d.DepthScale))
		if r.present != nil && !r.present[side.String()+"/"+strconv.Itoa(d.RackPosition)] {
			style = `fill="none" stroke="#999" stroke-dasharray="4 3"`
		}
		fmt.Fprintf(buf, `    <rect class="device" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="2" %s/>`+"\n",
			x+2, y+1, columnWidth-4, h-2, style)
		fmt.Fprintf(buf, `    <text class="device" x="%.1f" y="%.1f">%s</text>`+"\n",
			x+8, y+h/2+3.5, html.EscapeString(fmt.Sprintf("%s (%s, %.0f%%)", d.Label(), rack.SizeKey(d.HeightUnits), d.DepthScale*100)))
	}
	buf.WriteString("  </g>\n")
}

// unitTop returns the y coordinate of the top edge of unit u.
func (r *renderer) unitTop(u int, top float64) float64 {
	return top + float64(r.units-u)*unitHeight
}

// depthShade maps a depth scale to a grey: deeper devices are darker.
func depthShade(scale float64) string {
	v := 235 - int(scale*100)
	return fmt.Sprintf("#%02x%02x%02x", v, v, v)
}
