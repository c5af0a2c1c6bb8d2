// Package render provides 2D renderings of laid-out halls.
//
// # Overview
//
// The layout engine produces a 3D scene tree for an external renderer.
// This package adds flat views that need no 3D renderer:
//
//   - Rack elevations (in [elevation] subpackage)
//   - Scene-tree diagrams (in [nodelink] subpackage)
//   - Generic format conversion (SVG to PDF/PNG)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg) on a white page. Both stop
// the converter when the context ends.
//
//	svg := elevation.RenderSVG(profile)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2)
//
// [elevation]: github.com/matzehuels/rackscape/pkg/render/elevation
// [nodelink]: github.com/matzehuels/rackscape/pkg/render/nodelink
package render
