package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/rackscape/pkg/observability"
	"github.com/matzehuels/rackscape/pkg/rack"
	"github.com/matzehuels/rackscape/pkg/render"
	"github.com/matzehuels/rackscape/pkg/render/elevation"
	"github.com/matzehuels/rackscape/pkg/render/nodelink"
	"github.com/matzehuels/rackscape/pkg/scene"
)

// Render generates output artifacts in the requested formats. sceneJSON is
// the encoded scene; it is reused for the json format.
func Render(ctx context.Context, root *scene.Node, sceneJSON []byte, p *rack.Profile, opts Options) (artifacts map[string][]byte, err error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	defer func() { hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err) }()

	artifacts = make(map[string][]byte, len(opts.Formats))
	var (
		svg []byte // elevation, shared by svg/png/pdf
		dot string
	)
	elevationSVG := func() []byte {
		if svg == nil {
			svg = renderElevation(root, p, opts)
		}
		return svg
	}
	sceneDOT := func() string {
		if dot == "" {
			dot = nodelink.ToDOT(root, nodelink.Options{Detailed: opts.Detailed, MaxDepth: opts.MaxDepth})
		}
		return dot
	}

	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data = sceneJSON
		case FormatSVG:
			data = elevationSVG()
		case FormatPNG:
			data, err = render.ToPNG(ctx, elevationSVG(), opts.Scale)
		case FormatPDF:
			data, err = render.ToPDF(ctx, elevationSVG())
		case FormatDOT:
			data = []byte(sceneDOT())
		case FormatTree:
			data, err = nodelink.RenderSVG(ctx, sceneDOT())
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderElevation(root *scene.Node, p *rack.Profile, opts Options) []byte {
	eo := []elevation.Option{}
	if opts.Title != "" {
		eo = append(eo, elevation.WithTitle(opts.Title))
	}
	if c := FirstCabinet(root); c != nil {
		eo = append(eo, elevation.WithCabinet(c))
	}
	return elevation.RenderSVG(p, eo...)
}
