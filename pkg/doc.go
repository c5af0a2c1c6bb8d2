// Package pkg provides the core libraries for rackscape rack layout.
//
// # Overview
//
// rackscape turns a table of rack-mounted devices into a 3D scene of a
// data-center hall: cabinets with devices on their front and back rails,
// arranged in two facing rows on a tiled floor. The pkg directory is
// organized into these areas:
//
//  1. [scene] - Renderer-independent scene tree (nodes, poses, box meshes)
//  2. [rack] - Domain logic (units, descriptors, cabinet assembly, rows, floor)
//  3. [assets] - Template and texture loading from a TOML manifest
//  4. [pipeline] - Orchestration (load → layout → render) with caching
//  5. [io], [render] - Scene JSON, elevation SVG and scene-tree diagrams
//  6. [cache], [errors], [observability] - Supporting infrastructure
//
// # Architecture
//
// The typical data flow through rackscape:
//
//	Profile (.toml/.json or built-in)   Asset manifest (.toml)
//	         ↓                                   ↓
//	    [rack/profile]                      [assets] (concurrent load)
//	         ↓                                   ↓
//	         └──────────→ [rack] ←──────────────┘
//	                 (assemble cabinets, lay out aisle, tile floor)
//	                          ↓
//	                      [scene] tree
//	                          ↓
//	         [io] JSON · [render/elevation] SVG · [render/nodelink] DOT
//
// # Quick Start
//
// Lay out the reference profile with the pipeline:
//
//	import "github.com/matzehuels/rackscape/pkg/pipeline"
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Manifest: "asset/manifest.toml",
//	    Formats:  []string{"json", "svg"},
//	})
//
// Or assemble a single cabinet directly:
//
//	import "github.com/matzehuels/rackscape/pkg/rack"
//
//	asm := rack.NewAssembler(set.Templates, set.Textures, rack.Options{})
//	cabinet, stats, err := asm.Assemble(ctx, profile.Reference())
//
// # Observability
//
// Library packages never log. They report events through [observability]
// hooks, which the CLI binds to a charmbracelet/log logger.
package pkg
