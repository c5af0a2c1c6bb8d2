// Package nodelink renders scene trees as node-link diagrams.
//
// # Overview
//
// Each scene node becomes a box and each parent-child edge an arrow, which
// makes it easy to check what the assembler built: rows, cabinets, trails
// and devices, with their names and kinds.
//
// # Usage
//
// Convert a tree to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(hall, nodelink.Options{MaxDepth: 3})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: node labels include the local position and box size
//   - MaxDepth: subtrees below this depth are collapsed into a count
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
