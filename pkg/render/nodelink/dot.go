package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/rackscape/pkg/scene"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes the local position and box size in node labels.
	Detailed bool

	// MaxDepth collapses nodes deeper than this into a summary node.
	// Zero shows the whole tree.
	MaxDepth int
}

// ToDOT converts a scene tree to Graphviz DOT format.
// Mesh nodes are drawn filled, groups as outlines; collapsed subtrees
// appear as a dashed "+N nodes" box.
func ToDOT(root *scene.Node, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded\", fontsize=12, margin=\"0.15,0.05\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.15;\n")
	buf.WriteString("\n")

	w := &dotWriter{buf: &buf, opts: opts}
	w.node(root, 0)

	buf.WriteString("}\n")
	return buf.String()
}

type dotWriter struct {
	buf  *bytes.Buffer
	opts Options
	next int
}

func (w *dotWriter) id() string {
	w.next++
	return "n" + strconv.Itoa(w.next)
}

func (w *dotWriter) node(n *scene.Node, depth int) string {
	id := w.id()
	fmt.Fprintf(w.buf, "  %s [%s];\n", id, strings.Join(fmtAttrs(n, fmtLabel(n, w.opts.Detailed)), ", "))

	if w.opts.MaxDepth > 0 && depth >= w.opts.MaxDepth && n.Len() > 0 {
		hidden := n.Count() - 1
		sum := w.id()
		fmt.Fprintf(w.buf, "  %s [label=%q, style=\"rounded,dashed\", fontcolor=gray40];\n", sum, fmt.Sprintf("+%d nodes", hidden))
		fmt.Fprintf(w.buf, "  %s -> %s [style=dashed];\n", id, sum)
		return id
	}
	for _, c := range n.Children() {
		cid := w.node(c, depth+1)
		fmt.Fprintf(w.buf, "  %s -> %s;\n", id, cid)
	}
	return id
}

func fmtLabel(n *scene.Node, detailed bool) string {
	name := n.Name
	if name == "" {
		name = "(" + n.Kind.String() + ")"
	}
	if !detailed {
		return name
	}
	p := n.Pose.Pos
	parts := []string{fmt.Sprintf("pos: %.3f, %.3f, %.3f", p.X, p.Y, p.Z)}
	if n.Mesh != nil {
		g := n.Mesh.Geometry
		parts = append(parts, fmt.Sprintf("box: %.3f × %.3f × %.3f", g.Width, g.Height, g.Depth))
	}
	return name + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n *scene.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.Kind == scene.KindMesh {
		fill := "white"
		if m := n.Mesh.Material(scene.FacePosY); m != nil && m.Color != "" {
			fill = m.Color
		}
		attrs = append(attrs, "style=\"rounded,filled\"", fmt.Sprintf("fillcolor=%q", fill))
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
