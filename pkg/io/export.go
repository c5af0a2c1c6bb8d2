package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/rackscape/pkg/scene"
)

var kindToString = map[scene.Kind]string{
	scene.KindGroup: "group",
	scene.KindMesh:  "mesh",
}

type node struct {
	ID       string            `json:"id"`
	Name     string            `json:"name,omitempty"`
	Kind     string            `json:"kind"`
	Position [3]float64        `json:"position"`
	Rotation [4]float64        `json:"rotation"`
	Scale    [3]float64        `json:"scale"`
	Mesh     *mesh             `json:"mesh,omitempty"`
	Tags     map[string]string `json:"tags,omitempty"`
	Children []*node           `json:"children,omitempty"`
}

type mesh struct {
	Box       [3]float64  `json:"box"`
	Materials []*material `json:"materials"`
}

type material struct {
	Color       string   `json:"color"`
	Texture     *texture `json:"texture,omitempty"`
	Transparent bool     `json:"transparent,omitempty"`
	Opacity     float64  `json:"opacity"`
}

type texture struct {
	Key    string `json:"key"`
	Side   string `json:"side"`
	Path   string `json:"path"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

func toNode(n *scene.Node) *node {
	p := n.Pose
	out := &node{
		ID:       n.ID,
		Name:     n.Name,
		Kind:     kindToString[n.Kind],
		Position: [3]float64{p.Pos.X, p.Pos.Y, p.Pos.Z},
		Rotation: [4]float64{p.Rot.X, p.Rot.Y, p.Rot.Z, p.Rot.W},
		Scale:    [3]float64{p.Scale.X, p.Scale.Y, p.Scale.Z},
		Tags:     n.Tags,
	}
	if n.Mesh != nil {
		g := n.Mesh.Geometry
		m := &mesh{Box: [3]float64{g.Width, g.Height, g.Depth}}
		for _, mat := range n.Mesh.Materials {
			m.Materials = append(m.Materials, toMaterial(mat))
		}
		out.Mesh = m
	}
	for _, c := range n.Children() {
		out.Children = append(out.Children, toNode(c))
	}
	return out
}

func toMaterial(m *scene.Material) *material {
	out := &material{Color: m.Color, Transparent: m.Transparent, Opacity: m.Opacity}
	if t := m.Texture; t != nil {
		out.Texture = &texture{Key: t.Key, Side: t.Side, Path: t.Path, Width: t.Width, Height: t.Height}
	}
	return out
}

// WriteJSON encodes the tree rooted at root as JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(root *scene.Node, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toNode(root)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// MarshalJSON returns the compact JSON encoding of the tree.
func MarshalJSON(root *scene.Node) ([]byte, error) {
	b, err := json.Marshal(toNode(root))
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return b, nil
}

// ExportJSON writes a tree to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(root *scene.Node, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(root, f)
}
