package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/rackscape/pkg/errors"
	"github.com/matzehuels/rackscape/pkg/scene"
)

var kindFromString = map[string]scene.Kind{
	"group": scene.KindGroup,
	"mesh":  scene.KindMesh,
}

// ReadJSON decodes a JSON scene tree from r.
//
// ReadJSON returns an error if the JSON is malformed, a node has an
// unknown kind, or a mesh node carries no mesh. Textures with the same path
// are decoded once and shared. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*scene.Node, error) {
	var data node
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode")
	}
	textures := map[string]*scene.Texture{}
	return fromNode(&data, textures)
}

func fromNode(n *node, textures map[string]*scene.Texture) (*scene.Node, error) {
	kind, ok := kindFromString[n.Kind]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "node %s: unknown kind %q", n.ID, n.Kind)
	}

	var out *scene.Node
	switch kind {
	case scene.KindMesh:
		if n.Mesh == nil {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "node %s: mesh node without mesh", n.ID)
		}
		m := &scene.Mesh{Geometry: scene.Box{Width: n.Mesh.Box[0], Height: n.Mesh.Box[1], Depth: n.Mesh.Box[2]}}
		for _, mat := range n.Mesh.Materials {
			m.Materials = append(m.Materials, fromMaterial(mat, textures))
		}
		out = scene.NewMesh(n.Name, m)
	default:
		out = scene.NewGroup(n.Name)
	}
	if n.ID != "" {
		out.ID = n.ID
	}
	out.Pose = scene.Pose{
		Pos:   scene.Vec3{X: n.Position[0], Y: n.Position[1], Z: n.Position[2]},
		Rot:   scene.Quat{X: n.Rotation[0], Y: n.Rotation[1], Z: n.Rotation[2], W: n.Rotation[3]},
		Scale: scene.Vec3{X: n.Scale[0], Y: n.Scale[1], Z: n.Scale[2]},
	}
	for k, v := range n.Tags {
		out.SetTag(k, v)
	}

	for _, c := range n.Children {
		child, err := fromNode(c, textures)
		if err != nil {
			return nil, err
		}
		if err := out.Add(child); err != nil {
			return nil, fmt.Errorf("node %s: %w", c.ID, err)
		}
	}
	return out, nil
}

func fromMaterial(m *material, textures map[string]*scene.Texture) *scene.Material {
	out := &scene.Material{Color: m.Color, Transparent: m.Transparent, Opacity: m.Opacity}
	if t := m.Texture; t != nil {
		tex, ok := textures[t.Path]
		if !ok {
			tex = &scene.Texture{Key: t.Key, Side: t.Side, Path: t.Path, Width: t.Width, Height: t.Height}
			textures[t.Path] = tex
		}
		out.Texture = tex
	}
	return out
}

// ImportJSON reads a JSON file at path and returns the decoded tree.
func ImportJSON(path string) (*scene.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
