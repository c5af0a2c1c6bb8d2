// Package io provides JSON import and export for scene trees.
//
// # Overview
//
// A laid-out hall is handed to renderers as JSON. The format mirrors
// [scene.Node] one to one, so a tree can be exported, inspected by a
// renderer or another tool, and re-imported without loss.
//
// # JSON Format
//
// Every node is an object; children nest:
//
//	{
//	  "id": "6f1c…",
//	  "name": "cabinet-00",
//	  "kind": "mesh",
//	  "position": [-2, 0, -2.25],
//	  "rotation": [0, -0.7071, 0, 0.7071],
//	  "scale": [0.9, 0.9, 0.9],
//	  "mesh": {
//	    "box": [0.6, 2, 1],
//	    "materials": [{"color": "black", "transparent": true, "opacity": 0.8}]
//	  },
//	  "tags": {"slot": "0"},
//	  "children": [ … ]
//	}
//
// Rotations are quaternions in x, y, z, w order. A material may carry a
// texture {"key", "side", "path", "width", "height"}; textures with the same
// path are shared again on import.
//
// # Import
//
// Use [ImportJSON] to read a tree from a file path, or [ReadJSON] to read
// from any io.Reader. Node IDs are preserved.
//
// # Export
//
// Use [ExportJSON] to write a tree to a file, or [WriteJSON] to write to
// any io.Writer.
package io
