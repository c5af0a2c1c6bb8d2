// Package assets loads the model templates and device textures used by the
// layout engine.
//
// A [Manifest] names the three templates (cabinet, device, tile) and the
// texture pattern. Templates are either glTF binaries, reduced to boxes
// around each primitive, or inline boxes given by their size. [Load] reads
// everything concurrently and fails on the first error; a partial set is
// never returned.
//
// The default manifest follows the conventional layout:
//
//	asset/model/cabinet.glb
//	asset/model/device.glb
//	asset/model/tile.glb
//	asset/image/10u_front.png
//	asset/image/10u_back.png
//	...
package assets
