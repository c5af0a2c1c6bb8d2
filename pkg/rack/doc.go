// Package rack lays out rack-mounted devices inside cabinets and cabinets
// on a hall floor.
//
// # Units
//
// Devices are described in rack units (1U = 4.445 cm) and positioned by
// the top unit they occupy, counted from 1 at the bottom of the cabinet.
// Physical centimetres are turned into scene lengths using the measured
// height of the cabinet template against the 223 cm reference cabinet:
//
//	y = h/223 * (5 + (position - units/2) * 4.445) - h*0.92/2
//
// # Assembly
//
// A [Profile] is an immutable, validated table of [Descriptor]s. An
// [Assembler] turns a profile into a cabinet subtree:
//
//	cabinet (translucent clone, scale 0.9, facing -X)
//	├── trail-front
//	│   ├── rail-left, rail-right
//	│   └── devices mounted at the front
//	└── trail-back (turned 180°)
//	    ├── rail-left, rail-right
//	    └── devices mounted at the back
//
// Front faces of devices are -Z faces, so [Forward] is -Z in the cabinet
// frame. Back-mounted devices are authored in the same frame as front ones
// and end up mirrored by the turn of the back trail.
//
// # Rows and floors
//
// [LayoutRow] repeats the assembly along Z, [LayoutAisle] adds an opposing
// mirrored row, and [TileFloor] lays a tile grid centred under the hall.
// Layout is deterministic for a given seed, whether slots are built in
// order or in parallel.
package rack
