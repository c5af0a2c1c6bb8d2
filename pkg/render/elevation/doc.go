// Package elevation draws rack elevations: the classic front and back view
// of a cabinet with one row per rack unit.
//
// Units are numbered from 1 at the bottom. Each device is a box spanning
// its units, shaded by depth so shallow equipment stands out. When the
// cabinet an elevation belongs to is given with [WithCabinet], devices that
// the fill ratio left out are drawn as dashed outlines.
//
//	svg := elevation.RenderSVG(profile, elevation.WithTitle("hall a"))
package elevation
