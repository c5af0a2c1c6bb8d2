// Package profile reads, writes and generates rack profiles.
//
// # File Format
//
// Profiles are stored as TOML or JSON. The TOML form lists one [[device]]
// table per mounted device:
//
//	name = "reference"
//
//	[[device]]
//	height_units = 10
//	depth_scale = 1.0
//	rack_position = 10
//	mount_side = "front"
//
// The JSON form uses the same keys with the devices in a "devices" array.
// [Import] picks the format from the file extension.
//
// # Built-in Profiles
//
// [Builtin] returns the profiles compiled into the binary; "reference" is
// a 14-device cabinet with mixed front and back equipment.
package profile
