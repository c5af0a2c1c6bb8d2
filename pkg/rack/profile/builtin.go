package profile

import (
	"maps"
	"slices"

	"github.com/matzehuels/rackscape/pkg/rack"
)

// ReferenceName is the name of the reference profile.
const ReferenceName = "reference"

var referenceDevices = []rack.Descriptor{
	{HeightUnits: 10, DepthScale: 1, RackPosition: 10, MountSide: rack.Front},
	{HeightUnits: 2, DepthScale: 1, RackPosition: 12, MountSide: rack.Front},
	{HeightUnits: 10, DepthScale: 1, RackPosition: 22, MountSide: rack.Front},
	{HeightUnits: 2, DepthScale: 1, RackPosition: 24, MountSide: rack.Front},
	{HeightUnits: 2, DepthScale: 0.8, RackPosition: 26, MountSide: rack.Front},
	{HeightUnits: 1, DepthScale: 0.4, RackPosition: 28, MountSide: rack.Back},
	{HeightUnits: 2, DepthScale: 0.9, RackPosition: 30, MountSide: rack.Front},
	{HeightUnits: 1, DepthScale: 0.4, RackPosition: 31, MountSide: rack.Back},
	{HeightUnits: 1, DepthScale: 0.4, RackPosition: 40, MountSide: rack.Back},
	{HeightUnits: 1, DepthScale: 0.6, RackPosition: 41, MountSide: rack.Front},
	{HeightUnits: 1, DepthScale: 0.4, RackPosition: 42, MountSide: rack.Back},
	{HeightUnits: 1, DepthScale: 0.6, RackPosition: 43, MountSide: rack.Front},
	{HeightUnits: 1, DepthScale: 0.4, RackPosition: 44, MountSide: rack.Back},
	{HeightUnits: 1, DepthScale: 0.05, RackPosition: 45, MountSide: rack.Back},
}

var builtins = map[string]*rack.Profile{
	ReferenceName: rack.MustProfile(ReferenceName, referenceDevices),
	"empty":       rack.MustProfile("empty", nil),
}

// Reference returns the reference profile.
func Reference() *rack.Profile { return builtins[ReferenceName] }

// Builtin returns the built-in profile called name.
func Builtin(name string) (*rack.Profile, bool) {
	p, ok := builtins[name]
	return p, ok
}

// Names returns the names of the built-in profiles in sorted order.
func Names() []string {
	return slices.Sorted(maps.Keys(builtins))
}
