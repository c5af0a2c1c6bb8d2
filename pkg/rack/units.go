package rack

// Physical constants of the reference cabinet, in centimetres unless noted.
const (
	// StandardCabinetCm is the interior height of the reference cabinet.
	StandardCabinetCm = 223.0

	// UnitCm is the height of one rack unit (1U).
	UnitCm = 4.445

	// StartCm is the offset of the first mounting hole from the cabinet floor.
	StartCm = 5.0

	// TrailFraction is the share of the cabinet height covered by the rails.
	TrailFraction = 0.92

	// TrailWidth is the rail depth in scene units.
	TrailWidth = 0.05

	// RailThickness is the rail width in scene units.
	RailThickness = 0.01

	// CabinetShrink is the uniform scale applied to every cabinet.
	CabinetShrink = 0.9

	// CabinetOpacity is the opacity of the cabinet chassis.
	CabinetOpacity = 0.8
)

// RackUnits is the number of whole units that fit on the rails above
// StartCm: floor((223*TrailFraction - 5) / 4.445). A device mounted at a
// higher position would stick out of the top of the trail.
const RackUnits = 45

// railInset keeps rails from z-fighting with the device end face.
const railInset = 0.001

// LengthPerCm returns the scene length of one centimetre for a cabinet whose
// measured interior height is h.
func LengthPerCm(h float64) float64 {
	return h / StandardCabinetCm
}

// UToCm returns the physical height of u rack units.
func UToCm(u int) float64 {
	return float64(u) * UnitCm
}

// VerticalOffset returns the y coordinate, in the trail frame, of the centre
// of a device u units tall whose top unit is position p, in a cabinet of
// interior height h. The trail frame has its origin at the trail's centre.
func VerticalOffset(h float64, p, u int) float64 {
	centre := float64(p) - float64(u)/2
	return LengthPerCm(h)*(StartCm+centre*UnitCm) - (h*TrailFraction)/2
}

// DepthOffset returns how far a device of the given depth scale is pulled
// toward the trail face so that its front stays flush with the rails.
func DepthOffset(depthScale, deviceDepth float64) float64 {
	return ((1 - depthScale) * deviceDepth) / 2
}
