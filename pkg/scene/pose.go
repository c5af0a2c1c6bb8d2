package scene

import "math"

// Up is the world vertical axis.
var Up = Vec3{Y: 1}

// Pose holds the position, rotation and scale of a node relative to its
// parent.
type Pose struct {
	Pos   Vec3
	Rot   Quat
	Scale Vec3
}

// DefaultPose returns a pose at the origin with no rotation and unit scale.
func DefaultPose() Pose {
	return Pose{Rot: IdentityQuat(), Scale: Vec3{1, 1, 1}}
}

// Matrix returns the local transform of the pose.
func (p Pose) Matrix() Mat4 {
	return Compose(p.Pos, p.Rot, p.Scale)
}

// SetScalar scales the pose uniformly.
func (p *Pose) SetScalar(s float64) {
	p.Scale = Vec3{s, s, s}
}

// RotateY rotates the pose about its local vertical axis by angle radians.
func (p *Pose) RotateY(angle float64) {
	p.Rot = p.Rot.Mul(QuatAxisAngle(Up, angle))
}

// LookAt orients the pose so that its local +Z axis points along dir,
// keeping +Y as close to [Up] as possible. A zero dir leaves the pose
// unchanged.
func (p *Pose) LookAt(dir Vec3) {
	z := dir.Normal()
	if z.Len() < eps {
		return
	}
	up := Up
	if math.Abs(z.Dot(up)) > 1-1e-9 {
		up = Vec3{Z: 1}
	}
	x := up.Cross(z).Normal()
	y := z.Cross(x)
	p.Rot = quatFromBasis(x, y, z)
}
