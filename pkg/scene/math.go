package scene

import "math"

const eps = 1e-12

// Vec3 is a 3D vector in scene units.
type Vec3 struct {
	X, Y, Z float64
}

// V3 returns a new [Vec3].
func V3(x, y, z float64) Vec3 { return Vec3{x, y, z} }

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Scale returns v multiplied by s.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Mul returns the component-wise product of v and o.
func (v Vec3) Mul(o Vec3) Vec3 { return Vec3{v.X * o.X, v.Y * o.Y, v.Z * o.Z} }

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Cross returns the cross product v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Len returns the Euclidean length of v.
func (v Vec3) Len() float64 { return math.Sqrt(v.Dot(v)) }

// Normal returns v scaled to unit length, or the zero vector if v is zero.
func (v Vec3) Normal() Vec3 {
	l := v.Len()
	if l < eps {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Quat is a rotation quaternion.
type Quat struct {
	X, Y, Z, W float64
}

// IdentityQuat returns the no-rotation quaternion.
func IdentityQuat() Quat { return Quat{W: 1} }

// QuatAxisAngle returns a rotation of angle radians about axis.
func QuatAxisAngle(axis Vec3, angle float64) Quat {
	a := axis.Normal()
	s := math.Sin(angle / 2)
	return Quat{a.X * s, a.Y * s, a.Z * s, math.Cos(angle / 2)}
}

// Mul returns q*o: rotating by the result applies o first, then q.
func (q Quat) Mul(o Quat) Quat {
	return Quat{
		X: q.X*o.W + q.W*o.X + q.Y*o.Z - q.Z*o.Y,
		Y: q.Y*o.W + q.W*o.Y + q.Z*o.X - q.X*o.Z,
		Z: q.Z*o.W + q.W*o.Z + q.X*o.Y - q.Y*o.X,
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
	}
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// Yaw returns the rotation angle about +Y, in radians, of the rotated +Z axis.
func (q Quat) Yaw() float64 {
	z := q.Rotate(Vec3{Z: 1})
	return math.Atan2(z.X, z.Z)
}

// quatFromBasis converts an orthonormal basis (the rotated X, Y and Z axes)
// into a quaternion.
func quatFromBasis(x, y, z Vec3) Quat {
	m00, m01, m02 := x.X, y.X, z.X
	m10, m11, m12 := x.Y, y.Y, z.Y
	m20, m21, m22 := x.Z, y.Z, z.Z

	switch trace := m00 + m11 + m22; {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1)
		return Quat{(m21 - m12) * s, (m02 - m20) * s, (m10 - m01) * s, 0.25 / s}
	case m00 > m11 && m00 > m22:
		s := 2 * math.Sqrt(1+m00-m11-m22)
		return Quat{0.25 * s, (m01 + m10) / s, (m02 + m20) / s, (m21 - m12) / s}
	case m11 > m22:
		s := 2 * math.Sqrt(1+m11-m00-m22)
		return Quat{(m01 + m10) / s, 0.25 * s, (m12 + m21) / s, (m02 - m20) / s}
	default:
		s := 2 * math.Sqrt(1+m22-m00-m11)
		return Quat{(m02 + m20) / s, (m12 + m21) / s, 0.25 * s, (m10 - m01) / s}
	}
}

// Mat4 is a row-major 4x4 affine transform.
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Compose builds the matrix for translate(pos) * rotate(rot) * scale(scale).
func Compose(pos Vec3, rot Quat, scale Vec3) Mat4 {
	x := rot.Rotate(Vec3{X: 1}).Scale(scale.X)
	y := rot.Rotate(Vec3{Y: 1}).Scale(scale.Y)
	z := rot.Rotate(Vec3{Z: 1}).Scale(scale.Z)
	return Mat4{
		x.X, y.X, z.X, pos.X,
		x.Y, y.Y, z.Y, pos.Y,
		x.Z, y.Z, z.Z, pos.Z,
		0, 0, 0, 1,
	}
}

// Mul returns m*o.
func (m Mat4) Mul(o Mat4) Mat4 {
	var r Mat4
	for i := range 4 {
		for j := range 4 {
			var s float64
			for k := range 4 {
				s += m[i*4+k] * o[k*4+j]
			}
			r[i*4+j] = s
		}
	}
	return r
}

// MulPoint transforms the point p.
func (m Mat4) MulPoint(p Vec3) Vec3 {
	return Vec3{
		m[0]*p.X + m[1]*p.Y + m[2]*p.Z + m[3],
		m[4]*p.X + m[5]*p.Y + m[6]*p.Z + m[7],
		m[8]*p.X + m[9]*p.Y + m[10]*p.Z + m[11],
	}
}

// MulDir transforms the direction d, ignoring translation.
func (m Mat4) MulDir(d Vec3) Vec3 {
	return Vec3{
		m[0]*d.X + m[1]*d.Y + m[2]*d.Z,
		m[4]*d.X + m[5]*d.Y + m[6]*d.Z,
		m[8]*d.X + m[9]*d.Y + m[10]*d.Z,
	}
}

// Translation returns the translation column of m.
func (m Mat4) Translation() Vec3 { return Vec3{m[3], m[7], m[11]} }

// Decompose splits an affine m without shear into the arguments of
// [Compose]. A negative determinant is folded into scale.X. An axis with
// zero scale is rebuilt from the other two; with more than one, the
// rotation is the identity.
func (m Mat4) Decompose() (pos Vec3, rot Quat, scale Vec3) {
	x := Vec3{m[0], m[4], m[8]}
	y := Vec3{m[1], m[5], m[9]}
	z := Vec3{m[2], m[6], m[10]}
	scale = Vec3{x.Len(), y.Len(), z.Len()}
	if x.Cross(y).Dot(z) < 0 {
		scale.X = -scale.X
	}
	pos = m.Translation()

	switch {
	case scale.X != 0 && scale.Y != 0 && scale.Z != 0:
		x, y, z = x.Scale(1/scale.X), y.Scale(1/scale.Y), z.Scale(1/scale.Z)
	case scale.X == 0 && scale.Y != 0 && scale.Z != 0:
		y, z = y.Scale(1/scale.Y), z.Scale(1/scale.Z)
		x = y.Cross(z)
	case scale.Y == 0 && scale.X != 0 && scale.Z != 0:
		x, z = x.Scale(1/scale.X), z.Scale(1/scale.Z)
		y = z.Cross(x)
	case scale.Z == 0 && scale.X != 0 && scale.Y != 0:
		x, y = x.Scale(1/scale.X), y.Scale(1/scale.Y)
		z = x.Cross(y)
	default:
		return pos, IdentityQuat(), scale
	}
	return pos, quatFromBasis(x, y, z), scale
}
