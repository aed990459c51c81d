package math

// NewQuatIdentity creates an identity quaternion.
func NewQuatIdentity() Quaternion {
	return Quaternion{0, 0, 0, 1.0}
}

// Normal returns the length of q.
func (q Quaternion) Normal() float32 {
	return ksqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
}

// Normalize returns a normalized copy of q.
func (q Quaternion) Normalize() Quaternion {
	normal := q.Normal()
	if normal == 0 {
		return NewQuatIdentity()
	}
	return Quaternion{q.X / normal, q.Y / normal, q.Z / normal, q.W / normal}
}

// Conjugate negates x, y and z, leaving w untouched.
func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{-q.X, -q.Y, -q.Z, q.W}
}

func (q Quaternion) Inverse() Quaternion {
	return q.Conjugate().Normalize()
}

// Mul returns the Hamilton product q*other, which rotates by other first
// and then by q.
func (q Quaternion) Mul(other Quaternion) Quaternion {
	return Quaternion{
		X: q.X*other.W + q.Y*other.Z - q.Z*other.Y + q.W*other.X,
		Y: -q.X*other.Z + q.Y*other.W + q.Z*other.X + q.W*other.Y,
		Z: q.X*other.Y - q.Y*other.X + q.Z*other.W + q.W*other.Z,
		W: -q.X*other.X - q.Y*other.Y - q.Z*other.Z + q.W*other.W,
	}
}

func (q Quaternion) Dot(other Quaternion) float32 {
	return q.X*other.X + q.Y*other.Y + q.Z*other.Z + q.W*other.W
}

// Rotate rotates v by q. q must be normalized.
func (q Quaternion) Rotate(v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).MulScalar(2)
	return v.Add(t.MulScalar(q.W)).Add(u.Cross(t))
}

// Compare reports whether q and other describe the same rotation
// within tolerance. q and -q are the same rotation.
func (q Quaternion) Compare(other Quaternion, tolerance float32) bool {
	return kabs(q.Dot(other)) >= 1-tolerance
}

// ToMat4 creates a rotation matrix from q.
func (q Quaternion) ToMat4() Mat4 {
	n := q.Normalize()
	out := NewMat4Identity()

	out.Data[0] = 1.0 - 2.0*n.Y*n.Y - 2.0*n.Z*n.Z
	out.Data[1] = 2.0*n.X*n.Y + 2.0*n.Z*n.W
	out.Data[2] = 2.0*n.X*n.Z - 2.0*n.Y*n.W

	out.Data[4] = 2.0*n.X*n.Y - 2.0*n.Z*n.W
	out.Data[5] = 1.0 - 2.0*n.X*n.X - 2.0*n.Z*n.Z
	out.Data[6] = 2.0*n.Y*n.Z + 2.0*n.X*n.W

	out.Data[8] = 2.0*n.X*n.Z + 2.0*n.Y*n.W
	out.Data[9] = 2.0*n.Y*n.Z - 2.0*n.X*n.W
	out.Data[10] = 1.0 - 2.0*n.X*n.X - 2.0*n.Y*n.Y

	return out
}

// NewQuatFromAxisAngle creates a quaternion rotating angle radians
// around axis.
func NewQuatFromAxisAngle(axis Vec3, angle float32, normalize bool) Quaternion {
	halfAngle := 0.5 * angle
	s := ksin(halfAngle)
	c := kcos(halfAngle)

	q := Quaternion{s * axis.X, s * axis.Y, s * axis.Z, c}
	if normalize {
		q = q.Normalize()
	}
	return q
}

// NewQuatFromBasis creates the rotation that maps the local x, y and z
// axes onto the given orthonormal axes.
func NewQuatFromBasis(x, y, z Vec3) Quaternion {
	// r[row][col] with the axes as columns
	r00, r01, r02 := x.X, y.X, z.X
	r10, r11, r12 := x.Y, y.Y, z.Y
	r20, r21, r22 := x.Z, y.Z, z.Z

	var q Quaternion
	switch trace := r00 + r11 + r22; {
	case trace > 0:
		s := ksqrt(trace+1) * 2
		q = Quaternion{(r21 - r12) / s, (r02 - r20) / s, (r10 - r01) / s, 0.25 * s}
	case r00 > r11 && r00 > r22:
		s := ksqrt(1+r00-r11-r22) * 2
		q = Quaternion{0.25 * s, (r01 + r10) / s, (r02 + r20) / s, (r21 - r12) / s}
	case r11 > r22:
		s := ksqrt(1+r11-r00-r22) * 2
		q = Quaternion{(r01 + r10) / s, 0.25 * s, (r12 + r21) / s, (r02 - r20) / s}
	default:
		s := ksqrt(1+r22-r00-r11) * 2
		q = Quaternion{(r02 + r20) / s, (r12 + r21) / s, 0.25 * s, (r10 - r01) / s}
	}
	return q.Normalize()
}

// NewQuatLookAt returns the orientation whose -Z axis points from eye
// towards target, keeping +Y as close to up as possible.
func NewQuatLookAt(eye, target, up Vec3) Quaternion {
	z := eye.Sub(target).Normalized()
	x := up.Cross(z).Normalized()
	y := z.Cross(x)
	return NewQuatFromBasis(x, y, z)
}
