package math

// NewTransform returns the identity transform.
func NewTransform() Transform {
	return Transform{Rotation: NewQuatIdentity(), Scale: 1}
}

func TransformFromPosition(position Vec3) Transform {
	t := NewTransform()
	t.Position = position
	return t
}

func TransformFromRotation(rotation Quaternion) Transform {
	t := NewTransform()
	t.Rotation = rotation
	return t
}

func TransformFromPositionRotationScale(position Vec3, rotation Quaternion, scale float32) Transform {
	return Transform{Position: position, Rotation: rotation, Scale: scale}
}

// Concat returns the transform that applies child first and then t.
// Walking down a hierarchy, world(child) = world(parent).Concat(local(child)).
func (t Transform) Concat(child Transform) Transform {
	return Transform{
		Position: t.Rotation.Rotate(child.Position.MulScalar(t.Scale)).Add(t.Position),
		Rotation: t.Rotation.Mul(child.Rotation),
		Scale:    t.Scale * child.Scale,
	}
}

// TransformPoint applies t to the point p.
func (t Transform) TransformPoint(p Vec3) Vec3 {
	return t.Rotation.Rotate(p.MulScalar(t.Scale)).Add(t.Position)
}

// Inverse returns the transform undoing t. A zero scale yields the
// identity scale to avoid dividing by zero.
func (t Transform) Inverse() Transform {
	s := float32(1)
	if t.Scale != 0 {
		s = 1 / t.Scale
	}
	rot := t.Rotation.Inverse()
	return Transform{
		Position: rot.Rotate(t.Position).MulScalar(-s),
		Rotation: rot,
		Scale:    s,
	}
}

// Matrix converts t into a matrix: scale, then rotate, then translate.
func (t Transform) Matrix() Mat4 {
	out := t.Rotation.ToMat4()
	for i := 0; i < 3; i++ {
		out.Data[i*4+0] *= t.Scale
		out.Data[i*4+1] *= t.Scale
		out.Data[i*4+2] *= t.Scale
	}
	out.Data[12] = t.Position.X
	out.Data[13] = t.Position.Y
	out.Data[14] = t.Position.Z
	return out
}

// Compare reports whether t and other are equal within tolerance.
func (t Transform) Compare(other Transform, tolerance float32) bool {
	return t.Position.Compare(other.Position, tolerance) &&
		t.Rotation.Compare(other.Rotation, tolerance) &&
		kabs(t.Scale-other.Scale) <= tolerance
}
