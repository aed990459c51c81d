package math

// Vec2 represents a 2D vector
type Vec2 struct {
	X, Y float32
}

// Vec3 represents a 3D vector
type Vec3 struct {
	X, Y, Z float32
}

// Vec4 represents a 4D vector
type Vec4 struct {
	X, Y, Z, W float32
}

// Quaternion is used to represent rotational orientation.
// The identity rotation is {0, 0, 0, 1}.
type Quaternion Vec4

// Mat4 is a 4x4 matrix stored row by row. Points are treated as row
// vectors, so the translation lives in Data[12], Data[13] and Data[14]
// and a.Mul(b) applies a first and then b.
type Mat4 struct {
	Data [16]float32
}

/**
 * @brief Represents the local transform of a scene node: a displacement,
 * a rotation and a uniform scale. Two transforms concatenate into another
 * Transform without loss.
 */
type Transform struct {
	/** @brief The displacement (translation). */
	Position Vec3
	/** @brief The orientation. */
	Rotation Quaternion
	/** @brief The uniform scale factor. */
	Scale float32
}
