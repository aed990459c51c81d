package scene

import "github.com/spaghettifunk/anima-scene/engine/math"

// Projection is the lens of a Camera. It is one of Perspective or
// Orthographic.
type Projection interface {
	// Matrix builds the projection for a viewport of the given aspect
	// ratio (width / height).
	Matrix(aspect float32) math.Mat4
	projection()
}

// Perspective is a perspective projection. FovY is the vertical field of
// view in degrees. A Far of zero or less means no far plane.
type Perspective struct {
	FovY float32
	Near float32
	Far  float32
}

func (p Perspective) Matrix(aspect float32) math.Mat4 {
	return math.NewMat4Perspective(math.DegToRad(p.FovY), aspect, p.Near, p.Far)
}

func (p Perspective) Infinite() bool {
	return p.Far <= 0
}

func (Perspective) projection() {}

// Orthographic is an orthographic projection centered on Center, reaching
// ExtentY up and down. The horizontal extent follows the aspect ratio.
type Orthographic struct {
	Center  math.Vec2
	ExtentY float32
	Near    float32
	Far     float32
}

func (o Orthographic) Matrix(aspect float32) math.Mat4 {
	extentX := aspect * o.ExtentY
	return math.NewMat4Orthographic(
		o.Center.X-extentX, o.Center.X+extentX,
		o.Center.Y-o.ExtentY, o.Center.Y+o.ExtentY,
		o.Near, o.Far,
	)
}

func (Orthographic) projection() {}

// Camera is the payload of camera nodes.
type Camera struct {
	Projection Projection
}

func NewPerspectiveCamera(fovY, near, far float32) *Camera {
	return &Camera{Projection: Perspective{FovY: fovY, Near: near, Far: far}}
}

func NewOrthographicCamera(center math.Vec2, extentY, near, far float32) *Camera {
	return &Camera{Projection: Orthographic{Center: center, ExtentY: extentY, Near: near, Far: far}}
}

func (*Camera) Kind() Kind { return KIND_CAMERA }

func (c *Camera) clone() SubNode {
	out := *c
	return &out
}
