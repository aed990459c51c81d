package scene

import (
	"github.com/google/uuid"
	"github.com/spaghettifunk/anima-scene/engine/math"
)

// Bone is the payload of a single joint of a skeleton.
type Bone struct {
	Index             int
	InverseBindMatrix math.Mat4
}

func NewBone(index int, inverseBindMatrix math.Mat4) *Bone {
	return &Bone{Index: index, InverseBindMatrix: inverseBindMatrix}
}

func (*Bone) Kind() Kind { return KIND_BONE }

func (b *Bone) clone() SubNode {
	out := *b
	return &out
}

// Skeleton is the payload of skeleton roots. Buffer names the GPU buffer
// holding the joint matrices.
type Skeleton struct {
	Bones  int
	Buffer uuid.UUID
}

func NewSkeleton(bones int) *Skeleton {
	return &Skeleton{Bones: bones, Buffer: uuid.New()}
}

func (*Skeleton) Kind() Kind { return KIND_SKELETON }

func (s *Skeleton) clone() SubNode {
	out := *s
	return &out
}
