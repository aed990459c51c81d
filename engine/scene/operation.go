package scene

import (
	"github.com/spaghettifunk/anima-scene/engine/containers"
	"github.com/spaghettifunk/anima-scene/engine/math"
)

// operation is one queued change to a node.
type operation interface {
	name() string
}

// Operations that carry another node also carry a strong reference to it,
// taken when they are sent. The hub either turns that reference into a
// link or releases it.
type (
	opAddChild struct {
		child Pointer
		ref   *containers.Ref
	}
	opRemoveChild struct {
		child Pointer
		ref   *containers.Ref
	}
	opSetSkeleton struct {
		skeleton Pointer
		ref      *containers.Ref
	}

	opSetVisible struct {
		visible bool
	}
	// opSetTransform leaves nil fields unchanged.
	opSetTransform struct {
		position *math.Vec3
		rotation *math.Quaternion
		scale    *float32
	}
	opSetMaterial struct {
		material Material
	}
	opSetShadow struct {
		shadow Shadow
	}
	opSetTexelRange struct {
		base [2]int16
		size [2]uint16
	}
	opSetWeights struct {
		weights []float32
	}
	opSetName struct {
		value string
	}
	opSetProjection struct {
		projection Projection
	}
	opSetLight struct {
		op LightOperation
	}
	opSetText struct {
		op TextOperation
	}
)

func (opAddChild) name() string      { return "AddChild" }
func (opRemoveChild) name() string   { return "RemoveChild" }
func (opSetSkeleton) name() string   { return "SetSkeleton" }
func (opSetVisible) name() string    { return "SetVisible" }
func (opSetTransform) name() string  { return "SetTransform" }
func (opSetMaterial) name() string   { return "SetMaterial" }
func (opSetShadow) name() string     { return "SetShadow" }
func (opSetTexelRange) name() string { return "SetTexelRange" }
func (opSetWeights) name() string    { return "SetWeights" }
func (opSetName) name() string       { return "SetName" }
func (opSetProjection) name() string { return "SetProjection" }
func (opSetLight) name() string      { return "SetLight" }
func (opSetText) name() string       { return "SetText" }

// releaseOperation drops the reference an unapplied operation holds.
func releaseOperation(op operation) {
	switch o := op.(type) {
	case opAddChild:
		o.ref.Release()
	case opRemoveChild:
		o.ref.Release()
	case opSetSkeleton:
		o.ref.Release()
	}
}

type message struct {
	target Pointer
	op     operation
}
