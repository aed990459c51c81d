package scene

import (
	"github.com/google/uuid"
	"github.com/spaghettifunk/anima-scene/engine/containers"
)

// DisplacementContribution is one blend shape of a mesh and its weight.
type DisplacementContribution struct {
	Buffer uuid.UUID
	Weight float32
}

// GpuData names the GPU buffers a mesh is drawn from.
type GpuData struct {
	VertexBuffer   uuid.UUID
	InstanceBuffer uuid.UUID
	Displacements  []DisplacementContribution
}

// NewGpuData allocates buffer ids for a mesh with the given number of
// blend shapes.
func NewGpuData(displacements int) GpuData {
	g := GpuData{
		VertexBuffer:   uuid.New(),
		InstanceBuffer: uuid.New(),
		Displacements:  make([]DisplacementContribution, displacements),
	}
	for i := range g.Displacements {
		g.Displacements[i].Buffer = uuid.New()
	}
	return g
}

// Visual is the payload of renderable nodes.
type Visual struct {
	Material Material
	Gpu      GpuData

	skeleton    containers.Pointer
	skeletonRef *containers.Ref
}

func NewVisual(material Material, gpu GpuData) *Visual {
	return &Visual{Material: material, Gpu: gpu}
}

// Skeleton returns the skeleton node the mesh is bound to, if any.
func (v *Visual) Skeleton() containers.Pointer {
	return v.skeleton
}

// Weights returns the current blend shape weights.
func (v *Visual) Weights() []float32 {
	out := make([]float32, len(v.Gpu.Displacements))
	for i, d := range v.Gpu.Displacements {
		out[i] = d.Weight
	}
	return out
}

// setWeights assigns weights in order; missing entries become zero.
func (v *Visual) setWeights(weights []float32) {
	for i := range v.Gpu.Displacements {
		var w float32
		if i < len(weights) {
			w = weights[i]
		}
		v.Gpu.Displacements[i].Weight = w
	}
}

func (*Visual) Kind() Kind { return KIND_VISUAL }

func (v *Visual) clone() SubNode {
	out := *v
	out.Gpu.Displacements = append([]DisplacementContribution(nil), v.Gpu.Displacements...)
	out.skeleton = containers.Nil
	out.skeletonRef = nil
	return &out
}
