package scene

import (
	"sync/atomic"

	"github.com/spaghettifunk/anima-scene/engine/containers"
	"github.com/spaghettifunk/anima-scene/engine/core"
	"github.com/spaghettifunk/anima-scene/engine/math"
	"github.com/spaghettifunk/anima-scene/engine/text"
)

// Handle is a user facing reference to one node. It keeps the node alive
// until Release is called, and turns every setter into a message the hub
// applies on its next ProcessMessages. Handles are safe for concurrent use;
// messages sent through one handle are applied in the order they were sent.
type Handle struct {
	ptr      Pointer
	ref      *containers.Ref
	mailbox  *mailbox
	released atomic.Bool
}

func newHandle(ptr Pointer, ref *containers.Ref, mb *mailbox) *Handle {
	return &Handle{ptr: ptr, ref: ref, mailbox: mb}
}

// Pointer returns the address of the node. Two handles to the same node
// return the same Pointer.
func (h *Handle) Pointer() Pointer {
	return h.ptr
}

// Equal reports whether h and other refer to the same node.
func (h *Handle) Equal(other *Handle) bool {
	if h == nil || other == nil {
		return h == other
	}
	return h.ptr == other.ptr
}

// Clone returns another handle to the same node.
func (h *Handle) Clone() *Handle {
	h.mustBeLive()
	h.ref.Retain()
	return newHandle(h.ptr, h.ref, h.mailbox)
}

// Release gives up this handle's ownership of the node. Once no handle,
// parent or pending message holds the node it is removed on the next
// ProcessMessages. Calling Release again does nothing.
func (h *Handle) Release() {
	if h.released.CompareAndSwap(false, true) {
		h.ref.Release()
	}
}

func (h *Handle) Released() bool {
	return h.released.Load()
}

func (h *Handle) mustBeLive() {
	if h.released.Load() {
		panic("anima: use of released handle " + h.ptr.String())
	}
}

func (h *Handle) send(op operation) {
	h.mustBeLive()
	if !h.mailbox.send(message{target: h.ptr, op: op}) {
		releaseOperation(op)
		core.LogDebug("hub is shut down, dropping %s for %v", op.name(), h.ptr)
	}
}

// retain takes a reference to other for an operation carrying it.
func (h *Handle) retain(other *Handle) (Pointer, *containers.Ref) {
	h.mustBeLive()
	other.mustBeLive()
	other.ref.Retain()
	return other.ptr, other.ref
}

func (h *Handle) SetVisible(visible bool) {
	h.send(opSetVisible{visible: visible})
}

func (h *Handle) SetPosition(position math.Vec3) {
	h.send(opSetTransform{position: &position})
}

func (h *Handle) SetOrientation(rotation math.Quaternion) {
	h.send(opSetTransform{rotation: &rotation})
}

func (h *Handle) SetScale(scale float32) {
	h.send(opSetTransform{scale: &scale})
}

// SetTransform replaces the whole local transform.
func (h *Handle) SetTransform(position math.Vec3, rotation math.Quaternion, scale float32) {
	h.send(opSetTransform{position: &position, rotation: &rotation, scale: &scale})
}

// LookAt moves the node to eye and turns its forward axis (-Z) towards
// target.
func (h *Handle) LookAt(eye, target, up math.Vec3) {
	rotation := math.NewQuatLookAt(eye, target, up)
	h.send(opSetTransform{position: &eye, rotation: &rotation})
}

func (h *Handle) SetName(name string) {
	h.send(opSetName{value: name})
}

// Add makes child the first child of this group. A child that already has
// a parent is moved.
func (h *Handle) Add(child *Handle) {
	ptr, ref := h.retain(child)
	h.send(opAddChild{child: ptr, ref: ref})
}

// Remove unlinks child from this group.
func (h *Handle) Remove(child *Handle) {
	ptr, ref := h.retain(child)
	h.send(opRemoveChild{child: ptr, ref: ref})
}

func (h *Handle) SetMaterial(material Material) {
	h.send(opSetMaterial{material: material})
}

// SetSkeleton binds this mesh to a skeleton node.
func (h *Handle) SetSkeleton(skeleton *Handle) {
	ptr, ref := h.retain(skeleton)
	h.send(opSetSkeleton{skeleton: ptr, ref: ref})
}

func (h *Handle) SetShadow(shadowMap ShadowMap, projection Orthographic) {
	h.send(opSetShadow{shadow: Shadow{Map: shadowMap, Projection: projection}})
}

// SetTexelRange selects the part of a sprite's texture that is drawn.
func (h *Handle) SetTexelRange(base [2]int16, size [2]uint16) {
	h.send(opSetTexelRange{base: base, size: size})
}

// SetWeights sets the blend shape weights of a mesh, or of every mesh that
// is a direct child of a group.
func (h *Handle) SetWeights(weights []float32) {
	h.send(opSetWeights{weights: append([]float32(nil), weights...)})
}

func (h *Handle) SetProjection(projection Projection) {
	h.send(opSetProjection{projection: projection})
}

func (h *Handle) SetLightColor(color Color) {
	h.send(opSetLight{op: LightColor(color)})
}

func (h *Handle) SetLightIntensity(intensity float32) {
	h.send(opSetLight{op: LightIntensity(intensity)})
}

func (h *Handle) SetText(s string) {
	h.send(opSetText{op: TextString(s)})
}

func (h *Handle) SetTextColor(color Color) {
	h.send(opSetText{op: TextColor(color)})
}

func (h *Handle) SetTextFont(font text.Font) {
	h.send(opSetText{op: TextFont{Font: font}})
}

func (h *Handle) SetTextLayout(layout text.Layout) {
	h.send(opSetText{op: TextLayout(layout)})
}

func (h *Handle) SetTextOpacity(opacity float32) {
	h.send(opSetText{op: TextOpacity(opacity)})
}

func (h *Handle) SetTextPosition(position math.Vec2) {
	h.send(opSetText{op: TextPosition(position)})
}

func (h *Handle) SetTextScale(scale float32) {
	h.send(opSetText{op: TextScale(scale)})
}

func (h *Handle) SetTextSize(size math.Vec2) {
	h.send(opSetText{op: TextSize(size)})
}
