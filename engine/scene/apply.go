package scene

import (
	"fmt"

	"github.com/spaghettifunk/anima-scene/engine/containers"
	"github.com/spaghettifunk/anima-scene/engine/core"
)

// ProcessMessages applies every message queued so far, in the order they
// were sent, then removes the nodes nothing refers to anymore. Messages
// sent while it runs are left for the next call.
func (h *Hub) ProcessMessages() {
	h.batch = h.mailbox.drain(h.batch[:0])
	for i := range h.batch {
		h.apply(h.batch[i])
		h.batch[i] = message{}
	}
	if n := h.nodes.SyncPending(h.reclaim); n > 0 {
		h.logger.Debug("nodes reclaimed", "count", n, "live", h.nodes.Len())
	}
}

func (h *Hub) apply(msg message) {
	node, ok := h.nodes.Get(msg.target)
	if !ok {
		releaseOperation(msg.op)
		h.stats.Stale++
		h.logger.Debug("dropping message for a removed node", "op", msg.op.name(), "node", msg.target)
		h.fire(core.EVENT_CODE_MESSAGE_STALE, msg.target, msg.op.name())
		return
	}

	switch op := msg.op.(type) {
	case opSetVisible:
		node.visible = op.visible
	case opSetTransform:
		if op.position != nil {
			node.transform.Position = *op.position
		}
		if op.rotation != nil {
			node.transform.Rotation = *op.rotation
		}
		if op.scale != nil {
			node.transform.Scale = *op.scale
		}
	case opSetName:
		node.name = op.value
	case opAddChild:
		if !h.addChild(msg, node, op) {
			return
		}
	case opRemoveChild:
		ok := h.removeChild(msg, node, op)
		op.ref.Release()
		if !ok {
			return
		}
	case opSetMaterial:
		v, ok := node.subNode.(*Visual)
		if !ok {
			h.mismatch(msg, node)
			return
		}
		v.Material = op.material
	case opSetSkeleton:
		if !h.setSkeleton(msg, node, op) {
			return
		}
	case opSetShadow:
		l, ok := node.subNode.(*Light)
		if !ok {
			h.mismatch(msg, node)
			return
		}
		shadow := op.shadow
		l.Shadow = &shadow
	case opSetTexelRange:
		v, ok := node.subNode.(*Visual)
		if !ok {
			h.mismatch(msg, node)
			return
		}
		sprite, ok := v.Material.(SpriteMaterial)
		if !ok {
			h.mismatch(msg, node)
			return
		}
		sprite.Map.SetTexelRange(op.base, op.size)
		v.Material = sprite
	case opSetWeights:
		h.setWeights(node, op.weights)
	case opSetProjection:
		c, ok := node.subNode.(*Camera)
		if !ok {
			h.mismatch(msg, node)
			return
		}
		c.Projection = op.projection
	case opSetLight:
		l, ok := node.subNode.(*Light)
		if !ok {
			h.mismatch(msg, node)
			return
		}
		op.op.apply(l)
	case opSetText:
		t, ok := node.subNode.(*UiText)
		if !ok {
			h.mismatch(msg, node)
			return
		}
		op.op.apply(t)
	default:
		panic(fmt.Sprintf("anima: unknown operation %T", msg.op))
	}
	h.stats.Applied++
}

// mismatch reports an operation that does not fit the kind of its target.
// The caller must not have written anything.
func (h *Hub) mismatch(msg message, node *Node) {
	h.stats.Mismatched++
	err := fmt.Errorf("%w: %s sent to %s node %v", ErrKindMismatch, msg.op.name(), node.Kind(), msg.target)
	h.fire(core.EVENT_CODE_KIND_MISMATCH, msg.target, msg.op.name(), node.Kind().String())
	if h.config.StrictKinds {
		panic("anima: " + err.Error())
	}
	h.logger.Error(err.Error())
}

// owned resolves p and checks that ref is still the reference count of
// the node it points to.
func (h *Hub) owned(p Pointer, ref *containers.Ref) (*Node, bool) {
	n, ok := h.nodes.Get(p)
	if !ok {
		return nil, false
	}
	r, _ := h.nodes.Ref(p)
	if r != ref {
		return nil, false
	}
	return n, true
}

func (h *Hub) addChild(msg message, group *Node, op opAddChild) bool {
	if _, ok := group.subNode.(*Group); !ok {
		op.ref.Release()
		h.mismatch(msg, group)
		return false
	}
	child, ok := h.owned(op.child, op.ref)
	if !ok {
		op.ref.Release()
		h.stats.Stale++
		h.logger.Debug("dropping AddChild of a removed node", "group", msg.target, "child", op.child)
		return false
	}
	if h.isAncestor(op.child, msg.target) {
		op.ref.Release()
		h.stats.Refused++
		h.logger.Error("refusing to add a node below itself", "group", msg.target, "child", op.child)
		return false
	}

	if !child.parent.IsNil() {
		h.stats.Conflicts++
		h.logger.Warn("node added to a group while still having a parent, moving it",
			"child", op.child, "kind", child.Kind(), "from", child.parent, "to", msg.target)
		h.fireEvent(eventArgs{code: core.EVENT_CODE_STRUCTURE_CONFLICT, target: op.child, other: child.parent})
		if old, ok := h.nodes.Get(child.parent); ok {
			h.unlink(old, op.child, child)
		}
	}

	// the reference taken by the sender becomes the link to the child, and
	// the group's link to its old first child moves to the child
	child.nextSibling = group.firstChild
	child.parent = msg.target
	group.firstChild = op.child
	return true
}

func (h *Hub) removeChild(msg message, group *Node, op opRemoveChild) bool {
	if _, ok := group.subNode.(*Group); !ok {
		h.mismatch(msg, group)
		return false
	}
	child, ok := h.owned(op.child, op.ref)
	if ok && h.unlink(group, op.child, child) {
		return true
	}
	h.stats.MissingChildren++
	h.logger.Warn("unable to find child for removal", "group", msg.target, "child", op.child)
	h.fireEvent(eventArgs{code: core.EVENT_CODE_MISSING_CHILD, target: msg.target, other: op.child})
	return false
}

// unlink splices child out of parent's child list and drops the link that
// held it. It reports whether child was found.
func (h *Hub) unlink(parent *Node, childPtr Pointer, child *Node) bool {
	link := &parent.firstChild
	for !link.IsNil() {
		if *link == childPtr {
			*link = child.nextSibling
			child.nextSibling = Pointer{}
			child.parent = Pointer{}
			if ref, ok := h.nodes.Ref(childPtr); ok {
				ref.Release()
			}
			return true
		}
		link = &h.nodes.MustGet(*link).nextSibling
	}
	return false
}

// isAncestor reports whether p is node or one of its ancestors.
func (h *Hub) isAncestor(p, node Pointer) bool {
	for cur := node; !cur.IsNil(); {
		if cur == p {
			return true
		}
		n, ok := h.nodes.Get(cur)
		if !ok {
			return false
		}
		cur = n.parent
	}
	return false
}

func (h *Hub) setSkeleton(msg message, node *Node, op opSetSkeleton) bool {
	v, ok := node.subNode.(*Visual)
	if !ok {
		op.ref.Release()
		h.mismatch(msg, node)
		return false
	}
	skeleton, ok := h.owned(op.skeleton, op.ref)
	if !ok {
		op.ref.Release()
		h.stats.Stale++
		return false
	}
	if _, ok := skeleton.subNode.(*Skeleton); !ok {
		op.ref.Release()
		h.mismatch(msg, skeleton)
		return false
	}
	if v.skeletonRef != nil {
		v.skeletonRef.Release()
	}
	v.skeleton = op.skeleton
	v.skeletonRef = op.ref
	return true
}

// setWeights applies weights to a mesh, or to the meshes directly below a
// group. Other kinds ignore them.
func (h *Hub) setWeights(node *Node, weights []float32) {
	switch sub := node.subNode.(type) {
	case *Visual:
		sub.setWeights(weights)
	case *Group:
		for c := node.firstChild; !c.IsNil(); {
			child := h.nodes.MustGet(c)
			if v, ok := child.subNode.(*Visual); ok {
				v.setWeights(weights)
			}
			c = child.nextSibling
		}
	}
}

// reclaim runs for every node the arena is about to remove and releases
// the links it holds. Surviving children become roots.
func (h *Hub) reclaim(p Pointer, n *Node) {
	for c := n.firstChild; !c.IsNil(); {
		child := h.nodes.MustGet(c)
		next := child.nextSibling
		child.nextSibling = Pointer{}
		child.parent = Pointer{}
		if ref, ok := h.nodes.Ref(c); ok {
			ref.Release()
		}
		c = next
	}
	n.firstChild = Pointer{}
	if v, ok := n.subNode.(*Visual); ok && v.skeletonRef != nil {
		v.skeletonRef.Release()
		v.skeletonRef = nil
	}
	h.stats.Reclaimed++
	h.logger.Debug("node reclaimed", "node", p, "kind", n.Kind())
	h.fire(core.EVENT_CODE_NODE_RECLAIMED, p, n.Kind().String())
}
