package scene

import (
	"iter"

	"github.com/spaghettifunk/anima-scene/engine/containers"
	"github.com/spaghettifunk/anima-scene/engine/math"
)

// WalkedNode is a node seen by a TreeWalker together with its world state
// for this traversal.
type WalkedNode struct {
	Pointer        Pointer
	Node           *Node
	WorldVisible   bool
	WorldTransform math.Transform
}

const defaultStackSize = 10

// TreeWalker visits a subtree depth first without recursion. A node is
// returned once everything below it has been returned. It is single use
// and must not outlive the frame it was created in: processing messages or
// spawning nodes invalidates it.
type TreeWalker struct {
	nodes       *containers.Arena[Node]
	onlyVisible bool
	stack       []WalkedNode
}

// Walk visits the visible part of the subtree rooted at root. Nodes whose
// own flag is false are skipped along with everything below them.
func (h *Hub) Walk(root Pointer) *TreeWalker {
	return h.walk(root, true)
}

// WalkAll visits the whole subtree rooted at root.
func (h *Hub) WalkAll(root Pointer) *TreeWalker {
	return h.walk(root, false)
}

func (h *Hub) walk(root Pointer, onlyVisible bool) *TreeWalker {
	w := &TreeWalker{
		nodes:       h.nodes,
		onlyVisible: onlyVisible,
		stack:       make([]WalkedNode, 0, defaultStackSize),
	}
	w.descend(root)
	return w
}

// descend pushes ptr and then its chain of first children, each with world
// state derived from the frame below it.
func (w *TreeWalker) descend(ptr Pointer) {
	if ptr.IsNil() {
		return
	}
	node, ok := w.nodes.Get(ptr)
	if !ok {
		return
	}
	for {
		wn := WalkedNode{
			Pointer:        ptr,
			Node:           node,
			WorldVisible:   node.visible,
			WorldTransform: node.transform,
		}
		if n := len(w.stack); n > 0 {
			parent := &w.stack[n-1]
			wn.WorldVisible = parent.WorldVisible && node.visible
			wn.WorldTransform = parent.WorldTransform.Concat(node.transform)
		}
		w.stack = append(w.stack, wn)

		if w.onlyVisible && !node.visible {
			return
		}
		if _, ok := node.subNode.(*Group); !ok || node.firstChild.IsNil() {
			return
		}
		ptr = node.firstChild
		node = w.nodes.MustGet(ptr)
	}
}

// Next returns the next node, or false when the traversal is over.
func (w *TreeWalker) Next() (WalkedNode, bool) {
	for len(w.stack) > 0 {
		top := w.stack[len(w.stack)-1]
		w.stack = w.stack[:len(w.stack)-1]
		// the root's siblings are not part of its subtree
		if len(w.stack) > 0 {
			w.descend(top.Node.nextSibling)
		}
		if !w.onlyVisible || top.WorldVisible {
			return top, true
		}
	}
	return WalkedNode{}, false
}

// Seq returns the remaining nodes as an iterator.
func (w *TreeWalker) Seq() iter.Seq[WalkedNode] {
	return func(yield func(WalkedNode) bool) {
		for {
			wn, ok := w.Next()
			if !ok || !yield(wn) {
				return
			}
		}
	}
}

// Collect drains the walker into a slice.
func (w *TreeWalker) Collect() []WalkedNode {
	var out []WalkedNode
	for wn := range w.Seq() {
		out = append(out, wn)
	}
	return out
}
