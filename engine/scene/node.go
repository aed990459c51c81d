package scene

import (
	"github.com/spaghettifunk/anima-scene/engine/containers"
	"github.com/spaghettifunk/anima-scene/engine/math"
)

// Pointer addresses a node inside a Hub. It does not keep the node alive.
type Pointer = containers.Pointer

// Node is one entry of the scene graph. Nodes are only written by the hub
// while it processes messages; everybody else reads them.
type Node struct {
	transform math.Transform
	visible   bool
	name      string
	subNode   SubNode

	// firstChild is only set on groups.
	firstChild  Pointer
	nextSibling Pointer
	parent      Pointer
}

func newNode(sub SubNode) Node {
	return Node{
		transform: math.NewTransform(),
		visible:   true,
		subNode:   sub,
	}
}

// Transform is the transform relative to the parent.
func (n *Node) Transform() math.Transform { return n.transform }

// Visible is the local visibility flag.
func (n *Node) Visible() bool { return n.visible }

func (n *Node) Name() string { return n.name }

func (n *Node) SubNode() SubNode { return n.subNode }

func (n *Node) Kind() Kind { return n.subNode.Kind() }

// FirstChild is the head of a group's child list.
func (n *Node) FirstChild() Pointer { return n.firstChild }

func (n *Node) NextSibling() Pointer { return n.nextSibling }

func (n *Node) Parent() Pointer { return n.parent }
