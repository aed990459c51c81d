package scene

import "fmt"

// Kind tells which payload a node carries.
type Kind int

const (
	KIND_GROUP Kind = iota
	KIND_CAMERA
	KIND_VISUAL
	KIND_LIGHT
	KIND_BONE
	KIND_SKELETON
	KIND_TEXT
)

func (k Kind) String() string {
	switch k {
	case KIND_GROUP:
		return "group"
	case KIND_CAMERA:
		return "camera"
	case KIND_VISUAL:
		return "visual"
	case KIND_LIGHT:
		return "light"
	case KIND_BONE:
		return "bone"
	case KIND_SKELETON:
		return "skeleton"
	case KIND_TEXT:
		return "text"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// SubNode is the kind specific payload of a node. The set of payloads is
// closed: *Group, *Camera, *Visual, *Light, *Bone, *Skeleton and *UiText.
type SubNode interface {
	Kind() Kind
	// clone returns a copy the hub can own.
	clone() SubNode
}

// Group is the payload of nodes that can have children.
type Group struct{}

func NewGroup() *Group {
	return &Group{}
}

func (*Group) Kind() Kind { return KIND_GROUP }

func (*Group) clone() SubNode { return &Group{} }
