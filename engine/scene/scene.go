package scene

import "sync/atomic"

// Scene is the root group the renderer walks from, plus the color the
// frame is cleared with.
type Scene struct {
	root       *Handle
	background atomic.Uint32
}

func NewScene(hub *Hub) *Scene {
	s := &Scene{root: hub.SpawnGroup()}
	s.root.SetName("scene")
	return s
}

func (s *Scene) Root() *Handle {
	return s.root
}

func (s *Scene) Pointer() Pointer {
	return s.root.Pointer()
}

// Add attaches node to the root of the scene.
func (s *Scene) Add(node *Handle) {
	s.root.Add(node)
}

func (s *Scene) Remove(node *Handle) {
	s.root.Remove(node)
}

func (s *Scene) SetBackground(color Color) {
	s.background.Store(uint32(color))
}

func (s *Scene) Background() Color {
	return Color(s.background.Load())
}

// Walk visits the visible nodes of the scene.
func (s *Scene) Walk(hub *Hub) *TreeWalker {
	return hub.Walk(s.root.Pointer())
}

// Release drops the scene's hold on its root group.
func (s *Scene) Release() {
	s.root.Release()
}
