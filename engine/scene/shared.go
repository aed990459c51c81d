package scene

import "sync"

// SharedHub guards a Hub with a mutex so spawning and frame processing can
// happen from different goroutines.
type SharedHub struct {
	mu  sync.Mutex
	hub *Hub
}

func NewSharedHub(hub *Hub) *SharedHub {
	return &SharedHub{hub: hub}
}

// Frame runs fn with exclusive access to the hub. fn typically processes
// messages and then walks the graph.
func (s *SharedHub) Frame(fn func(hub *Hub)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.hub)
}

func (s *SharedHub) Spawn(sub SubNode) *Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hub.Spawn(sub)
}

func (s *SharedHub) Upgrade(p Pointer) (*Handle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hub.Upgrade(p)
}

func (s *SharedHub) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hub.Stats()
}

func (s *SharedHub) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hub.Shutdown()
}
