package scene

import (
	"sync"

	"github.com/spaghettifunk/anima-scene/engine/containers"
)

// mailbox is the queue every handle of a hub sends into. Any number of
// goroutines may send; only the hub receives. Sends never block.
type mailbox struct {
	mu     sync.Mutex
	queue  *containers.RingQueue[message]
	closed bool
}

func newMailbox(capacity int) *mailbox {
	return &mailbox{
		queue: containers.NewRingQueue[message](capacity),
	}
}

// send queues msg. It returns false once the mailbox is closed.
func (m *mailbox) send(msg message) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return false
	}
	m.queue.Enqueue(msg)
	return true
}

// drain appends every queued message to dst in the order they were sent.
func (m *mailbox) drain(dst []message) []message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queue.DrainTo(dst)
}

func (m *mailbox) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queue.Len()
}

// close stops accepting messages and returns the ones still queued.
func (m *mailbox) close() []message {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return m.queue.DrainTo(nil)
}
