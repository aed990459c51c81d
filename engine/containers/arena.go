package containers

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Pointer addresses one Arena entry. It is made of the slot index and the
// generation the slot had when the entry was created, so a Pointer to a
// reclaimed entry stops resolving instead of aliasing the slot's next
// occupant. The zero Pointer never resolves.
type Pointer struct {
	index      uint32
	generation uint32
}

// Nil is the Pointer that never resolves.
var Nil = Pointer{}

func (p Pointer) Index() uint32      { return p.index }
func (p Pointer) Generation() uint32 { return p.generation }

// IsNil reports whether p is the zero Pointer.
func (p Pointer) IsNil() bool {
	return p.generation == 0
}

func (p Pointer) String() string {
	if p.IsNil() {
		return "Pointer(nil)"
	}
	return fmt.Sprintf("Pointer(%d:%d)", p.index, p.generation)
}

// Ref is the strong reference count of an Arena entry. Retain and Release
// are safe for concurrent use; once the count drops to zero the entry is
// dead and only the arena owner may bring it back (see Arena.Retain).
type Ref struct {
	count   atomic.Int32
	index   uint32
	pending *pendingList
}

// pendingList collects the refs whose count reached zero since the last
// sweep. Entries may be revived or listed twice; the sweep checks again.
type pendingList struct {
	mu   sync.Mutex
	refs []*Ref
}

func (l *pendingList) push(r *Ref) {
	l.mu.Lock()
	l.refs = append(l.refs, r)
	l.mu.Unlock()
}

// take swaps the collected refs for buf and returns them.
func (l *pendingList) take(buf []*Ref) []*Ref {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.refs
	l.refs = buf[:0]
	return out
}

func (l *pendingList) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.refs)
}

func (r *Ref) Retain() {
	r.count.Add(1)
}

// Release drops one strong reference and returns the remaining count.
// Releasing more references than were retained panics.
func (r *Ref) Release() int32 {
	n := r.count.Add(-1)
	if n < 0 {
		panic("anima: strong reference released below zero")
	}
	if n == 0 && r.pending != nil {
		r.pending.push(r)
	}
	return n
}

func (r *Ref) Count() int32 {
	return r.count.Load()
}

type arenaSlot[T any] struct {
	value      T
	ref        *Ref
	generation uint32
	live       bool
}

// Arena is a generational store of T values. The arena owns every value;
// everybody else holds Pointers. An entry lives as long as its Ref count is
// above zero and is removed by the next SyncPending call once it drops to
// zero. Arena is not safe for concurrent use, except for the Ref values it
// hands out.
type Arena[T any] struct {
	slots   []arenaSlot[T]
	free    []uint32
	live    int
	pending *pendingList
	swept   []*Ref
}

// NewArena creates an arena with room for capacity entries.
func NewArena[T any](capacity int) *Arena[T] {
	return &Arena[T]{
		slots:   make([]arenaSlot[T], 0, capacity),
		pending: &pendingList{},
	}
}

// Create stores value and returns its Pointer along with its Ref, which
// starts with a count of one owned by the caller.
func (a *Arena[T]) Create(value T) (Pointer, *Ref) {
	var index uint32
	if n := len(a.free); n > 0 {
		index = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		index = uint32(len(a.slots))
		a.slots = append(a.slots, arenaSlot[T]{})
	}
	s := &a.slots[index]
	s.generation++
	if s.generation == 0 {
		// wrapped around, skip the nil generation
		s.generation++
	}
	s.value = value
	s.ref = &Ref{index: index, pending: a.pending}
	s.ref.Retain()
	s.live = true
	a.live++
	return Pointer{index: index, generation: s.generation}, s.ref
}

func (a *Arena[T]) slot(p Pointer) (*arenaSlot[T], bool) {
	if p.IsNil() || int(p.index) >= len(a.slots) {
		return nil, false
	}
	s := &a.slots[p.index]
	if !s.live || s.generation != p.generation {
		return nil, false
	}
	return s, true
}

// Get resolves p. It returns false when p is nil or the entry is gone.
// The returned pointer is only valid until the next Create.
func (a *Arena[T]) Get(p Pointer) (*T, bool) {
	s, ok := a.slot(p)
	if !ok {
		return nil, false
	}
	return &s.value, true
}

// MustGet resolves p and panics if it does not resolve.
func (a *Arena[T]) MustGet(p Pointer) *T {
	v, ok := a.Get(p)
	if !ok {
		panic(fmt.Sprintf("anima: stale arena pointer %v", p))
	}
	return v
}

// Contains reports whether p resolves.
func (a *Arena[T]) Contains(p Pointer) bool {
	_, ok := a.slot(p)
	return ok
}

// Ref returns the strong reference count of the entry p points to.
func (a *Arena[T]) Ref(p Pointer) (*Ref, bool) {
	s, ok := a.slot(p)
	if !ok {
		return nil, false
	}
	return s.ref, true
}

// Retain adds a strong reference to the entry p points to. Unlike
// Ref.Retain it also revives an entry whose count already dropped to zero
// but that was not swept yet.
func (a *Arena[T]) Retain(p Pointer) bool {
	s, ok := a.slot(p)
	if !ok {
		return false
	}
	s.ref.Retain()
	return true
}

// SyncPending removes every entry whose strong count is zero. onReclaim,
// if set, is called with each entry right before it is removed; releasing
// references from there is allowed and makes the sweep continue until no
// zero-count entry is left. It returns the number of removed entries.
// Only entries released since the last call are visited.
func (a *Arena[T]) SyncPending(onReclaim func(Pointer, *T)) int {
	total := 0
	for {
		batch := a.pending.take(a.swept)
		if len(batch) == 0 {
			a.swept = batch
			return total
		}
		for i, r := range batch {
			batch[i] = nil
			s := &a.slots[r.index]
			// revived, already removed, or a ref of a former occupant
			if !s.live || s.ref != r || r.Count() > 0 {
				continue
			}
			if onReclaim != nil {
				onReclaim(Pointer{index: r.index, generation: s.generation}, &s.value)
			}
			var zero T
			s.value = zero
			s.ref = nil
			s.live = false
			a.free = append(a.free, r.index)
			a.live--
			total++
		}
		a.swept = batch
	}
}

// Pending returns the number of released entries waiting for SyncPending,
// counting revived and duplicate ones.
func (a *Arena[T]) Pending() int {
	return a.pending.len()
}

// Len returns the number of live entries.
func (a *Arena[T]) Len() int {
	return a.live
}

// Cap returns the number of slots, live or free.
func (a *Arena[T]) Cap() int {
	return len(a.slots)
}

// Each calls fn for every live entry in slot order.
func (a *Arena[T]) Each(fn func(Pointer, *T)) {
	for i := range a.slots {
		s := &a.slots[i]
		if s.live {
			fn(Pointer{index: uint32(i), generation: s.generation}, &s.value)
		}
	}
}
