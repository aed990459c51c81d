package containers

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArenaCreateGet(t *testing.T) {
	a := NewArena[string](0)
	p, ref := a.Create("root")
	require.NotNil(t, ref)
	assert.False(t, p.IsNil())
	assert.Equal(t, int32(1), ref.Count())

	v, ok := a.Get(p)
	require.True(t, ok)
	assert.Equal(t, "root", *v)
	assert.Equal(t, 1, a.Len())

	_, ok = a.Get(Nil)
	assert.False(t, ok)
	assert.Panics(t, func() { a.MustGet(Nil) })
}

func TestArenaReclaimBumpsGeneration(t *testing.T) {
	a := NewArena[int](0)
	p, ref := a.Create(7)
	ref.Release()

	// still resolvable until the sweep
	assert.True(t, a.Contains(p))
	assert.Equal(t, 1, a.SyncPending(nil))
	assert.False(t, a.Contains(p))
	assert.Equal(t, 0, a.Len())

	q, _ := a.Create(8)
	assert.Equal(t, p.Index(), q.Index())
	assert.NotEqual(t, p.Generation(), q.Generation())
	_, ok := a.Get(p)
	assert.False(t, ok)
	assert.Equal(t, 8, *a.MustGet(q))
	assert.Equal(t, 1, a.Cap())
}

func TestArenaSyncPendingCascades(t *testing.T) {
	type link struct {
		next Pointer
	}
	a := NewArena[link](0)
	// the initial counts of tail and mid stand for the links to them
	tail, _ := a.Create(link{})
	mid, _ := a.Create(link{next: tail})
	_, headRef := a.Create(link{next: mid})

	var order []Pointer
	reclaim := func(p Pointer, l *link) {
		order = append(order, p)
		if r, ok := a.Ref(l.next); ok {
			r.Release()
		}
	}
	assert.Equal(t, 0, a.SyncPending(reclaim))
	assert.Equal(t, 3, a.Len())

	headRef.Release()
	assert.Equal(t, 3, a.SyncPending(reclaim))
	assert.Equal(t, 0, a.Len())
	assert.Len(t, order, 3)
}

func TestArenaRetainRevivesBeforeSweep(t *testing.T) {
	a := NewArena[int](0)
	p, ref := a.Create(1)
	ref.Release()
	require.True(t, a.Retain(p))
	assert.Equal(t, 0, a.SyncPending(nil))
	assert.True(t, a.Contains(p))
}

func TestRefConcurrentRelease(t *testing.T) {
	a := NewArena[int](0)
	p, ref := a.Create(1)
	for i := 0; i < 99; i++ {
		ref.Retain()
	}
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ref.Release()
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(0), ref.Count())
	assert.Equal(t, 1, a.SyncPending(nil))
	assert.False(t, a.Contains(p))
	assert.Panics(t, func() { ref.Release() })
}

func TestArenaSyncPendingVisitsReleasedOnly(t *testing.T) {
	a := NewArena[int](0)
	refs := make([]*Ref, 0, 100)
	for i := 0; i < 100; i++ {
		_, ref := a.Create(i)
		refs = append(refs, ref)
	}
	assert.Equal(t, 0, a.Pending())
	assert.Equal(t, 0, a.SyncPending(func(Pointer, *int) { t.Fatal("nothing was released") }))

	p, _ := a.Create(100)
	require.True(t, a.Retain(p))
	ref, _ := a.Ref(p)
	ref.Release()
	ref.Release()
	assert.Equal(t, 1, a.Pending())
	require.True(t, a.Retain(p))
	ref.Release()
	assert.Equal(t, 2, a.Pending(), "revived and released again")

	var seen []int
	assert.Equal(t, 1, a.SyncPending(func(_ Pointer, v *int) { seen = append(seen, *v) }))
	assert.Equal(t, []int{100}, seen)
	assert.Equal(t, 0, a.Pending())
	assert.Equal(t, 100, a.Len())
	assert.Equal(t, int32(1), refs[42].Count())
}
