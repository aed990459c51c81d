package containers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingQueueFIFO(t *testing.T) {
	q := NewRingQueue[int](4)
	for i := 0; i < 3; i++ {
		q.Enqueue(i)
	}
	assert.Equal(t, 3, q.Len())

	v, err := q.Peek()
	require.NoError(t, err)
	assert.Equal(t, 0, v)

	for i := 0; i < 3; i++ {
		v, err := q.Dequeue()
		require.NoError(t, err)
		assert.Equal(t, i, v)
	}
	assert.True(t, q.IsEmpty())

	_, err = q.Dequeue()
	assert.ErrorIs(t, err, ErrQueueEmpty)
	_, err = q.Peek()
	assert.ErrorIs(t, err, ErrQueueEmpty)
}

func TestRingQueueGrowsAcrossWrap(t *testing.T) {
	q := NewRingQueue[int](2)
	q.Enqueue(1)
	q.Enqueue(2)
	v, _ := q.Dequeue()
	assert.Equal(t, 1, v)

	// write index has wrapped; growing must keep the order
	for i := 3; i <= 10; i++ {
		q.Enqueue(i)
	}
	assert.Equal(t, 9, q.Len())
	assert.GreaterOrEqual(t, q.Cap(), 9)

	got := q.DrainTo(nil)
	assert.Equal(t, []int{2, 3, 4, 5, 6, 7, 8, 9, 10}, got)
	assert.True(t, q.IsEmpty())
}

func TestRingQueueZeroSize(t *testing.T) {
	q := NewRingQueue[string](0)
	assert.Equal(t, 1, q.Cap())
	q.Enqueue("a")
	assert.True(t, q.IsFull())
	q.Enqueue("b")
	assert.Equal(t, []string{"a", "b"}, q.DrainTo(nil))
}
