package queue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestFIFO(t *testing.T) {
	q := New[string](3)

	require.NoError(t, q.Enqueue("a"))
	require.NoError(t, q.Enqueue("b"))
	require.NoError(t, q.Enqueue("c"))

	for _, want := range []string{"a", "b", "c"} {
		got, err := q.Dequeue()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestBoundedEnqueueSuspends(t *testing.T) {
	q := New[string](1)

	// First enqueue completes synchronously: 0 -> 1.
	require.NoError(t, q.Enqueue("a"))
	require.Equal(t, 1, q.Len())

	// Second enqueue suspends at capacity.
	enqueued := make(chan error, 1)
	go func() {
		enqueued <- q.Enqueue("b")
	}()

	select {
	case err := <-enqueued:
		t.Fatalf("enqueue at capacity returned early: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	// Dequeue frees a slot and resumes the suspended enqueue.
	got, err := q.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, "a", got)

	select {
	case err := <-enqueued:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("suspended enqueue never resumed")
	}
	assert.Equal(t, 1, q.Len())

	got, err = q.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, "b", got)
}

func TestDequeueSuspendsUntilEnqueue(t *testing.T) {
	q := New[int](0)

	got := make(chan int, 1)
	go func() {
		v, err := q.Dequeue()
		if err != nil {
			t.Error(err)
		}
		got <- v
	}()

	select {
	case v := <-got:
		t.Fatalf("dequeue on empty queue returned early: %d", v)
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, q.Enqueue(9))

	select {
	case v := <-got:
		assert.Equal(t, 9, v)
	case <-time.After(time.Second):
		t.Fatal("suspended dequeue never resumed")
	}
}

func TestUnboundedEnqueueNeverSuspends(t *testing.T) {
	q := New[int](0)

	// If any enqueue suspended this test would hang.
	for i := 0; i < 1000; i++ {
		require.NoError(t, q.Enqueue(i))
	}
	require.Equal(t, 1000, q.Len())

	for i := 0; i < 1000; i++ {
		got, err := q.Dequeue()
		require.NoError(t, err)
		require.Equal(t, i, got)
	}
}

func TestCloseWhilePendingDequeue(t *testing.T) {
	q := New[int](1)

	errCh := make(chan error, 1)
	go func() {
		_, err := q.Dequeue()
		errCh <- err
	}()

	select {
	case err := <-errCh:
		t.Fatalf("dequeue on empty open queue returned early: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	q.Close()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, ErrClosed)
	case <-time.After(time.Second):
		t.Fatal("pending dequeue did not observe the close")
	}
}

func TestCloseWithBacklog(t *testing.T) {
	q := New[string](0)

	require.NoError(t, q.Enqueue("a"))
	require.NoError(t, q.Enqueue("b"))
	q.Close()

	for _, want := range []string{"a", "b"} {
		got, err := q.Dequeue()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := q.Dequeue()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestEnqueueAfterClose(t *testing.T) {
	q := New[int](0)
	q.Close()

	err := q.Enqueue(1)
	assert.ErrorIs(t, err, ErrClosed)
	assert.True(t, q.Closed())
}

func TestCloseIdempotent(t *testing.T) {
	q := New[int](0)
	q.Close()
	q.Close()
	assert.True(t, q.Closed())
}

func TestLenCap(t *testing.T) {
	q := New[int](4)
	assert.Equal(t, 4, q.Cap())
	assert.Equal(t, 0, q.Len())

	require.NoError(t, q.Enqueue(1))
	assert.Equal(t, 1, q.Len())
}

func TestNegativeCapacityPanics(t *testing.T) {
	assert.Panics(t, func() {
		New[int](-1)
	})
}

func TestProducerConsumerStream(t *testing.T) {
	const n = 500
	q := New[int](8)

	go func() {
		for i := 0; i < n; i++ {
			if err := q.Enqueue(i); err != nil {
				t.Error(err)
				return
			}
		}
		q.Close()
	}()

	for i := 0; i < n; i++ {
		got, err := q.Dequeue()
		require.NoError(t, err)
		require.Equal(t, i, got, "items must dequeue in enqueue order")
	}

	_, err := q.Dequeue()
	assert.ErrorIs(t, err, ErrClosed)
}
