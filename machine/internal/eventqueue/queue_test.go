package eventqueue_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/couchdeveloper/Oak-sub003/machine/internal/eventqueue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_SendReceiveFIFO(t *testing.T) {
	q := eventqueue.New[int](4)
	for i := 0; i < 3; i++ {
		require.NoError(t, q.Send(i))
	}
	for i := 0; i < 3; i++ {
		ev, ok, err := q.Receive(context.Background())
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, i, ev)
	}
}

func TestQueue_SendOnFullFailsFast(t *testing.T) {
	q := eventqueue.New[string](1)
	require.NoError(t, q.Send("a"))

	start := time.Now()
	err := q.Send("b")
	require.ErrorIs(t, err, eventqueue.ErrFull)
	assert.Less(t, time.Since(start), 100*time.Millisecond, "Send must not block on overflow")
}

func TestQueue_CloseDrainsRemaining(t *testing.T) {
	q := eventqueue.New[int](4)
	require.NoError(t, q.Send(1))
	require.NoError(t, q.Send(2))
	q.Close()

	require.ErrorIs(t, q.Send(3), eventqueue.ErrClosed)

	ev, ok, err := q.Receive(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, ev)

	ev, ok, err = q.Receive(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, ev)

	_, ok, err = q.Receive(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestQueue_TerminateDiscardsPending(t *testing.T) {
	q := eventqueue.New[int](4)
	require.NoError(t, q.Send(1))
	require.NoError(t, q.Send(2))

	q.Terminate(nil)

	require.ErrorIs(t, q.Send(3), eventqueue.ErrTerminated)

	_, ok, err := q.Receive(context.Background())
	assert.False(t, ok)
	require.ErrorIs(t, err, eventqueue.ErrTerminated)
}

func TestQueue_TerminateFirstReasonWins(t *testing.T) {
	q := eventqueue.New[int](1)
	first := errors.New("first")
	q.Terminate(first)
	q.Terminate(errors.New("second"))

	require.ErrorIs(t, q.Err(), first)
}

func TestQueue_TerminateAfterClose(t *testing.T) {
	q := eventqueue.New[int](2)
	require.NoError(t, q.Send(1))
	q.Close()
	q.Terminate(nil)

	_, ok, err := q.Receive(context.Background())
	assert.False(t, ok)
	require.ErrorIs(t, err, eventqueue.ErrTerminated)
}

func TestQueue_TerminateUnblocksReceiver(t *testing.T) {
	q := eventqueue.New[int](1)
	errCh := make(chan error, 1)
	ready := make(chan struct{})
	go func() {
		close(ready)
		_, _, err := q.Receive(context.Background())
		errCh <- err
	}()
	<-ready

	q.Terminate(nil)

	select {
	case err := <-errCh:
		require.ErrorIs(t, err, eventqueue.ErrTerminated)
	case <-time.After(time.Second):
		t.Fatal("receiver was not unblocked by Terminate")
	}
}

func TestQueue_ReceiveHonorsContext(t *testing.T) {
	q := eventqueue.New[int](1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, ok, err := q.Receive(ctx)
	assert.False(t, ok)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
