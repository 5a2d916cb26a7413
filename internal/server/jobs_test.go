package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockExpirer struct {
	mock.Mock
}

func (m *MockExpirer) ExpireLapsed(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// signal never blocks the loop under test.
func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

func TestRunSubscriptionExpiry_SweepsUntilCancelled(t *testing.T) {
	captureLogs(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	e := new(MockExpirer)
	calls := make(chan struct{}, 10)
	e.On("ExpireLapsed", mock.Anything).Return(int64(2), nil).Run(func(mock.Arguments) {
		signal(calls)
	})

	done := make(chan struct{})
	go func() {
		RunSubscriptionExpiry(ctx, e, 10*time.Millisecond)
		close(done)
	}()

	// One immediate sweep plus at least one tick.
	for i := 0; i < 2; i++ {
		select {
		case <-calls:
		case <-time.After(time.Second):
			t.Fatal("expiry sweep did not run")
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expiry loop did not stop")
	}
}

func TestRunSubscriptionExpiry_ErrorKeepsRunning(t *testing.T) {
	buf := captureLogs(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	e := new(MockExpirer)
	calls := make(chan struct{}, 10)
	e.On("ExpireLapsed", mock.Anything).Return(int64(0), errors.New("db down")).Run(func(mock.Arguments) {
		signal(calls)
	})

	done := make(chan struct{})
	go func() {
		RunSubscriptionExpiry(ctx, e, 10*time.Millisecond)
		close(done)
	}()

	for i := 0; i < 2; i++ {
		select {
		case <-calls:
		case <-time.After(time.Second):
			t.Fatal("expiry sweep did not run")
		}
	}
	cancel()
	<-done

	assert.Contains(t, buf.String(), "subscription expiry sweep failed")
}

type queueStub struct {
	sampled chan struct{}
}

func (q *queueStub) QueueLength(ctx context.Context) int64 {
	signal(q.sampled)
	return 0
}

func TestRunQueueMonitor_SamplesImmediately(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := &queueStub{sampled: make(chan struct{}, 10)}
	go RunQueueMonitor(ctx, q, time.Hour)

	select {
	case <-q.sampled:
	case <-time.After(time.Second):
		t.Fatal("queue length was not sampled")
	}
}
