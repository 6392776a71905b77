package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestSweeperEvictsOnTick(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := NewStore()
	m := NewManager(store, nil)
	m.ResolveOrCreate("idle")
	store.Get("idle").LastAccessed = time.Now().Add(-time.Hour)

	s := NewSweeper(m, 10*time.Millisecond, time.Minute, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for store.Get("idle") != nil {
		select {
		case <-deadline:
			t.Fatal("sweeper never evicted the idle session")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop on cancellation")
	}
	assert.Equal(t, 0, store.Len())
}

func TestSweeperStopsWithoutTicking(t *testing.T) {
	defer goleak.VerifyNone(t)

	m := NewManager(NewStore(), nil)
	s := NewSweeper(m, time.Hour, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop on cancellation")
	}
}
