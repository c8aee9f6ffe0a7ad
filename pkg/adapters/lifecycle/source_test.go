package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	notelifecycle "github.com/aretw0/notepad/pkg/adapters/lifecycle"
	"github.com/aretw0/notepad/pkg/core"
)

func TestSource_ForwardsEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan core.Event, 2)
	src := notelifecycle.NewSource(in)
	require.NoError(t, src.Start(ctx))

	in <- core.Event{Type: core.EventModify, Path: "/tmp/notes.json"}
	close(in)

	select {
	case e, ok := <-src.Events():
		require.True(t, ok)
		assert.Equal(t, "MODIFY /tmp/notes.json", e.String())
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for event")
	}

	select {
	case _, ok := <-src.Events():
		assert.False(t, ok, "output should close after input closes")
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for close")
	}
}

func TestSource_CoalescesUndeliveredEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Unbuffered: each send returns only once the source has taken the event.
	in := make(chan core.Event)
	src := notelifecycle.NewSource(in)
	require.NoError(t, src.Start(ctx))

	in <- core.Event{Type: core.EventModify, Path: "first"}
	in <- core.Event{Type: core.EventDelete, Path: "second"}
	in <- core.Event{Type: core.EventModify, Path: "third"}
	close(in)

	var got []string
	for e := range src.Events() {
		got = append(got, e.String())
	}
	assert.Equal(t, []string{"MODIFY third"}, got)
}

func TestSource_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := notelifecycle.NewSource(make(chan core.Event))
	require.NoError(t, src.Start(ctx))
	cancel()

	select {
	case _, ok := <-src.Events():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("source did not stop")
	}
}
